package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"commandcentre/internal/domain"
	gw "commandcentre/internal/gateway"
)

// Logging returns a middleware that logs each request using slog.
// Denied requests (401/403) are logged at warn level.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &gw.StatusWriter{ResponseWriter: w, Code: http.StatusOK}

			// The principal is attached further down the chain.
			seen := &seenPrincipal{}
			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), seenPrincipalKey{}, seen)))

			level := slog.LevelInfo
			if sw.Code == http.StatusUnauthorized || sw.Code == http.StatusForbidden {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.Code,
				"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
				"request_id", gw.RequestIDFromContext(r.Context()),
				"principal_id", seen.id,
				"user_role", seen.role,
				"auth_method", seen.method,
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

type seenPrincipalKey struct{}

type seenPrincipal struct {
	id     string
	role   string
	method gw.AuthMethod
}

// attachPrincipal stores p and how it was established on the request context
// and reports both to an enclosing Logging middleware.
func attachPrincipal(r *http.Request, p domain.Principal, method gw.AuthMethod) *http.Request {
	if seen, ok := r.Context().Value(seenPrincipalKey{}).(*seenPrincipal); ok {
		seen.id, seen.role, seen.method = p.ID, string(p.PrimaryRole()), method
	}
	ctx := gw.ContextWithPrincipal(r.Context(), p)
	return r.WithContext(gw.ContextWithAuthMethod(ctx, method))
}
