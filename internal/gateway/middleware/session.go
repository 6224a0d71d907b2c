package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"commandcentre/internal/domain"
	gw "commandcentre/internal/gateway"
	"commandcentre/internal/platform/telemetry"
)

// Session returns a middleware that resolves the principal from a session
// cookie when no bearer token supplied one. The snapshot is read from store on
// every request, so role and department changes take effect immediately.
// An unknown or expired session leaves the request unauthenticated.
func Session(store gw.SessionStore, cookieName string, m *telemetry.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := gw.PrincipalFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}
			c, err := r.Cookie(cookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			p, err := store.Get(r.Context(), c.Value)
			switch {
			case err == nil:
				m.RecordSessionLookup(r.Context(), "hit")
				r = attachPrincipal(r, p, gw.AuthSession)
			case errors.Is(err, domain.ErrSessionNotFound):
				m.RecordSessionLookup(r.Context(), "miss")
			default:
				slog.Error("session lookup failed",
					"error", err,
					"request_id", gw.RequestIDFromContext(r.Context()),
				)
				m.RecordSessionLookup(r.Context(), "error")
			}
			next.ServeHTTP(w, r)
		})
	}
}
