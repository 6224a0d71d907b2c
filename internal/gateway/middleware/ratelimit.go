package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"commandcentre/internal/domain"
	gw "commandcentre/internal/gateway"
	"commandcentre/internal/platform/telemetry"
)

// RateLimit returns middleware that enforces per-caller rate limits. Callers
// with a principal are keyed by principal ID, everyone else by client IP, so it
// must sit after Authenticate and Session in the chain.
func RateLimit(limiter gw.RateLimiter, m *telemetry.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, kind := "ip:"+clientIP(r), "ip"
			if p, ok := gw.PrincipalFromContext(r.Context()); ok && p.ID != "" {
				key, kind = "principal:"+p.ID, "principal"
			}

			if result := limiter.Allow(key); !result.Allowed {
				m.RecordRateLimitDecision(r.Context(), kind, "denied")
				slog.Debug("request rejected", "error", domain.ErrRateLimited, "key_kind", kind,
					"request_id", gw.RequestIDFromContext(r.Context()))
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				writeError(w, http.StatusTooManyRequests, domain.ErrorResponse{
					Message:    "Too many requests",
					Error:      "rate_limited",
					RetryAfter: result.RetryAfter,
				})
				return
			}

			m.RecordRateLimitDecision(r.Context(), kind, "allowed")
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	// X-Forwarded-For is client-controlled and is not trusted here.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
