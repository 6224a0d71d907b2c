package middleware

import (
	"net/http"
	"time"

	gw "commandcentre/internal/gateway"
	"commandcentre/internal/platform/telemetry"
)

// Metrics returns middleware that records HTTP request metrics.
// Place as the outermost middleware to capture the full request lifecycle.
// A nil m disables recording.
func Metrics(m *telemetry.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &gw.StatusWriter{ResponseWriter: w, Code: http.StatusOK}

			next.ServeHTTP(sw, r)

			m.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, sw.Code, time.Since(start).Seconds())
		})
	}
}
