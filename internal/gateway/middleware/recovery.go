package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"commandcentre/internal/domain"
	"commandcentre/internal/gateway"
)

// Recovery catches panics from downstream handlers and returns a 500 JSON error.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				slog.Error("panic recovered",
					"error", err,
					"request_id", gateway.RequestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				writeError(w, http.StatusInternalServerError, domain.ErrorResponse{
					Message: "an unexpected error occurred",
					Error:   "internal_error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
