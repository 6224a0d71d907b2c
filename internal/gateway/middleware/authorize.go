package middleware

import (
	"errors"
	"net/http"

	"commandcentre/internal/access"
	"commandcentre/internal/domain"
	gw "commandcentre/internal/gateway"
	"commandcentre/internal/platform/telemetry"
)

// Authorize returns a middleware that admits a request only if its principal
// passes gate for req. Denials are written with the gate's status and body and
// the wrapped handler is not invoked.
func Authorize(gate *access.Gate, req access.Requirement, m *telemetry.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, _ := gw.PrincipalFromContext(r.Context())
			err := gate.Guard(principal, req, func() error {
				m.RecordAuthzDecision(r.Context(), req.MetricLabel(), "allowed")
				next.ServeHTTP(w, r)
				return nil
			})
			if err != nil {
				m.RecordAuthzDecision(r.Context(), req.MetricLabel(), deniedResult(err))
				WriteDenial(w, err)
			}
		})
	}
}

// RequireAdmin admits admins only.
func RequireAdmin(gate *access.Gate, m *telemetry.Metrics) Middleware {
	return Authorize(gate, access.AdminOnly(), m)
}

// WriteDenial renders a gate error as JSON. Errors that are not an
// *access.Denial are reported as 500.
func WriteDenial(w http.ResponseWriter, err error) {
	var d *access.Denial
	if errors.As(err, &d) {
		writeError(w, d.Status(), d.Body())
		return
	}
	writeError(w, http.StatusInternalServerError, domain.ErrorResponse{
		Message: "an unexpected error occurred",
		Error:   "internal_error",
	})
}

func deniedResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
