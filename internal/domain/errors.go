package domain

import "errors"

// Sentinel errors used across service boundaries.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrRateLimited       = errors.New("rate limited")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrSessionNotFound   = errors.New("session not found")
	ErrUnknownPermission = errors.New("unknown permission")
)

// ErrorResponse is the JSON error envelope returned to clients.
// Message is always present; the remaining fields are set only where a
// response shape calls for them.
type ErrorResponse struct {
	Message    string `json:"message"`
	Required   string `json:"required,omitempty"`
	UserRole   string `json:"userRole,omitempty"`
	Error      string `json:"error,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
}
