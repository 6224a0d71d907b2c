package gateway

import (
	"context"
	"net/http"
	"time"

	"commandcentre/internal/domain"
)

// RateLimiter decides whether a request identified by key should be allowed.
type RateLimiter interface {
	Allow(key string) RateLimitResult
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	RetryAfter int // seconds until next token available; 0 if allowed
}

// SessionStore persists principal snapshots keyed by session ID.
// Get returns domain.ErrSessionNotFound for unknown or expired sessions.
type SessionStore interface {
	Get(ctx context.Context, id string) (domain.Principal, error)
	Save(ctx context.Context, id string, p domain.Principal, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// StatusWriter wraps http.ResponseWriter to capture the status code.
type StatusWriter struct {
	http.ResponseWriter
	Code int
}

func (sw *StatusWriter) WriteHeader(code int) {
	sw.Code = code
	sw.ResponseWriter.WriteHeader(code)
}

// PrincipalFromContext extracts the authenticated principal from a request context.
// The returned pointer is a per-request copy.
func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	if !ok {
		return nil, false
	}
	return &p, true
}

// ContextWithPrincipal stores the authenticated principal in the context.
func ContextWithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

type principalKey struct{}

// AuthMethod records how the principal on a request was established.
type AuthMethod string

const (
	AuthBearer  AuthMethod = "bearer"
	AuthSession AuthMethod = "session"
)

// AuthMethodFromContext returns the method stored by ContextWithAuthMethod,
// or "" when none was recorded.
func AuthMethodFromContext(ctx context.Context) AuthMethod {
	m, _ := ctx.Value(authMethodKey{}).(AuthMethod)
	return m
}

// ContextWithAuthMethod records how the request's principal was established.
func ContextWithAuthMethod(ctx context.Context, m AuthMethod) context.Context {
	return context.WithValue(ctx, authMethodKey{}, m)
}

type authMethodKey struct{}

// RequestIDFromContext extracts the request ID from the context.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ContextWithRequestID stores the request ID in the context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

type requestIDKey struct{}
