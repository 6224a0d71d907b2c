package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"commandcentre/internal/domain"
	"commandcentre/internal/gateway/middleware"
)

// TestSecret is the HS256 signing secret shared by tests.
var TestSecret = []byte("commandcentre-test-secret-0123456789")

// TestIssuer is the issuer claim set by IssueTestToken.
const TestIssuer = "commandcentre-test"

// IssueTestToken creates a signed HS256 JWT for testing.
// A negative ttl produces an already-expired token.
func IssueTestToken(t *testing.T, secret []byte, principal domain.Principal, ttl time.Duration) string {
	t.Helper()
	signed, err := SignToken(secret, TestIssuer, principal, ttl)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

// SignToken builds and signs the claims the Authenticate middleware expects.
func SignToken(secret []byte, issuer string, principal domain.Principal, ttl time.Duration) (string, error) {
	return middleware.SignToken(secret, issuer, principal, ttl)
}

// Principal returns a principal with a single role and the given departments.
func Principal(id string, role domain.Role, depts ...domain.Department) domain.Principal {
	return domain.Principal{
		ID:          id,
		Email:       id + "@example.com",
		Roles:       []domain.Role{role},
		Departments: depts,
	}
}

// MockBackendHandler returns an http.Handler that echoes request details.
// Used to test that principal headers reach the CRUD backend.
func MockBackendHandler(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"backend":               name,
			"method":                r.Method,
			"path":                  r.URL.Path,
			"principal_id":          r.Header.Get("X-Principal-ID"),
			"principal_roles":       r.Header.Get("X-Principal-Roles"),
			"principal_departments": r.Header.Get("X-Principal-Departments"),
			"request_id":            r.Header.Get("X-Request-ID"),
			"authorization":         r.Header.Get("Authorization"),
			"cookie":                r.Header.Get("Cookie"),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})
}

// MapSessionStore is a minimal gateway.SessionStore for tests that need to
// mutate a stored snapshot between requests.
type MapSessionStore struct {
	Sessions map[string]domain.Principal
	Err      error
}

func (s *MapSessionStore) Get(_ context.Context, id string) (domain.Principal, error) {
	if s.Err != nil {
		return domain.Principal{}, s.Err
	}
	p, ok := s.Sessions[id]
	if !ok {
		return domain.Principal{}, domain.ErrSessionNotFound
	}
	return p, nil
}

func (s *MapSessionStore) Save(_ context.Context, id string, p domain.Principal, _ time.Duration) error {
	if s.Err != nil {
		return s.Err
	}
	if s.Sessions == nil {
		s.Sessions = make(map[string]domain.Principal)
	}
	s.Sessions[id] = p
	return nil
}

func (s *MapSessionStore) Delete(_ context.Context, id string) error {
	if s.Err != nil {
		return s.Err
	}
	delete(s.Sessions, id)
	return nil
}
