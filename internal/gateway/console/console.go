// Package console serves the JSON endpoints the web and mobile clients use to
// learn what the signed-in principal may do: identity, navigation, route
// guards, ad-hoc permission checks and session lifecycle.
package console

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"commandcentre/internal/access"
	"commandcentre/internal/domain"
	gw "commandcentre/internal/gateway"
	"commandcentre/internal/gateway/middleware"
	"commandcentre/internal/navigation"
	"commandcentre/internal/platform/telemetry"
)

// Mux is the registration surface shared by http.ServeMux and proxy.Router.
type Mux interface {
	Handle(pattern string, h http.Handler)
}

// SessionConfig controls the session cookie.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Handler serves the console API.
type Handler struct {
	gate     *access.Gate
	modules  []navigation.Module
	sessions gw.SessionStore
	session  SessionConfig
	metrics  *telemetry.Metrics
}

// New creates a console handler. modules is the navigation table, usually
// navigation.DefaultModules().
func New(gate *access.Gate, modules []navigation.Module, sessions gw.SessionStore, session SessionConfig, m *telemetry.Metrics) *Handler {
	return &Handler{
		gate:     gate,
		modules:  modules,
		sessions: sessions,
		session:  session,
		metrics:  m,
	}
}

// Register mounts the console routes on mux. Every route except session
// deletion requires an authenticated principal; the policy dump is admin-only.
func (h *Handler) Register(mux Mux) {
	authed := middleware.Authorize(h.gate, access.Authenticated(), h.metrics)
	mux.Handle("GET /api/me", authed(http.HandlerFunc(h.me)))
	mux.Handle("GET /api/navigation", authed(http.HandlerFunc(h.navigation)))
	mux.Handle("GET /api/navigation/{key}", authed(http.HandlerFunc(h.openModule)))
	mux.Handle("GET /api/access/check", authed(http.HandlerFunc(h.check)))
	mux.Handle("GET /api/access/policy", middleware.RequireAdmin(h.gate, h.metrics)(http.HandlerFunc(h.policy)))
	mux.Handle("POST /api/session", authed(http.HandlerFunc(h.createSession)))
	mux.Handle("DELETE /api/session", http.HandlerFunc(h.deleteSession))
}

// principal returns the caller. Only valid behind Authorize.
func principal(r *http.Request) *domain.Principal {
	p, _ := gw.PrincipalFromContext(r.Context())
	return p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("console request failed",
		"error", err,
		"path", r.URL.Path,
		"request_id", gw.RequestIDFromContext(r.Context()),
	)
	writeJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
		Message: "an unexpected error occurred",
		Error:   "internal_error",
	})
}
