package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"commandcentre/internal/access"
	"commandcentre/internal/domain"
	gw "commandcentre/internal/gateway"
	"commandcentre/internal/gateway/middleware"
	"commandcentre/internal/platform/telemetry"
)

const backendLabel = "crud"

// Principal headers the CRUD backend trusts. Inbound copies are always removed
// so a client cannot forge them.
const (
	HeaderPrincipalID          = "X-Principal-ID"
	HeaderPrincipalRoles       = "X-Principal-Roles"
	HeaderPrincipalDepartments = "X-Principal-Departments"
)

// ReadinessCheck reports whether a dependency is ready to serve.
type ReadinessCheck func(ctx context.Context) error

// Router passes /api resource requests through the enforcement gate and then
// to the CRUD backend. It also serves the health endpoints.
type Router struct {
	mux     *http.ServeMux
	gate    *access.Gate
	backend *url.URL
	routes  []route
	ready   []ReadinessCheck
	metrics *telemetry.Metrics
}

// NewRouter creates a router for the given backend URL.
// The metrics parameter is optional; pass nil to skip metric recording.
func NewRouter(backendURL string, gate *access.Gate, m *telemetry.Metrics, ready ...ReadinessCheck) (*Router, error) {
	backend, err := url.Parse(backendURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend URL: %w", err)
	}
	if backend.Scheme == "" || backend.Host == "" {
		return nil, fmt.Errorf("parse backend URL: %q is not absolute", backendURL)
	}

	r := &Router{
		mux:     http.NewServeMux(),
		gate:    gate,
		backend: backend,
		routes:  defaultRoutes(),
		ready:   ready,
		metrics: m,
	}

	r.mux.HandleFunc("GET /healthz", r.healthz)
	r.mux.HandleFunc("GET /readyz", r.readyz)

	rp := r.reverseProxy()
	for _, rt := range r.routes {
		for _, req := range []access.Requirement{rt.read, rt.write, rt.remove, rt.approve} {
			if req.Quantifier == "" {
				continue
			}
			if err := req.Validate(); err != nil {
				return nil, fmt.Errorf("route %s: %w", rt.prefix, err)
			}
		}
		h := r.makeHandler(rt, rp)
		r.mux.HandleFunc(rt.prefix+"/{rest...}", h)
		r.mux.HandleFunc(rt.prefix, h)
	}

	return r, nil
}

// Handle registers an additional handler on the router's mux.
func (r *Router) Handle(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) reverseProxy() *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Director: func(req *http.Request) {
			req.URL.Scheme = r.backend.Scheme
			req.URL.Host = r.backend.Host
			req.Host = r.backend.Host

			// Backends trust principal headers, never the caller's credentials.
			req.Header.Del("Authorization")
			req.Header.Del("Cookie")
			req.Header.Del(HeaderPrincipalID)
			req.Header.Del(HeaderPrincipalRoles)
			req.Header.Del(HeaderPrincipalDepartments)

			if p, ok := gw.PrincipalFromContext(req.Context()); ok {
				req.Header.Set(HeaderPrincipalID, p.ID)
				req.Header.Set(HeaderPrincipalRoles, joinRoles(p.Roles))
				req.Header.Set(HeaderPrincipalDepartments, joinDepartments(p.Departments))
			}

			if reqID := gw.RequestIDFromContext(req.Context()); reqID != "" {
				req.Header.Set("X-Request-ID", reqID)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, req *http.Request, err error) {
			slog.Error("backend request failed",
				"error", err,
				"path", req.URL.Path,
				"request_id", gw.RequestIDFromContext(req.Context()),
			)
			writeJSON(w, http.StatusBadGateway, domain.ErrorResponse{
				Message: "backend unavailable",
				Error:   "bad_gateway",
			})
		},
	}
}

func (r *Router) makeHandler(rt route, rp *httputil.ReverseProxy) http.HandlerFunc {
	proxied := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		sw := &gw.StatusWriter{ResponseWriter: w, Code: http.StatusOK}
		rp.ServeHTTP(sw, req)
		r.metrics.RecordProxyRequest(req.Context(), backendLabel, sw.Code, time.Since(start).Seconds())
	})
	return func(w http.ResponseWriter, req *http.Request) {
		need := rt.requirementFor(req.Method, req.URL.Path)
		middleware.Authorize(r.gate, need, r.metrics)(proxied).ServeHTTP(w, req)
	}
}

func (r *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (r *Router) readyz(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()
	for _, check := range r.ready {
		if err := check(ctx); err != nil {
			slog.Warn("readiness check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func joinRoles(rs []domain.Role) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

func joinDepartments(ds []domain.Department) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}
