package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"commandcentre/internal/access"
	"commandcentre/internal/domain"
	"commandcentre/internal/gateway/adapter/inmem"
	"commandcentre/internal/gateway/adapter/proxy"
	"commandcentre/internal/gateway/console"
	"commandcentre/internal/gateway/middleware"
	"commandcentre/internal/navigation"
	"commandcentre/internal/platform/server"
	"commandcentre/internal/platform/telemetry"
	"commandcentre/internal/rbac"
	"commandcentre/internal/testutil"
)

const cookieName = "cc_session"

// The Prometheus exporter registers globally, so it is set up once per binary.
var (
	telemetryOnce sync.Once
	telemetryErr  error
)

type env struct {
	baseURL  string
	sessions *inmem.SessionStore
}

// startConsole wires the service the way cmd/commandcentre does and starts it.
func startConsole(t *testing.T, backendURL string, rl *inmem.RateLimiter) *env {
	t.Helper()

	telemetryOnce.Do(func() {
		_, telemetryErr = telemetry.Setup(context.Background(), "commandcentre-test")
	})
	if telemetryErr != nil {
		t.Fatalf("telemetry setup: %v", telemetryErr)
	}
	metrics, err := telemetry.NewMetrics()
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}

	gate := access.NewGate(rbac.MustDefault())
	sessions := inmem.NewSessionStore(nil)
	if rl == nil {
		rl = inmem.NewRateLimiter(10000, 10000, nil)
	}

	router, err := proxy.NewRouter(backendURL, gate, metrics)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	console.New(gate, navigation.DefaultModules(), sessions, console.SessionConfig{
		CookieName: cookieName,
		TTL:        time.Hour,
	}, metrics).Register(router)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.MetricsHandler())
	mux.Handle("/", middleware.Chain(
		router,
		middleware.Metrics(metrics),
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.Recovery,
		middleware.MaxBodySize(1<<20),
		middleware.Authenticate(testutil.TestSecret, testutil.TestIssuer, metrics),
		middleware.Session(sessions, cookieName, metrics),
		middleware.RateLimit(rl, metrics),
	))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening: %v", err)
	}
	srv := server.New("", mux, server.Timeouts{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ctx, ln); err != nil {
			t.Logf("server error: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return &env{baseURL: "http://" + ln.Addr().String(), sessions: sessions}
}

func request(t *testing.T, method, url, token string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return strings.TrimSpace(string(b))
}

func TestProtectedResourceFlow(t *testing.T) {
	backend := httptest.NewServer(testutil.MockBackendHandler("crud"))
	defer backend.Close()
	e := startConsole(t, backend.URL, nil)

	manager := testutil.Principal("user-42", domain.RoleManager, domain.DeptFinance)
	managerToken := testutil.IssueTestToken(t, testutil.TestSecret, manager, 15*time.Minute)
	executiveToken := testutil.IssueTestToken(t, testutil.TestSecret, testutil.Principal("exec-1", domain.RoleExecutive), 15*time.Minute)

	t.Run("manager reads transactions", func(t *testing.T) {
		resp := request(t, http.MethodGet, e.baseURL+"/api/transactions", managerToken)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if body["principal_id"] != "user-42" || body["principal_roles"] != "manager" || body["principal_departments"] != "finance" {
			t.Errorf("unexpected principal headers: %v", body)
		}
		if body["authorization"] != "" {
			t.Error("Authorization must not reach the backend")
		}
		if body["request_id"] == "" {
			t.Error("expected request ID to be forwarded")
		}
	})

	t.Run("unauthenticated request returns 401", func(t *testing.T) {
		resp := request(t, http.MethodGet, e.baseURL+"/api/transactions", "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
		if got := readBody(t, resp); got != `{"message":"Authentication required"}` {
			t.Errorf("unexpected body %s", got)
		}
	})

	t.Run("expired token returns 401", func(t *testing.T) {
		expired := testutil.IssueTestToken(t, testutil.TestSecret, manager, -time.Minute)
		resp := request(t, http.MethodGet, e.baseURL+"/api/transactions", expired)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
		if got := readBody(t, resp); got != `{"message":"Invalid or expired token"}` {
			t.Errorf("unexpected body %s", got)
		}
	})

	t.Run("manager cannot approve financials", func(t *testing.T) {
		resp := request(t, http.MethodPost, e.baseURL+"/api/payroll/7/approve", managerToken)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", resp.StatusCode)
		}
		want := `{"message":"Insufficient permissions","required":"all of: payroll:approve, financial:approve","userRole":"manager"}`
		if got := readBody(t, resp); got != want {
			t.Errorf("body mismatch\nwant %s\ngot  %s", want, got)
		}
	})

	t.Run("executive approves payroll", func(t *testing.T) {
		resp := request(t, http.MethodPost, e.baseURL+"/api/payroll/7/approve", executiveToken)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("unknown path returns 404", func(t *testing.T) {
		resp := request(t, http.MethodGet, e.baseURL+"/api/unknown", managerToken)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("healthz accessible without auth", func(t *testing.T) {
		resp := request(t, http.MethodGet, e.baseURL+"/healthz", "")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("metrics exposed", func(t *testing.T) {
		resp := request(t, http.MethodGet, e.baseURL+"/metrics", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		body := readBody(t, resp)
		if !strings.Contains(body, "commandcentre_authz_decisions_total") {
			t.Error("expected authz decision counter in /metrics output")
		}
	})

	t.Run("request ID propagated", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, e.baseURL+"/api/transactions", nil)
		req.Header.Set("Authorization", "Bearer "+managerToken)
		req.Header.Set("X-Request-ID", "trace-abc")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		defer resp.Body.Close()

		if resp.Header.Get("X-Request-ID") != "trace-abc" {
			t.Errorf("expected response request ID trace-abc, got %q", resp.Header.Get("X-Request-ID"))
		}
		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		if body["request_id"] != "trace-abc" {
			t.Errorf("expected backend to see trace-abc, got %v", body["request_id"])
		}
	})
}

func TestSessionNavigationFlow(t *testing.T) {
	e := startConsole(t, "http://unused.invalid", nil)

	staff := testutil.Principal("staff-1", domain.RoleStaff, domain.DeptSales)
	token := testutil.IssueTestToken(t, testutil.TestSecret, staff, 15*time.Minute)

	resp := request(t, http.MethodPost, e.baseURL+"/api/session", token)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var sid *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			sid = c
		}
	}
	if sid == nil {
		t.Fatal("expected session cookie")
	}

	modules := func() []string {
		resp := request(t, http.MethodGet, e.baseURL+"/api/navigation", "", sid)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var body struct {
			Modules []navigation.Module `json:"modules"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		keys := make([]string, len(body.Modules))
		for i, m := range body.Modules {
			keys[i] = m.Key
		}
		return keys
	}

	if got := strings.Join(modules(), ","); got != "sales,customers" {
		t.Errorf("expected sales,customers, got %s", got)
	}

	resp = request(t, http.MethodGet, e.baseURL+"/api/navigation/finance", "", sid)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	want := `{"message":"Department access required","required":"finance","userRole":"staff"}`
	if got := readBody(t, resp); got != want {
		t.Errorf("body mismatch\nwant %s\ngot  %s", want, got)
	}

	// Moving the user to finance is visible on the next request.
	staff.Departments = []domain.Department{domain.DeptFinance}
	if err := e.sessions.Save(context.Background(), sid.Value, staff, time.Hour); err != nil {
		t.Fatalf("updating session: %v", err)
	}
	if got := strings.Join(modules(), ","); got != "finance,transactions" {
		t.Errorf("expected finance,transactions, got %s", got)
	}

	resp = request(t, http.MethodDelete, e.baseURL+"/api/session", "", sid)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	resp = request(t, http.MethodGet, e.baseURL+"/api/navigation", "", sid)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestRateLimitingIntegration(t *testing.T) {
	now := time.Now()
	rl := inmem.NewRateLimiter(1, 3, func() time.Time { return now })
	e := startConsole(t, "http://unused.invalid", rl)

	token := testutil.IssueTestToken(t, testutil.TestSecret, testutil.Principal("busy", domain.RoleStaff), time.Minute)

	for i := range 3 {
		resp := request(t, http.MethodGet, e.baseURL+"/api/me", token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, resp.StatusCode)
		}
	}

	resp := request(t, http.MethodGet, e.baseURL+"/api/me", token)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	// Another principal has its own bucket.
	other := testutil.IssueTestToken(t, testutil.TestSecret, testutil.Principal("calm", domain.RoleStaff), time.Minute)
	resp = request(t, http.MethodGet, e.baseURL+"/api/me", other)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for a different principal, got %d", resp.StatusCode)
	}
}
