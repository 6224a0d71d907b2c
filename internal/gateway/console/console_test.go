package console_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commandcentre/internal/access"
	"commandcentre/internal/domain"
	gw "commandcentre/internal/gateway"
	"commandcentre/internal/gateway/adapter/inmem"
	"commandcentre/internal/gateway/console"
	"commandcentre/internal/navigation"
	"commandcentre/internal/rbac"
	"commandcentre/internal/testutil"
)

const cookieName = "cc_session"

type harness struct {
	mux   *http.ServeMux
	store *inmem.SessionStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := inmem.NewSessionStore(nil)
	mux := http.NewServeMux()
	console.New(
		access.NewGate(rbac.MustDefault()),
		navigation.DefaultModules(),
		store,
		console.SessionConfig{CookieName: cookieName, TTL: time.Hour},
		nil,
	).Register(mux)
	return &harness{mux: mux, store: store}
}

func (h *harness) serve(method, target string, p *domain.Principal) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if p != nil {
		ctx := gw.ContextWithPrincipal(req.Context(), *p)
		req = req.WithContext(gw.ContextWithAuthMethod(ctx, gw.AuthBearer))
	}
	rec := httptest.NewRecorder()
	h.mux.ServeHTTP(rec, req)
	return rec
}

func as(role domain.Role, depts ...domain.Department) *domain.Principal {
	p := testutil.Principal("user-"+string(role), role, depts...)
	return &p
}

func body(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return strings.TrimSpace(rec.Body.String())
}

func TestEndpointsRequireAuthentication(t *testing.T) {
	h := newHarness(t)
	for _, target := range []string{
		"/api/me",
		"/api/navigation",
		"/api/navigation/finance",
		"/api/navigation/does-not-exist",
		"/api/access/check?permission=user:read",
		"/api/access/policy",
	} {
		rec := h.serve(http.MethodGet, target, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
		assert.Equal(t, `{"message":"Authentication required"}`, body(t, rec), target)
	}

	rec := h.serve(http.MethodPost, "/api/session", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	h := newHarness(t)

	rec := h.serve(http.MethodGet, "/api/me", as(domain.RoleStaff, domain.DeptSales))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Principal   domain.Principal    `json:"principal"`
		Role        domain.Role         `json:"role"`
		Permissions []domain.Permission `json:"permissions"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "user-staff", got.Principal.ID)
	assert.Equal(t, domain.RoleStaff, got.Role)
	assert.Equal(t, rbac.MustDefault().PermissionsOf(domain.RoleStaff), got.Permissions)
	assert.NotContains(t, got.Permissions, domain.PermFinancialApprove)
}

func TestMeAdminHoldsCatalog(t *testing.T) {
	h := newHarness(t)

	rec := h.serve(http.MethodGet, "/api/me", as(domain.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Permissions []domain.Permission `json:"permissions"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, domain.AllPermissions(), got.Permissions)
}

func TestNavigation(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name      string
		principal *domain.Principal
		want      []string
	}{
		{"staff in sales", as(domain.RoleStaff, domain.DeptSales), []string{"sales", "customers"}},
		{"manager in finance", as(domain.RoleManager, domain.DeptFinance), []string{"finance", "bank-accounts", "transactions"}},
		{"roleless principal", &domain.Principal{ID: "x"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.serve(http.MethodGet, "/api/navigation", tt.principal)
			require.Equal(t, http.StatusOK, rec.Code)

			var got struct {
				Modules []navigation.Module `json:"modules"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			keys := make([]string, 0, len(got.Modules))
			for _, m := range got.Modules {
				keys = append(keys, m.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestOpenModule(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name      string
		key       string
		principal *domain.Principal
		status    int
		body      string
	}{
		{"staff in own department", "sales", as(domain.RoleStaff, domain.DeptSales), http.StatusOK, ""},
		{"staff outside department", "finance", as(domain.RoleStaff, domain.DeptSales), http.StatusForbidden,
			`{"message":"Department access required","required":"finance","userRole":"staff"}`},
		{"executive bypasses departments", "payroll", as(domain.RoleExecutive), http.StatusOK, ""},
		{"staff lacks module role", "payroll", as(domain.RoleStaff, domain.DeptHR), http.StatusForbidden,
			`{"message":"Insufficient permissions","required":"any role of: admin, executive, manager","userRole":"staff"}`},
		{"manager opens department-agnostic module", "email", as(domain.RoleManager, domain.DeptSales), http.StatusOK, ""},
		{"unknown module", "does-not-exist", as(domain.RoleAdmin), http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.serve(http.MethodGet, "/api/navigation/"+tt.key, tt.principal)
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, body(t, rec))
			}
		})
	}
}

func TestAccessCheck(t *testing.T) {
	h := newHarness(t)
	manager := as(domain.RoleManager, domain.DeptFinance)

	tests := []struct {
		name    string
		query   string
		status  int
		allowed bool
	}{
		{"single held", "permission=financial:read", http.StatusOK, true},
		{"single not held", "permission=financial:approve", http.StatusOK, false},
		{"default all", "permission=financial:read&permission=financial:approve", http.StatusOK, false},
		{"any", "permission=financial:read&permission=financial:approve&mode=any", http.StatusOK, true},
		{"empty any is false", "mode=any", http.StatusOK, false},
		{"empty all is true", "mode=all", http.StatusOK, true},
		{"bad mode", "permission=financial:read&mode=some", http.StatusBadRequest, false},
		{"one with two", "permission=financial:read&permission=user:read&mode=one", http.StatusBadRequest, false},
		{"unknown permission", "permission=financial:embezzle", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.serve(http.MethodGet, "/api/access/check?"+tt.query, manager)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status != http.StatusOK {
				return
			}
			var got struct {
				Allowed bool `json:"allowed"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.allowed, got.Allowed)
		})
	}
}

func TestPolicyIsAdminOnly(t *testing.T) {
	h := newHarness(t)

	rec := h.serve(http.MethodGet, "/api/access/policy", as(domain.RoleExecutive))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, `{"message":"Insufficient permissions","required":"role: admin","userRole":"executive"}`, body(t, rec))

	rec = h.serve(http.MethodGet, "/api/access/policy", as(domain.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Permissions []domain.Permission                 `json:"permissions"`
		Roles       map[domain.Role][]domain.Permission `json:"roles"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Len(t, got.Permissions, len(domain.AllPermissions()))
	assert.Equal(t, got.Permissions, got.Roles[domain.RoleAdmin])
	assert.Len(t, got.Roles, len(domain.Roles()))
}
