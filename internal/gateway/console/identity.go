package console

import (
	"net/http"

	"commandcentre/internal/access"
	"commandcentre/internal/domain"
	"commandcentre/internal/gateway/middleware"
	"commandcentre/internal/navigation"
)

type meResponse struct {
	Principal   domain.Principal    `json:"principal"`
	Role        domain.Role         `json:"role"`
	Permissions []domain.Permission `json:"permissions"`
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	writeJSON(w, http.StatusOK, meResponse{
		Principal:   *p,
		Role:        p.PrimaryRole(),
		Permissions: h.gate.Policy().EffectivePermissions(p.Roles),
	})
}

type navigationResponse struct {
	Modules []navigation.Module `json:"modules"`
}

func (h *Handler) navigation(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	writeJSON(w, http.StatusOK, navigationResponse{Modules: navigation.Visible(h.modules, p)})
}

type openModuleResponse struct {
	Allowed bool              `json:"allowed"`
	Module  navigation.Module `json:"module"`
}

// openModule is the route guard for a single module. The role list is checked
// through the gate first, then the department gate.
func (h *Handler) openModule(w http.ResponseWriter, r *http.Request) {
	m, found := navigation.Find(h.modules, r.PathValue("key"))
	if !found {
		writeJSON(w, http.StatusNotFound, domain.ErrorResponse{
			Message: "Module not found",
			Error:   "not_found",
		})
		return
	}

	byRole := middleware.Authorize(h.gate, access.RequireRole(m.RequiredRoles...), h.metrics)
	byRole(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.openDepartment(w, r, m)
	})).ServeHTTP(w, r)
}

func (h *Handler) openDepartment(w http.ResponseWriter, r *http.Request, m navigation.Module) {
	p := principal(r)
	dept := ""
	if m.Department != nil {
		dept = string(*m.Department)
	}
	if !navigation.CanOpen(m, p) {
		h.metrics.RecordDepartmentCheck(r.Context(), dept, "denied")
		writeJSON(w, http.StatusForbidden, domain.ErrorResponse{
			Message:  "Department access required",
			Required: dept,
			UserRole: string(p.PrimaryRole()),
		})
		return
	}
	h.metrics.RecordDepartmentCheck(r.Context(), dept, "allowed")
	writeJSON(w, http.StatusOK, openModuleResponse{Allowed: true, Module: m})
}
