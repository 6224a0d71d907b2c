package console

import (
	"errors"
	"net/http"

	"commandcentre/internal/access"
	"commandcentre/internal/domain"
)

type checkResponse struct {
	Allowed     bool                `json:"allowed"`
	Mode        access.Quantifier   `json:"mode"`
	Permissions []domain.Permission `json:"permissions"`
}

// check evaluates ?permission=...&mode=one|any|all for the caller without
// side effects. mode defaults to one for a single permission and all otherwise.
func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	perms := make([]domain.Permission, 0, len(q["permission"]))
	for _, s := range q["permission"] {
		perms = append(perms, domain.Permission(s))
	}

	mode := access.All
	if len(perms) == 1 {
		mode = access.One
	}
	if s := q.Get("mode"); s != "" {
		parsed, ok := access.ParseQuantifier(s)
		if !ok {
			writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Message: "mode must be one of: one, any, all",
				Error:   "bad_request",
			})
			return
		}
		mode = parsed
	}
	if mode == access.One && len(perms) != 1 {
		writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Message: "mode one takes exactly one permission",
			Error:   "bad_request",
		})
		return
	}

	req := access.Requirement{Quantifier: mode, Permissions: perms}
	if err := req.Validate(); err != nil {
		var unknown *access.UnknownPermissionError
		msg := err.Error()
		if errors.As(err, &unknown) {
			msg = "unknown permission: " + string(unknown.Permission)
		}
		writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Message: msg,
			Error:   "unknown_permission",
		})
		return
	}

	err := h.gate.Check(principal(r), req)
	writeJSON(w, http.StatusOK, checkResponse{
		Allowed:     err == nil,
		Mode:        mode,
		Permissions: perms,
	})
}

type policyResponse struct {
	Permissions []domain.Permission                 `json:"permissions"`
	Roles       map[domain.Role][]domain.Permission `json:"roles"`
}

func (h *Handler) policy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, policyResponse{
		Permissions: domain.AllPermissions(),
		Roles:       h.gate.Policy().Grants(),
	})
}
