package navigation

import "commandcentre/internal/domain"

// Visible returns the modules principal may see, in their original order.
//
// Managers and staff only see modules tagged with one of their departments.
// Untagged modules (for example the dashboard) are hidden from them even when
// their role is listed, pending product confirmation that this is intended.
func Visible(modules []Module, principal *domain.Principal) []Module {
	out := make([]Module, 0, len(modules))
	if principal == nil {
		return out
	}
	bypass := bypassesDepartments(principal)
	for _, m := range modules {
		if !principal.HasAnyRole(m.RequiredRoles...) {
			continue
		}
		if !bypass && (m.Department == nil || !principal.InDepartment(*m.Department)) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// CanOpen is the route guard for a single module: the principal must be
// present and pass the department gate for the module's department.
func CanOpen(m Module, principal *domain.Principal) bool {
	return CheckDepartmentAccess(m.Department, principal)
}
