// Package navigation decides which application modules a principal may see
// and open. It is the coarse, department-scoped axis of access control and is
// evaluated independently from permission checks.
package navigation

import "commandcentre/internal/domain"

// CheckDepartmentAccess reports whether principal may open a feature scoped to
// department. A nil department marks a department-agnostic feature.
// Admins and executives bypass department scoping.
func CheckDepartmentAccess(department *domain.Department, principal *domain.Principal) bool {
	if principal == nil {
		return false
	}
	if bypassesDepartments(principal) {
		return true
	}
	if department == nil {
		return true
	}
	return principal.InDepartment(*department)
}

func bypassesDepartments(p *domain.Principal) bool {
	return p.HasAnyRole(domain.RoleAdmin, domain.RoleExecutive)
}

// Dept returns a pointer to d, for module tables and callers building
// department-scoped checks.
func Dept(d domain.Department) *domain.Department {
	return &d
}
