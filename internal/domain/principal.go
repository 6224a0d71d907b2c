package domain

import "slices"

// Role is a named bundle of permissions assigned to a principal.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleExecutive Role = "executive"
	RoleManager   Role = "manager"
	RoleStaff     Role = "staff"
)

// Roles returns every known role, most privileged first.
func Roles() []Role {
	return []Role{RoleAdmin, RoleExecutive, RoleManager, RoleStaff}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return slices.Contains(Roles(), r)
}

// Department is a coarse access-scoping label, independent of permissions.
type Department string

const (
	DeptFinance    Department = "finance"
	DeptHR         Department = "hr"
	DeptSales      Department = "sales"
	DeptOperations Department = "operations"
	DeptMarketing  Department = "marketing"
)

// Departments returns every known department.
func Departments() []Department {
	return []Department{DeptFinance, DeptHR, DeptSales, DeptOperations, DeptMarketing}
}

// Valid reports whether d is one of the known departments.
func (d Department) Valid() bool {
	return slices.Contains(Departments(), d)
}

// Principal represents an authenticated user of the Command Centre.
type Principal struct {
	ID          string       `json:"id"`
	Email       string       `json:"email,omitempty"`
	Roles       []Role       `json:"roles"`
	Departments []Department `json:"departments,omitempty"`
}

// HasRole reports whether the principal holds role r.
func (p Principal) HasRole(r Role) bool {
	return slices.Contains(p.Roles, r)
}

// HasAnyRole reports whether the principal holds at least one of rs.
func (p Principal) HasAnyRole(rs ...Role) bool {
	return slices.ContainsFunc(rs, p.HasRole)
}

// InDepartment reports whether the principal is assigned to department d.
func (p Principal) InDepartment(d Department) bool {
	return slices.Contains(p.Departments, d)
}

// PrimaryRole returns the first assigned role, or "" when the principal has none.
func (p Principal) PrimaryRole() Role {
	if len(p.Roles) == 0 {
		return ""
	}
	return p.Roles[0]
}
