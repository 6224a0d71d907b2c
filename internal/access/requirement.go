// Package access implements the enforcement gate that sits in front of
// protected operations.
package access

import (
	"errors"
	"strings"

	"commandcentre/internal/domain"
)

// Quantifier selects how a requirement's permissions are combined.
type Quantifier string

const (
	One Quantifier = "one"
	Any Quantifier = "any"
	All Quantifier = "all"

	// roleAny is used by the role-identity requirements.
	roleAny Quantifier = "role"
)

// ParseQuantifier maps a query-string mode to a Quantifier.
func ParseQuantifier(s string) (Quantifier, bool) {
	switch Quantifier(s) {
	case One, Any, All:
		return Quantifier(s), true
	}
	return "", false
}

// Requirement is what a caller must satisfy to pass the gate.
type Requirement struct {
	Quantifier  Quantifier
	Permissions []domain.Permission
	Roles       []domain.Role
}

// Require demands a single permission.
func Require(p domain.Permission) Requirement {
	return Requirement{Quantifier: One, Permissions: []domain.Permission{p}}
}

// RequireAny demands at least one of ps. With no permissions it never passes.
func RequireAny(ps ...domain.Permission) Requirement {
	return Requirement{Quantifier: Any, Permissions: ps}
}

// RequireAll demands every one of ps.
func RequireAll(ps ...domain.Permission) Requirement {
	return Requirement{Quantifier: All, Permissions: ps}
}

// RequireRole demands that the caller holds at least one of rs. It checks role
// identity rather than permission membership.
func RequireRole(rs ...domain.Role) Requirement {
	return Requirement{Quantifier: roleAny, Roles: rs}
}

// AdminOnly admits admins.
func AdminOnly() Requirement {
	return RequireRole(domain.RoleAdmin)
}

// AdminOrExecutive admits admins and executives.
func AdminOrExecutive() Requirement {
	return RequireRole(domain.RoleAdmin, domain.RoleExecutive)
}

// Authenticated admits any principal. It is an empty all-of requirement.
func Authenticated() Requirement {
	return RequireAll()
}

// String renders the requirement the way it is echoed in 403 bodies.
func (r Requirement) String() string {
	switch r.Quantifier {
	case Any:
		return "any of: " + joinPermissions(r.Permissions)
	case All:
		return "all of: " + joinPermissions(r.Permissions)
	case roleAny:
		if len(r.Roles) == 1 {
			return "role: " + string(r.Roles[0])
		}
		names := make([]string, len(r.Roles))
		for i, role := range r.Roles {
			names[i] = string(role)
		}
		return "any role of: " + strings.Join(names, ", ")
	default:
		if len(r.Permissions) == 0 {
			return ""
		}
		return string(r.Permissions[0])
	}
}

// MetricLabel is a low-cardinality label for the requirement's quantifier.
func (r Requirement) MetricLabel() string {
	return string(r.Quantifier)
}

// ErrMalformedRequirement is returned by Validate for a single-permission
// requirement that does not name exactly one permission.
var ErrMalformedRequirement = errors.New("requirement of kind one must name exactly one permission")

// Validate reports an unknown permission referenced by the requirement, or a
// single-permission requirement built without exactly one permission.
func (r Requirement) Validate() error {
	if r.Quantifier == One && len(r.Permissions) != 1 {
		return ErrMalformedRequirement
	}
	for _, p := range r.Permissions {
		if !p.Valid() {
			return &UnknownPermissionError{Permission: p}
		}
	}
	return nil
}

// UnknownPermissionError is returned by Validate.
type UnknownPermissionError struct {
	Permission domain.Permission
}

func (e *UnknownPermissionError) Error() string {
	return "unknown permission " + string(e.Permission)
}

func (e *UnknownPermissionError) Unwrap() error {
	return domain.ErrUnknownPermission
}

func joinPermissions(ps []domain.Permission) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
