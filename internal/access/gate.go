package access

import (
	"net/http"
	"slices"
	"strings"

	"commandcentre/internal/domain"
	"commandcentre/internal/rbac"
)

// DenialKind distinguishes the two ways the gate can reject a caller.
type DenialKind int

const (
	Unauthenticated DenialKind = iota + 1
	Forbidden
)

const (
	msgAuthRequired      = "Authentication required"
	msgInsufficientPerms = "Insufficient permissions"
)

// Denial is the error returned when the gate rejects a caller. It only ever
// carries the caller's own roles, never the roles that would have passed.
// UserRole is the primary role echoed to clients; Roles is the full set.
type Denial struct {
	Kind     DenialKind
	Required string
	UserRole domain.Role
	Roles    []domain.Role
}

func (d *Denial) Error() string {
	if d.Kind == Unauthenticated {
		return "access denied: authentication required"
	}
	names := make([]string, len(d.Roles))
	for i, r := range d.Roles {
		names[i] = string(r)
	}
	return "access denied: requires " + d.Required + " (roles " + strings.Join(names, ", ") + ")"
}

func (d *Denial) Unwrap() error {
	if d.Kind == Unauthenticated {
		return domain.ErrUnauthenticated
	}
	return domain.ErrForbidden
}

// Status is the HTTP status for the denial.
func (d *Denial) Status() int {
	if d.Kind == Unauthenticated {
		return http.StatusUnauthorized
	}
	return http.StatusForbidden
}

// Body is the JSON payload for the denial.
func (d *Denial) Body() domain.ErrorResponse {
	if d.Kind == Unauthenticated {
		return domain.ErrorResponse{Message: msgAuthRequired}
	}
	return domain.ErrorResponse{
		Message:  msgInsufficientPerms,
		Required: d.Required,
		UserRole: string(d.UserRole),
	}
}

// Gate decides whether a principal may run a protected operation.
// It holds no mutable state.
type Gate struct {
	policy *rbac.Policy
}

// NewGate returns a gate backed by policy.
func NewGate(policy *rbac.Policy) *Gate {
	return &Gate{policy: policy}
}

// Policy returns the policy the gate evaluates against.
func (g *Gate) Policy() *rbac.Policy {
	return g.policy
}

// Check returns nil when principal satisfies req, or a *Denial otherwise.
// A nil principal is always Unauthenticated, whatever the requirement.
func (g *Gate) Check(principal *domain.Principal, req Requirement) error {
	if principal == nil {
		return &Denial{Kind: Unauthenticated}
	}
	if g.allowed(principal, req) {
		return nil
	}
	return &Denial{
		Kind:     Forbidden,
		Required: req.String(),
		UserRole: principal.PrimaryRole(),
		Roles:    slices.Clone(principal.Roles),
	}
}

// Guard runs op exactly once, and only after principal has passed the gate.
func (g *Gate) Guard(principal *domain.Principal, req Requirement, op func() error) error {
	if err := g.Check(principal, req); err != nil {
		return err
	}
	return op()
}

func (g *Gate) allowed(principal *domain.Principal, req Requirement) bool {
	switch req.Quantifier {
	case One:
		return len(req.Permissions) == 1 && g.policy.HasPermission(principal.Roles, req.Permissions[0])
	case Any:
		return g.policy.HasAny(principal.Roles, req.Permissions)
	case All:
		return g.policy.HasAll(principal.Roles, req.Permissions)
	case roleAny:
		return principal.HasAnyRole(req.Roles...)
	default:
		return false
	}
}
