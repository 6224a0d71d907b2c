// Package rbac holds the role-permission map and the permission evaluator.
//
// A Policy is immutable once built. The admin grant is never read from the
// table: it is derived from the full permission catalog, so adding a
// permission to the catalog extends admin automatically.
package rbac

import (
	"fmt"
	"slices"

	"commandcentre/internal/domain"
)

// Policy maps roles to permission sets. It is safe for concurrent use.
type Policy struct {
	grants map[domain.Role]map[domain.Permission]struct{}
}

// NewPolicy builds a policy from a role table. Every permission in the table
// must belong to the catalog. Any admin entry in the table is ignored and
// replaced by the full catalog.
func NewPolicy(table map[domain.Role][]domain.Permission) (*Policy, error) {
	grants := make(map[domain.Role]map[domain.Permission]struct{}, len(table)+1)
	for role, perms := range table {
		if role == domain.RoleAdmin {
			continue
		}
		set := make(map[domain.Permission]struct{}, len(perms))
		for _, p := range perms {
			if !p.Valid() {
				return nil, fmt.Errorf("role %q grants %q: %w", role, p, domain.ErrUnknownPermission)
			}
			set[p] = struct{}{}
		}
		grants[role] = set
	}

	all := domain.AllPermissions()
	admin := make(map[domain.Permission]struct{}, len(all))
	for _, p := range all {
		admin[p] = struct{}{}
	}
	grants[domain.RoleAdmin] = admin

	return &Policy{grants: grants}, nil
}

// Default returns the compiled-in business policy.
func Default() (*Policy, error) {
	return NewPolicy(defaultTable())
}

// MustDefault is like Default but panics if the compiled-in table references
// a permission outside the catalog.
func MustDefault() *Policy {
	p, err := Default()
	if err != nil {
		panic(fmt.Sprintf("rbac: invalid default policy: %v", err))
	}
	return p
}

// PermissionsOf returns the permissions granted to role in catalog order.
// Unknown roles yield an empty slice.
func (p *Policy) PermissionsOf(role domain.Role) []domain.Permission {
	set := p.grants[role]
	out := make([]domain.Permission, 0, len(set))
	for perm := range set {
		out = append(out, perm)
	}
	sortByCatalog(out)
	return out
}

// Grants returns a snapshot of the whole role table.
func (p *Policy) Grants() map[domain.Role][]domain.Permission {
	out := make(map[domain.Role][]domain.Permission, len(p.grants))
	for role := range p.grants {
		out[role] = p.PermissionsOf(role)
	}
	return out
}

func (p *Policy) granted(role domain.Role, perm domain.Permission) bool {
	_, ok := p.grants[role][perm]
	return ok
}

func sortByCatalog(perms []domain.Permission) {
	slices.SortFunc(perms, func(a, b domain.Permission) int {
		return a.Ordinal() - b.Ordinal()
	})
}
