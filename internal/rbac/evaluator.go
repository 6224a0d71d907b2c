package rbac

import "commandcentre/internal/domain"

// HasPermission reports whether any of roles grants p.
func (p *Policy) HasPermission(roles []domain.Role, perm domain.Permission) bool {
	for _, r := range roles {
		if p.granted(r, perm) {
			return true
		}
	}
	return false
}

// HasAny reports whether roles satisfy at least one of perms.
// An empty requirement is unsatisfiable: it means nothing was actually
// requested, and that must not open a gate.
func (p *Policy) HasAny(roles []domain.Role, perms []domain.Permission) bool {
	for _, perm := range perms {
		if p.HasPermission(roles, perm) {
			return true
		}
	}
	return false
}

// HasAll reports whether roles satisfy every one of perms.
// An empty requirement is vacuously satisfied.
func (p *Policy) HasAll(roles []domain.Role, perms []domain.Permission) bool {
	for _, perm := range perms {
		if !p.HasPermission(roles, perm) {
			return false
		}
	}
	return true
}

// EffectivePermissions returns the union of the permissions granted to roles,
// in catalog order.
func (p *Policy) EffectivePermissions(roles []domain.Role) []domain.Permission {
	seen := make(map[domain.Permission]struct{})
	out := make([]domain.Permission, 0)
	for _, r := range roles {
		for perm := range p.grants[r] {
			if _, ok := seen[perm]; ok {
				continue
			}
			seen[perm] = struct{}{}
			out = append(out, perm)
		}
	}
	sortByCatalog(out)
	return out
}
