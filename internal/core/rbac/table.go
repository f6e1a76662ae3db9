// Package rbac holds the role-permission table and the permission gate.
//
// A Table is built once at startup and is read-only afterwards, so it is
// safe for concurrent use without locking. Decisions are never cached:
// callers resolve the member's role on every request and ask the table.
package rbac

import (
	"fmt"
	"strings"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

type permissionSet map[domain.Permission]struct{}

// Table maps role names to permission sets.
type Table struct {
	roles map[domain.RoleName]permissionSet
}

// DefaultPermissions returns the seed grants for every role.
func DefaultPermissions() map[domain.RoleName][]domain.Permission {
	admin := make([]domain.Permission, 0, len(domain.AllPermissions))
	for _, p := range domain.AllPermissions {
		if p == domain.PermDeleteWorkspace || p == domain.PermManageWorkspaceSettings {
			continue
		}
		admin = append(admin, p)
	}

	owner := make([]domain.Permission, len(domain.AllPermissions))
	copy(owner, domain.AllPermissions)

	return map[domain.RoleName][]domain.Permission{
		domain.RoleOwner: owner,
		domain.RoleAdmin: admin,
		domain.RoleMember: {
			domain.PermCreateTask,
			domain.PermEditTask,
			domain.PermViewOnly,
		},
	}
}

// NewTable copies grants into an immutable Table.
func NewTable(grants map[domain.RoleName][]domain.Permission) *Table {
	t := &Table{roles: make(map[domain.RoleName]permissionSet, len(grants))}
	for role, perms := range grants {
		set := make(permissionSet, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		t.roles[role] = set
	}
	return t
}

// Overrides replaces the grants of individual roles. Nil or empty entries
// keep the default.
type Overrides map[domain.RoleName][]string

// Build returns the default table with overrides applied. Unknown role
// names or permission tokens are rejected.
func Build(overrides Overrides) (*Table, error) {
	grants := DefaultPermissions()
	for role, raw := range overrides {
		if len(raw) == 0 {
			continue
		}
		if _, ok := grants[role]; !ok {
			return nil, fmt.Errorf("rbac: unknown role %q", role)
		}
		perms, err := ParsePermissions(raw)
		if err != nil {
			return nil, fmt.Errorf("rbac: role %s: %w", role, err)
		}
		grants[role] = perms
	}
	return NewTable(grants), nil
}

// ParsePermissions converts raw tokens, rejecting anything outside the
// closed vocabulary.
func ParsePermissions(raw []string) ([]domain.Permission, error) {
	out := make([]domain.Permission, 0, len(raw))
	for _, s := range raw {
		p := domain.Permission(strings.ToUpper(strings.TrimSpace(s)))
		if p == "" {
			continue
		}
		if !p.Valid() {
			return nil, fmt.Errorf("unknown permission %q", s)
		}
		out = append(out, p)
	}
	return out, nil
}

// Permissions returns the role's grants in canonical order.
func (t *Table) Permissions(role domain.RoleName) ([]domain.Permission, bool) {
	set, ok := t.roles[role]
	if !ok {
		return nil, false
	}
	out := make([]domain.Permission, 0, len(set))
	for _, p := range domain.AllPermissions {
		if _, ok := set[p]; ok {
			out = append(out, p)
		}
	}
	return out, true
}

// HasPermission reports whether every required permission is granted to
// role. Unknown roles have no permissions.
func (t *Table) HasPermission(role domain.RoleName, required ...domain.Permission) bool {
	set, ok := t.roles[role]
	if !ok {
		return false
	}
	for _, p := range required {
		if _, ok := set[p]; !ok {
			return false
		}
	}
	return true
}

// Enforce fails with ErrUnknownRole when role has no entry and with
// ErrAuthorizationDenied when any required permission is missing.
func (t *Table) Enforce(role domain.RoleName, required ...domain.Permission) error {
	if _, ok := t.roles[role]; !ok {
		return domain.ErrUnknownRole
	}
	if !t.HasPermission(role, required...) {
		return domain.ErrAuthorizationDenied
	}
	return nil
}

// Missing returns the first required permission the role lacks, for
// logging and metrics.
func (t *Table) Missing(role domain.RoleName, required ...domain.Permission) (domain.Permission, bool) {
	set := t.roles[role]
	for _, p := range required {
		if _, ok := set[p]; !ok {
			return p, true
		}
	}
	return "", false
}
