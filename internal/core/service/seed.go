package service

import (
	"context"
	"fmt"
	"time"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
	"github.com/teamsync/workspace-api/internal/core/rbac"
)

// SeedRoles upserts one role row per table entry so members can reference
// them. It runs at startup before the server accepts traffic.
func SeedRoles(ctx context.Context, roles ports.RoleRepository, table *rbac.Table) error {
	now := time.Now().UTC()
	for _, name := range domain.RoleNames {
		perms, ok := table.Permissions(name)
		if !ok {
			return fmt.Errorf("seed roles: no table entry for %s", name)
		}
		if err := roles.Upsert(ctx, &domain.Role{Name: name, Permissions: perms, CreatedAt: now}); err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}
