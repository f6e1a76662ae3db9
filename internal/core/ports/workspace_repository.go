package ports

import (
	"context"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

// WorkspaceRepository persists workspaces. Create and SetInviteCode map an
// invite code collision to domain.ErrInviteCodeTaken.
type WorkspaceRepository interface {
	Create(ctx context.Context, w *domain.Workspace) error
	FindByID(ctx context.Context, id string) (*domain.Workspace, error)
	FindByInviteCode(ctx context.Context, code string) (*domain.Workspace, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Workspace, error)
	Update(ctx context.Context, w *domain.Workspace) error
	SetInviteCode(ctx context.Context, id, code string) error
	Delete(ctx context.Context, id string) error
}

// RoleRepository reads the seeded roles. Upsert is only used by seeding.
type RoleRepository interface {
	FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
	Upsert(ctx context.Context, r *domain.Role) error
}

// MemberRepository persists memberships. Create maps a duplicate
// (user, workspace) pair to domain.ErrAlreadyMember.
type MemberRepository interface {
	Create(ctx context.Context, m *domain.Member) error
	Find(ctx context.Context, userID, workspaceID string) (*domain.Member, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Member, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*domain.Member, error)
	UpdateRole(ctx context.Context, userID, workspaceID, roleID string) error
	Delete(ctx context.Context, userID, workspaceID string) error
	DeleteByWorkspace(ctx context.Context, workspaceID string) (int64, error)
}
