package ports

import (
	"context"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

type CreateWorkspaceInput struct {
	Name        string
	Description string
}

// UpdateWorkspaceInput is a partial update; nil fields are left unchanged.
type UpdateWorkspaceInput struct {
	Name        *string
	Description *string
}

type WorkspaceDetail struct {
	Workspace *domain.Workspace
	Role      *domain.Role
	Members   []*domain.Member
}

type WorkspaceMembers struct {
	Members []*domain.MemberDetail
	Roles   []*domain.RoleSummary
}

type WorkspaceService interface {
	Create(ctx context.Context, userID string, in CreateWorkspaceInput) (*domain.Workspace, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Workspace, error)
	Get(ctx context.Context, userID, workspaceID string) (*WorkspaceDetail, error)
	Members(ctx context.Context, userID, workspaceID string) (*WorkspaceMembers, error)
	Analytics(ctx context.Context, userID, workspaceID string) (domain.TaskAnalytics, error)
	ChangeMemberRole(ctx context.Context, userID, workspaceID, memberUserID, roleID string) (*domain.Member, error)
	Update(ctx context.Context, userID, workspaceID string, in UpdateWorkspaceInput) (*domain.Workspace, error)
	// Delete removes the workspace with its projects, tasks and members and
	// returns the caller's current workspace afterwards (may be empty).
	Delete(ctx context.Context, userID, workspaceID string) (string, error)
	ResetInviteCode(ctx context.Context, userID, workspaceID string) (*domain.Workspace, error)
	RemoveMember(ctx context.Context, userID, workspaceID, memberUserID string) error
}
