package ports

import (
	"context"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

// Authorizer is the single checkpoint for workspace-scoped operations.
type Authorizer interface {
	// ResolveRole returns the caller's role in the workspace.
	ResolveRole(ctx context.Context, userID, workspaceID string) (*domain.Role, error)
	// Authorize resolves the role and enforces the required permissions.
	Authorize(ctx context.Context, userID, workspaceID string, required ...domain.Permission) (*domain.Role, error)
}

type JoinResult struct {
	WorkspaceID   string
	Role          *domain.Role
	AlreadyMember bool
}

type MembershipService interface {
	Authorizer
	JoinByInvite(ctx context.Context, userID, inviteCode string) (*JoinResult, error)
}
