package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

const inviteCodeAttempts = 3

// workspaceBootstrap creates a workspace together with its OWNER
// membership and points the owner at it. Callers run it inside a unit of
// work.
type workspaceBootstrap struct {
	users      ports.UserRepository
	workspaces ports.WorkspaceRepository
	roles      ports.RoleRepository
	members    ports.MemberRepository

	inviteCode func() string
}

func (b workspaceBootstrap) create(ctx context.Context, ownerID, name, description string, now time.Time) (*domain.Workspace, *domain.Member, error) {
	ws := &domain.Workspace{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := b.insertWorkspace(ctx, ws); err != nil {
		return nil, nil, fmt.Errorf("create workspace: %w", err)
	}

	owner, err := b.roles.FindByName(ctx, domain.RoleOwner)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return nil, nil, domain.ErrRoleSeedMissing
		}
		return nil, nil, fmt.Errorf("find owner role: %w", err)
	}

	member := &domain.Member{
		UserID:      ownerID,
		WorkspaceID: ws.ID,
		RoleID:      owner.ID,
		JoinedAt:    now,
	}
	if err := b.members.Create(ctx, member); err != nil {
		return nil, nil, fmt.Errorf("create owner member: %w", err)
	}

	if err := b.users.SetCurrentWorkspace(ctx, ownerID, ws.ID); err != nil {
		return nil, nil, fmt.Errorf("set current workspace: %w", err)
	}
	return ws, member, nil
}

// insertWorkspace assigns a free invite code and stores ws. Codes already in
// use are skipped before the insert, since a duplicate key error aborts a
// Mongo transaction.
func (b workspaceBootstrap) insertWorkspace(ctx context.Context, ws *domain.Workspace) error {
	gen := b.inviteCode
	if gen == nil {
		gen = generateInviteCode
	}

	var err error = domain.ErrInviteCodeTaken
	for attempt := 0; attempt < inviteCodeAttempts && errors.Is(err, domain.ErrInviteCodeTaken); attempt++ {
		ws.InviteCode = gen()
		_, err = b.workspaces.FindByInviteCode(ctx, ws.InviteCode)
		switch {
		case err == nil:
			err = domain.ErrInviteCodeTaken
		case errors.Is(err, domain.ErrWorkspaceNotFound):
			err = b.workspaces.Create(ctx, ws)
		}
	}
	return err
}
