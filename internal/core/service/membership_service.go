package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
	"github.com/teamsync/workspace-api/internal/core/rbac"
	"github.com/teamsync/workspace-api/internal/pkg/metrics"
)

// MembershipService resolves roles, enforces permissions and handles
// invite joins.
type MembershipService struct {
	workspaces ports.WorkspaceRepository
	members    ports.MemberRepository
	roles      ports.RoleRepository
	table      *rbac.Table
	log        zerolog.Logger
	now        func() time.Time
}

func NewMembershipService(
	workspaces ports.WorkspaceRepository,
	members ports.MemberRepository,
	roles ports.RoleRepository,
	table *rbac.Table,
	log zerolog.Logger,
) *MembershipService {
	return &MembershipService{
		workspaces: workspaces,
		members:    members,
		roles:      roles,
		table:      table,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *MembershipService) ResolveRole(ctx context.Context, userID, workspaceID string) (*domain.Role, error) {
	if _, err := s.workspaces.FindByID(ctx, workspaceID); err != nil {
		return nil, err
	}

	member, err := s.members.Find(ctx, userID, workspaceID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, domain.ErrNotAMember
		}
		return nil, fmt.Errorf("resolve role: %w", err)
	}

	role, err := s.roles.FindByID(ctx, member.RoleID)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			s.log.Error().
				Str("workspace_id", workspaceID).
				Str("role_id", member.RoleID).
				Msg("member references a missing role")
			return nil, domain.ErrUnknownRole
		}
		return nil, fmt.Errorf("resolve role: %w", err)
	}
	return role, nil
}

func (s *MembershipService) Authorize(ctx context.Context, userID, workspaceID string, required ...domain.Permission) (*domain.Role, error) {
	role, err := s.ResolveRole(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}

	if err := s.table.Enforce(role.Name, required...); err != nil {
		label := domain.ErrUnknownRole.Code
		if p, ok := s.table.Missing(role.Name, required...); ok && errors.Is(err, domain.ErrAuthorizationDenied) {
			label = string(p)
		}
		metrics.PermissionDenialsTotal.WithLabelValues(label).Inc()
		s.log.Debug().
			Str("user_id", userID).
			Str("workspace_id", workspaceID).
			Str("role", string(role.Name)).
			Str("missing", label).
			Msg("permission denied")
		return nil, err
	}
	return role, nil
}

// JoinByInvite adds the user to the invite's workspace as MEMBER. Joining a
// workspace twice returns the existing membership.
func (s *MembershipService) JoinByInvite(ctx context.Context, userID, inviteCode string) (*ports.JoinResult, error) {
	// 1. Resolve the workspace from the invite code.
	ws, err := s.workspaces.FindByInviteCode(ctx, inviteCode)
	if err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, fmt.Errorf("join by invite: %w", err)
	}

	// 2. Idempotent path: already a member.
	if res, err := s.existingMembership(ctx, userID, ws.ID); err == nil {
		metrics.InviteJoinsTotal.WithLabelValues("already_member").Inc()
		return res, nil
	} else if !errors.Is(err, domain.ErrMemberNotFound) {
		return nil, err
	}

	// 3. Create the membership with the default role.
	role, err := s.roles.FindByName(ctx, domain.RoleMember)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			s.log.Error().Str("role", string(domain.RoleMember)).Msg("role seed missing")
			return nil, domain.ErrRoleSeedMissing
		}
		return nil, fmt.Errorf("join by invite: %w", err)
	}

	member := &domain.Member{
		UserID:      userID,
		WorkspaceID: ws.ID,
		RoleID:      role.ID,
		JoinedAt:    s.now(),
	}
	if err := s.members.Create(ctx, member); err != nil {
		// A concurrent join won the unique index; return its row.
		if errors.Is(err, domain.ErrAlreadyMember) {
			metrics.InviteJoinsTotal.WithLabelValues("already_member").Inc()
			return s.existingMembership(ctx, userID, ws.ID)
		}
		return nil, fmt.Errorf("join by invite: %w", err)
	}

	metrics.InviteJoinsTotal.WithLabelValues("joined").Inc()
	s.log.Info().
		Str("user_id", userID).
		Str("workspace_id", ws.ID).
		Msg("member joined workspace")

	return &ports.JoinResult{WorkspaceID: ws.ID, Role: role}, nil
}

func (s *MembershipService) existingMembership(ctx context.Context, userID, workspaceID string) (*ports.JoinResult, error) {
	member, err := s.members.Find(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	role, err := s.roles.FindByID(ctx, member.RoleID)
	if err != nil {
		return nil, fmt.Errorf("load member role: %w", err)
	}
	return &ports.JoinResult{WorkspaceID: workspaceID, Role: role, AlreadyMember: true}, nil
}
