package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

// WorkspaceService manages the workspace lifecycle and its memberships.
type WorkspaceService struct {
	uow        ports.UnitOfWork
	authz      ports.Authorizer
	users      ports.UserRepository
	workspaces ports.WorkspaceRepository
	roles      ports.RoleRepository
	members    ports.MemberRepository
	projects   ports.ProjectRepository
	tasks      ports.TaskRepository
	bootstrap  workspaceBootstrap
	log        zerolog.Logger
	now        func() time.Time
}

func NewWorkspaceService(
	uow ports.UnitOfWork,
	authz ports.Authorizer,
	users ports.UserRepository,
	workspaces ports.WorkspaceRepository,
	roles ports.RoleRepository,
	members ports.MemberRepository,
	projects ports.ProjectRepository,
	tasks ports.TaskRepository,
	log zerolog.Logger,
) *WorkspaceService {
	return &WorkspaceService{
		uow:        uow,
		authz:      authz,
		users:      users,
		workspaces: workspaces,
		roles:      roles,
		members:    members,
		projects:   projects,
		tasks:      tasks,
		bootstrap: workspaceBootstrap{
			users:      users,
			workspaces: workspaces,
			roles:      roles,
			members:    members,
		},
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create makes a new workspace owned by the caller and switches the
// caller's current workspace to it.
func (s *WorkspaceService) Create(ctx context.Context, userID string, in ports.CreateWorkspaceInput) (*domain.Workspace, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	var ws *domain.Workspace
	err := s.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		created, _, err := s.bootstrap.create(ctx, userID, name, strings.TrimSpace(in.Description), s.now())
		if err != nil {
			return err
		}
		ws = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("workspace_id", ws.ID).Str("owner_id", userID).Msg("workspace created")
	return ws, nil
}

// ListForUser returns every workspace the user is a member of.
func (s *WorkspaceService) ListForUser(ctx context.Context, userID string) ([]*domain.Workspace, error) {
	memberships, err := s.members.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.WorkspaceID)
	}
	if len(ids) == 0 {
		return []*domain.Workspace{}, nil
	}
	return s.workspaces.FindByIDs(ctx, ids)
}

func (s *WorkspaceService) Get(ctx context.Context, userID, workspaceID string) (*ports.WorkspaceDetail, error) {
	role, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermViewOnly)
	if err != nil {
		return nil, err
	}
	ws, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	members, err := s.members.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return &ports.WorkspaceDetail{Workspace: ws, Role: role, Members: members}, nil
}

// Members returns the workspace members with user and role resolved, plus
// the assignable roles.
func (s *WorkspaceService) Members(ctx context.Context, userID, workspaceID string) (*ports.WorkspaceMembers, error) {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermViewOnly); err != nil {
		return nil, err
	}

	members, err := s.members.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	userIDs := make([]string, 0, len(members))
	for _, m := range members {
		userIDs = append(userIDs, m.UserID)
	}
	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load member users: %w", err)
	}

	usersByID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}
	rolesByID := make(map[string]*domain.RoleSummary, len(roles))
	out := &ports.WorkspaceMembers{
		Members: make([]*domain.MemberDetail, 0, len(members)),
		Roles:   make([]*domain.RoleSummary, 0, len(roles)),
	}
	for _, r := range roles {
		rs := &domain.RoleSummary{ID: r.ID, Name: r.Name}
		rolesByID[r.ID] = rs
		out.Roles = append(out.Roles, rs)
	}
	for _, m := range members {
		d := &domain.MemberDetail{ID: m.ID, WorkspaceID: m.WorkspaceID, Role: rolesByID[m.RoleID], JoinedAt: m.JoinedAt}
		if u, ok := usersByID[m.UserID]; ok {
			d.User = u.Summary()
		}
		out.Members = append(out.Members, d)
	}
	return out, nil
}

// Analytics counts the tasks of the whole workspace.
func (s *WorkspaceService) Analytics(ctx context.Context, userID, workspaceID string) (domain.TaskAnalytics, error) {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermViewOnly); err != nil {
		return domain.TaskAnalytics{}, err
	}
	return s.tasks.Analytics(ctx, ports.TaskScope{WorkspaceID: workspaceID}, s.now())
}

func (s *WorkspaceService) ChangeMemberRole(ctx context.Context, userID, workspaceID, memberUserID, roleID string) (*domain.Member, error) {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermChangeMemberRole); err != nil {
		return nil, err
	}

	ws, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if ws.OwnerID == memberUserID {
		return nil, domain.ErrOwnerRoleImmutable
	}

	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	// Ownership is only ever granted by creating the workspace.
	if role.Name == domain.RoleOwner {
		return nil, domain.ErrOwnerRoleImmutable
	}

	member, err := s.members.Find(ctx, memberUserID, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := s.members.UpdateRole(ctx, memberUserID, workspaceID, role.ID); err != nil {
		return nil, fmt.Errorf("change member role: %w", err)
	}
	member.RoleID = role.ID

	s.log.Info().
		Str("workspace_id", workspaceID).
		Str("member_id", memberUserID).
		Str("role", string(role.Name)).
		Msg("member role changed")
	return member, nil
}

func (s *WorkspaceService) Update(ctx context.Context, userID, workspaceID string, in ports.UpdateWorkspaceInput) (*domain.Workspace, error) {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermEditWorkspace); err != nil {
		return nil, err
	}

	ws, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name cannot be empty")
		}
		ws.Name = name
	}
	if in.Description != nil {
		ws.Description = strings.TrimSpace(*in.Description)
	}
	ws.UpdatedAt = s.now()

	if err := s.workspaces.Update(ctx, ws); err != nil {
		return nil, fmt.Errorf("update workspace: %w", err)
	}
	return ws, nil
}

// Delete is restricted to the owner. The caller's current workspace moves
// to another membership, or is cleared when none is left.
func (s *WorkspaceService) Delete(ctx context.Context, userID, workspaceID string) (string, error) {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermDeleteWorkspace); err != nil {
		return "", err
	}

	ws, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		return "", err
	}
	if ws.OwnerID != userID {
		return "", domain.ErrAuthorizationDenied
	}

	var current string
	err = s.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		// 1. Cascade: tasks, projects, memberships, then the workspace.
		if _, err := s.tasks.DeleteByWorkspace(ctx, workspaceID); err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		if _, err := s.projects.DeleteByWorkspace(ctx, workspaceID); err != nil {
			return fmt.Errorf("delete projects: %w", err)
		}
		if _, err := s.members.DeleteByWorkspace(ctx, workspaceID); err != nil {
			return fmt.Errorf("delete members: %w", err)
		}
		if err := s.workspaces.Delete(ctx, workspaceID); err != nil {
			return err
		}

		// 2. Repoint the caller if it was looking at this workspace.
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		current = user.CurrentWorkspace
		if current != workspaceID {
			return nil
		}
		current = ""
		remaining, err := s.members.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("list memberships: %w", err)
		}
		if len(remaining) > 0 {
			current = remaining[0].WorkspaceID
		}
		return s.users.SetCurrentWorkspace(ctx, userID, current)
	})
	if err != nil {
		return "", err
	}

	s.log.Info().Str("workspace_id", workspaceID).Str("owner_id", userID).Msg("workspace deleted")
	return current, nil
}

func (s *WorkspaceService) ResetInviteCode(ctx context.Context, userID, workspaceID string) (*domain.Workspace, error) {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermAddMember); err != nil {
		return nil, err
	}

	code := generateInviteCode()
	if err := s.workspaces.SetInviteCode(ctx, workspaceID, code); err != nil {
		if !errors.Is(err, domain.ErrInviteCodeTaken) {
			return nil, fmt.Errorf("reset invite code: %w", err)
		}
		// One retry on the rare collision.
		code = generateInviteCode()
		if err := s.workspaces.SetInviteCode(ctx, workspaceID, code); err != nil {
			return nil, fmt.Errorf("reset invite code: %w", err)
		}
	}
	return s.workspaces.FindByID(ctx, workspaceID)
}

// RemoveMember drops a membership. The owner cannot be removed, and a
// removed user looking at this workspace is moved off it.
func (s *WorkspaceService) RemoveMember(ctx context.Context, userID, workspaceID, memberUserID string) error {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermRemoveMember); err != nil {
		return err
	}

	ws, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if ws.OwnerID == memberUserID {
		return domain.ErrOwnerRoleImmutable
	}

	return s.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.members.Delete(ctx, memberUserID, workspaceID); err != nil {
			return err
		}
		user, err := s.users.FindByID(ctx, memberUserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil
			}
			return err
		}
		if user.CurrentWorkspace != workspaceID {
			return nil
		}
		next := ""
		remaining, err := s.members.ListByUser(ctx, memberUserID)
		if err != nil {
			return fmt.Errorf("list memberships: %w", err)
		}
		if len(remaining) > 0 {
			next = remaining[0].WorkspaceID
		}
		return s.users.SetCurrentWorkspace(ctx, memberUserID, next)
	})
}
