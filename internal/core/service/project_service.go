package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

// ProjectService implements workspace-scoped project CRUD and analytics.
type ProjectService struct {
	uow      ports.UnitOfWork
	authz    ports.Authorizer
	projects ports.ProjectRepository
	tasks    ports.TaskRepository
	users    ports.UserRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewProjectService(
	uow ports.UnitOfWork,
	authz ports.Authorizer,
	projects ports.ProjectRepository,
	tasks ports.TaskRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) *ProjectService {
	return &ProjectService{
		uow:      uow,
		authz:    authz,
		projects: projects,
		tasks:    tasks,
		users:    users,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *ProjectService) Create(ctx context.Context, userID, workspaceID string, in ports.CreateProjectInput) (*domain.Project, error) {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermCreateProject); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	emoji := strings.TrimSpace(in.Emoji)
	if emoji == "" {
		emoji = domain.DefaultProjectEmoji
	}

	now := s.now()
	p := &domain.Project{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Emoji:       emoji,
		WorkspaceID: workspaceID,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.log.Info().Str("project_id", p.ID).Str("workspace_id", workspaceID).Msg("project created")
	return p, nil
}

// List returns one page of projects, newest first, with creators resolved.
func (s *ProjectService) List(ctx context.Context, userID, workspaceID string, page domain.PageRequest) (*ports.ProjectPage, error) {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermViewOnly); err != nil {
		return nil, err
	}

	page = domain.NewPageRequest(page.Number, page.Size)
	projects, total, err := s.projects.List(ctx, workspaceID, page.Skip(), page.Size)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	creatorIDs := make([]string, 0, len(projects))
	for _, p := range projects {
		creatorIDs = append(creatorIDs, p.CreatedBy)
	}
	creators, err := summariesByID(ctx, s.users, creatorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*domain.ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, &domain.ProjectView{Project: p, Creator: creators[p.CreatedBy]})
	}
	return &ports.ProjectPage{Projects: views, Pagination: page.Paginate(total)}, nil
}

func (s *ProjectService) Get(ctx context.Context, userID, workspaceID, projectID string) (*domain.Project, error) {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermViewOnly); err != nil {
		return nil, err
	}
	return s.projects.Find(ctx, workspaceID, projectID)
}

func (s *ProjectService) Analytics(ctx context.Context, userID, workspaceID, projectID string) (domain.TaskAnalytics, error) {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermViewOnly); err != nil {
		return domain.TaskAnalytics{}, err
	}
	if _, err := s.projects.Find(ctx, workspaceID, projectID); err != nil {
		return domain.TaskAnalytics{}, err
	}
	return s.tasks.Analytics(ctx, ports.TaskScope{WorkspaceID: workspaceID, ProjectID: projectID}, s.now())
}

func (s *ProjectService) Update(ctx context.Context, userID, workspaceID, projectID string, in ports.UpdateProjectInput) (*domain.Project, error) {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermEditProject); err != nil {
		return nil, err
	}

	p, err := s.projects.Find(ctx, workspaceID, projectID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name cannot be empty")
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Emoji != nil && strings.TrimSpace(*in.Emoji) != "" {
		p.Emoji = strings.TrimSpace(*in.Emoji)
	}
	p.UpdatedAt = s.now()

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, userID, workspaceID, projectID string) error {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermDeleteProject); err != nil {
		return err
	}

	var removed int64
	err := s.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.projects.Delete(ctx, workspaceID, projectID); err != nil {
			return err
		}
		n, err := s.tasks.DeleteByProject(ctx, workspaceID, projectID)
		if err != nil {
			return fmt.Errorf("delete project tasks: %w", err)
		}
		removed = n
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("project_id", projectID).
		Str("workspace_id", workspaceID).
		Int64("tasks_deleted", removed).
		Msg("project deleted")
	return nil
}

// summariesByID loads users and indexes their public summaries.
func summariesByID(ctx context.Context, users ports.UserRepository, ids []string) (map[string]*domain.UserSummary, error) {
	out := make(map[string]*domain.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := users.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, u := range found {
		out[u.ID] = u.Summary()
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
