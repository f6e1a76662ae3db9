package ports

import (
	"context"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

type CreateProjectInput struct {
	Name        string
	Description string
	Emoji       string
}

// UpdateProjectInput is a partial update; nil fields are left unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Emoji       *string
}

type ProjectPage struct {
	Projects   []*domain.ProjectView
	Pagination domain.Pagination
}

type ProjectService interface {
	Create(ctx context.Context, userID, workspaceID string, in CreateProjectInput) (*domain.Project, error)
	List(ctx context.Context, userID, workspaceID string, page domain.PageRequest) (*ProjectPage, error)
	Get(ctx context.Context, userID, workspaceID, projectID string) (*domain.Project, error)
	Analytics(ctx context.Context, userID, workspaceID, projectID string) (domain.TaskAnalytics, error)
	Update(ctx context.Context, userID, workspaceID, projectID string, in UpdateProjectInput) (*domain.Project, error)
	// Delete removes the project and every task in it.
	Delete(ctx context.Context, userID, workspaceID, projectID string) error
}
