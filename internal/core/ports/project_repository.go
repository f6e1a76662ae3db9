package ports

import (
	"context"
	"time"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

// ProjectRepository persists projects. Every lookup is scoped by workspace;
// a project outside the given workspace is reported as not found.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	Find(ctx context.Context, workspaceID, id string) (*domain.Project, error)
	FindByIDs(ctx context.Context, workspaceID string, ids []string) ([]*domain.Project, error)
	// List returns one page sorted by created_at desc and the total count.
	List(ctx context.Context, workspaceID string, skip, limit int) ([]*domain.Project, int64, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, workspaceID, id string) error
	DeleteByWorkspace(ctx context.Context, workspaceID string) (int64, error)
}

// TaskScope selects the tasks an analytics pass runs over. ProjectID is
// optional.
type TaskScope struct {
	WorkspaceID string
	ProjectID   string
}

// TaskFilter carries the list query. Empty slices and zero values mean no
// filter on that field.
type TaskFilter struct {
	WorkspaceID string
	ProjectID   string
	Statuses    []domain.TaskStatus
	Priorities  []domain.TaskPriority
	AssignedTo  []string
	Keyword     string     // case-insensitive match on title
	DueDate     *time.Time // tasks due on the same UTC day
	Skip        int
	Limit       int
}

// TaskRepository persists tasks. Create maps a task code collision to
// domain.ErrTaskCodeTaken.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	// Find looks a task up inside a workspace; projectID is optional and
	// narrows the scope further.
	Find(ctx context.Context, workspaceID, projectID, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, int64, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, workspaceID, id string) error
	DeleteByProject(ctx context.Context, workspaceID, projectID string) (int64, error)
	DeleteByWorkspace(ctx context.Context, workspaceID string) (int64, error)
	// Analytics computes total, overdue and completed counts in one pass.
	Analytics(ctx context.Context, scope TaskScope, now time.Time) (domain.TaskAnalytics, error)
}
