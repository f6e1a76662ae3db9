package ports

import (
	"context"
	"time"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus   // defaults to TODO
	Priority    domain.TaskPriority // defaults to MEDIUM
	AssignedTo  string
	DueDate     *time.Time
}

// UpdateTaskInput is a partial update; nil fields are left unchanged. An
// empty AssignedTo unassigns the task.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	AssignedTo  *string
	DueDate     *time.Time
}

type ListTasksQuery struct {
	WorkspaceID string
	ProjectID   string
	Statuses    []domain.TaskStatus
	Priorities  []domain.TaskPriority
	AssignedTo  []string
	Keyword     string
	DueDate     *time.Time
	Page        domain.PageRequest
}

type TaskPage struct {
	Tasks      []*domain.TaskView
	Pagination domain.Pagination
}

type TaskService interface {
	Create(ctx context.Context, userID, workspaceID, projectID string, in CreateTaskInput) (*domain.Task, error)
	Update(ctx context.Context, userID, workspaceID, projectID, taskID string, in UpdateTaskInput) (*domain.Task, error)
	List(ctx context.Context, userID string, q ListTasksQuery) (*TaskPage, error)
	Get(ctx context.Context, userID, workspaceID, projectID, taskID string) (*domain.TaskView, error)
	Delete(ctx context.Context, userID, workspaceID, taskID string) error
}
