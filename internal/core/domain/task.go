package domain

import "time"

type TaskStatus string

const (
	TaskBacklog    TaskStatus = "BACKLOG"
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskInReview   TaskStatus = "IN_REVIEW"
	TaskDone       TaskStatus = "DONE"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskBacklog, TaskTodo, TaskInProgress, TaskInReview, TaskDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          string       `json:"id"`
	TaskCode    string       `json:"task_code"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	ProjectID   string       `json:"project_id"`
	WorkspaceID string       `json:"workspace_id"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssignedTo  string       `json:"assigned_to,omitempty"`
	CreatedBy   string       `json:"created_by"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsOverdue reports whether the task is past due and not done at now.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != TaskDone
}

// TaskView is a task with assignee and project resolved.
type TaskView struct {
	*Task
	Assignee *UserSummary    `json:"assignee,omitempty"`
	Project  *ProjectSummary `json:"project,omitempty"`
}
