package domain

import "time"

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Emoji       string    `json:"emoji"`
	WorkspaceID string    `json:"workspace_id"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultProjectEmoji is used when a project is created without one.
const DefaultProjectEmoji = "📊"

// ProjectView is a project with its creator resolved.
type ProjectView struct {
	*Project
	Creator *UserSummary `json:"creator,omitempty"`
}

type ProjectSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// TaskAnalytics holds the three counters computed over a task scope.
type TaskAnalytics struct {
	TotalTasks     int64 `json:"total_tasks"`
	OverdueTasks   int64 `json:"overdue_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
}
