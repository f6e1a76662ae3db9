package client

import (
	"time"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

// Entity types are shared with the server.
type (
	User          = domain.User
	Workspace     = domain.Workspace
	Role          = domain.Role
	RoleSummary   = domain.RoleSummary
	Member        = domain.Member
	MemberDetail  = domain.MemberDetail
	Project       = domain.Project
	ProjectView   = domain.ProjectView
	Task          = domain.Task
	TaskView      = domain.TaskView
	TaskAnalytics = domain.TaskAnalytics
	Pagination    = domain.Pagination
)

type AuthResponse struct {
	Message          string    `json:"message"`
	User             *User     `json:"user"`
	CurrentWorkspace string    `json:"current_workspace"`
	Token            string    `json:"token"`
	ExpiresAt        time.Time `json:"expires_at"`
}

type JoinResponse struct {
	Message       string `json:"message"`
	WorkspaceID   string `json:"workspace_id"`
	Role          string `json:"role"`
	AlreadyMember bool   `json:"already_member"`
}

type WorkspaceDetail struct {
	Workspace *Workspace `json:"workspace"`
	Role      *Role      `json:"role"`
	Members   []*Member  `json:"members"`
}

type WorkspaceMembers struct {
	Members []*MemberDetail `json:"members"`
	Roles   []*RoleSummary  `json:"roles"`
}

type ProjectPage struct {
	Projects   []*ProjectView `json:"projects"`
	Pagination Pagination     `json:"pagination"`
}

type TaskPage struct {
	Tasks      []*TaskView `json:"tasks"`
	Pagination Pagination  `json:"pagination"`
}

type WorkspaceInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// WorkspaceUpdate leaves nil fields unchanged.
type WorkspaceUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Emoji       string `json:"emoji,omitempty"`
}

type ProjectUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Emoji       *string `json:"emoji,omitempty"`
}

type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type TaskUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TaskFilter narrows ListTasks. Zero values are omitted.
type TaskFilter struct {
	ProjectID  string
	Statuses   []string
	Priorities []string
	AssignedTo []string
	Keyword    string
	DueDate    time.Time
	PageSize   int
	PageNumber int
}

// Ptr returns a pointer to v, for the update types.
func Ptr[T any](v T) *T { return &v }
