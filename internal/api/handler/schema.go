package handler

import (
	"time"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

// errorResponse documents the envelope rendered by the API error handler.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Code  string `json:"code"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Message          string       `json:"message"`
	User             *domain.User `json:"user"`
	CurrentWorkspace string       `json:"current_workspace,omitempty"`
	Token            string       `json:"token"`
	ExpiresAt        time.Time    `json:"expires_at"`
}

type userResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type joinResponse struct {
	Message       string          `json:"message"`
	WorkspaceID   string          `json:"workspace_id"`
	Role          domain.RoleName `json:"role"`
	AlreadyMember bool            `json:"already_member"`
}

// --- Workspaces ---

type createWorkspaceRequest struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
}

type updateWorkspaceRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type changeRoleRequest struct {
	MemberID string `json:"member_id" validate:"required"`
	RoleID   string `json:"role_id"   validate:"required"`
}

type workspaceResponse struct {
	Message   string            `json:"message"`
	Workspace *domain.Workspace `json:"workspace"`
}

type workspaceListResponse struct {
	Message    string              `json:"message"`
	Workspaces []*domain.Workspace `json:"workspaces"`
}

type workspaceDetailResponse struct {
	Message   string            `json:"message"`
	Workspace *domain.Workspace `json:"workspace"`
	Role      *domain.Role      `json:"role"`
	Members   []*domain.Member  `json:"members"`
}

type workspaceMembersResponse struct {
	Message string                 `json:"message"`
	Members []*domain.MemberDetail `json:"members"`
	Roles   []*domain.RoleSummary  `json:"roles"`
}

type analyticsResponse struct {
	Message   string               `json:"message"`
	Analytics domain.TaskAnalytics `json:"analytics"`
}

type memberResponse struct {
	Message string         `json:"message"`
	Member  *domain.Member `json:"member"`
}

type deleteWorkspaceResponse struct {
	Message          string `json:"message"`
	CurrentWorkspace string `json:"current_workspace"`
}

// --- Projects ---

type createProjectRequest struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
	Emoji       string `json:"emoji"       validate:"max=16"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Emoji       *string `json:"emoji"       validate:"omitempty,max=16"`
}

type projectResponse struct {
	Message string          `json:"message"`
	Project *domain.Project `json:"project"`
}

type projectListResponse struct {
	Message    string                `json:"message"`
	Projects   []*domain.ProjectView `json:"projects"`
	Pagination domain.Pagination     `json:"pagination"`
}

// --- Tasks ---

type createTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=255"`
	Description string     `json:"description" validate:"max=2000"`
	Status      string     `json:"status"      validate:"omitempty,oneof=BACKLOG TODO IN_PROGRESS IN_REVIEW DONE"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AssignedTo  string     `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=BACKLOG TODO IN_PROGRESS IN_REVIEW DONE"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AssignedTo  *string    `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

type taskResponse struct {
	Message string       `json:"message"`
	Task    *domain.Task `json:"task"`
}

type taskViewResponse struct {
	Message string           `json:"message"`
	Task    *domain.TaskView `json:"task"`
}

type taskListResponse struct {
	Message    string             `json:"message"`
	Tasks      []*domain.TaskView `json:"tasks"`
	Pagination domain.Pagination  `json:"pagination"`
}
