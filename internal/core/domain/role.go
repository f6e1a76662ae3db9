package domain

import "time"

type RoleName string

const (
	RoleOwner  RoleName = "OWNER"
	RoleAdmin  RoleName = "ADMIN"
	RoleMember RoleName = "MEMBER"
)

// RoleNames lists the seeded roles in descending privilege.
var RoleNames = []RoleName{RoleOwner, RoleAdmin, RoleMember}

// Permission is an atomic capability checked by the permission gate.
type Permission string

const (
	PermCreateWorkspace         Permission = "CREATE_WORKSPACE"
	PermDeleteWorkspace         Permission = "DELETE_WORKSPACE"
	PermEditWorkspace           Permission = "EDIT_WORKSPACE"
	PermManageWorkspaceSettings Permission = "MANAGE_WORKSPACE_SETTINGS"

	PermAddMember        Permission = "ADD_MEMBER"
	PermChangeMemberRole Permission = "CHANGE_MEMBER_ROLE"
	PermRemoveMember     Permission = "REMOVE_MEMBER"

	PermCreateProject Permission = "CREATE_PROJECT"
	PermEditProject   Permission = "EDIT_PROJECT"
	PermDeleteProject Permission = "DELETE_PROJECT"

	PermCreateTask Permission = "CREATE_TASK"
	PermEditTask   Permission = "EDIT_TASK"
	PermDeleteTask Permission = "DELETE_TASK"

	PermViewOnly Permission = "VIEW_ONLY"
)

// AllPermissions is the closed token vocabulary in canonical order.
var AllPermissions = []Permission{
	PermCreateWorkspace,
	PermDeleteWorkspace,
	PermEditWorkspace,
	PermManageWorkspaceSettings,
	PermAddMember,
	PermChangeMemberRole,
	PermRemoveMember,
	PermCreateProject,
	PermEditProject,
	PermDeleteProject,
	PermCreateTask,
	PermEditTask,
	PermDeleteTask,
	PermViewOnly,
}

func (p Permission) Valid() bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// Role is the persisted seed row referenced by members. Its Permissions
// mirror the role table at seeding time.
type Role struct {
	ID          string       `json:"id"`
	Name        RoleName     `json:"name"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
}

type Member struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	WorkspaceID string    `json:"workspace_id"`
	RoleID      string    `json:"role_id"`
	JoinedAt    time.Time `json:"joined_at"`
}

// MemberDetail is a member joined with its user and role.
type MemberDetail struct {
	ID          string       `json:"id"`
	WorkspaceID string       `json:"workspace_id"`
	User        *UserSummary `json:"user"`
	Role        *RoleSummary `json:"role"`
	JoinedAt    time.Time    `json:"joined_at"`
}

type RoleSummary struct {
	ID   string   `json:"id"`
	Name RoleName `json:"name"`
}
