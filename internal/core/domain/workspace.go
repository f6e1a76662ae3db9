package domain

import "time"

type Workspace struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	InviteCode  string    `json:"invite_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultWorkspaceName is the name given to a user's provisioned workspace.
func DefaultWorkspaceName(userName string) string {
	return userName + "'s Workspace"
}

func DefaultWorkspaceDescription(userName string) string {
	return "Workspace created for " + userName
}
