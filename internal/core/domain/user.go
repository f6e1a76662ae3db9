package domain

import "time"

// Provider identifies where a credential comes from.
type Provider string

const (
	ProviderEmail    Provider = "EMAIL"
	ProviderGoogle   Provider = "GOOGLE"
	ProviderGithub   Provider = "GITHUB"
	ProviderFacebook Provider = "FACEBOOK"
)

func (p Provider) Valid() bool {
	switch p {
	case ProviderEmail, ProviderGoogle, ProviderGithub, ProviderFacebook:
		return true
	}
	return false
}

type User struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	ProfilePicture   string     `json:"profile_picture,omitempty"`
	CurrentWorkspace string     `json:"current_workspace,omitempty"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Summary is the public projection embedded in member, project and task views.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, ProfilePicture: u.ProfilePicture}
}

type UserSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// Account links a user to one provider identity. RefreshToken and
// TokenExpiry never leave the process.
type Account struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Provider     Provider   `json:"provider"`
	ProviderID   string     `json:"provider_id"`
	RefreshToken string     `json:"-"`
	TokenExpiry  *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}
