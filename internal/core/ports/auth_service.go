package ports

import (
	"context"
	"time"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by every successful sign-in path.
type AuthResult struct {
	User        *domain.User
	WorkspaceID string // current workspace after sign-in
	Token       IssuedToken
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// LoginWithIdentity signs in a federated identity, provisioning a new
	// user and workspace on first sight.
	LoginWithIdentity(ctx context.Context, id FederatedIdentity) (*AuthResult, error)
	Logout(ctx context.Context, claims TokenClaims) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

// ProvisionInput feeds the provisioning workflow. Password is empty for
// federated identities.
type ProvisionInput struct {
	Email          string
	Name           string
	Password       string
	ProfilePicture string
	Provider       domain.Provider
	ProviderID     string
	RefreshToken   string
	TokenExpiry    *time.Time
}

type ProvisionResult struct {
	User      *domain.User
	Account   *domain.Account
	Workspace *domain.Workspace
	Member    *domain.Member
}
