package ports

import (
	"context"
	"time"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

// UserRepository persists users. Create assigns u.ID and maps a duplicate
// email to domain.ErrEmailTaken.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDs returns the users that exist; missing ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// SetCurrentWorkspace points the user at workspaceID; empty clears it.
	SetCurrentWorkspace(ctx context.Context, userID, workspaceID string) error
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}

// AccountRepository persists provider credentials. Create maps a duplicate
// (provider, provider_id) to domain.ErrAccountExists.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	FindByProvider(ctx context.Context, provider domain.Provider, providerID string) (*domain.Account, error)
	// UpdateTokens stores the latest provider refresh token. An empty token
	// keeps the previous one.
	UpdateTokens(ctx context.Context, accountID, refreshToken string, expiry *time.Time) error
}
