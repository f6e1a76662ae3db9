package ports

import (
	"context"
	"time"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

// PasswordHasher hashes and verifies passwords. Implementations must be
// salted and deliberately slow.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. A mismatch is not an error.
	Verify(hash, password string) (bool, error)
}

// IssuedToken is a signed session token and its metadata.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenClaims is what a verified token proves.
type TokenClaims struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

type TokenIssuer interface {
	Issue(userID string) (IssuedToken, error)
	TTL() time.Duration
}

// TokenVerifier fails with domain.ErrUnauthenticated or domain.ErrTokenExpired.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// TokenRevocationStore remembers logged-out token ids until they expire.
type TokenRevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// FederatedIdentity is a verified identity returned by an OAuth provider.
type FederatedIdentity struct {
	Provider     domain.Provider
	ProviderID   string
	Email        string
	Name         string
	Picture      string
	RefreshToken string
	TokenExpiry  *time.Time
}

// IdentityProvider drives an OAuth authorization-code flow.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*FederatedIdentity, error)
}
