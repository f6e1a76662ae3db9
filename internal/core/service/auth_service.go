package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
	"github.com/teamsync/workspace-api/internal/pkg/metrics"
)

// AuthService implements registration, password and federated sign-in,
// logout and the current-user lookup.
type AuthService struct {
	provisioner *Provisioner
	users       ports.UserRepository
	accounts    ports.AccountRepository
	hasher      ports.PasswordHasher
	tokens      ports.TokenIssuer
	revocations ports.TokenRevocationStore
	log         zerolog.Logger
	now         func() time.Time
}

// NewAuthService wires the service. revocations may be nil, in which case
// logout only clears the client's cookie.
func NewAuthService(
	provisioner *Provisioner,
	users ports.UserRepository,
	accounts ports.AccountRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	revocations ports.TokenRevocationStore,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		provisioner: provisioner,
		users:       users,
		accounts:    accounts,
		hasher:      hasher,
		tokens:      tokens,
		revocations: revocations,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	if len(in.Password) < 4 {
		return nil, domain.NewValidationError("password must be at least 4 characters")
	}

	res, err := s.provisioner.Provision(ctx, ports.ProvisionInput{
		Email:      email,
		Name:       in.Name,
		Password:   in.Password,
		Provider:   domain.ProviderEmail,
		ProviderID: email,
	})
	if err != nil {
		return nil, err
	}
	return s.signIn(res.User)
}

// Login verifies an email/password pair. Unknown emails and wrong
// passwords both fail with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.NewValidationError("email and password are required")
	}

	user, err := s.verifyPassword(ctx, email, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	s.touchLastLogin(ctx, user)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return s.signIn(user)
}

func (s *AuthService) verifyPassword(ctx context.Context, email, password string) (*domain.User, error) {
	account, err := s.accounts.FindByProvider(ctx, domain.ProviderEmail, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	user, err := s.users.FindByID(ctx, account.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("login: verify password: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) LoginWithIdentity(ctx context.Context, id ports.FederatedIdentity) (*ports.AuthResult, error) {
	if !id.Provider.Valid() || id.Provider == domain.ProviderEmail || strings.TrimSpace(id.ProviderID) == "" {
		return nil, domain.NewValidationError("invalid federated identity")
	}

	// 1. Known credential: sign in and refresh the stored provider token.
	account, err := s.accounts.FindByProvider(ctx, id.Provider, id.ProviderID)
	switch {
	case err == nil:
		if id.RefreshToken != "" {
			if err := s.accounts.UpdateTokens(ctx, account.ID, id.RefreshToken, id.TokenExpiry); err != nil {
				s.log.Warn().Err(err).Str("account_id", account.ID).Msg("refresh token update failed")
			}
		}
		user, err := s.users.FindByID(ctx, account.UserID)
		if err != nil {
			return nil, fmt.Errorf("federated login: %w", err)
		}
		return s.federatedSignIn(ctx, user)
	case !errors.Is(err, domain.ErrAccountNotFound):
		return nil, fmt.Errorf("federated login: %w", err)
	}

	// 2. Existing local user with the same email: link the credential.
	email := normalizeEmail(id.Email)
	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		link := &domain.Account{
			UserID:       user.ID,
			Provider:     id.Provider,
			ProviderID:   id.ProviderID,
			RefreshToken: id.RefreshToken,
			TokenExpiry:  id.TokenExpiry,
			CreatedAt:    s.now(),
		}
		if err := s.accounts.Create(ctx, link); err != nil && !errors.Is(err, domain.ErrAccountExists) {
			return nil, fmt.Errorf("link account: %w", err)
		}
		s.log.Info().Str("user_id", user.ID).Str("provider", string(id.Provider)).Msg("provider account linked")
		return s.federatedSignIn(ctx, user)
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("federated login: %w", err)
	}

	// 3. First sight: provision user and default workspace.
	name := strings.TrimSpace(id.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	res, err := s.provisioner.Provision(ctx, ports.ProvisionInput{
		Email:          email,
		Name:           name,
		ProfilePicture: id.Picture,
		Provider:       id.Provider,
		ProviderID:     id.ProviderID,
		RefreshToken:   id.RefreshToken,
		TokenExpiry:    id.TokenExpiry,
	})
	if err != nil {
		return nil, err
	}
	return s.federatedSignIn(ctx, res.User)
}

func (s *AuthService) federatedSignIn(ctx context.Context, user *domain.User) (*ports.AuthResult, error) {
	s.touchLastLogin(ctx, user)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return s.signIn(user)
}

func (s *AuthService) Logout(ctx context.Context, claims ports.TokenClaims) error {
	if s.revocations == nil || claims.TokenID == "" {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Debug().Str("user_id", claims.UserID).Msg("token revoked")
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) signIn(user *domain.User) (*ports.AuthResult, error) {
	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ports.AuthResult{User: user, WorkspaceID: user.CurrentWorkspace, Token: tok}, nil
}

func (s *AuthService) touchLastLogin(ctx context.Context, user *domain.User) {
	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("last login update failed")
		return
	}
	user.LastLogin = &now
}
