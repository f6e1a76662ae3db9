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

// Provisioner creates a user, its credential account, a default workspace
// and the owner membership as one unit of work.
type Provisioner struct {
	uow       ports.UnitOfWork
	users     ports.UserRepository
	accounts  ports.AccountRepository
	bootstrap workspaceBootstrap
	hasher    ports.PasswordHasher
	log       zerolog.Logger
	now       func() time.Time
}

func NewProvisioner(
	uow ports.UnitOfWork,
	users ports.UserRepository,
	accounts ports.AccountRepository,
	workspaces ports.WorkspaceRepository,
	roles ports.RoleRepository,
	members ports.MemberRepository,
	hasher ports.PasswordHasher,
	log zerolog.Logger,
) *Provisioner {
	return &Provisioner{
		uow:      uow,
		users:    users,
		accounts: accounts,
		bootstrap: workspaceBootstrap{
			users:      users,
			workspaces: workspaces,
			roles:      roles,
			members:    members,
		},
		hasher: hasher,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func validateProvisionInput(in ports.ProvisionInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return domain.NewValidationError("name is required")
	case normalizeEmail(in.Email) == "":
		return domain.NewValidationError("email is required")
	case !in.Provider.Valid():
		return domain.NewValidationError("unsupported provider")
	case strings.TrimSpace(in.ProviderID) == "":
		return domain.NewValidationError("provider id is required")
	case in.Provider == domain.ProviderEmail && in.Password == "":
		return domain.NewValidationError("password is required")
	}
	return nil
}

// Provision runs the bootstrap sequence. Nothing is persisted unless every
// step succeeds.
func (p *Provisioner) Provision(ctx context.Context, in ports.ProvisionInput) (*ports.ProvisionResult, error) {
	if err := validateProvisionInput(in); err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	// Hash outside the transaction to keep it short.
	var hash string
	if in.Password != "" {
		h, err := p.hasher.Hash(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = h
	}

	var res *ports.ProvisionResult
	err := p.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		now := p.now()

		// 1. Pre-check. The unique index on email still decides races.
		if _, err := p.users.FindByEmail(ctx, email); err == nil {
			return domain.ErrEmailTaken
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("check email: %w", err)
		}

		// 2. User.
		user := &domain.User{
			Name:           name,
			Email:          email,
			PasswordHash:   hash,
			ProfilePicture: in.ProfilePicture,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := p.users.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		// 3. Credential account.
		account := &domain.Account{
			UserID:       user.ID,
			Provider:     in.Provider,
			ProviderID:   in.ProviderID,
			RefreshToken: in.RefreshToken,
			TokenExpiry:  in.TokenExpiry,
			CreatedAt:    now,
		}
		if err := p.accounts.Create(ctx, account); err != nil {
			return fmt.Errorf("create account: %w", err)
		}

		// 4-7. Workspace, OWNER lookup, membership, current workspace.
		ws, member, err := p.bootstrap.create(ctx, user.ID,
			domain.DefaultWorkspaceName(name), domain.DefaultWorkspaceDescription(name), now)
		if err != nil {
			return err
		}
		user.CurrentWorkspace = ws.ID

		res = &ports.ProvisionResult{User: user, Account: account, Workspace: ws, Member: member}
		return nil
	})
	if err != nil {
		p.recordFailure(email, in.Provider, err)
		return nil, err
	}

	metrics.ProvisionedTotal.WithLabelValues(string(in.Provider)).Inc()
	p.log.Info().
		Str("user_id", res.User.ID).
		Str("workspace_id", res.Workspace.ID).
		Str("provider", string(in.Provider)).
		Msg("user provisioned")

	return res, nil
}

func (p *Provisioner) recordFailure(email string, provider domain.Provider, err error) {
	code := string(domain.KindInternal)
	if de, ok := domain.AsError(err); ok {
		code = de.Code
	}
	metrics.ProvisioningFailuresTotal.WithLabelValues(code).Inc()

	evt := p.log.Warn()
	if code == domain.ErrRoleSeedMissing.Code || code == string(domain.KindInternal) {
		evt = p.log.Error()
	}
	evt.Err(err).
		Str("email", email).
		Str("provider", string(provider)).
		Str("code", code).
		Msg("provisioning rolled back")
}
