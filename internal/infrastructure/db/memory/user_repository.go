package memory

import (
	"context"
	"time"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

type UserRepository struct{ s *Store }

func NewUserRepository(s *Store) *UserRepository { return &UserRepository{s: s} }

func (r *UserRepository) Create(_ context.Context, u *domain.User) error {
	return r.s.write(func(d *dataset) error {
		for _, existing := range d.users {
			if existing.Email == u.Email {
				return domain.ErrEmailTaken
			}
		}
		u.ID = newID()
		d.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	var out *domain.User
	err := r.s.read(func(d *dataset) error {
		u, ok := d.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	var out *domain.User
	err := r.s.read(func(d *dataset) error {
		for _, u := range d.users {
			if u.Email == email {
				out = &u
				return nil
			}
		}
		return domain.ErrUserNotFound
	})
	return out, err
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(ids))
	err := r.s.read(func(d *dataset) error {
		for _, id := range ids {
			if u, ok := d.users[id]; ok {
				out = append(out, &u)
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) SetCurrentWorkspace(_ context.Context, userID, workspaceID string) error {
	return r.s.write(func(d *dataset) error {
		u, ok := d.users[userID]
		if !ok {
			return domain.ErrUserNotFound
		}
		u.CurrentWorkspace = workspaceID
		u.UpdatedAt = time.Now().UTC()
		d.users[userID] = u
		return nil
	})
}

func (r *UserRepository) TouchLastLogin(_ context.Context, userID string, at time.Time) error {
	return r.s.write(func(d *dataset) error {
		u, ok := d.users[userID]
		if !ok {
			return domain.ErrUserNotFound
		}
		u.LastLogin = &at
		d.users[userID] = u
		return nil
	})
}

type AccountRepository struct{ s *Store }

func NewAccountRepository(s *Store) *AccountRepository { return &AccountRepository{s: s} }

func (r *AccountRepository) Create(_ context.Context, a *domain.Account) error {
	return r.s.write(func(d *dataset) error {
		for _, existing := range d.accounts {
			if existing.Provider == a.Provider && existing.ProviderID == a.ProviderID {
				return domain.ErrAccountExists
			}
		}
		a.ID = newID()
		d.accounts[a.ID] = *a
		return nil
	})
}

func (r *AccountRepository) FindByProvider(_ context.Context, provider domain.Provider, providerID string) (*domain.Account, error) {
	var out *domain.Account
	err := r.s.read(func(d *dataset) error {
		for _, a := range d.accounts {
			if a.Provider == provider && a.ProviderID == providerID {
				out = &a
				return nil
			}
		}
		return domain.ErrAccountNotFound
	})
	return out, err
}

func (r *AccountRepository) UpdateTokens(_ context.Context, accountID, refreshToken string, expiry *time.Time) error {
	return r.s.write(func(d *dataset) error {
		a, ok := d.accounts[accountID]
		if !ok {
			return domain.ErrAccountNotFound
		}
		if refreshToken != "" {
			a.RefreshToken = refreshToken
		}
		if expiry != nil {
			a.TokenExpiry = expiry
		}
		d.accounts[accountID] = a
		return nil
	})
}
