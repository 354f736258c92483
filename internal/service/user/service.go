// Package user manages staff accounts.
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/beavernet-backend/internal/auth"
	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

// Service implements staff account management.
type Service struct {
	log   *slog.Logger
	users storage.Collection[domain.User]
}

// NewService creates a new user service instance.
func NewService(logger *slog.Logger, users storage.Collection[domain.User]) *Service {
	return &Service{
		log:   logger.With("service", "user"),
		users: users,
	}
}

// List returns all accounts, optionally filtered.
func (s *Service) List(ctx context.Context, filters ...storage.Filter) ([]domain.User, error) {
	users, err := s.users.Find(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("user.List: %w", err)
	}
	return users, nil
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, id int64) (domain.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("user.Get: %w", err)
	}
	return u, nil
}

// Create stores a new account. The password is stored as a bcrypt hash and
// usernames must be unique.
func (s *Service) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Normalize()

	if err := s.ensureUnique(ctx, u.Username, 0); err != nil {
		return domain.User{}, err
	}

	if !u.PasswordIsHashed() {
		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return domain.User{}, fmt.Errorf("user.Create: %w", err)
		}
		u.Password = hash
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return domain.User{}, fmt.Errorf("user.Create: %w", err)
	}

	s.log.InfoContext(ctx, "user created",
		slog.Int64("user_id", created.ID),
		slog.String("username", created.Username),
		slog.String("access_level", created.AccessLevel.String()),
	)

	return created, nil
}

// Update applies patch to the stored account. A changed password is
// re-hashed and a changed username must stay unique. patch may run more
// than once, so it must be idempotent.
func (s *Service) Update(ctx context.Context, id int64, patch func(*domain.User) error) (domain.User, error) {
	current, err := s.users.Get(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("user.Update: %w", err)
	}

	// Collections may hold a lock while running the update function, so
	// the uniqueness lookup happens on a scratch copy first.
	draft := storage.Clone(current)
	if err := patch(&draft); err != nil {
		return domain.User{}, fmt.Errorf("user.Update: %w", err)
	}
	draft.Normalize()
	if draft.Username != current.Username {
		if err := s.ensureUnique(ctx, draft.Username, id); err != nil {
			return domain.User{}, fmt.Errorf("user.Update: %w", err)
		}
	}

	updated, err := s.users.Update(ctx, id, func(u *domain.User) error {
		prevPassword := u.Password

		if err := patch(u); err != nil {
			return err
		}

		if u.Password != prevPassword && !u.PasswordIsHashed() {
			hash, err := auth.HashPassword(u.Password)
			if err != nil {
				return err
			}
			u.Password = hash
		}
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("user.Update: %w", err)
	}

	s.log.InfoContext(ctx, "user updated", slog.Int64("user_id", id))
	return updated, nil
}

// EnsureBootstrapAdmin creates an active admin account when no account
// with that username exists yet. It reports whether one was created.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	existing, err := s.users.Find(ctx, storage.Eq("username", domain.NormalizeUsername(username)))
	if err != nil {
		return false, fmt.Errorf("user.EnsureBootstrapAdmin: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	_, err = s.Create(ctx, domain.User{
		Username:    username,
		Password:    password,
		DisplayName: "Administrator",
		AccessLevel: domain.AccessAdmin,
		Active:      true,
	})
	if err != nil {
		return false, fmt.Errorf("user.EnsureBootstrapAdmin: %w", err)
	}
	return true, nil
}

func (s *Service) ensureUnique(ctx context.Context, username string, selfID int64) error {
	if username == "" {
		return domain.NewValidationError("username", "required")
	}

	existing, err := s.users.Find(ctx, storage.Eq("username", username))
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	for _, u := range existing {
		if u.ID != selfID {
			return fmt.Errorf("username %q: %w", username, domain.ErrAlreadyExists)
		}
	}
	return nil
}
