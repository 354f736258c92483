// Package auth verifies Basic credentials against stored staff accounts.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	authn "github.com/heartmarshall/beavernet-backend/internal/auth"
	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

// userFinder defines the user lookup needed by the auth service.
type userFinder interface {
	Find(ctx context.Context, filters ...storage.Filter) ([]domain.User, error)
}

// Service authenticates staff accounts.
type Service struct {
	log   *slog.Logger
	users userFinder
}

// NewService creates a new auth service instance.
func NewService(logger *slog.Logger, users userFinder) *Service {
	return &Service{
		log:   logger.With("service", "auth"),
		users: users,
	}
}

// Authenticate matches username and password against the stored account.
// Unknown users, wrong passwords and inactive accounts all yield
// domain.ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, username, password string) (domain.Identity, error) {
	username = domain.NormalizeUsername(username)
	if username == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}

	users, err := s.users.Find(ctx, storage.Eq("username", username))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("auth.Authenticate: %w", err)
	}

	if len(users) == 0 {
		s.log.DebugContext(ctx, "unknown username", slog.String("username", username))
		return domain.Identity{}, domain.ErrUnauthorized
	}
	u := users[0]

	if !authn.CheckPassword(u, password) {
		s.log.WarnContext(ctx, "password mismatch", slog.String("username", username))
		return domain.Identity{}, domain.ErrUnauthorized
	}

	if !u.Active {
		s.log.WarnContext(ctx, "inactive account", slog.String("username", username))
		return domain.Identity{}, domain.ErrUnauthorized
	}

	return domain.IdentityOf(u), nil
}
