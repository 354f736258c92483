// Package seeder loads fixture records (staff accounts, response units and
// audit templates) into an entity store.
package seeder

import (
	"context"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
)

// UserCreator creates staff accounts. Implemented by user.Service, which
// hashes passwords and rejects duplicate usernames with domain.ErrAlreadyExists.
type UserCreator interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
}
