package rest

import (
	"context"
	"time"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/service/user"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

// UserView is a staff account without its password.
type UserView struct {
	ID          int64              `json:"id"`
	Username    string             `json:"username"`
	DisplayName string             `json:"displayName"`
	Department  string             `json:"department"`
	Position    string             `json:"position"`
	AccessLevel domain.AccessLevel `json:"accessLevel"`
	Active      bool               `json:"active"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func toUserView(u domain.User) any {
	return UserView{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Department:  u.Department,
		Position:    u.Position,
		AccessLevel: u.AccessLevel,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// userRepository routes account writes through the user service so
// passwords are hashed and usernames stay unique.
type userRepository struct {
	svc *user.Service
}

func (r userRepository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return r.svc.Create(ctx, u)
}

func (r userRepository) Get(ctx context.Context, id int64) (domain.User, error) {
	return r.svc.Get(ctx, id)
}

func (r userRepository) Update(ctx context.Context, id int64, fn func(*domain.User) error) (domain.User, error) {
	return r.svc.Update(ctx, id, fn)
}

func (r userRepository) Find(ctx context.Context, filters ...storage.Filter) ([]domain.User, error) {
	return r.svc.List(ctx, filters...)
}
