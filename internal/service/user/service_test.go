package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/beavernet-backend/internal/adapter/memory"
	"github.com/heartmarshall/beavernet-backend/internal/auth"
	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
	"github.com/heartmarshall/beavernet-backend/internal/storage/storagetest"
)

func newTestService(users storage.Collection[domain.User]) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), users)
}

func TestService_Create_HashesPassword(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewStore().Users)

	u, err := svc.Create(context.Background(), domain.User{
		Username:    " Clerk1 ",
		Password:    "stamp",
		AccessLevel: domain.AccessClerk,
		Active:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Clerk1", u.Username)
	assert.True(t, u.PasswordIsHashed())
	assert.True(t, auth.CheckPassword(u, "stamp"))
}

func TestService_Create_DuplicateUsername(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewStore().Users)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.User{Username: "finance", Password: "a", AccessLevel: domain.AccessFinance})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.User{Username: " finance ", Password: "b", AccessLevel: domain.AccessFinance})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	// Usernames are case-sensitive.
	other, err := svc.Create(ctx, domain.User{Username: "Finance", Password: "c", AccessLevel: domain.AccessFinance})
	require.NoError(t, err)
	assert.Equal(t, "Finance", other.Username)
}

func TestService_Create_KeepsExistingHash(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewStore().Users)
	hash, err := auth.HashPassword("pre-hashed")
	require.NoError(t, err)

	u, err := svc.Create(context.Background(), domain.User{Username: "risk", Password: hash, AccessLevel: domain.AccessRisk})
	require.NoError(t, err)
	assert.Equal(t, hash, u.Password)
}

func TestService_Update_RehashesChangedPassword(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewStore().Users)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.User{Username: "auditor", Password: "old", AccessLevel: domain.AccessAuditor})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, func(u *domain.User) error {
		u.Password = "new"
		return nil
	})
	require.NoError(t, err)

	assert.True(t, auth.CheckPassword(updated, "new"))
	assert.False(t, auth.CheckPassword(updated, "old"))
}

func TestService_Update_UntouchedPasswordKeepsHash(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewStore().Users)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.User{Username: "officer", Password: "pw", AccessLevel: domain.AccessOfficer})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, func(u *domain.User) error {
		u.Department = "Animal Control"
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, created.Password, updated.Password)
	assert.Equal(t, "Animal Control", updated.Department)
}

func TestService_Update_UsernameTaken(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewStore().Users)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.User{Username: "alpha", Password: "a", AccessLevel: domain.AccessClerk})
	require.NoError(t, err)
	beta, err := svc.Create(ctx, domain.User{Username: "beta", Password: "b", AccessLevel: domain.AccessClerk})
	require.NoError(t, err)

	_, err = svc.Update(ctx, beta.ID, func(u *domain.User) error {
		u.Username = "alpha "
		return nil
	})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	got, err := svc.Get(ctx, beta.ID)
	require.NoError(t, err)
	assert.Equal(t, "beta", got.Username)
}

func TestService_Update_NotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewStore().Users)

	_, err := svc.Update(context.Background(), 42, func(u *domain.User) error { return nil })
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_EnsureBootstrapAdmin(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewStore().Users)
	ctx := context.Background()

	created, err := svc.EnsureBootstrapAdmin(ctx, "admin", "beaver")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureBootstrapAdmin(ctx, " admin ", "other")
	require.NoError(t, err)
	assert.False(t, created)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, domain.AccessAdmin, users[0].AccessLevel)
	assert.True(t, users[0].Active)
	assert.True(t, auth.CheckPassword(users[0], "beaver"))
}

func TestService_Create_StorageError(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	users := &storagetest.CollectionMock[domain.User]{
		FindFunc: func(ctx context.Context, filters ...storage.Filter) ([]domain.User, error) {
			return nil, nil
		},
		CreateFunc: func(ctx context.Context, rec domain.User) (domain.User, error) {
			return domain.User{}, boom
		},
	}

	svc := newTestService(users)
	_, err := svc.Create(context.Background(), domain.User{Username: "x", Password: "y", AccessLevel: domain.AccessClerk})

	require.ErrorIs(t, err, boom)
	require.Len(t, users.CreateCalls(), 1)
	assert.True(t, users.CreateCalls()[0].PasswordIsHashed())
}
