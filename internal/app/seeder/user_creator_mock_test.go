package seeder

import (
	"context"
	"sync"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
)

// userCreatorMock is a moq-style mock of UserCreator.
type userCreatorMock struct {
	CreateFunc func(ctx context.Context, u domain.User) (domain.User, error)

	mu          sync.Mutex
	createCalls []domain.User
}

func (m *userCreatorMock) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if m.CreateFunc == nil {
		panic("userCreatorMock.CreateFunc: method is nil but UserCreator.Create was just called")
	}
	m.mu.Lock()
	m.createCalls = append(m.createCalls, u)
	m.mu.Unlock()
	return m.CreateFunc(ctx, u)
}

// CreateCalls gets all the calls that were made to Create.
func (m *userCreatorMock) CreateCalls() []domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.User(nil), m.createCalls...)
}
