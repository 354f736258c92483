package storagetest

import (
	"context"
	"sync"

	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

var _ storage.Collection[struct{}] = &CollectionMock[struct{}]{}

// CollectionMock is a moq-style mock of storage.Collection. Nil funcs panic
// when called.
type CollectionMock[T any] struct {
	CreateFunc func(ctx context.Context, rec T) (T, error)
	GetFunc    func(ctx context.Context, id int64) (T, error)
	ListFunc   func(ctx context.Context) ([]T, error)
	UpdateFunc func(ctx context.Context, id int64, fn func(*T) error) (T, error)
	FindFunc   func(ctx context.Context, filters ...storage.Filter) ([]T, error)

	mu    sync.RWMutex
	calls struct {
		Create []T
		Get    []int64
		List   int
		Update []int64
		Find   [][]storage.Filter
	}
}

func (m *CollectionMock[T]) Create(ctx context.Context, rec T) (T, error) {
	if m.CreateFunc == nil {
		panic("CollectionMock.CreateFunc: method is nil but Collection.Create was just called")
	}
	m.mu.Lock()
	m.calls.Create = append(m.calls.Create, rec)
	m.mu.Unlock()
	return m.CreateFunc(ctx, rec)
}

// CreateCalls returns the records passed to Create.
func (m *CollectionMock[T]) CreateCalls() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.Create
}

func (m *CollectionMock[T]) Get(ctx context.Context, id int64) (T, error) {
	if m.GetFunc == nil {
		panic("CollectionMock.GetFunc: method is nil but Collection.Get was just called")
	}
	m.mu.Lock()
	m.calls.Get = append(m.calls.Get, id)
	m.mu.Unlock()
	return m.GetFunc(ctx, id)
}

// GetCalls returns the ids passed to Get.
func (m *CollectionMock[T]) GetCalls() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.Get
}

func (m *CollectionMock[T]) List(ctx context.Context) ([]T, error) {
	if m.ListFunc == nil {
		panic("CollectionMock.ListFunc: method is nil but Collection.List was just called")
	}
	m.mu.Lock()
	m.calls.List++
	m.mu.Unlock()
	return m.ListFunc(ctx)
}

func (m *CollectionMock[T]) Update(ctx context.Context, id int64, fn func(*T) error) (T, error) {
	if m.UpdateFunc == nil {
		panic("CollectionMock.UpdateFunc: method is nil but Collection.Update was just called")
	}
	m.mu.Lock()
	m.calls.Update = append(m.calls.Update, id)
	m.mu.Unlock()
	return m.UpdateFunc(ctx, id, fn)
}

// UpdateCalls returns the ids passed to Update.
func (m *CollectionMock[T]) UpdateCalls() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.Update
}

func (m *CollectionMock[T]) Find(ctx context.Context, filters ...storage.Filter) ([]T, error) {
	if m.FindFunc == nil {
		panic("CollectionMock.FindFunc: method is nil but Collection.Find was just called")
	}
	m.mu.Lock()
	m.calls.Find = append(m.calls.Find, filters)
	m.mu.Unlock()
	return m.FindFunc(ctx, filters...)
}

// FindCalls returns the filters passed to each Find call.
func (m *CollectionMock[T]) FindCalls() [][]storage.Filter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.Find
}
