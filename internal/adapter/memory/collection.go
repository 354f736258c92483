// Package memory is the process-local storage backend. Data is lost on
// restart; it is meant for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

// Collection keeps records of one entity type in a map guarded by a mutex.
type Collection[T any, P storage.Record[T]] struct {
	mu     sync.RWMutex
	name   string
	nextID int64
	order  []int64
	items  map[int64]T
}

// NewCollection creates an empty collection.
func NewCollection[T any, P storage.Record[T]]() *Collection[T, P] {
	var zero T
	return &Collection[T, P]{
		name:  P(&zero).Collection(),
		items: make(map[int64]T),
	}
}

func (c *Collection[T, P]) Create(_ context.Context, rec T) (T, error) {
	rec = storage.Clone(rec)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	storage.PrepareCreate[T, P](P(&rec), c.nextID, storage.Now())
	c.items[c.nextID] = rec
	c.order = append(c.order, c.nextID)

	return storage.Clone(rec), nil
}

func (c *Collection[T, P]) Get(_ context.Context, id int64) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %d: %w", c.name, id, domain.ErrNotFound)
	}
	return storage.Clone(rec), nil
}

func (c *Collection[T, P]) List(ctx context.Context) ([]T, error) {
	return c.Find(ctx)
}

func (c *Collection[T, P]) Update(_ context.Context, id int64, fn func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %d: %w", c.name, id, domain.ErrNotFound)
	}

	next, err := storage.ApplyUpdate[T, P](current, fn, storage.Now())
	if err != nil {
		var zero T
		return zero, err
	}
	c.items[id] = next

	return storage.Clone(next), nil
}

func (c *Collection[T, P]) Find(_ context.Context, filters ...storage.Filter) ([]T, error) {
	if err := storage.Validate[T](filters); err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}

	c.mu.RLock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		rec := c.items[id]
		if storage.MatchAll(&rec, filters) {
			out = append(out, storage.Clone(rec))
		}
	}
	c.mu.RUnlock()

	storage.SortRecords(out)
	return out, nil
}
