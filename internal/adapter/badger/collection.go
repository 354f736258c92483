// Package badger is the embedded on-disk storage backend. Each record is a
// JSON value under a key made of its collection name and big-endian id.
package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

const (
	seqBandwidth  = 100
	updateRetries = 5
)

// Collection stores one entity type in a Badger key range.
type Collection[T any, P storage.Record[T]] struct {
	db     *badger.DB
	seq    *badger.Sequence
	name   string
	prefix []byte
}

// NewCollection opens the id sequence for the entity's collection.
func NewCollection[T any, P storage.Record[T]](db *badger.DB) (*Collection[T, P], error) {
	var zero T
	name := P(&zero).Collection()

	seq, err := db.GetSequence([]byte("seq/"+name), seqBandwidth)
	if err != nil {
		return nil, fmt.Errorf("badger: sequence %s: %w", name, err)
	}

	return &Collection[T, P]{
		db:     db,
		seq:    seq,
		name:   name,
		prefix: []byte("c/" + name + "/"),
	}, nil
}

func (c *Collection[T, P]) key(id int64) []byte {
	k := make([]byte, len(c.prefix)+8)
	copy(k, c.prefix)
	binary.BigEndian.PutUint64(k[len(c.prefix):], uint64(id))
	return k
}

func (c *Collection[T, P]) nextID() (int64, error) {
	for {
		n, err := c.seq.Next()
		if err != nil {
			return 0, fmt.Errorf("badger: next id %s: %w", c.name, err)
		}
		// A fresh sequence hands out 0 first; ids start at 1.
		if n > 0 {
			return int64(n), nil
		}
	}
}

func (c *Collection[T, P]) Create(_ context.Context, rec T) (T, error) {
	var zero T

	id, err := c.nextID()
	if err != nil {
		return zero, err
	}

	rec = storage.Clone(rec)
	storage.PrepareCreate[T, P](P(&rec), id, storage.Now())

	val, err := json.Marshal(rec)
	if err != nil {
		return zero, fmt.Errorf("badger: encode %s: %w", c.name, err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(c.key(id), val)
	})
	if err != nil {
		return zero, fmt.Errorf("badger: create %s: %w", c.name, err)
	}

	return rec, nil
}

func (c *Collection[T, P]) Get(_ context.Context, id int64) (T, error) {
	var rec T
	err := c.db.View(func(txn *badger.Txn) error {
		return c.load(txn, id, &rec)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

func (c *Collection[T, P]) List(ctx context.Context) ([]T, error) {
	return c.Find(ctx)
}

func (c *Collection[T, P]) Update(_ context.Context, id int64, fn func(*T) error) (T, error) {
	var (
		out T
		err error
	)

	for range updateRetries {
		err = c.db.Update(func(txn *badger.Txn) error {
			var current T
			if err := c.load(txn, id, &current); err != nil {
				return err
			}

			next, err := storage.ApplyUpdate[T, P](current, fn, storage.Now())
			if err != nil {
				return err
			}

			val, err := json.Marshal(next)
			if err != nil {
				return fmt.Errorf("badger: encode %s: %w", c.name, err)
			}
			if err := txn.Set(c.key(id), val); err != nil {
				return err
			}

			out = next
			return nil
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}

	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (c *Collection[T, P]) Find(_ context.Context, filters ...storage.Filter) ([]T, error) {
	if err := storage.Validate[T](filters); err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}

	var out []T
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: true, PrefetchSize: 100, Prefix: c.prefix})
		defer it.Close()

		for it.Seek(c.prefix); it.ValidForPrefix(c.prefix); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}

			var rec T
			if err := json.Unmarshal(val, &rec); err != nil {
				return fmt.Errorf("badger: decode %s: %w", c.name, err)
			}
			if storage.MatchAll(&rec, filters) {
				out = append(out, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out == nil {
		out = []T{}
	}
	storage.SortRecords(out)
	return out, nil
}

func (c *Collection[T, P]) load(txn *badger.Txn, id int64, rec *T) error {
	item, err := txn.Get(c.key(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%s %d: %w", c.name, id, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("badger: get %s %d: %w", c.name, id, err)
	}

	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, rec); err != nil {
			return fmt.Errorf("badger: decode %s %d: %w", c.name, id, err)
		}
		return nil
	})
}

func (c *Collection[T, P]) release() error {
	return c.seq.Release()
}
