package storage

import (
	"reflect"
	"time"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
)

// Now returns the storage timestamp: UTC, microsecond precision, no
// monotonic reading. Postgres keeps microseconds, so every backend does.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// PrepareCreate stamps a new record with its id and timestamps, then runs
// its Normalize and BeforeInsert hooks.
func PrepareCreate[T any, P Record[T]](rec P, id int64, now time.Time) {
	m := rec.Meta()
	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now

	if n, ok := any(rec).(domain.Normalizer); ok {
		n.Normalize()
	}
	if h, ok := any(rec).(domain.Inserter); ok {
		h.BeforeInsert(now)
	}
}

// PrepareUpdate restores the immutable header fields that an update
// function may have overwritten, advances UpdatedAt and re-runs Normalize.
func PrepareUpdate[T any, P Record[T]](rec P, prev domain.Base, now time.Time) {
	m := rec.Meta()
	m.ID = prev.ID
	m.CreatedAt = prev.CreatedAt
	m.UpdatedAt = NextUpdatedAt(prev.UpdatedAt, now)

	if n, ok := any(rec).(domain.Normalizer); ok {
		n.Normalize()
	}
}

// NextUpdatedAt returns now, or prev plus one microsecond when the clock
// has not moved past prev. UpdatedAt therefore strictly increases.
func NextUpdatedAt(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Microsecond)
}

// ApplyUpdate runs fn against a copy of current and prepares the result.
// current is left untouched when fn fails.
func ApplyUpdate[T any, P Record[T]](current T, fn func(*T) error, now time.Time) (T, error) {
	next := Clone(current)
	if err := fn(&next); err != nil {
		var zero T
		return zero, err
	}
	PrepareUpdate[T, P](P(&next), *P(&current).Meta(), now)
	return next, nil
}

// Clone copies rec including the values behind its pointer fields, so a
// JSON merge into the copy cannot write through to the original.
func Clone[T any](rec T) T {
	out := rec
	v := reflect.ValueOf(&out).Elem()
	for _, f := range FieldsOf(v.Type()) {
		fv := v.FieldByIndex(f.Index)
		if fv.Kind() != reflect.Pointer || fv.IsNil() {
			continue
		}
		cp := reflect.New(fv.Type().Elem())
		cp.Elem().Set(fv.Elem())
		fv.Set(cp)
	}
	return out
}
