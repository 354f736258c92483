package domain

import "time"

// Base is the header shared by every stored entity.
type Base struct {
	ID        int64     `json:"id"        db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Meta gives generic storage code access to the header.
func (b *Base) Meta() *Base { return b }

// Normalizer is implemented by entities that fill defaults and derived
// fields before they are written. It must be idempotent: it runs on every
// create and every update.
type Normalizer interface {
	Normalize()
}

// Inserter is implemented by entities that derive codes or default
// timestamps once their ID is known. It runs only on create.
type Inserter interface {
	BeforeInsert(now time.Time)
}

// Sorter is implemented by entities whose listings are not in insertion
// order. The column is a db tag; a leading "-" means descending.
type Sorter interface {
	SortColumn() string
}

func defaultString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func defaultTime(v *time.Time, now time.Time) {
	if v.IsZero() {
		*v = now
	}
}
