package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

// repository is the part of storage.Collection the generic handlers use.
// Services that wrap a collection satisfy it too.
type repository[T any] interface {
	Create(ctx context.Context, rec T) (T, error)
	Get(ctx context.Context, id int64) (T, error)
	Update(ctx context.Context, id int64, fn func(*T) error) (T, error)
	Find(ctx context.Context, filters ...storage.Filter) ([]T, error)
}

// Param maps a list query parameter onto a collection filter.
type Param struct {
	Query  string
	Column string
	Op     storage.Op
	Int    bool
}

// EqParam filters on column equality.
func EqParam(query, column string) Param {
	return Param{Query: query, Column: column, Op: storage.OpEq}
}

// IntParam filters on equality of an integer column.
func IntParam(query, column string) Param {
	return Param{Query: query, Column: column, Op: storage.OpEq, Int: true}
}

// ContainsParam filters on a case-insensitive substring of column.
func ContainsParam(query, column string) Param {
	return Param{Query: query, Column: column, Op: storage.OpContains}
}

// Resource serves list/get/create/update for one entity collection.
type Resource[T any] struct {
	repo   repository[T]
	params []Param
	view   func(T) any
	log    *slog.Logger
}

// NewResource creates a Resource for repo. Only the given query params are
// accepted as list filters; others are ignored.
func NewResource[T any](repo repository[T], logger *slog.Logger, params ...Param) *Resource[T] {
	var zero T
	if err := storage.Validate[T](filtersOf(params)); err != nil {
		panic("rest: " + err.Error())
	}
	return &Resource[T]{
		repo:   repo,
		params: params,
		view:   func(rec T) any { return rec },
		log:    logger.With("handler", collectionName(zero)),
	}
}

// WithView sets the function that shapes records for responses.
func (h *Resource[T]) WithView(view func(T) any) *Resource[T] {
	h.view = view
	return h
}

// Routes mounts the collection endpoints on r.
func (h *Resource[T]) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}", h.Update)
}

// List handles GET /. Unknown query parameters are ignored.
func (h *Resource[T]) List(w http.ResponseWriter, r *http.Request) {
	filters, verr := h.filters(r)
	if verr != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid query parameter", Details: verr.Errors})
		return
	}

	recs, err := h.repo.Find(r.Context(), filters...)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]any, len(recs))
	for i, rec := range recs {
		out[i] = h.view(rec)
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /{id}.
func (h *Resource[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	rec, err := h.repo.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(rec))
}

// createDefaulter is implemented by entities whose fields default to
// something other than the zero value when a create body omits them.
type createDefaulter interface {
	CreateDefaults()
}

// derivedKeeper is implemented by entities with generated or workflow-owned
// fields that PUT and PATCH must not overwrite.
type derivedKeeper[T any] interface {
	KeepDerived(prev T)
}

// Create handles POST /. The body is validated before storage is touched.
func (h *Resource[T]) Create(w http.ResponseWriter, r *http.Request) {
	var rec T
	if d, ok := any(&rec).(createDefaulter); ok {
		d.CreateDefaults()
	}
	if err := decodeJSON(w, r, &rec); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	created, err := h.repo.Create(r.Context(), rec)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.view(created))
}

// Update handles PUT and PATCH /{id}. Both merge the body onto the stored
// record and validate the result; a failure leaves the record untouched.
func (h *Resource[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	// Reject malformed bodies before reaching storage.
	var scratch T
	if err := decodeInto(body, &scratch); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	updated, err := h.repo.Update(r.Context(), id, func(rec *T) error {
		prev := storage.Clone(*rec)
		if err := decodeInto(body, rec); err != nil {
			return err
		}
		if k, ok := any(rec).(derivedKeeper[T]); ok {
			k.KeepDerived(prev)
		}
		return validate(rec)
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(updated))
}

func (h *Resource[T]) filters(r *http.Request) ([]storage.Filter, *domain.ValidationError) {
	q := r.URL.Query()

	var (
		filters []storage.Filter
		errs    []domain.FieldError
	)
	for _, p := range h.params {
		if !q.Has(p.Query) {
			continue
		}
		raw := q.Get(p.Query)

		if p.Int {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				errs = append(errs, domain.FieldError{Field: p.Query, Message: "must be an integer"})
				continue
			}
			filters = append(filters, storage.Filter{Column: p.Column, Op: p.Op, Value: n})
			continue
		}
		filters = append(filters, storage.Filter{Column: p.Column, Op: p.Op, Value: raw})
	}

	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}
	return filters, nil
}

func filtersOf(params []Param) []storage.Filter {
	out := make([]storage.Filter, len(params))
	for i, p := range params {
		out[i] = storage.Filter{Column: p.Column, Op: p.Op}
	}
	return out
}

func collectionName(rec any) string {
	if c, ok := rec.(interface{ Collection() string }); ok {
		return c.Collection()
	}
	return "resource"
}
