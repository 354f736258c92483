package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/service/notary"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

// notaryService defines the document workflow operations used by the handlers.
type notaryService interface {
	Create(ctx context.Context, doc domain.Document) (domain.Document, error)
	Update(ctx context.Context, id int64, patch func(*domain.Document) error) (domain.Document, error)
	Notarize(ctx context.Context, id int64, in notary.NotarizeInput) (domain.Document, error)
	Revoke(ctx context.Context, id int64) (domain.Document, error)
	Verify(ctx context.Context, token string) (notary.Verification, error)
}

// documentRepository reads straight from the collection but sends writes
// through the notary service, which owns uid and token issuance.
type documentRepository struct {
	storage.Collection[domain.Document]
	svc notaryService
}

func (r documentRepository) Create(ctx context.Context, d domain.Document) (domain.Document, error) {
	return r.svc.Create(ctx, d)
}

func (r documentRepository) Update(ctx context.Context, id int64, fn func(*domain.Document) error) (domain.Document, error) {
	return r.svc.Update(ctx, id, fn)
}

// DocumentHandler serves the notarization workflow endpoints.
type DocumentHandler struct {
	svc notaryService
	log *slog.Logger
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(svc notaryService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{svc: svc, log: logger.With("handler", "documents")}
}

// Notarize handles POST /api/documents/{id}/notarize.
func (h *DocumentHandler) Notarize(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var in notary.NotarizeInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	doc, err := h.svc.Notarize(r.Context(), id, in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Revoke handles POST /api/documents/{id}/revoke.
func (h *DocumentHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	doc, err := h.svc.Revoke(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Verify handles GET /public/documents/verify/{token}. It needs no
// credentials; unknown and invalid tokens both answer 404.
func (h *DocumentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Verify(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
