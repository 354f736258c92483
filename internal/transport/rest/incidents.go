package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/service/dispatch"
)

// dispatchService defines the dispatch operations used by DispatchHandler.
type dispatchService interface {
	ChangeStatus(ctx context.Context, incidentID int64, in dispatch.StatusInput) (domain.Incident, error)
	Assign(ctx context.Context, incidentID int64, in dispatch.AssignInput) (domain.IncidentUnit, error)
	Assignments(ctx context.Context, incidentID int64) ([]domain.IncidentUnit, error)
}

// DispatchHandler serves the incident workflow endpoints.
type DispatchHandler struct {
	svc dispatchService
	log *slog.Logger
}

// NewDispatchHandler creates a DispatchHandler.
func NewDispatchHandler(svc dispatchService, logger *slog.Logger) *DispatchHandler {
	return &DispatchHandler{svc: svc, log: logger.With("handler", "dispatch")}
}

// ChangeStatus handles POST /api/incidents/{id}/status.
func (h *DispatchHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var in dispatch.StatusInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	incident, err := h.svc.ChangeStatus(r.Context(), id, in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, incident)
}

// Assign handles POST /api/incidents/{id}/assign.
func (h *DispatchHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var in dispatch.AssignInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	a, err := h.svc.Assign(r.Context(), id, in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// Units handles GET /api/incidents/{id}/units.
func (h *DispatchHandler) Units(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	assignments, err := h.svc.Assignments(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}
