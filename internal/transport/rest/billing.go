package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/beavernet-backend/internal/adapter/payment"
	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/service/billing"
)

// billingService defines the billing operations used by BillingHandler.
type billingService interface {
	PayInvoice(ctx context.Context, invoiceID int64, in billing.PayInput) (domain.Payment, error)
	CreateOrder(ctx context.Context, in billing.OrderInput) (*payment.Response, error)
	CaptureOrder(ctx context.Context, orderID string) (*payment.Response, error)
}

// BillingHandler serves invoice payment and gateway order endpoints.
type BillingHandler struct {
	svc billingService
	log *slog.Logger
}

// NewBillingHandler creates a BillingHandler.
func NewBillingHandler(svc billingService, logger *slog.Logger) *BillingHandler {
	return &BillingHandler{svc: svc, log: logger.With("handler", "billing")}
}

// PayInvoice handles POST /api/invoices/{id}/pay.
func (h *BillingHandler) PayInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var in billing.PayInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	p, err := h.svc.PayInvoice(r.Context(), id, in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// CreateOrder handles POST /api/payments/orders.
func (h *BillingHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in billing.OrderInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp, err := h.svc.CreateOrder(r.Context(), in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	relay(w, resp)
}

// CaptureOrder handles POST /api/payments/orders/{orderId}/capture.
func (h *BillingHandler) CaptureOrder(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.CaptureOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	relay(w, resp)
}

// relay writes the gateway's status and JSON body unchanged.
func relay(w http.ResponseWriter, resp *payment.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	w.Write(resp.Body) //nolint:errcheck
}
