package billing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
)

// PayInvoice records a completed payment for the full invoice amount and
// marks the invoice paid. Paid and void invoices are rejected with
// domain.ErrConflict.
func (s *Service) PayInvoice(ctx context.Context, invoiceID int64, in PayInput) (domain.Payment, error) {
	if in.Method == "" {
		return domain.Payment{}, domain.NewValidationError("method", "required")
	}

	now := s.now()
	invoice, err := s.invoices.Update(ctx, invoiceID, func(inv *domain.Invoice) error {
		if !inv.Status.IsPayable() {
			return fmt.Errorf("invoice %s is %s: %w", inv.InvoiceNumber, inv.Status, domain.ErrConflict)
		}
		inv.Status = domain.InvoicePaid
		inv.PaidAt = &now
		return nil
	})
	if err != nil {
		return domain.Payment{}, fmt.Errorf("billing.PayInvoice: %w", err)
	}

	id := invoice.ID
	p, err := s.payments.Create(ctx, domain.Payment{
		InvoiceID:   &id,
		Amount:      invoice.Amount,
		Currency:    invoice.Currency,
		Method:      in.Method,
		Reference:   in.Reference,
		Status:      "completed",
		ProcessedAt: &now,
	})
	if err != nil {
		// The invoice already reads paid; surface enough to reconcile by hand.
		s.log.ErrorContext(ctx, "invoice marked paid without payment record",
			slog.Int64("invoice_id", invoice.ID),
			slog.String("error", err.Error()),
		)
		return domain.Payment{}, fmt.Errorf("billing.PayInvoice: record payment: %w", err)
	}

	s.log.InfoContext(ctx, "invoice paid",
		slog.Int64("invoice_id", invoice.ID),
		slog.Int64("payment_id", p.ID),
		slog.String("method", in.Method),
	)
	return p, nil
}
