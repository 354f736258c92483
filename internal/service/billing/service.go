// Package billing records invoice payments and relays checkout orders to the
// payment gateway.
package billing

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/beavernet-backend/internal/adapter/payment"
	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

// gateway defines the payment gateway operations needed by the billing service.
type gateway interface {
	CreateOrder(ctx context.Context, in payment.OrderRequest) (*payment.Response, error)
	CaptureOrder(ctx context.Context, orderID string) (*payment.Response, error)
}

// Service implements billing workflows.
type Service struct {
	log      *slog.Logger
	invoices storage.Collection[domain.Invoice]
	payments storage.Collection[domain.Payment]
	gateway  gateway
	now      func() time.Time
}

// NewService creates a new billing service instance. gw may be nil, in
// which case the order operations return domain.ErrUnavailable.
func NewService(logger *slog.Logger, store *storage.Store, gw gateway) *Service {
	return &Service{
		log:      logger.With("service", "billing"),
		invoices: store.Invoices,
		payments: store.Payments,
		gateway:  gw,
		now:      storage.Now,
	}
}
