package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/beavernet-backend/internal/adapter/payment"
	"github.com/heartmarshall/beavernet-backend/internal/domain"
)

// CreateOrder opens a checkout order with the payment gateway.
func (s *Service) CreateOrder(ctx context.Context, in OrderInput) (*payment.Response, error) {
	if s.gateway == nil {
		return nil, fmt.Errorf("billing.CreateOrder: payment gateway not configured: %w", domain.ErrUnavailable)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	intent := in.Intent
	if intent == "" {
		intent = "CAPTURE"
	}

	resp, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
		Amount:   in.Amount,
		Currency: strings.ToUpper(in.Currency),
		Intent:   intent,
	})
	if err != nil {
		return nil, fmt.Errorf("billing.CreateOrder: %w: %w", domain.ErrUnavailable, err)
	}
	return resp, nil
}

// CaptureOrder captures an approved gateway order.
func (s *Service) CaptureOrder(ctx context.Context, orderID string) (*payment.Response, error) {
	if s.gateway == nil {
		return nil, fmt.Errorf("billing.CaptureOrder: payment gateway not configured: %w", domain.ErrUnavailable)
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, domain.NewValidationError("orderId", "required")
	}

	resp, err := s.gateway.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("billing.CaptureOrder: %w: %w", domain.ErrUnavailable, err)
	}
	return resp, nil
}
