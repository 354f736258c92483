package billing

import (
	"context"
	"sync"

	"github.com/heartmarshall/beavernet-backend/internal/adapter/payment"
)

var _ gateway = &gatewayMock{}

type gatewayMock struct {
	CreateOrderFunc  func(ctx context.Context, in payment.OrderRequest) (*payment.Response, error)
	CaptureOrderFunc func(ctx context.Context, orderID string) (*payment.Response, error)

	calls struct {
		CreateOrder []struct {
			Ctx context.Context
			In  payment.OrderRequest
		}
		CaptureOrder []struct {
			Ctx     context.Context
			OrderID string
		}
	}
	lockCreateOrder  sync.RWMutex
	lockCaptureOrder sync.RWMutex
}

func (mock *gatewayMock) CreateOrder(ctx context.Context, in payment.OrderRequest) (*payment.Response, error) {
	if mock.CreateOrderFunc == nil {
		panic("gatewayMock.CreateOrderFunc: method is nil but gateway.CreateOrder was just called")
	}
	callInfo := struct {
		Ctx context.Context
		In  payment.OrderRequest
	}{Ctx: ctx, In: in}
	mock.lockCreateOrder.Lock()
	mock.calls.CreateOrder = append(mock.calls.CreateOrder, callInfo)
	mock.lockCreateOrder.Unlock()
	return mock.CreateOrderFunc(ctx, in)
}

func (mock *gatewayMock) CreateOrderCalls() []struct {
	Ctx context.Context
	In  payment.OrderRequest
} {
	mock.lockCreateOrder.RLock()
	calls := mock.calls.CreateOrder
	mock.lockCreateOrder.RUnlock()
	return calls
}

func (mock *gatewayMock) CaptureOrder(ctx context.Context, orderID string) (*payment.Response, error) {
	if mock.CaptureOrderFunc == nil {
		panic("gatewayMock.CaptureOrderFunc: method is nil but gateway.CaptureOrder was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		OrderID string
	}{Ctx: ctx, OrderID: orderID}
	mock.lockCaptureOrder.Lock()
	mock.calls.CaptureOrder = append(mock.calls.CaptureOrder, callInfo)
	mock.lockCaptureOrder.Unlock()
	return mock.CaptureOrderFunc(ctx, orderID)
}

func (mock *gatewayMock) CaptureOrderCalls() []struct {
	Ctx     context.Context
	OrderID string
} {
	mock.lockCaptureOrder.RLock()
	calls := mock.calls.CaptureOrder
	mock.lockCaptureOrder.RUnlock()
	return calls
}
