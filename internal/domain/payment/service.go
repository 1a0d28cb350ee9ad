// Package payment exposes the two-phase payment flow: a prepay call the
// client makes before opening the wallet SDK, and the asynchronous provider
// callback that settles the order.
package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/escort/escort/internal/domain/identity"
	"github.com/escort/escort/internal/domain/order"
	paygw "github.com/escort/escort/internal/platform/payment"
	"github.com/escort/escort/pkg/apperr"
)

// Orders is the slice of the order service payments need.
type Orders interface {
	GetMine(ctx context.Context, callerID, id uuid.UUID) (*order.Order, error)
	MarkPaid(ctx context.Context, orderNo, method, transactionID string) (*order.Order, error)
}

// Users resolves the payer's platform identity for the gateway.
type Users interface {
	GetUser(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

// Gateway creates prepay transactions at the payment provider.
type Gateway interface {
	UnifiedOrder(ctx context.Context, req paygw.UnifiedOrderRequest) (*paygw.PrepayParams, error)
}

// ResultSuccess is the provider's success result code.
const ResultSuccess = "SUCCESS"

// CallbackRequest is the provider's asynchronous notification payload.
type CallbackRequest struct {
	OrderNo       string `json:"order_no"`
	TransactionID string `json:"transaction_id"`
	ResultCode    string `json:"result_code"`
	PayMethod     string `json:"pay_method"`
}

type Service struct {
	orders  Orders
	users   Users
	gateway Gateway
}

func NewService(orders Orders, users Users, gateway Gateway) *Service {
	return &Service{orders: orders, users: users, gateway: gateway}
}

// Prepay validates ownership and that the order is still pending, then asks
// the gateway for the opaque parameters the wallet SDK needs. Amounts go to
// the wire in minor units.
func (s *Service) Prepay(ctx context.Context, callerID, orderID uuid.UUID) (*paygw.PrepayParams, error) {
	o, err := s.orders.GetMine(ctx, callerID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusPending {
		return nil, apperr.Validation("order in status %q cannot be paid", o.Status)
	}

	u, err := s.users.GetUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	params, err := s.gateway.UnifiedOrder(ctx, paygw.UnifiedOrderRequest{
		OutTradeNo:  o.OrderNo,
		Description: o.ServiceName,
		AmountFen:   paygw.ToMinorUnits(o.PaidAmount),
		OpenID:      u.OpenID,
	})
	if err != nil {
		return nil, apperr.Internalf(err, "gateway unified order")
	}
	return params, nil
}

// HandleCallback applies a provider notification. Non-success results are
// acknowledged without touching the order; success results stamp the payment
// fields matched by order number.
func (s *Service) HandleCallback(ctx context.Context, req *CallbackRequest) error {
	if req.OrderNo == "" {
		return apperr.Validation("order_no is required")
	}
	if req.ResultCode != ResultSuccess {
		return nil
	}

	method := req.PayMethod
	if method == "" {
		method = "wallet"
	}
	_, err := s.orders.MarkPaid(ctx, req.OrderNo, method, req.TransactionID)
	return err
}
