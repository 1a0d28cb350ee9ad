package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByOrderNo(ctx context.Context, orderNo string) (*Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]*Order, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Order, int, error)

	MarkCancelled(ctx context.Context, id uuid.UUID, reason string, at time.Time) error
	// MarkPaid overwrites the payment fields matched by order number. The
	// write is a blind overwrite so a replayed provider callback lands on the
	// same final state.
	MarkPaid(ctx context.Context, orderNo, method, transactionID string, at time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error
	AssignEscort(ctx context.Context, id, escortID uuid.UUID, escortName string) error
}
