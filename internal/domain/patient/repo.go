package patient

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists patients. SetDefault must clear the user's previous
// default and set the new one atomically.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Patient, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	SetDefault(ctx context.Context, userID, patientID uuid.UUID) error
}
