package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ServiceRepository persists bookable service products.
type ServiceRepository interface {
	Create(ctx context.Context, s *ServiceItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*ServiceItem, error)
	Update(ctx context.Context, s *ServiceItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*ServiceItem, int, error)
	IncrementOrderCount(ctx context.Context, id uuid.UUID) error
}

// HospitalRepository persists hospitals.
type HospitalRepository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	Update(ctx context.Context, h *Hospital) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Hospital, int, error)
}

// DepartmentRepository persists hospital departments.
type DepartmentRepository interface {
	Create(ctx context.Context, d *Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*Department, error)
	Update(ctx context.Context, d *Department) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Department, error)
}

// EscortRepository persists escorts.
type EscortRepository interface {
	Create(ctx context.Context, e *Escort) error
	GetByID(ctx context.Context, id uuid.UUID) (*Escort, error)
	Update(ctx context.Context, e *Escort) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Escort, int, error)
	IncrementOrderCount(ctx context.Context, id uuid.UUID) error
}
