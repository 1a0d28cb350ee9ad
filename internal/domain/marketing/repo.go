package marketing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Reserve outcomes surfaced as sentinel errors by the repository.
var (
	ErrSoldOut         = errors.New("seckill item sold out")
	ErrAlreadyReserved = errors.New("already reserved by this user")
)

// CampaignRepository persists campaigns.
type CampaignRepository interface {
	Create(ctx context.Context, c *Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*Campaign, error)
	Update(ctx context.Context, c *Campaign) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context, now time.Time) ([]*Campaign, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Campaign, int, error)
}

// SeckillRepository persists seckill items and reservations. Reserve must
// decrement stock and record the reservation atomically, never letting stock
// go below zero and never admitting the same user twice.
type SeckillRepository interface {
	CreateItem(ctx context.Context, item *SeckillItem) error
	GetItem(ctx context.Context, id uuid.UUID) (*SeckillItem, error)
	UpdateItem(ctx context.Context, item *SeckillItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]*SeckillItem, error)

	Reserve(ctx context.Context, itemID, userID uuid.UUID) (*Reservation, error)
	ListReservationsByUser(ctx context.Context, userID uuid.UUID) ([]*Reservation, error)
}
