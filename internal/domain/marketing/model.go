package marketing

import (
	"time"

	"github.com/google/uuid"
)

// Campaign is a time-bounded promotion carrying seckill items.
type Campaign struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	BannerURL   *string   `db:"banner_url" json:"banner_url,omitempty"`
	StartAt     time.Time `db:"start_at" json:"start_at"`
	EndAt       time.Time `db:"end_at" json:"end_at"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	Items []*SeckillItem `db:"-" json:"items,omitempty"`
}

// InWindow reports whether the campaign is live at t.
func (c *Campaign) InWindow(t time.Time) bool {
	return c.Active && !t.Before(c.StartAt) && t.Before(c.EndAt)
}

// SeckillItem is limited discounted stock for one service inside a campaign.
// The service name and original price are snapshotted at creation.
type SeckillItem struct {
	ID            uuid.UUID `db:"id" json:"id"`
	CampaignID    uuid.UUID `db:"campaign_id" json:"campaign_id"`
	ServiceID     uuid.UUID `db:"service_id" json:"service_id"`
	ServiceName   string    `db:"service_name" json:"service_name"`
	SeckillPrice  float64   `db:"seckill_price" json:"seckill_price"`
	OriginalPrice float64   `db:"original_price" json:"original_price"`
	Stock         int       `db:"stock" json:"stock"`
	TotalStock    int       `db:"total_stock" json:"total_stock"`
	SortOrder     int       `db:"sort_order" json:"sort_order"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Reservation records one member holding one unit of a seckill item.
type Reservation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ItemID    uuid.UUID `db:"item_id" json:"item_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
