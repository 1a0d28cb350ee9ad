package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ServiceItem is a bookable escort service product. Display fields are
// snapshotted into orders at creation time, so edits here never change
// historical orders.
type ServiceItem struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Category      string    `db:"category" json:"category"`
	Description   *string   `db:"description" json:"description,omitempty"`
	Price         float64   `db:"price" json:"price"`
	OriginalPrice *float64  `db:"original_price" json:"original_price,omitempty"`
	CoverURL      *string   `db:"cover_url" json:"cover_url,omitempty"`
	SortOrder     int       `db:"sort_order" json:"sort_order"`
	OrderCount    int       `db:"order_count" json:"order_count"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Hospital maps to the hospital table.
type Hospital struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	City       string    `db:"city" json:"city"`
	Level      *string   `db:"level" json:"level,omitempty"`
	Address    *string   `db:"address" json:"address,omitempty"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	Intro      *string   `db:"intro" json:"intro,omitempty"`
	CoverURL   *string   `db:"cover_url" json:"cover_url,omitempty"`
	SortOrder  int       `db:"sort_order" json:"sort_order"`
	OrderCount int       `db:"order_count" json:"order_count"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Department is a hospital sub-unit patients pick when booking.
type Department struct {
	ID         uuid.UUID `db:"id" json:"id"`
	HospitalID uuid.UUID `db:"hospital_id" json:"hospital_id"`
	Name       string    `db:"name" json:"name"`
	Location   *string   `db:"location" json:"location,omitempty"`
	SortOrder  int       `db:"sort_order" json:"sort_order"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Escort is a paid companion assigned to accompany a patient during a
// hospital visit. Phone is staff-internal; client routes serve the ToView
// projection, which omits it.
type Escort struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Phone      string    `db:"phone" json:"phone,omitempty"`
	AvatarURL  *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	Gender     *string   `db:"gender" json:"gender,omitempty"`
	Age        *int      `db:"age" json:"age,omitempty"`
	YearsExp   int       `db:"years_exp" json:"years_exp"`
	City       string    `db:"city" json:"city"`
	Intro      *string   `db:"intro" json:"intro,omitempty"`
	Rating     float64   `db:"rating" json:"rating"`
	OrderCount int       `db:"order_count" json:"order_count"`
	Online     bool      `db:"online" json:"online"`
	Working    bool      `db:"working" json:"working"`
	SortOrder  int       `db:"sort_order" json:"sort_order"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// EscortView is the display-safe projection returned to mini-program clients.
type EscortView struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	Gender     *string   `json:"gender,omitempty"`
	Age        *int      `json:"age,omitempty"`
	YearsExp   int       `json:"years_exp"`
	City       string    `json:"city"`
	Intro      *string   `json:"intro,omitempty"`
	Rating     float64   `json:"rating"`
	OrderCount int       `json:"order_count"`
	Online     bool      `json:"online"`
	Working    bool      `json:"working"`
}

func (e *Escort) ToView() *EscortView {
	return &EscortView{
		ID:         e.ID,
		Name:       e.Name,
		AvatarURL:  e.AvatarURL,
		Gender:     e.Gender,
		Age:        e.Age,
		YearsExp:   e.YearsExp,
		City:       e.City,
		Intro:      e.Intro,
		Rating:     e.Rating,
		OrderCount: e.OrderCount,
		Online:     e.Online,
		Working:    e.Working,
	}
}
