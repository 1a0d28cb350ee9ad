package patient

import (
	"time"

	"github.com/google/uuid"
)

// MaxPerUser caps how many dependents one member may register.
const MaxPerUser = 10

// Patient is a dependent a member books visits for. At most one patient per
// user carries IsDefault.
type Patient struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	Name      string     `db:"name" json:"name"`
	IDCard    *string    `db:"id_card" json:"id_card,omitempty"`
	Phone     *string    `db:"phone" json:"phone,omitempty"`
	Gender    *string    `db:"gender" json:"gender,omitempty"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Relation  string     `db:"relation" json:"relation"`
	IsDefault bool       `db:"is_default" json:"is_default"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
