package identity

import (
	"time"

	"github.com/google/uuid"
)

// Membership tiers, lowest first.
const (
	LevelBronze   = "bronze"
	LevelSilver   = "silver"
	LevelGold     = "gold"
	LevelPlatinum = "platinum"
)

// User is created on first login with the platform identity and filled in as
// the member binds a phone and edits their profile.
type User struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	OpenID      string     `db:"open_id" json:"-"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	Nickname    string     `db:"nickname" json:"nickname"`
	AvatarURL   *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	Role        string     `db:"role" json:"role"`
	MemberLevel string     `db:"member_level" json:"member_level"`
	Points      int        `db:"points" json:"points"`
	LastLoginAt *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// NeedBindPhone reports whether the member still has to bind a phone number.
func (u *User) NeedBindPhone() bool { return u.Phone == nil || *u.Phone == "" }

// LoginResult is the login response payload.
type LoginResult struct {
	Token         string `json:"token"`
	IsNewUser     bool   `json:"is_new_user"`
	NeedBindPhone bool   `json:"need_bind_phone"`
	User          *User  `json:"user"`
}
