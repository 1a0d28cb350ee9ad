package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByOpenID(ctx context.Context, openID string) (*User, error)
	Update(ctx context.Context, u *User) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	AddPoints(ctx context.Context, id uuid.UUID, delta int) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*User, int, error)
}
