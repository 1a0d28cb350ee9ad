package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/escort/escort/internal/platform/db"
)

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository { return &userRepoPG{pool: pool} }

func (r *userRepoPG) conn(ctx context.Context) db.Querier {
	if q := db.QuerierFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const userCols = `id, open_id, phone, nickname, avatar_url, role, member_level, points,
	last_login_at, created_at, updated_at`

func (r *userRepoPG) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.OpenID, &u.Phone, &u.Nickname, &u.AvatarURL, &u.Role,
		&u.MemberLevel, &u.Points, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	return &u, err
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO app_user (id, open_id, phone, nickname, avatar_url, role, member_level, points, last_login_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())`,
		u.ID, u.OpenID, u.Phone, u.Nickname, u.AvatarURL, u.Role, u.MemberLevel, u.Points)
	return err
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM app_user WHERE id = $1`, id))
}

func (r *userRepoPG) GetByOpenID(ctx context.Context, openID string) (*User, error) {
	return r.scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM app_user WHERE open_id = $1`, openID))
}

func (r *userRepoPG) Update(ctx context.Context, u *User) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE app_user SET phone=$2, nickname=$3, avatar_url=$4, member_level=$5, points=$6, updated_at=NOW()
		WHERE id = $1`,
		u.ID, u.Phone, u.Nickname, u.AvatarURL, u.MemberLevel, u.Points)
	return err
}

func (r *userRepoPG) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE app_user SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *userRepoPG) AddPoints(ctx context.Context, id uuid.UUID, delta int) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE app_user SET points = points + $2, updated_at = NOW() WHERE id = $1`, id, delta)
	return err
}

func (r *userRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*User, int, error) {
	query := `SELECT ` + userCols + ` FROM app_user WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM app_user WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["phone"]; ok {
		query += fmt.Sprintf(` AND phone = $%d`, idx)
		countQuery += fmt.Sprintf(` AND phone = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["keyword"]; ok {
		query += fmt.Sprintf(` AND nickname ILIKE '%%' || $%d || '%%'`, idx)
		countQuery += fmt.Sprintf(` AND nickname ILIKE '%%' || $%d || '%%'`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["member_level"]; ok {
		query += fmt.Sprintf(` AND member_level = $%d`, idx)
		countQuery += fmt.Sprintf(` AND member_level = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, u)
	}
	return items, total, nil
}
