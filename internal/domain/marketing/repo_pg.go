package marketing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/escort/escort/internal/platform/db"
)

// =========== Campaign Repository ===========

type campaignRepoPG struct{ pool *pgxpool.Pool }

func NewCampaignRepoPG(pool *pgxpool.Pool) CampaignRepository { return &campaignRepoPG{pool: pool} }

func (r *campaignRepoPG) conn(ctx context.Context) db.Querier {
	if q := db.QuerierFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const campaignCols = `id, title, description, banner_url, start_at, end_at, active,
	created_at, updated_at`

func (r *campaignRepoPG) scanCampaign(row pgx.Row) (*Campaign, error) {
	var c Campaign
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.BannerURL, &c.StartAt, &c.EndAt,
		&c.Active, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *campaignRepoPG) Create(ctx context.Context, c *Campaign) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO campaign (id, title, description, banner_url, start_at, end_at, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.Title, c.Description, c.BannerURL, c.StartAt, c.EndAt, c.Active)
	return err
}

func (r *campaignRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Campaign, error) {
	return r.scanCampaign(r.conn(ctx).QueryRow(ctx,
		`SELECT `+campaignCols+` FROM campaign WHERE id = $1`, id))
}

func (r *campaignRepoPG) Update(ctx context.Context, c *Campaign) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE campaign SET title=$2, description=$3, banner_url=$4, start_at=$5, end_at=$6,
			active=$7, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.Title, c.Description, c.BannerURL, c.StartAt, c.EndAt, c.Active)
	return err
}

func (r *campaignRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM campaign WHERE id = $1`, id)
	return err
}

func (r *campaignRepoPG) ListActive(ctx context.Context, now time.Time) ([]*Campaign, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+campaignCols+` FROM campaign
		WHERE active AND start_at <= $1 AND end_at > $1
		ORDER BY start_at ASC`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Campaign
	for rows.Next() {
		c, err := r.scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, nil
}

func (r *campaignRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Campaign, int, error) {
	query := `SELECT ` + campaignCols + ` FROM campaign WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM campaign WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["keyword"]; ok {
		query += fmt.Sprintf(` AND title ILIKE '%%' || $%d || '%%'`, idx)
		countQuery += fmt.Sprintf(` AND title ILIKE '%%' || $%d || '%%'`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["active"]; ok {
		query += fmt.Sprintf(` AND active = $%d`, idx)
		countQuery += fmt.Sprintf(` AND active = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY start_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Campaign
	for rows.Next() {
		c, err := r.scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

// =========== Seckill Repository ===========

type seckillRepoPG struct{ pool *pgxpool.Pool }

func NewSeckillRepoPG(pool *pgxpool.Pool) SeckillRepository { return &seckillRepoPG{pool: pool} }

func (r *seckillRepoPG) conn(ctx context.Context) db.Querier {
	if q := db.QuerierFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const seckillItemCols = `id, campaign_id, service_id, service_name, seckill_price,
	original_price, stock, total_stock, sort_order, created_at, updated_at`

func (r *seckillRepoPG) scanItem(row pgx.Row) (*SeckillItem, error) {
	var it SeckillItem
	err := row.Scan(&it.ID, &it.CampaignID, &it.ServiceID, &it.ServiceName, &it.SeckillPrice,
		&it.OriginalPrice, &it.Stock, &it.TotalStock, &it.SortOrder, &it.CreatedAt, &it.UpdatedAt)
	return &it, err
}

func (r *seckillRepoPG) CreateItem(ctx context.Context, item *SeckillItem) error {
	item.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO seckill_item (id, campaign_id, service_id, service_name, seckill_price,
			original_price, stock, total_stock, sort_order)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		item.ID, item.CampaignID, item.ServiceID, item.ServiceName, item.SeckillPrice,
		item.OriginalPrice, item.Stock, item.TotalStock, item.SortOrder)
	return err
}

func (r *seckillRepoPG) GetItem(ctx context.Context, id uuid.UUID) (*SeckillItem, error) {
	return r.scanItem(r.conn(ctx).QueryRow(ctx,
		`SELECT `+seckillItemCols+` FROM seckill_item WHERE id = $1`, id))
}

func (r *seckillRepoPG) UpdateItem(ctx context.Context, item *SeckillItem) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE seckill_item SET seckill_price=$2, original_price=$3, stock=$4, total_stock=$5,
			sort_order=$6, updated_at=NOW()
		WHERE id = $1`,
		item.ID, item.SeckillPrice, item.OriginalPrice, item.Stock, item.TotalStock, item.SortOrder)
	return err
}

func (r *seckillRepoPG) DeleteItem(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM seckill_item WHERE id = $1`, id)
	return err
}

func (r *seckillRepoPG) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]*SeckillItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+seckillItemCols+` FROM seckill_item
		WHERE campaign_id = $1 ORDER BY sort_order ASC`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*SeckillItem
	for rows.Next() {
		it, err := r.scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// Reserve decrements stock and records the reservation in one transaction.
// The conditional UPDATE keeps stock from going negative under concurrent
// reserves; the unique index on (item_id, user_id) keeps a user from holding
// two units.
func (r *seckillRepoPG) Reserve(ctx context.Context, itemID, userID uuid.UUID) (*Reservation, error) {
	res := &Reservation{ID: uuid.New(), ItemID: itemID, UserID: userID}
	err := db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		q := db.QuerierFromContext(ctx)
		tag, err := q.Exec(ctx,
			`UPDATE seckill_item SET stock = stock - 1, updated_at = NOW() WHERE id = $1 AND stock > 0`, itemID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrSoldOut
		}
		_, err = q.Exec(ctx,
			`INSERT INTO seckill_reservation (id, item_id, user_id) VALUES ($1,$2,$3)`,
			res.ID, res.ItemID, res.UserID)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyReserved
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *seckillRepoPG) ListReservationsByUser(ctx context.Context, userID uuid.UUID) ([]*Reservation, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, item_id, user_id, created_at FROM seckill_reservation
		WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Reservation
	for rows.Next() {
		var res Reservation
		if err := rows.Scan(&res.ID, &res.ItemID, &res.UserID, &res.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &res)
	}
	return items, nil
}
