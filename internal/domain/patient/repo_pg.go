package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/escort/escort/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	if q := db.QuerierFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const patientCols = `id, user_id, name, id_card, phone, gender, birth_date, relation,
	is_default, created_at, updated_at`

func (r *repoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.IDCard, &p.Phone, &p.Gender,
		&p.BirthDate, &p.Relation, &p.IsDefault, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, user_id, name, id_card, phone, gender, birth_date, relation, is_default)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.UserID, p.Name, p.IDCard, p.Phone, p.Gender, p.BirthDate, p.Relation, p.IsDefault)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET name=$2, id_card=$3, phone=$4, gender=$5, birth_date=$6,
			relation=$7, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.IDCard, p.Phone, p.Gender, p.BirthDate, p.Relation)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patient WHERE user_id = $1 ORDER BY is_default DESC, created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}

func (r *repoPG) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// SetDefault clears the user's previous default and marks patientID inside a
// single transaction, so the one-default invariant holds even if the server
// dies between the two statements.
func (r *repoPG) SetDefault(ctx context.Context, userID, patientID uuid.UUID) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		q := db.QuerierFromContext(ctx)
		if _, err := q.Exec(ctx,
			`UPDATE patient SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default`, userID); err != nil {
			return err
		}
		tag, err := q.Exec(ctx,
			`UPDATE patient SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`, patientID, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}
