package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/escort/escort/internal/platform/db"
)

// =========== Service Repository ===========

type serviceRepoPG struct{ pool *pgxpool.Pool }

func NewServiceRepoPG(pool *pgxpool.Pool) ServiceRepository { return &serviceRepoPG{pool: pool} }

func (r *serviceRepoPG) conn(ctx context.Context) db.Querier {
	if q := db.QuerierFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const serviceCols = `id, name, category, description, price, original_price, cover_url,
	sort_order, order_count, active, created_at, updated_at`

func (r *serviceRepoPG) scanService(row pgx.Row) (*ServiceItem, error) {
	var s ServiceItem
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Description, &s.Price, &s.OriginalPrice,
		&s.CoverURL, &s.SortOrder, &s.OrderCount, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *serviceRepoPG) Create(ctx context.Context, s *ServiceItem) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO service (id, name, category, description, price, original_price, cover_url,
			sort_order, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		s.ID, s.Name, s.Category, s.Description, s.Price, s.OriginalPrice, s.CoverURL,
		s.SortOrder, s.Active)
	return err
}

func (r *serviceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ServiceItem, error) {
	return r.scanService(r.conn(ctx).QueryRow(ctx, `SELECT `+serviceCols+` FROM service WHERE id = $1`, id))
}

func (r *serviceRepoPG) Update(ctx context.Context, s *ServiceItem) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE service SET name=$2, category=$3, description=$4, price=$5, original_price=$6,
			cover_url=$7, sort_order=$8, active=$9, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Name, s.Category, s.Description, s.Price, s.OriginalPrice,
		s.CoverURL, s.SortOrder, s.Active)
	return err
}

func (r *serviceRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM service WHERE id = $1`, id)
	return err
}

func (r *serviceRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*ServiceItem, int, error) {
	query := `SELECT ` + serviceCols + ` FROM service WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM service WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["category"]; ok {
		query += fmt.Sprintf(` AND category = $%d`, idx)
		countQuery += fmt.Sprintf(` AND category = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["keyword"]; ok {
		query += fmt.Sprintf(` AND name ILIKE '%%' || $%d || '%%'`, idx)
		countQuery += fmt.Sprintf(` AND name ILIKE '%%' || $%d || '%%'`, idx)
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

	query += fmt.Sprintf(` ORDER BY sort_order ASC, order_count DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*ServiceItem
	for rows.Next() {
		s, err := r.scanService(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, nil
}

func (r *serviceRepoPG) IncrementOrderCount(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE service SET order_count = order_count + 1, updated_at = NOW() WHERE id = $1`, id)
	return err
}

// =========== Hospital Repository ===========

type hospitalRepoPG struct{ pool *pgxpool.Pool }

func NewHospitalRepoPG(pool *pgxpool.Pool) HospitalRepository { return &hospitalRepoPG{pool: pool} }

func (r *hospitalRepoPG) conn(ctx context.Context) db.Querier {
	if q := db.QuerierFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const hospitalCols = `id, name, city, level, address, phone, intro, cover_url,
	sort_order, order_count, active, created_at, updated_at`

func (r *hospitalRepoPG) scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.Name, &h.City, &h.Level, &h.Address, &h.Phone, &h.Intro,
		&h.CoverURL, &h.SortOrder, &h.OrderCount, &h.Active, &h.CreatedAt, &h.UpdatedAt)
	return &h, err
}

func (r *hospitalRepoPG) Create(ctx context.Context, h *Hospital) error {
	h.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO hospital (id, name, city, level, address, phone, intro, cover_url,
			sort_order, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		h.ID, h.Name, h.City, h.Level, h.Address, h.Phone, h.Intro, h.CoverURL,
		h.SortOrder, h.Active)
	return err
}

func (r *hospitalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return r.scanHospital(r.conn(ctx).QueryRow(ctx, `SELECT `+hospitalCols+` FROM hospital WHERE id = $1`, id))
}

func (r *hospitalRepoPG) Update(ctx context.Context, h *Hospital) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE hospital SET name=$2, city=$3, level=$4, address=$5, phone=$6, intro=$7,
			cover_url=$8, sort_order=$9, active=$10, updated_at=NOW()
		WHERE id = $1`,
		h.ID, h.Name, h.City, h.Level, h.Address, h.Phone, h.Intro,
		h.CoverURL, h.SortOrder, h.Active)
	return err
}

func (r *hospitalRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM hospital WHERE id = $1`, id)
	return err
}

func (r *hospitalRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Hospital, int, error) {
	query := `SELECT ` + hospitalCols + ` FROM hospital WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM hospital WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["city"]; ok {
		query += fmt.Sprintf(` AND city = $%d`, idx)
		countQuery += fmt.Sprintf(` AND city = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["level"]; ok {
		query += fmt.Sprintf(` AND level = $%d`, idx)
		countQuery += fmt.Sprintf(` AND level = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["keyword"]; ok {
		query += fmt.Sprintf(` AND name ILIKE '%%' || $%d || '%%'`, idx)
		countQuery += fmt.Sprintf(` AND name ILIKE '%%' || $%d || '%%'`, idx)
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

	query += fmt.Sprintf(` ORDER BY sort_order ASC, order_count DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Hospital
	for rows.Next() {
		h, err := r.scanHospital(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, h)
	}
	return items, total, nil
}

// =========== Department Repository ===========

type departmentRepoPG struct{ pool *pgxpool.Pool }

func NewDepartmentRepoPG(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepoPG{pool: pool}
}

func (r *departmentRepoPG) conn(ctx context.Context) db.Querier {
	if q := db.QuerierFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const departmentCols = `id, hospital_id, name, location, sort_order, created_at, updated_at`

func (r *departmentRepoPG) scanDepartment(row pgx.Row) (*Department, error) {
	var d Department
	err := row.Scan(&d.ID, &d.HospitalID, &d.Name, &d.Location, &d.SortOrder,
		&d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *departmentRepoPG) Create(ctx context.Context, d *Department) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO department (id, hospital_id, name, location, sort_order)
		VALUES ($1,$2,$3,$4,$5)`,
		d.ID, d.HospitalID, d.Name, d.Location, d.SortOrder)
	return err
}

func (r *departmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Department, error) {
	return r.scanDepartment(r.conn(ctx).QueryRow(ctx, `SELECT `+departmentCols+` FROM department WHERE id = $1`, id))
}

func (r *departmentRepoPG) Update(ctx context.Context, d *Department) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE department SET name=$2, location=$3, sort_order=$4, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.Location, d.SortOrder)
	return err
}

func (r *departmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM department WHERE id = $1`, id)
	return err
}

func (r *departmentRepoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Department, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+departmentCols+` FROM department WHERE hospital_id = $1 ORDER BY sort_order ASC, name ASC`, hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Department
	for rows.Next() {
		d, err := r.scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, nil
}

// =========== Escort Repository ===========

type escortRepoPG struct{ pool *pgxpool.Pool }

func NewEscortRepoPG(pool *pgxpool.Pool) EscortRepository { return &escortRepoPG{pool: pool} }

func (r *escortRepoPG) conn(ctx context.Context) db.Querier {
	if q := db.QuerierFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const escortCols = `id, name, phone, avatar_url, gender, age, years_exp, city, intro,
	rating, order_count, online, working, sort_order, active, created_at, updated_at`

func (r *escortRepoPG) scanEscort(row pgx.Row) (*Escort, error) {
	var e Escort
	err := row.Scan(&e.ID, &e.Name, &e.Phone, &e.AvatarURL, &e.Gender, &e.Age, &e.YearsExp,
		&e.City, &e.Intro, &e.Rating, &e.OrderCount, &e.Online, &e.Working,
		&e.SortOrder, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *escortRepoPG) Create(ctx context.Context, e *Escort) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO escort (id, name, phone, avatar_url, gender, age, years_exp, city, intro,
			rating, online, working, sort_order, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		e.ID, e.Name, e.Phone, e.AvatarURL, e.Gender, e.Age, e.YearsExp, e.City, e.Intro,
		e.Rating, e.Online, e.Working, e.SortOrder, e.Active)
	return err
}

func (r *escortRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Escort, error) {
	return r.scanEscort(r.conn(ctx).QueryRow(ctx, `SELECT `+escortCols+` FROM escort WHERE id = $1`, id))
}

func (r *escortRepoPG) Update(ctx context.Context, e *Escort) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE escort SET name=$2, phone=$3, avatar_url=$4, gender=$5, age=$6, years_exp=$7,
			city=$8, intro=$9, rating=$10, online=$11, working=$12, sort_order=$13, active=$14,
			updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.Name, e.Phone, e.AvatarURL, e.Gender, e.Age, e.YearsExp,
		e.City, e.Intro, e.Rating, e.Online, e.Working, e.SortOrder, e.Active)
	return err
}

func (r *escortRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM escort WHERE id = $1`, id)
	return err
}

func (r *escortRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Escort, int, error) {
	query := `SELECT ` + escortCols + ` FROM escort WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM escort WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["city"]; ok {
		query += fmt.Sprintf(` AND city = $%d`, idx)
		countQuery += fmt.Sprintf(` AND city = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["keyword"]; ok {
		query += fmt.Sprintf(` AND name ILIKE '%%' || $%d || '%%'`, idx)
		countQuery += fmt.Sprintf(` AND name ILIKE '%%' || $%d || '%%'`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["online"]; ok {
		query += fmt.Sprintf(` AND online = $%d`, idx)
		countQuery += fmt.Sprintf(` AND online = $%d`, idx)
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

	query += fmt.Sprintf(` ORDER BY sort_order ASC, order_count DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Escort
	for rows.Next() {
		e, err := r.scanEscort(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}

func (r *escortRepoPG) IncrementOrderCount(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE escort SET order_count = order_count + 1, updated_at = NOW() WHERE id = $1`, id)
	return err
}
