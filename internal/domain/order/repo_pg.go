package order

import (
	"context"
	"fmt"
	"time"

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

const orderCols = `id, order_no, user_id,
	service_id, service_name, hospital_id, hospital_name,
	department_id, department_name, patient_id, patient_name,
	escort_id, escort_name,
	appointment_date, appointment_time, remark,
	total_amount, discount_amount, coupon_amount, paid_amount,
	status, cancel_reason, cancelled_at,
	pay_method, paid_at, transaction_id, completed_at,
	created_at, updated_at`

func (r *repoPG) scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.OrderNo, &o.UserID,
		&o.ServiceID, &o.ServiceName, &o.HospitalID, &o.HospitalName,
		&o.DepartmentID, &o.DepartmentName, &o.PatientID, &o.PatientName,
		&o.EscortID, &o.EscortName,
		&o.AppointmentDate, &o.AppointmentTime, &o.Remark,
		&o.TotalAmount, &o.DiscountAmount, &o.CouponAmount, &o.PaidAmount,
		&o.Status, &o.CancelReason, &o.CancelledAt,
		&o.PayMethod, &o.PaidAt, &o.TransactionID, &o.CompletedAt,
		&o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func (r *repoPG) Create(ctx context.Context, o *Order) error {
	o.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO booking_order (id, order_no, user_id,
			service_id, service_name, hospital_id, hospital_name,
			department_id, department_name, patient_id, patient_name,
			escort_id, escort_name,
			appointment_date, appointment_time, remark,
			total_amount, discount_amount, coupon_amount, paid_amount, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`,
		o.ID, o.OrderNo, o.UserID,
		o.ServiceID, o.ServiceName, o.HospitalID, o.HospitalName,
		o.DepartmentID, o.DepartmentName, o.PatientID, o.PatientName,
		o.EscortID, o.EscortName,
		o.AppointmentDate, o.AppointmentTime, o.Remark,
		o.TotalAmount, o.DiscountAmount, o.CouponAmount, o.PaidAmount, o.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	return r.scanOrder(r.conn(ctx).QueryRow(ctx, `SELECT `+orderCols+` FROM booking_order WHERE id = $1`, id))
}

func (r *repoPG) GetByOrderNo(ctx context.Context, orderNo string) (*Order, error) {
	return r.scanOrder(r.conn(ctx).QueryRow(ctx, `SELECT `+orderCols+` FROM booking_order WHERE order_no = $1`, orderNo))
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]*Order, int, error) {
	where := ` WHERE user_id = $1`
	args := []interface{}{userID}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM booking_order`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM booking_order%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderCols, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, nil
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Order, int, error) {
	query := `SELECT ` + orderCols + ` FROM booking_order WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM booking_order WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["status"]; ok {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["order_no"]; ok {
		query += fmt.Sprintf(` AND order_no = $%d`, idx)
		countQuery += fmt.Sprintf(` AND order_no = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["user_id"]; ok {
		query += fmt.Sprintf(` AND user_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND user_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["date"]; ok {
		query += fmt.Sprintf(` AND appointment_date = $%d`, idx)
		countQuery += fmt.Sprintf(` AND appointment_date = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["keyword"]; ok {
		query += fmt.Sprintf(` AND (patient_name ILIKE '%%' || $%d || '%%' OR hospital_name ILIKE '%%' || $%d || '%%')`, idx, idx)
		countQuery += fmt.Sprintf(` AND (patient_name ILIKE '%%' || $%d || '%%' OR hospital_name ILIKE '%%' || $%d || '%%')`, idx, idx)
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
	var items []*Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, nil
}

func (r *repoPG) MarkCancelled(ctx context.Context, id uuid.UUID, reason string, at time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE booking_order SET status=$2, cancel_reason=$3, cancelled_at=$4, updated_at=NOW()
		WHERE id = $1`,
		id, StatusCancelled, reason, at)
	return err
}

func (r *repoPG) MarkPaid(ctx context.Context, orderNo, method, transactionID string, at time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE booking_order SET status=$2, pay_method=$3, transaction_id=$4, paid_at=$5, updated_at=NOW()
		WHERE order_no = $1`,
		orderNo, StatusPaid, method, transactionID, at)
	return err
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE booking_order SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

func (r *repoPG) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE booking_order SET status=$2, completed_at=$3, updated_at=NOW()
		WHERE id = $1`,
		id, StatusCompleted, at)
	return err
}

func (r *repoPG) AssignEscort(ctx context.Context, id, escortID uuid.UUID, escortName string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE booking_order SET escort_id=$2, escort_name=$3, updated_at=NOW()
		WHERE id = $1`,
		id, escortID, escortName)
	return err
}
