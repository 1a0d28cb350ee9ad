package order

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Cancellable is the set of statuses a member may cancel out of.
var Cancellable = map[string]bool{
	StatusPending:   true,
	StatusPaid:      true,
	StatusConfirmed: true,
}

// Order snapshots the display fields of everything it references at creation
// time. Later edits to services, hospitals or escorts never change history.
type Order struct {
	ID      uuid.UUID `db:"id" json:"id"`
	OrderNo string    `db:"order_no" json:"order_no"`
	UserID  uuid.UUID `db:"user_id" json:"user_id"`

	ServiceID      uuid.UUID  `db:"service_id" json:"service_id"`
	ServiceName    string     `db:"service_name" json:"service_name"`
	HospitalID     uuid.UUID  `db:"hospital_id" json:"hospital_id"`
	HospitalName   string     `db:"hospital_name" json:"hospital_name"`
	DepartmentID   *uuid.UUID `db:"department_id" json:"department_id,omitempty"`
	DepartmentName *string    `db:"department_name" json:"department_name,omitempty"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	PatientName    string     `db:"patient_name" json:"patient_name"`
	EscortID       *uuid.UUID `db:"escort_id" json:"escort_id,omitempty"`
	EscortName     *string    `db:"escort_name" json:"escort_name,omitempty"`

	AppointmentDate time.Time `db:"appointment_date" json:"appointment_date"`
	AppointmentTime string    `db:"appointment_time" json:"appointment_time"`
	Remark          *string   `db:"remark" json:"remark,omitempty"`

	TotalAmount    float64 `db:"total_amount" json:"total_amount"`
	DiscountAmount float64 `db:"discount_amount" json:"discount_amount"`
	CouponAmount   float64 `db:"coupon_amount" json:"coupon_amount"`
	PaidAmount     float64 `db:"paid_amount" json:"paid_amount"`

	Status       string     `db:"status" json:"status"`
	CancelReason *string    `db:"cancel_reason" json:"cancel_reason,omitempty"`
	CancelledAt  *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`

	PayMethod     *string    `db:"pay_method" json:"pay_method,omitempty"`
	PaidAt        *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	TransactionID *string    `db:"transaction_id" json:"transaction_id,omitempty"`
	CompletedAt   *time.Time `db:"completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateRequest is the booking payload.
type CreateRequest struct {
	ServiceID       uuid.UUID  `json:"service_id"`
	HospitalID      uuid.UUID  `json:"hospital_id"`
	PatientID       uuid.UUID  `json:"patient_id"`
	DepartmentID    *uuid.UUID `json:"department_id,omitempty"`
	EscortID        *uuid.UUID `json:"escort_id,omitempty"`
	CouponID        *uuid.UUID `json:"coupon_id,omitempty"`
	AppointmentDate string     `json:"appointment_date"`
	AppointmentTime string     `json:"appointment_time"`
	Remark          *string    `json:"remark,omitempty"`
}
