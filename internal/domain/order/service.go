package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/escort/escort/internal/domain/catalog"
	"github.com/escort/escort/internal/domain/patient"
	"github.com/escort/escort/pkg/apperr"
)

// Catalog is the slice of the catalog service orders need: existence lookups
// for snapshots plus the popularity counters bumped on creation.
type Catalog interface {
	GetService(ctx context.Context, id uuid.UUID) (*catalog.ServiceItem, error)
	GetHospital(ctx context.Context, id uuid.UUID) (*catalog.Hospital, error)
	GetDepartment(ctx context.Context, id uuid.UUID) (*catalog.Department, error)
	GetEscort(ctx context.Context, id uuid.UUID) (*catalog.Escort, error)
	RecordServiceOrder(ctx context.Context, id uuid.UUID) error
	RecordEscortOrder(ctx context.Context, id uuid.UUID) error
}

// PatientDirectory resolves a patient while enforcing caller ownership.
type PatientDirectory interface {
	Get(ctx context.Context, callerID, id uuid.UUID) (*patient.Patient, error)
}

// PointsLedger credits membership points when an order completes.
type PointsLedger interface {
	AwardPoints(ctx context.Context, userID uuid.UUID, points int) error
}

type Service struct {
	orders   Repository
	catalog  Catalog
	patients PatientDirectory
	points   PointsLedger
}

func NewService(orders Repository, cat Catalog, patients PatientDirectory, points PointsLedger) *Service {
	return &Service{orders: orders, catalog: cat, patients: patients, points: points}
}

// newOrderNo builds the human-readable order number: "ES", the creation
// timestamp, and a random 3-digit suffix. Not guaranteed unique; the
// order_no column carries a unique index as the backstop.
func newOrderNo(now time.Time) string {
	return fmt.Sprintf("ES%s%03d", now.Format("20060102150405"), rand.Intn(1000))
}

// Create books an order for the caller, snapshotting every referenced
// display name. Counter increments happen after the insert; a failed
// increment leaves the order in place.
func (s *Service) Create(ctx context.Context, callerID uuid.UUID, req *CreateRequest) (*Order, error) {
	if req.ServiceID == uuid.Nil {
		return nil, apperr.Validation("service_id is required")
	}
	if req.HospitalID == uuid.Nil {
		return nil, apperr.Validation("hospital_id is required")
	}
	if req.PatientID == uuid.Nil {
		return nil, apperr.Validation("patient_id is required")
	}
	if req.AppointmentTime == "" {
		return nil, apperr.Validation("appointment_time is required")
	}
	apptDate, err := time.Parse("2006-01-02", req.AppointmentDate)
	if err != nil {
		return nil, apperr.Validation("appointment_date must be YYYY-MM-DD")
	}

	svc, err := s.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	hosp, err := s.catalog.GetHospital(ctx, req.HospitalID)
	if err != nil {
		return nil, err
	}
	pat, err := s.patients.Get(ctx, callerID, req.PatientID)
	if err != nil {
		return nil, err
	}

	o := &Order{
		OrderNo:         newOrderNo(time.Now()),
		UserID:          callerID,
		ServiceID:       svc.ID,
		ServiceName:     svc.Name,
		HospitalID:      hosp.ID,
		HospitalName:    hosp.Name,
		PatientID:       pat.ID,
		PatientName:     pat.Name,
		AppointmentDate: apptDate,
		AppointmentTime: req.AppointmentTime,
		Remark:          req.Remark,
		TotalAmount:     svc.Price,
		Status:          StatusPending,
	}

	if req.DepartmentID != nil {
		dept, err := s.catalog.GetDepartment(ctx, *req.DepartmentID)
		if err != nil {
			return nil, err
		}
		o.DepartmentID = &dept.ID
		o.DepartmentName = &dept.Name
	}
	if req.EscortID != nil {
		esc, err := s.catalog.GetEscort(ctx, *req.EscortID)
		if err != nil {
			return nil, err
		}
		o.EscortID = &esc.ID
		o.EscortName = &esc.Name
	}

	// Discount and coupon amounts are always zero today; the coupon id is
	// accepted but not redeemed. TODO: redeem coupons once the coupon
	// module ships.
	o.PaidAmount = o.TotalAmount - o.DiscountAmount - o.CouponAmount

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, apperr.Internalf(err, "create order")
	}

	// A lost increment is accepted; the order itself must not be undone.
	_ = s.catalog.RecordServiceOrder(ctx, svc.ID)
	if o.EscortID != nil {
		_ = s.catalog.RecordEscortOrder(ctx, *o.EscortID)
	}

	return o, nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internalf(err, "get order")
	}
	return o, nil
}

// GetMine returns the caller's order or 40301 if it belongs to someone else.
func (s *Service) GetMine(ctx context.Context, callerID, id uuid.UUID) (*Order, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != callerID {
		return nil, apperr.Forbidden("order belongs to another account")
	}
	return o, nil
}

func (s *Service) ListMine(ctx context.Context, callerID uuid.UUID, status string, limit, offset int) ([]*Order, int, error) {
	items, total, err := s.orders.ListByUser(ctx, callerID, status, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internalf(err, "list orders")
	}
	return items, total, nil
}

// Cancel transitions the caller's order to cancelled. Paid orders cancel
// without a refund; no refund workflow exists.
func (s *Service) Cancel(ctx context.Context, callerID, id uuid.UUID, reason string) (*Order, error) {
	o, err := s.GetMine(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	if !Cancellable[o.Status] {
		return nil, apperr.Validation("order in status %q cannot be cancelled", o.Status)
	}

	now := time.Now()
	if err := s.orders.MarkCancelled(ctx, id, reason, now); err != nil {
		return nil, apperr.Internalf(err, "cancel order")
	}
	o.Status = StatusCancelled
	o.CancelReason = &reason
	o.CancelledAt = &now
	return o, nil
}

// MarkPaid applies a successful payment notification matched by order
// number. The overwrite is blind, so replaying the same notification is a
// no-op in effect.
func (s *Service) MarkPaid(ctx context.Context, orderNo, method, transactionID string) (*Order, error) {
	o, err := s.orders.GetByOrderNo(ctx, orderNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("order %s not found", orderNo)
		}
		return nil, apperr.Internalf(err, "get order by number")
	}

	if err := s.orders.MarkPaid(ctx, orderNo, method, transactionID, time.Now()); err != nil {
		return nil, apperr.Internalf(err, "mark order paid")
	}
	o.Status = StatusPaid
	return o, nil
}

// -- admin --

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Order, int, error) {
	items, total, err := s.orders.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internalf(err, "search orders")
	}
	return items, total, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.get(ctx, id)
}

// Confirm moves a paid order to confirmed.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusPaid {
		return nil, apperr.Validation("only paid orders can be confirmed, status is %q", o.Status)
	}
	if err := s.orders.UpdateStatus(ctx, id, StatusConfirmed); err != nil {
		return nil, apperr.Internalf(err, "confirm order")
	}
	o.Status = StatusConfirmed
	return o, nil
}

// Complete moves a confirmed order to completed and credits the member
// floor(paid_amount) points.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusConfirmed {
		return nil, apperr.Validation("only confirmed orders can be completed, status is %q", o.Status)
	}

	now := time.Now()
	if err := s.orders.MarkCompleted(ctx, id, now); err != nil {
		return nil, apperr.Internalf(err, "complete order")
	}
	o.Status = StatusCompleted
	o.CompletedAt = &now

	if err := s.points.AwardPoints(ctx, o.UserID, int(math.Floor(o.PaidAmount))); err != nil {
		return nil, err
	}
	return o, nil
}

// AssignEscort attaches an escort to an order that is still in flight,
// snapshotting the escort's name.
func (s *Service) AssignEscort(ctx context.Context, id, escortID uuid.UUID) (*Order, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusCancelled || o.Status == StatusCompleted {
		return nil, apperr.Validation("cannot assign an escort to a %s order", o.Status)
	}

	esc, err := s.catalog.GetEscort(ctx, escortID)
	if err != nil {
		return nil, err
	}
	if err := s.orders.AssignEscort(ctx, id, esc.ID, esc.Name); err != nil {
		return nil, apperr.Internalf(err, "assign escort")
	}
	o.EscortID = &esc.ID
	o.EscortName = &esc.Name
	return o, nil
}
