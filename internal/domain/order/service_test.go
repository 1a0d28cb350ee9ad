package order

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/escort/escort/internal/domain/catalog"
	"github.com/escort/escort/internal/domain/patient"
	"github.com/escort/escort/pkg/apperr"
)

// -- mocks --

type mockRepo struct {
	byID      map[uuid.UUID]*Order
	byOrderNo map[string]*Order
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: map[uuid.UUID]*Order{}, byOrderNo: map[string]*Order{}}
}

func (m *mockRepo) Create(_ context.Context, o *Order) error {
	o.ID = uuid.New()
	m.byID[o.ID] = o
	m.byOrderNo[o.OrderNo] = o
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *o
	return &cp, nil
}

func (m *mockRepo) GetByOrderNo(_ context.Context, orderNo string) (*Order, error) {
	o, ok := m.byOrderNo[orderNo]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *o
	return &cp, nil
}

func (m *mockRepo) ListByUser(_ context.Context, userID uuid.UUID, status string, limit, offset int) ([]*Order, int, error) {
	var out []*Order
	for _, o := range m.byID {
		if o.UserID != userID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	return out, len(out), nil
}

func (m *mockRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Order, int, error) {
	var out []*Order
	for _, o := range m.byID {
		if p, ok := params["status"]; ok && o.Status != p {
			continue
		}
		out = append(out, o)
	}
	return out, len(out), nil
}

func (m *mockRepo) MarkCancelled(_ context.Context, id uuid.UUID, reason string, at time.Time) error {
	o, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	o.Status = StatusCancelled
	o.CancelReason = &reason
	o.CancelledAt = &at
	return nil
}

func (m *mockRepo) MarkPaid(_ context.Context, orderNo, method, transactionID string, at time.Time) error {
	o, ok := m.byOrderNo[orderNo]
	if !ok {
		return pgx.ErrNoRows
	}
	o.Status = StatusPaid
	o.PayMethod = &method
	o.TransactionID = &transactionID
	o.PaidAt = &at
	return nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	o, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	o.Status = status
	return nil
}

func (m *mockRepo) MarkCompleted(_ context.Context, id uuid.UUID, at time.Time) error {
	o, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	o.Status = StatusCompleted
	o.CompletedAt = &at
	return nil
}

func (m *mockRepo) AssignEscort(_ context.Context, id, escortID uuid.UUID, escortName string) error {
	o, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	o.EscortID = &escortID
	o.EscortName = &escortName
	return nil
}

type stubCatalog struct {
	services    map[uuid.UUID]*catalog.ServiceItem
	hospitals   map[uuid.UUID]*catalog.Hospital
	departments map[uuid.UUID]*catalog.Department
	escorts     map[uuid.UUID]*catalog.Escort

	serviceOrders map[uuid.UUID]int
	escortOrders  map[uuid.UUID]int
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		services:      map[uuid.UUID]*catalog.ServiceItem{},
		hospitals:     map[uuid.UUID]*catalog.Hospital{},
		departments:   map[uuid.UUID]*catalog.Department{},
		escorts:       map[uuid.UUID]*catalog.Escort{},
		serviceOrders: map[uuid.UUID]int{},
		escortOrders:  map[uuid.UUID]int{},
	}
}

func (s *stubCatalog) GetService(_ context.Context, id uuid.UUID) (*catalog.ServiceItem, error) {
	item, ok := s.services[id]
	if !ok {
		return nil, apperr.NotFound("service not found")
	}
	return item, nil
}

func (s *stubCatalog) GetHospital(_ context.Context, id uuid.UUID) (*catalog.Hospital, error) {
	h, ok := s.hospitals[id]
	if !ok {
		return nil, apperr.NotFound("hospital not found")
	}
	return h, nil
}

func (s *stubCatalog) GetDepartment(_ context.Context, id uuid.UUID) (*catalog.Department, error) {
	d, ok := s.departments[id]
	if !ok {
		return nil, apperr.NotFound("department not found")
	}
	return d, nil
}

func (s *stubCatalog) GetEscort(_ context.Context, id uuid.UUID) (*catalog.Escort, error) {
	e, ok := s.escorts[id]
	if !ok {
		return nil, apperr.NotFound("escort not found")
	}
	return e, nil
}

func (s *stubCatalog) RecordServiceOrder(_ context.Context, id uuid.UUID) error {
	s.serviceOrders[id]++
	return nil
}

func (s *stubCatalog) RecordEscortOrder(_ context.Context, id uuid.UUID) error {
	s.escortOrders[id]++
	return nil
}

type stubPatients struct {
	patients map[uuid.UUID]*patient.Patient
}

func (s *stubPatients) Get(_ context.Context, callerID, id uuid.UUID) (*patient.Patient, error) {
	p, ok := s.patients[id]
	if !ok {
		return nil, apperr.NotFound("patient not found")
	}
	if p.UserID != callerID {
		return nil, apperr.Forbidden("patient belongs to another account")
	}
	return p, nil
}

type stubPoints struct {
	awards map[uuid.UUID]int
}

func (s *stubPoints) AwardPoints(_ context.Context, userID uuid.UUID, points int) error {
	s.awards[userID] += points
	return nil
}

type fixture struct {
	svc     *Service
	repo    *mockRepo
	cat     *stubCatalog
	points  *stubPoints
	caller  uuid.UUID
	service *catalog.ServiceItem
	hosp    *catalog.Hospital
	pat     *patient.Patient
	escort  *catalog.Escort
}

func newFixture() *fixture {
	repo := newMockRepo()
	cat := newStubCatalog()
	points := &stubPoints{awards: map[uuid.UUID]int{}}
	caller := uuid.New()

	svcItem := &catalog.ServiceItem{ID: uuid.New(), Name: "全程陪诊", Category: "escort", Price: 199.0, Active: true}
	hosp := &catalog.Hospital{ID: uuid.New(), Name: "瑞金医院", City: "上海", Active: true}
	pat := &patient.Patient{ID: uuid.New(), UserID: caller, Name: "王奶奶", Relation: "grandmother"}
	esc := &catalog.Escort{ID: uuid.New(), Name: "张护师", Phone: "13800000001", City: "上海", Active: true}

	cat.services[svcItem.ID] = svcItem
	cat.hospitals[hosp.ID] = hosp
	cat.escorts[esc.ID] = esc
	patients := &stubPatients{patients: map[uuid.UUID]*patient.Patient{pat.ID: pat}}

	return &fixture{
		svc:     NewService(repo, cat, patients, points),
		repo:    repo,
		cat:     cat,
		points:  points,
		caller:  caller,
		service: svcItem,
		hosp:    hosp,
		pat:     pat,
		escort:  esc,
	}
}

func (f *fixture) createRequest() *CreateRequest {
	return &CreateRequest{
		ServiceID:       f.service.ID,
		HospitalID:      f.hosp.ID,
		PatientID:       f.pat.ID,
		AppointmentDate: "2026-09-01",
		AppointmentTime: "09:00-11:00",
	}
}

// -- tests --

func TestCreate_SnapshotsAndCounters(t *testing.T) {
	f := newFixture()
	req := f.createRequest()
	req.EscortID = &f.escort.ID

	o, err := f.svc.Create(context.Background(), f.caller, req)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if !strings.HasPrefix(o.OrderNo, "ES") {
		t.Errorf("order_no = %q, want ES prefix", o.OrderNo)
	}
	if o.Status != StatusPending {
		t.Errorf("status = %q, want pending", o.Status)
	}
	if o.ServiceName != "全程陪诊" || o.HospitalName != "瑞金医院" || o.PatientName != "王奶奶" {
		t.Errorf("snapshot = (%q, %q, %q)", o.ServiceName, o.HospitalName, o.PatientName)
	}
	if o.EscortName == nil || *o.EscortName != "张护师" {
		t.Errorf("escort snapshot = %v", o.EscortName)
	}
	if o.PaidAmount != 199.0 || o.TotalAmount != 199.0 {
		t.Errorf("amounts = (%v, %v), want 199", o.TotalAmount, o.PaidAmount)
	}
	if f.cat.serviceOrders[f.service.ID] != 1 {
		t.Errorf("service counter = %d, want 1", f.cat.serviceOrders[f.service.ID])
	}
	if f.cat.escortOrders[f.escort.ID] != 1 {
		t.Errorf("escort counter = %d, want 1", f.cat.escortOrders[f.escort.ID])
	}
}

func TestCreate_SnapshotSurvivesCatalogEdit(t *testing.T) {
	f := newFixture()
	o, err := f.svc.Create(context.Background(), f.caller, f.createRequest())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	f.service.Name = "改名后的服务"
	got, err := f.svc.GetMine(context.Background(), f.caller, o.ID)
	if err != nil {
		t.Fatalf("GetMine() error: %v", err)
	}
	if got.ServiceName != "全程陪诊" {
		t.Errorf("snapshot changed to %q after catalog edit", got.ServiceName)
	}
}

func TestCreate_UnknownService(t *testing.T) {
	f := newFixture()
	req := f.createRequest()
	req.ServiceID = uuid.New()

	_, err := f.svc.Create(context.Background(), f.caller, req)
	if apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("code = %d, want %d", apperr.CodeOf(err), apperr.CodeNotFound)
	}
	if len(f.repo.byID) != 0 {
		t.Error("no order may be persisted for an unknown service")
	}
}

func TestCreate_ForeignPatient(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), uuid.New(), f.createRequest())
	if apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Errorf("code = %d, want %d", apperr.CodeOf(err), apperr.CodeForbidden)
	}
	if len(f.repo.byID) != 0 {
		t.Error("no order may be persisted for a foreign patient")
	}
}

func TestCreate_BadDate(t *testing.T) {
	f := newFixture()
	req := f.createRequest()
	req.AppointmentDate = "09/01/2026"
	_, err := f.svc.Create(context.Background(), f.caller, req)
	if apperr.CodeOf(err) != apperr.CodeValidation {
		t.Errorf("code = %d, want %d", apperr.CodeOf(err), apperr.CodeValidation)
	}
}

func TestCancel_StatusRules(t *testing.T) {
	cases := []struct {
		status   string
		wantCode int
	}{
		{StatusPending, apperr.CodeOK},
		{StatusPaid, apperr.CodeOK},
		{StatusConfirmed, apperr.CodeOK},
		{StatusCompleted, apperr.CodeValidation},
		{StatusCancelled, apperr.CodeValidation},
	}

	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			f := newFixture()
			o, err := f.svc.Create(context.Background(), f.caller, f.createRequest())
			if err != nil {
				t.Fatalf("Create() error: %v", err)
			}
			f.repo.byID[o.ID].Status = tc.status

			_, err = f.svc.Cancel(context.Background(), f.caller, o.ID, "行程有变")
			if tc.wantCode == apperr.CodeOK {
				if err != nil {
					t.Fatalf("Cancel() error: %v", err)
				}
				got := f.repo.byID[o.ID]
				if got.Status != StatusCancelled || got.CancelReason == nil || got.CancelledAt == nil {
					t.Errorf("cancel not recorded: %+v", got)
				}
			} else {
				if apperr.CodeOf(err) != tc.wantCode {
					t.Errorf("code = %d, want %d", apperr.CodeOf(err), tc.wantCode)
				}
				if f.repo.byID[o.ID].Status != tc.status {
					t.Error("failed cancel must not mutate the order")
				}
			}
		})
	}
}

func TestCancel_ForeignOrder(t *testing.T) {
	f := newFixture()
	o, err := f.svc.Create(context.Background(), f.caller, f.createRequest())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	_, err = f.svc.Cancel(context.Background(), uuid.New(), o.ID, "x")
	if apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Errorf("code = %d, want %d", apperr.CodeOf(err), apperr.CodeForbidden)
	}
	if f.repo.byID[o.ID].Status != StatusPending {
		t.Error("forbidden cancel must not mutate the order")
	}
}

func TestMarkPaid_ReplayIdempotent(t *testing.T) {
	f := newFixture()
	o, err := f.svc.Create(context.Background(), f.caller, f.createRequest())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if _, err := f.svc.MarkPaid(context.Background(), o.OrderNo, "wallet", "txn-001"); err != nil {
		t.Fatalf("first MarkPaid() error: %v", err)
	}
	first := *f.repo.byOrderNo[o.OrderNo]

	if _, err := f.svc.MarkPaid(context.Background(), o.OrderNo, "wallet", "txn-001"); err != nil {
		t.Fatalf("replayed MarkPaid() error: %v", err)
	}
	second := *f.repo.byOrderNo[o.OrderNo]

	if second.Status != first.Status || *second.TransactionID != *first.TransactionID || *second.PayMethod != *first.PayMethod {
		t.Errorf("replay changed final state: %+v vs %+v", first, second)
	}
	if second.Status != StatusPaid {
		t.Errorf("status = %q, want paid", second.Status)
	}
}

func TestMarkPaid_UnknownOrderNo(t *testing.T) {
	f := newFixture()
	_, err := f.svc.MarkPaid(context.Background(), "ES00000000000000000", "wallet", "txn-001")
	if apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("code = %d, want %d", apperr.CodeOf(err), apperr.CodeNotFound)
	}
}

func TestConfirmAndComplete(t *testing.T) {
	f := newFixture()
	o, err := f.svc.Create(context.Background(), f.caller, f.createRequest())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// confirm requires paid
	if _, err := f.svc.Confirm(context.Background(), o.ID); apperr.CodeOf(err) != apperr.CodeValidation {
		t.Errorf("confirm pending: code = %d, want %d", apperr.CodeOf(err), apperr.CodeValidation)
	}

	if _, err := f.svc.MarkPaid(context.Background(), o.OrderNo, "wallet", "txn-001"); err != nil {
		t.Fatalf("MarkPaid() error: %v", err)
	}
	if _, err := f.svc.Confirm(context.Background(), o.ID); err != nil {
		t.Fatalf("Confirm() error: %v", err)
	}

	// complete requires confirmed, then awards floor(paid_amount) points
	done, err := f.svc.Complete(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if done.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", done.Status)
	}
	if f.points.awards[f.caller] != 199 {
		t.Errorf("points awarded = %d, want 199", f.points.awards[f.caller])
	}
}

func TestAssignEscort(t *testing.T) {
	f := newFixture()
	o, err := f.svc.Create(context.Background(), f.caller, f.createRequest())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	got, err := f.svc.AssignEscort(context.Background(), o.ID, f.escort.ID)
	if err != nil {
		t.Fatalf("AssignEscort() error: %v", err)
	}
	if got.EscortName == nil || *got.EscortName != "张护师" {
		t.Errorf("escort snapshot = %v", got.EscortName)
	}

	// cancelled orders refuse assignment
	if _, err := f.svc.Cancel(context.Background(), f.caller, o.ID, "x"); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
	if _, err := f.svc.AssignEscort(context.Background(), o.ID, f.escort.ID); apperr.CodeOf(err) != apperr.CodeValidation {
		t.Errorf("code = %d, want %d", apperr.CodeOf(err), apperr.CodeValidation)
	}
}

func TestNewOrderNo_Shape(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	no := newOrderNo(now)
	if !strings.HasPrefix(no, "ES20260901103000") {
		t.Errorf("order_no = %q", no)
	}
	if len(no) != len("ES20260901103000")+3 {
		t.Errorf("order_no length = %d", len(no))
	}
}
