package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/escort/escort/pkg/apperr"
)

type Service struct {
	services    ServiceRepository
	hospitals   HospitalRepository
	departments DepartmentRepository
	escorts     EscortRepository
}

func NewService(services ServiceRepository, hospitals HospitalRepository, departments DepartmentRepository, escorts EscortRepository) *Service {
	return &Service{services: services, hospitals: hospitals, departments: departments, escorts: escorts}
}

// -- Services --

func (s *Service) CreateService(ctx context.Context, item *ServiceItem) error {
	if item.Name == "" {
		return apperr.Validation("name is required")
	}
	if item.Category == "" {
		return apperr.Validation("category is required")
	}
	if item.Price < 0 {
		return apperr.Validation("price must not be negative")
	}
	if err := s.services.Create(ctx, item); err != nil {
		return apperr.Internalf(err, "create service")
	}
	return nil
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*ServiceItem, error) {
	item, err := s.services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("service not found")
		}
		return nil, apperr.Internalf(err, "get service")
	}
	return item, nil
}

func (s *Service) UpdateService(ctx context.Context, item *ServiceItem) error {
	if _, err := s.GetService(ctx, item.ID); err != nil {
		return err
	}
	if err := s.services.Update(ctx, item); err != nil {
		return apperr.Internalf(err, "update service")
	}
	return nil
}

func (s *Service) DeleteService(ctx context.Context, id uuid.UUID) error {
	if err := s.services.Delete(ctx, id); err != nil {
		return apperr.Internalf(err, "delete service")
	}
	return nil
}

func (s *Service) SearchServices(ctx context.Context, params map[string]string, limit, offset int) ([]*ServiceItem, int, error) {
	items, total, err := s.services.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internalf(err, "search services")
	}
	return items, total, nil
}

// -- Hospitals --

func (s *Service) CreateHospital(ctx context.Context, h *Hospital) error {
	if h.Name == "" {
		return apperr.Validation("name is required")
	}
	if h.City == "" {
		return apperr.Validation("city is required")
	}
	if err := s.hospitals.Create(ctx, h); err != nil {
		return apperr.Internalf(err, "create hospital")
	}
	return nil
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	h, err := s.hospitals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("hospital not found")
		}
		return nil, apperr.Internalf(err, "get hospital")
	}
	return h, nil
}

func (s *Service) UpdateHospital(ctx context.Context, h *Hospital) error {
	if _, err := s.GetHospital(ctx, h.ID); err != nil {
		return err
	}
	if err := s.hospitals.Update(ctx, h); err != nil {
		return apperr.Internalf(err, "update hospital")
	}
	return nil
}

func (s *Service) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	if err := s.hospitals.Delete(ctx, id); err != nil {
		return apperr.Internalf(err, "delete hospital")
	}
	return nil
}

func (s *Service) SearchHospitals(ctx context.Context, params map[string]string, limit, offset int) ([]*Hospital, int, error) {
	items, total, err := s.hospitals.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internalf(err, "search hospitals")
	}
	return items, total, nil
}

// -- Departments --

func (s *Service) CreateDepartment(ctx context.Context, d *Department) error {
	if d.HospitalID == uuid.Nil {
		return apperr.Validation("hospital_id is required")
	}
	if d.Name == "" {
		return apperr.Validation("name is required")
	}
	if _, err := s.GetHospital(ctx, d.HospitalID); err != nil {
		return err
	}
	if err := s.departments.Create(ctx, d); err != nil {
		return apperr.Internalf(err, "create department")
	}
	return nil
}

func (s *Service) GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error) {
	d, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("department not found")
		}
		return nil, apperr.Internalf(err, "get department")
	}
	return d, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, d *Department) error {
	if _, err := s.GetDepartment(ctx, d.ID); err != nil {
		return err
	}
	if err := s.departments.Update(ctx, d); err != nil {
		return apperr.Internalf(err, "update department")
	}
	return nil
}

func (s *Service) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	if err := s.departments.Delete(ctx, id); err != nil {
		return apperr.Internalf(err, "delete department")
	}
	return nil
}

func (s *Service) ListDepartments(ctx context.Context, hospitalID uuid.UUID) ([]*Department, error) {
	if _, err := s.GetHospital(ctx, hospitalID); err != nil {
		return nil, err
	}
	items, err := s.departments.ListByHospital(ctx, hospitalID)
	if err != nil {
		return nil, apperr.Internalf(err, "list departments")
	}
	return items, nil
}

// -- Escorts --

func (s *Service) CreateEscort(ctx context.Context, e *Escort) error {
	if e.Name == "" {
		return apperr.Validation("name is required")
	}
	if e.Phone == "" {
		return apperr.Validation("phone is required")
	}
	if e.City == "" {
		return apperr.Validation("city is required")
	}
	if err := s.escorts.Create(ctx, e); err != nil {
		return apperr.Internalf(err, "create escort")
	}
	return nil
}

func (s *Service) GetEscort(ctx context.Context, id uuid.UUID) (*Escort, error) {
	e, err := s.escorts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("escort not found")
		}
		return nil, apperr.Internalf(err, "get escort")
	}
	return e, nil
}

func (s *Service) UpdateEscort(ctx context.Context, e *Escort) error {
	if _, err := s.GetEscort(ctx, e.ID); err != nil {
		return err
	}
	if err := s.escorts.Update(ctx, e); err != nil {
		return apperr.Internalf(err, "update escort")
	}
	return nil
}

func (s *Service) DeleteEscort(ctx context.Context, id uuid.UUID) error {
	if err := s.escorts.Delete(ctx, id); err != nil {
		return apperr.Internalf(err, "delete escort")
	}
	return nil
}

// RecordServiceOrder bumps a service's popularity counter. The increment is
// a single atomic UPDATE, safe under concurrent bookings.
func (s *Service) RecordServiceOrder(ctx context.Context, id uuid.UUID) error {
	return s.services.IncrementOrderCount(ctx, id)
}

// RecordEscortOrder bumps an escort's order counter.
func (s *Service) RecordEscortOrder(ctx context.Context, id uuid.UUID) error {
	return s.escorts.IncrementOrderCount(ctx, id)
}

// SearchEscorts returns the display-safe projection for client listings.
func (s *Service) SearchEscorts(ctx context.Context, params map[string]string, limit, offset int) ([]*EscortView, int, error) {
	items, total, err := s.escorts.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internalf(err, "search escorts")
	}
	views := make([]*EscortView, 0, len(items))
	for _, e := range items {
		views = append(views, e.ToView())
	}
	return views, total, nil
}

// SearchEscortsAdmin returns full records including staff-internal fields.
func (s *Service) SearchEscortsAdmin(ctx context.Context, params map[string]string, limit, offset int) ([]*Escort, int, error) {
	items, total, err := s.escorts.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internalf(err, "search escorts")
	}
	return items, total, nil
}
