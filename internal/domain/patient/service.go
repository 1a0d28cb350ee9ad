package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/escort/escort/pkg/apperr"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

// Create registers a dependent for the caller. The per-user cap is checked
// before anything is written; the 11th patient is rejected outright.
func (s *Service) Create(ctx context.Context, callerID uuid.UUID, p *Patient) error {
	if p.Name == "" {
		return apperr.Validation("name is required")
	}
	if p.Relation == "" {
		return apperr.Validation("relation is required")
	}

	count, err := s.patients.CountByUser(ctx, callerID)
	if err != nil {
		return apperr.Internalf(err, "count patients")
	}
	if count >= MaxPerUser {
		return apperr.Validation("at most %d patients per account", MaxPerUser)
	}

	p.UserID = callerID
	markDefault := p.IsDefault || count == 0
	p.IsDefault = false
	if err := s.patients.Create(ctx, p); err != nil {
		return apperr.Internalf(err, "create patient")
	}
	if markDefault {
		if err := s.patients.SetDefault(ctx, callerID, p.ID); err != nil {
			return apperr.Internalf(err, "set default patient")
		}
		p.IsDefault = true
	}
	return nil
}

// getOwned loads a patient and enforces that callerID owns it.
func (s *Service) getOwned(ctx context.Context, callerID, id uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("patient not found")
		}
		return nil, apperr.Internalf(err, "get patient")
	}
	if p.UserID != callerID {
		return nil, apperr.Forbidden("patient belongs to another account")
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, callerID, id uuid.UUID) (*Patient, error) {
	return s.getOwned(ctx, callerID, id)
}

func (s *Service) List(ctx context.Context, callerID uuid.UUID) ([]*Patient, error) {
	items, err := s.patients.ListByUser(ctx, callerID)
	if err != nil {
		return nil, apperr.Internalf(err, "list patients")
	}
	return items, nil
}

func (s *Service) Update(ctx context.Context, callerID uuid.UUID, p *Patient) error {
	existing, err := s.getOwned(ctx, callerID, p.ID)
	if err != nil {
		return err
	}
	if p.Name == "" {
		return apperr.Validation("name is required")
	}
	p.UserID = existing.UserID
	if err := s.patients.Update(ctx, p); err != nil {
		return apperr.Internalf(err, "update patient")
	}
	if p.IsDefault && !existing.IsDefault {
		if err := s.patients.SetDefault(ctx, callerID, p.ID); err != nil {
			return apperr.Internalf(err, "set default patient")
		}
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, callerID, id); err != nil {
		return err
	}
	if err := s.patients.Delete(ctx, id); err != nil {
		return apperr.Internalf(err, "delete patient")
	}
	return nil
}

// SetDefault marks one of the caller's patients as the default.
func (s *Service) SetDefault(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, callerID, id); err != nil {
		return err
	}
	if err := s.patients.SetDefault(ctx, callerID, id); err != nil {
		return apperr.Internalf(err, "set default patient")
	}
	return nil
}
