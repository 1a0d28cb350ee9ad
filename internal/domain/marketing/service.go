package marketing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/escort/escort/internal/domain/catalog"
	"github.com/escort/escort/pkg/apperr"
)

// Catalog resolves the service a seckill item discounts, for snapshotting.
type Catalog interface {
	GetService(ctx context.Context, id uuid.UUID) (*catalog.ServiceItem, error)
}

type Service struct {
	campaigns CampaignRepository
	seckill   SeckillRepository
	catalog   Catalog
	now       func() time.Time
}

func NewService(campaigns CampaignRepository, seckill SeckillRepository, cat Catalog) *Service {
	return &Service{
		campaigns: campaigns,
		seckill:   seckill,
		catalog:   cat,
		now:       time.Now,
	}
}

// ListActive returns campaigns live right now, each with its items attached.
func (s *Service) ListActive(ctx context.Context) ([]*Campaign, error) {
	campaigns, err := s.campaigns.ListActive(ctx, s.now())
	if err != nil {
		return nil, err
	}
	for _, c := range campaigns {
		items, err := s.seckill.ListByCampaign(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		c.Items = items
	}
	return campaigns, nil
}

func (s *Service) GetCampaign(ctx context.Context, id uuid.UUID) (*Campaign, error) {
	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("campaign %s not found", id)
		}
		return nil, apperr.Internalf(err, "get campaign")
	}
	items, err := s.seckill.ListByCampaign(ctx, id)
	if err != nil {
		return nil, apperr.Internalf(err, "list campaign items")
	}
	c.Items = items
	return c, nil
}

// Reserve holds one unit of a seckill item for the caller. The campaign must
// be in its window, the caller must not hold one already, and stock must
// remain. Stock is decremented conditionally so concurrent reserves can never
// oversell.
func (s *Service) Reserve(ctx context.Context, callerID, itemID uuid.UUID) (*Reservation, error) {
	item, err := s.seckill.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("seckill item %s not found", itemID)
		}
		return nil, apperr.Internalf(err, "get seckill item")
	}
	campaign, err := s.campaigns.GetByID(ctx, item.CampaignID)
	if err != nil {
		return nil, apperr.Internalf(err, "get campaign")
	}
	now := s.now()
	if !campaign.Active || now.Before(campaign.StartAt) {
		return nil, apperr.Validation("campaign has not started")
	}
	if !now.Before(campaign.EndAt) {
		return nil, apperr.Validation("campaign has ended")
	}

	res, err := s.seckill.Reserve(ctx, itemID, callerID)
	switch {
	case errors.Is(err, ErrSoldOut):
		return nil, apperr.Validation("sold out")
	case errors.Is(err, ErrAlreadyReserved):
		return nil, apperr.Validation("already reserved")
	case err != nil:
		return nil, apperr.Internalf(err, "reserve seckill item")
	}
	return res, nil
}

func (s *Service) MyReservations(ctx context.Context, callerID uuid.UUID) ([]*Reservation, error) {
	return s.seckill.ListReservationsByUser(ctx, callerID)
}

// =========== Admin operations ===========

func (s *Service) CreateCampaign(ctx context.Context, c *Campaign) (*Campaign, error) {
	if c.Title == "" {
		return nil, apperr.Validation("title is required")
	}
	if !c.EndAt.After(c.StartAt) {
		return nil, apperr.Validation("end_at must be after start_at")
	}
	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, apperr.Internalf(err, "create campaign")
	}
	return c, nil
}

func (s *Service) UpdateCampaign(ctx context.Context, id uuid.UUID, c *Campaign) (*Campaign, error) {
	existing, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("campaign %s not found", id)
		}
		return nil, apperr.Internalf(err, "get campaign")
	}
	if c.Title == "" {
		return nil, apperr.Validation("title is required")
	}
	if !c.EndAt.After(c.StartAt) {
		return nil, apperr.Validation("end_at must be after start_at")
	}
	c.ID = existing.ID
	if err := s.campaigns.Update(ctx, c); err != nil {
		return nil, apperr.Internalf(err, "update campaign")
	}
	return c, nil
}

func (s *Service) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	if _, err := s.campaigns.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("campaign %s not found", id)
		}
		return apperr.Internalf(err, "get campaign")
	}
	return s.campaigns.Delete(ctx, id)
}

func (s *Service) SearchCampaigns(ctx context.Context, params map[string]string, limit, offset int) ([]*Campaign, int, error) {
	return s.campaigns.Search(ctx, params, limit, offset)
}

// CreateItem adds discounted stock to a campaign, snapshotting the service
// name and list price at creation time.
func (s *Service) CreateItem(ctx context.Context, item *SeckillItem) (*SeckillItem, error) {
	if item.CampaignID == uuid.Nil {
		return nil, apperr.Validation("campaign_id is required")
	}
	if item.ServiceID == uuid.Nil {
		return nil, apperr.Validation("service_id is required")
	}
	if item.SeckillPrice < 0 {
		return nil, apperr.Validation("seckill_price must not be negative")
	}
	if item.Stock <= 0 {
		return nil, apperr.Validation("stock must be positive")
	}
	if _, err := s.campaigns.GetByID(ctx, item.CampaignID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("campaign %s not found", item.CampaignID)
		}
		return nil, apperr.Internalf(err, "get campaign")
	}
	svc, err := s.catalog.GetService(ctx, item.ServiceID)
	if err != nil {
		return nil, err
	}
	item.ServiceName = svc.Name
	if item.OriginalPrice == 0 {
		item.OriginalPrice = svc.Price
	}
	item.TotalStock = item.Stock
	if err := s.seckill.CreateItem(ctx, item); err != nil {
		return nil, apperr.Internalf(err, "create seckill item")
	}
	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, id uuid.UUID, item *SeckillItem) (*SeckillItem, error) {
	existing, err := s.seckill.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("seckill item %s not found", id)
		}
		return nil, apperr.Internalf(err, "get seckill item")
	}
	if item.SeckillPrice < 0 {
		return nil, apperr.Validation("seckill_price must not be negative")
	}
	if item.Stock < 0 {
		return nil, apperr.Validation("stock must not be negative")
	}
	existing.SeckillPrice = item.SeckillPrice
	existing.OriginalPrice = item.OriginalPrice
	existing.Stock = item.Stock
	existing.TotalStock = item.TotalStock
	existing.SortOrder = item.SortOrder
	if err := s.seckill.UpdateItem(ctx, existing); err != nil {
		return nil, apperr.Internalf(err, "update seckill item")
	}
	return existing, nil
}

func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.seckill.GetItem(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("seckill item %s not found", id)
		}
		return apperr.Internalf(err, "get seckill item")
	}
	return s.seckill.DeleteItem(ctx, id)
}
