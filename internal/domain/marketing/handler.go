package marketing

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/escort/escort/internal/platform/auth"
	"github.com/escort/escort/pkg/apperr"
	"github.com/escort/escort/pkg/envelope"
	"github.com/escort/escort/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group, admin *echo.Group) {
	api.GET("/campaigns", h.ListActive)
	api.GET("/campaigns/:id", h.GetCampaign)
	api.POST("/seckill/:id/reserve", h.Reserve)
	api.GET("/seckill/reservations", h.MyReservations)

	admin.GET("/campaigns", h.AdminListCampaigns)
	admin.POST("/campaigns", h.AdminCreateCampaign)
	admin.PUT("/campaigns/:id", h.AdminUpdateCampaign)
	admin.DELETE("/campaigns/:id", h.AdminDeleteCampaign)
	admin.POST("/seckill-items", h.AdminCreateItem)
	admin.PUT("/seckill-items/:id", h.AdminUpdateItem)
	admin.DELETE("/seckill-items/:id", h.AdminDeleteItem)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid id")
	}
	return id, nil
}

// -- Client --

func (h *Handler) ListActive(c echo.Context) error {
	items, err := h.svc.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return envelope.OK(c, items)
}

func (h *Handler) GetCampaign(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	campaign, err := h.svc.GetCampaign(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return envelope.OK(c, campaign)
}

func (h *Handler) Reserve(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	callerID := auth.UserIDFromContext(c.Request().Context())
	res, err := h.svc.Reserve(c.Request().Context(), callerID, id)
	if err != nil {
		return err
	}
	return envelope.Created(c, res)
}

func (h *Handler) MyReservations(c echo.Context) error {
	callerID := auth.UserIDFromContext(c.Request().Context())
	items, err := h.svc.MyReservations(c.Request().Context(), callerID)
	if err != nil {
		return err
	}
	return envelope.OK(c, items)
}

// -- Admin --

func (h *Handler) AdminListCampaigns(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, name := range []string{"keyword", "active"} {
		if v := c.QueryParam(name); v != "" {
			params[name] = v
		}
	}
	items, total, err := h.svc.SearchCampaigns(c.Request().Context(), params, pg.PageSize, pg.Offset())
	if err != nil {
		return err
	}
	return envelope.OK(c, pagination.NewResponse(items, total, pg))
}

func (h *Handler) AdminCreateCampaign(c echo.Context) error {
	var campaign Campaign
	if err := c.Bind(&campaign); err != nil {
		return apperr.Validation("invalid request body")
	}
	created, err := h.svc.CreateCampaign(c.Request().Context(), &campaign)
	if err != nil {
		return err
	}
	return envelope.Created(c, created)
}

func (h *Handler) AdminUpdateCampaign(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var campaign Campaign
	if err := c.Bind(&campaign); err != nil {
		return apperr.Validation("invalid request body")
	}
	updated, err := h.svc.UpdateCampaign(c.Request().Context(), id, &campaign)
	if err != nil {
		return err
	}
	return envelope.OK(c, updated)
}

func (h *Handler) AdminDeleteCampaign(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteCampaign(c.Request().Context(), id); err != nil {
		return err
	}
	return envelope.OK(c, nil)
}

func (h *Handler) AdminCreateItem(c echo.Context) error {
	var item SeckillItem
	if err := c.Bind(&item); err != nil {
		return apperr.Validation("invalid request body")
	}
	created, err := h.svc.CreateItem(c.Request().Context(), &item)
	if err != nil {
		return err
	}
	return envelope.Created(c, created)
}

func (h *Handler) AdminUpdateItem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var item SeckillItem
	if err := c.Bind(&item); err != nil {
		return apperr.Validation("invalid request body")
	}
	updated, err := h.svc.UpdateItem(c.Request().Context(), id, &item)
	if err != nil {
		return err
	}
	return envelope.OK(c, updated)
}

func (h *Handler) AdminDeleteItem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteItem(c.Request().Context(), id); err != nil {
		return err
	}
	return envelope.OK(c, nil)
}
