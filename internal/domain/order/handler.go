package order

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
	api.POST("/orders", h.Create)
	api.GET("/orders", h.ListMine)
	api.GET("/orders/:id", h.GetMine)
	api.POST("/orders/:id/cancel", h.Cancel)

	admin.GET("/orders", h.AdminList)
	admin.GET("/orders/:id", h.AdminGet)
	admin.POST("/orders/:id/confirm", h.AdminConfirm)
	admin.POST("/orders/:id/complete", h.AdminComplete)
	admin.POST("/orders/:id/assign-escort", h.AdminAssignEscort)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid id")
	}
	return id, nil
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	callerID := auth.UserIDFromContext(c.Request().Context())
	o, err := h.svc.Create(c.Request().Context(), callerID, &req)
	if err != nil {
		return err
	}
	return envelope.Created(c, o)
}

func (h *Handler) ListMine(c echo.Context) error {
	pg := pagination.FromContext(c)
	callerID := auth.UserIDFromContext(c.Request().Context())
	items, total, err := h.svc.ListMine(c.Request().Context(), callerID, c.QueryParam("status"), pg.PageSize, pg.Offset())
	if err != nil {
		return err
	}
	return envelope.OK(c, pagination.NewResponse(items, total, pg))
}

func (h *Handler) GetMine(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	callerID := auth.UserIDFromContext(c.Request().Context())
	o, err := h.svc.GetMine(c.Request().Context(), callerID, id)
	if err != nil {
		return err
	}
	return envelope.OK(c, o)
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	callerID := auth.UserIDFromContext(c.Request().Context())
	o, err := h.svc.Cancel(c.Request().Context(), callerID, id, req.Reason)
	if err != nil {
		return err
	}
	return envelope.OK(c, o)
}

// -- admin --

func (h *Handler) AdminList(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, name := range []string{"status", "order_no", "user_id", "date", "keyword"} {
		if v := c.QueryParam(name); v != "" {
			params[name] = v
		}
	}
	items, total, err := h.svc.Search(c.Request().Context(), params, pg.PageSize, pg.Offset())
	if err != nil {
		return err
	}
	return envelope.OK(c, pagination.NewResponse(items, total, pg))
}

func (h *Handler) AdminGet(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	o, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return envelope.OK(c, o)
}

func (h *Handler) AdminConfirm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	o, err := h.svc.Confirm(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return envelope.OK(c, o)
}

func (h *Handler) AdminComplete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	o, err := h.svc.Complete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return envelope.OK(c, o)
}

func (h *Handler) AdminAssignEscort(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req struct {
		EscortID uuid.UUID `json:"escort_id"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.EscortID == uuid.Nil {
		return apperr.Validation("escort_id is required")
	}
	o, err := h.svc.AssignEscort(c.Request().Context(), id, req.EscortID)
	if err != nil {
		return err
	}
	return envelope.OK(c, o)
}
