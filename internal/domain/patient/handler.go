package patient

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/escort/escort/internal/platform/auth"
	"github.com/escort/escort/pkg/apperr"
	"github.com/escort/escort/pkg/envelope"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.List)
	api.POST("/patients", h.Create)
	api.GET("/patients/:id", h.Get)
	api.PUT("/patients/:id", h.Update)
	api.DELETE("/patients/:id", h.Delete)
	api.PUT("/patients/:id/default", h.SetDefault)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid id")
	}
	return id, nil
}

func (h *Handler) List(c echo.Context) error {
	callerID := auth.UserIDFromContext(c.Request().Context())
	items, err := h.svc.List(c.Request().Context(), callerID)
	if err != nil {
		return err
	}
	return envelope.OK(c, items)
}

func (h *Handler) Create(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return apperr.Validation("invalid request body")
	}
	callerID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), callerID, &p); err != nil {
		return err
	}
	return envelope.Created(c, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	callerID := auth.UserIDFromContext(c.Request().Context())
	p, err := h.svc.Get(c.Request().Context(), callerID, id)
	if err != nil {
		return err
	}
	return envelope.OK(c, p)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return apperr.Validation("invalid request body")
	}
	p.ID = id
	callerID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Update(c.Request().Context(), callerID, &p); err != nil {
		return err
	}
	return envelope.OK(c, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	callerID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Delete(c.Request().Context(), callerID, id); err != nil {
		return err
	}
	return envelope.OK(c, nil)
}

func (h *Handler) SetDefault(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	callerID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.SetDefault(c.Request().Context(), callerID, id); err != nil {
		return err
	}
	return envelope.OK(c, nil)
}
