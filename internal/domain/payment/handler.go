package payment

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/escort/escort/internal/platform/auth"
	"github.com/escort/escort/pkg/apperr"
	"github.com/escort/escort/pkg/envelope"
)

// providerAck is the acknowledgement shape the payment provider expects.
// Deliberately NOT the standard envelope; the provider retries on anything
// but errcode 0.
type providerAck struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg,omitempty"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the authenticated prepay route and the public
// provider callback.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	api.POST("/orders/:id/prepay", h.Prepay)
	public.POST("/payment/callback", h.Callback)
}

func (h *Handler) Prepay(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid id")
	}
	callerID := auth.UserIDFromContext(c.Request().Context())
	params, err := h.svc.Prepay(c.Request().Context(), callerID, id)
	if err != nil {
		return err
	}
	return envelope.OK(c, params)
}

func (h *Handler) Callback(c echo.Context) error {
	var req CallbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, providerAck{ErrCode: 1, ErrMsg: "malformed notification"})
	}
	if err := h.svc.HandleCallback(c.Request().Context(), &req); err != nil {
		return c.JSON(http.StatusOK, providerAck{ErrCode: 1, ErrMsg: apperr.MessageOf(err)})
	}
	return c.JSON(http.StatusOK, providerAck{ErrCode: 0})
}
