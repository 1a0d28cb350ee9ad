package identity

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

// RegisterRoutes wires the public login route plus the authenticated profile
// and admin member-management routes.
func (h *Handler) RegisterRoutes(public, api, admin *echo.Group) {
	public.POST("/auth/login", h.Login)

	api.POST("/auth/bind-phone", h.BindPhone)
	api.GET("/profile", h.GetProfile)
	api.PUT("/profile", h.UpdateProfile)

	admin.GET("/users", h.AdminListUsers)
	admin.PUT("/users/:id/membership", h.AdminUpdateMembership)
}

func (h *Handler) Login(c echo.Context) error {
	var req struct {
		AuthCode string `json:"auth_code"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	result, err := h.svc.Login(c.Request().Context(), req.AuthCode)
	if err != nil {
		return err
	}
	return envelope.OK(c, result)
}

func (h *Handler) BindPhone(c echo.Context) error {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	u, err := h.svc.BindPhone(c.Request().Context(), userID, req.Phone)
	if err != nil {
		return err
	}
	return envelope.OK(c, u)
}

func (h *Handler) GetProfile(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	u, err := h.svc.GetUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return envelope.OK(c, u)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var req struct {
		Nickname  string  `json:"nickname"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	u, err := h.svc.UpdateProfile(c.Request().Context(), userID, req.Nickname, req.AvatarURL)
	if err != nil {
		return err
	}
	return envelope.OK(c, u)
}

func (h *Handler) AdminListUsers(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, name := range []string{"phone", "keyword", "member_level"} {
		if v := c.QueryParam(name); v != "" {
			params[name] = v
		}
	}
	items, total, err := h.svc.SearchUsers(c.Request().Context(), params, pg.PageSize, pg.Offset())
	if err != nil {
		return err
	}
	return envelope.OK(c, pagination.NewResponse(items, total, pg))
}

func (h *Handler) AdminUpdateMembership(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid id")
	}
	var req struct {
		MemberLevel string `json:"member_level"`
		Points      *int   `json:"points"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	u, err := h.svc.UpdateMembership(c.Request().Context(), id, req.MemberLevel, req.Points)
	if err != nil {
		return err
	}
	return envelope.OK(c, u)
}
