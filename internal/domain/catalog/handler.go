package catalog

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

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
	api.GET("/services", h.ListServices)
	api.GET("/services/:id", h.GetService)
	api.GET("/hospitals", h.ListHospitals)
	api.GET("/hospitals/:id", h.GetHospital)
	api.GET("/hospitals/:id/departments", h.ListDepartments)
	api.GET("/escorts", h.ListEscorts)
	api.GET("/escorts/:id", h.GetEscort)

	admin.POST("/services", h.AdminCreateService)
	admin.PUT("/services/:id", h.AdminUpdateService)
	admin.DELETE("/services/:id", h.AdminDeleteService)
	admin.POST("/hospitals", h.AdminCreateHospital)
	admin.PUT("/hospitals/:id", h.AdminUpdateHospital)
	admin.DELETE("/hospitals/:id", h.AdminDeleteHospital)
	admin.POST("/departments", h.AdminCreateDepartment)
	admin.PUT("/departments/:id", h.AdminUpdateDepartment)
	admin.DELETE("/departments/:id", h.AdminDeleteDepartment)
	admin.GET("/escorts", h.AdminListEscorts)
	admin.POST("/escorts", h.AdminCreateEscort)
	admin.PUT("/escorts/:id", h.AdminUpdateEscort)
	admin.DELETE("/escorts/:id", h.AdminDeleteEscort)
}

// filterParams collects the named query parameters that are present.
func filterParams(c echo.Context, names ...string) map[string]string {
	params := map[string]string{}
	for _, name := range names {
		if v := c.QueryParam(name); v != "" {
			params[name] = v
		}
	}
	return params
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid id")
	}
	return id, nil
}

// -- Client: services --

func (h *Handler) ListServices(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := filterParams(c, "category", "keyword")
	params["active"] = "true"
	items, total, err := h.svc.SearchServices(c.Request().Context(), params, pg.PageSize, pg.Offset())
	if err != nil {
		return err
	}
	return envelope.OK(c, pagination.NewResponse(items, total, pg))
}

func (h *Handler) GetService(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	item, err := h.svc.GetService(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return envelope.OK(c, item)
}

// -- Client: hospitals --

func (h *Handler) ListHospitals(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := filterParams(c, "city", "level", "keyword")
	params["active"] = "true"
	items, total, err := h.svc.SearchHospitals(c.Request().Context(), params, pg.PageSize, pg.Offset())
	if err != nil {
		return err
	}
	return envelope.OK(c, pagination.NewResponse(items, total, pg))
}

func (h *Handler) GetHospital(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	hosp, err := h.svc.GetHospital(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return envelope.OK(c, hosp)
}

func (h *Handler) ListDepartments(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListDepartments(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return envelope.OK(c, items)
}

// -- Client: escorts --

func (h *Handler) ListEscorts(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := filterParams(c, "city", "keyword", "online")
	params["active"] = "true"
	items, total, err := h.svc.SearchEscorts(c.Request().Context(), params, pg.PageSize, pg.Offset())
	if err != nil {
		return err
	}
	return envelope.OK(c, pagination.NewResponse(items, total, pg))
}

func (h *Handler) GetEscort(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	e, err := h.svc.GetEscort(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return envelope.OK(c, e.ToView())
}

// -- Admin: services --

func (h *Handler) AdminCreateService(c echo.Context) error {
	var item ServiceItem
	if err := c.Bind(&item); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.svc.CreateService(c.Request().Context(), &item); err != nil {
		return err
	}
	return envelope.Created(c, item)
}

func (h *Handler) AdminUpdateService(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var item ServiceItem
	if err := c.Bind(&item); err != nil {
		return apperr.Validation("invalid request body")
	}
	item.ID = id
	if err := h.svc.UpdateService(c.Request().Context(), &item); err != nil {
		return err
	}
	return envelope.OK(c, item)
}

func (h *Handler) AdminDeleteService(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteService(c.Request().Context(), id); err != nil {
		return err
	}
	return envelope.OK(c, nil)
}

// -- Admin: hospitals --

func (h *Handler) AdminCreateHospital(c echo.Context) error {
	var hosp Hospital
	if err := c.Bind(&hosp); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.svc.CreateHospital(c.Request().Context(), &hosp); err != nil {
		return err
	}
	return envelope.Created(c, hosp)
}

func (h *Handler) AdminUpdateHospital(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var hosp Hospital
	if err := c.Bind(&hosp); err != nil {
		return apperr.Validation("invalid request body")
	}
	hosp.ID = id
	if err := h.svc.UpdateHospital(c.Request().Context(), &hosp); err != nil {
		return err
	}
	return envelope.OK(c, hosp)
}

func (h *Handler) AdminDeleteHospital(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteHospital(c.Request().Context(), id); err != nil {
		return err
	}
	return envelope.OK(c, nil)
}

// -- Admin: departments --

func (h *Handler) AdminCreateDepartment(c echo.Context) error {
	var d Department
	if err := c.Bind(&d); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.svc.CreateDepartment(c.Request().Context(), &d); err != nil {
		return err
	}
	return envelope.Created(c, d)
}

func (h *Handler) AdminUpdateDepartment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var d Department
	if err := c.Bind(&d); err != nil {
		return apperr.Validation("invalid request body")
	}
	d.ID = id
	if err := h.svc.UpdateDepartment(c.Request().Context(), &d); err != nil {
		return err
	}
	return envelope.OK(c, d)
}

func (h *Handler) AdminDeleteDepartment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteDepartment(c.Request().Context(), id); err != nil {
		return err
	}
	return envelope.OK(c, nil)
}

// -- Admin: escorts --

func (h *Handler) AdminListEscorts(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := filterParams(c, "city", "keyword", "online", "active")
	items, total, err := h.svc.SearchEscortsAdmin(c.Request().Context(), params, pg.PageSize, pg.Offset())
	if err != nil {
		return err
	}
	return envelope.OK(c, pagination.NewResponse(items, total, pg))
}

func (h *Handler) AdminCreateEscort(c echo.Context) error {
	var e Escort
	if err := c.Bind(&e); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := h.svc.CreateEscort(c.Request().Context(), &e); err != nil {
		return err
	}
	return envelope.Created(c, e)
}

func (h *Handler) AdminUpdateEscort(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var e Escort
	if err := c.Bind(&e); err != nil {
		return apperr.Validation("invalid request body")
	}
	e.ID = id
	if err := h.svc.UpdateEscort(c.Request().Context(), &e); err != nil {
		return err
	}
	return envelope.OK(c, e)
}

func (h *Handler) AdminDeleteEscort(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteEscort(c.Request().Context(), id); err != nil {
		return err
	}
	return envelope.OK(c, nil)
}
