package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/escort/escort/pkg/apperr"
)

func newTestHandler() (*Handler, *echo.Echo) {
	h := NewHandler(newTestService())
	e := echo.New()
	return h, e
}

func TestHandler_ListHospitals(t *testing.T) {
	h, e := newTestHandler()
	hosp := &Hospital{Name: "瑞金医院", City: "上海", Active: true}
	if err := h.svc.CreateHospital(context.Background(), hosp); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/?keyword=瑞金", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListHospitals(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != 0 {
		t.Errorf("code = %d, want 0", resp.Code)
	}
	if resp.Data.Total != 1 || resp.Data.TotalPages != 1 {
		t.Errorf("total = %d, total_pages = %d", resp.Data.Total, resp.Data.TotalPages)
	}
}

func TestHandler_GetService_InvalidID(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetService(c)
	if apperr.CodeOf(err) != apperr.CodeValidation {
		t.Errorf("code = %d, want %d", apperr.CodeOf(err), apperr.CodeValidation)
	}
}

func TestHandler_GetService_NotFound(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.GetService(c)
	if apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("code = %d, want %d", apperr.CodeOf(err), apperr.CodeNotFound)
	}
}

func TestHandler_GetEscort_OmitsPhone(t *testing.T) {
	h, e := newTestHandler()
	esc := &Escort{Name: "张护师", Phone: "13800000001", City: "上海", Active: true}
	if err := h.svc.CreateEscort(context.Background(), esc); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(esc.ID.String())

	if err := h.GetEscort(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := resp.Data["phone"]; ok {
		t.Error("client escort view must not expose phone")
	}
	if resp.Data["name"] != "张护师" {
		t.Errorf("name = %v", resp.Data["name"])
	}
}

func TestHandler_AdminCreateService(t *testing.T) {
	h, e := newTestHandler()
	body := `{"name":"全程陪诊","category":"escort","price":199.0}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.AdminCreateService(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

func TestHandler_AdminCreateService_MissingName(t *testing.T) {
	h, e := newTestHandler()
	body := `{"category":"escort"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.AdminCreateService(c)
	if apperr.CodeOf(err) != apperr.CodeValidation {
		t.Errorf("code = %d, want %d", apperr.CodeOf(err), apperr.CodeValidation)
	}
}
