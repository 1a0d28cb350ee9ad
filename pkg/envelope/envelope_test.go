package envelope

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/escort/escort/pkg/apperr"
)

func perform(t *testing.T, err error) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(zerolog.Nop())(err, c)

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v", err)
	}
	return rec, env
}

func TestOK(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := OK(c, map[string]string{"hello": "world"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if env.Code != 0 || env.Message != "ok" {
		t.Errorf("envelope = %+v, want code 0 message ok", env)
	}
}

func TestErrorHandler_Validation(t *testing.T) {
	rec, env := perform(t, apperr.Validation("service_id is required"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if env.Code != apperr.CodeValidation {
		t.Errorf("code = %d, want %d", env.Code, apperr.CodeValidation)
	}
	if env.Message != "service_id is required" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestErrorHandler_Forbidden(t *testing.T) {
	rec, env := perform(t, apperr.Forbidden("order belongs to another user"))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if env.Code != apperr.CodeForbidden {
		t.Errorf("code = %d, want %d", env.Code, apperr.CodeForbidden)
	}
}

func TestErrorHandler_InternalHidesCause(t *testing.T) {
	rec, env := perform(t, errors.New("pq: connection refused"))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if env.Code != apperr.CodeInternal {
		t.Errorf("code = %d, want %d", env.Code, apperr.CodeInternal)
	}
	if env.Message != "internal server error" {
		t.Errorf("message = %q, cause must not leak", env.Message)
	}
	if env.Error != "" {
		t.Errorf("error field = %q, cause must not leak", env.Error)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	_, env := perform(t, echo.NewHTTPError(http.StatusNotFound, "route not found"))
	if env.Code != apperr.CodeNotFound {
		t.Errorf("code = %d, want %d", env.Code, apperr.CodeNotFound)
	}
}
