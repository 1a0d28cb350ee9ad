package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeOf_TypedErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("missing service_id"), CodeValidation},
		{Forbidden("order belongs to another user"), CodeForbidden},
		{NotFound("service %s not found", "abc"), CodeNotFound},
		{Internal(errors.New("boom")), CodeInternal},
		{Unauthorized("missing token"), CodeUnauthorized},
	}
	for _, tc := range cases {
		if got := CodeOf(tc.err); got != tc.want {
			t.Errorf("CodeOf(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestCodeOf_WrappedError(t *testing.T) {
	inner := NotFound("hospital not found")
	wrapped := fmt.Errorf("create order: %w", inner)
	if got := CodeOf(wrapped); got != CodeNotFound {
		t.Errorf("CodeOf(wrapped) = %d, want %d", got, CodeNotFound)
	}
}

func TestCodeOf_PlainErrorDefaultsToInternal(t *testing.T) {
	if got := CodeOf(errors.New("connection reset")); got != CodeInternal {
		t.Errorf("CodeOf(plain) = %d, want %d", got, CodeInternal)
	}
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("pq: relation does not exist")
	err := Internal(cause)
	if MessageOf(err) != "internal server error" {
		t.Errorf("MessageOf = %q, want generic message", MessageOf(err))
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to remain reachable via errors.Is")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[int]int{
		CodeOK:           http.StatusOK,
		CodeValidation:   http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeNotFound:     http.StatusNotFound,
		CodeInternal:     http.StatusInternalServerError,
		99999:            http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := HTTPStatus(code); got != want {
			t.Errorf("HTTPStatus(%d) = %d, want %d", code, got, want)
		}
	}
}
