// Package apperr defines the application error taxonomy shared by all
// handlers. Every error that reaches the HTTP boundary is mapped to one of
// the business codes below; anything unrecognized is treated as internal.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Business error codes. 0 is success, 4xxxx are client errors, 5xxxx are
// server errors. Clients branch on these codes, not on HTTP status.
const (
	CodeOK           = 0
	CodeValidation   = 40001
	CodeUnauthorized = 40101
	CodeForbidden    = 40301
	CodeNotFound     = 40401
	CodeInternal     = 50001
)

// Error carries a business code and a client-safe message alongside an
// optional wrapped cause.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports missing or malformed input (40001).
func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized reports a missing or invalid credential (40101).
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// Forbidden reports that the caller does not own the resource (40301).
func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports that a referenced entity is absent (40401).
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected error (50001). The cause is kept for logging
// but never exposed in the client message.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "internal server error", Err: err}
}

// Internalf wraps an unexpected error with request context for the logs.
func Internalf(err error, format string, args ...interface{}) *Error {
	return &Error{Code: CodeInternal, Message: "internal server error",
		Err: fmt.Errorf(format+": %w", append(args, err)...)}
}

// CodeOf extracts the business code from err, defaulting to CodeInternal.
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf extracts the client-safe message from err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// HTTPStatus maps a business code to the HTTP status used for the response.
func HTTPStatus(code int) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
