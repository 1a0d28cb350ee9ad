// Package envelope implements the uniform response wrapper used by every
// handler: {code, message, data?, error?} with code 0 meaning success.
package envelope

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/escort/escort/pkg/apperr"
)

// Envelope is the wire shape of every API response except the payment
// provider acknowledgement.
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK writes a success envelope with the given payload.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Code: apperr.CodeOK, Message: "ok", Data: data})
}

// Created writes a success envelope with HTTP 201 for resource creation.
func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Envelope{Code: apperr.CodeOK, Message: "ok", Data: data})
}

// HTTPErrorHandler returns an echo error handler that catches every error at
// the boundary and renders the envelope. Unexpected errors are logged with
// their cause and surface as 50001 with a generic message.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := apperr.CodeInternal
		message := "internal server error"

		var appErr *apperr.Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			code = appErr.Code
			message = appErr.Message
		case errors.As(err, &httpErr):
			code = codeForStatus(httpErr.Code)
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			}
		}

		if code == apperr.CodeInternal {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		resp := Envelope{Code: code, Message: message}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(apperr.HTTPStatus(code))
			return
		}
		_ = c.JSON(apperr.HTTPStatus(code), resp)
	}
}

// codeForStatus maps framework-level HTTP errors (bad route params, 404s from
// the router, method not allowed) onto the business code scheme.
func codeForStatus(status int) int {
	switch {
	case status == http.StatusUnauthorized:
		return apperr.CodeUnauthorized
	case status == http.StatusForbidden:
		return apperr.CodeForbidden
	case status == http.StatusNotFound:
		return apperr.CodeNotFound
	case status >= 400 && status < 500:
		return apperr.CodeValidation
	default:
		return apperr.CodeInternal
	}
}
