package middleware

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// BodyLimit returns middleware that limits the maximum request body size.
// The limit is a human-readable string: "1M", "512K", "1G", or a bare byte
// count. Oversized requests are rejected with HTTP 413.
func BodyLimit(limit string) echo.MiddlewareFunc {
	maxBytes := parseLimit(limit)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Body == nil || c.Request().Body == http.NoBody {
				return next(c)
			}

			// Content-Length allows early rejection; the limiting reader
			// still enforces the cap when the header is absent or lying.
			if c.Request().ContentLength > maxBytes {
				return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
			}

			c.Request().Body = &limitedReadCloser{
				reader: io.LimitReader(c.Request().Body, maxBytes+1),
				closer: c.Request().Body,
				limit:  maxBytes,
			}
			return next(c)
		}
	}
}

type limitedReadCloser struct {
	reader io.Reader
	closer io.Closer
	limit  int64
	read   int64
}

func (l *limitedReadCloser) Read(p []byte) (int, error) {
	n, err := l.reader.Read(p)
	l.read += int64(n)
	if l.read > l.limit {
		return n, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
	}
	return n, err
}

func (l *limitedReadCloser) Close() error { return l.closer.Close() }

// parseLimit converts "1M"-style strings to bytes. Unparseable input falls
// back to 1 megabyte.
func parseLimit(s string) int64 {
	const fallback = 1 << 20

	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return fallback
	}

	mult := int64(1)
	switch s[len(s)-1] {
	case 'K':
		mult = 1 << 10
		s = s[:len(s)-1]
	case 'M':
		mult = 1 << 20
		s = s[:len(s)-1]
	case 'G':
		mult = 1 << 30
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n * mult
}
