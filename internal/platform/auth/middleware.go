package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/escort/escort/pkg/apperr"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	roleKey   contextKey = "role"
)

// Middleware verifies the bearer session token and threads the caller
// identity through the request context. Every handler receives the caller
// explicitly from the context; there is no ambient identity.
func Middleware(issuer *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return apperr.Unauthorized("missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return apperr.Unauthorized("invalid authorization format")
			}

			uid, role, err := issuer.Verify(parts[1])
			if err != nil {
				return apperr.Unauthorized("invalid token")
			}

			c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), uid, role)))
			return next(c)
		}
	}
}

// RequireRole rejects callers whose role is not in the allowed set.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleFromContext(c.Request().Context())
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return apperr.Forbidden("required role: %s", strings.Join(roles, " or "))
		}
	}
}

// WithIdentity stores the caller identity on the context.
func WithIdentity(ctx context.Context, userID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// UserIDFromContext returns the caller's user id, or uuid.Nil when absent.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	uid, _ := ctx.Value(userIDKey).(uuid.UUID)
	return uid
}

// RoleFromContext returns the caller's role, or "" when absent.
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}
