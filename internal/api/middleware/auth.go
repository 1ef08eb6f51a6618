package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kasinav/kasi-nav/internal/core/domain"
)

// Context keys set by Auth.
const (
	ContextUserID      = "user_id"
	ContextEmail       = "email"
	ContextAccessToken = "access_token"
)

// SessionResolver turns a bearer token into a live session.
type SessionResolver interface {
	GetSession(ctx context.Context, token string) (*domain.Session, error)
}

// Auth validates the bearer token against the session resolver and injects
// the user into context.
func Auth(sessions SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := BearerToken(c)
			if err != nil {
				return err
			}

			sess, err := sessions.GetSession(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrSessionRevoked) {
					return echo.NewHTTPError(http.StatusUnauthorized, "session revoked")
				}
				if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return err
			}

			c.Set(ContextUserID, sess.User.ID)
			c.Set(ContextEmail, sess.User.Email)
			c.Set(ContextAccessToken, token)

			return next(c)
		}
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
