package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kasinav/kasi-nav/internal/core/domain"
)

// ContextRole holds the caller's role as a string ("" when none is chosen).
const ContextRole = "role"

// RoleSource reports the role chosen by the caller in ctx.
type RoleSource interface {
	Current(ctx context.Context) *domain.Role
}

// CallerRole tags the request context with CallerID and copies that caller's
// role into the echo context for RBAC and handlers. Must run after Auth.
func CallerRole(source RoleSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := CallerContext(c)
			c.SetRequest(c.Request().WithContext(ctx))

			role := ""
			if r := source.Current(ctx); r != nil {
				role = string(*r)
			}
			c.Set(ContextRole, role)
			return next(c)
		}
	}
}

// RBAC enforces role-based access control.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
