package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/kasinav/kasi-nav/internal/api/middleware"
)

// HeaderDeviceID identifies the calling device when no user is signed in.
const HeaderDeviceID = middleware.HeaderDeviceID

// callerContext tags the request context with who is calling. Roles are kept
// per caller, and a newer assistant request from the same caller supersedes
// an older one.
func callerContext(c echo.Context) context.Context {
	return middleware.CallerContext(c)
}
