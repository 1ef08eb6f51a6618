package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/kasinav/kasi-nav/internal/core/service"
)

// HeaderDeviceID identifies the calling device when no user is signed in.
const HeaderDeviceID = "X-Device-ID"

// CallerID names who is calling: the signed-in user, then the device id
// header, then the client IP.
func CallerID(c echo.Context) string {
	if id, _ := c.Get(ContextUserID).(string); id != "" {
		return "user:" + id
	}
	if dev := c.Request().Header.Get(HeaderDeviceID); dev != "" {
		return "device:" + dev
	}
	return "ip:" + c.RealIP()
}

// CallerContext returns the request context tagged with CallerID.
func CallerContext(c echo.Context) context.Context {
	return service.WithCaller(c.Request().Context(), CallerID(c))
}
