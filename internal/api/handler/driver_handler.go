package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kasinav/kasi-nav/internal/core/ports"
)

// DriverHandler serves the live fleet view.
type DriverHandler struct {
	feed ports.DriverFeed
	now  func() time.Time
}

func NewDriverHandler(feed ports.DriverFeed) *DriverHandler {
	return &DriverHandler{feed: feed, now: time.Now}
}

// Drivers handles GET /v1/drivers.
//
// @Summary      Live driver positions
// @Tags         fleet
// @Produce      json
// @Security     BearerAuth
// @Param        zone  query     string  false  "Only drivers in this zone"
// @Success      200   {object}  driverListResponse
// @Router       /v1/drivers [get]
func (h *DriverHandler) Drivers(c echo.Context) error {
	return c.JSON(http.StatusOK, driverListResponse{
		Drivers:     nonNil(h.feed.Drivers(c.QueryParam("zone"))),
		GeneratedAt: h.now().UTC(),
	})
}

// Zones handles GET /v1/zones.
//
// @Summary      Operating zones
// @Tags         fleet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  zoneListResponse
// @Router       /v1/zones [get]
func (h *DriverHandler) Zones(c echo.Context) error {
	return c.JSON(http.StatusOK, zoneListResponse{Zones: nonNil(h.feed.Zones())})
}
