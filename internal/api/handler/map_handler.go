package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/core/ports"
	"github.com/kasinav/kasi-nav/internal/mapview"
)

// MapHandler renders the schematic township map and resolves clicks on it.
type MapHandler struct {
	deliveries     ports.DeliveryService
	registry       ports.LandmarkRegistry
	incidentMaxAge time.Duration
	now            func() time.Time
}

func NewMapHandler(deliveries ports.DeliveryService, registry ports.LandmarkRegistry, incidentMaxAge time.Duration) *MapHandler {
	return &MapHandler{
		deliveries:     deliveries,
		registry:       registry,
		incidentMaxAge: incidentMaxAge,
		now:            time.Now,
	}
}

// scene builds the map for the delivery named by ?delivery=, falling back to
// the first delivery that is under way.
func (h *MapHandler) scene(c echo.Context) (mapview.Scene, error) {
	var active *domain.Delivery
	if id := c.QueryParam("delivery"); id != "" {
		d, err := h.deliveries.Get(id)
		if err != nil {
			return mapview.Scene{}, err
		}
		active = &d
	} else {
		active = mapview.ActiveDelivery(h.deliveries.List())
	}
	incidents := h.registry.ActiveIncidents(h.now(), h.incidentMaxAge)
	return mapview.Render(h.registry.Landmarks(), incidents, active), nil
}

// Scene handles GET /v1/map/scene.
//
// @Summary      Map scene as pins and route
// @Tags         map
// @Produce      json
// @Security     BearerAuth
// @Param        delivery  query     string  false  "Delivery to draw the route for"
// @Success      200       {object}  sceneResponse
// @Failure      404       {object}  errorResponse
// @Router       /v1/map/scene [get]
func (h *MapHandler) Scene(c echo.Context) error {
	sc, err := h.scene(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSceneResponse(sc))
}

// SceneSVG handles GET /v1/map/scene.svg.
//
// @Summary      Map scene as SVG
// @Tags         map
// @Produce      image/svg+xml
// @Security     BearerAuth
// @Param        delivery  query  string  false  "Delivery to draw the route for"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /v1/map/scene.svg [get]
func (h *MapHandler) SceneSVG(c echo.Context) error {
	sc, err := h.scene(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := mapview.WriteSVG(&buf, sc); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/svg+xml", buf.Bytes())
}

// Click handles POST /v1/map/click. The screen point is mapped back into
// map coordinates and the nearest landmark becomes the selected dropoff.
//
// @Summary      Select the landmark under a click
// @Tags         map
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      mapClickRequest  true  "Click in screen pixels"
// @Success      200   {object}  mapClickResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/map/click [post]
func (h *MapHandler) Click(c echo.Context) error {
	var req mapClickRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	vt, err := toViewTransform(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := vt.ScreenToMap(toPoint(req.Screen))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	l, err := h.deliveries.SelectAt(p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapClickResponse{MapPoint: p, Landmark: l})
}
