package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kasinav/kasi-nav/internal/core/ports"
)

// LandmarkHandler serves the landmark and incident catalogue.
type LandmarkHandler struct {
	registry       ports.LandmarkRegistry
	incidentMaxAge time.Duration
	now            func() time.Time
}

func NewLandmarkHandler(registry ports.LandmarkRegistry, incidentMaxAge time.Duration) *LandmarkHandler {
	return &LandmarkHandler{registry: registry, incidentMaxAge: incidentMaxAge, now: time.Now}
}

// List handles GET /v1/landmarks.
//
// @Summary      List landmarks
// @Tags         landmarks
// @Produce      json
// @Security     BearerAuth
// @Param        hubs  query     bool  false  "Only collection hubs"
// @Success      200   {object}  landmarkListResponse
// @Router       /v1/landmarks [get]
func (h *LandmarkHandler) List(c echo.Context) error {
	hubsOnly, _ := strconv.ParseBool(c.QueryParam("hubs"))
	if hubsOnly {
		return c.JSON(http.StatusOK, landmarkListResponse{Landmarks: nonNil(h.registry.Hubs())})
	}
	return c.JSON(http.StatusOK, landmarkListResponse{Landmarks: nonNil(h.registry.Landmarks())})
}

// Get handles GET /v1/landmarks/:id.
//
// @Summary      Get a landmark
// @Tags         landmarks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Landmark id"
// @Success      200  {object}  domain.Landmark
// @Failure      404  {object}  errorResponse
// @Router       /v1/landmarks/{id} [get]
func (h *LandmarkHandler) Get(c echo.Context) error {
	l, err := h.registry.Landmark(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}

// Verify handles POST /v1/landmarks/:id/verify.
//
// @Summary      Mark a landmark as verified
// @Tags         landmarks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Landmark id"
// @Success      200  {object}  domain.Landmark
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/landmarks/{id}/verify [post]
func (h *LandmarkHandler) Verify(c echo.Context) error {
	l, err := h.registry.Verify(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}

// Incidents handles GET /v1/incidents.
//
// @Summary      List incidents
// @Tags         landmarks
// @Produce      json
// @Security     BearerAuth
// @Param        all  query     bool  false  "Include incidents older than the freshness window"
// @Success      200  {object}  incidentListResponse
// @Router       /v1/incidents [get]
func (h *LandmarkHandler) Incidents(c echo.Context) error {
	if all, _ := strconv.ParseBool(c.QueryParam("all")); all {
		return c.JSON(http.StatusOK, incidentListResponse{Incidents: nonNil(h.registry.Incidents())})
	}
	return c.JSON(http.StatusOK, incidentListResponse{
		Incidents: nonNil(h.registry.ActiveIncidents(h.now(), h.incidentMaxAge)),
	})
}

// nonNil keeps empty lists rendering as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
