package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/core/ports"
)

// errUnparsedDescription is returned when the assistant could not turn the
// free text into a landmark. Nothing is created.
var errUnparsedDescription = echo.NewHTTPError(http.StatusUnprocessableEntity,
	"could not understand the landmark description, please describe it differently")

// DeliveryHandler handles HTTP requests for delivery operations.
type DeliveryHandler struct {
	deliveries ports.DeliveryService
	assistant  ports.AssistantService
}

func NewDeliveryHandler(deliveries ports.DeliveryService, assistant ports.AssistantService) *DeliveryHandler {
	return &DeliveryHandler{deliveries: deliveries, assistant: assistant}
}

// List handles GET /v1/deliveries.
//
// @Summary      List deliveries, most recent first
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  deliveryListResponse
// @Router       /v1/deliveries [get]
func (h *DeliveryHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, deliveryListResponse{
		Deliveries: nonNil(h.deliveries.List()),
		Selected:   h.deliveries.Selected(),
	})
}

// Create handles POST /v1/deliveries.
//
// @Summary      Request a delivery
// @Description  Accepts either free text, which is parsed first, or an already structured landmark.
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDeliveryRequest  true  "Dropoff description"
// @Success      201   {object}  domain.Delivery
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/deliveries [post]
func (h *DeliveryHandler) Create(c echo.Context) error {
	var req createDeliveryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var parsed domain.ParsedLandmark
	if req.Landmark != nil {
		parsed = toParsedLandmark(*req.Landmark)
	} else {
		p := h.assistant.Parse(callerContext(c), req.Description)
		if p == nil {
			return errUnparsedDescription
		}
		parsed = *p
	}

	d := h.deliveries.Create(c.Request().Context(), parsed)
	c.Response().Header().Set(echo.HeaderLocation, "/v1/deliveries/"+d.ID)
	return c.JSON(http.StatusCreated, d)
}

// Get handles GET /v1/deliveries/:id.
//
// @Summary      Get a delivery
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Delivery id"
// @Success      200  {object}  domain.Delivery
// @Failure      404  {object}  errorResponse
// @Router       /v1/deliveries/{id} [get]
func (h *DeliveryHandler) Get(c echo.Context) error {
	d, err := h.deliveries.Get(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Advance handles POST /v1/deliveries/:id/status.
//
// @Summary      Move a delivery to its next status
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Delivery id"
// @Param        body  body      advanceDeliveryRequest  true  "Target status"
// @Success      200   {object}  domain.Delivery
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/deliveries/{id}/status [post]
func (h *DeliveryHandler) Advance(c echo.Context) error {
	var req advanceDeliveryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.deliveries.Advance(c.Request().Context(), toAdvanceInput(c.Param("id"), req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Select handles POST /v1/deliveries/select.
//
// @Summary      Select the dropoff landmark for the next delivery
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      selectLandmarkRequest  true  "Landmark id or map point"
// @Success      200   {object}  domain.Landmark
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/deliveries/select [post]
func (h *DeliveryHandler) Select(c echo.Context) error {
	var req selectLandmarkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var (
		l   domain.Landmark
		err error
	)
	if req.LandmarkID != "" {
		l, err = h.deliveries.SelectLandmark(req.LandmarkID)
	} else {
		l, err = h.deliveries.SelectAt(toPoint(*req.Point))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}
