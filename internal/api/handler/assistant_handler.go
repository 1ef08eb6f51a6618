package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kasinav/kasi-nav/internal/core/ports"
)

// AssistantHandler exposes the text assistant. Its operations never fail
// upstream errors to the client; they answer with fixed fallbacks instead.
type AssistantHandler struct {
	assistant      ports.AssistantService
	deliveries     ports.DeliveryService
	registry       ports.LandmarkRegistry
	incidentMaxAge time.Duration
	now            func() time.Time
}

func NewAssistantHandler(
	assistant ports.AssistantService,
	deliveries ports.DeliveryService,
	registry ports.LandmarkRegistry,
	incidentMaxAge time.Duration,
) *AssistantHandler {
	return &AssistantHandler{
		assistant:      assistant,
		deliveries:     deliveries,
		registry:       registry,
		incidentMaxAge: incidentMaxAge,
		now:            time.Now,
	}
}

// Parse handles POST /v1/assistant/parse.
//
// @Summary      Parse a landmark description
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      parseRequest  true  "Free-text address"
// @Success      200   {object}  parseResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/assistant/parse [post]
func (h *AssistantHandler) Parse(c echo.Context) error {
	var req parseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	parsed := h.assistant.Parse(callerContext(c), req.Text)
	if parsed == nil {
		return errUnparsedDescription
	}
	return c.JSON(http.StatusOK, parseResponse{Parsed: parsed, Description: parsed.Describe()})
}

// Route handles POST /v1/assistant/route.
//
// @Summary      Landmark-based directions
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      routeRequest  true  "Delivery id or from/to names"
// @Success      200   {object}  textResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/assistant/route [post]
func (h *AssistantHandler) Route(c echo.Context) error {
	var req routeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	from, to := req.From, req.To
	if req.DeliveryID != "" {
		d, err := h.deliveries.Get(req.DeliveryID)
		if err != nil {
			return err
		}
		from, to = d.From, d.To
	}
	return c.JSON(http.StatusOK, textResponse{Text: h.assistant.RouteText(callerContext(c), from, to)})
}

// Safety handles POST /v1/assistant/safety.
//
// @Summary      Safety warning for couriers
// @Description  Uses the given incidents, or the currently active ones when none are sent.
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      safetyRequest  false  "Incidents to assess"
// @Success      200   {object}  textResponse
// @Router       /v1/assistant/safety [post]
func (h *AssistantHandler) Safety(c echo.Context) error {
	var req safetyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	incidents := h.registry.ActiveIncidents(h.now(), h.incidentMaxAge)
	if req.Incidents != nil {
		incidents = *req.Incidents
	}
	return c.JSON(http.StatusOK, textResponse{Text: h.assistant.SafetyAssessment(callerContext(c), incidents)})
}

// Chat handles POST /v1/assistant/chat.
//
// @Summary      Ask Kasi-Bot
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      chatRequest  true  "Support message"
// @Success      200   {object}  textResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/assistant/chat [post]
func (h *AssistantHandler) Chat(c echo.Context) error {
	var req chatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, textResponse{Text: h.assistant.ChatReply(callerContext(c), req.Message)})
}
