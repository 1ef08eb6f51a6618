package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/core/ports"
)

// StateReader exposes the whole application state, as the caller in ctx
// sees it, in one value.
type StateReader interface {
	Snapshot(ctx context.Context) domain.AppState
}

// SessionHandler serves the caller's role and the dashboard it selects.
type SessionHandler struct {
	sessions ports.SessionService
	state    StateReader
}

func NewSessionHandler(sessions ports.SessionService, state StateReader) *SessionHandler {
	return &SessionHandler{sessions: sessions, state: state}
}

// Get handles GET /v1/session.
//
// @Summary      Current role and dashboard
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Router       /v1/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, toSessionResponse(h.sessions.Current(callerContext(c))))
}

// ChooseRole handles PUT /v1/session/role.
//
// @Summary      Choose a role on onboarding
// @Tags         session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      chooseRoleRequest  true  "CONSUMER, COURIER or BUSINESS"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/session/role [put]
func (h *SessionHandler) ChooseRole(c echo.Context) error {
	var req chooseRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}
	if _, err := h.sessions.Choose(callerContext(c), role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(&role))
}

// SignOut handles DELETE /v1/session/role.
//
// @Summary      Clear the role and return to onboarding
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Router       /v1/session/role [delete]
func (h *SessionHandler) SignOut(c echo.Context) error {
	h.sessions.SignOut(callerContext(c))
	return c.JSON(http.StatusOK, toSessionResponse(nil))
}

// State handles GET /v1/state.
//
// @Summary      Full application state
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.AppState
// @Router       /v1/state [get]
func (h *SessionHandler) State(c echo.Context) error {
	return c.JSON(http.StatusOK, h.state.Snapshot(callerContext(c)))
}
