package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kasinav/kasi-nav/internal/api/middleware"
	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUp creates a new user account.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Email and password (min 6 characters)"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	user, err := h.authService.SignUp(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrUserExists):
			status = http.StatusConflict
		case errors.Is(err, domain.ErrInvalidCredentials):
			status = http.StatusBadRequest
		}
		return c.JSON(status, errorResponse{Error: authErrorMessage(status, err)})
	}

	return c.JSON(http.StatusCreated, userResponse{User: user})
}

// SignIn authenticates a user and returns a session with a bearer token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Login credentials"
// @Success      200   {object}  domain.Session
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "email and password are required"})
	}

	sess, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
		}
		return c.JSON(status, errorResponse{Error: authErrorMessage(status, err)})
	}

	return c.JSON(http.StatusOK, sess)
}

// SignOut revokes the caller's session.
//
// @Summary      Sign out
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  errorResponse
// @Router       /auth/signout [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	token, _ := c.Get(middleware.ContextAccessToken).(string)
	if err := h.authService.SignOut(c.Request().Context(), token); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrSessionRevoked) {
			status = http.StatusUnauthorized
		}
		return c.JSON(status, errorResponse{Error: authErrorMessage(status, err)})
	}
	return c.NoContent(http.StatusNoContent)
}

// Session returns the caller's current session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  domain.Session
// @Failure      401   {object}  errorResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	token, _ := c.Get(middleware.ContextAccessToken).(string)
	sess, err := h.authService.GetSession(c.Request().Context(), token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid session"})
	}
	return c.JSON(http.StatusOK, sess)
}

// User returns the signed-in user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  userResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/user [get]
func (h *AuthHandler) User(c echo.Context) error {
	token, _ := c.Get(middleware.ContextAccessToken).(string)
	user, err := h.authService.GetUser(c.Request().Context(), token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid session"})
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// authErrorMessage hides internal failures from the client.
func authErrorMessage(status int, err error) string {
	if status == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
