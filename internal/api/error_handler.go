package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kasinav/kasi-nav/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor lists the domain errors clients may see. An empty message means
// the error text itself is shown.
var statusFor = []struct {
	err     error
	code    int
	message string
}{
	{domain.ErrDeliveryNotFound, http.StatusNotFound, "delivery not found"},
	{domain.ErrLandmarkNotFound, http.StatusNotFound, "landmark not found"},
	{domain.ErrUnknownGateway, http.StatusNotFound, "unknown payment gateway"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
	{domain.ErrInvalidTransition, http.StatusUnprocessableEntity, ""},
	{domain.ErrCourierRequired, http.StatusUnprocessableEntity, ""},
	{domain.ErrInvalidRole, http.StatusUnprocessableEntity, ""},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{domain.ErrSessionRevoked, http.StatusUnauthorized, "session revoked"},
	{domain.ErrUserExists, http.StatusConflict, "user already exists"},
}

// NewHTTPErrorHandler renders every error returned by a handler as
// {"error": "<message>"}. Echo errors keep their code, known domain errors
// get a fixed code, and anything else is logged and hidden behind a 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := resolveError(err)
		if code == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}
	for _, s := range statusFor {
		if !errors.Is(err, s.err) {
			continue
		}
		if s.message == "" {
			return s.code, err.Error()
		}
		return s.code, s.message
	}
	return http.StatusInternalServerError, "internal server error"
}
