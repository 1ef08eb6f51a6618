package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kasinav/kasi-nav/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, `{"error":"invalid payload"}`},
		{"wrapped not found", fmt.Errorf("landmark %q: %w", "x", domain.ErrLandmarkNotFound), http.StatusNotFound, `{"error":"landmark not found"}`},
		{"transition", domain.ErrInvalidTransition, http.StatusUnprocessableEntity, `{"error":"invalid status transition"}`},
		{"gateway", domain.ErrUnknownGateway, http.StatusNotFound, `{"error":"unknown payment gateway"}`},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, `{"error":"access forbidden"}`},
		{"conflict", domain.ErrUserExists, http.StatusConflict, `{"error":"user already exists"}`},
		{"unexpected", errors.New("mongo: connection reset"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}
	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			h(tt.err, c)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if got := rec.Body.String(); got != tt.wantBody+"\n" {
				t.Errorf("unexpected body %q", got)
			}
		})
	}
}
