package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kasinav/kasi-nav/internal/core/domain"
)

type PaymentHandler struct{}

func NewPaymentHandler() *PaymentHandler {
	return &PaymentHandler{}
}

// List handles GET /v1/payments.
//
// @Summary      Hosted checkout links
// @Tags         payments
// @Produce      json
// @Success      200  {object}  paymentListResponse
// @Router       /v1/payments [get]
func (h *PaymentHandler) List(c echo.Context) error {
	gateways := domain.Gateways()
	links := make([]paymentLink, 0, len(gateways))
	for _, g := range gateways {
		links = append(links, toPaymentLink(g))
	}
	return c.JSON(http.StatusOK, paymentListResponse{Gateways: links})
}

// Redirect handles GET /v1/payments/:gateway.
//
// @Summary      Redirect to a hosted checkout
// @Tags         payments
// @Param        gateway  path  string  true  "paystack or ozow"
// @Success      302
// @Failure      404  {object}  errorResponse
// @Router       /v1/payments/{gateway} [get]
func (h *PaymentHandler) Redirect(c echo.Context) error {
	g, err := domain.ParseGateway(c.Param("gateway"))
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, g.URL())
}
