package domain

import (
	"fmt"
	"strings"
)

// PaymentGateway is an external hosted checkout.
type PaymentGateway string

const (
	GatewayPaystack PaymentGateway = "paystack"
	GatewayOzow     PaymentGateway = "ozow"
)

var gatewayURLs = map[PaymentGateway]string{
	GatewayPaystack: "https://paystack.com/pay/demo",
	GatewayOzow:     "https://ozow.com/demo-pay",
}

// Gateways lists the supported gateways in display order.
func Gateways() []PaymentGateway {
	return []PaymentGateway{GatewayPaystack, GatewayOzow}
}

// ParseGateway returns the gateway named by s.
func ParseGateway(s string) (PaymentGateway, error) {
	g := PaymentGateway(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := gatewayURLs[g]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownGateway, s)
	}
	return g, nil
}

// URL is the static checkout link.
func (g PaymentGateway) URL() string {
	return gatewayURLs[g]
}

// Label is the button caption, e.g. "Pay via Paystack".
func (g PaymentGateway) Label() string {
	name := string(g)
	if name == "" {
		return ""
	}
	return "Pay via " + strings.ToUpper(name[:1]) + name[1:]
}
