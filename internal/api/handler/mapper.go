package handler

import (
	"strings"

	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/core/ports"
	"github.com/kasinav/kasi-nav/internal/mapview"
)

// --- Request → Service input ---

func toParsedLandmark(req parsedLandmarkRequest) domain.ParsedLandmark {
	markers := make([]string, 0, len(req.VisualMarkers))
	for _, m := range req.VisualMarkers {
		if m = strings.TrimSpace(m); m != "" {
			markers = append(markers, m)
		}
	}
	return domain.ParsedLandmark{
		MainLandmark:      strings.TrimSpace(req.MainLandmark),
		SpatialRelation:   strings.TrimSpace(req.SpatialRelation),
		VisualMarkers:     markers,
		SuggestedCategory: domain.ParseCategory(req.SuggestedCategory),
		Confidence:        req.Confidence,
	}
}

func toAdvanceInput(id string, req advanceDeliveryRequest) ports.AdvanceInput {
	status, _ := domain.ParseDeliveryStatus(req.Status)
	return ports.AdvanceInput{
		DeliveryID:    id,
		Status:        status,
		CourierID:     strings.TrimSpace(req.CourierID),
		EvidenceImage: strings.TrimSpace(req.EvidenceImage),
	}
}

func toPoint(p pointRequest) domain.Point {
	return domain.Point{X: p.X, Y: p.Y}
}

func toViewTransform(req mapClickRequest) (mapview.ViewTransform, error) {
	vb, err := mapview.ParseViewBox(req.ViewBox)
	if err != nil {
		return mapview.ViewTransform{}, err
	}
	return mapview.ViewTransform{
		ViewBox: vb,
		Viewport: mapview.Viewport{
			Left:   req.Viewport.Left,
			Top:    req.Viewport.Top,
			Width:  req.Viewport.Width,
			Height: req.Viewport.Height,
		},
	}, nil
}

// --- Domain → Response ---

func toSessionResponse(role *domain.Role) sessionResponse {
	return sessionResponse{Role: role, Dashboard: domain.DashboardFor(role)}
}

func toSceneResponse(sc mapview.Scene) sceneResponse {
	return sceneResponse{ViewBox: sc.ViewBox.String(), Pins: sc.Pins, Route: sc.Route}
}

func toPaymentLink(g domain.PaymentGateway) paymentLink {
	return paymentLink{Gateway: g, Label: g.Label(), URL: g.URL()}
}
