// Package mapview turns landmark, incident and delivery records into a
// drawable township map and converts screen clicks back into map space.
package mapview

import "github.com/kasinav/kasi-nav/internal/core/domain"

// Palette used by the map.
const (
	ColorPrimary   = "#f97316"
	ColorSecondary = "#22c55e"
	ColorDanger    = "#ef4444"
	ColorInfo      = "#3b82f6"
)

// PinKind distinguishes what a pin stands for.
type PinKind string

const (
	PinLandmark PinKind = "landmark"
	PinIncident PinKind = "incident"
	PinPickup   PinKind = "pickup"
	PinDropoff  PinKind = "dropoff"
)

// Pin is one marker on the map.
type Pin struct {
	ID       string       `json:"id"`
	Kind     PinKind      `json:"kind"`
	Label    string       `json:"label"`
	Color    string       `json:"color"`
	At       domain.Point `json:"at"`
	Verified bool         `json:"verified,omitempty"`
}

// Segment is a straight route line.
type Segment struct {
	From  domain.Point `json:"from"`
	To    domain.Point `json:"to"`
	Color string       `json:"color"`
}

// Scene is everything needed to draw the map once.
type Scene struct {
	ViewBox ViewBox  `json:"-"`
	Pins    []Pin    `json:"pins"`
	Route   *Segment `json:"route,omitempty"`
}

// Render builds the scene. Landmarks come first in catalogue order, then
// incidents, then the active delivery's markers. A nil delivery draws no route.
func Render(landmarks []domain.Landmark, incidents []domain.Incident, active *domain.Delivery) Scene {
	sc := Scene{
		ViewBox: DefaultViewBox,
		Pins:    make([]Pin, 0, len(landmarks)+len(incidents)+2),
	}
	for _, l := range landmarks {
		color := ColorInfo
		if l.Category == domain.CategorySpaza {
			color = ColorPrimary
		}
		sc.Pins = append(sc.Pins, Pin{
			ID:       l.ID,
			Kind:     PinLandmark,
			Label:    l.Name,
			Color:    color,
			At:       l.Coordinates,
			Verified: l.IsVerified,
		})
	}
	for _, i := range incidents {
		sc.Pins = append(sc.Pins, Pin{
			ID:    i.ID,
			Kind:  PinIncident,
			Label: i.Description,
			Color: ColorDanger,
			At:    i.Location,
		})
	}
	if active != nil {
		sc.Route = &Segment{From: active.PickupCoords, To: active.DropoffCoords, Color: ColorPrimary}
		sc.Pins = append(sc.Pins,
			Pin{ID: active.ID + ":pickup", Kind: PinPickup, Label: active.From, Color: ColorPrimary, At: active.PickupCoords},
			Pin{ID: active.ID + ":dropoff", Kind: PinDropoff, Label: active.To, Color: ColorSecondary, At: active.DropoffCoords},
		)
	}
	return sc
}

// ActiveDelivery picks the delivery to draw a route for: the first one that
// is accepted or in transit.
func ActiveDelivery(deliveries []domain.Delivery) *domain.Delivery {
	for i := range deliveries {
		switch deliveries[i].Status {
		case domain.StatusAccepted, domain.StatusInTransit:
			d := deliveries[i]
			return &d
		}
	}
	return nil
}
