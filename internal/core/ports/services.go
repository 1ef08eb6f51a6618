package ports

import (
	"context"
	"time"

	"github.com/kasinav/kasi-nav/internal/core/domain"
)

// AdvanceInput moves a delivery one step along its lifecycle.
type AdvanceInput struct {
	DeliveryID    string
	Status        domain.DeliveryStatus
	CourierID     string // required when accepting
	EvidenceImage string // optional proof of delivery
}

// DeliveryService is the ordered delivery store.
type DeliveryService interface {
	Create(ctx context.Context, parsed domain.ParsedLandmark) domain.Delivery
	List() []domain.Delivery
	Get(id string) (domain.Delivery, error)
	Advance(ctx context.Context, in AdvanceInput) (domain.Delivery, error)
	SelectLandmark(id string) (domain.Landmark, error)
	SelectAt(p domain.Point) (domain.Landmark, error)
	Selected() *domain.Landmark
}

// AssistantService turns free text into structured data and canned advice.
// None of its operations fail; they degrade to fixed fallbacks.
type AssistantService interface {
	Parse(ctx context.Context, text string) *domain.ParsedLandmark
	RouteText(ctx context.Context, from, to string) string
	SafetyAssessment(ctx context.Context, incidents []domain.Incident) string
	ChatReply(ctx context.Context, message string) string
}

// SessionService owns the role of each caller. The caller is read from ctx.
type SessionService interface {
	Current(ctx context.Context) *domain.Role
	Dashboard(ctx context.Context) domain.Dashboard
	Choose(ctx context.Context, role domain.Role) (domain.Dashboard, error)
	SignOut(ctx context.Context)
}

// LandmarkRegistry is the catalogue of landmarks and incidents.
type LandmarkRegistry interface {
	Landmarks() []domain.Landmark
	Landmark(id string) (domain.Landmark, error)
	Hubs() []domain.Landmark
	DefaultHub() (domain.Landmark, bool)
	Verify(id string) (domain.Landmark, error)
	Nearest(p domain.Point) (domain.Landmark, error)
	Incidents() []domain.Incident
	ActiveIncidents(now time.Time, maxAge time.Duration) []domain.Incident
}

// DriverFeed exposes the live driver positions.
type DriverFeed interface {
	Drivers(zone string) []domain.Driver
	Zones() []domain.Zone
}
