package handler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/core/ports"
	"github.com/kasinav/kasi-nav/internal/core/service"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testRegistry() *service.Registry {
	landmarks := []domain.Landmark{
		{
			ID: "l1", Name: "Ma-Zulu's Spaza", Category: domain.CategorySpaza,
			Coordinates: domain.Point{X: 450, Y: 300},
			Shop:        &domain.ShopDetails{Owner: "Zoleka Zulu", IsHub: true},
		},
		{ID: "l2", Name: "Green Taxi Rank", Category: domain.CategoryTransport, Coordinates: domain.Point{X: 200, Y: 500}},
	}
	incidents := []domain.Incident{
		{ID: "i1", Type: domain.IncidentProtest, Severity: domain.SeverityHigh,
			Description: "Protest at the main entrance.", Location: domain.Point{X: 100, Y: 100}, Timestamp: testNow},
		{ID: "i2", Type: domain.IncidentHighRisk, Severity: domain.SeverityMedium,
			Description: "Report near the sports ground.", Location: domain.Point{X: 800, Y: 200}, Timestamp: testNow.Add(-2 * time.Hour)},
	}
	return service.NewRegistry(landmarks, incidents, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Delivery service
// ---------------------------------------------------------------------------

type stubDeliveries struct {
	items     []domain.Delivery
	created   []domain.ParsedLandmark
	advanced  []ports.AdvanceInput
	advanceFn func(in ports.AdvanceInput) (domain.Delivery, error)
	selectFn  func(id string) (domain.Landmark, error)
	selectAt  func(p domain.Point) (domain.Landmark, error)
	selected  *domain.Landmark
}

func (s *stubDeliveries) Create(_ context.Context, parsed domain.ParsedLandmark) domain.Delivery {
	s.created = append(s.created, parsed)
	d := domain.Delivery{ID: "d-new", To: parsed.MainLandmark, Status: domain.StatusPending, Fee: domain.DefaultFee}
	s.items = append([]domain.Delivery{d}, s.items...)
	return d
}

func (s *stubDeliveries) List() []domain.Delivery { return s.items }

func (s *stubDeliveries) Get(id string) (domain.Delivery, error) {
	for _, d := range s.items {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Delivery{}, domain.ErrDeliveryNotFound
}

func (s *stubDeliveries) Advance(_ context.Context, in ports.AdvanceInput) (domain.Delivery, error) {
	s.advanced = append(s.advanced, in)
	return s.advanceFn(in)
}

func (s *stubDeliveries) SelectLandmark(id string) (domain.Landmark, error) { return s.selectFn(id) }

func (s *stubDeliveries) SelectAt(p domain.Point) (domain.Landmark, error) { return s.selectAt(p) }

func (s *stubDeliveries) Selected() *domain.Landmark { return s.selected }

// ---------------------------------------------------------------------------
// Assistant
// ---------------------------------------------------------------------------

type stubAssistant struct {
	parsed    *domain.ParsedLandmark
	text      string
	calls     int
	callers   []string
	from, to  string
	incidents []domain.Incident
	message   string
}

func (s *stubAssistant) record(ctx context.Context) {
	s.calls++
	s.callers = append(s.callers, service.CallerFromContext(ctx))
}

func (s *stubAssistant) Parse(ctx context.Context, _ string) *domain.ParsedLandmark {
	s.record(ctx)
	return s.parsed
}

func (s *stubAssistant) RouteText(ctx context.Context, from, to string) string {
	s.record(ctx)
	s.from, s.to = from, to
	return s.text
}

func (s *stubAssistant) SafetyAssessment(ctx context.Context, incidents []domain.Incident) string {
	s.record(ctx)
	s.incidents = incidents
	return s.text
}

func (s *stubAssistant) ChatReply(ctx context.Context, message string) string {
	s.record(ctx)
	s.message = message
	return s.text
}

// ---------------------------------------------------------------------------
// Session / state / fleet
// ---------------------------------------------------------------------------

// stubSessions keeps one role per caller, like the real service.
type stubSessions struct {
	roles     map[string]domain.Role
	chooseErr error
	signedOut []string
}

func (s *stubSessions) Current(ctx context.Context) *domain.Role {
	r, ok := s.roles[service.CallerFromContext(ctx)]
	if !ok {
		return nil
	}
	return &r
}

func (s *stubSessions) Dashboard(ctx context.Context) domain.Dashboard {
	return domain.DashboardFor(s.Current(ctx))
}

func (s *stubSessions) Choose(ctx context.Context, role domain.Role) (domain.Dashboard, error) {
	if s.chooseErr != nil {
		return "", s.chooseErr
	}
	if s.roles == nil {
		s.roles = map[string]domain.Role{}
	}
	s.roles[service.CallerFromContext(ctx)] = role
	return domain.DashboardFor(&role), nil
}

func (s *stubSessions) SignOut(ctx context.Context) {
	caller := service.CallerFromContext(ctx)
	delete(s.roles, caller)
	s.signedOut = append(s.signedOut, caller)
}

type stubState domain.AppState

func (s stubState) Snapshot(context.Context) domain.AppState { return domain.AppState(s) }

type stubFeed struct {
	drivers []domain.Driver
	zones   []domain.Zone
	zone    string
}

func (s *stubFeed) Drivers(zone string) []domain.Driver {
	s.zone = zone
	return s.drivers
}

func (s *stubFeed) Zones() []domain.Zone { return s.zones }
