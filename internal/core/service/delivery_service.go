package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kasinav/kasi-nav/internal/api/metrics"
	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/core/ports"
)

// hubFallback is used when the catalogue has no hub at all.
var hubFallback = domain.Landmark{
	ID:          "hub",
	Name:        "Main Hub",
	Category:    domain.CategorySpaza,
	Coordinates: domain.Point{X: 450, Y: 300},
}

// DeliveryService is the ordered, persisted delivery store. Every mutation is
// followed by a whole-list save; the list is most-recent-first.
type DeliveryService struct {
	mu         sync.Mutex
	repo       ports.DeliveryRepository
	registry   ports.LandmarkRegistry
	deliveries []domain.Delivery
	selected   *domain.Landmark
	newID      func() string
	now        func() time.Time
	logger     zerolog.Logger
}

func NewDeliveryService(repo ports.DeliveryRepository, registry ports.LandmarkRegistry, logger zerolog.Logger) *DeliveryService {
	return &DeliveryService{
		repo:     repo,
		registry: registry,
		newID:    uuid.NewString,
		now:      time.Now,
		logger:   logger,
	}
}

// Load re-hydrates the store. Missing or unreadable state falls back to a
// single example delivery; it never fails.
func (s *DeliveryService) Load(ctx context.Context) {
	stored, err := s.repo.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case err == nil && len(stored) > 0:
		s.deliveries = stored
		s.logger.Info().Int("count", len(stored)).Msg("deliveries loaded")
		return
	case err == nil, errors.Is(err, domain.ErrStateNotFound):
		s.logger.Info().Msg("no stored deliveries, seeding example")
	default:
		s.logger.Warn().Err(err).Msg("stored deliveries unreadable, seeding example")
	}
	s.deliveries = []domain.Delivery{s.exampleDelivery()}
}

// Create builds a pending delivery from a parsed landmark description and
// prepends it to the list.
func (s *DeliveryService) Create(ctx context.Context, parsed domain.ParsedLandmark) domain.Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()

	hub := s.hub()
	dropoff := hub.Coordinates
	if s.selected != nil {
		dropoff = s.selected.Coordinates
	}

	d := domain.Delivery{
		ID:                  s.newID(),
		Title:               "Delivery to " + parsed.MainLandmark,
		From:                hub.Name,
		To:                  parsed.MainLandmark,
		Status:              domain.StatusPending,
		Fee:                 domain.DefaultFee,
		LandmarkDescription: parsed.Describe(),
		PickupCoords:        hub.Coordinates,
		DropoffCoords:       dropoff,
		CreatedAt:           s.now().UTC().Truncate(time.Millisecond),
	}

	s.deliveries = append([]domain.Delivery{d}, s.deliveries...)
	s.persist(ctx)

	metrics.DeliveriesCreatedTotal.WithLabelValues(string(domain.ParseCategory(string(parsed.SuggestedCategory)))).Inc()
	s.logger.Info().Str("delivery_id", d.ID).Str("to", d.To).Msg("delivery created")
	return d
}

// List returns the deliveries, most recent first.
func (s *DeliveryService) List() []domain.Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Delivery(nil), s.deliveries...)
}

// Get returns a single delivery by id.
func (s *DeliveryService) Get(id string) (domain.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Delivery{}, fmt.Errorf("delivery %q: %w", id, domain.ErrDeliveryNotFound)
	}
	return s.deliveries[idx], nil
}

// Advance moves a delivery one step forward. Accepting requires a courier id;
// a delivered parcel may carry an evidence image reference.
func (s *DeliveryService) Advance(ctx context.Context, in ports.AdvanceInput) (domain.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(in.DeliveryID)
	if idx < 0 {
		return domain.Delivery{}, fmt.Errorf("delivery %q: %w", in.DeliveryID, domain.ErrDeliveryNotFound)
	}
	d := s.deliveries[idx]
	if !d.Status.CanTransitionTo(in.Status) {
		return domain.Delivery{}, fmt.Errorf("advance delivery: %w (from %s to %s)", domain.ErrInvalidTransition, d.Status, in.Status)
	}
	if in.Status == domain.StatusAccepted {
		if in.CourierID == "" {
			return domain.Delivery{}, domain.ErrCourierRequired
		}
		d.CourierID = in.CourierID
	}
	if in.Status == domain.StatusDelivered && in.EvidenceImage != "" {
		d.EvidenceImage = in.EvidenceImage
	}
	d.Status = in.Status

	s.deliveries[idx] = d
	s.persist(ctx)

	metrics.DeliveryTransitionsTotal.WithLabelValues(string(d.Status)).Inc()
	s.logger.Info().Str("delivery_id", d.ID).Str("status", string(d.Status)).Msg("delivery advanced")
	return d, nil
}

// SelectLandmark remembers the landmark the next delivery drops off at.
func (s *DeliveryService) SelectLandmark(id string) (domain.Landmark, error) {
	l, err := s.registry.Landmark(id)
	if err != nil {
		return domain.Landmark{}, err
	}
	s.setSelected(l)
	return l, nil
}

// SelectAt selects the landmark nearest to a map point.
func (s *DeliveryService) SelectAt(p domain.Point) (domain.Landmark, error) {
	l, err := s.registry.Nearest(p)
	if err != nil {
		return domain.Landmark{}, err
	}
	s.setSelected(l)
	return l, nil
}

// Selected returns the currently selected landmark, if any.
func (s *DeliveryService) Selected() *domain.Landmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	l := *s.selected
	return &l
}

func (s *DeliveryService) setSelected(l domain.Landmark) {
	s.mu.Lock()
	s.selected = &l
	s.mu.Unlock()
}

func (s *DeliveryService) indexOf(id string) int {
	for i, d := range s.deliveries {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func (s *DeliveryService) hub() domain.Landmark {
	if hub, ok := s.registry.DefaultHub(); ok {
		return hub
	}
	return hubFallback
}

// persist writes the whole list. Failures are logged and counted; the
// in-memory mutation stands.
func (s *DeliveryService) persist(ctx context.Context) {
	snapshot := append([]domain.Delivery(nil), s.deliveries...)
	if err := s.repo.Save(ctx, snapshot); err != nil {
		metrics.StateWriteErrorsTotal.WithLabelValues(ports.DeliveriesKey).Inc()
		s.logger.Error().Err(err).Msg("failed to persist deliveries")
	}
}

func (s *DeliveryService) exampleDelivery() domain.Delivery {
	hub := s.hub()
	dropoff := hub.Coordinates
	to := "The Blue House"
	if l, err := s.registry.Landmark("l3"); err == nil {
		dropoff = l.Coordinates
		to = l.Name
	}
	return domain.Delivery{
		ID:                  "example-1",
		Title:               "Groceries for Gogo",
		From:                hub.Name,
		To:                  to,
		Status:              domain.StatusPending,
		Fee:                 domain.DefaultFee,
		LandmarkDescription: "Behind the spaza shop, has a satellite dish and red gate.",
		PickupCoords:        hub.Coordinates,
		DropoffCoords:       dropoff,
		CreatedAt:           s.now().UTC().Truncate(time.Millisecond),
	}
}
