package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testLandmarks() []domain.Landmark {
	return []domain.Landmark{
		{
			ID: "l1", Name: "Ma-Zulu's Spaza", Category: domain.CategorySpaza,
			Coordinates: domain.Point{X: 450, Y: 300},
			Shop:        &domain.ShopDetails{Owner: "Zoleka Zulu", IsHub: true, ActiveDeliveries: 4},
		},
		{ID: "l2", Name: "Green Taxi Rank", Category: domain.CategoryTransport, Coordinates: domain.Point{X: 200, Y: 500}},
		{ID: "l3", Name: "The Blue House", Category: domain.CategoryHouse, Coordinates: domain.Point{X: 480, Y: 280}},
		{
			ID: "l4", Name: "Corner Shop Hub", Category: domain.CategorySpaza,
			Coordinates: domain.Point{X: 700, Y: 650},
			Shop:        &domain.ShopDetails{Owner: "Peter Moyo", IsHub: true, ActiveDeliveries: 12},
		},
	}
}

func testIncidents() []domain.Incident {
	return []domain.Incident{
		{ID: "i1", Type: domain.IncidentProtest, Severity: domain.SeverityHigh,
			Description: "Service delivery protest at the main entrance.",
			Location:    domain.Point{X: 100, Y: 100}, Timestamp: fixedNow},
		{ID: "i2", Type: domain.IncidentHighRisk, Severity: domain.SeverityMedium,
			Description: "High incident report near the sports ground.",
			Location:    domain.Point{X: 800, Y: 200}, Timestamp: fixedNow.Add(-time.Hour)},
	}
}

func testRegistry() *Registry {
	return NewRegistry(testLandmarks(), testIncidents(), discardLogger)
}

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubDeliveryRepo struct {
	mu      sync.Mutex
	stored  []domain.Delivery
	loadErr error
	saveErr error
	saves   int
}

func (r *stubDeliveryRepo) Load(_ context.Context) ([]domain.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.stored == nil {
		return nil, domain.ErrStateNotFound
	}
	return append([]domain.Delivery(nil), r.stored...), nil
}

func (r *stubDeliveryRepo) Save(_ context.Context, d []domain.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.stored = append([]domain.Delivery(nil), d...)
	return nil
}

type stubRoleRepo struct {
	roles  map[string]domain.Role
	getErr error
	setErr error
	gets   int
	sets   int
	clears int
}

func storedRoles(caller string, role domain.Role) *stubRoleRepo {
	return &stubRoleRepo{roles: map[string]domain.Role{caller: role}}
}

func (r *stubRoleRepo) Get(_ context.Context, caller string) (*domain.Role, error) {
	r.gets++
	if r.getErr != nil {
		return nil, r.getErr
	}
	role, ok := r.roles[caller]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

func (r *stubRoleRepo) Set(_ context.Context, caller string, role domain.Role) error {
	r.sets++
	if r.setErr != nil {
		return r.setErr
	}
	if r.roles == nil {
		r.roles = map[string]domain.Role{}
	}
	r.roles[caller] = role
	return nil
}

func (r *stubRoleRepo) Clear(_ context.Context, caller string) error {
	r.clears++
	delete(r.roles, caller)
	return nil
}

// stubCompleter records requests and answers with a canned reply.
type stubCompleter struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []ports.CompletionRequest
	// block, when set, holds Complete until the context ends or release closes.
	block   bool
	release chan struct{}
	started chan struct{}
}

func (c *stubCompleter) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	block, release, started := c.block, c.release, c.started
	c.mu.Unlock()

	if block {
		if started != nil {
			started <- struct{}{}
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-release:
		}
	}
	return c.reply, c.err
}

func (c *stubCompleter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

var errNetwork = errors.New("dial tcp: connection refused")
