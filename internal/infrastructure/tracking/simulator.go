package tracking

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/kasinav/kasi-nav/internal/api/metrics"
	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/infrastructure/queue"
)

const (
	// DefaultTick is how often the demo fleet moves.
	DefaultTick = 4 * time.Second
	// maxJitter bounds each coordinate step in degrees.
	maxJitter = 0.0005
)

// Simulator drives the demo fleet: every tick each driver drifts a little and
// randomly flips between active and idle.
type Simulator struct {
	fleet      *Fleet
	dispatcher *queue.Dispatcher
	tick       time.Duration
	rnd        func() float64
	log        zerolog.Logger
}

func NewSimulator(fleet *Fleet, tick time.Duration, log zerolog.Logger) *Simulator {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Simulator{
		fleet:      fleet,
		dispatcher: queue.NewDispatcher(0, fleet, log),
		tick:       tick,
		rnd:        rand.Float64,
		log:        log,
	}
}

// Run moves the fleet until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context) {
	s.dispatcher.Start(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.log.Info().Dur("tick", s.tick).Int("drivers", len(s.fleet.Names())).Msg("driver simulator started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("driver simulator stopped")
			return
		case <-ticker.C:
			s.step(ctx)
		}
	}
}

// step enqueues one update per driver.
func (s *Simulator) step(ctx context.Context) {
	for _, name := range s.fleet.Names() {
		if !s.dispatcher.Enqueue(ctx, s.nextUpdate(name)) {
			return
		}
	}
	metrics.DriverTicksTotal.Inc()
}

func (s *Simulator) nextUpdate(name string) domain.PositionUpdate {
	status := domain.DriverIdle
	if s.rnd() > 0.5 {
		status = domain.DriverActive
	}
	return domain.PositionUpdate{
		Driver: name,
		DLat:   (s.rnd() - 0.5) * 2 * maxJitter,
		DLng:   (s.rnd() - 0.5) * 2 * maxJitter,
		Status: status,
	}
}
