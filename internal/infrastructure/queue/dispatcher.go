package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/kasinav/kasi-nav/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Handler applies one position update.
type Handler interface {
	Apply(ctx context.Context, update domain.PositionUpdate) error
}

// Dispatcher routes position updates to a fixed set of workers using
// consistent hashing on the driver name, guaranteeing per-driver ordering.
type Dispatcher struct {
	workers []chan domain.PositionUpdate
	handler Handler
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, handler Handler, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.PositionUpdate, numWorkers),
		handler: handler,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.PositionUpdate, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an update to the worker that owns its driver. It blocks once
// that worker's buffer is full, and gives up when ctx ends.
func (d *Dispatcher) Enqueue(ctx context.Context, update domain.PositionUpdate) bool {
	select {
	case d.workers[d.shardIndex(update.Driver)] <- update:
		return true
	case <-ctx.Done():
		return false
	}
}

// shardIndex maps a driver name deterministically to a worker index.
func (d *Dispatcher) shardIndex(driver string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(driver))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.PositionUpdate) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-ch:
			if !ok {
				return
			}
			if err := d.handler.Apply(ctx, update); err != nil {
				d.log.Error().Err(err).
					Str("driver", update.Driver).
					Int("worker_id", id).
					Msg("position update failed")
			}
		}
	}
}
