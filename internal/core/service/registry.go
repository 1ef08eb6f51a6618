package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/dhconnelly/rtreego"
	"github.com/rs/zerolog"

	"github.com/kasinav/kasi-nav/internal/core/domain"
)

// pinTolerance is the half-size of the box each landmark occupies in the index.
const pinTolerance = 0.5

// landmarkPin places a landmark in the R-tree.
type landmarkPin struct {
	idx int
	at  rtreego.Point
}

func (p landmarkPin) Bounds() rtreego.Rect {
	return p.at.ToRect(pinTolerance)
}

// Registry holds the landmark and incident catalogue. Landmarks are immutable
// apart from their verification flag; incidents are write-once.
type Registry struct {
	mu        sync.RWMutex
	landmarks []domain.Landmark
	byID      map[string]int
	incidents []domain.Incident
	index     *rtreego.Rtree
	log       zerolog.Logger
}

// NewRegistry indexes the given catalogue. Landmarks with duplicate ids are
// dropped after the first occurrence.
func NewRegistry(landmarks []domain.Landmark, incidents []domain.Incident, log zerolog.Logger) *Registry {
	r := &Registry{
		byID:      make(map[string]int, len(landmarks)),
		incidents: append([]domain.Incident(nil), incidents...),
		index:     rtreego.NewTree(2, 4, 16),
		log:       log,
	}
	for _, l := range landmarks {
		if _, dup := r.byID[l.ID]; dup {
			log.Warn().Str("landmark_id", l.ID).Msg("duplicate landmark skipped")
			continue
		}
		idx := len(r.landmarks)
		r.landmarks = append(r.landmarks, l)
		r.byID[l.ID] = idx
		r.index.Insert(landmarkPin{idx: idx, at: rtreego.Point{l.Coordinates.X, l.Coordinates.Y}})
	}
	return r
}

// Landmarks returns a copy of every landmark in catalogue order.
func (r *Registry) Landmarks() []domain.Landmark {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Landmark(nil), r.landmarks...)
}

// Landmark looks a landmark up by id.
func (r *Registry) Landmark(id string) (domain.Landmark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return domain.Landmark{}, fmt.Errorf("landmark %q: %w", id, domain.ErrLandmarkNotFound)
	}
	return r.landmarks[idx], nil
}

// Hubs returns the spaza shops flagged as collection points.
func (r *Registry) Hubs() []domain.Landmark {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var hubs []domain.Landmark
	for _, l := range r.landmarks {
		if l.IsHub() {
			hubs = append(hubs, l)
		}
	}
	return hubs
}

// DefaultHub is the first hub in the catalogue.
func (r *Registry) DefaultHub() (domain.Landmark, bool) {
	hubs := r.Hubs()
	if len(hubs) == 0 {
		return domain.Landmark{}, false
	}
	return hubs[0], true
}

// Verify marks a landmark as verified.
func (r *Registry) Verify(id string) (domain.Landmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byID[id]
	if !ok {
		return domain.Landmark{}, fmt.Errorf("landmark %q: %w", id, domain.ErrLandmarkNotFound)
	}
	if !r.landmarks[idx].IsVerified {
		r.landmarks[idx].IsVerified = true
		r.log.Info().Str("landmark_id", id).Msg("landmark verified")
	}
	return r.landmarks[idx], nil
}

// Nearest returns the landmark closest to p.
func (r *Registry) Nearest(p domain.Point) (domain.Landmark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.index.Size() == 0 {
		return domain.Landmark{}, domain.ErrLandmarkNotFound
	}
	hit, ok := r.index.NearestNeighbor(rtreego.Point{p.X, p.Y}).(landmarkPin)
	if !ok {
		return domain.Landmark{}, domain.ErrLandmarkNotFound
	}
	return r.landmarks[hit.idx], nil
}

// Incidents returns every reported incident.
func (r *Registry) Incidents() []domain.Incident {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Incident(nil), r.incidents...)
}

// ActiveIncidents returns incidents reported within maxAge of now.
func (r *Registry) ActiveIncidents(now time.Time, maxAge time.Duration) []domain.Incident {
	r.mu.RLock()
	defer r.mu.RUnlock()
	active := make([]domain.Incident, 0, len(r.incidents))
	for _, i := range r.incidents {
		if i.IsFresh(now, maxAge) {
			active = append(active, i)
		}
	}
	return active
}
