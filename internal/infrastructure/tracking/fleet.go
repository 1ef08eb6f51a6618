package tracking

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmcloughlin/geohash"

	"github.com/kasinav/kasi-nav/internal/core/domain"
)

// GeohashPrecision is the cell size reported for each driver (about 150m).
const GeohashPrecision = 7

// DefaultDrivers is the demo fleet.
func DefaultDrivers() []domain.Driver {
	return []domain.Driver{
		{Name: "Thabo", Lat: -26.2406, Lng: 27.8647, Status: domain.DriverActive, Zone: "Soweto"},
		{Name: "Amahle", Lat: -33.9258, Lng: 18.4232, Status: domain.DriverAvailable, Zone: "Khayelitsha"},
		{Name: "Sipho", Lat: -26.2906, Lng: 27.8682, Status: domain.DriverIdle, Zone: "Soweto"},
	}
}

// DefaultZones is the demo network coverage.
func DefaultZones() []domain.Zone {
	return []domain.Zone{
		{Name: "Soweto", Drivers: 2, Customers: 5},
		{Name: "Khayelitsha", Drivers: 1, Customers: 3},
	}
}

// Fleet holds the current driver positions. Writes arrive as position
// updates; readers always get a copy.
type Fleet struct {
	mu      sync.RWMutex
	drivers []domain.Driver
	byName  map[string]int
	zones   []domain.Zone
}

func NewFleet(drivers []domain.Driver, zones []domain.Zone) *Fleet {
	f := &Fleet{
		drivers: make([]domain.Driver, 0, len(drivers)),
		byName:  make(map[string]int, len(drivers)),
		zones:   append([]domain.Zone(nil), zones...),
	}
	for _, d := range drivers {
		if _, dup := f.byName[d.Name]; dup {
			continue
		}
		d.Geohash = geohash.EncodeWithPrecision(d.Lat, d.Lng, GeohashPrecision)
		f.byName[d.Name] = len(f.drivers)
		f.drivers = append(f.drivers, d)
	}
	return f
}

// Drivers returns the drivers in zone, or every driver when zone is empty.
func (f *Fleet) Drivers(zone string) []domain.Driver {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.Driver, 0, len(f.drivers))
	for _, d := range f.drivers {
		if zone == "" || d.Zone == zone {
			out = append(out, d)
		}
	}
	return out
}

// Zones returns the coverage summary.
func (f *Fleet) Zones() []domain.Zone {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]domain.Zone(nil), f.zones...)
}

// Names lists every driver in fleet order.
func (f *Fleet) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, len(f.drivers))
	for i, d := range f.drivers {
		names[i] = d.Name
	}
	return names
}

// Apply moves a driver and refreshes its geohash cell.
func (f *Fleet) Apply(_ context.Context, u domain.PositionUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx, ok := f.byName[u.Driver]
	if !ok {
		return fmt.Errorf("unknown driver %q", u.Driver)
	}
	d := &f.drivers[idx]
	d.Lat += u.DLat
	d.Lng += u.DLng
	if u.Status != "" {
		d.Status = u.Status
	}
	d.Geohash = geohash.EncodeWithPrecision(d.Lat, d.Lng, GeohashPrecision)
	return nil
}
