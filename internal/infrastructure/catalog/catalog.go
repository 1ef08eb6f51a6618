// Package catalog provides the landmark and incident data the registry is
// seeded with: a built-in township sample or a YAML file.
package catalog

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kasinav/kasi-nav/internal/core/domain"
)

// Catalog is the seed data for the landmark registry.
type Catalog struct {
	Landmarks []domain.Landmark `yaml:"landmarks"`
	Incidents []domain.Incident `yaml:"incidents"`
}

// Default returns the built-in sample township. Incident timestamps are
// relative to now.
func Default(now time.Time) Catalog {
	return Catalog{
		Landmarks: []domain.Landmark{
			{
				ID:          "l1",
				Name:        "Ma-Zulu's Spaza",
				Description: "The big yellow building with the green roof near the main rank.",
				Category:    domain.CategorySpaza,
				Coordinates: domain.Point{X: 450, Y: 300},
				Shop:        &domain.ShopDetails{Owner: "Zoleka Zulu", IsHub: true, ActiveDeliveries: 4},
			},
			{
				ID:          "l2",
				Name:        "Green Taxi Rank",
				Description: "Primary transport hub for Section B.",
				Category:    domain.CategoryTransport,
				Coordinates: domain.Point{X: 200, Y: 500},
			},
			{
				ID:          "l3",
				Name:        "The Blue House",
				Description: "Behind the spaza shop, has a satellite dish and red gate.",
				Category:    domain.CategoryHouse,
				Coordinates: domain.Point{X: 480, Y: 280},
			},
			{
				ID:          "l4",
				Name:        "Corner Shop Hub",
				Description: "Collection point for Amazon & Takealot parcels.",
				Category:    domain.CategorySpaza,
				Coordinates: domain.Point{X: 700, Y: 650},
				Shop:        &domain.ShopDetails{Owner: "Peter Moyo", IsHub: true, ActiveDeliveries: 12},
			},
		},
		Incidents: []domain.Incident{
			{
				ID:          "i1",
				Type:        domain.IncidentProtest,
				Severity:    domain.SeverityHigh,
				Description: "Service delivery protest at the main entrance.",
				Location:    domain.Point{X: 100, Y: 100},
				Timestamp:   now,
			},
			{
				ID:          "i2",
				Type:        domain.IncidentHighRisk,
				Severity:    domain.SeverityMedium,
				Description: "High incident report near the sports ground.",
				Location:    domain.Point{X: 800, Y: 200},
				Timestamp:   now.Add(-time.Hour),
			},
		},
	}
}

// LoadFile reads a YAML catalog. Incidents without a timestamp are stamped
// with now.
func LoadFile(path string, now time.Time) (Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(b, now)
}

// Parse decodes a YAML catalog, rejecting unknown fields and invalid entries.
func Parse(b []byte, now time.Time) (Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	for i := range c.Landmarks {
		l := &c.Landmarks[i]
		if l.ID == "" || l.Name == "" {
			return Catalog{}, fmt.Errorf("catalog landmark %d: id and name are required", i)
		}
		if !l.Category.Valid() {
			return Catalog{}, fmt.Errorf("catalog landmark %q: unknown category %q", l.ID, l.Category)
		}
	}
	for i := range c.Incidents {
		inc := &c.Incidents[i]
		if inc.ID == "" {
			return Catalog{}, fmt.Errorf("catalog incident %d: id is required", i)
		}
		if inc.Timestamp.IsZero() {
			inc.Timestamp = now
		}
	}
	return c, nil
}
