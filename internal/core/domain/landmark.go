package domain

import "strings"

// Category classifies a landmark.
type Category string

const (
	CategorySpaza     Category = "spaza"
	CategoryTransport Category = "transport"
	CategoryHouse     Category = "house"
	CategoryOther     Category = "other"
)

// Categories lists every category in declaration order.
var Categories = []Category{CategorySpaza, CategoryTransport, CategoryHouse, CategoryOther}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory normalises s and maps anything unknown to CategoryOther.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// LandmarkKind tags the variant a Landmark carries.
type LandmarkKind string

const (
	KindLandmark LandmarkKind = "landmark"
	KindSpaza    LandmarkKind = "spaza"
)

// ShopDetails is the payload carried by spaza shop landmarks.
type ShopDetails struct {
	Owner            string   `json:"owner" yaml:"owner"`
	IsHub            bool     `json:"is_hub" yaml:"is_hub"`
	ActiveDeliveries int      `json:"active_deliveries" yaml:"active_deliveries"`
	Inventory        []string `json:"inventory,omitempty" yaml:"inventory"`
}

// Landmark is a named point of interest used in place of a street address.
// Only IsVerified may change after creation.
type Landmark struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Category    Category     `json:"category" yaml:"category"`
	Coordinates Point        `json:"coordinates" yaml:"coordinates"`
	Image       string       `json:"image,omitempty" yaml:"image"`
	IsVerified  bool         `json:"is_verified" yaml:"is_verified"`
	Shop        *ShopDetails `json:"shop,omitempty" yaml:"shop"`
}

// Kind reports whether the landmark carries shop details.
func (l Landmark) Kind() LandmarkKind {
	if l.Shop != nil {
		return KindSpaza
	}
	return KindLandmark
}

// IsHub reports whether the landmark is a collection/drop-off point.
func (l Landmark) IsHub() bool {
	return l.Shop != nil && l.Shop.IsHub
}

// ParsedLandmark is the structured reading of a free-text address
// description. Field names follow the completion service's response schema.
type ParsedLandmark struct {
	MainLandmark      string   `json:"mainLandmark"`
	SpatialRelation   string   `json:"spatialRelation"`
	VisualMarkers     []string `json:"visualMarkers"`
	SuggestedCategory Category `json:"suggestedCategory"`
	Confidence        float64  `json:"confidence"`
}

// Describe renders the parsed reading back into a short dropoff description,
// e.g. "behind Ma-Zulu's Spaza (green gate, satellite dish)".
func (p ParsedLandmark) Describe() string {
	var b strings.Builder
	if rel := strings.TrimSpace(p.SpatialRelation); rel != "" {
		b.WriteString(rel)
		b.WriteByte(' ')
	}
	b.WriteString(strings.TrimSpace(p.MainLandmark))

	markers := make([]string, 0, len(p.VisualMarkers))
	for _, m := range p.VisualMarkers {
		if m = strings.TrimSpace(m); m != "" {
			markers = append(markers, m)
		}
	}
	if len(markers) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(markers, ", "))
		b.WriteByte(')')
	}
	return strings.TrimSpace(b.String())
}
