package domain

import "time"

// IncidentType is the kind of hazard reported.
type IncidentType string

const (
	IncidentProtest   IncidentType = "protest"
	IncidentRoadblock IncidentType = "roadblock"
	IncidentAccident  IncidentType = "accident"
	IncidentHighRisk  IncidentType = "high-risk"
)

// Severity grades an incident.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Incident is a reported safety hazard. Incidents are write-once.
type Incident struct {
	ID          string       `json:"id" yaml:"id"`
	Type        IncidentType `json:"type" yaml:"type"`
	Severity    Severity     `json:"severity" yaml:"severity"`
	Description string       `json:"description" yaml:"description"`
	Location    Point        `json:"location" yaml:"location"`
	Timestamp   time.Time    `json:"timestamp" yaml:"timestamp"`
}

// Age returns how long ago the incident was reported.
func (i Incident) Age(now time.Time) time.Duration {
	return now.Sub(i.Timestamp)
}

// IsFresh reports whether the incident is younger than maxAge.
// A non-positive maxAge keeps every incident.
func (i Incident) IsFresh(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return true
	}
	return i.Age(now) <= maxAge
}
