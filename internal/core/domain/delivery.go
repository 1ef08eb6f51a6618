package domain

import "time"

// DeliveryStatus represents the lifecycle state of a delivery.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "pending"
	StatusAccepted  DeliveryStatus = "accepted"
	StatusInTransit DeliveryStatus = "in-transit"
	StatusDelivered DeliveryStatus = "delivered"
)

// DefaultFee is charged for every new delivery, in rand.
const DefaultFee = 25.0

// validTransitions defines the forward-only lifecycle.
var validTransitions = map[DeliveryStatus]DeliveryStatus{
	StatusPending:   StatusAccepted,
	StatusAccepted:  StatusInTransit,
	StatusInTransit: StatusDelivered,
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	allowed, ok := validTransitions[s]
	return ok && allowed == next
}

// ParseDeliveryStatus returns the status named by s.
func ParseDeliveryStatus(s string) (DeliveryStatus, bool) {
	switch st := DeliveryStatus(s); st {
	case StatusPending, StatusAccepted, StatusInTransit, StatusDelivered:
		return st, true
	}
	return "", false
}

// Delivery is a requested courier job between a pickup and a
// landmark-described dropoff.
type Delivery struct {
	ID                  string         `json:"id" bson:"id"`
	Title               string         `json:"title" bson:"title"`
	From                string         `json:"from" bson:"from"`
	To                  string         `json:"to" bson:"to"`
	Status              DeliveryStatus `json:"status" bson:"status"`
	Fee                 float64        `json:"fee" bson:"fee"`
	LandmarkDescription string         `json:"landmark_description" bson:"landmark_description"`
	CourierID           string         `json:"courier_id,omitempty" bson:"courier_id,omitempty"`
	PickupCoords        Point          `json:"pickup_coords" bson:"pickup_coords"`
	DropoffCoords       Point          `json:"dropoff_coords" bson:"dropoff_coords"`
	EvidenceImage       string         `json:"evidence_image,omitempty" bson:"evidence_image,omitempty"`
	CreatedAt           time.Time      `json:"created_at" bson:"created_at"`
}
