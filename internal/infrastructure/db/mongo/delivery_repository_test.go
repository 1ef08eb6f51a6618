package mongo

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/core/ports"
)

func TestDeliveriesDoc_BSONRoundTrip(t *testing.T) {
	deliveries := []domain.Delivery{
		{
			ID: "d1", Title: "Delivery to Blue Container", From: "Ma-Zulu's Spaza", To: "Blue Container",
			Status: domain.StatusAccepted, Fee: 25, LandmarkDescription: "behind the blue container",
			CourierID: "thabo", PickupCoords: domain.Point{X: 450, Y: 300},
			DropoffCoords: domain.Point{X: 212.5, Y: 487.25},
			CreatedAt:     time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		},
		{ID: "d2", Title: "Groceries for Gogo", Status: domain.StatusPending, Fee: 25,
			CreatedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)},
	}
	want := deliveriesDoc{
		Key:        ports.DeliveriesKey,
		Deliveries: deliveries,
		UpdatedAt:  time.Date(2026, 3, 14, 10, 5, 0, 0, time.UTC),
	}

	raw, err := bson.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got deliveriesDoc
	if err := bson.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", got, want)
	}
	if got.UpdatedAt.Location() != time.UTC || got.Deliveries[0].CreatedAt.Location() != time.UTC {
		t.Fatal("times must come back in UTC")
	}
}

func TestDeliveriesDoc_KeyIsID(t *testing.T) {
	raw, err := bson.Marshal(deliveriesDoc{Key: ports.DeliveriesKey})
	if err != nil {
		t.Fatal(err)
	}
	if id := bson.Raw(raw).Lookup("_id").StringValue(); id != ports.DeliveriesKey {
		t.Fatalf("unexpected _id %q", id)
	}
}

func TestDeliveryRepository_NewDoc(t *testing.T) {
	johannesburg := time.FixedZone("SAST", 2*60*60)
	r := &DeliveryRepository{now: func() time.Time {
		return time.Date(2026, 3, 14, 11, 30, 0, 0, johannesburg)
	}}

	doc := r.newDoc(nil)

	if doc.Deliveries == nil || len(doc.Deliveries) != 0 {
		t.Fatalf("nil list must be stored as empty, got %#v", doc.Deliveries)
	}
	if doc.Key != ports.DeliveriesKey {
		t.Fatalf("unexpected key %q", doc.Key)
	}
	if want := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC); !doc.UpdatedAt.Equal(want) || doc.UpdatedAt.Location() != time.UTC {
		t.Fatalf("expected %v in UTC, got %v", want, doc.UpdatedAt)
	}
}
