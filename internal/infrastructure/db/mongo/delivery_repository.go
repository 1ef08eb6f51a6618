package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/core/ports"
)

const collectionAppState = "app_state"

// deliveriesDoc stores the whole ordered list under a single key, the same
// shape every state backend uses.
type deliveriesDoc struct {
	Key        string            `bson:"_id"`
	Deliveries []domain.Delivery `bson:"deliveries"`
	UpdatedAt  time.Time         `bson:"updated_at"`
}

// DeliveryRepository keeps the delivery list in the app_state collection.
type DeliveryRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewDeliveryRepository(db *mongo.Database) *DeliveryRepository {
	return &DeliveryRepository{col: db.Collection(collectionAppState), now: time.Now}
}

// Load returns the stored list, or domain.ErrStateNotFound.
func (r *DeliveryRepository) Load(ctx context.Context) ([]domain.Delivery, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc deliveriesDoc
	err := r.col.FindOne(ctx, bson.M{"_id": ports.DeliveriesKey}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("load deliveries: %w", err)
	}
	if doc.Deliveries == nil {
		doc.Deliveries = []domain.Delivery{}
	}
	return doc.Deliveries, nil
}

// Save replaces the stored list.
func (r *DeliveryRepository) Save(ctx context.Context, deliveries []domain.Delivery) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := r.newDoc(deliveries)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": ports.DeliveriesKey}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save deliveries: %w", err)
	}
	return nil
}

func (r *DeliveryRepository) newDoc(deliveries []domain.Delivery) deliveriesDoc {
	if deliveries == nil {
		deliveries = []domain.Delivery{}
	}
	return deliveriesDoc{
		Key:        ports.DeliveriesKey,
		Deliveries: deliveries,
		UpdatedAt:  r.now().UTC(),
	}
}
