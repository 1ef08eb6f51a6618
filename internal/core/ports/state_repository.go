package ports

import (
	"context"

	"github.com/kasinav/kasi-nav/internal/core/domain"
)

// Storage keys used by every state backend.
const (
	DeliveriesKey = "kasi_nav_deliveries"
	RoleKey       = "kasi_nav_role"
)

// DeliveryRepository persists the whole ordered delivery list as one value.
type DeliveryRepository interface {
	// Load returns domain.ErrStateNotFound when nothing has been saved yet.
	Load(ctx context.Context) ([]domain.Delivery, error)
	// Save overwrites the stored list.
	Save(ctx context.Context, deliveries []domain.Delivery) error
}

// RoleRepository persists the role each caller has chosen. A caller is the
// identity set by service.WithCaller ("user:<id>", "device:<id>", ...).
type RoleRepository interface {
	// Get returns nil without error when the caller has no role stored.
	Get(ctx context.Context, caller string) (*domain.Role, error)
	Set(ctx context.Context, caller string, role domain.Role) error
	Clear(ctx context.Context, caller string) error
}

// RoleKeyFor is the per-caller key for backends that store one value per key.
func RoleKeyFor(caller string) string {
	return RoleKey + ":" + caller
}
