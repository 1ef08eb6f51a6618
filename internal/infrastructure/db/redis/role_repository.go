package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/core/ports"
)

// RoleRepository stores each caller's role as a plain string under
// "kasi_nav_role:<caller>". The keys never expire.
type RoleRepository struct {
	client *redis.Client
}

func NewRoleRepository(client *redis.Client) *RoleRepository {
	return &RoleRepository{client: client}
}

// Get returns nil when no role has been chosen.
func (r *RoleRepository) Get(ctx context.Context, caller string) (*domain.Role, error) {
	v, err := r.client.Get(ctx, ports.RoleKeyFor(caller)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	role := domain.Role(v)
	return &role, nil
}

func (r *RoleRepository) Set(ctx context.Context, caller string, role domain.Role) error {
	if err := r.client.Set(ctx, ports.RoleKeyFor(caller), string(role), 0).Err(); err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}

func (r *RoleRepository) Clear(ctx context.Context, caller string) error {
	if err := r.client.Del(ctx, ports.RoleKeyFor(caller)).Err(); err != nil {
		return fmt.Errorf("clear role: %w", err)
	}
	return nil
}
