package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kasinav/kasi-nav/internal/api/metrics"
	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/core/ports"
)

// SessionService holds the role that selects each caller's dashboard. The
// caller comes from the context (see WithCaller).
//
//	nil --Choose--> CONSUMER | COURIER | BUSINESS
//	any --SignOut--> nil
type SessionService struct {
	mu     sync.Mutex
	repo   ports.RoleRepository
	roles  map[string]*domain.Role // nil value: loaded, no role
	logger zerolog.Logger
}

func NewSessionService(repo ports.RoleRepository, logger zerolog.Logger) *SessionService {
	return &SessionService{repo: repo, roles: make(map[string]*domain.Role), logger: logger}
}

// Current returns the caller's role, or nil when none is chosen. The stored
// role is read on first use; unreadable or unknown values leave the caller
// on onboarding.
func (s *SessionService) Current(ctx context.Context) *domain.Role {
	caller := CallerFromContext(ctx)

	s.mu.Lock()
	role, ok := s.roles[caller]
	s.mu.Unlock()
	if !ok {
		role = s.restore(ctx, caller)
	}
	if role == nil {
		return nil
	}
	r := *role
	return &r
}

func (s *SessionService) restore(ctx context.Context, caller string) *domain.Role {
	log := s.logger.With().Str("caller", caller).Logger()

	role, err := s.repo.Get(ctx, caller)
	if err != nil {
		log.Warn().Err(err).Msg("stored role unreadable, starting at onboarding")
		role = nil
	}
	if role != nil {
		if parsed, perr := domain.ParseRole(string(*role)); perr != nil {
			log.Warn().Err(perr).Msg("stored role unknown, starting at onboarding")
			role = nil
		} else {
			role = &parsed
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// a Choose or SignOut that raced the read wins
	if cur, ok := s.roles[caller]; ok {
		return cur
	}
	s.roles[caller] = role
	return role
}

// Dashboard returns the layout for the caller's role.
func (s *SessionService) Dashboard(ctx context.Context) domain.Dashboard {
	return domain.DashboardFor(s.Current(ctx))
}

// Choose sets and persists the role the caller picked on onboarding.
func (s *SessionService) Choose(ctx context.Context, role domain.Role) (domain.Dashboard, error) {
	if !role.Selectable() {
		return "", fmt.Errorf("choose role: %w: %s", domain.ErrInvalidRole, role)
	}
	caller := CallerFromContext(ctx)

	s.mu.Lock()
	s.roles[caller] = &role
	s.mu.Unlock()

	if err := s.repo.Set(ctx, caller, role); err != nil {
		metrics.StateWriteErrorsTotal.WithLabelValues(ports.RoleKey).Inc()
		s.logger.Error().Err(err).Str("caller", caller).Msg("failed to persist role")
	}
	s.logger.Info().Str("caller", caller).Str("role", string(role)).Msg("role chosen")
	return domain.DashboardFor(&role), nil
}

// SignOut clears the caller's role, in memory and in storage.
func (s *SessionService) SignOut(ctx context.Context) {
	caller := CallerFromContext(ctx)

	s.mu.Lock()
	s.roles[caller] = nil
	s.mu.Unlock()

	if err := s.repo.Clear(ctx, caller); err != nil {
		metrics.StateWriteErrorsTotal.WithLabelValues(ports.RoleKey).Inc()
		s.logger.Error().Err(err).Str("caller", caller).Msg("failed to clear role")
	}
	s.logger.Info().Str("caller", caller).Msg("role cleared")
}
