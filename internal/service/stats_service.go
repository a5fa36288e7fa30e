package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eventease-api/internal/auth"
	"github.com/eventease-api/internal/cache"
	"github.com/eventease-api/internal/models"
	"github.com/eventease-api/internal/repository"
	"github.com/rs/zerolog"
)

const statsCacheKey = "dashboard:stats"

// statsService is the concrete implementation of StatsService
type statsService struct {
	repos *repository.Repositories
	store cache.Store
	ttl   time.Duration
	now   func() time.Time
	log   zerolog.Logger
}

// newStatsService creates a new StatsService
func newStatsService(repos *repository.Repositories, store cache.Store, ttl time.Duration, now func() time.Time, log zerolog.Logger) *statsService {
	if store == nil {
		store = cache.NewMemoryStoreWithClock(now)
	}
	return &statsService{
		repos: repos,
		store: store,
		ttl:   ttl,
		now:   now,
		log:   log.With().Str("service", "stats").Logger(),
	}
}

// Get returns dashboard totals for staff and administrators. A stored
// snapshot is served while fresh; writes do not invalidate it.
func (s *statsService) Get(ctx context.Context, session *auth.Session) (*models.DashboardStats, error) {
	user, err := sessionUser(ctx, s.repos.User, session)
	if err != nil {
		return nil, err
	}
	if !user.Role.AtLeast(models.RoleStaff) {
		return nil, ErrForbidden
	}

	if b, ok, err := s.store.Get(ctx, statsCacheKey); err != nil {
		s.log.Warn().Err(err).Msg("Stats cache read failed")
	} else if ok {
		var stats models.DashboardStats
		if err := json.Unmarshal(b, &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(stats); err == nil {
		if err := s.store.Set(ctx, statsCacheKey, b, s.ttl); err != nil {
			s.log.Warn().Err(err).Msg("Stats cache write failed")
		}
	}
	return stats, nil
}

// Reset drops the stored snapshot
func (s *statsService) Reset(ctx context.Context) error {
	return s.store.Reset(ctx)
}

func (s *statsService) compute(ctx context.Context) (*models.DashboardStats, error) {
	now := s.now()

	events, err := s.repos.Event.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	users, err := s.repos.User.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	rsvps, err := s.repos.RSVP.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count rsvps: %w", err)
	}
	active, err := s.repos.Event.CountUpcoming(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("count upcoming events: %w", err)
	}

	return &models.DashboardStats{
		TotalEvents:  events,
		TotalUsers:   users,
		TotalRSVPs:   rsvps,
		ActiveEvents: active,
		LastUpdated:  now.UTC(),
	}, nil
}
