package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventease-api/internal/models"
	"github.com/eventease-api/internal/service"
)

func TestStats_ServedFromCacheUntilTTL(t *testing.T) {
	f := newFixture(t)
	staff := f.addUser("staff@example.com", "Stef", models.RoleStaff)
	f.addEvent(staff, "Future", time.Hour)
	f.addEvent(staff, "Past", -time.Hour)
	ctx := context.Background()

	first, err := f.svc.Stats.Get(ctx, sessionFor(staff))
	require.NoError(t, err)
	assert.Equal(t, 2, first.TotalEvents)
	assert.Equal(t, 1, first.TotalUsers)
	assert.Equal(t, 0, first.TotalRSVPs)
	assert.Equal(t, 1, first.ActiveEvents)
	assert.Equal(t, baseTime, first.LastUpdated)
	calls := f.store.CountCalls

	f.addEvent(staff, "Another", 2*time.Hour)
	f.now = f.now.Add(4 * time.Minute)

	cached, err := f.svc.Stats.Get(ctx, sessionFor(staff))
	require.NoError(t, err)
	assert.Equal(t, 2, cached.TotalEvents)
	assert.Equal(t, calls, f.store.CountCalls)

	f.now = f.now.Add(time.Minute)
	fresh, err := f.svc.Stats.Get(ctx, sessionFor(staff))
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.TotalEvents)
	assert.Greater(t, f.store.CountCalls, calls)
}

func TestStats_Reset(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser("admin@example.com", "Ada", models.RoleAdmin)
	ctx := context.Background()

	_, err := f.svc.Stats.Get(ctx, sessionFor(admin))
	require.NoError(t, err)
	f.addUser("new@example.com", "Nia", models.RoleAttendee)

	require.NoError(t, f.svc.Stats.Reset(ctx))
	stats, err := f.svc.Stats.Get(ctx, sessionFor(admin))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalUsers)
}

func TestStats_RequiresStaff(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner@example.com", "Olive", models.RoleEventOwner)

	_, err := f.svc.Stats.Get(context.Background(), sessionFor(owner))
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.svc.Stats.Get(context.Background(), nil)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}
