package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ServesUntilExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	s := NewMemoryStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "stats")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "stats", []byte("v1"), 5*time.Minute))

	now = now.Add(4*time.Minute + 59*time.Second)
	v, ok, err := s.Get(ctx, "stats")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), v)

	now = now.Add(time.Second)
	_, ok, _ = s.Get(ctx, "stats")
	assert.False(t, ok)
}

func TestMemoryStore_Reset(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, s.Reset(ctx))

	_, ok, _ := s.Get(ctx, "a")
	assert.False(t, ok)
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb, "eventease:cache:"), mr
}

func TestRedisStore_GetSetExpire(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "stats")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "stats", []byte(`{"totalEvents":1}`), 5*time.Minute))
	assert.True(t, mr.Exists("eventease:cache:stats"))

	v, ok, err := s.Get(ctx, "stats")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"totalEvents":1}`, string(v))

	mr.FastForward(5 * time.Minute)
	_, ok, err = s.Get(ctx, "stats")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_ResetOnlyTouchesPrefix(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "stats", []byte("1"), time.Minute))
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, s.Reset(ctx))

	assert.False(t, mr.Exists("eventease:cache:stats"))
	assert.True(t, mr.Exists("other:key"))
}
