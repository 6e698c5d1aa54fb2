package report

import (
	"context"
	"reports-api/schemas"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*FilterCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewFilterCache(rdb, ttl), mr
}

func TestFilterCache_RoundTrip(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	want := schemas.ReportFilters{
		Hierarchy:    map[string][]string{"A": {"a1"}},
		Countries:    []string{"Kenya"},
		Partnerships: []string{"FAO"},
	}
	require.NoError(t, cache.Set(ctx, want))
	assert.Equal(t, time.Minute, mr.TTL(FILTERS_CACHE_KEY))

	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, *got)
}

func TestFilterCache_ExpiresAndInvalidates(t *testing.T) {
	cache, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, SeedFilters()))
	mr.FastForward(31 * time.Second)
	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, SeedFilters()))
	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists(FILTERS_CACHE_KEY))
}

func TestFilterCache_CorruptEntry(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(FILTERS_CACHE_KEY, "{not json"))

	_, ok, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestFilterCache_NilIsAlwaysMiss(t *testing.T) {
	var cache *FilterCache
	ctx := context.Background()

	_, ok, err := cache.Get(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, cache.Set(ctx, SeedFilters()))
	assert.NoError(t, cache.Invalidate(ctx))
}

func TestNewFilterCache_DefaultTTL(t *testing.T) {
	cache := NewFilterCache(nil, 0)
	assert.Equal(t, DEFAULT_FILTERS_CACHE_TTL, cache.ttl)
}
