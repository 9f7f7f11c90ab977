package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryCache(t *testing.T, maxSize int) *CacheService {
	t.Helper()
	cache := NewCacheService("", 5*time.Minute, maxSize)
	t.Cleanup(cache.Close)
	return cache
}

func TestCacheRoundTrip(t *testing.T) {
	cache := newMemoryCache(t, 100)
	ctx := context.Background()

	_, found := cache.Get(ctx, "dashboard:market_sentiment")
	assert.False(t, found)

	cache.Set(ctx, "dashboard:market_sentiment", []byte(`{"score":6.0}`))

	value, found := cache.Get(ctx, "dashboard:market_sentiment")
	require.True(t, found)
	assert.Equal(t, `{"score":6.0}`, string(value))

	cache.Delete(ctx, "dashboard:market_sentiment")
	_, found = cache.Get(ctx, "dashboard:market_sentiment")
	assert.False(t, found)
}

func TestCacheExpiredEntriesAreMisses(t *testing.T) {
	cache := newMemoryCache(t, 100)
	ctx := context.Background()

	cache.SetWithTTL(ctx, "short-lived", []byte("v"), 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	_, found := cache.Get(ctx, "short-lived")
	assert.False(t, found)
}

func TestCacheEvictsClosestToExpiryWhenFull(t *testing.T) {
	cache := newMemoryCache(t, 3)
	ctx := context.Background()

	cache.SetWithTTL(ctx, "a", []byte("a"), 1*time.Minute)
	cache.SetWithTTL(ctx, "b", []byte("b"), 2*time.Minute)
	cache.SetWithTTL(ctx, "c", []byte("c"), 3*time.Minute)
	cache.SetWithTTL(ctx, "d", []byte("d"), 4*time.Minute)

	assert.Equal(t, 3, cache.Size())
	_, found := cache.Get(ctx, "a")
	assert.False(t, found)
	for _, key := range []string{"b", "c", "d"} {
		_, surviving := cache.Get(ctx, key)
		assert.True(t, surviving, "key %s should have survived eviction", key)
	}

	assert.Equal(t, int64(1), cache.GetStats().Evictions)
}

func TestCacheOverwriteDoesNotEvict(t *testing.T) {
	cache := newMemoryCache(t, 2)
	ctx := context.Background()

	cache.Set(ctx, "a", []byte("1"))
	cache.Set(ctx, "b", []byte("2"))
	cache.Set(ctx, "a", []byte("3"))

	assert.Equal(t, 2, cache.Size())
	value, found := cache.Get(ctx, "a")
	require.True(t, found)
	assert.Equal(t, "3", string(value))

	assert.Equal(t, int64(0), cache.GetStats().Evictions)
}

func TestCacheClearEmptiesStore(t *testing.T) {
	cache := newMemoryCache(t, 100)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		cache.Set(ctx, fmt.Sprintf("key-%d", i), []byte("v"))
	}
	require.Equal(t, 5, cache.Size())

	cache.Clear(ctx)
	assert.Equal(t, 0, cache.Size())
}

func TestCacheStatsTrackHitsAndMisses(t *testing.T) {
	cache := newMemoryCache(t, 100)
	ctx := context.Background()

	cache.Set(ctx, "a", []byte("1"))
	cache.Get(ctx, "a")
	cache.Get(ctx, "a")
	cache.Get(ctx, "missing")

	stats := cache.GetStats()
	assert.Equal(t, "memory", stats.Backend)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 100, stats.MaxEntries)
	assert.Equal(t, "5m0s", stats.DefaultTTL)
}
