package services

import (
	"context"
	"sync"
	"time"

	"github.com/fenilmodi00/ipo-dashboard-backend/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// CacheEntry represents a cached item with expiration
type CacheEntry struct {
	Data      []byte
	ExpiresAt time.Time
}

// IsExpired checks if the cache entry has expired
func (ce *CacheEntry) IsExpired() bool {
	return time.Now().After(ce.ExpiresAt)
}

// CacheService caches serialized payloads (sentiment responses, snapshot
// exports) with TTL. When a Redis address is configured and reachable at
// startup, writes go through to Redis as well and reads prefer it; the
// in-memory store remains the safety net on any Redis error, so callers
// never see cache failures.
type CacheService struct {
	cache       map[string]*CacheEntry
	mutex       sync.RWMutex
	defaultTTL  time.Duration
	maxSize     int
	redisClient *redis.Client

	hits      int64
	misses    int64
	evictions int64

	stopJanitor chan struct{}
	janitorOnce sync.Once
}

// NewCacheService creates a cache service. redisAddr may be empty to run
// memory-only; an unreachable Redis downgrades to memory with a warning
// rather than failing startup.
func NewCacheService(redisAddr string, defaultTTL time.Duration, maxSize int) *CacheService {
	cs := &CacheService{
		cache:       make(map[string]*CacheEntry),
		defaultTTL:  defaultTTL,
		maxSize:     maxSize,
		stopJanitor: make(chan struct{}),
	}

	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: "",
			DB:       0,
		})

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if _, err := client.Ping(pingCtx).Result(); err != nil {
			logrus.WithFields(logrus.Fields{
				"redis_addr": redisAddr,
				"error":      err.Error(),
			}).Warn("Redis unreachable, caching in memory only")
			_ = client.Close()
		} else {
			cs.redisClient = client
			logrus.WithField("redis_addr", redisAddr).Info("Cache backed by Redis")
		}
	}

	// Janitor sweeps expired entries from the memory store
	go cs.cleanupExpired()

	return cs
}

// Get retrieves a cached payload.
func (cs *CacheService) Get(ctx context.Context, key string) ([]byte, bool) {
	if cs.redisClient != nil {
		data, err := cs.redisClient.Get(ctx, key).Bytes()
		if err == nil {
			cs.recordHit()
			return data, true
		}
		if err != redis.Nil {
			logrus.WithFields(logrus.Fields{
				"key":   key,
				"error": err.Error(),
			}).Debug("Redis get failed, consulting memory store")
		} else {
			cs.recordMiss()
			return nil, false
		}
	}

	cs.mutex.RLock()
	entry, exists := cs.cache[key]
	cs.mutex.RUnlock()

	if !exists || entry.IsExpired() {
		cs.recordMiss()
		return nil, false
	}

	cs.recordHit()
	return entry.Data, true
}

// Set stores a payload with the default TTL.
func (cs *CacheService) Set(ctx context.Context, key string, value []byte) {
	cs.SetWithTTL(ctx, key, value, cs.defaultTTL)
}

// SetWithTTL stores a payload with a custom TTL. The memory store is always
// written; Redis writes are best-effort.
func (cs *CacheService) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) {
	cs.mutex.Lock()
	if _, exists := cs.cache[key]; !exists && len(cs.cache) >= cs.maxSize {
		cs.evictOldest()
	}
	cs.cache[key] = &CacheEntry{
		Data:      value,
		ExpiresAt: time.Now().Add(ttl),
	}
	cs.mutex.Unlock()

	if cs.redisClient != nil {
		if err := cs.redisClient.Set(ctx, key, value, ttl).Err(); err != nil {
			logrus.WithFields(logrus.Fields{
				"key":   key,
				"error": err.Error(),
			}).Debug("Redis set failed")
		}
	}
}

// evictOldest removes the entry closest to expiry. Callers hold the write lock.
func (cs *CacheService) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range cs.cache {
		if oldestKey == "" || entry.ExpiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.ExpiresAt
		}
	}

	if oldestKey != "" {
		delete(cs.cache, oldestKey)
		cs.evictions++
	}
}

// Delete removes one key from both stores.
func (cs *CacheService) Delete(ctx context.Context, key string) {
	cs.mutex.Lock()
	delete(cs.cache, key)
	cs.mutex.Unlock()

	if cs.redisClient != nil {
		if err := cs.redisClient.Del(ctx, key).Err(); err != nil {
			logrus.WithFields(logrus.Fields{
				"key":   key,
				"error": err.Error(),
			}).Debug("Redis delete failed")
		}
	}
}

// Clear empties the cache. Only keys this instance wrote are removed from
// Redis, so a shared database is not flushed wholesale.
func (cs *CacheService) Clear(ctx context.Context) {
	cs.mutex.Lock()
	keys := make([]string, 0, len(cs.cache))
	for key := range cs.cache {
		keys = append(keys, key)
	}
	cs.cache = make(map[string]*CacheEntry)
	cs.mutex.Unlock()

	if cs.redisClient != nil && len(keys) > 0 {
		if err := cs.redisClient.Del(ctx, keys...).Err(); err != nil {
			logrus.WithField("error", err.Error()).Debug("Redis clear failed")
		}
	}

	logrus.WithField("cleared_keys", len(keys)).Info("Cache cleared")
}

// Size returns the number of items in the memory store
func (cs *CacheService) Size() int {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	return len(cs.cache)
}

// GetStats reports cache utilization for the metrics surfaces.
func (cs *CacheService) GetStats() models.CacheStats {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	backend := "memory"
	if cs.redisClient != nil {
		backend = "redis"
	}

	return models.CacheStats{
		Backend:    backend,
		Entries:    len(cs.cache),
		Hits:       cs.hits,
		Misses:     cs.misses,
		Evictions:  cs.evictions,
		MaxEntries: cs.maxSize,
		DefaultTTL: cs.defaultTTL.String(),
	}
}

// Close stops the janitor and releases the Redis connection.
func (cs *CacheService) Close() {
	cs.janitorOnce.Do(func() {
		close(cs.stopJanitor)
	})

	if cs.redisClient != nil {
		if err := cs.redisClient.Close(); err != nil {
			logrus.WithField("error", err.Error()).Debug("Redis close failed")
		}
	}
}

func (cs *CacheService) recordHit() {
	cs.mutex.Lock()
	cs.hits++
	cs.mutex.Unlock()
}

func (cs *CacheService) recordMiss() {
	cs.mutex.Lock()
	cs.misses++
	cs.mutex.Unlock()
}

// cleanupExpired removes expired entries from the memory store until Close.
func (cs *CacheService) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-cs.stopJanitor:
			return
		case <-ticker.C:
			removed := 0
			cs.mutex.Lock()
			for key, entry := range cs.cache {
				if entry.IsExpired() {
					delete(cs.cache, key)
					removed++
				}
			}
			cs.mutex.Unlock()

			if removed > 0 {
				logrus.WithField("removed", removed).Debug("Cache janitor removed expired entries")
			}
		}
	}
}
