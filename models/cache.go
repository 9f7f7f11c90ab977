package models

// CacheStats reports cache health for the admin and metrics surfaces.
// Backend is "redis" when the Redis client is active, "memory" otherwise.
type CacheStats struct {
	Backend    string `json:"backend"`
	Entries    int    `json:"entries"`
	Hits       int64  `json:"hits"`
	Misses     int64  `json:"misses"`
	Evictions  int64  `json:"evictions"`
	MaxEntries int    `json:"max_entries"`
	DefaultTTL string `json:"default_ttl"`
}
