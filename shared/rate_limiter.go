package shared

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// FetchSpacingLimiter enforces a minimum gap between upstream record
// fetches, so a manual refresh landing next to a scheduled poll cannot
// double-hit the backend.
type FetchSpacingLimiter struct {
	minimumSpacing time.Duration // Minimum delay between fetches
	lastFetchTime  time.Time     // Timestamp of the last fetch; zero until the first one
	mutex          sync.Mutex    // Ensures thread-safe access
	fetchCount     int64         // Total number of fetches processed
}

// NewFetchSpacingLimiter creates a new limiter with the specified minimum
// spacing. The first fetch is never delayed.
func NewFetchSpacingLimiter(minimumSpacing time.Duration) *FetchSpacingLimiter {
	return &FetchSpacingLimiter{
		minimumSpacing: minimumSpacing,
	}
}

// EnforceSpacing blocks execution until the minimum spacing has elapsed
// since the last fetch.
func (limiter *FetchSpacingLimiter) EnforceSpacing() {
	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()

	if !limiter.lastFetchTime.IsZero() {
		elapsedTime := time.Since(limiter.lastFetchTime)
		if elapsedTime < limiter.minimumSpacing {
			remainingDelay := limiter.minimumSpacing - elapsedTime

			logrus.WithFields(logrus.Fields{
				"component":       "FetchSpacingLimiter",
				"elapsed_time":    elapsedTime,
				"minimum_spacing": limiter.minimumSpacing,
				"remaining_delay": remainingDelay,
				"fetch_count":     limiter.fetchCount + 1,
			}).Debug("Enforcing fetch spacing delay")

			time.Sleep(remainingDelay)
		}
	}

	limiter.lastFetchTime = time.Now()
	limiter.fetchCount++
}

// GetFetchCount returns the total number of fetches processed
func (limiter *FetchSpacingLimiter) GetFetchCount() int64 {
	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()
	return limiter.fetchCount
}

// GetLastFetchTime returns the timestamp of the last fetch
func (limiter *FetchSpacingLimiter) GetLastFetchTime() time.Time {
	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()
	return limiter.lastFetchTime
}
