package jobs

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/fenilmodi00/ipo-dashboard-backend/models"
	"github.com/fenilmodi00/ipo-dashboard-backend/services"
	"github.com/fenilmodi00/ipo-dashboard-backend/shared"
	"github.com/sirupsen/logrus"
)

// snapshotCacheKey is where each completed refresh is persisted so a restart
// can warm-start from the last known record set instead of an empty store.
const (
	snapshotCacheKey = "dashboard:snapshot"
	snapshotCacheTTL = 24 * time.Hour
)

// SnapshotPoller keeps the dashboard snapshot fresh: an immediate refresh at
// startup, then one per interval. A refresh still in flight makes the next
// tick a no-op instead of queueing, and a spacing limiter keeps a manual
// refresh colliding with a tick from double-hitting the backend.
type SnapshotPoller struct {
	gatewayService    *services.GatewayService
	normalizerService *services.NormalizerService
	snapshotService   *services.SnapshotService
	cacheService      *services.CacheService
	fetchLimiter      *shared.FetchSpacingLimiter
	serviceMetrics    *shared.ServiceMetrics
	interval          time.Duration
	logger            *logrus.Logger
	inFlight          atomic.Bool
}

// NewSnapshotPoller creates a new snapshot poller. cacheService may be nil
// when snapshot persistence is not wanted.
func NewSnapshotPoller(
	gatewayService *services.GatewayService,
	normalizerService *services.NormalizerService,
	snapshotService *services.SnapshotService,
	cacheService *services.CacheService,
	interval time.Duration,
	minFetchSpacing time.Duration,
) *SnapshotPoller {
	return &SnapshotPoller{
		gatewayService:    gatewayService,
		normalizerService: normalizerService,
		snapshotService:   snapshotService,
		cacheService:      cacheService,
		fetchLimiter:      shared.NewFetchSpacingLimiter(minFetchSpacing),
		serviceMetrics:    shared.NewServiceMetrics("Snapshot_Poller"),
		interval:          interval,
		logger:            logrus.New(),
	}
}

// WarmStart restores the last persisted snapshot from the cache, covering
// the window before the first refresh completes and boots where the backend
// is already down. Returns whether a snapshot was restored.
func (p *SnapshotPoller) WarmStart(ctx context.Context) bool {
	if p.cacheService == nil {
		return false
	}

	body, found := p.cacheService.Get(ctx, snapshotCacheKey)
	if !found {
		return false
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		p.logger.WithError(err).Warn("Persisted snapshot is not valid JSON, ignoring")
		return false
	}
	if len(snapshot.Records) == 0 {
		return false
	}

	p.snapshotService.Restore(snapshot)
	p.serviceMetrics.IncrementCustomCounter("warm_starts")
	return true
}

// Start launches the polling loop. It refreshes once immediately, then on
// every tick until ctx is cancelled.
func (p *SnapshotPoller) Start(ctx context.Context) {
	p.logger.WithField("interval", p.interval).Info("Starting snapshot poller")

	go func() {
		p.RunOnce(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("Snapshot poller stopped")
				return
			case <-ticker.C:
				p.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce executes one refresh unless one is already in flight. Returns
// whether the refresh ran and, when it ran, its error.
func (p *SnapshotPoller) RunOnce(ctx context.Context) (bool, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.serviceMetrics.IncrementCustomCounter("skipped_ticks")
		p.logger.Warn("Snapshot refresh already running, skipping")
		return false, nil
	}
	defer p.inFlight.Store(false)

	return true, p.refresh(ctx)
}

// IsRunning reports whether a refresh is currently in flight
func (p *SnapshotPoller) IsRunning() bool {
	return p.inFlight.Load()
}

// GetServiceMetrics returns the poller's metrics
func (p *SnapshotPoller) GetServiceMetrics() *shared.ServiceMetrics {
	return p.serviceMetrics
}

func (p *SnapshotPoller) refresh(ctx context.Context) error {
	startTime := time.Now()

	p.fetchLimiter.EnforceSpacing()

	rawRecords, source, err := p.gatewayService.FetchIPOData(ctx)
	if err != nil {
		// Keep serving the previous snapshot rather than swapping in nothing
		p.serviceMetrics.RecordRequest(false, time.Since(startTime))
		p.logger.WithError(err).Error("Snapshot refresh failed, keeping previous snapshot")
		return err
	}

	records := p.normalizerService.NormalizeRecords(rawRecords)
	p.snapshotService.Update(records, source)
	p.persistSnapshot(ctx)

	processingTime := time.Since(startTime)
	p.serviceMetrics.RecordRequest(true, processingTime)
	p.serviceMetrics.SetCustomMetric("last_refresh_source", string(source))

	p.logger.WithFields(logrus.Fields{
		"records":         len(records),
		"source":          source,
		"processing_time": processingTime,
	}).Info("Snapshot refresh completed")

	return nil
}

func (p *SnapshotPoller) persistSnapshot(ctx context.Context) {
	if p.cacheService == nil {
		return
	}

	body, err := json.Marshal(p.snapshotService.Current())
	if err != nil {
		p.logger.WithError(err).Warn("Failed to serialize snapshot for cache")
		return
	}
	p.cacheService.SetWithTTL(ctx, snapshotCacheKey, body, snapshotCacheTTL)
}
