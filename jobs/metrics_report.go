package jobs

import (
	"context"
	"time"

	"github.com/fenilmodi00/ipo-dashboard-backend/services"
	"github.com/sirupsen/logrus"
)

// MetricsReportJob periodically writes a metrics digest to the log so
// operators can see proxy health without hitting the admin endpoint.
type MetricsReportJob struct {
	GatewayService  *services.GatewayService
	SnapshotService *services.SnapshotService
	CacheService    *services.CacheService
}

func NewMetricsReportJob(
	gatewayService *services.GatewayService,
	snapshotService *services.SnapshotService,
	cacheService *services.CacheService,
) *MetricsReportJob {
	return &MetricsReportJob{
		GatewayService:  gatewayService,
		SnapshotService: snapshotService,
		CacheService:    cacheService,
	}
}

// Run logs one digest.
func (j *MetricsReportJob) Run() {
	j.GatewayService.LogMetricsSummary()

	cacheStats := j.CacheService.GetStats()
	logrus.WithFields(logrus.Fields{
		"snapshot_records": j.SnapshotService.Count(),
		"snapshot_age":     j.SnapshotService.Age().Round(time.Second).String(),
		"cache_backend":    cacheStats.Backend,
		"cache_entries":    cacheStats.Entries,
		"cache_hits":       cacheStats.Hits,
		"cache_misses":     cacheStats.Misses,
	}).Info("Metrics report")
}

// StartPeriodicReports logs a digest per interval until ctx is cancelled.
func (j *MetricsReportJob) StartPeriodicReports(ctx context.Context, interval time.Duration) {
	logrus.WithField("interval", interval).Info("Starting periodic metrics reports")

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.Run()
			}
		}
	}()
}
