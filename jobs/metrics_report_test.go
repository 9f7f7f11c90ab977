package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/fenilmodi00/ipo-dashboard-backend/services"
)

func TestMetricsReportJobRunsWithIdleServices(t *testing.T) {
	gateway := services.NewGatewayService("http://127.0.0.1:9", time.Second, services.NewFallbackService(nil))
	snapshots := services.NewSnapshotService()
	cache := services.NewCacheService("", time.Minute, 10)
	defer cache.Close()

	job := NewMetricsReportJob(gateway, snapshots, cache)
	job.Run()

	ctx, cancel := context.WithCancel(context.Background())
	job.StartPeriodicReports(ctx, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	cancel()
}
