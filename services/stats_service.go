package services

import (
	"math"
	"strings"
	"time"

	"github.com/fenilmodi00/ipo-dashboard-backend/models"
	"github.com/fenilmodi00/ipo-dashboard-backend/shared"
)

// StatsService computes the dashboard summary strip from a record list.
type StatsService struct {
	serviceMetrics *shared.ServiceMetrics
}

// NewStatsService creates a new stats service instance
func NewStatsService() *StatsService {
	return &StatsService{
		serviceMetrics: shared.NewServiceMetrics("Stats_Service"),
	}
}

// CalculateStats aggregates counts and the average premium over the given
// records. An empty list yields all zeros.
func (s *StatsService) CalculateStats(records []models.IPORecord) models.DashboardStats {
	startTime := time.Now()

	stats := models.DashboardStats{
		Total: len(records),
	}

	if len(records) == 0 {
		s.serviceMetrics.RecordRequest(true, time.Since(startTime))
		return stats
	}

	gmpSum := 0.0
	for _, record := range records {
		if strings.EqualFold(record.Status, models.StatusOpen) || strings.EqualFold(record.Status, models.StatusUpcoming) {
			stats.Active++
		}
		if record.IsProfitable {
			stats.Profitable++
		}
		gmpSum += record.CurrentGMP
	}

	// Round half up for display: a mean of 10.5 shows as 11
	stats.AvgGMP = int(math.Floor(gmpSum/float64(stats.Total) + 0.5))

	s.serviceMetrics.RecordRequest(true, time.Since(startTime))
	return stats
}

// GetServiceMetrics returns the current service metrics
func (s *StatsService) GetServiceMetrics() *shared.ServiceMetrics {
	return s.serviceMetrics
}
