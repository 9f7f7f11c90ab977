package services

import (
	"math"
	"testing"

	"github.com/fenilmodi00/ipo-dashboard-backend/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestCalculateStatsEmptyList(t *testing.T) {
	statsService := NewStatsService()

	stats := statsService.CalculateStats(nil)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Active)
	assert.Equal(t, 0, stats.Profitable)
	assert.Equal(t, 0, stats.AvgGMP)

	stats = statsService.CalculateStats([]models.IPORecord{})
	assert.Equal(t, models.DashboardStats{}, stats)
}

func TestCalculateStatsRoundsHalfUp(t *testing.T) {
	statsService := NewStatsService()

	// Mean 10.5 must display as 11, not 10
	stats := statsService.CalculateStats([]models.IPORecord{
		{CurrentGMP: 10},
		{CurrentGMP: 11},
	})
	assert.Equal(t, 11, stats.AvgGMP)

	// Mean 10.33 rounds down
	stats = statsService.CalculateStats([]models.IPORecord{
		{CurrentGMP: 10},
		{CurrentGMP: 10},
		{CurrentGMP: 11},
	})
	assert.Equal(t, 10, stats.AvgGMP)
}

func TestCalculateStatsCounters(t *testing.T) {
	statsService := NewStatsService()

	records := []models.IPORecord{
		{Status: models.StatusOpen, IsProfitable: true, CurrentGMP: 40},
		{Status: models.StatusUpcoming, IsProfitable: false, CurrentGMP: 5},
		{Status: models.StatusClosed, IsProfitable: true, CurrentGMP: 25},
		{Status: models.StatusListed, IsProfitable: false, CurrentGMP: -10},
	}

	stats := statsService.CalculateStats(records)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Active, "only Open and Upcoming count as active")
	assert.Equal(t, 2, stats.Profitable)
	assert.Equal(t, 15, stats.AvgGMP)
}

// TestCalculateStatsProperties checks the aggregate invariants over arbitrary
// record sets.
func TestCalculateStatsProperties(t *testing.T) {
	statsService := NewStatsService()

	statuses := []string{models.StatusOpen, models.StatusUpcoming, models.StatusClosed, models.StatusListed, models.StatusUnknown}

	properties := gopter.NewProperties(nil)

	properties.Property("For any record list, stats counters match a direct recount and the average rounds half up", prop.ForAll(
		func(gmpValues []float64) bool {
			records := make([]models.IPORecord, 0, len(gmpValues))
			for i, gmp := range gmpValues {
				records = append(records, models.IPORecord{
					CurrentGMP:   gmp,
					Status:       statuses[i%len(statuses)],
					IsProfitable: gmp >= 20,
				})
			}

			stats := statsService.CalculateStats(records)

			if stats.Total != len(records) {
				t.Logf("Total mismatch: got %d, want %d", stats.Total, len(records))
				return false
			}

			if len(records) == 0 {
				return stats == models.DashboardStats{}
			}

			expectedActive := 0
			expectedProfitable := 0
			gmpSum := 0.0
			for _, record := range records {
				if record.Status == models.StatusOpen || record.Status == models.StatusUpcoming {
					expectedActive++
				}
				if record.IsProfitable {
					expectedProfitable++
				}
				gmpSum += record.CurrentGMP
			}
			expectedAvg := int(math.Floor(gmpSum/float64(len(records)) + 0.5))

			if stats.Active != expectedActive {
				t.Logf("Active mismatch: got %d, want %d", stats.Active, expectedActive)
				return false
			}
			if stats.Profitable != expectedProfitable {
				t.Logf("Profitable mismatch: got %d, want %d", stats.Profitable, expectedProfitable)
				return false
			}
			if stats.AvgGMP != expectedAvg {
				t.Logf("AvgGMP mismatch: got %d, want %d", stats.AvgGMP, expectedAvg)
				return false
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-100, 300)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
