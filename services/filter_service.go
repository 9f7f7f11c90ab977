package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/fenilmodi00/ipo-dashboard-backend/models"
	"github.com/fenilmodi00/ipo-dashboard-backend/shared"
)

// FilterService evaluates dashboard filter criteria against canonical
// records. Every criterion is an independent AND condition; a record must
// satisfy all of them to be included.
type FilterService struct {
	serviceMetrics *shared.ServiceMetrics
}

// NewFilterService creates a new filter service instance
func NewFilterService() *FilterService {
	return &FilterService{
		serviceMetrics: shared.NewServiceMetrics("Filter_Service"),
	}
}

// FilterRecords returns the records matching the criteria, preserving input
// order. All-wildcard criteria return the full list unchanged.
func (s *FilterService) FilterRecords(records []models.IPORecord, criteria models.FilterCriteria) []models.IPORecord {
	startTime := time.Now()

	filtered := make([]models.IPORecord, 0, len(records))
	for _, record := range records {
		if s.MatchesCriteria(record, criteria) {
			filtered = append(filtered, record)
		}
	}

	s.serviceMetrics.RecordRequest(true, time.Since(startTime))
	s.serviceMetrics.SetCustomMetric("last_input_count", len(records))
	s.serviceMetrics.SetCustomMetric("last_output_count", len(filtered))

	return filtered
}

// MatchesCriteria reports whether one record passes every filter condition.
func (s *FilterService) MatchesCriteria(record models.IPORecord, criteria models.FilterCriteria) bool {
	if !matchesSelector(record.Status, criteria.Status) {
		return false
	}

	if !matchesSelector(record.Industry, criteria.Industry) {
		return false
	}

	if !matchesSelector(record.BoardType, criteria.BoardType) {
		return false
	}

	if criteria.ProfitableOnly && !record.IsProfitable {
		return false
	}

	// GMP bounds are inclusive; bounds that do not parse as numbers are
	// treated as unset rather than rejected.
	if minGMP, ok := parseBound(criteria.MinGMP); ok && record.CurrentGMP < minGMP {
		return false
	}

	if maxGMP, ok := parseBound(criteria.MaxGMP); ok && record.CurrentGMP > maxGMP {
		return false
	}

	return true
}

// GetServiceMetrics returns the current service metrics
func (s *FilterService) GetServiceMetrics() *shared.ServiceMetrics {
	return s.serviceMetrics
}

// matchesSelector applies one string criterion. Empty and "all" are
// wildcards; comparison is case-insensitive.
func matchesSelector(value, selector string) bool {
	selector = strings.TrimSpace(selector)
	if selector == "" || strings.EqualFold(selector, "all") {
		return true
	}
	return strings.EqualFold(value, selector)
}

func parseBound(bound string) (float64, bool) {
	bound = strings.TrimSpace(bound)
	if bound == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(bound, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
