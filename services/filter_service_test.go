package services

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/fenilmodi00/ipo-dashboard-backend/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// buildFilterTestRecords fabricates canonical records from a list of premiums,
// cycling through the canonical status, industry, and board values so every
// selector has matching and non-matching records to work against.
func buildFilterTestRecords(gmpValues []float64) []models.IPORecord {
	statuses := []string{models.StatusOpen, models.StatusUpcoming, models.StatusClosed, models.StatusListed}
	industries := []string{"Technology", "Healthcare", "Finance", "Others"}
	boards := []string{models.BoardMain, models.BoardSME}

	records := make([]models.IPORecord, 0, len(gmpValues))
	for i, gmp := range gmpValues {
		records = append(records, models.IPORecord{
			ID:           fmt.Sprintf("rec-%d", i),
			Name:         fmt.Sprintf("Offering %d", i),
			CurrentGMP:   gmp,
			Status:       statuses[i%len(statuses)],
			Industry:     industries[i%len(industries)],
			BoardType:    boards[i%len(boards)],
			IsProfitable: gmp >= 20,
		})
	}
	return records
}

// TestFilterWildcardProperties verifies that all-wildcard criteria pass every
// record through unchanged and in order.
func TestFilterWildcardProperties(t *testing.T) {
	filterService := NewFilterService()

	properties := gopter.NewProperties(nil)

	properties.Property("For any record list, all-wildcard criteria return the full list unchanged in order", prop.ForAll(
		func(gmpValues []float64, selector string) bool {
			records := buildFilterTestRecords(gmpValues)
			criteria := models.FilterCriteria{
				Status:    selector,
				Industry:  selector,
				BoardType: selector,
			}

			filtered := filterService.FilterRecords(records, criteria)

			if len(filtered) != len(records) {
				t.Logf("Wildcard criteria dropped records: got %d, want %d", len(filtered), len(records))
				return false
			}
			for i := range records {
				if filtered[i].ID != records[i].ID {
					t.Logf("Wildcard criteria reordered records at %d: got %s, want %s", i, filtered[i].ID, records[i].ID)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-50, 200)),
		gen.OneConstOf("all", "All", "ALL", "", "  "),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestFilterGMPBoundProperties verifies the premium bounds are inclusive on
// both ends and that non-numeric bounds apply no constraint.
func TestFilterGMPBoundProperties(t *testing.T) {
	filterService := NewFilterService()

	properties := gopter.NewProperties(nil)

	properties.Property("For any numeric bounds, every record inside [min, max] is kept and every record outside is dropped", prop.ForAll(
		func(gmpValues []float64, minGMP, maxGMP float64) bool {
			records := buildFilterTestRecords(gmpValues)
			criteria := models.FilterCriteria{
				Status:    "all",
				Industry:  "all",
				BoardType: "all",
				MinGMP:    strconv.FormatFloat(minGMP, 'f', -1, 64),
				MaxGMP:    strconv.FormatFloat(maxGMP, 'f', -1, 64),
			}

			filtered := filterService.FilterRecords(records, criteria)

			expectedCount := 0
			for _, record := range records {
				if record.CurrentGMP >= minGMP && record.CurrentGMP <= maxGMP {
					expectedCount++
				}
			}

			if len(filtered) != expectedCount {
				t.Logf("Bound [%v, %v] kept %d records, want %d", minGMP, maxGMP, len(filtered), expectedCount)
				return false
			}
			for _, record := range filtered {
				if record.CurrentGMP < minGMP || record.CurrentGMP > maxGMP {
					t.Logf("Record with GMP %v escaped bound [%v, %v]", record.CurrentGMP, minGMP, maxGMP)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-50, 200)),
		gen.Float64Range(-50, 100),
		gen.Float64Range(-50, 200),
	))

	properties.Property("For any non-numeric bound, the bound applies no constraint", prop.ForAll(
		func(gmpValues []float64, bound string) bool {
			records := buildFilterTestRecords(gmpValues)
			criteria := models.FilterCriteria{
				Status:    "all",
				Industry:  "all",
				BoardType: "all",
				MinGMP:    bound,
				MaxGMP:    bound,
			}

			filtered := filterService.FilterRecords(records, criteria)

			if len(filtered) != len(records) {
				t.Logf("Non-numeric bound %q dropped records: got %d, want %d", bound, len(filtered), len(records))
				return false
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-50, 200)),
		gen.OneConstOf("", " ", "abc", "12abc", "--", "ten", "₹50"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestMatchesCriteriaBoundaryEquality(t *testing.T) {
	filterService := NewFilterService()

	record := models.IPORecord{
		CurrentGMP: 25,
		Status:     models.StatusOpen,
		Industry:   "Technology",
		BoardType:  models.BoardMain,
	}
	criteria := models.FilterCriteria{
		Status:    "all",
		Industry:  "all",
		BoardType: "all",
		MinGMP:    "25",
		MaxGMP:    "25",
	}

	assert.True(t, filterService.MatchesCriteria(record, criteria), "record at exactly min=max bound should pass")

	criteria.MinGMP = "25.01"
	assert.False(t, filterService.MatchesCriteria(record, criteria), "record below min bound should fail")

	criteria.MinGMP = ""
	criteria.MaxGMP = "24.99"
	assert.False(t, filterService.MatchesCriteria(record, criteria), "record above max bound should fail")
}

func TestMatchesCriteriaSelectors(t *testing.T) {
	filterService := NewFilterService()

	record := models.IPORecord{
		CurrentGMP:   30,
		Status:       models.StatusOpen,
		Industry:     "Technology",
		BoardType:    models.BoardSME,
		IsProfitable: true,
	}

	testCases := []struct {
		name     string
		criteria models.FilterCriteria
		expected bool
	}{
		{"status matches case-insensitively", models.FilterCriteria{Status: "open", Industry: "all", BoardType: "all"}, true},
		{"status mismatch rejects", models.FilterCriteria{Status: "closed", Industry: "all", BoardType: "all"}, false},
		{"industry matches case-insensitively", models.FilterCriteria{Status: "all", Industry: "technology", BoardType: "all"}, true},
		{"industry mismatch rejects", models.FilterCriteria{Status: "all", Industry: "Finance", BoardType: "all"}, false},
		{"board type matches case-insensitively", models.FilterCriteria{Status: "all", Industry: "all", BoardType: "sme"}, true},
		{"board type mismatch rejects", models.FilterCriteria{Status: "all", Industry: "all", BoardType: models.BoardMain}, false},
		{"profitable only passes profitable record", models.FilterCriteria{Status: "all", Industry: "all", BoardType: "all", ProfitableOnly: true}, true},
		{"empty selectors act as wildcards", models.FilterCriteria{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, filterService.MatchesCriteria(record, tc.criteria))
		})
	}
}

func TestProfitableOnlyRejectsUnprofitable(t *testing.T) {
	filterService := NewFilterService()

	records := []models.IPORecord{
		{ID: "a", CurrentGMP: 45, IsProfitable: true},
		{ID: "b", CurrentGMP: 2, IsProfitable: false},
		{ID: "c", CurrentGMP: 90, IsProfitable: true},
	}
	criteria := models.FilterCriteria{ProfitableOnly: true}

	filtered := filterService.FilterRecords(records, criteria)

	assert.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0].ID)
	assert.Equal(t, "c", filtered[1].ID)
}
