package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fenilmodi00/ipo-dashboard-backend/shared"
)

// UtilityService provides text processing, date normalization, and field
// inference helpers shared by the normalization pipeline
type UtilityService struct {
	serviceMetrics *shared.ServiceMetrics
}

// NewUtilityService creates a new utility service instance
func NewUtilityService() *UtilityService {
	return &UtilityService{
		serviceMetrics: shared.NewServiceMetrics("Utility_Service"),
	}
}

// NormalizeTextContent cleans and standardizes text content for consistent processing
func (s *UtilityService) NormalizeTextContent(text string) string {
	if text == "" {
		return ""
	}

	// Remove leading and trailing whitespace
	text = strings.TrimSpace(text)

	// Normalize multiple whitespace characters to single spaces
	whitespaceRegex := regexp.MustCompile(`\s+`)
	text = whitespaceRegex.ReplaceAllString(text, " ")

	// Remove common currency symbols and prefixes
	text = strings.ReplaceAll(text, "₹", "")
	text = strings.ReplaceAll(text, "Rs.", "")
	text = strings.ReplaceAll(text, "Rs ", "")

	return strings.TrimSpace(text)
}

// IsNotAvailable checks if a value indicates "not available"
// Detects placeholders like "TBA", "To Be Announced", "N/A", etc.
func (s *UtilityService) IsNotAvailable(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))

	notAvailableValues := []string{
		"tba",
		"to be announced",
		"to be decided",
		"tbd",
		"n/a",
		"na",
		"not available",
		"not applicable",
		"not disclosed",
		"awaited",
		"pending",
		"coming soon",
		"will be updated",
		"yet to be announced",
		"--",
		"-",
		"",
		"nil",
		"null",
	}

	for _, na := range notAvailableValues {
		if text == na {
			return true
		}
	}

	return false
}

// ExtractNumeric extracts numeric value from text with currency symbols and formatting
// Handles currency symbols (₹, $, etc.), commas, and other formatting characters
func (s *UtilityService) ExtractNumeric(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	// Remove currency symbols
	reg := regexp.MustCompile(`[₹$€£¥]`)
	text = reg.ReplaceAllString(text, "")

	// Remove commas
	text = strings.ReplaceAll(text, ",", "")

	// Remove spaces
	text = strings.ReplaceAll(text, " ", "")

	// Extract first numeric value (including decimals)
	reg = regexp.MustCompile(`-?\d+\.?\d*`)
	match := reg.FindString(text)
	if match == "" {
		return 0
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}

	return value
}

// ParseFlexibleDate attempts to parse date strings using the formats upstream
// feeds are known to emit. Returns nil if the date cannot be parsed.
func (s *UtilityService) ParseFlexibleDate(dateText string) *time.Time {
	if dateText == "" {
		return nil
	}

	// Normalize the date string before parsing
	normalizedDateText := s.NormalizeTextContent(dateText)

	supportedDateFormats := []string{
		"02-01-2006", // DD-MM-YYYY
		"2-1-2006",   // D-M-YYYY
		"2006-01-02", // YYYY-MM-DD (ISO format)
		"2006-1-2",   // YYYY-M-D
		"02/01/2006", // DD/MM/YYYY
		"2/1/2006",   // D/M/YYYY
		"01/02/2006", // MM/DD/YYYY
		"1/2/2006",   // M/D/YYYY
	}

	for _, dateFormat := range supportedDateFormats {
		if parsedDate, parseError := time.Parse(dateFormat, normalizedDateText); parseError == nil {
			return &parsedDate
		}
	}

	return nil
}

// NormalizeDateString converts a date in any supported upstream format to ISO
// YYYY-MM-DD. Empty or placeholder input yields ""; unparseable input passes
// through trimmed so the caller can still render it.
func (s *UtilityService) NormalizeDateString(dateText string) string {
	dateText = strings.TrimSpace(dateText)
	if dateText == "" || s.IsNotAvailable(dateText) {
		return ""
	}

	if parsed := s.ParseFlexibleDate(dateText); parsed != nil {
		return parsed.Format("2006-01-02")
	}

	return dateText
}

// EstimateListingDate projects a listing date seven days after the close date.
// Returns "" when the close date is missing or unparseable.
func (s *UtilityService) EstimateListingDate(closeDate string) string {
	if closeDate == "" {
		return ""
	}

	parsed := s.ParseFlexibleDate(closeDate)
	if parsed == nil {
		return ""
	}

	return parsed.AddDate(0, 0, 7).Format("2006-01-02")
}

// DedupeKey produces the identity key used to collapse duplicate offerings:
// the name lowercased with all spaces removed
func (s *UtilityService) DedupeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "")
}

// industryKeywords maps industry labels to the name fragments that imply them.
// Order matters: the first matching group wins.
var industryKeywords = []struct {
	industry string
	keywords []string
}{
	{"Technology", []string{"tech", "software", "digital", "ai", "data", "cyber"}},
	{"Healthcare", []string{"health", "medical", "pharma", "bio", "hospital"}},
	{"Finance", []string{"bank", "finance", "fintech", "insurance", "capital"}},
	{"Energy", []string{"energy", "power", "solar", "renewable", "oil", "gas"}},
	{"Manufacturing", []string{"manufacturing", "industrial", "steel", "auto", "textile"}},
}

// GuessIndustryFromName infers an industry label from keywords in the company name
func (s *UtilityService) GuessIndustryFromName(name string) string {
	nameLower := strings.ToLower(name)

	for _, group := range industryKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(nameLower, keyword) {
				return group.industry
			}
		}
	}

	return "Others"
}

// GuessBoardType infers the exchange segment when the feed omits it.
// SME is flagged by name keywords or an issue size under 100 Cr.
func (s *UtilityService) GuessBoardType(name string, issueSize float64) string {
	nameLower := strings.ToLower(name)

	smeKeywords := []string{"micro", "small", "sme", "emerging", "startup"}
	for _, keyword := range smeKeywords {
		if strings.Contains(nameLower, keyword) {
			return "SME"
		}
	}

	if issueSize > 0 && issueSize < 100 {
		return "SME"
	}

	return "Main Board"
}

// GetServiceMetrics returns the current service metrics
func (s *UtilityService) GetServiceMetrics() *shared.ServiceMetrics {
	return s.serviceMetrics
}

// LogMetricsSummary logs comprehensive metrics summary
func (s *UtilityService) LogMetricsSummary() {
	if s.serviceMetrics != nil {
		s.serviceMetrics.LogSummary()
	}
}

// RecordOperation records a utility service operation with metrics tracking
func (s *UtilityService) RecordOperation(operationName string, success bool, processingTime time.Duration) {
	if s.serviceMetrics != nil {
		s.serviceMetrics.RecordRequest(success, processingTime)
		s.serviceMetrics.IncrementCustomCounter(operationName)
	}
}
