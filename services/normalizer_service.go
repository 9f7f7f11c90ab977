package services

import (
	"strings"
	"time"

	"github.com/fenilmodi00/ipo-dashboard-backend/models"
	"github.com/fenilmodi00/ipo-dashboard-backend/shared"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NormalizerService converts raw feed records into the canonical IPORecord
// shape. All alternate-field resolution, sentinel handling, and field
// derivation happens here, once, so downstream consumers never repeat
// fallback chains.
type NormalizerService struct {
	utilityService *UtilityService
	serviceMetrics *shared.ServiceMetrics
}

// NewNormalizerService creates a new normalizer service instance
func NewNormalizerService(utilityService *UtilityService) *NormalizerService {
	return &NormalizerService{
		utilityService: utilityService,
		serviceMetrics: shared.NewServiceMetrics("Normalizer_Service"),
	}
}

// NormalizeRecords converts a batch of raw feed records and collapses
// duplicates. The dedupe key is the offering name lowercased with spaces
// removed; when two records share a key the later one wins, keeping the
// position of the first. Records without a usable name are dropped.
func (s *NormalizerService) NormalizeRecords(rawRecords []models.RawIPORecord) []models.IPORecord {
	startTime := time.Now()

	records := make([]models.IPORecord, 0, len(rawRecords))
	seenPositions := make(map[string]int)
	droppedCount := 0

	for _, raw := range rawRecords {
		record, ok := s.NormalizeRecord(raw)
		if !ok {
			droppedCount++
			continue
		}

		key := s.utilityService.DedupeKey(record.Name)
		if position, seen := seenPositions[key]; seen {
			records[position] = record
			continue
		}

		seenPositions[key] = len(records)
		records = append(records, record)
	}

	if droppedCount > 0 {
		logrus.WithFields(logrus.Fields{
			"dropped": droppedCount,
			"kept":    len(records),
		}).Debug("Dropped raw records without a usable name")
	}

	s.serviceMetrics.RecordRequest(true, time.Since(startTime))
	s.serviceMetrics.SetCustomMetric("last_batch_input", len(rawRecords))
	s.serviceMetrics.SetCustomMetric("last_batch_output", len(records))

	return records
}

// NormalizeRecord converts one raw feed record into canonical form.
// Returns false when the record carries no name under any known field.
func (s *NormalizerService) NormalizeRecord(raw models.RawIPORecord) (models.IPORecord, bool) {
	name := firstNonEmpty(raw.IPOName, raw.DisplayName, raw.Name)
	if name == "" {
		return models.IPORecord{}, false
	}

	record := models.IPORecord{
		Name: name,
	}

	// Identity: keep the feed's key when it has one, otherwise mint a uuid
	// so the dashboard can still key rows for rendering.
	if id := strings.TrimSpace(string(raw.ID)); id != "" {
		record.ID = id
	} else {
		record.ID = uuid.New().String()
	}

	record.CompanyName = firstNonEmpty(raw.CompanyNameSnake, raw.CompanyNameCamel, name)

	// Pricing band and issue size
	record.PriceRangeLow = pickFloat(raw.PriceMinSnake, raw.PriceMinCamel)
	record.PriceRangeHigh = pickFloat(raw.PriceMaxSnake, raw.PriceMaxCamel)
	record.IssueSize = pickFloat(raw.IssueSizeSnake, raw.IssueSizeCamel)

	// Lot size, derived from the price band when the feed omits it
	record.LotSize = pickInt(raw.LotSizeSnake, raw.LotSizeCamel)
	if record.LotSize <= 0 {
		record.LotSize = calculateLotSize(record.PriceRangeHigh)
	}

	// Grey market premium and its percentage against the band high
	record.CurrentGMP = pickFloat(raw.CurrentGMPSnake, raw.CurrentGMPCamel, raw.GMP)
	if gmpPct, provided := pickFloatProvided(raw.GMPPctSnake, raw.GMPPctCamel); provided {
		record.GMPPercentage = gmpPct
	} else if record.PriceRangeHigh > 0 {
		record.GMPPercentage = record.CurrentGMP / record.PriceRangeHigh * 100
	}

	record.Status = normalizeStatus(raw.Status)

	// Sector and industry are the same concept under different names
	record.Industry = firstNonEmpty(raw.Industry, raw.Sector)
	if record.Industry == "" {
		record.Industry = s.utilityService.GuessIndustryFromName(name)
	}

	record.BoardType = normalizeBoardType(firstNonEmpty(raw.BoardTypeSnake, raw.BoardTypeCamel))
	if record.BoardType == "" {
		record.BoardType = s.utilityService.GuessBoardType(name, record.IssueSize)
	}

	// Dates normalize to ISO; listing date is projected from the close when missing
	record.OpenDate = s.utilityService.NormalizeDateString(firstNonEmpty(raw.OpenDateSnake, raw.OpenDateCamel))
	record.CloseDate = s.utilityService.NormalizeDateString(firstNonEmpty(raw.CloseDateSnake, raw.CloseDateCamel))
	record.ListingDate = s.utilityService.NormalizeDateString(firstNonEmpty(raw.ListingDateSnake, raw.ListingDateCamel))
	if record.ListingDate == "" {
		record.ListingDate = s.utilityService.EstimateListingDate(record.CloseDate)
	}

	if confidence, provided := pickFloatProvided(raw.ConfidenceSnake, raw.ConfidenceCamel); provided {
		record.ConfidenceScore = clampConfidence(confidence)
	} else {
		record.ConfidenceScore = 0.7
	}

	record.IsProfitable = record.GMPPercentage >= 10 || record.CurrentGMP >= 20

	record.RiskLevel = normalizeRiskLevel(firstNonEmpty(raw.RiskSnake, raw.RiskCamel))
	if record.RiskLevel == "" {
		record.RiskLevel = deriveRiskLevel(record)
	}

	record.Recommendation = strings.TrimSpace(raw.Recommendation)
	if record.Recommendation == "" {
		record.Recommendation = deriveRecommendation(record)
	}

	record.EstimatedGain = record.CurrentGMP * float64(record.LotSize)
	if record.EstimatedGain < 0 {
		record.EstimatedGain = 0
	}

	record.SubscriptionStatus = firstNonEmpty(raw.SubscriptionSnake, raw.SubscriptionCamel)
	record.Exchange = strings.TrimSpace(raw.Exchange)
	record.Description = strings.TrimSpace(raw.Description)
	record.Prediction = normalizePrediction(raw.Prediction)

	return record, true
}

// GetServiceMetrics returns the current service metrics
func (s *NormalizerService) GetServiceMetrics() *shared.ServiceMetrics {
	return s.serviceMetrics
}

// calculateLotSize derives the shares-per-lot count from the band high so a
// retail application lands near the regulatory minimum investment.
func calculateLotSize(priceHigh float64) int {
	switch {
	case priceHigh <= 200:
		return 75
	case priceHigh <= 500:
		return 30
	case priceHigh <= 1000:
		return 15
	default:
		return 10
	}
}

// normalizeStatus maps feed status strings onto the canonical set.
// Unrecognized values become Unknown rather than passing through.
func normalizeStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "open", "opening", "opening today":
		return models.StatusOpen
	case "closed":
		return models.StatusClosed
	case "upcoming":
		return models.StatusUpcoming
	case "listed":
		return models.StatusListed
	case "withdrawn":
		return models.StatusWithdrawn
	default:
		return models.StatusUnknown
	}
}

// normalizeBoardType canonicalizes an explicit board type field.
// Returns "" when the field is absent or unrecognized so the caller can
// fall back to inference.
func normalizeBoardType(boardType string) string {
	switch strings.ToLower(strings.TrimSpace(boardType)) {
	case "sme":
		return models.BoardSME
	case "main board", "mainboard", "main":
		return models.BoardMain
	default:
		return ""
	}
}

// normalizeRiskLevel canonicalizes an explicit risk field, "" when absent
// or unrecognized.
func normalizeRiskLevel(risk string) string {
	switch strings.ToLower(strings.TrimSpace(risk)) {
	case "low":
		return models.RiskLow
	case "medium", "moderate":
		return models.RiskMedium
	case "high":
		return models.RiskHigh
	default:
		return ""
	}
}

// deriveRiskLevel scores a record on its premium, confidence, and board
// segment. Weak premium, low confidence, and SME listings each add risk.
func deriveRiskLevel(record models.IPORecord) string {
	risk := 0

	switch {
	case record.CurrentGMP < 0:
		risk += 3
	case record.CurrentGMP < 20:
		risk += 2
	case record.CurrentGMP < 50:
		risk += 1
	}

	switch {
	case record.ConfidenceScore < 0.6:
		risk += 2
	case record.ConfidenceScore < 0.8:
		risk += 1
	}

	if record.BoardType == models.BoardSME {
		risk++
	}

	switch {
	case risk >= 4:
		return models.RiskHigh
	case risk >= 2:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// deriveRecommendation maps premium strength and confidence onto an
// investment call.
func deriveRecommendation(record models.IPORecord) string {
	switch {
	case record.CurrentGMP >= 50 && record.ConfidenceScore >= 0.8:
		return "Strong Buy"
	case record.CurrentGMP >= 20 && record.ConfidenceScore >= 0.7:
		return "Buy"
	case record.CurrentGMP >= 0 && record.ConfidenceScore >= 0.6:
		return "Hold"
	default:
		return "Avoid"
	}
}

func normalizePrediction(raw *models.RawPrediction) *models.Prediction {
	if raw == nil {
		return nil
	}

	prediction := &models.Prediction{
		GainPercentage: pickFloat(raw.GainPctSnake, raw.GainPctCamel),
		Confidence:     clampConfidence(pickFloat(raw.Confidence)),
	}

	for _, rawFactor := range raw.Factors {
		factor := models.PredictionFactor{
			Name:   strings.TrimSpace(rawFactor.Name),
			Impact: normalizeImpact(rawFactor.Impact),
		}
		if rawFactor.Weight != nil {
			factor.Weight = clampConfidence(float64(*rawFactor.Weight))
		}
		prediction.Factors = append(prediction.Factors, factor)
	}

	return prediction
}

func normalizeImpact(impact string) string {
	switch strings.ToLower(strings.TrimSpace(impact)) {
	case "positive":
		return "Positive"
	case "negative":
		return "Negative"
	default:
		return "Neutral"
	}
}

func clampConfidence(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

// firstNonEmpty returns the first argument with non-whitespace content.
func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// pickFloat resolves alternate-name numeric fields: the first pointer the
// feed actually supplied wins, 0 otherwise.
func pickFloat(values ...*models.FlexFloat) float64 {
	value, _ := pickFloatProvided(values...)
	return value
}

// pickFloatProvided reports whether any alternate field was present at all,
// so callers can distinguish an explicit 0 from an absent field.
func pickFloatProvided(values ...*models.FlexFloat) (float64, bool) {
	for _, value := range values {
		if value != nil {
			return float64(*value), true
		}
	}
	return 0, false
}

func pickInt(values ...*models.FlexInt) int {
	for _, value := range values {
		if value != nil {
			return int(*value)
		}
	}
	return 0
}
