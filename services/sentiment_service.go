package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fenilmodi00/ipo-dashboard-backend/models"
	"github.com/fenilmodi00/ipo-dashboard-backend/shared"
)

// SentimentService scores overall market mood from the premiums and
// subscription levels of the current record set. Used when the upstream AI
// sentiment endpoint cannot supply an answer.
type SentimentService struct {
	serviceMetrics *shared.ServiceMetrics
}

// NewSentimentService creates a new sentiment service instance
func NewSentimentService() *SentimentService {
	return &SentimentService{
		serviceMetrics: shared.NewServiceMetrics("Sentiment_Service"),
	}
}

// CalculateSentiment derives a 1-10 sentiment score from the record set.
// The score starts neutral at 5.0 and shifts with average premium, the share
// of positive premiums, and oversubscription breadth.
func (s *SentimentService) CalculateSentiment(records []models.IPORecord) models.MarketSentiment {
	startTime := time.Now()
	defer func() {
		s.serviceMetrics.RecordRequest(true, time.Since(startTime))
	}()

	if len(records) == 0 {
		return models.MarketSentiment{
			SentimentScore: 5.0,
			Analysis:       "No current IPO data available for sentiment analysis.",
			KeyDrivers:     []string{"Market data unavailable"},
		}
	}

	totalCount := len(records)
	positiveCount := 0
	oversubscribedCount := 0
	gmpSum := 0.0

	for _, record := range records {
		if record.CurrentGMP > 0 {
			positiveCount++
		}
		if strings.Contains(strings.ToLower(record.SubscriptionStatus), "oversubscribed") {
			oversubscribedCount++
		}
		gmpSum += record.CurrentGMP
	}

	avgGMP := gmpSum / float64(totalCount)
	positiveRatio := float64(positiveCount) / float64(totalCount)

	score := 5.0

	switch {
	case avgGMP > 20:
		score += 2.0
	case avgGMP > 10:
		score += 1.0
	case avgGMP < 0:
		score -= 1.5
	}

	switch {
	case positiveRatio > 0.8:
		score += 1.0
	case positiveRatio < 0.4:
		score -= 1.0
	}

	if float64(oversubscribedCount) > float64(totalCount)*0.6 {
		score += 0.5
	}

	score = math.Max(1.0, math.Min(10.0, score))

	var sentimentText, marketCondition string
	switch {
	case score >= 7.5:
		sentimentText = "bullish"
		marketCondition = "strong investor confidence"
	case score >= 6.0:
		sentimentText = "cautiously optimistic"
		marketCondition = "selective investor interest"
	case score >= 4.0:
		sentimentText = "neutral"
		marketCondition = "mixed market signals"
	default:
		sentimentText = "bearish"
		marketCondition = "investor caution prevailing"
	}

	analysis := fmt.Sprintf(
		"Market sentiment is %s with %s. Average GMP of ₹%.1f across %d IPOs, with %d showing positive premiums.",
		sentimentText, marketCondition, avgGMP, totalCount, positiveCount,
	)

	var keyDrivers []string
	if avgGMP > 15 {
		keyDrivers = append(keyDrivers, "Strong grey market premiums")
	}
	if oversubscribedCount > 0 {
		keyDrivers = append(keyDrivers, "High subscription levels")
	}
	if positiveRatio > 0.7 {
		keyDrivers = append(keyDrivers, "Broad-based investor interest")
	} else {
		keyDrivers = append(keyDrivers, "Selective stock picking")
	}

	return models.MarketSentiment{
		SentimentScore: math.Round(score*10) / 10,
		Analysis:       analysis,
		KeyDrivers:     keyDrivers,
	}
}

// GetServiceMetrics returns the current service metrics
func (s *SentimentService) GetServiceMetrics() *shared.ServiceMetrics {
	return s.serviceMetrics
}
