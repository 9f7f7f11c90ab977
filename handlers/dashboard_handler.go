package handlers

import (
	"encoding/json"
	"time"

	"github.com/fenilmodi00/ipo-dashboard-backend/jobs"
	"github.com/fenilmodi00/ipo-dashboard-backend/models"
	"github.com/fenilmodi00/ipo-dashboard-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const sentimentCacheKey = "dashboard:market_sentiment"

// DashboardHandler serves the normalized IPO data plane: filtered lists,
// headline stats, sentiment and the static market index strip.
type DashboardHandler struct {
	SnapshotService  *services.SnapshotService
	FilterService    *services.FilterService
	StatsService     *services.StatsService
	SentimentService *services.SentimentService
	GatewayService   *services.GatewayService
	CacheService     *services.CacheService
	SnapshotPoller   *jobs.SnapshotPoller
}

func NewDashboardHandler(
	snapshotService *services.SnapshotService,
	filterService *services.FilterService,
	statsService *services.StatsService,
	sentimentService *services.SentimentService,
	gatewayService *services.GatewayService,
	cacheService *services.CacheService,
	snapshotPoller *jobs.SnapshotPoller,
) *DashboardHandler {
	return &DashboardHandler{
		SnapshotService:  snapshotService,
		FilterService:    filterService,
		StatsService:     statsService,
		SentimentService: sentimentService,
		GatewayService:   gatewayService,
		CacheService:     cacheService,
		SnapshotPoller:   snapshotPoller,
	}
}

// GetIPOs returns the filtered IPO list with stats computed over the
// filtered subset. Filters arrive as query parameters; absent selectors
// default to the "all" wildcard.
func (h *DashboardHandler) GetIPOs(c *fiber.Ctx) error {
	criteria := models.FilterCriteria{
		Status:         c.Query("status", "all"),
		Industry:       c.Query("industry", "all"),
		BoardType:      c.Query("boardType", "all"),
		ProfitableOnly: c.QueryBool("profitableOnly", false),
		MinGMP:         c.Query("minGMP"),
		MaxGMP:         c.Query("maxGMP"),
	}

	if h.SnapshotService.IsEmpty() {
		// Cold start: try one synchronous refresh before serving
		if _, err := h.SnapshotPoller.RunOnce(c.Context()); err != nil {
			logrus.WithFields(logrus.Fields{
				"component": "dashboard_handler",
				"method":    "GetIPOs",
				"error":     err.Error(),
			}).Warn("Synchronous snapshot refresh failed")
		}
	}

	snapshot := h.SnapshotService.Current()
	filteredRecords := h.FilterService.FilterRecords(snapshot.Records, criteria)
	stats := h.StatsService.CalculateStats(filteredRecords)

	dataSource := snapshot.Source
	if dataSource == "" {
		dataSource = models.SourceFallback
	}

	lastUpdated := ""
	if !snapshot.FetchedAt.IsZero() {
		lastUpdated = snapshot.FetchedAt.Format(time.RFC3339)
	}

	payload := fiber.Map{
		"ipos":         filteredRecords,
		"stats":        stats,
		"data_source":  dataSource,
		"last_updated": lastUpdated,
	}

	if len(snapshot.Records) == 0 && !h.GatewayService.ProbeStatus(c.Context()) {
		payload["notice"] = "Live IPO data is currently unavailable. The data service is not responding."
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payload,
	})
}

// GetStats returns headline counters over the full snapshot, ignoring
// any filters
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats := h.StatsService.CalculateStats(h.SnapshotService.Records())

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// GetSentiment serves market sentiment: the upstream AI's answer when it
// responds, otherwise a score computed locally from the snapshot. Either
// form is cached so repeated dashboard loads don't re-hit the upstream.
func (h *DashboardHandler) GetSentiment(c *fiber.Ctx) error {
	if cached, found := h.CacheService.Get(c.Context(), sentimentCacheKey); found {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(cached)
	}

	result := h.GatewayService.Proxy(c.Context(), services.OpGeminiMarketSentiment, "", nil)
	if result.Source == models.SourceLive {
		h.CacheService.Set(c.Context(), sentimentCacheKey, result.Body)
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(result.StatusCode).Send(result.Body)
	}

	sentiment := h.SentimentService.CalculateSentiment(h.SnapshotService.Records())
	body, err := json.Marshal(fiber.Map{
		"status":    "success",
		"data":      sentiment,
		"source":    "computed",
		"timestamp": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to build sentiment response",
		})
	}

	h.CacheService.Set(c.Context(), sentimentCacheKey, body)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// GetIndustries lists the distinct industries in the snapshot, sorted,
// for filter dropdowns
func (h *DashboardHandler) GetIndustries(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.SnapshotService.Industries(),
	})
}

// GetMarketIndices returns the index strip shown above the dashboard
func (h *DashboardHandler) GetMarketIndices(c *fiber.Ctx) error {
	// Static strip; live index feeds are out of scope
	indices := []models.MarketIndex{
		{
			ID:            "sensex",
			Name:          "SENSEX",
			Value:         81224.75,
			Change:        318.74,
			ChangePercent: 0.39,
			IsPositive:    true,
		},
		{
			ID:            "nifty50",
			Name:          "NIFTY 50",
			Value:         24852.15,
			Change:        95.45,
			ChangePercent: 0.39,
			IsPositive:    true,
		},
		{
			ID:            "niftybank",
			Name:          "NIFTY BANK",
			Value:         55341.85,
			Change:        -112.60,
			ChangePercent: -0.20,
			IsPositive:    false,
		},
		{
			ID:            "indiavix",
			Name:          "INDIA VIX",
			Value:         13.42,
			Change:        -0.38,
			ChangePercent: -2.75,
			IsPositive:    false,
		},
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    indices,
	})
}
