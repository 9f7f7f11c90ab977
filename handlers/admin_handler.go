package handlers

import (
	"time"

	"github.com/fenilmodi00/ipo-dashboard-backend/jobs"
	"github.com/fenilmodi00/ipo-dashboard-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	GatewayService  *services.GatewayService
	SnapshotService *services.SnapshotService
	CacheService    *services.CacheService
	SnapshotPoller  *jobs.SnapshotPoller
}

func NewAdminHandler(
	gatewayService *services.GatewayService,
	snapshotService *services.SnapshotService,
	cacheService *services.CacheService,
	snapshotPoller *jobs.SnapshotPoller,
) *AdminHandler {
	return &AdminHandler{
		GatewayService:  gatewayService,
		SnapshotService: snapshotService,
		CacheService:    cacheService,
		SnapshotPoller:  snapshotPoller,
	}
}

// GetMetrics exposes per-operation gateway counters, snapshot freshness
// and cache stats for operational debugging
func (h *AdminHandler) GetMetrics(c *fiber.Ctx) error {
	snapshot := h.SnapshotService.Current()

	lastUpdated := ""
	if !snapshot.FetchedAt.IsZero() {
		lastUpdated = snapshot.FetchedAt.Format(time.RFC3339)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"gateway": h.GatewayService.GetGatewayMetrics().GetSnapshot(),
			"snapshot": fiber.Map{
				"records":      len(snapshot.Records),
				"source":       snapshot.Source,
				"age":          h.SnapshotService.Age().Round(time.Second).String(),
				"last_updated": lastUpdated,
			},
			"cache": h.CacheService.GetStats(),
		},
	})
}

// TriggerRefresh manually forces a snapshot refresh via the admin endpoint
func (h *AdminHandler) TriggerRefresh(c *fiber.Ctx) error {
	logrus.Info("Manual snapshot refresh triggered via admin endpoint")

	startTime := time.Now()

	ran, err := h.SnapshotPoller.RunOnce(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	if !ran {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "A snapshot refresh is already in progress, skipped",
		})
	}

	duration := time.Since(startTime)
	snapshot := h.SnapshotService.Current()

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Snapshot refresh completed",
		"records":   len(snapshot.Records),
		"source":    snapshot.Source,
		"duration":  duration.String(),
		"timestamp": time.Now(),
	})
}

// ClearCache empties the response cache
func (h *AdminHandler) ClearCache(c *fiber.Ctx) error {
	h.CacheService.Clear(c.Context())

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cache cleared",
	})
}
