package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fenilmodi00/ipo-dashboard-backend/config"
	"github.com/fenilmodi00/ipo-dashboard-backend/handlers"
	"github.com/fenilmodi00/ipo-dashboard-backend/jobs"
	"github.com/fenilmodi00/ipo-dashboard-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load config
	cfg := config.LoadConfig()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// Initialize data plane services
	utilityService := services.NewUtilityService()
	normalizerService := services.NewNormalizerService(utilityService)
	filterService := services.NewFilterService()
	statsService := services.NewStatsService()
	sentimentService := services.NewSentimentService()
	snapshotService := services.NewSnapshotService()

	// Cache, fallback provider and the proxy gateway
	cacheService := services.NewCacheService(cfg.RedisAddr, cfg.CacheTTL(), 1000)
	fallbackService := services.NewFallbackService(cacheService)
	gatewayService := services.NewGatewayService(cfg.BackendURL, cfg.HTTPTimeout(), fallbackService)

	logrus.Info("IPO dashboard services initialized:")
	logrus.Infof("  - Proxy gateway (backend: %s, timeout: %v)", cfg.BackendURL, cfg.HTTPTimeout())
	logrus.Infof("  - Cache service (backend: %s, TTL: %v)", cacheService.GetStats().Backend, cfg.CacheTTL())
	logrus.Infof("  - Snapshot poller (interval: %v, min fetch spacing: %v)", cfg.PollInterval(), cfg.MinFetchSpacing())

	// Background jobs share one cancellable context so shutdown stops them all
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	snapshotPoller := jobs.NewSnapshotPoller(
		gatewayService,
		normalizerService,
		snapshotService,
		cacheService,
		cfg.PollInterval(),
		cfg.MinFetchSpacing(),
	)
	if snapshotPoller.WarmStart(jobCtx) {
		logrus.Infof("  - Warm-started snapshot (%d records, age %v)", snapshotService.Count(), snapshotService.Age().Round(time.Second))
	}
	snapshotPoller.Start(jobCtx)

	metricsJob := jobs.NewMetricsReportJob(gatewayService, snapshotService, cacheService)
	metricsJob.StartPeriodicReports(jobCtx, 15*time.Minute)

	// Initialize handlers
	geminiHandler := handlers.NewGeminiHandler(gatewayService)
	realtimeHandler := handlers.NewRealtimeHandler(gatewayService)
	dashboardHandler := handlers.NewDashboardHandler(
		snapshotService,
		filterService,
		statsService,
		sentimentService,
		gatewayService,
		cacheService,
		snapshotPoller,
	)
	adminHandler := handlers.NewAdminHandler(gatewayService, snapshotService, cacheService, snapshotPoller)

	// Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	startTime := time.Now()

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":           "ok",
			"service":          "ipo-dashboard-backend",
			"uptime":           time.Since(startTime).Round(time.Second).String(),
			"snapshot_records": snapshotService.Count(),
			"backend_url":      gatewayService.BackendURL(),
		})
	})

	// Gemini AI control surface (proxied)
	gemini := app.Group("/api/gemini-ipo")
	gemini.Get("/status", geminiHandler.GetStatus)
	gemini.Post("/initialize", geminiHandler.Initialize)
	gemini.Get("/test-connection", geminiHandler.TestConnection)
	gemini.Get("/ipos", geminiHandler.GetIPOs)
	gemini.Get("/market-sentiment", geminiHandler.GetMarketSentiment)
	gemini.Post("/force-update", geminiHandler.ForceUpdate)
	gemini.Post("/start-daily-updates", geminiHandler.StartDailyUpdates)
	gemini.Post("/stop-daily-updates", geminiHandler.StopDailyUpdates)

	// Real-time service control surface (proxied)
	realtime := app.Group("/api/realtime-ipo")
	realtime.Post("/start", realtimeHandler.Start)
	realtime.Post("/stop", realtimeHandler.Stop)
	realtime.Get("/status", realtimeHandler.GetStatus)
	realtime.Get("/metrics", realtimeHandler.GetMetrics)
	realtime.Get("/tasks", realtimeHandler.GetTasks)
	realtime.Post("/force-task/:taskType", realtimeHandler.ForceTask)

	// Dashboard data plane
	dashboard := app.Group("/api/dashboard")
	dashboard.Get("/ipos", dashboardHandler.GetIPOs)
	dashboard.Get("/stats", dashboardHandler.GetStats)
	dashboard.Get("/sentiment", dashboardHandler.GetSentiment)
	dashboard.Get("/industries", dashboardHandler.GetIndustries)
	dashboard.Get("/market-indices", dashboardHandler.GetMarketIndices)

	// Admin Routes
	admin := app.Group("/api/admin")
	admin.Get("/metrics", adminHandler.GetMetrics)
	admin.Post("/refresh", adminHandler.TriggerRefresh)
	admin.Delete("/cache", adminHandler.ClearCache)

	// Graceful shutdown: stop jobs, release resources, then close the server
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logrus.Info("Shutdown signal received, stopping background jobs")
		cancelJobs()
		cacheService.Close()
		gatewayService.CleanupResources()

		if err := app.Shutdown(); err != nil {
			logrus.Errorf("Server shutdown failed: %v", err)
		}
	}()

	logrus.Infof("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logrus.Fatalf("Server failed to start: %v", err)
	}

	logrus.Info("Server stopped")
}
