package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fenilmodi00/ipo-dashboard-backend/jobs"
	"github.com/fenilmodi00/ipo-dashboard-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// testStack wires the full service graph against one backend URL, mirroring
// the production route layout.
type testStack struct {
	app       *fiber.App
	snapshots *services.SnapshotService
	cache     *services.CacheService
	poller    *jobs.SnapshotPoller
}

func buildTestStack(t *testing.T, backendURL string) *testStack {
	t.Helper()

	normalizer := services.NewNormalizerService(services.NewUtilityService())
	filter := services.NewFilterService()
	stats := services.NewStatsService()
	sentiment := services.NewSentimentService()
	snapshots := services.NewSnapshotService()
	cache := services.NewCacheService("", 5*time.Minute, 100)
	t.Cleanup(cache.Close)

	gateway := services.NewGatewayService(backendURL, 2*time.Second, services.NewFallbackService(cache))
	poller := jobs.NewSnapshotPoller(gateway, normalizer, snapshots, cache, time.Hour, 0)

	geminiHandler := NewGeminiHandler(gateway)
	realtimeHandler := NewRealtimeHandler(gateway)
	dashboardHandler := NewDashboardHandler(snapshots, filter, stats, sentiment, gateway, cache, poller)
	adminHandler := NewAdminHandler(gateway, snapshots, cache, poller)

	app := fiber.New()

	gemini := app.Group("/api/gemini-ipo")
	gemini.Get("/status", geminiHandler.GetStatus)
	gemini.Post("/initialize", geminiHandler.Initialize)
	gemini.Get("/test-connection", geminiHandler.TestConnection)
	gemini.Get("/ipos", geminiHandler.GetIPOs)
	gemini.Get("/market-sentiment", geminiHandler.GetMarketSentiment)
	gemini.Post("/force-update", geminiHandler.ForceUpdate)
	gemini.Post("/start-daily-updates", geminiHandler.StartDailyUpdates)
	gemini.Post("/stop-daily-updates", geminiHandler.StopDailyUpdates)

	realtime := app.Group("/api/realtime-ipo")
	realtime.Post("/start", realtimeHandler.Start)
	realtime.Post("/stop", realtimeHandler.Stop)
	realtime.Get("/status", realtimeHandler.GetStatus)
	realtime.Get("/metrics", realtimeHandler.GetMetrics)
	realtime.Get("/tasks", realtimeHandler.GetTasks)
	realtime.Post("/force-task/:taskType", realtimeHandler.ForceTask)

	dashboard := app.Group("/api/dashboard")
	dashboard.Get("/ipos", dashboardHandler.GetIPOs)
	dashboard.Get("/stats", dashboardHandler.GetStats)
	dashboard.Get("/sentiment", dashboardHandler.GetSentiment)
	dashboard.Get("/industries", dashboardHandler.GetIndustries)
	dashboard.Get("/market-indices", dashboardHandler.GetMarketIndices)

	admin := app.Group("/api/admin")
	admin.Get("/metrics", adminHandler.GetMetrics)
	admin.Post("/refresh", adminHandler.TriggerRefresh)
	admin.Delete("/cache", adminHandler.ClearCache)

	return &testStack{app: app, snapshots: snapshots, cache: cache, poller: poller}
}

// buildUnreachableStack wires the stack against a backend that refuses every
// connection.
func buildUnreachableStack(t *testing.T) *testStack {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	return buildTestStack(t, server.URL)
}

// performRequest runs one request through the fiber app and returns the raw
// response plus its body.
func performRequest(t *testing.T, app *fiber.App, method, target string) (*http.Response, []byte) {
	t.Helper()

	request := httptest.NewRequest(method, target, nil)
	response, err := app.Test(request)
	require.NoError(t, err)

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	return response, body
}

// decodeJSON unmarshals a response body into a generic map.
func decodeJSON(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	return decoded
}

// mapField digs one level into a decoded payload.
func mapField(t *testing.T, decoded map[string]interface{}, key string) map[string]interface{} {
	t.Helper()

	value, ok := decoded[key].(map[string]interface{})
	require.True(t, ok, "field %q is not an object: %v", key, decoded[key])
	return value
}
