package services

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/fenilmodi00/ipo-dashboard-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCacheStats struct {
	stats models.CacheStats
}

func (s staticCacheStats) GetStats() models.CacheStats {
	return s.stats
}

func TestFallbackIPOPayloadShipsOneSampleRecord(t *testing.T) {
	fallback := NewFallbackService(nil)
	body, statusCode := fallback.FallbackPayload(OpGeminiIPOs, "")

	assert.Equal(t, http.StatusOK, statusCode)

	var payload struct {
		Status string                   `json:"status"`
		Data   []map[string]interface{} `json:"data"`
		Count  int                      `json:"count"`
		Source string                   `json:"source"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "success", payload.Status)
	require.Len(t, payload.Data, 1)
	assert.Equal(t, 1, payload.Count)
	assert.Equal(t, "fallback_data", payload.Source)
	assert.Equal(t, "Vishal Mega Mart IPO", payload.Data[0]["ipo_name"])
}

func TestFallbackForceUpdatePayloadShipsFullMockSlate(t *testing.T) {
	fallback := NewFallbackService(nil)
	body, statusCode := fallback.FallbackPayload(OpGeminiForceUpdate, "")

	assert.Equal(t, http.StatusOK, statusCode)

	var payload struct {
		Status string                   `json:"status"`
		Data   []map[string]interface{} `json:"data"`
		Count  int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "completed", payload.Status)
	assert.Len(t, payload.Data, 5)
	assert.Equal(t, 5, payload.Count)
	for _, record := range payload.Data {
		assert.NotEmpty(t, record["ipo_name"])
		assert.NotEmpty(t, record["status"])
	}
}

func TestFallbackInitializeAnswersServerError(t *testing.T) {
	fallback := NewFallbackService(nil)
	body, statusCode := fallback.FallbackPayload(OpGeminiInitialize, "")

	assert.Equal(t, http.StatusInternalServerError, statusCode)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "failed", payload["status"])
}

func TestFallbackStatusReportsOfflineService(t *testing.T) {
	fallback := NewFallbackService(nil)
	body, statusCode := fallback.FallbackPayload(OpGeminiStatus, "")

	assert.Equal(t, http.StatusOK, statusCode)

	var payload struct {
		Service models.AIServiceState `json:"service"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.False(t, payload.Service.IsInitialized)
	assert.False(t, payload.Service.DailyUpdatesRunning)
	assert.Nil(t, payload.Service.LastFetch)
	assert.Equal(t, "Gemini AI with Real IPO Data (Groww + Chittorgarh)", payload.Service.Service)
}

func TestFallbackSentimentPayloadDefaultsToModerate(t *testing.T) {
	fallback := NewFallbackService(nil)
	body, _ := fallback.FallbackPayload(OpGeminiMarketSentiment, "")

	var payload struct {
		Status string `json:"status"`
		Data   struct {
			SentimentScore float64  `json:"sentiment_score"`
			Analysis       string   `json:"analysis"`
			KeyDrivers     []string `json:"key_drivers"`
		} `json:"data"`
		Source string `json:"source"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "success", payload.Status)
	assert.Equal(t, 6.0, payload.Data.SentimentScore)
	assert.NotEmpty(t, payload.Data.Analysis)
	assert.Len(t, payload.Data.KeyDrivers, 3)
	assert.Equal(t, "fallback_data", payload.Source)
}

func TestFallbackTasksPayloadListsIdleSchedule(t *testing.T) {
	fallback := NewFallbackService(nil)
	body, statusCode := fallback.FallbackPayload(OpRealtimeTasks, "")

	assert.Equal(t, http.StatusOK, statusCode)

	var payload struct {
		Tasks     map[string]models.TaskState `json:"tasks"`
		Scheduler models.SchedulerState       `json:"scheduler"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))

	expectedIntervals := map[string]int64{
		models.TaskPeriodicFetch: models.TaskPeriodicFetchInterval,
		models.TaskMarketUpdate:  models.TaskMarketUpdateInterval,
		models.TaskDailyFetch:    models.TaskDailyFetchInterval,
		models.TaskWeeklyCleanup: models.TaskWeeklyCleanupInterval,
	}
	require.Len(t, payload.Tasks, len(expectedIntervals))
	for name, interval := range expectedIntervals {
		task, listed := payload.Tasks[name]
		require.True(t, listed, "task %s missing from fallback schedule", name)
		assert.Equal(t, interval, task.Interval)
		assert.Equal(t, "pending", task.Status)
		assert.Greater(t, task.NextRun, float64(0))
	}
	assert.False(t, payload.Scheduler.IsRunning)
}

func TestFallbackMetricsPayloadCarriesCacheStatistics(t *testing.T) {
	stats := models.CacheStats{
		Backend:    "memory",
		Entries:    12,
		Hits:       40,
		Misses:     8,
		MaxEntries: 1000,
		DefaultTTL: "5m0s",
	}
	fallback := NewFallbackService(staticCacheStats{stats: stats})
	body, statusCode := fallback.FallbackPayload(OpRealtimeMetrics, "")

	assert.Equal(t, http.StatusOK, statusCode)

	var payload struct {
		CacheMetrics models.CacheStats `json:"cache_metrics"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, stats, payload.CacheMetrics)
}
