package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealtimeStartForwardsToBackend(t *testing.T) {
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{"status":"started","message":"Real-time IPO service started successfully"}`))
	}))
	defer server.Close()

	stack := buildTestStack(t, server.URL)

	response, body := performRequest(t, stack.app, http.MethodPost, "/api/realtime-ipo/start")
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "/api/realtime-ipo/start", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "started", decodeJSON(t, body)["status"])
}

func TestRealtimeForceTaskEchoesTaskTypeParam(t *testing.T) {
	stack := buildUnreachableStack(t)

	response, body := performRequest(t, stack.app, http.MethodPost, "/api/realtime-ipo/force-task/market_update")
	assert.Equal(t, http.StatusOK, response.StatusCode)

	decoded := decodeJSON(t, body)
	assert.Equal(t, "triggered", decoded["status"])
	assert.Equal(t, "market_update", decoded["task_type"])
	assert.Contains(t, decoded["message"], "market_update")
}

func TestRealtimeForceTaskAppendsParamUpstream(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"status":"triggered"}`))
	}))
	defer server.Close()

	stack := buildTestStack(t, server.URL)

	performRequest(t, stack.app, http.MethodPost, "/api/realtime-ipo/force-task/daily_fetch")
	assert.Equal(t, "/api/realtime-ipo/force-task/daily_fetch", gotPath)
}

func TestRealtimeTasksFallbackListsSchedule(t *testing.T) {
	stack := buildUnreachableStack(t)

	_, body := performRequest(t, stack.app, http.MethodGet, "/api/realtime-ipo/tasks")
	decoded := decodeJSON(t, body)

	tasks := mapField(t, decoded, "tasks")
	require.Len(t, tasks, 4)
	for _, name := range []string{"periodic_fetch", "market_update", "daily_fetch", "weekly_cleanup"} {
		task := mapField(t, tasks, name)
		assert.Equal(t, "pending", task["status"])
	}

	scheduler := mapField(t, decoded, "scheduler")
	assert.Equal(t, false, scheduler["is_running"])
}

func TestRealtimeStatusFallbackWhenDown(t *testing.T) {
	stack := buildUnreachableStack(t)

	response, body := performRequest(t, stack.app, http.MethodGet, "/api/realtime-ipo/status")
	assert.Equal(t, http.StatusOK, response.StatusCode)

	decoded := decodeJSON(t, body)
	service := mapField(t, decoded, "service")
	assert.Equal(t, false, service["is_running"])

	sources, ok := service["sources"].([]interface{})
	require.True(t, ok)
	assert.Len(t, sources, 4)
}

func TestRealtimeMetricsFallbackCarriesCacheStats(t *testing.T) {
	stack := buildUnreachableStack(t)

	_, body := performRequest(t, stack.app, http.MethodGet, "/api/realtime-ipo/metrics")
	decoded := decodeJSON(t, body)

	serviceMetrics := mapField(t, decoded, "service_metrics")
	assert.Equal(t, false, serviceMetrics["is_running"])

	cacheMetrics := mapField(t, decoded, "cache_metrics")
	assert.Equal(t, "memory", cacheMetrics["backend"])
}
