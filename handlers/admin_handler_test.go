package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRefreshFillsSnapshot(t *testing.T) {
	backend := newLiveBackend(t)
	stack := buildTestStack(t, backend.URL)

	response, body := performRequest(t, stack.app, http.MethodPost, "/api/admin/refresh")
	assert.Equal(t, http.StatusOK, response.StatusCode)

	decoded := decodeJSON(t, body)
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "Snapshot refresh completed", decoded["message"])
	assert.Equal(t, float64(3), decoded["records"])
	assert.Equal(t, "live", decoded["source"])
	assert.NotEmpty(t, decoded["duration"])

	assert.Equal(t, 3, stack.snapshots.Count())
}

func TestAdminRefreshReportsSkipWhileRefreshInFlight(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/gemini-ipo/ipos" {
			<-release
		}
		w.Write([]byte(`{"status":"success","data":[],"count":0,"source":"gemini_ai"}`))
	}))
	defer server.Close()

	stack := buildTestStack(t, server.URL)

	refreshDone := make(chan struct{})
	go func() {
		stack.poller.RunOnce(context.Background())
		close(refreshDone)
	}()
	require.Eventually(t, stack.poller.IsRunning, time.Second, 5*time.Millisecond)

	_, body := performRequest(t, stack.app, http.MethodPost, "/api/admin/refresh")
	decoded := decodeJSON(t, body)
	assert.Equal(t, true, decoded["success"])
	assert.Contains(t, decoded["message"], "already in progress")

	close(release)
	<-refreshDone
}

func TestAdminMetricsReportsSubsystems(t *testing.T) {
	backend := newLiveBackend(t)
	stack := buildTestStack(t, backend.URL)
	performRequest(t, stack.app, http.MethodPost, "/api/admin/refresh")

	_, body := performRequest(t, stack.app, http.MethodGet, "/api/admin/metrics")
	decoded := decodeJSON(t, body)
	data := mapField(t, decoded, "data")

	snapshot := mapField(t, data, "snapshot")
	assert.Equal(t, float64(3), snapshot["records"])
	assert.Equal(t, "live", snapshot["source"])
	assert.NotEmpty(t, snapshot["age"])

	cacheStats := mapField(t, data, "cache")
	assert.Equal(t, "memory", cacheStats["backend"])

	gateway := mapField(t, data, "gateway")
	iposMetrics := mapField(t, gateway, "gemini_ipos")
	assert.Equal(t, float64(1), iposMetrics["attempts"])
	assert.Equal(t, float64(1), iposMetrics["live_responses"])
}

func TestAdminClearCacheEmptiesStore(t *testing.T) {
	stack := buildUnreachableStack(t)

	stack.cache.Set(context.Background(), "dashboard:market_sentiment", []byte(`{"cached":true}`))
	require.Equal(t, 1, stack.cache.Size())

	response, body := performRequest(t, stack.app, http.MethodDelete, "/api/admin/cache")
	assert.Equal(t, http.StatusOK, response.StatusCode)

	decoded := decodeJSON(t, body)
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "Cache cleared", decoded["message"])
	assert.Equal(t, 0, stack.cache.Size())
}
