package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fenilmodi00/ipo-dashboard-backend/models"
	"github.com/fenilmodi00/ipo-dashboard-backend/shared"
	"github.com/sirupsen/logrus"
)

// Proxy operation names. Handlers and jobs refer to operations by these keys;
// the registry below binds each one to its upstream path and method.
const (
	OpGeminiStatus          = "gemini_status"
	OpGeminiInitialize      = "gemini_initialize"
	OpGeminiTestConnection  = "gemini_test_connection"
	OpGeminiIPOs            = "gemini_ipos"
	OpGeminiMarketSentiment = "gemini_market_sentiment"
	OpGeminiForceUpdate     = "gemini_force_update"
	OpGeminiStartDaily      = "gemini_start_daily_updates"
	OpGeminiStopDaily       = "gemini_stop_daily_updates"
	OpRealtimeStart         = "realtime_start"
	OpRealtimeStop          = "realtime_stop"
	OpRealtimeStatus        = "realtime_status"
	OpRealtimeMetrics       = "realtime_metrics"
	OpRealtimeTasks         = "realtime_tasks"
	OpRealtimeForceTask     = "realtime_force_task"
)

// upstreamEndpoint binds a proxy operation to its backend path and method.
type upstreamEndpoint struct {
	path   string
	method string
}

var operationRegistry = map[string]upstreamEndpoint{
	OpGeminiStatus:          {path: "/api/gemini-ipo/status", method: http.MethodGet},
	OpGeminiInitialize:      {path: "/api/gemini-ipo/initialize", method: http.MethodPost},
	OpGeminiTestConnection:  {path: "/api/gemini-ipo/test-connection", method: http.MethodGet},
	OpGeminiIPOs:            {path: "/api/gemini-ipo/ipos", method: http.MethodGet},
	OpGeminiMarketSentiment: {path: "/api/gemini-ipo/market-sentiment", method: http.MethodGet},
	OpGeminiForceUpdate:     {path: "/api/gemini-ipo/force-update", method: http.MethodPost},
	OpGeminiStartDaily:      {path: "/api/gemini-ipo/start-daily-updates", method: http.MethodPost},
	OpGeminiStopDaily:       {path: "/api/gemini-ipo/stop-daily-updates", method: http.MethodPost},
	OpRealtimeStart:         {path: "/api/realtime-ipo/start", method: http.MethodPost},
	OpRealtimeStop:          {path: "/api/realtime-ipo/stop", method: http.MethodPost},
	OpRealtimeStatus:        {path: "/api/realtime-ipo/status", method: http.MethodGet},
	OpRealtimeMetrics:       {path: "/api/realtime-ipo/metrics", method: http.MethodGet},
	OpRealtimeTasks:         {path: "/api/realtime-ipo/tasks", method: http.MethodGet},
	OpRealtimeForceTask:     {path: "/api/realtime-ipo/force-task", method: http.MethodPost},
}

// ProxyResult is the typed outcome of one proxy operation. Source tells the
// caller whether Body is the upstream's live answer or a substituted
// fallback; Err carries the classified failure in the fallback case.
type ProxyResult struct {
	Source     models.DataSource
	StatusCode int
	Body       []byte
	Err        error
}

// GatewayService proxies control operations to the configured backend. Each
// operation issues exactly one upstream request; any failure (network,
// status, payload shape) substitutes that operation's static fallback so
// callers always receive a renderable body.
type GatewayService struct {
	backendURL     string
	httpTimeout    time.Duration
	httpFactory    *shared.HTTPClientFactory
	fallback       shared.FallbackStrategy
	gatewayMetrics *shared.GatewayMetrics
	serviceMetrics *shared.ServiceMetrics
}

// NewGatewayService creates a new gateway service instance
func NewGatewayService(backendURL string, httpTimeout time.Duration, fallback shared.FallbackStrategy) *GatewayService {
	return &GatewayService{
		backendURL:     backendURL,
		httpTimeout:    httpTimeout,
		httpFactory:    shared.NewHTTPClientFactory(httpTimeout),
		fallback:       fallback,
		gatewayMetrics: shared.NewGatewayMetrics(),
		serviceMetrics: shared.NewServiceMetrics("Gateway_Service"),
	}
}

// Proxy executes one operation against the backend. pathParam is appended to
// the upstream path for operations that carry one (force-task); requestBody
// is forwarded when non-empty.
func (s *GatewayService) Proxy(ctx context.Context, operation string, pathParam string, requestBody []byte) ProxyResult {
	startTime := time.Now()

	logger := logrus.WithFields(logrus.Fields{
		"component": "GatewayService",
		"operation": operation,
	})

	endpoint, registered := operationRegistry[operation]
	if !registered {
		serviceError := shared.NewServiceError(
			shared.ErrorCategoryConfiguration,
			"OPERATION_UNKNOWN",
			fmt.Sprintf("No upstream binding for operation %q", operation),
			"Gateway_Service",
			operation,
			false,
			nil,
		)
		serviceError.LogError()
		return s.fallbackResult(operation, pathParam, 0, serviceError, startTime)
	}

	upstreamURL := s.backendURL + endpoint.path
	if pathParam != "" {
		upstreamURL += "/" + pathParam
	}

	var bodyReader io.Reader
	if len(requestBody) > 0 {
		bodyReader = bytes.NewReader(requestBody)
	}

	request, err := http.NewRequestWithContext(ctx, endpoint.method, upstreamURL, bodyReader)
	if err != nil {
		serviceError := shared.NewServiceError(
			shared.ErrorCategoryConfiguration,
			"REQUEST_BUILD_FAILED",
			fmt.Sprintf("Failed to build upstream request for %s", upstreamURL),
			"Gateway_Service",
			operation,
			false,
			err,
		)
		serviceError.LogError()
		return s.fallbackResult(operation, pathParam, 0, serviceError, startTime)
	}
	shared.SetJSONHeaders(request)

	client := s.httpFactory.CreateOptimizedHTTPClient(s.httpTimeout)

	response, err := client.Do(request)
	if err != nil {
		serviceError := shared.NewServiceError(
			shared.ErrorCategoryNetwork,
			"UPSTREAM_UNREACHABLE",
			fmt.Sprintf("Upstream request to %s failed", upstreamURL),
			"Gateway_Service",
			operation,
			true,
			err,
		)
		serviceError.LogError()
		return s.fallbackResult(operation, pathParam, 0, serviceError, startTime)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		serviceError := shared.NewServiceError(
			shared.ErrorCategoryNetwork,
			"UPSTREAM_BODY_READ_FAILED",
			fmt.Sprintf("Failed to read upstream response from %s", upstreamURL),
			"Gateway_Service",
			operation,
			true,
			err,
		)
		serviceError.LogError()
		return s.fallbackResult(operation, pathParam, 0, serviceError, startTime)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		serviceError := shared.NewServiceError(
			shared.ErrorCategoryUpstreamStatus,
			"UPSTREAM_STATUS",
			fmt.Sprintf("Upstream answered %d for %s", response.StatusCode, upstreamURL),
			"Gateway_Service",
			operation,
			response.StatusCode >= 500,
			nil,
		)
		serviceError.LogError()
		return s.fallbackResult(operation, pathParam, response.StatusCode, serviceError, startTime)
	}

	if !json.Valid(responseBody) {
		serviceError := shared.NewServiceError(
			shared.ErrorCategoryPayload,
			"UPSTREAM_PAYLOAD_NOT_JSON",
			fmt.Sprintf("Upstream body from %s is not JSON", upstreamURL),
			"Gateway_Service",
			operation,
			false,
			nil,
		)
		serviceError.LogError()
		return s.fallbackResult(operation, pathParam, response.StatusCode, serviceError, startTime)
	}

	latency := time.Since(startTime)
	s.gatewayMetrics.RecordLive(operation, response.StatusCode, latency)
	s.serviceMetrics.RecordRequest(true, latency)

	logger.WithFields(logrus.Fields{
		"status_code": response.StatusCode,
		"duration":    latency,
		"bytes":       len(responseBody),
	}).Debug("Proxied operation served live")

	return ProxyResult{
		Source:     models.SourceLive,
		StatusCode: response.StatusCode,
		Body:       responseBody,
	}
}

// fallbackResult substitutes the operation's static payload after a failed
// attempt and records the failure category.
func (s *GatewayService) fallbackResult(operation, pathParam string, upstreamStatus int, serviceError *shared.ServiceError, startTime time.Time) ProxyResult {
	body, statusCode := s.fallback.FallbackPayload(operation, pathParam)

	latency := time.Since(startTime)
	s.gatewayMetrics.RecordFallback(operation, upstreamStatus, serviceError.GetCategory(), latency)
	s.serviceMetrics.RecordRequest(false, latency)

	logrus.WithFields(logrus.Fields{
		"component":       "GatewayService",
		"operation":       operation,
		"category":        serviceError.GetCategory(),
		"upstream_status": upstreamStatus,
		"fallback_status": statusCode,
		"duration":        latency,
	}).Warn("Proxied operation served fallback")

	return ProxyResult{
		Source:     models.SourceFallback,
		StatusCode: statusCode,
		Body:       body,
		Err:        serviceError,
	}
}

// ipoEnvelope is the upstream record-list wrapper shared by the ipos and
// force-update operations.
type ipoEnvelope struct {
	Status string                `json:"status"`
	Data   []models.RawIPORecord `json:"data"`
	Count  int                   `json:"count"`
	Source string                `json:"source"`
}

// FetchIPOData runs the ipos operation and unpacks the record envelope.
// The source return tells the caller whether records are live or fallback.
func (s *GatewayService) FetchIPOData(ctx context.Context) ([]models.RawIPORecord, models.DataSource, error) {
	result := s.Proxy(ctx, OpGeminiIPOs, "", nil)

	var envelope ipoEnvelope
	if err := json.Unmarshal(result.Body, &envelope); err != nil {
		serviceError := shared.NewServiceError(
			shared.ErrorCategoryPayload,
			"IPO_ENVELOPE_MALFORMED",
			"IPO payload did not match the expected envelope",
			"Gateway_Service",
			OpGeminiIPOs,
			false,
			err,
		)
		serviceError.LogError()
		return nil, result.Source, serviceError
	}

	return envelope.Data, result.Source, nil
}

// ProbeStatus runs the status operation and reports whether the upstream
// answered it live. Used by the dashboard to decide when an empty record
// list means "backend down" rather than "quiet market".
func (s *GatewayService) ProbeStatus(ctx context.Context) bool {
	result := s.Proxy(ctx, OpGeminiStatus, "", nil)
	return result.Source == models.SourceLive
}

// BackendURL returns the configured upstream origin.
func (s *GatewayService) BackendURL() string {
	return s.backendURL
}

// GetGatewayMetrics returns per-operation proxy metrics
func (s *GatewayService) GetGatewayMetrics() *shared.GatewayMetrics {
	return s.gatewayMetrics
}

// GetServiceMetrics returns the current service metrics
func (s *GatewayService) GetServiceMetrics() *shared.ServiceMetrics {
	return s.serviceMetrics
}

// LogMetricsSummary logs comprehensive metrics summary
func (s *GatewayService) LogMetricsSummary() {
	s.gatewayMetrics.LogSummary()
	s.serviceMetrics.LogSummary()
}

// CleanupResources releases pooled HTTP clients.
func (s *GatewayService) CleanupResources() {
	s.httpFactory.CleanupAllClients()
}
