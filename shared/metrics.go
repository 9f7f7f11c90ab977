package shared

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ServiceMetrics tracks performance and success metrics for services
type ServiceMetrics struct {
	ServiceName           string                 `json:"service_name"`
	TotalRequests         int64                  `json:"total_requests"`
	SuccessfulRequests    int64                  `json:"successful_requests"`
	FailedRequests        int64                  `json:"failed_requests"`
	TotalProcessingTime   time.Duration          `json:"total_processing_time"`
	AverageProcessingTime time.Duration          `json:"average_processing_time"`
	LastUpdated           time.Time              `json:"last_updated"`
	CustomMetrics         map[string]interface{} `json:"custom_metrics"`
	PerformanceMetrics    *PerformanceMetrics    `json:"performance_metrics"`
	mutex                 sync.RWMutex
}

// NewServiceMetrics creates a new metrics tracker for a service
func NewServiceMetrics(serviceName string) *ServiceMetrics {
	return &ServiceMetrics{
		ServiceName:        serviceName,
		LastUpdated:        time.Now(),
		CustomMetrics:      make(map[string]interface{}),
		PerformanceMetrics: NewPerformanceMetrics(),
	}
}

// RecordRequest records a request with its success status and processing time
func (m *ServiceMetrics) RecordRequest(success bool, processingTime time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalRequests++
	m.TotalProcessingTime += processingTime
	m.AverageProcessingTime = time.Duration(int64(m.TotalProcessingTime) / m.TotalRequests)

	if success {
		m.SuccessfulRequests++
	} else {
		m.FailedRequests++
	}

	m.LastUpdated = time.Now()

	// Record performance metrics
	if m.PerformanceMetrics != nil {
		m.PerformanceMetrics.RecordProcessingTime(processingTime)
	}
}

// GetSuccessRate returns the success rate as a percentage
func (m *ServiceMetrics) GetSuccessRate() float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.TotalRequests == 0 {
		return 0.0
	}

	return float64(m.SuccessfulRequests) / float64(m.TotalRequests) * 100.0
}

// GetFailureRate returns the failure rate as a percentage
func (m *ServiceMetrics) GetFailureRate() float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.TotalRequests == 0 {
		return 0.0
	}

	return float64(m.FailedRequests) / float64(m.TotalRequests) * 100.0
}

// SetCustomMetric sets a custom metric value
func (m *ServiceMetrics) SetCustomMetric(key string, value interface{}) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.CustomMetrics[key] = value
	m.LastUpdated = time.Now()
}

// IncrementCustomCounter increments a custom counter metric
func (m *ServiceMetrics) IncrementCustomCounter(key string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if current, exists := m.CustomMetrics[key]; exists {
		if count, ok := current.(int64); ok {
			m.CustomMetrics[key] = count + 1
		} else {
			m.CustomMetrics[key] = int64(1)
		}
	} else {
		m.CustomMetrics[key] = int64(1)
	}
	m.LastUpdated = time.Now()
}

// GetSnapshot returns a thread-safe snapshot of current metrics
func (m *ServiceMetrics) GetSnapshot() ServiceMetrics {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	// Create a deep copy of custom metrics
	customMetricsCopy := make(map[string]interface{})
	for k, v := range m.CustomMetrics {
		customMetricsCopy[k] = v
	}

	return ServiceMetrics{
		ServiceName:           m.ServiceName,
		TotalRequests:         m.TotalRequests,
		SuccessfulRequests:    m.SuccessfulRequests,
		FailedRequests:        m.FailedRequests,
		TotalProcessingTime:   m.TotalProcessingTime,
		AverageProcessingTime: m.AverageProcessingTime,
		LastUpdated:           m.LastUpdated,
		CustomMetrics:         customMetricsCopy,
		PerformanceMetrics:    m.PerformanceMetrics,
	}
}

// LogSummary logs a comprehensive metrics summary
func (m *ServiceMetrics) LogSummary() {
	snapshot := m.GetSnapshot()
	performanceSnapshot := snapshot.PerformanceMetrics.GetPerformanceSnapshot()

	logrus.WithFields(logrus.Fields{
		"service_name":            snapshot.ServiceName,
		"total_requests":          snapshot.TotalRequests,
		"successful_requests":     snapshot.SuccessfulRequests,
		"failed_requests":         snapshot.FailedRequests,
		"success_rate":            snapshot.GetSuccessRate(),
		"failure_rate":            snapshot.GetFailureRate(),
		"average_processing_time": snapshot.AverageProcessingTime,
		"total_processing_time":   snapshot.TotalProcessingTime,
		"min_processing_time":     performanceSnapshot.MinProcessingTime,
		"max_processing_time":     performanceSnapshot.MaxProcessingTime,
		"p95_processing_time":     performanceSnapshot.P95ProcessingTime,
		"p99_processing_time":     performanceSnapshot.P99ProcessingTime,
		"last_updated":            snapshot.LastUpdated,
		"custom_metrics":          snapshot.CustomMetrics,
	}).Info("Service metrics summary")
}

// ProxyOperationMetrics tracks upstream attempts for one proxy operation.
// LiveResponses counts verbatim passthroughs; FallbackResponses counts
// substituted payloads, broken down by failure category.
type ProxyOperationMetrics struct {
	Attempts          int64               `json:"attempts"`
	LiveResponses     int64               `json:"live_responses"`
	FallbackResponses int64               `json:"fallback_responses"`
	StatusCodeCounts  map[int]int64       `json:"status_code_counts"`
	FailureCategories map[string]int64    `json:"failure_categories"`
	TotalLatency      time.Duration       `json:"total_latency"`
	AverageLatency    time.Duration       `json:"average_latency"`
	Performance       *PerformanceMetrics `json:"performance"`
}

// GatewayMetrics aggregates proxy accounting across all operations
type GatewayMetrics struct {
	operations map[string]*ProxyOperationMetrics
	mutex      sync.RWMutex
}

// NewGatewayMetrics creates a new gateway metrics tracker
func NewGatewayMetrics() *GatewayMetrics {
	return &GatewayMetrics{
		operations: make(map[string]*ProxyOperationMetrics),
	}
}

func (gm *GatewayMetrics) operationLocked(operation string) *ProxyOperationMetrics {
	op, exists := gm.operations[operation]
	if !exists {
		op = &ProxyOperationMetrics{
			StatusCodeCounts:  make(map[int]int64),
			FailureCategories: make(map[string]int64),
			Performance:       NewPerformanceMetrics(),
		}
		gm.operations[operation] = op
	}
	return op
}

// RecordLive records a successful passthrough from upstream
func (gm *GatewayMetrics) RecordLive(operation string, statusCode int, latency time.Duration) {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	op := gm.operationLocked(operation)
	op.Attempts++
	op.LiveResponses++
	op.StatusCodeCounts[statusCode]++
	op.TotalLatency += latency
	op.AverageLatency = time.Duration(int64(op.TotalLatency) / op.Attempts)
	op.Performance.RecordProcessingTime(latency)
}

// RecordFallback records a failed attempt that was answered with the
// operation's fallback payload. statusCode is the upstream status when one
// was received, 0 for network failures.
func (gm *GatewayMetrics) RecordFallback(operation string, statusCode int, category ErrorCategory, latency time.Duration) {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	op := gm.operationLocked(operation)
	op.Attempts++
	op.FallbackResponses++
	if statusCode != 0 {
		op.StatusCodeCounts[statusCode]++
	}
	op.FailureCategories[string(category)]++
	op.TotalLatency += latency
	op.AverageLatency = time.Duration(int64(op.TotalLatency) / op.Attempts)
	op.Performance.RecordProcessingTime(latency)
}

// GetSnapshot returns a thread-safe copy of all per-operation metrics
func (gm *GatewayMetrics) GetSnapshot() map[string]ProxyOperationMetrics {
	gm.mutex.RLock()
	defer gm.mutex.RUnlock()

	snapshot := make(map[string]ProxyOperationMetrics, len(gm.operations))
	for name, op := range gm.operations {
		statusCopy := make(map[int]int64, len(op.StatusCodeCounts))
		for code, count := range op.StatusCodeCounts {
			statusCopy[code] = count
		}
		categoryCopy := make(map[string]int64, len(op.FailureCategories))
		for category, count := range op.FailureCategories {
			categoryCopy[category] = count
		}
		perf := op.Performance.GetPerformanceSnapshot()

		snapshot[name] = ProxyOperationMetrics{
			Attempts:          op.Attempts,
			LiveResponses:     op.LiveResponses,
			FallbackResponses: op.FallbackResponses,
			StatusCodeCounts:  statusCopy,
			FailureCategories: categoryCopy,
			TotalLatency:      op.TotalLatency,
			AverageLatency:    op.AverageLatency,
			Performance:       &perf,
		}
	}
	return snapshot
}

// LogSummary logs per-operation gateway metrics
func (gm *GatewayMetrics) LogSummary() {
	snapshot := gm.GetSnapshot()

	for operation, op := range snapshot {
		logrus.WithFields(logrus.Fields{
			"operation":          operation,
			"attempts":           op.Attempts,
			"live_responses":     op.LiveResponses,
			"fallback_responses": op.FallbackResponses,
			"status_codes":       op.StatusCodeCounts,
			"failure_categories": op.FailureCategories,
			"average_latency":    op.AverageLatency,
			"p95_latency":        op.Performance.P95ProcessingTime,
		}).Info("Gateway operation metrics summary")
	}
}

// PerformanceMetrics tracks detailed performance measurements
type PerformanceMetrics struct {
	MinProcessingTime time.Duration `json:"min_processing_time"`
	MaxProcessingTime time.Duration `json:"max_processing_time"`
	P95ProcessingTime time.Duration `json:"p95_processing_time"`
	P99ProcessingTime time.Duration `json:"p99_processing_time"`
	RequestsPerSecond float64       `json:"requests_per_second"`
	mutex             sync.RWMutex
	processingTimes   []time.Duration
}

// NewPerformanceMetrics creates a new performance metrics tracker
func NewPerformanceMetrics() *PerformanceMetrics {
	return &PerformanceMetrics{
		processingTimes: make([]time.Duration, 0, 1000), // Pre-allocate for 1000 samples
	}
}

// RecordProcessingTime records a processing time and updates performance metrics
func (pm *PerformanceMetrics) RecordProcessingTime(duration time.Duration) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	// Update min/max
	if pm.MinProcessingTime == 0 || duration < pm.MinProcessingTime {
		pm.MinProcessingTime = duration
	}
	if duration > pm.MaxProcessingTime {
		pm.MaxProcessingTime = duration
	}

	// Store processing time for percentile calculations (keep last 1000 samples)
	if len(pm.processingTimes) >= 1000 {
		// Remove oldest sample
		pm.processingTimes = pm.processingTimes[1:]
	}
	pm.processingTimes = append(pm.processingTimes, duration)

	// Calculate percentiles
	pm.calculatePercentiles()
}

// calculatePercentiles calculates P95 and P99 processing times
func (pm *PerformanceMetrics) calculatePercentiles() {
	if len(pm.processingTimes) == 0 {
		return
	}

	// Sort processing times for percentile calculation
	times := make([]time.Duration, len(pm.processingTimes))
	copy(times, pm.processingTimes)

	// Simple sort for percentile calculation
	for i := 0; i < len(times); i++ {
		for j := i + 1; j < len(times); j++ {
			if times[i] > times[j] {
				times[i], times[j] = times[j], times[i]
			}
		}
	}

	// Calculate P95 and P99
	p95Index := int(float64(len(times)) * 0.95)
	p99Index := int(float64(len(times)) * 0.99)

	if p95Index < len(times) {
		pm.P95ProcessingTime = times[p95Index]
	}
	if p99Index < len(times) {
		pm.P99ProcessingTime = times[p99Index]
	}
}

// GetPerformanceSnapshot returns a thread-safe snapshot of performance metrics
func (pm *PerformanceMetrics) GetPerformanceSnapshot() PerformanceMetrics {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	return PerformanceMetrics{
		MinProcessingTime: pm.MinProcessingTime,
		MaxProcessingTime: pm.MaxProcessingTime,
		P95ProcessingTime: pm.P95ProcessingTime,
		P99ProcessingTime: pm.P99ProcessingTime,
		RequestsPerSecond: pm.RequestsPerSecond,
	}
}
