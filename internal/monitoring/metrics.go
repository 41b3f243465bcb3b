package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application metrics
type Metrics struct {
	RequestCount        int64
	ErrorCount          int64
	CacheHits           int64
	CacheMisses         int64
	DatasetLoads        int64
	Evaluations         int64
	AverageResponseTime int64 // in nanoseconds
	StartTime           time.Time

	// Response time samples for percentile calculation
	ResponseTimes      []time.Duration
	ResponseTimesMutex sync.RWMutex

	// Status code tracking
	RequestCountByStatus map[int]int64
	StatusMutex          sync.RWMutex
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:            time.Now(),
		ResponseTimes:        make([]time.Duration, 0, 1000),
		RequestCountByStatus: make(map[int]int64),
	}
}

// IncrementRequest increments the request count
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementCacheHit increments cache hit count
func (m *Metrics) IncrementCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

// IncrementCacheMiss increments cache miss count
func (m *Metrics) IncrementCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// IncrementDatasetLoads increments the dataset load count
func (m *Metrics) IncrementDatasetLoads() {
	atomic.AddInt64(&m.DatasetLoads, 1)
}

// IncrementEvaluations increments the business evaluation count
func (m *Metrics) IncrementEvaluations() {
	atomic.AddInt64(&m.Evaluations, 1)
}

// RecordResponseTime records a response time sample
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	m.ResponseTimesMutex.Lock()
	defer m.ResponseTimesMutex.Unlock()

	// Keep the sample buffer bounded; drop the oldest half when full
	if len(m.ResponseTimes) >= 1000 {
		m.ResponseTimes = m.ResponseTimes[500:]
	}
	m.ResponseTimes = append(m.ResponseTimes, duration)

	total := time.Duration(0)
	for _, d := range m.ResponseTimes {
		total += d
	}
	atomic.StoreInt64(&m.AverageResponseTime, int64(total)/int64(len(m.ResponseTimes)))
}

// RecordRequestByStatus records a request by status code
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.StatusMutex.Lock()
	defer m.StatusMutex.Unlock()
	m.RequestCountByStatus[statusCode]++
}

// percentile returns the given percentile of the recorded response times
func (m *Metrics) percentile(p float64) time.Duration {
	m.ResponseTimesMutex.RLock()
	defer m.ResponseTimesMutex.RUnlock()

	if len(m.ResponseTimes) == 0 {
		return 0
	}

	sorted := append([]time.Duration(nil), m.ResponseTimes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

// GetStats returns a snapshot of the current metrics
func (m *Metrics) GetStats() map[string]interface{} {
	m.StatusMutex.RLock()
	byStatus := make(map[int]int64, len(m.RequestCountByStatus))
	for k, v := range m.RequestCountByStatus {
		byStatus[k] = v
	}
	m.StatusMutex.RUnlock()

	return map[string]interface{}{
		"request_count":      atomic.LoadInt64(&m.RequestCount),
		"error_count":        atomic.LoadInt64(&m.ErrorCount),
		"cache_hits":         atomic.LoadInt64(&m.CacheHits),
		"cache_misses":       atomic.LoadInt64(&m.CacheMisses),
		"dataset_loads":      atomic.LoadInt64(&m.DatasetLoads),
		"evaluations":        atomic.LoadInt64(&m.Evaluations),
		"avg_response_ms":    time.Duration(atomic.LoadInt64(&m.AverageResponseTime)).Milliseconds(),
		"p50_response_ms":    m.percentile(0.50).Milliseconds(),
		"p95_response_ms":    m.percentile(0.95).Milliseconds(),
		"p99_response_ms":    m.percentile(0.99).Milliseconds(),
		"requests_by_status": byStatus,
		"uptime_seconds":     time.Since(m.StartTime).Seconds(),
	}
}
