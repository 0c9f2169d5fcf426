package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Query operation status labels.
const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// QueryMetrics tracks query service operations and search stages.
// A nil *QueryMetrics is valid and records nothing.
type QueryMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	searchStageTotal  *prometheus.CounterVec
	searchResults     prometheus.Histogram
}

// NewQueryMetrics creates and registers query metrics.
func NewQueryMetrics(registry *prometheus.Registry) (*QueryMetrics, error) {
	m := &QueryMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *QueryMetrics) initMetrics() {
	m.operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poetry_query_operations_total",
			Help: "Total number of query service operations",
		},
		[]string{"operation", "status"}, // status: success, not_found, error
	)

	m.operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poetry_query_operation_duration_seconds",
			Help:    "Time taken for query service operations",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
		[]string{"operation"},
	)

	m.searchStageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poetry_search_stage_total",
			Help: "Searches by the stage that served them",
		},
		[]string{"stage"}, // stage: fulltext, substring
	)

	m.searchResults = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "poetry_search_results",
		Help:    "Number of poems returned per search",
		Buckets: []float64{0, 1, 5, 10, 20, 50},
	})
}

// RecordOperation records one query service call.
func (m *QueryMetrics) RecordOperation(operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSearch records which stage served a search and how many poems it returned.
func (m *QueryMetrics) RecordSearch(stage string, results int) {
	if m == nil {
		return
	}
	m.searchStageTotal.WithLabelValues(stage).Inc()
	m.searchResults.Observe(float64(results))
}

// Describe implements the prometheus.Collector interface.
func (m *QueryMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.operationsTotal.Describe(ch)
	m.operationDuration.Describe(ch)
	m.searchStageTotal.Describe(ch)
	ch <- m.searchResults.Desc()
}

// Collect implements the prometheus.Collector interface.
func (m *QueryMetrics) Collect(ch chan<- prometheus.Metric) {
	m.operationsTotal.Collect(ch)
	m.operationDuration.Collect(ch)
	m.searchStageTotal.Collect(ch)
	ch <- m.searchResults
}
