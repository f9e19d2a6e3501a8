// Package metrics provides Prometheus metrics for the crewplan allocation
// service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the crewplan service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Core business metrics - what the allocation engine actually does
	runsTotal       *prometheus.CounterVec
	runDuration     prometheus.Histogram
	runCost         prometheus.Histogram
	tasksAssigned   prometheus.Counter
	tasksUnassigned prometheus.Counter
	rejections      *prometheus.CounterVec

	// Repair pass metrics
	repairStrips        prometheus.Counter
	replacementSearches *prometheus.CounterVec

	// Operational health metrics
	rosterSize   prometheus.Gauge
	runStoreSize prometheus.Gauge

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "crewplan",
		subsystem:        "allocation",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Total allocation runs by draft source (deterministic or external)",
	}, []string{"source"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "Histogram of end-to-end allocation run duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.runCost = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_cost",
		Help:      "Histogram of total estimated cost per run",
		Buckets:   prometheus.ExponentialBuckets(100, 4, 10),
	})

	m.tasksAssigned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tasks_assigned_total",
		Help:      "Total tasks that ended a run with at least one assignee",
	})

	m.tasksUnassigned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tasks_unassigned_total",
		Help:      "Total tasks that ended a run with no assignee",
	})

	m.rejections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rejections_total",
		Help:      "Total candidate rejections by reason",
	}, []string{"reason"})

	m.repairStrips = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repair_strips_total",
		Help:      "Total assignees stripped by the domain repair pass",
	})

	m.replacementSearches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replacement_searches_total",
		Help:      "Total repair replacement searches by outcome (found or empty)",
	}, []string{"outcome"})

	m.rosterSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_size",
		Help:      "Employees currently in the directory snapshot",
	})

	m.runStoreSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_store_size",
		Help:      "Allocation results currently retained in the run store",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by endpoint, method, and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "errors_total",
		Help:      "Total HTTP error responses by endpoint and error type",
	}, []string{"endpoint", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_bytes",
		Help:      "Current allocated heap bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current number of goroutines",
	})
}

// GetRegistry returns the custom Prometheus registry used for exposition.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// fixedReasons keeps the rejection label cardinality bounded: the workload
// variant carries a free-form percentage in the result payload but is folded
// to one label value here.
var fixedReasons = map[string]struct{}{
	"Wrong domain":       {},
	"Over budget":        {},
	"High stress":        {},
	"Fully booked":       {},
	"Partial skills":     {},
	"Better match found": {},
}

// RecordRun counts a finished run and observes its duration.
func RecordRun(source string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.runsTotal.WithLabelValues(source).Inc()
	globalManager.runDuration.Observe(durationMs)
}

// RecordRunCost observes the total estimated cost of a run.
func RecordRunCost(cost float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.runCost.Observe(cost)
}

// RecordTaskOutcomes counts assigned and unassigned tasks of a finished run.
func RecordTaskOutcomes(assigned, unassigned int) {
	if !globalManager.enabled {
		return
	}
	globalManager.tasksAssigned.Add(float64(assigned))
	globalManager.tasksUnassigned.Add(float64(unassigned))
}

// RecordRejection counts one rejection by reason.
func RecordRejection(reason string) {
	if !globalManager.enabled {
		return
	}
	if _, ok := fixedReasons[reason]; !ok {
		reason = "Workload cap"
	}
	globalManager.rejections.WithLabelValues(reason).Inc()
}

// RecordRepairStrip counts one assignee stripped by the repair pass.
func RecordRepairStrip() {
	if !globalManager.enabled {
		return
	}
	globalManager.repairStrips.Inc()
}

// RecordReplacementSearch counts one repair replacement search.
func RecordReplacementSearch(found bool) {
	if !globalManager.enabled {
		return
	}
	outcome := "empty"
	if found {
		outcome = "found"
	}
	globalManager.replacementSearches.WithLabelValues(outcome).Inc()
}

// UpdateRosterSize sets the roster size gauge.
func UpdateRosterSize(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.rosterSize.Set(float64(n))
}

// UpdateRunStoreSize sets the run store size gauge.
func UpdateRunStoreSize(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.runStoreSize.Set(float64(n))
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

// RecordErrorByEndpoint counts one HTTP error response.
func RecordErrorByEndpoint(endpoint, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(n))
}
