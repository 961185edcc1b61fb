package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "employee_data_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// CacheHits tracks employee cache hits and misses
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "employee_data_cache_hits_total",
			Help: "Number of employee cache lookups by outcome",
		},
		[]string{"operation"},
	)

	// DatabaseOperations tracks repository operations
	DatabaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "employee_data_database_operations_total",
			Help: "Number of repository operations",
		},
		[]string{"operation", "status"},
	)

	// StepUpdates counts step applications by outcome
	StepUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "employee_step_updates_total",
			Help: "Number of employee step updates",
		},
		[]string{"step", "status"},
	)

	// ValidationFailures counts rejected fields by error kind
	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "employee_validation_failures_total",
			Help: "Number of field validation failures",
		},
		[]string{"kind"},
	)

	// UpdateProgress observes the completion percentage after each update
	UpdateProgress = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "employee_update_progress_percent",
			Help:    "Employee record completion percentage after a step update",
			Buckets: []float64{0, 17, 33, 50, 67, 83, 100},
		},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "employee_data_active_connections",
			Help: "Number of active connections",
		},
	)
)
