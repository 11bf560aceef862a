package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for tasks_settled_total.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// MetricsConfig configures TaskMetrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "storekit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "async").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for task duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures TaskMetrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "storekit",
		Subsystem: "async",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// TaskMetrics records task tracker activity. All series carry a "task"
// label holding the tracker name.
//
// Metrics collected:
//   - storekit_async_tasks_started_total: invocations started
//   - storekit_async_tasks_settled_total: settlements by outcome
//   - storekit_async_tasks_skipped_total: re-executions ignored while in flight
//   - storekit_async_tasks_in_flight: invocations currently outstanding
//   - storekit_async_task_duration_seconds: time from start to settlement
//
// Constructing two TaskMetrics against the same registry panics, as with
// any duplicate Prometheus registration.
type TaskMetrics struct {
	started  *prometheus.CounterVec
	settled  *prometheus.CounterVec
	skipped  *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
	duration *prometheus.HistogramVec
}

// NewTaskMetrics creates and registers the task collectors.
func NewTaskMetrics(opts ...MetricsOption) *TaskMetrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Buckets == nil {
		config.Buckets = prometheus.DefBuckets
	}

	factory := promauto.With(config.Registry)

	return &TaskMetrics{
		started: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tasks_started_total",
			Help:        "Total number of async task invocations started",
			ConstLabels: config.ConstLabels,
		}, []string{"task"}),

		settled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tasks_settled_total",
			Help:        "Total number of async task invocations settled, by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"task", "outcome"}),

		skipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tasks_skipped_total",
			Help:        "Total number of re-executions ignored because an invocation was in flight",
			ConstLabels: config.ConstLabels,
		}, []string{"task"}),

		inFlight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tasks_in_flight",
			Help:        "Number of async task invocations currently outstanding",
			ConstLabels: config.ConstLabels,
		}, []string{"task"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "task_duration_seconds",
			Help:        "Async task duration from invocation to settlement in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"task"}),
	}
}

// Started records the start of an invocation.
func (m *TaskMetrics) Started(task string) {
	if m == nil {
		return
	}
	m.started.WithLabelValues(task).Inc()
	m.inFlight.WithLabelValues(task).Inc()
}

// Settled records the settlement of an invocation that ran for d.
func (m *TaskMetrics) Settled(task string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.settled.WithLabelValues(task, outcome).Inc()
	m.inFlight.WithLabelValues(task).Dec()
	m.duration.WithLabelValues(task).Observe(d.Seconds())
}

// Skipped records a re-execution that found an invocation in flight.
func (m *TaskMetrics) Skipped(task string) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(task).Inc()
}
