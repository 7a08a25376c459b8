package export

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"retreehawaii/mailexport/pkg/config"
)

// Metrics tracks export runs.
//
// Metrics:
//   - mailexport_rows_exported_total: Rows written by job
//   - mailexport_export_failures_total: Failed exports by job and error kind
//   - mailexport_export_duration_seconds: Export duration by job and status
//   - mailexport_last_success_timestamp_seconds: Unix time of the last successful export by job
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	rowsExported *prometheus.CounterVec
	failures     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	lastSuccess  *prometheus.GaugeVec
}

// NewMetrics creates export metrics and registers them with registry. A
// nil registry gets a fresh private one.
func NewMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	namespace := config.DefaultMetricsNamespace
	if cfg != nil && cfg.Namespace != "" {
		namespace = cfg.Namespace
	}

	m := &Metrics{
		registry: registry,

		rowsExported: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_exported_total",
				Help:      "Total number of rows written to export files",
			},
			[]string{"job"},
		),

		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "export_failures_total",
				Help:      "Total number of failed exports",
			},
			[]string{"job", "kind"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "export_duration_seconds",
				Help:      "Duration of table exports in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"job", "status"},
		),

		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful export",
			},
			[]string{"job"},
		),
	}

	registry.MustRegister(
		m.rowsExported,
		m.failures,
		m.duration,
		m.lastSuccess,
	)

	return m
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordSuccess records a completed export of rows records.
func (m *Metrics) RecordSuccess(job string, rows int, duration time.Duration) {
	if m == nil {
		return
	}
	m.rowsExported.WithLabelValues(job).Add(float64(rows))
	m.duration.WithLabelValues(job, "success").Observe(duration.Seconds())
	m.lastSuccess.WithLabelValues(job).SetToCurrentTime()
}

// RecordFailure records a failed export.
//
// Parameters:
//   - job: Export job name
//   - kind: Error kind as returned by ErrorKind
//   - duration: Time spent before the failure
func (m *Metrics) RecordFailure(job, kind string, duration time.Duration) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(job, kind).Inc()
	m.duration.WithLabelValues(job, "error").Observe(duration.Seconds())
}

// WriteTextfile writes all gathered metrics to path in the text exposition
// format read by the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
