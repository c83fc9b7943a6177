package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the rankings engine

var (
	// Rebuild metrics
	RebuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rankings_rebuilds_total",
			Help: "Total number of rebuild runs",
		},
		[]string{"kind", "status"},
	)

	RebuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rankings_rebuild_duration_seconds",
			Help:    "Duration of rebuild runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"kind"},
	)

	CohortSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rankings_cohort_size",
			Help: "Number of users in the last rebuilt cohort",
		},
		[]string{"kind"},
	)

	RowsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rankings_rows_written_total",
			Help: "Total number of documents written by rebuilds",
		},
		[]string{"table"},
	)

	// Batch commit metrics
	BatchesCommitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rankings_batches_committed_total",
			Help: "Total number of batch transactions committed",
		},
		[]string{"table"},
	)

	BatchOps = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rankings_batch_ops",
			Help:    "Logical operations per committed batch",
			Buckets: []float64{1, 10, 50, 100, 200, 300, 450},
		},
		[]string{"table"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rankings_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rankings_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulRebuild = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rankings_last_successful_rebuild_timestamp",
			Help: "Timestamp of the last successful rebuild per kind",
		},
		[]string{"kind"},
	)
)

// RecordRebuild records a rebuild run
func RecordRebuild(kind, status string, duration float64) {
	RebuildsTotal.WithLabelValues(kind, status).Inc()
	RebuildDuration.WithLabelValues(kind).Observe(duration)

	if status == "success" {
		LastSuccessfulRebuild.WithLabelValues(kind).SetToCurrentTime()
	}
}

// RecordBatchCommit records one committed batch transaction
func RecordBatchCommit(table string, ops int) {
	BatchesCommitted.WithLabelValues(table).Inc()
	BatchOps.WithLabelValues(table).Observe(float64(ops))
	RowsWritten.WithLabelValues(table).Add(float64(ops))
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
