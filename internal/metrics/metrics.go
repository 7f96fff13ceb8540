package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "opendcat"
)

var (
	runDurationBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600}

	// Discovery and profiling metrics
	DiscoveryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "discovery_duration_seconds",
		Help:      "Time taken for a schema discovery run to complete.",
		Buckets:   runDurationBuckets,
	}, []string{"connector_kind", "datasource"})

	DiscoveryRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "discovery_runs_total",
		Help:      "Count of schema discovery executions.",
	}, []string{"connector_kind", "datasource", "status"})

	ProfileDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "profile_duration_seconds",
		Help:      "Time taken for a column profiling run to complete.",
		Buckets:   runDurationBuckets,
	}, []string{"connector_kind", "datasource"})

	ProfileRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_runs_total",
		Help:      "Count of column profiling executions.",
	}, []string{"connector_kind", "datasource", "status"})

	ProfileLastSuccessTimestamp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "profile_last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful profiling run.",
	}, []string{"connector_kind", "datasource"})

	// Governance metrics
	PIIColumnsTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pii_columns_total",
		Help:      "Number of columns flagged as PII at or above the confidence threshold.",
	}, []string{"datasource", "category"})

	RedactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "redactions_total",
		Help:      "Count of values replaced by the redaction marker.",
	}, []string{"framework"})

	FilterBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "filter_builds_total",
		Help:      "Count of security filters built, by row policy outcome.",
	}, []string{"framework", "row_policy"})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Count of export attempts.",
	}, []string{"framework", "format", "status"})

	StaleDatasets = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stale_datasets",
		Help:      "Number of datasets currently past their freshness SLA.",
	}, []string{"connector_kind"})
)
