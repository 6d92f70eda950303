package petrel

import "github.com/petrel-search/petrel/metastore"

// Metrics plumbing re-exported from metastore.
type (
	// MetricsCollector receives operational metrics. Implement it to
	// integrate with monitoring systems like Prometheus.
	MetricsCollector = metastore.MetricsCollector

	// NoopMetricsCollector discards all metrics.
	NoopMetricsCollector = metastore.NoopMetricsCollector

	// BasicMetricsCollector counts operations in memory.
	BasicMetricsCollector = metastore.BasicMetricsCollector

	// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
	BasicMetricsStats = metastore.BasicMetricsStats
)
