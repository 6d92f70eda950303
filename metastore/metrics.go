package metastore

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    loadCounter   prometheus.Counter
//	    loadHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordManifestLoad(duration time.Duration, err error) {
//	    p.loadCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordManifestLoad is called after each LoadOrCreateManifest.
	// duration is the total time taken, err is nil if successful.
	RecordManifestLoad(duration time.Duration, err error)

	// RecordManifestSave is called after each manifest write to storage,
	// including the writes LoadOrCreateManifest issues itself.
	RecordManifestSave(duration time.Duration, err error)

	// RecordMigration is called after a legacy manifest was upgraded and
	// persisted in the current format.
	RecordMigration()

	// RecordLegacyCleanupFailure is called when deleting the legacy manifest
	// file fails after a successful migration. The failure is otherwise
	// swallowed; this is its observability channel.
	RecordLegacyCleanupFailure()

	// RecordIndexOperation is called after each index lifecycle operation of
	// the FileBacked facade. op is "create", "delete", "load_metadata" or
	// "list_metadatas".
	RecordIndexOperation(op string, duration time.Duration, err error)

	// RecordTemplateOperation is called after each template operation of the
	// FileBacked facade. op is "create" or "delete".
	RecordTemplateOperation(op string, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordManifestLoad(time.Duration, error) {}
func (NoopMetricsCollector) RecordManifestSave(time.Duration, error) {}

func (NoopMetricsCollector) RecordMigration()            {}
func (NoopMetricsCollector) RecordLegacyCleanupFailure() {}

func (NoopMetricsCollector) RecordIndexOperation(string, time.Duration, error)    {}
func (NoopMetricsCollector) RecordTemplateOperation(string, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ManifestLoadCount      atomic.Int64
	ManifestLoadErrors     atomic.Int64
	ManifestLoadTotalNanos atomic.Int64
	ManifestSaveCount      atomic.Int64
	ManifestSaveErrors     atomic.Int64
	ManifestSaveTotalNanos atomic.Int64
	MigrationCount         atomic.Int64
	LegacyCleanupFailures  atomic.Int64
	IndexOpCount           atomic.Int64
	IndexOpErrors          atomic.Int64
	TemplateOpCount        atomic.Int64
	TemplateOpErrors       atomic.Int64
}

// RecordManifestLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordManifestLoad(duration time.Duration, err error) {
	b.ManifestLoadCount.Add(1)
	b.ManifestLoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ManifestLoadErrors.Add(1)
	}
}

// RecordManifestSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordManifestSave(duration time.Duration, err error) {
	b.ManifestSaveCount.Add(1)
	b.ManifestSaveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ManifestSaveErrors.Add(1)
	}
}

// RecordMigration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMigration() {
	b.MigrationCount.Add(1)
}

// RecordLegacyCleanupFailure implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLegacyCleanupFailure() {
	b.LegacyCleanupFailures.Add(1)
}

// RecordIndexOperation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndexOperation(op string, duration time.Duration, err error) {
	b.IndexOpCount.Add(1)
	if err != nil {
		b.IndexOpErrors.Add(1)
	}
}

// RecordTemplateOperation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTemplateOperation(op string, duration time.Duration, err error) {
	b.TemplateOpCount.Add(1)
	if err != nil {
		b.TemplateOpErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ManifestLoadCount:     b.ManifestLoadCount.Load(),
		ManifestLoadErrors:    b.ManifestLoadErrors.Load(),
		ManifestLoadAvgNanos:  avgNanos(b.ManifestLoadTotalNanos.Load(), b.ManifestLoadCount.Load()),
		ManifestSaveCount:     b.ManifestSaveCount.Load(),
		ManifestSaveErrors:    b.ManifestSaveErrors.Load(),
		ManifestSaveAvgNanos:  avgNanos(b.ManifestSaveTotalNanos.Load(), b.ManifestSaveCount.Load()),
		MigrationCount:        b.MigrationCount.Load(),
		LegacyCleanupFailures: b.LegacyCleanupFailures.Load(),
		IndexOpCount:          b.IndexOpCount.Load(),
		IndexOpErrors:         b.IndexOpErrors.Load(),
		TemplateOpCount:       b.TemplateOpCount.Load(),
		TemplateOpErrors:      b.TemplateOpErrors.Load(),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}

	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ManifestLoadCount     int64
	ManifestLoadErrors    int64
	ManifestLoadAvgNanos  int64
	ManifestSaveCount     int64
	ManifestSaveErrors    int64
	ManifestSaveAvgNanos  int64
	MigrationCount        int64
	LegacyCleanupFailures int64
	IndexOpCount          int64
	IndexOpErrors         int64
	TemplateOpCount       int64
	TemplateOpErrors      int64
}
