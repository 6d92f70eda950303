package metastore

import (
	"context"
	"log/slog"
	"time"

	"github.com/petrel-search/petrel/codec"
	"github.com/petrel-search/petrel/lock"
)

type options struct {
	codec           codec.Codec
	logger          *slog.Logger
	metrics         MetricsCollector
	locker          lock.Locker
	pollingInterval time.Duration
}

// Option configures manifest persistence and the FileBacked facade.
type Option func(*options)

func defaultOptions(optFns ...Option) options {
	o := options{
		codec:   codec.Default,
		logger:  slog.New(slog.DiscardHandler),
		metrics: NoopMetricsCollector{},
		locker:  noopLocker{},
	}

	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// WithCodec sets the wire codec used for manifest and index metadata files.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsCollector sets the metrics collector for manifest loads, saves,
// migrations, and index/template operations.
func WithMetricsCollector(metrics MetricsCollector) Option {
	return func(o *options) {
		if metrics != nil {
			o.metrics = metrics
		}
	}
}

// WithLocker sets the cross-process guard acquired around every mutation of
// the FileBacked facade. The default is a no-op: the facade's own mutex
// already serializes writers within one process.
func WithLocker(locker lock.Locker) Option {
	return func(o *options) {
		if locker != nil {
			o.locker = locker
		}
	}
}

// WithPollingInterval makes the FileBacked facade re-read the manifest from
// storage on the given interval, for read-mostly replicas following a writer
// elsewhere. Local mutations race against the refresh; a process using this
// should not mutate.
func WithPollingInterval(interval time.Duration) Option {
	return func(o *options) {
		o.pollingInterval = interval
	}
}

// noopLocker is the default cross-process guard: none.
type noopLocker struct{}

func (noopLocker) Lock(context.Context) (func(), error) {
	return func() {}, nil
}
