package elut

import (
	"log/slog"

	"github.com/hupe1980/elut/codec"
	"github.com/hupe1980/elut/store"
)

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	readConcurrency  int
	manifest         bool
	syncWrites       bool
}

// Option configures Create and Open.
type Option func(*options)

// WithCodec configures the codec of the store manifest.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithReadConcurrency bounds the number of buckets a query reads in
// parallel. Values below one select GOMAXPROCS.
func WithReadConcurrency(n int) Option {
	return func(o *options) {
		o.readConcurrency = n
	}
}

// WithoutManifest disables the store manifest. The binning of such a store
// is only known by convention, so a mismatch cannot be detected on Open.
func WithoutManifest() Option {
	return func(o *options) {
		o.manifest = false
	}
}

// WithSyncWrites controls whether every bucket append is fsynced.
// Disabling it trades durability on power loss for throughput; a crashed
// process still never leaves a partial record behind.
func WithSyncWrites(enabled bool) Option {
	return func(o *options) {
		o.syncWrites = enabled
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &elut.BasicMetricsCollector{}
//	t, _ := elut.Create("./lut", binning, fov, elut.WithMetricsCollector(metrics))
//	// ... use t ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := elut.NewJSONLogger(slog.LevelInfo)
//	t, _ := elut.Open("./lut", binning, fov, elut.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		manifest:         true,
		syncWrites:       true,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o options) storeOptions(logger *Logger, fovRadius float64) []store.Option {
	opts := []store.Option{
		store.WithLogger(logger.Logger),
		store.WithFieldOfViewRadius(fovRadius),
		store.WithCodec(o.codec),
		store.WithReadConcurrency(o.readConcurrency),
		store.WithSyncWrites(o.syncWrites),
	}
	if !o.manifest {
		opts = append(opts, store.WithoutManifest())
	}
	return opts
}
