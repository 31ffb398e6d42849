package genref

import (
	"github.com/hupe1980/genref/internal/resource"
)

// MemoryAcquirer accounts for the storage of fresh slots.
//
// AcquireMemory is called before a pool grows; returning an error aborts the
// allocation. ReleaseMemory is called when the arena is closed.
type MemoryAcquirer interface {
	AcquireMemory(bytes int64) error
	ReleaseMemory(bytes int64)
}

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	acquirer         MemoryAcquirer
}

// Option configures an Arena.
type Option func(*options)

// WithLogger configures the logger used by the arena.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures the metrics collector.
//
// If nil is passed, metrics are discarded.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithMemoryLimit bounds the bytes of slot storage the arena may reserve.
// Reused slots cost nothing; only growing a pool counts against the limit.
//
// A limit of 0 tracks usage without enforcing a bound.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.acquirer = resource.NewController(resource.Config{
			MemoryLimitBytes: bytes,
		})
	}
}

// WithMemoryAcquirer plugs an external memory accountant, e.g. one shared by
// several arenas.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(o *options) {
		o.acquirer = acquirer
	}
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}
