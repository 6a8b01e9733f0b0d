package annlab

import (
	"time"

	"github.com/hupe1980/annlab/blobstore"
	"github.com/hupe1980/annlab/footprint"
	"github.com/hupe1980/annlab/internal/resource"
	"github.com/hupe1980/annlab/report"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	store            blobstore.Store
	probe            *footprint.Probe
	resources        resource.Config
	sinks            []report.Sink
	now              func() time.Time
}

// Option configures a Lab.
type Option func(*options)

// WithLogger configures the logger.
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &annlab.BasicMetricsCollector{}
//	lab := annlab.New(annlab.WithMetricsCollector(metrics))
//	// ... run experiments ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithStore sets the store dataset names are resolved against.
// The default is a local store rooted at the working directory.
func WithStore(s blobstore.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithProbe sets the footprint probe.
func WithProbe(p *footprint.Probe) Option {
	return func(o *options) {
		o.probe = p
	}
}

// WithResources sets worker, memory and IO limits for dataset loading and search.
func WithResources(cfg resource.Config) Option {
	return func(o *options) {
		o.resources = cfg
	}
}

// WithSinks adds report sinks. Every run writes its report to all sinks.
func WithSinks(sinks ...report.Sink) Option {
	return func(o *options) {
		o.sinks = append(o.sinks, sinks...)
	}
}

// WithClock overrides the clock used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
