package handoff

import "go.uber.org/zap"

type options struct {
	logger  *zap.Logger
	metrics *Metrics
	name    string
}

// Option configures a Pipeline.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop()}

	for _, option := range opts {
		option(o)
	}

	return o
}

// Option that sets the logger used for stage transitions and rejected input.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Option that records cycles and rejected input in metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

// Option that names the pipeline in logs and metric labels.
// Defaults to the pipeline id.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
