package bench

import (
	"github.com/rs/zerolog"

	"github.com/NetPo4ki/go-fanbench/scope"
)

// Option configures a benchmark run.
type Option func(*options)

type options struct {
	observer scope.Observer
	logger   zerolog.Logger
}

// WithObserver attaches obs to the pool or loop driving the run.
func WithObserver(obs scope.Observer) Option {
	return func(o *options) { o.observer = obs }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
