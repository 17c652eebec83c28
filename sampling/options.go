// SPDX-License-Identifier: MIT

package sampling

import (
	"log/slog"
	"runtime"

	"github.com/katalvlaran/stabmass/exceptional"
)

const (
	// DefaultFailureSentinel is the mass recorded for points whose HN filtration fails.
	DefaultFailureSentinel = -1.0

	// DefaultCurveDepth is the dyadic depth of the boundary curve built for P2 grids.
	DefaultCurveDepth = 4
)

// Option configures a Sampler.
type Option func(*options)

type options struct {
	workers  int
	sentinel float64
	boundary *exceptional.Curve
	bDir     []float64
	logger   *slog.Logger
	sqrt     bool
}

// WithWorkers bounds the number of rows evaluated concurrently. Panics when n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("sampling: WithWorkers requires n ≥ 1")
	}

	return func(o *options) { o.workers = n }
}

// WithFailureSentinel sets the mass recorded on HN failures.
func WithFailureSentinel(v float64) Option {
	return func(o *options) { o.sentinel = v }
}

// WithBoundary uses c as the lower edge of P2 grids. Panics on nil.
func WithBoundary(c *exceptional.Curve) Option {
	if c == nil {
		panic("sampling: WithBoundary requires a non-nil curve")
	}

	return func(o *options) { o.boundary = c }
}

// WithBDirection sets the K3 B-field direction in basis coordinates. Panics when empty.
func WithBDirection(dir []float64) Option {
	if len(dir) == 0 {
		panic("sampling: WithBDirection requires at least one coordinate")
	}
	d := append([]float64(nil), dir...)

	return func(o *options) { o.bDir = d }
}

// WithLogger routes debug and summary logs to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("sampling: WithLogger requires a non-nil logger")
	}

	return func(o *options) { o.logger = l }
}

// WithSqrtParameterization builds P2 conditions with the exp((s + iq)H) twist.
func WithSqrtParameterization() Option {
	return func(o *options) { o.sqrt = true }
}

func gatherOptions(user ...Option) options {
	o := options{
		workers:  runtime.GOMAXPROCS(0),
		sentinel: DefaultFailureSentinel,
	}
	for _, fn := range user {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}
