// SPDX-License-Identifier: MIT

package stability

import "github.com/katalvlaran/stabmass/rhom"

const (
	// DefaultMaxCandidateRank bounds the rank of K3 destabilizer candidates.
	DefaultMaxCandidateRank = 3

	// DefaultMaxCh2Steps is the number of ch₂ values tried below the Bogomolov bound.
	DefaultMaxCh2Steps = 3

	// DefaultPhaseTolerance is the phase spread below which factors count as one phase.
	DefaultPhaseTolerance = 1e-9
)

// Option configures a Condition.
type Option func(*options)

type options struct {
	sqrt     bool
	engine   *rhom.Engine
	maxRank  int
	ch2Steps int
	tol      float64
}

// WithSqrtParameterization selects the P2 twist exp((s + iq)H).
func WithSqrtParameterization() Option {
	return func(o *options) { o.sqrt = true }
}

// WithRHomEngine routes RHom queries to e instead of rhom.Shared().
// Panics on nil.
func WithRHomEngine(e *rhom.Engine) Option {
	if e == nil {
		panic("stability: WithRHomEngine requires a non-nil engine")
	}

	return func(o *options) { o.engine = e }
}

// WithMaxCandidateRank bounds candidate ranks in the K3 search. Panics when r < 1.
func WithMaxCandidateRank(r int) Option {
	if r < 1 {
		panic("stability: WithMaxCandidateRank requires r ≥ 1")
	}

	return func(o *options) { o.maxRank = r }
}

// WithMaxCh2Steps sets how many ch₂ values the K3 search tries. Panics when n < 1.
func WithMaxCh2Steps(n int) Option {
	if n < 1 {
		panic("stability: WithMaxCh2Steps requires n ≥ 1")
	}

	return func(o *options) { o.ch2Steps = n }
}

// WithPhaseTolerance sets the semistability phase tolerance. Panics when tol < 0.
func WithPhaseTolerance(tol float64) Option {
	if tol < 0 {
		panic("stability: WithPhaseTolerance requires tol ≥ 0")
	}

	return func(o *options) { o.tol = tol }
}

func gatherOptions(user ...Option) options {
	o := options{
		maxRank:  DefaultMaxCandidateRank,
		ch2Steps: DefaultMaxCh2Steps,
		tol:      DefaultPhaseTolerance,
	}
	for _, fn := range user {
		if fn != nil {
			fn(&o)
		}
	}
	if o.engine == nil {
		o.engine = rhom.Shared()
	}

	return o
}
