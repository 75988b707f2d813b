package numeric

import "math/rand/v2"

// DefaultMaxSteps caps the number of trapezoid panels a single call may
// evaluate.
const DefaultMaxSteps uint64 = 1 << 30

// SourceFunc builds the generator used by one estimator call.
type SourceFunc func(seedOffset int32) rand.Source

type config struct {
	integrand Integrand
	maxSteps  uint64
	policy    BoundPolicy
	source    SourceFunc
}

// Option configures an Integrator or an Estimator.
type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{
		integrand: Sin,
		maxSteps:  DefaultMaxSteps,
		policy:    BoundStrict,
		source:    NewSource,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithIntegrand replaces the default sin integrand. An integrand without a
// function is ignored.
func WithIntegrand(in Integrand) Option {
	return func(c *config) {
		if in.F != nil {
			c.integrand = in
		}
	}
}

// WithMaxSteps bounds the panel count of the integrator. Zero keeps the
// default.
func WithMaxSteps(n uint64) Option {
	return func(c *config) {
		if n > 0 {
			c.maxSteps = n
		}
	}
}

// WithBoundPolicy selects how the estimator checks the bounding height. The
// default is BoundStrict.
func WithBoundPolicy(p BoundPolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithSource replaces the generator factory of the estimator.
func WithSource(fn SourceFunc) Option {
	return func(c *config) {
		if fn != nil {
			c.source = fn
		}
	}
}
