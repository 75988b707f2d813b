package numeric

import (
	"fmt"
	"math"
	"math/rand/v2"

	pkgerrors "github.com/absmach/quadra/pkg/errors"
)

// DefaultSamples replaces a non-positive sample budget.
const DefaultSamples int32 = 10000

// BoundPolicy selects how the estimator treats the caller's bounding height.
type BoundPolicy uint8

const (
	// BoundStrict rejects a bounding height below the integrand's supremum
	// on the interval, and integrands that go negative there.
	BoundStrict BoundPolicy = iota
	// BoundClamp replaces the bounding height with the integrand's
	// supremum on the interval.
	BoundClamp
	// BoundUnchecked uses the caller's height as given. A height below the
	// supremum biases the estimate downward.
	BoundUnchecked
)

func (p BoundPolicy) String() string {
	switch p {
	case BoundStrict:
		return "strict"
	case BoundClamp:
		return "clamp"
	case BoundUnchecked:
		return "unchecked"
	default:
		return "unknown"
	}
}

func ParseBoundPolicy(s string) (BoundPolicy, error) {
	switch s {
	case "", "strict":
		return BoundStrict, nil
	case "clamp":
		return BoundClamp, nil
	case "unchecked":
		return BoundUnchecked, nil
	default:
		return 0, fmt.Errorf("%w: unknown bound policy %q", pkgerrors.ErrInvalidArgument, s)
	}
}

// Estimate is the outcome of one rejection-sampling run.
type Estimate struct {
	Hits    int64   `json:"hits"`
	Samples int32   `json:"samples"`
	YMax    float64 `json:"y_max"`
	Area    float64 `json:"area"`
}

var defaultEstimator = NewEstimator()

// Estimator approximates the area under a non-negative integrand by Monte
// Carlo rejection sampling. Each call owns its generator, so an Estimator is
// safe for concurrent use.
type Estimator struct {
	integrand Integrand
	policy    BoundPolicy
	source    SourceFunc
}

// NewEstimator returns a strict estimator over sin unless options say
// otherwise.
func NewEstimator(opts ...Option) *Estimator {
	cfg := newConfig(opts)

	return &Estimator{
		integrand: cfg.integrand,
		policy:    cfg.policy,
		source:    cfg.source,
	}
}

// EstimateArea estimates the area under sin over [a, b] with the strict
// bound policy.
func EstimateArea(a, b float64, samples int32, yMax float64, seedOffset int32) (float64, error) {
	return defaultEstimator.EstimateArea(a, b, samples, yMax, seedOffset)
}

func (e *Estimator) Integrand() Integrand {
	return e.integrand
}

func (e *Estimator) Policy() BoundPolicy {
	return e.policy
}

// EstimateArea returns (hits/samples) * (b-a) * yMax for samples drawn
// uniformly in [a, b] x [0, yMax].
func (e *Estimator) EstimateArea(a, b float64, samples int32, yMax float64, seedOffset int32) (float64, error) {
	est, err := e.Sample(a, b, samples, yMax, seedOffset)
	if err != nil {
		return 0, err
	}

	return est.Area, nil
}

// Sample runs the estimator and reports the hit count and the bounding
// height actually used alongside the area.
func (e *Estimator) Sample(a, b float64, samples int32, yMax float64, seedOffset int32) (Estimate, error) {
	if !finite(a) || !finite(b) {
		return Estimate{}, fmt.Errorf("%w: bounds must be finite, got [%g, %g]", pkgerrors.ErrInvalidArgument, a, b)
	}
	if samples <= 0 {
		samples = DefaultSamples
	}
	if e.policy != BoundClamp && (!finite(yMax) || yMax <= 0) {
		return Estimate{}, fmt.Errorf("%w: bounding height must be positive and finite, got %g", pkgerrors.ErrInvalidArgument, yMax)
	}
	if a == b {
		if e.policy == BoundClamp {
			yMax = 0
		}

		return Estimate{Samples: samples, YMax: yMax}, nil
	}

	sign := 1.0
	if b < a {
		a, b = b, a
		sign = -1
	}
	width := b - a
	if math.IsInf(width, 0) {
		return Estimate{}, fmt.Errorf("%w: interval [%g, %g] overflows", pkgerrors.ErrInvalidArgument, a, b)
	}

	yMax, err := e.height(a, b, yMax)
	if err != nil {
		return Estimate{}, err
	}

	r := rand.New(e.source(seedOffset))
	f := e.integrand.F

	var hits int64
	for range samples {
		x := a + r.Float64()*width
		y := r.Float64() * yMax
		if y <= f(x) {
			hits++
		}
	}

	return Estimate{
		Hits:    hits,
		Samples: samples,
		YMax:    yMax,
		Area:    sign * float64(hits) / float64(samples) * width * yMax,
	}, nil
}

func (e *Estimator) height(a, b, yMax float64) (float64, error) {
	if e.policy == BoundUnchecked {
		return yMax, nil
	}

	lo, hi := e.integrand.Bounds(a, b)
	if !finite(lo) || !finite(hi) {
		return 0, fmt.Errorf("%w: integrand %s has no finite bounds on [%g, %g]", pkgerrors.ErrInvalidArgument, e.integrand.Name, a, b)
	}
	if lo < 0 {
		return 0, fmt.Errorf("%w: integrand %s reaches %g on [%g, %g], rejection sampling needs a non-negative integrand", pkgerrors.ErrInvalidArgument, e.integrand.Name, lo, a, b)
	}

	switch e.policy {
	case BoundClamp:
		return hi, nil
	default:
		if hi > yMax {
			return 0, fmt.Errorf("%w: bounding height %g is below the supremum %g of %s on [%g, %g]", pkgerrors.ErrInvalidArgument, yMax, hi, e.integrand.Name, a, b)
		}

		return yMax, nil
	}
}
