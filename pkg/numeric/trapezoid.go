package numeric

import (
	"fmt"
	"math"

	pkgerrors "github.com/absmach/quadra/pkg/errors"
)

var defaultIntegrator = NewIntegrator()

// Integrator approximates definite integrals with the composite trapezoidal
// rule. It holds no mutable state and is safe for concurrent use.
type Integrator struct {
	integrand Integrand
	maxSteps  uint64
}

// NewIntegrator returns an Integrator over sin unless WithIntegrand says
// otherwise.
func NewIntegrator(opts ...Option) *Integrator {
	cfg := newConfig(opts)

	return &Integrator{
		integrand: cfg.integrand,
		maxSteps:  cfg.maxSteps,
	}
}

// Integrate approximates the integral of sin over [a, b] with step dx.
func Integrate(a, b, dx float64) (float64, error) {
	return defaultIntegrator.Integrate(a, b, dx)
}

func (in *Integrator) Integrand() Integrand {
	return in.integrand
}

// Integrate approximates the integral of the integrand over [a, b]. The
// requested step dx is adjusted so that N = ceil((b-a)/dx) equal panels
// cover the interval exactly.
func (in *Integrator) Integrate(a, b, dx float64) (float64, error) {
	if !finite(a) || !finite(b) {
		return 0, fmt.Errorf("%w: bounds must be finite, got [%g, %g]", pkgerrors.ErrInvalidArgument, a, b)
	}
	if !finite(dx) || dx <= 0 {
		return 0, fmt.Errorf("%w: step must be positive and finite, got %g", pkgerrors.ErrInvalidArgument, dx)
	}

	switch {
	case a == b:
		return 0, nil
	case b < a:
		v, err := in.Integrate(b, a, dx)

		return -v, err
	}

	width := b - a
	if math.IsInf(width, 0) {
		return 0, fmt.Errorf("%w: interval [%g, %g] overflows", pkgerrors.ErrInvalidArgument, a, b)
	}

	steps := math.Ceil(width / dx)
	if steps > float64(in.maxSteps) {
		return 0, fmt.Errorf("%w: step %g needs %.0f panels, limit is %d", pkgerrors.ErrInvalidArgument, dx, steps, in.maxSteps)
	}
	n := uint64(steps)
	if n < 1 {
		n = 1
	}

	h := width / float64(n)
	f := in.integrand.F

	var sum float64
	for i := uint64(0); i < n; i++ {
		x := a + float64(i)*h
		sum += 0.5 * h * (f(x) + f(x+h))
	}

	return sum, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
