package numeric

import (
	"fmt"
	"math"
	"sort"

	pkgerrors "github.com/absmach/quadra/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// probePoints is the grid size used to estimate the range of an integrand
// that does not describe its own range.
const probePoints = 4097

// Func is a real function of one real variable.
type Func func(x float64) float64

// Integrand is a named Func together with what is known about its range.
type Integrand struct {
	Name string
	F    Func
	// Range returns the infimum and supremum of F on [a, b] with a <= b.
	// When nil, Bounds estimates them on a uniform grid.
	Range func(a, b float64) (lo, hi float64)
}

var (
	Sin = Integrand{
		Name:  "sin",
		F:     math.Sin,
		Range: periodicRange(math.Sin, math.Pi/2, -math.Pi/2),
	}
	Cos = Integrand{
		Name:  "cos",
		F:     math.Cos,
		Range: periodicRange(math.Cos, 0, math.Pi),
	}
	Square = Integrand{
		Name:  "square",
		F:     func(x float64) float64 { return x * x },
		Range: squareRange,
	}
	Exp = Integrand{
		Name: "exp",
		F:    math.Exp,
		Range: func(a, b float64) (float64, float64) {
			return math.Exp(a), math.Exp(b)
		},
	}
)

var registry = map[string]Integrand{
	Sin.Name:    Sin,
	Cos.Name:    Cos,
	Square.Name: Square,
	Exp.Name:    Exp,
}

// Lookup returns the registered integrand with the given name. The empty
// name selects Sin.
func Lookup(name string) (Integrand, error) {
	if name == "" {
		return Sin, nil
	}
	in, ok := registry[name]
	if !ok {
		return Integrand{}, fmt.Errorf("%w: unknown integrand %q", pkgerrors.ErrInvalidArgument, name)
	}

	return in, nil
}

// Names lists the registered integrands in lexical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Bounds returns the infimum and supremum of the integrand on the interval
// spanned by a and b, in either order.
func (in Integrand) Bounds(a, b float64) (lo, hi float64) {
	if a > b {
		a, b = b, a
	}
	if in.Range != nil {
		return in.Range(a, b)
	}

	return probe(in.F, a, b)
}

func probe(f Func, a, b float64) (lo, hi float64) {
	xs := floats.Span(make([]float64, probePoints), a, b)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = f(x)
	}

	return floats.Min(ys), floats.Max(ys)
}

// periodicRange describes a 2*pi periodic function with unit amplitude whose
// maxima sit at peak + 2k*pi and minima at trough + 2k*pi.
func periodicRange(f Func, peak, trough float64) func(a, b float64) (float64, float64) {
	return func(a, b float64) (float64, float64) {
		fa, fb := f(a), f(b)
		lo, hi := math.Min(fa, fb), math.Max(fa, fb)
		if containsPhase(a, b, peak) {
			hi = 1
		}
		if containsPhase(a, b, trough) {
			lo = -1
		}

		return lo, hi
	}
}

func containsPhase(a, b, phase float64) bool {
	k := math.Ceil((a - phase) / (2 * math.Pi))

	return phase+2*math.Pi*k <= b
}

func squareRange(a, b float64) (float64, float64) {
	sa, sb := a*a, b*b
	hi := math.Max(sa, sb)
	if a <= 0 && b >= 0 {
		return 0, hi
	}

	return math.Min(sa, sb), hi
}
