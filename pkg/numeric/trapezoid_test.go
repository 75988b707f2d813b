package numeric_test

import (
	"math"
	"testing"

	pkgerrors "github.com/absmach/quadra/pkg/errors"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate"
)

func TestIntegrateSinHalfPeriod(t *testing.T) {
	t.Parallel()

	got, err := numeric.Integrate(0, math.Pi, 0.0001)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-6)
}

func TestIntegrateZeroWidth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a    float64
		dx   float64
	}{
		{"origin small step", 0, 1e-4},
		{"origin unit step", 0, 1},
		{"origin huge step", 0, 1e6},
		{"off origin", 3.7, 0.25},
		{"negative", -12.5, 1e-3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := numeric.Integrate(tc.a, tc.a, tc.dx)
			require.NoError(t, err)
			assert.Equal(t, 0.0, got)
		})
	}
}

func TestIntegrateInvalidArgument(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b float64
		dx   float64
	}{
		{"zero step", 0, 1, 0},
		{"negative step", 0, 1, -0.1},
		{"tiny negative step", 0, 1, -1e-300},
		{"negative step on empty interval", 0, 0, -1},
		{"NaN step", 0, 1, math.NaN()},
		{"infinite step", 0, 1, math.Inf(1)},
		{"NaN bound", math.NaN(), 1, 0.1},
		{"infinite bound", 0, math.Inf(1), 0.1},
		{"overflowing width", -math.MaxFloat64, math.MaxFloat64, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := numeric.Integrate(tc.a, tc.b, tc.dx)
			assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
		})
	}
}

func TestIntegrateIsPure(t *testing.T) {
	t.Parallel()

	first, err := numeric.Integrate(-1.25, 4.5, 0.0007)
	require.NoError(t, err)
	second, err := numeric.Integrate(-1.25, 4.5, 0.0007)
	require.NoError(t, err)

	assert.Equal(t, math.Float64bits(first), math.Float64bits(second))
}

func TestIntegrateReversedInterval(t *testing.T) {
	t.Parallel()

	forward, err := numeric.Integrate(0, math.Pi, 0.001)
	require.NoError(t, err)
	backward, err := numeric.Integrate(math.Pi, 0, 0.001)
	require.NoError(t, err)

	assert.Equal(t, -forward, backward)
}

func TestIntegrateAdjustsStep(t *testing.T) {
	t.Parallel()

	// 0.3 does not divide 1, so four panels of 0.25 are used.
	in := numeric.NewIntegrator(numeric.WithIntegrand(numeric.Square))
	got, err := in.Integrate(0, 1, 0.3)
	require.NoError(t, err)
	assert.InDelta(t, 0.34375, got, 1e-15)
}

func TestIntegrateSinglePanel(t *testing.T) {
	t.Parallel()

	in := numeric.NewIntegrator(numeric.WithIntegrand(numeric.Square))
	got, err := in.Integrate(1, 3, 100)
	require.NoError(t, err)
	assert.InDelta(t, 0.5*2*(1+9), got, 1e-12)
}

func TestIntegrateMatchesGonumTrapezoidal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		integrand numeric.Integrand
		a, b, dx  float64
	}{
		{"sin", numeric.Sin, 0, math.Pi, 0.01},
		{"cos", numeric.Cos, -2, 5, 0.013},
		{"square", numeric.Square, -1, 2, 0.07},
		{"exp", numeric.Exp, 0, 1, 0.001},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			n := int(math.Ceil((tc.b - tc.a) / tc.dx))
			h := (tc.b - tc.a) / float64(n)
			xs := make([]float64, n+1)
			fs := make([]float64, n+1)
			for i := range xs {
				xs[i] = tc.a + float64(i)*h
				fs[i] = tc.integrand.F(xs[i])
			}
			want := integrate.Trapezoidal(xs, fs)

			got, err := numeric.NewIntegrator(numeric.WithIntegrand(tc.integrand)).Integrate(tc.a, tc.b, tc.dx)
			require.NoError(t, err)
			assert.InDelta(t, want, got, 1e-12)
		})
	}
}

func TestIntegrateStepLimit(t *testing.T) {
	t.Parallel()

	in := numeric.NewIntegrator(numeric.WithMaxSteps(10))

	_, err := in.Integrate(0, 1, 0.01)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)

	got, err := in.Integrate(0, 1, 0.2)
	require.NoError(t, err)
	assert.InDelta(t, 1-math.Cos(1), got, 1e-2)
}

func BenchmarkIntegrate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = numeric.Integrate(0, math.Pi, 0.0001)
	}
}
