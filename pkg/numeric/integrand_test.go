package numeric_test

import (
	"math"
	"testing"

	pkgerrors "github.com/absmach/quadra/pkg/errors"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	in, err := numeric.Lookup("")
	require.NoError(t, err)
	assert.Equal(t, "sin", in.Name)

	for _, name := range numeric.Names() {
		in, err := numeric.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, in.Name)
		assert.NotNil(t, in.F)
	}

	_, err = numeric.Lookup("tan")
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
}

func TestNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"cos", "exp", "sin", "square"}, numeric.Names())
}

func TestIntegrandBounds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		integrand numeric.Integrand
		a, b      float64
		lo, hi    float64
	}{
		{"sin half period", numeric.Sin, 0, math.Pi, 0, 1},
		{"sin rising edge", numeric.Sin, 0, 0.5, 0, math.Sin(0.5)},
		{"sin full period", numeric.Sin, 0, 2 * math.Pi, -1, 1},
		{"sin shifted period", numeric.Sin, 4 * math.Pi, 4*math.Pi + 1, math.Sin(4 * math.Pi), math.Sin(4*math.Pi + 1)},
		{"sin reversed", numeric.Sin, math.Pi, 0, 0, 1},
		{"cos around zero", numeric.Cos, -1, 1, math.Cos(1), 1},
		{"cos around pi", numeric.Cos, 3, 4, -1, math.Cos(4)},
		{"square across zero", numeric.Square, -2, 1, 0, 4},
		{"square positive", numeric.Square, 1, 3, 1, 9},
		{"exp", numeric.Exp, 0, 1, 1, math.E},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			lo, hi := tc.integrand.Bounds(tc.a, tc.b)
			assert.InDelta(t, tc.lo, lo, 1e-12)
			assert.InDelta(t, tc.hi, hi, 1e-12)
		})
	}
}

func TestIntegrandBoundsProbe(t *testing.T) {
	t.Parallel()

	parabola := numeric.Integrand{F: func(x float64) float64 { return x * (1 - x) }}
	lo, hi := parabola.Bounds(1, 0)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 0.25, hi)
}
