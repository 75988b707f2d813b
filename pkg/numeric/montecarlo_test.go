package numeric_test

import (
	"math"
	"math/rand/v2"
	"testing"

	pkgerrors "github.com/absmach/quadra/pkg/errors"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

type zeroSource struct{}

func (zeroSource) Uint64() uint64 { return 0 }

func TestEstimateAreaSinHalfPeriod(t *testing.T) {
	t.Parallel()

	got, err := numeric.EstimateArea(0, math.Pi, 1_000_000, 1.0, 7)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 0.02)
}

func TestEstimateAreaReproducible(t *testing.T) {
	t.Parallel()

	first, err := numeric.EstimateArea(0, math.Pi, 50_000, 1.0, 42)
	require.NoError(t, err)
	second, err := numeric.EstimateArea(0, math.Pi, 50_000, 1.0, 42)
	require.NoError(t, err)

	assert.Equal(t, math.Float64bits(first), math.Float64bits(second))
}

func TestEstimateAreaNormalizesSamples(t *testing.T) {
	t.Parallel()

	e := numeric.NewEstimator()
	want, err := e.Sample(0, math.Pi, numeric.DefaultSamples, 1.0, 3)
	require.NoError(t, err)

	for _, samples := range []int32{0, -5, math.MinInt32} {
		got, err := e.Sample(0, math.Pi, samples, 1.0, 3)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, numeric.DefaultSamples, got.Samples)
	}
}

func TestEstimateAreaDecorrelatedOffsets(t *testing.T) {
	t.Parallel()

	const (
		runs    = 64
		samples = 20_000
	)
	p := 2 / math.Pi
	sigma := math.Pi * math.Sqrt(p*(1-p)/samples)

	offsets := make([]float64, runs)
	estimates := make([]float64, runs)
	var even, odd []float64
	for i := range runs {
		got, err := numeric.EstimateArea(0, math.Pi, samples, 1.0, int32(i))
		require.NoError(t, err)
		offsets[i] = float64(i)
		estimates[i] = got
		if i%2 == 0 {
			even = append(even, got)
		} else {
			odd = append(odd, got)
		}
	}

	assert.InDelta(t, 2.0, stat.Mean(estimates, nil), 4*sigma/math.Sqrt(runs))

	sd := stat.StdDev(estimates, nil)
	assert.Greater(t, sd, 0.5*sigma, "offsets produce near-identical estimates")
	assert.Less(t, sd, 1.6*sigma, "estimates spread wider than independent sampling allows")

	parityGap := math.Abs(stat.Mean(even, nil) - stat.Mean(odd, nil))
	assert.Less(t, parityGap, 4*sigma*math.Sqrt(2.0/(runs/2)))

	assert.Less(t, math.Abs(stat.Correlation(offsets, estimates, nil)), 0.5)
}

func TestNewSourceStreamsUncorrelated(t *testing.T) {
	t.Parallel()

	const draws = 10_000
	for _, offset := range []int32{0, 1, -1, 1000, math.MaxInt32 - 1} {
		a := rand.New(numeric.NewSource(offset))
		b := rand.New(numeric.NewSource(offset + 1))
		xs := make([]float64, draws)
		ys := make([]float64, draws)
		for i := range draws {
			xs[i] = a.Float64()
			ys[i] = b.Float64()
		}
		assert.Less(t, math.Abs(stat.Correlation(xs, ys, nil)), 0.05, "offset %d", offset)
		assert.InDelta(t, 0.5, stat.Mean(xs, nil), 0.02, "offset %d", offset)
	}
}

func TestEstimateAreaBoundPolicies(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		policy    numeric.BoundPolicy
		integrand numeric.Integrand
		a, b      float64
		yMax      float64
		err       error
		checkFn   func(t *testing.T, est numeric.Estimate)
	}{
		{
			name:   "strict accepts exact supremum",
			policy: numeric.BoundStrict,
			a:      0,
			b:      math.Pi,
			yMax:   1,
		},
		{
			name:   "strict accepts local supremum below one",
			policy: numeric.BoundStrict,
			a:      0,
			b:      0.5,
			yMax:   0.5,
		},
		{
			name:   "strict rejects low height",
			policy: numeric.BoundStrict,
			a:      0,
			b:      math.Pi,
			yMax:   0.5,
			err:    pkgerrors.ErrInvalidArgument,
		},
		{
			name:   "strict rejects zero height",
			policy: numeric.BoundStrict,
			a:      0,
			b:      math.Pi,
			yMax:   0,
			err:    pkgerrors.ErrInvalidArgument,
		},
		{
			name:   "strict rejects NaN height",
			policy: numeric.BoundStrict,
			a:      0,
			b:      math.Pi,
			yMax:   math.NaN(),
			err:    pkgerrors.ErrInvalidArgument,
		},
		{
			name:   "strict rejects negative integrand",
			policy: numeric.BoundStrict,
			a:      0,
			b:      2 * math.Pi,
			yMax:   1,
			err:    pkgerrors.ErrInvalidArgument,
		},
		{
			name:   "clamp lowers loose height",
			policy: numeric.BoundClamp,
			a:      0,
			b:      math.Pi,
			yMax:   5,
			checkFn: func(t *testing.T, est numeric.Estimate) {
				assert.Equal(t, 1.0, est.YMax)
				assert.InDelta(t, 2.0, est.Area, 0.02)
			},
		},
		{
			name:   "clamp raises low height",
			policy: numeric.BoundClamp,
			a:      0,
			b:      math.Pi,
			yMax:   0.25,
			checkFn: func(t *testing.T, est numeric.Estimate) {
				assert.Equal(t, 1.0, est.YMax)
			},
		},
		{
			name:   "clamp still rejects negative integrand",
			policy: numeric.BoundClamp,
			a:      -1,
			b:      1,
			yMax:   1,
			err:    pkgerrors.ErrInvalidArgument,
		},
		{
			name:   "unchecked keeps low height and underestimates",
			policy: numeric.BoundUnchecked,
			a:      0,
			b:      math.Pi,
			yMax:   0.5,
			checkFn: func(t *testing.T, est numeric.Estimate) {
				assert.Equal(t, 0.5, est.YMax)
				// The true area of min(sin x, 0.5) over [0, pi] is 2 - (sqrt(3) - pi/3).
				assert.InDelta(t, 2-(math.Sqrt(3)-math.Pi/3), est.Area, 0.02)
			},
		},
		{
			name:      "clamp rejects unbounded supremum",
			policy:    numeric.BoundClamp,
			integrand: numeric.Exp,
			a:         0,
			b:         800,
			yMax:      1,
			err:       pkgerrors.ErrInvalidArgument,
		},
		{
			name:      "strict rejects unbounded supremum",
			policy:    numeric.BoundStrict,
			integrand: numeric.Exp,
			a:         0,
			b:         800,
			yMax:      math.MaxFloat64,
			err:       pkgerrors.ErrInvalidArgument,
		},
		{
			name:   "clamp reports zero height on empty interval",
			policy: numeric.BoundClamp,
			a:      1,
			b:      1,
			yMax:   math.NaN(),
			checkFn: func(t *testing.T, est numeric.Estimate) {
				assert.Equal(t, 0.0, est.YMax)
				assert.Equal(t, 0.0, est.Area)
			},
		},
		{
			name:   "unchecked rejects non-positive height",
			policy: numeric.BoundUnchecked,
			a:      0,
			b:      math.Pi,
			yMax:   -1,
			err:    pkgerrors.ErrInvalidArgument,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := numeric.NewEstimator(numeric.WithIntegrand(tc.integrand), numeric.WithBoundPolicy(tc.policy))
			est, err := e.Sample(tc.a, tc.b, 200_000, tc.yMax, 11)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				return
			}
			require.NoError(t, err)
			if tc.checkFn != nil {
				tc.checkFn(t, est)
			}
		})
	}
}

func TestEstimateAreaReversedAndEmpty(t *testing.T) {
	t.Parallel()

	forward, err := numeric.EstimateArea(0, math.Pi, 10_000, 1, 5)
	require.NoError(t, err)
	backward, err := numeric.EstimateArea(math.Pi, 0, 10_000, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, -forward, backward)

	empty, err := numeric.EstimateArea(1.5, 1.5, 10_000, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty)

	_, err = numeric.EstimateArea(math.Inf(-1), 0, 10_000, 1, 5)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
}

func TestEstimateAreaInjectedSource(t *testing.T) {
	t.Parallel()

	// A generator stuck at zero always samples the origin of the box, which
	// lies on the curve, so every sample is a hit.
	e := numeric.NewEstimator(numeric.WithSource(func(int32) rand.Source { return zeroSource{} }))
	est, err := e.Sample(0, math.Pi, 100, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(100), est.Hits)
	assert.Equal(t, math.Pi, est.Area)
}

func TestEstimateAreaCustomIntegrand(t *testing.T) {
	t.Parallel()

	parabola := numeric.Integrand{
		Name: "parabola",
		F:    func(x float64) float64 { return x * (1 - x) },
	}
	e := numeric.NewEstimator(numeric.WithIntegrand(parabola), numeric.WithBoundPolicy(numeric.BoundClamp))
	est, err := e.Sample(0, 1, 400_000, 0, 9)
	require.NoError(t, err)
	assert.Equal(t, 0.25, est.YMax)
	assert.InDelta(t, 1.0/6, est.Area, 0.005)
}

func TestParseBoundPolicy(t *testing.T) {
	t.Parallel()

	for _, p := range []numeric.BoundPolicy{numeric.BoundStrict, numeric.BoundClamp, numeric.BoundUnchecked} {
		got, err := numeric.ParseBoundPolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	got, err := numeric.ParseBoundPolicy("")
	require.NoError(t, err)
	assert.Equal(t, numeric.BoundStrict, got)

	_, err = numeric.ParseBoundPolicy("loose")
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
}

func BenchmarkEstimateArea(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = numeric.EstimateArea(0, math.Pi, numeric.DefaultSamples, 1, int32(i))
	}
}
