package wasmhost_test

import (
	"context"
	"math"
	"testing"

	pkgerrors "github.com/absmach/quadra/pkg/errors"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/pkg/wasmhost"
	"github.com/absmach/quadra/pkg/wasmhost/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubModule is a hand-assembled module exporting
//
//	add(i32, i32) i32             = a + b
//	integrate(f64, f64, f64) f64  = a + b + dx
//
// which is enough to exercise argument encoding and result decoding.
var stubModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// type section
	0x01, 0x0e, 0x02,
	0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
	0x60, 0x03, 0x7c, 0x7c, 0x7c, 0x01, 0x7c,
	// function section
	0x03, 0x03, 0x02, 0x00, 0x01,
	// export section
	0x07, 0x13, 0x02,
	0x03, 'a', 'd', 'd', 0x00, 0x00,
	0x09, 'i', 'n', 't', 'e', 'g', 'r', 'a', 't', 'e', 0x00, 0x01,
	// code section
	0x0a, 0x14, 0x02,
	0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b,
	0x0a, 0x00, 0x20, 0x00, 0x20, 0x01, 0xa0, 0x20, 0x02, 0xa0, 0x0b,
}

func loadStub(t *testing.T) *wasmhost.Module {
	t.Helper()

	ctx := context.Background()
	m, err := wasmhost.Load(ctx, stubModule)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, m.Close(ctx))
	})

	return m
}

func TestLoadRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := wasmhost.Load(context.Background(), []byte("not wasm"))
	assert.Error(t, err)
}

func TestAdd(t *testing.T) {
	t.Parallel()

	m := loadStub(t)
	cases := []struct {
		a, b, want int32
	}{
		{2, 3, 5},
		{-7, 3, -4},
		{math.MaxInt32, 1, math.MinInt32},
	}
	for _, tc := range cases {
		got, err := m.Add(context.Background(), tc.a, tc.b)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestIntegrateEncodesFloats(t *testing.T) {
	t.Parallel()

	m := loadStub(t)
	got, err := m.Integrate(context.Background(), 0.5, -2.25, 1e-3)
	require.NoError(t, err)
	assert.InDelta(t, -1.749, got, 1e-12)
}

func TestIntegrateNaNIsInvalidArgument(t *testing.T) {
	t.Parallel()

	m := loadStub(t)
	_, err := m.Integrate(context.Background(), math.NaN(), 1, 0.1)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
}

func TestMissingExports(t *testing.T) {
	t.Parallel()

	m := loadStub(t)
	ctx := context.Background()

	_, err := m.EstimateArea(ctx, 0, math.Pi, 1000, 1, 0)
	assert.ErrorIs(t, err, wasmhost.ErrMissingExport)

	_, err = m.EstimateAreaBounded(ctx, 0, math.Pi, 1000, 1, 0, 1)
	assert.ErrorIs(t, err, wasmhost.ErrMissingExport)

	_, err = m.Benchmark(ctx)
	assert.ErrorIs(t, err, wasmhost.ErrMissingExport)

	assert.True(t, m.Exports(wasmhost.AddExport))
	assert.False(t, m.Exports(wasmhost.EstimateAreaBoundedExport))
}

func TestCallAfterClose(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, err := wasmhost.Load(ctx, stubModule)
	require.NoError(t, err)
	require.NoError(t, m.Close(ctx))
	require.NoError(t, m.Close(ctx))

	_, err = m.Add(ctx, 1, 2)
	assert.Error(t, err)
}

func loadCalc(t *testing.T) *wasmhost.Module {
	t.Helper()

	ctx := context.Background()
	m, err := wasmhost.Load(ctx, testutil.CalcModule(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, m.Close(ctx))
	})

	return m
}

func TestCalcGuest(t *testing.T) {
	t.Parallel()

	m := loadCalc(t)
	ctx := context.Background()

	for _, name := range []string{
		wasmhost.IntegrateExport,
		wasmhost.EstimateAreaExport,
		wasmhost.EstimateAreaBoundedExport,
		wasmhost.AddExport,
		wasmhost.BenchmarkExport,
	} {
		assert.True(t, m.Exports(name), name)
	}
	assert.False(t, m.Exports("simpson"))

	t.Run("integrate", func(t *testing.T) {
		v, err := m.Integrate(ctx, 0, math.Pi, 1e-4)
		require.NoError(t, err)
		assert.InDelta(t, 2, v, 1e-6)

		_, err = m.Integrate(ctx, 0, 1, 0)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
	})

	t.Run("estimate area", func(t *testing.T) {
		v, err := m.EstimateArea(ctx, 0, math.Pi, 100_000, 1, 7)
		require.NoError(t, err)
		want, err := numeric.EstimateArea(0, math.Pi, 100_000, 1, 7)
		require.NoError(t, err)
		assert.InDelta(t, want, v, 1e-4)

		_, err = m.EstimateArea(ctx, 0, math.Pi, 100_000, 0.5, 7)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
	})

	t.Run("estimate area with bound policy", func(t *testing.T) {
		v, err := m.EstimateAreaBounded(ctx, 0, math.Pi, 100_000, 0.5, 7, int32(numeric.BoundClamp))
		require.NoError(t, err)
		assert.InDelta(t, 2, v, 0.05)

		_, err = m.EstimateAreaBounded(ctx, 0, math.Pi, 100_000, 0.5, 7, int32(numeric.BoundStrict))
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)

		_, err = m.EstimateAreaBounded(ctx, 0, math.Pi, 100_000, 1, 7, 9)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
	})

	t.Run("add", func(t *testing.T) {
		v, err := m.Add(ctx, math.MaxInt32, 1)
		require.NoError(t, err)
		assert.Equal(t, int32(math.MinInt32), v)
	})

	t.Run("benchmark", func(t *testing.T) {
		v, err := m.Benchmark(ctx)
		require.NoError(t, err)
		assert.Positive(t, v)
	})
}
