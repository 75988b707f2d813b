// Package wasmhost loads the quadra guest module with wazero and calls its
// exports as ordinary Go methods.
package wasmhost

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	pkgerrors "github.com/absmach/quadra/pkg/errors"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

const (
	IntegrateExport    = "integrate"
	EstimateAreaExport = "estimate_area"
	// EstimateAreaBoundedExport takes the bound policy as a trailing i32.
	EstimateAreaBoundedExport = "estimate_area_bounded"
	AddExport                 = "add"
	BenchmarkExport           = "benchmark"
)

var (
	ErrMissingExport = errors.New("module does not export function")
	errClosed        = errors.New("module is closed")
)

// Module is one instantiated guest. Calls are serialized because a wasm
// instance has a single linear memory and stack.
type Module struct {
	mu      sync.Mutex
	runtime wazero.Runtime
	module  api.Module
}

// Load compiles and instantiates wasmBinary. Guests built as reactors export
// _initialize, which runs before any other call.
func Load(ctx context.Context, wasmBinary []byte) (*Module, error) {
	r := wazero.NewRuntime(ctx)

	// Instantiate WASI, which implements the system interface Go and TinyGo
	// guests import.
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		_ = r.Close(ctx)

		return nil, errors.Join(errors.New("failed to instantiate WASI"), err)
	}

	mod, err := r.InstantiateWithConfig(ctx, wasmBinary, wazero.NewModuleConfig().WithStartFunctions("_initialize"))
	if err != nil {
		_ = r.Close(ctx)

		return nil, errors.Join(errors.New("failed to instantiate Wasm module"), err)
	}

	return &Module{
		runtime: r,
		module:  mod,
	}, nil
}

func (m *Module) Integrate(ctx context.Context, a, b, dx float64) (float64, error) {
	res, err := m.call(ctx, IntegrateExport, api.EncodeF64(a), api.EncodeF64(b), api.EncodeF64(dx))
	if err != nil {
		return 0, err
	}

	return decodeResult(IntegrateExport, res)
}

func (m *Module) EstimateArea(ctx context.Context, a, b float64, samples int32, yMax float64, seedOffset int32) (float64, error) {
	res, err := m.call(ctx, EstimateAreaExport,
		api.EncodeF64(a),
		api.EncodeF64(b),
		api.EncodeI32(samples),
		api.EncodeF64(yMax),
		api.EncodeI32(seedOffset),
	)
	if err != nil {
		return 0, err
	}

	return decodeResult(EstimateAreaExport, res)
}

// EstimateAreaBounded calls estimate_area_bounded, which applies policy
// instead of the guest's default strict bound check.
func (m *Module) EstimateAreaBounded(ctx context.Context, a, b float64, samples int32, yMax float64, seedOffset, policy int32) (float64, error) {
	res, err := m.call(ctx, EstimateAreaBoundedExport,
		api.EncodeF64(a),
		api.EncodeF64(b),
		api.EncodeI32(samples),
		api.EncodeF64(yMax),
		api.EncodeI32(seedOffset),
		api.EncodeI32(policy),
	)
	if err != nil {
		return 0, err
	}

	return decodeResult(EstimateAreaBoundedExport, res)
}

// Exports reports whether the guest exports a function called name.
func (m *Module) Exports(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.module != nil && m.module.ExportedFunction(name) != nil
}

func (m *Module) Add(ctx context.Context, a, b int32) (int32, error) {
	res, err := m.call(ctx, AddExport, api.EncodeI32(a), api.EncodeI32(b))
	if err != nil {
		return 0, err
	}
	if len(res) != 1 {
		return 0, fmt.Errorf("%s returned %d values, want 1", AddExport, len(res))
	}

	return api.DecodeI32(res[0]), nil
}

// Benchmark runs the guest's CPU-burn loop and returns its checksum.
func (m *Module) Benchmark(ctx context.Context) (float64, error) {
	res, err := m.call(ctx, BenchmarkExport)
	if err != nil {
		return 0, err
	}
	if len(res) != 1 {
		return 0, fmt.Errorf("%s returned %d values, want 1", BenchmarkExport, len(res))
	}

	return api.DecodeF64(res[0]), nil
}

func (m *Module) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.runtime == nil {
		return nil
	}
	err := m.runtime.Close(ctx)
	m.runtime, m.module = nil, nil

	return err
}

func (m *Module) call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.module == nil {
		return nil, errClosed
	}
	fn := m.module.ExportedFunction(name)
	if fn == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingExport, name)
	}

	res, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to call %q", name), err)
	}

	return res, nil
}

// decodeResult maps the guest's NaN sentinel back to ErrInvalidArgument.
func decodeResult(name string, res []uint64) (float64, error) {
	if len(res) != 1 {
		return 0, fmt.Errorf("%s returned %d values, want 1", name, len(res))
	}
	v := api.DecodeF64(res[0])
	if math.IsNaN(v) {
		return 0, fmt.Errorf("%w: rejected by guest %s", pkgerrors.ErrInvalidArgument, name)
	}

	return v, nil
}
