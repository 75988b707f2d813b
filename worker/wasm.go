package worker

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/absmach/quadra/pkg/errors"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/pkg/wasmhost"
	"github.com/absmach/quadra/task"
)

var _ Worker = (*wasm)(nil)

// The guest module is compiled against the default integrand.
var errUnsupportedIntegrand = fmt.Errorf("%w: wasm workers only compute %q", pkgerrors.ErrInvalidArgument, numeric.Sin.Name)

type wasm struct {
	base
	module *wasmhost.Module
	policy numeric.BoundPolicy
	rounds int
}

// NewWasm instantiates wasmBinary and returns a worker that delegates every
// fragment to the guest's exports. A policy other than BoundStrict needs a
// guest exporting estimate_area_bounded.
func NewWasm(ctx context.Context, name string, wasmBinary []byte, opts ...Option) (Worker, error) {
	o := newOptions(opts)
	if o.policy > numeric.BoundUnchecked {
		return nil, fmt.Errorf("%w: unknown bound policy %d", pkgerrors.ErrInvalidArgument, o.policy)
	}

	m, err := wasmhost.Load(ctx, wasmBinary)
	if err != nil {
		return nil, err
	}
	if o.policy != numeric.BoundStrict && !m.Exports(wasmhost.EstimateAreaBoundedExport) {
		err := fmt.Errorf("%w: module does not export %q, required by the %s bound policy", pkgerrors.ErrInvalidArgument, wasmhost.EstimateAreaBoundedExport, o.policy)

		return nil, errors.Join(err, m.Close(ctx))
	}

	return &wasm{
		base:   newBase(o.id, name, KindWasm),
		module: m,
		policy: o.policy,
		rounds: o.rounds,
	}, nil
}

func (w *wasm) Benchmark(ctx context.Context) (float64, error) {
	score, err := measure(ctx, w.rounds, func() error {
		_, err := w.module.Benchmark(ctx)

		return err
	})
	if err != nil {
		return 0, err
	}
	w.setScore(score)

	return score, nil
}

func (w *wasm) Run(ctx context.Context, batch []task.Task) ([]task.Result, error) {
	results := make([]task.Result, 0, len(batch))
	for _, t := range batch {
		res, err := w.execute(ctx, t)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	w.countTasks(len(batch))

	return results, nil
}

func (w *wasm) execute(ctx context.Context, t task.Task) (task.Result, error) {
	res := task.Result{
		TaskID: t.ID,
		Index:  t.Index,
	}
	if err := t.Params.Validate(); err != nil {
		res.Error = err.Error()

		return res, nil
	}
	if t.Params.Integrand != "" && t.Params.Integrand != numeric.Sin.Name {
		res.Error = errUnsupportedIntegrand.Error()

		return res, nil
	}

	var (
		v   float64
		err error
	)
	switch t.Params.Method {
	case task.MethodTrapezoid:
		v, err = w.module.Integrate(ctx, t.Params.A, t.Params.B, t.Params.Step)
	case task.MethodMonteCarlo:
		p := t.Params
		if w.policy == numeric.BoundStrict {
			v, err = w.module.EstimateArea(ctx, p.A, p.B, p.Samples, p.YMax, p.SeedOffset)
		} else {
			v, err = w.module.EstimateAreaBounded(ctx, p.A, p.B, p.Samples, p.YMax, p.SeedOffset, int32(w.policy))
		}
	}
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		res.Error = err.Error()
	case err != nil:
		return task.Result{}, err
	default:
		res.Value = v
	}

	return res, nil
}

func (w *wasm) Close(ctx context.Context) error {
	w.setAlive(false)

	return w.module.Close(ctx)
}
