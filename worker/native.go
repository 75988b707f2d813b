package worker

import (
	"context"

	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/task"
)

var _ Worker = (*native)(nil)

type native struct {
	base
	policy         numeric.BoundPolicy
	burnIterations int64
	rounds         int
}

// NewNative returns a worker that computes fragments in-process.
func NewNative(name string, opts ...Option) Worker {
	o := newOptions(opts)

	return &native{
		base:           newBase(o.id, name, KindNative),
		policy:         o.policy,
		burnIterations: o.burnIterations,
		rounds:         o.rounds,
	}
}

func (w *native) Benchmark(ctx context.Context) (float64, error) {
	score, err := measure(ctx, w.rounds, func() error {
		numeric.Burn(w.burnIterations)

		return nil
	})
	if err != nil {
		return 0, err
	}
	w.setScore(score)

	return score, nil
}

func (w *native) Run(ctx context.Context, batch []task.Task) ([]task.Result, error) {
	results := make([]task.Result, 0, len(batch))
	for _, t := range batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, Execute(t, w.policy))
	}
	w.countTasks(len(batch))

	return results, nil
}

func (w *native) Close(context.Context) error {
	w.setAlive(false)

	return nil
}

// Execute computes a single fragment.
func Execute(t task.Task, policy numeric.BoundPolicy) task.Result {
	res := task.Result{
		TaskID: t.ID,
		Index:  t.Index,
	}
	if err := t.Params.Validate(); err != nil {
		res.Error = err.Error()

		return res
	}
	in, err := numeric.Lookup(t.Params.Integrand)
	if err != nil {
		res.Error = err.Error()

		return res
	}

	switch t.Params.Method {
	case task.MethodTrapezoid:
		v, err := numeric.NewIntegrator(numeric.WithIntegrand(in)).Integrate(t.Params.A, t.Params.B, t.Params.Step)
		if err != nil {
			res.Error = err.Error()

			return res
		}
		res.Value = v
	case task.MethodMonteCarlo:
		est, err := numeric.NewEstimator(numeric.WithIntegrand(in), numeric.WithBoundPolicy(policy)).
			Sample(t.Params.A, t.Params.B, t.Params.Samples, t.Params.YMax, t.Params.SeedOffset)
		if err != nil {
			res.Error = err.Error()

			return res
		}
		res.Value = est.Area
		res.Hits = est.Hits
	}

	return res
}
