package manager_test

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/absmach/quadra/job"
	"github.com/absmach/quadra/manager"
	pkgerrors "github.com/absmach/quadra/pkg/errors"
	pkgmqtt "github.com/absmach/quadra/pkg/mqtt"
	"github.com/absmach/quadra/pkg/mqtt/mocks"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/pkg/scheduler"
	"github.com/absmach/quadra/pkg/storage"
	"github.com/absmach/quadra/task"
	"github.com/absmach/quadra/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newService(t *testing.T) (manager.Service, *mocks.Loopback) {
	t.Helper()

	broker := mocks.NewLoopback()
	svc := manager.NewService(
		storage.NewInMemoryStorage[job.Job](),
		scheduler.NewWeighted(),
		broker,
		manager.Config{BurnIterations: 1000},
		discard,
	)
	t.Cleanup(func() {
		assert.NoError(t, svc.Shutdown(context.Background()))
	})

	return svc, broker
}

func halfPeriod(method task.Method) task.Params {
	return task.Params{
		Method:  method,
		A:       0,
		B:       math.Pi,
		Step:    1e-4,
		Samples: 400_000,
		YMax:    1,
	}
}

func TestIntegrate(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	cases := []struct {
		desc      string
		integrand string
		a, b, dx  float64
		want      float64
		err       error
	}{
		{desc: "default integrand", a: 0, b: math.Pi, dx: 1e-4, want: 2},
		{desc: "named integrand", integrand: "square", a: 0, b: 3, dx: 1e-3, want: 9},
		{desc: "non-positive step", a: 0, b: 1, dx: 0, err: pkgerrors.ErrInvalidArgument},
		{desc: "unknown integrand", integrand: "tan", a: 0, b: 1, dx: 0.1, err: pkgerrors.ErrInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := svc.Integrate(ctx, tc.integrand, tc.a, tc.b, tc.dx)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-5)
		})
	}
}

func TestEstimateArea(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	est, err := svc.EstimateArea(ctx, "", 0, math.Pi, 200_000, 1, 3)
	require.NoError(t, err)
	assert.InDelta(t, 2, est.Area, 0.05)
	assert.Equal(t, int32(200_000), est.Samples)

	_, err = svc.EstimateArea(ctx, "", 0, math.Pi, 1000, 0.5, 0)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
}

func TestEstimateAreaClampPolicy(t *testing.T) {
	t.Parallel()

	svc := manager.NewService(storage.NewInMemoryStorage[job.Job](), scheduler.NewWeighted(), nil,
		manager.Config{Policy: numeric.BoundClamp, BurnIterations: 1000}, discard)

	est, err := svc.EstimateArea(context.Background(), "", 0, math.Pi, 1000, 0.5, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, est.YMax, 1e-9)
}

func TestAdd(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	sum, err := svc.Add(context.Background(), math.MaxInt32, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MinInt32), sum)
}

func TestWorkers(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	named, err := svc.AddWorker(ctx, manager.WorkerSpec{Name: "alpha", Kind: worker.KindNative})
	require.NoError(t, err)
	assert.Equal(t, "alpha", named.Name)
	assert.Positive(t, named.Score)
	assert.True(t, named.Alive)

	generated, err := svc.AddWorker(ctx, manager.WorkerSpec{})
	require.NoError(t, err)
	assert.NotEmpty(t, generated.Name)
	assert.Equal(t, worker.KindNative, generated.Kind)

	_, err = svc.AddWorker(ctx, manager.WorkerSpec{Kind: worker.KindWasm})
	assert.ErrorIs(t, err, pkgerrors.ErrMalformedEntity)
	_, err = svc.AddWorker(ctx, manager.WorkerSpec{Kind: worker.KindRemote})
	assert.ErrorIs(t, err, pkgerrors.ErrMalformedEntity)

	page, err := svc.ListWorkers(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), page.Total)
	require.Len(t, page.Workers, 2)
	assert.Equal(t, named.ID, page.Workers[0].ID)

	page, err = svc.ListWorkers(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Workers, 1)
	assert.Equal(t, generated.ID, page.Workers[0].ID)

	info, err := svc.Benchmark(ctx, named.ID)
	require.NoError(t, err)
	assert.Positive(t, info.Score)

	_, err = svc.Benchmark(ctx, "missing")
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
	_, err = svc.GetWorker(ctx, "")
	assert.ErrorIs(t, err, pkgerrors.ErrEmptyKey)

	require.NoError(t, svc.RemoveWorker(ctx, named.ID))
	_, err = svc.GetWorker(ctx, named.ID)
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
	assert.ErrorIs(t, svc.RemoveWorker(ctx, named.ID), pkgerrors.ErrNotFound)
}

func TestSubmitJob(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	for _, name := range []string{"one", "two", "three"} {
		_, err := svc.AddWorker(ctx, manager.WorkerSpec{Name: name})
		require.NoError(t, err)
	}

	cases := []struct {
		desc   string
		method task.Method
		delta  float64
	}{
		{desc: "trapezoid", method: task.MethodTrapezoid, delta: 1e-6},
		{desc: "monte carlo", method: task.MethodMonteCarlo, delta: 0.05},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			j, err := svc.SubmitJob(ctx, job.Spec{Name: tc.desc, Params: halfPeriod(tc.method), Parts: 8})
			require.NoError(t, err)
			assert.Equal(t, task.Completed, j.State)
			assert.Empty(t, j.Error)
			assert.Equal(t, 8, j.Tasks)
			assert.InDelta(t, 2, j.Result, tc.delta)
			assert.False(t, j.FinishTime.Before(j.StartTime))

			stored, err := svc.GetJob(ctx, j.ID)
			require.NoError(t, err)
			assert.Equal(t, j.ID, stored.ID)
			assert.InDelta(t, j.Result, stored.Result, 0)
		})
	}

	page, err := svc.ListJobs(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), page.Total)
}

func TestSubmitJobMonteCarloIsReproducible(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.AddWorker(ctx, manager.WorkerSpec{})
	require.NoError(t, err)
	_, err = svc.AddWorker(ctx, manager.WorkerSpec{})
	require.NoError(t, err)

	spec := job.Spec{Params: halfPeriod(task.MethodMonteCarlo), Parts: 5}
	first, err := svc.SubmitJob(ctx, spec)
	require.NoError(t, err)
	second, err := svc.SubmitJob(ctx, spec)
	require.NoError(t, err)

	assert.Equal(t, math.Float64bits(first.Result), math.Float64bits(second.Result))
}

func TestSubmitJobErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("no workers", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.SubmitJob(ctx, job.Spec{Params: halfPeriod(task.MethodTrapezoid)})
		assert.ErrorIs(t, err, pkgerrors.ErrNoWorker)
	})

	t.Run("unknown worker", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.SubmitJob(ctx, job.Spec{Params: halfPeriod(task.MethodTrapezoid), WorkerIDs: []string{"ghost"}})
		assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
	})

	t.Run("reversed interval", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.AddWorker(ctx, manager.WorkerSpec{})
		require.NoError(t, err)

		p := halfPeriod(task.MethodTrapezoid)
		p.A, p.B = p.B, p.A
		_, err = svc.SubmitJob(ctx, job.Spec{Params: p})
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
	})

	t.Run("failing tasks", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.AddWorker(ctx, manager.WorkerSpec{})
		require.NoError(t, err)

		p := halfPeriod(task.MethodTrapezoid)
		p.Step = -1
		j, err := svc.SubmitJob(ctx, job.Spec{Params: p, Parts: 2})
		require.NoError(t, err)
		assert.Equal(t, task.Failed, j.State)
		assert.NotEmpty(t, j.Error)

		stored, err := svc.GetJob(ctx, j.ID)
		require.NoError(t, err)
		assert.Equal(t, task.Failed, stored.State)
	})
}

func TestRemoteWorkers(t *testing.T) {
	t.Parallel()

	svc, broker := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, svc.Subscribe(ctx))

	local := worker.NewNative("edge", worker.WithBurnIterations(1000))
	srv := worker.NewServer(local, broker, 0, discard)
	require.NoError(t, srv.Start(ctx))

	info, err := svc.GetWorker(ctx, local.Info().ID)
	require.NoError(t, err)
	assert.Equal(t, worker.KindRemote, info.Kind)
	assert.Equal(t, "edge", info.Name)
	assert.True(t, info.Alive)

	j, err := svc.SubmitJob(ctx, job.Spec{Params: halfPeriod(task.MethodTrapezoid), Parts: 3, WorkerIDs: []string{info.ID}})
	require.NoError(t, err)
	assert.Equal(t, task.Completed, j.State)
	assert.InDelta(t, 2, j.Result, 1e-6)

	require.NoError(t, srv.Stop(ctx))
	info, err = svc.GetWorker(ctx, info.ID)
	require.NoError(t, err)
	assert.False(t, info.Alive)

	_, err = svc.SubmitJob(ctx, job.Spec{Params: halfPeriod(task.MethodTrapezoid), WorkerIDs: []string{info.ID}})
	assert.ErrorIs(t, err, pkgerrors.ErrNoWorker)
}

func TestRemoteWorkerWithRepeatedResults(t *testing.T) {
	t.Parallel()

	svc, broker := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Subscribe(ctx))

	const id = "repeater"
	require.NoError(t, broker.Subscribe(ctx, worker.TasksTopic(id), func(_ string, msg map[string]any) error {
		var req worker.BatchRequest
		if err := pkgmqtt.Decode(msg, &req); err != nil {
			return err
		}
		resp := worker.BatchResponse{BatchID: req.BatchID, WorkerID: id, Score: 1}
		for range req.Tasks {
			resp.Results = append(resp.Results, task.Result{Index: 0, Value: 1})
		}

		return broker.Publish(ctx, worker.ResultsTopic(id), resp)
	}))
	require.NoError(t, broker.Publish(ctx, worker.AnnounceTopic, worker.Announcement{WorkerID: id, Score: 1, Status: worker.StatusAlive}))

	j, err := svc.SubmitJob(ctx, job.Spec{Params: halfPeriod(task.MethodTrapezoid), Parts: 3, WorkerIDs: []string{id}})
	require.NoError(t, err)
	assert.Equal(t, task.Failed, j.State)
	assert.Zero(t, j.Result)
	assert.Contains(t, j.Error, task.ErrResultMismatch.Error())
}

func TestSubscribeWithoutBroker(t *testing.T) {
	t.Parallel()

	svc := manager.NewService(storage.NewInMemoryStorage[job.Job](), scheduler.NewRoundRobin(), nil, manager.Config{}, discard)
	assert.Error(t, svc.Subscribe(context.Background()))
}
