package middleware

import (
	"context"
	"time"

	"github.com/absmach/quadra/job"
	"github.com/absmach/quadra/manager"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/worker"
	"github.com/go-kit/kit/metrics"
)

var _ manager.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     manager.Service
}

func Metrics(counter metrics.Counter, latency metrics.Histogram, svc manager.Service) manager.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) observe(method string, begin time.Time) {
	mm.counter.With("method", method).Add(1)
	mm.latency.With("method", method).Observe(time.Since(begin).Seconds())
}

func (mm *metricsMiddleware) Integrate(ctx context.Context, integrand string, a, b, dx float64) (float64, error) {
	defer mm.observe("integrate", time.Now())

	return mm.svc.Integrate(ctx, integrand, a, b, dx)
}

func (mm *metricsMiddleware) EstimateArea(ctx context.Context, integrand string, a, b float64, samples int32, yMax float64, seedOffset int32) (numeric.Estimate, error) {
	defer mm.observe("estimate-area", time.Now())

	return mm.svc.EstimateArea(ctx, integrand, a, b, samples, yMax, seedOffset)
}

func (mm *metricsMiddleware) Add(ctx context.Context, a, b int32) (int32, error) {
	defer mm.observe("add", time.Now())

	return mm.svc.Add(ctx, a, b)
}

func (mm *metricsMiddleware) Benchmark(ctx context.Context, workerID string) (worker.Info, error) {
	defer mm.observe("benchmark", time.Now())

	return mm.svc.Benchmark(ctx, workerID)
}

func (mm *metricsMiddleware) AddWorker(ctx context.Context, spec manager.WorkerSpec) (worker.Info, error) {
	defer mm.observe("add-worker", time.Now())

	return mm.svc.AddWorker(ctx, spec)
}

func (mm *metricsMiddleware) GetWorker(ctx context.Context, workerID string) (worker.Info, error) {
	defer mm.observe("get-worker", time.Now())

	return mm.svc.GetWorker(ctx, workerID)
}

func (mm *metricsMiddleware) ListWorkers(ctx context.Context, offset, limit uint64) (worker.WorkerPage, error) {
	defer mm.observe("list-workers", time.Now())

	return mm.svc.ListWorkers(ctx, offset, limit)
}

func (mm *metricsMiddleware) RemoveWorker(ctx context.Context, workerID string) error {
	defer mm.observe("remove-worker", time.Now())

	return mm.svc.RemoveWorker(ctx, workerID)
}

func (mm *metricsMiddleware) SubmitJob(ctx context.Context, spec job.Spec) (job.Job, error) {
	defer mm.observe("submit-job", time.Now())

	return mm.svc.SubmitJob(ctx, spec)
}

func (mm *metricsMiddleware) GetJob(ctx context.Context, jobID string) (job.Job, error) {
	defer mm.observe("get-job", time.Now())

	return mm.svc.GetJob(ctx, jobID)
}

func (mm *metricsMiddleware) ListJobs(ctx context.Context, offset, limit uint64) (job.JobPage, error) {
	defer mm.observe("list-jobs", time.Now())

	return mm.svc.ListJobs(ctx, offset, limit)
}

func (mm *metricsMiddleware) Subscribe(ctx context.Context) error {
	defer mm.observe("subscribe", time.Now())

	return mm.svc.Subscribe(ctx)
}

func (mm *metricsMiddleware) Shutdown(ctx context.Context) error {
	defer mm.observe("shutdown", time.Now())

	return mm.svc.Shutdown(ctx)
}
