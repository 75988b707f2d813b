package middleware

import (
	"context"

	"github.com/absmach/quadra/job"
	"github.com/absmach/quadra/manager"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/worker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ manager.Service = (*tracing)(nil)

type tracing struct {
	tracer trace.Tracer
	svc    manager.Service
}

func Tracing(tracer trace.Tracer, svc manager.Service) manager.Service {
	return &tracing{tracer, svc}
}

func (tm *tracing) Integrate(ctx context.Context, integrand string, a, b, dx float64) (float64, error) {
	ctx, span := tm.tracer.Start(ctx, "integrate", trace.WithAttributes(
		attribute.String("integrand", integrand),
		attribute.Float64("a", a),
		attribute.Float64("b", b),
		attribute.Float64("dx", dx),
	))
	defer span.End()

	return tm.svc.Integrate(ctx, integrand, a, b, dx)
}

func (tm *tracing) EstimateArea(ctx context.Context, integrand string, a, b float64, samples int32, yMax float64, seedOffset int32) (numeric.Estimate, error) {
	ctx, span := tm.tracer.Start(ctx, "estimate-area", trace.WithAttributes(
		attribute.String("integrand", integrand),
		attribute.Float64("a", a),
		attribute.Float64("b", b),
		attribute.Int("samples", int(samples)),
		attribute.Float64("y_max", yMax),
		attribute.Int("seed_offset", int(seedOffset)),
	))
	defer span.End()

	return tm.svc.EstimateArea(ctx, integrand, a, b, samples, yMax, seedOffset)
}

func (tm *tracing) Add(ctx context.Context, a, b int32) (int32, error) {
	ctx, span := tm.tracer.Start(ctx, "add")
	defer span.End()

	return tm.svc.Add(ctx, a, b)
}

func (tm *tracing) Benchmark(ctx context.Context, workerID string) (worker.Info, error) {
	ctx, span := tm.tracer.Start(ctx, "benchmark", trace.WithAttributes(
		attribute.String("worker_id", workerID),
	))
	defer span.End()

	return tm.svc.Benchmark(ctx, workerID)
}

func (tm *tracing) AddWorker(ctx context.Context, spec manager.WorkerSpec) (worker.Info, error) {
	ctx, span := tm.tracer.Start(ctx, "add-worker", trace.WithAttributes(
		attribute.String("name", spec.Name),
		attribute.String("kind", string(spec.Kind)),
	))
	defer span.End()

	return tm.svc.AddWorker(ctx, spec)
}

func (tm *tracing) GetWorker(ctx context.Context, workerID string) (worker.Info, error) {
	ctx, span := tm.tracer.Start(ctx, "get-worker", trace.WithAttributes(
		attribute.String("id", workerID),
	))
	defer span.End()

	return tm.svc.GetWorker(ctx, workerID)
}

func (tm *tracing) ListWorkers(ctx context.Context, offset, limit uint64) (worker.WorkerPage, error) {
	ctx, span := tm.tracer.Start(ctx, "list-workers", trace.WithAttributes(
		attribute.Int64("offset", int64(offset)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	return tm.svc.ListWorkers(ctx, offset, limit)
}

func (tm *tracing) RemoveWorker(ctx context.Context, workerID string) error {
	ctx, span := tm.tracer.Start(ctx, "remove-worker", trace.WithAttributes(
		attribute.String("id", workerID),
	))
	defer span.End()

	return tm.svc.RemoveWorker(ctx, workerID)
}

func (tm *tracing) SubmitJob(ctx context.Context, spec job.Spec) (job.Job, error) {
	ctx, span := tm.tracer.Start(ctx, "submit-job", trace.WithAttributes(
		attribute.String("name", spec.Name),
		attribute.String("method", string(spec.Params.Method)),
		attribute.Int("parts", spec.Parts),
	))
	defer span.End()

	j, err := tm.svc.SubmitJob(ctx, spec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return j, err
	}
	span.SetAttributes(
		attribute.String("id", j.ID),
		attribute.String("state", j.State.String()),
	)

	return j, nil
}

func (tm *tracing) GetJob(ctx context.Context, jobID string) (job.Job, error) {
	ctx, span := tm.tracer.Start(ctx, "get-job", trace.WithAttributes(
		attribute.String("id", jobID),
	))
	defer span.End()

	return tm.svc.GetJob(ctx, jobID)
}

func (tm *tracing) ListJobs(ctx context.Context, offset, limit uint64) (job.JobPage, error) {
	ctx, span := tm.tracer.Start(ctx, "list-jobs", trace.WithAttributes(
		attribute.Int64("offset", int64(offset)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	return tm.svc.ListJobs(ctx, offset, limit)
}

func (tm *tracing) Subscribe(ctx context.Context) error {
	ctx, span := tm.tracer.Start(ctx, "subscribe")
	defer span.End()

	return tm.svc.Subscribe(ctx)
}

func (tm *tracing) Shutdown(ctx context.Context) error {
	ctx, span := tm.tracer.Start(ctx, "shutdown")
	defer span.End()

	return tm.svc.Shutdown(ctx)
}
