package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/quadra/job"
	"github.com/absmach/quadra/manager"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/worker"
)

var _ manager.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    manager.Service
}

func Logging(logger *slog.Logger, svc manager.Service) manager.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) Integrate(ctx context.Context, integrand string, a, b, dx float64) (value float64, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("integrand", integrand),
			slog.Float64("a", a),
			slog.Float64("b", b),
			slog.Float64("dx", dx),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Integrate failed", args...)

			return
		}
		args = append(args, slog.Float64("value", value))
		lm.logger.Info("Integrate completed successfully", args...)
	}(time.Now())

	return lm.svc.Integrate(ctx, integrand, a, b, dx)
}

func (lm *loggingMiddleware) EstimateArea(ctx context.Context, integrand string, a, b float64, samples int32, yMax float64, seedOffset int32) (est numeric.Estimate, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("integrand", integrand),
			slog.Float64("a", a),
			slog.Float64("b", b),
			slog.Int("samples", int(samples)),
			slog.Float64("y_max", yMax),
			slog.Int("seed_offset", int(seedOffset)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Estimate area failed", args...)

			return
		}
		args = append(args, slog.Group("estimate",
			slog.Int64("hits", est.Hits),
			slog.Float64("area", est.Area),
		))
		lm.logger.Info("Estimate area completed successfully", args...)
	}(time.Now())

	return lm.svc.EstimateArea(ctx, integrand, a, b, samples, yMax, seedOffset)
}

func (lm *loggingMiddleware) Add(ctx context.Context, a, b int32) (sum int32, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("a", int(a)),
			slog.Int("b", int(b)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Add failed", args...)

			return
		}
		lm.logger.Info("Add completed successfully", args...)
	}(time.Now())

	return lm.svc.Add(ctx, a, b)
}

func (lm *loggingMiddleware) Benchmark(ctx context.Context, workerID string) (info worker.Info, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("worker",
				slog.String("id", workerID),
				slog.Float64("score", info.Score),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Benchmark failed", args...)

			return
		}
		lm.logger.Info("Benchmark completed successfully", args...)
	}(time.Now())

	return lm.svc.Benchmark(ctx, workerID)
}

func (lm *loggingMiddleware) AddWorker(ctx context.Context, spec manager.WorkerSpec) (info worker.Info, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("worker",
				slog.String("id", info.ID),
				slog.String("name", info.Name),
				slog.String("kind", string(spec.Kind)),
				slog.Float64("score", info.Score),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Add worker failed", args...)

			return
		}
		lm.logger.Info("Add worker completed successfully", args...)
	}(time.Now())

	return lm.svc.AddWorker(ctx, spec)
}

func (lm *loggingMiddleware) GetWorker(ctx context.Context, workerID string) (info worker.Info, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("worker",
				slog.String("id", workerID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get worker failed", args...)

			return
		}
		lm.logger.Info("Get worker completed successfully", args...)
	}(time.Now())

	return lm.svc.GetWorker(ctx, workerID)
}

func (lm *loggingMiddleware) ListWorkers(ctx context.Context, offset, limit uint64) (page worker.WorkerPage, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Uint64("offset", offset),
			slog.Uint64("limit", limit),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List workers failed", args...)

			return
		}
		lm.logger.Info("List workers completed successfully", args...)
	}(time.Now())

	return lm.svc.ListWorkers(ctx, offset, limit)
}

func (lm *loggingMiddleware) RemoveWorker(ctx context.Context, workerID string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("worker",
				slog.String("id", workerID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Remove worker failed", args...)

			return
		}
		lm.logger.Info("Remove worker completed successfully", args...)
	}(time.Now())

	return lm.svc.RemoveWorker(ctx, workerID)
}

func (lm *loggingMiddleware) SubmitJob(ctx context.Context, spec job.Spec) (j job.Job, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("job",
				slog.String("id", j.ID),
				slog.String("name", spec.Name),
				slog.String("method", string(spec.Params.Method)),
				slog.Int("parts", spec.Parts),
				slog.String("state", j.State.String()),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Submit job failed", args...)

			return
		}
		if j.Error != "" {
			args = append(args, slog.String("job_error", j.Error))
			lm.logger.Warn("Submit job completed with failed tasks", args...)

			return
		}
		args = append(args, slog.Float64("result", j.Result))
		lm.logger.Info("Submit job completed successfully", args...)
	}(time.Now())

	return lm.svc.SubmitJob(ctx, spec)
}

func (lm *loggingMiddleware) GetJob(ctx context.Context, jobID string) (j job.Job, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("job",
				slog.String("id", jobID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get job failed", args...)

			return
		}
		lm.logger.Info("Get job completed successfully", args...)
	}(time.Now())

	return lm.svc.GetJob(ctx, jobID)
}

func (lm *loggingMiddleware) ListJobs(ctx context.Context, offset, limit uint64) (page job.JobPage, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Uint64("offset", offset),
			slog.Uint64("limit", limit),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List jobs failed", args...)

			return
		}
		lm.logger.Info("List jobs completed successfully", args...)
	}(time.Now())

	return lm.svc.ListJobs(ctx, offset, limit)
}

func (lm *loggingMiddleware) Subscribe(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("topic", worker.AnnounceTopic),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Subscribe to worker announcements failed", args...)

			return
		}
		lm.logger.Info("Subscribe to worker announcements completed successfully", args...)
	}(time.Now())

	return lm.svc.Subscribe(ctx)
}

func (lm *loggingMiddleware) Shutdown(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Shutdown failed", args...)

			return
		}
		lm.logger.Info("Shutdown completed successfully", args...)
	}(time.Now())

	return lm.svc.Shutdown(ctx)
}
