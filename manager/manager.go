package manager

import (
	"context"

	"github.com/absmach/quadra/job"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/worker"
)

// WorkerSpec describes a worker created inside the manager process. Remote
// workers join by announcing themselves over MQTT instead.
type WorkerSpec struct {
	Name string      `json:"name,omitempty"`
	Kind worker.Kind `json:"kind"`
}

type Service interface {
	Integrate(ctx context.Context, integrand string, a, b, dx float64) (float64, error)
	EstimateArea(ctx context.Context, integrand string, a, b float64, samples int32, yMax float64, seedOffset int32) (numeric.Estimate, error)
	Add(ctx context.Context, a, b int32) (int32, error)
	// Benchmark re-measures a worker and returns its refreshed info.
	Benchmark(ctx context.Context, workerID string) (worker.Info, error)

	AddWorker(ctx context.Context, spec WorkerSpec) (worker.Info, error)
	GetWorker(ctx context.Context, workerID string) (worker.Info, error)
	ListWorkers(ctx context.Context, offset, limit uint64) (worker.WorkerPage, error)
	RemoveWorker(ctx context.Context, workerID string) error

	// SubmitJob partitions the job, runs its tasks on the scheduled workers
	// and stores the outcome. A job whose tasks fail is stored and returned
	// in the Failed state without an error.
	SubmitJob(ctx context.Context, spec job.Spec) (job.Job, error)
	GetJob(ctx context.Context, jobID string) (job.Job, error)
	ListJobs(ctx context.Context, offset, limit uint64) (job.JobPage, error)

	Subscribe(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
