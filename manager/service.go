package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/0x6flab/namegenerator"
	"github.com/absmach/quadra/job"
	pkgerrors "github.com/absmach/quadra/pkg/errors"
	"github.com/absmach/quadra/pkg/mqtt"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/pkg/scheduler"
	"github.com/absmach/quadra/pkg/storage"
	"github.com/absmach/quadra/task"
	"github.com/absmach/quadra/worker"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var errNoPubSub = errors.New("manager has no MQTT connection")

type Config struct {
	Policy         numeric.BoundPolicy
	WasmBinary     []byte
	BurnIterations int64
	RemoteTimeout  time.Duration
}

type service struct {
	mu      sync.RWMutex
	workers map[string]worker.Worker
	order   []string

	jobsDB    storage.Storage[job.Job]
	scheduler scheduler.Scheduler
	pubsub    mqtt.PubSub
	namegen   namegenerator.NameGenerator
	cfg       Config
	logger    *slog.Logger
}

// NewService returns the manager. pubsub may be nil when no remote workers
// are expected.
func NewService(jobsDB storage.Storage[job.Job], s scheduler.Scheduler, pubsub mqtt.PubSub, cfg Config, logger *slog.Logger) Service {
	return &service{
		workers:   make(map[string]worker.Worker),
		jobsDB:    jobsDB,
		scheduler: s,
		pubsub:    pubsub,
		namegen:   namegenerator.NewGenerator(),
		cfg:       cfg,
		logger:    logger,
	}
}

func (svc *service) Integrate(_ context.Context, integrand string, a, b, dx float64) (float64, error) {
	in, err := numeric.Lookup(integrand)
	if err != nil {
		return 0, err
	}

	return numeric.NewIntegrator(numeric.WithIntegrand(in)).Integrate(a, b, dx)
}

func (svc *service) EstimateArea(_ context.Context, integrand string, a, b float64, samples int32, yMax float64, seedOffset int32) (numeric.Estimate, error) {
	in, err := numeric.Lookup(integrand)
	if err != nil {
		return numeric.Estimate{}, err
	}

	return numeric.NewEstimator(numeric.WithIntegrand(in), numeric.WithBoundPolicy(svc.cfg.Policy)).
		Sample(a, b, samples, yMax, seedOffset)
}

func (svc *service) Add(_ context.Context, a, b int32) (int32, error) {
	return numeric.Add(a, b), nil
}

func (svc *service) Benchmark(ctx context.Context, workerID string) (worker.Info, error) {
	w, err := svc.worker(workerID)
	if err != nil {
		return worker.Info{}, err
	}
	if _, err := w.Benchmark(ctx); err != nil {
		return worker.Info{}, errors.Join(fmt.Errorf("failed to benchmark worker %s", workerID), err)
	}

	return w.Info(), nil
}

func (svc *service) AddWorker(ctx context.Context, spec WorkerSpec) (worker.Info, error) {
	if spec.Name == "" {
		spec.Name = svc.namegen.Generate()
	}
	opts := []worker.Option{
		worker.WithBoundPolicy(svc.cfg.Policy),
		worker.WithBurnIterations(svc.cfg.BurnIterations),
	}

	var (
		w   worker.Worker
		err error
	)
	switch spec.Kind {
	case "", worker.KindNative:
		w = worker.NewNative(spec.Name, opts...)
	case worker.KindWasm:
		if len(svc.cfg.WasmBinary) == 0 {
			return worker.Info{}, fmt.Errorf("%w: no wasm module configured", pkgerrors.ErrMalformedEntity)
		}
		w, err = worker.NewWasm(ctx, spec.Name, svc.cfg.WasmBinary, opts...)
		if err != nil {
			return worker.Info{}, err
		}
	default:
		return worker.Info{}, fmt.Errorf("%w: cannot create %q workers", pkgerrors.ErrMalformedEntity, spec.Kind)
	}

	if _, err := w.Benchmark(ctx); err != nil {
		return worker.Info{}, errors.Join(errors.New("failed to benchmark new worker"), err, w.Close(ctx))
	}
	if err := svc.register(w); err != nil {
		return worker.Info{}, errors.Join(err, w.Close(ctx))
	}

	return w.Info(), nil
}

func (svc *service) GetWorker(_ context.Context, workerID string) (worker.Info, error) {
	w, err := svc.worker(workerID)
	if err != nil {
		return worker.Info{}, err
	}

	return w.Info(), nil
}

func (svc *service) ListWorkers(_ context.Context, offset, limit uint64) (worker.WorkerPage, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	total := uint64(len(svc.order))
	page := worker.WorkerPage{
		Offset:  offset,
		Limit:   limit,
		Total:   total,
		Workers: []worker.Info{},
	}
	if offset >= total {
		return page, nil
	}
	end := min(offset+limit, total)
	for _, id := range svc.order[offset:end] {
		page.Workers = append(page.Workers, svc.workers[id].Info())
	}

	return page, nil
}

func (svc *service) RemoveWorker(ctx context.Context, workerID string) error {
	svc.mu.Lock()
	w, ok := svc.workers[workerID]
	if ok {
		delete(svc.workers, workerID)
		for i, id := range svc.order {
			if id == workerID {
				svc.order = append(svc.order[:i], svc.order[i+1:]...)

				break
			}
		}
	}
	svc.mu.Unlock()

	if !ok {
		return fmt.Errorf("worker %s: %w", workerID, pkgerrors.ErrNotFound)
	}

	return w.Close(ctx)
}

func (svc *service) SubmitJob(ctx context.Context, spec job.Spec) (job.Job, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return job.Job{}, err
	}
	if spec.Name == "" {
		spec.Name = svc.namegen.Generate()
	}
	if spec.Parts < 1 {
		spec.Parts = 1
	}

	tasks, err := task.Partition(id.String(), spec.Params, spec.Parts)
	if err != nil {
		return job.Job{}, err
	}
	selected, err := svc.selectWorkers(spec.WorkerIDs)
	if err != nil {
		return job.Job{}, err
	}

	infos := make([]worker.Info, 0, len(selected))
	byID := make(map[string]worker.Worker, len(selected))
	for _, w := range selected {
		info := w.Info()
		infos = append(infos, info)
		byID[info.ID] = w
	}
	assignments, err := svc.scheduler.Distribute(tasks, infos)
	if err != nil {
		return job.Job{}, err
	}

	now := time.Now()
	j := job.Job{
		ID:        id.String(),
		Name:      spec.Name,
		Spec:      spec,
		State:     task.Running,
		Tasks:     len(tasks),
		StartTime: now,
		CreatedAt: now,
	}
	if err := svc.jobsDB.Create(ctx, j.ID, j); err != nil {
		return job.Job{}, err
	}

	results, runErr := svc.run(ctx, byID, assignments)
	if runErr == nil {
		j.Result, runErr = task.Aggregate(results, len(tasks))
	}

	j.FinishTime = time.Now()
	j.State = task.Completed
	if runErr != nil {
		j.State = task.Failed
		j.Error = runErr.Error()
		j.Result = 0
	}
	if err := svc.jobsDB.Update(ctx, j.ID, j); err != nil {
		return job.Job{}, err
	}

	return j, nil
}

func (svc *service) GetJob(ctx context.Context, jobID string) (job.Job, error) {
	return svc.jobsDB.Get(ctx, jobID)
}

func (svc *service) ListJobs(ctx context.Context, offset, limit uint64) (job.JobPage, error) {
	jobs, total, err := svc.jobsDB.List(ctx, offset, limit)
	if err != nil {
		return job.JobPage{}, err
	}

	return job.JobPage{
		Offset: offset,
		Limit:  limit,
		Total:  total,
		Jobs:   jobs,
	}, nil
}

func (svc *service) Subscribe(ctx context.Context) error {
	if svc.pubsub == nil {
		return errNoPubSub
	}

	return svc.pubsub.Subscribe(ctx, worker.AnnounceTopic, svc.handleAnnouncement(ctx))
}

func (svc *service) Shutdown(ctx context.Context) error {
	svc.mu.Lock()
	workers := svc.workers
	svc.workers = make(map[string]worker.Worker)
	svc.order = nil
	svc.mu.Unlock()

	var errs []error
	for id, w := range workers {
		if err := w.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close worker %s: %w", id, err))
		}
	}
	if svc.pubsub != nil {
		if err := svc.pubsub.Unsubscribe(ctx, worker.AnnounceTopic); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// run executes every batch of every assignment concurrently. Results come
// back in completion order.
func (svc *service) run(ctx context.Context, workers map[string]worker.Worker, assignments []scheduler.Assignment) ([]task.Result, error) {
	var (
		mu      sync.Mutex
		results []task.Result
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, a := range assignments {
		w := workers[a.WorkerID]
		for _, batch := range a.Batches() {
			g.Go(func() error {
				res, err := w.Run(ctx, batch)
				if err != nil {
					return errors.Join(fmt.Errorf("worker %s failed", a.WorkerID), err)
				}

				mu.Lock()
				results = append(results, res...)
				mu.Unlock()

				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// selectWorkers resolves ids to workers; no ids selects all of them in
// registration order.
func (svc *service) selectWorkers(ids []string) ([]worker.Worker, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	if len(ids) == 0 {
		ids = svc.order
	}
	selected := make([]worker.Worker, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		w, ok := svc.workers[id]
		if !ok {
			return nil, fmt.Errorf("worker %s: %w", id, pkgerrors.ErrNotFound)
		}
		if !seen[id] {
			seen[id] = true
			selected = append(selected, w)
		}
	}

	return selected, nil
}

func (svc *service) worker(id string) (worker.Worker, error) {
	if id == "" {
		return nil, pkgerrors.ErrEmptyKey
	}

	svc.mu.RLock()
	defer svc.mu.RUnlock()

	w, ok := svc.workers[id]
	if !ok {
		return nil, fmt.Errorf("worker %s: %w", id, pkgerrors.ErrNotFound)
	}

	return w, nil
}

func (svc *service) register(w worker.Worker) error {
	id := w.Info().ID

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if _, ok := svc.workers[id]; ok {
		return fmt.Errorf("worker %s: %w", id, pkgerrors.ErrEntityExists)
	}
	svc.workers[id] = w
	svc.order = append(svc.order, id)

	return nil
}
