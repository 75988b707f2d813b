package worker

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/task"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

const defBenchmarkRounds = 3

type Kind string

const (
	KindNative Kind = "native"
	KindWasm   Kind = "wasm"
	KindRemote Kind = "remote"
)

type Info struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	Score     float64   `json:"score"`
	Alive     bool      `json:"alive"`
	TaskCount uint64    `json:"task_count"`
	CreatedAt time.Time `json:"created_at"`
}

type WorkerPage struct {
	Offset  uint64 `json:"offset"`
	Limit   uint64 `json:"limit"`
	Total   uint64 `json:"total"`
	Workers []Info `json:"workers"`
}

// Worker executes batches of fragment tasks. Numeric failures of single
// tasks are reported in task.Result.Error; a returned error means the batch
// as a whole could not run.
type Worker interface {
	Info() Info
	// Benchmark measures the worker's speed and records it as its score.
	Benchmark(ctx context.Context) (float64, error)
	Run(ctx context.Context, batch []task.Task) ([]task.Result, error)
	Close(ctx context.Context) error
}

type options struct {
	id             string
	policy         numeric.BoundPolicy
	burnIterations int64
	rounds         int
}

type Option func(*options)

func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

func WithBoundPolicy(p numeric.BoundPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithBurnIterations sets the loop length of native benchmarks. Wasm
// workers always run the guest's fixed loop.
func WithBurnIterations(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.burnIterations = n
		}
	}
}

func WithBenchmarkRounds(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.rounds = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		id:             uuid.NewString(),
		policy:         numeric.BoundStrict,
		burnIterations: numeric.DefaultBurnIterations,
		rounds:         defBenchmarkRounds,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

type base struct {
	mu   sync.Mutex
	info Info
}

func newBase(id, name string, kind Kind) base {
	return base{
		info: Info{
			ID:        id,
			Name:      name,
			Kind:      kind,
			Alive:     true,
			CreatedAt: time.Now(),
		},
	}
}

func (b *base) Info() Info {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.info
}

func (b *base) setScore(score float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.info.Score = score
}

func (b *base) setAlive(alive bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.info.Alive = alive
}

func (b *base) countTasks(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.info.TaskCount += uint64(n)
}

// measure times fn over rounds runs and scores the median duration.
func measure(ctx context.Context, rounds int, fn func() error) (float64, error) {
	durations := make([]float64, 0, rounds)
	for range rounds {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		start := time.Now()
		if err := fn(); err != nil {
			return 0, err
		}
		durations = append(durations, float64(time.Since(start)))
	}
	sort.Float64s(durations)
	median := stat.Quantile(0.5, stat.Empirical, durations, nil)

	return numeric.Score(time.Duration(median)), nil
}
