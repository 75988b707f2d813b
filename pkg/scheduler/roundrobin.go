package scheduler

import (
	"fmt"
	"sync"

	pkgerrors "github.com/absmach/quadra/pkg/errors"
	"github.com/absmach/quadra/task"
	"github.com/absmach/quadra/worker"
)

type roundRobin struct {
	mu         sync.Mutex
	LastWorker int
}

// NewRoundRobin deals tasks one at a time to alive workers. The starting
// worker rotates between calls.
func NewRoundRobin() Scheduler {
	return &roundRobin{
		LastWorker: -1,
	}
}

func (r *roundRobin) Distribute(tasks []task.Task, workers []worker.Info) ([]Assignment, error) {
	if len(workers) == 0 {
		return nil, fmt.Errorf("%w: no workers were provided", pkgerrors.ErrNoWorker)
	}
	live := alive(workers)
	if len(live) == 0 {
		return nil, fmt.Errorf("%w: all %d workers are dead", pkgerrors.ErrNoWorker, len(workers))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byWorker := make([][]task.Task, len(live))
	for _, t := range tasks {
		r.LastWorker = (r.LastWorker + 1) % len(live)
		byWorker[r.LastWorker] = append(byWorker[r.LastWorker], t)
	}

	assignments := make([]Assignment, 0, len(live))
	for i, w := range live {
		if len(byWorker[i]) == 0 {
			continue
		}
		assignments = append(assignments, Assignment{
			WorkerID: w.ID,
			Tasks:    byWorker[i],
		})
	}

	return assignments, nil
}
