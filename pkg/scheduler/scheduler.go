// Package scheduler decides which worker computes which fragment of a job.
package scheduler

import (
	"github.com/absmach/quadra/task"
	"github.com/absmach/quadra/worker"
)

// Assignment is the share of a job given to one worker. Tasks are sent to the
// worker in batches of at most BatchSize; zero means a single batch.
type Assignment struct {
	WorkerID  string
	Tasks     []task.Task
	BatchSize int
}

// Batches splits the assignment's tasks into consecutive batches.
func (a Assignment) Batches() [][]task.Task {
	if len(a.Tasks) == 0 {
		return nil
	}
	size := a.BatchSize
	if size <= 0 || size > len(a.Tasks) {
		size = len(a.Tasks)
	}

	batches := make([][]task.Task, 0, (len(a.Tasks)+size-1)/size)
	for i := 0; i < len(a.Tasks); i += size {
		batches = append(batches, a.Tasks[i:min(i+size, len(a.Tasks))])
	}

	return batches
}

type Scheduler interface {
	// Distribute assigns every task to exactly one alive worker. Workers
	// that receive nothing are omitted from the result.
	Distribute(tasks []task.Task, workers []worker.Info) ([]Assignment, error)
}

func alive(workers []worker.Info) []worker.Info {
	res := make([]worker.Info, 0, len(workers))
	for _, w := range workers {
		if w.Alive {
			res = append(res, w)
		}
	}

	return res
}
