package scheduler

import (
	"fmt"
	"math"
	"sort"

	pkgerrors "github.com/absmach/quadra/pkg/errors"
	"github.com/absmach/quadra/task"
	"github.com/absmach/quadra/worker"
)

const (
	// Unbenchmarked workers still get a small share.
	minScore = 0.1

	batchStep    = 50
	minBatchSize = 50
	maxBatchSize = 1000
)

type weighted struct{}

// NewWeighted shares tasks out in proportion to worker benchmark scores.
// Each worker gets floor(score/total*len(tasks)) consecutive tasks and the
// remainder goes one task at a time to the fastest workers first.
func NewWeighted() Scheduler {
	return weighted{}
}

func (weighted) Distribute(tasks []task.Task, workers []worker.Info) ([]Assignment, error) {
	if len(workers) == 0 {
		return nil, fmt.Errorf("%w: no workers were provided", pkgerrors.ErrNoWorker)
	}
	live := alive(workers)
	if len(live) == 0 {
		return nil, fmt.Errorf("%w: all %d workers are dead", pkgerrors.ErrNoWorker, len(workers))
	}

	scores := make([]float64, len(live))
	var total float64
	for i, w := range live {
		scores[i] = effectiveScore(w.Score)
		total += scores[i]
	}

	counts := make([]int, len(live))
	assigned := 0
	for i, s := range scores {
		counts[i] = int(math.Floor(s / total * float64(len(tasks))))
		assigned += counts[i]
	}

	order := make([]int, len(live))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return scores[order[i]] > scores[order[j]] })
	for i := 0; assigned < len(tasks); i = (i + 1) % len(order) {
		counts[order[i]]++
		assigned++
	}

	assignments := make([]Assignment, 0, len(live))
	next := 0
	for i, w := range live {
		if counts[i] == 0 {
			continue
		}
		assignments = append(assignments, Assignment{
			WorkerID:  w.ID,
			Tasks:     tasks[next : next+counts[i]],
			BatchSize: BatchSize(w.Score),
		})
		next += counts[i]
	}

	return assignments, nil
}

// BatchSize is the number of tasks sent to a worker in one message: the
// score scaled by 100 and rounded to a multiple of 50, within [50, 1000].
func BatchSize(score float64) int {
	s := effectiveScore(score)
	size := int(math.Round(s*100/batchStep)) * batchStep

	return max(minBatchSize, min(maxBatchSize, size))
}

func effectiveScore(score float64) float64 {
	if score <= 0 || math.IsNaN(score) {
		return minScore
	}

	return score
}
