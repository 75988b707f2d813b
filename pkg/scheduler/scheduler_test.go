package scheduler_test

import (
	"fmt"
	"testing"

	pkgerrors "github.com/absmach/quadra/pkg/errors"
	"github.com/absmach/quadra/pkg/scheduler"
	"github.com/absmach/quadra/task"
	"github.com/absmach/quadra/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTasks(n int) []task.Task {
	tasks := make([]task.Task, n)
	for i := range tasks {
		tasks[i] = task.Task{ID: fmt.Sprintf("t%d", i), Index: i}
	}

	return tasks
}

func counts(assignments []scheduler.Assignment) map[string]int {
	res := make(map[string]int)
	for _, a := range assignments {
		res[a.WorkerID] += len(a.Tasks)
	}

	return res
}

func TestWeightedDistribute(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc    string
		workers []worker.Info
		tasks   int
		want    map[string]int
	}{
		{
			desc: "proportional split",
			workers: []worker.Info{
				{ID: "a", Score: 3, Alive: true},
				{ID: "b", Score: 1, Alive: true},
			},
			tasks: 8,
			want:  map[string]int{"a": 6, "b": 2},
		},
		{
			desc: "remainder goes to fastest first",
			workers: []worker.Info{
				{ID: "slow", Score: 1, Alive: true},
				{ID: "fast", Score: 2, Alive: true},
				{ID: "mid", Score: 1.5, Alive: true},
			},
			tasks: 4,
			want:  map[string]int{"slow": 0, "fast": 2, "mid": 2},
		},
		{
			desc: "unbenchmarked workers count as minimum score",
			workers: []worker.Info{
				{ID: "a", Score: 0, Alive: true},
				{ID: "b", Score: -4, Alive: true},
			},
			tasks: 5,
			want:  map[string]int{"a": 3, "b": 2},
		},
		{
			desc: "dead workers are skipped",
			workers: []worker.Info{
				{ID: "a", Score: 100, Alive: false},
				{ID: "b", Score: 1, Alive: true},
			},
			tasks: 3,
			want:  map[string]int{"b": 3},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			tasks := makeTasks(tc.tasks)
			assignments, err := scheduler.NewWeighted().Distribute(tasks, tc.workers)
			require.NoError(t, err)

			got := counts(assignments)
			for id, n := range tc.want {
				assert.Equal(t, n, got[id], "worker %s", id)
			}

			// Every task is assigned exactly once, in order.
			var next int
			for _, a := range assignments {
				for _, tk := range a.Tasks {
					assert.Equal(t, next, tk.Index)
					next++
				}
			}
			assert.Equal(t, tc.tasks, next)
		})
	}
}

func TestNoWorker(t *testing.T) {
	t.Parallel()

	schedulers := map[string]scheduler.Scheduler{
		"weighted":    scheduler.NewWeighted(),
		"round robin": scheduler.NewRoundRobin(),
	}
	for name, s := range schedulers {
		_, err := s.Distribute(makeTasks(2), nil)
		assert.ErrorIs(t, err, pkgerrors.ErrNoWorker, name)

		_, err = s.Distribute(makeTasks(2), []worker.Info{{ID: "dead"}})
		assert.ErrorIs(t, err, pkgerrors.ErrNoWorker, name)
	}
}

func TestBatchSize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  int
	}{
		{score: 0, want: 50},
		{score: 0.1, want: 50},
		{score: 1, want: 100},
		{score: 2.2, want: 200},
		{score: 2.3, want: 250},
		{score: 9.99, want: 1000},
		{score: 400, want: 1000},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, scheduler.BatchSize(tc.score), "score %g", tc.score)
	}
}

func TestAssignmentBatches(t *testing.T) {
	t.Parallel()

	a := scheduler.Assignment{Tasks: makeTasks(120), BatchSize: 50}
	batches := a.Batches()
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 50)
	assert.Len(t, batches[2], 20)

	single := scheduler.Assignment{Tasks: makeTasks(7)}
	assert.Len(t, single.Batches(), 1)

	assert.Empty(t, scheduler.Assignment{}.Batches())
}

func TestRoundRobinRotates(t *testing.T) {
	t.Parallel()

	rr := scheduler.NewRoundRobin()
	workers := []worker.Info{
		{ID: "a", Alive: true},
		{ID: "b", Alive: false},
		{ID: "c", Alive: true},
	}

	first, err := rr.Distribute(makeTasks(3), workers)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 2, "c": 1}, counts(first))

	second, err := rr.Distribute(makeTasks(1), workers)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"c": 1}, counts(second))
}
