package testutil

import (
	"math"
	"time"

	"github.com/absmach/quadra/job"
	"github.com/absmach/quadra/task"
)

// TestJob returns a finished half-period job. Its timestamps are fixed UTC
// instants so the value survives a JSON round trip unchanged.
func TestJob(id string) job.Job {
	start := time.Date(2025, time.March, 14, 15, 9, 26, 0, time.UTC)
	spec := job.Spec{
		Name: "test-job-" + id,
		Params: task.Params{
			Method: task.MethodTrapezoid,
			A:      0,
			B:      math.Pi,
			Step:   1e-4,
		},
		Parts:     4,
		WorkerIDs: []string{"w1", "w2"},
	}

	return job.Job{
		ID:         id,
		Name:       spec.Name,
		Spec:       spec,
		State:      task.Completed,
		Tasks:      spec.Parts,
		Result:     1.9999999983550656,
		StartTime:  start,
		FinishTime: start.Add(42 * time.Millisecond),
		CreatedAt:  start,
	}
}

// TestFailedJob returns a Monte Carlo job whose second fragment failed.
func TestFailedJob(id string) job.Job {
	j := TestJob(id)
	j.Spec.Params = task.Params{
		Method:     task.MethodMonteCarlo,
		A:          0,
		B:          math.Pi,
		Samples:    10_000,
		YMax:       0.5,
		SeedOffset: 3,
	}
	j.State = task.Failed
	j.Result = 0
	j.Error = "task 1 failed: invalid argument"

	return j
}
