package task

import (
	"errors"
	"fmt"
	"math"
	"sort"

	pkgerrors "github.com/absmach/quadra/pkg/errors"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
)

// Partition splits p into parts tasks over equal fragments of [A, B]. The
// last fragment ends exactly at B. Monte Carlo fragments share the sample
// budget, the first fragments taking the remainder, and fragment i seeds its
// generator with SeedOffset+i. parts is reduced to the sample budget when it
// exceeds it, so no fragment runs with an empty budget.
func Partition(jobID string, p Params, parts int) ([]Task, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(p.A) || math.IsNaN(p.B) || math.IsInf(p.A, 0) || math.IsInf(p.B, 0) || p.A >= p.B {
		return nil, fmt.Errorf("%w: job interval must satisfy a < b, got [%g, %g]", pkgerrors.ErrInvalidArgument, p.A, p.B)
	}
	if parts < 1 {
		parts = 1
	}

	samples := p.Samples
	if p.Method == MethodMonteCarlo {
		if samples <= 0 {
			samples = numeric.DefaultSamples
		}
		if int64(parts) > int64(samples) {
			parts = int(samples)
		}
	}

	width := (p.B - p.A) / float64(parts)
	tasks := make([]Task, parts)
	for i := range tasks {
		fp := p
		fp.A = p.A + float64(i)*width
		fp.B = p.A + float64(i+1)*width
		if i == parts-1 {
			fp.B = p.B
		}
		if p.Method == MethodMonteCarlo {
			fp.Samples = samples / int32(parts)
			if int32(i) < samples%int32(parts) {
				fp.Samples++
			}
			fp.SeedOffset = p.SeedOffset + int32(i)
		}
		tasks[i] = Task{
			ID:     uuid.NewString(),
			JobID:  jobID,
			Index:  i,
			Params: fp,
		}
	}

	return tasks, nil
}

// ErrResultMismatch reports a result set that does not hold exactly one
// result per fragment.
var ErrResultMismatch = errors.New("results do not match job fragments")

// Aggregate combines the results of a job split into n fragments into the
// value of the whole job. Every index in [0, n) must appear exactly once. The
// results are summed in fragment order regardless of arrival order.
func Aggregate(results []Result, n int) (float64, error) {
	if len(results) != n {
		return 0, fmt.Errorf("%w: got %d results for %d fragments", ErrResultMismatch, len(results), n)
	}

	sorted := make([]Result, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	values := make([]float64, len(sorted))
	for i, r := range sorted {
		if r.Index != i {
			return 0, fmt.Errorf("%w: fragment %d is missing or repeated", ErrResultMismatch, i)
		}
		if r.Error != "" {
			return 0, fmt.Errorf("task %d failed: %s", r.Index, r.Error)
		}
		values[i] = r.Value
	}

	return floats.Sum(values), nil
}
