package task

import (
	"fmt"

	pkgerrors "github.com/absmach/quadra/pkg/errors"
	"github.com/absmach/quadra/pkg/numeric"
)

type State uint8

const (
	Pending State = iota
	Scheduled
	Running
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Scheduled:
		return "Scheduled"
	case Running:
		return "Running"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

type Method string

const (
	MethodTrapezoid  Method = "trapezoid"
	MethodMonteCarlo Method = "montecarlo"
)

// Params describes a single numeric computation over [A, B].
type Params struct {
	Method     Method  `json:"method"`
	Integrand  string  `json:"integrand,omitempty"`
	A          float64 `json:"a"`
	B          float64 `json:"b"`
	Step       float64 `json:"dx,omitempty"`
	Samples    int32   `json:"samples,omitempty"`
	YMax       float64 `json:"y_max,omitempty"`
	SeedOffset int32   `json:"seed_offset,omitempty"`
}

func (p Params) Validate() error {
	switch p.Method {
	case MethodTrapezoid, MethodMonteCarlo:
	default:
		return fmt.Errorf("%w: unknown method %q", pkgerrors.ErrInvalidArgument, p.Method)
	}
	if _, err := numeric.Lookup(p.Integrand); err != nil {
		return err
	}

	return nil
}

type Task struct {
	ID     string `json:"id"`
	JobID  string `json:"job_id,omitempty"`
	Index  int    `json:"index"`
	Params Params `json:"params"`
}

type Result struct {
	TaskID string  `json:"task_id"`
	Index  int     `json:"index"`
	Value  float64 `json:"value"`
	Hits   int64   `json:"hits,omitempty"`
	Error  string  `json:"error,omitempty"`
}
