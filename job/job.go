package job

import (
	"time"

	"github.com/absmach/quadra/task"
)

// Spec is a client request to compute one integral across several workers.
type Spec struct {
	Name      string      `json:"name"`
	Params    task.Params `json:"params"`
	Parts     int         `json:"parts"`
	WorkerIDs []string    `json:"worker_ids,omitempty"`
}

// Job stores a submitted Spec and the aggregated outcome of its tasks.
type Job struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Spec       Spec       `json:"spec"`
	State      task.State `json:"state"`
	Tasks      int        `json:"tasks"`
	Result     float64    `json:"result"`
	Error      string     `json:"error,omitempty"`
	StartTime  time.Time  `json:"start_time"`
	FinishTime time.Time  `json:"finish_time"`
	CreatedAt  time.Time  `json:"created_at"`
}

type JobPage struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
	Total  uint64 `json:"total"`
	Jobs   []Job  `json:"jobs"`
}
