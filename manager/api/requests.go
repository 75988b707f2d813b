package api

import (
	"github.com/absmach/quadra/job"
	"github.com/absmach/quadra/manager"
	"github.com/absmach/quadra/pkg/api"
)

type integrateReq struct {
	Integrand string  `json:"integrand,omitempty"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Dx        float64 `json:"dx"`
}

func (req *integrateReq) validate() error {
	return nil
}

type estimateReq struct {
	Integrand  string  `json:"integrand,omitempty"`
	A          float64 `json:"a"`
	B          float64 `json:"b"`
	Samples    int32   `json:"samples,omitempty"`
	YMax       float64 `json:"y_max"`
	SeedOffset int32   `json:"seed_offset,omitempty"`
}

func (req *estimateReq) validate() error {
	return nil
}

type addReq struct {
	A int32 `json:"a"`
	B int32 `json:"b"`
}

type benchmarkReq struct {
	WorkerID string `json:"worker_id"`
}

func (req *benchmarkReq) validate() error {
	if req.WorkerID == "" {
		return api.ErrMissingID
	}

	return nil
}

type workerReq struct {
	manager.WorkerSpec `json:",inline"`
}

type jobReq struct {
	job.Spec `json:",inline"`
}

func (req *jobReq) validate() error {
	return req.Params.Validate()
}

type entityReq struct {
	id string
}

func (e *entityReq) validate() error {
	if e.id == "" {
		return api.ErrMissingID
	}

	return nil
}

type listEntityReq struct {
	offset, limit uint64
}

func (e *listEntityReq) validate() error {
	if e.limit == 0 || e.limit > api.MaxLimitSize {
		return api.ErrLimitSize
	}

	return nil
}
