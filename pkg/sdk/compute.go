package sdk

import (
	"net/http"

	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/worker"
)

type IntegrateRequest struct {
	Integrand string  `json:"integrand,omitempty"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Dx        float64 `json:"dx"`
}

type EstimateRequest struct {
	Integrand  string  `json:"integrand,omitempty"`
	A          float64 `json:"a"`
	B          float64 `json:"b"`
	Samples    int32   `json:"samples,omitempty"`
	YMax       float64 `json:"y_max"`
	SeedOffset int32   `json:"seed_offset,omitempty"`
}

func (sdk *quadraSDK) Integrate(req IntegrateRequest) (float64, error) {
	var res struct {
		Value float64 `json:"value"`
	}
	if err := sdk.send(http.MethodPost, "/integrate", req, &res, http.StatusOK); err != nil {
		return 0, err
	}

	return res.Value, nil
}

func (sdk *quadraSDK) Estimate(req EstimateRequest) (numeric.Estimate, error) {
	var est numeric.Estimate
	if err := sdk.send(http.MethodPost, "/estimate", req, &est, http.StatusOK); err != nil {
		return numeric.Estimate{}, err
	}

	return est, nil
}

func (sdk *quadraSDK) Add(a, b int32) (int32, error) {
	req := struct {
		A int32 `json:"a"`
		B int32 `json:"b"`
	}{a, b}
	var res struct {
		Sum int32 `json:"sum"`
	}
	if err := sdk.send(http.MethodPost, "/add", req, &res, http.StatusOK); err != nil {
		return 0, err
	}

	return res.Sum, nil
}

func (sdk *quadraSDK) Benchmark(workerID string) (worker.Info, error) {
	req := struct {
		WorkerID string `json:"worker_id"`
	}{workerID}

	var w worker.Info
	if err := sdk.send(http.MethodPost, "/benchmark", req, &w, http.StatusOK); err != nil {
		return worker.Info{}, err
	}

	return w, nil
}
