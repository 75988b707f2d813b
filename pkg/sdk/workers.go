package sdk

import (
	"net/http"

	"github.com/absmach/quadra/worker"
)

const workersEndpoint = "/workers"

func (sdk *quadraSDK) AddWorker(name string, kind worker.Kind) (worker.Info, error) {
	req := struct {
		Name string      `json:"name,omitempty"`
		Kind worker.Kind `json:"kind,omitempty"`
	}{name, kind}

	var w worker.Info
	if err := sdk.send(http.MethodPost, workersEndpoint, req, &w, http.StatusCreated); err != nil {
		return worker.Info{}, err
	}

	return w, nil
}

func (sdk *quadraSDK) GetWorker(id string) (worker.Info, error) {
	var w worker.Info
	if err := sdk.send(http.MethodGet, workersEndpoint+"/"+id, nil, &w, http.StatusOK); err != nil {
		return worker.Info{}, err
	}

	return w, nil
}

func (sdk *quadraSDK) ListWorkers(offset, limit uint64) (worker.WorkerPage, error) {
	var page worker.WorkerPage
	if err := sdk.send(http.MethodGet, workersEndpoint+pageQuery(offset, limit), nil, &page, http.StatusOK); err != nil {
		return worker.WorkerPage{}, err
	}

	return page, nil
}

func (sdk *quadraSDK) RemoveWorker(id string) error {
	return sdk.send(http.MethodDelete, workersEndpoint+"/"+id, nil, nil, http.StatusNoContent)
}
