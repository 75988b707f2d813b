package sdk

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/absmach/quadra/job"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/worker"
)

const CTJSON string = "application/json"

type SDK interface {
	// Integrate approximates the integral of an integrand over [a, b] with
	// the trapezoidal rule.
	//
	// example:
	//  v, _ := sdk.Integrate(sdk.IntegrateRequest{A: 0, B: math.Pi, Dx: 1e-4})
	//  fmt.Println(v)
	Integrate(req IntegrateRequest) (float64, error)

	// Estimate approximates the area under an integrand by Monte Carlo
	// sampling.
	//
	// example:
	//  est, _ := sdk.Estimate(sdk.EstimateRequest{A: 0, B: math.Pi, Samples: 10000, YMax: 1})
	//  fmt.Println(est.Area)
	Estimate(req EstimateRequest) (numeric.Estimate, error)

	// Add returns the wrapping 32-bit sum of a and b.
	Add(a, b int32) (int32, error)

	// Benchmark re-measures a worker.
	//
	// example:
	//  w, _ := sdk.Benchmark("0195d7a2-6a4e-7c1a-9d0e-0c2f8b1e4a11")
	//  fmt.Println(w.Score)
	Benchmark(workerID string) (worker.Info, error)

	// AddWorker starts a worker inside the manager.
	//
	// example:
	//  w, _ := sdk.AddWorker("alpha", worker.KindNative)
	//  fmt.Println(w.ID)
	AddWorker(name string, kind worker.Kind) (worker.Info, error)

	GetWorker(id string) (worker.Info, error)

	ListWorkers(offset, limit uint64) (worker.WorkerPage, error)

	RemoveWorker(id string) error

	// SubmitJob runs a partitioned job and returns it once finished.
	//
	// example:
	//  j, _ := sdk.SubmitJob(job.Spec{
	//    Params: task.Params{Method: task.MethodTrapezoid, A: 0, B: math.Pi, Step: 1e-4},
	//    Parts:  8,
	//  })
	//  fmt.Println(j.Result)
	SubmitJob(spec job.Spec) (job.Job, error)

	GetJob(id string) (job.Job, error)

	ListJobs(offset, limit uint64) (job.JobPage, error)
}

type quadraSDK struct {
	managerURL string
	client     *http.Client
}

type Config struct {
	ManagerURL      string
	TLSVerification bool
}

func NewSDK(cfg Config) SDK {
	return &quadraSDK{
		managerURL: strings.TrimSuffix(cfg.ManagerURL, "/"),
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !cfg.TLSVerification,
				},
			},
		},
	}
}

func (sdk *quadraSDK) processRequest(method, reqURL string, data []byte, expectedRespCode int) ([]byte, error) {
	req, err := http.NewRequest(method, reqURL, bytes.NewReader(data))
	if err != nil {
		return []byte{}, err
	}

	req.Header.Add("Content-Type", CTJSON)

	resp, err := sdk.client.Do(req)
	if err != nil {
		return []byte{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return []byte{}, err
	}

	if resp.StatusCode != expectedRespCode {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return []byte{}, fmt.Errorf("unexpected response code: %d: %s", resp.StatusCode, e.Error)
		}

		return []byte{}, fmt.Errorf("unexpected response code: %d", resp.StatusCode)
	}

	return body, nil
}

func (sdk *quadraSDK) send(method, path string, req, res any, expectedRespCode int) error {
	var data []byte
	if req != nil {
		var err error
		if data, err = json.Marshal(req); err != nil {
			return err
		}
	}

	body, err := sdk.processRequest(method, sdk.managerURL+path, data, expectedRespCode)
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}

	return json.Unmarshal(body, res)
}

func pageQuery(offset, limit uint64) string {
	queries := make([]string, 0)
	if offset > 0 {
		queries = append(queries, fmt.Sprintf("offset=%d", offset))
	}
	if limit > 0 {
		queries = append(queries, fmt.Sprintf("limit=%d", limit))
	}
	if len(queries) == 0 {
		return ""
	}

	return "?" + strings.Join(queries, "&")
}
