package sdk

import (
	"net/http"

	"github.com/absmach/quadra/job"
)

const jobsEndpoint = "/jobs"

func (sdk *quadraSDK) SubmitJob(spec job.Spec) (job.Job, error) {
	var j job.Job
	if err := sdk.send(http.MethodPost, jobsEndpoint, spec, &j, http.StatusCreated); err != nil {
		return job.Job{}, err
	}

	return j, nil
}

func (sdk *quadraSDK) GetJob(id string) (job.Job, error) {
	var j job.Job
	if err := sdk.send(http.MethodGet, jobsEndpoint+"/"+id, nil, &j, http.StatusOK); err != nil {
		return job.Job{}, err
	}

	return j, nil
}

func (sdk *quadraSDK) ListJobs(offset, limit uint64) (job.JobPage, error) {
	var page job.JobPage
	if err := sdk.send(http.MethodGet, jobsEndpoint+pageQuery(offset, limit), nil, &page, http.StatusOK); err != nil {
		return job.JobPage{}, err
	}

	return page, nil
}
