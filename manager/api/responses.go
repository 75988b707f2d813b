package api

import (
	"net/http"

	"github.com/absmach/quadra/job"
	"github.com/absmach/quadra/pkg/api"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/worker"
)

var (
	_ api.Response = (*integrateRes)(nil)
	_ api.Response = (*estimateRes)(nil)
	_ api.Response = (*addRes)(nil)
	_ api.Response = (*workerRes)(nil)
	_ api.Response = (*listWorkersRes)(nil)
	_ api.Response = (*jobRes)(nil)
	_ api.Response = (*listJobsRes)(nil)
)

type integrateRes struct {
	Value float64 `json:"value"`
}

func (res integrateRes) Code() int {
	return http.StatusOK
}

func (res integrateRes) Headers() map[string]string {
	return map[string]string{}
}

func (res integrateRes) Empty() bool {
	return false
}

type estimateRes struct {
	numeric.Estimate
}

func (res estimateRes) Code() int {
	return http.StatusOK
}

func (res estimateRes) Headers() map[string]string {
	return map[string]string{}
}

func (res estimateRes) Empty() bool {
	return false
}

type addRes struct {
	Sum int32 `json:"sum"`
}

func (res addRes) Code() int {
	return http.StatusOK
}

func (res addRes) Headers() map[string]string {
	return map[string]string{}
}

func (res addRes) Empty() bool {
	return false
}

type workerRes struct {
	worker.Info
	created bool
	deleted bool
}

func (res workerRes) Code() int {
	if res.created {
		return http.StatusCreated
	}
	if res.deleted {
		return http.StatusNoContent
	}

	return http.StatusOK
}

func (res workerRes) Headers() map[string]string {
	if res.created {
		return map[string]string{
			"Location": "/workers/" + res.ID,
		}
	}

	return map[string]string{}
}

func (res workerRes) Empty() bool {
	return res.deleted
}

type listWorkersRes struct {
	worker.WorkerPage
}

func (res listWorkersRes) Code() int {
	return http.StatusOK
}

func (res listWorkersRes) Headers() map[string]string {
	return map[string]string{}
}

func (res listWorkersRes) Empty() bool {
	return false
}

type jobRes struct {
	job.Job
	created bool
}

func (res jobRes) Code() int {
	if res.created {
		return http.StatusCreated
	}

	return http.StatusOK
}

func (res jobRes) Headers() map[string]string {
	if res.created {
		return map[string]string{
			"Location": "/jobs/" + res.ID,
		}
	}

	return map[string]string{}
}

func (res jobRes) Empty() bool {
	return false
}

type listJobsRes struct {
	job.JobPage
}

func (res listJobsRes) Code() int {
	return http.StatusOK
}

func (res listJobsRes) Headers() map[string]string {
	return map[string]string{}
}

func (res listJobsRes) Empty() bool {
	return false
}
