package api

import (
	"context"
	"errors"

	"github.com/absmach/quadra/manager"
	"github.com/absmach/quadra/pkg/api"
	pkgerrors "github.com/absmach/quadra/pkg/errors"
	"github.com/go-kit/kit/endpoint"
)

func integrateEndpoint(svc manager.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(integrateReq)
		if !ok {
			return integrateRes{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return integrateRes{}, errors.Join(api.ErrValidation, err)
		}

		v, err := svc.Integrate(ctx, req.Integrand, req.A, req.B, req.Dx)
		if err != nil {
			return integrateRes{}, err
		}

		return integrateRes{Value: v}, nil
	}
}

func estimateEndpoint(svc manager.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(estimateReq)
		if !ok {
			return estimateRes{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return estimateRes{}, errors.Join(api.ErrValidation, err)
		}

		est, err := svc.EstimateArea(ctx, req.Integrand, req.A, req.B, req.Samples, req.YMax, req.SeedOffset)
		if err != nil {
			return estimateRes{}, err
		}

		return estimateRes{Estimate: est}, nil
	}
}

func addEndpoint(svc manager.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(addReq)
		if !ok {
			return addRes{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}

		sum, err := svc.Add(ctx, req.A, req.B)
		if err != nil {
			return addRes{}, err
		}

		return addRes{Sum: sum}, nil
	}
}

func benchmarkEndpoint(svc manager.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(benchmarkReq)
		if !ok {
			return workerRes{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return workerRes{}, errors.Join(api.ErrValidation, err)
		}

		info, err := svc.Benchmark(ctx, req.WorkerID)
		if err != nil {
			return workerRes{}, err
		}

		return workerRes{Info: info}, nil
	}
}

func addWorkerEndpoint(svc manager.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(workerReq)
		if !ok {
			return workerRes{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}

		info, err := svc.AddWorker(ctx, req.WorkerSpec)
		if err != nil {
			return workerRes{}, err
		}

		return workerRes{Info: info, created: true}, nil
	}
}

func getWorkerEndpoint(svc manager.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return workerRes{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return workerRes{}, errors.Join(api.ErrValidation, err)
		}

		info, err := svc.GetWorker(ctx, req.id)
		if err != nil {
			return workerRes{}, err
		}

		return workerRes{Info: info}, nil
	}
}

func listWorkersEndpoint(svc manager.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(listEntityReq)
		if !ok {
			return listWorkersRes{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return listWorkersRes{}, errors.Join(api.ErrValidation, err)
		}

		page, err := svc.ListWorkers(ctx, req.offset, req.limit)
		if err != nil {
			return listWorkersRes{}, err
		}

		return listWorkersRes{WorkerPage: page}, nil
	}
}

func removeWorkerEndpoint(svc manager.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return workerRes{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return workerRes{}, errors.Join(api.ErrValidation, err)
		}

		if err := svc.RemoveWorker(ctx, req.id); err != nil {
			return workerRes{}, err
		}

		return workerRes{deleted: true}, nil
	}
}

func submitJobEndpoint(svc manager.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(jobReq)
		if !ok {
			return jobRes{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return jobRes{}, errors.Join(api.ErrValidation, err)
		}

		j, err := svc.SubmitJob(ctx, req.Spec)
		if err != nil {
			return jobRes{}, err
		}

		return jobRes{Job: j, created: true}, nil
	}
}

func getJobEndpoint(svc manager.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return jobRes{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return jobRes{}, errors.Join(api.ErrValidation, err)
		}

		j, err := svc.GetJob(ctx, req.id)
		if err != nil {
			return jobRes{}, err
		}

		return jobRes{Job: j}, nil
	}
}

func listJobsEndpoint(svc manager.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(listEntityReq)
		if !ok {
			return listJobsRes{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return listJobsRes{}, errors.Join(api.ErrValidation, err)
		}

		page, err := svc.ListJobs(ctx, req.offset, req.limit)
		if err != nil {
			return listJobsRes{}, err
		}

		return listJobsRes{JobPage: page}, nil
	}
}
