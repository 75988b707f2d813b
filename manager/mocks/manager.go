package mocks

import (
	"context"

	"github.com/absmach/quadra/job"
	"github.com/absmach/quadra/manager"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/worker"
	"github.com/stretchr/testify/mock"
)

var _ manager.Service = (*MockService)(nil)

// MockService is a mock implementation of the manager.Service interface
type MockService struct {
	mock.Mock
}

func (m *MockService) Integrate(ctx context.Context, integrand string, a, b, dx float64) (float64, error) {
	args := m.Called(ctx, integrand, a, b, dx)

	return args.Get(0).(float64), args.Error(1)
}

func (m *MockService) EstimateArea(ctx context.Context, integrand string, a, b float64, samples int32, yMax float64, seedOffset int32) (numeric.Estimate, error) {
	args := m.Called(ctx, integrand, a, b, samples, yMax, seedOffset)

	return args.Get(0).(numeric.Estimate), args.Error(1)
}

func (m *MockService) Add(ctx context.Context, a, b int32) (int32, error) {
	args := m.Called(ctx, a, b)

	return args.Get(0).(int32), args.Error(1)
}

func (m *MockService) Benchmark(ctx context.Context, workerID string) (worker.Info, error) {
	args := m.Called(ctx, workerID)

	return args.Get(0).(worker.Info), args.Error(1)
}

func (m *MockService) AddWorker(ctx context.Context, spec manager.WorkerSpec) (worker.Info, error) {
	args := m.Called(ctx, spec)

	return args.Get(0).(worker.Info), args.Error(1)
}

func (m *MockService) GetWorker(ctx context.Context, workerID string) (worker.Info, error) {
	args := m.Called(ctx, workerID)

	return args.Get(0).(worker.Info), args.Error(1)
}

func (m *MockService) ListWorkers(ctx context.Context, offset, limit uint64) (worker.WorkerPage, error) {
	args := m.Called(ctx, offset, limit)

	return args.Get(0).(worker.WorkerPage), args.Error(1)
}

func (m *MockService) RemoveWorker(ctx context.Context, workerID string) error {
	args := m.Called(ctx, workerID)

	return args.Error(0)
}

func (m *MockService) SubmitJob(ctx context.Context, spec job.Spec) (job.Job, error) {
	args := m.Called(ctx, spec)

	return args.Get(0).(job.Job), args.Error(1)
}

func (m *MockService) GetJob(ctx context.Context, jobID string) (job.Job, error) {
	args := m.Called(ctx, jobID)

	return args.Get(0).(job.Job), args.Error(1)
}

func (m *MockService) ListJobs(ctx context.Context, offset, limit uint64) (job.JobPage, error) {
	args := m.Called(ctx, offset, limit)

	return args.Get(0).(job.JobPage), args.Error(1)
}

func (m *MockService) Subscribe(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockService) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
