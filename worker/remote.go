package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pkgmqtt "github.com/absmach/quadra/pkg/mqtt"
	"github.com/absmach/quadra/task"
	"github.com/google/uuid"
)

const (
	StatusAlive   = "alive"
	StatusOffline = "offline"

	AnnounceTopic = "quadra/workers/announce"

	defRemoteTimeout = time.Minute
)

var (
	tasksTopicTemplate   = "quadra/workers/%s/tasks"
	resultsTopicTemplate = "quadra/workers/%s/results"

	ErrTimeout = errors.New("timed out waiting for worker response")
)

func TasksTopic(workerID string) string {
	return fmt.Sprintf(tasksTopicTemplate, workerID)
}

func ResultsTopic(workerID string) string {
	return fmt.Sprintf(resultsTopicTemplate, workerID)
}

// Announcement is published periodically by every remote worker process, and
// once more by the broker as its last will.
type Announcement struct {
	WorkerID string  `json:"worker_id"`
	Name     string  `json:"name,omitempty"`
	Score    float64 `json:"score,omitempty"`
	Status   string  `json:"status"`
}

type BatchRequest struct {
	BatchID   string      `json:"batch_id"`
	Tasks     []task.Task `json:"tasks,omitempty"`
	Benchmark bool        `json:"benchmark,omitempty"`
}

type BatchResponse struct {
	BatchID  string        `json:"batch_id"`
	WorkerID string        `json:"worker_id"`
	Results  []task.Result `json:"results,omitempty"`
	Score    float64       `json:"score,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// Announcer is implemented by workers whose liveness is reported from
// outside the process.
type Announcer interface {
	Announce(a Announcement)
}

var (
	_ Worker    = (*remote)(nil)
	_ Announcer = (*remote)(nil)
)

type remote struct {
	base
	pubsub  pkgmqtt.PubSub
	timeout time.Duration

	pendingMu sync.Mutex
	pending   map[string]chan BatchResponse
}

// NewRemote returns a proxy for a worker process reachable over MQTT. It
// subscribes to the worker's results topic until Close is called.
func NewRemote(ctx context.Context, a Announcement, pubsub pkgmqtt.PubSub, timeout time.Duration) (Worker, error) {
	if timeout <= 0 {
		timeout = defRemoteTimeout
	}
	w := &remote{
		base:    newBase(a.WorkerID, a.Name, KindRemote),
		pubsub:  pubsub,
		timeout: timeout,
		pending: make(map[string]chan BatchResponse),
	}
	w.setScore(a.Score)

	if err := pubsub.Subscribe(ctx, ResultsTopic(a.WorkerID), w.handleResponse); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to subscribe to results of worker %s", a.WorkerID), err)
	}

	return w, nil
}

func (w *remote) Benchmark(ctx context.Context) (float64, error) {
	resp, err := w.roundTrip(ctx, BatchRequest{Benchmark: true})
	if err != nil {
		return 0, err
	}
	w.setScore(resp.Score)

	return resp.Score, nil
}

func (w *remote) Run(ctx context.Context, batch []task.Task) ([]task.Result, error) {
	resp, err := w.roundTrip(ctx, BatchRequest{Tasks: batch})
	if err != nil {
		return nil, err
	}
	w.countTasks(len(batch))

	return resp.Results, nil
}

func (w *remote) Close(ctx context.Context) error {
	w.setAlive(false)

	return w.pubsub.Unsubscribe(ctx, ResultsTopic(w.Info().ID))
}

// Announce refreshes liveness and score from a worker announcement.
func (w *remote) Announce(a Announcement) {
	w.setAlive(a.Status != StatusOffline)
	if a.Score > 0 {
		w.setScore(a.Score)
	}
}

func (w *remote) roundTrip(ctx context.Context, req BatchRequest) (BatchResponse, error) {
	req.BatchID = uuid.NewString()
	ch := make(chan BatchResponse, 1)

	w.pendingMu.Lock()
	w.pending[req.BatchID] = ch
	w.pendingMu.Unlock()
	defer func() {
		w.pendingMu.Lock()
		delete(w.pending, req.BatchID)
		w.pendingMu.Unlock()
	}()

	id := w.Info().ID
	if err := w.pubsub.Publish(ctx, TasksTopic(id), req); err != nil {
		return BatchResponse{}, errors.Join(fmt.Errorf("failed to send batch to worker %s", id), err)
	}

	timer := time.NewTimer(w.timeout)
	defer timer.Stop()

	select {
	case resp := <-ch:
		if resp.Error != "" {
			return BatchResponse{}, fmt.Errorf("worker %s: %s", id, resp.Error)
		}

		return resp, nil
	case <-timer.C:
		return BatchResponse{}, fmt.Errorf("%w %s", ErrTimeout, id)
	case <-ctx.Done():
		return BatchResponse{}, ctx.Err()
	}
}

func (w *remote) handleResponse(_ string, msg map[string]any) error {
	var resp BatchResponse
	if err := pkgmqtt.Decode(msg, &resp); err != nil {
		return err
	}

	w.pendingMu.Lock()
	ch, ok := w.pending[resp.BatchID]
	w.pendingMu.Unlock()
	if !ok {
		return fmt.Errorf("unexpected batch %q", resp.BatchID)
	}

	select {
	case ch <- resp:
	default:
	}

	return nil
}
