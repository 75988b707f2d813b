package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	pkgmqtt "github.com/absmach/quadra/pkg/mqtt"
)

// Server exposes a local Worker to a manager over MQTT.
type Server struct {
	worker             Worker
	pubsub             pkgmqtt.PubSub
	livelinessInterval time.Duration
	logger             *slog.Logger
}

func NewServer(w Worker, pubsub pkgmqtt.PubSub, livelinessInterval time.Duration, logger *slog.Logger) *Server {
	return &Server{
		worker:             w,
		pubsub:             pubsub,
		livelinessInterval: livelinessInterval,
		logger:             logger,
	}
}

// Start subscribes to the worker's tasks topic and announces the worker. It
// keeps announcing in the background until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	info := s.worker.Info()
	if err := s.pubsub.Subscribe(ctx, TasksTopic(info.ID), s.handleRequest(ctx)); err != nil {
		return errors.Join(errors.New("failed to subscribe to tasks topic"), err)
	}
	if err := s.announce(ctx); err != nil {
		return errors.Join(errors.New("failed to publish announcement"), err)
	}

	if s.livelinessInterval > 0 {
		go s.startLivelinessUpdates(ctx)
	}

	return nil
}

// Stop announces the worker as offline and stops receiving batches.
func (s *Server) Stop(ctx context.Context) error {
	info := s.worker.Info()
	a := Announcement{
		WorkerID: info.ID,
		Name:     info.Name,
		Status:   StatusOffline,
	}

	return errors.Join(
		s.pubsub.Publish(ctx, AnnounceTopic, a),
		s.pubsub.Unsubscribe(ctx, TasksTopic(info.ID)),
	)
}

func (s *Server) startLivelinessUpdates(ctx context.Context) {
	ticker := time.NewTicker(s.livelinessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping liveliness updates")

			return
		case <-ticker.C:
			if err := s.announce(ctx); err != nil {
				s.logger.Error("failed to publish liveliness message", slog.Any("error", err))

				continue
			}
			s.logger.Debug("published liveliness message", slog.String("topic", AnnounceTopic))
		}
	}
}

func (s *Server) announce(ctx context.Context) error {
	info := s.worker.Info()

	return s.pubsub.Publish(ctx, AnnounceTopic, Announcement{
		WorkerID: info.ID,
		Name:     info.Name,
		Score:    info.Score,
		Status:   StatusAlive,
	})
}

func (s *Server) handleRequest(ctx context.Context) pkgmqtt.Handler {
	return func(_ string, msg map[string]any) error {
		var req BatchRequest
		if err := pkgmqtt.Decode(msg, &req); err != nil {
			return err
		}

		go s.serve(ctx, req)

		return nil
	}
}

func (s *Server) serve(ctx context.Context, req BatchRequest) {
	info := s.worker.Info()
	resp := BatchResponse{
		BatchID:  req.BatchID,
		WorkerID: info.ID,
	}

	start := time.Now()
	if req.Benchmark {
		score, err := s.worker.Benchmark(ctx)
		if err != nil {
			resp.Error = err.Error()
		}
		resp.Score = score
	} else {
		results, err := s.worker.Run(ctx, req.Tasks)
		if err != nil {
			resp.Error = err.Error()
		}
		resp.Results = results
	}

	args := []any{
		slog.String("batch_id", req.BatchID),
		slog.Int("tasks", len(req.Tasks)),
		slog.Bool("benchmark", req.Benchmark),
		slog.String("duration", time.Since(start).String()),
	}
	if resp.Error != "" {
		args = append(args, slog.String("error", resp.Error))
		s.logger.Warn("batch failed", args...)
	} else {
		s.logger.Info("batch completed", args...)
	}

	if err := s.pubsub.Publish(ctx, ResultsTopic(info.ID), resp); err != nil {
		s.logger.Error("failed to publish batch response", slog.String("batch_id", req.BatchID), slog.Any("error", err))
	}
}
