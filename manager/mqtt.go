package manager

import (
	"context"
	"errors"
	"log/slog"

	pkgmqtt "github.com/absmach/quadra/pkg/mqtt"
	"github.com/absmach/quadra/worker"
)

// handleAnnouncement registers remote workers the first time they announce
// themselves and refreshes their liveness afterwards.
func (svc *service) handleAnnouncement(ctx context.Context) pkgmqtt.Handler {
	return func(_ string, msg map[string]any) error {
		var a worker.Announcement
		if err := pkgmqtt.Decode(msg, &a); err != nil {
			return err
		}
		if a.WorkerID == "" {
			return errors.New("worker id is empty")
		}

		svc.mu.RLock()
		w, ok := svc.workers[a.WorkerID]
		svc.mu.RUnlock()

		if ok {
			if an, ok := w.(worker.Announcer); ok {
				an.Announce(a)
			}

			return nil
		}
		if a.Status == worker.StatusOffline {
			return nil
		}

		w, err := worker.NewRemote(ctx, a, svc.pubsub, svc.cfg.RemoteTimeout)
		if err != nil {
			return err
		}
		if err := svc.register(w); err != nil {
			return errors.Join(err, w.Close(ctx))
		}
		svc.logger.InfoContext(ctx, "registered remote worker",
			slog.String("id", a.WorkerID),
			slog.String("name", a.Name),
			slog.Float64("score", a.Score),
		)

		return nil
	}
}
