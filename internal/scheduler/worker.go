package scheduler

import (
	"context"
	"fmt"
	"time"

	"smartdivorce_backend/internal/directory/service"
	"smartdivorce_backend/platform/apperr"
	"smartdivorce_backend/platform/config"
	"smartdivorce_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// sweepInterval is how often the worker scans for sponsorships the
// scheduled tasks missed (lost tasks, downtime).
const sweepInterval = time.Hour

// Worker consumes scheduled tasks and runs the periodic expiry sweep.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	directory *service.Service
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, directory *service.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		directory: directory,
		log:       log,
	}

	mux.HandleFunc(TaskSponsorshipExpire, w.handleSponsorshipExpire)

	return w, nil
}

func (w *Worker) handleSponsorshipExpire(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseSponsorshipExpirePayload(task)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(payload.SponsorshipID)
	if err != nil {
		return err
	}

	if err := w.directory.ExpireSponsorship(ctx, id); err != nil {
		// Already expired by the sweep; nothing left to do.
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil
		}
		return err
	}
	return nil
}

// Run serves tasks until the context is cancelled. The periodic sweep
// runs alongside as a safety net for tasks lost to Redis downtime.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go w.sweepLoop(ctx)

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) sweepLoop(ctx context.Context) {
	w.sweep(ctx)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	expired, err := w.directory.ExpireDue(ctx)
	if err != nil {
		w.log.Warn("sponsorship expiry sweep failed", "error", err)
		return
	}
	if expired > 0 {
		w.log.Info("sponsorship expiry sweep deactivated sponsorships", "expired", expired)
	}
}
