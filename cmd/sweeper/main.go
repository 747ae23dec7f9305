// The sweeper consumes scheduled sponsorship expiry tasks and runs the
// periodic expiry sweep. It shares the directory service with the API
// but exposes no HTTP surface.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	dirrepo "smartdivorce_backend/internal/directory/repository"
	dirservice "smartdivorce_backend/internal/directory/service"
	"smartdivorce_backend/internal/directory/sponsorship"
	"smartdivorce_backend/internal/events"
	"smartdivorce_backend/internal/scheduler"
	"smartdivorce_backend/platform/config"
	"smartdivorce_backend/platform/db"
	"smartdivorce_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting sweeper", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	sponsorConfigs, err := sponsorship.LoadConfigs(cfg.SponsorConfigPath)
	if err != nil {
		log.Error("failed to load sponsor config", "error", err, "path", cfg.SponsorConfigPath)
		panic("failed to load sponsor config: " + err.Error())
	}

	// The worker only expires; it never schedules new expiry tasks.
	matcher := sponsorship.NewMatcher(sponsorConfigs, log)
	directorySvc := dirservice.New(dirrepo.New(pool), matcher, dirservice.NoopScheduler{}, eventBus, log)

	worker, err := scheduler.NewWorker(cfg, directorySvc, log)
	if err != nil {
		log.Error("failed to initialize sweeper worker", "error", err)
		panic("failed to initialize sweeper worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
