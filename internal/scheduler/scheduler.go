package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"episode_syncer/internal/domain"
)

// Syncer defines the interface for sync operations.
type Syncer interface {
	RunSync(ctx context.Context) (*domain.SyncReport, error)
}

type Scheduler struct {
	syncer   Syncer
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewScheduler(syncer Syncer, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		syncer:   syncer,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Start runs a sync immediately and then once per interval until ctx is
// done. Runs never overlap: a tick that fires during a run is dropped.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval, "timeout", s.timeout)

	s.runSync(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runSync(ctx)
		}
	}
}

func (s *Scheduler) runSync(ctx context.Context) {
	syncCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		syncCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	report, err := s.syncer.RunSync(syncCtx)
	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		s.logger.Info("sync already running, skipping tick")
	case err != nil:
		s.logger.Error("sync failed", "error", err)
	case report.LastSyncFailed:
		s.logger.Warn("sync finished with failures", "run_id", report.RunID, "failure_kind", report.FailureKind)
	}
}
