package services

import (
	"context"
	"time"

	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Scheduler runs recurring sync passes at a fixed interval until the
// context is cancelled. A pass with failures is logged, not fatal: the
// conservative watermark policy means the next tick re-lists the same
// window.
type Scheduler struct {
	runner   driving.SyncRunner
	interval time.Duration
}

// NewScheduler creates a scheduler over the given runner.
func NewScheduler(runner driving.SyncRunner, interval time.Duration) *Scheduler {
	return &Scheduler{runner: runner, interval: interval}
}

// Start runs one pass immediately, then one per interval. It returns
// the context's error on cancellation.
func (s *Scheduler) Start(ctx context.Context) error {
	logger.Info("Scheduler started, interval %s", s.interval)

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	report, err := s.runner.Run(ctx)
	if err != nil {
		logger.Error("Scheduled sync failed: %v", err)
		return
	}
	if report.Failed() {
		logger.Warn("Scheduled sync recorded failures; will retry next interval")
	}
}
