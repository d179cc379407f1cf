package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/mailagent/server/internal/ports"
)

// RetentionWorker periodically clears expired one-time state and prunes the
// activity feed. Keeping cleanup out of the request path means expired codes
// cost nothing until the next sweep, while lookups still check expiry.
type RetentionWorker struct {
	logger            *slog.Logger
	users             ports.UserRepository
	activity          ports.ActivityRepository
	interval          time.Duration
	activityRetention time.Duration
}

func NewRetentionWorker(
	logger *slog.Logger,
	users ports.UserRepository,
	activity ports.ActivityRepository,
	interval time.Duration,
	activityRetention time.Duration,
) *RetentionWorker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if activityRetention <= 0 {
		activityRetention = 90 * 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RetentionWorker{
		logger:            logger,
		users:             users,
		activity:          activity,
		interval:          interval,
		activityRetention: activityRetention,
	}
}

// Run executes the periodic cleanup loop until context cancellation.
func (w *RetentionWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.sweepOnce(ctx); err != nil {
			w.logger.ErrorContext(ctx, "retention sweep failed",
				"module", "worker.retention",
				"layer", "adapter",
				"operation", "sweep_once",
				"outcome", "failure",
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *RetentionWorker) sweepOnce(ctx context.Context) error {
	now := time.Now().UTC()

	cleared, err := w.users.ClearExpiredOneTimeState(ctx, now)
	if err != nil {
		return err
	}

	pruned, err := w.activity.DeleteOlderThan(ctx, now.Add(-w.activityRetention))
	if err != nil {
		return err
	}

	if cleared > 0 || pruned > 0 {
		w.logger.InfoContext(ctx, "retention sweep completed",
			"module", "worker.retention",
			"layer", "adapter",
			"operation", "sweep_once",
			"outcome", "success",
			"one_time_state_cleared", cleared,
			"activity_rows_pruned", pruned,
		)
	}
	return nil
}
