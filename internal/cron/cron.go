package cron

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const cleanupInterval = 24 * time.Hour

// HistoryPruner drops ticket change log entries older than a retention window.
type HistoryPruner interface {
	PruneHistory(ctx context.Context, retentionDays int) (int64, error)
}

// StartHistoryCleanup prunes once on startup and then daily until ctx is
// done. A non-positive retention keeps history forever.
func StartHistoryCleanup(ctx context.Context, pruner HistoryPruner, retentionDays int, log *zap.SugaredLogger) {
	if retentionDays <= 0 {
		return
	}
	go func() {
		log.Infow("starting ticket history cleanup", "retention_days", retentionDays)
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			runCleanup(ctx, pruner, retentionDays, log)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func runCleanup(ctx context.Context, pruner HistoryPruner, retentionDays int, log *zap.SugaredLogger) {
	n, err := pruner.PruneHistory(ctx, retentionDays)
	if err != nil {
		log.Errorw("ticket history cleanup failed", "error", err)
		return
	}
	log.Infow("ticket history cleanup completed", "deleted", n)
}
