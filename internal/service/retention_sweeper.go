package service

import (
	"context"
	"time"

	"talentscout-be/internal/pkg/logger"
)

// RetentionSweeper runs SweepExpired once at start and then every interval
// until ctx is cancelled.
type RetentionSweeper struct {
	store    ICandidateStoreService
	interval time.Duration
	logger   logger.ILogger
	now      func() time.Time
}

func NewRetentionSweeper(store ICandidateStoreService, interval time.Duration, log logger.ILogger) *RetentionSweeper {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &RetentionSweeper{
		store:    store,
		interval: interval,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *RetentionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.sweepOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *RetentionSweeper) sweepOnce(ctx context.Context) {
	deleted, err := s.store.SweepExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("RETENTION", "Retention sweep failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if deleted > 0 {
		s.logger.Info("RETENTION", "Expired candidate records deleted", map[string]interface{}{
			"deleted": deleted,
		})
	}
}
