package service

import (
	"context"
	"testing"
	"time"

	"talentscout-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetentionSweeper_SweepsOnStartAndStops(t *testing.T) {
	f := newStoreFixture(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, f.svc.Upsert(ctx, "candidate_old", ashaRecord("candidate_old")))

	sweeper := NewRetentionSweeper(f.svc, time.Hour, logger.NewNopLogger())
	sweeper.now = func() time.Time { return f.now.Add(2 * time.Hour) }

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		sweeper.Run(runCtx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		ids, err := f.svc.ListCandidateIds(ctx)
		return err == nil && len(ids) == 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
