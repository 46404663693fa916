package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/linskybing/taskflow/internal/logger"
	"github.com/stretchr/testify/assert"
)

type countingPruner struct {
	calls atomic.Int32
	days  atomic.Int32
	err   error
}

func (p *countingPruner) PruneHistory(_ context.Context, retentionDays int) (int64, error) {
	p.calls.Add(1)
	p.days.Store(int32(retentionDays))
	return 2, p.err
}

func TestStartHistoryCleanupRunsOnStartup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &countingPruner{}
	StartHistoryCleanup(ctx, p, 30, logger.Nop())

	assert.Eventually(t, func() bool { return p.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(30), p.days.Load())
}

func TestStartHistoryCleanupDisabled(t *testing.T) {
	p := &countingPruner{}
	StartHistoryCleanup(context.Background(), p, 0, logger.Nop())

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, p.calls.Load())
}

func TestRunCleanupSurvivesErrors(t *testing.T) {
	p := &countingPruner{err: errors.New("db down")}
	runCleanup(context.Background(), p, 7, logger.Nop())
	assert.Equal(t, int32(1), p.calls.Load())
}
