package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	syncapp "github.com/ordersync/backend/internal/application/ordersync"
)

// blockingRunner blocks inside SyncOrders until released. Only the first run
// blocks; later runs return immediately.
type blockingRunner struct {
	started     chan struct{}
	release     chan struct{}
	startedOnce sync.Once
	runCount    atomic.Int32
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (r *blockingRunner) SyncOrders(ctx context.Context) (*syncapp.BatchResult, error) {
	r.runCount.Add(1)
	r.startedOnce.Do(func() { close(r.started) })
	select {
	case <-r.release:
	case <-ctx.Done():
	}
	return &syncapp.BatchResult{}, nil
}

// countingRunner just counts invocations
type countingRunner struct {
	runCount atomic.Int32
}

func (r *countingRunner) SyncOrders(ctx context.Context) (*syncapp.BatchResult, error) {
	r.runCount.Add(1)
	return &syncapp.BatchResult{Total: 1, Synced: 1}, nil
}

func testTriggerConfig() SyncTriggerConfig {
	return SyncTriggerConfig{
		Enabled:    true,
		Interval:   50 * time.Millisecond,
		RunTimeout: time.Second,
	}
}

func TestNewSyncTriggerValidation(t *testing.T) {
	_, err := NewSyncTrigger(SyncTriggerConfig{Interval: 0, RunTimeout: time.Second}, &countingRunner{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewSyncTrigger(SyncTriggerConfig{Interval: time.Hour, RunTimeout: 0}, &countingRunner{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunNow(t *testing.T) {
	runner := &countingRunner{}
	trigger, err := NewSyncTrigger(testTriggerConfig(), runner, zap.NewNop())
	require.NoError(t, err)

	result, err := trigger.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, int32(1), runner.runCount.Load())
	assert.False(t, trigger.LastRun().IsZero())
}

func TestRunNowRejectsConcurrentRun(t *testing.T) {
	runner := newBlockingRunner()
	trigger, err := NewSyncTrigger(testTriggerConfig(), runner, zap.NewNop())
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		_, err := trigger.RunNow(context.Background())
		errCh <- err
	}()

	<-runner.started

	// Second request while the first batch is in flight.
	_, err = trigger.RunNow(context.Background())
	assert.ErrorIs(t, err, ErrSyncAlreadyRunning)

	close(runner.release)
	require.NoError(t, <-errCh)

	// The lock is free again after the first run finishes.
	_, err = trigger.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), runner.runCount.Load())
}

func TestTickerFiresBatches(t *testing.T) {
	runner := &countingRunner{}
	trigger, err := NewSyncTrigger(testTriggerConfig(), runner, zap.NewNop())
	require.NoError(t, err)

	trigger.Start()
	defer trigger.Stop()

	assert.Eventually(t, func() bool {
		return runner.runCount.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartIsIdempotent(t *testing.T) {
	trigger, err := NewSyncTrigger(testTriggerConfig(), &countingRunner{}, zap.NewNop())
	require.NoError(t, err)

	trigger.Start()
	trigger.Start()
	assert.True(t, trigger.IsRunning())
	assert.False(t, trigger.NextRun().IsZero())

	trigger.Stop()
	trigger.Stop()
	assert.False(t, trigger.IsRunning())
	assert.True(t, trigger.NextRun().IsZero())
}

func TestDisabledTriggerDoesNotStart(t *testing.T) {
	config := testTriggerConfig()
	config.Enabled = false

	runner := &countingRunner{}
	trigger, err := NewSyncTrigger(config, runner, zap.NewNop())
	require.NoError(t, err)

	trigger.Start()
	assert.False(t, trigger.IsRunning())

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), runner.runCount.Load())

	// Manual runs still work with the ticker disabled.
	_, err = trigger.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), runner.runCount.Load())
}

func TestStopWaitsForRunningBatch(t *testing.T) {
	runner := newBlockingRunner()
	trigger, err := NewSyncTrigger(SyncTriggerConfig{
		Enabled:    true,
		Interval:   10 * time.Millisecond,
		RunTimeout: 2 * time.Second,
	}, runner, zap.NewNop())
	require.NoError(t, err)

	trigger.Start()
	<-runner.started

	stopped := make(chan struct{})
	go func() {
		trigger.Stop()
		close(stopped)
	}()

	// Stop cancels the loop context, which unblocks the batch.
	select {
	case <-stopped:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.False(t, trigger.IsRunning())
}
