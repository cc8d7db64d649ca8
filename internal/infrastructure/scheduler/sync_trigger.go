package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	syncapp "github.com/ordersync/backend/internal/application/ordersync"
)

// BatchRunner runs one sync batch. Satisfied by the sync application service.
type BatchRunner interface {
	SyncOrders(ctx context.Context) (*syncapp.BatchResult, error)
}

// SyncTriggerConfig holds configuration for the periodic sync trigger
type SyncTriggerConfig struct {
	// Enabled indicates if the periodic trigger is enabled
	Enabled bool
	// Interval is the time between batch runs
	Interval time.Duration
	// RunTimeout is the maximum time one batch run may take
	RunTimeout time.Duration
}

// DefaultSyncTriggerConfig returns default trigger configuration
func DefaultSyncTriggerConfig() SyncTriggerConfig {
	return SyncTriggerConfig{
		Enabled:    true,
		Interval:   1 * time.Hour,
		RunTimeout: 15 * time.Minute,
	}
}

// Validate validates the configuration
func (c *SyncTriggerConfig) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidConfig
	}
	if c.RunTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// SyncTrigger fires sync batches on a fixed interval and accepts manual
// runs in between. The run lock guarantees at most one batch executes at a
// time; a tick or manual request arriving mid-run is dropped, not queued.
type SyncTrigger struct {
	config SyncTriggerConfig
	runner BatchRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// runMu is the batch run lock shared by the ticker and RunNow.
	runMu sync.Mutex

	lastRun   time.Time
	nextRun   time.Time
	lastRunMu sync.RWMutex
}

// NewSyncTrigger creates a new periodic sync trigger
func NewSyncTrigger(config SyncTriggerConfig, runner BatchRunner, logger *zap.Logger) (*SyncTrigger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &SyncTrigger{
		config: config,
		runner: runner,
		logger: logger.Named("sync-trigger"),
	}, nil
}

// Start launches the ticker loop. Starting an already started trigger is a
// no-op.
func (t *SyncTrigger) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.isRunning {
		t.logger.Warn("Sync trigger already started")
		return
	}
	if !t.config.Enabled {
		t.logger.Info("Sync trigger disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.isRunning = true

	t.wg.Add(1)
	go t.loop(ctx)

	t.lastRunMu.Lock()
	t.nextRun = time.Now().Add(t.config.Interval)
	t.lastRunMu.Unlock()

	t.logger.Info("Sync trigger started",
		zap.Duration("interval", t.config.Interval),
		zap.Duration("run_timeout", t.config.RunTimeout),
	)
}

// Stop cancels the ticker loop and waits for an in-flight batch to finish,
// up to the run timeout. Stopping a stopped trigger is a no-op.
func (t *SyncTrigger) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.isRunning {
		return
	}

	t.cancel()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Sync trigger stopped")
	case <-time.After(t.config.RunTimeout):
		t.logger.Warn("Sync trigger stop timed out waiting for running batch")
	}

	t.isRunning = false

	t.lastRunMu.Lock()
	t.nextRun = time.Time{}
	t.lastRunMu.Unlock()
}

// IsRunning reports whether the ticker loop is active
func (t *SyncTrigger) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isRunning
}

// LastRun returns when the last batch run started. Zero before the first run.
func (t *SyncTrigger) LastRun() time.Time {
	t.lastRunMu.RLock()
	defer t.lastRunMu.RUnlock()
	return t.lastRun
}

// NextRun returns when the next scheduled batch fires. Zero while the
// trigger is stopped or disabled.
func (t *SyncTrigger) NextRun() time.Time {
	t.lastRunMu.RLock()
	defer t.lastRunMu.RUnlock()
	return t.nextRun
}

// RunNow executes a batch immediately on the caller's goroutine. Returns
// ErrSyncAlreadyRunning if a batch is already in flight.
func (t *SyncTrigger) RunNow(ctx context.Context) (*syncapp.BatchResult, error) {
	if !t.runMu.TryLock() {
		return nil, ErrSyncAlreadyRunning
	}
	defer t.runMu.Unlock()

	return t.run(ctx)
}

// loop is the ticker goroutine
func (t *SyncTrigger) loop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.lastRunMu.Lock()
			t.nextRun = time.Now().Add(t.config.Interval)
			t.lastRunMu.Unlock()

			if !t.runMu.TryLock() {
				t.logger.Warn("Skipping scheduled batch, previous run still in progress")
				continue
			}
			if _, err := t.run(ctx); err != nil {
				t.logger.Error("Scheduled batch failed", zap.Error(err))
			}
			t.runMu.Unlock()
		}
	}
}

// run executes one batch under the run timeout. Caller holds runMu.
func (t *SyncTrigger) run(ctx context.Context) (*syncapp.BatchResult, error) {
	t.lastRunMu.Lock()
	t.lastRun = time.Now()
	t.lastRunMu.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, t.config.RunTimeout)
	defer cancel()

	return t.runner.SyncOrders(runCtx)
}
