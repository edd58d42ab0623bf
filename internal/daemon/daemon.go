package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"winnow/internal/cleanuprun"
	"winnow/internal/config"
	"winnow/internal/history"
	"winnow/internal/logging"
)

// Daemon hosts the HTTP API and enforces single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	runner *cleanuprun.Runner
	store  *history.Store
	api    *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	PID           int
	HistoryDBPath string
	LockFilePath  string
	ProviderKey   string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, runner *cleanuprun.Runner, store *history.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || runner == nil || store == nil {
		return nil, errors.New("daemon requires config, runner, and history store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.StateDir, "winnowd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		runner:   runner,
		store:    store,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	srv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = srv
	return d, nil
}

// Start acquires the daemon lock and begins serving the API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another winnow daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if err := d.api.start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("winnow daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("winnow daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// RunCleanup executes one cleanup cycle through the shared runner.
func (d *Daemon) RunCleanup(ctx context.Context, dryRun bool) (*cleanuprun.Result, error) {
	return d.runner.Run(ctx, dryRun)
}

// History exposes the run store for API queries.
func (d *Daemon) History() *history.Store {
	return d.store
}

// Status returns the current daemon status.
func (d *Daemon) Status(context.Context) Status {
	return Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		HistoryDBPath: d.store.Path(),
		LockFilePath:  d.lockPath,
		ProviderKey:   d.cfg.Cleanup.ProviderKey,
	}
}
