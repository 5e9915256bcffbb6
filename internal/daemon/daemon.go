package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"hunt/internal/config"
	"hunt/internal/dispatch"
	"hunt/internal/logging"
	"hunt/internal/notify"
	"hunt/internal/staleness"
	"hunt/internal/stage"
	"hunt/internal/store"
)

// Daemon coordinates the reminder dispatcher and tracker store behind a
// single lifecycle, with flock-based locking to prevent multiple instances.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *store.Store
	dispatcher *dispatch.Dispatcher
	notifier   notify.Service
	evaluator  *staleness.Evaluator
	logPath    string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running          bool
	Dispatcher       dispatch.StatusSummary
	ApplicationStats map[stage.Stage]int
	DBPath           string
	LockFilePath     string
	PID              int
}

// New constructs a daemon with initialized dependencies. A nil notifier or
// evaluator is built from the config.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, dispatcher *dispatch.Dispatcher, notifier notify.Service, evaluator *staleness.Evaluator) (*Daemon, error) {
	if cfg == nil || st == nil || logger == nil || dispatcher == nil {
		return nil, errors.New("daemon requires config, store, logger, and dispatcher")
	}
	if notifier == nil {
		notifier = notify.NewService(cfg)
	}
	if evaluator == nil {
		evaluator = staleness.New(st, staleness.WithThreshold(time.Duration(cfg.Staleness.ThresholdDays)*24*time.Hour))
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "hunt.lock")
	return &Daemon{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		dispatcher: dispatcher,
		notifier:   notifier,
		evaluator:  evaluator,
		logPath:    filepath.Join(cfg.Paths.LogDir, "hunt.log"),
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Start launches the dispatcher and acquires the daemon lock.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another hunt daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.dispatcher.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start dispatcher: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("hunt daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops the dispatcher and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.dispatcher.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("hunt daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if d.cfg == nil {
		return false, "configuration unavailable", errors.New("configuration unavailable")
	}
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	notifier := d.notifier
	if notifier == nil || !notifier.Enabled() {
		notifier = notify.NewService(d.cfg)
	}
	if err := notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	summary := d.dispatcher.Status()
	stats, err := d.store.Stats(ctx, "")
	if err != nil {
		d.logger.Warn("failed to read application stats", logging.Error(err))
	}
	return Status{
		Running:          d.running.Load(),
		Dispatcher:       summary,
		ApplicationStats: stats,
		DBPath:           d.store.Path(),
		LockFilePath:     d.lockPath,
		PID:              os.Getpid(),
	}
}
