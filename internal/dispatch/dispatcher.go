package dispatch

import (
	"log/slog"
	"sync"
	"time"

	"hunt/internal/config"
	"hunt/internal/logging"
	"hunt/internal/notify"
	"hunt/internal/store"
)

// State describes what the dispatcher is doing right now.
type State string

const (
	// StateIdle means the dispatcher is waiting for the next poll tick.
	StateIdle State = "idle"
	// StateDispatching means a tick is draining due reminders.
	StateDispatching State = "dispatching"
)

// Dispatcher drains due reminders on a fixed poll interval and hands each one
// to the notifier. Reminders are marked sent only after the notifier accepts
// them, so a failed delivery is retried on a later tick.
type Dispatcher struct {
	cfg      *config.Config
	store    *store.Store
	logger   *slog.Logger
	notifier notify.Service

	pollInterval       time.Duration
	errorRetryInterval time.Duration
	now                func() time.Time

	mu         sync.RWMutex
	running    bool
	cancel     func()
	wg         sync.WaitGroup
	state      State
	lastTick   time.Time
	lastErr    error
	dispatched int64
	failed     int64
}

// Option configures optional Dispatcher behavior.
type Option func(*Dispatcher)

// WithClock substitutes the time source, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(d *Dispatcher) {
		if clock != nil {
			d.now = clock
		}
	}
}

// WithIntervals overrides the poll and error retry intervals. Non-positive
// values leave the configured interval untouched.
func WithIntervals(poll, errorRetry time.Duration) Option {
	return func(d *Dispatcher) {
		if poll > 0 {
			d.pollInterval = poll
		}
		if errorRetry > 0 {
			d.errorRetryInterval = errorRetry
		}
	}
}

// New constructs a reminder dispatcher.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, notifier notify.Service, opts ...Option) *Dispatcher {
	poll := time.Duration(cfg.Dispatcher.PollInterval) * time.Second
	if poll <= 0 {
		poll = time.Minute
	}
	retry := time.Duration(cfg.Dispatcher.ErrorRetryInterval) * time.Second
	if retry <= 0 {
		retry = 10 * time.Second
	}

	d := &Dispatcher{
		cfg:                cfg,
		store:              st,
		logger:             logging.NewComponentLogger(logger, "dispatch"),
		notifier:           notifier,
		pollInterval:       poll,
		errorRetryInterval: retry,
		now:                time.Now,
		state:              StateIdle,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}
