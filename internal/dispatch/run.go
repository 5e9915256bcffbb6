package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hunt/internal/faults"
	"hunt/internal/logging"
	"hunt/internal/notify"
)

// Start begins background dispatching.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return errors.New("dispatcher already running")
	}
	if d.store == nil {
		d.mu.Unlock()
		return errors.New("dispatcher store not configured")
	}
	if d.notifier == nil {
		d.mu.Unlock()
		return errors.New("dispatcher notifier not configured")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running = true
	d.state = StateIdle
	d.wg.Add(1)
	d.mu.Unlock()

	go d.run(runCtx)
	return nil
}

// Stop terminates background dispatching and waits for the in-flight tick to
// complete.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	cancel := d.cancel
	d.running = false
	d.cancel = nil
	d.mu.Unlock()

	cancel()
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	logger := d.logger
	if logger == nil {
		logger = logging.NewNop()
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// A tick that has started is allowed to finish even when Stop
		// cancels the run context, so a drain is never abandoned with
		// notifications half delivered.
		if err := d.tick(context.WithoutCancel(ctx)); err != nil {
			d.setLastError(err)
			logging.ErrorWithContext(logger, "reminder dispatch tick failed", "dispatch_tick_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check tracker database access"),
			)
			select {
			case <-ctx.Done():
				return
			case <-time.After(d.errorRetryInterval):
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(d.pollInterval):
		}
	}
}

// tick drains every reminder due at the time it starts. A store read failure
// abandons the whole tick; a notifier failure skips just that reminder and
// leaves it unsent for the next tick.
func (d *Dispatcher) tick(ctx context.Context) error {
	now := d.now()
	d.setState(StateDispatching)
	defer d.setState(StateIdle)

	// Every log line of one drain shares a correlation id.
	ctx = faults.WithRequestID(ctx, uuid.NewString())

	due, err := d.store.DueReminders(ctx, now)
	if err != nil {
		return err
	}

	for _, reminder := range due {
		remCtx := faults.WithAppID(ctx, reminder.ApplicationID)
		logger := logging.WithContext(remCtx, d.logger)
		event := notify.ReminderEvent{
			ReminderID:    reminder.ID,
			ApplicationID: reminder.ApplicationID,
			OwnerID:       reminder.OwnerID,
			Company:       reminder.Company,
			Role:          reminder.Role,
			DueAt:         reminder.DueAt,
		}
		if err := d.notifier.NotifyReminderDue(remCtx, event); err != nil {
			d.recordFailure(err)
			logging.WarnWithContext(logger, "reminder notification failed; leaving unsent", "reminder_notify_failed",
				logging.Error(err),
				logging.Int64("reminder_id", reminder.ID),
				logging.String("company", reminder.Company),
				logging.String(logging.FieldImpact, "follow-up will retry on the next tick"),
			)
			continue
		}
		d.recordDispatch()
		logger.Info("reminder dispatched",
			logging.Int64("reminder_id", reminder.ID),
			logging.String("company", reminder.Company),
			logging.String("role", reminder.Role),
			logging.Time("due_at", reminder.DueAt),
		)

		if err := d.store.MarkReminderSent(remCtx, reminder.ID); err != nil {
			d.setLastError(err)
			logging.WarnWithContext(logger, "failed to mark reminder sent", "reminder_mark_failed",
				logging.Error(err),
				logging.Int64("reminder_id", reminder.ID),
				logging.String(logging.FieldImpact, "the same reminder may notify again next tick"),
			)
		}
	}

	d.setLastTick(now)
	return nil
}
