package daemon

import (
	"context"
	"errors"
	"time"

	"hunt/internal/stage"
	"hunt/internal/store"
)

var errStoreUnavailable = errors.New("tracker store unavailable")

// CreateApplication registers a new application through the daemon's store.
func (d *Daemon) CreateApplication(ctx context.Context, owner, company, role string, season stage.Season) (*store.Application, error) {
	if d.store == nil {
		return nil, errStoreUnavailable
	}
	return d.store.CreateApplication(ctx, owner, company, role, season)
}

// GetApplication fetches a single application by id.
func (d *Daemon) GetApplication(ctx context.Context, id int64) (*store.Application, error) {
	if d.store == nil {
		return nil, errStoreUnavailable
	}
	return d.store.GetApplication(ctx, id)
}

// FindApplicationByCompany resolves the owner's most recent application at a company.
func (d *Daemon) FindApplicationByCompany(ctx context.Context, owner, company string) (*store.Application, error) {
	if d.store == nil {
		return nil, errStoreUnavailable
	}
	return d.store.FindByCompany(ctx, owner, company)
}

// ListApplications returns applications with their current stage plus the
// unpaged total.
func (d *Daemon) ListApplications(ctx context.Context, owner string, filter store.ApplicationFilter) ([]*store.ApplicationStatus, int, error) {
	if d.store == nil {
		return nil, 0, errStoreUnavailable
	}
	statuses, err := d.store.ListApplications(ctx, owner, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := d.store.CountApplications(ctx, owner, filter)
	if err != nil {
		return nil, 0, err
	}
	return statuses, total, nil
}

// RemoveApplication deletes an application and its dependent rows.
func (d *Daemon) RemoveApplication(ctx context.Context, id int64) (bool, error) {
	if d.store == nil {
		return false, errStoreUnavailable
	}
	return d.store.RemoveApplication(ctx, id)
}

// RecordStage appends a stage entry to an application's ledger.
func (d *Daemon) RecordStage(ctx context.Context, appID int64, st stage.Stage, occurredAt *time.Time) (*store.StageEntry, error) {
	if d.store == nil {
		return nil, errStoreUnavailable
	}
	return d.store.RecordStage(ctx, appID, st, occurredAt)
}

// CurrentStage returns the newest ledger entry for an application.
func (d *Daemon) CurrentStage(ctx context.Context, appID int64) (*store.StageEntry, error) {
	if d.store == nil {
		return nil, errStoreUnavailable
	}
	return d.store.CurrentStage(ctx, appID)
}

// StageHistory returns an application's ledger in chronological order.
func (d *Daemon) StageHistory(ctx context.Context, appID int64) ([]*store.StageEntry, error) {
	if d.store == nil {
		return nil, errStoreUnavailable
	}
	return d.store.StageHistory(ctx, appID)
}

// ScheduleReminder creates a follow-up reminder due strictly in the future.
func (d *Daemon) ScheduleReminder(ctx context.Context, appID int64, dueAt time.Time) (*store.Reminder, error) {
	if d.store == nil {
		return nil, errStoreUnavailable
	}
	return d.store.ScheduleReminder(ctx, appID, dueAt, time.Now().UTC())
}

// ListReminders returns the owner's reminders joined with application details.
func (d *Daemon) ListReminders(ctx context.Context, owner string, includeSent bool) ([]*store.DueReminder, error) {
	if d.store == nil {
		return nil, errStoreUnavailable
	}
	return d.store.ListReminders(ctx, owner, includeSent)
}

// MarkReminderSent flags a reminder as dispatched.
func (d *Daemon) MarkReminderSent(ctx context.Context, id int64) error {
	if d.store == nil {
		return errStoreUnavailable
	}
	return d.store.MarkReminderSent(ctx, id)
}

// DeleteReminder removes a reminder.
func (d *Daemon) DeleteReminder(ctx context.Context, id int64) (bool, error) {
	if d.store == nil {
		return false, errStoreUnavailable
	}
	return d.store.DeleteReminder(ctx, id)
}

// StaleApplications returns applications whose ledger has been quiet longer
// than the threshold. A non-positive threshold uses the configured default.
func (d *Daemon) StaleApplications(ctx context.Context, owner string, threshold time.Duration) ([]*store.ApplicationStatus, error) {
	if d.evaluator == nil {
		return nil, errors.New("staleness evaluator unavailable")
	}
	return d.evaluator.FindStale(ctx, owner, threshold)
}

// ApplicationStats returns per-stage counts for the owner.
func (d *Daemon) ApplicationStats(ctx context.Context, owner string) (map[stage.Stage]int, error) {
	if d.store == nil {
		return nil, errStoreUnavailable
	}
	return d.store.Stats(ctx, owner)
}

// ActiveCompanies lists companies whose applications are not rejected.
func (d *Daemon) ActiveCompanies(ctx context.Context, owner string) ([]string, error) {
	if d.store == nil {
		return nil, errStoreUnavailable
	}
	return d.store.ActiveCompanies(ctx, owner)
}

// DatabaseHealth returns detailed database diagnostics.
func (d *Daemon) DatabaseHealth(ctx context.Context) (store.DatabaseHealth, error) {
	if d.store == nil {
		return store.DatabaseHealth{}, errStoreUnavailable
	}
	return d.store.CheckHealth(ctx)
}
