package main

import (
	"context"
	"time"

	"hunt/internal/config"
	"hunt/internal/ipc"
	"hunt/internal/stage"
	"hunt/internal/staleness"
	"hunt/internal/store"
)

// trackerAPI exposes tracker operations regardless of IPC or direct store
// backing. Both adapters speak the IPC wire shapes so rendering code does not
// care which path served the request.
type trackerAPI interface {
	Create(ctx context.Context, owner, company, role string, season stage.Season) (ipc.ApplicationSummary, error)
	Lookup(ctx context.Context, id int64, owner, company string) (ipc.ApplicationSummary, error)
	List(ctx context.Context, owner string, filter store.ApplicationFilter) ([]ipc.ApplicationSummary, int, error)
	Remove(ctx context.Context, id int64) (bool, error)
	RecordStage(ctx context.Context, id int64, st stage.Stage, occurredAt *time.Time) (ipc.StageEntrySummary, error)
	History(ctx context.Context, id int64) ([]ipc.StageEntrySummary, error)
	Schedule(ctx context.Context, id int64, dueAt time.Time) (ipc.ReminderSummary, error)
	Reminders(ctx context.Context, owner string, includeSent bool) ([]ipc.ReminderSummary, error)
	MarkSent(ctx context.Context, id int64) error
	DeleteReminder(ctx context.Context, id int64) (bool, error)
	Stale(ctx context.Context, owner string, thresholdDays int) ([]ipc.ApplicationSummary, error)
	Stats(ctx context.Context, owner string) (map[string]int, error)
	Companies(ctx context.Context, owner string) ([]string, error)
	Health(ctx context.Context) (ipc.DatabaseHealthResponse, error)
}

// --- IPC adapter ---

type ipcTracker struct {
	client *ipc.Client
}

func (a *ipcTracker) Create(_ context.Context, owner, company, role string, season stage.Season) (ipc.ApplicationSummary, error) {
	resp, err := a.client.CreateApplication(ipc.CreateApplicationRequest{
		Owner:   owner,
		Company: company,
		Role:    role,
		Season:  season.String(),
	})
	if err != nil {
		return ipc.ApplicationSummary{}, err
	}
	return resp.Application, nil
}

func (a *ipcTracker) Lookup(_ context.Context, id int64, owner, company string) (ipc.ApplicationSummary, error) {
	resp, err := a.client.GetApplication(ipc.GetApplicationRequest{ID: id, Owner: owner, Company: company})
	if err != nil {
		return ipc.ApplicationSummary{}, err
	}
	return resp.Application, nil
}

func (a *ipcTracker) List(_ context.Context, owner string, filter store.ApplicationFilter) ([]ipc.ApplicationSummary, int, error) {
	req := ipc.ListApplicationsRequest{
		Owner:  owner,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	if filter.Stage != "" {
		req.Stage = filter.Stage.String()
	}
	if filter.Season != "" {
		req.Season = filter.Season.String()
	}
	resp, err := a.client.ListApplications(req)
	if err != nil {
		return nil, 0, err
	}
	return resp.Applications, resp.Total, nil
}

func (a *ipcTracker) Remove(_ context.Context, id int64) (bool, error) {
	resp, err := a.client.RemoveApplication(id)
	if err != nil {
		return false, err
	}
	return resp.Removed, nil
}

func (a *ipcTracker) RecordStage(_ context.Context, id int64, st stage.Stage, occurredAt *time.Time) (ipc.StageEntrySummary, error) {
	resp, err := a.client.RecordStage(ipc.RecordStageRequest{ID: id, Stage: st.String(), OccurredAt: occurredAt})
	if err != nil {
		return ipc.StageEntrySummary{}, err
	}
	return resp.Entry, nil
}

func (a *ipcTracker) History(_ context.Context, id int64) ([]ipc.StageEntrySummary, error) {
	resp, err := a.client.StageHistory(id)
	if err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

func (a *ipcTracker) Schedule(_ context.Context, id int64, dueAt time.Time) (ipc.ReminderSummary, error) {
	resp, err := a.client.ScheduleReminder(ipc.ScheduleReminderRequest{ID: id, DueAt: dueAt})
	if err != nil {
		return ipc.ReminderSummary{}, err
	}
	return resp.Reminder, nil
}

func (a *ipcTracker) Reminders(_ context.Context, owner string, includeSent bool) ([]ipc.ReminderSummary, error) {
	resp, err := a.client.ListReminders(ipc.ListRemindersRequest{Owner: owner, IncludeSent: includeSent})
	if err != nil {
		return nil, err
	}
	return resp.Reminders, nil
}

func (a *ipcTracker) MarkSent(_ context.Context, id int64) error {
	_, err := a.client.MarkReminderSent(id)
	return err
}

func (a *ipcTracker) DeleteReminder(_ context.Context, id int64) (bool, error) {
	resp, err := a.client.DeleteReminder(id)
	if err != nil {
		return false, err
	}
	return resp.Deleted, nil
}

func (a *ipcTracker) Stale(_ context.Context, owner string, thresholdDays int) ([]ipc.ApplicationSummary, error) {
	resp, err := a.client.StaleApplications(ipc.StaleApplicationsRequest{Owner: owner, ThresholdDays: thresholdDays})
	if err != nil {
		return nil, err
	}
	return resp.Applications, nil
}

func (a *ipcTracker) Stats(_ context.Context, owner string) (map[string]int, error) {
	resp, err := a.client.Stats(owner)
	if err != nil {
		return nil, err
	}
	return resp.Counts, nil
}

func (a *ipcTracker) Companies(_ context.Context, owner string) ([]string, error) {
	resp, err := a.client.ActiveCompanies(owner)
	if err != nil {
		return nil, err
	}
	return resp.Companies, nil
}

func (a *ipcTracker) Health(_ context.Context) (ipc.DatabaseHealthResponse, error) {
	resp, err := a.client.DatabaseHealth()
	if resp == nil {
		resp = &ipc.DatabaseHealthResponse{}
	}
	return *resp, err
}

// --- Store adapter ---

type storeTracker struct {
	cfg   *config.Config
	store *store.Store
}

func (a *storeTracker) Create(ctx context.Context, owner, company, role string, season stage.Season) (ipc.ApplicationSummary, error) {
	app, err := a.store.CreateApplication(ctx, owner, company, role, season)
	if err != nil {
		return ipc.ApplicationSummary{}, err
	}
	entry, err := a.store.CurrentStage(ctx, app.ID)
	if err != nil {
		return ipc.ApplicationSummary{}, err
	}
	return applicationView(app, entry), nil
}

func (a *storeTracker) Lookup(ctx context.Context, id int64, owner, company string) (ipc.ApplicationSummary, error) {
	var app *store.Application
	var err error
	if id > 0 {
		app, err = a.store.GetApplication(ctx, id)
	} else {
		app, err = a.store.FindByCompany(ctx, owner, company)
	}
	if err != nil {
		return ipc.ApplicationSummary{}, err
	}
	entry, err := a.store.CurrentStage(ctx, app.ID)
	if err != nil {
		return ipc.ApplicationSummary{}, err
	}
	return applicationView(app, entry), nil
}

func (a *storeTracker) List(ctx context.Context, owner string, filter store.ApplicationFilter) ([]ipc.ApplicationSummary, int, error) {
	statuses, err := a.store.ListApplications(ctx, owner, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := a.store.CountApplications(ctx, owner, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ipc.ApplicationSummary, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, statusView(status))
	}
	return out, total, nil
}

func (a *storeTracker) Remove(ctx context.Context, id int64) (bool, error) {
	return a.store.RemoveApplication(ctx, id)
}

func (a *storeTracker) RecordStage(ctx context.Context, id int64, st stage.Stage, occurredAt *time.Time) (ipc.StageEntrySummary, error) {
	entry, err := a.store.RecordStage(ctx, id, st, occurredAt)
	if err != nil {
		return ipc.StageEntrySummary{}, err
	}
	return entryView(entry), nil
}

func (a *storeTracker) History(ctx context.Context, id int64) ([]ipc.StageEntrySummary, error) {
	entries, err := a.store.StageHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]ipc.StageEntrySummary, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entryView(entry))
	}
	return out, nil
}

func (a *storeTracker) Schedule(ctx context.Context, id int64, dueAt time.Time) (ipc.ReminderSummary, error) {
	reminder, err := a.store.ScheduleReminder(ctx, id, dueAt, time.Now())
	if err != nil {
		return ipc.ReminderSummary{}, err
	}
	view := ipc.ReminderSummary{
		ID:            reminder.ID,
		ApplicationID: reminder.ApplicationID,
		DueAt:         reminder.DueAt,
		Sent:          reminder.Sent,
		CreatedAt:     reminder.CreatedAt,
	}
	if app, err := a.store.GetApplication(ctx, reminder.ApplicationID); err == nil {
		view.Owner = app.OwnerID
		view.Company = app.Company
		view.Role = app.Role
	}
	return view, nil
}

func (a *storeTracker) Reminders(ctx context.Context, owner string, includeSent bool) ([]ipc.ReminderSummary, error) {
	reminders, err := a.store.ListReminders(ctx, owner, includeSent)
	if err != nil {
		return nil, err
	}
	out := make([]ipc.ReminderSummary, 0, len(reminders))
	for _, reminder := range reminders {
		out = append(out, reminderView(reminder))
	}
	return out, nil
}

func (a *storeTracker) MarkSent(ctx context.Context, id int64) error {
	return a.store.MarkReminderSent(ctx, id)
}

func (a *storeTracker) DeleteReminder(ctx context.Context, id int64) (bool, error) {
	return a.store.DeleteReminder(ctx, id)
}

func (a *storeTracker) Stale(ctx context.Context, owner string, thresholdDays int) ([]ipc.ApplicationSummary, error) {
	evaluator := staleness.New(a.store,
		staleness.WithThreshold(time.Duration(a.cfg.Staleness.ThresholdDays)*24*time.Hour))
	statuses, err := evaluator.FindStale(ctx, owner, time.Duration(thresholdDays)*24*time.Hour)
	if err != nil {
		return nil, err
	}
	out := make([]ipc.ApplicationSummary, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, statusView(status))
	}
	return out, nil
}

func (a *storeTracker) Stats(ctx context.Context, owner string) (map[string]int, error) {
	stats, err := a.store.Stats(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(stats))
	for st, count := range stats {
		out[st.String()] = count
	}
	return out, nil
}

func (a *storeTracker) Companies(ctx context.Context, owner string) ([]string, error) {
	return a.store.ActiveCompanies(ctx, owner)
}

func (a *storeTracker) Health(ctx context.Context) (ipc.DatabaseHealthResponse, error) {
	health, err := a.store.CheckHealth(ctx)
	resp := ipc.DatabaseHealthResponse{
		DBPath:            health.DBPath,
		DatabaseExists:    health.DatabaseExists,
		DatabaseReadable:  health.DatabaseReadable,
		SchemaVersion:     health.SchemaVersion,
		TableExists:       health.TableExists,
		ColumnsPresent:    health.ColumnsPresent,
		MissingColumns:    health.MissingColumns,
		IntegrityCheck:    health.IntegrityCheck,
		TotalApplications: health.TotalApplications,
		Error:             health.Error,
	}
	return resp, err
}

// --- store model views ---

func applicationView(app *store.Application, entry *store.StageEntry) ipc.ApplicationSummary {
	view := ipc.ApplicationSummary{
		ID:        app.ID,
		Owner:     app.OwnerID,
		Company:   app.Company,
		Role:      app.Role,
		Season:    app.Season.String(),
		CreatedAt: app.CreatedAt,
	}
	if entry != nil {
		view.Stage = entry.Stage.String()
		view.StageAt = entry.OccurredAt
	}
	return view
}

func statusView(status *store.ApplicationStatus) ipc.ApplicationSummary {
	return ipc.ApplicationSummary{
		ID:        status.ID,
		Owner:     status.OwnerID,
		Company:   status.Company,
		Role:      status.Role,
		Season:    status.Season.String(),
		Stage:     status.Stage.String(),
		StageAt:   status.StageAt,
		CreatedAt: status.CreatedAt,
	}
}

func entryView(entry *store.StageEntry) ipc.StageEntrySummary {
	return ipc.StageEntrySummary{
		ID:            entry.ID,
		ApplicationID: entry.ApplicationID,
		Stage:         entry.Stage.String(),
		OccurredAt:    entry.OccurredAt,
	}
}

func reminderView(reminder *store.DueReminder) ipc.ReminderSummary {
	return ipc.ReminderSummary{
		ID:            reminder.ID,
		ApplicationID: reminder.ApplicationID,
		Owner:         reminder.OwnerID,
		Company:       reminder.Company,
		Role:          reminder.Role,
		DueAt:         reminder.DueAt,
		Sent:          reminder.Sent,
		CreatedAt:     reminder.CreatedAt,
	}
}
