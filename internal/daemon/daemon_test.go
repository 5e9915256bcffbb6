package daemon_test

import (
	"context"
	"testing"
	"time"

	"hunt/internal/daemon"
	"hunt/internal/dispatch"
	"hunt/internal/logging"
	"hunt/internal/notify"
	"hunt/internal/stage"
	"hunt/internal/testsupport"
)

func newTestDaemon(t *testing.T) *daemon.Daemon {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	dispatcher := dispatch.New(cfg, st, logger, notify.NewService(cfg),
		dispatch.WithIntervals(10*time.Millisecond, 10*time.Millisecond))
	d, err := daemon.New(cfg, st, logger, dispatcher, nil, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})
	return d
}

func TestDaemonStartStop(t *testing.T) {
	d := newTestDaemon(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if !status.Dispatcher.Running {
		t.Fatal("expected dispatcher to report running")
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	status = d.Status(ctx)
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonLockRejectsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()

	first, err := daemon.New(cfg, st, logger, dispatch.New(cfg, st, logger, notify.NewService(cfg)), nil, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { first.Close() })

	second, err := daemon.New(cfg, st, logger, dispatch.New(cfg, st, logger, notify.NewService(cfg)), nil, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { second.Close() })

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		t.Fatal("expected lock conflict for second instance")
	}

	first.Stop()
	if err := second.Start(ctx); err != nil {
		t.Fatalf("expected second instance to start after lock release: %v", err)
	}
	second.Stop()
}

func TestDaemonDelegatesTrackerOperations(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	app, err := d.CreateApplication(ctx, "alice", "Acme", "Backend Engineer", stage.Summer)
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}
	if _, err := d.RecordStage(ctx, app.ID, stage.Phone, nil); err != nil {
		t.Fatalf("RecordStage failed: %v", err)
	}

	history, err := d.StageHistory(ctx, app.ID)
	if err != nil {
		t.Fatalf("StageHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(history))
	}

	reminder, err := d.ScheduleReminder(ctx, app.ID, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("ScheduleReminder failed: %v", err)
	}
	reminders, err := d.ListReminders(ctx, "alice", false)
	if err != nil {
		t.Fatalf("ListReminders failed: %v", err)
	}
	if len(reminders) != 1 || reminders[0].ID != reminder.ID {
		t.Fatalf("unexpected reminders: %#v", reminders)
	}

	stats, err := d.ApplicationStats(ctx, "alice")
	if err != nil {
		t.Fatalf("ApplicationStats failed: %v", err)
	}
	if stats[stage.Phone] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}

	status := d.Status(ctx)
	if status.ApplicationStats[stage.Phone] != 1 {
		t.Fatalf("expected status stats to include the application, got %#v", status.ApplicationStats)
	}
	if status.DBPath == "" || status.LockFilePath == "" {
		t.Fatalf("expected paths in status, got %#v", status)
	}

	health, err := d.DatabaseHealth(ctx)
	if err != nil {
		t.Fatalf("DatabaseHealth failed: %v", err)
	}
	if !health.DatabaseReadable || health.TotalApplications != 1 {
		t.Fatalf("unexpected health: %#v", health)
	}
}

func TestDaemonTestNotificationWithoutTopic(t *testing.T) {
	d := newTestDaemon(t)

	sent, message, err := d.TestNotification(context.Background())
	if err != nil {
		t.Fatalf("TestNotification failed: %v", err)
	}
	if sent {
		t.Fatal("expected no send without a configured topic")
	}
	if message != "ntfy topic not configured" {
		t.Fatalf("unexpected message: %q", message)
	}
}
