package ipc_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hunt/internal/daemon"
	"hunt/internal/dispatch"
	"hunt/internal/ipc"
	"hunt/internal/logging"
	"hunt/internal/notify"
	"hunt/internal/testsupport"
)

func TestIPCServerClient(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	dispatcher := dispatch.New(cfg, st, logger, notify.NewService(cfg),
		dispatch.WithIntervals(time.Hour, time.Hour))
	d, err := daemon.New(cfg, st, logger, dispatcher, nil, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	socket := filepath.Join(cfg.Paths.LogDir, "hunt.sock")
	srv, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() {
		srv.Close()
	})

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	startResp, err := client.Start()
	if err != nil {
		t.Fatalf("Start RPC failed: %v", err)
	}
	if !startResp.Started {
		t.Fatalf("expected Started=true, message=%s", startResp.Message)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Running {
		t.Fatal("expected daemon to be running")
	}
	if status.PID != os.Getpid() {
		t.Fatalf("expected pid %d, got %d", os.Getpid(), status.PID)
	}
	if !strings.HasSuffix(status.DBPath, "hunt.db") {
		t.Fatalf("unexpected db path: %s", status.DBPath)
	}

	created, err := client.CreateApplication(ipc.CreateApplicationRequest{
		Owner:   "tester",
		Company: "Acme",
		Role:    "Backend Engineer",
		Season:  "Summer",
	})
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}
	if created.Application.ID == 0 || created.Application.Stage != "Applied" {
		t.Fatalf("unexpected created application: %#v", created.Application)
	}

	if _, err := client.CreateApplication(ipc.CreateApplicationRequest{
		Owner:   "tester",
		Company: "ACME",
		Role:    "backend engineer",
		Season:  "Summer",
	}); err == nil || !strings.Contains(err.Error(), "already tracked") {
		t.Fatalf("expected duplicate guard error, got %v", err)
	}

	found, err := client.GetApplication(ipc.GetApplicationRequest{Owner: "tester", Company: "acme"})
	if err != nil {
		t.Fatalf("GetApplication by company failed: %v", err)
	}
	if found.Application.ID != created.Application.ID {
		t.Fatalf("expected application %d, got %d", created.Application.ID, found.Application.ID)
	}

	recorded, err := client.RecordStage(ipc.RecordStageRequest{ID: created.Application.ID, Stage: "Phone"})
	if err != nil {
		t.Fatalf("RecordStage failed: %v", err)
	}
	if recorded.Entry.Stage != "Phone" {
		t.Fatalf("unexpected recorded entry: %#v", recorded.Entry)
	}

	history, err := client.StageHistory(created.Application.ID)
	if err != nil {
		t.Fatalf("StageHistory failed: %v", err)
	}
	if len(history.Entries) != 2 || history.Entries[0].Stage != "Applied" || history.Entries[1].Stage != "Phone" {
		t.Fatalf("unexpected history: %#v", history.Entries)
	}

	second, err := client.CreateApplication(ipc.CreateApplicationRequest{
		Owner:   "tester",
		Company: "Globex",
		Role:    "SRE",
		Season:  "Fall",
	})
	if err != nil {
		t.Fatalf("CreateApplication second failed: %v", err)
	}

	list, err := client.ListApplications(ipc.ListApplicationsRequest{Owner: "tester"})
	if err != nil {
		t.Fatalf("ListApplications failed: %v", err)
	}
	if len(list.Applications) != 2 || list.Total != 2 {
		t.Fatalf("unexpected listing: %d items total %d", len(list.Applications), list.Total)
	}

	phones, err := client.ListApplications(ipc.ListApplicationsRequest{Owner: "tester", Stage: "Phone"})
	if err != nil {
		t.Fatalf("ListApplications stage filter failed: %v", err)
	}
	if len(phones.Applications) != 1 || phones.Applications[0].ID != created.Application.ID {
		t.Fatalf("unexpected stage filter result: %#v", phones.Applications)
	}

	if _, err := client.ListApplications(ipc.ListApplicationsRequest{Owner: "tester", Stage: "Quux"}); err == nil {
		t.Fatal("expected unknown stage to fail")
	}

	due := time.Now().Add(time.Hour).UTC()
	scheduled, err := client.ScheduleReminder(ipc.ScheduleReminderRequest{ID: created.Application.ID, DueAt: due})
	if err != nil {
		t.Fatalf("ScheduleReminder failed: %v", err)
	}
	if scheduled.Reminder.Company != "Acme" || scheduled.Reminder.Sent {
		t.Fatalf("unexpected reminder: %#v", scheduled.Reminder)
	}

	if _, err := client.ScheduleReminder(ipc.ScheduleReminderRequest{
		ID:    created.Application.ID,
		DueAt: time.Now().Add(-time.Hour),
	}); err == nil || !strings.Contains(err.Error(), "not in the future") {
		t.Fatalf("expected past due rejection, got %v", err)
	}

	pending, err := client.ListReminders(ipc.ListRemindersRequest{Owner: "tester"})
	if err != nil {
		t.Fatalf("ListReminders failed: %v", err)
	}
	if len(pending.Reminders) != 1 {
		t.Fatalf("expected one pending reminder, got %d", len(pending.Reminders))
	}

	marked, err := client.MarkReminderSent(scheduled.Reminder.ID)
	if err != nil {
		t.Fatalf("MarkReminderSent failed: %v", err)
	}
	if !marked.Marked {
		t.Fatal("expected reminder to be marked sent")
	}
	pending, err = client.ListReminders(ipc.ListRemindersRequest{Owner: "tester"})
	if err != nil {
		t.Fatalf("ListReminders after mark failed: %v", err)
	}
	if len(pending.Reminders) != 0 {
		t.Fatalf("expected no pending reminders, got %#v", pending.Reminders)
	}
	all, err := client.ListReminders(ipc.ListRemindersRequest{Owner: "tester", IncludeSent: true})
	if err != nil {
		t.Fatalf("ListReminders include sent failed: %v", err)
	}
	if len(all.Reminders) != 1 || !all.Reminders[0].Sent {
		t.Fatalf("expected one sent reminder, got %#v", all.Reminders)
	}

	deleted, err := client.DeleteReminder(scheduled.Reminder.ID)
	if err != nil {
		t.Fatalf("DeleteReminder failed: %v", err)
	}
	if !deleted.Deleted {
		t.Fatal("expected reminder to be deleted")
	}
	deleted, err = client.DeleteReminder(scheduled.Reminder.ID)
	if err != nil {
		t.Fatalf("DeleteReminder repeat failed: %v", err)
	}
	if deleted.Deleted {
		t.Fatal("expected second delete to be a no-op")
	}

	stale, err := client.StaleApplications(ipc.StaleApplicationsRequest{Owner: "tester"})
	if err != nil {
		t.Fatalf("StaleApplications failed: %v", err)
	}
	if len(stale.Applications) != 0 {
		t.Fatalf("expected no stale applications, got %#v", stale.Applications)
	}

	stats, err := client.Stats("tester")
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Counts["Phone"] != 1 || stats.Counts["Applied"] != 1 {
		t.Fatalf("unexpected stats: %#v", stats.Counts)
	}

	companies, err := client.ActiveCompanies("tester")
	if err != nil {
		t.Fatalf("ActiveCompanies failed: %v", err)
	}
	if len(companies.Companies) != 2 || companies.Companies[0] != "Acme" || companies.Companies[1] != "Globex" {
		t.Fatalf("unexpected companies: %#v", companies.Companies)
	}

	dbHealth, err := client.DatabaseHealth()
	if err != nil {
		t.Fatalf("DatabaseHealth failed: %v", err)
	}
	if !strings.HasSuffix(dbHealth.DBPath, "hunt.db") || !dbHealth.DatabaseReadable {
		t.Fatalf("unexpected db health: %#v", dbHealth)
	}
	if dbHealth.TotalApplications != 2 {
		t.Fatalf("expected 2 applications in health, got %d", dbHealth.TotalApplications)
	}

	notifyResp, err := client.TestNotification()
	if err != nil {
		t.Fatalf("TestNotification failed: %v", err)
	}
	if notifyResp.Sent || notifyResp.Message == "" {
		t.Fatalf("expected unsent test notification with message, got %#v", notifyResp)
	}

	logPath := d.LogPath()
	if err := os.WriteFile(logPath, []byte("first\nsecond\nthird\n"), 0o644); err != nil {
		t.Fatalf("write log file: %v", err)
	}
	logResp, err := client.LogTail(ipc.LogTailRequest{Offset: -1, Limit: 2})
	if err != nil {
		t.Fatalf("LogTail initial failed: %v", err)
	}
	if len(logResp.Lines) != 2 || logResp.Lines[0] != "second" || logResp.Lines[1] != "third" {
		t.Fatalf("unexpected log tail response: %#v", logResp.Lines)
	}

	followDone := make(chan struct{})
	go func(offset int64) {
		resp, err := client.LogTail(ipc.LogTailRequest{Offset: offset, Follow: true, WaitMillis: 5000})
		if err != nil {
			t.Errorf("LogTail follow error: %v", err)
			return
		}
		if len(resp.Lines) != 1 || resp.Lines[0] != "fourth" {
			t.Errorf("unexpected follow lines: %#v", resp.Lines)
		}
		close(followDone)
	}(logResp.Offset)

	time.Sleep(100 * time.Millisecond)
	if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
		_, _ = f.WriteString("fourth\n")
		_ = f.Close()
	} else {
		t.Fatalf("append log: %v", err)
	}

	select {
	case <-followDone:
	case <-time.After(10 * time.Second):
		t.Fatal("log tail follow timed out")
	}

	removed, err := client.RemoveApplication(second.Application.ID)
	if err != nil {
		t.Fatalf("RemoveApplication failed: %v", err)
	}
	if !removed.Removed {
		t.Fatal("expected application to be removed")
	}
	removed, err = client.RemoveApplication(second.Application.ID)
	if err != nil {
		t.Fatalf("RemoveApplication repeat failed: %v", err)
	}
	if removed.Removed {
		t.Fatal("expected second remove to be a no-op")
	}

	stopResp, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop RPC failed: %v", err)
	}
	if !stopResp.Stopped {
		t.Fatal("expected stop response to be true")
	}

	status2, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if status2.Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDialFailsWithoutSocket(t *testing.T) {
	if _, err := ipc.Dial(filepath.Join(t.TempDir(), "missing.sock")); err == nil {
		t.Fatal("expected dial to fail when socket is absent")
	}
}
