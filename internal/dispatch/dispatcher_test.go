package dispatch_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hunt/internal/dispatch"
	"hunt/internal/logging"
	"hunt/internal/notify"
	"hunt/internal/testsupport"
)

type stubNotifier struct {
	mu      sync.Mutex
	events  []notify.ReminderEvent
	failFor map[int64]error
	block   chan struct{}
	entered chan struct{}
}

func (s *stubNotifier) Enabled() bool                          { return true }
func (s *stubNotifier) TestNotification(context.Context) error { return nil }

func (s *stubNotifier) NotifyReminderDue(ctx context.Context, event notify.ReminderEvent) error {
	s.mu.Lock()
	entered := s.entered
	s.entered = nil
	block := s.block
	s.mu.Unlock()

	if entered != nil {
		close(entered)
	}
	if block != nil {
		<-block
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[event.ReminderID]; ok && err != nil {
		return err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *stubNotifier) sent() []notify.ReminderEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.ReminderEvent(nil), s.events...)
}

func (s *stubNotifier) clearFailure(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failFor, id)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
		default:
		}
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDispatcherSendsDueReminders(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	app := testsupport.NewApplication(t, st, "alice", "Acme", "Backend Engineer")
	now := time.Now().UTC()
	reminder, err := st.ScheduleReminder(ctx, app.ID, now.Add(30*time.Minute), now)
	if err != nil {
		t.Fatalf("ScheduleReminder failed: %v", err)
	}

	notifier := &stubNotifier{}
	d := dispatch.New(cfg, st, logging.NewNop(), notifier,
		dispatch.WithClock(func() time.Time { return now.Add(time.Hour) }),
		dispatch.WithIntervals(10*time.Millisecond, 10*time.Millisecond),
	)
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(d.Stop)

	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second Start to fail while running")
	}

	waitFor(t, "reminder dispatch", func() bool { return len(notifier.sent()) >= 1 })
	events := notifier.sent()
	if events[0].ReminderID != reminder.ID || events[0].Company != "Acme" || events[0].Role != "Backend Engineer" {
		t.Fatalf("unexpected event: %#v", events[0])
	}

	waitFor(t, "sent flag", func() bool {
		fetched, err := st.GetReminder(ctx, reminder.ID)
		return err == nil && fetched.Sent
	})

	status := d.Status()
	if !status.Running || status.Dispatched < 1 {
		t.Fatalf("unexpected status: %#v", status)
	}
	if status.LastTick.IsZero() {
		t.Fatal("expected last tick to be recorded")
	}
}

func TestDispatcherLeavesFailedRemindersUnsent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	app := testsupport.NewApplication(t, st, "alice", "Acme", "Backend Engineer")
	now := time.Now().UTC()
	failing, err := st.ScheduleReminder(ctx, app.ID, now.Add(10*time.Minute), now)
	if err != nil {
		t.Fatalf("ScheduleReminder failed: %v", err)
	}
	healthy, err := st.ScheduleReminder(ctx, app.ID, now.Add(20*time.Minute), now)
	if err != nil {
		t.Fatalf("ScheduleReminder failed: %v", err)
	}

	notifier := &stubNotifier{failFor: map[int64]error{failing.ID: errors.New("ntfy unreachable")}}
	d := dispatch.New(cfg, st, logging.NewNop(), notifier,
		dispatch.WithClock(func() time.Time { return now.Add(time.Hour) }),
		dispatch.WithIntervals(10*time.Millisecond, 10*time.Millisecond),
	)
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(d.Stop)

	// The failing reminder must not block the one behind it in the queue.
	waitFor(t, "healthy reminder dispatch", func() bool {
		for _, event := range notifier.sent() {
			if event.ReminderID == healthy.ID {
				return true
			}
		}
		return false
	})
	waitFor(t, "failure accounting", func() bool { return d.Status().Failed >= 1 })

	fetched, err := st.GetReminder(ctx, failing.ID)
	if err != nil {
		t.Fatalf("GetReminder failed: %v", err)
	}
	if fetched.Sent {
		t.Fatal("expected failed reminder to stay unsent")
	}

	notifier.clearFailure(failing.ID)
	waitFor(t, "failed reminder retry", func() bool {
		fetched, err := st.GetReminder(ctx, failing.ID)
		return err == nil && fetched.Sent
	})
}

func TestDispatcherStopWaitsForInFlightTick(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	app := testsupport.NewApplication(t, st, "alice", "Acme", "Backend Engineer")
	now := time.Now().UTC()
	reminder, err := st.ScheduleReminder(ctx, app.ID, now.Add(time.Minute), now)
	if err != nil {
		t.Fatalf("ScheduleReminder failed: %v", err)
	}

	block := make(chan struct{})
	entered := make(chan struct{})
	notifier := &stubNotifier{block: block, entered: entered}
	d := dispatch.New(cfg, st, logging.NewNop(), notifier,
		dispatch.WithClock(func() time.Time { return now.Add(time.Hour) }),
		dispatch.WithIntervals(time.Hour, time.Hour),
	)
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	select {
	case <-entered:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for tick to start")
	}

	stopDone := make(chan struct{})
	go func() {
		d.Stop()
		close(stopDone)
	}()

	select {
	case <-stopDone:
		t.Fatal("Stop returned while the tick was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(block)
	select {
	case <-stopDone:
	case <-time.After(10 * time.Second):
		t.Fatal("Stop did not return after the tick completed")
	}

	fetched, err := st.GetReminder(ctx, reminder.ID)
	if err != nil {
		t.Fatalf("GetReminder failed: %v", err)
	}
	if !fetched.Sent {
		t.Fatal("expected the in-flight tick to finish marking the reminder")
	}
	if d.Status().Running {
		t.Fatal("expected dispatcher to report stopped")
	}
}

func TestDispatcherKeepsRunningThroughStoreFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	notifier := &stubNotifier{}
	d := dispatch.New(cfg, st, logging.NewNop(), notifier,
		dispatch.WithIntervals(10*time.Millisecond, 10*time.Millisecond),
	)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(d.Stop)

	waitFor(t, "first successful tick", func() bool { return !d.Status().LastTick.IsZero() })

	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	waitFor(t, "store failure surfaced", func() bool { return d.Status().LastError != "" })
	if !d.Status().Running {
		t.Fatal("expected dispatcher to keep running and retry")
	}
}
