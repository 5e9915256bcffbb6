package daemonctl_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hunt/internal/daemonctl"
	"hunt/internal/stage"
	"hunt/internal/testsupport"
)

func TestDeriveLogDirPrecedence(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	if got := daemonctl.DeriveLogDir("/var/run/hunt/hunt.lock", cfg); got != "/var/run/hunt" {
		t.Fatalf("expected lock path to win, got %q", got)
	}
	if got := daemonctl.DeriveLogDir("", cfg); got != cfg.Paths.LogDir {
		t.Fatalf("expected config log dir, got %q", got)
	}
	if got := daemonctl.DeriveLogDir("", nil); got != "" {
		t.Fatalf("expected empty dir without hints, got %q", got)
	}
}

func TestForceKillProcessRefusesSelf(t *testing.T) {
	dir := t.TempDir()
	pidPath := filepath.Join(dir, "hunt.pid")
	if err := os.WriteFile(pidPath, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0o644); err != nil {
		t.Fatalf("write pid file: %v", err)
	}

	if _, err := daemonctl.ForceKillProcess(pidPath, "", 0); err == nil || !strings.Contains(err.Error(), "refusing to kill") {
		t.Fatalf("expected self-kill refusal, got %v", err)
	}
}

func TestForceKillProcessWithoutPID(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "hunt.pid")

	if _, err := daemonctl.ForceKillProcess(pidPath, "", 0); err == nil || !strings.Contains(err.Error(), "unable to determine daemon pid") {
		t.Fatalf("expected missing pid error, got %v", err)
	}
}

func TestStopAndTerminateWithoutDaemon(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	socket := filepath.Join(cfg.Paths.LogDir, "hunt.sock")

	_, err := daemonctl.StopAndTerminate(socket, cfg, time.Second)
	if !errors.Is(err, daemonctl.ErrDaemonNotRunning) {
		t.Fatalf("expected ErrDaemonNotRunning, got %v", err)
	}
}

func TestProcessInfoWithoutDaemon(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "hunt.sock")

	running, pid, err := daemonctl.ProcessInfo(socket)
	if err != nil {
		t.Fatalf("ProcessInfo returned error: %v", err)
	}
	if running || pid != 0 {
		t.Fatalf("expected not running, got running=%v pid=%d", running, pid)
	}
}

func TestWaitForClientTimesOut(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "hunt.sock")

	start := time.Now()
	if _, err := daemonctl.WaitForClient(socket, 100*time.Millisecond); err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("wait ran too long: %v", elapsed)
	}
}

func TestBuildStatusSnapshotOffline(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.NewApplication(t, st, "tester", "Acme", "Backend Engineer")

	socket := filepath.Join(cfg.Paths.LogDir, "hunt.sock")
	snapshot, err := daemonctl.BuildStatusSnapshot(context.Background(), socket, cfg)
	if err != nil {
		t.Fatalf("BuildStatusSnapshot: %v", err)
	}
	if snapshot.Running {
		t.Fatal("expected offline snapshot")
	}
	if snapshot.ApplicationStats[string(stage.Applied)] != 1 {
		t.Fatalf("expected offline stats fallback, got %#v", snapshot.ApplicationStats)
	}
	if snapshot.DBPath != cfg.DatabasePath() {
		t.Fatalf("expected db path %q, got %q", cfg.DatabasePath(), snapshot.DBPath)
	}
}
