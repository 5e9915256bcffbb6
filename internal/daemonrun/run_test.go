package daemonrun_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hunt/internal/daemonrun"
	"hunt/internal/ipc"
	"hunt/internal/testsupport"
)

func TestRunServesIPCUntilCancelled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- daemonrun.Run(ctx, cfg, daemonrun.Options{})
	}()

	socket := cfg.SocketPath()
	var client *ipc.Client
	deadline := time.After(10 * time.Second)
	for client == nil {
		select {
		case err := <-done:
			t.Fatalf("daemon exited early: %v", err)
		case <-deadline:
			t.Fatal("daemon socket never became available")
		default:
		}
		c, err := ipc.Dial(socket)
		if err == nil {
			client = c
			break
		}
		time.Sleep(25 * time.Millisecond)
	}
	defer client.Close()

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status over IPC: %v", err)
	}
	if !status.Running {
		t.Fatal("expected daemon to start running")
	}
	if status.PID != os.Getpid() {
		t.Fatalf("expected in-process daemon pid %d, got %d", os.Getpid(), status.PID)
	}

	pidPath := filepath.Join(cfg.Paths.LogDir, "hunt.pid")
	if _, err := os.Stat(pidPath); err != nil {
		t.Fatalf("expected pid file while running: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.LogDir, "hunt.log")); err != nil {
		t.Fatalf("expected current log pointer: %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("daemon returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("daemon did not shut down")
	}

	if _, err := os.Stat(pidPath); !os.IsNotExist(err) {
		t.Fatalf("expected pid file to be removed, stat err %v", err)
	}
}
