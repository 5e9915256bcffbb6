package main

import (
	"encoding/json"
	"strings"
	"testing"

	"hunt/internal/ipc"
)

func TestAddListShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "No applications tracked")

	out, _, err = runCLI(t, []string{"add", "Acme", "Backend Engineer"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	requireContains(t, out, "Tracking #1: Acme / Backend Engineer (Summer, Applied)")

	_, _, err = runCLI(t, []string{"add", "Acme", "Backend Engineer"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected duplicate add to fail")
	}
	requireContains(t, err.Error(), "already tracked")

	out, _, err = runCLI(t, []string{"add", "Globex", "SRE", "--season", "fall"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("add globex: %v", err)
	}
	requireContains(t, out, "Tracking #2: Globex / SRE (Fall, Applied)")

	out, _, err = runCLI(t, []string{"list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Acme")
	requireContains(t, out, "Globex")

	out, _, err = runCLI(t, []string{"list", "--season", "fall"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("list fall: %v", err)
	}
	requireContains(t, out, "Globex")
	if strings.Contains(out, "Acme") {
		t.Fatalf("expected fall filter to drop Acme, got:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"--json", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("list json: %v", err)
	}
	var listed ipc.ListApplicationsResponse
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("decode list json: %v\n%s", err, out)
	}
	if listed.Total != 2 || len(listed.Applications) != 2 {
		t.Fatalf("expected 2 applications, got total=%d len=%d", listed.Total, len(listed.Applications))
	}

	out, _, err = runCLI(t, []string{"show", "Acme"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Application #1")
	requireContains(t, out, "Acme")
	requireContains(t, out, "Stage History")
	requireContains(t, out, "Applied")
}

func TestAddRejectsUnknownSeason(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"add", "Acme", "SRE", "--season", "spring"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected unknown season to fail")
	}
	requireContains(t, err.Error(), "unknown season")
}

func TestStageTransitions(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"add", "Acme", "Backend Engineer"}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, _, err := runCLI(t, []string{"stage", "Acme", "intergalactic"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected unknown stage to fail")
	}
	requireContains(t, err.Error(), "unknown stage")

	out, _, err := runCLI(t, []string{"stage", "Acme", "phone"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	requireContains(t, out, "Recorded Phone for #1 (Acme / Backend Engineer)")

	out, _, err = runCLI(t, []string{"stage", "1", "offer", "--on", "2026-03-02"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("stage --on: %v", err)
	}
	requireContains(t, out, "Recorded Offer for #1")

	out, _, err = runCLI(t, []string{"show", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Offer")
	requireContains(t, out, "Phone")
}

func TestRemoveApplication(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"add", "Acme", "Backend Engineer"}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("add: %v", err)
	}

	out, _, err := runCLI(t, []string{"remove", "Acme"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	requireContains(t, out, "Removed #1 (Acme / Backend Engineer)")

	if _, _, err := runCLI(t, []string{"show", "Acme"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected show after remove to fail")
	}

	if _, _, err := runCLI(t, []string{"remove", "42"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected remove of unknown id to fail")
	}
}
