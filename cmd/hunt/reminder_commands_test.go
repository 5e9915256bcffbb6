package main

import (
	"strings"
	"testing"
)

func TestRemindAndListReminders(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"add", "Acme", "Backend Engineer"}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, _, err := runCLI(t, []string{"remind", "Acme"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected remind without timing flags to fail")
	}
	requireContains(t, err.Error(), "exactly one of --in or --at")

	_, _, err = runCLI(t, []string{"remind", "Acme", "--in", "3d", "--at", "2026-12-01"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected remind with both timing flags to fail")
	}

	_, _, err = runCLI(t, []string{"remind", "Acme", "--at", "2020-01-01"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected past due time to fail")
	}
	requireContains(t, err.Error(), "not in the future")

	out, _, err := runCLI(t, []string{"remind", "Acme", "--in", "3d"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("remind: %v", err)
	}
	requireContains(t, out, "Reminder #1 for #1 (Acme / Backend Engineer) due ")

	out, _, err = runCLI(t, []string{"reminders"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("reminders: %v", err)
	}
	requireContains(t, out, "Acme")
	requireContains(t, out, "no")
}

func TestRemindersSentAndDelete(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"add", "Acme", "Backend Engineer"}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := runCLI(t, []string{"remind", "1", "--in", "48h"}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("remind: %v", err)
	}

	out, _, err := runCLI(t, []string{"reminders", "sent", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("reminders sent: %v", err)
	}
	requireContains(t, out, "Reminder #1 marked sent")

	out, _, err = runCLI(t, []string{"reminders"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("reminders: %v", err)
	}
	requireContains(t, out, "No reminders scheduled")

	out, _, err = runCLI(t, []string{"reminders", "--all"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("reminders --all: %v", err)
	}
	requireContains(t, out, "Acme")
	requireContains(t, out, "yes")

	out, _, err = runCLI(t, []string{"reminders", "delete", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("reminders delete: %v", err)
	}
	requireContains(t, out, "Deleted reminder #1")

	out, _, err = runCLI(t, []string{"reminders", "delete", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("reminders delete again: %v", err)
	}
	requireContains(t, out, "No reminder #1")

	_, _, err = runCLI(t, []string{"reminders", "delete", "zero"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected non-numeric reminder id to fail")
	}
	if !strings.Contains(err.Error(), "invalid reminder id") {
		t.Fatalf("unexpected error: %v", err)
	}
}
