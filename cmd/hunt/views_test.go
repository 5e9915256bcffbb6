package main

import (
	"testing"
	"time"

	"hunt/internal/ipc"
)

func TestBuildStaleRowsIdleColumn(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	apps := []ipc.ApplicationSummary{
		{ID: 1, Company: "Acme", Role: "SRE", Stage: "Applied", StageAt: now.Add(-10 * 24 * time.Hour)},
		{ID: 2, Company: "Globex", Role: "SWE", Stage: "Phone", StageAt: now.Add(-5 * time.Hour)},
		{ID: 3, Company: "Initech", Role: "PM", Stage: "OA"},
	}

	rows := buildStaleRows(apps, now)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if got := rows[0][5]; got != "10d" {
		t.Fatalf("expected idle 10d, got %q", got)
	}
	if got := rows[1][5]; got != "5h" {
		t.Fatalf("expected idle 5h, got %q", got)
	}
	if got := rows[2][5]; got != "-" {
		t.Fatalf("expected idle placeholder, got %q", got)
	}
}

func TestBuildStatsRowsPipelineOrder(t *testing.T) {
	rows := buildStatsRows(map[string]int{
		"Offer":    2,
		"Applied":  5,
		"Archived": 1,
	})
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Applied" || rows[1][0] != "Offer" || rows[2][0] != "Archived" {
		t.Fatalf("unexpected order: %v", rows)
	}
	if rows[0][1] != "5" {
		t.Fatalf("expected count 5 for Applied, got %q", rows[0][1])
	}
}

func TestFormatDisplayTime(t *testing.T) {
	if got := formatDisplayTime(time.Time{}); got != "" {
		t.Fatalf("expected empty string for zero time, got %q", got)
	}
	at := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)
	if got := formatDisplayTime(at); got != "2026-03-02 09:30" {
		t.Fatalf("unexpected display time %q", got)
	}
}

func TestFormatApplicationLabel(t *testing.T) {
	app := ipc.ApplicationSummary{Company: "Acme", Role: "Backend Engineer"}
	if got := formatApplicationLabel(app); got != "Acme / Backend Engineer" {
		t.Fatalf("unexpected label %q", got)
	}
	app.Role = " "
	if got := formatApplicationLabel(app); got != "Acme" {
		t.Fatalf("expected bare company, got %q", got)
	}
}
