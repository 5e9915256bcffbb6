package main

import (
	"strings"
	"testing"
	"time"
)

func TestParseDelay(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"3d", 72 * time.Hour},
		{"36h", 36 * time.Hour},
		{"90m", 90 * time.Minute},
	}
	for _, tc := range cases {
		got, err := parseDelay(tc.in)
		if err != nil {
			t.Fatalf("parseDelay(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parseDelay(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := parseDelay("soon"); err == nil {
		t.Fatal("expected invalid duration to fail")
	} else if !strings.Contains(err.Error(), "90m, 36h, or 3d") {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := parseDelay("xd"); err == nil {
		t.Fatal("expected invalid day count to fail")
	}
}

func TestParseWhen(t *testing.T) {
	got, err := parseWhen("2026-03-02")
	if err != nil {
		t.Fatalf("parseWhen date: %v", err)
	}
	want := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("parseWhen date = %s, want %s", got, want)
	}

	got, err = parseWhen("2026-03-02 15:04")
	if err != nil {
		t.Fatalf("parseWhen datetime: %v", err)
	}
	want = time.Date(2026, time.March, 2, 15, 4, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("parseWhen datetime = %s, want %s", got, want)
	}

	if _, err := parseWhen("tomorrow"); err == nil {
		t.Fatal("expected invalid time to fail")
	}
}
