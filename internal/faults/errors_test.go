package faults_test

import (
	"errors"
	"strings"
	"testing"

	"hunt/internal/faults"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := faults.Wrap(faults.ErrStoreUnavailable, "store", "list", "query failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, faults.ErrStoreUnavailable) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"store", "list", "query failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToStoreUnavailable(t *testing.T) {
	err := faults.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, faults.ErrStoreUnavailable) {
		t.Fatalf("expected store unavailable marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "tracker failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestWrapDistinctMarkers(t *testing.T) {
	notFound := faults.Wrap(faults.ErrNotFound, "store", "get", "application 7", nil)
	if errors.Is(notFound, faults.ErrInvalidInput) {
		t.Fatalf("not-found error should not match invalid input: %v", notFound)
	}
	if !errors.Is(notFound, faults.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", notFound)
	}
}
