package faults_test

import (
	"context"
	"testing"

	"hunt/internal/faults"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = faults.WithAppID(ctx, 42)
	ctx = faults.WithStage(ctx, "Phone")
	ctx = faults.WithOwner(ctx, "avery")
	ctx = faults.WithRequestID(ctx, "req-123")

	if id, ok := faults.AppIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("unexpected app id: %v %v", id, ok)
	}
	if stage, ok := faults.StageFromContext(ctx); !ok || stage != "Phone" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if owner, ok := faults.OwnerFromContext(ctx); !ok || owner != "avery" {
		t.Fatalf("unexpected owner: %v %v", owner, ok)
	}
	if rid, ok := faults.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = faults.WithStage(ctx, "")
	ctx = faults.WithOwner(ctx, "")
	if _, ok := faults.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := faults.OwnerFromContext(ctx); ok {
		t.Fatal("expected no owner value")
	}
}
