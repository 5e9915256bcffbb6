package testsupport

import (
	"context"
	"testing"

	"hunt/internal/config"
	"hunt/internal/stage"
	"hunt/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewApplication creates an application for tests using the provided store.
func NewApplication(t testing.TB, st *store.Store, owner, company, role string) *store.Application {
	t.Helper()

	app, err := st.CreateApplication(context.Background(), owner, company, role, stage.Summer)
	if err != nil {
		t.Fatalf("store.CreateApplication: %v", err)
	}
	return app
}
