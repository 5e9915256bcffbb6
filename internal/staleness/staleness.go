// Package staleness flags applications whose stage ledger has gone quiet.
package staleness

import (
	"context"
	"time"

	"hunt/internal/stage"
	"hunt/internal/store"
)

// DefaultThreshold is how long an application may sit in one stage before it
// counts as stale.
const DefaultThreshold = 7 * 24 * time.Hour

// Evaluator answers staleness queries against the tracker store. Offer and
// Rejected applications never count as stale; the loop is over either way.
type Evaluator struct {
	store     *store.Store
	threshold time.Duration
	clock     func() time.Time
}

// Option customizes an Evaluator.
type Option func(*Evaluator)

// WithThreshold overrides the default staleness threshold. Non-positive
// values are ignored.
func WithThreshold(threshold time.Duration) Option {
	return func(e *Evaluator) {
		if threshold > 0 {
			e.threshold = threshold
		}
	}
}

// WithClock substitutes the time source, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Evaluator) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// New builds an Evaluator over the provided store.
func New(st *store.Store, opts ...Option) *Evaluator {
	e := &Evaluator{
		store:     st,
		threshold: DefaultThreshold,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Threshold reports the configured staleness threshold.
func (e *Evaluator) Threshold() time.Duration {
	return e.threshold
}

// FindStale returns the owner's applications whose current stage was recorded
// strictly longer ago than the threshold, oldest first. A non-positive
// threshold falls back to the evaluator's configured value. An entry exactly
// at the cutoff is still fresh.
func (e *Evaluator) FindStale(ctx context.Context, ownerID string, threshold time.Duration) ([]*store.ApplicationStatus, error) {
	if threshold <= 0 {
		threshold = e.threshold
	}
	cutoff := e.clock().UTC().Add(-threshold)
	return e.store.StaleApplications(ctx, ownerID, cutoff, stage.Terminal())
}
