// Package faults defines the error taxonomy shared across the tracker.
//
// Key responsibilities:
//   - Sentinel markers (not found, invalid input, store unavailable,
//     external service) that callers classify with errors.Is instead of
//     string matching.
//   - The Wrap helper that stamps component and operation context onto a
//     failure while keeping the marker reachable for classification.
//   - Context helpers that carry application IDs, stage names, owners, and
//     correlation identifiers into logging.
//
// Use these helpers when wiring new operations so error handling and
// observability stay uniform across the daemon and CLI.
package faults
