// Package daemon coordinates the long-running hunt process.
//
// It wires configuration, tracker storage, the reminder dispatcher, and the
// staleness evaluator into a single lifecycle with flock-based locking to
// prevent multiple instances. The daemon exposes the tracker operations the
// IPC layer serves, so CLI commands see identical semantics whether they go
// through the socket or open the store directly.
//
// Keep orchestration logic here: reminder delivery lives in dispatch and
// persistence in store, while the daemon focuses on startup, shutdown, and
// delegation.
package daemon
