// Package logs reads slices of the daemon log file for the CLI.
//
// Negative offsets request the last N lines, non-negative offsets resume a
// previous read, and follow mode polls for new lines until the caller's
// context or wait budget runs out. Memory stays bounded regardless of file
// size, so `hunt logs` is safe against long-lived daemon logs.
package logs
