// Package main hosts the hunt CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into IPC calls
// against the daemon, tracker operations, log tailing, and configuration
// scaffolding. Commands that read or mutate applications work through a small
// facade: when the daemon socket answers they go over IPC, otherwise they open
// the tracker database directly for the duration of the command.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
