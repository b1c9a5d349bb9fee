// Package cli provides the interactive wallet command-line client.
//
// It wires configuration, the local secure store, the biometric manager,
// the REST API client and an interactive REPL that tracks whether the
// backend is reachable. Typical flow: offer biometric login when it is
// enabled, fall back to the password form, start a background
// connectivity watcher, and execute user commands.
//
// Key features:
//   - Login / Logout
//   - Biometric login, setup (password or session mode), status and removal
//   - Online/offline status tracking
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
