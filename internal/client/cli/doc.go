// Package cli provides the interactive duabook command-line client.
//
// It wires configuration, local storage, the REST client, and an
// interactive REPL that supports online/offline operation. Typical flow:
// provision the device id, start the background connectivity watcher and
// reconciliation loop, and execute user commands.
//
// Key features:
//   - List / show duas, mark them read
//   - Archive, delete, undo with offline queueing
//   - Manage collections and their reminders
//   - Sync queued actions with the server
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
