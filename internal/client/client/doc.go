// Package client contains client-side building blocks for duabook.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the duabook backend: dua and collection CRUD, read counts,
//     archive/unarchive, batch replay endpoints, and a Ping probe.
//  2. A concrete REST implementation (see RESTClient) that speaks JSON over
//     HTTP, scopes user-state calls under the persisted device id, and maps
//     transport failures and HTTP status classes to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations)
//     for the CLI, wiring an SQLite database and applying embedded goose
//     migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: common.ErrUnavailable, common.ErrRejected,
// common.ErrorNotFound.
//
// Concurrency & Contexts
//
// Implementations should be safe for concurrent use unless stated
// otherwise. All operations accept context.Context and must honor
// cancellation/timeouts.
package client
