// Package actionlog provides the durable offline action log: per-category
// storage of mutations queued while the device is disconnected.
//
// Each category (reads, archive, deletion, collection) supports append,
// read-all in insertion order, and clear-all. Appends are committed before
// returning; Clear must only run after a successful remote flush of exactly
// the actions returned by the preceding ReadAll, so an interrupted
// read-flush-clear sequence leaves the log intact (at-least-once replay).
package actionlog

import (
	"context"

	"github.com/duabook/duabook/internal/client/models"
)

// Repository is the durable action log contract used by the
// reconciliation engine.
type Repository interface {
	// AppendRead records one read event for the dua. Events are stored
	// merged by dua id: appending twice yields a single record with
	// count 2.
	AppendRead(ctx context.Context, duaID string) error
	ReadAllReads(ctx context.Context) ([]models.ReadAction, error)
	ClearReads(ctx context.Context) error

	AppendArchive(ctx context.Context, a models.ArchiveAction) error
	ReadAllArchives(ctx context.Context) ([]models.ArchiveAction, error)
	ClearArchives(ctx context.Context) error

	AppendDeletion(ctx context.Context, a models.DeletionAction) error
	ReadAllDeletions(ctx context.Context) ([]models.DeletionAction, error)
	ClearDeletions(ctx context.Context) error

	AppendCollection(ctx context.Context, a models.CollectionAction) error
	ReadAllCollections(ctx context.Context) ([]models.CollectionAction, error)
	ClearCollections(ctx context.Context) error
}
