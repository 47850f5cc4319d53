// Package cache provides the local entity cache: durable last-known-good
// snapshots of duas, collections, archived and deleted duas, and read
// counts, kept so the client stays usable offline.
//
// Snapshots are overwritten wholesale on every successful remote fetch and
// read wholesale at startup or when a fetch fails. There are no merge
// semantics here; reconciling the cache with the offline action log is the
// engine's job.
package cache

import (
	"context"

	"github.com/duabook/duabook/internal/client/models"
)

// Repository is the entity cache contract. Getters return (nil, nil) when a
// snapshot has never been written.
type Repository interface {
	PutDuas(ctx context.Context, duas []models.Dua) error
	GetDuas(ctx context.Context) ([]models.Dua, error)

	PutArchived(ctx context.Context, duas []models.Dua) error
	GetArchived(ctx context.Context) ([]models.Dua, error)

	PutDeleted(ctx context.Context, duas []models.Dua) error
	GetDeleted(ctx context.Context) ([]models.Dua, error)

	// PutDuaSets writes all three membership snapshots atomically.
	PutDuaSets(ctx context.Context, duas, archived, deleted []models.Dua) error

	PutCollections(ctx context.Context, cols []models.Collection) error
	GetCollections(ctx context.Context) ([]models.Collection, error)

	PutReadCounts(ctx context.Context, counts models.ReadCounts) error
	GetReadCounts(ctx context.Context) (models.ReadCounts, error)
}
