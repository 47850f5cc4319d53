package client

import (
	"context"

	"github.com/duabook/duabook/internal/client/models"
)

// Client is the transport-agnostic contract for talking to the duabook
// backend. Every call may succeed, fail with common.ErrUnavailable (the
// server was never reached or never answered), or fail with
// common.ErrRejected (the server refused the operation).
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	RegisterDevice(ctx context.Context, deviceID string) error

	FetchDuas(ctx context.Context) ([]models.Dua, error)
	FetchDua(ctx context.Context, id string) (*models.Dua, error)
	GenerateDua(ctx context.Context, description string) (*models.Dua, error)
	AddDua(ctx context.Context, duaID string) error
	RemoveDua(ctx context.Context, duaID string) error

	MarkRead(ctx context.Context, duaID string) (int, error)
	FetchReadCounts(ctx context.Context) (models.ReadCounts, error)
	// UpdateReadCounts flushes accumulated read deltas. The returned map
	// holds the updated counts for at least the flushed duas; it need not
	// cover every dua the user has read.
	UpdateReadCounts(ctx context.Context, deltas models.ReadCounts) (models.ReadCounts, error)

	Archive(ctx context.Context, duaID string) error
	Unarchive(ctx context.Context, duaID string) error
	BatchArchive(ctx context.Context, actions []models.ArchiveAction) error
	FetchArchived(ctx context.Context) ([]models.Dua, error)

	BatchDeletions(ctx context.Context, actions []models.DeletionAction) error

	FetchCollections(ctx context.Context) ([]models.Collection, error)
	CreateCollection(ctx context.Context, c *models.Collection) (*models.Collection, error)
	UpdateCollection(ctx context.Context, c *models.Collection) (*models.Collection, error)
	DeleteCollection(ctx context.Context, id string) error
	BatchCollections(ctx context.Context, actions []models.CollectionAction) error
}
