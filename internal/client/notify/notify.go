// Package notify defines the local-reminder side effect invoked after
// collection mutations: scheduling, cancelling, and listing recurring
// reminders for collections. The reconciliation engine is the only caller;
// UI code never schedules reminders directly.
package notify

import (
	"context"

	"github.com/duabook/duabook/internal/client/models"
)

// Adapter is the notification collaborator contract.
type Adapter interface {
	// Schedule registers (or replaces) the recurring reminder for the
	// collection. Collections without an enabled reminder are skipped
	// silently.
	Schedule(ctx context.Context, col *models.Collection) error

	// Cancel removes the reminder for the collection id, if any.
	Cancel(ctx context.Context, collectionID string) error

	// ListScheduled returns the collection ids that currently have a
	// reminder registered.
	ListScheduled(ctx context.Context) ([]string, error)
}
