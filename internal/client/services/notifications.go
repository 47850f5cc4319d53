package services

import (
	"context"

	"github.com/duabook/duabook/internal/client/models"
)

// reconcileNotifications brings the notification adapter in line with the
// current collection set: reminders for collections that no longer exist
// (including temp ids replaced by server ids after a sweep) are cancelled,
// and enabled reminders that are missing get scheduled. Collections whose
// reminder was disabled are cancelled as well.
func (e *Engine) reconcileNotifications(ctx context.Context) {
	if e.notifier == nil {
		return
	}

	scheduled, err := e.notifier.ListScheduled(ctx)
	if err != nil {
		e.logger.Warn(ctx, "failed to list scheduled reminders", "error", err)
		return
	}

	e.mu.Lock()
	cols := make([]models.Collection, len(e.collections))
	for i := range e.collections {
		cols[i] = *e.collections[i].Clone()
	}
	e.mu.Unlock()

	live := make(map[string]*models.Collection, len(cols))
	for i := range cols {
		live[cols[i].ID] = &cols[i]
	}

	have := make(map[string]bool, len(scheduled))
	for _, id := range scheduled {
		have[id] = true
		col, ok := live[id]
		if !ok || !col.HasReminder() {
			e.cancelReminder(ctx, id)
		}
	}

	for id, col := range live {
		if col.HasReminder() && !have[id] {
			e.scheduleReminder(ctx, col)
		}
	}
}
