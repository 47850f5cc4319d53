package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/duabook/duabook/internal/client/models"
	"github.com/duabook/duabook/internal/common"
)

// CreateCollection creates a collection, online when possible. On the
// online path the server assigns the id; otherwise the collection gets a
// temporary local id and a queued create action, and the temp id is
// rebound to the server id by the next sweep. The reminder side effect
// runs on both paths.
func (e *Engine) CreateCollection(ctx context.Context, col *models.Collection) (*models.Collection, error) {
	if col == nil || col.Name == "" {
		return nil, common.ErrEmptyCollectionName
	}
	created := col.Clone()

	if e.monitor.IsOnline() {
		remote, err := e.remote.CreateCollection(ctx, created)
		if err == nil {
			created = remote
			e.addCollection(created)
			e.persistCollections(ctx)
			e.scheduleReminder(ctx, created)
			return created.Clone(), nil
		}
		if errors.Is(err, common.ErrRejected) {
			return nil, fmt.Errorf("collection rejected by server: %w", err)
		}
		e.logger.Warn(ctx, "create collection failed, queueing offline", "name", col.Name, "error", err)
	}

	created.ID = models.NewTempID(e.now())
	if err := e.actions.AppendCollection(ctx, models.CollectionAction{
		Type:       models.CollectionActionCreate,
		Collection: *created.Clone(),
		Timestamp:  e.now(),
	}); err != nil {
		e.logger.Error(ctx, "failed to queue collection create", "name", col.Name, "error", err)
	}
	e.addCollection(created)
	e.persistCollections(ctx)
	e.scheduleReminder(ctx, created)
	return created.Clone(), nil
}

// UpdateCollection replaces the collection's stored state. Offline or on
// transient failure the update is queued; the reminder is rescheduled (or
// cancelled) from the new state either way.
func (e *Engine) UpdateCollection(ctx context.Context, col *models.Collection) error {
	if col == nil || col.ID == "" {
		return common.ErrorNotFound
	}
	updated := col.Clone()

	queue := true
	if e.monitor.IsOnline() && !models.IsTempID(updated.ID) {
		remote, err := e.remote.UpdateCollection(ctx, updated)
		if err == nil {
			updated = remote
			queue = false
		} else {
			e.logger.Warn(ctx, "update collection failed, queueing offline", "collection_id", col.ID, "error", err)
		}
	}
	if queue {
		if err := e.actions.AppendCollection(ctx, models.CollectionAction{
			Type:       models.CollectionActionUpdate,
			Collection: *updated.Clone(),
			Timestamp:  e.now(),
		}); err != nil {
			e.logger.Error(ctx, "failed to queue collection update", "collection_id", col.ID, "error", err)
		}
	}

	e.replaceCollection(updated)
	e.persistCollections(ctx)

	if updated.HasReminder() {
		e.scheduleReminder(ctx, updated)
	} else {
		e.cancelReminder(ctx, updated.ID)
	}
	return nil
}

// DeleteCollection removes the collection. A hard server rejection is
// returned to the caller; unavailability degrades to a queued delete. The
// reminder is cancelled on every successful path.
func (e *Engine) DeleteCollection(ctx context.Context, id string) error {
	e.mu.Lock()
	i, ok := findCollection(e.collections, id)
	var col *models.Collection
	if ok {
		col = e.collections[i].Clone()
	}
	e.mu.Unlock()
	if !ok {
		return common.ErrorNotFound
	}

	queue := true
	if e.monitor.IsOnline() && !models.IsTempID(id) {
		err := e.remote.DeleteCollection(ctx, id)
		switch {
		case err == nil:
			queue = false
		case errors.Is(err, common.ErrRejected):
			return fmt.Errorf("delete rejected by server: %w", err)
		default:
			e.logger.Warn(ctx, "delete collection failed, queueing offline", "collection_id", id, "error", err)
		}
	}
	if queue {
		if err := e.actions.AppendCollection(ctx, models.CollectionAction{
			Type:       models.CollectionActionDelete,
			Collection: *col,
			Timestamp:  e.now(),
		}); err != nil {
			e.logger.Error(ctx, "failed to queue collection delete", "collection_id", id, "error", err)
		}
	}

	e.mu.Lock()
	if i, ok := findCollection(e.collections, id); ok {
		e.collections = append(e.collections[:i], e.collections[i+1:]...)
	}
	e.mu.Unlock()
	e.persistCollections(ctx)
	e.cancelReminder(ctx, id)
	return nil
}

// AddDuaToCollection appends the dua to the collection's member list if
// not already present, then routes through UpdateCollection.
func (e *Engine) AddDuaToCollection(ctx context.Context, collectionID, duaID string) error {
	e.mu.Lock()
	i, ok := findCollection(e.collections, collectionID)
	var col *models.Collection
	if ok {
		col = e.collections[i].Clone()
	}
	e.mu.Unlock()
	if !ok {
		return common.ErrorNotFound
	}
	if col.ContainsDua(duaID) {
		return common.ErrDuplicateDua
	}
	col.DuaIDs = append(col.DuaIDs, duaID)
	return e.UpdateCollection(ctx, col)
}

// RemoveDuaFromCollection removes the dua from the collection's member
// list, tolerating absence.
func (e *Engine) RemoveDuaFromCollection(ctx context.Context, collectionID, duaID string) error {
	e.mu.Lock()
	i, ok := findCollection(e.collections, collectionID)
	var col *models.Collection
	if ok {
		col = e.collections[i].Clone()
	}
	e.mu.Unlock()
	if !ok {
		return common.ErrorNotFound
	}
	if !col.ContainsDua(duaID) {
		return nil
	}
	kept := col.DuaIDs[:0]
	for _, id := range col.DuaIDs {
		if id != duaID {
			kept = append(kept, id)
		}
	}
	col.DuaIDs = kept
	return e.UpdateCollection(ctx, col)
}

func (e *Engine) addCollection(col *models.Collection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, dup := findCollection(e.collections, col.ID); dup {
		return
	}
	e.collections = append(e.collections, *col.Clone())
}

// replaceCollection swaps the stored collection matching col's identity,
// or appends when no match exists.
func (e *Engine) replaceCollection(col *models.Collection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.collections {
		if models.SameIdentity(&e.collections[i], col) {
			e.collections[i] = *col.Clone()
			return
		}
	}
	e.collections = append(e.collections, *col.Clone())
}

func findCollection(cols []models.Collection, id string) (int, bool) {
	for i := range cols {
		if cols[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (e *Engine) scheduleReminder(ctx context.Context, col *models.Collection) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Schedule(ctx, col); err != nil {
		e.logger.Warn(ctx, "failed to schedule reminder", "collection_id", col.ID, "error", err)
	}
}

func (e *Engine) cancelReminder(ctx context.Context, collectionID string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Cancel(ctx, collectionID); err != nil {
		e.logger.Warn(ctx, "failed to cancel reminder", "collection_id", collectionID, "error", err)
	}
}
