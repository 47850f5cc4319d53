package services

import (
	"context"
	"fmt"

	"github.com/duabook/duabook/internal/client/models"
)

// Dual-path mutations: when online, try the backend and settle state from
// its answer; on any failure (or when offline) queue a durable offline
// action and apply the change optimistically. These operations never
// surface an error to the caller for the routine path, the UI only sees
// the resulting state.

// MarkRead records one read event for the dua.
func (e *Engine) MarkRead(ctx context.Context, duaID string) {
	if e.monitor.IsOnline() {
		count, err := e.remote.MarkRead(ctx, duaID)
		if err == nil {
			e.mu.Lock()
			e.readCounts[duaID] = count
			e.mu.Unlock()
			e.persistReadCounts(ctx)
			return
		}
		e.logger.Warn(ctx, "mark read failed, queueing offline", "dua_id", duaID, "error", err)
	}

	if err := e.actions.AppendRead(ctx, duaID); err != nil {
		e.logger.Error(ctx, "failed to queue read action", "dua_id", duaID, "error", err)
	}

	e.mu.Lock()
	e.readCounts[duaID]++
	e.mu.Unlock()
	e.persistReadCounts(ctx)
}

// Archive moves the dua from the active to the archived set.
func (e *Engine) Archive(ctx context.Context, duaID string) {
	if e.monitor.IsOnline() {
		if err := e.remote.Archive(ctx, duaID); err == nil {
			e.applyArchive(duaID)
			e.persistDuaSets(ctx)
			return
		} else {
			e.logger.Warn(ctx, "archive failed, queueing offline", "dua_id", duaID, "error", err)
		}
	}

	// only record the action when the local move took effect: a spurious
	// intent (archiving an unknown or already-archived id) must not enter
	// the log, or it would cancel against the user's real mutation at
	// merge time
	if !e.applyArchive(duaID) {
		return
	}
	if err := e.actions.AppendArchive(ctx, models.ArchiveAction{DuaID: duaID, Kind: models.ArchiveKindArchive}); err != nil {
		e.logger.Error(ctx, "failed to queue archive action", "dua_id", duaID, "error", err)
	}
	e.persistDuaSets(ctx)
}

// Unarchive moves the dua back to the active set.
func (e *Engine) Unarchive(ctx context.Context, duaID string) {
	if e.monitor.IsOnline() {
		if err := e.remote.Unarchive(ctx, duaID); err == nil {
			e.applyUnarchive(duaID)
			e.persistDuaSets(ctx)
			return
		} else {
			e.logger.Warn(ctx, "unarchive failed, queueing offline", "dua_id", duaID, "error", err)
		}
	}

	if !e.applyUnarchive(duaID) {
		return
	}
	if err := e.actions.AppendArchive(ctx, models.ArchiveAction{DuaID: duaID, Kind: models.ArchiveKindUnarchive}); err != nil {
		e.logger.Error(ctx, "failed to queue unarchive action", "dua_id", duaID, "error", err)
	}
	e.persistDuaSets(ctx)
}

// DeleteDua soft-deletes the dua: it leaves the active (or archived) set
// and enters the local undo buffer.
func (e *Engine) DeleteDua(ctx context.Context, duaID string) {
	if e.monitor.IsOnline() {
		if err := e.remote.RemoveDua(ctx, duaID); err == nil {
			e.applyDelete(duaID)
			e.persistDuaSets(ctx)
			return
		} else {
			e.logger.Warn(ctx, "delete failed, queueing offline", "dua_id", duaID, "error", err)
		}
	}

	if !e.applyDelete(duaID) {
		return
	}
	if err := e.actions.AppendDeletion(ctx, models.DeletionAction{DuaID: duaID, Kind: models.DeletionKindDelete}); err != nil {
		e.logger.Error(ctx, "failed to queue deletion action", "dua_id", duaID, "error", err)
	}
	e.persistDuaSets(ctx)
}

// UndoDeleteDua restores a soft-deleted dua to the active set.
func (e *Engine) UndoDeleteDua(ctx context.Context, duaID string) {
	if e.monitor.IsOnline() {
		if err := e.remote.AddDua(ctx, duaID); err == nil {
			e.applyUndoDelete(duaID)
			e.persistDuaSets(ctx)
			return
		} else {
			e.logger.Warn(ctx, "undo delete failed, queueing offline", "dua_id", duaID, "error", err)
		}
	}

	if !e.applyUndoDelete(duaID) {
		return
	}
	if err := e.actions.AppendDeletion(ctx, models.DeletionAction{DuaID: duaID, Kind: models.DeletionKindUndo}); err != nil {
		e.logger.Error(ctx, "failed to queue undo action", "dua_id", duaID, "error", err)
	}
	e.persistDuaSets(ctx)
}

// AddDua adds an existing dua to the user's active set. This is an
// online-only operation: on failure the optimistic insert is reverted and
// the error returned, so the caller can prompt a retry.
func (e *Engine) AddDua(ctx context.Context, dua models.Dua) error {
	e.mu.Lock()
	if _, ok := findDua(e.duas, dua.ID); ok {
		e.mu.Unlock()
		return nil
	}
	e.duas = append(e.duas, dua)
	e.mu.Unlock()

	if err := e.remote.AddDua(ctx, dua.ID); err != nil {
		e.mu.Lock()
		if i, ok := findDua(e.duas, dua.ID); ok {
			e.duas = removeDuaAt(e.duas, i)
		}
		e.mu.Unlock()
		return fmt.Errorf("failed to add dua: %w", err)
	}

	e.persistDuaSets(ctx)
	return nil
}

// GenerateDua asks the backend to create a dua from a free-form
// description and adds it to the user's set. Requires connectivity.
func (e *Engine) GenerateDua(ctx context.Context, description string) (*models.Dua, error) {
	dua, err := e.remote.GenerateDua(ctx, description)
	if err != nil {
		return nil, err
	}
	if err := e.AddDua(ctx, *dua); err != nil {
		return nil, err
	}
	return dua, nil
}

// applyArchive moves duaID from active to archived, reporting whether
// membership changed. Unknown ids and repeats are no-ops.
func (e *Engine) applyArchive(duaID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, ok := findDua(e.duas, duaID)
	if !ok {
		return false
	}
	dua := e.duas[i]
	e.duas = removeDuaAt(e.duas, i)
	if _, dup := findDua(e.archived, duaID); !dup {
		e.archived = append(e.archived, dua)
	}
	return true
}

func (e *Engine) applyUnarchive(duaID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, ok := findDua(e.archived, duaID)
	if !ok {
		return false
	}
	dua := e.archived[i]
	e.archived = removeDuaAt(e.archived, i)
	if _, dup := findDua(e.duas, duaID); !dup {
		e.duas = append(e.duas, dua)
	}
	return true
}

func (e *Engine) applyDelete(duaID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if i, ok := findDua(e.duas, duaID); ok {
		dua := e.duas[i]
		e.duas = removeDuaAt(e.duas, i)
		if _, dup := findDua(e.deleted, duaID); !dup {
			e.deleted = append(e.deleted, dua)
		}
		return true
	}
	if i, ok := findDua(e.archived, duaID); ok {
		dua := e.archived[i]
		e.archived = removeDuaAt(e.archived, i)
		if _, dup := findDua(e.deleted, duaID); !dup {
			e.deleted = append(e.deleted, dua)
		}
		return true
	}
	return false
}

func (e *Engine) applyUndoDelete(duaID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, ok := findDua(e.deleted, duaID)
	if !ok {
		return false
	}
	dua := e.deleted[i]
	e.deleted = removeDuaAt(e.deleted, i)
	if _, dup := findDua(e.duas, duaID); !dup {
		e.duas = append(e.duas, dua)
	}
	return true
}
