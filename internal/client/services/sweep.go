package services

import (
	"context"
	"fmt"
)

// Sync replays every queued offline action against the backend. Each
// category (reads, archive, deletions, collections) is flushed
// independently: one category failing leaves its log intact for the next
// sweep without blocking the others. Sync is idempotent when the logs are
// empty and safe to call from any goroutine; a category already being
// swept is skipped rather than replayed twice.
func (e *Engine) Sync(ctx context.Context) {
	if e.identity != nil {
		if err := e.identity.EnsureRegistered(ctx); err != nil {
			e.logger.Warn(ctx, "device registration retry failed", "error", err)
		}
	}

	if err := e.sweepReads(ctx); err != nil {
		e.logger.Warn(ctx, "read sweep failed, log kept", "error", err)
	}
	if err := e.sweepArchives(ctx); err != nil {
		e.logger.Warn(ctx, "archive sweep failed, log kept", "error", err)
	}
	if err := e.sweepDeletions(ctx); err != nil {
		e.logger.Warn(ctx, "deletion sweep failed, log kept", "error", err)
	}
	if err := e.sweepCollections(ctx); err != nil {
		e.logger.Warn(ctx, "collection sweep failed, log kept", "error", err)
	}

	e.reconcileNotifications(ctx)
}

// tryAcquire flips the guard under the state mutex, reporting whether the
// caller owns the sweep.
func (e *Engine) tryAcquire(guard *bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if *guard {
		return false
	}
	*guard = true
	return true
}

func (e *Engine) release(guard *bool) {
	e.mu.Lock()
	*guard = false
	e.mu.Unlock()
}

func (e *Engine) sweepReads(ctx context.Context) error {
	if !e.tryAcquire(&e.sweepReadsActive) {
		return nil
	}
	defer e.release(&e.sweepReadsActive)

	queued, err := e.actions.ReadAllReads(ctx)
	if err != nil {
		return fmt.Errorf("failed to read queued reads: %w", err)
	}
	if len(queued) == 0 {
		return nil
	}

	merged := MergeReads(queued)
	deltas := make(map[string]int, len(merged))
	for _, a := range merged {
		deltas[a.DuaID] = a.Count
	}

	counts, err := e.remote.UpdateReadCounts(ctx, deltas)
	if err != nil {
		return fmt.Errorf("failed to flush reads: %w", err)
	}
	if err := e.actions.ClearReads(ctx); err != nil {
		return fmt.Errorf("failed to clear read log: %w", err)
	}

	e.logger.Info(ctx, "read log flushed", "duas", len(merged))

	// the response may carry only the flushed duas' counts; merge it so
	// counts it does not mention survive
	e.mu.Lock()
	for id, n := range counts {
		e.readCounts[id] = n
	}
	e.mu.Unlock()
	e.persistReadCounts(ctx)
	return nil
}

func (e *Engine) sweepArchives(ctx context.Context) error {
	if !e.tryAcquire(&e.sweepArchivesActive) {
		return nil
	}
	defer e.release(&e.sweepArchivesActive)

	queued, err := e.actions.ReadAllArchives(ctx)
	if err != nil {
		return fmt.Errorf("failed to read queued archive actions: %w", err)
	}
	if len(queued) == 0 {
		return nil
	}

	merged := MergeArchives(queued)
	if len(merged) > 0 {
		if err := e.remote.BatchArchive(ctx, merged); err != nil {
			return fmt.Errorf("failed to flush archive actions: %w", err)
		}
	}
	if err := e.actions.ClearArchives(ctx); err != nil {
		return fmt.Errorf("failed to clear archive log: %w", err)
	}

	e.logger.Info(ctx, "archive log flushed", "queued", len(queued), "sent", len(merged))

	e.RefreshDuas(ctx)
	e.RefreshArchived(ctx)
	return nil
}

func (e *Engine) sweepDeletions(ctx context.Context) error {
	if !e.tryAcquire(&e.sweepDeletionsActive) {
		return nil
	}
	defer e.release(&e.sweepDeletionsActive)

	queued, err := e.actions.ReadAllDeletions(ctx)
	if err != nil {
		return fmt.Errorf("failed to read queued deletions: %w", err)
	}
	if len(queued) == 0 {
		return nil
	}

	merged := MergeDeletions(queued)
	if len(merged) > 0 {
		if err := e.remote.BatchDeletions(ctx, merged); err != nil {
			return fmt.Errorf("failed to flush deletions: %w", err)
		}
	}
	if err := e.actions.ClearDeletions(ctx); err != nil {
		return fmt.Errorf("failed to clear deletion log: %w", err)
	}

	e.logger.Info(ctx, "deletion log flushed", "queued", len(queued), "sent", len(merged))

	e.RefreshDuas(ctx)
	e.RefreshArchived(ctx)
	return nil
}

func (e *Engine) sweepCollections(ctx context.Context) error {
	if !e.tryAcquire(&e.sweepCollectionsActive) {
		return nil
	}
	defer e.release(&e.sweepCollectionsActive)

	queued, err := e.actions.ReadAllCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to read queued collection actions: %w", err)
	}
	if len(queued) == 0 {
		return nil
	}

	merged := MergeCollections(queued)
	if len(merged) > 0 {
		if err := e.remote.BatchCollections(ctx, merged); err != nil {
			return fmt.Errorf("failed to flush collection actions: %w", err)
		}
	}
	if err := e.actions.ClearCollections(ctx); err != nil {
		return fmt.Errorf("failed to clear collection log: %w", err)
	}

	e.logger.Info(ctx, "collection log flushed", "queued", len(queued), "sent", len(merged))

	// the authoritative refetch replaces temp ids with server ids
	e.RefreshCollections(ctx)
	return nil
}
