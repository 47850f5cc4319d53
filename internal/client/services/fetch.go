package services

import (
	"context"
	"fmt"

	"github.com/duabook/duabook/internal/client/models"
	"github.com/duabook/duabook/internal/common"
)

func errNotFound(id string) error {
	return fmt.Errorf("dua %s: %w", id, common.ErrorNotFound)
}

// Fetch operations never surface errors for the routine path: a failed
// remote fetch falls back to the local entity cache, and an empty cache
// yields an empty result, not an error.

// RefreshDuas returns the active dua set, preferring the backend and
// falling back to the cache.
func (e *Engine) RefreshDuas(ctx context.Context) []models.Dua {
	if e.monitor.IsOnline() {
		duas, err := e.remote.FetchDuas(ctx)
		if err == nil {
			e.mu.Lock()
			e.duas = duas
			e.mu.Unlock()
			if err := e.cache.PutDuas(ctx, duas); err != nil {
				e.logger.Warn(ctx, "failed to cache duas", "error", err)
			}
			return append(make([]models.Dua, 0, len(duas)), duas...)
		}
		e.logger.Warn(ctx, "fetch duas failed, falling back to cache", "error", err)
	}

	cached, err := e.cache.GetDuas(ctx)
	if err != nil {
		e.logger.Warn(ctx, "failed to read dua cache", "error", err)
	}
	if cached == nil {
		cached = []models.Dua{}
	}
	e.mu.Lock()
	e.duas = cached
	e.mu.Unlock()
	return append(make([]models.Dua, 0, len(cached)), cached...)
}

// RefreshArchived returns the archived dua set with the same fallback
// semantics as RefreshDuas.
func (e *Engine) RefreshArchived(ctx context.Context) []models.Dua {
	if e.monitor.IsOnline() {
		archived, err := e.remote.FetchArchived(ctx)
		if err == nil {
			e.mu.Lock()
			e.archived = archived
			e.mu.Unlock()
			if err := e.cache.PutArchived(ctx, archived); err != nil {
				e.logger.Warn(ctx, "failed to cache archived duas", "error", err)
			}
			return append(make([]models.Dua, 0, len(archived)), archived...)
		}
		e.logger.Warn(ctx, "fetch archived failed, falling back to cache", "error", err)
	}

	cached, err := e.cache.GetArchived(ctx)
	if err != nil {
		e.logger.Warn(ctx, "failed to read archived cache", "error", err)
	}
	if cached == nil {
		cached = []models.Dua{}
	}
	e.mu.Lock()
	e.archived = cached
	e.mu.Unlock()
	return append(make([]models.Dua, 0, len(cached)), cached...)
}

// RefreshCollections returns the collection set with cache fallback.
func (e *Engine) RefreshCollections(ctx context.Context) []models.Collection {
	if e.monitor.IsOnline() {
		cols, err := e.remote.FetchCollections(ctx)
		if err == nil {
			e.mu.Lock()
			e.collections = cols
			e.mu.Unlock()
			if err := e.cache.PutCollections(ctx, cols); err != nil {
				e.logger.Warn(ctx, "failed to cache collections", "error", err)
			}
			return e.Collections()
		}
		e.logger.Warn(ctx, "fetch collections failed, falling back to cache", "error", err)
	}

	cached, err := e.cache.GetCollections(ctx)
	if err != nil {
		e.logger.Warn(ctx, "failed to read collection cache", "error", err)
	}
	if cached == nil {
		cached = []models.Collection{}
	}
	e.mu.Lock()
	e.collections = cached
	e.mu.Unlock()
	return e.Collections()
}

// RefreshReadCounts returns the read-count map with cache fallback.
func (e *Engine) RefreshReadCounts(ctx context.Context) models.ReadCounts {
	if e.monitor.IsOnline() {
		counts, err := e.remote.FetchReadCounts(ctx)
		if err == nil {
			e.mu.Lock()
			e.readCounts = counts
			e.mu.Unlock()
			e.persistReadCounts(ctx)
			return counts.Clone()
		}
		e.logger.Warn(ctx, "fetch read counts failed, falling back to cache", "error", err)
	}

	cached, err := e.cache.GetReadCounts(ctx)
	if err != nil {
		e.logger.Warn(ctx, "failed to read count cache", "error", err)
	}
	if cached == nil {
		cached = models.ReadCounts{}
	}
	e.mu.Lock()
	e.readCounts = cached
	e.mu.Unlock()
	return cached.Clone()
}

// GetDua returns one dua, trying the backend first and falling back to
// whatever set currently holds it locally.
func (e *Engine) GetDua(ctx context.Context, id string) (*models.Dua, error) {
	if e.monitor.IsOnline() {
		dua, err := e.remote.FetchDua(ctx, id)
		if err == nil {
			return dua, nil
		}
		e.logger.Warn(ctx, "fetch dua failed, falling back to local state", "dua_id", id, "error", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, set := range [][]models.Dua{e.duas, e.archived, e.deleted} {
		if i, ok := findDua(set, id); ok {
			dua := set[i]
			return &dua, nil
		}
	}
	return nil, errNotFound(id)
}
