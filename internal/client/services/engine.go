// Package services hosts the reconciliation engine: the single owner of
// the client's in-memory state (duas, archived duas, collections, read
// counts) and the component that decides, for every mutating intent,
// whether to call the backend directly or to queue a durable offline
// action and replay it when connectivity returns.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/duabook/duabook/internal/client/client"
	"github.com/duabook/duabook/internal/client/connectivity"
	"github.com/duabook/duabook/internal/client/identity"
	"github.com/duabook/duabook/internal/client/models"
	"github.com/duabook/duabook/internal/client/notify"
	"github.com/duabook/duabook/internal/client/repositories/actionlog"
	"github.com/duabook/duabook/internal/client/repositories/cache"
	"github.com/duabook/duabook/internal/logging"
)

// Engine owns the client state and the offline reconciliation flow. The UI
// reads snapshots and dispatches intents; it never mutates engine state
// directly. One mutex serializes every state change, making the
// single-writer rule explicit instead of conventional.
type Engine struct {
	remote   client.Client
	actions  actionlog.Repository
	cache    cache.Repository
	monitor  *connectivity.Monitor
	notifier notify.Adapter
	identity *identity.Provider
	logger   logging.Logger

	now func() time.Time

	mu          sync.Mutex
	duas        []models.Dua
	archived    []models.Dua
	deleted     []models.Dua
	collections []models.Collection
	readCounts  models.ReadCounts

	// per-category re-entrancy guards for the reconciliation sweep
	sweepReadsActive       bool
	sweepArchivesActive    bool
	sweepDeletionsActive   bool
	sweepCollectionsActive bool
}

// NewEngine wires the engine over its collaborators. identity may be nil
// in tests that do not exercise deferred device registration.
func NewEngine(
	remote client.Client,
	actions actionlog.Repository,
	entityCache cache.Repository,
	monitor *connectivity.Monitor,
	notifier notify.Adapter,
	idp *identity.Provider,
	logger logging.Logger,
) *Engine {
	return &Engine{
		remote:     remote,
		actions:    actions,
		cache:      entityCache,
		monitor:    monitor,
		notifier:   notifier,
		identity:   idp,
		logger:     logger,
		now:        time.Now,
		readCounts: models.ReadCounts{},
	}
}

// LoadInitialState populates in-memory state from the local entity cache
// so the client is usable before (or without) the first remote fetch.
// Cache read failures are logged and leave the corresponding state empty;
// they never fail startup.
func (e *Engine) LoadInitialState(ctx context.Context) {
	duas, err := e.cache.GetDuas(ctx)
	if err != nil {
		e.logger.Warn(ctx, "failed to read dua cache", "error", err)
	}
	archived, err := e.cache.GetArchived(ctx)
	if err != nil {
		e.logger.Warn(ctx, "failed to read archived cache", "error", err)
	}
	deleted, err := e.cache.GetDeleted(ctx)
	if err != nil {
		e.logger.Warn(ctx, "failed to read deleted cache", "error", err)
	}
	cols, err := e.cache.GetCollections(ctx)
	if err != nil {
		e.logger.Warn(ctx, "failed to read collection cache", "error", err)
	}
	counts, err := e.cache.GetReadCounts(ctx)
	if err != nil {
		e.logger.Warn(ctx, "failed to read count cache", "error", err)
	}
	if counts == nil {
		counts = models.ReadCounts{}
	}

	e.mu.Lock()
	e.duas = duas
	e.archived = archived
	e.deleted = deleted
	e.collections = cols
	e.readCounts = counts
	e.mu.Unlock()
}

// Run drives the reconciliation loop: every offline→online transition
// reported by the connectivity monitor triggers exactly one sweep. Returns
// when ctx is done.
func (e *Engine) Run(ctx context.Context) {
	transitions := e.monitor.Subscribe()
	for {
		select {
		case online := <-transitions:
			if !online {
				continue
			}
			e.Sync(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Snapshot accessors. All return copies so callers cannot alias
// engine-owned state.

func (e *Engine) Duas() []models.Dua {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Dua(nil), e.duas...)
}

func (e *Engine) ArchivedDuas() []models.Dua {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Dua(nil), e.archived...)
}

func (e *Engine) DeletedDuas() []models.Dua {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Dua(nil), e.deleted...)
}

func (e *Engine) Collections() []models.Collection {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Collection, len(e.collections))
	for i := range e.collections {
		out[i] = *e.collections[i].Clone()
	}
	return out
}

func (e *Engine) ReadCounts() models.ReadCounts {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.readCounts.Clone()
}

// findDua locates id in the given set.
func findDua(set []models.Dua, id string) (int, bool) {
	for i := range set {
		if set[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// removeDuaAt removes index i preserving order.
func removeDuaAt(set []models.Dua, i int) []models.Dua {
	return append(set[:i], set[i+1:]...)
}

// persistDuaSets writes the current dua membership snapshots to the local
// entity cache. Storage errors are logged, never propagated: the
// in-memory state remains the user-visible truth.
func (e *Engine) persistDuaSets(ctx context.Context) {
	e.mu.Lock()
	duas := append([]models.Dua(nil), e.duas...)
	archived := append([]models.Dua(nil), e.archived...)
	deleted := append([]models.Dua(nil), e.deleted...)
	e.mu.Unlock()

	if err := e.cache.PutDuaSets(ctx, duas, archived, deleted); err != nil {
		e.logger.Warn(ctx, "failed to cache dua sets", "error", err)
	}
}

func (e *Engine) persistCollections(ctx context.Context) {
	e.mu.Lock()
	cols := make([]models.Collection, len(e.collections))
	for i := range e.collections {
		cols[i] = *e.collections[i].Clone()
	}
	e.mu.Unlock()

	if err := e.cache.PutCollections(ctx, cols); err != nil {
		e.logger.Warn(ctx, "failed to cache collections", "error", err)
	}
}

func (e *Engine) persistReadCounts(ctx context.Context) {
	e.mu.Lock()
	counts := e.readCounts.Clone()
	e.mu.Unlock()

	if err := e.cache.PutReadCounts(ctx, counts); err != nil {
		e.logger.Warn(ctx, "failed to cache read counts", "error", err)
	}
}
