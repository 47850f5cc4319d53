package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/duabook/duabook/internal/client/connectivity"
	"github.com/duabook/duabook/internal/client/models"
	"github.com/duabook/duabook/internal/common"
	"github.com/duabook/duabook/internal/logging"
	"github.com/rs/zerolog"
)

// fakeClient is an in-memory backend with per-method call counters and a
// single failure switch that makes every call return ErrUnavailable.
type fakeClient struct {
	mu          sync.Mutex
	unavailable bool
	rejectAll   bool

	duas        []models.Dua
	archived    []models.Dua
	collections []models.Collection
	readCounts  models.ReadCounts

	calls map[string]int

	nextID int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		readCounts: models.ReadCounts{},
		calls:      map[string]int{},
	}
}

func (f *fakeClient) called(method string) error {
	f.calls[method]++
	if f.unavailable {
		return common.ErrUnavailable
	}
	if f.rejectAll {
		return common.ErrRejected
	}
	return nil
}

func (f *fakeClient) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeClient) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.called("Ping")
}

func (f *fakeClient) RegisterDevice(ctx context.Context, deviceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.called("RegisterDevice")
}

func (f *fakeClient) FetchDuas(ctx context.Context) ([]models.Dua, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("FetchDuas"); err != nil {
		return nil, err
	}
	return append([]models.Dua(nil), f.duas...), nil
}

func (f *fakeClient) FetchDua(ctx context.Context, id string) (*models.Dua, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("FetchDua"); err != nil {
		return nil, err
	}
	for i := range f.duas {
		if f.duas[i].ID == id {
			d := f.duas[i]
			return &d, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeClient) GenerateDua(ctx context.Context, description string) (*models.Dua, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("GenerateDua"); err != nil {
		return nil, err
	}
	f.nextID++
	return &models.Dua{ID: newServerID(f.nextID), Title: description}, nil
}

func (f *fakeClient) AddDua(ctx context.Context, duaID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.called("AddDua")
}

func (f *fakeClient) RemoveDua(ctx context.Context, duaID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.called("RemoveDua")
}

func (f *fakeClient) MarkRead(ctx context.Context, duaID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("MarkRead"); err != nil {
		return 0, err
	}
	f.readCounts[duaID]++
	return f.readCounts[duaID], nil
}

func (f *fakeClient) FetchReadCounts(ctx context.Context) (models.ReadCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("FetchReadCounts"); err != nil {
		return nil, err
	}
	return f.readCounts.Clone(), nil
}

func (f *fakeClient) UpdateReadCounts(ctx context.Context, deltas models.ReadCounts) (models.ReadCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("UpdateReadCounts"); err != nil {
		return nil, err
	}
	for id, n := range deltas {
		f.readCounts[id] += n
	}
	return f.readCounts.Clone(), nil
}

func (f *fakeClient) Archive(ctx context.Context, duaID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("Archive"); err != nil {
		return err
	}
	f.moveToArchived(duaID)
	return nil
}

func (f *fakeClient) Unarchive(ctx context.Context, duaID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("Unarchive"); err != nil {
		return err
	}
	f.moveToActive(duaID)
	return nil
}

func (f *fakeClient) BatchArchive(ctx context.Context, actions []models.ArchiveAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("BatchArchive"); err != nil {
		return err
	}
	for _, a := range actions {
		if a.Kind == models.ArchiveKindArchive {
			f.moveToArchived(a.DuaID)
		} else {
			f.moveToActive(a.DuaID)
		}
	}
	return nil
}

func (f *fakeClient) FetchArchived(ctx context.Context) ([]models.Dua, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("FetchArchived"); err != nil {
		return nil, err
	}
	return append([]models.Dua(nil), f.archived...), nil
}

func (f *fakeClient) BatchDeletions(ctx context.Context, actions []models.DeletionAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("BatchDeletions"); err != nil {
		return err
	}
	for _, a := range actions {
		if a.Kind != models.DeletionKindDelete {
			continue
		}
		for i := range f.duas {
			if f.duas[i].ID == a.DuaID {
				f.duas = append(f.duas[:i], f.duas[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (f *fakeClient) FetchCollections(ctx context.Context) ([]models.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("FetchCollections"); err != nil {
		return nil, err
	}
	out := make([]models.Collection, len(f.collections))
	for i := range f.collections {
		out[i] = *f.collections[i].Clone()
	}
	return out, nil
}

func (f *fakeClient) CreateCollection(ctx context.Context, c *models.Collection) (*models.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("CreateCollection"); err != nil {
		return nil, err
	}
	created := c.Clone()
	f.nextID++
	created.ID = newServerID(f.nextID)
	f.collections = append(f.collections, *created.Clone())
	return created, nil
}

func (f *fakeClient) UpdateCollection(ctx context.Context, c *models.Collection) (*models.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("UpdateCollection"); err != nil {
		return nil, err
	}
	for i := range f.collections {
		if f.collections[i].ID == c.ID {
			f.collections[i] = *c.Clone()
			return c.Clone(), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeClient) DeleteCollection(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("DeleteCollection"); err != nil {
		return err
	}
	for i := range f.collections {
		if f.collections[i].ID == id {
			f.collections = append(f.collections[:i], f.collections[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeClient) BatchCollections(ctx context.Context, actions []models.CollectionAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.called("BatchCollections"); err != nil {
		return err
	}
	for _, a := range actions {
		switch a.Type {
		case models.CollectionActionCreate:
			created := a.Collection.Clone()
			f.nextID++
			created.ID = newServerID(f.nextID)
			f.collections = append(f.collections, *created)
		case models.CollectionActionUpdate:
			for i := range f.collections {
				if f.collections[i].ID == a.Collection.ID {
					f.collections[i] = *a.Collection.Clone()
				}
			}
		case models.CollectionActionDelete:
			for i := range f.collections {
				if f.collections[i].ID == a.Collection.ID {
					f.collections = append(f.collections[:i], f.collections[i+1:]...)
					break
				}
			}
		}
	}
	return nil
}

func (f *fakeClient) moveToArchived(duaID string) {
	for i := range f.duas {
		if f.duas[i].ID == duaID {
			f.archived = append(f.archived, f.duas[i])
			f.duas = append(f.duas[:i], f.duas[i+1:]...)
			return
		}
	}
}

func (f *fakeClient) moveToActive(duaID string) {
	for i := range f.archived {
		if f.archived[i].ID == duaID {
			f.duas = append(f.duas, f.archived[i])
			f.archived = append(f.archived[:i], f.archived[i+1:]...)
			return
		}
	}
}

func newServerID(n int) string {
	return "srv_" + string(rune('a'+n-1))
}

// fakeActions is an in-memory action log.
type fakeActions struct {
	mu          sync.Mutex
	reads       []models.ReadAction
	archives    []models.ArchiveAction
	deletions   []models.DeletionAction
	collections []models.CollectionAction
}

func newFakeActions() *fakeActions { return &fakeActions{} }

func (f *fakeActions) AppendRead(ctx context.Context, duaID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.reads {
		if f.reads[i].DuaID == duaID {
			f.reads[i].Count++
			return nil
		}
	}
	f.reads = append(f.reads, models.ReadAction{DuaID: duaID, Count: 1})
	return nil
}

func (f *fakeActions) ReadAllReads(ctx context.Context) ([]models.ReadAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ReadAction(nil), f.reads...), nil
}

func (f *fakeActions) ClearReads(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = nil
	return nil
}

func (f *fakeActions) AppendArchive(ctx context.Context, a models.ArchiveAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archives = append(f.archives, a)
	return nil
}

func (f *fakeActions) ReadAllArchives(ctx context.Context) ([]models.ArchiveAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ArchiveAction(nil), f.archives...), nil
}

func (f *fakeActions) ClearArchives(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archives = nil
	return nil
}

func (f *fakeActions) AppendDeletion(ctx context.Context, a models.DeletionAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletions = append(f.deletions, a)
	return nil
}

func (f *fakeActions) ReadAllDeletions(ctx context.Context) ([]models.DeletionAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.DeletionAction(nil), f.deletions...), nil
}

func (f *fakeActions) ClearDeletions(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletions = nil
	return nil
}

func (f *fakeActions) AppendCollection(ctx context.Context, a models.CollectionAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections = append(f.collections, a)
	return nil
}

func (f *fakeActions) ReadAllCollections(ctx context.Context) ([]models.CollectionAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CollectionAction(nil), f.collections...), nil
}

func (f *fakeActions) ClearCollections(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections = nil
	return nil
}

// fakeCache is an in-memory entity cache.
type fakeCache struct {
	mu          sync.Mutex
	duas        []models.Dua
	archived    []models.Dua
	deleted     []models.Dua
	collections []models.Collection
	readCounts  models.ReadCounts
}

func newFakeCache() *fakeCache { return &fakeCache{} }

func (f *fakeCache) PutDuas(ctx context.Context, duas []models.Dua) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.duas = append([]models.Dua(nil), duas...)
	return nil
}

func (f *fakeCache) GetDuas(ctx context.Context) ([]models.Dua, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Dua(nil), f.duas...), nil
}

func (f *fakeCache) PutArchived(ctx context.Context, duas []models.Dua) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archived = append([]models.Dua(nil), duas...)
	return nil
}

func (f *fakeCache) GetArchived(ctx context.Context) ([]models.Dua, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Dua(nil), f.archived...), nil
}

func (f *fakeCache) PutDeleted(ctx context.Context, duas []models.Dua) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append([]models.Dua(nil), duas...)
	return nil
}

func (f *fakeCache) PutDuaSets(ctx context.Context, duas, archived, deleted []models.Dua) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.duas = append([]models.Dua(nil), duas...)
	f.archived = append([]models.Dua(nil), archived...)
	f.deleted = append([]models.Dua(nil), deleted...)
	return nil
}

func (f *fakeCache) GetDeleted(ctx context.Context) ([]models.Dua, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Dua(nil), f.deleted...), nil
}

func (f *fakeCache) PutCollections(ctx context.Context, cols []models.Collection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections = append([]models.Collection(nil), cols...)
	return nil
}

func (f *fakeCache) GetCollections(ctx context.Context) ([]models.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Collection(nil), f.collections...), nil
}

func (f *fakeCache) PutReadCounts(ctx context.Context, counts models.ReadCounts) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCounts = counts.Clone()
	return nil
}

func (f *fakeCache) GetReadCounts(ctx context.Context) (models.ReadCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readCounts == nil {
		return nil, nil
	}
	return f.readCounts.Clone(), nil
}

// fakeNotifier records reminder ids.
type fakeNotifier struct {
	mu        sync.Mutex
	scheduled map[string]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{scheduled: map[string]bool{}}
}

func (f *fakeNotifier) Schedule(ctx context.Context, col *models.Collection) error {
	if !col.HasReminder() {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled[col.ID] = true
	return nil
}

func (f *fakeNotifier) Cancel(ctx context.Context, collectionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.scheduled, collectionID)
	return nil
}

func (f *fakeNotifier) ListScheduled(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.scheduled))
	for id := range f.scheduled {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func reminderTime() time.Time {
	return time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)
}

func discardLogger() logging.Logger {
	return logging.NewZerologLogger(zerolog.Nop())
}

type engineFixture struct {
	engine   *Engine
	remote   *fakeClient
	actions  *fakeActions
	cache    *fakeCache
	monitor  *connectivity.Monitor
	notifier *fakeNotifier
}

func newFixture() *engineFixture {
	remote := newFakeClient()
	actions := newFakeActions()
	entityCache := newFakeCache()
	monitor := connectivity.NewMonitor(remote, time.Minute, nil)
	notifier := newFakeNotifier()

	eng := NewEngine(remote, actions, entityCache, monitor, notifier, nil, discardLogger())
	var tick int64
	eng.now = func() time.Time {
		tick++
		return time.UnixMilli(1700000000000 + tick*1000)
	}

	return &engineFixture{
		engine:   eng,
		remote:   remote,
		actions:  actions,
		cache:    entityCache,
		monitor:  monitor,
		notifier: notifier,
	}
}
