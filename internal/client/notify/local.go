package notify

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/duabook/duabook/internal/client/models"
	"github.com/duabook/duabook/internal/logging"
)

// LocalScheduler is an in-process Adapter: it keeps a registry of daily
// reminders and fires them from a ticker loop. Only the time of day of
// ScheduledTime matters; reminders repeat every 24 hours.
type LocalScheduler struct {
	log logging.Logger
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*reminder
}

type reminder struct {
	name string
	next time.Time
}

// NewLocalScheduler returns an empty scheduler.
func NewLocalScheduler(log logging.Logger) *LocalScheduler {
	return &LocalScheduler{
		log:     log,
		now:     time.Now,
		entries: make(map[string]*reminder),
	}
}

// Schedule registers the collection's reminder, replacing any existing one
// (cancel-then-schedule, so repeated calls are idempotent).
func (s *LocalScheduler) Schedule(ctx context.Context, col *models.Collection) error {
	if col == nil || col.ID == "" {
		return nil
	}
	if !col.HasReminder() {
		return nil
	}

	next := nextOccurrence(*col.ScheduledTime, s.now())

	s.mu.Lock()
	s.entries[col.ID] = &reminder{name: col.Name, next: next}
	s.mu.Unlock()

	s.log.Info(ctx, "reminder scheduled", "collection_id", col.ID, "next", next)
	return nil
}

func (s *LocalScheduler) Cancel(ctx context.Context, collectionID string) error {
	s.mu.Lock()
	_, existed := s.entries[collectionID]
	delete(s.entries, collectionID)
	s.mu.Unlock()

	if existed {
		s.log.Info(ctx, "reminder cancelled", "collection_id", collectionID)
	}
	return nil
}

func (s *LocalScheduler) ListScheduled(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Run fires due reminders until ctx is done.
func (s *LocalScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.fireDue(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *LocalScheduler) fireDue(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.entries {
		if r.next.After(now) {
			continue
		}
		s.log.Info(ctx, "time for your dua collection", "collection_id", id, "name", r.name)
		r.next = r.next.Add(24 * time.Hour)
	}
}

// nextOccurrence returns the first instant after now matching the time of
// day carried by scheduled.
func nextOccurrence(scheduled, now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(),
		scheduled.Hour(), scheduled.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
