package services

import (
	"sort"

	"github.com/duabook/duabook/internal/client/models"
)

// Merge functions collapse a queued action log into the minimal batch to
// flush. They are pure: input order is the append order, output order is
// first-appearance order of each key.

// MergeReads sums read events per dua. The log already stores reads
// merged, so this is a defensive re-merge over whatever ReadAll returned.
func MergeReads(actions []models.ReadAction) []models.ReadAction {
	totals := map[string]int{}
	var order []string
	for _, a := range actions {
		if _, seen := totals[a.DuaID]; !seen {
			order = append(order, a.DuaID)
		}
		totals[a.DuaID] += a.Count
	}

	out := make([]models.ReadAction, 0, len(order))
	for _, id := range order {
		if totals[id] <= 0 {
			continue
		}
		out = append(out, models.ReadAction{DuaID: id, Count: totals[id]})
	}
	return out
}

// MergeArchives reduces each dua's archive history to its net effect.
// An action is only recorded when the local move took effect, so a dua's
// queued kinds strictly alternate: when the first and last kinds match
// the net effect is that kind, otherwise the sequence cancelled itself
// out and nothing is flushed.
func MergeArchives(actions []models.ArchiveAction) []models.ArchiveAction {
	type span struct {
		first, last models.ArchiveKind
	}
	spans := map[string]*span{}
	var order []string
	for _, a := range actions {
		s, seen := spans[a.DuaID]
		if !seen {
			spans[a.DuaID] = &span{first: a.Kind, last: a.Kind}
			order = append(order, a.DuaID)
			continue
		}
		s.last = a.Kind
	}

	var out []models.ArchiveAction
	for _, id := range order {
		s := spans[id]
		if s.first != s.last {
			continue
		}
		out = append(out, models.ArchiveAction{DuaID: id, Kind: s.last})
	}
	return out
}

// MergeDeletions applies the same net-effect rule to soft-delete and
// undo-delete events.
func MergeDeletions(actions []models.DeletionAction) []models.DeletionAction {
	type span struct {
		first, last models.DeletionKind
	}
	spans := map[string]*span{}
	var order []string
	for _, a := range actions {
		s, seen := spans[a.DuaID]
		if !seen {
			spans[a.DuaID] = &span{first: a.Kind, last: a.Kind}
			order = append(order, a.DuaID)
			continue
		}
		s.last = a.Kind
	}

	var out []models.DeletionAction
	for _, id := range order {
		s := spans[id]
		if s.first != s.last {
			continue
		}
		out = append(out, models.DeletionAction{DuaID: id, Kind: s.last})
	}
	return out
}

// MergeCollections collapses queued collection mutations per collection
// identity. Actions are considered in timestamp order; the last writer
// wins, except that a delete dominates everything queued before it for
// the same identity. A collection created and updated offline flushes as
// a single create carrying the final payload. Identity is the collection
// id, or the name when the queued id is a temporary offline id.
func MergeCollections(actions []models.CollectionAction) []models.CollectionAction {
	ordered := append([]models.CollectionAction(nil), actions...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	type group struct {
		created bool
		deleted bool
		last    models.CollectionAction
	}
	var groups []*group

	find := func(col *models.Collection) *group {
		for _, g := range groups {
			if models.SameIdentity(&g.last.Collection, col) {
				return g
			}
		}
		return nil
	}

	for i := range ordered {
		a := ordered[i]
		g := find(&a.Collection)
		if g == nil {
			groups = append(groups, &group{
				created: a.Type == models.CollectionActionCreate,
				deleted: a.Type == models.CollectionActionDelete,
				last:    a,
			})
			continue
		}
		switch a.Type {
		case models.CollectionActionCreate:
			g.created = true
			g.deleted = false
			g.last = a
		case models.CollectionActionUpdate:
			g.deleted = false
			g.last = a
		case models.CollectionActionDelete:
			g.deleted = true
			g.last = a
		}
	}

	var out []models.CollectionAction
	for _, g := range groups {
		a := g.last
		switch {
		case g.deleted && g.created:
			// created and deleted entirely offline: the backend never saw
			// it, so there is nothing to flush
			continue
		case g.deleted:
			a.Type = models.CollectionActionDelete
		case g.created:
			a.Type = models.CollectionActionCreate
		}
		out = append(out, a)
	}
	return out
}
