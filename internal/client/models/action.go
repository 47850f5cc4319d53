package models

import "time"

// The offline action variants form a closed set: one kind per mutation
// category, each with its own merge rules applied before flush.

// ReadAction records offline "mark as read" events for one dua, already
// merged by dua id (count accumulates).
type ReadAction struct {
	DuaID string `json:"duaId"`
	Count int    `json:"count"`
}

// ArchiveKind discriminates archive vs unarchive events.
type ArchiveKind string

const (
	ArchiveKindArchive   ArchiveKind = "archive"
	ArchiveKindUnarchive ArchiveKind = "unarchive"
)

// ArchiveAction records an offline archive or unarchive event.
type ArchiveAction struct {
	DuaID string      `json:"duaId"`
	Kind  ArchiveKind `json:"kind"`
}

// DeletionKind discriminates soft-delete vs undo events.
type DeletionKind string

const (
	DeletionKindDelete DeletionKind = "delete"
	DeletionKindUndo   DeletionKind = "undoDelete"
)

// DeletionAction records an offline soft-delete or undo-delete event.
type DeletionAction struct {
	DuaID string       `json:"duaId"`
	Kind  DeletionKind `json:"kind"`
}

// CollectionActionType discriminates queued collection mutations.
type CollectionActionType string

const (
	CollectionActionCreate CollectionActionType = "create"
	CollectionActionUpdate CollectionActionType = "update"
	CollectionActionDelete CollectionActionType = "delete"
)

// CollectionAction records an offline collection mutation. Timestamp
// orders actions during the last-writer-wins merge.
type CollectionAction struct {
	Type       CollectionActionType `json:"type"`
	Collection Collection           `json:"collection"`
	Timestamp  time.Time            `json:"timestamp"`
}
