// Package models defines client-side data models for the duabook CLI:
// duas, collections, read counts and the offline action variants queued
// while the device is disconnected.
package models

// Dua is a short devotional text tracked by the user. Content is immutable
// once created; only membership (active, archived, deleted) changes.
type Dua struct {
	// ID is the server-assigned, stable identifier.
	ID string `json:"_id"`

	Title           string `json:"title"`
	Arabic          string `json:"arabic"`
	Transliteration string `json:"transliteration"`
	Translation     string `json:"translation"`
	Description     string `json:"description,omitempty"`
}

// ReadCounts maps dua id to the number of "mark as read" events. Counts are
// non-negative and monotonically non-decreasing under normal operation.
type ReadCounts map[string]int

// Clone returns an independent copy so snapshots handed to the UI cannot
// alias engine-owned state.
func (rc ReadCounts) Clone() ReadCounts {
	out := make(ReadCounts, len(rc))
	for k, v := range rc {
		out[k] = v
	}
	return out
}
