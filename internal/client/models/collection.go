package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/duabook/duabook/internal/common"
)

// Collection is a named, ordered, user-curated subset of duas, optionally
// with a recurring reminder. DuaIDs order is presentation order and must
// contain no duplicates; dangling ids are tolerated and filtered at render
// time.
type Collection struct {
	// ID is server-assigned, or temp_<unixmillis> while the collection
	// only exists locally.
	ID string `json:"_id"`

	DeviceID            string     `json:"device_id,omitempty"`
	Name                string     `json:"name"`
	DuaIDs              []string   `json:"duaIds"`
	ScheduledTime       *time.Time `json:"scheduled_time,omitempty"`
	NotificationEnabled bool       `json:"notification_enabled"`
}

// NewTempID generates a local collection id for offline creation.
func NewTempID(now time.Time) string {
	return fmt.Sprintf("%s%d", common.TempIDPrefix, now.UnixMilli())
}

// IsTempID reports whether id was generated locally and has no server
// counterpart yet.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, common.TempIDPrefix)
}

// HasReminder reports whether the collection should have a scheduled local
// notification.
func (c *Collection) HasReminder() bool {
	return c.NotificationEnabled && c.ScheduledTime != nil
}

// ContainsDua reports whether id is already a member.
func (c *Collection) ContainsDua(id string) bool {
	for _, d := range c.DuaIDs {
		if d == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the collection.
func (c *Collection) Clone() *Collection {
	out := *c
	out.DuaIDs = append([]string(nil), c.DuaIDs...)
	if c.ScheduledTime != nil {
		ts := *c.ScheduledTime
		out.ScheduledTime = &ts
	}
	return &out
}

// SameIdentity matches two collections for offline-merge purposes: by id,
// or by name when either side still carries a temporary id.
func SameIdentity(a, b *Collection) bool {
	if a.ID == b.ID {
		return true
	}
	if IsTempID(a.ID) || IsTempID(b.ID) {
		return a.Name == b.Name
	}
	return false
}
