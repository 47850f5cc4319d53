package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTempID(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	id := NewTempID(now)
	assert.Equal(t, "temp_1700000000000", id)
	assert.True(t, IsTempID(id))
	assert.False(t, IsTempID("66f0a1b2c3"))
}

func TestCollection_HasReminder(t *testing.T) {
	ts := time.Now()

	tests := []struct {
		name string
		c    Collection
		want bool
	}{
		{name: "enabled with time", c: Collection{NotificationEnabled: true, ScheduledTime: &ts}, want: true},
		{name: "enabled without time", c: Collection{NotificationEnabled: true}, want: false},
		{name: "disabled with time", c: Collection{ScheduledTime: &ts}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.HasReminder())
		})
	}
}

func TestCollection_Clone_Independent(t *testing.T) {
	ts := time.Now()
	orig := &Collection{ID: "c1", Name: "Morning", DuaIDs: []string{"d1", "d2"}, ScheduledTime: &ts}

	cp := orig.Clone()
	cp.DuaIDs[0] = "other"
	*cp.ScheduledTime = ts.Add(time.Hour)

	assert.Equal(t, "d1", orig.DuaIDs[0])
	assert.Equal(t, ts, *orig.ScheduledTime)
}

func TestSameIdentity(t *testing.T) {
	require.True(t, SameIdentity(
		&Collection{ID: "c1", Name: "A"},
		&Collection{ID: "c1", Name: "B"},
	))

	// temp id on one side falls back to name matching
	require.True(t, SameIdentity(
		&Collection{ID: "temp_1", Name: "Morning"},
		&Collection{ID: "c2", Name: "Morning"},
	))

	require.False(t, SameIdentity(
		&Collection{ID: "c1", Name: "A"},
		&Collection{ID: "c2", Name: "A"},
	))

	require.False(t, SameIdentity(
		&Collection{ID: "temp_1", Name: "A"},
		&Collection{ID: "temp_2", Name: "B"},
	))
}

func TestReadCounts_Clone(t *testing.T) {
	rc := ReadCounts{"d1": 3}
	cp := rc.Clone()
	cp["d1"] = 10
	assert.Equal(t, 3, rc["d1"])
}
