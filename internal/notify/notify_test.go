package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueue_PushAndActive(t *testing.T) {
	q := NewQueue(0)

	q.Push(LevelError, "cannot reach server")
	q.Push(LevelInfo, "order accepted")

	active := q.Active()
	assert.Len(t, active, 2)
	assert.Equal(t, "cannot reach server", active[0].Message)
	assert.Equal(t, LevelError, active[0].Level)
}

func TestQueue_AutoDismiss(t *testing.T) {
	q := NewQueue(2 * time.Second)

	base := time.Now()
	q.now = func() time.Time { return base }
	q.Push(LevelWarning, "unauthorized")

	assert.Len(t, q.Active(), 1)

	// Advance past the TTL; the entry is no longer visible.
	q.now = func() time.Time { return base.Add(3 * time.Second) }
	assert.Empty(t, q.Active())

	// Sweep actually frees it.
	q.sweep()
	assert.Empty(t, q.entries)
}

func TestQueue_Dismiss(t *testing.T) {
	q := NewQueue(time.Minute)
	q.Push(LevelSuccess, "done")

	q.Dismiss()
	assert.Empty(t, q.Active())
}
