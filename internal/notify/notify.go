package notify

import (
	"context"
	"sync"
	"time"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// DefaultTTL is how long a notification stays visible before it is
// auto-dismissed.
const DefaultTTL = 4 * time.Second

type Notification struct {
	Level     Level
	Message   string
	CreatedAt time.Time
	expiresAt time.Time
}

// Queue is the global transient-notification queue: services push
// user-facing messages, the UI reads the active ones, and a background
// sweeper drops expired entries.
type Queue struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries []Notification
	now     func() time.Time
}

func NewQueue(ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{ttl: ttl, now: time.Now}
}

func (q *Queue) Push(level Level, message string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	q.entries = append(q.entries, Notification{
		Level:     level,
		Message:   message,
		CreatedAt: now,
		expiresAt: now.Add(q.ttl),
	})
}

// Active returns the notifications that have not yet expired, oldest
// first.
func (q *Queue) Active() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	active := make([]Notification, 0, len(q.entries))
	for _, n := range q.entries {
		if n.expiresAt.After(now) {
			active = append(active, n)
		}
	}
	return active
}

// Dismiss drops every queued notification immediately.
func (q *Queue) Dismiss() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
}

func (q *Queue) sweep() {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	kept := q.entries[:0]
	for _, n := range q.entries {
		if n.expiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	q.entries = kept
}

// StartSweeper periodically removes expired notifications until the
// context is cancelled.
func (q *Queue) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			q.sweep()
		case <-ctx.Done():
			return
		}
	}
}
