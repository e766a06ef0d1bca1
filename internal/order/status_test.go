package order

import (
	"testing"

	"ecocollect/internal/auth"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	for _, s := range AllStatuses {
		parsed, err := ParseStatus(string(s))
		assert.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseStatus("SHIPPED")
	assert.Error(t, err)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusCancelled, true},
		{StatusAccepted, StatusInProgress, true},
		{StatusAccepted, StatusCollected, true},
		{StatusAccepted, StatusCancelled, true},
		{StatusInProgress, StatusCollected, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusCollected, StatusTransferred, true},
		{StatusTransferred, StatusCompleted, true},

		// No skips, no rollback, no cancelling collected material.
		{StatusPending, StatusCollected, false},
		{StatusAccepted, StatusTransferred, false},
		{StatusCollected, StatusCancelled, false},
		{StatusTransferred, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCollected, StatusAccepted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusCancelled))

	for _, s := range []OrderStatus{StatusPending, StatusAccepted, StatusInProgress, StatusCollected, StatusTransferred} {
		assert.False(t, IsTerminal(s), "%s", s)
	}
}

func TestCancellable(t *testing.T) {
	assert.True(t, Cancellable(StatusPending))
	assert.True(t, Cancellable(StatusAccepted))
	assert.True(t, Cancellable(StatusInProgress))

	assert.False(t, Cancellable(StatusCollected))
	assert.False(t, Cancellable(StatusTransferred))
	assert.False(t, Cancellable(StatusCompleted))
	assert.False(t, Cancellable(StatusCancelled))
}

func TestRoleMayTransition(t *testing.T) {
	t.Run("CollectorAccepts", func(t *testing.T) {
		assert.True(t, RoleMayTransition(auth.RoleCollector, StatusPending, StatusAccepted))
		assert.False(t, RoleMayTransition(auth.RoleUser, StatusPending, StatusAccepted))
		assert.False(t, RoleMayTransition(auth.RoleAdmin, StatusPending, StatusAccepted))
	})

	t.Run("AdminCompletes", func(t *testing.T) {
		assert.True(t, RoleMayTransition(auth.RoleAdmin, StatusTransferred, StatusCompleted))
		assert.False(t, RoleMayTransition(auth.RoleCollector, StatusTransferred, StatusCompleted))
	})

	t.Run("CitizenOrCollectorCancels", func(t *testing.T) {
		assert.True(t, RoleMayTransition(auth.RoleUser, StatusPending, StatusCancelled))
		assert.True(t, RoleMayTransition(auth.RoleCollector, StatusInProgress, StatusCancelled))
		assert.False(t, RoleMayTransition(auth.RoleAdmin, StatusPending, StatusCancelled))
	})

	t.Run("IllegalTransitionNeverAllowed", func(t *testing.T) {
		for _, role := range []auth.Role{auth.RoleUser, auth.RoleCollector, auth.RoleAdmin} {
			assert.False(t, RoleMayTransition(role, StatusCollected, StatusCancelled))
		}
	})
}

func TestNextStatusesFor(t *testing.T) {
	assert.Equal(t,
		[]OrderStatus{StatusAccepted, StatusCancelled},
		NextStatusesFor(auth.RoleCollector, StatusPending))

	assert.Equal(t,
		[]OrderStatus{StatusCancelled},
		NextStatusesFor(auth.RoleUser, StatusPending))

	assert.Empty(t, NextStatusesFor(auth.RoleAdmin, StatusPending))
	assert.Empty(t, NextStatusesFor(auth.RoleCollector, StatusCompleted))
}

func TestLabelAndColorTotality(t *testing.T) {
	for _, s := range AllStatuses {
		assert.NotEmpty(t, Label(s), "label for %s", s)
		assert.NotEmpty(t, Color(s), "color for %s", s)
	}

	assert.Equal(t, "Waiting for Collector", Label(StatusPending))
	assert.Equal(t, "Collector Accepted - On the way", Label(StatusAccepted))
	assert.Equal(t, "Completed", Label(StatusCompleted))

	// Unknown statuses fall back instead of breaking the badge.
	assert.Equal(t, "SHIPPED", Label(OrderStatus("SHIPPED")))
	assert.Equal(t, "gray", Color(OrderStatus("SHIPPED")))
}
