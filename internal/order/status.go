package order

import (
	"fmt"

	"ecocollect/internal/auth"
)

type OrderStatus string

const (
	StatusPending     OrderStatus = "PENDING"
	StatusAccepted    OrderStatus = "ACCEPTED"
	StatusInProgress  OrderStatus = "IN_PROGRESS"
	StatusCollected   OrderStatus = "COLLECTED"
	StatusTransferred OrderStatus = "TRANSFERRED"
	StatusCompleted   OrderStatus = "COMPLETED"
	StatusCancelled   OrderStatus = "CANCELLED"
)

func ParseStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusAccepted, StatusInProgress, StatusCollected,
		StatusTransferred, StatusCompleted, StatusCancelled:
		return OrderStatus(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

// AllStatuses lists every lifecycle state, in forward order.
var AllStatuses = []OrderStatus{
	StatusPending, StatusAccepted, StatusInProgress, StatusCollected,
	StatusTransferred, StatusCompleted, StatusCancelled,
}

// allowedTransitions encodes the order lifecycle. Cancellation stops
// being available once materials are physically collected.
var allowedTransitions = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:     {StatusAccepted: true, StatusCancelled: true},
	StatusAccepted:    {StatusInProgress: true, StatusCollected: true, StatusCancelled: true},
	StatusInProgress:  {StatusCollected: true, StatusCancelled: true},
	StatusCollected:   {StatusTransferred: true},
	StatusTransferred: {StatusCompleted: true},
	StatusCompleted:   {},
	StatusCancelled:   {},
}

func CanTransition(from, to OrderStatus) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

func IsTerminal(s OrderStatus) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Cancellable reports whether an order in this state can still be
// cancelled by the citizen or the collector.
func Cancellable(s OrderStatus) bool {
	return CanTransition(s, StatusCancelled)
}

// transitionActors maps each transition to the roles that may trigger
// it.
var transitionActors = map[OrderStatus]map[OrderStatus][]auth.Role{
	StatusPending: {
		StatusAccepted:  {auth.RoleCollector},
		StatusCancelled: {auth.RoleUser, auth.RoleCollector},
	},
	StatusAccepted: {
		StatusInProgress: {auth.RoleCollector},
		StatusCollected:  {auth.RoleCollector},
		StatusCancelled:  {auth.RoleUser, auth.RoleCollector},
	},
	StatusInProgress: {
		StatusCollected: {auth.RoleCollector},
		StatusCancelled: {auth.RoleUser, auth.RoleCollector},
	},
	StatusCollected: {
		StatusTransferred: {auth.RoleCollector},
	},
	StatusTransferred: {
		StatusCompleted: {auth.RoleAdmin},
	},
}

// RoleMayTransition reports whether the given role is permitted to
// move an order from one status to the other. It implies the
// transition is legal at all.
func RoleMayTransition(role auth.Role, from, to OrderStatus) bool {
	roles, ok := transitionActors[from][to]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// NextStatusesFor lists the transitions the given role may trigger
// from a status, in lifecycle order. Used to enable or disable actions
// per role.
func NextStatusesFor(role auth.Role, from OrderStatus) []OrderStatus {
	var next []OrderStatus
	for _, to := range AllStatuses {
		if RoleMayTransition(role, from, to) {
			next = append(next, to)
		}
	}
	return next
}

var statusLabels = map[OrderStatus]string{
	StatusPending:     "Waiting for Collector",
	StatusAccepted:    "Collector Accepted - On the way",
	StatusInProgress:  "Collection In Progress",
	StatusCollected:   "Materials Collected",
	StatusTransferred: "Transferred to Recycling Center",
	StatusCompleted:   "Completed",
	StatusCancelled:   "Cancelled",
}

var statusColors = map[OrderStatus]string{
	StatusPending:     "orange",
	StatusAccepted:    "blue",
	StatusInProgress:  "indigo",
	StatusCollected:   "teal",
	StatusTransferred: "purple",
	StatusCompleted:   "green",
	StatusCancelled:   "red",
}

// Label returns the display string for a status badge. Unknown values
// fall back to the raw status string.
func Label(s OrderStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Color returns the badge color token for a status, neutral gray for
// unknown values.
func Color(s OrderStatus) string {
	if color, ok := statusColors[s]; ok {
		return color
	}
	return "gray"
}
