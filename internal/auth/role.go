package auth

import "strings"

// Role determines which routes and actions are permitted.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleCollector Role = "Collector"
	RoleUser      Role = "User"

	// RoleNone marks a session whose token carries no recognized role.
	// Guards treat it the same as not being logged in.
	RoleNone Role = ""
)

// ParseRole maps a raw claim string onto one of the three known roles,
// ignoring case. Anything else collapses to RoleNone.
func ParseRole(s string) Role {
	for _, r := range []Role{RoleAdmin, RoleCollector, RoleUser} {
		if strings.EqualFold(s, string(r)) {
			return r
		}
	}
	return RoleNone
}
