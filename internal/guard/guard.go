package guard

import (
	"ecocollect/internal/auth"
	"ecocollect/internal/session"
)

// Well-known navigation targets used by redirect decisions.
const (
	LoginRoute      = "/login"
	HomeRoute       = "/home"
	SelectRoleRoute = "/select-role"
)

// Decision is the outcome of evaluating a guard against a navigation
// attempt. A denied decision always carries the route to redirect to.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(redirectTo string) Decision {
	return Decision{RedirectTo: redirectTo}
}

// Guard decides whether the current session may enter the given route.
// Guards are synchronous and read only locally cached session state; a
// stale (revoked) token is caught later by the 401 pathway.
type Guard func(s *session.Session, route string) Decision

// RequireRole gates a route subtree behind an exact role match. No
// token redirects to login; a wrong or missing role redirects to home,
// or to role selection when the session has not picked a role yet.
func RequireRole(required auth.Role) Guard {
	return func(s *session.Session, route string) Decision {
		if !s.IsLoggedIn() {
			return deny(LoginRoute)
		}
		if !s.HasRole() {
			return deny(SelectRoleRoute)
		}
		if s.Role() != required {
			return deny(HomeRoute)
		}
		return allow()
	}
}

// GuestOnly inverts the check for the auth pages: an already
// authenticated session is sent back home instead of seeing the login
// or register screens again.
func GuestOnly() Guard {
	return func(s *session.Session, route string) Decision {
		if s.IsLoggedIn() {
			return deny(HomeRoute)
		}
		return allow()
	}
}

// RequireRoleSelected forces accounts that have not completed one-time
// role selection through the selection step first. The selection page
// itself stays reachable.
func RequireRoleSelected() Guard {
	return func(s *session.Session, route string) Decision {
		if !s.IsLoggedIn() {
			return deny(LoginRoute)
		}
		if !s.HasRole() && route != SelectRoleRoute {
			return deny(SelectRoleRoute)
		}
		return allow()
	}
}
