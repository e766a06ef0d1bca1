package session

import (
	"sync"

	"ecocollect/internal/auth"
	"ecocollect/internal/storage"
)

// Session owns the client copy of the bearer token and the role
// decoded from it. It is restored from local storage at startup and
// mutated only through Establish, SelectRole and Clear. Guards and the
// API client read it without any server round trip.
type Session struct {
	mu    sync.RWMutex
	store storage.Store

	token  string
	role   auth.Role
	claims *auth.CustomClaims
}

func New(store storage.Store) *Session {
	s := &Session{store: store}
	s.restore()
	return s
}

func (s *Session) restore() {
	token, err := s.store.Get(storage.KeyToken)
	if err != nil {
		return
	}
	s.token = token

	// Prefer the persisted role, falling back to the token claims.
	if raw, err := s.store.Get(storage.KeyRole); err == nil {
		s.role = auth.ParseRole(raw)
	} else {
		s.role = auth.DecodeRole(token)
	}
	s.claims, _ = auth.DecodeToken(token)
}

// Establish stores a freshly issued token and the role decoded from
// it. A token whose claims cannot be decoded is kept, but the session
// ends up with no role, which guards treat as not logged in.
func (s *Session) Establish(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.claims, _ = auth.DecodeToken(token)
	s.role = auth.DecodeRole(token)

	if err := s.store.Set(storage.KeyToken, token); err != nil {
		return err
	}
	return s.store.Set(storage.KeyRole, string(s.role))
}

// SelectRole records the one-time role choice for accounts that
// support multiple roles. Called after the backend has confirmed the
// selection.
func (s *Session) SelectRole(role auth.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.role = role
	return s.store.Set(storage.KeyRole, string(role))
}

// Clear destroys the session. Token and role are removed together.
// Clearing an already cleared session is a no-op.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.role = auth.RoleNone
	s.claims = nil
	return s.store.Delete(storage.KeyToken, storage.KeyRole)
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Role() auth.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *Session) Claims() *auth.CustomClaims {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims
}

func (s *Session) IsLoggedIn() bool {
	return s.Token() != ""
}

// HasRole reports whether the session has completed role selection.
func (s *Session) HasRole() bool {
	return s.Role() != auth.RoleNone
}
