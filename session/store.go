package session

import (
	"context"
	"sync"

	"github.com/MrEthical07/goCDEP/storage"
)

// RestoreStatus reports the outcome of rehydrating the session slot at
// process start.
type RestoreStatus uint8

const (
	// RestoreEmpty is an exported constant or variable used by the dashboard client.
	RestoreEmpty RestoreStatus = iota
	// RestoreOK is an exported constant or variable used by the dashboard client.
	RestoreOK
	// RestoreCorrupt is an exported constant or variable used by the dashboard client.
	RestoreCorrupt
)

// Store holds the authenticated session and persists it through a
// [storage.Backend]. All methods are safe for concurrent use.
//
// Invariant: User is non-nil iff a login has succeeded and logout has not
// since been called. The access token may be temporarily stale while a
// refresh is in flight, but is never served after Clear.
type Store struct {
	mu      sync.RWMutex
	sess    Session
	backend storage.Backend
}

// NewStore creates a [Store] over the given backend. The slot is not read
// until [Store.Restore] is called.
func NewStore(backend storage.Backend) *Store {
	if backend == nil {
		backend = storage.NewMemoryBackend()
	}
	return &Store{backend: backend}
}

// Restore reads the storage slot once and rehydrates session state. A
// missing or unparseable slot yields the signed-out state; corruption must
// never block boot, so no error is returned.
func (s *Store) Restore(ctx context.Context) RestoreStatus {
	data, err := s.backend.Load(ctx)
	if err != nil {
		return RestoreEmpty
	}

	sess, err := Decode(data)
	if err != nil {
		return RestoreCorrupt
	}

	s.mu.Lock()
	s.sess = *sess
	s.mu.Unlock()
	return RestoreOK
}

// Snapshot returns a deep copy of the current session triple.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Session{
		User:         cloneUser(s.sess.User),
		AccessToken:  s.sess.AccessToken,
		RefreshToken: s.sess.RefreshToken,
	}
}

// CurrentUser returns a copy of the authenticated user, or nil when signed
// out.
func (s *Store) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.sess.User)
}

// SignedIn reports whether a user record is present.
func (s *Store) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.User != nil
}

// AccessToken returns the current access token, or empty when none is held.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.AccessToken
}

// RefreshToken returns the current refresh token, or empty when none is held.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.RefreshToken
}

// SetSession replaces all three session fields atomically and persists the
// triple. Used after a successful login.
func (s *Store) SetSession(ctx context.Context, user *User, accessToken, refreshToken string) error {
	s.mu.Lock()
	s.sess = Session{
		User:         cloneUser(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
	data, err := Encode(&s.sess)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	return s.backend.Save(ctx, data)
}

// SetTokens replaces the token pair, leaving the user identity untouched,
// and persists. Used after a successful refresh.
func (s *Store) SetTokens(ctx context.Context, accessToken, refreshToken string) error {
	s.mu.Lock()
	s.sess.AccessToken = accessToken
	s.sess.RefreshToken = refreshToken
	data, err := Encode(&s.sess)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	return s.backend.Save(ctx, data)
}

// Clear zeroes all session fields and removes the storage slot. It performs
// no network round-trip; callers expect immediate effect.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.sess = Session{}
	s.mu.Unlock()

	return s.backend.Clear(ctx)
}

// HasPermission reports whether the current user may perform action on
// module. False when signed out; unconditionally true for a super-admin
// role. A pure function of current state, no I/O, never cached.
func (s *Store) HasPermission(module, action string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.sess.User == nil {
		return false
	}

	for _, role := range s.sess.User.Roles {
		if role.IsSuperAdmin {
			return true
		}
	}

	for _, role := range s.sess.User.Roles {
		for _, granted := range role.Permissions[module] {
			if granted == action {
				return true
			}
		}
	}
	return false
}
