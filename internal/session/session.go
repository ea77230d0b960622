// Package session owns in-memory session state: the store that maps session
// ids to records, the background sweeper that evicts idle sessions, and the
// cookie helpers shared by the handler and middleware packages.
//
// Sessions live for the lifetime of the process. There is no persistence;
// a restart logs everyone out.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session binds an opaque identifier to an authenticated principal.
//
// All fields except LastActive are immutable after creation. LastActive is
// advanced on every authenticated request and drives idle expiry.
type Session struct {
	ID             string
	Username       string
	FullName       string
	LoginTimestamp time.Time
	LastActive     time.Time
}

// ExpiredAt reports whether the session's inactivity strictly exceeds
// timeout as of now. A session idle for exactly the timeout is still live.
func (s Session) ExpiredAt(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActive) > timeout
}

// Store is the exclusive owner of all session records.
//
// A single mutex guards the map. The only mutable field per record is
// LastActive and deletes are idempotent, so coarse locking is plenty at
// this scale. All methods are safe for concurrent use.
//
// Absence is a normal outcome for every method: looking up, touching, or
// deleting an unknown id never fails.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	// now is swappable in tests for deterministic expiry.
	now func() time.Time
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create mints a fresh session for the given principal and returns its id.
//
// Ids are random UUIDv4 (122 bits of entropy) and serve as bearer
// credentials; they are never reused, and a deleted id is never reinstated.
func (s *Store) Create(username, fullName string) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sessions[id] = &Session{
		ID:             id,
		Username:       username,
		FullName:       fullName,
		LoginTimestamp: now,
		LastActive:     now,
	}
	return id
}

// Get returns a copy of the session for id. The second return value is
// false when the id is unknown; callers decide what absence means.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Touch advances the session's last-active timestamp. Unknown ids are a
// no-op, so racing against a delete is harmless.
func (s *Store) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.LastActive = s.now()
	}
}

// Delete removes the session if present. Idempotent.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// DeleteExpired removes every session whose inactivity strictly exceeds
// timeout and returns how many were removed.
func (s *Store) DeleteExpired(timeout time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if sess.ExpiredAt(now, timeout) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
