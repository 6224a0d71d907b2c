package inmem

import (
	"context"
	"slices"
	"sync"
	"time"

	"commandcentre/internal/domain"
)

// SessionStore keeps principal snapshots in memory. It is meant for a single
// instance or for tests; use redisstore when running more than one replica.
type SessionStore struct {
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]sessionEntry
}

type sessionEntry struct {
	principal domain.Principal
	expires   time.Time
}

// NewSessionStore creates an empty store. A nil clock uses time.Now.
func NewSessionStore(clock func() time.Time) *SessionStore {
	if clock == nil {
		clock = time.Now
	}
	return &SessionStore{
		now:      clock,
		sessions: make(map[string]sessionEntry),
	}
}

func (s *SessionStore) Get(_ context.Context, id string) (domain.Principal, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || !s.now().Before(e.expires) {
		return domain.Principal{}, domain.ErrSessionNotFound
	}
	return clonePrincipal(e.principal), nil
}

// Save stores p under id. A non-positive ttl deletes the session.
func (s *SessionStore) Save(_ context.Context, id string, p domain.Principal, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ttl <= 0 {
		delete(s.sessions, id)
		return nil
	}
	s.sessions[id] = sessionEntry{principal: clonePrincipal(p), expires: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Cleanup drops expired sessions.
func (s *SessionStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.sessions {
		if !now.Before(e.expires) {
			delete(s.sessions, id)
		}
	}
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// clonePrincipal keeps callers from mutating stored slices.
func clonePrincipal(p domain.Principal) domain.Principal {
	p.Roles = slices.Clone(p.Roles)
	p.Departments = slices.Clone(p.Departments)
	return p
}
