// Package session stores wizard drafts keyed by browser session id.
package session

import (
	"context"
	"sync"
	"time"

	"invitame/internal/domains"
)

const DefaultTTL = 7 * 24 * time.Hour

// MemoryStore keeps drafts in process. Expired entries are dropped lazily on read.
type MemoryStore struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]memoryEntry
	now func() time.Time
}

type memoryEntry struct {
	draft     domains.Draft
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, m: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (domains.Draft, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.get(sessionID)
	return d, ok, nil
}

func (s *MemoryStore) get(sessionID string) (domains.Draft, bool) {
	e, ok := s.m[sessionID]
	if !ok {
		return domains.Draft{}, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.m, sessionID)
		return domains.Draft{}, false
	}
	return e.draft, true
}

func (s *MemoryStore) Set(_ context.Context, sessionID string, d domains.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sessionID] = memoryEntry{draft: d, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Merge(_ context.Context, sessionID string, patch domains.DraftPatch) (domains.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, _ := s.get(sessionID)
	d = d.Apply(patch)
	s.m[sessionID] = memoryEntry{draft: d, expiresAt: s.now().Add(s.ttl)}
	return d, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, sessionID)
	return nil
}
