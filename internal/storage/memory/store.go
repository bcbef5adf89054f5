// Package memory is the in-process storage backend used when no database_url
// is configured. It enforces the same uniqueness rules as the Postgres schema.
package memory

import (
	"sync"
	"time"

	"invitame/internal/domains"
)

type Store struct {
	mu sync.RWMutex

	accounts    map[int64]domains.Account
	plans       map[int64]domains.Plan
	templates   map[int64]domains.Template
	orders      map[int64]domains.Order
	invitations map[int64]domains.Invitation

	// unique indexes
	emails     map[string]int64
	slugs      map[string]int64
	orderInvit map[int64]int64

	seq int64
	now func() time.Time
}

func New() *Store {
	return &Store{
		accounts:    make(map[int64]domains.Account),
		plans:       make(map[int64]domains.Plan),
		templates:   make(map[int64]domains.Template),
		orders:      make(map[int64]domains.Order),
		invitations: make(map[int64]domains.Invitation),
		emails:      make(map[string]int64),
		slugs:       make(map[string]int64),
		orderInvit:  make(map[int64]int64),
		now:         time.Now,
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// AddPlan inserts a catalog plan and returns it with its assigned id.
func (s *Store) AddPlan(p domains.Plan) domains.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID()
	s.plans[p.ID] = p
	return p
}

// AddTemplate inserts a catalog template and returns it with its assigned id.
func (s *Store) AddTemplate(t domains.Template) domains.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID()
	s.templates[t.ID] = t
	return t
}
