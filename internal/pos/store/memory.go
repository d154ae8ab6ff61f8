package store

import (
	"context"
	"sync"

	"campuscoffee/internal/pos/models"
	id "campuscoffee/pkg/domain"
)

// InMemory is a process-local store for tests and local development. The
// mutex makes every method atomic, which is what gives the name index the
// same guarantee a UNIQUE constraint gives in PostgreSQL.
type InMemory struct {
	mu     sync.RWMutex
	nextID id.PosID
	byID   map[id.PosID]*models.Pos
	byName map[string]id.PosID
	order  []id.PosID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[id.PosID]*models.Pos),
		byName: make(map[string]id.PosID),
	}
}

// CreateIfNameAvailable assigns the next id and stores a copy of p. The id
// sequence is never rewound, not even by DeleteAll.
func (s *InMemory) CreateIfNameAvailable(_ context.Context, p *models.Pos) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[p.Name]; taken {
		return ErrConflict
	}
	s.nextID++
	p.ID = s.nextID
	s.byID[p.ID] = p.Clone()
	s.byName[p.Name] = p.ID
	s.order = append(s.order, p.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, posID id.PosID) (*models.Pos, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[posID]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.Pos, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	posID, ok := s.byName[name]
	if !ok {
		return nil, ErrNotFound
	}
	return s.byID[posID].Clone(), nil
}

// ListAll returns every record in insertion order.
func (s *InMemory) ListAll(_ context.Context) ([]*models.Pos, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Pos, 0, len(s.order))
	for _, posID := range s.order {
		out = append(out, s.byID[posID].Clone())
	}
	return out, nil
}

// Update replaces the stored record with the same id, keeping the name index
// consistent.
func (s *InMemory) Update(_ context.Context, p *models.Pos) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byID[p.ID]
	if !ok {
		return ErrNotFound
	}
	if owner, taken := s.byName[p.Name]; taken && owner != p.ID {
		return ErrConflict
	}
	delete(s.byName, current.Name)
	s.byName[p.Name] = p.ID
	s.byID[p.ID] = p.Clone()
	return nil
}

func (s *InMemory) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[id.PosID]*models.Pos)
	s.byName = make(map[string]id.PosID)
	s.order = nil
	return nil
}
