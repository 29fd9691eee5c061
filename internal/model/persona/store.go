package persona

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrDuplicatePersona = errors.New("persona already exists")
	ErrInvalidPersona   = errors.New("invalid persona")
)

// Store exposes persona retrieval for HTTP handlers.
type Store interface {
	List() []Persona
	FindByID(id string) (Persona, bool)
	Create(p Persona) (Persona, error)
}

// MemoryStore implements Store with an in-memory slice. Order is insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	items []Persona
	index map[string]int
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied personas.
// Later duplicates of an id are ignored.
func NewMemoryStore(items []Persona) *MemoryStore {
	s := &MemoryStore{
		items: make([]Persona, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for _, item := range items {
		if _, exists := s.index[item.ID]; exists {
			continue
		}
		s.index[item.ID] = len(s.items)
		s.items = append(s.items, item)
	}
	return s
}

// List returns the active personas.
func (s *MemoryStore) List() []Persona {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Persona, 0, len(s.items))
	for _, item := range s.items {
		if item.IsActive {
			out = append(out, item)
		}
	}
	return out
}

// FindByID looks up a persona by identifier, active or not.
func (s *MemoryStore) FindByID(id string) (Persona, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return Persona{}, false
	}
	return s.items[i], true
}

// Create registers a new active persona. An empty ID is replaced by a generated one.
func (s *MemoryStore) Create(p Persona) (Persona, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Persona{}, fmt.Errorf("%w: name is required", ErrInvalidPersona)
	}
	if strings.TrimSpace(p.SystemPrompt) == "" {
		return Persona{}, fmt.Errorf("%w: systemPrompt is required", ErrInvalidPersona)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.IsActive = true

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[p.ID]; exists {
		return Persona{}, fmt.Errorf("%w: %s", ErrDuplicatePersona, p.ID)
	}
	s.index[p.ID] = len(s.items)
	s.items = append(s.items, p)
	return p, nil
}
