package fragment

import (
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Common errors.
var (
	ErrFragmentNotFound = errors.New("fragment not found")
	ErrFragmentExists   = errors.New("fragment already exists")
)

// Store keeps fragments by ID.
type Store interface {
	// Create stores a new fragment. An empty id gets a generated UUID.
	// Returns ErrFragmentExists if the id is taken.
	Create(id, text string) (*Fragment, error)

	// Get returns ErrFragmentNotFound if no fragment has the id.
	Get(id string) (*Fragment, error)

	// Delete returns ErrFragmentNotFound if no fragment has the id.
	Delete(id string) error

	// List returns the stored ids in sorted order.
	List() []string
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu        sync.RWMutex
	fragments map[string]*Fragment
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		fragments: make(map[string]*Fragment),
	}
}

func (m *MemoryStore) Create(id, text string) (*Fragment, error) {
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.fragments[id]; exists {
		return nil, ErrFragmentExists
	}

	f := New(id, text)
	m.fragments[id] = f

	return f, nil
}

func (m *MemoryStore) Get(id string) (*Fragment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, exists := m.fragments[id]
	if !exists {
		return nil, ErrFragmentNotFound
	}

	return f, nil
}

func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.fragments[id]; !exists {
		return ErrFragmentNotFound
	}

	delete(m.fragments, id)

	return nil
}

func (m *MemoryStore) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.fragments))
	for id := range m.fragments {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
