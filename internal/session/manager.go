package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Manager keeps the live sessions of a server process. Sessions evicted from
// memory, or created before a restart, are reopened from the store on demand.
type Manager struct {
	store Store

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager returns a manager backed by store.
func NewManager(store Store) *Manager {
	return &Manager{store: store, sessions: make(map[string]*Session)}
}

// Create starts a new, empty session with a random ID.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	id := uuid.NewString()
	s, err := Open(ctx, id, m.store)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	log.Printf("[session] created %s", id)
	return s, nil
}

// Get returns the live session id, opening it from the store if needed.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid session id: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	s, err := Open(ctx, id, m.store)
	if err != nil {
		return nil, err
	}
	m.sessions[id] = s
	return s, nil
}

// Evict drops a session from memory. Its persisted state is kept.
func (m *Manager) Evict(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
