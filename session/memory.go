package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/giygas/symptoms-api/interfaces"
)

// Compile-time checks
var (
	_ interfaces.SessionStore   = (*MemoryStore)(nil)
	_ interfaces.SessionSweeper = (*MemoryStore)(nil)
)

type memoryEntry struct {
	state    interfaces.SessionState
	lastSeen time.Time
}

// MemoryStore keeps sessions in process memory. Sessions idle for longer
// than the TTL are removed by Sweep.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Load returns a copy of the session state, or an empty state for unknown IDs
func (m *MemoryStore) Load(_ context.Context, id string) (interfaces.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok {
		return interfaces.SessionState{}, nil
	}

	entry.lastSeen = m.now()
	return interfaces.SessionState{CollectedSymptoms: slices.Clone(entry.state.CollectedSymptoms)}, nil
}

// Save stores a copy of state
func (m *MemoryStore) Save(_ context.Context, id string, state interfaces.SessionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[id] = &memoryEntry{
		state:    interfaces.SessionState{CollectedSymptoms: slices.Clone(state.CollectedSymptoms)},
		lastSeen: m.now(),
	}
	return nil
}

// Delete removes the session; deleting an unknown ID is not an error
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// Sweep removes sessions not seen since now minus the TTL and returns how many were removed
func (m *MemoryStore) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}

	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, entry := range m.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
