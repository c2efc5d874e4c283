package repository

import (
	"context"
	"sync"

	"energia_assistant/internal/domain"
)

// MemoryStore is a fixed-capacity ring. When full, Add evicts the oldest record.
type MemoryStore struct {
	mu       sync.RWMutex
	records  []domain.ReceivedRecord
	start    int
	size     int
	evicted  int64
	capacity int
}

// NewMemoryStore creates a store holding at most capacity records
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryStore{
		records:  make([]domain.ReceivedRecord, capacity),
		capacity: capacity,
	}
}

func (m *MemoryStore) Add(_ context.Context, rec domain.ReceivedRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.size < m.capacity {
		m.records[(m.start+m.size)%m.capacity] = rec
		m.size++
		return nil
	}
	m.records[m.start] = rec
	m.start = (m.start + 1) % m.capacity
	m.evicted++
	return nil
}

func (m *MemoryStore) List(_ context.Context, limit int) ([]domain.ReceivedRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := m.size
	if limit > 0 && limit < n {
		n = limit
	}
	skip := m.size - n
	out := make([]domain.ReceivedRecord, 0, n)
	for i := skip; i < m.size; i++ {
		out = append(out, m.records[(m.start+i)%m.capacity])
	}
	return out, nil
}

func (m *MemoryStore) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(m.size), nil
}

// Evicted returns how many records were dropped to make room
func (m *MemoryStore) Evicted() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.evicted
}

func (m *MemoryStore) Type() string {
	return "memory"
}
