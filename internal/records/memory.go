package records

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-memory implementation of the Store interface
type Memory struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		records: make(map[uuid.UUID]Record),
	}
}

func (m *Memory) Save(ctx context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[r.ID]; ok {
		return ErrDuplicate
	}
	m.records[r.ID] = r
	return nil
}

func (m *Memory) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func (m *Memory) Best(ctx context.Context, p Params, limit int) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rs := make([]Record, 0)
	for _, r := range m.records {
		if r.Won && r.Params() == p {
			rs = append(rs, r)
		}
	}
	return sortBest(rs, limit), nil
}

func (m *Memory) Close() error {
	return nil
}
