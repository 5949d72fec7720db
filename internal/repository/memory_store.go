package repository

import (
	"context"
	"sync"
)

// MemoryStore keeps values in process memory. With a non-zero quota it rejects
// writes that would grow the stored bytes past it, like browser storage does.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	quota  int
	used   int
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithQuota(0)
}

func NewMemoryStoreWithQuota(quota int) *MemoryStore {
	return &MemoryStore{
		values: make(map[string][]byte),
		quota:  quota,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used - len(s.values[key]) + len(value)
	if s.quota > 0 && used > s.quota {
		return ErrQuotaExceeded
	}

	v := make([]byte, len(value))
	copy(v, value)
	s.values[key] = v
	s.used = used
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	if !ok {
		return ErrKeyNotFound
	}
	s.used -= len(v)
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
