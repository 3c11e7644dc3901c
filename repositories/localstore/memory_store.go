package localstore

import (
	"context"
	"strings"
	"sync"
)

type MemoryStore struct {
	mu            sync.Mutex
	entries       map[string][]byte
	usedBytes     int
	capacityBytes int
}

// NewMemoryStore returns an empty store. A capacity of 0 or less disables the quota.
func NewMemoryStore(capacityBytes int) *MemoryStore {
	return &MemoryStore{
		entries:       make(map[string][]byte),
		capacityBytes: capacityBytes,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	if s.capacityBytes > 0 && entrySize(key, value) > s.capacityBytes {
		return ErrEntryTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.usedBytes
	if previous, ok := s.entries[key]; ok {
		used -= entrySize(key, previous)
	}
	used += entrySize(key, value)

	if s.capacityBytes > 0 && used > s.capacityBytes {
		return ErrQuotaExceeded
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	s.entries[key] = stored
	s.usedBytes = used

	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if previous, ok := s.entries[key]; ok {
		s.usedBytes -= entrySize(key, previous)
		delete(s.entries, key)
	}
	return nil
}

func (s *MemoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// UsedBytes is the current footprint of the store.
func (s *MemoryStore) UsedBytes() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.usedBytes
}
