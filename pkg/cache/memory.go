package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// NewMemoryStore returns an in-process store. It is used by single-node
// deployments and by tests, which inject a fake clock through WithClock.
func NewMemoryStore(options ...MemoryStoreOption) *memoryStore {
	s := &memoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

type MemoryStoreOption func(*memoryStore)

func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *memoryStore) {
		s.now = now
	}
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func (s *memoryStore) Get(key string, value any) (bool, error) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok && !e.expiresAt.After(s.now()) {
		// expired entries are indistinguishable from absent ones
		delete(s.entries, key)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(e.data, value); err != nil {
		return false, fmt.Errorf("failed to decode cache key %q: %v", key, err)
	}

	return true, nil
}

func (s *memoryStore) Set(key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %q: %v", key, err)
	}

	s.mu.Lock()
	s.entries[key] = entry{data: data, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()

	return nil
}

func (s *memoryStore) Delete(keys ...string) error {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	s.mu.Unlock()

	return nil
}
