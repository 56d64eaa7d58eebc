package kvstore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	list      [][]byte
	counter   int64
	expiresAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore is an in-process Store used when Redis is disabled and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// WithClock replaces the time source, for expiry tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

// lookup returns a live entry; callers hold the lock.
func (s *MemoryStore) lookup(key string) (*memoryEntry, bool) {
	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if entry.expired(s.now()) {
		delete(s.entries, key)
		return nil, false
	}
	return entry, true
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(key)
	if !ok || entry.value == nil {
		return nil, ErrNotFound
	}
	return cloneBytes(entry.value), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &memoryEntry{value: cloneBytes(value)}
	if entry.value == nil {
		entry.value = []byte{}
	}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func (s *MemoryStore) ListAppend(_ context.Context, key string, values ...[]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(key)
	if !ok {
		entry = &memoryEntry{}
		s.entries[key] = entry
	}
	for _, v := range values {
		entry.list = append(entry.list, cloneBytes(v))
	}
	return nil
}

func (s *MemoryStore) ListRange(_ context.Context, key string) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(key)
	if !ok {
		return [][]byte{}, nil
	}
	out := make([][]byte, len(entry.list))
	for i, v := range entry.list {
		out[i] = cloneBytes(v)
	}
	return out, nil
}

func (s *MemoryStore) ListReplace(_ context.Context, key string, values [][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(values) == 0 {
		delete(s.entries, key)
		return nil
	}
	list := make([][]byte, len(values))
	for i, v := range values {
		list[i] = cloneBytes(v)
	}
	s.entries[key] = &memoryEntry{list: list}
	return nil
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(key)
	if !ok {
		entry = &memoryEntry{}
		if window > 0 {
			entry.expiresAt = s.now().Add(window)
		}
		s.entries[key] = entry
	}
	entry.counter++
	return entry.counter, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
