package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryProvider is an in-process Provider with per-key TTLs. Expired entries
// are dropped lazily on read; the simulator keeps the key space small enough
// that no sweeper is needed.
type MemoryProvider struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryProvider constructs an empty in-memory cache.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the cached value or ErrCacheMiss once the TTL has elapsed.
func (m *MemoryProvider) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.entries, key)
		return nil, ErrCacheMiss
	}
	value := append([]byte(nil), entry.value...)
	return value, nil
}

// Set stores the value; a non-positive ttl keeps it until deleted.
func (m *MemoryProvider) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

// Del removes the key if present.
func (m *MemoryProvider) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Close drops all entries.
func (m *MemoryProvider) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}
