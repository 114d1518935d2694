package cache

import (
	"context"
	"sync"
	"time"
)

// entry is a cached value with its expiry.
type entry struct {
	value     any
	expiresAt time.Time
}

// Memory is the default process-wide cache backend: a TTL map guarded by
// a RWMutex. Values are not persisted and not cloned; callers must treat
// cached values as read-only.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
	stop    chan struct{}
}

// NewMemory creates a memory cache and starts a janitor that sweeps
// expired entries every sweepInterval. Close stops the janitor.
func NewMemory(sweepInterval time.Duration) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go m.janitor(sweepInterval)
	}
	return m
}

// Get returns the cached value and whether it was present and unexpired.
// Expired entries are treated as misses and removed lazily.
func (m *Memory) Get(_ context.Context, key string) (any, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock; a Set may have replaced it.
		if cur, ok := m.entries[key]; ok && m.now().After(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores a value under key for ttl.
func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) {
	m.mu.Lock()
	m.entries[key] = entry{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
}

// Del removes entries immediately.
func (m *Memory) Del(_ context.Context, keys ...string) {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.mu.Unlock()
}

// Flush clears everything.
func (m *Memory) Flush(_ context.Context) {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
}

// Len returns the number of live entries, expired included until swept.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close stops the janitor goroutine.
func (m *Memory) Close() {
	close(m.stop)
}

func (m *Memory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := m.now()
			m.mu.Lock()
			for k, e := range m.entries {
				if now.After(e.expiresAt) {
					delete(m.entries, k)
				}
			}
			m.mu.Unlock()
		case <-m.stop:
			return
		}
	}
}

// Noop is a Cache that caches nothing; every read is a miss. Useful in
// tests that must observe the store directly.
type Noop struct{}

// Get always misses.
func (Noop) Get(context.Context, string) (any, bool) { return nil, false }

// Set discards the value.
func (Noop) Set(context.Context, string, any, time.Duration) {}

// Del does nothing.
func (Noop) Del(context.Context, ...string) {}

// Flush does nothing.
func (Noop) Flush(context.Context) {}
