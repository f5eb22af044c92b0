package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process TTL cache. Get reports expired entries as misses
// but leaves them in place; Sweep, run periodically by the job scheduler,
// removes them.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	hits   atomic.Int64
	misses atomic.Int64

	now func() time.Time
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || m.now().After(e.expiresAt) {
		m.misses.Add(1)
		return nil, false, nil
	}
	m.hits.Add(1)
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }

// Sweep drops every expired entry and reports how many were removed.
func (m *Memory) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently held, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Stats returns hit/miss counters.
func (m *Memory) Stats() (hits, misses int64) {
	return m.hits.Load(), m.misses.Load()
}
