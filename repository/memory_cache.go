package repository

import (
	"context"
	"sync"
	"time"
)

const memorySweepInterval = time.Minute

// MemoryCache is the in-process cache used when no Redis address is
// configured. Expired entries are dropped on read and by a periodic sweep
// that runs until Close.
type MemoryCache struct {
	mu   sync.Mutex
	data map[string]memoryEntry
	now  func() time.Time

	closeOnce sync.Once
	stopSweep chan struct{}
}

type memoryEntry struct {
	value   string
	expires time.Time
}

func NewMemoryCache() *MemoryCache {
	m := newMemoryCache(time.Now)
	go m.sweepLoop(memorySweepInterval)
	return m
}

func newMemoryCache(now func() time.Time) *MemoryCache {
	return &MemoryCache{
		data:      make(map[string]memoryEntry),
		now:       now,
		stopSweep: make(chan struct{}),
	}
}

func (m *MemoryCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stopSweep:
			return
		}
	}
}

// sweep deletes every expired entry.
func (m *MemoryCache) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, e := range m.data {
		if e.expired(now) {
			delete(m.data, key)
		}
	}
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return "", false
	}
	if e.expired(m.now()) {
		delete(m.data, key)
		return "", false
	}
	return e.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.data[key] = e
	return nil
}

func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// Close stops the background sweep. It is safe to call more than once.
func (m *MemoryCache) Close() error {
	m.closeOnce.Do(func() { close(m.stopSweep) })
	return nil
}
