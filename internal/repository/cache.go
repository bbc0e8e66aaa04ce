package repository

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries caps a MemoryCache created without an explicit size
const DefaultMaxEntries = 1000

// CacheRepository stores computed model results keyed by an input fingerprint
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process CacheRepository used when no Redis address is configured.
// It holds at most maxEntries results and evicts the least recently used one when full.
type MemoryCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	order      *list.List // front is most recently used
	data       map[string]*list.Element
	now        func() time.Time
}

// NewMemoryCache creates a cache whose entries expire after ttl. A zero ttl never expires.
// maxEntries <= 0 selects DefaultMaxEntries.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		order:      list.New(),
		data:       make(map[string]*list.Element),
		now:        time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	entry := el.Value.(*memoryEntry)
	if m.expired(entry) {
		m.remove(el)
		return nil, false, nil
	}
	m.order.MoveToFront(el)
	return entry.value, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	entry := &memoryEntry{key: key, value: value}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.data[key]; ok {
		el.Value = entry
		m.order.MoveToFront(el)
		return nil
	}
	if m.order.Len() >= m.maxEntries {
		m.purgeExpired()
	}
	for m.order.Len() >= m.maxEntries {
		m.remove(m.order.Back())
	}
	m.data[key] = m.order.PushFront(entry)
	return nil
}

// Len returns the number of stored entries, expired ones included
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *MemoryCache) expired(e *memoryEntry) bool {
	return !e.expiresAt.IsZero() && m.now().After(e.expiresAt)
}

func (m *MemoryCache) purgeExpired() {
	for el := m.order.Front(); el != nil; {
		next := el.Next()
		if m.expired(el.Value.(*memoryEntry)) {
			m.remove(el)
		}
		el = next
	}
}

func (m *MemoryCache) remove(el *list.Element) {
	m.order.Remove(el)
	delete(m.data, el.Value.(*memoryEntry).key)
}
