package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value   []byte
	expires time.Time
}

// MemoryStore is an in-process Store. A positive quota caps the total size of stored values.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	size  int64
	quota int64
	now   func() time.Time
}

func NewMemoryStore(quota int64) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		quota: quota,
		now:   time.Now,
	}
}

// WithClock replaces the time source used for expiry.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	if expired(item.expires, m.now()) {
		m.removeLocked(key)
		return nil, false, nil
	}
	return append([]byte(nil), item.value...), true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.purgeLocked(now)

	size := m.size - int64(len(m.items[key].value)) + int64(len(value))
	if m.quota > 0 && size > m.quota {
		return ErrQuotaExceeded
	}
	m.items[key] = memoryItem{value: append([]byte(nil), value...), expires: expiry(now, ttl)}
	m.size = size
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		m.removeLocked(k)
	}
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]memoryItem)
	m.size = 0
	return nil
}

// Size returns the total bytes held.
func (m *MemoryStore) Size() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

func (m *MemoryStore) removeLocked(key string) {
	if item, ok := m.items[key]; ok {
		m.size -= int64(len(item.value))
		delete(m.items, key)
	}
}

func (m *MemoryStore) purgeLocked(now time.Time) {
	for k, item := range m.items {
		if expired(item.expires, now) {
			m.removeLocked(k)
		}
	}
}
