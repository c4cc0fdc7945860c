package storage

import (
	"strings"
	"sync"
	"time"
)

type memEntry struct {
	value   []byte
	expires time.Time
}

// MemoryDB implements DB using an in-memory map. Safe for concurrent use.
type MemoryDB struct {
	mu   sync.RWMutex
	data map[string]memEntry
	now  func() time.Time
}

// NewMemory creates a new in-memory database.
func NewMemory() *MemoryDB {
	return &MemoryDB{
		data: make(map[string]memEntry),
		now:  time.Now,
	}
}

func (m *MemoryDB) live(e memEntry) bool {
	return e.expires.IsZero() || m.now().Before(e.expires)
}

// Get retrieves a value by key.
func (m *MemoryDB) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[string(key)]
	if !ok || !m.live(e) {
		return nil, ErrNotFound
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Put stores a key-value pair.
func (m *MemoryDB) Put(key, value []byte) error {
	return m.PutWithTTL(key, value, 0)
}

// PutWithTTL stores a key-value pair that expires after ttl. Zero means never.
func (m *MemoryDB) PutWithTTL(key, value []byte, ttl time.Duration) error {
	v := make([]byte, len(value))
	copy(v, value)
	e := memEntry{value: v}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.data[string(key)] = e
	m.mu.Unlock()
	return nil
}

// Delete removes a key.
func (m *MemoryDB) Delete(key []byte) error {
	m.mu.Lock()
	delete(m.data, string(key))
	m.mu.Unlock()
	return nil
}

// Has checks if a key exists.
func (m *MemoryDB) Has(key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[string(key)]
	return ok && m.live(e), nil
}

// ForEach iterates over all keys with the given prefix. The callback runs
// on a snapshot, so it may write to the database.
func (m *MemoryDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	p := string(prefix)
	type kv struct {
		k string
		v []byte
	}
	m.mu.RLock()
	var snap []kv
	for k, e := range m.data {
		if strings.HasPrefix(k, p) && m.live(e) {
			snap = append(snap, kv{k, e.value})
		}
	}
	m.mu.RUnlock()

	for _, item := range snap {
		if err := fn([]byte(item.k), item.v); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (m *MemoryDB) Close() error {
	return nil
}
