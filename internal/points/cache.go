package points

import (
	"encoding/binary"
	"sync"
	"time"

	klog "github.com/Klingon-tech/hashcase/internal/log"
	"github.com/Klingon-tech/hashcase/internal/storage"
)

// Cache remembers the last successfully computed total per owner, so a
// failed query can still report something.
type Cache interface {
	Last(owner string) (uint64, bool)
	Store(owner string, total uint64)
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu     sync.RWMutex
	totals map[string]uint64
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{totals: make(map[string]uint64)}
}

// Last returns the cached total for owner.
func (c *MemoryCache) Last(owner string) (uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.totals[owner]
	return v, ok
}

// Store records the total for owner.
func (c *MemoryCache) Store(owner string, total uint64) {
	c.mu.Lock()
	c.totals[owner] = total
	c.mu.Unlock()
}

// StoreCache persists totals in a storage.DB under "bal/<type>/<owner>".
type StoreCache struct {
	db      storage.DB
	typeTag string
	ttl     time.Duration
}

// NewStoreCache creates a cache for one token type. A positive ttl expires
// entries when the store supports it.
func NewStoreCache(db storage.DB, typeTag string, ttl time.Duration) *StoreCache {
	return &StoreCache{db: db, typeTag: typeTag, ttl: ttl}
}

func (c *StoreCache) key(owner string) []byte {
	return []byte("bal/" + c.typeTag + "/" + owner)
}

// Last returns the stored total for owner. Read errors count as a miss.
func (c *StoreCache) Last(owner string) (uint64, bool) {
	v, err := c.db.Get(c.key(owner))
	if err != nil || len(v) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(v), true
}

// Store writes the total for owner. Write errors are logged, not returned.
func (c *StoreCache) Store(owner string, total uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], total)

	var err error
	if t, ok := c.db.(storage.TTLPutter); ok && c.ttl > 0 {
		err = t.PutWithTTL(c.key(owner), buf[:], c.ttl)
	} else {
		err = c.db.Put(c.key(owner), buf[:])
	}
	if err != nil {
		klog.Storage.Warn().Err(err).Str("owner", owner).Msg("Failed to cache balance")
	}
}
