package contact

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/goalpost/internal/domain"
)

// DefaultTTL is how long a resolved contact stays valid.
const DefaultTTL = 30 * time.Minute

// CachedContact is a resolved contact together with the time it was stored.
type CachedContact struct {
	domain.Contact
	CachedAt time.Time
}

// Cache is a TTL-bounded mapping from owner ID to contact details.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]CachedContact
	ttl     time.Duration
	now     func() time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock replaces the time source, allowing tests to advance virtual time.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates an empty cache. A non-positive ttl selects DefaultTTL.
func NewCache(ttl time.Duration, opts ...CacheOption) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		entries: make(map[uuid.UUID]CachedContact),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the owner's contact if an entry exists and is younger than the
// TTL. A stale entry is removed as a side effect of the miss.
func (c *Cache) Get(ownerID uuid.UUID) (domain.Contact, bool) {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.entries[ownerID]
	c.mu.RUnlock()

	if !ok {
		return domain.Contact{}, false
	}
	if c.fresh(entry, now) {
		return entry.Contact, true
	}

	c.mu.Lock()
	// Re-check under the write lock: a concurrent Set may have refreshed it.
	if current, ok := c.entries[ownerID]; ok {
		if c.fresh(current, now) {
			c.mu.Unlock()
			return current.Contact, true
		}
		delete(c.entries, ownerID)
	}
	c.mu.Unlock()

	return domain.Contact{}, false
}

// Set stores the owner's contact with a fresh timestamp, replacing any
// existing entry.
func (c *Cache) Set(ownerID uuid.UUID, email, name string) {
	entry := CachedContact{
		Contact: domain.Contact{
			OwnerID: ownerID,
			Email:   email,
			Name:    name,
		},
		CachedAt: c.now(),
	}

	c.mu.Lock()
	c.entries[ownerID] = entry
	c.mu.Unlock()
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[uuid.UUID]CachedContact)
	c.mu.Unlock()
}

// EvictExpired removes every entry older than the TTL and returns how many
// entries were removed.
func (c *Cache) EvictExpired() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, entry := range c.entries {
		if !c.fresh(entry, now) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, including stale ones not yet evicted.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) fresh(entry CachedContact, now time.Time) bool {
	return now.Sub(entry.CachedAt) < c.ttl
}
