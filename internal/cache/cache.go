// Package cache memoizes transformation output per (pane, request) so a
// re-rendered view does not re-run its shell command or workflow.
//
// The cache is best-effort: a miss or a bypass is always safe, because
// transformations are idempotent from the caller's perspective. Entries
// expire lazily on read after a TTL and the map is bounded, evicting the
// oldest-inserted entry once full. Nothing is persisted.
package cache

import (
	"sync"
	"time"
)

const (
	// DefaultTTL is how long a result stays valid after insertion.
	DefaultTTL = 5 * time.Minute
	// DefaultCapacity bounds the number of cached results.
	DefaultCapacity = 1000
)

type entry struct {
	output     string
	insertedAt time.Time
}

// Cache is a bounded TTL cache keyed by (paneID, subjectID).
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]entry
	// order tracks insertion order for oldest-first eviction. Keys are
	// appended on insert; superseded keys keep their original position.
	order []string

	now func() time.Time
}

// New creates a cache. A non-positive ttl disables caching: Put becomes
// a no-op and Get always misses. Non-positive capacity falls back to
// the default.
func New(ttl time.Duration, capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]entry),
		now:      time.Now,
	}
}

// key builds the composite cache key. The NUL separator keeps the
// concatenation injective over realistic identifier alphabets.
func key(paneID, subjectID string) string {
	return paneID + "\x00" + subjectID
}

// Get returns the cached output for the pane/subject pair. Expired
// entries are evicted on the spot and reported as absent.
func (c *Cache) Get(paneID, subjectID string) (string, bool) {
	if c.ttl <= 0 {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	k := key(paneID, subjectID)
	e, ok := c.entries[k]
	if !ok {
		return "", false
	}
	if c.now().Sub(e.insertedAt) > c.ttl {
		c.remove(k)
		return "", false
	}
	return e.output, true
}

// Put stores output for the pane/subject pair, superseding any previous
// entry. When the cache is full, the oldest-inserted entry is evicted
// first.
func (c *Cache) Put(paneID, subjectID, output string) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	k := key(paneID, subjectID)
	if _, exists := c.entries[k]; exists {
		c.entries[k] = entry{output: output, insertedAt: c.now()}
		return
	}

	for len(c.entries) >= c.capacity && len(c.order) > 0 {
		c.remove(c.order[0])
	}

	c.entries[k] = entry{output: output, insertedAt: c.now()}
	c.order = append(c.order, k)
}

// Len reports the number of live entries, counting expired ones not yet
// lazily evicted.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Invalidate drops the entry for the pane/subject pair, if present.
func (c *Cache) Invalidate(paneID, subjectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key(paneID, subjectID))
}

// remove expects the lock to be held.
func (c *Cache) remove(k string) {
	if _, ok := c.entries[k]; !ok {
		return
	}
	delete(c.entries, k)
	for i, ord := range c.order {
		if ord == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
