// Package cache holds the in-process search result cache: bounded, TTL'd,
// and evicting in insertion order. FIFO (not LRU) eviction is deliberate —
// it matches the observable hit behavior the service is specified to have.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"staybook/internal/domain"
)

type entry struct {
	page    domain.SearchPage
	written time.Time
}

type ResultCache struct {
	mu       sync.Mutex
	entries  map[string]entry
	order    []string // insertion order, oldest first
	ttl      time.Duration
	capacity int

	now func() time.Time // test hook
}

func NewResultCache(ttl time.Duration, capacity int) *ResultCache {
	if capacity <= 0 {
		capacity = 100
	}
	return &ResultCache{
		entries:  make(map[string]entry, capacity),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// Key canonicalizes a query into a deterministic cache key: array values
// sorted, object keys sorted (json.Marshal on a map does that), then
// sha1-hexed. Two logically identical requests with differently ordered
// array parameters hash the same.
func Key(q domain.SearchQuery, pageSize int) string {
	params := map[string]any{
		"location": q.Location,
		"adults":   q.Adults,
		"children": q.Children,
		"facil":    sortedStrings(q.Facilities),
		"types":    sortedStrings(q.Types),
		"stars":    sortedInts(q.Stars),
		"tags":     sortedStrings(q.Tags),
		"amen":     sortedStrings(q.Amenities),
		"featured": q.FeaturedOnly,
		"sort":     q.Sort,
		"page":     q.Page,
		"size":     pageSize,
	}
	if q.MinPrice != nil {
		params["minPrice"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		params["maxPrice"] = *q.MaxPrice
	}
	b, _ := json.Marshal(params)
	sum := sha1.Sum(b)
	return "search:" + hex.EncodeToString(sum[:])
}

// Get returns the cached page for key, treating expired entries as misses
// and removing them.
func (c *ResultCache) Get(key string) (domain.SearchPage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return domain.SearchPage{}, false
	}
	if c.now().Sub(e.written) > c.ttl {
		c.remove(key)
		return domain.SearchPage{}, false
	}
	return e.page, true
}

// Put stores a page, evicting the oldest-inserted entry when at capacity.
func (c *ResultCache) Put(key string, page domain.SearchPage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		c.remove(key)
	}
	for len(c.entries) >= c.capacity && len(c.order) > 0 {
		c.remove(c.order[0])
	}
	c.entries[key] = entry{page: page, written: c.now()}
	c.order = append(c.order, key)
}

func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove assumes the caller holds c.mu.
func (c *ResultCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func sortedStrings(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

func sortedInts(in []int) []int {
	if len(in) == 0 {
		return []int{}
	}
	out := make([]int, len(in))
	copy(out, in)
	sort.Ints(out)
	return out
}
