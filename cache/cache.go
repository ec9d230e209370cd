// Package cache provides a small, sharded, concurrency-safe TTL cache.
// It is deliberately generic (keyed by string, valued by any) so it has no
// dependency on the resolver's own types — the same separation the teacher
// repo kept between its cache package (dns.Msg-specific) and the resolver
// package that used it. Here the DNS-specific TTL computation lives one
// level up, in the resolve package's defaultcache.go; this package only
// knows about expiry and sharded concurrency.
package cache

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// DefaultShardCount matches the teacher's qtype-array sharding
// (cache/cacheqtype.go used one shard per RR type, up to MaxQtype+1); we no
// longer shard by RR type since the caller's key already encodes it, so a
// fixed shard count sized for typical concurrency is used instead.
const DefaultShardCount = 64

type entry struct {
	value   any
	expires time.Time
}

type shard struct {
	mu    sync.RWMutex
	items map[string]entry
}

// Cache is a sharded map[string]any with per-entry expiry. Concurrent
// readers/writers are permitted; consistency is per-key "last writer wins",
// with no cross-key atomicity, matching spec.md §4.1's guarantees for C1.
type Cache struct {
	shards []shard
	count  uint64
	hits   uint64
	mu     sync.Mutex // guards count/hits; taken by every Get to record the lookup, never by Set
}

// New returns a Cache with the default shard count.
func New() *Cache { return NewShards(DefaultShardCount) }

// NewShards returns a Cache with n shards (n is rounded up to a power of two).
func NewShards(n int) *Cache {
	if n < 1 {
		n = 1
	}
	pow := 1
	for pow < n {
		pow <<= 1
	}
	c := &Cache{shards: make([]shard, pow)}
	for i := range c.shards {
		c.shards[i].items = make(map[string]entry)
	}
	return c
}

func (c *Cache) shardFor(key string) *shard {
	h := xxhash.Sum64String(key)
	return &c.shards[h&uint64(len(c.shards)-1)]
}

// Get returns the value stored under key if it has not expired. An expired
// entry is removed and reported as a miss (spec.md §4.1 "get").
func (c *Cache) Get(key string) (any, bool) {
	s := c.shardFor(key)
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	c.recordLookup(ok && time.Now().Before(e.expires))
	if !ok {
		return nil, false
	}
	if !time.Now().Before(e.expires) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *Cache) recordLookup(hit bool) {
	c.mu.Lock()
	c.count++
	if hit {
		c.hits++
	}
	c.mu.Unlock()
}

// Set inserts value under key with the given TTL, replacing any prior
// entry for the same key (spec.md §4.1 "put is idempotent on key").
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	s := c.shardFor(key)
	s.mu.Lock()
	s.items[key] = entry{value: value, expires: time.Now().Add(ttl)}
	s.mu.Unlock()
}

// Delete removes any entry stored under key.
func (c *Cache) Delete(key string) {
	s := c.shardFor(key)
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// Len returns the total number of entries across all shards, including
// entries that have expired but not yet been evicted by a Get or Clean.
func (c *Cache) Len() (n int) {
	for i := range c.shards {
		c.shards[i].mu.RLock()
		n += len(c.shards[i].items)
		c.shards[i].mu.RUnlock()
	}
	return
}

// HitRatio returns the fraction of Get calls that were hits, as a
// percentage, matching the teacher's cache.Cache.HitRatio.
func (c *Cache) HitRatio() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count == 0 {
		return 0
	}
	return float64(c.hits*100) / float64(c.count)
}

// Clean removes every expired entry. It is safe to call concurrently with
// Get/Set; it does not block the whole cache, only one shard at a time.
func (c *Cache) Clean() {
	now := time.Now()
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		for k, e := range s.items {
			if !now.Before(e.expires) {
				delete(s.items, k)
			}
		}
		s.mu.Unlock()
	}
}

// Clear removes every entry regardless of expiry.
func (c *Cache) Clear() {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		s.items = make(map[string]entry)
		s.mu.Unlock()
	}
}
