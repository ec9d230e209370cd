package resolve

import (
	"time"

	"github.com/holmgren/resolve/cache"
)

// DefaultCacher implements Cacher (C1, spec.md §4.1) on top of the generic
// cache.Cache, applying the DNS-specific TTL derivation and clamping rules
// spec.md describes. This is the default cache a Client uses when none is
// supplied to New.
type DefaultCacher struct {
	backing *cache.Cache
}

// NewDefaultCacher returns a DefaultCacher backed by a fresh cache.Cache.
func NewDefaultCacher() *DefaultCacher {
	return &DefaultCacher{backing: cache.New()}
}

var _ Cacher = (*DefaultCacher)(nil)

func (d *DefaultCacher) Get(key CacheKey) (*Response, bool) {
	v, ok := d.backing.Get(string(key))
	if !ok {
		return nil, false
	}
	resp, ok := v.(*Response)
	return resp, ok
}

// Put implements spec.md §4.1's five-step TTL computation:
//  1. raw_ttl = min TTL over answers ∪ authorities ∪ additionals (0 if none)
//  2. negative overrides raw_ttl with FailedResultsCacheDuration
//  3. raw_ttl == 0 and not negative => do not cache
//  4. clamp to [MinimumCacheTimeout, MaximumCacheTimeout] if configured
//  5. expires_at = now + raw_ttl
func (d *DefaultCacher) Put(key CacheKey, resp *Response, negative bool, opts QueryOptions) {
	if resp == nil {
		return
	}
	rawTTL := time.Duration(resp.minTTL()) * time.Second
	if negative {
		rawTTL = opts.FailedResultsCacheDuration
		if rawTTL == Infinite {
			rawTTL = forever
		}
	}
	if rawTTL <= 0 && !negative {
		return
	}
	rawTTL = clampTTL(rawTTL, opts.MinimumCacheTimeout, opts.MaximumCacheTimeout)
	d.backing.Set(string(key), resp, rawTTL)
}

// HitRatio and Entries expose the backing cache's observability hooks,
// kept from the teacher's cache.Cache. Nothing in the metrics package or
// the Recorder interface reads them; callers query them directly.
func (d *DefaultCacher) HitRatio() float64 { return d.backing.HitRatio() }
func (d *DefaultCacher) Entries() int      { return d.backing.Len() }

const forever = 24 * 24 * time.Hour // effectively "forever" for a process lifetime

func clampTTL(raw, min, max time.Duration) time.Duration {
	if min != 0 && min != Infinite && raw < min {
		raw = min
	}
	if max != 0 && max != Infinite && raw > max {
		raw = max
	}
	if min == Infinite {
		// An "infinite" lower bound means the entry never expires early:
		// force it up to the same "forever" horizon the max branch below
		// uses, rather than caching the record-derived (short) raw_ttl.
		raw = forever
	}
	if max == Infinite {
		raw = forever
	}
	return raw
}
