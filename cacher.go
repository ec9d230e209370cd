package resolve

// Cacher is the pluggable ResponseCache capability (C1, spec.md §4.1). The
// default implementation is DefaultCacher (defaultcache.go), built on
// github.com/holmgren/resolve/cache.Cache; a
// caller may substitute any implementation satisfying this interface, the
// same pluggability the teacher's own Cacher interface (cacher.go)
// provided for its DnsSet/DnsGet pair.
type Cacher interface {
	// Get returns a cached, non-expired response for key, or (nil, false)
	// on a miss. An expired entry is treated as a miss and removed
	// (spec.md §4.1 "get").
	Get(key CacheKey) (*Response, bool)

	// Put stores resp under key with a TTL derived from resp's records
	// (or, when negative is true, from the failed-results duration),
	// clamped to the configured min/max bounds (spec.md §4.1 "put").
	Put(key CacheKey, resp *Response, negative bool, opts QueryOptions)
}
