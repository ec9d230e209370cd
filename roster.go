package resolve

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// RefreshInterval is the minimum time between roster refreshes
// (spec.md §4.2: "at most once per 60 seconds").
const RefreshInterval = 60 * time.Second

// ServerRoster holds the ordered, deduplicated list of name servers
// currently eligible for dispatch (C2, spec.md §4.2).
type ServerRoster struct {
	mu          sync.RWMutex
	current     []*ServerEndpoint
	userServers []*ServerEndpoint
	discovery   ServerDiscovery
	autoResolve bool
	audit       Audit

	lastRefresh atomic.Int64 // unix nanoseconds of the last committed refresh
}

// NewServerRoster builds a roster from a user-supplied server list plus,
// when autoResolve is true, servers found through discovery. The initial
// snapshot is the user list alone; call Refresh to pull in discovery.
func NewServerRoster(userServers []*ServerEndpoint, discovery ServerDiscovery, autoResolve bool, audit Audit) *ServerRoster {
	if discovery == nil {
		discovery = NoDiscovery{}
	}
	if audit == nil {
		audit = NoopAudit{}
	}
	r := &ServerRoster{
		userServers: dedupeValid(userServers),
		discovery:   discovery,
		autoResolve: autoResolve,
		audit:       audit,
	}
	r.current = append([]*ServerEndpoint(nil), r.userServers...)
	return r
}

// Refresh rebuilds the roster from the user list plus discovery, subject to
// the 60-second rate limit and single-winner collapsing described in
// spec.md §4.2. If discovery fails, the previous roster is retained and the
// failure is reported through Audit (spec.md §4.2 "Failure semantics").
func (r *ServerRoster) Refresh(ctx context.Context) {
	now := time.Now()
	last := r.lastRefresh.Load()
	if last != 0 && now.Sub(time.Unix(0, last)) < RefreshInterval {
		return
	}
	if !r.lastRefresh.CompareAndSwap(last, now.UnixNano()) {
		return // another caller won the race; this one skips.
	}

	servers := append([]*ServerEndpoint(nil), r.userServers...)
	if r.autoResolve {
		discovered, err := r.discovery.Discover(ctx)
		if err != nil {
			r.audit.Record(AuditEvent{Time: time.Now(), Message: "roster: discovery failed, retaining previous roster", Err: err})
			return
		}
		servers = append(servers, discovered...)
	}
	servers = dedupeValid(servers)

	r.mu.Lock()
	r.current = servers
	r.mu.Unlock()
}

// Servers returns the roster's canonical order (spec.md §4.2 "Shuffling":
// the order seen when UseRandomNameServer is false).
func (r *ServerRoster) Servers() []*ServerEndpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*ServerEndpoint(nil), r.current...)
}

// Snapshot returns the list a single query should iterate: a uniformly
// permuted copy when useRandom is true and the roster has more than one
// entry, or the canonical order otherwise (spec.md §4.2 "Shuffling").
func (r *ServerRoster) Snapshot(useRandom bool) []*ServerEndpoint {
	servers := r.Servers()
	if useRandom && len(servers) > 1 {
		rand.Shuffle(len(servers), func(i, j int) { servers[i], servers[j] = servers[j], servers[i] })
	}
	return servers
}

// Empty reports whether the roster currently has no usable servers
// (spec.md §3 invariant: "the server roster is never empty when a query is
// dispatched; an empty roster fails the call before any network I/O").
func (r *ServerRoster) Empty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.current) == 0
}

// dedupeValid filters out invalid endpoints (spec.md §4.2 "Invalid servers
// ... are filtered out") and removes duplicates by address, preserving the
// first occurrence's order.
func dedupeValid(servers []*ServerEndpoint) []*ServerEndpoint {
	seen := make(map[[18]byte]struct{}, len(servers))
	out := make([]*ServerEndpoint, 0, len(servers))
	for _, s := range servers {
		if !s.IsValid() {
			continue
		}
		ap := s.AddrPort()
		var key [18]byte
		addr := ap.Addr().As16()
		copy(key[:16], addr[:])
		key[16] = byte(ap.Port())
		key[17] = byte(ap.Port() >> 8)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
