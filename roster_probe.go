package resolve

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/net/proxy"
)

// Probe measures round-trip time to every server in the roster by opening
// (and immediately closing) a TCP connection, dropping servers that don't
// respond within cutoff and reordering the survivors fastest-first. This is
// operator tooling layered on top of the roster: the core query path never
// calls it, and it is not part of the C2 refresh cycle (spec.md SPEC_FULL
// §6.2). Adapted from the teacher's OrderRoots/timeRoot
// (orderroots.go, timeroot.go), which did the same thing for IANA root
// servers; here it runs against whatever roster the caller configured.
func (r *ServerRoster) Probe(ctx context.Context, dialer proxy.ContextDialer, cutoff time.Duration) {
	if dialer == nil {
		return
	}
	if _, ok := ctx.Deadline(); !ok {
		newctx, cancel := context.WithTimeout(ctx, cutoff*2)
		defer cancel()
		ctx = newctx
	}

	servers := r.Servers()
	type probed struct {
		server *ServerEndpoint
		rtt    time.Duration
	}
	results := make([]probed, len(servers))
	var wg sync.WaitGroup
	for i, s := range servers {
		wg.Add(1)
		go func(i int, s *ServerEndpoint) {
			defer wg.Done()
			results[i] = probed{server: s, rtt: probeOne(ctx, dialer, s)}
		}(i, s)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].rtt < results[j].rtt })

	var survivors []*ServerEndpoint
	for _, p := range results {
		if p.rtt <= cutoff {
			p.server.setRTTHint(int64(p.rtt))
			survivors = append(survivors, p.server)
		}
	}
	if len(survivors) == 0 {
		return
	}
	r.mu.Lock()
	r.current = survivors
	r.mu.Unlock()
}

func probeOne(ctx context.Context, dialer proxy.ContextDialer, s *ServerEndpoint) time.Duration {
	const numProbes = 3
	network := "tcp4"
	if s.AddrPort().Addr().Is6() {
		network = "tcp6"
	}
	var total time.Duration
	for i := 0; i < numProbes; i++ {
		start := time.Now()
		conn, err := dialer.DialContext(ctx, network, s.String())
		if err != nil {
			return time.Hour
		}
		total += time.Since(start)
		_ = conn.Close()
	}
	return total / numProbes
}
