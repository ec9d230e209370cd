package resolve

import (
	"context"
	"errors"
	"testing"
)

type stubDiscovery struct {
	servers []*ServerEndpoint
	err     error
	calls   int
}

func (s *stubDiscovery) Discover(context.Context) ([]*ServerEndpoint, error) {
	s.calls++
	return s.servers, s.err
}

type recordingAudit struct {
	events []AuditEvent
}

func (r *recordingAudit) Record(ev AuditEvent) { r.events = append(r.events, ev) }

func TestNewServerRosterDedupesUserServers(t *testing.T) {
	t.Parallel()
	a := mustEndpoint(t, "1.1.1.1:53")
	b := mustEndpoint(t, "1.1.1.1:53")
	roster := NewServerRoster([]*ServerEndpoint{a, b}, nil, false, nil)
	if got := len(roster.Servers()); got != 1 {
		t.Fatalf("got %d servers, want 1 after dedup", got)
	}
}

func TestServerRosterRefreshMergesDiscovery(t *testing.T) {
	t.Parallel()
	user := mustEndpoint(t, "1.1.1.1:53")
	discovered := mustEndpoint(t, "8.8.8.8:53")
	disc := &stubDiscovery{servers: []*ServerEndpoint{discovered}}
	roster := NewServerRoster([]*ServerEndpoint{user}, disc, true, nil)

	roster.Refresh(context.Background())
	servers := roster.Servers()
	if len(servers) != 2 {
		t.Fatalf("got %d servers after refresh, want 2", len(servers))
	}
}

func TestServerRosterRefreshRateLimited(t *testing.T) {
	t.Parallel()
	disc := &stubDiscovery{servers: []*ServerEndpoint{mustEndpoint(t, "8.8.8.8:53")}}
	roster := NewServerRoster(nil, disc, true, nil)

	roster.Refresh(context.Background())
	roster.Refresh(context.Background())
	if disc.calls != 1 {
		t.Fatalf("got %d discovery calls, want 1 (second call should be rate-limited)", disc.calls)
	}
}

func TestServerRosterRefreshRetainsPreviousOnFailure(t *testing.T) {
	t.Parallel()
	user := mustEndpoint(t, "1.1.1.1:53")
	disc := &stubDiscovery{err: errors.New("boom")}
	audit := &recordingAudit{}
	roster := NewServerRoster([]*ServerEndpoint{user}, disc, true, audit)

	roster.Refresh(context.Background())
	servers := roster.Servers()
	if len(servers) != 1 || !servers[0].Equal(user) {
		t.Fatalf("expected previous roster to be retained on discovery failure, got %v", servers)
	}
	if len(audit.events) != 1 {
		t.Fatalf("expected discovery failure to be reported through audit, got %d events", len(audit.events))
	}
}

func TestServerRosterEmpty(t *testing.T) {
	t.Parallel()
	roster := NewServerRoster(nil, nil, false, nil)
	if !roster.Empty() {
		t.Fatal("expected an empty roster with no user servers and no discovery")
	}
}

func TestServerRosterSnapshotCanonicalOrder(t *testing.T) {
	t.Parallel()
	a := mustEndpoint(t, "1.1.1.1:53")
	b := mustEndpoint(t, "2.2.2.2:53")
	roster := NewServerRoster([]*ServerEndpoint{a, b}, nil, false, nil)
	got := roster.Snapshot(false)
	if len(got) != 2 || !got[0].Equal(a) || !got[1].Equal(b) {
		t.Fatalf("expected canonical order [1.1.1.1, 2.2.2.2], got %v", got)
	}
}
