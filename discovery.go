package resolve

import "context"

// ServerDiscovery is the external collaborator that finds name servers from
// OS state — interface enumeration, /etc/resolv.conf, Windows NRPT
// (spec.md §1). The core only ever sees its result through ServerRoster's
// periodic refresh (spec.md §4.2).
type ServerDiscovery interface {
	Discover(ctx context.Context) ([]*ServerEndpoint, error)
}

// NoDiscovery always returns an empty list; it is the roster's default
// when no ServerDiscovery is wired up, so a Client is fully usable with
// only an explicit server list.
type NoDiscovery struct{}

func (NoDiscovery) Discover(context.Context) ([]*ServerEndpoint, error) { return nil, nil }
