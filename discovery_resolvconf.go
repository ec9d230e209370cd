package resolve

import (
	"bufio"
	"context"
	"net/netip"
	"os"
	"strings"
)

// ResolvConfDiscovery is the default ServerDiscovery on Unix-like systems: it
// parses "nameserver" lines from a resolv.conf-formatted file. None of the
// pack's example repos ship a resolv.conf parser, so this stays on the
// standard library (documented in SPEC_FULL.md §8 as a standard-library
// exception); the file format itself is fixed by POSIX and gains nothing
// from a third-party dependency.
type ResolvConfDiscovery struct {
	Path string
}

// NewResolvConfDiscovery returns a ResolvConfDiscovery reading from
// /etc/resolv.conf, the conventional path.
func NewResolvConfDiscovery() *ResolvConfDiscovery {
	return &ResolvConfDiscovery{Path: "/etc/resolv.conf"}
}

var _ ServerDiscovery = (*ResolvConfDiscovery)(nil)

func (d *ResolvConfDiscovery) Discover(ctx context.Context) ([]*ServerEndpoint, error) {
	f, err := os.Open(d.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []*ServerEndpoint
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "nameserver" {
			continue
		}
		addrStr := fields[1]
		addr, err := netip.ParseAddr(addrStr)
		if err != nil {
			continue
		}
		out = append(out, NewServerEndpoint(addr, 53))
	}
	if err := scanner.Err(); err != nil {
		return out, err
	}
	return out, nil
}
