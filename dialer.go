package resolve

import (
	"errors"
	"net"
	"net/netip"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/net/proxy"
)

// DegradingDialer wraps a proxy.ContextDialer and stops attempting IPv6 or
// UDP once the OS reports they aren't usable, adapted from the teacher's
// maybeDisableIPv6/maybeDisableUdp (disable.go). The default UDP and TCP
// transports use this so a single unreachable-network or
// protocol-not-implemented error degrades gracefully instead of repeating
// on every subsequent attempt.
type DegradingDialer struct {
	proxy.ContextDialer
	mu        sync.RWMutex
	ipv6      bool
	udp       bool
}

// NewDegradingDialer wraps d, starting with both IPv6 and UDP enabled.
func NewDegradingDialer(d proxy.ContextDialer) *DegradingDialer {
	if d == nil {
		d = &net.Dialer{}
	}
	return &DegradingDialer{ContextDialer: d, ipv6: true, udp: true}
}

func (d *DegradingDialer) UsingIPv6() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ipv6
}

func (d *DegradingDialer) UsingUDP() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.udp
}

// NoteError inspects err and disables IPv6 or UDP if it indicates the
// network stack doesn't support them, returning true if it acted on err
// (in which case the caller may treat the error as non-fatal and move on
// to the next server, matching the teacher's exchange()).
func (d *DegradingDialer) NoteError(network string, err error) (disabled bool) {
	if err == nil {
		return false
	}
	errstr := err.Error()
	if errors.Is(err, syscall.ENETUNREACH) || errors.Is(err, syscall.EHOSTUNREACH) ||
		strings.Contains(errstr, "network is unreachable") || strings.Contains(errstr, "no route to host") {
		d.mu.Lock()
		if d.ipv6 {
			disabled = true
			d.ipv6 = false
		}
		d.mu.Unlock()
		return disabled
	}
	if strings.HasPrefix(network, "udp") {
		var ne net.Error
		if errors.As(err, &ne) && !ne.Timeout() {
			if errors.Is(err, syscall.ENOSYS) || errors.Is(err, syscall.EPROTONOSUPPORT) ||
				strings.Contains(errstr, "network not implemented") {
				d.mu.Lock()
				disabled = d.udp
				d.udp = false
				d.mu.Unlock()
			}
		}
	}
	return disabled
}

// Usable reports whether network/server should be attempted at all, given
// what has been disabled so far.
func (d *DegradingDialer) Usable(network string, addr netip.Addr) bool {
	if strings.HasPrefix(network, "udp") && !d.UsingUDP() {
		return false
	}
	if addr.Is6() && !d.UsingIPv6() {
		return false
	}
	return true
}
