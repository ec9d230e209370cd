package resolve

import (
	"net/netip"
	"strconv"
	"strings"
	"sync/atomic"
)

// ServerEndpoint is an explicit value type for a name server address,
// replacing the implicit address/endpoint/string conversions the teacher's
// original source relied on (spec.md §9 "Design Notes").
type ServerEndpoint struct {
	addr netip.AddrPort

	// udpPayloadHint is updated by the response interpreter (C4) whenever a
	// response carries an OPT record, per spec.md §4.4 "OPT side effect".
	udpPayloadHint atomic.Uint32
	// rttHint is populated by the optional roster latency probe
	// (spec.md SPEC_FULL §6.2), never by the core query path.
	rttHint atomic.Int64
}

const defaultDNSPort = 53

// NewServerEndpoint constructs a ServerEndpoint from an already-resolved
// address and port.
func NewServerEndpoint(addr netip.Addr, port uint16) *ServerEndpoint {
	if port == 0 {
		port = defaultDNSPort
	}
	return &ServerEndpoint{addr: netip.AddrPortFrom(addr, port)}
}

// NewServerEndpointFromAddrPort constructs a ServerEndpoint from a
// netip.AddrPort as-is.
func NewServerEndpointFromAddrPort(ap netip.AddrPort) *ServerEndpoint {
	return &ServerEndpoint{addr: ap}
}

// ParseServerEndpoint accepts "host:port", a bare IP (default port 53), or
// an IPv6 address in brackets.
func ParseServerEndpoint(s string) (*ServerEndpoint, error) {
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return &ServerEndpoint{addr: ap}, nil
	}
	if addr, err := netip.ParseAddr(strings.Trim(s, "[]")); err == nil {
		return &ServerEndpoint{addr: netip.AddrPortFrom(addr, defaultDNSPort)}, nil
	}
	host, portStr, err := splitHostPort(s)
	if err != nil {
		return nil, err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return nil, err
	}
	port := uint64(defaultDNSPort)
	if portStr != "" {
		if port, err = strconv.ParseUint(portStr, 10, 16); err != nil {
			return nil, err
		}
	}
	return &ServerEndpoint{addr: netip.AddrPortFrom(addr, uint16(port))}, nil
}

func splitHostPort(s string) (host, port string, err error) {
	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return s, "", nil
	}
	return s[:idx], s[idx+1:], nil
}

// IsValid reports whether the endpoint is usable: it must be a valid,
// non-any address (spec.md §4.2 "Invalid servers ... filtered out").
func (e *ServerEndpoint) IsValid() bool {
	return e != nil && e.addr.IsValid() && !e.addr.Addr().IsUnspecified()
}

// AddrPort returns the dialable address.
func (e *ServerEndpoint) AddrPort() netip.AddrPort { return e.addr }

// String renders "host:port".
func (e *ServerEndpoint) String() string {
	if e == nil {
		return "<nil>"
	}
	return e.addr.String()
}

// Equal compares two endpoints by address and port only.
func (e *ServerEndpoint) Equal(o *ServerEndpoint) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.addr == o.addr
}

// SetUDPPayloadHint records the UDP payload size the server advertised in
// its most recent OPT record (spec.md §4.4).
func (e *ServerEndpoint) SetUDPPayloadHint(size uint16) {
	if e != nil {
		e.udpPayloadHint.Store(uint32(size))
	}
}

// UDPPayloadHint returns the last advertised size, or 0 if none observed.
func (e *ServerEndpoint) UDPPayloadHint() uint16 {
	if e == nil {
		return 0
	}
	return uint16(e.udpPayloadHint.Load())
}

// setRTTHint and RTTHint back the optional latency probe (SPEC_FULL §6.2);
// the core query path never reads or writes this.
func (e *ServerEndpoint) setRTTHint(nanos int64) {
	if e != nil {
		e.rttHint.Store(nanos)
	}
}

// RTTHint returns the last probed round-trip time in nanoseconds, or -1 if
// the server has never been probed.
func (e *ServerEndpoint) RTTHint() int64 {
	if e == nil {
		return -1
	}
	v := e.rttHint.Load()
	if v == 0 {
		return -1
	}
	return v
}
