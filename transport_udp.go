package resolve

import (
	"context"
	"time"
)

// UDPTransport is the default UDP Transport (spec.md §6.2: one request per
// datagram, response is one datagram). It shares a DegradingDialer with the
// TCP transport so a single unreachable-network error benefits both.
type UDPTransport struct {
	dialer *DegradingDialer
}

// NewUDPTransport wraps dialer (or a plain *net.Dialer if nil) as a UDP
// Transport.
func NewUDPTransport(dialer *DegradingDialer) *UDPTransport {
	if dialer == nil {
		dialer = NewDegradingDialer(nil)
	}
	return &UDPTransport{dialer: dialer}
}

var _ Transport = (*UDPTransport)(nil)

func (t *UDPTransport) Send(ctx context.Context, server *ServerEndpoint, payload []byte, timeout time.Duration) ([]byte, error) {
	addr := server.AddrPort()
	if !t.dialer.Usable("udp", addr.Addr()) {
		return nil, newQueryError(KindConnectionFailure, server, ErrConnectionFailure)
	}
	deadline := deadlineFor(ctx, timeout)
	network := "udp4"
	if addr.Addr().Is6() {
		network = "udp6"
	}
	conn, err := t.dialer.DialContext(ctx, network, addr.String())
	if err != nil {
		if t.dialer.NoteError("udp", err) {
			return nil, newQueryError(KindConnectionFailure, server, err)
		}
		return nil, classifyDialErr(server, err)
	}
	defer conn.Close()
	if !deadline.IsZero() {
		_ = conn.SetDeadline(deadline)
	}
	if _, err := conn.Write(payload); err != nil {
		return nil, classifyDialErr(server, err)
	}
	buf := make([]byte, 65535)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, classifyDialErr(server, err)
	}
	return buf[:n], nil
}

func deadlineFor(ctx context.Context, timeout time.Duration) time.Time {
	var deadline time.Time
	if ctx != nil {
		if d, ok := ctx.Deadline(); ok {
			deadline = d
		}
	}
	if timeout > 0 {
		limit := time.Now().Add(timeout)
		if deadline.IsZero() || limit.Before(deadline) {
			deadline = limit
		}
	}
	return deadline
}
