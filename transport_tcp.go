package resolve

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"os"
	"time"
)

// TCPTransport is the default TCP Transport, used both for UseTCPOnly and
// for the C5 fallback driver's escalation after a truncated UDP response
// (spec.md §4.5, §6.2). Messages are length-prefixed per RFC 1035 §4.2.2,
// the same framing the teacher relied on via miekg/dns's dns.Conn.
type TCPTransport struct {
	dialer *DegradingDialer
}

// NewTCPTransport wraps dialer (or a plain *net.Dialer if nil) as a TCP
// Transport.
func NewTCPTransport(dialer *DegradingDialer) *TCPTransport {
	if dialer == nil {
		dialer = NewDegradingDialer(nil)
	}
	return &TCPTransport{dialer: dialer}
}

var _ Transport = (*TCPTransport)(nil)

func (t *TCPTransport) Send(ctx context.Context, server *ServerEndpoint, payload []byte, timeout time.Duration) ([]byte, error) {
	addr := server.AddrPort()
	network := "tcp4"
	if addr.Addr().Is6() {
		network = "tcp6"
	}
	if !t.dialer.Usable(network, addr.Addr()) {
		return nil, newQueryError(KindConnectionFailure, server, ErrConnectionFailure)
	}
	deadline := deadlineFor(ctx, timeout)
	conn, err := t.dialer.DialContext(ctx, network, addr.String())
	if err != nil {
		return nil, classifyDialErr(server, err)
	}
	defer conn.Close()
	if !deadline.IsZero() {
		_ = conn.SetDeadline(deadline)
	}

	var lenPrefix [2]byte
	binary.BigEndian.PutUint16(lenPrefix[:], uint16(len(payload)))
	if _, err := conn.Write(lenPrefix[:]); err != nil {
		return nil, classifyDialErr(server, err)
	}
	if _, err := conn.Write(payload); err != nil {
		return nil, classifyDialErr(server, err)
	}

	if _, err := io.ReadFull(conn, lenPrefix[:]); err != nil {
		return nil, classifyDialErr(server, err)
	}
	respLen := binary.BigEndian.Uint16(lenPrefix[:])
	buf := make([]byte, respLen)
	if _, err := io.ReadFull(conn, buf); err != nil {
		return nil, classifyDialErr(server, err)
	}
	return buf, nil
}

// classifyDialErr maps a raw net error into the taxonomy from spec.md §7:
// context cancellation and deadline expiry become Cancelled/Timeout,
// anything else observed on the wire is TransientIO.
func classifyDialErr(server *ServerEndpoint, err error) error {
	if errors.Is(err, context.Canceled) {
		return newQueryError(KindCancelled, server, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return newQueryError(KindTimeout, server, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return newQueryError(KindTimeout, server, err)
	}
	return newQueryError(KindTransientIO, server, err)
}
