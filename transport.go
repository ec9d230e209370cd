package resolve

import (
	"context"
	"time"
)

// Transport is the external collaborator that moves already-encoded bytes
// to a server and returns the raw response bytes (spec.md §1, §6.2). The
// engine holds one Transport per handle type (UDP, TCP) and never touches
// sockets directly.
type Transport interface {
	// Send delivers payload to server and returns the response bytes
	// (spec.md §6.2: one DNS message per UDP datagram, or one 2-byte
	// length-prefixed message per TCP framing — the Transport
	// implementation owns that framing, not the caller). timeout is the
	// deadline for this single invocation only (spec.md §4.5 "Timeout is
	// enforced as a deadline on each single transport invocation, not the
	// whole call").
	Send(ctx context.Context, server *ServerEndpoint, payload []byte, timeout time.Duration) ([]byte, error)
}

// Transports bundles the UDP and TCP handles the engine dispatches
// through, mirroring spec.md §1's "the core consumes a Transport
// capability per handle type".
type Transports struct {
	UDP Transport
	TCP Transport
}
