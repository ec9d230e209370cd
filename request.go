package resolve

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
)

// RequestHeader mirrors spec.md §3: only id varies across retransmissions
// of logically the same query.
type RequestHeader struct {
	ID    uint16
	RD    bool
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// Request is the immutable, per-attempt request produced by the
// QueryBuilder (C3), carrying a defensive snapshot of the options in
// effect when it was built (spec.md §3 "Request").
type Request struct {
	Header   RequestHeader
	Question Question
	Options  QueryOptions
	EDNS     *OPTRecord
}

// BuildRequest implements QueryBuilder (spec.md §4.3): produces a Request
// from a question and effective options, deciding whether to attach EDNS
// and computing the RD flag and initial transaction id.
func BuildRequest(q Question, opts QueryOptions) Request {
	req := Request{
		Question: q,
		Options:  opts,
		Header: RequestHeader{
			ID:      newTransactionID(),
			RD:      opts.Recursion,
			QDCount: 1,
		},
	}
	if opts.needsEDNS() {
		req.EDNS = &OPTRecord{
			UDPPayloadSize: opts.clampedBufferSize(),
			Version:        0,
			DO:             opts.RequestDNSSECRecords,
		}
		req.Header.ARCount = 1
	}
	return req
}

// RefreshID assigns a new cryptographically uniform transaction id, as
// required before each physical retransmission (spec.md §3, §4.5 step 2a
// and 2c, §8 invariant 5).
func (r *Request) RefreshID() {
	r.Header.ID = newTransactionID()
}

// newTransactionID returns a cryptographically uniform 16-bit value
// (spec.md §4.3). crypto/rand is used directly: none of the pack's example
// repos reach for a third-party CSPRNG for a single uint16, and Go's
// standard library already provides the correct primitive for this
// (documented in DESIGN.md as a standard-library exception).
func newTransactionID() uint16 {
	var b [2]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand.Read on a supported platform does not fail; if it
		// somehow does, degrade to a non-cryptographic but still
		// unpredictable-enough value rather than panicking mid-query.
		return uint16(mathrand.Uint32())
	}
	return binary.BigEndian.Uint16(b[:])
}
