package resolve

import (
	"github.com/miekg/dns"
)

// MiekgCodec is the default MessageCodec, built on github.com/miekg/dns
// the same way the teacher built its exchange path (resolver.go). It is the
// only file in the core package that imports the wire-format library.
type MiekgCodec struct{}

var _ MessageCodec = MiekgCodec{}

func (MiekgCodec) Encode(req Request) ([]byte, error) {
	msg := new(dns.Msg)
	msg.Id = req.Header.ID
	msg.RecursionDesired = req.Header.RD
	msg.Question = []dns.Question{{
		Name:   dns.Fqdn(req.Question.Name),
		Qtype:  req.Question.Type,
		Qclass: req.Question.Class,
	}}
	if req.EDNS != nil {
		opt := new(dns.OPT)
		opt.Hdr.Name = "."
		opt.Hdr.Rrtype = dns.TypeOPT
		opt.SetUDPSize(req.EDNS.UDPPayloadSize)
		opt.SetVersion(req.EDNS.Version)
		opt.SetDo(req.EDNS.DO)
		msg.Extra = append(msg.Extra, opt)
	}
	return msg.Pack()
}

func (MiekgCodec) Decode(data []byte, expectedID uint16) (*Response, error) {
	msg := new(dns.Msg)
	if err := msg.Unpack(data); err != nil {
		return nil, malformedFromUnpackErr(data, err)
	}
	if msg.Id != expectedID {
		return nil, newQueryError(KindXidMismatch, nil, ErrXidMismatch)
	}

	resp := &Response{
		ID:            msg.Id,
		Truncated:     msg.Truncated,
		Authoritative: msg.Authoritative,
		Rcode:         msg.Rcode,
		Size:          len(data),
	}
	for _, q := range msg.Question {
		resp.Questions = append(resp.Questions, Question{Name: q.Name, Type: q.Qtype, Class: q.Qclass})
	}
	resp.Answers = convertRRs(msg.Answer)
	resp.Authorities = convertRRs(msg.Ns)

	for _, rr := range msg.Extra {
		if opt, ok := rr.(*dns.OPT); ok {
			resp.OPT = &OPTRecord{
				UDPPayloadSize:  opt.UDPSize(),
				ExtendedRcodeHi: uint8(opt.ExtendedRcode() >> 4),
				Version:         opt.Version(),
				DO:              opt.Do(),
			}
			resp.Rcode |= opt.ExtendedRcode()
			continue
		}
		resp.Additionals = append(resp.Additionals, convertRR(rr))
	}
	return resp, nil
}

func convertRRs(rrs []dns.RR) []Record {
	out := make([]Record, 0, len(rrs))
	for _, rr := range rrs {
		out = append(out, convertRR(rr))
	}
	return out
}

func convertRR(rr dns.RR) Record {
	hdr := rr.Header()
	return Record{Name: hdr.Name, Type: hdr.Rrtype, Class: hdr.Class, TTL: hdr.Ttl, RData: rr}
}

// maxImplicitTruncationSize is the classic UDP datagram ceiling: an unpack
// failure at or under this size looks identical to a message the network
// cut off mid-flight, so it is reported as an overrun (spec.md §4.5 step
// 2c, "datagram was <= 512 bytes or the parser overran available data").
// dns.Msg.Unpack doesn't expose the byte offset it stopped at through its
// public API, so this size check is the signal available at this layer;
// anything larger is reported as a genuine parse failure instead.
const maxImplicitTruncationSize = 512

// malformedFromUnpackErr adapts a dns.Msg.Unpack failure into the
// diagnostic shape spec.md §4.4 requires so the engine can tell a truly
// malformed message apart from a UDP datagram cut short by the network
// (implicit truncation, spec.md §4.5 step 2c).
func malformedFromUnpackErr(data []byte, err error) *MalformedError {
	m := &MalformedError{
		ReadLength: len(data),
		DataLength: len(data),
		Reason:     err.Error(),
	}
	if len(data) <= maxImplicitTruncationSize {
		m.Index = len(data) + 1 // overran: treat as implicit truncation
	} else {
		m.Index = len(data) // not overran: genuinely malformed, not truncated
	}
	return m
}
