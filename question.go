package resolve

import "strings"

// Question identifies what is being asked: a name, a type and a class.
type Question struct {
	Name  string
	Type  uint16
	Class uint16
}

// CacheKey is the canonical fingerprint used by the response cache and by
// single-flight coalescing. Two questions that only differ in name case
// produce the same key.
type CacheKey string

// Key returns the canonical fingerprint "lowercase(name):type:class".
func (q Question) Key() CacheKey {
	return CacheKey(strings.ToLower(q.Name) + ":" + uitoa(q.Type) + ":" + uitoa(q.Class))
}

// suppressesEmptyHeuristic reports whether the question type is one of the
// two types for which the "unanswered" heuristic in the response
// interpreter never applies (ANY, AXFR).
func (q Question) suppressesEmptyHeuristic() bool {
	return q.Type == TypeANY || q.Type == TypeAXFR
}

func uitoa(v uint16) string {
	if v == 0 {
		return "0"
	}
	var buf [5]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// Well-known RR types the core needs to name explicitly for the "answered"
// heuristic (spec.md §4.4) and EDNS handling. Kept as a small, local set
// instead of importing a codec-specific package into the core, since the
// core must not depend on the wire format package (spec.md §1: the codec is
// an external collaborator).
const (
	TypeA    uint16 = 1
	TypeNS   uint16 = 2
	TypeCNAME uint16 = 5
	TypeSOA  uint16 = 6
	TypeAAAA uint16 = 28
	TypeOPT  uint16 = 41
	TypeANY  uint16 = 255
	TypeAXFR uint16 = 252

	ClassINET uint16 = 1
)
