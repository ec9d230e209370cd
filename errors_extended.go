package resolve

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
)

// Extended DNS Error codes from RFC 8914, used here only to translate a
// QueryError's Kind into a number suitable for audit/metrics correlation
// with servers that also speak Extended DNS Errors. No DNSSEC validation is
// performed anywhere in this module (spec.md §1 explicitly excludes it);
// this is a one-way error->rcode mapping in the same spirit as the
// teacher's extendedrcode.go.
const (
	ExtendedErrorCodeOther                uint16 = 0
	ExtendedErrorCodeNotReady             uint16 = 14
	ExtendedErrorCodeProhibited           uint16 = 18
	ExtendedErrorCodeNoReachableAuthority uint16 = 22
	ExtendedErrorCodeNetworkError         uint16 = 23
	ExtendedErrorCodeInvalidData          uint16 = 24
)

var kindToExtendedRcode = map[ErrorKind]uint16{
	KindTimeout:                    ExtendedErrorCodeNoReachableAuthority,
	KindTransientIO:                ExtendedErrorCodeNetworkError,
	KindConnectionFailure:          ExtendedErrorCodeNetworkError,
	KindMalformed:                  ExtendedErrorCodeInvalidData,
	KindXidMismatch:                ExtendedErrorCodeInvalidData,
	KindTruncatedFallbackDisabled:  ExtendedErrorCodeProhibited,
	KindUnexpectedTruncatedOverTCP: ExtendedErrorCodeNetworkError,
	KindEmptyServers:               ExtendedErrorCodeNoReachableAuthority,
	KindCancelled:                  ExtendedErrorCodeNotReady,
}

// ExtendedErrorCodeFromError maps a Go error to an RFC 8914 Extended DNS
// Error code for audit/metrics correlation. It understands *QueryError as
// well as well-known errors from the os, io and net packages (including
// their wrapper types), and returns ExtendedErrorCodeOther if no mapping is
// known. Adapted from the teacher's extendedrcode.go, generalized from
// dns.ExtendedErrorCode* constants to this module's own ErrorKind
// taxonomy.
func ExtendedErrorCodeFromError(err error) uint16 {
	if err == nil {
		return ExtendedErrorCodeOther
	}
	var qerr *QueryError
	if errors.As(err, &qerr) {
		if code, ok := kindToExtendedRcode[qerr.Kind]; ok {
			return code
		}
	}
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return ExtendedErrorCodeNoReachableAuthority
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.ErrShortBuffer) {
		return ExtendedErrorCodeInvalidData
	}
	if errors.Is(err, os.ErrPermission) {
		return ExtendedErrorCodeProhibited
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ExtendedErrorCodeNoReachableAuthority
		}
		return ExtendedErrorCodeNetworkError
	}
	return ExtendedErrorCodeOther
}
