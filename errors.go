package resolve

import (
	"errors"
	"fmt"
)

// ErrorKind is the failure taxonomy from spec.md §7.
type ErrorKind int

const (
	KindEmptyServers ErrorKind = iota
	KindTimeout
	KindTransientIO
	KindCancelled
	KindXidMismatch
	KindTruncated
	KindTruncatedFallbackDisabled
	KindUnexpectedTruncatedOverTCP
	KindMalformed
	KindDNSError
	KindConnectionFailure
	KindArgument
)

func (k ErrorKind) String() string {
	switch k {
	case KindEmptyServers:
		return "empty_servers"
	case KindTimeout:
		return "timeout"
	case KindTransientIO:
		return "transient_io"
	case KindCancelled:
		return "cancelled"
	case KindXidMismatch:
		return "xid_mismatch"
	case KindTruncated:
		return "truncated"
	case KindTruncatedFallbackDisabled:
		return "truncated_fallback_disabled"
	case KindUnexpectedTruncatedOverTCP:
		return "unexpected_truncated_over_tcp"
	case KindMalformed:
		return "malformed"
	case KindDNSError:
		return "dns_error"
	case KindConnectionFailure:
		return "connection_failure"
	case KindArgument:
		return "argument"
	default:
		return "unknown"
	}
}

// QueryError is the typed error the engine returns on the Fail(error)
// terminal state (spec.md's "State machine summary"). It wraps a sentinel
// per Kind so callers can use errors.Is against the package-level Err*
// values below, in the same style as the teacher's errCNAMEChainTooDeep
// (extendedrcode.go / resolver.go).
type QueryError struct {
	Kind    ErrorKind
	Server  *ServerEndpoint
	Rcode   int
	Wrapped error
}

func (e *QueryError) Error() string {
	if e.Server != nil {
		return fmt.Sprintf("resolve: %s (server %s): %v", e.Kind, e.Server, e.Wrapped)
	}
	return fmt.Sprintf("resolve: %s: %v", e.Kind, e.Wrapped)
}

func (e *QueryError) Unwrap() error { return e.Wrapped }

func (e *QueryError) Is(target error) bool {
	switch e.Kind {
	case KindEmptyServers:
		return target == ErrEmptyServers
	case KindTimeout:
		return target == ErrTimeout
	case KindTransientIO:
		return target == ErrTransientIO
	case KindCancelled:
		return target == ErrCancelled
	case KindXidMismatch:
		return target == ErrXidMismatch
	case KindTruncated:
		return target == ErrTruncated
	case KindTruncatedFallbackDisabled:
		return target == ErrTruncatedFallbackDisabled
	case KindUnexpectedTruncatedOverTCP:
		return target == ErrUnexpectedTruncatedOverTCP
	case KindMalformed:
		return target == ErrMalformed
	case KindDNSError:
		return target == ErrDNSError
	case KindConnectionFailure:
		return target == ErrConnectionFailure
	case KindArgument:
		return target == ErrArgument
	}
	return false
}

var (
	ErrEmptyServers               = errors.New("resolve: server roster is empty")
	ErrTimeout                    = errors.New("resolve: query timed out")
	ErrTransientIO                = errors.New("resolve: transient transport error")
	ErrCancelled                  = errors.New("resolve: query cancelled")
	ErrXidMismatch                = errors.New("resolve: response transaction id did not match request")
	ErrTruncated                  = errors.New("resolve: response truncated")
	ErrTruncatedFallbackDisabled  = errors.New("resolve: response truncated and tcp fallback is disabled")
	ErrUnexpectedTruncatedOverTCP = errors.New("resolve: response truncated over tcp")
	ErrMalformed                  = errors.New("resolve: malformed response")
	ErrDNSError                   = errors.New("resolve: server returned a dns error response")
	ErrConnectionFailure          = errors.New("resolve: connection failure")
	ErrArgument                   = errors.New("resolve: invalid argument")
)

func newQueryError(kind ErrorKind, server *ServerEndpoint, wrapped error) *QueryError {
	return &QueryError{Kind: kind, Server: server, Wrapped: wrapped}
}

// action is what the retry/server loop should do next, produced by the
// per-error decision table in spec.md §7.
type action int

const (
	actionRetrySameServer action = iota
	actionNextServer
	actionThrow
	actionReturnResponse
	actionEscalateTCPFallback
)

// decide implements the spec.md §7 decision table. isLastTry and
// isLastServer describe the position of the attempt that just failed.
func decide(kind ErrorKind, opts QueryOptions, isLastTry, isLastServer bool, rcode int) action {
	switch kind {
	case KindTimeout, KindTransientIO:
		if !isLastTry {
			return actionRetrySameServer
		}
		if !isLastServer {
			return actionNextServer
		}
		return actionThrow
	case KindXidMismatch:
		if !isLastTry {
			return actionRetrySameServer
		}
		if !isLastServer {
			return actionNextServer
		}
		return actionThrow
	case KindCancelled:
		return actionThrow
	case KindDNSError:
		if !opts.ContinueOnDNSError {
			if opts.ThrowDNSErrors {
				return actionThrow
			}
			return actionReturnResponse
		}
		if isRetryableDNSRcode(rcode) && !isLastTry {
			return actionRetrySameServer
		}
		if !isLastServer {
			return actionNextServer
		}
		if opts.ThrowDNSErrors {
			return actionThrow
		}
		return actionReturnResponse
	case KindTruncated:
		return actionEscalateTCPFallback
	case KindTruncatedFallbackDisabled:
		return actionThrow
	case KindUnexpectedTruncatedOverTCP:
		return actionThrow
	case KindMalformed:
		if !isLastServer {
			return actionNextServer
		}
		return actionThrow
	case KindArgument:
		return actionThrow
	default:
		if !isLastServer {
			return actionNextServer
		}
		return actionThrow
	}
}

// isRetryableDNSRcode implements spec.md §7's
// "DnsError ∈ {ServerFailure, FormatError} (not last try)" row.
func isRetryableDNSRcode(rcode int) bool {
	const (
		rcodeFormatError  = 1
		rcodeServerFailure = 2
	)
	return rcode == rcodeFormatError || rcode == rcodeServerFailure
}
