package resolve

import (
	"errors"
	"testing"
)

func TestQueryErrorIsMatchesSentinel(t *testing.T) {
	t.Parallel()
	err := newQueryError(KindTimeout, nil, ErrTimeout)
	if !errors.Is(err, ErrTimeout) {
		t.Fatal("expected errors.Is to match ErrTimeout")
	}
	if errors.Is(err, ErrMalformed) {
		t.Fatal("did not expect errors.Is to match an unrelated sentinel")
	}
}

func TestQueryErrorUnwrap(t *testing.T) {
	t.Parallel()
	wrapped := errors.New("boom")
	err := newQueryError(KindTransientIO, nil, wrapped)
	if !errors.Is(err, wrapped) {
		t.Fatal("expected Unwrap to expose the wrapped error")
	}
}

func TestDecideTimeoutRetriesThenEscalates(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	if got := decide(KindTimeout, opts, false, false, 0); got != actionRetrySameServer {
		t.Fatalf("got %v, want retry on non-last try", got)
	}
	if got := decide(KindTimeout, opts, true, false, 0); got != actionNextServer {
		t.Fatalf("got %v, want next server on last try, more servers left", got)
	}
	if got := decide(KindTimeout, opts, true, true, 0); got != actionThrow {
		t.Fatalf("got %v, want throw on last try, last server", got)
	}
}

func TestDecideDNSErrorThrowDisabledReturnsResponse(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	opts.ContinueOnDNSError = false
	opts.ThrowDNSErrors = false
	if got := decide(KindDNSError, opts, true, true, 2); got != actionReturnResponse {
		t.Fatalf("got %v, want return-response", got)
	}
}

func TestDecideDNSErrorThrowEnabled(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	opts.ContinueOnDNSError = false
	opts.ThrowDNSErrors = true
	if got := decide(KindDNSError, opts, true, true, 2); got != actionThrow {
		t.Fatalf("got %v, want throw", got)
	}
}

func TestDecideDNSErrorRetryableRcodeContinues(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	opts.ContinueOnDNSError = true
	const rcodeServerFailure = 2
	if got := decide(KindDNSError, opts, false, false, rcodeServerFailure); got != actionRetrySameServer {
		t.Fatalf("got %v, want retry for a retryable rcode on a non-last try", got)
	}
}

func TestDecideTruncatedAlwaysEscalates(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	if got := decide(KindTruncated, opts, true, true, 0); got != actionEscalateTCPFallback {
		t.Fatalf("got %v, want escalate regardless of try/server position", got)
	}
}

func TestDecideCancelledAlwaysThrows(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	if got := decide(KindCancelled, opts, false, false, 0); got != actionThrow {
		t.Fatalf("got %v, want throw regardless of try/server position", got)
	}
}

func TestDecideTruncatedFallbackDisabledAlwaysThrows(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	if got := decide(KindTruncatedFallbackDisabled, opts, false, false, 0); got != actionThrow {
		t.Fatalf("got %v, want throw regardless of try/server position", got)
	}
}

func TestDecideUnexpectedTruncatedOverTCPAlwaysThrows(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	if got := decide(KindUnexpectedTruncatedOverTCP, opts, false, false, 0); got != actionThrow {
		t.Fatalf("got %v, want throw", got)
	}
}

func TestDecideMalformedMovesToNextServer(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	if got := decide(KindMalformed, opts, true, false, 0); got != actionNextServer {
		t.Fatalf("got %v, want next server", got)
	}
	if got := decide(KindMalformed, opts, true, true, 0); got != actionThrow {
		t.Fatalf("got %v, want throw when no servers remain", got)
	}
}

func TestIsRetryableDNSRcode(t *testing.T) {
	t.Parallel()
	if !isRetryableDNSRcode(1) || !isRetryableDNSRcode(2) {
		t.Fatal("expected FormatError and ServerFailure to be retryable")
	}
	if isRetryableDNSRcode(3) {
		t.Fatal("did not expect NameError to be retryable")
	}
}
