package resolve

import (
	"context"
	"testing"
)

func TestExtendedErrorCodeFromQueryError(t *testing.T) {
	t.Parallel()
	err := newQueryError(KindTimeout, nil, ErrTimeout)
	if got := ExtendedErrorCodeFromError(err); got != ExtendedErrorCodeNoReachableAuthority {
		t.Fatalf("got %d, want ExtendedErrorCodeNoReachableAuthority", got)
	}
}

func TestExtendedErrorCodeFromContextDeadline(t *testing.T) {
	t.Parallel()
	if got := ExtendedErrorCodeFromError(context.DeadlineExceeded); got != ExtendedErrorCodeNoReachableAuthority {
		t.Fatalf("got %d, want ExtendedErrorCodeNoReachableAuthority", got)
	}
}

func TestExtendedErrorCodeFromNilIsOther(t *testing.T) {
	t.Parallel()
	if got := ExtendedErrorCodeFromError(nil); got != ExtendedErrorCodeOther {
		t.Fatalf("got %d, want ExtendedErrorCodeOther", got)
	}
}

func TestExtendedErrorCodeFromUnknownErrorIsOther(t *testing.T) {
	t.Parallel()
	if got := ExtendedErrorCodeFromError(errUnrecognized{}); got != ExtendedErrorCodeOther {
		t.Fatalf("got %d, want ExtendedErrorCodeOther", got)
	}
}

type errUnrecognized struct{}

func (errUnrecognized) Error() string { return "unrecognized" }
