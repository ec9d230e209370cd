package resolve

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopAuditDiscardsEvents(t *testing.T) {
	t.Parallel()
	var a NoopAudit
	assert.NotPanics(t, func() { a.Record(AuditEvent{Message: "ignored"}) })
}

func TestTraceAuditRendersMessageAndServer(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	trace := NewTraceAudit(&buf)
	server := mustEndpoint(t, "1.1.1.1:53")

	trace.Record(AuditEvent{
		Question: Question{Name: "example.com.", Type: TypeA},
		Server:   server,
		Try:      1,
		Message:  "attempt failed",
		Outcome:  OutcomeTruncated,
	})

	out := buf.String()
	assert.Contains(t, out, "attempt failed")
	assert.Contains(t, out, "1.1.1.1:53")
	assert.Contains(t, out, "truncated")
}

func TestTraceAuditRendersError(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	trace := NewTraceAudit(&buf)

	trace.Record(AuditEvent{
		Question: Question{Name: "example.com.", Type: TypeA},
		Message:  "attempt failed",
		Err:      ErrTimeout,
	})

	assert.Contains(t, buf.String(), "err=")
}
