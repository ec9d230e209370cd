package resolve

import (
	"fmt"
	"io"
	"time"
)

// AuditEvent is one step of the resolver's state machine, emitted through
// the Audit capability instead of a logger (spec.md §1: "the core calls a
// structured Audit sink; its string output is opaque").
type AuditEvent struct {
	Time     time.Time
	Question Question
	Server   *ServerEndpoint
	Attempt  int
	Try      int
	Message  string
	Outcome  Outcome
	Err      error
}

// Audit is the structured sink the core writes to. Implementations decide
// how (or whether) to render events; the core never formats a log line
// itself.
type Audit interface {
	Record(AuditEvent)
}

// NoopAudit discards every event; it is the engine's default so
// instantiating a Client never requires wiring a logger.
type NoopAudit struct{}

func (NoopAudit) Record(AuditEvent) {}

// TraceAudit renders events to an io.Writer as a single indented line per
// event, in the same texture as the teacher's query.logf trace
// (query.go/resolver.go in the teacher repo): a millisecond-since-start
// prefix, a short verb, and the relevant addresses. Kept for parity with
// the teacher and for use in tests that want to eyeball a call's timeline.
type TraceAudit struct {
	w     io.Writer
	start time.Time
}

// NewTraceAudit returns a TraceAudit writing to w, timestamped from now.
func NewTraceAudit(w io.Writer) *TraceAudit {
	return &TraceAudit{w: w, start: time.Now()}
}

func (t *TraceAudit) Record(ev AuditEvent) {
	if t == nil || t.w == nil {
		return
	}
	elapsed := ev.Time.Sub(t.start).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	server := "-"
	if ev.Server != nil {
		server = ev.Server.String()
	}
	if ev.Err != nil {
		fmt.Fprintf(t.w, "[%6dms] %-28s server=%s try=%d q=%s/%d err=%v\n",
			elapsed, ev.Message, server, ev.Try, ev.Question.Name, ev.Question.Type, ev.Err)
		return
	}
	fmt.Fprintf(t.w, "[%6dms] %-28s server=%s try=%d q=%s/%d outcome=%s\n",
		elapsed, ev.Message, server, ev.Try, ev.Question.Name, ev.Question.Type, ev.Outcome)
}
