package resolve

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"golang.org/x/sync/singleflight"
)

// Client is the ResolverEngine (C5, spec.md §4.5): it owns the wiring
// between the four external collaborators (MessageCodec, Transport,
// ServerDiscovery via the roster, Audit) and the three internal components
// (C1 Cacher, C2 ServerRoster, C3/C4 request building and response
// interpretation), and drives the server loop x retry loop x transport
// fallback state machine.
type Client struct {
	codec      MessageCodec
	transports Transports
	roster     *ServerRoster
	cache      Cacher
	audit      Audit
	metrics    Recorder
	defaults   QueryOptions

	group singleflight.Group
}

// ClientOption configures a Client at construction time.
type ClientOption func(*Client)

func WithCodec(c MessageCodec) ClientOption         { return func(cl *Client) { cl.codec = c } }
func WithTransports(t Transports) ClientOption      { return func(cl *Client) { cl.transports = t } }
func WithCacher(c Cacher) ClientOption              { return func(cl *Client) { cl.cache = c } }
func WithClientAudit(a Audit) ClientOption          { return func(cl *Client) { cl.audit = a } }
func WithRecorder(r Recorder) ClientOption          { return func(cl *Client) { cl.metrics = r } }
func WithDefaultOptions(o QueryOptions) ClientOption { return func(cl *Client) { cl.defaults = o } }
func WithRoster(r *ServerRoster) ClientOption       { return func(cl *Client) { cl.roster = r } }

// New builds a Client with the default MessageCodec (MiekgCodec), default
// UDP/TCP transports sharing one DegradingDialer, and a default in-process
// Cacher, then applies opts on top. userServers and discovery seed the
// roster unless WithRoster overrides it outright.
func New(userServers []*ServerEndpoint, discovery ServerDiscovery, opts ...ClientOption) *Client {
	dialer := NewDegradingDialer(nil)
	c := &Client{
		codec: MiekgCodec{},
		transports: Transports{
			UDP: NewUDPTransport(dialer),
			TCP: NewTCPTransport(dialer),
		},
		cache:    NewDefaultCacher(),
		audit:    NoopAudit{},
		metrics:  NoopRecorder{},
		defaults: DefaultOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.roster == nil {
		c.roster = NewServerRoster(userServers, discovery, c.defaults.AutoResolveNameServers, c.audit)
	}
	return c
}

// Query is the blocking entry point (spec.md §1). name is treated as
// already fully qualified or not; the default MessageCodec fully-qualifies
// it before encoding.
func (c *Client) Query(ctx context.Context, name string, qtype uint16, overrides ...Option) (*Response, error) {
	opts := c.defaults
	for _, o := range overrides {
		o(&opts)
	}
	opts = opts.snapshot()
	if err := opts.Validate(); err != nil {
		return nil, newQueryError(KindArgument, nil, err)
	}

	q := Question{Name: name, Type: qtype, Class: ClassINET}
	key := q.Key()

	if opts.UseCache {
		if resp, ok := c.cache.Get(key); ok {
			c.metrics.ObserveCacheHit()
			return resp, nil
		}
		c.metrics.ObserveCacheMiss()
	}

	start := time.Now()
	v, err, _ := c.group.Do(string(key), func() (any, error) {
		return c.resolve(ctx, q, opts)
	})
	c.metrics.ObserveDuration(time.Since(start).Seconds())
	resp, _ := v.(*Response)
	return resp, err
}

// Future is the handle returned by QueryAsync (spec.md §1's cooperative
// entry point): the same step function as Query, just run off the calling
// goroutine.
type Future struct {
	done chan struct{}
	resp *Response
	err  error
}

// Wait blocks until the query completes or ctx is done, whichever comes
// first.
func (f *Future) Wait(ctx context.Context) (*Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return nil, newQueryError(KindCancelled, nil, ctx.Err())
	}
}

// QueryAsync starts a query without blocking the caller, sharing the same
// resolve step Query uses.
func (c *Client) QueryAsync(ctx context.Context, name string, qtype uint16, overrides ...Option) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.resp, f.err = c.Query(ctx, name, qtype, overrides...)
	}()
	return f
}

// resolve drives the server loop (spec.md §4.5): each server is tried in
// turn under one fixed transport, with tryServer owning that server's retry
// loop. A truncated UDP response is the "truncation driver" of spec.md §4.5
// step 3: it aborts the UDP pass immediately and, unless disabled, causes
// the whole server list to be tried again from the top over TCP, rather
// than just retrying the one server that saw the truncation.
func (c *Client) resolve(ctx context.Context, q Question, opts QueryOptions) (*Response, error) {
	servers := c.serversFor(ctx, opts)
	if len(servers) == 0 {
		return nil, newQueryError(KindEmptyServers, nil, ErrEmptyServers)
	}

	useTCP := opts.UseTCPOnly
	resp, err := c.runServerLoop(ctx, q, servers, opts, useTCP)
	if !useTCP && err != nil && errors.Is(err, ErrTruncated) {
		if !opts.UseTCPFallback {
			return nil, newQueryError(KindTruncatedFallbackDisabled, nil, ErrTruncatedFallbackDisabled)
		}
		resp, err = c.runServerLoop(ctx, q, servers, opts, true)
		if err != nil && errors.Is(err, ErrTruncated) {
			return nil, newQueryError(KindUnexpectedTruncatedOverTCP, nil, ErrUnexpectedTruncatedOverTCP)
		}
	}
	return resp, err
}

// runServerLoop drives one pass over servers (spec.md §4.5 step 2) under a
// single transport fixed for every server and every retry in the pass.
func (c *Client) runServerLoop(ctx context.Context, q Question, servers []*ServerEndpoint, opts QueryOptions, useTCP bool) (*Response, error) {
	var lastErr error
	for idx, server := range servers {
		isLastServer := idx == len(servers)-1
		resp, err, done := c.tryServer(ctx, q, server, opts, idx, isLastServer, useTCP)
		if done {
			return resp, err
		}
		if err != nil {
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = newQueryError(KindConnectionFailure, nil, ErrConnectionFailure)
	}
	return nil, lastErr
}

// serversFor implements spec.md §9's documented Open Question resolution:
// an explicit Servers list on the options overrides the roster entirely and
// never merges with auto-resolved servers, even when AutoResolveNameServers
// is also set.
func (c *Client) serversFor(ctx context.Context, opts QueryOptions) []*ServerEndpoint {
	if len(opts.Servers) > 0 {
		servers := append([]*ServerEndpoint(nil), opts.Servers...)
		if opts.UseRandomNameServer && len(servers) > 1 {
			shuffleEndpoints(servers)
		}
		return servers
	}
	if opts.AutoResolveNameServers {
		c.roster.Refresh(ctx)
	}
	return c.roster.Snapshot(opts.UseRandomNameServer)
}

// tryServer owns one server's retry loop for a single fixed transport
// (spec.md §4.5 step 2c). done reports whether the state machine reached a
// terminal state for the whole query (success, ReturnResponse, Throw, or a
// truncation that must be handed back up to resolve for the transport-wide
// TCP rerun); when done is false the caller moves on to the next server.
func (c *Client) tryServer(ctx context.Context, q Question, server *ServerEndpoint, opts QueryOptions, attemptIndex int, isLastServer, useTCP bool) (*Response, error, bool) {
	tries := opts.Retries + 1
	if tries < 1 {
		tries = 1
	}
	var lastErr error

	for ti := 0; ti < tries; ti++ {
		select {
		case <-ctx.Done():
			return nil, newQueryError(KindCancelled, server, ctx.Err()), true
		default:
		}

		isLastTry := ti == tries-1
		req := BuildRequest(q, opts)
		if ti > 0 {
			req.RefreshID()
		}

		resp, err, act := c.singleAttempt(ctx, q, server, req, useTCP, opts, isLastTry, isLastServer)
		transportName := "udp"
		if useTCP {
			transportName = "tcp"
		}
		if err == nil {
			c.metrics.ObserveAttempt(transportName, "success")
			return resp, nil, true
		}

		lastErr = err
		if opts.EnableAuditTrail {
			c.audit.Record(AuditEvent{Time: time.Now(), Question: q, Server: server, Attempt: attemptIndex, Try: ti, Message: "attempt failed", Err: err})
		}
		c.metrics.ObserveAttempt(transportName, kindOf(err).String())
		c.metrics.ObserveError(kindOf(err).String())

		switch act {
		case actionRetrySameServer:
			continue
		case actionNextServer:
			return nil, err, false
		case actionThrow, actionEscalateTCPFallback:
			return resp, err, true
		default:
			return nil, err, false
		}
	}
	return nil, lastErr, false
}

// singleAttempt performs exactly one wire exchange for an already-built
// request: encode, send, decode, classify. A truncated (or implicitly-truncated) UDP response
// returns actionEscalateTCPFallback with a KindTruncated error; it does not
// retry or advance within this pass, it hands the sentinel straight back to
// resolve, which owns the transport-wide TCP rerun (spec.md §4.5 step 3).
func (c *Client) singleAttempt(ctx context.Context, q Question, server *ServerEndpoint, req Request, useTCP bool, opts QueryOptions, isLastTry, isLastServer bool) (resp *Response, err error, act action) {
	payload, encErr := c.codec.Encode(req)
	if encErr != nil {
		return nil, newQueryError(KindArgument, server, encErr), actionThrow
	}

	transport := c.transports.UDP
	if useTCP {
		transport = c.transports.TCP
	}

	raw, sendErr := transport.Send(ctx, server, payload, opts.Timeout)
	if sendErr != nil {
		kind := kindOf(sendErr)
		return nil, sendErr, decide(kind, opts, isLastTry, isLastServer, 0)
	}

	parsed, decErr := c.codec.Decode(raw, req.Header.ID)
	if decErr != nil {
		var malformed *MalformedError
		if errors.As(decErr, &malformed) && !useTCP && malformed.overran() {
			// Implicit truncation: a UDP datagram cut short by the network
			// looks identical to a malformed one except that parsing ran
			// past the available bytes (spec.md §4.5 step 2c). It drives
			// the same transport-wide TCP rerun as an explicit Truncated
			// classification below.
			return nil, newQueryError(KindTruncated, server, ErrTruncated), actionEscalateTCPFallback
		}
		kind := KindMalformed
		if errors.Is(decErr, ErrXidMismatch) {
			kind = KindXidMismatch
		}
		return nil, decErr, decide(kind, opts, isLastTry, isLastServer, 0)
	}

	parsed.Origin = server
	applyOPTSideEffect(parsed, server)

	switch Classify(req, parsed) {
	case OutcomeSuccess:
		if opts.UseCache {
			c.cache.Put(q.Key(), parsed, false, opts)
		}
		return parsed, nil, actionReturnResponse

	case OutcomeTruncated:
		if useTCP {
			return nil, newQueryError(KindUnexpectedTruncatedOverTCP, server, ErrUnexpectedTruncatedOverTCP), actionThrow
		}
		// spec.md §4.5 step 3: hand the truncated sentinel back to resolve,
		// which decides (once, for the whole server list) whether to rerun
		// everything over TCP or throw "fallback disabled" - it is not this
		// server's decision to retry itself over TCP.
		return nil, newQueryError(KindTruncated, server, ErrTruncated), actionEscalateTCPFallback

	case OutcomeDNSError:
		a := decide(KindDNSError, opts, isLastTry, isLastServer, parsed.Rcode)
		if a == actionReturnResponse {
			if opts.CacheFailedResults {
				c.cache.Put(q.Key(), parsed, true, opts)
			}
			return parsed, nil, actionReturnResponse
		}
		return parsed, newQueryError(KindDNSError, server, ErrDNSError), a

	case OutcomeEmptyUnanswered:
		// No dedicated ErrorKind exists for a well-formed but unanswered
		// response; it borrows KindMalformed's next-server-or-exhausted shape
		// once ContinueOnEmptyResponse has already gated classification into
		// this outcome (spec.md §4.4). Unlike a genuinely malformed message,
		// exhausting every server here still hands back the last (empty)
		// response instead of an error, since the bytes on the wire were
		// perfectly valid DNS.
		a := decide(KindMalformed, opts, isLastTry, isLastServer, 0)
		if a == actionThrow {
			return parsed, nil, actionReturnResponse
		}
		return parsed, newQueryError(KindMalformed, server, ErrMalformed), a

	default:
		return parsed, nil, actionReturnResponse
	}
}

// kindOf extracts the ErrorKind carried by err, defaulting to TransientIO
// for an error the transports didn't already classify.
func kindOf(err error) ErrorKind {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return KindTransientIO
}

func shuffleEndpoints(s []*ServerEndpoint) {
	rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}
