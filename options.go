package resolve

import (
	"errors"
	"time"
)

// Infinite is the sentinel duration meaning "no timeout"/"never expire",
// per spec.md §6.3 validation rules.
const Infinite time.Duration = -1

// maxConfigurableDuration bounds any configurable duration to roughly 24
// days, matching spec.md §6.3 ("or the sentinel infinite").
const maxConfigurableDuration = 24 * 24 * time.Hour

// QueryOptions is the recognized configuration surface from spec.md §6.3.
// A zero-value QueryOptions is not directly usable; call DefaultOptions and
// override fields, or pass With* functional options to Query.
type QueryOptions struct {
	Recursion                 bool
	UseCache                  bool
	EnableAuditTrail          bool
	Retries                   int
	ThrowDNSErrors            bool
	Timeout                   time.Duration
	UseTCPFallback            bool
	UseTCPOnly                bool
	ContinueOnDNSError        bool
	ContinueOnEmptyResponse   bool
	UseRandomNameServer       bool
	ExtendedDNSBufferSize     uint16
	RequestDNSSECRecords      bool
	CacheFailedResults        bool
	FailedResultsCacheDuration time.Duration
	MinimumCacheTimeout       time.Duration
	MaximumCacheTimeout       time.Duration
	AutoResolveNameServers    bool

	// Servers, when non-empty, overrides the roster entirely for this call.
	// Per spec.md §9 "Open Question", this NEVER merges with
	// AutoResolveNameServers-discovered servers, even when
	// AutoResolveNameServers is also true. This is documented, intentional
	// behavior carried over unchanged; see DESIGN.md.
	Servers []*ServerEndpoint
}

// DefaultOptions returns the documented defaults from spec.md §6.3.
func DefaultOptions() QueryOptions {
	return QueryOptions{
		Recursion:                  true,
		UseCache:                   true,
		EnableAuditTrail:           false,
		Retries:                    2,
		ThrowDNSErrors:             false,
		Timeout:                    5 * time.Second,
		UseTCPFallback:             true,
		UseTCPOnly:                 false,
		ContinueOnDNSError:         true,
		ContinueOnEmptyResponse:    true,
		UseRandomNameServer:        true,
		ExtendedDNSBufferSize:      4096,
		RequestDNSSECRecords:       false,
		CacheFailedResults:         false,
		FailedResultsCacheDuration: 5 * time.Second,
		MinimumCacheTimeout:        0,
		MaximumCacheTimeout:        0,
		AutoResolveNameServers:     true,
	}
}

// Option mutates a QueryOptions snapshot; used with Client.Query's and
// Client.QueryAsync's variadic overrides.
type Option func(*QueryOptions)

func WithTimeout(d time.Duration) Option        { return func(o *QueryOptions) { o.Timeout = d } }
func WithRetries(n int) Option                  { return func(o *QueryOptions) { o.Retries = n } }
func WithUseCache(b bool) Option                { return func(o *QueryOptions) { o.UseCache = b } }
func WithUseTCPOnly(b bool) Option              { return func(o *QueryOptions) { o.UseTCPOnly = b } }
func WithUseTCPFallback(b bool) Option          { return func(o *QueryOptions) { o.UseTCPFallback = b } }
func WithThrowDNSErrors(b bool) Option          { return func(o *QueryOptions) { o.ThrowDNSErrors = b } }
func WithContinueOnDNSError(b bool) Option      { return func(o *QueryOptions) { o.ContinueOnDNSError = b } }
func WithContinueOnEmptyResponse(b bool) Option { return func(o *QueryOptions) { o.ContinueOnEmptyResponse = b } }
func WithRandomNameServer(b bool) Option        { return func(o *QueryOptions) { o.UseRandomNameServer = b } }
func WithRecursion(b bool) Option               { return func(o *QueryOptions) { o.Recursion = b } }
func WithDNSSEC(b bool) Option                  { return func(o *QueryOptions) { o.RequestDNSSECRecords = b } }
func WithExtendedDNSBufferSize(n uint16) Option { return func(o *QueryOptions) { o.ExtendedDNSBufferSize = n } }
func WithCacheFailedResults(b bool) Option      { return func(o *QueryOptions) { o.CacheFailedResults = b } }
func WithFailedResultsCacheDuration(d time.Duration) Option {
	return func(o *QueryOptions) { o.FailedResultsCacheDuration = d }
}
func WithMinimumCacheTimeout(d time.Duration) Option {
	return func(o *QueryOptions) { o.MinimumCacheTimeout = d }
}
func WithMaximumCacheTimeout(d time.Duration) Option {
	return func(o *QueryOptions) { o.MaximumCacheTimeout = d }
}
func WithAutoResolveNameServers(b bool) Option {
	return func(o *QueryOptions) { o.AutoResolveNameServers = b }
}
func WithServers(servers ...*ServerEndpoint) Option {
	return func(o *QueryOptions) { o.Servers = servers }
}
func WithAuditTrail(b bool) Option { return func(o *QueryOptions) { o.EnableAuditTrail = b } }

var (
	ErrInvalidTimeout             = errors.New("resolve: timeout must be positive or Infinite")
	ErrInvalidMinimumCacheTimeout = errors.New("resolve: minimum cache timeout must be positive or Infinite")
	ErrInvalidMaximumCacheTimeout = errors.New("resolve: maximum cache timeout must be positive or Infinite")
	ErrInvalidFailedResultsCacheDuration = errors.New("resolve: failed results cache duration must be positive or Infinite")
)

// Validate enforces spec.md §6.3's duration constraints. A zero
// MinimumCacheTimeout/MaximumCacheTimeout is silently treated as "unset"
// and is not an error.
func (o QueryOptions) Validate() error {
	if err := validateDuration(o.Timeout, false); err != nil {
		return ErrInvalidTimeout
	}
	if o.MinimumCacheTimeout != 0 {
		if err := validateDuration(o.MinimumCacheTimeout, false); err != nil {
			return ErrInvalidMinimumCacheTimeout
		}
	}
	if o.MaximumCacheTimeout != 0 {
		if err := validateDuration(o.MaximumCacheTimeout, false); err != nil {
			return ErrInvalidMaximumCacheTimeout
		}
	}
	if err := validateDuration(o.FailedResultsCacheDuration, false); err != nil {
		return ErrInvalidFailedResultsCacheDuration
	}
	return nil
}

func validateDuration(d time.Duration, allowZeroAsUnset bool) error {
	if d == Infinite {
		return nil
	}
	if d <= 0 {
		return errors.New("must be positive or Infinite")
	}
	if d > maxConfigurableDuration {
		return errors.New("exceeds the maximum configurable duration")
	}
	return nil
}

// clampedBufferSize enforces spec.md §4.3's [512, 4096] clamp.
func (o QueryOptions) clampedBufferSize() uint16 {
	switch {
	case o.ExtendedDNSBufferSize < 512:
		return 512
	case o.ExtendedDNSBufferSize > 4096:
		return 4096
	default:
		return o.ExtendedDNSBufferSize
	}
}

// needsEDNS implements spec.md §4.3's inclusion rule.
func (o QueryOptions) needsEDNS() bool {
	return o.ExtendedDNSBufferSize > 512 || o.RequestDNSSECRecords
}

// snapshot returns a defensive copy so later mutation of the caller's
// options cannot alter in-flight behavior (spec.md §3 "Request").
func (o QueryOptions) snapshot() QueryOptions {
	cp := o
	if len(o.Servers) > 0 {
		cp.Servers = append([]*ServerEndpoint(nil), o.Servers...)
	}
	return cp
}
