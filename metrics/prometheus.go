// Package metrics provides a Prometheus-backed implementation of
// resolve.Recorder. It is a separate package specifically so that
// importing prometheus stays optional: a Client works fine with its
// default resolve.NoopRecorder, and only pulls in
// github.com/prometheus/client_golang when a caller wires this package in.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements resolve.Recorder by registering five
// metrics on the supplied registerer, named the way SPEC_FULL.md §12 lists
// them. It never imports the resolve package itself; Go's structural
// interface satisfaction is enough to let a *PrometheusRecorder be passed
// straight to resolve.WithRecorder.
type PrometheusRecorder struct {
	attempts *prometheus.CounterVec
	cacheHit prometheus.Counter
	cacheMis prometheus.Counter
	duration prometheus.Histogram
	errors   *prometheus.CounterVec
}

// NewPrometheusRecorder registers its metrics on reg and returns the
// recorder. Passing prometheus.DefaultRegisterer matches the common case of
// a process exposing /metrics globally.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dnsresolve_query_attempts_total",
			Help: "Number of wire exchanges attempted, labeled by transport and outcome.",
		}, []string{"transport", "outcome"}),
		cacheHit: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dnsresolve_cache_hits_total",
			Help: "Number of query lookups served from the response cache.",
		}),
		cacheMis: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dnsresolve_cache_misses_total",
			Help: "Number of query lookups not found in the response cache.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dnsresolve_query_duration_seconds",
			Help:    "End-to-end Query call duration, including cache lookup and retries.",
			Buckets: prometheus.DefBuckets,
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dnsresolve_errors_total",
			Help: "Number of terminal and intermediate errors, labeled by error kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(r.attempts, r.cacheHit, r.cacheMis, r.duration, r.errors)
	return r
}

func (r *PrometheusRecorder) ObserveAttempt(transport, outcome string) {
	r.attempts.WithLabelValues(transport, outcome).Inc()
}

func (r *PrometheusRecorder) ObserveCacheHit()  { r.cacheHit.Inc() }
func (r *PrometheusRecorder) ObserveCacheMiss() { r.cacheMis.Inc() }

func (r *PrometheusRecorder) ObserveDuration(seconds float64) { r.duration.Observe(seconds) }

func (r *PrometheusRecorder) ObserveError(kind string) { r.errors.WithLabelValues(kind).Inc() }
