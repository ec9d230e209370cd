package resolve

// Recorder is the metrics capability the engine calls on every attempt,
// cache lookup and failed attempt (SPEC_FULL.md §12). Kept as a narrow,
// primitive-typed interface in the core package so a Prometheus-backed
// implementation living in a separate subpackage (metrics.PrometheusRecorder) can
// satisfy it without the core importing prometheus, avoiding an import
// cycle back into this package.
type Recorder interface {
	ObserveAttempt(transport string, outcome string)
	ObserveCacheHit()
	ObserveCacheMiss()
	ObserveDuration(seconds float64)
	ObserveError(kind string)
}

// NoopRecorder discards every observation; it is the engine's default.
type NoopRecorder struct{}

func (NoopRecorder) ObserveAttempt(string, string) {}
func (NoopRecorder) ObserveCacheHit()               {}
func (NoopRecorder) ObserveCacheMiss()              {}
func (NoopRecorder) ObserveDuration(float64)        {}
func (NoopRecorder) ObserveError(string)            {}
