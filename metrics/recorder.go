package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder wraps a set of Prometheus collectors registered against either a
// caller-supplied prometheus.Registerer or a private, unregistered registry
// created by NewUnregistered. It never touches prometheus.DefaultRegisterer unless the
// caller explicitly passes it in.
type Recorder struct {
	parseTotal       *prometheus.CounterVec
	parseBlocks      prometheus.Histogram
	validateTotal    *prometheus.CounterVec
	validateDuration prometheus.Histogram
	diagnosticsTotal *prometheus.CounterVec
}

// New builds a Recorder and registers its collectors against reg. Pass
// prometheus.NewRegistry() for an isolated registry, or
// prometheus.DefaultRegisterer to expose metrics on the process-wide
// default /metrics endpoint.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		parseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cif",
			Subsystem: "parse",
			Name:      "total",
			Help:      "Number of ParseAll/ParseString calls, by outcome.",
		}, []string{"outcome"}),
		parseBlocks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cif",
			Subsystem: "parse",
			Name:      "blocks",
			Help:      "Number of data blocks recovered per parse.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		validateTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cif",
			Subsystem: "validate",
			Name:      "total",
			Help:      "Number of Validator.Validate calls, by outcome.",
		}, []string{"outcome"}),
		validateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cif",
			Subsystem: "validate",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of a single Validate call.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		diagnosticsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cif",
			Subsystem: "validate",
			Name:      "diagnostics_total",
			Help:      "Number of diagnostics emitted, by category.",
		}, []string{"category"}),
	}
	reg.MustRegister(r.parseTotal, r.parseBlocks, r.validateTotal,
		r.validateDuration, r.diagnosticsTotal)
	return r
}

// NewUnregistered builds a Recorder against a fresh, private
// prometheus.Registry that is never exposed on any HTTP handler by this
// package. Useful for tests and for callers who only want programmatic
// access to current values.
func NewUnregistered() *Recorder {
	return New(prometheus.NewRegistry())
}

// ObserveParse records one ParseAll/ParseString call. r may be nil.
func (r *Recorder) ObserveParse(blocks, diagnostics int) {
	if r == nil {
		return
	}
	outcome := "clean"
	if diagnostics > 0 {
		outcome = "syntax_error"
	}
	r.parseTotal.WithLabelValues(outcome).Inc()
	r.parseBlocks.Observe(float64(blocks))
}

// ObserveValidate records one Validator.Validate call. r may be nil.
func (r *Recorder) ObserveValidate(seconds float64, errorCount, warningCount int) {
	if r == nil {
		return
	}
	outcome := "ok"
	if errorCount > 0 {
		outcome = "failed"
	}
	r.validateTotal.WithLabelValues(outcome).Inc()
	r.validateDuration.Observe(seconds)
	_ = warningCount
}

// ObserveDiagnostic increments the per-category diagnostic counter. r may
// be nil.
func (r *Recorder) ObserveDiagnostic(category string) {
	if r == nil {
		return
	}
	r.diagnosticsTotal.WithLabelValues(category).Inc()
}
