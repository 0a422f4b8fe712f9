// Package metrics provides optional Prometheus instrumentation for parse
// and validate throughput. Every exported method has a nil-safe receiver:
// a *Recorder obtained by zero value or never constructed is a valid no-op,
// so instrumentation never sits on the correctness path of cif or
// validate.
package metrics
