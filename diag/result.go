package diag

import "strings"

// Result is an immutable, deterministically ordered snapshot of everything
// a Collector accumulated: sorted by (span.Start.Line, span.Start.Column),
// stable on ties by insertion order (spec §4.4's final paragraph).
type Result struct {
	diagnostics []Diagnostic
	errorCount  int
	warnCount   int
}

// Diagnostics returns every diagnostic in canonical order. The returned
// slice must not be mutated by the caller.
func (r Result) Diagnostics() []Diagnostic { return r.diagnostics }

// ErrorCount returns the number of error-severity diagnostics.
func (r Result) ErrorCount() int { return r.errorCount }

// WarningCount returns the number of warning-severity diagnostics.
func (r Result) WarningCount() int { return r.warnCount }

// OK reports whether the result carries no errors. Warnings do not affect
// OK: spec.md treats only errors as validation failure.
func (r Result) OK() bool { return r.errorCount == 0 }

// Render joins every diagnostic's canonical one-line rendering, one per
// line, in Result order.
func (r Result) Render() string {
	lines := make([]string, len(r.diagnostics))
	for i, d := range r.diagnostics {
		lines[i] = d.Render()
	}
	return strings.Join(lines, "\n")
}
