// Package diag implements the diagnostic model shared by the parser and
// the validator: a closed taxonomy of error and warning categories, an
// immutable Diagnostic type buildable only through its constructors, and a
// Collector that accumulates diagnostics into a deterministically ordered
// Result.
package diag
