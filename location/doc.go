// Package location provides source-position bookkeeping shared by the
// cif, dict, and validate packages.
//
// A Span never carries the text it covers; diagnostics and AST nodes store
// Spans and re-read source text only when rendering needs it (and usually
// they don't — the canonical diagnostic rendering in diag is string-only).
package location
