/*
Package cif provides a permissive lexer, AST builder, and canonical writer
for the Crystallographic Information File format, covering both CIF 1.1 and
the CIF 2.0 extensions (triple-quoted strings, bracketed lists, braced
tables). Every Value, Item, Loop, SaveFrame and DataBlock carries the
location.Span it was parsed from, so callers building diagnostics on top of
a Document never need to re-derive source positions.

Parsing never fails outright on malformed input: ParseAll and ParseString
return the largest Document they could recover, plus one diag.Diagnostic
for each lexical or structural break, after which parsing resumes at the
next data_ keyword. Everything short of that is left for the validate
package to report, since this package
does not interpret DDLm dictionaries or enforce data-name semantics.
*/
package cif
