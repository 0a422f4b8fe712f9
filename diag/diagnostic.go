package diag

import (
	"fmt"

	"github.com/crystalshelf/cif/location"
)

// Diagnostic is a single structured finding against a Document, produced by
// the parser (CategorySyntax only) or the validator. It is immutable once
// built; the zero value is deliberately unusable (Collector.Add panics on
// it) so that a Diagnostic can only reach a Collector through NewError or
// NewWarning.
type Diagnostic struct {
	category    Category
	message     string
	span        location.Span
	dataName    string
	expected    string
	actual      string
	suggestions []string
	built       bool
}

// Option customizes the optional fields of a Diagnostic at construction.
type Option func(*Diagnostic)

// WithDataName attaches the canonical data name the diagnostic concerns.
func WithDataName(name string) Option {
	return func(d *Diagnostic) { d.dataName = name }
}

// WithExpected attaches a human-readable description of the expected shape
// or value.
func WithExpected(expected string) Option {
	return func(d *Diagnostic) { d.expected = expected }
}

// WithActual attaches a human-readable description of what was found.
func WithActual(actual string) Option {
	return func(d *Diagnostic) { d.actual = actual }
}

// WithSuggestions attaches up to a handful of nearest-candidate strings
// (close aliases, enumeration members) for the diagnostic message.
func WithSuggestions(suggestions ...string) Option {
	return func(d *Diagnostic) { d.suggestions = append([]string(nil), suggestions...) }
}

// NewError builds an error-severity Diagnostic. It panics if cat is not an
// error category: mismatching a category's fixed severity is a programmer
// error, not something a caller should be able to smuggle past the type
// system via the wrong constructor.
func NewError(cat Category, message string, span location.Span, opts ...Option) Diagnostic {
	if cat.Severity() != SeverityError {
		panic(fmt.Sprintf("diag: %s is not an error category", cat))
	}
	return build(cat, message, span, opts)
}

// NewWarning builds a warning-severity Diagnostic. It panics if cat is not
// a warning category.
func NewWarning(cat Category, message string, span location.Span, opts ...Option) Diagnostic {
	if cat.Severity() != SeverityWarning {
		panic(fmt.Sprintf("diag: %s is not a warning category", cat))
	}
	return build(cat, message, span, opts)
}

func build(cat Category, message string, span location.Span, opts []Option) Diagnostic {
	d := Diagnostic{category: cat, message: message, span: span, built: true}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func (d Diagnostic) Category() Category      { return d.category }
func (d Diagnostic) Severity() Severity      { return d.category.Severity() }
func (d Diagnostic) Message() string         { return d.message }
func (d Diagnostic) Span() location.Span     { return d.span }
func (d Diagnostic) DataName() string        { return d.dataName }
func (d Diagnostic) Expected() string        { return d.expected }
func (d Diagnostic) Actual() string          { return d.actual }
func (d Diagnostic) Suggestions() []string   { return d.suggestions }

// Render produces the canonical single-line rendering from spec §4.5:
// "<file>:<startL>:<startC>: <category>: <message>".
func (d Diagnostic) Render() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s",
		d.span.Source, d.span.Start.Line, d.span.Start.Column, d.category, d.message)
}
