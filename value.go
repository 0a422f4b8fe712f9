package cif

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/crystalshelf/cif/internal/ordered"
	"github.com/crystalshelf/cif/location"
)

// Kind discriminates the variant held by a Value. Value is a closed tagged
// union rather than an interface hierarchy: every possible CIF datum is one
// of these seven kinds, and callers switch on Kind instead of type-asserting
// concrete implementations.
type Kind int

const (
	// KindText holds UTF-8 text, regardless of which of the three textual
	// delimiters (quoted, triple-quoted, semicolon text field) produced it.
	KindText Kind = iota
	// KindNumeric holds a bare number with no attached uncertainty.
	KindNumeric
	// KindNumericWithUncertainty holds a number written as "12.34(5)".
	KindNumericWithUncertainty
	// KindUnknown holds the literal "?".
	KindUnknown
	// KindNotApplicable holds the literal "." in value position.
	KindNotApplicable
	// KindList holds a CIF 2.0 bracketed list, possibly nested or empty.
	KindList
	// KindTable holds a CIF 2.0 braced table with ordered string keys.
	KindTable
)

// String renders the Kind's name, used in diagnostic "expected"/"actual"
// fields and in error messages.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindNumeric:
		return "Numeric"
	case KindNumericWithUncertainty:
		return "NumericWithUncertainty"
	case KindUnknown:
		return "Unknown"
	case KindNotApplicable:
		return "NotApplicable"
	case KindList:
		return "List"
	case KindTable:
		return "Table"
	default:
		return "Invalid"
	}
}

// Value is a single CIF datum together with the span it occupied in source.
// It is immutable once constructed; List and Table elements are themselves
// Values, so composite values form a tree.
//
// Only the fields relevant to Kind are meaningful; the zero value of the
// others is unused filler. Use the Is* predicates and the typed accessors
// rather than reading fields directly from outside this package.
type Value struct {
	kind        Kind
	span        location.Span
	text        string
	numeric     float64
	uncertainty float64
	list        []Value
	table       *ordered.Map[Value]
}

// Span returns the source location this value was parsed from. Values built
// programmatically (rather than by the parser) carry whatever Span their
// constructor was given.
func (v Value) Span() location.Span { return v.span }

// Kind returns the discriminant of this value.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsText() bool                   { return v.kind == KindText }
func (v Value) IsNumeric() bool                { return v.kind == KindNumeric }
func (v Value) IsNumericWithUncertainty() bool { return v.kind == KindNumericWithUncertainty }
func (v Value) IsUnknown() bool                { return v.kind == KindUnknown }
func (v Value) IsNotApplicable() bool          { return v.kind == KindNotApplicable }
func (v Value) IsList() bool                   { return v.kind == KindList }
func (v Value) IsTable() bool                  { return v.kind == KindTable }

// IsSpecial reports whether the value is one of the two CIF placeholder
// literals ("?" or "."), which validation always accepts unconditionally
// (spec §4.4 step 3).
func (v Value) IsSpecial() bool { return v.IsUnknown() || v.IsNotApplicable() }

// TextValue returns the held string and true if this value is KindText.
func (v Value) TextValue() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// NumericValue returns the held number and true if this value is KindNumeric
// or KindNumericWithUncertainty. For the latter, the central value (not the
// uncertainty) is returned, matching spec §4.4 step 5's "central value" rule.
func (v Value) NumericValue() (float64, bool) {
	if v.kind != KindNumeric && v.kind != KindNumericWithUncertainty {
		return 0, false
	}
	return v.numeric, true
}

// UncertaintyValue returns the parenthesized uncertainty and true only for
// KindNumericWithUncertainty.
func (v Value) UncertaintyValue() (float64, bool) {
	if v.kind != KindNumericWithUncertainty {
		return 0, false
	}
	return v.uncertainty, true
}

// ListValue returns the held element slice and true if this value is
// KindList. The returned slice must not be mutated by the caller.
func (v Value) ListValue() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// TableValue returns the held ordered map and true if this value is
// KindTable.
func (v Value) TableValue() (*ordered.Map[Value], bool) {
	if v.kind != KindTable {
		return nil, false
	}
	return v.table, true
}

// NewText builds a KindText value.
func NewText(span location.Span, s string) Value {
	return Value{kind: KindText, span: span, text: s}
}

// NewNumeric builds a KindNumeric value.
func NewNumeric(span location.Span, f float64) Value {
	return Value{kind: KindNumeric, span: span, numeric: f}
}

// NewNumericWithUncertainty builds a KindNumericWithUncertainty value.
// uncertainty must be non-negative per spec §3's Value invariant; callers in
// this package (the AST builder's numericValue) are expected to have already enforced that, so
// this constructor does not re-validate.
func NewNumericWithUncertainty(span location.Span, value, uncertainty float64) Value {
	return Value{kind: KindNumericWithUncertainty, span: span, numeric: value, uncertainty: uncertainty}
}

// NewUnknown builds a KindUnknown ("?") value.
func NewUnknown(span location.Span) Value {
	return Value{kind: KindUnknown, span: span}
}

// NewNotApplicable builds a KindNotApplicable (".") value.
func NewNotApplicable(span location.Span) Value {
	return Value{kind: KindNotApplicable, span: span}
}

// NewList builds a KindList value. elems is copied defensively.
func NewList(span location.Span, elems []Value) Value {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return Value{kind: KindList, span: span, list: cp}
}

// NewTable builds a KindTable value. m is retained by reference; callers
// should not mutate it after handing it to NewTable. Pass nil for an empty
// table.
func NewTable(span location.Span, m *ordered.Map[Value]) Value {
	if m == nil {
		m = ordered.New[Value](0)
	}
	return Value{kind: KindTable, span: span, table: m}
}

// Clone returns a value with the same content but detached from any shared
// backing storage: List and Table variants are deep-copied, per the
// ownership rule in spec §4.2 ("copying is by value for scalars or by deep
// clone for List/Table").
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		cp := make([]Value, len(v.list))
		for i, e := range v.list {
			cp[i] = e.Clone()
		}
		v.list = cp
	case KindTable:
		v.table = v.table.Clone()
	}
	return v
}

// String renders a human-readable, non-canonical form of the value, used in
// diagnostics ("actual" fields) and debugging. It is not the serializer; see
// Document.WriteTo for canonical CIF output.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumeric:
		return strconv.FormatFloat(v.numeric, 'g', -1, 64)
	case KindNumericWithUncertainty:
		return fmt.Sprintf("%s(%s)",
			strconv.FormatFloat(v.numeric, 'g', -1, 64),
			strconv.FormatFloat(v.uncertainty, 'g', -1, 64))
	case KindUnknown:
		return "?"
	case KindNotApplicable:
		return "."
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	case KindTable:
		parts := make([]string, 0, v.table.Len())
		for _, k := range v.table.Keys() {
			e, _ := v.table.Get(k)
			parts = append(parts, fmt.Sprintf("%q:%s", k, e.String()))
		}
		return "{" + strings.Join(parts, " ") + "}"
	default:
		return ""
	}
}
