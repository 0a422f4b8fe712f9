package location

import "fmt"

// Span covers [Start, End) within a single Source, per spec §3: 1-indexed,
// inclusive of the start position, exclusive of the end column by
// convention. The zero Span means "no location" and is used sparingly —
// spec §8 requires every Value in a parsed Document to carry a non-empty
// Span.
type Span struct {
	Source SourceID
	Start  Position
	End    Position
}

// IsZero reports whether the span carries no location information.
func (s Span) IsZero() bool {
	return s.Source.IsZero() && s.Start.IsZero() && s.End.IsZero()
}

// Point builds a single-point Span where Start == End, used for tokens
// that occupy no more than the point at which they were recognized (rare
// in CIF; most tokens span at least one byte).
func Point(source SourceID, line, col int) Span {
	p := Position{Line: line, Column: col}
	return Span{Source: source, Start: p, End: p}
}

// New builds a range Span from explicit start/end line/column pairs.
func New(source SourceID, startLine, startCol, endLine, endCol int) Span {
	return Span{
		Source: source,
		Start:  Position{Line: startLine, Column: startCol},
		End:    Position{Line: endLine, Column: endCol},
	}
}

// Merge returns the smallest Span covering both a and b. Panics if a and b
// come from different sources — callers merge spans within one parse pass
// only.
func Merge(a, b Span) Span {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	if a.Source != b.Source {
		panic(fmt.Sprintf("location.Merge: source mismatch %q vs %q", a.Source, b.Source))
	}
	start, end := a.Start, a.End
	if b.Start.Before(start) {
		start = b.Start
	}
	if end.Before(b.End) {
		end = b.End
	}
	return Span{Source: a.Source, Start: start, End: end}
}

// Compare orders spans by Source, then Start, then End.
func Compare(a, b Span) int {
	if a.Source != b.Source {
		if a.Source < b.Source {
			return -1
		}
		return 1
	}
	if a.Start != b.Start {
		if a.Start.Before(b.Start) {
			return -1
		}
		return 1
	}
	if a.End != b.End {
		if a.End.Before(b.End) {
			return -1
		}
		return 1
	}
	return 0
}

// String renders "source:startLine:startCol-endLine:endCol", or
// "<no location>" for the zero Span.
func (s Span) String() string {
	if s.IsZero() {
		return "<no location>"
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", s.Source, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}
