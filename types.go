package cif

import (
	"github.com/crystalshelf/cif/location"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tagFold performs the locale-independent case fold used for tag and name
// comparison throughout this package, rather than a byte-wise
// strings.ToLower: dictionary and data names are not guaranteed to be
// ASCII (spec §3's Tag is "any non-blank, non-delimiter UTF-8 text").
var tagFold = cases.Lower(language.Und)

// Tag is a CIF data name, beginning with "_". Comparison for lookup purposes
// is always case-insensitive; the original casing is retained for
// re-serialization and diagnostic messages (spec §3 "Tag").
type Tag string

// Canonical returns the lowercased form used for dictionary lookup and tag
// comparison.
func (t Tag) Canonical() string { return tagFold.String(string(t)) }

// Equal reports whether t and other name the same data item, ignoring case.
func (t Tag) Equal(other Tag) bool { return t.Canonical() == other.Canonical() }

// Item is a single (tag, value) pair together with the span of the whole
// "tag value" construct (spec §3 "Item").
type Item struct {
	Tag   Tag
	Value Value
	Span  location.Span
}

// Loop is an ordered header of tags and a row-major table of values (spec §3
// "Loop"). Every row has exactly len(Tags) values; Rows is nil-safe empty
// for a structurally degenerate zero-column loop. The lexer reports a loop_
// with no tags as a syntax error, but the builder still records the empty
// Loop, and the validator flags it as LoopStructure (spec §4.4 step 7).
type Loop struct {
	Tags []Tag
	Rows [][]Value
	Span location.Span

	// RawCount is the number of flat values the parser actually read for
	// this loop before reshaping them into Rows. It equals
	// len(Tags)*len(Rows) for a well-formed loop; a mismatch means the
	// source loop's value count was not a multiple of its header length,
	// which the parser tolerates (dropping the trailing partial row) and
	// the validator reports as LoopStructure (spec §4.4 step 7).
	RawCount int
}

// NumColumns returns the number of tags in the loop header.
func (l Loop) NumColumns() int { return len(l.Tags) }

// NumRows returns the number of data rows.
func (l Loop) NumRows() int { return len(l.Rows) }

// ColumnIndex returns the position of tag within the header, or -1 if the
// loop has no such column. Comparison is case-insensitive.
func (l Loop) ColumnIndex(tag Tag) int {
	for i, t := range l.Tags {
		if t.Equal(tag) {
			return i
		}
	}
	return -1
}

// HasTag reports whether tag is a column of this loop.
func (l Loop) HasTag(tag Tag) bool { return l.ColumnIndex(tag) >= 0 }

// Column returns every value in tag's column, top to bottom, and true if the
// loop has that column.
func (l Loop) Column(tag Tag) ([]Value, bool) {
	i := l.ColumnIndex(tag)
	if i < 0 {
		return nil, false
	}
	vals := make([]Value, len(l.Rows))
	for r, row := range l.Rows {
		vals[r] = row[i]
	}
	return vals, true
}

// Cell returns the value at (row, tag), and true if the row and column both
// exist.
func (l Loop) Cell(row int, tag Tag) (Value, bool) {
	i := l.ColumnIndex(tag)
	if i < 0 || row < 0 || row >= len(l.Rows) {
		return Value{}, false
	}
	return l.Rows[row][i], true
}

// Block holds the items and loops common to both DataBlocks and SaveFrames
// (spec §3 groups these fields identically under DataBlock and SaveFrame;
// this mirrors that shared shape as a single embeddable type, the way the
// teacher package distinguishes a DataBlock from a SaveFrame only by what
// additionally wraps a shared Block).
type Block struct {
	Name  string
	Items []Item
	Loops []Loop
	Span  location.Span
}

// Item returns the first bare item with the given tag (case-insensitive),
// and true if found. It does not search loop columns.
func (b Block) Item(tag string) (Item, bool) {
	t := Tag(tag)
	for _, it := range b.Items {
		if it.Tag.Equal(t) {
			return it, true
		}
	}
	return Item{}, false
}

// LoopAt returns the i'th loop declared in this block or frame, in source
// order.
func (b Block) LoopAt(i int) (Loop, bool) {
	if i < 0 || i >= len(b.Loops) {
		return Loop{}, false
	}
	return b.Loops[i], true
}

// LoopWithTag returns the first loop containing tag as a column, and true if
// one exists.
func (b Block) LoopWithTag(tag string) (Loop, bool) {
	t := Tag(tag)
	for _, lp := range b.Loops {
		if lp.HasTag(t) {
			return lp, true
		}
	}
	return Loop{}, false
}

// SaveFrame is a named, non-nesting grouping of items and loops within a
// DataBlock (spec §3 "SaveFrame").
type SaveFrame struct {
	Block
}

// DataBlock is a named top-level grouping of items, loops, and save frames
// (spec §3 "DataBlock").
type DataBlock struct {
	Block
	Frames []SaveFrame
}

// FrameByName returns the save frame with the given name (case-insensitive),
// and true if found.
func (d DataBlock) FrameByName(name string) (SaveFrame, bool) {
	want := tagFold.String(name)
	for _, f := range d.Frames {
		if tagFold.String(f.Name) == want {
			return f, true
		}
	}
	return SaveFrame{}, false
}

// Version identifies which CIF grammar generation a Document was read as.
type Version int

const (
	// VersionUnspecified means no "#\#CIF_2.0" magic comment was seen; the
	// document is treated as CIF 1.1 but CIF 2.0 constructs encountered in
	// it (lists, tables) are still accepted, per spec §4.1's note that the
	// parser never gates grammar on the version flag.
	VersionUnspecified Version = iota
	VersionCIF1_1
	VersionCIF2_0
)

func (v Version) String() string {
	switch v {
	case VersionCIF1_1:
		return "CIF_1.1"
	case VersionCIF2_0:
		return "CIF_2.0"
	default:
		return "unspecified"
	}
}

// Document is the root of a parsed CIF file: an ordered list of data blocks
// plus the version flag derived from the byte-zero magic comment (spec §3
// "Document"). A Document is immutable once returned from ParseAll /
// ParseString.
type Document struct {
	Version Version
	Source  location.SourceID
	Blocks  []DataBlock
}

// BlockByName returns the data block with the given name (case-insensitive),
// and true if found.
func (d Document) BlockByName(name string) (DataBlock, bool) {
	want := tagFold.String(name)
	for _, b := range d.Blocks {
		if tagFold.String(b.Name) == want {
			return b, true
		}
	}
	return DataBlock{}, false
}

// FirstBlock returns the first data block in source order, and true if the
// document has at least one.
func (d Document) FirstBlock() (DataBlock, bool) {
	if len(d.Blocks) == 0 {
		return DataBlock{}, false
	}
	return d.Blocks[0], true
}
