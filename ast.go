package cif

import (
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/crystalshelf/cif/diag"
	"github.com/crystalshelf/cif/internal/ordered"
	"github.com/crystalshelf/cif/location"
)

// astBuilder folds the flat item stream produced by the lexer into a
// Document, following the state machine described for the AST builder:
// TopLevel -> InBlock -> (InLoopHeader -> InLoopBody) | InFrame.
type astBuilder struct {
	lx     *lexer
	source location.SourceID
	log    *slog.Logger

	peeked    *item
	version   Version
	blocks    []DataBlock
	curBlock  *DataBlock
	curFrame  *SaveFrame
	inFrame   bool
	diags     []diag.Diagnostic
}

func newASTBuilder(source location.SourceID, input string, log *slog.Logger) *astBuilder {
	if log == nil {
		log = slog.Default()
	}
	return &astBuilder{lx: lex(source, input), source: source, log: log}
}

func (b *astBuilder) next() item {
	if b.peeked != nil {
		it := *b.peeked
		b.peeked = nil
		return it
	}
	return b.lx.nextItem()
}

func (b *astBuilder) peek() item {
	if b.peeked == nil {
		it := b.lx.nextItem()
		b.peeked = &it
	}
	return *b.peeked
}

// build runs the top-level loop until EOF, returning the built Document
// and every diagnostic raised along the way. A lexical or structural error
// inside one block resynchronizes at the next data_ keyword rather than
// aborting the parse, so the Document always holds every block recovered,
// not just those before the first error.
func (b *astBuilder) build() (*Document, []diag.Diagnostic) {
	for {
		it := b.peek()
		switch it.typ {
		case itemEOF:
			b.finishCurrent()
			return b.document(), b.diags
		case itemError:
			b.next()
			b.finishCurrent()
			b.diags = append(b.diags, diag.NewError(diag.CategorySyntax, it.val, it.span))
		case itemVersion:
			b.next()
			b.version = versionFromMagic(it.val)
		case itemComment, itemGlobal:
			b.next()
		case itemDataBlockStart:
			b.next()
			b.finishCurrent()
			name := it.val
			b.curBlock = &DataBlock{Block: Block{Name: name, Span: it.span}}
		case itemSaveFrameStart:
			b.next()
			name := it.val
			b.curFrame = &SaveFrame{Block: Block{Name: name, Span: it.span}}
			b.inFrame = true
		case itemSaveFrameEnd:
			end := b.next()
			if b.curFrame != nil && b.curBlock != nil {
				b.curFrame.Span = location.Merge(b.curFrame.Span, end.span)
				b.curBlock.Frames = append(b.curBlock.Frames, *b.curFrame)
			}
			b.curFrame = nil
			b.inFrame = false
		case itemLoop:
			loopStart := b.next()
			lp, fatal := b.readLoop(loopStart.span)
			if fatal != nil {
				b.diags = append(b.diags, *fatal)
				b.finishCurrent()
				continue
			}
			b.appendLoop(lp)
		case itemDataTag:
			tagItem := b.next()
			val, fatal := b.readValue()
			if fatal != nil {
				b.diags = append(b.diags, *fatal)
				b.finishCurrent()
				continue
			}
			it := Item{Tag: Tag(tagItem.val), Value: val, Span: location.Merge(tagItem.span, val.Span())}
			b.appendItem(it)
		default:
			// Anything else at this level (a stray value, an unexpected
			// table/list delimiter) cannot be classified structurally;
			// skip it and keep going rather than aborting the whole parse,
			// per the permissiveness policy.
			b.next()
		}
	}
}

func (b *astBuilder) document() *Document {
	return &Document{Version: b.version, Source: b.source, Blocks: b.blocks}
}

func (b *astBuilder) finishCurrent() {
	if b.inFrame && b.curFrame != nil && b.curBlock != nil {
		b.curBlock.Frames = append(b.curBlock.Frames, *b.curFrame)
		b.curFrame = nil
		b.inFrame = false
	}
	if b.curBlock != nil {
		b.blocks = append(b.blocks, *b.curBlock)
		b.curBlock = nil
	}
}

func (b *astBuilder) appendItem(it Item) {
	if b.inFrame && b.curFrame != nil {
		b.curFrame.Items = append(b.curFrame.Items, it)
		return
	}
	if b.curBlock != nil {
		b.curBlock.Items = append(b.curBlock.Items, it)
	}
}

func (b *astBuilder) appendLoop(lp Loop) {
	if b.inFrame && b.curFrame != nil {
		b.curFrame.Loops = append(b.curFrame.Loops, lp)
		return
	}
	if b.curBlock != nil {
		b.curBlock.Loops = append(b.curBlock.Loops, lp)
	}
}

// readLoop consumes the tag header and flat value stream of one loop_
// section.
func (b *astBuilder) readLoop(loopSpan location.Span) (Loop, *diag.Diagnostic) {
	var tags []Tag
	for b.peek().typ == itemDataTag {
		it := b.next()
		tags = append(tags, Tag(it.val))
	}

	var values []Value
	end := loopSpan
	for isValueStart(b.peek().typ) {
		v, fatal := b.readValue()
		if fatal != nil {
			return Loop{}, fatal
		}
		values = append(values, v)
		end = v.Span()
	}

	lp := Loop{Tags: tags, Span: location.Merge(loopSpan, end), RawCount: len(values)}
	if len(tags) == 0 {
		return lp, nil
	}
	nRows := len(values) / len(tags)
	lp.Rows = make([][]Value, 0, nRows)
	for r := 0; r < nRows; r++ {
		row := make([]Value, len(tags))
		copy(row, values[r*len(tags):(r+1)*len(tags)])
		lp.Rows = append(lp.Rows, row)
	}
	return lp, nil
}

func isValueStart(t itemType) bool {
	switch t {
	case itemDataOmitted, itemDataMissing, itemDataInteger, itemDataFloat,
		itemDataString, itemListStart, itemTableStart:
		return true
	}
	return false
}

// readValue consumes one full value, recursing into lists and tables.
func (b *astBuilder) readValue() (Value, *diag.Diagnostic) {
	it := b.next()
	switch it.typ {
	case itemDataOmitted:
		return NewNotApplicable(it.span), nil
	case itemDataMissing:
		return NewUnknown(it.span), nil
	case itemDataInteger, itemDataFloat:
		return numericValue(it), nil
	case itemDataString:
		return NewText(it.span, it.val), nil
	case itemListStart:
		return b.readList(it.span)
	case itemTableStart:
		return b.readTable(it.span)
	case itemError:
		d := diag.NewError(diag.CategorySyntax, it.val, it.span)
		return Value{}, &d
	default:
		d := diag.NewError(diag.CategorySyntax,
			sf("expected a value, found %s", it.typ), it.span)
		return Value{}, &d
	}
}

func (b *astBuilder) readList(start location.Span) (Value, *diag.Diagnostic) {
	var elems []Value
	end := start
	for {
		if b.peek().typ == itemListEnd {
			endItem := b.next()
			end = endItem.span
			break
		}
		if !isValueStart(b.peek().typ) {
			// Malformed list; stop collecting rather than looping forever.
			break
		}
		v, fatal := b.readValue()
		if fatal != nil {
			return Value{}, fatal
		}
		elems = append(elems, v)
		end = v.Span()
	}
	return NewList(location.Merge(start, end), elems), nil
}

func (b *astBuilder) readTable(start location.Span) (Value, *diag.Diagnostic) {
	m := ordered.New[Value](0)
	end := start
	for {
		if b.peek().typ == itemTableEnd {
			endItem := b.next()
			end = endItem.span
			break
		}
		if b.peek().typ != itemTableKey {
			break
		}
		keyItem := b.next()
		v, fatal := b.readValue()
		if fatal != nil {
			return Value{}, fatal
		}
		m.Set(keyItem.val, v)
		end = v.Span()
	}
	return NewTable(location.Merge(start, end), m), nil
}

var uncertaintyPattern = regexp.MustCompile(
	`^([+-]?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?)\(([0-9]+)\)$`)

// numericValue classifies a raw lexed numeric token as Numeric or
// NumericWithUncertainty per spec §3's recovery rule.
func numericValue(it item) Value {
	if m := uncertaintyPattern.FindStringSubmatch(it.val); m != nil {
		value, err1 := strconv.ParseFloat(m[1], 64)
		uncDigits, err2 := strconv.ParseFloat(m[4], 64)
		if err1 == nil && err2 == nil {
			fracDigits := 0
			if m[2] != "" {
				fracDigits = len(m[2]) - 1
			}
			uncertainty := uncDigits * math.Pow(10, -float64(fracDigits))
			return NewNumericWithUncertainty(it.span, value, uncertainty)
		}
	}
	f, err := strconv.ParseFloat(it.val, 64)
	if err != nil {
		// The lexer only reaches here having already recognized a numeric
		// grammar production, so this should be unreachable; fall back to
		// text rather than panicking on malformed input.
		return NewText(it.span, it.val)
	}
	return NewNumeric(it.span, f)
}

func versionFromMagic(raw string) Version {
	switch {
	case strings.HasSuffix(raw, "2.0"):
		return VersionCIF2_0
	case strings.HasSuffix(raw, "1.1"):
		return VersionCIF1_1
	default:
		return VersionUnspecified
	}
}
