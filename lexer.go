package cif

import (
	"fmt"

	"github.com/crystalshelf/cif/location"
)

var (
	pf = fmt.Printf
	sf = fmt.Sprintf
)

type stateFn func(lx *lexer) stateFn

// lexer tokenizes CIF 1.1/2.0 source text into a flat stream of items,
// tracking the line/column/byte position of every token for later
// attachment to Spans. The state machine itself follows the
// stateFn-returns-stateFn shape of a classic hand-written lexer: each state
// function consumes some input and returns the state to run next, or nil
// when lexing has stopped (successfully or on error).
type lexer struct {
	input  string
	source location.SourceID

	start int
	pos   int
	width int

	line, col         int // position of the rune that pos currently points at
	startLine, startCol int
	prevLine, prevCol int

	state   stateFn
	emitted *item

	// A stack of state functions used to maintain context. The idea is to
	// reuse parts of the state machine in various places (values, list and
	// table elements, loop cells all lex a value the same way and return to
	// wherever they were called from).
	stack []stateFn
}

type item struct {
	typ  itemType
	val  string
	span location.Span
}

func lex(source location.SourceID, input string) *lexer {
	return &lexer{
		input:     input,
		source:    source,
		state:     lexCifInitial,
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
		stack:     make([]stateFn, 0, 16),
	}
}

func (lx *lexer) nextItem() (it item) {
	for lx.emitted == nil && lx.state != nil {
		lx.state = lx.state(lx)
	}
	if lx.state == nil && lx.emitted == nil {
		return item{typ: itemEOF, span: lx.pointSpan()}
	}
	it, lx.emitted = *lx.emitted, nil
	return it
}

func (lx *lexer) push(state stateFn) {
	lx.stack = append(lx.stack, state)
}

func (lx *lexer) pop() stateFn {
	if len(lx.stack) == 0 {
		return lx.errf("BUG in lexer: no states to pop.")
	}
	last := lx.stack[len(lx.stack)-1]
	lx.stack = lx.stack[0 : len(lx.stack)-1]
	return last
}

func (lx *lexer) current() string {
	return lx.input[lx.start:lx.pos]
}

func (lx *lexer) emit(typ itemType) {
	if lx.emitted != nil {
		panic("BUG in lexer: a state may only emit a single token")
	}
	lx.emitted = &item{
		typ:  typ,
		val:  lx.current(),
		span: location.Span{
			Source: lx.source,
			Start:  location.Position{Line: lx.startLine, Column: lx.startCol, Byte: lx.start},
			End:    location.Position{Line: lx.line, Column: lx.col, Byte: lx.pos},
		},
	}
	lx.start = lx.pos
	lx.startLine, lx.startCol = lx.line, lx.col
}

func (lx *lexer) pointSpan() location.Span {
	p := location.Position{Line: lx.line, Column: lx.col, Byte: lx.pos}
	return location.Span{Source: lx.source, Start: p, End: p}
}

func (lx *lexer) next() (r rune) {
	lx.prevLine, lx.prevCol = lx.line, lx.col
	if lx.pos >= len(lx.input) {
		lx.width = 0
		return eof
	}
	// CIF is defined over an ASCII-ish byte grammar; text payloads may carry
	// arbitrary UTF-8, but grammar-level bytes are all single-byte ASCII, so
	// treating each byte as one rune here is safe.
	r = rune(lx.input[lx.pos])
	lx.width = 1
	lx.pos++
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

// ignore skips over the pending input before this point.
func (lx *lexer) ignore() {
	lx.start = lx.pos
	lx.startLine, lx.startCol = lx.line, lx.col
}

// backup steps back one rune. Can be called only once per call of next.
func (lx *lexer) backup() {
	lx.pos -= lx.width
	lx.line, lx.col = lx.prevLine, lx.prevCol
}

// accept consumes the next rune if it's equal to `valid`.
func (lx *lexer) accept(valid rune) bool {
	if lx.next() == valid {
		return true
	}
	lx.backup()
	return false
}

// acceptStr consumes the string given. If the string consumed does not match,
// then the lexer fails. Otherwise, the string consumed is thrown away and
// lexing moves on to the state given.
func (lx *lexer) acceptStr(s string, next stateFn) stateFn {
	for _, r := range s {
		if !lx.accept(r) {
			return lx.errf("Expected '%s' but got '%s' instead (in '%s').",
				r, lx.peek(), s)
		}
	}
	lx.ignore()
	return next
}

// peek returns but does not consume the next rune in the input.
func (lx *lexer) peek() rune {
	if lx.pos >= len(lx.input) {
		return eof
	}
	return rune(lx.input[lx.pos])
}

// peekAt returns the string (indexed by byte) from the current position
// up to the length given. This does not consume input.
// If the length given exceeds what's left in the input, then the rest of the
// input is returned.
func (lx *lexer) peekAt(length int) string {
	if lx.pos >= len(lx.input) {
		return ""
	}
	upto := lx.pos + length
	if upto > len(lx.input) {
		upto = len(lx.input)
	}
	return lx.input[lx.pos:upto]
}

// aheadMatch looks ahead from the current lex position to see if the next
// len(s) characters match s (case insensitive).
func (lx *lexer) aheadMatch(s string) bool {
	return equalFoldASCII(lx.peekAt(len(s)), s)
}

// errf emits an error item describing a construct the lexer couldn't
// classify, then resynchronizes at the next "data_" keyword rather than
// stopping the lexer for good: a malformed construct inside one block must
// not prevent subsequent well-formed blocks from lexing. Note that any
// value that is a character is escaped if it's a special character (new
// lines, tabs, etc.).
func (lx *lexer) errf(format string, values ...interface{}) stateFn {
	for i, value := range values {
		if v, ok := value.(rune); ok {
			switch v {
			case '\n':
				values[i] = "\\n"
			case 0:
				values[i] = "EOF"
			default:
				values[i] = string(v)
			}
		}
	}
	lx.emitted = &item{
		typ:  itemError,
		val:  sf(format, values...),
		span: lx.pointSpan(),
	}
	return lexResync
}

func (lx *lexer) stop() stateFn {
	lx.ignore()
	lx.emit(itemEOF)
	return nil
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
