// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package louvre

import (
	"strings"
	"unicode"
)

// Cursor invariants and coordinate system
//
// The cursor treats input as an immutable slice of runes.
//
// Fields:
//   input  - the source text, decoded once into runes
//   offset - index into input of the current rune,
//            or len(input) when the cursor is at end of input.
//   line   - 1-based line of the current rune
//   column - 1-based column of the current rune
//
// Invariants (must always hold):
//   0 <= offset <= len(input)
//   offset never decreases
//
// `Advance` is for same-line motion only. It moves offset and column
// together. Callers that step over a line break must use `ConsumeEOL`
// (or `Advance` followed by `AdvanceLine`) so that line and column stay
// in sync with the text.

// Cursor is a read position over the source text with line/column bookkeeping.
type Cursor struct {
	input  []rune
	offset int
	line   int
	column int
}

// NewCursor returns a cursor positioned on the first rune of source.
func NewCursor(source string) *Cursor {
	return &Cursor{
		input:  []rune(source),
		line:   1,
		column: 1,
	}
}

// CanAdvance reports whether at least n more runes remain.
func (c *Cursor) CanAdvance(n int) bool {
	return c.offset+n <= len(c.input)
}

// Peek returns the rune ahead of the current position without moving.
// Peek(0) is the current rune. It returns false past the end of input.
func (c *Cursor) Peek(ahead int) (rune, bool) {
	if ahead < 0 {
		panic("assert(ahead >= 0)")
	}
	if pos := c.offset + ahead; pos < len(c.input) {
		return c.input[pos], true
	}
	return EOF, false
}

// peekChar is Peek without the flag; it returns EOF past the end of input.
func (c *Cursor) peekChar(ahead int) rune {
	ch, _ := c.Peek(ahead)
	return ch
}

// Advance moves the cursor forward by n runes on the current line.
func (c *Cursor) Advance(n int) {
	if n < 0 {
		panic("assert(n >= 0)")
	}
	if c.offset+n > len(c.input) {
		n = len(c.input) - c.offset
	}
	c.offset += n
	c.column += n
}

// AdvanceLine moves the line counter to the start of the next line.
// It must be called exactly when a line break has been stepped over.
func (c *Cursor) AdvanceLine() {
	c.line++
	c.column = 1
}

// Consume returns the current rune and advances past it.
// At end of input it returns EOF and does not move.
func (c *Cursor) Consume() rune {
	ch := c.peekChar(0)
	if ch != EOF {
		c.Advance(1)
	}
	return ch
}

// ConsumeEOL steps over a line break and updates the line counter.
// CR+LF is a single line break. It returns false if the current rune
// is not CR or LF.
func (c *Cursor) ConsumeEOL() bool {
	switch c.peekChar(0) {
	case LF:
		c.Advance(1)
	case CR:
		if c.peekChar(1) == LF {
			c.Advance(2)
		} else {
			c.Advance(1)
		}
	default:
		return false
	}
	c.AdvanceLine()
	return true
}

// ConsumeIf consumes the current rune if it is one of the allowed runes.
// It fails with "Unexpected EOF" at end of input and with "Unexpected token"
// when the current rune is not allowed.
func (c *Cursor) ConsumeIf(allowed string) (rune, error) {
	ch, ok := c.Peek(0)
	if !ok {
		return EOF, &SyntaxError{Message: "Unexpected EOF", Location: c.Location()}
	}
	if !strings.ContainsRune(allowed, ch) {
		return ch, &SyntaxError{Message: "Unexpected token", Location: c.Location()}
	}
	return c.Consume(), nil
}

// SkipWhitespace advances past a run of white space, including line breaks.
func (c *Cursor) SkipWhitespace() {
	for {
		ch, ok := c.Peek(0)
		if !ok || !unicode.IsSpace(ch) {
			return
		}
		if !c.ConsumeEOL() {
			c.Advance(1)
		}
	}
}

// collectSequence consumes a maximal run of tag characters.
func (c *Cursor) collectSequence() string {
	start := c.offset
	for c.CanAdvance(1) && isTagChar(c.peekChar(0)) {
		c.Advance(1)
	}
	return string(c.input[start:c.offset])
}

// Location returns the location of the current rune.
func (c *Cursor) Location() SourceLocation {
	return SourceLocation{
		Line:   c.line,
		Column: c.column,
		Offset: c.offset,
	}
}
