// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package louvre

import (
	"strings"
	"unicode"
)

const (
	// CR and LF are control characters, respectively coded 0x0D (13 decimal) and 0x0A (10 decimal).
	// Windows uses CR + LF, Unix/Mac uses LF, Classic Mac uses CR.
	// All three are accepted as a line break; CR + LF counts as one.

	// CR is 0x0D or '\r'
	CR rune = rune(13)

	// LF is 0x0A or '\n'
	LF rune = rune(10)

	// TAB is 0x09 or '\t'
	TAB rune = rune(9)

	// HASH introduces a tag; two of them are an escaped literal.
	HASH rune = '#'

	// EOF is a sentinel for end of input
	EOF rune = rune(-1)
)

// isTagChar reports whether ch may appear in a tag name or argument.
func isTagChar(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func isEOL(ch rune) bool {
	return ch == CR || ch == LF
}

// trim removes leading and trailing white space from a text run.
func trim(s string) string {
	return strings.TrimSpace(s)
}

// ValidTagName reports whether name can be written as a tag in source text.
// The empty name is valid; it is the bare line-break tag.
func ValidTagName(name string) bool {
	for _, ch := range name {
		if !isTagChar(ch) {
			return false
		}
	}
	return true
}
