// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package louvre

import "fmt"

// SourceLocation represents a position in the source text.
// Line and Column are 1-based. Offset is the 0-based rune index.
type SourceLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

func (loc SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", loc.Line, loc.Column)
}
