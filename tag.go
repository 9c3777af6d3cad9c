// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package louvre

// Tag is a parsed #name(args) directive.
//
// Location is the position of the first rune of the name, immediately
// after the '#'. Arguments are kept in source order.
type Tag struct {
	Name      string         `json:"name"`
	Location  SourceLocation `json:"location"`
	Arguments []string       `json:"arguments,omitempty"`
}

// Argument returns the nth argument, or the empty string if there is none.
func (t *Tag) Argument(n int) string {
	if t == nil || n < 0 || n >= len(t.Arguments) {
		return ""
	}
	return t.Arguments[n]
}

// collectTag is called when the cursor sits on an unescaped '#'.
//
// It consumes the '#', the tag name and, if present, the parenthesized
// argument list. Empty arguments are dropped.
func (p *Parser) collectTag() (*Tag, error) {
	p.cursor.Advance(1) // the '#'
	tag := &Tag{
		Location: p.cursor.Location(),
		Name:     p.cursor.collectSequence(),
	}

	if _, err := p.cursor.ConsumeIf("("); err != nil {
		// no argument list
		return tag, nil
	}

	for {
		p.cursor.SkipWhitespace()
		if arg := p.cursor.collectSequence(); arg != "" {
			tag.Arguments = append(tag.Arguments, arg)
		}
		p.cursor.SkipWhitespace()

		next, err := p.cursor.ConsumeIf(",)")
		if err != nil {
			p.debug("tag %q: %v", tag.Name, err)
			return nil, err
		}
		if next == ')' {
			break
		}
	}

	return tag, nil
}
