// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package louvre

// block is one logical unit produced by the collector.
type block struct {
	action Action
	node   *Node
}

// collectBlock returns the next unit from the input, or nil once the
// input is exhausted.
//
// Text runs are collected until an unescaped '#' or end of input:
//   - tabs are dropped
//   - spaces and line breaks collapse into a single space
//   - "##" is a literal '#'
//
// A pending text run is always returned before the tag that follows it.
// The '#' is left on the cursor and the tag is collected on the next call.
func (p *Parser) collectBlock() (*block, error) {
	var buf []rune
	endsWithSpace := func() bool {
		return len(buf) != 0 && buf[len(buf)-1] == ' '
	}

	for p.cursor.CanAdvance(1) {
		cur := p.cursor.peekChar(0)

		if cur == TAB {
			p.cursor.Advance(1)
			continue
		}

		if cur == ' ' {
			if !endsWithSpace() {
				buf = append(buf, ' ')
			}
			p.cursor.Advance(1)
			continue
		}

		if cur == HASH && p.cursor.peekChar(1) == HASH {
			buf = append(buf, HASH)
			p.cursor.Advance(2)
			continue
		}

		if isEOL(cur) {
			if !endsWithSpace() {
				buf = append(buf, ' ')
			}
			p.cursor.ConsumeEOL()
			continue
		}

		if cur != HASH {
			buf = append(buf, cur)
			p.cursor.Advance(1)
			continue
		}

		// #<tag>
		if text := trim(string(buf)); text != "" {
			return &block{action: AddChild, node: NewTextNode(text)}, nil
		}

		tag, err := p.collectTag()
		if err != nil {
			return nil, err
		}
		action, node, err := p.tagToNode(tag)
		if err != nil {
			p.debug("tag %q: %v", tag.Name, err)
			return nil, err
		}
		return &block{action: action, node: node}, nil
	}

	if text := trim(string(buf)); text != "" {
		return &block{action: AddChild, node: NewTextNode(text)}, nil
	}

	return nil, nil
}
