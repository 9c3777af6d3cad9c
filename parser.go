// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package louvre

import (
	"fmt"
	"log/slog"
)

/*
Invariants:
 * Initialization
   * `NewParser(source, options...)` stores the source, seeds the bindings
     with DefaultBindings() and then applies the options in order, so
     options may override or remove the defaults.
   * The bindings are read-only once parsing starts.

 * Every parse starts from a fresh cursor
   * Parsing the same source twice with the same bindings builds two
     structurally identical trees.

 * Branch pointer
   * `branch` starts at a new Root node and is always a node that is
     already in the tree.
   * AddChild attaches to `branch`.
   * AddChildAndBranch attaches to `branch` and then descends into the new node.
   * End moves `branch` to its parent. End at the root is a NodeError.
   * Ignore drops the node.

 * Errors
   * The first error from the collector or the builder ends the parse.
     No tree is returned alongside an error.
*/

// Parser turns source text into a document tree.
// A Parser must not be used from more than one goroutine at a time.
type Parser struct {
	name     string
	source   string
	cursor   *Cursor
	bindings Bindings

	// logging
	logger *slog.Logger
}

// NewParser returns a parser over source with the default bindings
// and any options applied.
func NewParser(source string, options ...Option) (*Parser, error) {
	p := &Parser{
		source:   source,
		bindings: DefaultBindings(),
	}
	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// AddTagBinding registers a binding for the tag name, replacing any binding
// already registered under that name. It must be called before parsing.
func (p *Parser) AddTagBinding(name string, binding Binding) {
	p.bindings[name] = binding
}

// Bindings returns a copy of the parser's bindings.
func (p *Parser) Bindings() Bindings {
	return Bindings{}.Merge(p.bindings)
}

// Document is the result of a successful parse.
type Document struct {
	// Root is the root of the tree.
	Root *Node
	// Open is the branch that was current when the input ran out.
	// It is Root unless some branch was never closed with #end.
	Open *Node
}

// Unclosed reports whether any branch was left open at end of input.
func (d *Document) Unclosed() bool {
	return d.Open != d.Root
}

// Parse consumes the whole source and returns the current branch at end of input.
//
// For well-nested input this is the root of the tree. If some branch was
// never closed, Parse returns the innermost open branch; use ParseDocument
// to get both.
//
// The error, if any, is a *SyntaxError, *TagError or *NodeError.
func (p *Parser) Parse() (*Node, error) {
	doc, err := p.ParseDocument()
	if err != nil {
		return nil, err
	}
	return doc.Open, nil
}

// ParseDocument consumes the whole source and returns the tree.
func (p *Parser) ParseDocument() (*Document, error) {
	p.cursor = NewCursor(p.source)
	root := NewNode(Root)
	branch := root

	for {
		b, err := p.collectBlock()
		if err != nil {
			return nil, err
		} else if b == nil {
			break
		}

		switch b.action {
		case AddChild:
			branch.AddChild(b.node)
		case AddChildAndBranch:
			branch.AddChild(b.node)
			branch = b.node
		case End:
			if branch.IsRoot() {
				return nil, &NodeError{Message: "Unexpected branch return at root level", Node: b.node}
			}
			branch = branch.Parent
		case Ignore:
			// tree is not changed
		default:
			return nil, &NodeError{Message: fmt.Sprintf("unknown action %d", b.action), Node: b.node}
		}
		p.debug("%s %s: branch %s", b.action, b.node.Name(), branch.Name())
	}

	if branch != root {
		p.debug("end of input with open branch %s", branch.Name())
	}

	return &Document{Root: root, Open: branch}, nil
}

// Parse is a convenience wrapper around NewParser and Parser.Parse.
func Parse(source string, options ...Option) (*Node, error) {
	p, err := NewParser(source, options...)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

func (p *Parser) debug(format string, args ...any) {
	if p.logger == nil {
		return
	}
	var loc SourceLocation
	if p.cursor != nil {
		loc = p.cursor.Location()
	}
	p.logger.Debug(fmt.Sprintf("%s:%d:%d %s", p.name, loc.Line, loc.Column, fmt.Sprintf(format, args...)))
}
