// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package louvre

import (
	"fmt"
	"sort"
)

// Action tells the tree builder how a parsed unit changes the current branch.
type Action int

const (
	// End closes the current branch and moves back to its parent.
	End Action = iota
	// AddChild attaches the node to the current branch.
	AddChild
	// AddChildAndBranch attaches the node and makes it the current branch.
	AddChildAndBranch
	// Ignore drops the node. Bindings use it for tags that only have side effects.
	Ignore
)

var actionNames = [...]string{
	End:               "End",
	AddChild:          "AddChild",
	AddChildAndBranch: "AddChildAndBranch",
	Ignore:            "Ignore",
}

func (a Action) String() string {
	if 0 <= a && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction returns the action with the given name.
func ParseAction(name string) (Action, bool) {
	for a, s := range actionNames {
		if s == name {
			return Action(a), true
		}
	}
	return Ignore, false
}

// Binding turns an occurrence of a tag into an action and a node.
// The binding may read the tag's arguments to parameterize the node.
// The parser attaches the tag to the returned node.
type Binding func(tag *Tag) (Action, *Node)

// Bindings maps tag names to their bindings.
// The empty name is the bare line-break tag.
type Bindings map[string]Binding

// DefaultBindings returns a new copy of the standard tag vocabulary.
func DefaultBindings() Bindings {
	return Bindings{
		"end":       Bind(End, Null),
		"left":      Bind(AddChildAndBranch, Left),
		"center":    Bind(AddChildAndBranch, Center),
		"right":     Bind(AddChildAndBranch, Right),
		"justify":   Bind(AddChildAndBranch, Justify),
		"paragraph": Bind(AddChildAndBranch, Paragraph),
		"numbers":   Bind(AddChildAndBranch, Numbers),
		"bullets":   Bind(AddChildAndBranch, Bullets),
		"item":      Bind(AddChildAndBranch, Item),
		"":          Bind(AddChild, LineBreak),
	}
}

// Bind returns a binding that always yields the action and a fresh node of the kind.
func Bind(action Action, kind Kind) Binding {
	return func(*Tag) (Action, *Node) {
		return action, NewNode(kind)
	}
}

// BindCustom returns a binding that always yields the action and a fresh
// Custom node with the given name.
func BindCustom(action Action, name string) Binding {
	return func(*Tag) (Action, *Node) {
		return action, NewCustomNode(name)
	}
}

// Merge returns a new set with the bindings of b overridden by those of overrides.
// Neither input is modified.
func (b Bindings) Merge(overrides Bindings) Bindings {
	merged := make(Bindings, len(b)+len(overrides))
	for name, binding := range b {
		merged[name] = binding
	}
	for name, binding := range overrides {
		merged[name] = binding
	}
	return merged
}

// Names returns the bound tag names in sorted order.
func (b Bindings) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// tagToNode resolves a tag through the parser's bindings.
func (p *Parser) tagToNode(tag *Tag) (Action, *Node, error) {
	binding, ok := p.bindings[tag.Name]
	if !ok || binding == nil {
		return Ignore, nil, &TagError{Message: "Unknown tag", Tag: tag}
	}
	action, node := binding(tag)
	if node == nil {
		node = NewNode(Null)
	}
	node.Tag = tag
	return action, node, nil
}
