// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package louvre

// Node is an element of the document tree.
//
// Kind is the node type. When Kind is Custom, Custom holds the name of
// the extension kind.
//
// Text is set only on Text nodes, which are always leaves. Structural
// nodes keep their content in Children.
//
// Tag is the directive that produced the node, or nil for text runs and
// for the root.
//
// Parent is a lookup link to the node whose Children holds this node.
// It is nil for the root and is never serialized.
//
// Index is the position among siblings when the node was attached.
type Node struct {
	Kind     Kind    `json:"kind"`
	Custom   string  `json:"custom,omitempty"`
	Text     string  `json:"text,omitempty"`
	Tag      *Tag    `json:"tag,omitempty"`
	Parent   *Node   `json:"-"`
	Children []*Node `json:"children,omitempty"`
	Index    int     `json:"index"`
}

// NewNode returns a detached node of the given standard kind.
func NewNode(kind Kind) *Node {
	return &Node{Kind: kind}
}

// NewCustomNode returns a detached node for an extension kind.
func NewCustomNode(name string) *Node {
	return &Node{Kind: Custom, Custom: name}
}

// NewTextNode returns a detached Text leaf.
func NewTextNode(text string) *Node {
	return &Node{Kind: Text, Text: text}
}

// Name returns the custom name for Custom nodes and the kind name otherwise.
func (n *Node) Name() string {
	if n.Kind == Custom && n.Custom != "" {
		return n.Custom
	}
	return n.Kind.String()
}

// Is reports whether n has the given kind.
//
// It returns false if n is nil.
func (n *Node) Is(kind Kind) bool {
	if n == nil {
		return false
	}
	return n.Kind == kind
}

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool {
	return n.Parent == nil
}

// AddChild appends child to the children of n and sets its parent link and index.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	child.Index = len(n.Children)
	n.Children = append(n.Children, child)
}

// Depth is the number of parent links between n and the root.
func (n *Node) Depth() int {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}

// Root follows parent links up to the root of the tree.
func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Equal reports whether two trees have the same shape: kinds, custom names
// and text, recursively. Tags, parent links and indexes are ignored.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Kind != other.Kind || n.Custom != other.Custom || n.Text != other.Text {
		return false
	}
	if len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}
