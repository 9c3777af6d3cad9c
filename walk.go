// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package louvre

import (
	"fmt"
	"io"
	"strings"
)

// Walk visits n and its descendants in document order.
// If fn returns false, the children of that node are skipped.
func Walk(n *Node, fn func(n *Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		Walk(child, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n, keyed by node name.
func Count(n *Node) map[string]int {
	counts := map[string]int{}
	Walk(n, func(n *Node) bool {
		counts[n.Name()]++
		return true
	})
	return counts
}

// FindAll returns the nodes of the given kind in document order.
func FindAll(n *Node, kind Kind) []*Node {
	var list []*Node
	Walk(n, func(n *Node) bool {
		if n.Kind == kind {
			list = append(list, n)
		}
		return true
	})
	return list
}

// Items returns the Item nodes directly under a Numbers or Bullets list.
func Items(list *Node) []*Node {
	var items []*Node
	for _, child := range list.Children {
		if child.Is(Item) {
			items = append(items, child)
		}
	}
	return items
}

// Dump writes an indented outline of the tree rooted at n, one node per line:
//
//	Root
//	  Center
//	    Text "THIS IS THE TITLE"
func Dump(w io.Writer, n *Node) error {
	var err error
	Walk(n, func(node *Node) bool {
		if err != nil {
			return false
		}
		_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", node.Depth()-n.Depth()), outline(node))
		return true
	})
	return err
}

func outline(n *Node) string {
	var sb strings.Builder
	sb.WriteString(n.Name())
	if n.Tag != nil && len(n.Tag.Arguments) != 0 {
		sb.WriteString("(")
		sb.WriteString(strings.Join(n.Tag.Arguments, ", "))
		sb.WriteString(")")
	}
	if n.Kind == Text {
		fmt.Fprintf(&sb, " %q", n.Text)
	}
	return sb.String()
}
