// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package louvre

import (
	"errors"
	"fmt"
)

// SyntaxError is returned when the input is malformed at the character level,
// e.g. an argument list with no closing parenthesis.
type SyntaxError struct {
	Message  string
	Location SourceLocation
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: syntax error: %s", e.Location.Line, e.Location.Column, e.Message)
}

// TagError is returned when a well-formed tag has no registered binding.
type TagError struct {
	Message string
	Tag     *Tag
}

func (e *TagError) Error() string {
	if e.Tag == nil {
		return fmt.Sprintf("tag error: %s", e.Message)
	}
	return fmt.Sprintf("%d:%d: tag error: %s: %q", e.Tag.Location.Line, e.Tag.Location.Column, e.Message, e.Tag.Name)
}

// NodeError is returned when an action is not valid against the tree,
// e.g. an #end with no open branch.
type NodeError struct {
	Message string
	Node    *Node
}

func (e *NodeError) Error() string {
	if e.Node != nil && e.Node.Tag != nil {
		loc := e.Node.Tag.Location
		return fmt.Sprintf("%d:%d: node error: %s", loc.Line, loc.Column, e.Message)
	}
	return fmt.Sprintf("node error: %s", e.Message)
}

// Error code constants for reporting and storage.
const (
	ErrCodeSyntax  = "SYNTAX_ERROR"
	ErrCodeTag     = "TAG_ERROR"
	ErrCodeNode    = "NODE_ERROR"
	ErrCodeUnknown = "UNKNOWN"
)

// ErrorCode returns the error code string for a given error.
// Wrapped parse errors are recognized.
func ErrorCode(err error) string {
	var syntaxErr *SyntaxError
	var tagErr *TagError
	var nodeErr *NodeError
	switch {
	case errors.As(err, &syntaxErr):
		return ErrCodeSyntax
	case errors.As(err, &tagErr):
		return ErrCodeTag
	case errors.As(err, &nodeErr):
		return ErrCodeNode
	default:
		return ErrCodeUnknown
	}
}

// ErrorLocation returns the source location carried by a parse error.
// Wrapped parse errors are recognized.
func ErrorLocation(err error) (SourceLocation, bool) {
	var syntaxErr *SyntaxError
	var tagErr *TagError
	var nodeErr *NodeError
	switch {
	case errors.As(err, &syntaxErr):
		return syntaxErr.Location, true
	case errors.As(err, &tagErr):
		if tagErr.Tag != nil {
			return tagErr.Tag.Location, true
		}
	case errors.As(err, &nodeErr):
		if nodeErr.Node != nil && nodeErr.Node.Tag != nil {
			return nodeErr.Node.Tag.Location, true
		}
	}
	return SourceLocation{}, false
}
