// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package louvre

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Diagnostic represents a parse error or warning with a location in the
// source text.
type Diagnostic struct {
	Severity slog.Level     // Error, Warning, Info
	Code     string         // e.g. ErrCodeSyntax
	Message  string         // "Unknown tag \"foo\""
	Location SourceLocation // where in the file it occurred
	Notes    []string       // optional additional help messages
}

// NewDiagnostic converts a parse error into a diagnostic.
// It returns false if err is not a *SyntaxError, *TagError or *NodeError.
func NewDiagnostic(err error) (Diagnostic, bool) {
	loc, ok := ErrorLocation(err)
	if !ok {
		return Diagnostic{}, false
	}
	diag := Diagnostic{
		Severity: slog.LevelError,
		Code:     ErrorCode(err),
		Location: loc,
	}

	var syntaxErr *SyntaxError
	var tagErr *TagError
	var nodeErr *NodeError
	switch {
	case errors.As(err, &syntaxErr):
		diag.Message = syntaxErr.Message
		if syntaxErr.Message == "Unexpected EOF" {
			diag.Notes = append(diag.Notes, "an argument list must be closed with ')'")
		}
	case errors.As(err, &tagErr):
		diag.Message = fmt.Sprintf("%s %q", tagErr.Message, tagErr.Tag.Name)
		if len(tagErr.Tag.Arguments) != 0 {
			diag.Notes = append(diag.Notes, fmt.Sprintf("arguments: %s", strings.Join(tagErr.Tag.Arguments, ", ")))
		}
		diag.Notes = append(diag.Notes, "use ## for a literal '#'")
	case errors.As(err, &nodeErr):
		diag.Message = nodeErr.Message
		diag.Notes = append(diag.Notes, "#end closes the nearest open branch and there is none")
	}
	return diag, true
}

// Warning returns a diagnostic with warning severity.
func Warning(loc SourceLocation, message string, notes ...string) Diagnostic {
	return Diagnostic{
		Severity: slog.LevelWarn,
		Message:  message,
		Location: loc,
		Notes:    notes,
	}
}

// PrintDiagnostic writes the diagnostic followed by the source line and a
// caret under the column.
func PrintDiagnostic(w io.Writer, diag Diagnostic, filename string, src []byte) {
	// Header: file:line:column: error: message
	loc := diag.Location
	_, _ = fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
		filename, loc.Line, loc.Column,
		strings.ToLower(diag.Severity.String()), diag.Message)

	line, ok := findLine(src, loc.Line)
	if !ok {
		for _, note := range diag.Notes {
			_, _ = fmt.Fprintf(w, "    note: %s\n", note)
		}
		return
	}

	_, _ = fmt.Fprintf(w, "    %s\n", line)

	// caret underline
	_, _ = fmt.Fprintf(w, "    %s^\n", caretPrefix(line, loc.Column))

	// Notes
	for _, note := range diag.Notes {
		_, _ = fmt.Fprintf(w, "    note: %s\n", note)
	}
}

// findLine returns the 1-based line of src, without its line break.
// LF, CR+LF and lone CR all end a line, matching the cursor.
func findLine(src []byte, line int) (string, bool) {
	if line < 1 {
		return "", false
	}
	text := string(src)
	for no := 1; ; no++ {
		end := strings.IndexAny(text, "\r\n")
		if no == line {
			if end == -1 {
				return text, true
			}
			return text[:end], true
		}
		if end == -1 {
			return "", false
		}
		if text[end] == '\r' && end+1 < len(text) && text[end+1] == '\n' {
			end++
		}
		text = text[end+1:]
	}
}

// caretPrefix returns the white space that puts a caret under the 1-based
// column of line. Tabs are kept so the caret lines up in a terminal.
func caretPrefix(line string, column int) string {
	var sb strings.Builder
	for _, ch := range line {
		if column <= 1 {
			break
		}
		if ch == TAB {
			sb.WriteRune(TAB)
		} else {
			sb.WriteByte(' ')
		}
		column--
	}
	// past the end of the line, e.g. at end of input
	for ; column > 1; column-- {
		sb.WriteByte(' ')
	}
	return sb.String()
}
