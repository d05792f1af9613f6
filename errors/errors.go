// Package errors defines the diagnostic types shared by the toolchain
// stages: error codes, source locations, severities and display formatting.
package errors

import (
	"fmt"
	"strings"
)

// SourceLocation represents a position in source code.
type SourceLocation struct {
	Filename string
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Source   string // The line of source code
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// ErrInvalidNodeCast is wrapped by the panic value raised when a unit
// accessor is used on the wrong definition kind.
var ErrInvalidNodeCast = fmt.Errorf("invalid node cast")

// Severity distinguishes hard errors from advisory diagnostics.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	}
	return "unknown"
}

// Diagnostic is one structured finding from a toolchain stage. Warnings do
// not stop a pipeline; errors do.
type Diagnostic struct {
	Code     ErrorCode
	Severity Severity
	Message  string
	Location SourceLocation
	Hint     string
	Note     string
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	var b strings.Builder
	b.WriteString(d.Code.String())
	b.WriteString(": ")
	b.WriteString(d.Message)
	if !d.Location.IsZero() || d.Location.Filename != "" {
		fmt.Fprintf(&b, " (%s)", d.Location.String())
	}
	return b.String()
}

// FriendlyErrorMessage returns a human-friendly error message.
func (d *Diagnostic) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(d.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (d *Diagnostic) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:     d.Code,
		Kind:     d.Severity.String(),
		Message:  d.Message,
		Filename: d.Location.Filename,
		Line:     d.Location.Line,
		Column:   d.Location.Column,
		Hint:     d.Hint,
		Note:     d.Note,
	}
	if d.Location.Source != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: d.Location.Line, Text: d.Location.Source, IsMain: true},
		}
	}
	return fe
}

// Sink receives diagnostics as they are produced. Editor and CLI front ends
// implement this to stream structured findings instead of parsing text.
type Sink interface {
	Report(d Diagnostic)
}

// Collector is a Sink that retains every reported diagnostic.
type Collector struct {
	Diagnostics []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

// Errors returns the diagnostics with error severity.
func (c *Collector) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range c.Diagnostics {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns the diagnostics with warning severity.
func (c *Collector) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range c.Diagnostics {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// CompileError represents a lowering error with rich context.
type CompileError struct {
	Code        ErrorCode
	Message     string
	Filename    string
	Line        int
	Column      int
	EndColumn   int
	SourceLine  string
	Suggestions []Suggestion
	Note        string
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("compile error: ")
	b.WriteString(e.Message)
	if e.Filename != "" || e.Line > 0 {
		b.WriteString("\n\nlocation: ")
		if e.Filename != "" {
			b.WriteString(e.Filename)
			b.WriteString(":")
		}
		fmt.Fprintf(&b, "%d:%d", e.Line, e.Column)
		fmt.Fprintf(&b, " (line %d, column %d)", e.Line, e.Column)
	}
	return b.String()
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *CompileError) FriendlyErrorMessage() string {
	formatted := e.ToFormatted()
	formatter := NewFormatter(false)
	return formatter.Format(formatted)
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:     e.Code,
		Kind:     "error",
		Message:  e.Message,
		Filename: e.Filename,
		Line:     e.Line,
		Column:   e.Column,
		Note:     e.Note,
	}

	if e.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Line, Text: e.SourceLine, IsMain: true},
		}
	}

	if len(e.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(e.Suggestions)
	}

	return fe
}
