package parser

import (
	"fmt"

	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/token"
)

// ErrorOpts is a struct that holds a variety of error data. All fields are
// optional, although one of Cause or Message are recommended. If Cause is
// set, Message will be ignored.
type ErrorOpts struct {
	Code          errors.ErrorCode
	Message       string
	Cause         error
	File          string
	StartPosition token.Position
	EndPosition   token.Position
	SourceCode    string
	Hint          string
}

// NewParserError returns a new BaseParserError populated with the given
// error data.
func NewParserError(opts ErrorOpts) *BaseParserError {
	if opts.Code == "" {
		opts.Code = errors.E1003
	}
	return &BaseParserError{
		code:          opts.Code,
		message:       opts.Message,
		cause:         opts.Cause,
		file:          opts.File,
		startPosition: opts.StartPosition,
		endPosition:   opts.EndPosition,
		sourceCode:    opts.SourceCode,
		hint:          opts.Hint,
	}
}

// ParserError is an interface that all parser errors implement.
type ParserError interface {
	Code() errors.ErrorCode
	Message() string
	Cause() error
	File() string
	StartPosition() token.Position
	EndPosition() token.Position
	SourceCode() string
	Error() string
	Diagnostic() errors.Diagnostic
	errors.FriendlyError
}

// BaseParserError is the simplest implementation of ParserError.
type BaseParserError struct {
	code          errors.ErrorCode
	message       string
	cause         error
	file          string
	startPosition token.Position
	endPosition   token.Position
	sourceCode    string
	hint          string
}

func (e *BaseParserError) Error() string {
	msg := e.message
	if e.cause != nil {
		msg = e.cause.Error()
	}
	loc := e.location()
	if loc.IsZero() {
		return fmt.Sprintf("%s: %s", e.code, msg)
	}
	return fmt.Sprintf("%s: %s (%s)", e.code, msg, loc)
}

func (e *BaseParserError) location() errors.SourceLocation {
	return errors.SourceLocation{
		Filename: e.file,
		Line:     e.startPosition.LineNumber(),
		Column:   e.startPosition.ColumnNumber(),
		Source:   e.sourceCode,
	}
}

func (e *BaseParserError) FriendlyErrorMessage() string {
	formatter := errors.NewFormatter(false)
	return formatter.Format(e.ToFormatted())
}

// ToFormatted converts the parser error to a FormattedError for display.
func (e *BaseParserError) ToFormatted() *errors.FormattedError {
	message := e.message
	if e.cause != nil {
		message = e.cause.Error()
	}
	return &errors.FormattedError{
		Kind:      "error",
		Code:      e.code,
		Message:   message,
		Filename:  e.file,
		Line:      e.startPosition.LineNumber(),
		Column:    e.startPosition.ColumnNumber(),
		EndColumn: e.endPosition.ColumnNumber(),
		Hint:      e.hint,
		SourceLines: []errors.SourceLineEntry{
			{Number: e.startPosition.LineNumber(), Text: e.sourceCode, IsMain: true},
		},
	}
}

// Diagnostic converts the parser error to the shape consumed by a
// diagnostics sink.
func (e *BaseParserError) Diagnostic() errors.Diagnostic {
	message := e.message
	if e.cause != nil {
		message = e.cause.Error()
	}
	return errors.Diagnostic{
		Code:     e.code,
		Severity: errors.SeverityError,
		Message:  message,
		Location: e.location(),
		Hint:     e.hint,
	}
}

func (e *BaseParserError) Code() errors.ErrorCode        { return e.code }
func (e *BaseParserError) Message() string               { return e.message }
func (e *BaseParserError) Cause() error                  { return e.cause }
func (e *BaseParserError) File() string                  { return e.file }
func (e *BaseParserError) StartPosition() token.Position { return e.startPosition }
func (e *BaseParserError) EndPosition() token.Position   { return e.endPosition }
func (e *BaseParserError) SourceCode() string            { return e.sourceCode }
func (e *BaseParserError) Line() int                     { return e.startPosition.Line }
func (e *BaseParserError) Unwrap() error                 { return e.cause }

// NewSyntaxError returns a new SyntaxError populated with the given error
// data.
func NewSyntaxError(opts ErrorOpts) *SyntaxError {
	return &SyntaxError{BaseParserError: NewParserError(opts)}
}

type SyntaxError struct {
	*BaseParserError
}

func tokenTypeDescription(t token.Type) string {
	switch t {
	case token.EOF:
		return "end of input"
	case token.NEWLINE:
		return "end of line"
	case token.WORD:
		return "word"
	case token.LABELREF:
		return "label reference"
	case token.LABELDECL:
		return "label declaration"
	case token.STRING:
		return "string literal"
	case token.INT, token.LONG, token.FLOAT, token.DOUBLE:
		return "number"
	default:
		return string(t)
	}
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of input"
	case token.NEWLINE:
		return "end of line"
	default:
		if t.Literal == "" {
			return string(t.Type)
		}
		return fmt.Sprintf("%q", t.Literal)
	}
}

// Errors wraps multiple parser errors for multi-error reporting. It
// implements the error interface so it can be returned from Parse().
type Errors struct {
	errs []ParserError
}

// NewErrors creates an Errors from a slice of ParserError.
func NewErrors(errs []ParserError) *Errors {
	if len(errs) == 0 {
		return nil
	}
	return &Errors{errs: errs}
}

// Error implements the error interface. Returns the first error message.
func (e *Errors) Error() string {
	if len(e.errs) == 0 {
		return ""
	}
	if len(e.errs) == 1 {
		return e.errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e.errs[0].Error(), len(e.errs)-1)
}

// Errors returns the underlying slice of parser errors.
func (e *Errors) Errors() []ParserError {
	return e.errs
}

// Count returns the number of errors.
func (e *Errors) Count() int {
	return len(e.errs)
}

// First returns the first error, or nil if empty.
func (e *Errors) First() ParserError {
	if len(e.errs) == 0 {
		return nil
	}
	return e.errs[0]
}

// FriendlyErrorMessage returns a formatted message showing all errors.
func (e *Errors) FriendlyErrorMessage() string {
	formatter := errors.NewFormatter(false)
	return formatter.FormatMultiple(e.ToFormattedMultiple())
}

// ToFormattedMultiple converts all errors to FormattedError for display.
func (e *Errors) ToFormattedMultiple() []*errors.FormattedError {
	var formatted []*errors.FormattedError
	for _, err := range e.errs {
		formatted = append(formatted, err.(errors.FormattableError).ToFormatted())
	}
	return formatted
}

// Diagnostics converts all errors to the shape consumed by a diagnostics
// sink.
func (e *Errors) Diagnostics() []errors.Diagnostic {
	diags := make([]errors.Diagnostic, 0, len(e.errs))
	for _, err := range e.errs {
		diags = append(diags, err.Diagnostic())
	}
	return diags
}

// Unwrap returns the underlying errors for use with errors.Is/As.
func (e *Errors) Unwrap() []error {
	result := make([]error, len(e.errs))
	for i, err := range e.errs {
		result[i] = err
	}
	return result
}
