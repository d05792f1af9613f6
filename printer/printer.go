// Package printer renders AST nodes back to canonical BASM text.
//
// The printed form is deterministic: modifiers in declaration order, handler
// and variable directives ahead of the entry stream, labels outdented, one
// instruction per line, a bare trailing end. Parsing the printed form of a
// unit yields a unit that prints identically.
package printer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/basm-lang/basm/ast"
)

// DefaultIndent is the body indentation used when no option overrides it.
const DefaultIndent = "    "

// Option is a configuration function for a Printer.
type Option func(*Printer)

// WithIndent sets the indentation written before body directives and
// instructions. Labels are always outdented to column zero.
func WithIndent(indent string) Option {
	return func(p *Printer) {
		p.indent = indent
	}
}

// Printer holds the formatting context for rendering AST nodes.
type Printer struct {
	indent string
}

// New creates a Printer with the given options applied.
func New(options ...Option) *Printer {
	p := &Printer{indent: DefaultIndent}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Fprint writes the canonical text for node to w. Units and definitions are
// rendered in file form with a trailing newline; any other node is rendered
// as its single-line form without one. Incomplete units are refused, since
// printing a partial tree would silently drop source.
func Fprint(w io.Writer, node ast.Node, options ...Option) error {
	return New(options...).Fprint(w, node)
}

// Sprint returns the canonical text for node as a string.
func Sprint(node ast.Node, options ...Option) (string, error) {
	return New(options...).Sprint(node)
}

// Fprint writes the canonical text for node to w.
func (p *Printer) Fprint(w io.Writer, node ast.Node) error {
	var buf bytes.Buffer
	if err := p.print(&buf, node); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Sprint returns the canonical text for node as a string.
func (p *Printer) Sprint(node ast.Node) (string, error) {
	var buf bytes.Buffer
	if err := p.print(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (p *Printer) print(buf *bytes.Buffer, node ast.Node) error {
	switch n := node.(type) {
	case nil:
		return fmt.Errorf("printer: nil node")
	case *ast.Unit:
		if n.Incomplete() || n.Definition() == nil {
			return fmt.Errorf("printer: cannot print an incomplete unit")
		}
		return p.print(buf, n.Definition())
	case *ast.ClassDef:
		buf.WriteString(n.String())
		buf.WriteString("\n")
	case *ast.FieldDef:
		buf.WriteString(n.String())
		buf.WriteString("\n")
	case *ast.MethodDef:
		p.printMethod(buf, n)
	default:
		buf.WriteString(node.String())
	}
	return nil
}

// printMethod renders the header, the handler and variable directives, the
// entry stream, and the closing end. Per-entry text comes from the node
// String methods; only the layout lives here.
func (p *Printer) printMethod(buf *bytes.Buffer, m *ast.MethodDef) {
	buf.WriteString("method")
	for _, mod := range m.Modifiers() {
		buf.WriteString(" ")
		buf.WriteString(mod)
	}
	buf.WriteString(" ")
	buf.WriteString(m.Name())
	buf.WriteString(" ")
	buf.WriteString(m.Desc())
	buf.WriteString("\n")
	body := m.Body()
	for _, h := range body.Handlers() {
		buf.WriteString(p.indent)
		buf.WriteString(h.String())
		buf.WriteString("\n")
	}
	for _, v := range body.Locals() {
		buf.WriteString(p.indent)
		buf.WriteString(v.String())
		buf.WriteString("\n")
	}
	for _, e := range body.Entries() {
		if _, ok := e.(*ast.LabelDecl); !ok {
			buf.WriteString(p.indent)
		}
		buf.WriteString(e.String())
		buf.WriteString("\n")
	}
	buf.WriteString("end\n")
}
