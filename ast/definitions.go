package ast

import (
	"bytes"
	"strings"

	"github.com/basm-lang/basm/token"
)

// ClassDef declares a class: access modifiers, internal name, optional
// superclass, and implemented interfaces.
type ClassDef struct {
	tok        token.Token
	modifiers  []string
	name       string
	super      string
	interfaces []string
}

// NewClassDef creates a class definition. The super name may be empty and
// interfaces may be nil.
func NewClassDef(tok token.Token, modifiers []string, name, super string, interfaces []string) *ClassDef {
	return &ClassDef{
		tok:        tok,
		modifiers:  modifiers,
		name:       name,
		super:      super,
		interfaces: interfaces,
	}
}

func (c *ClassDef) defNode()             {}
func (c *ClassDef) Token() token.Token   { return c.tok }
func (c *ClassDef) Pos() token.Position  { return c.tok.StartPosition }
func (c *ClassDef) Name() string         { return c.name }
func (c *ClassDef) Modifiers() []string  { return c.modifiers }
func (c *ClassDef) Super() string        { return c.super }
func (c *ClassDef) Interfaces() []string { return c.interfaces }

func (c *ClassDef) String() string {
	var out bytes.Buffer
	out.WriteString("class")
	for _, m := range c.modifiers {
		out.WriteString(" ")
		out.WriteString(m)
	}
	out.WriteString(" ")
	out.WriteString(c.name)
	if c.super != "" {
		out.WriteString(" extends ")
		out.WriteString(c.super)
	}
	if len(c.interfaces) > 0 {
		out.WriteString(" implements ")
		out.WriteString(strings.Join(c.interfaces, " "))
	}
	return out.String()
}

// FieldDef declares a field: access modifiers, name, field descriptor, and
// an optional constant initial value.
type FieldDef struct {
	tok       token.Token
	modifiers []string
	name      string
	desc      string
	value     *Literal
}

// NewFieldDef creates a field definition. The value may be nil.
func NewFieldDef(tok token.Token, modifiers []string, name, desc string, value *Literal) *FieldDef {
	return &FieldDef{tok: tok, modifiers: modifiers, name: name, desc: desc, value: value}
}

func (f *FieldDef) defNode()            {}
func (f *FieldDef) Token() token.Token  { return f.tok }
func (f *FieldDef) Pos() token.Position { return f.tok.StartPosition }
func (f *FieldDef) Name() string        { return f.name }
func (f *FieldDef) Modifiers() []string { return f.modifiers }
func (f *FieldDef) Desc() string        { return f.desc }

// Value returns the constant initial value, or nil when none was declared.
func (f *FieldDef) Value() *Literal { return f.value }

func (f *FieldDef) String() string {
	var out bytes.Buffer
	out.WriteString("field")
	for _, m := range f.modifiers {
		out.WriteString(" ")
		out.WriteString(m)
	}
	out.WriteString(" ")
	out.WriteString(f.name)
	out.WriteString(" ")
	out.WriteString(f.desc)
	if f.value != nil {
		out.WriteString(" = ")
		out.WriteString(f.value.String())
	}
	return out.String()
}

// MethodDef declares a method: access modifiers, name, method descriptor,
// and a body. Abstract and native methods carry an empty body.
type MethodDef struct {
	tok       token.Token
	modifiers []string
	name      string
	desc      string
	body      *Body
}

// NewMethodDef creates a method definition. A nil body is normalized to an
// empty one.
func NewMethodDef(tok token.Token, modifiers []string, name, desc string, body *Body) *MethodDef {
	if body == nil {
		body = NewBody()
	}
	return &MethodDef{tok: tok, modifiers: modifiers, name: name, desc: desc, body: body}
}

func (m *MethodDef) defNode()            {}
func (m *MethodDef) Token() token.Token  { return m.tok }
func (m *MethodDef) Pos() token.Position { return m.tok.StartPosition }
func (m *MethodDef) Name() string        { return m.name }
func (m *MethodDef) Modifiers() []string { return m.modifiers }
func (m *MethodDef) Desc() string        { return m.desc }
func (m *MethodDef) Body() *Body         { return m.body }

// HasModifier reports whether the given modifier keyword was declared.
func (m *MethodDef) HasModifier(name string) bool {
	for _, mod := range m.modifiers {
		if mod == name {
			return true
		}
	}
	return false
}

// String renders the canonical multi-line form: the header, handler and
// variable directives, the entry stream with labels outdented, and a
// closing end.
func (m *MethodDef) String() string {
	var out bytes.Buffer
	out.WriteString("method")
	for _, mod := range m.modifiers {
		out.WriteString(" ")
		out.WriteString(mod)
	}
	out.WriteString(" ")
	out.WriteString(m.name)
	out.WriteString(" ")
	out.WriteString(m.desc)
	out.WriteString("\n")
	for _, h := range m.body.handlers {
		out.WriteString("    ")
		out.WriteString(h.String())
		out.WriteString("\n")
	}
	for _, v := range m.body.locals {
		out.WriteString("    ")
		out.WriteString(v.String())
		out.WriteString("\n")
	}
	for _, e := range m.body.entries {
		if _, ok := e.(*LabelDecl); !ok {
			out.WriteString("    ")
		}
		out.WriteString(e.String())
		out.WriteString("\n")
	}
	out.WriteString("end")
	return out.String()
}

// Body is an ordered instruction/label/line-marker stream plus the method's
// exception-handler set and local-variable table. Entry order is program
// order; handler and local order is declaration order.
type Body struct {
	entries  []BodyEntry
	handlers []*CatchDirective
	locals   []*VarDirective
}

// NewBody creates an empty method body.
func NewBody() *Body {
	return &Body{}
}

// Append adds an entry at the end of the stream.
func (b *Body) Append(e BodyEntry) {
	b.entries = append(b.entries, e)
}

// AddHandler adds an exception-handler directive.
func (b *Body) AddHandler(h *CatchDirective) {
	b.handlers = append(b.handlers, h)
}

// AddLocal adds a local-variable directive.
func (b *Body) AddLocal(v *VarDirective) {
	b.locals = append(b.locals, v)
}

// Entries returns the entry stream in program order.
func (b *Body) Entries() []BodyEntry { return b.entries }

// Handlers returns the exception-handler directives in declaration order.
func (b *Body) Handlers() []*CatchDirective { return b.handlers }

// Locals returns the local-variable directives in declaration order.
func (b *Body) Locals() []*VarDirective { return b.locals }

// Len returns the number of stream entries.
func (b *Body) Len() int { return len(b.entries) }

// Instructions returns the executable instructions of the stream, skipping
// labels and line markers.
func (b *Body) Instructions() []Instruction {
	var insts []Instruction
	for _, e := range b.entries {
		if inst, ok := e.(Instruction); ok {
			insts = append(insts, inst)
		}
	}
	return insts
}

// Labels returns the declared label names in stream order.
func (b *Body) Labels() []string {
	var names []string
	for _, e := range b.entries {
		if decl, ok := e.(*LabelDecl); ok {
			names = append(names, decl.Name())
		}
	}
	return names
}
