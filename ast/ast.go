// Package ast defines the abstract syntax tree for BASM assembly units.
//
// A Unit wraps exactly one Definition: a class, a field, or a method. Method
// definitions own a Body: the ordered entry stream (labels, line markers and
// instructions in program order) plus the exception handler ranges and the
// declared local variable ranges. Nodes describe and print themselves; they
// never validate cross-references, which is the resolver's job.
package ast

import (
	"fmt"

	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/op"
	"github.com/basm-lang/basm/token"
)

// Node represents a portion of the syntax tree. All nodes know the token
// that begins them and can render themselves as source-like text.
type Node interface {
	// Token returns the token that begins this node.
	Token() token.Token

	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// String returns a canonical, re-parseable rendering of the node.
	String() string
}

// Definition is the single declaration a Unit wraps: class, field or method.
type Definition interface {
	Node

	// Name returns the declared name: an internal class name for classes,
	// a member name for fields and methods.
	Name() string

	// Modifiers returns the declared modifier words in source order.
	Modifiers() []string

	defNode()
}

// BodyEntry is implemented by everything that can appear in a method body's
// entry stream: label declarations, line markers and instructions.
type BodyEntry interface {
	Node
	bodyEntry()
}

// Instruction is one executable instruction in a method body.
type Instruction interface {
	BodyEntry

	// Op returns the canonical opcode. The compiler may select a more
	// compact encoding form of the same operation.
	Op() op.Code

	isInstruction()
}

// Unit is the root node wrapping exactly one definition. Units are immutable
// once constructed except through the editing operations.
type Unit struct {
	def        Definition
	incomplete bool
}

// NewUnit creates a Unit wrapping the given definition.
func NewUnit(def Definition) *Unit {
	return &Unit{def: def}
}

// NewIncompleteUnit creates a Unit marked incomplete: a partial parse result
// that supports editor feedback but must never be compiled. The definition
// may be nil when parsing failed before the header was understood.
func NewIncompleteUnit(def Definition) *Unit {
	return &Unit{def: def, incomplete: true}
}

// Definition returns the wrapped definition, which may be nil on an
// incomplete unit.
func (u *Unit) Definition() Definition { return u.def }

// Incomplete reports whether this unit is a partial parse result.
func (u *Unit) Incomplete() bool { return u.incomplete }

func (u *Unit) Token() token.Token {
	if u.def == nil {
		return token.Token{}
	}
	return u.def.Token()
}

func (u *Unit) Pos() token.Position {
	if u.def == nil {
		return token.NoPos
	}
	return u.def.Pos()
}

func (u *Unit) String() string {
	if u.def == nil {
		return "<incomplete unit>"
	}
	return u.def.String()
}

// IsClass reports whether the unit wraps a class definition.
func (u *Unit) IsClass() bool {
	_, ok := u.def.(*ClassDef)
	return ok
}

// IsField reports whether the unit wraps a field definition.
func (u *Unit) IsField() bool {
	_, ok := u.def.(*FieldDef)
	return ok
}

// IsMethod reports whether the unit wraps a method definition.
func (u *Unit) IsMethod() bool {
	_, ok := u.def.(*MethodDef)
	return ok
}

// IsMember reports whether the unit wraps a field or method definition.
func (u *Unit) IsMember() bool {
	return u.IsField() || u.IsMethod()
}

// AsClass narrows to the class definition, reporting whether it applies.
func (u *Unit) AsClass() (*ClassDef, bool) {
	c, ok := u.def.(*ClassDef)
	return c, ok
}

// AsField narrows to the field definition, reporting whether it applies.
func (u *Unit) AsField() (*FieldDef, bool) {
	f, ok := u.def.(*FieldDef)
	return f, ok
}

// AsMethod narrows to the method definition, reporting whether it applies.
func (u *Unit) AsMethod() (*MethodDef, bool) {
	m, ok := u.def.(*MethodDef)
	return m, ok
}

// Class returns the class definition or panics with a value wrapping
// errors.ErrInvalidNodeCast. Callers check IsClass first.
func (u *Unit) Class() *ClassDef {
	c, ok := u.AsClass()
	if !ok {
		panic(castError(u, "class"))
	}
	return c
}

// Field returns the field definition or panics with a value wrapping
// errors.ErrInvalidNodeCast. Callers check IsField first.
func (u *Unit) Field() *FieldDef {
	f, ok := u.AsField()
	if !ok {
		panic(castError(u, "field"))
	}
	return f
}

// Method returns the method definition or panics with a value wrapping
// errors.ErrInvalidNodeCast. Callers check IsMethod first.
func (u *Unit) Method() *MethodDef {
	m, ok := u.AsMethod()
	if !ok {
		panic(castError(u, "method"))
	}
	return m
}

func castError(u *Unit, want string) error {
	have := "nil"
	switch u.def.(type) {
	case *ClassDef:
		have = "class"
	case *FieldDef:
		have = "field"
	case *MethodDef:
		have = "method"
	}
	return fmt.Errorf("%w: unit wraps a %s definition, not a %s",
		errors.ErrInvalidNodeCast, have, want)
}
