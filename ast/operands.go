package ast

import (
	"strconv"
	"strings"

	"github.com/basm-lang/basm/token"
)

// LitKind identifies the kind of a literal operand.
type LitKind int

const (
	IntLit LitKind = iota
	LongLit
	FloatLit
	DoubleLit
	StringLit
	TypeLit
)

func (k LitKind) String() string {
	switch k {
	case IntLit:
		return "int"
	case LongLit:
		return "long"
	case FloatLit:
		return "float"
	case DoubleLit:
		return "double"
	case StringLit:
		return "string"
	case TypeLit:
		return "type"
	}
	return "invalid"
}

// Literal is a constant operand: the argument of ldc or the initial value of
// a field definition.
type Literal struct {
	tok  token.Token
	kind LitKind

	// i holds int and long values, f holds float and double values, and s
	// holds string values and type names.
	i int64
	f float64
	s string
}

// NewIntLit creates an int literal.
func NewIntLit(tok token.Token, v int64) *Literal {
	return &Literal{tok: tok, kind: IntLit, i: v}
}

// NewLongLit creates a long literal.
func NewLongLit(tok token.Token, v int64) *Literal {
	return &Literal{tok: tok, kind: LongLit, i: v}
}

// NewFloatLit creates a float literal.
func NewFloatLit(tok token.Token, v float32) *Literal {
	return &Literal{tok: tok, kind: FloatLit, f: float64(v)}
}

// NewDoubleLit creates a double literal.
func NewDoubleLit(tok token.Token, v float64) *Literal {
	return &Literal{tok: tok, kind: DoubleLit, f: v}
}

// NewStringLit creates a string literal. The value is the decoded string,
// not the quoted source form.
func NewStringLit(tok token.Token, v string) *Literal {
	return &Literal{tok: tok, kind: StringLit, s: v}
}

// NewTypeLit creates a type literal: a class constant in ldc position.
func NewTypeLit(tok token.Token, internalName string) *Literal {
	return &Literal{tok: tok, kind: TypeLit, s: internalName}
}

func (l *Literal) Kind() LitKind      { return l.kind }
func (l *Literal) Token() token.Token { return l.tok }
func (l *Literal) Pos() token.Position {
	return l.tok.StartPosition
}

// Int returns the value of an int or long literal.
func (l *Literal) Int() int64 { return l.i }

// Float returns the value of a float or double literal.
func (l *Literal) Float() float64 { return l.f }

// Float32 returns the value of a float literal at its stored precision.
func (l *Literal) Float32() float32 { return float32(l.f) }

// Str returns the value of a string literal or the internal name of a type
// literal.
func (l *Literal) Str() string { return l.s }

// IsWide reports whether the literal occupies two stack slots.
func (l *Literal) IsWide() bool {
	return l.kind == LongLit || l.kind == DoubleLit
}

// String renders the literal so that reparsing yields the same kind and
// value: longs carry an L suffix, floats an F suffix, and doubles always
// include a decimal point or exponent.
func (l *Literal) String() string {
	switch l.kind {
	case IntLit:
		return strconv.FormatInt(l.i, 10)
	case LongLit:
		return strconv.FormatInt(l.i, 10) + "L"
	case FloatLit:
		return formatFloatText(strconv.FormatFloat(l.f, 'g', -1, 32), false) + "F"
	case DoubleLit:
		return formatFloatText(strconv.FormatFloat(l.f, 'g', -1, 64), true)
	case StringLit:
		return strconv.Quote(l.s)
	case TypeLit:
		return l.s
	}
	return "<invalid literal>"
}

// formatFloatText rewrites strconv's shortest form so the assembly grammar
// can read it back: an exponent needs a decimal point in front of it, and a
// double with neither gets a trailing ".0" to keep it from reading as an int.
func formatFloatText(s string, forceDot bool) string {
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		if !strings.Contains(s[:i], ".") {
			return s[:i] + ".0" + s[i:]
		}
		return s
	}
	if forceDot && !strings.Contains(s, ".") {
		return s + ".0"
	}
	return s
}

// LabelRef is a reference to a label by name, written %name in source.
type LabelRef struct {
	tok  token.Token
	name string
}

// NewLabelRef creates a label reference.
func NewLabelRef(tok token.Token, name string) *LabelRef {
	return &LabelRef{tok: tok, name: name}
}

func (r *LabelRef) Name() string        { return r.name }
func (r *LabelRef) Token() token.Token  { return r.tok }
func (r *LabelRef) Pos() token.Position { return r.tok.StartPosition }
func (r *LabelRef) String() string      { return "%" + r.name }

// rename is used by Body.RenameLabel to retain referential integrity.
func (r *LabelRef) rename(from, to string) {
	if r.name == from {
		r.name = to
	}
}

// Local identifies a local variable either by slot number or by name. Named
// locals are assigned slots by the resolver.
type Local struct {
	tok  token.Token
	name string
	slot int // -1 when named
}

// NewSlotLocal creates a local operand referring to an explicit slot.
func NewSlotLocal(tok token.Token, slot int) Local {
	return Local{tok: tok, slot: slot}
}

// NewNamedLocal creates a local operand referring to a variable by name.
func NewNamedLocal(tok token.Token, name string) Local {
	return Local{tok: tok, name: name, slot: -1}
}

// IsNamed reports whether the local is identified by name rather than slot.
func (l Local) IsNamed() bool { return l.slot < 0 }

// Slot returns the explicit slot, or -1 for named locals.
func (l Local) Slot() int { return l.slot }

// Name returns the variable name, empty for slot-addressed locals.
func (l Local) Name() string { return l.name }

func (l Local) Token() token.Token  { return l.tok }
func (l Local) Pos() token.Position { return l.tok.StartPosition }

func (l Local) String() string {
	if l.IsNamed() {
		return l.name
	}
	return strconv.Itoa(l.slot)
}

// MemberRef is a symbolic reference to a field or method of a class, written
// owner/Name.member followed by an optional descriptor. A missing descriptor
// is legal only when the type-resolution collaborator can complete it
// uniquely.
type MemberRef struct {
	tok   token.Token
	owner string
	name  string
	desc  string
}

// NewMemberRef creates a member reference. The descriptor may be empty.
func NewMemberRef(tok token.Token, owner, name, desc string) *MemberRef {
	return &MemberRef{tok: tok, owner: owner, name: name, desc: desc}
}

func (m *MemberRef) Owner() string { return m.owner }
func (m *MemberRef) Name() string  { return m.name }

// Desc returns the descriptor, empty when omitted in source.
func (m *MemberRef) Desc() string { return m.desc }

// SetDesc records a descriptor completed by the resolver.
func (m *MemberRef) SetDesc(desc string) { m.desc = desc }

func (m *MemberRef) Token() token.Token  { return m.tok }
func (m *MemberRef) Pos() token.Position { return m.tok.StartPosition }

func (m *MemberRef) String() string {
	s := m.owner + "." + m.name
	if m.desc != "" {
		s += " " + m.desc
	}
	return s
}

// TypeRef is a symbolic reference to a class or array type: an internal name
// like java/lang/String or an array descriptor like [I.
type TypeRef struct {
	tok  token.Token
	name string
}

// NewTypeRef creates a type reference.
func NewTypeRef(tok token.Token, name string) *TypeRef {
	return &TypeRef{tok: tok, name: name}
}

func (t *TypeRef) Name() string        { return t.name }
func (t *TypeRef) Token() token.Token  { return t.tok }
func (t *TypeRef) Pos() token.Position { return t.tok.StartPosition }
func (t *TypeRef) String() string      { return t.name }

// SwitchPair is one match/target entry of a lookupswitch.
type SwitchPair struct {
	Match  int32
	Target *LabelRef
}
