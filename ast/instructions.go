package ast

import (
	"bytes"
	"strconv"

	"github.com/basm-lang/basm/op"
	"github.com/basm-lang/basm/token"
)

// LabelDecl marks a branch target by name, written %name: on its own line.
// It carries no executable effect.
type LabelDecl struct {
	tok  token.Token
	name string
}

// NewLabelDecl creates a label declaration.
func NewLabelDecl(tok token.Token, name string) *LabelDecl {
	return &LabelDecl{tok: tok, name: name}
}

func (l *LabelDecl) bodyEntry()          {}
func (l *LabelDecl) Name() string        { return l.name }
func (l *LabelDecl) Token() token.Token  { return l.tok }
func (l *LabelDecl) Pos() token.Position { return l.tok.StartPosition }
func (l *LabelDecl) String() string      { return "%" + l.name + ":" }

func (l *LabelDecl) rename(from, to string) {
	if l.name == from {
		l.name = to
	}
}

// LineDirective records a source line number for the instructions that
// follow it.
type LineDirective struct {
	tok  token.Token
	line int
}

// NewLineDirective creates a line-number marker.
func NewLineDirective(tok token.Token, line int) *LineDirective {
	return &LineDirective{tok: tok, line: line}
}

func (l *LineDirective) bodyEntry()          {}
func (l *LineDirective) Line() int           { return l.line }
func (l *LineDirective) Token() token.Token  { return l.tok }
func (l *LineDirective) Pos() token.Position { return l.tok.StartPosition }
func (l *LineDirective) String() string      { return "line " + strconv.Itoa(l.line) }

// CatchDirective declares an exception handler: the caught type ("*" for
// any), the covered range [from, to), and the handler entry label.
type CatchDirective struct {
	tok     token.Token
	typ     string
	from    *LabelRef
	to      *LabelRef
	handler *LabelRef
}

// NewCatchDirective creates an exception-handler directive.
func NewCatchDirective(tok token.Token, typ string, from, to, handler *LabelRef) *CatchDirective {
	return &CatchDirective{tok: tok, typ: typ, from: from, to: to, handler: handler}
}

// Type returns the caught exception type's internal name, or "*" for a
// catch-all handler.
func (c *CatchDirective) Type() string { return c.typ }

// CatchesAll reports whether the handler catches every exception type.
func (c *CatchDirective) CatchesAll() bool { return c.typ == "*" }

func (c *CatchDirective) From() *LabelRef     { return c.from }
func (c *CatchDirective) To() *LabelRef       { return c.to }
func (c *CatchDirective) Handler() *LabelRef  { return c.handler }
func (c *CatchDirective) Token() token.Token  { return c.tok }
func (c *CatchDirective) Pos() token.Position { return c.tok.StartPosition }

func (c *CatchDirective) String() string {
	return "catch " + c.typ + " " + c.from.String() + " " + c.to.String() + " " + c.handler.String()
}

// VarDirective declares a named local variable: its slot, name, descriptor,
// and live range [from, to).
type VarDirective struct {
	tok  token.Token
	slot int
	name string
	desc string
	from *LabelRef
	to   *LabelRef
}

// NewVarDirective creates a local-variable directive.
func NewVarDirective(tok token.Token, slot int, name, desc string, from, to *LabelRef) *VarDirective {
	return &VarDirective{tok: tok, slot: slot, name: name, desc: desc, from: from, to: to}
}

func (v *VarDirective) Slot() int           { return v.slot }
func (v *VarDirective) Name() string        { return v.name }
func (v *VarDirective) Desc() string        { return v.desc }
func (v *VarDirective) From() *LabelRef     { return v.from }
func (v *VarDirective) To() *LabelRef       { return v.to }
func (v *VarDirective) Token() token.Token  { return v.tok }
func (v *VarDirective) Pos() token.Position { return v.tok.StartPosition }

func (v *VarDirective) String() string {
	return "var " + strconv.Itoa(v.slot) + " " + v.name + " " + v.desc + " " +
		v.from.String() + " " + v.to.String()
}

// SimpleInst is an instruction with no operands.
type SimpleInst struct {
	tok token.Token
	op  op.Code
}

// NewSimpleInst creates a no-operand instruction.
func NewSimpleInst(tok token.Token, code op.Code) *SimpleInst {
	return &SimpleInst{tok: tok, op: code}
}

func (i *SimpleInst) bodyEntry()          {}
func (i *SimpleInst) isInstruction()      {}
func (i *SimpleInst) Op() op.Code         { return i.op }
func (i *SimpleInst) Token() token.Token  { return i.tok }
func (i *SimpleInst) Pos() token.Position { return i.tok.StartPosition }
func (i *SimpleInst) String() string      { return i.op.String() }

// ConstInst loads a constant on the operand stack. The canonical mnemonic is
// always ldc; the compiler picks the concrete encoding from the literal's
// kind and value.
type ConstInst struct {
	tok token.Token
	lit *Literal
}

// NewConstInst creates a constant-load instruction.
func NewConstInst(tok token.Token, lit *Literal) *ConstInst {
	return &ConstInst{tok: tok, lit: lit}
}

func (i *ConstInst) bodyEntry()          {}
func (i *ConstInst) isInstruction()      {}
func (i *ConstInst) Op() op.Code         { return op.Ldc }
func (i *ConstInst) Literal() *Literal   { return i.lit }
func (i *ConstInst) Token() token.Token  { return i.tok }
func (i *ConstInst) Pos() token.Position { return i.tok.StartPosition }
func (i *ConstInst) String() string      { return "ldc " + i.lit.String() }

// VarInst loads or stores a local variable.
type VarInst struct {
	tok   token.Token
	op    op.Code
	local Local
}

// NewVarInst creates a local-variable load/store instruction.
func NewVarInst(tok token.Token, code op.Code, local Local) *VarInst {
	return &VarInst{tok: tok, op: code, local: local}
}

func (i *VarInst) bodyEntry()          {}
func (i *VarInst) isInstruction()      {}
func (i *VarInst) Op() op.Code         { return i.op }
func (i *VarInst) Local() Local        { return i.local }
func (i *VarInst) Token() token.Token  { return i.tok }
func (i *VarInst) Pos() token.Position { return i.tok.StartPosition }
func (i *VarInst) String() string      { return i.op.String() + " " + i.local.String() }

// SetLocal replaces the local operand; used by the resolver to substitute
// named locals with their assigned slots.
func (i *VarInst) SetLocal(local Local) { i.local = local }

// IincInst increments a local variable in place by a signed constant.
type IincInst struct {
	tok   token.Token
	local Local
	delta int
}

// NewIincInst creates an increment instruction.
func NewIincInst(tok token.Token, local Local, delta int) *IincInst {
	return &IincInst{tok: tok, local: local, delta: delta}
}

func (i *IincInst) bodyEntry()          {}
func (i *IincInst) isInstruction()      {}
func (i *IincInst) Op() op.Code         { return op.Iinc }
func (i *IincInst) Local() Local        { return i.local }
func (i *IincInst) Delta() int          { return i.delta }
func (i *IincInst) Token() token.Token  { return i.tok }
func (i *IincInst) Pos() token.Position { return i.tok.StartPosition }

// SetLocal replaces the local operand; see VarInst.SetLocal.
func (i *IincInst) SetLocal(local Local) { i.local = local }

func (i *IincInst) String() string {
	return "iinc " + i.local.String() + " " + strconv.Itoa(i.delta)
}

// BranchInst is a conditional or unconditional jump to a label.
type BranchInst struct {
	tok    token.Token
	op     op.Code
	target *LabelRef
}

// NewBranchInst creates a branch instruction.
func NewBranchInst(tok token.Token, code op.Code, target *LabelRef) *BranchInst {
	return &BranchInst{tok: tok, op: code, target: target}
}

func (i *BranchInst) bodyEntry()          {}
func (i *BranchInst) isInstruction()      {}
func (i *BranchInst) Op() op.Code         { return i.op }
func (i *BranchInst) Target() *LabelRef   { return i.target }
func (i *BranchInst) Token() token.Token  { return i.tok }
func (i *BranchInst) Pos() token.Position { return i.tok.StartPosition }
func (i *BranchInst) String() string      { return i.op.String() + " " + i.target.String() }

// TableSwitchInst is a dense jump table over the value range [low, high].
// Targets holds high - low + 1 labels in ascending match order.
type TableSwitchInst struct {
	tok     token.Token
	low     int32
	high    int32
	targets []*LabelRef
	dflt    *LabelRef
}

// NewTableSwitchInst creates a table switch.
func NewTableSwitchInst(tok token.Token, low, high int32, targets []*LabelRef, dflt *LabelRef) *TableSwitchInst {
	return &TableSwitchInst{tok: tok, low: low, high: high, targets: targets, dflt: dflt}
}

func (i *TableSwitchInst) bodyEntry()           {}
func (i *TableSwitchInst) isInstruction()       {}
func (i *TableSwitchInst) Op() op.Code          { return op.Tableswitch }
func (i *TableSwitchInst) Low() int32           { return i.low }
func (i *TableSwitchInst) High() int32          { return i.high }
func (i *TableSwitchInst) Targets() []*LabelRef { return i.targets }
func (i *TableSwitchInst) Default() *LabelRef   { return i.dflt }
func (i *TableSwitchInst) Token() token.Token   { return i.tok }
func (i *TableSwitchInst) Pos() token.Position  { return i.tok.StartPosition }

func (i *TableSwitchInst) String() string {
	var out bytes.Buffer
	out.WriteString("tableswitch ")
	out.WriteString(strconv.FormatInt(int64(i.low), 10))
	out.WriteString(" ")
	out.WriteString(strconv.FormatInt(int64(i.high), 10))
	for _, t := range i.targets {
		out.WriteString(" ")
		out.WriteString(t.String())
	}
	out.WriteString(" default ")
	out.WriteString(i.dflt.String())
	return out.String()
}

// LookupSwitchInst is a sparse jump table of match/target pairs.
type LookupSwitchInst struct {
	tok   token.Token
	pairs []SwitchPair
	dflt  *LabelRef
}

// NewLookupSwitchInst creates a lookup switch. Pairs must be sorted by match
// value before compilation; the parser preserves source order.
func NewLookupSwitchInst(tok token.Token, pairs []SwitchPair, dflt *LabelRef) *LookupSwitchInst {
	return &LookupSwitchInst{tok: tok, pairs: pairs, dflt: dflt}
}

func (i *LookupSwitchInst) bodyEntry()          {}
func (i *LookupSwitchInst) isInstruction()      {}
func (i *LookupSwitchInst) Op() op.Code         { return op.Lookupswitch }
func (i *LookupSwitchInst) Pairs() []SwitchPair { return i.pairs }
func (i *LookupSwitchInst) Default() *LabelRef  { return i.dflt }
func (i *LookupSwitchInst) Token() token.Token  { return i.tok }
func (i *LookupSwitchInst) Pos() token.Position { return i.tok.StartPosition }

func (i *LookupSwitchInst) String() string {
	var out bytes.Buffer
	out.WriteString("lookupswitch")
	for _, p := range i.pairs {
		out.WriteString(" ")
		out.WriteString(strconv.FormatInt(int64(p.Match), 10))
		out.WriteString("=")
		out.WriteString(p.Target.String())
	}
	out.WriteString(" default ")
	out.WriteString(i.dflt.String())
	return out.String()
}

// TypeInst references a class or array type: new, checkcast, instanceof,
// anewarray.
type TypeInst struct {
	tok token.Token
	op  op.Code
	typ *TypeRef
}

// NewTypeInst creates a type-reference instruction.
func NewTypeInst(tok token.Token, code op.Code, typ *TypeRef) *TypeInst {
	return &TypeInst{tok: tok, op: code, typ: typ}
}

func (i *TypeInst) bodyEntry()          {}
func (i *TypeInst) isInstruction()      {}
func (i *TypeInst) Op() op.Code         { return i.op }
func (i *TypeInst) Type() *TypeRef      { return i.typ }
func (i *TypeInst) Token() token.Token  { return i.tok }
func (i *TypeInst) Pos() token.Position { return i.tok.StartPosition }
func (i *TypeInst) String() string      { return i.op.String() + " " + i.typ.String() }

// FieldInst accesses a field through a symbolic member reference.
type FieldInst struct {
	tok token.Token
	op  op.Code
	ref *MemberRef
}

// NewFieldInst creates a field-access instruction.
func NewFieldInst(tok token.Token, code op.Code, ref *MemberRef) *FieldInst {
	return &FieldInst{tok: tok, op: code, ref: ref}
}

func (i *FieldInst) bodyEntry()          {}
func (i *FieldInst) isInstruction()      {}
func (i *FieldInst) Op() op.Code         { return i.op }
func (i *FieldInst) Ref() *MemberRef     { return i.ref }
func (i *FieldInst) Token() token.Token  { return i.tok }
func (i *FieldInst) Pos() token.Position { return i.tok.StartPosition }
func (i *FieldInst) String() string      { return i.op.String() + " " + i.ref.String() }

// MethodInst invokes a method through a symbolic member reference.
type MethodInst struct {
	tok token.Token
	op  op.Code
	ref *MemberRef
}

// NewMethodInst creates a method-invocation instruction.
func NewMethodInst(tok token.Token, code op.Code, ref *MemberRef) *MethodInst {
	return &MethodInst{tok: tok, op: code, ref: ref}
}

func (i *MethodInst) bodyEntry()          {}
func (i *MethodInst) isInstruction()      {}
func (i *MethodInst) Op() op.Code         { return i.op }
func (i *MethodInst) Ref() *MemberRef     { return i.ref }
func (i *MethodInst) Token() token.Token  { return i.tok }
func (i *MethodInst) Pos() token.Position { return i.tok.StartPosition }
func (i *MethodInst) String() string      { return i.op.String() + " " + i.ref.String() }

// NewArrayInst allocates a one-dimensional primitive array.
type NewArrayInst struct {
	tok  token.Token
	elem op.ArrayType
}

// NewNewArrayInst creates a primitive-array allocation instruction.
func NewNewArrayInst(tok token.Token, elem op.ArrayType) *NewArrayInst {
	return &NewArrayInst{tok: tok, elem: elem}
}

func (i *NewArrayInst) bodyEntry()          {}
func (i *NewArrayInst) isInstruction()      {}
func (i *NewArrayInst) Op() op.Code         { return op.Newarray }
func (i *NewArrayInst) Elem() op.ArrayType  { return i.elem }
func (i *NewArrayInst) Token() token.Token  { return i.tok }
func (i *NewArrayInst) Pos() token.Position { return i.tok.StartPosition }
func (i *NewArrayInst) String() string      { return "newarray " + i.elem.String() }

// MultiArrayInst allocates a multi-dimensional array, popping one length per
// dimension.
type MultiArrayInst struct {
	tok  token.Token
	typ  *TypeRef
	dims int
}

// NewMultiArrayInst creates a multi-dimensional array allocation.
func NewMultiArrayInst(tok token.Token, typ *TypeRef, dims int) *MultiArrayInst {
	return &MultiArrayInst{tok: tok, typ: typ, dims: dims}
}

func (i *MultiArrayInst) bodyEntry()          {}
func (i *MultiArrayInst) isInstruction()      {}
func (i *MultiArrayInst) Op() op.Code         { return op.Multianewarray }
func (i *MultiArrayInst) Type() *TypeRef      { return i.typ }
func (i *MultiArrayInst) Dims() int           { return i.dims }
func (i *MultiArrayInst) Token() token.Token  { return i.tok }
func (i *MultiArrayInst) Pos() token.Position { return i.tok.StartPosition }

func (i *MultiArrayInst) String() string {
	return "multianewarray " + i.typ.String() + " " + strconv.Itoa(i.dims)
}
