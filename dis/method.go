package dis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/basm-lang/basm/ast"
	"github.com/basm-lang/basm/bytecode"
	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/op"
	"github.com/basm-lang/basm/token"
)

// method rebuilds a method body instruction by instruction. Every offset
// that a branch, switch or table row points at receives a synthetic label,
// named L0, L1 and so on in code order. A method without code bytes is
// reconstructed as a bare signature.
func (d *Disassembler) method(m *bytecode.Method) (*ast.Unit, error) {
	mods := ast.ModifierWords(ast.MethodKind, m.Flags())
	if m.CodeLen() == 0 {
		def := ast.NewMethodDef(token.Token{}, mods, m.Name(), m.Desc(), nil)
		return ast.NewUnit(def), nil
	}

	insts, err := d.scan(m)
	if err != nil {
		return nil, err
	}
	starts := make(map[int]int, len(insts))
	for i, inst := range insts {
		starts[inst.Offset] = i
	}
	labels, err := d.labelNames(m, insts, starts)
	if err != nil {
		return nil, err
	}
	lineFor, err := d.lineStarts(m, starts)
	if err != nil {
		return nil, err
	}

	body := ast.NewBody()
	for _, inst := range insts {
		if name, ok := labels[inst.Offset]; ok {
			body.Append(ast.NewLabelDecl(token.Token{}, name))
		}
		for _, line := range lineFor[inst.Offset] {
			body.Append(ast.NewLineDirective(token.Token{}, line))
		}
		node, err := d.node(m, inst, labels)
		if err != nil {
			return nil, err
		}
		body.Append(node)
	}
	// A half-open range may end one past the last instruction.
	if name, ok := labels[m.CodeLen()]; ok {
		body.Append(ast.NewLabelDecl(token.Token{}, name))
	}

	for i := 0; i < m.HandlerCount(); i++ {
		h := m.HandlerAt(i)
		body.AddHandler(ast.NewCatchDirective(token.Token{}, h.Type,
			labelRef(labels, h.Start), labelRef(labels, h.End), labelRef(labels, h.Handler)))
	}
	for i := 0; i < m.LocalVarCount(); i++ {
		v := m.LocalVarAt(i)
		body.AddLocal(ast.NewVarDirective(token.Token{}, v.Slot, v.Name, v.Desc,
			labelRef(labels, v.Start), labelRef(labels, v.End)))
	}

	def := ast.NewMethodDef(token.Token{}, mods, m.Name(), m.Desc(), body)
	return ast.NewUnit(def), nil
}

func labelRef(labels map[int]string, offset int) *ast.LabelRef {
	return ast.NewLabelRef(token.Token{}, labels[offset])
}

// scan decodes the full instruction stream, rejecting opcodes outside the
// dialect before any reconstruction begins.
func (d *Disassembler) scan(m *bytecode.Method) ([]bytecode.RawInst, error) {
	code := m.Code()
	var insts []bytecode.RawInst
	it := bytecode.NewInstructionIter(code)
	for it.Next() {
		inst := it.Inst()
		if op.GetInfo(inst.Opcode).Unsupported {
			return nil, d.fail(errors.E4002, "%s at offset %d is outside the supported instruction set", inst.Opcode, inst.Offset)
		}
		if inst.Opcode == op.Wide {
			if inner := op.Code(inst.Operands[0]); op.GetInfo(inner).Unsupported {
				return nil, d.fail(errors.E4002, "wide %s at offset %d is outside the supported instruction set", inner, inst.Offset)
			}
		}
		insts = append(insts, inst)
	}
	if err := it.Err(); err != nil {
		// The iterator stops with its offset on the instruction it could
		// not decode, which tells an unknown opcode apart from a stream
		// that is structurally broken.
		off := it.Offset()
		if off < len(code) && !op.Valid(op.Code(code[off])) {
			return nil, d.fail(errors.E4003, "unknown opcode 0x%02x at offset %d", code[off], off)
		}
		return nil, d.fail(errors.E4001, "%s", strings.TrimPrefix(err.Error(), "bytecode: "))
	}
	return insts, nil
}

// labelNames assigns a synthetic label to every offset that anything refers
// to. Branch and switch targets must land on instruction starts; exception
// and local variable ranges may also end at the code length.
func (d *Disassembler) labelNames(m *bytecode.Method, insts []bytecode.RawInst, starts map[int]int) (map[int]string, error) {
	marked := make(map[int]bool)
	target := func(inst bytecode.RawInst, delta int) error {
		to := inst.Offset + delta
		if _, ok := starts[to]; !ok {
			return d.fail(errors.E4004, "%s at offset %d targets offset %d, which is not an instruction start", inst.Opcode, inst.Offset, to)
		}
		marked[to] = true
		return nil
	}
	for _, inst := range insts {
		switch op.GetInfo(inst.Opcode).Kind {
		case op.KindBranch:
			if err := target(inst, inst.S16(0)); err != nil {
				return nil, err
			}
		case op.KindBranchWide:
			if err := target(inst, inst.S32(0)); err != nil {
				return nil, err
			}
		case op.KindTableSwitch:
			if err := target(inst, inst.S32(0)); err != nil {
				return nil, err
			}
			span := inst.S32(8) - inst.S32(4)
			for i := 0; i <= span; i++ {
				if err := target(inst, inst.S32(12+4*i)); err != nil {
					return nil, err
				}
			}
		case op.KindLookupSwitch:
			if err := target(inst, inst.S32(0)); err != nil {
				return nil, err
			}
			n := inst.S32(4)
			for i := 0; i < n; i++ {
				if err := target(inst, inst.S32(12+8*i)); err != nil {
					return nil, err
				}
			}
		}
	}
	boundary := func(what string, off int) error {
		if _, ok := starts[off]; !ok && off != m.CodeLen() {
			return d.fail(errors.E4007, "%s offset %d is not an instruction boundary", what, off)
		}
		marked[off] = true
		return nil
	}
	for i := 0; i < m.HandlerCount(); i++ {
		h := m.HandlerAt(i)
		if err := boundary("handler range", h.Start); err != nil {
			return nil, err
		}
		if err := boundary("handler range", h.End); err != nil {
			return nil, err
		}
		if err := boundary("handler", h.Handler); err != nil {
			return nil, err
		}
	}
	for i := 0; i < m.LocalVarCount(); i++ {
		v := m.LocalVarAt(i)
		if err := boundary("local range", v.Start); err != nil {
			return nil, err
		}
		if err := boundary("local range", v.End); err != nil {
			return nil, err
		}
	}

	offsets := make([]int, 0, len(marked))
	for off := range marked {
		offsets = append(offsets, off)
	}
	sort.Ints(offsets)
	labels := make(map[int]string, len(offsets))
	for i, off := range offsets {
		labels[off] = fmt.Sprintf("L%d", i)
	}
	return labels, nil
}

// lineStarts validates the line table and keys it by instruction offset,
// preserving the table's order for entries that share a pc.
func (d *Disassembler) lineStarts(m *bytecode.Method, starts map[int]int) (map[int][]int, error) {
	lineFor := make(map[int][]int, m.LineCount())
	for i := 0; i < m.LineCount(); i++ {
		e := m.LineAt(i)
		if _, ok := starts[e.PC]; !ok {
			return nil, d.fail(errors.E4007, "line %d maps pc %d, which is not an instruction start", e.Line, e.PC)
		}
		lineFor[e.PC] = append(lineFor[e.PC], e.Line)
	}
	return lineFor, nil
}

// node folds one decoded instruction back to its canonical source form.
// Compact constant and slot opcodes become the literal or slot they imply,
// wide forms shed the prefix and goto_w becomes goto. Width decisions are
// retaken during compilation, so the canonical form loses nothing.
func (d *Disassembler) node(m *bytecode.Method, inst bytecode.RawInst, labels map[int]string) (ast.BodyEntry, error) {
	tok := token.Token{}
	c := inst.Opcode
	if v, ok := op.ImpliedInt(c); ok {
		return ast.NewConstInst(tok, ast.NewIntLit(tok, int64(v))), nil
	}
	if v, ok := op.ImpliedLong(c); ok {
		return ast.NewConstInst(tok, ast.NewLongLit(tok, v)), nil
	}
	if v, ok := op.ImpliedFloat(c); ok {
		return ast.NewConstInst(tok, ast.NewFloatLit(tok, v)), nil
	}
	if v, ok := op.ImpliedDouble(c); ok {
		return ast.NewConstInst(tok, ast.NewDoubleLit(tok, v)), nil
	}
	if base, slot, ok := op.SlotOf(c); ok {
		return ast.NewVarInst(tok, base, ast.NewSlotLocal(tok, slot)), nil
	}

	switch c {
	case op.Bipush:
		return ast.NewConstInst(tok, ast.NewIntLit(tok, int64(inst.S8(0)))), nil
	case op.Sipush:
		return ast.NewConstInst(tok, ast.NewIntLit(tok, int64(inst.S16(0)))), nil
	case op.Ldc:
		return d.constInst(m, inst, inst.U8(0))
	case op.LdcW, op.Ldc2W:
		return d.constInst(m, inst, inst.U16(0))
	case op.Iinc:
		return ast.NewIincInst(tok, ast.NewSlotLocal(tok, inst.U8(0)), inst.S8(1)), nil
	case op.Wide:
		if inner := op.Code(inst.Operands[0]); inner == op.Iinc {
			return ast.NewIincInst(tok, ast.NewSlotLocal(tok, inst.U16(1)), inst.S16(3)), nil
		}
		return ast.NewVarInst(tok, op.Code(inst.Operands[0]), ast.NewSlotLocal(tok, inst.U16(1))), nil
	case op.Newarray:
		t := op.ArrayType(inst.U8(0))
		if !op.ValidArrayType(t) {
			return nil, d.fail(errors.E4001, "newarray operand %d at offset %d is not a primitive type code", inst.U8(0), inst.Offset)
		}
		return ast.NewNewArrayInst(tok, t), nil
	case op.Multianewarray:
		typ, err := d.classRef(m, inst, inst.U16(0))
		if err != nil {
			return nil, err
		}
		dims := inst.U8(2)
		if dims == 0 {
			return nil, d.fail(errors.E4001, "multianewarray at offset %d declares zero dimensions", inst.Offset)
		}
		return ast.NewMultiArrayInst(tok, typ, dims), nil
	}

	switch op.GetInfo(c).Kind {
	case op.KindNone:
		return ast.NewSimpleInst(tok, c), nil
	case op.KindSlot:
		return ast.NewVarInst(tok, c, ast.NewSlotLocal(tok, inst.U8(0))), nil
	case op.KindBranch:
		return ast.NewBranchInst(tok, c, d.targetRef(inst, inst.S16(0), labels)), nil
	case op.KindBranchWide:
		return ast.NewBranchInst(tok, op.Goto, d.targetRef(inst, inst.S32(0), labels)), nil
	case op.KindTableSwitch:
		return d.tableSwitch(inst, labels), nil
	case op.KindLookupSwitch:
		return d.lookupSwitch(inst, labels), nil
	case op.KindType:
		typ, err := d.classRef(m, inst, inst.U16(0))
		if err != nil {
			return nil, err
		}
		return ast.NewTypeInst(tok, c, typ), nil
	case op.KindField:
		ref, err := d.memberRef(m, inst, bytecode.ConstFieldRef)
		if err != nil {
			return nil, err
		}
		return ast.NewFieldInst(tok, c, ref), nil
	case op.KindMethod:
		ref, err := d.memberRef(m, inst, bytecode.ConstMethodRef)
		if err != nil {
			return nil, err
		}
		return ast.NewMethodInst(tok, c, ref), nil
	case op.KindIfaceMethod:
		ref, err := d.memberRef(m, inst, bytecode.ConstIfaceMethodRef)
		if err != nil {
			return nil, err
		}
		return ast.NewMethodInst(tok, c, ref), nil
	}
	return nil, d.fail(errors.E4003, "no source form for %s at offset %d", c, inst.Offset)
}

// targetRef resolves a relative branch operand to its synthesized label.
// Target offsets were validated while labels were assigned.
func (d *Disassembler) targetRef(inst bytecode.RawInst, delta int, labels map[int]string) *ast.LabelRef {
	return ast.NewLabelRef(token.Token{}, labels[inst.Offset+delta])
}

func (d *Disassembler) tableSwitch(inst bytecode.RawInst, labels map[int]string) ast.BodyEntry {
	low := int32(inst.S32(4))
	high := int32(inst.S32(8))
	targets := make([]*ast.LabelRef, 0, int(high)-int(low)+1)
	for i := 0; i <= int(high)-int(low); i++ {
		targets = append(targets, d.targetRef(inst, inst.S32(12+4*i), labels))
	}
	return ast.NewTableSwitchInst(token.Token{}, low, high, targets, d.targetRef(inst, inst.S32(0), labels))
}

func (d *Disassembler) lookupSwitch(inst bytecode.RawInst, labels map[int]string) ast.BodyEntry {
	n := inst.S32(4)
	pairs := make([]ast.SwitchPair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, ast.SwitchPair{
			Match:  int32(inst.S32(8 + 8*i)),
			Target: d.targetRef(inst, inst.S32(12+8*i), labels),
		})
	}
	return ast.NewLookupSwitchInst(token.Token{}, pairs, d.targetRef(inst, inst.S32(0), labels))
}

// constInst folds an ldc family opcode into the literal behind its pool
// operand. The two-slot form must name a long or double entry and the
// one-slot forms must not.
func (d *Disassembler) constInst(m *bytecode.Method, inst bytecode.RawInst, index int) (ast.BodyEntry, error) {
	c, ok := m.Constant(uint16(index))
	if !ok {
		return nil, d.fail(errors.E4005, "%s at offset %d names constant %d of a %d-entry pool", inst.Opcode, inst.Offset, index, m.ConstantCount())
	}
	lit, ok := literalOf(c)
	if !ok {
		return nil, d.fail(errors.E4005, "%s at offset %d cannot load a constant of kind %s", inst.Opcode, inst.Offset, c.Kind)
	}
	twoSlot := c.Kind == bytecode.ConstLong || c.Kind == bytecode.ConstDouble
	if twoSlot != (inst.Opcode == op.Ldc2W) {
		return nil, d.fail(errors.E4005, "%s at offset %d cannot load a constant of kind %s", inst.Opcode, inst.Offset, c.Kind)
	}
	return ast.NewConstInst(token.Token{}, lit), nil
}

func (d *Disassembler) classRef(m *bytecode.Method, inst bytecode.RawInst, index int) (*ast.TypeRef, error) {
	c, ok := m.Constant(uint16(index))
	if !ok {
		return nil, d.fail(errors.E4005, "%s at offset %d names constant %d of a %d-entry pool", inst.Opcode, inst.Offset, index, m.ConstantCount())
	}
	if c.Kind != bytecode.ConstClass {
		return nil, d.fail(errors.E4005, "%s at offset %d requires a class constant; entry %d has kind %s", inst.Opcode, inst.Offset, index, c.Kind)
	}
	return ast.NewTypeRef(token.Token{}, c.Str), nil
}

func (d *Disassembler) memberRef(m *bytecode.Method, inst bytecode.RawInst, want bytecode.ConstKind) (*ast.MemberRef, error) {
	index := inst.U16(0)
	c, ok := m.Constant(uint16(index))
	if !ok {
		return nil, d.fail(errors.E4005, "%s at offset %d names constant %d of a %d-entry pool", inst.Opcode, inst.Offset, index, m.ConstantCount())
	}
	if c.Kind != want {
		return nil, d.fail(errors.E4005, "%s at offset %d requires a %s constant; entry %d has kind %s", inst.Opcode, inst.Offset, want, index, c.Kind)
	}
	return ast.NewMemberRef(token.Token{}, c.Owner, c.Name, c.Desc), nil
}
