package compiler

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/basm-lang/basm/ast"
	"github.com/basm-lang/basm/bytecode"
	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/internal/descriptor"
	"github.com/basm-lang/basm/op"
	"github.com/basm-lang/basm/resolver"
	"github.com/basm-lang/basm/token"
)

// item is one body entry during lowering. Items parallel the body's entry
// stream one to one, so a label's entry index is also its item index. Labels
// and line markers keep size zero; their offset is wherever the next
// instruction lands, which makes an end-of-body label a valid exclusive
// range bound.
type item struct {
	entry ast.BodyEntry
	inst  ast.Instruction // nil for labels and line markers
	code  op.Code
	size  int
	off   int

	wide  bool   // wide-prefixed local access
	slot  int    // local slot for loads, stores and iinc
	delta int    // iinc increment
	val   int64  // immediate operand: bipush, sipush, newarray, dimension count
	pool  uint16 // constant pool index operand
	count int    // invokeinterface argument slot count

	target  string   // branch target label
	dflt    string   // switch default label
	matches []int32  // lookupswitch keys in ascending order
	targets []string // switch case targets, aligned with matches for lookupswitch

	pop, push int // operand stack slots consumed and produced
}

// methodCompiler lowers one method body.
type methodCompiler struct {
	*Compiler
	def  *ast.MethodDef
	res  *resolver.Resolution
	pool *bytecode.ConstPool

	items    []*item
	lines    []bytecode.LineEntry
	maxLocal int
}

// build runs the first pass: every entry is lowered to its smallest encoding
// under the assumption that all branches fit their short forms, constants are
// interned, and stack effects are attached.
func (m *methodCompiler) build() error {
	m.maxLocal = m.res.ParamSlots()
	for _, e := range m.def.Body().Entries() {
		it := &item{entry: e}
		if inst, ok := e.(ast.Instruction); ok {
			it.inst = inst
			if err := m.lower(it, inst); err != nil {
				return err
			}
		}
		m.items = append(m.items, it)
	}
	for _, v := range m.def.Body().Locals() {
		if end := v.Slot() + declaredWidth(v.Desc()); end > m.maxLocal {
			m.maxLocal = end
		}
	}
	return nil
}

func (m *methodCompiler) lower(it *item, inst ast.Instruction) error {
	if info := op.GetInfo(inst.Op()); info.Unsupported {
		return m.fail(errors.E3003, inst.Pos(), "%s is not part of this dialect", info.Name)
	}
	switch n := inst.(type) {
	case *ast.SimpleInst:
		info := op.GetInfo(n.Op())
		it.code = n.Op()
		it.size = info.Size
		it.pop, it.push = info.Pop, info.Push
		return nil
	case *ast.ConstInst:
		return m.lowerConst(it, n)
	case *ast.VarInst:
		return m.lowerVar(it, n)
	case *ast.IincInst:
		return m.lowerIinc(it, n)
	case *ast.BranchInst:
		info := op.GetInfo(n.Op())
		it.code = n.Op()
		it.size = info.Size
		it.target = n.Target().Name()
		it.pop, it.push = info.Pop, info.Push
		return nil
	case *ast.TableSwitchInst:
		return m.lowerTableSwitch(it, n)
	case *ast.LookupSwitchInst:
		return m.lowerLookupSwitch(it, n)
	case *ast.TypeInst:
		idx, err := m.pool.AddClass(n.Type().Name())
		if err != nil {
			return m.fail(errors.E3003, n.Pos(), "%v", err)
		}
		info := op.GetInfo(n.Op())
		it.code, it.size, it.pool = n.Op(), 3, idx
		it.pop, it.push = info.Pop, info.Push
		return nil
	case *ast.FieldInst:
		return m.lowerField(it, n)
	case *ast.MethodInst:
		return m.lowerMethod(it, n)
	case *ast.NewArrayInst:
		it.code, it.size = op.Newarray, 2
		it.val = int64(n.Elem())
		it.pop, it.push = 1, 1
		return nil
	case *ast.MultiArrayInst:
		return m.lowerMultiArray(it, n)
	}
	return m.fail(errors.E3003, inst.Pos(), "cannot lower %T", inst)
}

// lowerConst folds a constant load into the smallest form: an implied-value
// opcode, an immediate push, or a pool load. The ldc versus ldc_w choice
// depends only on the pool index, never on code layout.
func (m *methodCompiler) lowerConst(it *item, n *ast.ConstInst) error {
	lit := n.Literal()
	switch lit.Kind() {
	case ast.IntLit:
		v := lit.Int()
		if v < math.MinInt32 || v > math.MaxInt32 {
			return m.fail(errors.E3003, n.Pos(), "int constant %d does not fit in 32 bits", v)
		}
		if code, ok := op.CompactInt(v); ok {
			it.code, it.size, it.push = code, 1, 1
			return nil
		}
		if v >= math.MinInt8 && v <= math.MaxInt8 {
			it.code, it.size, it.val, it.push = op.Bipush, 2, v, 1
			return nil
		}
		if v >= math.MinInt16 && v <= math.MaxInt16 {
			it.code, it.size, it.val, it.push = op.Sipush, 3, v, 1
			return nil
		}
		idx, err := m.pool.AddInt(int32(v))
		if err != nil {
			return m.fail(errors.E3003, n.Pos(), "%v", err)
		}
		m.setLdc(it, idx, 1)
	case ast.LongLit:
		if code, ok := op.CompactLong(lit.Int()); ok {
			it.code, it.size, it.push = code, 1, 2
			return nil
		}
		idx, err := m.pool.AddLong(lit.Int())
		if err != nil {
			return m.fail(errors.E3003, n.Pos(), "%v", err)
		}
		it.code, it.size, it.pool, it.push = op.Ldc2W, 3, idx, 2
	case ast.FloatLit:
		if code, ok := op.CompactFloat(lit.Float32()); ok {
			it.code, it.size, it.push = code, 1, 1
			return nil
		}
		idx, err := m.pool.AddFloat(lit.Float32())
		if err != nil {
			return m.fail(errors.E3003, n.Pos(), "%v", err)
		}
		m.setLdc(it, idx, 1)
	case ast.DoubleLit:
		if code, ok := op.CompactDouble(lit.Float()); ok {
			it.code, it.size, it.push = code, 1, 2
			return nil
		}
		idx, err := m.pool.AddDouble(lit.Float())
		if err != nil {
			return m.fail(errors.E3003, n.Pos(), "%v", err)
		}
		it.code, it.size, it.pool, it.push = op.Ldc2W, 3, idx, 2
	case ast.StringLit:
		idx, err := m.pool.AddString(lit.Str())
		if err != nil {
			return m.fail(errors.E3003, n.Pos(), "%v", err)
		}
		m.setLdc(it, idx, 1)
	case ast.TypeLit:
		idx, err := m.pool.AddClass(lit.Str())
		if err != nil {
			return m.fail(errors.E3003, n.Pos(), "%v", err)
		}
		m.setLdc(it, idx, 1)
	}
	return nil
}

// setLdc picks the one-byte or two-byte pool index form. Index growth is
// monotonic, so a once-wide load never narrows.
func (m *methodCompiler) setLdc(it *item, idx uint16, push int) {
	if idx <= math.MaxUint8 {
		it.code, it.size = op.Ldc, 2
	} else {
		it.code, it.size = op.LdcW, 3
	}
	it.pool = idx
	it.push = push
}

func (m *methodCompiler) lowerVar(it *item, n *ast.VarInst) error {
	slot, err := m.slotOf(n.Local(), n.Pos())
	if err != nil {
		return err
	}
	base := n.Op()
	info := op.GetInfo(base)
	it.slot = slot
	it.pop, it.push = info.Pop, info.Push
	if end := slot + slotOpWidth(base); end > m.maxLocal {
		m.maxLocal = end
	}
	if code, ok := op.CompactSlot(base, slot); ok {
		it.code, it.size = code, 1
		return nil
	}
	if slot <= math.MaxUint8 {
		it.code, it.size = base, 2
		return nil
	}
	if slot <= math.MaxUint16 {
		it.code, it.size, it.wide = base, 4, true
		return nil
	}
	return m.fail(errors.E3003, n.Pos(), "local slot %d does not fit in 16 bits", slot)
}

func (m *methodCompiler) lowerIinc(it *item, n *ast.IincInst) error {
	slot, err := m.slotOf(n.Local(), n.Pos())
	if err != nil {
		return err
	}
	it.code = op.Iinc
	it.slot, it.delta = slot, n.Delta()
	if slot+1 > m.maxLocal {
		m.maxLocal = slot + 1
	}
	if slot <= math.MaxUint8 && n.Delta() >= math.MinInt8 && n.Delta() <= math.MaxInt8 {
		it.size = 3
		return nil
	}
	if slot > math.MaxUint16 {
		return m.fail(errors.E3003, n.Pos(), "local slot %d does not fit in 16 bits", slot)
	}
	if n.Delta() < math.MinInt16 || n.Delta() > math.MaxInt16 {
		return m.fail(errors.E3003, n.Pos(), "iinc delta %d does not fit in 16 bits", n.Delta())
	}
	it.size, it.wide = 6, true
	return nil
}

func (m *methodCompiler) lowerTableSwitch(it *item, n *ast.TableSwitchInst) error {
	span := int64(n.High()) - int64(n.Low()) + 1
	if span < 1 {
		return m.fail(errors.E3003, n.Pos(), "tableswitch bounds %d..%d are reversed", n.Low(), n.High())
	}
	if int64(len(n.Targets())) != span {
		return m.fail(errors.E3003, n.Pos(),
			"tableswitch covers %d values but lists %d targets", span, len(n.Targets()))
	}
	it.code = op.Tableswitch
	it.size = 13 + 4*len(n.Targets())
	it.dflt = n.Default().Name()
	for _, t := range n.Targets() {
		it.targets = append(it.targets, t.Name())
	}
	it.pop = 1
	return nil
}

// lowerLookupSwitch orders the pairs by match key. Source order is
// presentation; the encoded table is always sorted.
func (m *methodCompiler) lowerLookupSwitch(it *item, n *ast.LookupSwitchInst) error {
	pairs := append([]ast.SwitchPair(nil), n.Pairs()...)
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Match < pairs[j].Match })
	for i := 1; i < len(pairs); i++ {
		if pairs[i].Match == pairs[i-1].Match {
			return m.fail(errors.E3003, n.Pos(), "lookupswitch lists match %d twice", pairs[i].Match)
		}
	}
	it.code = op.Lookupswitch
	it.size = 9 + 8*len(pairs)
	it.dflt = n.Default().Name()
	for _, p := range pairs {
		it.matches = append(it.matches, p.Match)
		it.targets = append(it.targets, p.Target.Name())
	}
	it.pop = 1
	return nil
}

func (m *methodCompiler) lowerField(it *item, n *ast.FieldInst) error {
	ref := n.Ref()
	typ, err := descriptor.ParseField(ref.Desc())
	if err != nil {
		return m.fail(errors.E3003, n.Pos(),
			"malformed descriptor %q for %s.%s", ref.Desc(), ref.Owner(), ref.Name())
	}
	idx, err := m.pool.AddFieldRef(ref.Owner(), ref.Name(), ref.Desc())
	if err != nil {
		return m.fail(errors.E3003, n.Pos(), "%v", err)
	}
	it.code, it.size, it.pool = n.Op(), 3, idx
	w := typ.SlotWidth()
	switch n.Op() {
	case op.Getstatic:
		it.push = w
	case op.Putstatic:
		it.pop = w
	case op.Getfield:
		it.pop, it.push = 1, w
	case op.Putfield:
		it.pop = 1 + w
	}
	return nil
}

func (m *methodCompiler) lowerMethod(it *item, n *ast.MethodInst) error {
	ref := n.Ref()
	sig, err := descriptor.ParseMethod(ref.Desc())
	if err != nil {
		return m.fail(errors.E3003, n.Pos(),
			"malformed descriptor %q for %s.%s", ref.Desc(), ref.Owner(), ref.Name())
	}
	var idx uint16
	if n.Op() == op.Invokeinterface {
		idx, err = m.pool.AddInterfaceMethodRef(ref.Owner(), ref.Name(), ref.Desc())
	} else {
		idx, err = m.pool.AddMethodRef(ref.Owner(), ref.Name(), ref.Desc())
	}
	if err != nil {
		return m.fail(errors.E3003, n.Pos(), "%v", err)
	}
	it.code, it.size, it.pool = n.Op(), 3, idx
	it.pop = sig.ArgSlots()
	if n.Op() != op.Invokestatic {
		it.pop++
	}
	it.push = sig.ReturnWidth()
	if n.Op() == op.Invokeinterface {
		// The count byte records receiver plus argument slots.
		if it.pop > math.MaxUint8 {
			return m.fail(errors.E3003, n.Pos(),
				"%s.%s consumes %d slots; invokeinterface counts them in one byte", ref.Owner(), ref.Name(), it.pop)
		}
		it.size, it.count = 5, it.pop
	}
	return nil
}

func (m *methodCompiler) lowerMultiArray(it *item, n *ast.MultiArrayInst) error {
	if n.Dims() < 1 || n.Dims() > math.MaxUint8 {
		return m.fail(errors.E3003, n.Pos(), "multianewarray dimension count %d is out of range", n.Dims())
	}
	idx, err := m.pool.AddClass(n.Type().Name())
	if err != nil {
		return m.fail(errors.E3003, n.Pos(), "%v", err)
	}
	it.code, it.size, it.pool = op.Multianewarray, 4, idx
	it.val = int64(n.Dims())
	it.pop, it.push = n.Dims(), 1
	return nil
}

// slotOf returns the concrete slot for a local operand. The resolver
// substitutes named locals in place, so the name lookup is a fallback for
// bodies compiled without that rewrite.
func (m *methodCompiler) slotOf(l ast.Local, pos token.Position) (int, error) {
	if !l.IsNamed() {
		return l.Slot(), nil
	}
	if slot, ok := m.res.Slot(l.Name()); ok {
		return slot, nil
	}
	return 0, m.fail(errors.E3003, pos, "local %s has no assigned slot", l.Name())
}

// layout fixes instruction offsets. Only goto ever needs to grow, and growth
// is monotonic, so repeating until no goto widens reaches a fixed point.
// Conditional branches have no wide form; one that still cannot reach its
// target afterwards is unencodable.
func (m *methodCompiler) layout() error {
	passes := 0
	for {
		passes++
		m.reflow()
		widened := false
		for _, it := range m.items {
			if it.code != op.Goto || it.size != 3 {
				continue
			}
			delta, err := m.branchDelta(it)
			if err != nil {
				return err
			}
			if delta < math.MinInt16 || delta > math.MaxInt16 {
				it.code, it.size = op.GotoW, 5
				widened = true
			}
		}
		if !widened {
			break
		}
	}
	if m.trace != nil {
		m.trace.LayoutPasses = passes
	}
	for _, it := range m.items {
		if it.inst == nil || !op.IsConditionalBranch(it.code) {
			continue
		}
		delta, err := m.branchDelta(it)
		if err != nil {
			return err
		}
		if delta < math.MinInt16 || delta > math.MaxInt16 {
			return m.fail(errors.E3003, it.inst.Pos(),
				"%s cannot reach %%%s: offset %d is outside the signed 16-bit branch range",
				it.code, it.target, delta)
		}
	}
	if total := m.codeSize(); total > math.MaxUint16 {
		return m.fail(errors.E3006, m.def.Pos(),
			"method code is %d bytes; the limit is %d", total, math.MaxUint16)
	}
	for _, it := range m.items {
		if ld, ok := it.entry.(*ast.LineDirective); ok {
			m.lines = append(m.lines, bytecode.LineEntry{PC: it.off, Line: ld.Line()})
		}
	}
	return nil
}

func (m *methodCompiler) reflow() {
	off := 0
	for _, it := range m.items {
		it.off = off
		off += it.size
	}
}

func (m *methodCompiler) codeSize() int {
	if len(m.items) == 0 {
		return 0
	}
	last := m.items[len(m.items)-1]
	return last.off + last.size
}

// labelOffset returns the byte offset a label resolves to under the current
// layout.
func (m *methodCompiler) labelOffset(name string, pos token.Position) (int, error) {
	idx, ok := m.res.LabelIndex(name)
	if !ok || idx < 0 || idx >= len(m.items) {
		return 0, m.fail(errors.E3003, pos, "label %%%s is not declared", name)
	}
	return m.items[idx].off, nil
}

func (m *methodCompiler) branchDelta(it *item) (int, error) {
	target, err := m.labelOffset(it.target, it.inst.Pos())
	if err != nil {
		return 0, err
	}
	return target - it.off, nil
}

// encode emits the laid-out items as big-endian bytes.
func (m *methodCompiler) encode() ([]byte, error) {
	buf := make([]byte, 0, m.codeSize())
	for _, it := range m.items {
		if it.inst == nil {
			continue
		}
		switch op.GetInfo(it.code).Kind {
		case op.KindNone:
			buf = append(buf, byte(it.code))
		case op.KindInt8:
			buf = append(buf, byte(it.code), byte(int8(it.val)))
		case op.KindInt16:
			buf = appendU16(append(buf, byte(it.code)), uint16(int16(it.val)))
		case op.KindConst:
			if it.code == op.Ldc {
				buf = append(buf, byte(it.code), byte(it.pool))
			} else {
				buf = appendU16(append(buf, byte(it.code)), it.pool)
			}
		case op.KindSlot:
			if it.wide {
				buf = appendU16(append(buf, byte(op.Wide), byte(it.code)), uint16(it.slot))
			} else {
				buf = append(buf, byte(it.code), byte(it.slot))
			}
		case op.KindIinc:
			if it.wide {
				buf = appendU16(append(buf, byte(op.Wide), byte(it.code)), uint16(it.slot))
				buf = appendU16(buf, uint16(int16(it.delta)))
			} else {
				buf = append(buf, byte(it.code), byte(it.slot), byte(int8(it.delta)))
			}
		case op.KindBranch:
			delta, err := m.branchDelta(it)
			if err != nil {
				return nil, err
			}
			buf = appendU16(append(buf, byte(it.code)), uint16(int16(delta)))
		case op.KindBranchWide:
			delta, err := m.branchDelta(it)
			if err != nil {
				return nil, err
			}
			buf = appendU32(append(buf, byte(it.code)), uint32(int32(delta)))
		case op.KindType, op.KindField, op.KindMethod:
			buf = appendU16(append(buf, byte(it.code)), it.pool)
		case op.KindIfaceMethod:
			buf = appendU16(append(buf, byte(it.code)), it.pool)
			buf = append(buf, byte(it.count), 0)
		case op.KindNewarray:
			buf = append(buf, byte(it.code), byte(it.val))
		case op.KindMultiarray:
			buf = appendU16(append(buf, byte(it.code)), it.pool)
			buf = append(buf, byte(it.val))
		case op.KindTableSwitch:
			var err error
			if buf, err = m.encodeTableSwitch(buf, it); err != nil {
				return nil, err
			}
		case op.KindLookupSwitch:
			var err error
			if buf, err = m.encodeLookupSwitch(buf, it); err != nil {
				return nil, err
			}
		}
	}
	return buf, nil
}

func (m *methodCompiler) encodeTableSwitch(buf []byte, it *item) ([]byte, error) {
	n := it.inst.(*ast.TableSwitchInst)
	buf = append(buf, byte(it.code))
	d, err := m.switchDelta(it, it.dflt)
	if err != nil {
		return nil, err
	}
	buf = appendU32(buf, uint32(int32(d)))
	buf = appendU32(buf, uint32(n.Low()))
	buf = appendU32(buf, uint32(n.High()))
	for _, name := range it.targets {
		d, err := m.switchDelta(it, name)
		if err != nil {
			return nil, err
		}
		buf = appendU32(buf, uint32(int32(d)))
	}
	return buf, nil
}

func (m *methodCompiler) encodeLookupSwitch(buf []byte, it *item) ([]byte, error) {
	buf = append(buf, byte(it.code))
	d, err := m.switchDelta(it, it.dflt)
	if err != nil {
		return nil, err
	}
	buf = appendU32(buf, uint32(int32(d)))
	buf = appendU32(buf, uint32(int32(len(it.matches))))
	for i, match := range it.matches {
		buf = appendU32(buf, uint32(match))
		d, err := m.switchDelta(it, it.targets[i])
		if err != nil {
			return nil, err
		}
		buf = appendU32(buf, uint32(int32(d)))
	}
	return buf, nil
}

// switchDelta measures from the switch opcode itself. The table starts
// immediately after the opcode byte; there is no alignment padding.
func (m *methodCompiler) switchDelta(it *item, label string) (int, error) {
	target, err := m.labelOffset(label, it.inst.Pos())
	if err != nil {
		return 0, err
	}
	return target - it.off, nil
}

func (m *methodCompiler) handlerTable() ([]bytecode.ExceptionHandler, error) {
	var out []bytecode.ExceptionHandler
	for _, h := range m.def.Body().Handlers() {
		start, err := m.labelOffset(h.From().Name(), h.From().Pos())
		if err != nil {
			return nil, err
		}
		end, err := m.labelOffset(h.To().Name(), h.To().Pos())
		if err != nil {
			return nil, err
		}
		entry, err := m.labelOffset(h.Handler().Name(), h.Handler().Pos())
		if err != nil {
			return nil, err
		}
		out = append(out, bytecode.ExceptionHandler{
			Start:   start,
			End:     end,
			Handler: entry,
			Type:    h.Type(),
		})
	}
	return out, nil
}

func (m *methodCompiler) localTable() ([]bytecode.LocalVar, error) {
	var out []bytecode.LocalVar
	for _, v := range m.def.Body().Locals() {
		start, err := m.labelOffset(v.From().Name(), v.From().Pos())
		if err != nil {
			return nil, err
		}
		end, err := m.labelOffset(v.To().Name(), v.To().Pos())
		if err != nil {
			return nil, err
		}
		out = append(out, bytecode.LocalVar{
			Slot:  v.Slot(),
			Name:  v.Name(),
			Desc:  v.Desc(),
			Start: start,
			End:   end,
		})
	}
	return out, nil
}

// slotOpWidth returns the local slot width consumed by a load or store.
func slotOpWidth(code op.Code) int {
	switch code {
	case op.Lload, op.Dload, op.Lstore, op.Dstore:
		return 2
	}
	return 1
}

// declaredWidth is the slot width of a variable directive's descriptor.
func declaredWidth(desc string) int {
	typ, err := descriptor.ParseField(desc)
	if err != nil {
		return 1
	}
	return typ.SlotWidth()
}

func appendU16(buf []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(buf, v)
}

func appendU32(buf []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(buf, v)
}
