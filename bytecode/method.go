package bytecode

// Method is a compiled method: flags, name, descriptor, the encoded code
// bytes and the computed tables. The encoding is JVM-shaped: big-endian
// operands, branch offsets relative to the start of their instruction, and
// always-4-byte switch operands with no alignment padding.
type Method struct {
	flags     uint16
	name      string
	desc      string
	code      []byte
	maxStack  int
	maxLocals int
	pool      *ConstPool
	handlers  []ExceptionHandler
	locals    []LocalVar
	lines     []LineEntry
}

// MethodParams contains parameters for creating a new Method.
type MethodParams struct {
	Flags     uint16
	Name      string
	Desc      string
	Code      []byte
	MaxStack  int
	MaxLocals int
	Pool      *ConstPool
	Handlers  []ExceptionHandler
	Locals    []LocalVar
	Lines     []LineEntry
}

// NewMethod creates an immutable Method. Input slices and the pool are
// copied so later caller edits do not reach the artifact.
func NewMethod(params MethodParams) *Method {
	pool := params.Pool
	if pool == nil {
		pool = NewConstPool()
	} else {
		pool = pool.Clone()
	}
	return &Method{
		flags:     params.Flags,
		name:      params.Name,
		desc:      params.Desc,
		code:      copyBytes(params.Code),
		maxStack:  params.MaxStack,
		maxLocals: params.MaxLocals,
		pool:      pool,
		handlers:  copyHandlers(params.Handlers),
		locals:    copyLocals(params.Locals),
		lines:     copyLines(params.Lines),
	}
}

// Flags returns the access flags.
func (m *Method) Flags() uint16 { return m.flags }

// Name returns the method name.
func (m *Method) Name() string { return m.name }

// Desc returns the method descriptor.
func (m *Method) Desc() string { return m.desc }

// MaxStack returns the computed operand stack ceiling.
func (m *Method) MaxStack() int { return m.maxStack }

// MaxLocals returns the computed local variable slot count.
func (m *Method) MaxLocals() int { return m.maxLocals }

// CodeLen returns the size of the encoded instruction stream in bytes.
func (m *Method) CodeLen() int { return len(m.code) }

// Code returns a copy of the code bytes.
func (m *Method) Code() []byte { return copyBytes(m.code) }

// Instructions returns an iterator over the method's code.
func (m *Method) Instructions() *InstructionIter {
	return NewInstructionIter(m.Code())
}

// ConstantCount returns the number of constant pool entries.
func (m *Method) ConstantCount() int { return m.pool.Count() }

// Constant returns the constant pool entry at the given index.
func (m *Method) Constant(index uint16) (Const, bool) { return m.pool.Entry(index) }

// HandlerCount returns the number of exception table rows.
func (m *Method) HandlerCount() int { return len(m.handlers) }

// HandlerAt returns the exception table row at the given index.
func (m *Method) HandlerAt(index int) ExceptionHandler { return m.handlers[index] }

// LocalVarCount returns the number of local variable table rows.
func (m *Method) LocalVarCount() int { return len(m.locals) }

// LocalVarAt returns the local variable table row at the given index.
func (m *Method) LocalVarAt(index int) LocalVar { return m.locals[index] }

// LineCount returns the number of line table entries.
func (m *Method) LineCount() int { return len(m.lines) }

// LineAt returns the line table entry at the given index.
func (m *Method) LineAt(index int) LineEntry { return m.lines[index] }

// LineForPC returns the source line covering the given code offset, zero
// when no line entry covers it. Entries are in ascending PC order.
func (m *Method) LineForPC(pc int) int {
	line := 0
	for _, e := range m.lines {
		if e.PC > pc {
			break
		}
		line = e.Line
	}
	return line
}
