package bytecode

// Stats summarizes a compiled method for logs and audit output.
type Stats struct {
	// CodeBytes is the size of the encoded instruction stream.
	CodeBytes int

	// InstructionCount is the number of encoded instructions.
	InstructionCount int

	// ConstantCount is the number of constant pool entries.
	ConstantCount int

	// HandlerCount is the number of exception table rows.
	HandlerCount int

	// MaxStack and MaxLocals are the computed frame sizes.
	MaxStack  int
	MaxLocals int
}

// Stats walks the code and summarizes it.
func (m *Method) Stats() Stats {
	count := 0
	it := m.Instructions()
	for it.Next() {
		count++
	}
	return Stats{
		CodeBytes:        len(m.code),
		InstructionCount: count,
		ConstantCount:    m.pool.Count(),
		HandlerCount:     len(m.handlers),
		MaxStack:         m.maxStack,
		MaxLocals:        m.maxLocals,
	}
}
