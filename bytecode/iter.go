package bytecode

import (
	"encoding/binary"
	"fmt"

	"github.com/basm-lang/basm/op"
)

// RawInst is one decoded instruction position: where it starts, its opcode,
// and the operand bytes following the opcode.
type RawInst struct {
	Offset   int
	Opcode   op.Code
	Operands []byte
}

// Size returns the full encoded size including the opcode byte.
func (r RawInst) Size() int { return 1 + len(r.Operands) }

// U8 reads an unsigned byte operand at the given byte index.
func (r RawInst) U8(i int) int { return int(r.Operands[i]) }

// S8 reads a signed byte operand at the given byte index.
func (r RawInst) S8(i int) int { return int(int8(r.Operands[i])) }

// U16 reads a big-endian unsigned short operand at the given byte index.
func (r RawInst) U16(i int) int { return int(binary.BigEndian.Uint16(r.Operands[i:])) }

// S16 reads a big-endian signed short operand at the given byte index.
func (r RawInst) S16(i int) int { return int(int16(binary.BigEndian.Uint16(r.Operands[i:]))) }

// S32 reads a big-endian signed int operand at the given byte index.
func (r RawInst) S32(i int) int { return int(int32(binary.BigEndian.Uint32(r.Operands[i:]))) }

// InstructionIter walks raw code bytes instruction by instruction, in the
// scanner idiom:
//
//	it := bytecode.NewInstructionIter(code)
//	for it.Next() {
//		inst := it.Inst()
//	}
//	if err := it.Err(); err != nil {
//		// truncated or malformed code
//	}
type InstructionIter struct {
	code []byte
	pos  int
	cur  RawInst
	err  error
}

// NewInstructionIter creates an iterator over JVM-shaped code bytes. The
// operand slices handed out by Inst alias code; callers must not write to
// them.
func NewInstructionIter(code []byte) *InstructionIter {
	return &InstructionIter{code: code}
}

// Next decodes the instruction at the current offset. It returns false at
// the end of the code or on malformed input; Err distinguishes the two.
func (it *InstructionIter) Next() bool {
	if it.err != nil || it.pos >= len(it.code) {
		return false
	}
	start := it.pos
	c := op.Code(it.code[start])
	info := op.GetInfo(c)
	if info.Name == "" {
		it.err = fmt.Errorf("bytecode: unknown opcode 0x%02x at offset %d", byte(c), start)
		return false
	}
	size := info.Size
	switch info.Kind {
	case op.KindTableSwitch:
		size = it.tableSwitchSize(start)
	case op.KindLookupSwitch:
		size = it.lookupSwitchSize(start)
	case op.KindWide:
		size = it.wideSize(start)
	}
	if size <= 0 || start+size > len(it.code) {
		if it.err == nil {
			it.err = fmt.Errorf("bytecode: truncated %s at offset %d", info.Name, start)
		}
		return false
	}
	it.cur = RawInst{Offset: start, Opcode: c, Operands: it.code[start+1 : start+size]}
	it.pos = start + size
	return true
}

// Inst returns the instruction decoded by the last successful Next.
func (it *InstructionIter) Inst() RawInst { return it.cur }

// Err returns the error that stopped the walk, nil after a clean end.
func (it *InstructionIter) Err() error { return it.err }

// Offset returns the byte offset the iterator will decode next.
func (it *InstructionIter) Offset() int { return it.pos }

// tableSwitchSize computes opcode + default + low + high + one 4-byte
// target per bounds entry. Offsets are never padded.
func (it *InstructionIter) tableSwitchSize(start int) int {
	if start+13 > len(it.code) {
		return -1
	}
	low := int32(binary.BigEndian.Uint32(it.code[start+5:]))
	high := int32(binary.BigEndian.Uint32(it.code[start+9:]))
	if high < low {
		it.err = fmt.Errorf("bytecode: tableswitch bounds %d..%d at offset %d are reversed", low, high, start)
		return -1
	}
	return 13 + 4*(int(high)-int(low)+1)
}

// lookupSwitchSize computes opcode + default + pair count + 8 bytes per
// match/offset pair.
func (it *InstructionIter) lookupSwitchSize(start int) int {
	if start+9 > len(it.code) {
		return -1
	}
	n := int32(binary.BigEndian.Uint32(it.code[start+5:]))
	if n < 0 {
		it.err = fmt.Errorf("bytecode: lookupswitch pair count %d at offset %d", n, start)
		return -1
	}
	return 9 + 8*int(n)
}

// wideSize is 4 for the load/store forms and 6 for iinc.
func (it *InstructionIter) wideSize(start int) int {
	if start+2 > len(it.code) {
		return -1
	}
	inner := op.Code(it.code[start+1])
	if inner == op.Iinc {
		return 6
	}
	if !op.AllowsWidePrefix(inner) {
		it.err = fmt.Errorf("bytecode: wide prefix before %s at offset %d", inner, start)
		return -1
	}
	return 4
}
