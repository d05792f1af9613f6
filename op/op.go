// Package op defines the instruction set handled by the assembler and
// disassembler: opcode values, mnemonics, operand shapes, encoded sizes and
// operand stack effects. The table covers the full standard opcode range so
// the disassembler can name anything it meets, including the opcodes the
// dialect rejects.
package op

import (
	"fmt"
	"math"
	"sort"
)

// Code is a bytecode opcode.
type Code byte

const (
	Nop             Code = 0x00
	AconstNull      Code = 0x01
	IconstM1        Code = 0x02
	Iconst0         Code = 0x03
	Iconst1         Code = 0x04
	Iconst2         Code = 0x05
	Iconst3         Code = 0x06
	Iconst4         Code = 0x07
	Iconst5         Code = 0x08
	Lconst0         Code = 0x09
	Lconst1         Code = 0x0a
	Fconst0         Code = 0x0b
	Fconst1         Code = 0x0c
	Fconst2         Code = 0x0d
	Dconst0         Code = 0x0e
	Dconst1         Code = 0x0f
	Bipush          Code = 0x10
	Sipush          Code = 0x11
	Ldc             Code = 0x12
	LdcW            Code = 0x13
	Ldc2W           Code = 0x14
	Iload           Code = 0x15
	Lload           Code = 0x16
	Fload           Code = 0x17
	Dload           Code = 0x18
	Aload           Code = 0x19
	Iload0          Code = 0x1a
	Iload1          Code = 0x1b
	Iload2          Code = 0x1c
	Iload3          Code = 0x1d
	Lload0          Code = 0x1e
	Lload1          Code = 0x1f
	Lload2          Code = 0x20
	Lload3          Code = 0x21
	Fload0          Code = 0x22
	Fload1          Code = 0x23
	Fload2          Code = 0x24
	Fload3          Code = 0x25
	Dload0          Code = 0x26
	Dload1          Code = 0x27
	Dload2          Code = 0x28
	Dload3          Code = 0x29
	Aload0          Code = 0x2a
	Aload1          Code = 0x2b
	Aload2          Code = 0x2c
	Aload3          Code = 0x2d
	Iaload          Code = 0x2e
	Laload          Code = 0x2f
	Faload          Code = 0x30
	Daload          Code = 0x31
	Aaload          Code = 0x32
	Baload          Code = 0x33
	Caload          Code = 0x34
	Saload          Code = 0x35
	Istore          Code = 0x36
	Lstore          Code = 0x37
	Fstore          Code = 0x38
	Dstore          Code = 0x39
	Astore          Code = 0x3a
	Istore0         Code = 0x3b
	Istore1         Code = 0x3c
	Istore2         Code = 0x3d
	Istore3         Code = 0x3e
	Lstore0         Code = 0x3f
	Lstore1         Code = 0x40
	Lstore2         Code = 0x41
	Lstore3         Code = 0x42
	Fstore0         Code = 0x43
	Fstore1         Code = 0x44
	Fstore2         Code = 0x45
	Fstore3         Code = 0x46
	Dstore0         Code = 0x47
	Dstore1         Code = 0x48
	Dstore2         Code = 0x49
	Dstore3         Code = 0x4a
	Astore0         Code = 0x4b
	Astore1         Code = 0x4c
	Astore2         Code = 0x4d
	Astore3         Code = 0x4e
	Iastore         Code = 0x4f
	Lastore         Code = 0x50
	Fastore         Code = 0x51
	Dastore         Code = 0x52
	Aastore         Code = 0x53
	Bastore         Code = 0x54
	Castore         Code = 0x55
	Sastore         Code = 0x56
	Pop             Code = 0x57
	Pop2            Code = 0x58
	Dup             Code = 0x59
	DupX1           Code = 0x5a
	DupX2           Code = 0x5b
	Dup2            Code = 0x5c
	Dup2X1          Code = 0x5d
	Dup2X2          Code = 0x5e
	Swap            Code = 0x5f
	Iadd            Code = 0x60
	Ladd            Code = 0x61
	Fadd            Code = 0x62
	Dadd            Code = 0x63
	Isub            Code = 0x64
	Lsub            Code = 0x65
	Fsub            Code = 0x66
	Dsub            Code = 0x67
	Imul            Code = 0x68
	Lmul            Code = 0x69
	Fmul            Code = 0x6a
	Dmul            Code = 0x6b
	Idiv            Code = 0x6c
	Ldiv            Code = 0x6d
	Fdiv            Code = 0x6e
	Ddiv            Code = 0x6f
	Irem            Code = 0x70
	Lrem            Code = 0x71
	Frem            Code = 0x72
	Drem            Code = 0x73
	Ineg            Code = 0x74
	Lneg            Code = 0x75
	Fneg            Code = 0x76
	Dneg            Code = 0x77
	Ishl            Code = 0x78
	Lshl            Code = 0x79
	Ishr            Code = 0x7a
	Lshr            Code = 0x7b
	Iushr           Code = 0x7c
	Lushr           Code = 0x7d
	Iand            Code = 0x7e
	Land            Code = 0x7f
	Ior             Code = 0x80
	Lor             Code = 0x81
	Ixor            Code = 0x82
	Lxor            Code = 0x83
	Iinc            Code = 0x84
	I2l             Code = 0x85
	I2f             Code = 0x86
	I2d             Code = 0x87
	L2i             Code = 0x88
	L2f             Code = 0x89
	L2d             Code = 0x8a
	F2i             Code = 0x8b
	F2l             Code = 0x8c
	F2d             Code = 0x8d
	D2i             Code = 0x8e
	D2l             Code = 0x8f
	D2f             Code = 0x90
	I2b             Code = 0x91
	I2c             Code = 0x92
	I2s             Code = 0x93
	Lcmp            Code = 0x94
	Fcmpl           Code = 0x95
	Fcmpg           Code = 0x96
	Dcmpl           Code = 0x97
	Dcmpg           Code = 0x98
	Ifeq            Code = 0x99
	Ifne            Code = 0x9a
	Iflt            Code = 0x9b
	Ifge            Code = 0x9c
	Ifgt            Code = 0x9d
	Ifle            Code = 0x9e
	IfIcmpeq        Code = 0x9f
	IfIcmpne        Code = 0xa0
	IfIcmplt        Code = 0xa1
	IfIcmpge        Code = 0xa2
	IfIcmpgt        Code = 0xa3
	IfIcmple        Code = 0xa4
	IfAcmpeq        Code = 0xa5
	IfAcmpne        Code = 0xa6
	Goto            Code = 0xa7
	Jsr             Code = 0xa8
	Ret             Code = 0xa9
	Tableswitch     Code = 0xaa
	Lookupswitch    Code = 0xab
	Ireturn         Code = 0xac
	Lreturn         Code = 0xad
	Freturn         Code = 0xae
	Dreturn         Code = 0xaf
	Areturn         Code = 0xb0
	Return          Code = 0xb1
	Getstatic       Code = 0xb2
	Putstatic       Code = 0xb3
	Getfield        Code = 0xb4
	Putfield        Code = 0xb5
	Invokevirtual   Code = 0xb6
	Invokespecial   Code = 0xb7
	Invokestatic    Code = 0xb8
	Invokeinterface Code = 0xb9
	Invokedynamic   Code = 0xba
	New             Code = 0xbb
	Newarray        Code = 0xbc
	Anewarray       Code = 0xbd
	Arraylength     Code = 0xbe
	Athrow          Code = 0xbf
	Checkcast       Code = 0xc0
	Instanceof      Code = 0xc1
	Monitorenter    Code = 0xc2
	Monitorexit     Code = 0xc3
	Wide            Code = 0xc4
	Multianewarray  Code = 0xc5
	Ifnull          Code = 0xc6
	Ifnonnull       Code = 0xc7
	GotoW           Code = 0xc8
	JsrW            Code = 0xc9
)

// Kind describes the operand shape of an instruction, both its source text
// form and its encoding.
type Kind int

const (
	KindNone         Kind = iota
	KindSlot              // local variable index (u8; u16 under the wide prefix)
	KindIinc              // local variable index + signed delta (u8+s8; u16+s16 wide)
	KindInt8              // signed byte immediate
	KindInt16             // signed short immediate
	KindConst             // constant pool load (u8 for ldc, u16 for the _w forms)
	KindBranch            // one label target, s16 offset
	KindBranchWide        // one label target, s32 offset
	KindType              // class or array type, pool u16
	KindField             // field reference, pool u16
	KindMethod            // method reference, pool u16
	KindIfaceMethod       // interface method reference, pool u16 + count + zero byte
	KindNewarray          // primitive array type code, u8
	KindMultiarray        // type pool u16 + dimension count u8
	KindTableSwitch       // low, high, jump table
	KindLookupSwitch      // match/offset pairs
	KindWide              // prefix byte modifying the following instruction
)

// StackVariable marks a pop or push count that depends on the instruction's
// symbolic operand (member descriptor or dimension count).
const StackVariable = -1

// Info describes one opcode.
type Info struct {
	Code Code
	Name string
	Kind Kind

	// Size is the encoded size in bytes including the opcode byte. Zero for
	// the variable-length opcodes (switches, wide).
	Size int

	// Pop and Push count operand stack slots, with long and double counting
	// as two. StackVariable when the effect depends on the operand.
	Pop  int
	Push int

	// Canonical marks mnemonics writable in source text. Compact encoding
	// forms (iconst_2, iload_0, ldc_w, goto_w, bipush) are not canonical:
	// the assembler selects them and the disassembler folds them away.
	Canonical bool

	// Unsupported marks opcodes the dialect rejects outright.
	Unsupported bool
}

// Infos is indexed by opcode value. Entries with an empty Name are gaps in
// the opcode space.
var Infos [256]Info

var mnemonics = map[string]Code{}

func init() {
	for _, info := range []Info{
		{Code: Nop, Name: "nop", Kind: KindNone, Size: 1, Pop: 0, Push: 0, Canonical: true},
		{Code: AconstNull, Name: "aconst_null", Kind: KindNone, Size: 1, Pop: 0, Push: 1, Canonical: true},
		{Code: IconstM1, Name: "iconst_m1", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Iconst0, Name: "iconst_0", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Iconst1, Name: "iconst_1", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Iconst2, Name: "iconst_2", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Iconst3, Name: "iconst_3", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Iconst4, Name: "iconst_4", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Iconst5, Name: "iconst_5", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Lconst0, Name: "lconst_0", Kind: KindNone, Size: 1, Pop: 0, Push: 2},
		{Code: Lconst1, Name: "lconst_1", Kind: KindNone, Size: 1, Pop: 0, Push: 2},
		{Code: Fconst0, Name: "fconst_0", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Fconst1, Name: "fconst_1", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Fconst2, Name: "fconst_2", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Dconst0, Name: "dconst_0", Kind: KindNone, Size: 1, Pop: 0, Push: 2},
		{Code: Dconst1, Name: "dconst_1", Kind: KindNone, Size: 1, Pop: 0, Push: 2},
		{Code: Bipush, Name: "bipush", Kind: KindInt8, Size: 2, Pop: 0, Push: 1},
		{Code: Sipush, Name: "sipush", Kind: KindInt16, Size: 3, Pop: 0, Push: 1},
		{Code: Ldc, Name: "ldc", Kind: KindConst, Size: 2, Pop: 0, Push: 1, Canonical: true},
		{Code: LdcW, Name: "ldc_w", Kind: KindConst, Size: 3, Pop: 0, Push: 1},
		{Code: Ldc2W, Name: "ldc2_w", Kind: KindConst, Size: 3, Pop: 0, Push: 2},
		{Code: Iload, Name: "iload", Kind: KindSlot, Size: 2, Pop: 0, Push: 1, Canonical: true},
		{Code: Lload, Name: "lload", Kind: KindSlot, Size: 2, Pop: 0, Push: 2, Canonical: true},
		{Code: Fload, Name: "fload", Kind: KindSlot, Size: 2, Pop: 0, Push: 1, Canonical: true},
		{Code: Dload, Name: "dload", Kind: KindSlot, Size: 2, Pop: 0, Push: 2, Canonical: true},
		{Code: Aload, Name: "aload", Kind: KindSlot, Size: 2, Pop: 0, Push: 1, Canonical: true},
		{Code: Iload0, Name: "iload_0", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Iload1, Name: "iload_1", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Iload2, Name: "iload_2", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Iload3, Name: "iload_3", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Lload0, Name: "lload_0", Kind: KindNone, Size: 1, Pop: 0, Push: 2},
		{Code: Lload1, Name: "lload_1", Kind: KindNone, Size: 1, Pop: 0, Push: 2},
		{Code: Lload2, Name: "lload_2", Kind: KindNone, Size: 1, Pop: 0, Push: 2},
		{Code: Lload3, Name: "lload_3", Kind: KindNone, Size: 1, Pop: 0, Push: 2},
		{Code: Fload0, Name: "fload_0", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Fload1, Name: "fload_1", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Fload2, Name: "fload_2", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Fload3, Name: "fload_3", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Dload0, Name: "dload_0", Kind: KindNone, Size: 1, Pop: 0, Push: 2},
		{Code: Dload1, Name: "dload_1", Kind: KindNone, Size: 1, Pop: 0, Push: 2},
		{Code: Dload2, Name: "dload_2", Kind: KindNone, Size: 1, Pop: 0, Push: 2},
		{Code: Dload3, Name: "dload_3", Kind: KindNone, Size: 1, Pop: 0, Push: 2},
		{Code: Aload0, Name: "aload_0", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Aload1, Name: "aload_1", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Aload2, Name: "aload_2", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Aload3, Name: "aload_3", Kind: KindNone, Size: 1, Pop: 0, Push: 1},
		{Code: Iaload, Name: "iaload", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Laload, Name: "laload", Kind: KindNone, Size: 1, Pop: 2, Push: 2, Canonical: true},
		{Code: Faload, Name: "faload", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Daload, Name: "daload", Kind: KindNone, Size: 1, Pop: 2, Push: 2, Canonical: true},
		{Code: Aaload, Name: "aaload", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Baload, Name: "baload", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Caload, Name: "caload", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Saload, Name: "saload", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Istore, Name: "istore", Kind: KindSlot, Size: 2, Pop: 1, Push: 0, Canonical: true},
		{Code: Lstore, Name: "lstore", Kind: KindSlot, Size: 2, Pop: 2, Push: 0, Canonical: true},
		{Code: Fstore, Name: "fstore", Kind: KindSlot, Size: 2, Pop: 1, Push: 0, Canonical: true},
		{Code: Dstore, Name: "dstore", Kind: KindSlot, Size: 2, Pop: 2, Push: 0, Canonical: true},
		{Code: Astore, Name: "astore", Kind: KindSlot, Size: 2, Pop: 1, Push: 0, Canonical: true},
		{Code: Istore0, Name: "istore_0", Kind: KindNone, Size: 1, Pop: 1, Push: 0},
		{Code: Istore1, Name: "istore_1", Kind: KindNone, Size: 1, Pop: 1, Push: 0},
		{Code: Istore2, Name: "istore_2", Kind: KindNone, Size: 1, Pop: 1, Push: 0},
		{Code: Istore3, Name: "istore_3", Kind: KindNone, Size: 1, Pop: 1, Push: 0},
		{Code: Lstore0, Name: "lstore_0", Kind: KindNone, Size: 1, Pop: 2, Push: 0},
		{Code: Lstore1, Name: "lstore_1", Kind: KindNone, Size: 1, Pop: 2, Push: 0},
		{Code: Lstore2, Name: "lstore_2", Kind: KindNone, Size: 1, Pop: 2, Push: 0},
		{Code: Lstore3, Name: "lstore_3", Kind: KindNone, Size: 1, Pop: 2, Push: 0},
		{Code: Fstore0, Name: "fstore_0", Kind: KindNone, Size: 1, Pop: 1, Push: 0},
		{Code: Fstore1, Name: "fstore_1", Kind: KindNone, Size: 1, Pop: 1, Push: 0},
		{Code: Fstore2, Name: "fstore_2", Kind: KindNone, Size: 1, Pop: 1, Push: 0},
		{Code: Fstore3, Name: "fstore_3", Kind: KindNone, Size: 1, Pop: 1, Push: 0},
		{Code: Dstore0, Name: "dstore_0", Kind: KindNone, Size: 1, Pop: 2, Push: 0},
		{Code: Dstore1, Name: "dstore_1", Kind: KindNone, Size: 1, Pop: 2, Push: 0},
		{Code: Dstore2, Name: "dstore_2", Kind: KindNone, Size: 1, Pop: 2, Push: 0},
		{Code: Dstore3, Name: "dstore_3", Kind: KindNone, Size: 1, Pop: 2, Push: 0},
		{Code: Astore0, Name: "astore_0", Kind: KindNone, Size: 1, Pop: 1, Push: 0},
		{Code: Astore1, Name: "astore_1", Kind: KindNone, Size: 1, Pop: 1, Push: 0},
		{Code: Astore2, Name: "astore_2", Kind: KindNone, Size: 1, Pop: 1, Push: 0},
		{Code: Astore3, Name: "astore_3", Kind: KindNone, Size: 1, Pop: 1, Push: 0},
		{Code: Iastore, Name: "iastore", Kind: KindNone, Size: 1, Pop: 3, Push: 0, Canonical: true},
		{Code: Lastore, Name: "lastore", Kind: KindNone, Size: 1, Pop: 4, Push: 0, Canonical: true},
		{Code: Fastore, Name: "fastore", Kind: KindNone, Size: 1, Pop: 3, Push: 0, Canonical: true},
		{Code: Dastore, Name: "dastore", Kind: KindNone, Size: 1, Pop: 4, Push: 0, Canonical: true},
		{Code: Aastore, Name: "aastore", Kind: KindNone, Size: 1, Pop: 3, Push: 0, Canonical: true},
		{Code: Bastore, Name: "bastore", Kind: KindNone, Size: 1, Pop: 3, Push: 0, Canonical: true},
		{Code: Castore, Name: "castore", Kind: KindNone, Size: 1, Pop: 3, Push: 0, Canonical: true},
		{Code: Sastore, Name: "sastore", Kind: KindNone, Size: 1, Pop: 3, Push: 0, Canonical: true},
		{Code: Pop, Name: "pop", Kind: KindNone, Size: 1, Pop: 1, Push: 0, Canonical: true},
		{Code: Pop2, Name: "pop2", Kind: KindNone, Size: 1, Pop: 2, Push: 0, Canonical: true},
		{Code: Dup, Name: "dup", Kind: KindNone, Size: 1, Pop: 1, Push: 2, Canonical: true},
		{Code: DupX1, Name: "dup_x1", Kind: KindNone, Size: 1, Pop: 2, Push: 3, Canonical: true},
		{Code: DupX2, Name: "dup_x2", Kind: KindNone, Size: 1, Pop: 3, Push: 4, Canonical: true},
		{Code: Dup2, Name: "dup2", Kind: KindNone, Size: 1, Pop: 2, Push: 4, Canonical: true},
		{Code: Dup2X1, Name: "dup2_x1", Kind: KindNone, Size: 1, Pop: 3, Push: 5, Canonical: true},
		{Code: Dup2X2, Name: "dup2_x2", Kind: KindNone, Size: 1, Pop: 4, Push: 6, Canonical: true},
		{Code: Swap, Name: "swap", Kind: KindNone, Size: 1, Pop: 2, Push: 2, Canonical: true},
		{Code: Iadd, Name: "iadd", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Ladd, Name: "ladd", Kind: KindNone, Size: 1, Pop: 4, Push: 2, Canonical: true},
		{Code: Fadd, Name: "fadd", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Dadd, Name: "dadd", Kind: KindNone, Size: 1, Pop: 4, Push: 2, Canonical: true},
		{Code: Isub, Name: "isub", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Lsub, Name: "lsub", Kind: KindNone, Size: 1, Pop: 4, Push: 2, Canonical: true},
		{Code: Fsub, Name: "fsub", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Dsub, Name: "dsub", Kind: KindNone, Size: 1, Pop: 4, Push: 2, Canonical: true},
		{Code: Imul, Name: "imul", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Lmul, Name: "lmul", Kind: KindNone, Size: 1, Pop: 4, Push: 2, Canonical: true},
		{Code: Fmul, Name: "fmul", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Dmul, Name: "dmul", Kind: KindNone, Size: 1, Pop: 4, Push: 2, Canonical: true},
		{Code: Idiv, Name: "idiv", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Ldiv, Name: "ldiv", Kind: KindNone, Size: 1, Pop: 4, Push: 2, Canonical: true},
		{Code: Fdiv, Name: "fdiv", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Ddiv, Name: "ddiv", Kind: KindNone, Size: 1, Pop: 4, Push: 2, Canonical: true},
		{Code: Irem, Name: "irem", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Lrem, Name: "lrem", Kind: KindNone, Size: 1, Pop: 4, Push: 2, Canonical: true},
		{Code: Frem, Name: "frem", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Drem, Name: "drem", Kind: KindNone, Size: 1, Pop: 4, Push: 2, Canonical: true},
		{Code: Ineg, Name: "ineg", Kind: KindNone, Size: 1, Pop: 1, Push: 1, Canonical: true},
		{Code: Lneg, Name: "lneg", Kind: KindNone, Size: 1, Pop: 2, Push: 2, Canonical: true},
		{Code: Fneg, Name: "fneg", Kind: KindNone, Size: 1, Pop: 1, Push: 1, Canonical: true},
		{Code: Dneg, Name: "dneg", Kind: KindNone, Size: 1, Pop: 2, Push: 2, Canonical: true},
		{Code: Ishl, Name: "ishl", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Lshl, Name: "lshl", Kind: KindNone, Size: 1, Pop: 3, Push: 2, Canonical: true},
		{Code: Ishr, Name: "ishr", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Lshr, Name: "lshr", Kind: KindNone, Size: 1, Pop: 3, Push: 2, Canonical: true},
		{Code: Iushr, Name: "iushr", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Lushr, Name: "lushr", Kind: KindNone, Size: 1, Pop: 3, Push: 2, Canonical: true},
		{Code: Iand, Name: "iand", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Land, Name: "land", Kind: KindNone, Size: 1, Pop: 4, Push: 2, Canonical: true},
		{Code: Ior, Name: "ior", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Lor, Name: "lor", Kind: KindNone, Size: 1, Pop: 4, Push: 2, Canonical: true},
		{Code: Ixor, Name: "ixor", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Lxor, Name: "lxor", Kind: KindNone, Size: 1, Pop: 4, Push: 2, Canonical: true},
		{Code: Iinc, Name: "iinc", Kind: KindIinc, Size: 3, Pop: 0, Push: 0, Canonical: true},
		{Code: I2l, Name: "i2l", Kind: KindNone, Size: 1, Pop: 1, Push: 2, Canonical: true},
		{Code: I2f, Name: "i2f", Kind: KindNone, Size: 1, Pop: 1, Push: 1, Canonical: true},
		{Code: I2d, Name: "i2d", Kind: KindNone, Size: 1, Pop: 1, Push: 2, Canonical: true},
		{Code: L2i, Name: "l2i", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: L2f, Name: "l2f", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: L2d, Name: "l2d", Kind: KindNone, Size: 1, Pop: 2, Push: 2, Canonical: true},
		{Code: F2i, Name: "f2i", Kind: KindNone, Size: 1, Pop: 1, Push: 1, Canonical: true},
		{Code: F2l, Name: "f2l", Kind: KindNone, Size: 1, Pop: 1, Push: 2, Canonical: true},
		{Code: F2d, Name: "f2d", Kind: KindNone, Size: 1, Pop: 1, Push: 2, Canonical: true},
		{Code: D2i, Name: "d2i", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: D2l, Name: "d2l", Kind: KindNone, Size: 1, Pop: 2, Push: 2, Canonical: true},
		{Code: D2f, Name: "d2f", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: I2b, Name: "i2b", Kind: KindNone, Size: 1, Pop: 1, Push: 1, Canonical: true},
		{Code: I2c, Name: "i2c", Kind: KindNone, Size: 1, Pop: 1, Push: 1, Canonical: true},
		{Code: I2s, Name: "i2s", Kind: KindNone, Size: 1, Pop: 1, Push: 1, Canonical: true},
		{Code: Lcmp, Name: "lcmp", Kind: KindNone, Size: 1, Pop: 4, Push: 1, Canonical: true},
		{Code: Fcmpl, Name: "fcmpl", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Fcmpg, Name: "fcmpg", Kind: KindNone, Size: 1, Pop: 2, Push: 1, Canonical: true},
		{Code: Dcmpl, Name: "dcmpl", Kind: KindNone, Size: 1, Pop: 4, Push: 1, Canonical: true},
		{Code: Dcmpg, Name: "dcmpg", Kind: KindNone, Size: 1, Pop: 4, Push: 1, Canonical: true},
		{Code: Ifeq, Name: "ifeq", Kind: KindBranch, Size: 3, Pop: 1, Push: 0, Canonical: true},
		{Code: Ifne, Name: "ifne", Kind: KindBranch, Size: 3, Pop: 1, Push: 0, Canonical: true},
		{Code: Iflt, Name: "iflt", Kind: KindBranch, Size: 3, Pop: 1, Push: 0, Canonical: true},
		{Code: Ifge, Name: "ifge", Kind: KindBranch, Size: 3, Pop: 1, Push: 0, Canonical: true},
		{Code: Ifgt, Name: "ifgt", Kind: KindBranch, Size: 3, Pop: 1, Push: 0, Canonical: true},
		{Code: Ifle, Name: "ifle", Kind: KindBranch, Size: 3, Pop: 1, Push: 0, Canonical: true},
		{Code: IfIcmpeq, Name: "if_icmpeq", Kind: KindBranch, Size: 3, Pop: 2, Push: 0, Canonical: true},
		{Code: IfIcmpne, Name: "if_icmpne", Kind: KindBranch, Size: 3, Pop: 2, Push: 0, Canonical: true},
		{Code: IfIcmplt, Name: "if_icmplt", Kind: KindBranch, Size: 3, Pop: 2, Push: 0, Canonical: true},
		{Code: IfIcmpge, Name: "if_icmpge", Kind: KindBranch, Size: 3, Pop: 2, Push: 0, Canonical: true},
		{Code: IfIcmpgt, Name: "if_icmpgt", Kind: KindBranch, Size: 3, Pop: 2, Push: 0, Canonical: true},
		{Code: IfIcmple, Name: "if_icmple", Kind: KindBranch, Size: 3, Pop: 2, Push: 0, Canonical: true},
		{Code: IfAcmpeq, Name: "if_acmpeq", Kind: KindBranch, Size: 3, Pop: 2, Push: 0, Canonical: true},
		{Code: IfAcmpne, Name: "if_acmpne", Kind: KindBranch, Size: 3, Pop: 2, Push: 0, Canonical: true},
		{Code: Goto, Name: "goto", Kind: KindBranch, Size: 3, Pop: 0, Push: 0, Canonical: true},
		{Code: Jsr, Name: "jsr", Kind: KindBranch, Size: 3, Pop: 0, Push: 1, Unsupported: true},
		{Code: Ret, Name: "ret", Kind: KindSlot, Size: 2, Pop: 0, Push: 0, Unsupported: true},
		{Code: Tableswitch, Name: "tableswitch", Kind: KindTableSwitch, Size: 0, Pop: 1, Push: 0, Canonical: true},
		{Code: Lookupswitch, Name: "lookupswitch", Kind: KindLookupSwitch, Size: 0, Pop: 1, Push: 0, Canonical: true},
		{Code: Ireturn, Name: "ireturn", Kind: KindNone, Size: 1, Pop: 1, Push: 0, Canonical: true},
		{Code: Lreturn, Name: "lreturn", Kind: KindNone, Size: 1, Pop: 2, Push: 0, Canonical: true},
		{Code: Freturn, Name: "freturn", Kind: KindNone, Size: 1, Pop: 1, Push: 0, Canonical: true},
		{Code: Dreturn, Name: "dreturn", Kind: KindNone, Size: 1, Pop: 2, Push: 0, Canonical: true},
		{Code: Areturn, Name: "areturn", Kind: KindNone, Size: 1, Pop: 1, Push: 0, Canonical: true},
		{Code: Return, Name: "return", Kind: KindNone, Size: 1, Pop: 0, Push: 0, Canonical: true},
		{Code: Getstatic, Name: "getstatic", Kind: KindField, Size: 3, Pop: 0, Push: StackVariable, Canonical: true},
		{Code: Putstatic, Name: "putstatic", Kind: KindField, Size: 3, Pop: StackVariable, Push: 0, Canonical: true},
		{Code: Getfield, Name: "getfield", Kind: KindField, Size: 3, Pop: 1, Push: StackVariable, Canonical: true},
		{Code: Putfield, Name: "putfield", Kind: KindField, Size: 3, Pop: StackVariable, Push: 0, Canonical: true},
		{Code: Invokevirtual, Name: "invokevirtual", Kind: KindMethod, Size: 3, Pop: StackVariable, Push: StackVariable, Canonical: true},
		{Code: Invokespecial, Name: "invokespecial", Kind: KindMethod, Size: 3, Pop: StackVariable, Push: StackVariable, Canonical: true},
		{Code: Invokestatic, Name: "invokestatic", Kind: KindMethod, Size: 3, Pop: StackVariable, Push: StackVariable, Canonical: true},
		{Code: Invokeinterface, Name: "invokeinterface", Kind: KindIfaceMethod, Size: 5, Pop: StackVariable, Push: StackVariable, Canonical: true},
		{Code: Invokedynamic, Name: "invokedynamic", Kind: KindMethod, Size: 5, Pop: StackVariable, Push: StackVariable, Unsupported: true},
		{Code: New, Name: "new", Kind: KindType, Size: 3, Pop: 0, Push: 1, Canonical: true},
		{Code: Newarray, Name: "newarray", Kind: KindNewarray, Size: 2, Pop: 1, Push: 1, Canonical: true},
		{Code: Anewarray, Name: "anewarray", Kind: KindType, Size: 3, Pop: 1, Push: 1, Canonical: true},
		{Code: Arraylength, Name: "arraylength", Kind: KindNone, Size: 1, Pop: 1, Push: 1, Canonical: true},
		{Code: Athrow, Name: "athrow", Kind: KindNone, Size: 1, Pop: 1, Push: 0, Canonical: true},
		{Code: Checkcast, Name: "checkcast", Kind: KindType, Size: 3, Pop: 1, Push: 1, Canonical: true},
		{Code: Instanceof, Name: "instanceof", Kind: KindType, Size: 3, Pop: 1, Push: 1, Canonical: true},
		{Code: Monitorenter, Name: "monitorenter", Kind: KindNone, Size: 1, Pop: 1, Push: 0, Canonical: true},
		{Code: Monitorexit, Name: "monitorexit", Kind: KindNone, Size: 1, Pop: 1, Push: 0, Canonical: true},
		{Code: Wide, Name: "wide", Kind: KindWide, Size: 0, Pop: 0, Push: 0},
		{Code: Multianewarray, Name: "multianewarray", Kind: KindMultiarray, Size: 4, Pop: StackVariable, Push: 1, Canonical: true},
		{Code: Ifnull, Name: "ifnull", Kind: KindBranch, Size: 3, Pop: 1, Push: 0, Canonical: true},
		{Code: Ifnonnull, Name: "ifnonnull", Kind: KindBranch, Size: 3, Pop: 1, Push: 0, Canonical: true},
		{Code: GotoW, Name: "goto_w", Kind: KindBranchWide, Size: 5, Pop: 0, Push: 0},
		{Code: JsrW, Name: "jsr_w", Kind: KindBranchWide, Size: 5, Pop: 0, Push: 1, Unsupported: true},
	} {
		Infos[info.Code] = info
		if info.Canonical {
			mnemonics[info.Name] = info.Code
		}
	}
}

// GetInfo returns the Info for the given opcode. The zero Info (empty Name)
// is returned for values outside the defined opcode space.
func GetInfo(c Code) Info {
	return Infos[c]
}

// Valid reports whether c is a defined opcode.
func Valid(c Code) bool {
	return Infos[c].Name != ""
}

// FromMnemonic maps a canonical source mnemonic to its opcode. Encoding-level
// spellings (iconst_2, iload_0, ldc_w) and unsupported opcodes are not found.
func FromMnemonic(name string) (Code, bool) {
	c, ok := mnemonics[name]
	return c, ok
}

// Mnemonics returns the canonical source mnemonics in sorted order.
func Mnemonics() []string {
	names := make([]string, 0, len(mnemonics))
	for name := range mnemonics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c Code) String() string {
	if info := Infos[c]; info.Name != "" {
		return info.Name
	}
	return fmt.Sprintf("0x%02x", byte(c))
}

// IsBranch reports whether c takes a single label operand.
func IsBranch(c Code) bool {
	k := Infos[c].Kind
	return k == KindBranch || k == KindBranchWide
}

// IsConditionalBranch reports whether c branches on a condition and falls
// through otherwise.
func IsConditionalBranch(c Code) bool {
	return Infos[c].Kind == KindBranch && c != Goto && c != Jsr
}

// EndsFlow reports whether execution never falls through to the next
// instruction: unconditional jumps, returns, throws and switches.
func EndsFlow(c Code) bool {
	switch c {
	case Goto, GotoW, Tableswitch, Lookupswitch,
		Ireturn, Lreturn, Freturn, Dreturn, Areturn, Return, Athrow:
		return true
	}
	return false
}

var compactSlots = map[Code][4]Code{
	Iload:  {Iload0, Iload1, Iload2, Iload3},
	Lload:  {Lload0, Lload1, Lload2, Lload3},
	Fload:  {Fload0, Fload1, Fload2, Fload3},
	Dload:  {Dload0, Dload1, Dload2, Dload3},
	Aload:  {Aload0, Aload1, Aload2, Aload3},
	Istore: {Istore0, Istore1, Istore2, Istore3},
	Lstore: {Lstore0, Lstore1, Lstore2, Lstore3},
	Fstore: {Fstore0, Fstore1, Fstore2, Fstore3},
	Dstore: {Dstore0, Dstore1, Dstore2, Dstore3},
	Astore: {Astore0, Astore1, Astore2, Astore3},
}

// CompactSlot returns the zero-operand form of a load or store opcode for
// local slots 0 through 3.
func CompactSlot(c Code, slot int) (Code, bool) {
	forms, ok := compactSlots[c]
	if !ok || slot < 0 || slot > 3 {
		return 0, false
	}
	return forms[slot], true
}

// SlotOf is the inverse of CompactSlot: it returns the base opcode and the
// implied slot for a _<n> load or store form.
func SlotOf(c Code) (Code, int, bool) {
	for base, forms := range compactSlots {
		for slot, form := range forms {
			if form == c {
				return base, slot, true
			}
		}
	}
	return 0, 0, false
}

// CompactInt returns the zero-operand opcode pushing the given int value,
// for values -1 through 5.
func CompactInt(v int64) (Code, bool) {
	if v < -1 || v > 5 {
		return 0, false
	}
	return IconstM1 + Code(v+1), true
}

// CompactLong returns lconst_0 or lconst_1 when v is 0 or 1.
func CompactLong(v int64) (Code, bool) {
	switch v {
	case 0:
		return Lconst0, true
	case 1:
		return Lconst1, true
	}
	return 0, false
}

// CompactFloat returns the fconst form for exactly 0.0, 1.0 or 2.0. The
// fconst_0 form pushes positive zero, so -0.0 has no compact form.
func CompactFloat(v float32) (Code, bool) {
	if math.Signbit(float64(v)) {
		return 0, false
	}
	switch v {
	case 0:
		return Fconst0, true
	case 1:
		return Fconst1, true
	case 2:
		return Fconst2, true
	}
	return 0, false
}

// CompactDouble returns the dconst form for exactly 0.0 or 1.0. As with
// CompactFloat, -0.0 has no compact form.
func CompactDouble(v float64) (Code, bool) {
	if math.Signbit(v) {
		return 0, false
	}
	switch v {
	case 0:
		return Dconst0, true
	case 1:
		return Dconst1, true
	}
	return 0, false
}

// ImpliedInt returns the int value pushed by an iconst_<n> opcode.
func ImpliedInt(c Code) (int32, bool) {
	if c >= IconstM1 && c <= Iconst5 {
		return int32(c-IconstM1) - 1, true
	}
	return 0, false
}

// ImpliedLong returns the long value pushed by lconst_0 or lconst_1.
func ImpliedLong(c Code) (int64, bool) {
	switch c {
	case Lconst0:
		return 0, true
	case Lconst1:
		return 1, true
	}
	return 0, false
}

// ImpliedFloat returns the float value pushed by an fconst opcode.
func ImpliedFloat(c Code) (float32, bool) {
	switch c {
	case Fconst0:
		return 0, true
	case Fconst1:
		return 1, true
	case Fconst2:
		return 2, true
	}
	return 0, false
}

// ImpliedDouble returns the double value pushed by a dconst opcode.
func ImpliedDouble(c Code) (float64, bool) {
	switch c {
	case Dconst0:
		return 0, true
	case Dconst1:
		return 1, true
	}
	return 0, false
}

// AllowsWidePrefix reports whether c may follow the wide prefix byte for a
// 16-bit local variable index.
func AllowsWidePrefix(c Code) bool {
	switch c {
	case Iload, Lload, Fload, Dload, Aload,
		Istore, Lstore, Fstore, Dstore, Astore, Iinc, Ret:
		return true
	}
	return false
}

// ArrayType is the primitive element type operand of newarray.
type ArrayType byte

const (
	TBoolean ArrayType = 4
	TChar    ArrayType = 5
	TFloat   ArrayType = 6
	TDouble  ArrayType = 7
	TByte    ArrayType = 8
	TShort   ArrayType = 9
	TInt     ArrayType = 10
	TLong    ArrayType = 11
)

var arrayTypeNames = map[ArrayType]string{
	TBoolean: "boolean",
	TChar:    "char",
	TFloat:   "float",
	TDouble:  "double",
	TByte:    "byte",
	TShort:   "short",
	TInt:     "int",
	TLong:    "long",
}

// ArrayTypeFromName maps a primitive type name to its newarray operand code.
func ArrayTypeFromName(name string) (ArrayType, bool) {
	for t, n := range arrayTypeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// ValidArrayType reports whether t is a defined newarray operand code.
func ValidArrayType(t ArrayType) bool {
	_, ok := arrayTypeNames[t]
	return ok
}

func (t ArrayType) String() string {
	if n, ok := arrayTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("0x%02x", byte(t))
}
