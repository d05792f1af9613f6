package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/basm-lang/basm/bytecode"
	"github.com/basm-lang/basm/internal/table"
	"github.com/basm-lang/basm/op"
)

// Instruction is one decoded row of a method listing.
type Instruction struct {

	// Offset is the byte offset of the instruction within the code.
	Offset int

	// Name is the opcode mnemonic.
	Name string

	// Opcode is the numeric opcode.
	Opcode op.Code

	// Operands holds the raw operand bytes.
	Operands []byte

	// Annotation describes the operands in human terms: the pool constant
	// behind an index, the absolute target of a branch, the slot of a
	// local access.
	Annotation string
}

// Listing decodes a method's code into one row per instruction.
func Listing(m *bytecode.Method) ([]Instruction, error) {
	var rows []Instruction
	it := m.Instructions()
	for it.Next() {
		inst := it.Inst()
		rows = append(rows, Instruction{
			Offset:     inst.Offset,
			Name:       inst.Opcode.String(),
			Opcode:     inst.Opcode,
			Operands:   append([]byte(nil), inst.Operands...),
			Annotation: annotate(m, inst),
		})
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// Print writes instruction rows as an aligned table. Annotations and
// mnemonics are colored when the terminal supports it.
func Print(instructions []Instruction, writer io.Writer) {
	bold := color.New(color.Bold).SprintFunc()
	accent := color.New(color.FgCyan).SprintFunc()
	rows := make([][]string, 0, len(instructions))
	for _, inst := range instructions {
		annotation := inst.Annotation
		if annotation != "" {
			annotation = accent(annotation)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", inst.Offset),
			bold(inst.Name),
			formatOperands(inst.Operands),
			annotation,
		})
	}
	tbl := table.NewTable(writer)
	tbl.WithHeader([]string{"OFFSET", "OPCODE", "OPERANDS", "INFO"})
	tbl.WithHeaderAlignment([]table.Alignment{
		table.AlignCenter, table.AlignCenter, table.AlignCenter, table.AlignCenter,
	})
	tbl.WithColumnAlignment([]table.Alignment{
		table.AlignRight, table.AlignLeft, table.AlignRight, table.AlignLeft,
	})
	tbl.WithRows(rows)
	tbl.Render()
}

// operandDumpLimit caps the hex dump of one row; switch payloads run to
// hundreds of bytes and their content is already decoded in the annotation.
const operandDumpLimit = 16

func formatOperands(operands []byte) string {
	if len(operands) == 0 {
		return ""
	}
	truncated := false
	if len(operands) > operandDumpLimit {
		operands = operands[:operandDumpLimit]
		truncated = true
	}
	parts := make([]string, len(operands))
	for i, b := range operands {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	out := strings.Join(parts, " ")
	if truncated {
		out += " ..."
	}
	return out
}

func annotate(m *bytecode.Method, inst bytecode.RawInst) string {
	switch op.GetInfo(inst.Opcode).Kind {
	case op.KindConst:
		index := inst.U8(0)
		if inst.Opcode != op.Ldc {
			index = inst.U16(0)
		}
		return poolEntry(m, index)
	case op.KindType, op.KindField, op.KindMethod, op.KindIfaceMethod:
		return poolEntry(m, inst.U16(0))
	case op.KindBranch:
		return fmt.Sprintf("-> %d", inst.Offset+inst.S16(0))
	case op.KindBranchWide:
		return fmt.Sprintf("-> %d", inst.Offset+inst.S32(0))
	case op.KindSlot:
		return fmt.Sprintf("slot %d", inst.U8(0))
	case op.KindIinc:
		return fmt.Sprintf("slot %d by %d", inst.U8(0), inst.S8(1))
	case op.KindWide:
		if op.Code(inst.Operands[0]) == op.Iinc {
			return fmt.Sprintf("slot %d by %d", inst.U16(1), inst.S16(3))
		}
		return fmt.Sprintf("slot %d", inst.U16(1))
	case op.KindNewarray:
		return op.ArrayType(inst.U8(0)).String()
	case op.KindMultiarray:
		return fmt.Sprintf("%s, %d dimensions", poolEntry(m, inst.U16(0)), inst.U8(2))
	case op.KindTableSwitch:
		return fmt.Sprintf("%d..%d, default -> %d", inst.S32(4), inst.S32(8), inst.Offset+inst.S32(0))
	case op.KindLookupSwitch:
		return fmt.Sprintf("%d pairs, default -> %d", inst.S32(4), inst.Offset+inst.S32(0))
	}
	return ""
}

func poolEntry(m *bytecode.Method, index int) string {
	c, ok := m.Constant(uint16(index))
	if !ok {
		return fmt.Sprintf("bad pool index %d", index)
	}
	return c.String()
}
