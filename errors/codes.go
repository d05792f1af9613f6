package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by stage:
//   - E1xxx: Parse errors
//   - E2xxx: Resolve errors
//   - E3xxx: Compile errors
//   - E4xxx: Disassemble errors
type ErrorCode string

const (
	// Parse errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Unterminated string literal
	E1003 ErrorCode = "E1003" // Invalid syntax
	E1004 ErrorCode = "E1004" // Invalid number literal
	E1005 ErrorCode = "E1005" // Missing end
	E1006 ErrorCode = "E1006" // Unknown modifier
	E1007 ErrorCode = "E1007" // Misplaced directive
	E1101 ErrorCode = "E1101" // Unknown mnemonic
	E1102 ErrorCode = "E1102" // Invalid operand arity
	E1103 ErrorCode = "E1103" // Invalid operand

	// Resolve errors (E2xxx)
	E2001 ErrorCode = "E2001" // Duplicate label
	E2002 ErrorCode = "E2002" // Unresolved label
	E2003 ErrorCode = "E2003" // Ambiguous reference
	E2004 ErrorCode = "E2004" // Malformed descriptor
	E2005 ErrorCode = "E2005" // Local slot conflict
	E2006 ErrorCode = "E2006" // Invalid handler range
	E2007 ErrorCode = "E2007" // Illegal modifier combination
	E2008 ErrorCode = "E2008" // Unknown type
	E2009 ErrorCode = "E2009" // Unknown member
	E2010 ErrorCode = "E2010" // Constant type mismatch

	// Compile errors (E3xxx)
	E3001 ErrorCode = "E3001" // Stack inconsistency
	E3002 ErrorCode = "E3002" // Stack underflow
	E3003 ErrorCode = "E3003" // Illegal encoding
	E3004 ErrorCode = "E3004" // Missing terminal instruction
	E3005 ErrorCode = "E3005" // Incomplete unit
	E3006 ErrorCode = "E3006" // Code size overflow

	// Disassemble errors (E4xxx)
	E4001 ErrorCode = "E4001" // Truncated code
	E4002 ErrorCode = "E4002" // Unsupported opcode
	E4003 ErrorCode = "E4003" // Unknown opcode
	E4004 ErrorCode = "E4004" // Invalid branch target
	E4005 ErrorCode = "E4005" // Constant pool index out of range
	E4006 ErrorCode = "E4006" // Malformed container
	E4007 ErrorCode = "E4007" // Table entry out of bounds
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "unexpected token",
	E1002: "unterminated string literal",
	E1003: "invalid syntax",
	E1004: "invalid number literal",
	E1005: "missing end",
	E1006: "unknown modifier",
	E1007: "misplaced directive",
	E1101: "unknown mnemonic",
	E1102: "invalid operand arity",
	E1103: "invalid operand",

	E2001: "duplicate label",
	E2002: "unresolved label",
	E2003: "ambiguous reference",
	E2004: "malformed descriptor",
	E2005: "local slot conflict",
	E2006: "invalid handler range",
	E2007: "illegal modifier combination",
	E2008: "unknown type",
	E2009: "unknown member",
	E2010: "constant type mismatch",

	E3001: "stack inconsistency",
	E3002: "stack underflow",
	E3003: "illegal encoding",
	E3004: "missing terminal instruction",
	E3005: "incomplete unit",
	E3006: "code size overflow",

	E4001: "truncated code",
	E4002: "unsupported opcode",
	E4003: "unknown opcode",
	E4004: "invalid branch target",
	E4005: "constant pool index out of range",
	E4006: "malformed container",
	E4007: "table entry out of bounds",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the toolchain stage based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "parse"
	case '2':
		return "resolve"
	case '3':
		return "compile"
	case '4':
		return "disassemble"
	default:
		return "unknown"
	}
}
