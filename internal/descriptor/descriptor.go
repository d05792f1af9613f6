// Package descriptor parses JVM type and method descriptors.
//
// Field descriptors describe a single type ("I", "J", "[Ljava/lang/String;")
// and method descriptors describe a signature ("(IJ)V"). The package also
// answers the one question the rest of the toolchain keeps asking: how many
// local variable slots does a value of this type occupy.
package descriptor

import (
	"fmt"
	"strings"
)

// Sort identifies the base kind of a parsed type.
type Sort int

const (
	Void Sort = iota
	Boolean
	Byte
	Char
	Short
	Int
	Float
	Long
	Double
	Object
)

func (s Sort) String() string {
	switch s {
	case Void:
		return "void"
	case Boolean:
		return "boolean"
	case Byte:
		return "byte"
	case Char:
		return "char"
	case Short:
		return "short"
	case Int:
		return "int"
	case Float:
		return "float"
	case Long:
		return "long"
	case Double:
		return "double"
	case Object:
		return "object"
	}
	return "invalid"
}

// Type is a parsed field descriptor. Dims is the array dimension count, zero
// for scalars. ClassName is the internal name for Object sorts ("java/lang/String").
type Type struct {
	Sort      Sort
	Dims      int
	ClassName string
}

// SlotWidth returns the number of local variable slots a value of this type
// occupies: 2 for long and double, 0 for void, 1 otherwise. Arrays are
// references and always occupy one slot.
func (t Type) SlotWidth() int {
	if t.Dims > 0 {
		return 1
	}
	switch t.Sort {
	case Void:
		return 0
	case Long, Double:
		return 2
	}
	return 1
}

// String renders the type back in descriptor form.
func (t Type) String() string {
	var sb strings.Builder
	for i := 0; i < t.Dims; i++ {
		sb.WriteByte('[')
	}
	switch t.Sort {
	case Void:
		sb.WriteByte('V')
	case Boolean:
		sb.WriteByte('Z')
	case Byte:
		sb.WriteByte('B')
	case Char:
		sb.WriteByte('C')
	case Short:
		sb.WriteByte('S')
	case Int:
		sb.WriteByte('I')
	case Float:
		sb.WriteByte('F')
	case Long:
		sb.WriteByte('J')
	case Double:
		sb.WriteByte('D')
	case Object:
		sb.WriteByte('L')
		sb.WriteString(t.ClassName)
		sb.WriteByte(';')
	}
	return sb.String()
}

// Method is a parsed method descriptor.
type Method struct {
	Params []Type
	Return Type
}

// ArgSlots returns the total number of local variable slots occupied by the
// parameters, not counting the receiver.
func (m Method) ArgSlots() int {
	n := 0
	for _, p := range m.Params {
		n += p.SlotWidth()
	}
	return n
}

// ReturnWidth returns the operand stack width of the return value.
func (m Method) ReturnWidth() int {
	return m.Return.SlotWidth()
}

// String renders the signature back in descriptor form.
func (m Method) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range m.Params {
		sb.WriteString(p.String())
	}
	sb.WriteByte(')')
	sb.WriteString(m.Return.String())
	return sb.String()
}

// ParseField parses a single field descriptor. The entire input must be
// consumed; trailing characters are an error.
func ParseField(desc string) (Type, error) {
	t, rest, err := parseType(desc)
	if err != nil {
		return Type{}, err
	}
	if rest != "" {
		return Type{}, fmt.Errorf("invalid field descriptor %q: trailing characters", desc)
	}
	if t.Sort == Void && t.Dims == 0 {
		return Type{}, fmt.Errorf("invalid field descriptor %q: void is not a field type", desc)
	}
	return t, nil
}

// ParseMethod parses a method descriptor of the form "(<params>)<return>".
func ParseMethod(desc string) (Method, error) {
	if len(desc) == 0 || desc[0] != '(' {
		return Method{}, fmt.Errorf("invalid method descriptor %q: expected '('", desc)
	}
	rest := desc[1:]
	var params []Type
	for {
		if rest == "" {
			return Method{}, fmt.Errorf("invalid method descriptor %q: missing ')'", desc)
		}
		if rest[0] == ')' {
			rest = rest[1:]
			break
		}
		t, r, err := parseType(rest)
		if err != nil {
			return Method{}, fmt.Errorf("invalid method descriptor %q: %w", desc, err)
		}
		if t.Sort == Void && t.Dims == 0 {
			return Method{}, fmt.Errorf("invalid method descriptor %q: void parameter", desc)
		}
		params = append(params, t)
		rest = r
	}
	ret, r, err := parseType(rest)
	if err != nil {
		return Method{}, fmt.Errorf("invalid method descriptor %q: %w", desc, err)
	}
	if r != "" {
		return Method{}, fmt.Errorf("invalid method descriptor %q: trailing characters", desc)
	}
	return Method{Params: params, Return: ret}, nil
}

// IsValidField reports whether desc is a well formed field descriptor.
func IsValidField(desc string) bool {
	_, err := ParseField(desc)
	return err == nil
}

// IsValidMethod reports whether desc is a well formed method descriptor.
func IsValidMethod(desc string) bool {
	_, err := ParseMethod(desc)
	return err == nil
}

// IsMethod reports whether desc looks like a method descriptor rather than a
// field descriptor. Used to pick a parser when the grammar allows either.
func IsMethod(desc string) bool {
	return len(desc) > 0 && desc[0] == '('
}

func parseType(s string) (Type, string, error) {
	dims := 0
	for len(s) > 0 && s[0] == '[' {
		dims++
		s = s[1:]
	}
	if len(s) == 0 {
		return Type{}, "", fmt.Errorf("truncated descriptor")
	}
	switch s[0] {
	case 'V':
		if dims > 0 {
			return Type{}, "", fmt.Errorf("array of void")
		}
		return Type{Sort: Void}, s[1:], nil
	case 'Z':
		return Type{Sort: Boolean, Dims: dims}, s[1:], nil
	case 'B':
		return Type{Sort: Byte, Dims: dims}, s[1:], nil
	case 'C':
		return Type{Sort: Char, Dims: dims}, s[1:], nil
	case 'S':
		return Type{Sort: Short, Dims: dims}, s[1:], nil
	case 'I':
		return Type{Sort: Int, Dims: dims}, s[1:], nil
	case 'F':
		return Type{Sort: Float, Dims: dims}, s[1:], nil
	case 'J':
		return Type{Sort: Long, Dims: dims}, s[1:], nil
	case 'D':
		return Type{Sort: Double, Dims: dims}, s[1:], nil
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return Type{}, "", fmt.Errorf("unterminated class name")
		}
		name := s[1:end]
		if name == "" {
			return Type{}, "", fmt.Errorf("empty class name")
		}
		return Type{Sort: Object, Dims: dims, ClassName: name}, s[end+1:], nil
	}
	return Type{}, "", fmt.Errorf("unknown type character %q", string(s[0]))
}
