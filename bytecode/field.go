package bytecode

// Field is a compiled field: access flags, name, descriptor, and an
// optional constant value.
type Field struct {
	flags    uint16
	name     string
	desc     string
	value    Const
	hasValue bool
}

// FieldParams contains parameters for creating a new Field. Value is nil
// when the field has no constant.
type FieldParams struct {
	Flags uint16
	Name  string
	Desc  string
	Value *Const
}

// NewField creates an immutable Field.
func NewField(params FieldParams) *Field {
	f := &Field{
		flags: params.Flags,
		name:  params.Name,
		desc:  params.Desc,
	}
	if params.Value != nil {
		f.value = *params.Value
		f.hasValue = true
	}
	return f
}

// Flags returns the access flags.
func (f *Field) Flags() uint16 { return f.flags }

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// Desc returns the field descriptor.
func (f *Field) Desc() string { return f.desc }

// Value returns the constant value, reporting whether one is present.
func (f *Field) Value() (Const, bool) { return f.value, f.hasValue }
