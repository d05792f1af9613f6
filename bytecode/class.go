package bytecode

// Class is a compiled class header. It carries no code; methods and fields
// are separate units in this model.
type Class struct {
	flags      uint16
	name       string
	super      string
	interfaces []string
}

// ClassParams contains parameters for creating a new Class.
type ClassParams struct {
	Flags      uint16
	Name       string
	Super      string
	Interfaces []string
}

// NewClass creates an immutable Class. Input slices are copied.
func NewClass(params ClassParams) *Class {
	return &Class{
		flags:      params.Flags,
		name:       params.Name,
		super:      params.Super,
		interfaces: copyStrings(params.Interfaces),
	}
}

// Flags returns the access flags.
func (c *Class) Flags() uint16 { return c.flags }

// Name returns the internal class name.
func (c *Class) Name() string { return c.name }

// Super returns the internal name of the superclass, empty for none.
func (c *Class) Super() string { return c.super }

// InterfaceCount returns the number of implemented interfaces.
func (c *Class) InterfaceCount() int { return len(c.interfaces) }

// InterfaceAt returns the interface name at the given index.
func (c *Class) InterfaceAt(index int) string { return c.interfaces[index] }

// Interfaces returns a copy of the implemented interface names.
func (c *Class) Interfaces() []string { return copyStrings(c.interfaces) }
