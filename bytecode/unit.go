package bytecode

import (
	"fmt"

	"github.com/gofrs/uuid"

	"github.com/basm-lang/basm/errors"
)

// Unit is one compiled definition. The id is assigned at construction and
// survives serialization, so an editing session can match a replacement
// artifact to the member it replaces.
type Unit struct {
	id     uuid.UUID
	class  *Class
	field  *Field
	method *Method
}

// NewClassUnit wraps a compiled class.
func NewClassUnit(c *Class) *Unit {
	return &Unit{id: uuid.Must(uuid.NewV4()), class: c}
}

// NewFieldUnit wraps a compiled field.
func NewFieldUnit(f *Field) *Unit {
	return &Unit{id: uuid.Must(uuid.NewV4()), field: f}
}

// NewMethodUnit wraps a compiled method.
func NewMethodUnit(m *Method) *Unit {
	return &Unit{id: uuid.Must(uuid.NewV4()), method: m}
}

// ID returns the artifact id.
func (u *Unit) ID() uuid.UUID { return u.id }

// Kind returns "class", "field" or "method".
func (u *Unit) Kind() string {
	switch {
	case u.class != nil:
		return "class"
	case u.field != nil:
		return "field"
	case u.method != nil:
		return "method"
	}
	return "invalid"
}

// IsClass reports whether the unit wraps a compiled class.
func (u *Unit) IsClass() bool { return u.class != nil }

// IsField reports whether the unit wraps a compiled field.
func (u *Unit) IsField() bool { return u.field != nil }

// IsMethod reports whether the unit wraps a compiled method.
func (u *Unit) IsMethod() bool { return u.method != nil }

// IsMember reports whether the unit wraps a field or method.
func (u *Unit) IsMember() bool { return u.field != nil || u.method != nil }

// AsClass narrows to the compiled class, reporting whether it applies.
func (u *Unit) AsClass() (*Class, bool) { return u.class, u.class != nil }

// AsField narrows to the compiled field, reporting whether it applies.
func (u *Unit) AsField() (*Field, bool) { return u.field, u.field != nil }

// AsMethod narrows to the compiled method, reporting whether it applies.
func (u *Unit) AsMethod() (*Method, bool) { return u.method, u.method != nil }

// Class returns the compiled class or panics with a value wrapping
// errors.ErrInvalidNodeCast. Callers check IsClass first.
func (u *Unit) Class() *Class {
	if u.class == nil {
		panic(castError(u, "class"))
	}
	return u.class
}

// Field returns the compiled field or panics with a value wrapping
// errors.ErrInvalidNodeCast. Callers check IsField first.
func (u *Unit) Field() *Field {
	if u.field == nil {
		panic(castError(u, "field"))
	}
	return u.field
}

// Method returns the compiled method or panics with a value wrapping
// errors.ErrInvalidNodeCast. Callers check IsMethod first.
func (u *Unit) Method() *Method {
	if u.method == nil {
		panic(castError(u, "method"))
	}
	return u.method
}

func castError(u *Unit, want string) error {
	return fmt.Errorf("%w: unit wraps a %s artifact, not a %s",
		errors.ErrInvalidNodeCast, u.Kind(), want)
}
