package bytecode

import (
	"testing"

	"github.com/basm-lang/basm/errors"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
)

func TestUnitNarrowing(t *testing.T) {
	u := NewMethodUnit(NewMethod(MethodParams{Name: "main", Desc: "([Ljava/lang/String;)V"}))

	require.True(t, u.IsMethod())
	require.True(t, u.IsMember())
	require.False(t, u.IsClass())
	require.False(t, u.IsField())
	require.Equal(t, "method", u.Kind())

	m, ok := u.AsMethod()
	require.True(t, ok)
	require.Equal(t, "main", m.Name())
	require.Equal(t, "([Ljava/lang/String;)V", m.Desc())

	_, ok = u.AsClass()
	require.False(t, ok)
	_, ok = u.AsField()
	require.False(t, ok)

	require.NotNil(t, u.Method())
	require.PanicsWithError(t,
		"invalid node cast: unit wraps a method artifact, not a class",
		func() { u.Class() })
	require.PanicsWithError(t,
		"invalid node cast: unit wraps a method artifact, not a field",
		func() { u.Field() })
}

func TestCastErrorIdentity(t *testing.T) {
	u := NewClassUnit(NewClass(ClassParams{Name: "Foo"}))
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		require.ErrorIs(t, err, errors.ErrInvalidNodeCast)
	}()
	u.Method()
}

func TestUnitIdentity(t *testing.T) {
	a := NewClassUnit(NewClass(ClassParams{Name: "A"}))
	b := NewClassUnit(NewClass(ClassParams{Name: "A"}))

	require.NotEqual(t, uuid.Nil, a.ID())
	require.NotEqual(t, uuid.Nil, b.ID())
	require.NotEqual(t, a.ID(), b.ID())
}

func TestUnitKinds(t *testing.T) {
	require.Equal(t, "class", NewClassUnit(NewClass(ClassParams{Name: "A"})).Kind())
	require.Equal(t, "field", NewFieldUnit(NewField(FieldParams{Name: "x", Desc: "I"})).Kind())
	require.Equal(t, "method", NewMethodUnit(NewMethod(MethodParams{Name: "m", Desc: "()V"})).Kind())

	require.True(t, NewFieldUnit(NewField(FieldParams{Name: "x", Desc: "I"})).IsMember())
	require.False(t, NewClassUnit(NewClass(ClassParams{Name: "A"})).IsMember())
}

func TestClassAccessors(t *testing.T) {
	ifaces := []string{"java/lang/Runnable", "java/io/Serializable"}
	c := NewClass(ClassParams{
		Flags:      0x0021,
		Name:       "demo/App",
		Super:      "java/lang/Object",
		Interfaces: ifaces,
	})

	require.Equal(t, uint16(0x0021), c.Flags())
	require.Equal(t, "demo/App", c.Name())
	require.Equal(t, "java/lang/Object", c.Super())
	require.Equal(t, 2, c.InterfaceCount())
	require.Equal(t, "java/lang/Runnable", c.InterfaceAt(0))

	// The constructor copies the slice, and the accessor hands out a copy.
	ifaces[0] = "mutated"
	require.Equal(t, "java/lang/Runnable", c.InterfaceAt(0))
	out := c.Interfaces()
	out[1] = "mutated"
	require.Equal(t, "java/io/Serializable", c.InterfaceAt(1))
}

func TestFieldValue(t *testing.T) {
	plain := NewField(FieldParams{Flags: 0x0002, Name: "count", Desc: "I"})
	_, ok := plain.Value()
	require.False(t, ok)

	v := Const{Kind: ConstLong, Int: 86400}
	timed := NewField(FieldParams{Name: "SECONDS", Desc: "J", Value: &v})
	got, ok := timed.Value()
	require.True(t, ok)
	require.Equal(t, ConstLong, got.Kind)
	require.Equal(t, int64(86400), got.Int)
	require.Equal(t, "count", plain.Name())
	require.Equal(t, uint16(0x0002), plain.Flags())
}
