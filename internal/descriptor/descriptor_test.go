package descriptor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		desc  string
		sort  Sort
		dims  int
		class string
		slots int
	}{
		{"I", Int, 0, "", 1},
		{"J", Long, 0, "", 2},
		{"D", Double, 0, "", 2},
		{"Z", Boolean, 0, "", 1},
		{"Ljava/lang/String;", Object, 0, "java/lang/String", 1},
		{"[I", Int, 1, "", 1},
		{"[[J", Long, 2, "", 1},
		{"[Ljava/lang/String;", Object, 1, "java/lang/String", 1},
	}
	for _, tt := range tests {
		typ, err := ParseField(tt.desc)
		require.Nil(t, err, tt.desc)
		require.Equal(t, tt.sort, typ.Sort, tt.desc)
		require.Equal(t, tt.dims, typ.Dims, tt.desc)
		require.Equal(t, tt.class, typ.ClassName, tt.desc)
		require.Equal(t, tt.slots, typ.SlotWidth(), tt.desc)
		require.Equal(t, tt.desc, typ.String(), tt.desc)
	}
}

func TestParseFieldErrors(t *testing.T) {
	for _, desc := range []string{
		"",
		"V",
		"[V",
		"II",
		"L;",
		"Ljava/lang/String",
		"Q",
		"[",
	} {
		_, err := ParseField(desc)
		require.NotNil(t, err, desc)
	}
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("(IJLjava/lang/String;)V")
	require.Nil(t, err)
	require.Len(t, m.Params, 3)
	require.Equal(t, Int, m.Params[0].Sort)
	require.Equal(t, Long, m.Params[1].Sort)
	require.Equal(t, "java/lang/String", m.Params[2].ClassName)
	require.Equal(t, Void, m.Return.Sort)
	require.Equal(t, 4, m.ArgSlots())
	require.Equal(t, 0, m.ReturnWidth())
	require.Equal(t, "(IJLjava/lang/String;)V", m.String())
}

func TestParseMethodNoArgs(t *testing.T) {
	m, err := ParseMethod("()D")
	require.Nil(t, err)
	require.Len(t, m.Params, 0)
	require.Equal(t, Double, m.Return.Sort)
	require.Equal(t, 2, m.ReturnWidth())
}

func TestParseMethodArrays(t *testing.T) {
	m, err := ParseMethod("([Ljava/lang/String;)V")
	require.Nil(t, err)
	require.Len(t, m.Params, 1)
	require.Equal(t, 1, m.Params[0].Dims)
	require.Equal(t, 1, m.ArgSlots())
}

func TestParseMethodErrors(t *testing.T) {
	for _, desc := range []string{
		"",
		"I",
		"(I",
		"(V)V",
		"()",
		"()VV",
		"()[V",
	} {
		_, err := ParseMethod(desc)
		require.NotNil(t, err, desc)
	}
}

func TestIsMethod(t *testing.T) {
	require.True(t, IsMethod("()V"))
	require.False(t, IsMethod("I"))
	require.False(t, IsMethod(""))
}

func TestValidators(t *testing.T) {
	require.True(t, IsValidField("[[D"))
	require.False(t, IsValidField("X"))
	require.True(t, IsValidMethod("(Z)I"))
	require.False(t, IsValidMethod("(Z)"))
}
