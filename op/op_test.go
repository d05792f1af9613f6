package op

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(Goto)
	require.Equal(t, "goto", info.Name)
	require.Equal(t, KindBranch, info.Kind)
	require.Equal(t, 3, info.Size)
	require.True(t, info.Canonical)

	info = GetInfo(Invokeinterface)
	require.Equal(t, 5, info.Size)
	require.Equal(t, StackVariable, info.Pop)

	info = GetInfo(Tableswitch)
	require.Equal(t, 0, info.Size)
}

func TestValid(t *testing.T) {
	require.True(t, Valid(Nop))
	require.True(t, Valid(JsrW))
	require.False(t, Valid(Code(0xca)))
	require.False(t, Valid(Code(0xff)))
}

func TestFromMnemonic(t *testing.T) {
	c, ok := FromMnemonic("iload")
	require.True(t, ok)
	require.Equal(t, Iload, c)

	// Encoding-level spellings are not writable.
	_, ok = FromMnemonic("iload_0")
	require.False(t, ok)
	_, ok = FromMnemonic("bipush")
	require.False(t, ok)
	_, ok = FromMnemonic("ldc_w")
	require.False(t, ok)
	_, ok = FromMnemonic("goto_w")
	require.False(t, ok)

	// Unsupported opcodes are not writable either.
	_, ok = FromMnemonic("jsr")
	require.False(t, ok)
	_, ok = FromMnemonic("ret")
	require.False(t, ok)
	_, ok = FromMnemonic("invokedynamic")
	require.False(t, ok)
}

func TestString(t *testing.T) {
	require.Equal(t, "if_icmpeq", IfIcmpeq.String())
	require.Equal(t, "0xca", Code(0xca).String())
}

func TestCompactSlot(t *testing.T) {
	c, ok := CompactSlot(Iload, 0)
	require.True(t, ok)
	require.Equal(t, Iload0, c)

	c, ok = CompactSlot(Astore, 3)
	require.True(t, ok)
	require.Equal(t, Astore3, c)

	_, ok = CompactSlot(Iload, 4)
	require.False(t, ok)
	_, ok = CompactSlot(Iinc, 0)
	require.False(t, ok)
}

func TestSlotOf(t *testing.T) {
	base, slot, ok := SlotOf(Dload2)
	require.True(t, ok)
	require.Equal(t, Dload, base)
	require.Equal(t, 2, slot)

	_, _, ok = SlotOf(Iload)
	require.False(t, ok)
	_, _, ok = SlotOf(Nop)
	require.False(t, ok)
}

func TestCompactInt(t *testing.T) {
	tests := []struct {
		value int64
		code  Code
		ok    bool
	}{
		{-1, IconstM1, true},
		{0, Iconst0, true},
		{5, Iconst5, true},
		{6, 0, false},
		{-2, 0, false},
	}
	for _, tt := range tests {
		c, ok := CompactInt(tt.value)
		require.Equal(t, tt.ok, ok, "%d", tt.value)
		if ok {
			require.Equal(t, tt.code, c, "%d", tt.value)
		}
	}
}

func TestImpliedInt(t *testing.T) {
	v, ok := ImpliedInt(IconstM1)
	require.True(t, ok)
	require.Equal(t, int32(-1), v)

	v, ok = ImpliedInt(Iconst5)
	require.True(t, ok)
	require.Equal(t, int32(5), v)

	_, ok = ImpliedInt(Bipush)
	require.False(t, ok)
}

func TestCompactRoundTrips(t *testing.T) {
	for v := int64(-1); v <= 5; v++ {
		c, ok := CompactInt(v)
		require.True(t, ok)
		got, ok := ImpliedInt(c)
		require.True(t, ok)
		require.Equal(t, int32(v), got)
	}
	for v := int64(0); v <= 1; v++ {
		c, ok := CompactLong(v)
		require.True(t, ok)
		got, ok := ImpliedLong(c)
		require.True(t, ok)
		require.Equal(t, v, got)
	}
	for _, v := range []float32{0, 1, 2} {
		c, ok := CompactFloat(v)
		require.True(t, ok)
		got, ok := ImpliedFloat(c)
		require.True(t, ok)
		require.Equal(t, v, got)
	}
}

func TestCompactFloatExactOnly(t *testing.T) {
	_, ok := CompactFloat(1.5)
	require.False(t, ok)
	_, ok = CompactDouble(0.5)
	require.False(t, ok)

	// fconst_0 and dconst_0 push positive zero, so -0.0 must stay an ldc.
	_, ok = CompactFloat(float32(math.Copysign(0, -1)))
	require.False(t, ok)
	_, ok = CompactDouble(math.Copysign(0, -1))
	require.False(t, ok)
}

func TestFlowPredicates(t *testing.T) {
	require.True(t, IsBranch(Goto))
	require.True(t, IsBranch(Ifnull))
	require.False(t, IsBranch(Iadd))

	require.True(t, IsConditionalBranch(Ifeq))
	require.False(t, IsConditionalBranch(Goto))

	require.True(t, EndsFlow(Goto))
	require.True(t, EndsFlow(Athrow))
	require.True(t, EndsFlow(Lookupswitch))
	require.False(t, EndsFlow(Ifeq))
	require.False(t, EndsFlow(Invokestatic))
}

func TestAllowsWidePrefix(t *testing.T) {
	require.True(t, AllowsWidePrefix(Iload))
	require.True(t, AllowsWidePrefix(Iinc))
	require.False(t, AllowsWidePrefix(Goto))
	require.False(t, AllowsWidePrefix(Ldc))
}

func TestArrayTypes(t *testing.T) {
	at, ok := ArrayTypeFromName("int")
	require.True(t, ok)
	require.Equal(t, TInt, at)
	require.Equal(t, "int", at.String())

	_, ok = ArrayTypeFromName("void")
	require.False(t, ok)

	require.True(t, ValidArrayType(TBoolean))
	require.False(t, ValidArrayType(ArrayType(3)))
}

func TestStackMetrics(t *testing.T) {
	tests := []struct {
		code Code
		pop  int
		push int
	}{
		{Nop, 0, 0},
		{Dup2X2, 4, 6},
		{Ladd, 4, 2},
		{Lshl, 3, 2},
		{Lcmp, 4, 1},
		{Lastore, 4, 0},
		{Laload, 2, 2},
		{I2d, 1, 2},
		{D2i, 2, 1},
		{Lreturn, 2, 0},
	}
	for _, tt := range tests {
		info := GetInfo(tt.code)
		require.Equal(t, tt.pop, info.Pop, info.Name)
		require.Equal(t, tt.push, info.Push, info.Name)
	}
}
