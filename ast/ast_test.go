package ast

import (
	"testing"

	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/op"
	"github.com/basm-lang/basm/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tok = token.Token{}

func loopMethod() *MethodDef {
	body := NewBody()
	body.Append(NewLabelDecl(tok, "start"))
	body.Append(NewConstInst(tok, NewIntLit(tok, 1)))
	body.Append(NewBranchInst(tok, op.Goto, NewLabelRef(tok, "start")))
	return NewMethodDef(tok, nil, "foo", "()V", body)
}

func TestUnitPredicates(t *testing.T) {
	tests := []struct {
		name     string
		unit     *Unit
		isClass  bool
		isField  bool
		isMethod bool
	}{
		{"class", NewUnit(NewClassDef(tok, nil, "Foo", "", nil)), true, false, false},
		{"field", NewUnit(NewFieldDef(tok, nil, "x", "I", nil)), false, true, false},
		{"method", NewUnit(loopMethod()), false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.isClass, tt.unit.IsClass())
			require.Equal(t, tt.isField, tt.unit.IsField())
			require.Equal(t, tt.isMethod, tt.unit.IsMethod())
			require.Equal(t, tt.isField || tt.isMethod, tt.unit.IsMember())
			require.NotEqual(t, tt.unit.IsClass(), tt.unit.IsMember())
		})
	}
}

func TestUnitNarrowing(t *testing.T) {
	u := NewUnit(loopMethod())

	m, ok := u.AsMethod()
	require.True(t, ok)
	require.Equal(t, "foo", m.Name())
	require.Equal(t, "()V", m.Desc())

	_, ok = u.AsClass()
	require.False(t, ok)
	_, ok = u.AsField()
	require.False(t, ok)

	require.NotNil(t, u.Method())
	require.PanicsWithError(t,
		"invalid node cast: unit wraps a method definition, not a class",
		func() { u.Class() })
	require.PanicsWithError(t,
		"invalid node cast: unit wraps a method definition, not a field",
		func() { u.Field() })
}

func TestCastErrorIdentity(t *testing.T) {
	u := NewUnit(NewClassDef(tok, nil, "Foo", "", nil))
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		require.ErrorIs(t, err, errors.ErrInvalidNodeCast)
	}()
	u.Method()
}

func TestIncompleteUnit(t *testing.T) {
	u := NewIncompleteUnit(nil)
	require.True(t, u.Incomplete())
	require.Nil(t, u.Definition())
	require.Equal(t, "<incomplete unit>", u.String())
	require.False(t, u.Pos().IsValid())
	require.False(t, u.IsClass())
	require.False(t, u.IsMember())

	require.Error(t, u.ReplaceDefinition(nil))

	require.NoError(t, u.ReplaceDefinition(loopMethod()))
	require.False(t, u.Incomplete())
	require.True(t, u.IsMethod())
}

func TestLiteralStrings(t *testing.T) {
	tests := []struct {
		name string
		lit  *Literal
		want string
	}{
		{"int", NewIntLit(tok, 12), "12"},
		{"negative int", NewIntLit(tok, -3), "-3"},
		{"long", NewLongLit(tok, 12), "12L"},
		{"negative long", NewLongLit(tok, -9000000000), "-9000000000L"},
		{"float", NewFloatLit(tok, 1.5), "1.5F"},
		{"float precision", NewFloatLit(tok, 0.1), "0.1F"},
		{"double", NewDoubleLit(tok, 1.5), "1.5"},
		{"whole double keeps point", NewDoubleLit(tok, 2), "2.0"},
		{"double exponent", NewDoubleLit(tok, 1.5e300), "1.5e+300"},
		{"double exponent keeps point", NewDoubleLit(tok, 1e30), "1.0e+30"},
		{"float exponent keeps point", NewFloatLit(tok, 1e30), "1.0e+30F"},
		{"string", NewStringLit(tok, "a\tb"), `"a\tb"`},
		{"type", NewTypeLit(tok, "java/lang/String"), "java/lang/String"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.lit.String())
		})
	}
}

func TestLiteralKinds(t *testing.T) {
	require.Equal(t, IntLit, NewIntLit(tok, 1).Kind())
	require.Equal(t, int64(1), NewIntLit(tok, 1).Int())
	require.Equal(t, float32(1.5), NewFloatLit(tok, 1.5).Float32())
	require.Equal(t, "hi", NewStringLit(tok, "hi").Str())

	require.False(t, NewIntLit(tok, 1).IsWide())
	require.False(t, NewFloatLit(tok, 1).IsWide())
	require.True(t, NewLongLit(tok, 1).IsWide())
	require.True(t, NewDoubleLit(tok, 1).IsWide())
}

func TestClassDefString(t *testing.T) {
	c := NewClassDef(tok, []string{"public", "final"}, "com/example/Foo",
		"java/lang/Object", []string{"java/io/Serializable", "java/lang/Runnable"})
	want := "class public final com/example/Foo extends java/lang/Object " +
		"implements java/io/Serializable java/lang/Runnable"
	require.Equal(t, want, c.String())

	bare := NewClassDef(tok, nil, "Foo", "", nil)
	require.Equal(t, "class Foo", bare.String())
}

func TestFieldDefString(t *testing.T) {
	f := NewFieldDef(tok, []string{"public", "static"}, "MAX", "I", NewIntLit(tok, 100))
	require.Equal(t, "field public static MAX I = 100", f.String())
	require.Equal(t, "I", f.Desc())
	require.NotNil(t, f.Value())

	plain := NewFieldDef(tok, nil, "name", "Ljava/lang/String;", nil)
	require.Equal(t, "field name Ljava/lang/String;", plain.String())
	require.Nil(t, plain.Value())
}

func TestMethodDefString(t *testing.T) {
	want := "method foo ()V\n" +
		"%start:\n" +
		"    ldc 1\n" +
		"    goto %start\n" +
		"end"
	require.Equal(t, want, loopMethod().String())
}

func TestMethodDefStringWithDirectives(t *testing.T) {
	body := NewBody()
	body.AddHandler(NewCatchDirective(tok, "*",
		NewLabelRef(tok, "try"), NewLabelRef(tok, "after"), NewLabelRef(tok, "handler")))
	body.AddLocal(NewVarDirective(tok, 1, "count", "I",
		NewLabelRef(tok, "try"), NewLabelRef(tok, "after")))
	body.Append(NewLabelDecl(tok, "try"))
	body.Append(NewIincInst(tok, NewNamedLocal(tok, "count"), 1))
	body.Append(NewLabelDecl(tok, "after"))
	body.Append(NewLabelDecl(tok, "handler"))
	body.Append(NewSimpleInst(tok, op.Return))
	m := NewMethodDef(tok, []string{"public", "static"}, "run", "()V", body)

	want := "method public static run ()V\n" +
		"    catch * %try %after %handler\n" +
		"    var 1 count I %try %after\n" +
		"%try:\n" +
		"    iinc count 1\n" +
		"%after:\n" +
		"%handler:\n" +
		"    return\n" +
		"end"
	require.Equal(t, want, m.String())
	require.True(t, m.HasModifier("static"))
	require.False(t, m.HasModifier("final"))
}

func TestInstructionStrings(t *testing.T) {
	tests := []struct {
		name string
		inst Instruction
		want string
	}{
		{"simple", NewSimpleInst(tok, op.Iadd), "iadd"},
		{"const", NewConstInst(tok, NewStringLit(tok, "hi")), `ldc "hi"`},
		{"var slot", NewVarInst(tok, op.Iload, NewSlotLocal(tok, 2)), "iload 2"},
		{"var named", NewVarInst(tok, op.Aload, NewNamedLocal(tok, "this")), "aload this"},
		{"iinc", NewIincInst(tok, NewSlotLocal(tok, 2), -1), "iinc 2 -1"},
		{"branch", NewBranchInst(tok, op.Ifeq, NewLabelRef(tok, "done")), "ifeq %done"},
		{
			"tableswitch",
			NewTableSwitchInst(tok, 0, 2,
				[]*LabelRef{NewLabelRef(tok, "a"), NewLabelRef(tok, "b"), NewLabelRef(tok, "c")},
				NewLabelRef(tok, "d")),
			"tableswitch 0 2 %a %b %c default %d",
		},
		{
			"lookupswitch",
			NewLookupSwitchInst(tok, []SwitchPair{
				{Match: 10, Target: NewLabelRef(tok, "a")},
				{Match: 20, Target: NewLabelRef(tok, "b")},
			}, NewLabelRef(tok, "d")),
			"lookupswitch 10=%a 20=%b default %d",
		},
		{"type", NewTypeInst(tok, op.Checkcast, NewTypeRef(tok, "[I")), "checkcast [I"},
		{
			"field",
			NewFieldInst(tok, op.Getstatic,
				NewMemberRef(tok, "java/lang/System", "out", "Ljava/io/PrintStream;")),
			"getstatic java/lang/System.out Ljava/io/PrintStream;",
		},
		{
			"method",
			NewMethodInst(tok, op.Invokevirtual,
				NewMemberRef(tok, "java/io/PrintStream", "println", "(Ljava/lang/String;)V")),
			"invokevirtual java/io/PrintStream.println (Ljava/lang/String;)V",
		},
		{
			"method without descriptor",
			NewMethodInst(tok, op.Invokevirtual,
				NewMemberRef(tok, "java/lang/Object", "toString", "")),
			"invokevirtual java/lang/Object.toString",
		},
		{"newarray", NewNewArrayInst(tok, op.TInt), "newarray int"},
		{
			"multianewarray",
			NewMultiArrayInst(tok, NewTypeRef(tok, "[[I"), 2),
			"multianewarray [[I 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.inst.String())
		})
	}
}

func TestInstructionOps(t *testing.T) {
	require.Equal(t, op.Ldc, NewConstInst(tok, NewIntLit(tok, 1)).Op())
	require.Equal(t, op.Iinc, NewIincInst(tok, NewSlotLocal(tok, 0), 1).Op())
	require.Equal(t, op.Tableswitch, NewTableSwitchInst(tok, 0, 0, nil, nil).Op())
	require.Equal(t, op.Lookupswitch, NewLookupSwitchInst(tok, nil, nil).Op())
	require.Equal(t, op.Newarray, NewNewArrayInst(tok, op.TLong).Op())
	require.Equal(t, op.Multianewarray, NewMultiArrayInst(tok, NewTypeRef(tok, "[[I"), 2).Op())
}

func TestLocal(t *testing.T) {
	slot := NewSlotLocal(tok, 3)
	require.False(t, slot.IsNamed())
	require.Equal(t, 3, slot.Slot())
	require.Equal(t, "3", slot.String())

	named := NewNamedLocal(tok, "count")
	require.True(t, named.IsNamed())
	require.Equal(t, -1, named.Slot())
	require.Equal(t, "count", named.Name())
	require.Equal(t, "count", named.String())
}

func TestMemberRefDescCompletion(t *testing.T) {
	ref := NewMemberRef(tok, "java/lang/Object", "toString", "")
	require.Equal(t, "", ref.Desc())
	ref.SetDesc("()Ljava/lang/String;")
	require.Equal(t, "()Ljava/lang/String;", ref.Desc())
	require.Equal(t, "java/lang/Object.toString ()Ljava/lang/String;", ref.String())
}

func TestBodyCollections(t *testing.T) {
	body := NewBody()
	body.Append(NewLabelDecl(tok, "start"))
	body.Append(NewLineDirective(tok, 42))
	body.Append(NewSimpleInst(tok, op.Nop))
	body.Append(NewSimpleInst(tok, op.Return))

	require.Equal(t, 4, body.Len())
	insts := body.Instructions()
	require.Len(t, insts, 2)
	require.Equal(t, op.Nop, insts[0].Op())
	require.Equal(t, op.Return, insts[1].Op())
	require.Equal(t, []string{"start"}, body.Labels())
}

func TestBodyEditing(t *testing.T) {
	body := NewBody()
	body.Append(NewSimpleInst(tok, op.Nop))
	body.Append(NewSimpleInst(tok, op.Return))

	require.NoError(t, body.Insert(1, NewSimpleInst(tok, op.Iadd)))
	require.Equal(t, 3, body.Len())
	require.Equal(t, "iadd", body.Entries()[1].String())

	require.NoError(t, body.Insert(body.Len(), NewLabelDecl(tok, "tail")))
	require.Equal(t, "%tail:", body.Entries()[3].String())

	require.NoError(t, body.Replace(0, NewSimpleInst(tok, op.Pop)))
	require.Equal(t, "pop", body.Entries()[0].String())

	require.NoError(t, body.Remove(1))
	require.Equal(t, 3, body.Len())
	require.Equal(t, "return", body.Entries()[1].String())

	require.Error(t, body.Insert(-1, NewSimpleInst(tok, op.Nop)))
	require.Error(t, body.Insert(99, NewSimpleInst(tok, op.Nop)))
	require.Error(t, body.Remove(99))
	require.Error(t, body.Replace(-1, NewSimpleInst(tok, op.Nop)))
}

func TestRenameLabel(t *testing.T) {
	body := NewBody()
	body.AddHandler(NewCatchDirective(tok, "java/lang/Exception",
		NewLabelRef(tok, "start"), NewLabelRef(tok, "mid"), NewLabelRef(tok, "start")))
	body.AddLocal(NewVarDirective(tok, 0, "x", "I",
		NewLabelRef(tok, "start"), NewLabelRef(tok, "mid")))
	body.Append(NewLabelDecl(tok, "start"))
	body.Append(NewBranchInst(tok, op.Goto, NewLabelRef(tok, "start")))
	body.Append(NewLabelDecl(tok, "mid"))
	body.Append(NewTableSwitchInst(tok, 0, 1,
		[]*LabelRef{NewLabelRef(tok, "start"), NewLabelRef(tok, "mid")},
		NewLabelRef(tok, "start")))
	body.Append(NewLookupSwitchInst(tok,
		[]SwitchPair{{Match: 5, Target: NewLabelRef(tok, "start")}},
		NewLabelRef(tok, "mid")))

	require.NoError(t, body.RenameLabel("start", "top"))

	require.Equal(t, "%top:", body.Entries()[0].String())
	require.Equal(t, "goto %top", body.Entries()[1].String())
	require.Equal(t, "tableswitch 0 1 %top %mid default %top", body.Entries()[3].String())
	require.Equal(t, "lookupswitch 5=%top default %mid", body.Entries()[4].String())
	require.Equal(t, "catch java/lang/Exception %top %mid %top", body.Handlers()[0].String())
	require.Equal(t, "var 0 x I %top %mid", body.Locals()[0].String())

	require.Error(t, body.RenameLabel("missing", "other"))
	require.Error(t, body.RenameLabel("top", "mid"))
	require.NoError(t, body.RenameLabel("top", "top"))
}

func TestWalkVisitsOperands(t *testing.T) {
	body := NewBody()
	body.AddHandler(NewCatchDirective(tok, "*",
		NewLabelRef(tok, "a"), NewLabelRef(tok, "b"), NewLabelRef(tok, "c")))
	body.Append(NewLabelDecl(tok, "a"))
	body.Append(NewConstInst(tok, NewIntLit(tok, 7)))
	body.Append(NewBranchInst(tok, op.Goto, NewLabelRef(tok, "a")))
	u := NewUnit(NewMethodDef(tok, nil, "f", "()V", body))

	var labels []string
	var sawLiteral bool
	Inspect(u, func(n Node) bool {
		switch n := n.(type) {
		case *LabelRef:
			labels = append(labels, n.Name())
		case *Literal:
			sawLiteral = true
		}
		return true
	})
	assert.Equal(t, []string{"a", "b", "c", "a"}, labels)
	assert.True(t, sawLiteral)
}

func TestWalkPrunes(t *testing.T) {
	u := NewUnit(loopMethod())
	var count int
	Inspect(u, func(n Node) bool {
		count++
		_, isMethod := n.(*MethodDef)
		return !isMethod
	})
	require.Equal(t, 2, count)
}
