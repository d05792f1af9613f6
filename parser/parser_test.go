package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/basm-lang/basm/ast"
	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/op"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseUnit(t *testing.T, input string) *ast.Unit {
	t.Helper()
	unit, err := Parse(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, unit)
	require.False(t, unit.Incomplete())
	return unit
}

func parseErrs(t *testing.T, input string) (*ast.Unit, *Errors) {
	t.Helper()
	unit, err := Parse(context.Background(), input)
	require.Error(t, err)
	errs, ok := err.(*Errors)
	require.True(t, ok, "expected *Errors, got %T", err)
	return unit, errs
}

func TestParseMethodLoop(t *testing.T) {
	unit := parseUnit(t, "method foo ()V\n%start:\n ldc 1\n goto %start\nend method")
	require.True(t, unit.IsMethod())
	m := unit.Method()
	require.Equal(t, "foo", m.Name())
	require.Equal(t, "()V", m.Desc())

	entries := m.Body().Entries()
	require.Len(t, entries, 3)

	decl, ok := entries[0].(*ast.LabelDecl)
	require.True(t, ok)
	require.Equal(t, "start", decl.Name())

	load, ok := entries[1].(*ast.ConstInst)
	require.True(t, ok)
	require.Equal(t, ast.IntLit, load.Literal().Kind())
	require.Equal(t, int64(1), load.Literal().Int())

	jump, ok := entries[2].(*ast.BranchInst)
	require.True(t, ok)
	require.Equal(t, op.Goto, jump.Op())
	require.Equal(t, "start", jump.Target().Name())
}

func TestParseClass(t *testing.T) {
	unit := parseUnit(t, "class public final com/example/Foo extends java/lang/Object "+
		"implements java/io/Serializable java/lang/Runnable\n")
	require.True(t, unit.IsClass())
	require.False(t, unit.IsMember())

	c := unit.Class()
	require.Equal(t, []string{"public", "final"}, c.Modifiers())
	require.Equal(t, "com/example/Foo", c.Name())
	require.Equal(t, "java/lang/Object", c.Super())
	require.Equal(t, []string{"java/io/Serializable", "java/lang/Runnable"}, c.Interfaces())
}

func TestParseClassTerminators(t *testing.T) {
	for _, input := range []string{
		"class Foo",
		"class Foo\n",
		"class Foo\nend",
		"class Foo\nend class\n",
	} {
		unit := parseUnit(t, input)
		require.True(t, unit.IsClass(), "input %q", input)
		require.Equal(t, "Foo", unit.Class().Name())
	}

	_, errs := parseErrs(t, "class Foo\nend method\n")
	require.Contains(t, errs.First().Message(), "mismatched end")
}

func TestParseField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, f *ast.FieldDef)
	}{
		{
			name:  "int constant",
			input: "field public static MAX I = 100",
			check: func(t *testing.T, f *ast.FieldDef) {
				require.Equal(t, []string{"public", "static"}, f.Modifiers())
				require.Equal(t, "MAX", f.Name())
				require.Equal(t, "I", f.Desc())
				require.NotNil(t, f.Value())
				require.Equal(t, int64(100), f.Value().Int())
			},
		},
		{
			name:  "no value",
			input: "field name Ljava/lang/String;",
			check: func(t *testing.T, f *ast.FieldDef) {
				require.Empty(t, f.Modifiers())
				require.Equal(t, "Ljava/lang/String;", f.Desc())
				require.Nil(t, f.Value())
			},
		},
		{
			name:  "string constant",
			input: "field greeting Ljava/lang/String; = \"hi\\n\"",
			check: func(t *testing.T, f *ast.FieldDef) {
				require.Equal(t, ast.StringLit, f.Value().Kind())
				require.Equal(t, "hi\n", f.Value().Str())
			},
		},
		{
			name:  "long constant",
			input: "field ticks J = 9000000000L",
			check: func(t *testing.T, f *ast.FieldDef) {
				require.Equal(t, ast.LongLit, f.Value().Kind())
				require.Equal(t, int64(9000000000), f.Value().Int())
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := parseUnit(t, tt.input)
			require.True(t, unit.IsField())
			tt.check(t, unit.Field())
		})
	}
}

func TestParseMethodDirectives(t *testing.T) {
	input := `method public run ()V
    catch java/lang/Exception %try %after %handler
    var 1 count I %try %after
%try:
    line 12
    iinc count 1
%after:
    return
%handler:
    athrow
end`
	unit := parseUnit(t, input)
	body := unit.Method().Body()

	require.Len(t, body.Handlers(), 1)
	h := body.Handlers()[0]
	require.Equal(t, "java/lang/Exception", h.Type())
	require.False(t, h.CatchesAll())
	require.Equal(t, "try", h.From().Name())
	require.Equal(t, "after", h.To().Name())
	require.Equal(t, "handler", h.Handler().Name())

	require.Len(t, body.Locals(), 1)
	v := body.Locals()[0]
	require.Equal(t, 1, v.Slot())
	require.Equal(t, "count", v.Name())
	require.Equal(t, "I", v.Desc())

	require.Equal(t, []string{"try", "after", "handler"}, body.Labels())

	var sawLine bool
	for _, e := range body.Entries() {
		if d, ok := e.(*ast.LineDirective); ok {
			sawLine = true
			require.Equal(t, 12, d.Line())
		}
	}
	require.True(t, sawLine)
}

func TestDirectivesAnywhere(t *testing.T) {
	// catch and var directives may appear after the code they cover.
	input := `method f ()V
%a:
    nop
%b:
    return
    catch * %a %b %b
end`
	unit := parseUnit(t, input)
	require.Len(t, unit.Method().Body().Handlers(), 1)
	require.True(t, unit.Method().Body().Handlers()[0].CatchesAll())
}

func TestParseInstructionForms(t *testing.T) {
	input := `method m (I)V
    aload this
    getstatic java/lang/System.out Ljava/io/PrintStream;
    invokevirtual java/io/PrintStream.println (I)V
    invokevirtual java/lang/Object.toString
    checkcast [I
    newarray int
    multianewarray [[I 2
    ldc "text"
    ldc 1.5F
    ldc 2.5
    ldc 9000000000L
    ldc java/lang/String
    return
end`
	unit := parseUnit(t, input)
	insts := unit.Method().Body().Instructions()
	require.Len(t, insts, 13)

	require.Equal(t, "aload this", insts[0].String())
	require.Equal(t, op.Getstatic, insts[1].Op())

	call, ok := insts[2].(*ast.MethodInst)
	require.True(t, ok)
	require.Equal(t, "java/io/PrintStream", call.Ref().Owner())
	require.Equal(t, "println", call.Ref().Name())
	require.Equal(t, "(I)V", call.Ref().Desc())

	bare, ok := insts[3].(*ast.MethodInst)
	require.True(t, ok)
	require.Equal(t, "", bare.Ref().Desc())

	require.Equal(t, "checkcast [I", insts[4].String())
	require.Equal(t, "newarray int", insts[5].String())
	require.Equal(t, "multianewarray [[I 2", insts[6].String())

	require.Equal(t, ast.StringLit, insts[7].(*ast.ConstInst).Literal().Kind())
	require.Equal(t, ast.FloatLit, insts[8].(*ast.ConstInst).Literal().Kind())
	require.Equal(t, ast.DoubleLit, insts[9].(*ast.ConstInst).Literal().Kind())
	require.Equal(t, ast.LongLit, insts[10].(*ast.ConstInst).Literal().Kind())
	require.Equal(t, ast.TypeLit, insts[11].(*ast.ConstInst).Literal().Kind())
}

func TestParseSwitches(t *testing.T) {
	input := `method m (I)I
    tableswitch 0 2 %a %b %c default %d
    lookupswitch 10=%a -20=%b default %d
%a:
%b:
%c:
%d:
    ireturn
end`
	unit := parseUnit(t, input)
	insts := unit.Method().Body().Instructions()

	ts, ok := insts[0].(*ast.TableSwitchInst)
	require.True(t, ok)
	require.Equal(t, int32(0), ts.Low())
	require.Equal(t, int32(2), ts.High())
	require.Len(t, ts.Targets(), 3)
	require.Equal(t, "d", ts.Default().Name())

	ls, ok := insts[1].(*ast.LookupSwitchInst)
	require.True(t, ok)
	require.Len(t, ls.Pairs(), 2)
	require.Equal(t, int32(10), ls.Pairs()[0].Match)
	require.Equal(t, int32(-20), ls.Pairs()[1].Match)
	require.Equal(t, "b", ls.Pairs()[1].Target.Name())
}

func TestUnknownMnemonic(t *testing.T) {
	unit, errs := parseErrs(t, "method f ()V\n iloda 1\nend")
	require.NotNil(t, unit)
	require.True(t, unit.Incomplete())

	require.Equal(t, 1, errs.Count())
	first := errs.First()
	require.Equal(t, errors.E1101, first.Code())
	require.Contains(t, first.Message(), `unknown mnemonic "iloda"`)
	require.Contains(t, first.Diagnostic().Hint, "iload")
	require.Equal(t, 2, first.StartPosition().LineNumber())
}

func TestRejectedMnemonics(t *testing.T) {
	for _, mn := range []string{"jsr", "ret", "invokedynamic", "wide", "iconst_2", "goto_w", "bipush"} {
		_, errs := parseErrs(t, "method f ()V\n "+mn+" \nend")
		require.Equal(t, errors.E1101, errs.First().Code(), "mnemonic %s", mn)
	}
}

func TestOperandArity(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.ErrorCode
		frag  string
	}{
		{"missing operand", "method f ()V\n iload\nend", errors.E1102, "missing"},
		{"extra operand", "method f ()V\n iload 1 2\nend", errors.E1102, "too many operands"},
		{"extra on simple", "method f ()V\n return 1\nend", errors.E1102, "too many operands"},
		{"wrong operand kind", "method f ()V\n goto 5\nend", errors.E1103, "expects"},
		{"bad member ref", "method f ()V\n invokevirtual toString\nend", errors.E1103, "owner/Class.member"},
		{"bad newarray type", "method f ()V\n newarray foo\nend", errors.E1103, "not a primitive"},
		{"switch target count", "method f ()V\n tableswitch 0 2 %a %b default %d\nend", errors.E1102, "needs 3 targets"},
		{"reversed bounds", "method f ()V\n tableswitch 2 0 default %d\nend", errors.E1103, "reversed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := parseErrs(t, tt.input)
			require.Equal(t, tt.code, errs.First().Code())
			require.Contains(t, errs.First().Message(), tt.frag)
		})
	}
}

func TestNumberRanges(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"int too large", "method f ()V\n ldc 3000000000\nend"},
		{"iinc delta too large", "method f ()V\n iinc 1 40000\nend"},
		{"slot too large", "method f ()V\n iload 70000\nend"},
		{"line too large", "method f ()V\n line 70000\nend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := parseErrs(t, tt.input)
			require.Equal(t, errors.E1004, errs.First().Code())
		})
	}
}

func TestErrorBatchAndRecovery(t *testing.T) {
	input := `method f ()V
    iloda 1
    goto %start
    frobnicate
%start:
    return
end`
	unit, errs := parseErrs(t, input)
	require.Equal(t, 2, errs.Count())

	// The good lines survive into the partial AST.
	require.True(t, unit.Incomplete())
	body := unit.Method().Body()
	require.Equal(t, []string{"start"}, body.Labels())
	require.Len(t, body.Instructions(), 2)
}

func TestMaxErrorsCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("method f ()V\n")
	for i := 0; i < MaxErrors+5; i++ {
		b.WriteString(" bogus" + strings.Repeat("x", i%3) + " 1\n")
	}
	b.WriteString("end")
	_, errs := parseErrs(t, b.String())
	require.Equal(t, MaxErrors, errs.Count())
}

func TestMissingEnd(t *testing.T) {
	unit, errs := parseErrs(t, "method f ()V\n nop\n")
	require.Equal(t, errors.E1005, errs.First().Code())
	require.Contains(t, errs.First().Message(), "missing its closing end")
	require.True(t, unit.Incomplete())
	require.Len(t, unit.Method().Body().Instructions(), 1)
}

func TestEmptyInput(t *testing.T) {
	for _, input := range []string{"", "\n\n", "# only a comment\n"} {
		unit, errs := parseErrs(t, input)
		require.True(t, unit.Incomplete(), "input %q", input)
		require.Nil(t, unit.Definition())
		require.Contains(t, errs.First().Message(), "expected a class, field or method")
	}
}

func TestTrailingInput(t *testing.T) {
	_, errs := parseErrs(t, "class Foo\nclass Bar\n")
	require.Contains(t, errs.First().Message(), "unexpected input after the definition")
}

func TestErrorLocations(t *testing.T) {
	unit, err := Parse(context.Background(), "method f ()V\n iloda 1\nend",
		WithFilename("main.basm"))
	require.True(t, unit.Incomplete())
	errs := err.(*Errors)
	first := errs.First()
	require.Equal(t, "main.basm", first.File())
	require.Equal(t, 2, first.StartPosition().LineNumber())
	require.Equal(t, " iloda 1", first.SourceCode())

	d := first.Diagnostic()
	require.Equal(t, errors.SeverityError, d.Severity)
	require.Equal(t, "main.basm", d.Location.Filename)
	require.Equal(t, 2, d.Location.Line)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	unit, err := Parse(ctx, "method f ()V\n nop\nend")
	require.Nil(t, unit)
	require.ErrorIs(t, err, context.Canceled)
}

func TestUnterminatedString(t *testing.T) {
	_, errs := parseErrs(t, "method f ()V\n ldc \"oops\nend")
	found := false
	for _, e := range errs.Errors() {
		if e.Code() == errors.E1002 {
			found = true
		}
	}
	require.True(t, found, "expected an E1002 in %v", errs)
}

func TestParseIsDeterministic(t *testing.T) {
	input := "method foo (I)I\n%loop:\n iinc 0 1\n iload 0\n ldc 10\n if_icmplt %loop\n iload 0\n ireturn\nend"
	a := parseUnit(t, input)
	b := parseUnit(t, input)
	assert.Equal(t, a.String(), b.String())
}

func TestParsePrintRoundTrip(t *testing.T) {
	inputs := []string{
		"class public Foo extends Bar implements Baz",
		"field public static MAX I = 100",
		"method foo ()V\n%start:\n    ldc 1\n    goto %start\nend",
		"method public static main ([Ljava/lang/String;)V\n" +
			"    getstatic java/lang/System.out Ljava/io/PrintStream;\n" +
			"    ldc \"hello\"\n" +
			"    invokevirtual java/io/PrintStream.println (Ljava/lang/String;)V\n" +
			"    return\nend",
	}
	for _, input := range inputs {
		unit := parseUnit(t, input)
		again := parseUnit(t, unit.String())
		require.Equal(t, unit.String(), again.String())
	}
}
