package resolver

import (
	"context"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basm-lang/basm/ast"
	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/parser"
)

type stubTypes map[string]TypeInfo

func (s stubTypes) Resolve(name string) (TypeInfo, bool) {
	info, ok := s[name]
	return info, ok
}

func workspaceTypes() stubTypes {
	return stubTypes{
		"java/lang/Object": {
			Name:    "java/lang/Object",
			Methods: map[string][]string{"<init>": {"()V"}},
		},
		"java/lang/String": {
			Name:    "java/lang/String",
			Methods: map[string][]string{"length": {"()I"}},
		},
		"java/lang/System": {
			Name:   "java/lang/System",
			Fields: map[string]string{"out": "Ljava/io/PrintStream;"},
		},
		"java/io/PrintStream": {
			Name: "java/io/PrintStream",
			Methods: map[string][]string{
				"println": {"(I)V", "(Ljava/lang/String;)V"},
			},
		},
		"demo/Counter": {
			Name:    "demo/Counter",
			Fields:  map[string]string{"count": "I"},
			Methods: map[string][]string{"inc": {"()V"}},
		},
	}
}

func parseUnit(t *testing.T, src string) *ast.Unit {
	t.Helper()
	unit, err := parser.Parse(context.Background(), src)
	require.NoError(t, err)
	return unit
}

// resolveDiags resolves a source that is expected to fail and returns the
// individual diagnostics from the error batch.
func resolveDiags(t *testing.T, src string, cfg *Config) []*errors.Diagnostic {
	t.Helper()
	unit := parseUnit(t, src)
	res, err := Resolve(unit, cfg)
	require.Error(t, err)
	require.Nil(t, res)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok, "expected a diagnostic batch, got %T", err)
	var diags []*errors.Diagnostic
	for _, e := range merr.Errors {
		d, ok := e.(*errors.Diagnostic)
		require.True(t, ok, "expected a diagnostic, got %T", e)
		diags = append(diags, d)
	}
	return diags
}

func codesOf(diags []*errors.Diagnostic) []errors.ErrorCode {
	var codes []errors.ErrorCode
	for _, d := range diags {
		codes = append(codes, d.Code)
	}
	return codes
}

func TestResolveLabels(t *testing.T) {
	unit := parseUnit(t, `
method static f (I)V
%start:
    iload 0
    ifeq %done
    goto %start
%done:
    return
end`)
	res, err := Resolve(unit, nil)
	require.NoError(t, err)

	idx, ok := res.LabelIndex("start")
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = res.LabelIndex("done")
	require.True(t, ok)
	assert.Equal(t, 4, idx)

	_, ok = res.LabelIndex("nope")
	assert.False(t, ok)
	assert.Len(t, res.Labels(), 2)
	assert.Equal(t, 1, res.ParamSlots())
	assert.Empty(t, res.Warnings())
}

func TestUnresolvedLabel(t *testing.T) {
	src := "method f ()V\n    goto %missing\nend"
	diags := resolveDiags(t, src, &Config{Source: src})
	require.Len(t, diags, 1)
	assert.Equal(t, errors.E2002, diags[0].Code)
	assert.Contains(t, diags[0].Message, "%missing")
	assert.Contains(t, diags[0].Message, "line 2")
	assert.Equal(t, 2, diags[0].Location.Line)
	assert.Equal(t, "    goto %missing", diags[0].Location.Source)
}

func TestDuplicateLabel(t *testing.T) {
	diags := resolveDiags(t, `
method f ()V
%a:
    nop
%a:
    return
end`, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.E2001, diags[0].Code)
	assert.Contains(t, diags[0].Message, "%a")
	assert.Contains(t, diags[0].Message, "line 3")
}

func TestParameterSlots(t *testing.T) {
	unit := parseUnit(t, `
method add (IJ)I
    iload 1
    lload 2
    iload n
    istore m
    return
end`)
	res, err := Resolve(unit, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, res.ParamSlots())

	slot, ok := res.Slot("this")
	require.True(t, ok)
	assert.Equal(t, 0, slot)

	slot, ok = res.Slot("n")
	require.True(t, ok)
	assert.Equal(t, 4, slot)

	slot, ok = res.Slot("m")
	require.True(t, ok)
	assert.Equal(t, 5, slot)
}

func TestStaticMethodHasNoThis(t *testing.T) {
	unit := parseUnit(t, "method static f (I)V\n    return\nend")
	res, err := Resolve(unit, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ParamSlots())
	_, ok := res.Slot("this")
	assert.False(t, ok)
}

func TestWideLocalTakesTwoSlots(t *testing.T) {
	unit := parseUnit(t, `
method static f ()V
    ldc 1L
    lstore a
    ldc 2
    istore b
    return
end`)
	res, err := Resolve(unit, nil)
	require.NoError(t, err)

	slot, ok := res.Slot("a")
	require.True(t, ok)
	assert.Equal(t, 0, slot)

	slot, ok = res.Slot("b")
	require.True(t, ok)
	assert.Equal(t, 2, slot)
}

func TestIincAllocatesLocal(t *testing.T) {
	unit := parseUnit(t, "method static f ()V\n    iinc i 1\n    return\nend")
	res, err := Resolve(unit, nil)
	require.NoError(t, err)
	slot, ok := res.Slot("i")
	require.True(t, ok)
	assert.Equal(t, 0, slot)
}

func TestNamedLocalsRewrittenToSlots(t *testing.T) {
	unit := parseUnit(t, "method static f (I)V\n    iload n\n    istore n\n    iinc n 1\n    return\nend")
	_, err := Resolve(unit, nil)
	require.NoError(t, err)

	body := unit.Definition().(*ast.MethodDef).Body()
	load := body.Instructions()[0].(*ast.VarInst)
	require.False(t, load.Local().IsNamed())
	assert.Equal(t, 1, load.Local().Slot())
	inc := body.Instructions()[2].(*ast.IincInst)
	require.False(t, inc.Local().IsNamed())
	assert.Equal(t, 1, inc.Local().Slot())
}

func TestVarDirectiveBindsSlot(t *testing.T) {
	unit := parseUnit(t, `
method static count ()V
    var 3 total J %a %b
%a:
    lload total
%b:
    return
end`)
	res, err := Resolve(unit, nil)
	require.NoError(t, err)
	slot, ok := res.Slot("total")
	require.True(t, ok)
	assert.Equal(t, 3, slot)
}

func TestNamedLocalsAllocateAfterDirectives(t *testing.T) {
	unit := parseUnit(t, `
method static f ()V
    var 2 big J %a %b
%a:
    istore x
%b:
    return
end`)
	res, err := Resolve(unit, nil)
	require.NoError(t, err)
	slot, ok := res.Slot("x")
	require.True(t, ok)
	assert.Equal(t, 4, slot)
}

func TestConflictingVarBindings(t *testing.T) {
	diags := resolveDiags(t, `
method static f ()V
    var 0 x I %a %b
    var 1 x I %a %b
%a:
    nop
%b:
    return
end`, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.E2003, diags[0].Code)
	assert.Contains(t, diags[0].Message, "slot 0")
	assert.Contains(t, diags[0].Message, "slot 1")
}

func TestOverlappingLocalsConflict(t *testing.T) {
	diags := resolveDiags(t, `
method static f ()V
    var 0 x I %a %c
    var 0 y I %b %c
%a:
    nop
%b:
    nop
%c:
    return
end`, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.E2005, diags[0].Code)
	assert.Contains(t, diags[0].Message, "x")
	assert.Contains(t, diags[0].Message, "y")
}

func TestDisjointRangesShareSlot(t *testing.T) {
	unit := parseUnit(t, `
method static f ()V
    var 0 x I %a %b
    var 0 y I %b %c
%a:
    nop
%b:
    nop
%c:
    return
end`)
	_, err := Resolve(unit, nil)
	require.NoError(t, err)
}

func TestEmptyHandlerRange(t *testing.T) {
	diags := resolveDiags(t, `
method f ()V
    catch * %a %a %h
%a:
    nop
%h:
    return
end`, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.E2006, diags[0].Code)
}

func TestReversedHandlerRange(t *testing.T) {
	diags := resolveDiags(t, `
method f ()V
    catch java/lang/Exception %b %a %h
%a:
    nop
%b:
    nop
%h:
    return
end`, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.E2006, diags[0].Code)
	assert.Contains(t, diags[0].Message, "%b..%a")
}

func TestIllegalModifiers(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "field modifier on method",
			src:  "method volatile f ()V\n    return\nend",
			want: "volatile is not a legal method modifier",
		},
		{
			name: "two visibilities",
			src:  "method public private f ()V\n    return\nend",
			want: "at most one of",
		},
		{
			name: "final abstract class",
			src:  "class final abstract Foo",
			want: "mutually exclusive",
		},
		{
			name: "final interface",
			src:  "class interface final Foo",
			want: "cannot be final",
		},
		{
			name: "final volatile field",
			src:  "field final volatile x I",
			want: "mutually exclusive",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := resolveDiags(t, tt.src, nil)
			require.NotEmpty(t, diags)
			assert.Equal(t, errors.E2007, diags[0].Code)
			assert.Contains(t, diags[0].Message, tt.want)
		})
	}
}

func TestAbstractMethodMustBeEmpty(t *testing.T) {
	diags := resolveDiags(t, "method abstract f ()V\n    nop\nend", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.E2007, diags[0].Code)
	assert.Contains(t, diags[0].Message, "must not have a body")

	unit := parseUnit(t, "method abstract f ()V\nend")
	_, err := Resolve(unit, nil)
	require.NoError(t, err)
}

func TestDescriptorCompletion(t *testing.T) {
	unit := parseUnit(t, `
method static main ([Ljava/lang/String;)V
    getstatic java/lang/System.out
    ldc "hi"
    invokevirtual java/io/PrintStream.println (Ljava/lang/String;)V
    return
end`)
	res, err := Resolve(unit, &Config{Types: workspaceTypes()})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings())

	def := unit.Definition().(*ast.MethodDef)
	field := def.Body().Instructions()[0].(*ast.FieldInst)
	assert.Equal(t, "Ljava/io/PrintStream;", field.Ref().Desc())
}

func TestUniqueMethodCompletion(t *testing.T) {
	unit := parseUnit(t, `
method static f (Ldemo/Counter;)V
    aload 0
    invokevirtual demo/Counter.inc
    return
end`)
	_, err := Resolve(unit, &Config{Types: workspaceTypes()})
	require.NoError(t, err)

	def := unit.Definition().(*ast.MethodDef)
	call := def.Body().Instructions()[1].(*ast.MethodInst)
	assert.Equal(t, "()V", call.Ref().Desc())
}

func TestAmbiguousCompletion(t *testing.T) {
	diags := resolveDiags(t, `
method static f ()V
    invokevirtual java/io/PrintStream.println
    return
end`, &Config{Types: workspaceTypes()})
	require.Len(t, diags, 1)
	assert.Equal(t, errors.E2003, diags[0].Code)
	assert.Contains(t, diags[0].Message, "2 overloads")
}

func TestCompletionNeedsTypes(t *testing.T) {
	diags := resolveDiags(t, `
method static f ()V
    getstatic java/lang/System.out
    return
end`, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.E2009, diags[0].Code)
	assert.Contains(t, diags[0].Message, "no type information")
}

func TestCompletionUnknownType(t *testing.T) {
	diags := resolveDiags(t, `
method static f ()V
    getstatic some/Unknown.value
    return
end`, &Config{Types: workspaceTypes()})
	require.Len(t, diags, 1)
	assert.Equal(t, errors.E2008, diags[0].Code)
	assert.Equal(t, errors.SeverityError, diags[0].Severity)
}

func TestCompletionUnknownMember(t *testing.T) {
	diags := resolveDiags(t, `
method static f ()V
    getstatic java/lang/System.err
    return
end`, &Config{Types: workspaceTypes()})
	require.Len(t, diags, 1)
	assert.Equal(t, errors.E2009, diags[0].Code)
	assert.Contains(t, diags[0].Message, "no field err")
}

func TestUnknownTypeIsAdvisoryWithDescriptor(t *testing.T) {
	unit := parseUnit(t, `
method static f ()V
    getstatic some/Unknown.value I
    new some/Other
    return
end`)
	res, err := Resolve(unit, &Config{Types: workspaceTypes()})
	require.NoError(t, err)
	require.Len(t, res.Warnings(), 2)
	assert.Equal(t, errors.E2008, res.Warnings()[0].Code)
	assert.Equal(t, errors.SeverityWarning, res.Warnings()[0].Severity)
}

func TestMismatchedFieldDescriptorWarns(t *testing.T) {
	unit := parseUnit(t, `
method static f ()V
    getstatic java/lang/System.out I
    return
end`)
	res, err := Resolve(unit, &Config{Types: workspaceTypes()})
	require.NoError(t, err)
	require.Len(t, res.Warnings(), 1)
	assert.Equal(t, errors.E2009, res.Warnings()[0].Code)
	assert.Contains(t, res.Warnings()[0].Message, "Ljava/io/PrintStream;")
}

func TestNoOverloadMatchesWarns(t *testing.T) {
	unit := parseUnit(t, `
method static f ()V
    invokevirtual java/io/PrintStream.println (D)V
    return
end`)
	res, err := Resolve(unit, &Config{Types: workspaceTypes()})
	require.NoError(t, err)
	require.Len(t, res.Warnings(), 1)
	assert.Equal(t, errors.E2009, res.Warnings()[0].Code)
	assert.Contains(t, res.Warnings()[0].Message, "(D)V")
}

func TestFieldConstantTypes(t *testing.T) {
	clean := []string{
		"field static final MAX I = 32",
		"field static final BITS J = 12L",
		"field static final RATIO F = 1.5F",
		"field static final SCALE D = 1.5",
		`field static final NAME Ljava/lang/String; = "basm"`,
	}
	for _, src := range clean {
		unit := parseUnit(t, src)
		_, err := Resolve(unit, nil)
		require.NoError(t, err, "source: %s", src)
	}

	bad := []string{
		`field static final MAX I = "oops"`,
		"field static final BITS J = 12",
		"field static final SCALE D = 2",
		"field static final ARR [I = 1",
		`field static final OBJ Ljava/lang/Thread; = "nope"`,
	}
	for _, src := range bad {
		diags := resolveDiags(t, src, nil)
		require.Len(t, diags, 1, "source: %s", src)
		assert.Equal(t, errors.E2010, diags[0].Code, "source: %s", src)
	}
}

func TestMalformedDescriptors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"field definition", "field x QQ"},
		{"method definition", "method f (I\n    return\nend"},
		{"member reference", "method f ()V\n    getstatic a/B.c XX\n    return\nend"},
		{"local directive", "method f ()V\n    var 1 x ZZ %a %b\n%a:\n    nop\n%b:\n    return\nend"},
		{"array operand", "method f ()V\n    anewarray [Qbad\n    pop\n    return\nend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := resolveDiags(t, tt.src, nil)
			require.NotEmpty(t, diags)
			assert.Equal(t, errors.E2004, diags[0].Code)
		})
	}
}

func TestMultianewarrayDims(t *testing.T) {
	diags := resolveDiags(t, `
method f ()V
    ldc 2
    ldc 3
    ldc 4
    multianewarray [[I 3
    pop
    return
end`, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.E2004, diags[0].Code)
	assert.Contains(t, diags[0].Message, "3 dimensions")

	unit := parseUnit(t, `
method f ()V
    ldc 2
    ldc 3
    multianewarray [[I 2
    pop
    return
end`)
	_, err := Resolve(unit, nil)
	require.NoError(t, err)
}

func TestClassUnits(t *testing.T) {
	unit := parseUnit(t, "class public demo/Counter extends java/lang/Object")
	res, err := Resolve(unit, &Config{Types: workspaceTypes()})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings())

	unit = parseUnit(t, "class demo/X extends java/lang/Object implements demo/Missing")
	res, err = Resolve(unit, &Config{Types: workspaceTypes()})
	require.NoError(t, err)
	require.Len(t, res.Warnings(), 1)
	assert.Equal(t, errors.E2008, res.Warnings()[0].Code)
	assert.Contains(t, res.Warnings()[0].Message, "demo/Missing")
}

func TestRejectsIncompleteUnit(t *testing.T) {
	unit, err := parser.Parse(context.Background(), "method f ()V\n    iloda 1\nend")
	require.Error(t, err)
	require.NotNil(t, unit)
	require.True(t, unit.Incomplete())

	res, rerr := Resolve(unit, nil)
	require.Error(t, rerr)
	assert.Nil(t, res)
	assert.Contains(t, rerr.Error(), "incomplete")
}

func TestRejectsNilUnit(t *testing.T) {
	_, err := Resolve(nil, nil)
	require.Error(t, err)
}

func TestSinkReceivesEverything(t *testing.T) {
	var collector errors.Collector
	src := `
method static f ()V
    getstatic some/Unknown.value I
    goto %missing
    return
end`
	unit := parseUnit(t, src)
	_, err := Resolve(unit, &Config{Types: workspaceTypes(), Sink: &collector})
	require.Error(t, err)

	require.Len(t, collector.Errors(), 1)
	assert.Equal(t, errors.E2002, collector.Errors()[0].Code)
	require.Len(t, collector.Warnings(), 1)
	assert.Equal(t, errors.E2008, collector.Warnings()[0].Code)
}

func TestErrorBatchReportsAll(t *testing.T) {
	diags := resolveDiags(t, `
method f ()V
%a:
    goto %one
    goto %two
%a:
    return
end`, nil)
	codes := codesOf(diags)
	assert.Contains(t, codes, errors.E2001)
	assert.Contains(t, codes, errors.E2002)
	assert.Len(t, diags, 3)
}
