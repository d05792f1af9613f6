// Package compiler lowers resolved assembly units to concrete bytecode
// artifacts. For methods that means choosing the most compact encoding for
// every instruction, fixing label offsets, building the constant pool, and
// computing the operand stack and local variable sizes by walking every
// reachable path through the code. Field and class units carry no code, so
// their lowering is a modifier fold and a constant value mapping.
//
// The compiler is fail-fast. The first fatal finding aborts the unit and is
// returned as an *errors.CompileError; the same finding is reported to the
// configured sink so callers that aggregate diagnostics see it too.
package compiler

import (
	"fmt"
	"strings"

	"github.com/basm-lang/basm/ast"
	"github.com/basm-lang/basm/bytecode"
	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/resolver"
	"github.com/basm-lang/basm/token"
)

// Config holds compiler configuration options.
type Config struct {
	// Source is the original assembly text. When set, diagnostics carry the
	// offending source line.
	Source string

	// Sink receives a diagnostic for every fatal finding. Optional.
	Sink errors.Sink

	// Trace, when set, is filled with measurements of the lowering run.
	Trace *Trace
}

// Trace records measurements of one lowering run.
type Trace struct {
	// LayoutPasses is the number of iterations the offset-fixing loop ran
	// before reaching a fixed point. Class and field units leave it zero.
	LayoutPasses int
}

// Compiler lowers resolved units to bytecode artifacts.
type Compiler struct {
	source string
	sink   errors.Sink
	trace  *Trace
}

// New creates a Compiler. Pass nil for cfg to use defaults.
func New(cfg *Config) *Compiler {
	c := &Compiler{}
	if cfg != nil {
		c.source = cfg.Source
		c.sink = cfg.Sink
		c.trace = cfg.Trace
	}
	return c
}

// Compile lowers a resolved unit to a bytecode artifact. Pass nil for cfg to
// use defaults.
func Compile(res *resolver.Resolution, cfg *Config) (*bytecode.Unit, error) {
	return New(cfg).Compile(res)
}

// Compile lowers one resolved unit. The returned error, if any, is an
// *errors.CompileError describing the first fatal finding.
func (c *Compiler) Compile(res *resolver.Resolution) (*bytecode.Unit, error) {
	if res == nil || res.Unit() == nil {
		return nil, fmt.Errorf("compiler: nil resolution")
	}
	unit := res.Unit()
	if unit.Incomplete() || unit.Definition() == nil {
		return nil, c.fail(errors.E3005, unit.Pos(), "cannot compile an incomplete unit")
	}
	switch def := unit.Definition().(type) {
	case *ast.ClassDef:
		return c.compileClass(def)
	case *ast.FieldDef:
		return c.compileField(def)
	case *ast.MethodDef:
		return c.compileMethod(def, res)
	}
	return nil, fmt.Errorf("compiler: unknown definition %T", unit.Definition())
}

func (c *Compiler) compileClass(def *ast.ClassDef) (*bytecode.Unit, error) {
	return bytecode.NewClassUnit(bytecode.NewClass(bytecode.ClassParams{
		Flags:      foldFlags(ast.ClassKind, def.Modifiers()),
		Name:       def.Name(),
		Super:      def.Super(),
		Interfaces: def.Interfaces(),
	})), nil
}

func (c *Compiler) compileField(def *ast.FieldDef) (*bytecode.Unit, error) {
	params := bytecode.FieldParams{
		Flags: foldFlags(ast.FieldKind, def.Modifiers()),
		Name:  def.Name(),
		Desc:  def.Desc(),
	}
	if lit := def.Value(); lit != nil {
		v := constOf(lit)
		params.Value = &v
	}
	return bytecode.NewFieldUnit(bytecode.NewField(params)), nil
}

func (c *Compiler) compileMethod(def *ast.MethodDef, res *resolver.Resolution) (*bytecode.Unit, error) {
	flags := foldFlags(ast.MethodKind, def.Modifiers())

	// Abstract and native methods declare behavior elsewhere; the artifact
	// carries the signature and nothing more.
	if def.HasModifier("abstract") || def.HasModifier("native") {
		return bytecode.NewMethodUnit(bytecode.NewMethod(bytecode.MethodParams{
			Flags: flags,
			Name:  def.Name(),
			Desc:  def.Desc(),
		})), nil
	}

	m := &methodCompiler{
		Compiler: c,
		def:      def,
		res:      res,
		pool:     bytecode.NewConstPool(),
	}
	if err := m.build(); err != nil {
		return nil, err
	}
	if err := m.layout(); err != nil {
		return nil, err
	}
	maxStack, err := m.maxStack()
	if err != nil {
		return nil, err
	}
	code, err := m.encode()
	if err != nil {
		return nil, err
	}
	handlers, err := m.handlerTable()
	if err != nil {
		return nil, err
	}
	locals, err := m.localTable()
	if err != nil {
		return nil, err
	}

	return bytecode.NewMethodUnit(bytecode.NewMethod(bytecode.MethodParams{
		Flags:     flags,
		Name:      def.Name(),
		Desc:      def.Desc(),
		Code:      code,
		MaxStack:  maxStack,
		MaxLocals: m.maxLocal,
		Pool:      m.pool,
		Handlers:  handlers,
		Locals:    locals,
		Lines:     m.lines,
	})), nil
}

// foldFlags folds modifier keywords into access bits. Keyword legality per
// definition kind was enforced during resolution.
func foldFlags(kind ast.DefKind, words []string) uint16 {
	var flags uint16
	for _, w := range words {
		if bit, ok := ast.ModifierBit(kind, w); ok {
			flags |= bit
		}
	}
	return flags
}

// constOf maps a field value literal onto its pool entry shape.
func constOf(lit *ast.Literal) bytecode.Const {
	switch lit.Kind() {
	case ast.IntLit:
		return bytecode.Const{Kind: bytecode.ConstInt, Int: lit.Int()}
	case ast.LongLit:
		return bytecode.Const{Kind: bytecode.ConstLong, Int: lit.Int()}
	case ast.FloatLit:
		return bytecode.Const{Kind: bytecode.ConstFloat, Float: float64(lit.Float32())}
	case ast.DoubleLit:
		return bytecode.Const{Kind: bytecode.ConstDouble, Float: lit.Float()}
	case ast.StringLit:
		return bytecode.Const{Kind: bytecode.ConstString, Str: lit.Str()}
	default:
		return bytecode.Const{Kind: bytecode.ConstClass, Str: lit.Str()}
	}
}

// fail reports a fatal finding to the sink and returns it as the compile
// error that aborts the unit.
func (c *Compiler) fail(code errors.ErrorCode, pos token.Position, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	line := c.lineText(pos)
	if c.sink != nil {
		c.sink.Report(errors.Diagnostic{
			Code:     code,
			Severity: errors.SeverityError,
			Message:  msg,
			Location: errors.SourceLocation{
				Filename: pos.File,
				Line:     pos.LineNumber(),
				Column:   pos.ColumnNumber(),
				Source:   line,
			},
		})
	}
	return &errors.CompileError{
		Code:       code,
		Message:    msg,
		Filename:   pos.File,
		Line:       pos.LineNumber(),
		Column:     pos.ColumnNumber(),
		SourceLine: line,
	}
}

// lineText slices the source line containing pos out of the configured
// source text.
func (c *Compiler) lineText(pos token.Position) string {
	if c.source == "" || pos.LineStart < 0 || pos.LineStart > len(c.source) {
		return ""
	}
	rest := c.source[pos.LineStart:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
