// Package dis reconstructs assembly source structure from compiled
// bytecode artifacts. It is the inverse of the compiler: decoded
// instructions fold back to their canonical mnemonic forms and branch
// offsets become synthesized labels, so compiling the reconstructed
// unit reproduces the original code bytes.
package dis

import (
	"fmt"

	"github.com/basm-lang/basm/ast"
	"github.com/basm-lang/basm/bytecode"
	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/token"
)

// Config adjusts disassembly. The zero value is ready to use.
type Config struct {
	// Sink receives a diagnostic for every failure, in addition to the
	// error returned from Disassemble.
	Sink errors.Sink
}

// Disassembler rebuilds source-level units from bytecode artifacts.
type Disassembler struct {
	sink errors.Sink
}

// New creates a Disassembler. A nil config is equivalent to the zero
// Config.
func New(cfg *Config) *Disassembler {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Disassembler{sink: cfg.Sink}
}

// Disassemble reconstructs the source unit for a compiled artifact using a
// one-off Disassembler.
func Disassemble(unit *bytecode.Unit, cfg *Config) (*ast.Unit, error) {
	return New(cfg).Disassemble(unit)
}

// Disassemble rebuilds the assembly representation of a class, field or
// method artifact. The returned unit is complete and resolvable.
func (d *Disassembler) Disassemble(unit *bytecode.Unit) (*ast.Unit, error) {
	if unit == nil {
		return nil, fmt.Errorf("dis: nil unit")
	}
	switch {
	case unit.IsClass():
		return d.class(unit.Class()), nil
	case unit.IsField():
		return d.field(unit.Field())
	case unit.IsMethod():
		return d.method(unit.Method())
	}
	return nil, fmt.Errorf("dis: unit wraps no artifact")
}

func (d *Disassembler) class(c *bytecode.Class) *ast.Unit {
	def := ast.NewClassDef(token.Token{}, ast.ModifierWords(ast.ClassKind, c.Flags()),
		c.Name(), c.Super(), c.Interfaces())
	return ast.NewUnit(def)
}

func (d *Disassembler) field(f *bytecode.Field) (*ast.Unit, error) {
	var value *ast.Literal
	if c, ok := f.Value(); ok {
		lit, ok := literalOf(c)
		if !ok {
			return nil, d.fail(errors.E4005, "field %s carries a %s constant, which has no literal form", f.Name(), c.Kind)
		}
		value = lit
	}
	def := ast.NewFieldDef(token.Token{}, ast.ModifierWords(ast.FieldKind, f.Flags()),
		f.Name(), f.Desc(), value)
	return ast.NewUnit(def), nil
}

// literalOf maps a loadable pool entry to its source literal. Member
// references have no literal form.
func literalOf(c bytecode.Const) (*ast.Literal, bool) {
	var tok token.Token
	switch c.Kind {
	case bytecode.ConstInt:
		return ast.NewIntLit(tok, c.Int), true
	case bytecode.ConstLong:
		return ast.NewLongLit(tok, c.Int), true
	case bytecode.ConstFloat:
		return ast.NewFloatLit(tok, float32(c.Float)), true
	case bytecode.ConstDouble:
		return ast.NewDoubleLit(tok, c.Float), true
	case bytecode.ConstString:
		return ast.NewStringLit(tok, c.Str), true
	case bytecode.ConstClass:
		return ast.NewTypeLit(tok, c.Str), true
	}
	return nil, false
}

// fail reports a diagnostic to the sink, if any, and returns it as the
// error. Disassembly diagnostics carry no source location; the subject is
// a binary artifact.
func (d *Disassembler) fail(code errors.ErrorCode, format string, args ...interface{}) error {
	diag := errors.Diagnostic{
		Code:     code,
		Severity: errors.SeverityError,
		Message:  fmt.Sprintf(format, args...),
	}
	if d.sink != nil {
		d.sink.Report(diag)
	}
	return &diag
}
