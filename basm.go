// Package basm is a bidirectional toolchain for BASM, a line-oriented
// assembly dialect for JVM-shaped class members. It assembles textual
// assembly into concrete bytecode artifacts and disassembles artifacts back
// into the same tree shape, so compiled methods, fields and classes can be
// inspected and edited at the instruction level.
//
// Assemble one unit of source text:
//
//	unit, err := basm.Assemble(ctx, source)
//
// Reconstruct editable source structure from an artifact:
//
//	tree, err := basm.Disassemble(unit)
//	text, err := basm.Format(ctx, source)
//
// Each entry point accepts functional options for the file name shown in
// diagnostics, an external type resolver, a logger, and a diagnostics sink.
package basm

import (
	"context"
	goerrors "errors"
	"fmt"
	"time"

	"github.com/basm-lang/basm/ast"
	"github.com/basm-lang/basm/bytecode"
	"github.com/basm-lang/basm/compiler"
	"github.com/basm-lang/basm/dis"
	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/parser"
	"github.com/basm-lang/basm/printer"
	"github.com/basm-lang/basm/resolver"
)

// Parse parses assembly source into a unit tree. On syntax errors the
// returned tree is partial and marked incomplete, so editors can keep
// working with the best-effort structure; the error batches every finding.
func Parse(ctx context.Context, source string, opts ...Option) (*ast.Unit, error) {
	o := collectOptions(opts...)
	return o.parse(ctx, source)
}

// Assemble parses, resolves and compiles assembly source into a bytecode
// artifact. The artifact is immutable and safe for concurrent use.
func Assemble(ctx context.Context, source string, opts ...Option) (*bytecode.Unit, error) {
	o := collectOptions(opts...)
	start := time.Now()
	unit, err := o.parse(ctx, source)
	if err != nil {
		return nil, err
	}
	trace := &compiler.Trace{}
	out, err := o.assemble(unit, source, trace)
	if err != nil {
		return nil, err
	}
	o.logAssembled(out, trace, time.Since(start))
	return out, nil
}

// AssembleUnit resolves and compiles a unit tree built or edited in memory.
// It is equivalent to Assemble without the parse stage. Incomplete trees are
// refused.
func AssembleUnit(unit *ast.Unit, opts ...Option) (*bytecode.Unit, error) {
	o := collectOptions(opts...)
	if unit == nil {
		return nil, fmt.Errorf("basm: nil unit")
	}
	start := time.Now()
	trace := &compiler.Trace{}
	out, err := o.assemble(unit, "", trace)
	if err != nil {
		return nil, err
	}
	o.logAssembled(out, trace, time.Since(start))
	return out, nil
}

// Disassemble reconstructs the canonical unit tree from a compiled artifact.
// Assembling the result reproduces the artifact's code bytes.
func Disassemble(unit *bytecode.Unit, opts ...Option) (*ast.Unit, error) {
	o := collectOptions(opts...)
	start := time.Now()
	tree, err := dis.Disassemble(unit, o.disConfig())
	if err != nil {
		return nil, err
	}
	evt := o.logger.Debug().
		Str("unit", unit.Kind()).
		Stringer("id", unit.ID()).
		Dur("elapsed", time.Since(start))
	if def, ok := tree.AsMethod(); ok {
		evt = evt.Int("entries", def.Body().Len())
	}
	evt.Msg("disassembled")
	return tree, nil
}

// Format parses assembly source and prints it back in canonical form.
// Formatting is idempotent: formatting the output returns it unchanged.
func Format(ctx context.Context, source string, opts ...Option) (string, error) {
	o := collectOptions(opts...)
	unit, err := o.parse(ctx, source)
	if err != nil {
		return "", err
	}
	return printer.Sprint(unit, o.printerOpts()...)
}

func (o *options) parse(ctx context.Context, source string) (*ast.Unit, error) {
	unit, err := parser.Parse(ctx, source, o.parserOpts()...)
	if err != nil {
		o.reportParseErrors(err)
		return unit, err
	}
	return unit, nil
}

// reportParseErrors mirrors a parse failure to the sink. The parser has no
// sink of its own; its batch type carries the diagnostics ready-made.
func (o *options) reportParseErrors(err error) {
	if o.sink == nil {
		return
	}
	var batch *parser.Errors
	if goerrors.As(err, &batch) {
		for _, d := range batch.Diagnostics() {
			o.sink.Report(d)
		}
	}
}

func (o *options) assemble(unit *ast.Unit, source string, trace *compiler.Trace) (*bytecode.Unit, error) {
	if unit.Incomplete() {
		return nil, o.refuseIncomplete(unit)
	}
	res, err := resolver.Resolve(unit, o.resolverConfig(source))
	if err != nil {
		return nil, err
	}
	return compiler.Compile(res, o.compilerConfig(source, trace))
}

// refuseIncomplete builds the rejection for a partial tree. Resolving it
// anyway would surface the missing pieces as misleading symbol errors.
func (o *options) refuseIncomplete(unit *ast.Unit) error {
	pos := unit.Pos()
	filename := pos.File
	if filename == "" {
		filename = o.filename
	}
	const msg = "cannot assemble an incomplete unit"
	if o.sink != nil {
		o.sink.Report(errors.Diagnostic{
			Code:     errors.E3005,
			Severity: errors.SeverityError,
			Message:  msg,
			Location: errors.SourceLocation{
				Filename: filename,
				Line:     pos.LineNumber(),
				Column:   pos.ColumnNumber(),
			},
		})
	}
	return &errors.CompileError{
		Code:     errors.E3005,
		Message:  msg,
		Filename: filename,
		Line:     pos.LineNumber(),
		Column:   pos.ColumnNumber(),
	}
}

// logAssembled emits the debug summary for a produced artifact.
func (o *options) logAssembled(unit *bytecode.Unit, trace *compiler.Trace, elapsed time.Duration) {
	evt := o.logger.Debug().
		Str("unit", unit.Kind()).
		Stringer("id", unit.ID()).
		Dur("elapsed", elapsed)
	if m, ok := unit.AsMethod(); ok {
		stats := m.Stats()
		evt = evt.
			Int("instructions", stats.InstructionCount).
			Int("code_bytes", stats.CodeBytes).
			Int("max_stack", stats.MaxStack).
			Int("max_locals", stats.MaxLocals).
			Int("layout_passes", trace.LayoutPasses)
	}
	evt.Msg("assembled")
}
