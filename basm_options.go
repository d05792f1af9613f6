package basm

import (
	"github.com/rs/zerolog"

	"github.com/basm-lang/basm/compiler"
	"github.com/basm-lang/basm/dis"
	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/parser"
	"github.com/basm-lang/basm/printer"
	"github.com/basm-lang/basm/resolver"
)

// Option configures a toolchain entry point.
type Option func(*options)

type options struct {
	filename string
	types    resolver.TypeResolver
	logger   zerolog.Logger
	sink     errors.Sink
	indent   string
}

func collectOptions(opts ...Option) *options {
	o := &options{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	var opts []parser.Option
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	return opts
}

func (o *options) resolverConfig(source string) *resolver.Config {
	return &resolver.Config{
		Types:  o.types,
		Source: source,
		Sink:   o.sink,
	}
}

func (o *options) compilerConfig(source string, trace *compiler.Trace) *compiler.Config {
	return &compiler.Config{
		Source: source,
		Sink:   o.sink,
		Trace:  trace,
	}
}

func (o *options) disConfig() *dis.Config {
	return &dis.Config{Sink: o.sink}
}

func (o *options) printerOpts() []printer.Option {
	var opts []printer.Option
	if o.indent != "" {
		opts = append(opts, printer.WithIndent(o.indent))
	}
	return opts
}

// WithFilename sets the file name attached to diagnostic locations.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithTypeResolver provides the workspace lookup used to complete omitted
// member descriptors and to validate referenced type names. Without one,
// descriptors must be written explicitly and no type validation runs.
func WithTypeResolver(types resolver.TypeResolver) Option {
	return func(o *options) {
		o.types = types
	}
}

// WithLogger sets the logger that receives a debug-level summary of each
// operation. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSink streams every diagnostic to the given sink as it is produced,
// warnings included. The error returned by an entry point carries only the
// fatal findings; the sink sees the full batch.
func WithSink(sink errors.Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithIndent sets the indentation string used by Format. The default is four
// spaces.
func WithIndent(indent string) Option {
	return func(o *options) {
		o.indent = indent
	}
}
