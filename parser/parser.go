// Package parser builds the abstract syntax tree (AST) for one assembly unit.
//
// A parser is created by calling New() with a lexer as input. The parser
// should then be used only once, by calling parser.Parse() to produce the
// AST. On syntax errors, Parse returns a partial AST marked incomplete
// alongside the collected errors, so editors can keep working with the
// best-effort tree; incomplete units are rejected by the compiler.
package parser

import (
	"context"
	goerrors "errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/basm-lang/basm/ast"
	"github.com/basm-lang/basm/errors"
	"github.com/basm-lang/basm/internal/lexer"
	"github.com/basm-lang/basm/op"
	"github.com/basm-lang/basm/token"
)

// Parse the provided input as assembly source for one unit and return the
// AST. This is a shorthand way to create a Lexer and Parser and then call
// Parse on that.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Unit, error) {
	// Extract filename from options before creating the parser, so that
	// lexer errors in the first tokens have proper location context.
	var filename string
	for _, opt := range options {
		var probe Parser
		opt(&probe)
		if probe.filename != "" {
			filename = probe.filename
			break
		}
	}

	l := lexer.New(input)
	if filename != "" {
		l.SetFilename(filename)
	}

	p := New(l, options...)
	return p.Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name used in error locations.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 10

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// ctxErr is set when the context is cancelled mid-parse
	ctxErr error

	// l is our lexer
	l *lexer.Lexer

	// prevToken holds the previous token, which we already processed.
	prevToken token.Token

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	// parsing errors collected during parsing
	errors []ParserError

	// lineErrorCount tracks error count at the start of the current body
	// line, so the loop can detect whether that line failed.
	lineErrorCount int

	// The filename of the input
	filename string
}

// New returns a Parser for the unit provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{l: l}
	for _, opt := range options {
		opt(p)
	}
	// Prime the token pump
	p.nextToken() // makes curToken=<empty>, peekToken=token[0]
	p.nextToken() // makes curToken=token[0], peekToken=token[1]
	return p
}

// Parse the unit that is provided via the lexer. Returns the AST and any
// errors encountered. If there are errors, the AST is marked incomplete and
// may be partial.
func (p *Parser) Parse(ctx context.Context) (*ast.Unit, error) {
	p.ctx = ctx
	// It's possible for errors to already exist because we read tokens from
	// the lexer in the constructor.
	if p.hasErrors() {
		return ast.NewIncompleteUnit(nil), NewErrors(p.errors)
	}

	p.skipNewlines()

	var def ast.Definition
	switch p.curToken.Type {
	case token.CLASS:
		def = p.parseClass()
	case token.FIELD:
		def = p.parseField()
	case token.METHOD:
		def = p.parseMethod()
	case token.EOF:
		p.addError(NewSyntaxError(p.errOpts(p.curToken,
			"expected a class, field or method definition")))
	default:
		p.addError(NewSyntaxError(p.errOpts(p.curToken, fmt.Sprintf(
			"expected a definition header, got %s", tokenDescription(p.curToken)))))
	}

	if p.ctxErr != nil {
		return nil, p.ctxErr
	}

	// The grammar is one definition per unit; anything after it is an error
	// rather than silently dropped input.
	if def != nil && !p.tooManyErrors() {
		p.skipNewlines()
		if !p.curTokenIs(token.EOF) {
			p.addError(NewSyntaxError(p.errOpts(p.curToken,
				"unexpected input after the definition")))
		}
	}

	if p.hasErrors() {
		return ast.NewIncompleteUnit(def), NewErrors(p.errors)
	}
	return ast.NewUnit(def), nil
}

// Errors returns the errors collected so far.
func (p *Parser) Errors() []ParserError {
	return p.errors
}

// advanceToken moves to the next token from the lexer without error
// checking. Used internally by synchronize() during error recovery.
func (p *Parser) advanceToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken, _ = p.l.Next()
}

// nextToken moves to the next token from the lexer, updating all of
// prevToken, curToken, and peekToken.
func (p *Parser) nextToken() error {
	var err error
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken, err = p.l.Next()
	if err == nil {
		return nil
	}
	code := errors.E1001
	switch {
	case goerrors.Is(err, lexer.ErrUnterminatedString):
		code = errors.E1002
	case goerrors.Is(err, lexer.ErrInvalidNumber):
		code = errors.E1004
	}
	p.addError(NewSyntaxError(ErrorOpts{
		Code:          code,
		Cause:         err,
		File:          p.l.Filename(),
		StartPosition: p.peekToken.StartPosition,
		EndPosition:   p.peekToken.EndPosition,
		SourceCode:    p.l.GetLineText(p.peekToken),
	}))
	return err
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the next token has the expected type and otherwise
// records an unexpected-token error.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if !p.peekTokenIs(t) {
		p.peekError(context, t, p.peekToken)
		return false
	}
	p.nextToken()
	return true
}

// peekError raises an error if the next token is not the expected type.
func (p *Parser) peekError(context string, expected token.Type, got token.Token) {
	p.addError(NewParserError(ErrorOpts{
		Code: errors.E1001,
		Message: fmt.Sprintf("unexpected %s while parsing %s (expected %s)",
			tokenDescription(got), context, tokenTypeDescription(expected)),
		File:          p.l.Filename(),
		StartPosition: got.StartPosition,
		EndPosition:   got.EndPosition,
		SourceCode:    p.l.GetLineText(got),
	}))
}

// errOpts builds ErrorOpts located at the given token.
func (p *Parser) errOpts(tok token.Token, message string) ErrorOpts {
	return ErrorOpts{
		Message:       message,
		File:          p.l.Filename(),
		StartPosition: tok.StartPosition,
		EndPosition:   tok.EndPosition,
		SourceCode:    p.l.GetLineText(tok),
	}
}

// addError appends an error to the errors slice.
func (p *Parser) addError(err ParserError) {
	p.errors = append(p.errors, err)
}

// hasErrors returns true if any errors have been recorded.
func (p *Parser) hasErrors() bool {
	return len(p.errors) > 0
}

// tooManyErrors returns true if error limit has been reached.
func (p *Parser) tooManyErrors() bool {
	return len(p.errors) >= MaxErrors
}

// hadNewError returns true if an error was added during the current line.
func (p *Parser) hadNewError() bool {
	return len(p.errors) > p.lineErrorCount
}

// cancelled checks if the parsing context has been cancelled. Returns true
// if cancelled, in which case parsing should stop.
func (p *Parser) cancelled() bool {
	if p.ctx == nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		p.ctxErr = p.ctx.Err()
		return true
	default:
		return false
	}
}

// synchronize skips tokens until the end of the current line. This is used
// for error recovery to continue parsing after an error.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.NEWLINE) && !p.curTokenIs(token.EOF) {
		prevPos := p.curToken.StartPosition
		p.advanceToken()
		// Safety: if we didn't advance (lexer stuck), bail out
		if p.curToken.StartPosition == prevPos {
			return
		}
	}
}

// skipNewlines advances past blank lines.
func (p *Parser) skipNewlines() {
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
}

// finishLine expects the current line to be over: the next token must be a
// newline or the end of input.
func (p *Parser) finishLine(context string) bool {
	if p.peekTokenIs(token.NEWLINE) || p.peekTokenIs(token.EOF) {
		p.nextToken()
		return true
	}
	p.peekError(context, token.NEWLINE, p.peekToken)
	return false
}

// parseModifiers consumes leading modifier words. The first word that is
// not a modifier is left in place as the declared name.
func (p *Parser) parseModifiers() []string {
	var mods []string
	for p.peekTokenIs(token.WORD) && ast.IsModifier(p.peekToken.Literal) {
		p.nextToken()
		mods = append(mods, p.curToken.Literal)
	}
	return mods
}

func (p *Parser) parseClass() ast.Definition {
	headerTok := p.curToken
	mods := p.parseModifiers()
	if !p.expectPeek("class declaration", token.WORD) {
		return nil
	}
	name := p.curToken.Literal

	var super string
	if p.peekTokenIs(token.EXTENDS) {
		p.nextToken()
		if !p.expectPeek("extends clause", token.WORD) {
			return nil
		}
		super = p.curToken.Literal
	}

	var interfaces []string
	if p.peekTokenIs(token.IMPLEMENTS) {
		p.nextToken()
		if !p.expectPeek("implements clause", token.WORD) {
			return nil
		}
		interfaces = append(interfaces, p.curToken.Literal)
		for p.peekTokenIs(token.WORD) {
			p.nextToken()
			interfaces = append(interfaces, p.curToken.Literal)
		}
	}

	if !p.finishLine("class declaration") {
		return nil
	}
	p.acceptOptionalEnd(token.CLASS)
	return ast.NewClassDef(headerTok, mods, name, super, interfaces)
}

func (p *Parser) parseField() ast.Definition {
	headerTok := p.curToken
	mods := p.parseModifiers()
	if !p.expectPeek("field declaration", token.WORD) {
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek("field descriptor", token.WORD) {
		return nil
	}
	desc := p.curToken.Literal

	var value *ast.Literal
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		value = p.parseConstOperand("field value")
		if value == nil {
			return nil
		}
		if value.Kind() == ast.TypeLit {
			p.addError(NewParserError(p.errOptsCode(errors.E1103, p.curToken,
				"field values must be numeric or string constants")))
			return nil
		}
	}

	if !p.finishLine("field declaration") {
		return nil
	}
	p.acceptOptionalEnd(token.FIELD)
	return ast.NewFieldDef(headerTok, mods, name, desc, value)
}

func (p *Parser) parseMethod() ast.Definition {
	headerTok := p.curToken
	mods := p.parseModifiers()
	if !p.expectPeek("method declaration", token.WORD) {
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek("method descriptor", token.WORD) {
		return nil
	}
	desc := p.curToken.Literal
	if !p.finishLine("method declaration") {
		return nil
	}

	body := ast.NewBody()
	for {
		if p.cancelled() {
			return nil
		}
		if p.tooManyErrors() {
			break
		}
		p.skipNewlines()
		p.lineErrorCount = len(p.errors)

		switch p.curToken.Type {
		case token.EOF:
			p.addError(NewParserError(p.errOptsCode(errors.E1005, p.curToken,
				fmt.Sprintf("method %s is missing its closing end", name))))
			return ast.NewMethodDef(headerTok, mods, name, desc, body)
		case token.END:
			p.acceptEndKind(token.METHOD)
			p.finishLine("end")
			return ast.NewMethodDef(headerTok, mods, name, desc, body)
		case token.LABELDECL:
			body.Append(ast.NewLabelDecl(p.curToken, p.curToken.Literal))
			p.finishLine("label declaration")
		case token.CATCH:
			if h := p.parseCatch(); h != nil {
				body.AddHandler(h)
			}
		case token.VAR:
			if v := p.parseVar(); v != nil {
				body.AddLocal(v)
			}
		case token.LINE:
			if d := p.parseLineDirective(); d != nil {
				body.Append(d)
			}
		case token.WORD:
			if inst := p.parseInstruction(); inst != nil {
				body.Append(inst)
			}
		default:
			p.addError(NewSyntaxError(p.errOpts(p.curToken, fmt.Sprintf(
				"expected an instruction or directive, got %s",
				tokenDescription(p.curToken)))))
		}

		if p.hadNewError() {
			p.synchronize()
		}
		p.nextToken()
	}
	return ast.NewMethodDef(headerTok, mods, name, desc, body)
}

// acceptOptionalEnd consumes an optional terminator line after a single-line
// definition: "end" or "end class"/"end field".
func (p *Parser) acceptOptionalEnd(kind token.Type) {
	p.skipNewlines()
	if !p.curTokenIs(token.END) {
		return
	}
	p.acceptEndKind(kind)
	p.finishLine("end")
}

// acceptEndKind consumes the optional kind word after "end" and checks that
// it matches the definition being closed.
func (p *Parser) acceptEndKind(kind token.Type) {
	switch p.peekToken.Type {
	case token.CLASS, token.FIELD, token.METHOD:
		p.nextToken()
		if p.curToken.Type != kind {
			p.addError(NewSyntaxError(p.errOpts(p.curToken, fmt.Sprintf(
				"mismatched end: expected end %s", strings.ToLower(string(kind))))))
		}
	}
}

func (p *Parser) parseCatch() *ast.CatchDirective {
	tok := p.curToken
	if !p.expectPeek("catch directive", token.WORD) {
		return nil
	}
	typ := p.curToken.Literal
	from := p.expectLabelOperand("catch", "a range start label")
	if from == nil {
		return nil
	}
	to := p.expectLabelOperand("catch", "a range end label")
	if to == nil {
		return nil
	}
	handler := p.expectLabelOperand("catch", "a handler label")
	if handler == nil {
		return nil
	}
	if !p.finishLine("catch directive") {
		return nil
	}
	return ast.NewCatchDirective(tok, typ, from, to, handler)
}

func (p *Parser) parseVar() *ast.VarDirective {
	tok := p.curToken
	slot, ok := p.expectIntOperand("var", "a slot number", 0, math.MaxUint16)
	if !ok {
		return nil
	}
	if !p.expectPeek("var directive", token.WORD) {
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek("var directive", token.WORD) {
		return nil
	}
	desc := p.curToken.Literal
	from := p.expectLabelOperand("var", "a range start label")
	if from == nil {
		return nil
	}
	to := p.expectLabelOperand("var", "a range end label")
	if to == nil {
		return nil
	}
	if !p.finishLine("var directive") {
		return nil
	}
	return ast.NewVarDirective(tok, int(slot), name, desc, from, to)
}

func (p *Parser) parseLineDirective() *ast.LineDirective {
	tok := p.curToken
	n, ok := p.expectIntOperand("line", "a line number", 0, math.MaxUint16)
	if !ok {
		return nil
	}
	if !p.finishLine("line directive") {
		return nil
	}
	return ast.NewLineDirective(tok, int(n))
}

func (p *Parser) parseInstruction() ast.Instruction {
	mnTok := p.curToken
	mnemonic := p.curToken.Literal

	code, ok := op.FromMnemonic(mnemonic)
	if !ok {
		opts := p.errOptsCode(errors.E1101, mnTok,
			fmt.Sprintf("unknown mnemonic %q", mnemonic))
		if suggestions := errors.SuggestSimilar(mnemonic, op.Mnemonics()); len(suggestions) > 0 {
			opts.Hint = errors.FormatSuggestions(suggestions)
		}
		p.addError(NewParserError(opts))
		return nil
	}

	var inst ast.Instruction
	switch op.GetInfo(code).Kind {
	case op.KindNone:
		inst = ast.NewSimpleInst(mnTok, code)
	case op.KindConst:
		lit := p.parseConstOperand(mnemonic)
		if lit == nil {
			return nil
		}
		inst = ast.NewConstInst(mnTok, lit)
	case op.KindSlot:
		local, ok := p.parseLocalOperand(mnemonic)
		if !ok {
			return nil
		}
		inst = ast.NewVarInst(mnTok, code, local)
	case op.KindIinc:
		local, ok := p.parseLocalOperand(mnemonic)
		if !ok {
			return nil
		}
		delta, ok := p.expectIntOperand(mnemonic, "an increment", math.MinInt16, math.MaxInt16)
		if !ok {
			return nil
		}
		inst = ast.NewIincInst(mnTok, local, int(delta))
	case op.KindBranch:
		target := p.expectLabelOperand(mnemonic, "a target label")
		if target == nil {
			return nil
		}
		inst = ast.NewBranchInst(mnTok, code, target)
	case op.KindType:
		typ := p.expectTypeOperand(mnemonic)
		if typ == nil {
			return nil
		}
		inst = ast.NewTypeInst(mnTok, code, typ)
	case op.KindField:
		ref := p.parseMemberRef(mnemonic)
		if ref == nil {
			return nil
		}
		inst = ast.NewFieldInst(mnTok, code, ref)
	case op.KindMethod, op.KindIfaceMethod:
		ref := p.parseMemberRef(mnemonic)
		if ref == nil {
			return nil
		}
		inst = ast.NewMethodInst(mnTok, code, ref)
	case op.KindNewarray:
		elem, ok := p.parseArrayTypeOperand(mnemonic)
		if !ok {
			return nil
		}
		inst = ast.NewNewArrayInst(mnTok, elem)
	case op.KindMultiarray:
		typ := p.expectTypeOperand(mnemonic)
		if typ == nil {
			return nil
		}
		dims, ok := p.expectIntOperand(mnemonic, "a dimension count", 1, 255)
		if !ok {
			return nil
		}
		inst = ast.NewMultiArrayInst(mnTok, typ, int(dims))
	case op.KindTableSwitch:
		inst = p.parseTableSwitch(mnTok)
	case op.KindLookupSwitch:
		inst = p.parseLookupSwitch(mnTok)
	default:
		p.addError(NewParserError(p.errOptsCode(errors.E1103, mnTok,
			fmt.Sprintf("%s cannot be written directly", mnemonic))))
		return nil
	}
	if inst == nil {
		return nil
	}

	if !p.peekTokenIs(token.NEWLINE) && !p.peekTokenIs(token.EOF) {
		p.addError(NewParserError(p.errOptsCode(errors.E1102, p.peekToken,
			fmt.Sprintf("too many operands for %s", mnemonic))))
		return nil
	}
	p.nextToken()
	return inst
}

func (p *Parser) parseTableSwitch(mnTok token.Token) ast.Instruction {
	low, ok := p.expectIntOperand("tableswitch", "a low bound", math.MinInt32, math.MaxInt32)
	if !ok {
		return nil
	}
	high, ok := p.expectIntOperand("tableswitch", "a high bound", math.MinInt32, math.MaxInt32)
	if !ok {
		return nil
	}
	var targets []*ast.LabelRef
	for p.peekTokenIs(token.LABELREF) {
		p.nextToken()
		targets = append(targets, ast.NewLabelRef(p.curToken, p.curToken.Literal))
	}
	if !p.expectPeek("tableswitch", token.DEFAULT) {
		return nil
	}
	dflt := p.expectLabelOperand("tableswitch", "a default label")
	if dflt == nil {
		return nil
	}
	if high < low {
		p.addError(NewParserError(p.errOptsCode(errors.E1103, mnTok,
			fmt.Sprintf("tableswitch bounds are reversed (%d..%d)", low, high))))
		return nil
	}
	if want := high - low + 1; want != int64(len(targets)) {
		p.addError(NewParserError(p.errOptsCode(errors.E1102, mnTok, fmt.Sprintf(
			"tableswitch %d..%d needs %d targets, found %d",
			low, high, want, len(targets)))))
		return nil
	}
	return ast.NewTableSwitchInst(mnTok, int32(low), int32(high), targets, dflt)
}

func (p *Parser) parseLookupSwitch(mnTok token.Token) ast.Instruction {
	var pairs []ast.SwitchPair
	for p.peekTokenIs(token.INT) {
		match, ok := p.expectIntOperand("lookupswitch", "a match value", math.MinInt32, math.MaxInt32)
		if !ok {
			return nil
		}
		if !p.expectPeek("lookupswitch", token.ASSIGN) {
			return nil
		}
		target := p.expectLabelOperand("lookupswitch", "a target label")
		if target == nil {
			return nil
		}
		pairs = append(pairs, ast.SwitchPair{Match: int32(match), Target: target})
	}
	if !p.expectPeek("lookupswitch", token.DEFAULT) {
		return nil
	}
	dflt := p.expectLabelOperand("lookupswitch", "a default label")
	if dflt == nil {
		return nil
	}
	return ast.NewLookupSwitchInst(mnTok, pairs, dflt)
}

// missingOperand records an arity error at the end of the current line.
func (p *Parser) missingOperand(mnemonic, what string) {
	p.addError(NewParserError(p.errOptsCode(errors.E1102, p.curToken,
		fmt.Sprintf("%s is missing %s", mnemonic, what))))
}

// invalidOperand records a malformed-operand error at the given token.
func (p *Parser) invalidOperand(mnemonic, what string, got token.Token) {
	p.addError(NewParserError(p.errOptsCode(errors.E1103, got,
		fmt.Sprintf("%s expects %s, got %s", mnemonic, what, tokenDescription(got)))))
}

// nextOperand advances to the next operand token, distinguishing a missing
// operand (line ends here) from a malformed one.
func (p *Parser) nextOperand(mnemonic, what string) bool {
	if p.peekTokenIs(token.NEWLINE) || p.peekTokenIs(token.EOF) {
		p.missingOperand(mnemonic, what)
		return false
	}
	p.nextToken()
	return true
}

// expectLabelOperand consumes a %label operand.
func (p *Parser) expectLabelOperand(mnemonic, what string) *ast.LabelRef {
	if !p.nextOperand(mnemonic, what) {
		return nil
	}
	if !p.curTokenIs(token.LABELREF) {
		p.invalidOperand(mnemonic, what, p.curToken)
		return nil
	}
	return ast.NewLabelRef(p.curToken, p.curToken.Literal)
}

// expectIntOperand consumes an integer operand and range-checks it.
func (p *Parser) expectIntOperand(mnemonic, what string, min, max int64) (int64, bool) {
	if !p.nextOperand(mnemonic, what) {
		return 0, false
	}
	if !p.curTokenIs(token.INT) {
		p.invalidOperand(mnemonic, what, p.curToken)
		return 0, false
	}
	v, err := strconv.ParseInt(p.curToken.Literal, 0, 64)
	if err != nil || v < min || v > max {
		opts := p.errOptsCode(errors.E1004, p.curToken, fmt.Sprintf(
			"%s out of range for %s (%d..%d)", p.curToken.Literal, mnemonic, min, max))
		if err != nil {
			opts.Message = fmt.Sprintf("invalid number %q", p.curToken.Literal)
			opts.Cause = err
		}
		p.addError(NewParserError(opts))
		return 0, false
	}
	return v, true
}

// expectTypeOperand consumes a type operand: an internal name or an array
// descriptor.
func (p *Parser) expectTypeOperand(mnemonic string) *ast.TypeRef {
	if !p.nextOperand(mnemonic, "a type") {
		return nil
	}
	if !p.curTokenIs(token.WORD) {
		p.invalidOperand(mnemonic, "a type", p.curToken)
		return nil
	}
	return ast.NewTypeRef(p.curToken, p.curToken.Literal)
}

// parseLocalOperand consumes a local-variable operand: a slot number or a
// variable name.
func (p *Parser) parseLocalOperand(mnemonic string) (ast.Local, bool) {
	if !p.nextOperand(mnemonic, "a local variable") {
		return ast.Local{}, false
	}
	switch p.curToken.Type {
	case token.INT:
		v, err := strconv.ParseInt(p.curToken.Literal, 0, 64)
		if err != nil || v < 0 || v > math.MaxUint16 {
			p.addError(NewParserError(p.errOptsCode(errors.E1004, p.curToken,
				fmt.Sprintf("local slot %s out of range (0..%d)",
					p.curToken.Literal, math.MaxUint16))))
			return ast.Local{}, false
		}
		return ast.NewSlotLocal(p.curToken, int(v)), true
	case token.WORD:
		return ast.NewNamedLocal(p.curToken, p.curToken.Literal), true
	default:
		p.invalidOperand(mnemonic, "a local variable", p.curToken)
		return ast.Local{}, false
	}
}

// parseConstOperand consumes a constant operand: a numeric, string, or type
// literal.
func (p *Parser) parseConstOperand(mnemonic string) *ast.Literal {
	if !p.nextOperand(mnemonic, "a constant") {
		return nil
	}
	tok := p.curToken
	switch tok.Type {
	case token.INT:
		v, err := strconv.ParseInt(tok.Literal, 0, 64)
		if err != nil || v < math.MinInt32 || v > math.MaxInt32 {
			p.addError(NewParserError(p.errOptsCode(errors.E1004, tok,
				fmt.Sprintf("int literal %s out of range", tok.Literal))))
			return nil
		}
		return ast.NewIntLit(tok, v)
	case token.LONG:
		v, err := strconv.ParseInt(tok.Literal, 0, 64)
		if err != nil {
			p.addError(NewParserError(ErrorOpts{
				Code:          errors.E1004,
				Message:       fmt.Sprintf("long literal %sL out of range", tok.Literal),
				Cause:         err,
				File:          p.l.Filename(),
				StartPosition: tok.StartPosition,
				EndPosition:   tok.EndPosition,
				SourceCode:    p.l.GetLineText(tok),
			}))
			return nil
		}
		return ast.NewLongLit(tok, v)
	case token.FLOAT:
		v, err := strconv.ParseFloat(tok.Literal, 32)
		if err != nil {
			p.addError(NewParserError(p.errOptsCode(errors.E1004, tok,
				fmt.Sprintf("invalid float literal %sF", tok.Literal))))
			return nil
		}
		return ast.NewFloatLit(tok, float32(v))
	case token.DOUBLE:
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.addError(NewParserError(p.errOptsCode(errors.E1004, tok,
				fmt.Sprintf("invalid double literal %s", tok.Literal))))
			return nil
		}
		return ast.NewDoubleLit(tok, v)
	case token.STRING:
		return ast.NewStringLit(tok, tok.Literal)
	case token.WORD:
		return ast.NewTypeLit(tok, tok.Literal)
	default:
		p.invalidOperand(mnemonic, "a constant", tok)
		return nil
	}
}

// parseMemberRef consumes an owner/Class.member reference with an optional
// trailing descriptor.
func (p *Parser) parseMemberRef(mnemonic string) *ast.MemberRef {
	if !p.nextOperand(mnemonic, "a member reference") {
		return nil
	}
	if !p.curTokenIs(token.WORD) {
		p.invalidOperand(mnemonic, "a member reference", p.curToken)
		return nil
	}
	tok := p.curToken
	sep := strings.LastIndexByte(tok.Literal, '.')
	if sep <= 0 || sep == len(tok.Literal)-1 {
		p.addError(NewParserError(p.errOptsCode(errors.E1103, tok, fmt.Sprintf(
			"%s expects owner/Class.member, got %q", mnemonic, tok.Literal))))
		return nil
	}
	owner := tok.Literal[:sep]
	name := tok.Literal[sep+1:]

	var desc string
	if p.peekTokenIs(token.WORD) {
		p.nextToken()
		desc = p.curToken.Literal
	}
	return ast.NewMemberRef(tok, owner, name, desc)
}

// parseArrayTypeOperand consumes a primitive element type name for newarray.
func (p *Parser) parseArrayTypeOperand(mnemonic string) (op.ArrayType, bool) {
	if !p.nextOperand(mnemonic, "an element type") {
		return 0, false
	}
	if !p.curTokenIs(token.WORD) {
		p.invalidOperand(mnemonic, "an element type", p.curToken)
		return 0, false
	}
	elem, ok := op.ArrayTypeFromName(p.curToken.Literal)
	if !ok {
		p.addError(NewParserError(p.errOptsCode(errors.E1103, p.curToken, fmt.Sprintf(
			"%q is not a primitive element type", p.curToken.Literal))))
		return 0, false
	}
	return elem, true
}

// errOptsCode builds ErrorOpts with an explicit code.
func (p *Parser) errOptsCode(code errors.ErrorCode, tok token.Token, message string) ErrorOpts {
	opts := p.errOpts(tok, message)
	opts.Code = code
	return opts
}
