// Package lexer tokenizes BASM assembly source.
//
// The grammar is line oriented: newlines terminate directives and
// instructions, so NEWLINE tokens are emitted rather than skipped.
// Comments run from '#' to the end of the line and are dropped.
package lexer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/basm-lang/basm/token"
)

// Sentinel lexing errors; the parser matches them to choose diagnostic codes.
var (
	ErrUnterminatedString = errors.New("unterminated string literal")
	ErrInvalidNumber      = errors.New("invalid number literal")
)

// Lexer turns an input string into a stream of tokens.
type Lexer struct {
	// input is the full source text being lexed
	input string

	// position is the byte offset of the current character
	position int

	// readPosition is the byte offset of the next character to read
	readPosition int

	// ch is the current character under examination
	ch byte

	// line is the current 0-indexed line number
	line int

	// lineStart is the byte offset of the start of the current line
	lineStart int

	// file is an optional filename for position reporting
	file string
}

// New returns a Lexer for the given input string.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// SetFilename sets the filename used in token positions.
func (l *Lexer) SetFilename(file string) {
	l.file = file
}

// Filename returns the filename used in token positions.
func (l *Lexer) Filename() string {
	return l.file
}

// GetLineText returns the full text of the line the given token starts on.
// Used to provide source context in diagnostics.
func (l *Lexer) GetLineText(tok token.Token) string {
	start := tok.StartPosition.LineStart
	if start < 0 || start > len(l.input) {
		return ""
	}
	end := strings.IndexByte(l.input[start:], '\n')
	if end < 0 {
		return l.input[start:]
	}
	return l.input[start : start+end]
}

// Next returns the next token from the input. Once EOF is reached, Next
// keeps returning EOF tokens. Lexing errors (illegal characters,
// unterminated strings) are returned alongside an ILLEGAL token.
func (l *Lexer) Next() (token.Token, error) {
	l.skipSpace()

	// Comments run to end of line; the newline itself is still reported.
	for l.ch == '#' {
		l.skipComment()
		l.skipSpace()
	}

	pos := l.currentPosition()

	switch l.ch {
	case 0:
		return l.emit(pos, token.EOF, ""), nil
	case '\n':
		tok := l.emit(pos, token.NEWLINE, "\n")
		l.readChar()
		l.line++
		l.lineStart = l.position
		return tok, nil
	case '=':
		l.readChar()
		return l.emit(pos, token.ASSIGN, "="), nil
	case '"':
		lit, terminated := l.readString()
		if !terminated {
			tok := l.emit(pos, token.ILLEGAL, lit)
			return tok, ErrUnterminatedString
		}
		return l.emit(pos, token.STRING, lit), nil
	case '%':
		name := l.readLabelName()
		if name == "" {
			tok := l.emit(pos, token.ILLEGAL, "%")
			return tok, fmt.Errorf("empty label name")
		}
		if l.ch == ':' {
			l.readChar()
			return l.emit(pos, token.LABELDECL, name), nil
		}
		return l.emit(pos, token.LABELREF, name), nil
	}

	if isDigit(l.ch) || (l.ch == '-' && isDigit(l.peekChar())) {
		return l.readNumber(pos)
	}
	if isWordChar(l.ch) {
		word := l.readWord()
		return l.emit(pos, token.LookupWord(word), word), nil
	}

	ch := l.ch
	l.readChar()
	tok := l.emit(pos, token.ILLEGAL, string(ch))
	return tok, fmt.Errorf("unexpected character %q", string(ch))
}

// emit builds a token spanning from start to the current position.
func (l *Lexer) emit(start token.Position, typ token.Type, literal string) token.Token {
	end := start
	if n := len(literal); n > 0 {
		end = start.Advance(n - 1)
	}
	return token.Token{
		Type:          typ,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   end,
	}
}

func (l *Lexer) currentPosition() token.Position {
	return token.Position{
		Char:      l.position,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.position - l.lineStart,
		File:      l.file,
	}
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// skipSpace consumes spaces, tabs and carriage returns, but not newlines.
func (l *Lexer) skipSpace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readString reads a double-quoted string with Go-style escapes. Returns the
// decoded value and whether the closing quote was found before EOL/EOF.
func (l *Lexer) readString() (string, bool) {
	var sb strings.Builder
	l.readChar() // consume opening quote
	for {
		switch l.ch {
		case '"':
			l.readChar()
			return sb.String(), true
		case 0, '\n':
			return sb.String(), false
		case '\\':
			l.readChar()
			switch l.ch {
			case 0, '\n':
				return sb.String(), false
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'a':
				sb.WriteByte('\a')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case 'v':
				sb.WriteByte('\v')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case '0':
				sb.WriteByte(0)
			case 'x':
				if v, ok := l.peekHex(2); ok {
					sb.WriteByte(byte(v))
					l.skipChars(2)
				} else {
					sb.WriteString(`\x`)
				}
			case 'u':
				if v, ok := l.peekHex(4); ok {
					sb.WriteRune(rune(v))
					l.skipChars(4)
				} else {
					sb.WriteString(`\u`)
				}
			case 'U':
				if v, ok := l.peekHex(8); ok && v <= utf8.MaxRune {
					sb.WriteRune(rune(v))
					l.skipChars(8)
				} else {
					sb.WriteString(`\U`)
				}
			default:
				// Unknown escape: keep it verbatim so nothing is lost.
				sb.WriteByte('\\')
				sb.WriteByte(l.ch)
			}
			l.readChar()
		default:
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// peekHex reads n hex digits starting at the next character without
// consuming them. Returns false if fewer than n valid digits follow.
func (l *Lexer) peekHex(n int) (uint32, bool) {
	if l.readPosition+n > len(l.input) {
		return 0, false
	}
	var v uint32
	for i := 0; i < n; i++ {
		c := l.input[l.readPosition+i]
		var d uint32
		switch {
		case c >= '0' && c <= '9':
			d = uint32(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint32(c-'A') + 10
		default:
			return 0, false
		}
		v = v<<4 | d
	}
	return v, true
}

func (l *Lexer) skipChars(n int) {
	for i := 0; i < n; i++ {
		l.readChar()
	}
}

// readLabelName reads the identifier after a '%'.
func (l *Lexer) readLabelName() string {
	l.readChar() // consume '%'
	start := l.position
	for isLabelChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readWord reads a run of word characters: mnemonics, names, internal type
// names and descriptors all lex as a single word.
func (l *Lexer) readWord() string {
	start := l.position
	for isWordChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber reads an integer or floating point literal, classifying it by
// suffix: 12 (INT), 12L (LONG), 1.5F (FLOAT), 1.5 (DOUBLE). Hex integers
// (0x1F) are accepted for INT and LONG.
func (l *Lexer) readNumber(pos token.Position) (token.Token, error) {
	start := l.position
	if l.ch == '-' {
		l.readChar()
	}
	isHex := false
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		isHex = true
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
	} else {
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	isFloat := false
	if !isHex && l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
		if l.ch == 'e' || l.ch == 'E' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	lit := l.input[start:l.position]

	// Type suffixes
	switch l.ch {
	case 'L', 'l':
		l.readChar()
		if isFloat {
			tok := l.emit(pos, token.ILLEGAL, lit+"L")
			return tok, fmt.Errorf("%w: %q", ErrInvalidNumber, lit+"L")
		}
		return l.emit(pos, token.LONG, lit), nil
	case 'F', 'f':
		l.readChar()
		return l.emit(pos, token.FLOAT, lit), nil
	case 'D', 'd':
		l.readChar()
		return l.emit(pos, token.DOUBLE, lit), nil
	}
	if isFloat {
		return l.emit(pos, token.DOUBLE, lit), nil
	}
	return l.emit(pos, token.INT, lit), nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isLabelChar(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

// isWordChar reports whether ch can appear in a bare word. Words cover JVM
// internal names ("java/lang/String"), descriptors ("([Ljava/lang/String;)V"),
// member references ("java/lang/Object.toString") and the "*" wildcard.
func isWordChar(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', isDigit(ch):
		return true
	}
	switch ch {
	case '_', '$', '/', '.', ';', '[', '(', ')', '<', '>', '*', '-':
		return true
	}
	return false
}
