// Package token defines the tokens produced when lexing BASM assembly source.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes.
// Used for computing End positions from a start position.
// Note: This assumes the advance does not cross line boundaries.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
		File:      p.File,
	}
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types. BASM is line oriented, so newlines are significant and most
// free-standing words (mnemonics, names, descriptors, modifiers) lex as WORD.
const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"
	NEWLINE Type = "EOL"

	// A bare word: mnemonic, member name, internal type name, descriptor,
	// modifier, or the catch-all "*".
	WORD Type = "WORD"

	// Literals
	INT    Type = "INT"
	LONG   Type = "LONG"
	FLOAT  Type = "FLOAT"
	DOUBLE Type = "DOUBLE"
	STRING Type = "STRING"

	// %name and %name: forms
	LABELREF  Type = "LABELREF"
	LABELDECL Type = "LABELDECL"

	ASSIGN Type = "="

	// Keywords
	CLASS      Type = "CLASS"
	FIELD      Type = "FIELD"
	METHOD     Type = "METHOD"
	END        Type = "END"
	EXTENDS    Type = "EXTENDS"
	IMPLEMENTS Type = "IMPLEMENTS"
	CATCH      Type = "CATCH"
	VAR        Type = "VAR"
	LINE       Type = "LINE"
	DEFAULT    Type = "DEFAULT"
)

// Reserved keywords. Keywords are only meaningful in directive position; the
// parser falls back to the literal text when one appears where a name or
// mnemonic is expected.
var keywords = map[string]Type{
	"class":      CLASS,
	"field":      FIELD,
	"method":     METHOD,
	"end":        END,
	"extends":    EXTENDS,
	"implements": IMPLEMENTS,
	"catch":      CATCH,
	"var":        VAR,
	"line":       LINE,
	"default":    DEFAULT,
}

// LookupWord returns the keyword type for the given word, or WORD if the
// word is not a keyword.
func LookupWord(word string) Type {
	if tok, ok := keywords[word]; ok {
		return tok
	}
	return WORD
}

// IsKeyword returns true if the given type is one of the reserved keywords.
func IsKeyword(t Type) bool {
	switch t {
	case CLASS, FIELD, METHOD, END, EXTENDS, IMPLEMENTS, CATCH, VAR, LINE, DEFAULT:
		return true
	}
	return false
}
