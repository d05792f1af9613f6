package lexer

import (
	"testing"

	"github.com/basm-lang/basm/token"
	"github.com/stretchr/testify/require"
)

func TestMethodHeader(t *testing.T) {
	input := "method public static main ([Ljava/lang/String;)V\n"
	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.METHOD, "method"},
		{token.WORD, "public"},
		{token.WORD, "static"},
		{token.WORD, "main"},
		{token.WORD, "([Ljava/lang/String;)V"},
		{token.NEWLINE, "\n"},
		{token.EOF, ""},
	}
	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		require.Nil(t, err)
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong, expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - Literal wrong, expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestLabelsAndInstructions(t *testing.T) {
	input := "%start:\n  ldc 1\n  goto %start\nend"
	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.LABELDECL, "start"},
		{token.NEWLINE, "\n"},
		{token.WORD, "ldc"},
		{token.INT, "1"},
		{token.NEWLINE, "\n"},
		{token.WORD, "goto"},
		{token.LABELREF, "start"},
		{token.NEWLINE, "\n"},
		{token.END, "end"},
		{token.EOF, ""},
	}
	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		require.Nil(t, err)
		require.Equal(t, tt.expectedType, tok.Type, "tests[%d]", i)
		require.Equal(t, tt.expectedLiteral, tok.Literal, "tests[%d]", i)
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input           string
		expectedType    token.Type
		expectedLiteral string
	}{
		{"12", token.INT, "12"},
		{"-3", token.INT, "-3"},
		{"0x1F", token.INT, "0x1F"},
		{"12L", token.LONG, "12"},
		{"-7L", token.LONG, "-7"},
		{"1.5F", token.FLOAT, "1.5"},
		{"2F", token.FLOAT, "2"},
		{"1.5", token.DOUBLE, "1.5"},
		{"3.0D", token.DOUBLE, "3.0"},
		{"1.5e3", token.DOUBLE, "1.5e3"},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok, err := l.Next()
		require.Nil(t, err, tt.input)
		require.Equal(t, tt.expectedType, tok.Type, tt.input)
		require.Equal(t, tt.expectedLiteral, tok.Literal, tt.input)
	}
}

func TestStringLiteral(t *testing.T) {
	l := New(`ldc "a\tb\n"`)
	tok, err := l.Next()
	require.Nil(t, err)
	require.Equal(t, token.WORD, tok.Type)
	tok, err = l.Next()
	require.Nil(t, err)
	require.Equal(t, token.STRING, tok.Type)
	require.Equal(t, "a\tb\n", tok.Literal)
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"\a\b\f\v\r\0"`, "\a\b\f\v\r\x00"},
		{`"\x01\xff"`, "\x01\xff"},
		{`"é"`, "é"},
		{`"\U0001f600"`, "\U0001f600"},
		{`"\q"`, `\q`},
		{`"\xZZ"`, `\xZZ`},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok, err := l.Next()
		require.Nil(t, err, tt.input)
		require.Equal(t, token.STRING, tok.Type, tt.input)
		require.Equal(t, tt.want, tok.Literal, tt.input)
	}
}

func TestUnterminatedString(t *testing.T) {
	for _, input := range []string{`ldc "oops`, "ldc \"oops\\\n"} {
		l := New(input)
		_, err := l.Next()
		require.Nil(t, err)
		tok, err := l.Next()
		require.NotNil(t, err)
		require.Equal(t, token.ILLEGAL, tok.Type)
	}
}

func TestComments(t *testing.T) {
	input := "# full line comment\nldc 1 # trailing\n"
	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.NEWLINE, "\n"},
		{token.WORD, "ldc"},
		{token.INT, "1"},
		{token.NEWLINE, "\n"},
		{token.EOF, ""},
	}
	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		require.Nil(t, err)
		require.Equal(t, tt.expectedType, tok.Type, "tests[%d]", i)
	}
}

func TestMemberReferences(t *testing.T) {
	input := "invokevirtual java/lang/Object.toString ()Ljava/lang/String;"
	l := New(input)
	tok, err := l.Next()
	require.Nil(t, err)
	require.Equal(t, "invokevirtual", tok.Literal)
	tok, err = l.Next()
	require.Nil(t, err)
	require.Equal(t, "java/lang/Object.toString", tok.Literal)
	tok, err = l.Next()
	require.Nil(t, err)
	require.Equal(t, "()Ljava/lang/String;", tok.Literal)
}

func TestSwitchPairs(t *testing.T) {
	input := "lookupswitch 10=%a -5=%b default %d"
	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.WORD, "lookupswitch"},
		{token.INT, "10"},
		{token.ASSIGN, "="},
		{token.LABELREF, "a"},
		{token.INT, "-5"},
		{token.ASSIGN, "="},
		{token.LABELREF, "b"},
		{token.DEFAULT, "default"},
		{token.LABELREF, "d"},
		{token.EOF, ""},
	}
	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		require.Nil(t, err)
		require.Equal(t, tt.expectedType, tok.Type, "tests[%d]", i)
		require.Equal(t, tt.expectedLiteral, tok.Literal, "tests[%d]", i)
	}
}

func TestPositions(t *testing.T) {
	l := New("ldc 1\ngoto %x\n")
	l.SetFilename("t.basm")

	tok, err := l.Next()
	require.Nil(t, err)
	require.Equal(t, 0, tok.StartPosition.Line)
	require.Equal(t, 0, tok.StartPosition.Column)
	require.Equal(t, "t.basm", tok.StartPosition.File)

	tok, err = l.Next() // 1
	require.Nil(t, err)
	require.Equal(t, 4, tok.StartPosition.Column)

	tok, err = l.Next() // newline
	require.Nil(t, err)
	require.Equal(t, token.NEWLINE, tok.Type)

	tok, err = l.Next() // goto
	require.Nil(t, err)
	require.Equal(t, 1, tok.StartPosition.Line)
	require.Equal(t, 0, tok.StartPosition.Column)
	require.Equal(t, 2, tok.StartPosition.LineNumber())
}

func TestGetLineText(t *testing.T) {
	input := "ldc 1\ngoto %loop\n"
	l := New(input)
	var tokens []token.Token
	for {
		tok, err := l.Next()
		require.Nil(t, err)
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	require.Equal(t, "ldc 1", l.GetLineText(tokens[0]))
	require.Equal(t, "goto %loop", l.GetLineText(tokens[3]))
}

func TestEmptyInput(t *testing.T) {
	l := New("")
	tok, err := l.Next()
	require.Nil(t, err)
	require.Equal(t, token.EOF, tok.Type)
	// EOF repeats
	tok, err = l.Next()
	require.Nil(t, err)
	require.Equal(t, token.EOF, tok.Type)
}

func TestSpecialMethodNames(t *testing.T) {
	l := New("method <init> ()V")
	tok, err := l.Next()
	require.Nil(t, err)
	require.Equal(t, token.METHOD, tok.Type)
	tok, err = l.Next()
	require.Nil(t, err)
	require.Equal(t, "<init>", tok.Literal)
}
