package pysyntax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeIndentation(t *testing.T) {
	t.Parallel()
	src := "def f():\n    x = 1\n\n    # comment\n    return x\ny = 2\n"

	toks, err := Tokenize([]byte(src))
	require.NoError(t, err)

	expected := []Kind{
		Ident, Ident, Op, Op, Op, Newline,
		Indent, Ident, Op, Number, Newline,
		Ident, Ident, Newline,
		Dedent, Ident, Op, Number, Newline,
		EOF,
	}
	assert.Equal(t, expected, kinds(toks))
	assert.Equal(t, 5, toks[11].Line, "return should be on line 5")
}

func TestTokenizeImplicitJoining(t *testing.T) {
	t.Parallel()
	src := "x = [\n    1,\n    2,\n]\ny = 3 + \\\n    4\n"

	toks, err := Tokenize([]byte(src))
	require.NoError(t, err)

	newlines := 0
	for _, tok := range toks {
		assert.NotEqual(t, Indent, tok.Kind)
		if tok.Kind == Newline {
			newlines++
		}
	}
	assert.Equal(t, 2, newlines)
}

func TestTokenizeStrings(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		text string
	}{
		{"single quoted", `x = 'a # b'`, `'a # b'`},
		{"escaped quote", `x = "a \" b"`, `"a \" b"`},
		{"raw prefix", `x = r"\d+"`, `r"\d+"`},
		{"f-string", `x = f"{y}"`, `f"{y}"`},
		{"bytes upper prefix", `x = Rb'\x00'`, `Rb'\x00'`},
		{"triple quoted", "x = \"\"\"a\nb\"\"\"", "\"\"\"a\nb\"\"\""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			toks, err := Tokenize([]byte(tt.src))
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(toks), 3)
			assert.Equal(t, String, toks[2].Kind)
			assert.Equal(t, tt.text, toks[2].Text)
		})
	}
}

func TestTokenizeOperators(t *testing.T) {
	t.Parallel()
	toks, err := Tokenize([]byte("a **= b // c -> d := e != f ..."))
	require.NoError(t, err)

	var ops []string
	for _, tok := range toks {
		if tok.Kind == Op {
			ops = append(ops, tok.Text)
		}
	}
	assert.Equal(t, []string{"**=", "//", "->", ":=", "!=", "..."}, ops)
}

func TestTokenizeErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"unterminated string", "x = 1\ny = 'abc\n", 2, "unterminated string literal"},
		{"unterminated triple string", "x = '''abc\n\n", 1, "unterminated triple-quoted string literal"},
		{"unclosed bracket", "x = (1,\n2\n", 1, "'(' was never closed"},
		{"unmatched bracket", "x = 1)\n", 1, "unmatched ')'"},
		{"mismatched bracket", "x = [1)\n", 1, "closing parenthesis ')' does not match opening parenthesis '['"},
		{"bad dedent", "if x:\n        y = 1\n    z = 2\n", 3, "unindent does not match any outer indentation level"},
		{"invalid character", "x = $y\n", 1, "invalid character '$' (U+0024)"},
		{"bad continuation", "x = 1 \\ y\n", 1, "unexpected character after line continuation character"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Tokenize([]byte(tt.src))
			require.Error(t, err)

			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.line, se.Line)
			assert.Equal(t, tt.msg, se.Msg)
		})
	}
}

func TestTokenizeEmpty(t *testing.T) {
	t.Parallel()
	for _, src := range []string{"", "\n\n", "# only a comment\n", "   \n\t\n"} {
		toks, err := Tokenize([]byte(src))
		require.NoError(t, err)
		assert.Equal(t, []Kind{EOF}, kinds(toks), "source %q", src)
	}
}
