package lexer

import (
	"testing"

	"github.com/mna/curlylang/lang/token"
	"github.com/stretchr/testify/require"
)

func kinds(src string) []token.Kind {
	l := New(src)
	var ks []token.Kind
	for {
		tok := l.Next()
		ks = append(ks, tok.Kind)
		if tok.Kind == token.EOF {
			return ks
		}
	}
}

func TestNextBasic(t *testing.T) {
	cases := []struct {
		desc string
		src  string
		want []token.Kind
	}{
		{"empty", "", []token.Kind{token.EOF}},
		{"int", "42", []token.Kind{token.INT, token.EOF}},
		{"float", "1.5", []token.Kind{token.FLOAT, token.EOF}},
		{"float exponent", "1.5e10", []token.Kind{token.FLOAT, token.EOF}},
		{"int then dot range", "1..5", []token.Kind{token.INT, token.RANGE, token.INT, token.EOF}},
		{"symbol", "foo_bar", []token.Kind{token.SYMBOL, token.EOF}},
		{"keyword", "with", []token.Kind{token.KEYWORD, token.EOF}},
		{"and or xor", "and or xor", []token.Kind{token.AND, token.OR, token.XOR, token.EOF}},
		{"boolean", "true false", []token.Kind{token.BOOLEAN, token.BOOLEAN, token.EOF}},
		{"nil", "nil", []token.Kind{token.NILVAL, token.EOF}},
		{"string", `"hello"`, []token.Kind{token.STRING, token.EOF}},
		{"assign vs eq", "= ==", []token.Kind{token.ASSIGN, token.EQ, token.EOF}},
		{"compare", "< > <= >= == !=", []token.Kind{token.LT, token.GT, token.LE, token.GE, token.EQ, token.NEQ, token.EOF}},
		{"shift", "<< >>", []token.Kind{token.SHL, token.SHR, token.EOF}},
		{"newline", "x\ny", []token.Kind{token.SYMBOL, token.NEWLINE, token.SYMBOL, token.EOF}},
		{"comment", "x # comment\ny", []token.Kind{token.SYMBOL, token.NEWLINE, token.SYMBOL, token.EOF}},
		{"groups", "([{}])", []token.Kind{
			token.LGROUP, token.LGROUP, token.LGROUP, token.RGROUP, token.RGROUP, token.RGROUP, token.EOF,
		}},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			require.Equal(t, c.want, kinds(c.src))
		})
	}
}

func TestNextIllegalChar(t *testing.T) {
	l := New("$")
	tok := l.Next()
	require.Equal(t, token.NONE, tok.Kind)
}

func TestStringEscapes(t *testing.T) {
	l := New(`"a\nb\t\"\\c\q"`)
	tok := l.Next()
	require.Equal(t, token.STRING, tok.Kind)
	require.Equal(t, "a\nb\t\"\\c\\q", tok.Text)
}

func TestCheckpointRestore(t *testing.T) {
	l := New("a b c")
	first := l.Next()
	require.Equal(t, "a", first.Text)

	cp := l.Checkpoint()
	second := l.Next()
	require.Equal(t, "b", second.Text)

	l.Restore(cp)
	again := l.Next()
	require.Equal(t, "b", again.Text)
	require.Equal(t, second, again)
}

func TestLexIsIdempotent(t *testing.T) {
	const src = "x = 1 + 2 * 3\nwith a = 1, a\n"
	require.Equal(t, kinds(src), kinds(src))
}

func TestPositionTracking(t *testing.T) {
	l := New("ab\ncd")
	tok := l.Next()
	require.Equal(t, 1, tok.Line)
	require.Equal(t, 1, tok.Col)

	l.Next() // newline
	tok = l.Next()
	require.Equal(t, 2, tok.Line)
	require.Equal(t, 1, tok.Col)
}
