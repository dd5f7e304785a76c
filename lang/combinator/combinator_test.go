package combinator

import (
	"testing"

	"github.com/mna/curlylang/lang/lexer"
	"github.com/mna/curlylang/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteralAndKind(t *testing.T) {
	l := lexer.New("foo")
	res := Run(Literal("foo"), l)
	require.True(t, res.Ok)
	assert.Equal(t, "foo", res.Node.Token.Text)

	l2 := lexer.New("42")
	res2 := Run(Kind(token.INT), l2)
	require.True(t, res2.Ok)
	assert.Equal(t, token.INT, res2.Node.Token.Kind)
}

func TestOrTriesNextBranchOnNonFatalFailure(t *testing.T) {
	l := lexer.New("beta")
	p := Or(Literal("alpha"), Literal("beta"))
	res := Run(p, l)
	require.True(t, res.Ok)
	assert.Equal(t, "beta", res.Node.Token.Text)
}

func TestSeqFailsFatalAfterPartialConsumption(t *testing.T) {
	l := lexer.New("foo 42")
	p := Seq(Literal("foo"), Literal("bar"))
	res := Run(p, l)
	assert.False(t, res.Ok)
	assert.True(t, res.Fatal, "a seq failure after consuming 'foo' must be fatal")
}

func TestZeroMoreAndOneMore(t *testing.T) {
	l := lexer.New("a a a")
	res := Run(ZeroMore(Literal("a")), l)
	require.True(t, res.Ok)
	assert.Len(t, res.Node.Children, 3)

	l2 := lexer.New("b b")
	res2 := Run(OneMore(Literal("a")), l2)
	assert.False(t, res2.Ok)
}

func TestOptional(t *testing.T) {
	l := lexer.New("x")
	res := Run(Optional(Literal("a")), l)
	require.True(t, res.Ok)
	assert.Empty(t, res.Node.Children)
}

func TestNameTagsNode(t *testing.T) {
	l := lexer.New("42")
	res := Run(Name("literal", Kind(token.INT)), l)
	require.True(t, res.Ok)
	assert.Equal(t, "literal", res.Node.Name)
}

func TestIgnoreContributesNothing(t *testing.T) {
	l := lexer.New("foo bar")
	p := Seq(Ignore(Literal("foo")), Kind(token.SYMBOL))
	res := Run(p, l)
	require.True(t, res.Ok)
	require.Len(t, res.Node.Children, 1)
	assert.Equal(t, "bar", res.Node.Children[0].Token.Text)
}

func TestEOF(t *testing.T) {
	l := lexer.New("foo")
	res := Run(EOF(Literal("foo")), l)
	assert.True(t, res.Ok)

	l2 := lexer.New("foo bar")
	res2 := Run(EOF(Literal("foo")), l2)
	assert.False(t, res2.Ok)
}

func TestLazyKnotTying(t *testing.T) {
	paren := Lazy()
	Set(paren, Or(Literal("x"), Seq(Literal("("), paren, Literal(")"))))

	l := lexer.New("( ( x ) )")
	res := Run(paren, l)
	require.True(t, res.Ok)
}

func TestNotConsumesOnSuccess(t *testing.T) {
	l := lexer.New("x")
	res := Run(Not(Literal("y")), l)
	require.True(t, res.Ok)
	assert.Equal(t, "x", res.Node.Token.Text)

	l2 := lexer.New("y")
	res2 := Run(Not(Literal("y")), l2)
	assert.False(t, res2.Ok)
}
