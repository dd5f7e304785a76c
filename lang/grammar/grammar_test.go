package grammar

import (
	"testing"

	c "github.com/mna/curlylang/lang/combinator"
	"github.com/mna/curlylang/lang/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, src string) c.Result {
	t.Helper()
	g := New()
	l := lexer.New(src)
	return c.Run(g.Root, l)
}

func TestSimpleAssignStatement(t *testing.T) {
	res := runRoot(t, "x = 1\n")
	require.True(t, res.Ok, res.Msg)
}

func TestTypedAssignStatement(t *testing.T) {
	res := runRoot(t, "x: Int = 1\n")
	require.True(t, res.Ok, res.Msg)
}

func TestFuncAssignStatement(t *testing.T) {
	res := runRoot(t, "add x y = x + y\n")
	require.True(t, res.Ok, res.Msg)
}

func TestRangeAssignStatement(t *testing.T) {
	res := runRoot(t, "h..t = [1, 2, 3]\n")
	require.True(t, res.Ok, res.Msg)
}

func TestBareApplicationStatement(t *testing.T) {
	res := runRoot(t, "print x\n")
	require.True(t, res.Ok, res.Msg)
}

func TestIfThenElse(t *testing.T) {
	res := runRoot(t, "y = if x then 1 else 2\n")
	require.True(t, res.Ok, res.Msg)
}

func TestWithExpression(t *testing.T) {
	res := runRoot(t, "y = with a = 1, b = 2 in a + b\n")
	require.True(t, res.Ok, res.Msg)
}

func TestQuantifier(t *testing.T) {
	res := runRoot(t, "y = for all x in xs x\n")
	require.True(t, res.Ok, res.Msg)
}

func TestPrecedenceClimbing(t *testing.T) {
	res := runRoot(t, "y = 1 + 2 * 3\n")
	require.True(t, res.Ok, res.Msg)
	stmt := res.Node.Children[0]
	assign := stmt.Children[0]
	require.Len(t, assign.Children, 2)
	rhs := assign.Children[1]
	assert.Equal(t, "+", rhs.Token.Text, "addition must bind loosest so it's the root of the RHS")
}

func TestTypeExprProductAndFunction(t *testing.T) {
	g := New()
	l := lexer.New("name: String * age: Int")
	res := c.Run(g.TypeExpr, l)
	require.True(t, res.Ok, res.Msg)
	assert.Equal(t, "*", res.Node.Token.Text)

	l2 := lexer.New("Int >> Int >> Bool")
	res2 := c.Run(g.TypeExpr, l2)
	require.True(t, res2.Ok, res2.Msg)
	assert.Equal(t, ">>", res2.Node.Token.Text)
}

func TestTypeExprListAndGenerator(t *testing.T) {
	g := New()
	l := lexer.New("[Int]")
	res := c.Run(g.TypeExpr, l)
	require.True(t, res.Ok, res.Msg)

	l2 := lexer.New("*Int")
	res2 := c.Run(g.TypeExpr, l2)
	require.True(t, res2.Ok, res2.Msg)
}

func TestBlankLinesAreSkipped(t *testing.T) {
	res := runRoot(t, "\n\nx = 1\n\n")
	require.True(t, res.Ok, res.Msg)
}
