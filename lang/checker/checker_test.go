package checker_test

import (
	"testing"

	"github.com/mna/curlylang/lang/checker"
	"github.com/mna/curlylang/lang/parser"
	"github.com/mna/curlylang/lang/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func check(t *testing.T, src string) error {
	t.Helper()
	chunk, err := parser.ParseChunk("<test>", []byte(src))
	require.NoError(t, err)
	return checker.Check(chunk, types.NewRegistry())
}

func TestSimpleAssignInfersType(t *testing.T) {
	assert.NoError(t, check(t, "x = 1 + 2\n"))
}

func TestArithmeticMismatchIsRejected(t *testing.T) {
	assert.Error(t, check(t, "x = 1 + true\n"))
}

func TestTypedAssignAcceptsSubtype(t *testing.T) {
	assert.NoError(t, check(t, "x: Int = 1\n"))
}

func TestTypedAssignRejectsMismatch(t *testing.T) {
	assert.Error(t, check(t, `x: Int = "oops"`+"\n"))
}

func TestNamedProductType(t *testing.T) {
	assert.NoError(t, check(t, "Point: Type = x: Int * y: Int\n"))
}

func TestEnumDeclarationAndMemberUse(t *testing.T) {
	assert.NoError(t, check(t, "Color: Enum = Red | Green | Blue\nc = Red\n"))
}

func TestFuncAssignInfersParamTypeFromUse(t *testing.T) {
	assert.NoError(t, check(t, "add a b = a + b\nx = add 1 2\n"))
}

func TestIfBranchesMustAgree(t *testing.T) {
	assert.NoError(t, check(t, "x = if true then 1 else 2\n"))
	assert.Error(t, check(t, `x = if true then 1 else "no"`+"\n"))
}

func TestUndeclaredVariableIsRejected(t *testing.T) {
	assert.Error(t, check(t, "x = y\n"))
}

func TestQuantifierOverList(t *testing.T) {
	assert.NoError(t, check(t, "ok = for all n in [1, 2, 3] n > 0\n"))
}
