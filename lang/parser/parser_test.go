package parser_test

import (
	"testing"

	"github.com/mna/curlylang/lang/ast"
	"github.com/mna/curlylang/lang/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChunkSimpleProgram(t *testing.T) {
	src := `x = 1 + 2 * 3
y: Int = x
`
	chunk, err := parser.ParseChunk("<test>", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, chunk.Root)

	stmts := ast.Statements(chunk.Root)
	require.Len(t, stmts, 2)
	assert.Equal(t, ast.NAssign, stmts[0].Name)
	assert.Equal(t, ast.NTypedAssign, stmts[1].Name)
}

func TestParseChunkReportsSyntaxError(t *testing.T) {
	chunk, err := parser.ParseChunk("<test>", []byte("x = = 1\n"))
	require.Error(t, err)
	_ = chunk
}

func TestParseFilesMissingFile(t *testing.T) {
	_, err := parser.ParseFiles("testdata/does-not-exist.curly")
	assert.Error(t, err)
}
