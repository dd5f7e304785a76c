package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	for k := Kind(0); k < maxKind; k++ {
		require.NotEmpty(t, k.String())
	}
}

func TestKindGoString(t *testing.T) {
	require.Equal(t, "'+'", PLUS.GoString())
	require.Equal(t, "symbol", SYMBOL.GoString())
}

func TestIsKeyword(t *testing.T) {
	for kw := range keywords {
		require.True(t, IsKeyword(kw))
	}
	require.False(t, IsKeyword("notakeyword"))
}

func TestTokenIsOperator(t *testing.T) {
	require.True(t, Token{Kind: PLUS}.IsOperator())
	require.True(t, Token{Kind: AND}.IsOperator())
	require.False(t, Token{Kind: ASSIGN}.IsOperator())
	require.False(t, Token{Kind: COLON}.IsOperator())
}

func TestTokenString(t *testing.T) {
	tok := Token{Kind: SYMBOL, Text: "foo", Line: 1, Col: 1}
	require.Contains(t, tok.String(), "foo")
}
