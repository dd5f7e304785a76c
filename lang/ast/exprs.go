package ast

import "github.com/mna/curlylang/lang/token"

// Unwrap strips any parenthesized grouping nodes around n, the way the
// original recursive-descent AST's ParenExpr had to be unwrapped before
// inspecting the expression underneath. A combinator-produced AST represents
// a parenthesized group as an unnamed node with a zero token whose only child
// is the inner expression; Unwrap descends through such wrappers.
func Unwrap(n *Node) *Node {
	for n != nil && n.Name == "" && n.Token == (token.Token{}) && len(n.Children) == 1 {
		n = n.Children[0]
	}
	return n
}

// IsAssignable reports whether n, with any grouping stripped, is a bare
// symbol, the one node shape that can appear on the left-hand side of a
// plain assignment.
func IsAssignable(n *Node) bool {
	n = Unwrap(n)
	if n == nil {
		return false
	}
	return n.Token.Kind == token.SYMBOL && len(n.Children) == 0
}
