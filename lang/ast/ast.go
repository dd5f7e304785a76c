// Package ast defines the generic abstract syntax tree node produced by the
// combinator runtime and consumed by the checker and compiler.
//
// Unlike a hand-built recursive-descent parser's richly typed AST (one Go
// type per production), a combinator-driven parser naturally produces a
// single generic tree shape: every successful match is a node carrying its
// originating token, its matched children in order, and an optional
// symbolic name assigned by a Name combinator (e.g. "infix operator",
// "with", "if"). The Type field starts nil and is filled in by the checker
// during elaboration.
package ast

import (
	"github.com/mna/curlylang/lang/token"
	"github.com/mna/curlylang/lang/types"
)

// Node is a node in the abstract syntax tree. Ownership is exclusive: a
// parent owns its children, destruction (dropping the reference) is
// recursive.
type Node struct {
	Token    token.Token // the originating token; zero value for a pure grouping node
	Children []*Node
	Name     string      // symbolic production name, e.g. "infix operator", "with", "if"
	Type     *types.Type // resolved type, filled during elaboration; nil until then
}

// Span returns the node's start and end positions, derived from its own
// token and, when present, its first and last children, so that a parent's
// span always encompasses its children's spans.
func (n *Node) Span() (start, end token.Pos) {
	if n == nil {
		return token.NoPos, token.NoPos
	}
	before := func(a, b token.Pos) bool {
		al, ac := a.LineCol()
		bl, bc := b.LineCol()
		return al < bl || (al == bl && ac < bc)
	}
	start = token.PosOf(n.Token)
	end = start
	if len(n.Children) > 0 {
		cs, _ := n.Children[0].Span()
		_, ce := n.Children[len(n.Children)-1].Span()
		if start.Unknown() || (!cs.Unknown() && before(cs, start)) {
			start = cs
		}
		if before(end, ce) {
			end = ce
		}
	}
	return start, end
}

// Is reports whether the node was produced by a combinator named n (via
// combinator.Name).
func (n *Node) Is(name string) bool { return n != nil && n.Name == name }

// Child returns the i'th child, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}
