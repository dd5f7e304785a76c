package grammar

import (
	"github.com/mna/curlylang/lang/ast"
	c "github.com/mna/curlylang/lang/combinator"
	"github.com/mna/curlylang/lang/lexer"
	"github.com/mna/curlylang/lang/token"
)

// buildTypeExpr builds the grammar for the type-expression syntax that
// appears on the right-hand side of a typed assignment (`x: T = e`). It
// reuses the value-expression operator tokens (`*`, `&`, `|`, `>>`) the way
// the checker's generate_type interprets them, tagging binary nodes the
// same way the value grammar tags infix operators (ast.NInfixOperator with
// the operator token), so generate_type can walk either kind of tree
// uniformly once it knows it's in type-expression context.
//
// Precedence, loosest to tightest: function (`>>`, right-associative) over
// union (`|`) over intersection (`&`) over product (`*`); a leading `*`
// before an atom is the generator sigil, not the product operator, and
// `[T]` is the list-of-T form.
func buildTypeExpr() *c.Parser {
	top := c.Lazy()

	var atom *c.Parser
	atom = c.Func("type atom", func(l *lexer.Lexer) c.Result {
		cp := l.Checkpoint()
		tok := l.Next()
		switch {
		case tok.Kind == token.STAR:
			inner := c.Run(atom, l)
			if !inner.Ok {
				return inner
			}
			return c.Result{Ok: true, Node: &ast.Node{
				Name: ast.NTypeGenerator, Token: tok, Children: []*ast.Node{inner.Node},
			}}

		case tok.Text == "[":
			inner := c.Run(top, l)
			if !inner.Ok {
				return inner
			}
			if close := l.Next(); close.Text != "]" {
				return c.Result{Fatal: true, Tok: close, Msg: "expected ']' to close list type"}
			}
			return c.Result{Ok: true, Node: &ast.Node{
				Name: ast.NTypeList, Token: tok, Children: []*ast.Node{inner.Node},
			}}

		case tok.Text == "(":
			inner := c.Run(top, l)
			if !inner.Ok {
				return inner
			}
			if close := l.Next(); close.Text != ")" {
				return c.Result{Fatal: true, Tok: close, Msg: "expected ')' to close type expression"}
			}
			return inner

		case tok.Kind == token.SYMBOL:
			return c.Result{Ok: true, Node: &ast.Node{Token: tok}}

		default:
			l.Restore(cp)
			return c.Result{Ok: false, Tok: tok, Msg: "expected a type"}
		}
	})

	productTerm := c.Func("type field", func(l *lexer.Lexer) c.Result {
		cp := l.Checkpoint()
		first := l.Next()
		if first.Kind == token.SYMBOL {
			cp2 := l.Checkpoint()
			if colon := l.Next(); colon.Kind == token.COLON {
				field := c.Run(atom, l)
				if !field.Ok {
					return field
				}
				return c.Result{Ok: true, Node: &ast.Node{
					Name: ast.NTypeField, Token: first, Children: []*ast.Node{field.Node},
				}}
			}
			l.Restore(cp2)
		}
		l.Restore(cp)
		return c.Run(atom, l)
	})

	product := leftAssoc(productTerm, token.STAR)
	intersection := leftAssoc(product, token.BITAND)
	union := leftAssoc(intersection, token.BITOR)

	fnType := c.Func("function type", func(l *lexer.Lexer) c.Result {
		left := c.Run(union, l)
		if !left.Ok {
			return left
		}
		cp := l.Checkpoint()
		opTok := l.Next()
		if opTok.Kind != token.SHR {
			l.Restore(cp)
			return c.Result{Ok: true, Node: left.Node}
		}
		right := c.Run(top, l) // right-associative: recurse on the whole production
		if !right.Ok {
			return right
		}
		return c.Result{Ok: true, Node: &ast.Node{
			Name: ast.NInfixOperator, Token: opTok, Children: []*ast.Node{left.Node, right.Node},
		}}
	})

	c.Set(top, fnType)
	return top
}
