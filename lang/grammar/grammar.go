// Package grammar builds the Curly combinator tree: the concrete syntax for
// expressions, assignments and statements, layered as a precedence-climbing
// chain of infix operators over a core of literals, symbols, grouping,
// conditionals, quantifiers, comprehensions and ranges, plus a separate
// grammar for the type-expression syntax used on the right-hand side of a
// typed assignment.
package grammar

import (
	"github.com/mna/curlylang/lang/ast"
	c "github.com/mna/curlylang/lang/combinator"
	"github.com/mna/curlylang/lang/lexer"
	"github.com/mna/curlylang/lang/token"
)

// Grammar holds the entry points a caller needs.
type Grammar struct {
	Root       *c.Parser // a whole program: eof(omore(statement or blank line))
	Statement  *c.Parser // assign-or-expression followed by a newline
	Expression *c.Parser // a with-expression, assignment form or bare expression, without the newline
	TypeExpr   *c.Parser // the type-expression syntax, for standalone testing
}

// Run parses a whole program from l using g's Root production.
func (g *Grammar) Run(l *lexer.Lexer) c.Result {
	return c.Run(g.Root, l)
}

// New builds the full Curly grammar.
func New() *Grammar {
	expr := c.Lazy() // the knot every value-level production bottoms out at

	// --- core values ---

	literalTok := c.Or(
		c.Kind(token.INT),
		c.Kind(token.FLOAT),
		c.Kind(token.STRING),
		c.Kind(token.BOOLEAN),
		c.Kind(token.NILVAL),
	)
	symbolTok := c.Kind(token.SYMBOL)

	paren := c.Seq(c.Ignore(c.Literal("(")), expr, c.Ignore(c.Literal(")")))

	rangeExpr := c.Name(ast.NRange, c.Seq(
		c.Ignore(c.Literal("(")),
		expr,
		c.Ignore(c.Kind(token.RANGE)),
		expr,
		c.Optional(c.Seq(c.Ignore(c.Kind(token.COLON)), expr)),
		c.Ignore(c.Literal(")")),
	))

	listLit := c.Name(ast.NList, c.Seq(
		c.Ignore(c.Literal("[")),
		c.Optional(c.Seq(expr, c.ZeroMore(c.Seq(c.Ignore(c.Kind(token.COMMA)), expr)))),
		c.Ignore(c.Literal("]")),
	))

	ifExpr := c.Name(ast.NIf, c.Seq(
		c.Ignore(c.Literal("if")),
		expr,
		c.Ignore(c.Literal("then")),
		expr,
		c.Optional(c.Seq(c.Ignore(c.Literal("else")), expr)),
	))

	// The quantifier's source is an infix expression rather than a whole
	// application, so the juxtaposed body after it is not taken as an
	// argument of the source.
	seqOperand := c.Lazy()
	quantifier := c.Name(ast.NQuantifier, c.Seq(
		c.Ignore(c.Literal("for")),
		c.Or(c.Literal("all"), c.Literal("some")),
		symbolTok,
		c.Ignore(c.Literal("in")),
		seqOperand,
		expr,
	))

	comprehension := c.Name(ast.NComprehension, c.Seq(
		c.Ignore(c.Literal("[")),
		expr,
		c.Ignore(c.Literal("for")),
		symbolTok,
		c.Ignore(c.Literal("in")),
		expr,
		c.Ignore(c.Literal("]")),
	))

	// backtrack makes a failure of p after partial consumption restorable, so
	// alternatives sharing a leading token ("[" for comprehension and list,
	// "(" for range and grouping) still get their turn, and a "for" met
	// inside an application chain ends the chain instead of failing it.
	backtrack := func(p *c.Parser) *c.Parser {
		return c.Func("backtrack", func(l *lexer.Lexer) c.Result {
			cp := l.Checkpoint()
			res := c.Run(p, l)
			if !res.Ok {
				l.Restore(cp)
				res.Fatal = false
			}
			return res
		})
	}
	value := c.Or(ifExpr, backtrack(quantifier), backtrack(comprehension), backtrack(rangeExpr), listLit, literalTok, symbolTok, paren)

	// affix: value with an optional leading unary minus.
	affix := c.Func("affix", func(l *lexer.Lexer) c.Result {
		cp := l.Checkpoint()
		tok := l.Next()
		if tok.Kind == token.MINUS {
			res := c.Run(value, l)
			if !res.Ok {
				return res
			}
			return c.Result{Ok: true, Node: &ast.Node{
				Name: ast.NUnaryOperator, Token: tok, Children: []*ast.Node{res.Node},
			}}
		}
		l.Restore(cp)
		return c.Run(value, l)
	})

	muldiv := leftAssoc(affix, token.STAR, token.SLASH, token.PERCENT)
	addsub := leftAssoc(muldiv, token.PLUS, token.MINUS)
	compare := leftAssoc(addsub, token.LT, token.GT, token.LE, token.GE, token.EQ, token.NEQ)
	andLevel := leftAssoc(compare, token.AND)
	xorLevel := leftAssoc(andLevel, token.XOR)
	orLevel := leftAssoc(xorLevel, token.OR)
	c.Set(seqOperand, orLevel)

	application := c.Func("application", func(l *lexer.Lexer) c.Result {
		first := c.Run(orLevel, l)
		if !first.Ok {
			return first
		}
		kids := []*ast.Node{first.Node}
		for {
			cp := l.Checkpoint()
			skipContinuation(l)
			res := c.Run(orLevel, l)
			if !res.Ok {
				if res.Fatal {
					return res
				}
				l.Restore(cp)
				break
			}
			kids = append(kids, res.Node)
		}
		if len(kids) == 1 {
			return c.Result{Ok: true, Node: kids[0]}
		}
		return c.Result{Ok: true, Node: &ast.Node{Name: ast.NApply, Children: kids}}
	})

	// --- type expressions ---

	typeExpr := buildTypeExpr()

	// --- assignment forms ---

	assignForm := c.Func("assign", func(l *lexer.Lexer) c.Result {
		return parseAssignForm(l, expr, typeExpr, symbolTok)
	})

	withExpr := c.Name(ast.NWith, c.Seq(
		c.Ignore(c.Literal("with")),
		assignForm,
		c.ZeroMore(c.Seq(c.Ignore(c.Kind(token.COMMA)), assignForm)),
		c.Ignore(c.Literal("in")),
		expr,
	))

	c.Set(expr, c.Or(withExpr, application))

	assign := c.Or(withExpr, assignForm, expr)

	statement := c.Name(ast.NStatement, c.Seq(assign, c.Ignore(c.Kind(token.NEWLINE))))

	root := c.Name(ast.NRoot, c.EOF(c.OneMore(c.Or(statement, c.Ignore(c.Kind(token.NEWLINE))))))

	return &Grammar{Root: root, Statement: statement, Expression: assign, TypeExpr: typeExpr}
}

// skipContinuation consumes a "\" immediately followed by a newline, Curly's
// explicit line continuation inside an application chain. It restores the
// position if the pattern isn't found.
func skipContinuation(l *lexer.Lexer) {
	cp := l.Checkpoint()
	if bs := l.Next(); bs.Text == "\\" {
		if nl := l.Next(); nl.Kind == token.NEWLINE {
			return
		}
	}
	l.Restore(cp)
}

// leftAssoc builds `first (op first)*`, folding the matches into a
// left-associative chain of ast.NInfixOperator nodes, one per layer of the
// spec's precedence table (muldiv, addsub, compare, and, xor, or).
func leftAssoc(operand *c.Parser, kinds ...token.Kind) *c.Parser {
	isOp := func(k token.Kind) bool {
		for _, w := range kinds {
			if w == k {
				return true
			}
		}
		return false
	}
	return c.Func("infix", func(l *lexer.Lexer) c.Result {
		left := c.Run(operand, l)
		if !left.Ok {
			return left
		}
		node := left.Node
		for {
			cp := l.Checkpoint()
			opTok := l.Next()
			if !isOp(opTok.Kind) {
				l.Restore(cp)
				return c.Result{Ok: true, Node: node}
			}
			right := c.Run(operand, l)
			if !right.Ok {
				if right.Fatal {
					return right
				}
				l.Restore(cp)
				return c.Result{Ok: true, Node: node}
			}
			node = &ast.Node{
				Name:     ast.NInfixOperator,
				Token:    opTok,
				Children: []*ast.Node{node, right.Node},
			}
		}
	})
}

// isTypeOrEnumName reports whether a parsed type expression is nothing but
// the bare name "Type" or "Enum", the two built-in type constructors that
// make a typed assignment's right-hand side define a new named type or
// enum instead of holding an ordinary value.
func isTypeOrEnumName(n *ast.Node) bool {
	return n != nil && len(n.Children) == 0 && n.Token.Kind == token.SYMBOL &&
		(n.Token.Text == "Type" || n.Token.Text == "Enum")
}

// parseAssignForm implements the four assignment shapes described in the
// checker's per-node rules by looking one token ahead of a leading symbol,
// rather than trying each shape as a sequence and relying on backtracking:
// a seq failure after consuming the leading symbol would otherwise be
// fatal and abort the enclosing "or" before a sibling shape gets a chance.
// On a symbol not followed by any assignment-introducing token, the lexer
// position is fully restored so the caller can fall back to parsing a bare
// expression (e.g. a function-application statement with no assignment).
func parseAssignForm(l *lexer.Lexer, expr, typeExpr, symbolTok *c.Parser) c.Result {
	cp0 := l.Checkpoint()
	sym := c.Run(symbolTok, l)
	if !sym.Ok {
		return sym
	}

	cp1 := l.Checkpoint()
	next := l.Next()
	switch {
	case next.Kind == token.COLON:
		ty := c.Run(typeExpr, l)
		if !ty.Ok {
			return ty
		}
		if eq := l.Next(); eq.Kind != token.ASSIGN {
			return c.Result{Fatal: true, Tok: eq, Msg: "expected '=' in typed assignment"}
		}
		// When T is literally the built-in "Type" or "Enum" constructor, the
		// right-hand side is itself type-expression syntax (a product/union
		// describing the new named type, or a '|'-chain of enum member
		// names), not a value expression, so it must be parsed with the same
		// grammar as T rather than the value-expression grammar.
		rhsGrammar := expr
		if isTypeOrEnumName(ty.Node) {
			rhsGrammar = typeExpr
		}
		rhs := c.Run(rhsGrammar, l)
		if !rhs.Ok {
			return rhs
		}
		return c.Result{Ok: true, Node: &ast.Node{
			Name: ast.NTypedAssign, Children: []*ast.Node{sym.Node, ty.Node, rhs.Node},
		}}

	case next.Kind == token.RANGE:
		tail := c.Run(symbolTok, l)
		if !tail.Ok {
			return tail
		}
		if eq := l.Next(); eq.Kind != token.ASSIGN {
			return c.Result{Fatal: true, Tok: eq, Msg: "expected '=' in range-destructuring assignment"}
		}
		rhs := c.Run(expr, l)
		if !rhs.Ok {
			return rhs
		}
		return c.Result{Ok: true, Node: &ast.Node{
			Name: ast.NRangeAssign, Children: []*ast.Node{sym.Node, tail.Node, rhs.Node},
		}}

	case next.Kind == token.ASSIGN:
		rhs := c.Run(expr, l)
		if !rhs.Ok {
			return rhs
		}
		return c.Result{Ok: true, Node: &ast.Node{
			Name: ast.NAssign, Children: []*ast.Node{sym.Node, rhs.Node},
		}}

	case next.Kind == token.SYMBOL:
		// Candidate function assignment: f arg1 arg2 … = body. Collect
		// trailing symbols greedily; if no '=' follows, this wasn't an
		// assignment at all (e.g. a bare application statement), so restore
		// fully to cp0 and let the caller fall back to parsing expr.
		l.Restore(cp1)
		args := []*ast.Node{}
		for {
			cpArg := l.Checkpoint()
			arg := c.Run(symbolTok, l)
			if !arg.Ok {
				l.Restore(cpArg)
				break
			}
			args = append(args, arg.Node)
		}
		cpEq := l.Checkpoint()
		if eq := l.Next(); eq.Kind == token.ASSIGN {
			rhs := c.Run(expr, l)
			if !rhs.Ok {
				return rhs
			}
			children := append([]*ast.Node{sym.Node}, args...)
			children = append(children, rhs.Node)
			return c.Result{Ok: true, Node: &ast.Node{Name: ast.NFuncAssign, Children: children}}
		}
		_ = cpEq
		l.Restore(cp0)
		return c.Result{Ok: false, Tok: next, Msg: "not an assignment"}

	default:
		l.Restore(cp0)
		return c.Result{Ok: false, Tok: next, Msg: "not an assignment"}
	}
}
