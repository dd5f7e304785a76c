// Package combinator implements a small parser-combinator runtime: a tree of
// recognizers, composed from the constructors below, that can be run over a
// lang/lexer.Lexer to produce an AST or a diagnostic. It is grounded on the
// classic comb_t tagged-union design (match function + args + whitespace
// policy), expressed here as a Go tagged struct instead of C's function
// pointer plus void* argument blob.
package combinator

import (
	"github.com/mna/curlylang/lang/ast"
	"github.com/mna/curlylang/lang/lexer"
	"github.com/mna/curlylang/lang/token"
)

// kind tags the combinator's role, the way comb_t's comb_fn selected the
// match behavior in the original implementation.
type kind uint8

const (
	kLiteral kind = iota
	kKind
	kTag
	kOr
	kSeq
	kZeroMore
	kOneMore
	kOptional
	kNot
	kNext
	kEOF
	kName
	kIgnore
	kLazy
	kFunc
)

// Parser is a node in a combinator tree.
type Parser struct {
	kind kind

	text     string // for kLiteral
	wantKind token.Kind
	wantTag  token.Tag
	name     string // for kName

	children []*Parser // for kOr, kSeq
	child    *Parser   // for kZeroMore, kOneMore, kOptional, kNot, kEOF, kName, kIgnore

	ignoreWhitespace bool

	target *Parser // for kLazy, bound via Set

	fn func(*lexer.Lexer) Result // for kFunc
}

// Result is the outcome of running a Parser: either a successful AST node or
// a parse error. Result is "ignorable" when it was produced by a combinator
// explicitly marked to contribute no tree node (Ignore), in which case Node
// is nil but Ok is true.
type Result struct {
	Ok    bool
	Fatal bool // a fatal failure aborts backtracking in an enclosing Or

	Node *ast.Node
	Tok  token.Token // offending token, set on failure
	Msg  string      // human-readable message, set on failure
}

func ok(n *ast.Node) Result       { return Result{Ok: true, Node: n} }
func okIgnored() Result           { return Result{Ok: true} }
func fail(tok token.Token, msg string, fatal bool) Result {
	return Result{Ok: false, Fatal: fatal, Tok: tok, Msg: msg}
}

// Literal succeeds when the next token's text equals s.
func Literal(s string) *Parser { return &Parser{kind: kLiteral, text: s} }

// Kind succeeds when the next token's Kind is k.
func Kind(k token.Kind) *Parser { return &Parser{kind: kKind, wantKind: k} }

// Tag succeeds when the next token's Tag is t.
func Tag(t token.Tag) *Parser { return &Parser{kind: kTag, wantTag: t} }

// Or succeeds with the first child that succeeds.
func Or(cs ...*Parser) *Parser { return &Parser{kind: kOr, children: cs} }

// Seq succeeds when all children succeed in order. Once any child has
// consumed a token, a later failure in the sequence is fatal: this forbids
// silent rollback after partial consumption and gives useful error
// locations, matching the original c_seq's all-or-nothing semantics, here
// made fatal-on-partial-consumption rather than always-fatal.
func Seq(cs ...*Parser) *Parser { return &Parser{kind: kSeq, children: cs} }

// ZeroMore always succeeds, matching c zero or more times.
func ZeroMore(c *Parser) *Parser { return &Parser{kind: kZeroMore, child: c} }

// OneMore succeeds only if c matches at least once.
func OneMore(c *Parser) *Parser { return &Parser{kind: kOneMore, child: c} }

// Optional always succeeds, contributing c's subtree if it matched.
func Optional(c *Parser) *Parser { return &Parser{kind: kOptional, child: c} }

// Not succeeds (consuming one token) when c fails, and fails when c
// succeeds, without consuming input in that case.
func Not(c *Parser) *Parser { return &Parser{kind: kNot, child: c} }

// Next succeeds on any single token, consuming it.
func Next() *Parser { return &Parser{kind: kNext} }

// EOF succeeds when c succeeds and the stream is then at end.
func EOF(c *Parser) *Parser { return &Parser{kind: kEOF, child: c} }

// Name succeeds when c succeeds, annotating the resulting node with
// production name n.
func Name(n string, c *Parser) *Parser { return &Parser{kind: kName, name: n, child: c} }

// Ignore succeeds when c succeeds but contributes nothing to the tree.
func Ignore(c *Parser) *Parser { return &Parser{kind: kIgnore, child: c} }

// Func wraps a hand-written recognizer as a combinator, the escape hatch for
// productions whose shape (e.g. left-associative precedence folding) is more
// naturally expressed as a few lines of Go than as a composition of the
// structural combinators above — mirroring the original grammar, where most
// productions are themselves one C function (parse_muldiv, parse_addsub, …)
// built out of the lower-level consume/call helpers rather than pure
// combinator composition.
func Func(name string, f func(*lexer.Lexer) Result) *Parser {
	return &Parser{kind: kFunc, name: name, fn: f}
}

// Lazy returns an uninitialized combinator that can be referenced from its
// own definition before being tied to a real combinator via Set, the way
// init_combinator/c_set tie recursive grammars in the original.
func Lazy() *Parser { return &Parser{kind: kLazy} }

// Set ties the knot for a combinator previously created with Lazy: a
// delegates to b from now on. a must have been created with Lazy.
func Set(a, b *Parser) {
	if a.kind != kLazy {
		panic("combinator: Set target was not created with Lazy")
	}
	a.target = b
}

// WithWhitespace sets p's whitespace-skipping flag and returns p. Run does
// not read the flag: the Curly lexer always skips spaces/tabs itself, so the
// flag has no effect on parsing.
func (p *Parser) WithWhitespace() *Parser {
	p.ignoreWhitespace = true
	return p
}

// Run evaluates the combinator tree rooted at p against l, starting at l's
// current position.
func Run(p *Parser, l *lexer.Lexer) Result {
	switch p.kind {
	case kLazy:
		if p.target == nil {
			panic("combinator: Lazy combinator used before Set")
		}
		return Run(p.target, l)

	case kLiteral:
		cp := l.Checkpoint()
		tok := l.Next()
		if tok.Text == p.text {
			return ok(leaf(tok))
		}
		l.Restore(cp)
		return fail(tok, "expected '"+p.text+"'", false)

	case kKind:
		cp := l.Checkpoint()
		tok := l.Next()
		if tok.Kind == p.wantKind {
			return ok(leaf(tok))
		}
		l.Restore(cp)
		return fail(tok, "expected "+p.wantKind.String(), tok.Kind == token.NONE)

	case kTag:
		cp := l.Checkpoint()
		tok := l.Next()
		if tok.Tag == p.wantTag {
			return ok(leaf(tok))
		}
		l.Restore(cp)
		return fail(tok, "expected "+p.wantTag.String(), false)

	case kOr:
		var last Result
		for _, c := range p.children {
			cp := l.Checkpoint()
			res := Run(c, l)
			if res.Ok {
				return res
			}
			if res.Fatal {
				return res
			}
			l.Restore(cp)
			last = res
		}
		return last

	case kSeq:
		var kids []*ast.Node
		consumed := false
		for _, c := range p.children {
			cp := l.Checkpoint()
			res := Run(c, l)
			if !res.Ok {
				if consumed || res.Fatal {
					return fail(res.Tok, res.Msg, true)
				}
				l.Restore(cp)
				return res
			}
			if l.Checkpoint() != cp {
				consumed = true
			}
			if res.Node != nil {
				kids = append(kids, res.Node)
			}
		}
		return ok(&ast.Node{Children: kids})

	case kZeroMore:
		var kids []*ast.Node
		for {
			cp := l.Checkpoint()
			res := Run(p.child, l)
			if !res.Ok {
				if res.Fatal {
					return res
				}
				l.Restore(cp)
				return ok(&ast.Node{Children: kids})
			}
			if l.Checkpoint() == cp {
				// no progress: stop to avoid an infinite loop on nullable children
				return ok(&ast.Node{Children: kids})
			}
			if res.Node != nil {
				kids = append(kids, res.Node)
			}
		}

	case kOneMore:
		first := Run(p.child, l)
		if !first.Ok {
			return first
		}
		rest := Run(ZeroMore(p.child), l)
		if !rest.Ok {
			return rest
		}
		kids := rest.Node.Children
		if first.Node != nil {
			kids = append([]*ast.Node{first.Node}, kids...)
		}
		return ok(&ast.Node{Children: kids})

	case kOptional:
		cp := l.Checkpoint()
		res := Run(p.child, l)
		if !res.Ok {
			if res.Fatal {
				return res
			}
			l.Restore(cp)
			return ok(&ast.Node{})
		}
		if res.Node != nil {
			return ok(&ast.Node{Children: []*ast.Node{res.Node}})
		}
		return ok(&ast.Node{})

	case kNot:
		cp := l.Checkpoint()
		res := Run(p.child, l)
		l.Restore(cp)
		if res.Ok {
			tok := l.Next()
			l.Restore(cp)
			return fail(tok, "unexpected "+tok.Kind.String(), false)
		}
		tok := l.Next()
		return ok(leaf(tok))

	case kNext:
		tok := l.Next()
		if tok.Kind == token.EOF {
			return fail(tok, "unexpected end of input", true)
		}
		return ok(leaf(tok))

	case kEOF:
		res := Run(p.child, l)
		if !res.Ok {
			return res
		}
		cp := l.Checkpoint()
		tok := l.Next()
		l.Restore(cp)
		if tok.Kind != token.EOF {
			return fail(tok, "expected end of input", false)
		}
		return res

	case kName:
		res := Run(p.child, l)
		if res.Ok && res.Node != nil {
			res.Node.Name = p.name
		}
		return res

	case kFunc:
		return p.fn(l)

	case kIgnore:
		res := Run(p.child, l)
		if !res.Ok {
			return res
		}
		return okIgnored()

	default:
		panic("combinator: unknown parser kind")
	}
}

func leaf(tok token.Token) *ast.Node {
	return &ast.Node{Token: tok}
}
