// Package checker implements Curly's semantic analyzer: a single-pass
// elaborator that walks the AST produced by lang/grammar, resolves
// identifiers against a stack of scopes, synthesizes a structural type for
// every node (lang/types) and rejects ill-typed programs.
//
// Grounded in the shape of the teacher's resolver package (a scope-stack
// with a parent link, one push/pop per lexical block) but reworked per this
// language's scope shape: three maps per frame (variable types, variable
// defining nodes, type aliases) instead of a single bindings table, since
// Curly has no separate binding-kind taxonomy (local/free/cell/label) to
// track — just variables and type names.
package checker

import (
	"fmt"

	"github.com/mna/curlylang/internal/hashmap"
	"github.com/mna/curlylang/lang/ast"
	"github.com/mna/curlylang/lang/token"
	"github.com/mna/curlylang/lang/types"
)

// Scope is one lexical frame: a variable-type map, a variable-defining-node
// map (for "already declared here" diagnostics), and a type-alias map,
// chained to its enclosing frame.
type Scope struct {
	parent   *Scope
	vars     *hashmap.Map[*types.Type]
	varNodes *hashmap.Map[*ast.Node]
	aliases  *hashmap.Map[*types.Type]
}

func newScope(parent *Scope) *Scope {
	return &Scope{
		parent:   parent,
		vars:     hashmap.New[*types.Type](8),
		varNodes: hashmap.New[*ast.Node](8),
		aliases:  hashmap.New[*types.Type](4),
	}
}

func (s *Scope) lookupVar(name string) (*types.Type, bool) {
	for f := s; f != nil; f = f.parent {
		if t, ok := f.vars.Get(name); ok {
			return t, true
		}
	}
	return nil, false
}

func (s *Scope) lookupAlias(name string) (*types.Type, bool) {
	for f := s; f != nil; f = f.parent {
		if t, ok := f.aliases.Get(name); ok {
			return t, true
		}
	}
	return nil, false
}

// Checker elaborates a parsed chunk in place, annotating every ast.Node's
// Type field and collecting diagnostics. No error recovery: once a failure
// is recorded, elaboration of the current chunk stops.
type Checker struct {
	Reg   *types.Registry
	scope *Scope
	errs  token.ErrorList
}

// New returns a Checker whose global scope is seeded with the built-in
// primitive and type-constructor names.
func New(reg *types.Registry) *Checker {
	ck := &Checker{Reg: reg, scope: newScope(nil)}
	ck.scope.aliases.Put("Int", reg.Int)
	ck.scope.aliases.Put("Float", reg.Float)
	ck.scope.aliases.Put("Bool", reg.Bool)
	ck.scope.aliases.Put("String", reg.String)
	ck.scope.aliases.Put("Type", reg.TypeType)
	ck.scope.aliases.Put("Enum", reg.EnumType)
	return ck
}

func (ck *Checker) failed() bool { return len(ck.errs) > 0 }

func (ck *Checker) errorf(n *ast.Node, format string, args ...interface{}) {
	if ck.failed() {
		return
	}
	pos := token.NoPos
	if n != nil {
		pos, _ = n.Span()
	}
	ck.errs.Add(pos, fmt.Sprintf(format, args...))
}

func (ck *Checker) push() { ck.scope = newScope(ck.scope) }
func (ck *Checker) pop()  { ck.scope = ck.scope.parent }

// Check elaborates every top-level statement of chunk and returns the
// collected diagnostics, or nil if there were none.
func Check(chunk *ast.Chunk, reg *types.Registry) error {
	ck := New(reg)
	ck.checkChunk(chunk)
	return ck.errs.Err()
}

// CheckChunk elaborates chunk's statements against ck's current scope,
// resetting any diagnostics left over from a previous call. This lets a
// caller reuse a single Checker (and its accumulated global bindings)
// across successive chunks, the way a REPL checks one line at a time
// without forgetting earlier declarations.
func (ck *Checker) CheckChunk(chunk *ast.Chunk) error {
	ck.errs.Reset()
	ck.checkChunk(chunk)
	return ck.errs.Err()
}

func (ck *Checker) checkChunk(chunk *ast.Chunk) {
	for _, stmt := range ast.Statements(chunk.Root) {
		if ck.failed() {
			return
		}
		ck.checkStatement(stmt)
	}
}

func (ck *Checker) checkStatement(n *ast.Node) {
	switch n.Name {
	case ast.NAssign, ast.NTypedAssign, ast.NRangeAssign, ast.NFuncAssign:
		ck.elabAssignForm(n)
	default:
		ck.elabExpr(n)
	}
}
