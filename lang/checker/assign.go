package checker

import (
	"github.com/mna/curlylang/lang/ast"
	"github.com/mna/curlylang/lang/types"
)

// elabAssignForm elaborates any of the four assignment shapes the grammar
// produces, used both for a top-level statement and for each binding of a
// `with` expression.
func (ck *Checker) elabAssignForm(n *ast.Node) {
	if ck.failed() {
		return
	}
	switch n.Name {
	case ast.NAssign:
		ck.elabSimpleAssign(n)
	case ast.NTypedAssign:
		ck.elabTypedAssign(n)
	case ast.NRangeAssign:
		ck.elabRangeAssign(n)
	case ast.NFuncAssign:
		ck.elabFuncAssign(n)
	default:
		ck.errorf(n, "not an assignment form")
	}
}

func (ck *Checker) elabSimpleAssign(n *ast.Node) {
	sym, rhsNode := n.Children[0], n.Children[1]
	name := sym.Token.Text

	rhsType := ck.elabExpr(rhsNode)
	if rhsType == nil {
		return
	}

	if existing, ok := ck.scope.lookupVar(name); ok {
		if !ck.Reg.Subtype(rhsType, existing) {
			ck.errorf(n, "cannot assign %s to %q of type %s", rhsType, name, existing)
			return
		}
	} else {
		ck.scope.vars.Put(name, rhsType)
		ck.scope.varNodes.Put(name, sym)
	}
	sym.Type = rhsType
	n.Type = rhsType
}

func (ck *Checker) elabTypedAssign(n *ast.Node) {
	sym, typeNode, rhsNode := n.Children[0], n.Children[1], n.Children[2]
	name := sym.Token.Text

	if ck.scope.vars.Has(name) {
		ck.errorf(n, "redeclaration of %q", name)
		return
	}

	declaredType := ck.generateType(typeNode, "", nil)
	if declaredType == nil {
		return
	}

	switch {
	case ck.Reg.Equal(declaredType, ck.Reg.TypeType):
		// x: Type = <type expr> — x becomes a named type, possibly
		// recursive: pre-register a forward placeholder so a reference to
		// x inside the body resolves to the same identity.
		placeholder := ck.Reg.Forward(name)
		ck.scope.aliases.Put(name, placeholder)
		generated := ck.generateType(rhsNode, name, placeholder)
		if generated == nil {
			return
		}
		ck.Reg.Finalize(placeholder, generated)
		ck.bindTypeName(sym, name)

	case ck.Reg.Equal(declaredType, ck.Reg.EnumType):
		members := ck.enumMembers(rhsNode)
		if members == nil {
			return
		}
		enum, consts := ck.Reg.NewEnum(name, members)
		ck.scope.aliases.Put(name, enum)
		for i, m := range members {
			ck.scope.vars.Put(m, consts[i])
		}
		ck.bindTypeName(sym, name)

	default:
		rhsType := ck.elabExpr(rhsNode)
		if rhsType == nil {
			return
		}
		if !ck.Reg.Subtype(rhsType, declaredType) {
			ck.errorf(n, "cannot assign %s to declared type %s", rhsType, declaredType)
			return
		}
		ck.scope.vars.Put(name, declaredType)
		ck.scope.varNodes.Put(name, sym)
		sym.Type = declaredType
		n.Type = declaredType
	}
}

func (ck *Checker) bindTypeName(sym *ast.Node, name string) {
	ck.scope.vars.Put(name, ck.Reg.TypeType)
	ck.scope.varNodes.Put(name, sym)
	sym.Type = ck.Reg.TypeType
}

// enumMembers walks a '|'-chain of bare symbol leaves (the only shape the
// right-hand side of `x: Enum = a | b | c` may take) and returns the member
// names in declaration order.
func (ck *Checker) enumMembers(n *ast.Node) []string {
	if n == nil {
		ck.errorf(n, "malformed enum body")
		return nil
	}
	if n.Name == ast.NInfixOperator && n.Token.Text == "|" {
		left := ck.enumMembers(n.Children[0])
		if left == nil {
			return nil
		}
		right := ck.enumMembers(n.Children[1])
		if right == nil {
			return nil
		}
		return append(left, right...)
	}
	if len(n.Children) == 0 {
		return []string{n.Token.Text}
	}
	ck.errorf(n, "enum member must be a bare name")
	return nil
}

func (ck *Checker) elabRangeAssign(n *ast.Node) {
	head, tail, rhsNode := n.Children[0], n.Children[1], n.Children[2]

	rhsType := ck.elabExpr(rhsNode)
	if rhsType == nil {
		return
	}
	elem, ok := elemType(rhsType)
	if !ok {
		ck.errorf(n, "range-destructuring requires a list or generator, got %s", rhsType)
		return
	}

	ck.scope.vars.Put(head.Token.Text, elem)
	ck.scope.varNodes.Put(head.Token.Text, head)
	ck.scope.vars.Put(tail.Token.Text, rhsType)
	ck.scope.varNodes.Put(tail.Token.Text, tail)
	head.Type = elem
	tail.Type = rhsType
	n.Type = rhsType
}

func (ck *Checker) elabFuncAssign(n *ast.Node) {
	fnSym := n.Children[0]
	args := n.Children[1 : len(n.Children)-1]
	bodyNode := n.Children[len(n.Children)-1]
	name := fnSym.Token.Text

	ck.push()
	defer ck.pop()

	// Curly has no parameter type annotations: each argument gets a fresh
	// unbound type variable that binds to whatever concrete type it is
	// first compared against while elaborating the body (see
	// Registry.Equal), so a single pass suffices with no separate
	// unification pass.
	argTypes := make([]*types.Type, len(args))
	for i, a := range args {
		argTypes[i] = ck.Reg.NewVar(a.Token.Text)
		ck.scope.vars.Put(a.Token.Text, argTypes[i])
		ck.scope.varNodes.Put(a.Token.Text, a)
		a.Type = argTypes[i]
	}

	bodyType := ck.elabExpr(bodyNode)
	if bodyType == nil {
		return
	}

	fnType := bodyType
	for i := len(argTypes) - 1; i >= 0; i-- {
		fnType = ck.Reg.NewFunction(argTypes[i], fnType)
	}

	if existing, ok := ck.scope.parent.lookupVar(name); ok {
		if !ck.Reg.Subtype(fnType, existing) {
			ck.errorf(n, "redefinition of %q with incompatible signature %s (was %s)", name, fnType, existing)
			return
		}
	} else {
		ck.scope.parent.vars.Put(name, fnType)
		ck.scope.parent.varNodes.Put(name, fnSym)
	}
	fnSym.Type = fnType
	n.Type = fnType
}
