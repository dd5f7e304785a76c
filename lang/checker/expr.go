package checker

import (
	"github.com/mna/curlylang/lang/ast"
	"github.com/mna/curlylang/lang/token"
	"github.com/mna/curlylang/lang/types"
)

// elabExpr synthesizes n's type, annotates n.Type, and returns it. It
// returns nil once the checker has already recorded a failure, so callers
// can chain elaboration without individually checking for a prior error.
func (ck *Checker) elabExpr(n *ast.Node) *types.Type {
	if ck.failed() || n == nil {
		return nil
	}

	var t *types.Type
	switch {
	case n.Name == ast.NInfixOperator:
		t = ck.elabInfix(n)
	case n.Name == ast.NUnaryOperator:
		t = ck.elabUnary(n)
	case n.Name == ast.NApply:
		t = ck.elabApply(n)
	case n.Name == ast.NList:
		t = ck.elabList(n)
	case n.Name == ast.NIf:
		t = ck.elabIf(n)
	case n.Name == ast.NWith:
		t = ck.elabWith(n)
	case n.Name == ast.NQuantifier:
		t = ck.elabQuantifier(n)
	case n.Name == ast.NComprehension:
		t = ck.elabComprehension(n)
	case n.Name == ast.NRange:
		t = ck.elabRange(n)
	case len(n.Children) == 0:
		t = ck.elabLeaf(n)
	default:
		// A production with no dedicated case and children: treat as a
		// transparent wrapper around its single child (e.g. a parenthesized
		// grouping collapsed by the grammar into a bare Seq result).
		t = ck.elabExpr(n.Children[0])
	}

	if t != nil {
		n.Type = t
	}
	return t
}

func (ck *Checker) elabLeaf(n *ast.Node) *types.Type {
	switch n.Token.Kind {
	case token.INT:
		return ck.Reg.Int
	case token.FLOAT:
		return ck.Reg.Float
	case token.BOOLEAN:
		return ck.Reg.Bool
	case token.NILVAL:
		return ck.Reg.Nil
	case token.STRING:
		return ck.Reg.String
	case token.SYMBOL:
		if t, ok := ck.scope.lookupVar(n.Token.Text); ok {
			return t
		}
		if _, ok := ck.scope.lookupAlias(n.Token.Text); ok {
			return ck.Reg.TypeType
		}
		ck.errorf(n, "undeclared variable %q", n.Token.Text)
		return nil
	default:
		ck.errorf(n, "unexpected token %s in expression", n.Token.Kind)
		return nil
	}
}

func (ck *Checker) elabUnary(n *ast.Node) *types.Type {
	operand := ck.elabExpr(n.Children[0])
	if operand == nil {
		return nil
	}
	if !ck.Reg.Equal(operand, ck.Reg.Int) && !ck.Reg.Equal(operand, ck.Reg.Float) {
		ck.errorf(n, "unary '-' requires Int or Float, got %s", operand)
		return nil
	}
	return operand
}

func (ck *Checker) elabInfix(n *ast.Node) *types.Type {
	lt := ck.elabExpr(n.Children[0])
	rt := ck.elabExpr(n.Children[1])
	if lt == nil || rt == nil {
		return nil
	}

	switch n.Token.Kind {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT:
		return ck.arith(n, lt, rt)
	case token.LT, token.GT, token.LE, token.GE, token.EQ, token.NEQ:
		if !ck.Reg.Equal(lt, rt) {
			ck.errorf(n, "cannot compare %s and %s", lt, rt)
			return nil
		}
		return ck.Reg.Bool
	case token.AND, token.OR, token.XOR:
		if !ck.Reg.Equal(lt, ck.Reg.Bool) || !ck.Reg.Equal(rt, ck.Reg.Bool) {
			ck.errorf(n, "boolean operator requires Bool operands, got %s and %s", lt, rt)
			return nil
		}
		return ck.Reg.Bool
	case token.BITAND, token.BITOR, token.SHL, token.SHR:
		if !ck.Reg.Equal(lt, ck.Reg.Int) || !ck.Reg.Equal(rt, ck.Reg.Int) {
			ck.errorf(n, "bitwise operator requires Int operands, got %s and %s", lt, rt)
			return nil
		}
		return ck.Reg.Int
	default:
		ck.errorf(n, "unsupported infix operator %s", n.Token.Kind)
		return nil
	}
}

// arith widens Int/Float the way the compiler's opcode selection later
// expects: Int op Int is Int, any Float operand widens the result to Float.
func (ck *Checker) arith(n *ast.Node, lt, rt *types.Type) *types.Type {
	isNum := func(t *types.Type) bool { return ck.Reg.Equal(t, ck.Reg.Int) || ck.Reg.Equal(t, ck.Reg.Float) }
	if !isNum(lt) || !isNum(rt) {
		ck.errorf(n, "arithmetic requires Int or Float operands, got %s and %s", lt, rt)
		return nil
	}
	if ck.Reg.Equal(lt, ck.Reg.Float) || ck.Reg.Equal(rt, ck.Reg.Float) {
		return ck.Reg.Float
	}
	return ck.Reg.Int
}

func (ck *Checker) elabApply(n *ast.Node) *types.Type {
	fn := ck.elabExpr(n.Children[0])
	if fn == nil {
		return nil
	}
	for _, argNode := range n.Children[1:] {
		arg := ck.elabExpr(argNode)
		if arg == nil {
			return nil
		}
		if fn.Kind != types.Function {
			ck.errorf(n, "cannot apply non-function type %s", fn)
			return nil
		}
		if !ck.Reg.Subtype(arg, fn.Domain) {
			ck.errorf(argNode, "argument type %s does not match parameter type %s", arg, fn.Domain)
			return nil
		}
		fn = fn.Codomain
	}
	return fn
}

func (ck *Checker) elabList(n *ast.Node) *types.Type {
	if len(n.Children) == 0 {
		return ck.Reg.NewList(nil) // polymorphic empty list; Elem nil until unified by use
	}
	first := ck.elabExpr(n.Children[0])
	if first == nil {
		return nil
	}
	for _, c := range n.Children[1:] {
		t := ck.elabExpr(c)
		if t == nil {
			return nil
		}
		if !ck.Reg.Equal(t, first) {
			ck.errorf(c, "list elements must share a type: expected %s, got %s", first, t)
			return nil
		}
	}
	return ck.Reg.NewList(first)
}

func (ck *Checker) elabIf(n *ast.Node) *types.Type {
	cond := ck.elabExpr(n.Children[0])
	if cond == nil {
		return nil
	}
	if !ck.Reg.Equal(cond, ck.Reg.Bool) {
		ck.errorf(n.Children[0], "if condition must be Bool, got %s", cond)
		return nil
	}
	then := ck.elabExpr(n.Children[1])
	if then == nil {
		return nil
	}
	if len(n.Children) < 3 {
		return then
	}
	els := ck.elabExpr(n.Children[2])
	if els == nil {
		return nil
	}
	if !ck.Reg.Equal(then, els) {
		ck.errorf(n, "if branches must have the same type, got %s and %s", then, els)
		return nil
	}
	return then
}

func (ck *Checker) elabWith(n *ast.Node) *types.Type {
	ck.push()
	defer ck.pop()

	for _, item := range n.Children[:len(n.Children)-1] {
		ck.elabAssignForm(item)
		if ck.failed() {
			return nil
		}
	}
	return ck.elabExpr(n.Children[len(n.Children)-1])
}

func (ck *Checker) elabQuantifier(n *ast.Node) *types.Type {
	// Children: binder ("all" or "some", a captured leaf the compiler later
	// uses to choose a conjunction or an existential loop), var symbol,
	// sequence expression, body expression.
	if len(n.Children) != 4 {
		ck.errorf(n, "malformed quantifier")
		return nil
	}
	varNode, seqNode, bodyNode := n.Children[1], n.Children[2], n.Children[3]
	seqType := ck.elabExpr(seqNode)
	if seqType == nil {
		return nil
	}
	elem, ok := elemType(seqType)
	if !ok {
		ck.errorf(seqNode, "quantifier source must be a list or generator, got %s", seqType)
		return nil
	}

	ck.push()
	defer ck.pop()
	ck.scope.vars.Put(varNode.Token.Text, elem)
	ck.scope.varNodes.Put(varNode.Token.Text, varNode)

	body := ck.elabExpr(bodyNode)
	if body == nil {
		return nil
	}
	return ck.Reg.Bool
}

func (ck *Checker) elabComprehension(n *ast.Node) *types.Type {
	if len(n.Children) != 3 {
		ck.errorf(n, "malformed comprehension")
		return nil
	}
	resultExpr, varNode, seqNode := n.Children[0], n.Children[1], n.Children[2]
	seqType := ck.elabExpr(seqNode)
	if seqType == nil {
		return nil
	}
	elem, ok := elemType(seqType)
	if !ok {
		ck.errorf(seqNode, "comprehension source must be a list or generator, got %s", seqType)
		return nil
	}

	ck.push()
	defer ck.pop()
	ck.scope.vars.Put(varNode.Token.Text, elem)
	ck.scope.varNodes.Put(varNode.Token.Text, varNode)

	resultType := ck.elabExpr(resultExpr)
	if resultType == nil {
		return nil
	}
	return ck.Reg.NewList(resultType)
}

func (ck *Checker) elabRange(n *ast.Node) *types.Type {
	from := ck.elabExpr(n.Children[0])
	to := ck.elabExpr(n.Children[1])
	if from == nil || to == nil {
		return nil
	}
	if !ck.Reg.Equal(from, ck.Reg.Int) || !ck.Reg.Equal(to, ck.Reg.Int) {
		ck.errorf(n, "range bounds must be Int, got %s and %s", from, to)
		return nil
	}
	if len(n.Children) == 3 {
		step := ck.elabExpr(n.Children[2])
		if step == nil {
			return nil
		}
		if !ck.Reg.Equal(step, ck.Reg.Int) {
			ck.errorf(n.Children[2], "range step must be Int, got %s", step)
			return nil
		}
	}
	return ck.Reg.NewGenerator(ck.Reg.Int)
}

func elemType(t *types.Type) (*types.Type, bool) {
	if t.Kind == types.List || t.Kind == types.Generator {
		return t.Elem, true
	}
	return nil, false
}
