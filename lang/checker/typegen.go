package checker

import (
	"github.com/mna/curlylang/lang/ast"
	"github.com/mna/curlylang/lang/token"
	"github.com/mna/curlylang/lang/types"
)

// generateType interprets a type-expression node as a types.Type, the type
// checker's analogue of elabExpr for the grammar's separate type-expression
// syntax. currentName and self are non-empty/non-nil only while generating
// the right-hand side of `name: Type = <type expr>`: a bare symbol equal to
// currentName refers back to the type being defined, letting a recursive
// named type (e.g. a list node whose tail field is the same named type)
// resolve to self instead of failing an undeclared-name lookup.
func (ck *Checker) generateType(n *ast.Node, currentName string, self *types.Type) *types.Type {
	if ck.failed() || n == nil {
		return nil
	}

	switch {
	case n.Name == ast.NTypeList:
		elem := ck.generateType(n.Children[0], currentName, self)
		if elem == nil {
			return nil
		}
		return ck.Reg.NewList(elem)

	case n.Name == ast.NTypeGenerator:
		elem := ck.generateType(n.Children[0], currentName, self)
		if elem == nil {
			return nil
		}
		return ck.Reg.NewGenerator(elem)

	case n.Name == ast.NTypeField:
		// A single named field reached with no surrounding '*': a product of
		// exactly one field, e.g. the whole right-hand side of `p: Type =
		// name: String`.
		t := ck.generateType(n.Children[0], currentName, self)
		if t == nil {
			return nil
		}
		return ck.Reg.NewProduct([]types.Field{{Name: n.Token.Text, Type: t}})

	case n.Name == ast.NInfixOperator && n.Token.Text == "*":
		fields := ck.flattenProduct(n, currentName, self)
		if fields == nil {
			return nil
		}
		return ck.Reg.NewProduct(fields)

	case n.Name == ast.NInfixOperator && n.Token.Text == "&":
		fields := ck.flattenIntersection(n, currentName, self)
		if fields == nil {
			return nil
		}
		return ck.Reg.NewIntersection(fields)

	case n.Name == ast.NInfixOperator && n.Token.Text == "|":
		variants := ck.flattenUnion(n, currentName, self)
		if variants == nil {
			return nil
		}
		return ck.Reg.NewUnion(variants)

	case n.Name == ast.NInfixOperator && n.Token.Kind == token.SHR:
		domain := ck.generateType(n.Children[0], currentName, self)
		codomain := ck.generateType(n.Children[1], currentName, self)
		if domain == nil || codomain == nil {
			return nil
		}
		return ck.Reg.NewFunction(domain, codomain)

	case len(n.Children) == 0 && n.Token.Kind == token.SYMBOL:
		return ck.generateTypeSymbol(n, currentName, self)

	default:
		ck.errorf(n, "invalid type expression")
		return nil
	}
}

func (ck *Checker) generateTypeSymbol(n *ast.Node, currentName string, self *types.Type) *types.Type {
	name := n.Token.Text
	if self != nil && name == currentName {
		return self
	}
	if t, ok := ck.scope.lookupAlias(name); ok {
		return t
	}
	ck.errorf(n, "undeclared type %q", name)
	return nil
}

// flattenProduct walks a left-associative chain of '*'-joined operands,
// collecting one Field per operand in source order. An operand tagged
// NTypeField contributes its declared name; any other operand contributes an
// anonymous field.
func (ck *Checker) flattenProduct(n *ast.Node, currentName string, self *types.Type) []types.Field {
	if n.Name == ast.NInfixOperator && n.Token.Text == "*" {
		left := ck.flattenProduct(n.Children[0], currentName, self)
		if left == nil {
			return nil
		}
		right := ck.flattenProduct(n.Children[1], currentName, self)
		if right == nil {
			return nil
		}
		return append(left, right...)
	}
	f := ck.productOperand(n, currentName, self)
	if f == nil {
		return nil
	}
	return []types.Field{*f}
}

func (ck *Checker) productOperand(n *ast.Node, currentName string, self *types.Type) *types.Field {
	if n.Name == ast.NTypeField {
		t := ck.generateType(n.Children[0], currentName, self)
		if t == nil {
			return nil
		}
		return &types.Field{Name: n.Token.Text, Type: t}
	}
	t := ck.generateType(n, currentName, self)
	if t == nil {
		return nil
	}
	return &types.Field{Type: t}
}

// flattenIntersection walks a chain of '&'-joined operands. Each operand
// must itself be a product (whose fields are merged in) or some other
// non-primitive type (kept as a single anonymous field); a bare primitive
// cannot participate, since there would be no field to merge it under.
func (ck *Checker) flattenIntersection(n *ast.Node, currentName string, self *types.Type) []types.Field {
	if n.Name == ast.NInfixOperator && n.Token.Text == "&" {
		left := ck.flattenIntersection(n.Children[0], currentName, self)
		if left == nil {
			return nil
		}
		right := ck.flattenIntersection(n.Children[1], currentName, self)
		if right == nil {
			return nil
		}
		return append(left, right...)
	}
	t := ck.generateType(n, currentName, self)
	if t == nil {
		return nil
	}
	if t.Kind == types.Primitive {
		ck.errorf(n, "primitive type %s cannot participate in an intersection", t)
		return nil
	}
	if t.Kind == types.Product {
		return append([]types.Field{}, t.Fields...)
	}
	return []types.Field{{Type: t}}
}

// flattenUnion walks a chain of '|'-joined operands into ordered Variants.
// A single-field product operand (e.g. `ok: Int`) collapses to its
// underlying field type, tagged by the field's name, rather than nesting a
// one-field product inside the union.
func (ck *Checker) flattenUnion(n *ast.Node, currentName string, self *types.Type) []types.Variant {
	if n.Name == ast.NInfixOperator && n.Token.Text == "|" {
		left := ck.flattenUnion(n.Children[0], currentName, self)
		if left == nil {
			return nil
		}
		right := ck.flattenUnion(n.Children[1], currentName, self)
		if right == nil {
			return nil
		}
		return append(left, right...)
	}
	v := ck.unionOperand(n, currentName, self)
	if v == nil {
		return nil
	}
	return []types.Variant{*v}
}

func (ck *Checker) unionOperand(n *ast.Node, currentName string, self *types.Type) *types.Variant {
	t := ck.generateType(n, currentName, self)
	if t == nil {
		return nil
	}
	if t.Kind == types.Product && len(t.Fields) == 1 {
		f := t.Fields[0]
		return &types.Variant{Name: f.Name, Type: f.Type}
	}
	return &types.Variant{Type: t}
}
