package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitivesIdentity(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.Equal(r.Int, r.Int))
	assert.False(t, r.Equal(r.Int, r.Float))
}

func TestInternCollapsesStructuralDuplicates(t *testing.T) {
	r := NewRegistry()
	a := r.NewProduct([]Field{{Name: "x", Type: r.Int}, {Name: "y", Type: r.Float}})
	b := r.NewProduct([]Field{{Name: "x", Type: r.Int}, {Name: "y", Type: r.Float}})
	assert.Same(t, a, b, "structurally identical products must intern to the same pointer")

	c := r.NewProduct([]Field{{Name: "x", Type: r.Int}, {Name: "z", Type: r.Float}})
	assert.NotSame(t, a, c)
	assert.False(t, r.Equal(a, c))
}

func TestFunctionCurryChain(t *testing.T) {
	r := NewRegistry()
	// Int -> Int -> Bool
	inner := r.NewFunction(r.Int, r.Bool)
	outer := r.NewFunction(r.Int, inner)
	require.Equal(t, Function, outer.Kind)
	assert.Same(t, r.Int, outer.Domain)
	assert.Same(t, inner, outer.Codomain)
}

func TestUnionSupertypeOfVariant(t *testing.T) {
	r := NewRegistry()
	u := r.NewUnion([]Variant{{Name: "ok", Type: r.Int}, {Name: "err", Type: r.String}})
	assert.True(t, r.Subtype(r.Int, u))
	assert.True(t, r.Subtype(r.String, u))
	assert.False(t, r.Subtype(r.Bool, u))
}

func TestListAndGeneratorElem(t *testing.T) {
	r := NewRegistry()
	l := r.NewList(r.Int)
	g := r.NewGenerator(r.Int)
	require.Equal(t, List, l.Kind)
	require.Equal(t, Generator, g.Kind)
	assert.False(t, r.Equal(l, g), "list and generator of the same element are distinct kinds")
}

func TestNewEnum(t *testing.T) {
	r := NewRegistry()
	enum, consts := r.NewEnum("Color", []string{"Red", "Green", "Blue"})
	require.Len(t, consts, 3)
	assert.Equal(t, "Red", consts[0].Name)
	assert.Equal(t, "Color", consts[0].EnumName)
	assert.True(t, r.Subtype(consts[0], enum))
}

func TestVarBindsOnFirstCompare(t *testing.T) {
	r := NewRegistry()
	v := r.NewVar("x")
	require.Equal(t, Var, v.Kind)

	assert.True(t, r.Equal(v, r.Int))
	assert.Equal(t, Primitive, v.Kind)
	assert.True(t, r.Equal(v, r.Int))
	assert.False(t, r.Equal(v, r.Float))
}

func TestTwoDistinctVarsNotEqual(t *testing.T) {
	r := NewRegistry()
	a := r.NewVar("a")
	b := r.NewVar("b")
	assert.False(t, r.Equal(a, b))
}

func TestForwardAndFinalizeResolveNamedType(t *testing.T) {
	r := NewRegistry()
	placeholder := r.Forward("List")
	ref := placeholder // a use recorded before the body is known

	body := &Type{Kind: Product, Fields: []Field{
		{Name: "head", Type: r.Int},
		{Name: "tail", Type: placeholder},
	}}
	r.Finalize(placeholder, body)

	assert.Equal(t, Product, placeholder.Kind)
	assert.Same(t, placeholder, ref, "Finalize mutates in place, identity is preserved")
	assert.True(t, r.Equal(placeholder.Fields[1].Type, placeholder))
}

func TestRecursiveTypeEquality(t *testing.T) {
	r := NewRegistry()
	// Build a self-referential product: List{ head Int, tail *List }.
	self := &Type{Kind: Product}
	self.Fields = []Field{{Name: "head", Type: r.Int}, {Name: "tail", Type: self}}
	r.add(self)

	other := &Type{Kind: Product}
	other.Fields = []Field{{Name: "head", Type: r.Int}, {Name: "tail", Type: other}}
	r.add(other)

	assert.True(t, r.Equal(self, other))
}
