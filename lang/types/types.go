// Package types implements the structural type algebra used by the checker
// to annotate every AST node and by the compiler to select opcodes.
//
// Every Type is interned in a process-wide Registry so that structural
// equality between two already-built types can short-circuit on pointer
// identity, the way the original C frontend's type_t linked list let
// types_equal skip the field-by-field walk when given the same pointer
// twice.
package types

// Kind distinguishes the shape of a Type.
type Kind uint8

// List of type kinds.
const (
	Invalid Kind = iota
	Primitive
	Product
	Union
	Intersection
	Function
	List
	Generator
	EnumConst

	// Var is an unbound type variable: a placeholder for an unannotated
	// function parameter's type, resolved to whatever concrete type it is
	// first compared against during elaboration (see Registry.Equal). Not
	// part of the source-level type algebra the spec describes; purely an
	// elaborator bookkeeping device.
	Var
)

func (k Kind) String() string {
	switch k {
	case Primitive:
		return "primitive"
	case Product:
		return "product"
	case Union:
		return "union"
	case Intersection:
		return "intersection"
	case Function:
		return "function"
	case List:
		return "list"
	case Generator:
		return "generator"
	case EnumConst:
		return "enum"
	case Var:
		return "var"
	default:
		return "invalid"
	}
}

// Field is a named, ordered member of a Product or a flattened
// Intersection.
type Field struct {
	Name string
	Type *Type
}

// Variant is a named, ordered member of a Union.
type Variant struct {
	Name string // may be empty for an unnamed variant
	Type *Type
}

// Type is a structural type descriptor. Every Type reachable from checked
// code is owned by exactly one Registry; the idx field is that registry's
// arena slot, used so a recursive type (one whose field refers back to
// itself) can be represented as a back-edge without a cycle in Go's garbage
// collector tripping up naive structural walks: see Registry.Equal.
type Type struct {
	idx  int
	reg  *Registry
	Kind Kind

	// Name holds the primitive name ("Int", "Float", ...) for a Primitive,
	// or the declared alias for a named product/union/enum introduced by a
	// typed assignment whose right-hand side is the built-in Type or Enum.
	Name string

	Fields   []Field   // Product, and the flattened members of Intersection
	Variants []Variant // Union

	Domain, Codomain *Type // Function; Codomain may itself be a Function for curried calls

	Elem *Type // List, Generator

	EnumName string // EnumConst: the name of the enclosing enum type
}

// Idx returns the type's arena index in its owning registry.
func (t *Type) Idx() int { return t.idx }
