package types

import "fmt"

// Registry interns Types so that two structurally identical types built at
// different points end up as the same *Type, letting later comparisons
// short-circuit on pointer equality instead of re-walking the structure.
type Registry struct {
	arena []*Type

	// Built-in primitives, seeded once by NewRegistry. Int, Float, Bool and
	// String are the literal types; TypeType and EnumType are the built-in
	// type constructors a typed assignment's right-hand side may name to
	// introduce a new named type or enum; Nil is the type of the nil
	// literal.
	Int, Float, Bool, String *Type
	TypeType, EnumType       *Type
	Nil                      *Type
}

// NewRegistry returns an empty registry seeded with the built-in
// primitives.
func NewRegistry() *Registry {
	r := &Registry{}
	r.seedPrimitives()
	return r
}

func (r *Registry) add(t *Type) *Type {
	t.reg = r
	t.idx = len(r.arena)
	r.arena = append(r.arena, t)
	return t
}

// At returns the type stored at arena index idx, used to resolve a
// back-reference recorded while building a recursive type.
func (r *Registry) At(idx int) *Type {
	if idx < 0 || idx >= len(r.arena) {
		return nil
	}
	return r.arena[idx]
}

// Intern returns t, or an existing structurally equal type already owned by
// r, so that repeated construction of the same shape (e.g. the same product
// type written out twice) collapses to a single identity.
func (r *Registry) Intern(t *Type) *Type {
	for _, existing := range r.arena {
		if r.Equal(existing, t) {
			return existing
		}
	}
	return r.add(t)
}

// Equal reports whether a and b are structurally equal: same kind, same
// field/variant counts, and all corresponding subtypes equal in turn
// (primitives compared by name). Identity short-circuits. The visited set
// guards against infinite recursion on cyclic descriptors (a type that
// refers back to itself through a field), tracking pairs of arena indices
// already assumed equal, in the spirit of a co-inductive bisimulation.
func (r *Registry) Equal(a, b *Type) bool {
	return equal(a, b, map[[2]int]bool{})
}

func equal(a, b *Type, visited map[[2]int]bool) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	// An unbound type variable resolves to whatever concrete type it's
	// first compared against: bind it in place so every other reference to
	// the same *Type pointer sees the resolution from now on.
	if a.Kind == Var && b.Kind != Var {
		bind(a, b)
		return true
	}
	if b.Kind == Var && a.Kind != Var {
		bind(b, a)
		return true
	}
	if a.Kind == Var && b.Kind == Var {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	key := [2]int{a.idx, b.idx}
	if visited[key] {
		return true
	}
	visited[key] = true

	switch a.Kind {
	case Primitive:
		return a.Name == b.Name
	case Product, Intersection:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i, f := range a.Fields {
			g := b.Fields[i]
			if f.Name != g.Name || !equal(f.Type, g.Type, visited) {
				return false
			}
		}
		return true
	case Union:
		if len(a.Variants) != len(b.Variants) {
			return false
		}
		for i, f := range a.Variants {
			g := b.Variants[i]
			if f.Name != g.Name || !equal(f.Type, g.Type, visited) {
				return false
			}
		}
		return true
	case Function:
		return equal(a.Domain, b.Domain, visited) && equal(a.Codomain, b.Codomain, visited)
	case List, Generator:
		return equal(a.Elem, b.Elem, visited)
	case EnumConst:
		return a.Name == b.Name && a.EnumName == b.EnumName
	default:
		return false
	}
}

// bind mutates dst in place to take on src's shape, used both to resolve an
// unbound Var the first time it's compared against a concrete type, and by
// Finalize to fill in a Forward placeholder once the type it names has been
// fully built. dst keeps its own arena identity (idx, reg) so every existing
// reference to the *Type pointer observes the resolution.
func bind(dst, src *Type) {
	idx, reg := dst.idx, dst.reg
	*dst = *src
	dst.idx, dst.reg = idx, reg
}

// Forward registers an empty placeholder type under the given name, used to
// give a recursive named type (or an unannotated function parameter) a
// stable identity before its actual shape is known. The placeholder must
// later be resolved with Finalize.
func (r *Registry) Forward(name string) *Type {
	return r.add(&Type{Kind: Var, Name: name})
}

// Finalize resolves a placeholder previously returned by Forward (or a Var
// created by NewVar) to src's shape. Any other *Type that was compared
// against the placeholder before this call already observed it as equal to
// whatever it was first unified with; Finalize is what a recursive named
// type's definition uses once its body has been fully generated, and what
// the checker uses once an unannotated parameter's use inside a function
// body has pinned down its type.
func (r *Registry) Finalize(placeholder, src *Type) {
	bind(placeholder, src)
}

// NewVar returns a fresh unbound type variable. Two distinct Vars are never
// equal to each other (see Equal); a Var unifies with whatever concrete type
// it is first compared against.
func (r *Registry) NewVar(name string) *Type {
	return r.add(&Type{Kind: Var, Name: name})
}

// Subtype reports whether a is a subtype of b. The relation is
// conservative: it coincides with Equal except that a union is a supertype
// of any one of its variants.
func (r *Registry) Subtype(a, b *Type) bool {
	if r.Equal(a, b) {
		return true
	}
	if b.Kind == Union {
		for _, v := range b.Variants {
			if r.Equal(a, v.Type) {
				return true
			}
		}
	}
	return false
}

func (t *Type) String() string {
	if t == nil {
		return "<nil type>"
	}
	switch t.Kind {
	case Primitive:
		return t.Name
	case Product:
		return fmt.Sprintf("product%s", fieldsString(t.Fields))
	case Intersection:
		return fmt.Sprintf("intersection%s", fieldsString(t.Fields))
	case Union:
		s := "union("
		for i, v := range t.Variants {
			if i > 0 {
				s += " | "
			}
			if v.Name != "" {
				s += v.Name + ": "
			}
			s += v.Type.String()
		}
		return s + ")"
	case Function:
		return fmt.Sprintf("(%s -> %s)", t.Domain, t.Codomain)
	case List:
		return fmt.Sprintf("list(%s)", t.Elem)
	case Generator:
		return fmt.Sprintf("generator(%s)", t.Elem)
	case EnumConst:
		return fmt.Sprintf("%s.%s", t.EnumName, t.Name)
	default:
		return "<invalid type>"
	}
}

func fieldsString(fs []Field) string {
	s := "("
	for i, f := range fs {
		if i > 0 {
			s += ", "
		}
		if f.Name != "" {
			s += f.Name + ": "
		}
		s += f.Type.String()
	}
	return s + ")"
}
