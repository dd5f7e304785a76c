package types

func (r *Registry) primitive(name string) *Type {
	return r.add(&Type{Kind: Primitive, Name: name})
}

func (r *Registry) seedPrimitives() {
	r.Int = r.primitive("Int")
	r.Float = r.primitive("Float")
	r.Bool = r.primitive("Bool")
	r.String = r.primitive("String")
	r.TypeType = r.primitive("Type")
	r.EnumType = r.primitive("Enum")
	r.Nil = r.primitive("Nil")
}

// NewProduct interns a product type with the given ordered fields.
func (r *Registry) NewProduct(fields []Field) *Type {
	return r.Intern(&Type{Kind: Product, Fields: fields})
}

// NewUnion interns a union type with the given ordered variants. A
// single-field product participant is collapsed by the caller (generate_type)
// to its underlying type before reaching here, tagged with the field's name.
func (r *Registry) NewUnion(variants []Variant) *Type {
	return r.Intern(&Type{Kind: Union, Variants: variants})
}

// NewIntersection interns an intersection type whose Fields are the
// concatenation of every participating product's fields, already flattened
// by the caller.
func (r *Registry) NewIntersection(fields []Field) *Type {
	return r.Intern(&Type{Kind: Intersection, Fields: fields})
}

// NewFunction interns a binary function type domain -> codomain. Multi-
// argument functions are represented as a right-associative curry chain:
// the codomain of one Function is itself a Function.
func (r *Registry) NewFunction(domain, codomain *Type) *Type {
	return r.Intern(&Type{Kind: Function, Domain: domain, Codomain: codomain})
}

// NewList interns the type of a list whose elements have type elem.
func (r *Registry) NewList(elem *Type) *Type {
	return r.Intern(&Type{Kind: List, Elem: elem})
}

// NewGenerator interns the type of a lazy sequence of elem.
func (r *Registry) NewGenerator(elem *Type) *Type {
	return r.Intern(&Type{Kind: Generator, Elem: elem})
}

// NewNamed interns a named alias for an existing type, as produced by a
// typed assignment `x: Type = <type expr>`.
func (r *Registry) NewNamed(name string, underlying *Type) *Type {
	t := *underlying
	t.Name = name
	return r.Intern(&t)
}

// NewEnum interns the enum type named name with the given constant members,
// and returns both the enum type and its member constants in declaration
// order.
func (r *Registry) NewEnum(name string, members []string) (enum *Type, consts []*Type) {
	consts = make([]*Type, len(members))
	for i, m := range members {
		consts[i] = r.add(&Type{Kind: EnumConst, Name: m, EnumName: name})
	}
	variants := make([]Variant, len(members))
	for i, c := range consts {
		variants[i] = Variant{Name: c.Name, Type: c}
	}
	enum = r.Intern(&Type{Kind: Union, Name: name, Variants: variants})
	return enum, consts
}
