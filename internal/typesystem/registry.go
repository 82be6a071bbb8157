package typesystem

import "fmt"

// Variant is one named alternative of a sum type. FieldType may reference
// TGeneric(0..NumGenerics) of the owning TypeDecl.
type Variant struct {
	Name      string
	FieldType Type
}

// TypeDecl is an entry in the sum-type registry: an ordered, append-only
// list indexed by Type.Target / TSum.Target / TConstructor.Target.
type TypeDecl struct {
	Name        string
	NumGenerics int
	Variants    []Variant
}

// Registry is the ordered sum-type registry (§3.2). TypeDecls are appended
// as type declarations are processed and are never removed (§3.10).
type Registry struct {
	decls []TypeDecl
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Declare appends a new TypeDecl and returns its registry id.
func (r *Registry) Declare(decl TypeDecl) int {
	id := len(r.decls)
	r.decls = append(r.decls, decl)
	return id
}

// Lookup returns the TypeDecl for id. It panics on an out-of-range id:
// every id the checker hands out comes from Declare, so an invalid id is
// always an invariant violation, never user-observable.
func (r *Registry) Lookup(id int) *TypeDecl {
	if id < 0 || id >= len(r.decls) {
		panic(fmt.Sprintf("typesystem: invalid type id %d", id))
	}
	return &r.decls[id]
}

// Len returns the number of declared types.
func (r *Registry) Len() int { return len(r.decls) }

// InstantiateVariant instantiates variant `position` (1-based) of type
// `target`, substituting TGeneric(0..NumGenerics) with fresh TVars starting
// at firstVar. It returns the instantiated field type, the instantiated sum
// type itself, and the next free variable index.
func (r *Registry) InstantiateVariant(target, position, firstVar int) (field Type, sum Type, nextVar int) {
	decl := r.Lookup(target)
	args := make([]Type, decl.NumGenerics)
	next := firstVar
	for i := range args {
		args[i] = TVar{Index: next}
		next++
	}
	genToVar := make(map[int]Type, decl.NumGenerics)
	for i, a := range args {
		genToVar[i] = a
	}
	variant := decl.Variants[position-1]
	field = substGenerics(variant.FieldType, genToVar)
	sum = TSum{Target: target, Args: args}
	return field, sum, next
}

// substGenerics replaces every TGeneric(n) in t with genToVar[n]. It is used
// only to instantiate a registry-stored, generic variant type into a
// concrete one seeded with fresh variables — never on types already free of
// generics.
func substGenerics(t Type, m map[int]Type) Type {
	switch t := t.(type) {
	case TGeneric:
		if v, ok := m[t.Index]; ok {
			return v
		}
		return t
	case TFunc:
		return TFunc{From: substGenerics(t.From, m), To: substGenerics(t.To, m)}
	case TTuple:
		elems := make([]Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = substGenerics(e, m)
		}
		return TTuple{Elems: elems}
	case TSum:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = substGenerics(a, m)
		}
		return TSum{Target: t.Target, Args: args}
	default:
		return t
	}
}

// ProtoType is a surface-syntax type as written in a type declaration,
// converted into a concrete Type by ToType.
type ProtoType interface {
	protoType()
}

type (
	ProtoUnit   struct{}
	ProtoInt    struct{}
	ProtoBool   struct{}
	ProtoString struct{}
	ProtoFunc   struct{ From, To ProtoType }
	ProtoTuple  struct{ Elems []ProtoType }
	ProtoSum    struct {
		Name string
		Args []ProtoType
	}
	ProtoGeneric struct{ Name string }
)

func (ProtoUnit) protoType()    {}
func (ProtoInt) protoType()     {}
func (ProtoBool) protoType()    {}
func (ProtoString) protoType()  {}
func (ProtoFunc) protoType()    {}
func (ProtoTuple) protoType()   {}
func (ProtoSum) protoType()     {}
func (ProtoGeneric) protoType() {}

// ToType lowers a ProtoType into a concrete Type using the given sum-type
// name table and generic-parameter index table. Returns an error naming the
// unresolved identifier rather than panicking, since this is reachable from
// user-supplied type declarations.
func ToType(p ProtoType, typeMap map[string]int, genMap map[string]int) (Type, error) {
	switch p := p.(type) {
	case ProtoUnit:
		return TUnit{}, nil
	case ProtoInt:
		return TInt{}, nil
	case ProtoBool:
		return TBool{}, nil
	case ProtoString:
		return TString{}, nil
	case ProtoFunc:
		from, err := ToType(p.From, typeMap, genMap)
		if err != nil {
			return nil, err
		}
		to, err := ToType(p.To, typeMap, genMap)
		if err != nil {
			return nil, err
		}
		return TFunc{From: from, To: to}, nil
	case ProtoTuple:
		elems := make([]Type, len(p.Elems))
		for i, e := range p.Elems {
			t, err := ToType(e, typeMap, genMap)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return TTuple{Elems: elems}, nil
	case ProtoGeneric:
		n, ok := genMap[p.Name]
		if !ok {
			return nil, fmt.Errorf("generic parameter not found: %s", p.Name)
		}
		return TGeneric{Index: n}, nil
	case ProtoSum:
		// A capitalized generic parameter (`T` in `type List(T)`) is lexed
		// as a constructor name; it resolves to the parameter first.
		if n, ok := genMap[p.Name]; ok && len(p.Args) == 0 {
			return TGeneric{Index: n}, nil
		}
		id, ok := typeMap[p.Name]
		if !ok {
			return nil, fmt.Errorf("type not defined: %s", p.Name)
		}
		args := make([]Type, len(p.Args))
		for i, a := range p.Args {
			t, err := ToType(a, typeMap, genMap)
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		return TSum{Target: id, Args: args}, nil
	default:
		panic(fmt.Sprintf("typesystem: unknown ProtoType %T", p))
	}
}
