package typesystem

import "testing"

func TestRegistryInstantiateVariant(t *testing.T) {
	// type List(T) = | Nil () | Cons (T, List T)
	reg := NewRegistry()
	id := reg.Declare(TypeDecl{Name: "List", NumGenerics: 1, Variants: []Variant{
		{Name: "Nil", FieldType: TUnit{}},
		{Name: "Cons", FieldType: TTuple{Elems: []Type{
			TGeneric{Index: 0},
			TSum{Target: -1, Args: []Type{TGeneric{Index: 0}}}, // patched below
		}}},
	}})
	// patch self-reference now that id is known
	reg.decls[id].Variants[1].FieldType = TTuple{Elems: []Type{
		TGeneric{Index: 0},
		TSum{Target: id, Args: []Type{TGeneric{Index: 0}}},
	}}

	field, sum, next := reg.InstantiateVariant(id, 2, 5)
	if next != 6 {
		t.Fatalf("next = %d, want 6", next)
	}
	wantField := "(t5, ~0(t5))"
	if field.String() != wantField {
		t.Errorf("field = %s, want %s", field, wantField)
	}
	wantSum := "~0(t5)"
	if sum.String() != wantSum {
		t.Errorf("sum = %s, want %s", sum, wantSum)
	}
}

func TestToTypeTypeNotDefined(t *testing.T) {
	_, err := ToType(ProtoSum{Name: "Missing"}, map[string]int{}, map[string]int{})
	if err == nil {
		t.Fatal("expected error for undefined type")
	}
}
