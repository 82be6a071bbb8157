package typesystem

import "testing"

func TestUnifySimpleBindings(t *testing.T) {
	tests := []struct {
		name string
		eqs  []Equality
		want map[int]Type
	}{
		{
			name: "variable to ground type",
			eqs:  []Equality{{TVar{0}, TInt{}}},
			want: map[int]Type{0: TInt{}},
		},
		{
			name: "symmetric binding",
			eqs:  []Equality{{TBool{}, TVar{1}}},
			want: map[int]Type{1: TBool{}},
		},
		{
			name: "same variable discarded",
			eqs:  []Equality{{TVar{2}, TVar{2}}},
			want: map[int]Type{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subst, err := Unify(tt.eqs)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for k, v := range tt.want {
				got, ok := subst[k]
				if !ok {
					t.Fatalf("missing substitution for %d", k)
				}
				if got.String() != v.String() {
					t.Errorf("subst[%d] = %s, want %s", k, got, v)
				}
			}
		})
	}
}

func TestUnifyFunctionAndTuple(t *testing.T) {
	// (t0 -> t1) = (int -> bool)
	eqs := []Equality{
		{TFunc{From: TVar{0}, To: TVar{1}}, TFunc{From: TInt{}, To: TBool{}}},
	}
	subst, err := Unify(eqs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subst[0].String() != "int" || subst[1].String() != "bool" {
		t.Fatalf("got subst %v", subst)
	}

	// (t2, t3) = (int, string)
	eqs = []Equality{
		{TTuple{Elems: []Type{TVar{2}, TVar{3}}}, TTuple{Elems: []Type{TInt{}, TString{}}}},
	}
	subst, err = Unify(eqs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subst[2].String() != "int" || subst[3].String() != "string" {
		t.Fatalf("got subst %v", subst)
	}
}

func TestUnifyMismatch(t *testing.T) {
	_, err := Unify([]Equality{{TInt{}, TBool{}}})
	if err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestUnifySumTypeIdMismatch(t *testing.T) {
	_, err := Unify([]Equality{
		{TSum{Target: 0, Args: []Type{TInt{}}}, TSum{Target: 1, Args: []Type{TInt{}}}},
	})
	if err == nil {
		t.Fatal("expected mismatch error for differing sum type ids")
	}
}

func TestUnifyOccursCheck(t *testing.T) {
	// t0 = (t0 -> int) should fail: t0 occurs in its own binding.
	_, err := Unify([]Equality{
		{TVar{0}, TFunc{From: TVar{0}, To: TInt{}}},
	})
	if err == nil {
		t.Fatal("expected occurs-check failure")
	}
}

func TestGeneralizeAndInstantiateRoundTrip(t *testing.T) {
	// t5 -> t6 -> t5, generalized, should become a -> b -> a, and
	// instantiating from var 10 should reproduce a fresh pair of the same
	// shape (t10 -> t11 -> t10).
	original := TFunc{From: TVar{5}, To: TFunc{From: TVar{6}, To: TVar{5}}}
	mapping := make(map[int]int)
	gen := Generalize(original, mapping)

	want := "a -> b -> a"
	if gen.String() != want {
		t.Fatalf("Generalize() = %s, want %s", gen, want)
	}

	inst, next := Instantiate(gen, 10)
	wantInst := "t10 -> t11 -> t10"
	if inst.String() != wantInst {
		t.Fatalf("Instantiate() = %s, want %s", inst, wantInst)
	}
	if next != 12 {
		t.Fatalf("Instantiate() next = %d, want 12", next)
	}
}
