package typesystem

import "fmt"

// Subst maps Variable indices to their solved Type.
type Subst map[int]Type

// Equality is one constraint handed to Unify: Left must equal Right.
type Equality struct {
	Left, Right Type
}

// MismatchError reports a unification failure between two types that could
// not be made structurally equal.
type MismatchError struct {
	Left, Right Type
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("type mismatch: %s vs %s", e.Left, e.Right)
}

// Unify solves a worklist of type equalities (§4.1), repeatedly popping an
// equality and processing it per the algorithm in spec.md §4.1. It returns
// the accumulated substitution, or the first MismatchError encountered.
//
// occurs-check is performed explicitly (spec.md §4.1 marks it recommended):
// binding Variable(n) to a type that still contains Variable(n) after prior
// substitution is rejected as a mismatch, since this type system has no
// recursive (equi-recursive) types.
func Unify(equalities []Equality) (Subst, error) {
	subst := make(Subst)
	worklist := append([]Equality(nil), equalities...)

	for len(worklist) > 0 {
		n := len(worklist) - 1
		eq := worklist[n]
		worklist = worklist[:n]

		l, r := eq.Left, eq.Right
		switch {
		case isVariable(l) && isVariable(r) && l.(TVar).Index == r.(TVar).Index:
			// discard
		case isVariable(l):
			v := l.(TVar)
			if containsVar(r, v.Index) {
				return nil, &MismatchError{Left: l, Right: r}
			}
			worklist = rewrite(worklist, v.Index, r)
			subst = rewriteSubst(subst, v.Index, r)
			subst[v.Index] = r
		case isVariable(r):
			v := r.(TVar)
			if containsVar(l, v.Index) {
				return nil, &MismatchError{Left: l, Right: r}
			}
			worklist = rewrite(worklist, v.Index, l)
			subst = rewriteSubst(subst, v.Index, l)
			subst[v.Index] = l
		default:
			var err error
			worklist, err = unifyShapes(worklist, l, r)
			if err != nil {
				return nil, err
			}
		}
	}
	return subst, nil
}

func unifyShapes(worklist []Equality, l, r Type) ([]Equality, error) {
	switch l := l.(type) {
	case TUnit:
		if _, ok := r.(TUnit); ok {
			return worklist, nil
		}
	case TInt:
		if _, ok := r.(TInt); ok {
			return worklist, nil
		}
	case TBool:
		if _, ok := r.(TBool); ok {
			return worklist, nil
		}
	case TString:
		if _, ok := r.(TString); ok {
			return worklist, nil
		}
	case TFunc:
		if r, ok := r.(TFunc); ok {
			worklist = append(worklist, Equality{l.From, r.From}, Equality{l.To, r.To})
			return worklist, nil
		}
	case TTuple:
		if r, ok := r.(TTuple); ok && len(l.Elems) == len(r.Elems) {
			for i := range l.Elems {
				worklist = append(worklist, Equality{l.Elems[i], r.Elems[i]})
			}
			return worklist, nil
		}
	case TSum:
		if r, ok := r.(TSum); ok && l.Target == r.Target && len(l.Args) == len(r.Args) {
			for i := range l.Args {
				worklist = append(worklist, Equality{l.Args[i], r.Args[i]})
			}
			return worklist, nil
		}
	case TConstructor:
		// A Constructor appearing at top level during unification is a
		// bug: constructors are instantiated to TFunc(arg, TSum(...))
		// at use sites (§4.4.4) before ever reaching Unify.
		panic("typesystem: TConstructor reached Unify")
	}
	if _, ok := r.(TConstructor); ok {
		panic("typesystem: TConstructor reached Unify")
	}
	return worklist, &MismatchError{Left: l, Right: r}
}

func isVariable(t Type) bool {
	_, ok := t.(TVar)
	return ok
}

func containsVar(t Type, n int) bool {
	for _, v := range t.FreeVariables() {
		if v == n {
			return true
		}
	}
	return false
}

// rewrite replaces every occurrence of Variable(n) in each equality's sides
// with target, following the §4.1 "rewrite every remaining equality" rule.
func rewrite(worklist []Equality, n int, target Type) []Equality {
	for i, eq := range worklist {
		worklist[i] = Equality{
			Left:  replaceVar(eq.Left, n, target),
			Right: replaceVar(eq.Right, n, target),
		}
	}
	return worklist
}

// rewriteSubst rewrites previously recorded substitution targets, which is
// equivalent to following indirection chains on lookup (§4.1).
func rewriteSubst(s Subst, n int, target Type) Subst {
	for k, v := range s {
		s[k] = replaceVar(v, n, target)
	}
	return s
}

func replaceVar(t Type, n int, target Type) Type {
	switch t := t.(type) {
	case TVar:
		if t.Index == n {
			return target
		}
		return t
	case TFunc:
		return TFunc{From: replaceVar(t.From, n, target), To: replaceVar(t.To, n, target)}
	case TTuple:
		elems := make([]Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = replaceVar(e, n, target)
		}
		return TTuple{Elems: elems}
	case TSum:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = replaceVar(a, n, target)
		}
		return TSum{Target: t.Target, Args: args}
	default:
		return t
	}
}

// Apply substitutes every Variable in t per subst, following chains (a
// variable may map to a type that itself contains substituted variables).
func Apply(t Type, subst Subst) Type {
	switch t := t.(type) {
	case TVar:
		if repl, ok := subst[t.Index]; ok {
			if rv, ok := repl.(TVar); ok && rv.Index == t.Index {
				return t
			}
			return Apply(repl, subst)
		}
		return t
	case TFunc:
		return TFunc{From: Apply(t.From, subst), To: Apply(t.To, subst)}
	case TTuple:
		elems := make([]Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = Apply(e, subst)
		}
		return TTuple{Elems: elems}
	case TSum:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = Apply(a, subst)
		}
		return TSum{Target: t.Target, Args: args}
	default:
		return t
	}
}

// Generalize renames every free Variable in t to a fresh Generic, memoizing
// the variable-to-generic index per call site via mapping (§4.4.6). Callers
// share one `mapping` across every type generalized within a single binding
// so that the same Variable always maps to the same Generic.
func Generalize(t Type, mapping map[int]int) Type {
	switch t := t.(type) {
	case TVar:
		idx, ok := mapping[t.Index]
		if !ok {
			idx = len(mapping)
			mapping[t.Index] = idx
		}
		return TGeneric{Index: idx}
	case TFunc:
		return TFunc{From: Generalize(t.From, mapping), To: Generalize(t.To, mapping)}
	case TTuple:
		elems := make([]Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = Generalize(e, mapping)
		}
		return TTuple{Elems: elems}
	case TSum:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = Generalize(a, mapping)
		}
		return TSum{Target: t.Target, Args: args}
	default:
		return t
	}
}

// Instantiate substitutes each TGeneric(n) in t with TVar(firstVar+n),
// returning the instantiated type and the next free variable index (one
// past the highest variable introduced).
func Instantiate(t Type, firstVar int) (Type, int) {
	switch t := t.(type) {
	case TGeneric:
		return TVar{Index: firstVar + t.Index}, firstVar + t.Index + 1
	case TFunc:
		from, n1 := Instantiate(t.From, firstVar)
		to, n2 := Instantiate(t.To, firstVar)
		return TFunc{From: from, To: to}, max(n1, n2)
	case TTuple:
		elems := make([]Type, len(t.Elems))
		next := firstVar
		for i, e := range t.Elems {
			var n int
			elems[i], n = Instantiate(e, firstVar)
			if n > next {
				next = n
			}
		}
		return TTuple{Elems: elems}, next
	case TSum:
		args := make([]Type, len(t.Args))
		next := firstVar
		for i, a := range t.Args {
			var n int
			args[i], n = Instantiate(a, firstVar)
			if n > next {
				next = n
			}
		}
		return TSum{Target: t.Target, Args: args}, next
	default:
		return t, firstVar
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
