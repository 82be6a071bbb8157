// Package typesystem defines the closed type universe the checker and
// interpreter share: ground types, curried function types, tuples, nominal
// sum types, generic/unification variables, and the sum-type registry they
// are indexed against.
package typesystem

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mnhoque/clog/internal/config"
)

// Type is the interface every member of the closed type universe implements.
// A well-formed final IR contains only Unit, Int, Bool, String, Function,
// Tuple, Sum and Generic — Variable and Constructor are transient and must
// not survive past the binding (Variable) or use site (Constructor) that
// introduces them.
type Type interface {
	String() string
	// FreeVariables returns the distinct Variable indices appearing in t,
	// in order of first occurrence.
	FreeVariables() []int
	isType()
}

// Unit, Int, Bool, String are the ground types.
type (
	TUnit   struct{}
	TInt    struct{}
	TBool   struct{}
	TString struct{}
)

func (TUnit) isType()   {}
func (TInt) isType()    {}
func (TBool) isType()   {}
func (TString) isType() {}

func (TUnit) String() string   { return "unit" }
func (TInt) String() string    { return "int" }
func (TBool) String() string   { return "bool" }
func (TString) String() string { return "string" }

func (TUnit) FreeVariables() []int   { return nil }
func (TInt) FreeVariables() []int    { return nil }
func (TBool) FreeVariables() []int   { return nil }
func (TString) FreeVariables() []int { return nil }

// TFunc is a unary function type; multi-argument functions curry as nested
// TFuncs.
type TFunc struct {
	From Type
	To   Type
}

func (TFunc) isType() {}

func (t TFunc) String() string {
	var b strings.Builder
	if _, ok := t.From.(TFunc); ok {
		fmt.Fprintf(&b, "(%s) -> %s", t.From, t.To)
	} else {
		fmt.Fprintf(&b, "%s -> %s", t.From, t.To)
	}
	return b.String()
}

func (t TFunc) FreeVariables() []int {
	return mergeFree(t.From.FreeVariables(), t.To.FreeVariables())
}

// TTuple is an n-ary product, n >= 2.
type TTuple struct {
	Elems []Type
}

func (TTuple) isType() {}

func (t TTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t TTuple) FreeVariables() []int {
	var out []int
	for _, e := range t.Elems {
		out = mergeFree(out, e.FreeVariables())
	}
	return out
}

// TSum is a named nominal sum type with Args type arguments; Target indexes
// into the Registry.
type TSum struct {
	Target int
	Args   []Type
}

func (TSum) isType() {}

func (t TSum) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	if len(parts) == 0 {
		return fmt.Sprintf("~%d", t.Target)
	}
	return fmt.Sprintf("~%d(%s)", t.Target, strings.Join(parts, ", "))
}

func (t TSum) FreeVariables() []int {
	var out []int
	for _, a := range t.Args {
		out = mergeFree(out, a.FreeVariables())
	}
	return out
}

// TGeneric is a universally-quantified parameter, produced by generalization
// (§4.4.6) or appearing in a TypeDecl's variant field types.
type TGeneric struct {
	Index int
}

func (TGeneric) isType() {}

func (t TGeneric) String() string {
	return string(rune('a' + t.Index))
}

func (TGeneric) FreeVariables() []int { return nil }

// TVar is a unification variable. It appears only during type checking; the
// final IR must contain no TVar.
type TVar struct {
	Index int
}

func (TVar) isType() {}

func (t TVar) String() string {
	if config.IsTestMode {
		return "t?"
	}
	return "t" + strconv.Itoa(t.Index)
}

func (t TVar) FreeVariables() []int { return []int{t.Index} }

// TConstructor is the transient pseudo-type of a bare constructor symbol
// before application: Target is the sum-type id, Position the 1-based
// variant index. It is replaced by an instantiated TFunc(arg, TSum(...)) at
// use sites and must never appear in the final IR (see types.go doc
// comment and the Registry.InstantiateVariant helper).
type TConstructor struct {
	Target   int
	Position int
}

func (TConstructor) isType() {}

func (t TConstructor) String() string {
	return fmt.Sprintf("~%d::%d", t.Target, t.Position)
}

func (TConstructor) FreeVariables() []int { return nil }

func mergeFree(a, b []int) []int {
	if len(b) == 0 {
		return a
	}
	seen := make(map[int]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	out := a
	for _, v := range b {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
