// Package analyzer is the type checker / IR lowerer (§4.4): it consumes
// internal/ast, performs Hindley-Milner inference with let-generalization
// (§4.1, §4.4.6), lowers nested patterns into internal/dtree decision
// trees (§4.2), performs closure conversion with transitive capture via
// internal/scope (§4.3), and emits an internal/ir.Module for
// internal/evaluator to run.
//
// Grounded on original_source/src/type_check.rs (Scope, Pattern::transform,
// Expr::transform, fn_transform, gen2var, get_type_decl) — the var/next
// explicit-range bookkeeping that file performs to preallocate type
// variable ranges up front is replaced here with a single monotonically
// increasing fresh-variable counter (state.fresh), since Go does not need
// to know a subtree's variable range before descending into it; the
// inference power is identical; each node still gets the same kind of
// fresh variable, just allocated lazily.
package analyzer

import (
	"github.com/mnhoque/clog/internal/ast"
	"github.com/mnhoque/clog/internal/diagnostics"
	"github.com/mnhoque/clog/internal/ir"
	"github.com/mnhoque/clog/internal/registry"
	"github.com/mnhoque/clog/internal/scope"
	"github.com/mnhoque/clog/internal/typesystem"
)

// state holds everything threaded through a single Check() call. Unlike
// the teacher's InferenceContext (internal/analyzer/inference.go in the
// teacher repo), there is no trait/instance machinery to carry — only the
// sum-type registry, the name scope, and accumulated constraints/errors.
type state struct {
	registry *typesystem.Registry
	typeMap  map[string]int
	top      *scope.Stack
	nextVar  int
	errors   []error
	closures []ir.Closure

	// consts accumulates the current binding's type equalities; reset
	// before lowering each top-level binding, since each one is solved
	// and generalized independently (§4.4.6 standard let semantics — no
	// mutual recursion between distinct top-level bindings).
	consts []typesystem.Equality
}

func newState() *state {
	s := &state{
		registry: typesystem.NewRegistry(),
		typeMap:  make(map[string]int),
		top:      scope.New(),
	}
	for name, entry := range registry.Imports() {
		s.top.Local()[name] = scope.Binding{Path: entry.Path, Type: entry.Type}
	}
	return s
}

func (s *state) fresh() typesystem.TVar {
	v := typesystem.TVar{Index: s.nextVar}
	s.nextVar++
	return v
}

func (s *state) eq(left, right typesystem.Type) {
	s.consts = append(s.consts, typesystem.Equality{Left: left, Right: right})
}

// Check lowers a complete source file's top-level bindings into a Module.
// It returns every accumulated error rather than stopping at the first
// one, per §7's "accumulate, don't abort" diagnostic contract.
func Check(bindings []ast.Binding) (*ir.Module, []error) {
	s := newState()

	// Pass 1: install every declared sum type (and its constructors) into
	// the registry and top scope before lowering any expression, so
	// forward references to a type declared later in the file resolve.
	for _, b := range bindings {
		if tb, ok := b.(*ast.TypeBinding); ok {
			s.declareType(tb)
		}
	}

	exports := make(map[string]ir.ValPath)
	var globals []ir.Global

	// Pass 2: lower value/function bindings in source order.
	for _, b := range bindings {
		switch b := b.(type) {
		case *ast.TypeBinding:
			// already handled in pass 1
		case *ast.ValueBinding:
			idx := len(globals)
			path := ir.NewStaticVal([]int{idx})
			s.consts = nil
			closuresFrom := len(s.closures)
			bindNames := make(map[string]scope.Binding)
			var valConsts []constraintEntry
			varType := s.fresh()
			s.lowerPattern(b.Pattern, path, varType, s.top, bindNames, &valConsts)
			value := s.lowerExpr(b.Value, s.top)
			s.eq(varType, value.Type())
			if len(valConsts) > 0 {
				// A top-level binding pattern must be irrefutable: there
				// is no dtree to dispatch a global's initializer through,
				// so a literal or constructor sub-pattern here (which
				// only makes sense when some OTHER arm exists to fall
				// back to) can never be satisfied.
				s.errors = append(s.errors, diagnostics.At(b.Pos(), diagnostics.CodeNonExhaustive,
					"top-level binding pattern must be irrefutable"))
			}
			nameTypes := make(map[string]typesystem.Type, len(bindNames))
			for name, nb := range bindNames {
				nameTypes[name] = nb.Type
			}
			finalType, finalNames := s.finalizeBinding(closuresFrom, value.Type(), nameTypes)
			for name, b := range bindNames {
				s.top.Local()[name] = scope.Binding{Path: b.Path, Type: finalNames[name]}
				exports[name] = b.Path
			}
			globals = append(globals, ir.Global{Value: value, Type: finalType})
		case *ast.FunctionBinding:
			idx := len(globals)
			path := ir.NewStaticVal([]int{idx})
			selfType := s.fresh()
			s.top.Local()[b.Name] = scope.Binding{Path: path, Type: selfType}
			s.consts = nil
			closuresFrom := len(s.closures)
			value := s.lowerExpr(b.Func, s.top)
			s.eq(selfType, value.Type())
			finalType, _ := s.finalizeBinding(closuresFrom, value.Type(), nil)
			s.top.Local()[b.Name] = scope.Binding{Path: path, Type: finalType}
			exports[b.Name] = path
			globals = append(globals, ir.Global{Name: b.Name, Value: value, Type: finalType})
		}
	}

	return &ir.Module{
		Closures: s.closures,
		Globals:  globals,
		Types:    s.registry,
		Exports:  exports,
	}, s.errors
}

// finalizeBinding unifies the current binding's accumulated constraints
// and, on success, applies the resulting substitution to t and to every
// entry of names, generalizing every variable still free in each result
// (§4.4.6 step 5) — one shared mapping is used for t and every name so a
// single underlying type variable always generalizes to the same Generic
// across all of them, rather than t's whole-expression type being copied
// onto every name regardless of that name's own, narrower type.
//
// It also rewrites every ir.Closure appended since closuresFrom — each
// one's Args, ReturnType, and Captures[].Type — through the same
// substitution and mapping (§4.4.2 step 6), so no closure captured by
// this binding is left carrying a bare type.Variable once the binding is
// done (§8 "Generalization consistency").
//
// On a unification failure it records the error and returns every type
// unresolved (closures untouched), so lowering of later bindings can
// still proceed.
func (s *state) finalizeBinding(closuresFrom int, t typesystem.Type, names map[string]typesystem.Type) (typesystem.Type, map[string]typesystem.Type) {
	subst, err := typesystem.Unify(s.consts)
	if err != nil {
		s.errors = append(s.errors, diagnostics.New(diagnostics.CodeUnification, "%s", err.Error()))
		return t, names
	}

	mapping := make(map[int]int)
	finalType := typesystem.Generalize(typesystem.Apply(t, subst), mapping)

	finalNames := make(map[string]typesystem.Type, len(names))
	for name, nt := range names {
		finalNames[name] = typesystem.Generalize(typesystem.Apply(nt, subst), mapping)
	}

	for i := closuresFrom; i < len(s.closures); i++ {
		c := &s.closures[i]
		for j := range c.Args {
			c.Args[j] = typesystem.Generalize(typesystem.Apply(c.Args[j], subst), mapping)
		}
		c.ReturnType = typesystem.Generalize(typesystem.Apply(c.ReturnType, subst), mapping)
		for j := range c.Captures {
			c.Captures[j].Type = typesystem.Generalize(typesystem.Apply(c.Captures[j].Type, subst), mapping)
		}
	}

	return finalType, finalNames
}
