package analyzer

import (
	"github.com/mnhoque/clog/internal/ast"
	"github.com/mnhoque/clog/internal/diagnostics"
	"github.com/mnhoque/clog/internal/ir"
	"github.com/mnhoque/clog/internal/scope"
	"github.com/mnhoque/clog/internal/typesystem"
)

// constraintEntry is one path/value-constraint pair accumulated while
// lowering a single pattern, later handed to ir.NewConstraintMap.
type constraintEntry struct {
	path  ir.ValPath
	value ir.ConstraintValue
}

// lowerPattern lowers one surface pattern against rootPath — the
// already-allocated storage location the matched value will occupy
// (ir.NewLocal(...) for a function argument, ir.NewStaticVal(...) for a
// top-level binding; both carry a Path that WithField can extend, so one
// implementation serves both, per original_source/src/type_check.rs's
// Pattern::transform, which does the same thing using ValPath::Local
// uniformly). varType is the fresh type variable standing for the
// matched value's type; bindings introduced by the pattern are written
// into locals; any literal/constructor constraint on a sub-path is
// appended to *valConsts for the caller to build a dtree arm from.
func (s *state) lowerPattern(
	pat ast.Pattern,
	rootPath ir.ValPath,
	varType typesystem.Type,
	sc *scope.Stack,
	locals map[string]scope.Binding,
	valConsts *[]constraintEntry,
) {
	switch pat := pat.(type) {
	case *ast.WildPattern:
		// No constraint: matches anything, binds nothing.

	case *ast.LiteralPattern:
		s.eq(varType, s.literalType(pat.Lit))
		if c, ok := literalConstraint(pat.Lit); ok {
			*valConsts = append(*valConsts, constraintEntry{rootPath, c})
		}

	case *ast.BindPattern:
		if _, exists := locals[pat.Name]; exists {
			s.errors = append(s.errors, diagnostics.At(pat.Pos(), diagnostics.CodeMultBindPattern,
				"name %q bound more than once in this pattern", pat.Name))
			return
		}
		locals[pat.Name] = scope.Binding{Path: rootPath, Type: varType}

	case *ast.TuplePattern:
		elemTypes := make([]typesystem.Type, len(pat.Elems))
		for i := range elemTypes {
			elemTypes[i] = s.fresh()
		}
		s.eq(varType, typesystem.TTuple{Elems: elemTypes})
		for i, ep := range pat.Elems {
			s.lowerPattern(ep, rootPath.WithField(i), elemTypes[i], sc, locals, valConsts)
		}

	case *ast.SumVarPattern:
		b, ok := sc.Get(pat.Constructor)
		if !ok {
			s.errors = append(s.errors, diagnostics.At(pat.Pos(), diagnostics.CodeConstructorNotFound,
				"constructor %q not found", pat.Constructor))
			return
		}
		ctor, ok := b.Type.(typesystem.TConstructor)
		if !ok {
			s.errors = append(s.errors, diagnostics.At(pat.Pos(), diagnostics.CodeNonConstructorApp,
				"%q is not a constructor", pat.Constructor))
			return
		}
		decl := s.registry.Lookup(ctor.Target)
		*valConsts = append(*valConsts, constraintEntry{
			rootPath.WithField(0),
			ir.Finite(ctor.Position-1, len(decl.Variants)),
		})
		fieldType, sumType, next := s.registry.InstantiateVariant(ctor.Target, ctor.Position, s.nextVar)
		s.nextVar = next
		s.eq(varType, sumType)
		s.lowerPattern(pat.Inner, rootPath.WithField(ctor.Position), fieldType, sc, locals, valConsts)

	default:
		panic("analyzer: unknown pattern node")
	}
}

// literalType returns the ground type a surface literal stands for.
func (s *state) literalType(lit ast.Literal) typesystem.Type {
	switch lit.(type) {
	case ast.UnitLit:
		return typesystem.TUnit{}
	case ast.IntLit:
		return typesystem.TInt{}
	case ast.BoolLit:
		return typesystem.TBool{}
	case ast.StringLit:
		return typesystem.TString{}
	default:
		panic("analyzer: unknown literal node")
	}
}

// literalConstraint returns the ConstraintValue a literal pattern
// contributes, or false for Unit (which carries no information — every
// value of type unit matches, so it needs no dtree test at all).
func literalConstraint(lit ast.Literal) (ir.ConstraintValue, bool) {
	switch lit := lit.(type) {
	case ast.UnitLit:
		return ir.ConstraintValue{}, false
	case ast.IntLit:
		return ir.IntConstraint(lit.Value), true
	case ast.BoolLit:
		if lit.Value {
			return ir.Finite(0, 2), true
		}
		return ir.Finite(1, 2), true
	case ast.StringLit:
		return ir.StrConstraint(lit.Value), true
	default:
		panic("analyzer: unknown literal node")
	}
}
