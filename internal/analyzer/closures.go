package analyzer

import (
	"sort"

	"github.com/mnhoque/clog/internal/ast"
	"github.com/mnhoque/clog/internal/diagnostics"
	"github.com/mnhoque/clog/internal/dtree"
	"github.com/mnhoque/clog/internal/ir"
	"github.com/mnhoque/clog/internal/scope"
	"github.com/mnhoque/clog/internal/typesystem"
)

// lowerFuncLit lowers a (possibly multi-branch) function literal into a
// new Closure entry and returns a ClosureExpr referencing it, grounded on
// original_source/src/type_check.rs's fn_transform: every branch shares
// one curried signature (fresh Args/ReturnType type variables, unified
// against each branch's own pattern/body types), is lowered inside one
// PushLayer'd scope shared by all branches and cleared with DrainLocal
// before each branch so its pattern bindings don't leak between
// branches, and contributes one arm to a shared dtree.Builder keyed by
// its position among the branches (§4.2's arm precedence: branches are
// inserted in reverse order so an earlier branch always shadows a later,
// more general one rather than the other way around).
func (s *state) lowerFuncLit(e *ast.FuncLit, sc *scope.Stack) ir.Expr {
	arity := len(e.Branches[0].Patterns)
	args := make([]typesystem.Type, arity)
	for i := range args {
		args[i] = s.fresh()
	}
	ret := s.fresh()

	builder := dtree.NewBuilder()
	branchExprs := make([]ir.Expr, len(e.Branches))

	sc.PushLayer()
	for i := len(e.Branches) - 1; i >= 0; i-- {
		branch := e.Branches[i]
		if len(branch.Patterns) != arity {
			s.errors = append(s.errors, diagnostics.At(e.Pos(), diagnostics.CodeArityMismatch,
				"function branch %d has %d parameters, expected %d", i, len(branch.Patterns), arity))
		}

		sc.DrainLocal()
		locals := make(map[string]scope.Binding)
		var valConsts []constraintEntry
		for j, pat := range branch.Patterns {
			if j >= len(args) {
				break
			}
			s.lowerPattern(pat, ir.NewLocal([]int{j}), args[j], sc, locals, &valConsts)
		}
		sc.ExtendLocal(locals)

		paths := make([]ir.ValPath, len(valConsts))
		values := make([]ir.ConstraintValue, len(valConsts))
		for k, c := range valConsts {
			paths[k] = c.path
			values[k] = c.value
		}
		builder.AddPattern(ir.NewConstraintMap(paths, values), i)

		body := s.lowerExpr(branch.Body, sc)
		s.eq(ret, body.Type())
		branchExprs[i] = body
	}
	popped := sc.PopLayer()

	tree := builder.Tree()
	result := dtree.CheckSoundComplete(tree, len(e.Branches))
	if result.NonExhaustive {
		s.errors = append(s.errors, diagnostics.At(e.Pos(), diagnostics.CodeNonExhaustive,
			"function is not exhaustive: some argument shapes match no branch"))
	}
	for _, idx := range result.Redundant {
		s.errors = append(s.errors, diagnostics.At(e.Pos(), diagnostics.CodeRedundantArm,
			"branch %d is unreachable: an earlier branch already covers every value it matches", idx))
	}

	// The popped frame's CaptureLocal/CaptureCaptured bindings, sorted by
	// slot, ARE the closure's capture list: each one's path, read against
	// the enclosing frame at the ClosureExpr's evaluation site, is exactly
	// how the evaluator's gen_captures populates that slot (§4.5).
	irCaptures := make([]ir.CaptureSource, 0, len(popped))
	for _, b := range popped {
		if b.Path.Kind == ir.CaptureLocal || b.Path.Kind == ir.CaptureCaptured {
			irCaptures = append(irCaptures, ir.CaptureSource{From: b.Path, Type: b.Type})
		}
	}
	sort.Slice(irCaptures, func(i, j int) bool { return irCaptures[i].From.Slot < irCaptures[j].From.Slot })

	closureType := buildCurried(args, ret)
	idx := len(s.closures)
	s.closures = append(s.closures, ir.Closure{
		Captures:   irCaptures,
		Args:       args,
		ReturnType: ret,
		DTree:      tree,
		Branches:   branchExprs,
	})

	return &ir.ClosureExpr{Index: idx, Typ: closureType}
}

// buildCurried folds a closure's argument types and return type into the
// nested TFunc chain its application sites unify against: a 2-argument
// closure has type From=args[0] -> (From=args[1] -> ret).
func buildCurried(args []typesystem.Type, ret typesystem.Type) typesystem.Type {
	result := ret
	for i := len(args) - 1; i >= 0; i-- {
		result = typesystem.TFunc{From: args[i], To: result}
	}
	return result
}
