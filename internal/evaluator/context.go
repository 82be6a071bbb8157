package evaluator

import (
	"github.com/mnhoque/clog/internal/diagnostics"
	"github.com/mnhoque/clog/internal/dtree"
	"github.com/mnhoque/clog/internal/ir"
)

// Context is the three-frame runtime (§3.4, §4.5): statics is the module's
// evaluated globals, locals the current call's argument frame, captures
// the current closure's captured environment. Grounded on
// original_source/cerebral/src/interpret.rs's Context.
type Context struct {
	module   *ir.Module
	statics  []Value
	locals   []Value
	captures []Value
}

// New builds a Context for running module from the top, with empty
// locals/captures (the top level is never inside a closure call).
func New(module *ir.Module) *Context {
	return &Context{module: module}
}

// RunGlobals evaluates every global initializer in order, appending each
// result to statics before evaluating the next — later globals may
// reference earlier ones by StaticVal path (§4.5's eval_toplevel).
func (c *Context) RunGlobals() error {
	for _, g := range c.module.Globals {
		v, err := c.EvalExpr(g.Value)
		if err != nil {
			return err
		}
		c.statics = append(c.statics, v)
	}
	return nil
}

// Statics exposes the evaluated globals, e.g. for a `test` subcommand
// that wants to inspect named top-level bindings after a run.
func (c *Context) Statics() []Value { return c.statics }

// resolve reads the value at path (§3.4).
func (c *Context) resolve(path ir.ValPath) (Value, error) {
	switch path.Kind {
	case ir.Local:
		return pathVecFromValVec(path.Path, c.locals)
	case ir.StaticVal:
		return pathVecFromValVec(path.Path, c.statics)
	case ir.CaptureLocal, ir.CaptureCaptured:
		return pathVecFromValVec([]int{path.Slot}, c.captures)
	case ir.Constructor:
		return Constructor{Target: path.Target, Variant: path.Variant}, nil
	case ir.Imported:
		return Imported{Name: path.Name}, nil
	default:
		return nil, diagnostics.New(diagnostics.CodeInvalidPath, "unknown path kind %d", path.Kind)
	}
}

// pathVecFromValVec indexes into valvec at path[0], then continues into
// the result via pathVecFromVal — the two-part walk
// original_source/cerebral/src/interpret.rs splits the same way, since a
// path's very first index always selects a frame slot, never a constructor
// field.
func pathVecFromValVec(path []int, valvec []Value) (Value, error) {
	if len(path) == 0 {
		return nil, diagnostics.New(diagnostics.CodeInvalidPath, "empty path")
	}
	n := path[0]
	if n < 0 || n >= len(valvec) {
		return nil, diagnostics.New(diagnostics.CodeInvalidPath, "frame index %d out of range (len %d)", n, len(valvec))
	}
	return pathVecFromVal(path[1:], valvec[n])
}

// pathVecFromVal walks the remaining field indices into val: a Tuple
// index selects an element; a SumVar's field 0 yields its Tag (for a
// dtree tag test), any other field n must equal the SumVar's own variant
// (the analyzer never emits any other field index for a SumVar path) and
// descends into its payload.
func pathVecFromVal(path []int, val Value) (Value, error) {
	if len(path) == 0 {
		return val, nil
	}
	n := path[0]
	switch v := val.(type) {
	case Tuple:
		if n < 0 || n >= len(v.Elems) {
			return nil, diagnostics.New(diagnostics.CodeInvalidPath, "tuple index %d out of range", n)
		}
		return pathVecFromVal(path[1:], v.Elems[n])
	case SumVar:
		if n == 0 {
			return Tag{V: v.Variant}, nil
		}
		if n == v.Variant+1 {
			return pathVecFromVal(path[1:], v.Inner)
		}
		return nil, diagnostics.New(diagnostics.CodeInvalidPath, "sum field %d does not match variant %d", n, v.Variant)
	default:
		return nil, diagnostics.New(diagnostics.CodeInvalidPath, "cannot index into %T", val)
	}
}

// genCaptures builds a new closure's capture environment by evaluating
// each of its Captures entries against the CURRENT context — the
// enclosing frame at the ClosureExpr's evaluation site (§4.5's
// gen_captures). A CaptureLocal entry reads from the current locals; a
// CaptureCaptured entry reads from the current captures (one more level
// of transitive capture already resolved at analysis time, §4.3).
func (c *Context) genCaptures(closureIdx int) ([]Value, error) {
	closure := c.module.Closures[closureIdx]
	out := make([]Value, len(closure.Captures))
	for i, cs := range closure.Captures {
		var v Value
		var err error
		switch cs.From.Kind {
		case ir.CaptureLocal:
			v, err = pathVecFromValVec(cs.From.Path, c.locals)
		case ir.CaptureCaptured:
			v, err = pathVecFromValVec([]int{cs.From.ParentSlot}, c.captures)
		default:
			err = diagnostics.New(diagnostics.CodeInvalidPath, "capture source %v is not a capture path", cs.From)
		}
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// callFn invokes closure n's body against a fully-supplied argument
// frame: match_tree picks the arm, then the arm is evaluated in a fresh
// Context sharing statics but replacing locals/captures (§4.5's call_fn).
func (c *Context) callFn(n int, captures, locals []Value) (Value, error) {
	closure := c.module.Closures[n]
	tree, ok := closure.DTree.(*dtree.Tree)
	if !ok {
		return nil, diagnostics.New(diagnostics.CodeInvalidPath, "closure %d has no decision tree", n)
	}
	arm, err := matchTree(tree, locals)
	if err != nil {
		return nil, err
	}
	callCtx := &Context{module: c.module, statics: c.statics, captures: captures, locals: locals}
	return callCtx.EvalExpr(closure.Branches[arm])
}

// matchTree walks a decision tree to the matching arm, grounded on
// original_source/cerebral/src/interpret.rs's match_tree. Bool dispatch
// uses the same k=0-for-true/k=1-for-false convention
// internal/analyzer/patterns.go's literalConstraint produces (§9's
// resolved Finite(k,n) convention), not the Rust source's reversed one.
func matchTree(tree *dtree.Tree, locals []Value) (int, error) {
	switch tree.Kind {
	case dtree.Empty:
		return 0, diagnostics.New(diagnostics.CodeNonExhaustiveRuntime, "no pattern matched this value")
	case dtree.Exit:
		return tree.ArmIndex, nil
	case dtree.Finite:
		val, err := pathVecFromValVec(tree.Value.Path, locals)
		if err != nil {
			return 0, err
		}
		switch v := val.(type) {
		case Bool:
			k := 1
			if v.V {
				k = 0
			}
			return matchTree(tree.Branches[k], locals)
		case Tag:
			if v.V < 0 || v.V >= len(tree.Branches) {
				return 0, diagnostics.New(diagnostics.CodeInvalidPath, "tag %d out of range", v.V)
			}
			return matchTree(tree.Branches[v.V], locals)
		default:
			return 0, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "unexpected %T at a Finite dispatch", val)
		}
	case dtree.Infinite:
		val, err := pathVecFromValVec(tree.Value.Path, locals)
		if err != nil {
			return 0, err
		}
		var next *dtree.Tree
		switch v := val.(type) {
		case Int:
			next = tree.InfiniteBranches[ir.IntConstraint(v.V)]
		case String:
			next = tree.InfiniteBranches[ir.StrConstraint(v.V)]
		default:
			return 0, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "unexpected %T at an Infinite dispatch", val)
		}
		if next == nil {
			next = tree.Default
		}
		return matchTree(next, locals)
	default:
		return 0, diagnostics.New(diagnostics.CodeInvalidPath, "unknown dtree kind")
	}
}
