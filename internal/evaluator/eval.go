package evaluator

import (
	"github.com/mnhoque/clog/internal/diagnostics"
	"github.com/mnhoque/clog/internal/ir"
	"github.com/mnhoque/clog/internal/registry"
)

// EvalExpr evaluates e against c's current frame (§4.5's eval_exp).
func (c *Context) EvalExpr(e ir.Expr) (Value, error) {
	switch n := e.(type) {
	case *ir.LitExpr:
		return evalLit(n), nil
	case *ir.BoundExpr:
		return c.resolve(n.Path)
	case *ir.TupleExpr:
		elems := make([]Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := c.EvalExpr(el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return Tuple{Elems: elems}, nil
	case *ir.SliceExpr:
		return c.evalSlice(n)
	case *ir.BinOpExpr:
		return c.evalBinOp(n)
	case *ir.UnOpExpr:
		return c.evalUnOp(n)
	case *ir.ClosureExpr:
		captures, err := c.genCaptures(n.Index)
		if err != nil {
			return nil, err
		}
		return Closure{Index: n.Index, Captures: captures}, nil
	case *ir.ApplicationExpr:
		return c.evalApplication(n)
	case *ir.SumValExpr:
		inner, err := c.EvalExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return SumVar{Target: n.Target, Variant: n.Variant, Inner: inner}, nil
	case *ir.ConditionalExpr:
		cond, err := c.EvalExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(Bool)
		if !ok {
			return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "condition did not evaluate to a bool, got %T", cond)
		}
		if b.V {
			return c.EvalExpr(n.Then)
		}
		return c.EvalExpr(n.Else)
	case *ir.ErrorExpr:
		return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "attempted to evaluate an ill-typed expression")
	default:
		return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "unknown IR expression %T", e)
	}
}

func evalLit(n *ir.LitExpr) Value {
	switch n.Kind {
	case ir.LitUnit:
		return Unit{}
	case ir.LitInt:
		return Int{V: n.I}
	case ir.LitBool:
		return Bool{V: n.B}
	case ir.LitString:
		return String{V: n.S}
	default:
		return Unit{}
	}
}

// evalApplication applies n.Fn to n.Arg (§4.5's eval_appl): a Constructor
// builds a SumVar directly; an Imported dispatches through the registry;
// a Closure accumulates the argument, invoking call_fn only once every
// declared parameter has been supplied (curried partial application).
func (c *Context) evalApplication(n *ir.ApplicationExpr) (Value, error) {
	fn, err := c.EvalExpr(n.Fn)
	if err != nil {
		return nil, err
	}
	arg, err := c.EvalExpr(n.Arg)
	if err != nil {
		return nil, err
	}
	switch f := fn.(type) {
	case Constructor:
		return SumVar{Target: f.Target, Variant: f.Variant, Inner: arg}, nil
	case Imported:
		regArg, err := toRegistryValue(arg)
		if err != nil {
			return nil, err
		}
		result, err := registry.Call(f.Name, regArg)
		if err != nil {
			return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "external %q failed: %v", f.Name, err)
		}
		return fromRegistryValue(result), nil
	case Closure:
		args := append(append([]Value{}, f.Args...), arg)
		closure := c.module.Closures[f.Index]
		if len(args) < len(closure.Args) {
			return Closure{Index: f.Index, Captures: f.Captures, Args: args}, nil
		}
		return c.callFn(f.Index, f.Captures, args)
	default:
		return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "cannot apply a value of type %T", fn)
	}
}

func toRegistryValue(v Value) (registry.Value, error) {
	switch t := v.(type) {
	case Unit:
		return registry.Unit{}, nil
	case Int:
		return registry.Int{V: t.V}, nil
	case Bool:
		return registry.Bool{V: t.V}, nil
	case String:
		return registry.String{V: t.V}, nil
	default:
		return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "cannot pass a %T to an external function", v)
	}
}

func fromRegistryValue(v registry.Value) Value {
	switch t := v.(type) {
	case registry.Unit:
		return Unit{}
	case registry.Int:
		return Int{V: t.V}
	case registry.Bool:
		return Bool{V: t.V}
	case registry.String:
		return String{V: t.V}
	default:
		return Unit{}
	}
}

// evalSlice implements `str[from..to]` (§ SUPPLEMENTED FEATURES) over Go
// runes, so indexing matches the code-point convention Index uses — not
// raw bytes, which would split multi-byte UTF-8 sequences.
func (c *Context) evalSlice(n *ir.SliceExpr) (Value, error) {
	sv, err := c.EvalExpr(n.Str)
	if err != nil {
		return nil, err
	}
	s, ok := sv.(String)
	if !ok {
		return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "slice target is not a string, got %T", sv)
	}
	fromV, err := c.EvalExpr(n.From)
	if err != nil {
		return nil, err
	}
	toV, err := c.EvalExpr(n.To)
	if err != nil {
		return nil, err
	}
	from, ok := fromV.(Int)
	if !ok {
		return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "slice bound is not an int, got %T", fromV)
	}
	to, ok := toV.(Int)
	if !ok {
		return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "slice bound is not an int, got %T", toV)
	}
	runes := []rune(s.V)
	if from.V < 0 || to.V < from.V || to.V > int64(len(runes)) {
		return nil, diagnostics.New(diagnostics.CodeIndexOutOfRange, "slice [%d..%d) out of range for a %d-rune string", from.V, to.V, len(runes))
	}
	return String{V: string(runes[from.V:to.V])}, nil
}

func (c *Context) evalUnOp(n *ir.UnOpExpr) (Value, error) {
	v, err := c.EvalExpr(n.Expr)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ir.Neg:
		i, ok := v.(Int)
		if !ok {
			return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "- expects an int, got %T", v)
		}
		return Int{V: -i.V}, nil
	case ir.Not:
		b, ok := v.(Bool)
		if !ok {
			return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "! expects a bool, got %T", v)
		}
		return Bool{V: !b.V}, nil
	default:
		return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "unknown unary operator")
	}
}

// evalBinOp dispatches per operator (§4.5's eval_binop, per-type-pair
// match). Equal/NotEq are the one deliberate deviation from
// original_source/cerebral/src/interpret.rs, which panics on SumVar/
// Closure equality ("sum type equality" TODO): here both get real
// structural equality (§9's resolved Open Question), via valuesEqual.
func (c *Context) evalBinOp(n *ir.BinOpExpr) (Value, error) {
	left, err := c.EvalExpr(n.Left)
	if err != nil {
		return nil, err
	}

	if n.Op == ir.And || n.Op == ir.Or {
		lb, ok := left.(Bool)
		if !ok {
			return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "&&/|| expects a bool, got %T", left)
		}
		if n.Op == ir.And && !lb.V {
			return Bool{V: false}, nil
		}
		if n.Op == ir.Or && lb.V {
			return Bool{V: true}, nil
		}
		right, err := c.EvalExpr(n.Right)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(Bool)
		if !ok {
			return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "&&/|| expects a bool, got %T", right)
		}
		return rb, nil
	}

	right, err := c.EvalExpr(n.Right)
	if err != nil {
		return nil, err
	}

	if n.Op == ir.Equal || n.Op == ir.NotEq {
		eq := valuesEqual(left, right)
		if n.Op == ir.NotEq {
			eq = !eq
		}
		return Bool{V: eq}, nil
	}

	switch n.Op {
	case ir.Concat:
		ls, lok := left.(String)
		rs, rok := right.(String)
		if !lok || !rok {
			return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "++ expects two strings, got %T and %T", left, right)
		}
		return String{V: ls.V + rs.V}, nil
	case ir.Index:
		return evalIndex(left, right)
	}

	li, lok := left.(Int)
	ri, rok := right.(Int)
	if !lok || !rok {
		return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "%s expects two ints, got %T and %T", binOpName(n.Op), left, right)
	}
	switch n.Op {
	case ir.Add:
		return Int{V: li.V + ri.V}, nil
	case ir.Sub:
		return Int{V: li.V - ri.V}, nil
	case ir.Mul:
		return Int{V: li.V * ri.V}, nil
	case ir.Div:
		if ri.V == 0 {
			return nil, diagnostics.New(diagnostics.CodeDivisionByZero, "division by zero")
		}
		return Int{V: li.V / ri.V}, nil
	case ir.Mod:
		if ri.V == 0 {
			return nil, diagnostics.New(diagnostics.CodeDivisionByZero, "division by zero")
		}
		return Int{V: li.V % ri.V}, nil
	case ir.Greater:
		return Bool{V: li.V > ri.V}, nil
	case ir.Less:
		return Bool{V: li.V < ri.V}, nil
	case ir.GreaterEq:
		return Bool{V: li.V >= ri.V}, nil
	case ir.LessEq:
		return Bool{V: li.V <= ri.V}, nil
	default:
		return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "unknown binary operator")
	}
}

// evalIndex implements `str[i]` (§6), addressing by Unicode code point so
// a multi-byte character counts as one index the way the source strings
// are written, not as however many UTF-8 bytes it happens to encode to.
// The result is that code point as an Int, matching the analyzer's typing.
func evalIndex(strVal, idxVal Value) (Value, error) {
	s, ok := strVal.(String)
	if !ok {
		return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "[] expects a string, got %T", strVal)
	}
	i, ok := idxVal.(Int)
	if !ok {
		return nil, diagnostics.New(diagnostics.CodeRuntimeTypeMismatch, "[] expects an int index, got %T", idxVal)
	}
	runes := []rune(s.V)
	if i.V < 0 || i.V >= int64(len(runes)) {
		return nil, diagnostics.New(diagnostics.CodeIndexOutOfRange, "index %d out of range for a %d-rune string", i.V, len(runes))
	}
	return Int{V: int64(runes[i.V])}, nil
}

func binOpName(op ir.BinOp) string {
	switch op {
	case ir.Add:
		return "+"
	case ir.Sub:
		return "-"
	case ir.Mul:
		return "*"
	case ir.Div:
		return "/"
	case ir.Mod:
		return "%"
	case ir.Greater:
		return ">"
	case ir.Less:
		return "<"
	case ir.GreaterEq:
		return ">="
	case ir.LessEq:
		return "<="
	default:
		return "?"
	}
}

// valuesEqual is structural equality over every runtime Value shape
// (§9's resolved Open Question): two Closures are equal when they share
// the same table index, the same supplied-argument prefix, and the same
// captured environment — comparing by value all the way down rather than
// by reference, since Go gives these shapes no identity of their own.
func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case Unit:
		_, ok := b.(Unit)
		return ok
	case Int:
		bv, ok := b.(Int)
		return ok && av.V == bv.V
	case Bool:
		bv, ok := b.(Bool)
		return ok && av.V == bv.V
	case String:
		bv, ok := b.(String)
		return ok && av.V == bv.V
	case Tag:
		bv, ok := b.(Tag)
		return ok && av.V == bv.V
	case Tuple:
		bv, ok := b.(Tuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !valuesEqual(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case SumVar:
		bv, ok := b.(SumVar)
		return ok && av.Target == bv.Target && av.Variant == bv.Variant && valuesEqual(av.Inner, bv.Inner)
	case Closure:
		bv, ok := b.(Closure)
		if !ok || av.Index != bv.Index || len(av.Args) != len(bv.Args) || len(av.Captures) != len(bv.Captures) {
			return false
		}
		for i := range av.Args {
			if !valuesEqual(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		for i := range av.Captures {
			if !valuesEqual(av.Captures[i], bv.Captures[i]) {
				return false
			}
		}
		return true
	case Constructor:
		bv, ok := b.(Constructor)
		return ok && av.Target == bv.Target && av.Variant == bv.Variant
	case Imported:
		bv, ok := b.(Imported)
		return ok && av.Name == bv.Name
	default:
		return false
	}
}
