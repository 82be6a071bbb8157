package evaluator

import (
	"testing"

	"github.com/mnhoque/clog/internal/diagnostics"
	"github.com/mnhoque/clog/internal/dtree"
	"github.com/mnhoque/clog/internal/ir"
	"github.com/mnhoque/clog/internal/typesystem"
)

func runGlobals(t *testing.T, mod *ir.Module) *Context {
	t.Helper()
	c := New(mod)
	if err := c.RunGlobals(); err != nil {
		t.Fatalf("unexpected error running globals: %v", err)
	}
	return c
}

func lit(i int64) *ir.LitExpr { return &ir.LitExpr{Kind: ir.LitInt, I: i, Typ: typesystem.TInt{}} }

func exitTree(arm int) *dtree.Tree { return &dtree.Tree{Kind: dtree.Exit, ArmIndex: arm} }

func TestEvalArithmetic(t *testing.T) {
	mod := &ir.Module{
		Globals: []ir.Global{
			{Name: "x", Value: &ir.BinOpExpr{Op: ir.Add, Left: lit(2), Right: &ir.BinOpExpr{Op: ir.Mul, Left: lit(3), Right: lit(4), Typ: typesystem.TInt{}}, Typ: typesystem.TInt{}}, Type: typesystem.TInt{}},
		},
	}
	c := runGlobals(t, mod)
	got, ok := c.Statics()[0].(Int)
	if !ok || got.V != 14 {
		t.Fatalf("expected 14, got %#v", c.Statics()[0])
	}
}

func TestEvalStringConcatIndexSlice(t *testing.T) {
	concat := &ir.BinOpExpr{Op: ir.Concat,
		Left:  &ir.LitExpr{Kind: ir.LitString, S: "foo", Typ: typesystem.TString{}},
		Right: &ir.LitExpr{Kind: ir.LitString, S: "bar", Typ: typesystem.TString{}},
		Typ:   typesystem.TString{}}
	index := &ir.BinOpExpr{Op: ir.Index, Left: concat, Right: lit(3), Typ: typesystem.TInt{}}
	slice := &ir.SliceExpr{Str: concat, From: lit(1), To: lit(4), Typ: typesystem.TString{}}

	mod := &ir.Module{Globals: []ir.Global{
		{Name: "idx", Value: index, Type: typesystem.TInt{}},
		{Name: "sl", Value: slice, Type: typesystem.TString{}},
	}}
	c := runGlobals(t, mod)
	if v, ok := c.Statics()[0].(Int); !ok || v.V != 'b' {
		t.Fatalf("expected index result %d, got %#v", 'b', c.Statics()[0])
	}
	if s, ok := c.Statics()[1].(String); !ok || s.V != "oob" {
		t.Fatalf("expected slice result %q, got %#v", "oob", c.Statics()[1])
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	mod := &ir.Module{Globals: []ir.Global{
		{Name: "bad", Value: &ir.BinOpExpr{Op: ir.Div, Left: lit(1), Right: lit(0), Typ: typesystem.TInt{}}, Type: typesystem.TInt{}},
	}}
	c := New(mod)
	err := c.RunGlobals()
	if err == nil {
		t.Fatalf("expected a division-by-zero error")
	}
	de, ok := err.(*diagnostics.DiagnosticError)
	if !ok || de.Code != diagnostics.CodeDivisionByZero {
		t.Fatalf("expected CodeDivisionByZero, got %v", err)
	}
}

func TestEvalIndexOutOfRange(t *testing.T) {
	mod := &ir.Module{Globals: []ir.Global{
		{Name: "bad", Value: &ir.BinOpExpr{
			Op:   ir.Index,
			Left: &ir.LitExpr{Kind: ir.LitString, S: "ab", Typ: typesystem.TString{}},
			Right: lit(5), Typ: typesystem.TInt{},
		}, Type: typesystem.TInt{}},
	}}
	c := New(mod)
	err := c.RunGlobals()
	if err == nil {
		t.Fatalf("expected an out-of-range error")
	}
	de, ok := err.(*diagnostics.DiagnosticError)
	if !ok || de.Code != diagnostics.CodeIndexOutOfRange {
		t.Fatalf("expected CodeIndexOutOfRange, got %v", err)
	}
}

// TestEvalSumTypeDispatch builds a two-variant sum type (None unit | Some
// int) by hand at the IR level and checks that matchTree dispatches each
// SumVar to the right arm via its 0-based Variant tag (§4.2, §4.5).
func TestEvalSumTypeDispatch(t *testing.T) {
	sumTy := typesystem.TInt{} // arm payload types aren't exercised at runtime
	unwrap := ir.Closure{
		Args:       []typesystem.Type{sumTy},
		ReturnType: typesystem.TInt{},
		DTree: &dtree.Tree{
			Kind:     dtree.Finite,
			Value:    ir.NewLocal([]int{0, 0}),
			Branches: []*dtree.Tree{exitTree(0), exitTree(1)},
		},
		Branches: []ir.Expr{
			lit(0),
			&ir.BoundExpr{Path: ir.NewLocal([]int{0, 2}), Typ: typesystem.TInt{}},
		},
	}
	mod := &ir.Module{
		Closures: []ir.Closure{unwrap},
		Globals: []ir.Global{
			{Name: "none", Value: &ir.SumValExpr{Target: 0, Variant: 0, Value: &ir.LitExpr{Kind: ir.LitUnit, Typ: typesystem.TUnit{}}, Typ: sumTy}, Type: sumTy},
			{Name: "some", Value: &ir.SumValExpr{Target: 0, Variant: 1, Value: lit(42), Typ: sumTy}, Type: sumTy},
			{Name: "noneResult", Value: &ir.ApplicationExpr{
				Fn:  &ir.ClosureExpr{Index: 0, Typ: typesystem.TFunc{From: sumTy, To: typesystem.TInt{}}},
				Arg: &ir.BoundExpr{Path: ir.NewStaticVal([]int{0}), Typ: sumTy},
				Typ: typesystem.TInt{},
			}, Type: typesystem.TInt{}},
			{Name: "someResult", Value: &ir.ApplicationExpr{
				Fn:  &ir.ClosureExpr{Index: 0, Typ: typesystem.TFunc{From: sumTy, To: typesystem.TInt{}}},
				Arg: &ir.BoundExpr{Path: ir.NewStaticVal([]int{1}), Typ: sumTy},
				Typ: typesystem.TInt{},
			}, Type: typesystem.TInt{}},
		},
	}
	c := runGlobals(t, mod)
	if v, ok := c.Statics()[2].(Int); !ok || v.V != 0 {
		t.Fatalf("expected None to unwrap to 0, got %#v", c.Statics()[2])
	}
	if v, ok := c.Statics()[3].(Int); !ok || v.V != 42 {
		t.Fatalf("expected Some 42 to unwrap to 42, got %#v", c.Statics()[3])
	}
}

// TestEvalSingleLevelCaptureAndCurrying builds `adder = {x => {y => x+y}}`
// directly at the IR level and applies it curried (adder 3 4), exercising
// ClosureExpr's gen_captures over a plain CaptureLocal entry and
// evalApplication's partial-application accumulation (§4.5).
func TestEvalSingleLevelCaptureAndCurrying(t *testing.T) {
	inner := ir.Closure{
		Captures:   []ir.CaptureSource{{From: ir.NewCaptureLocal(0, []int{0}), Type: typesystem.TInt{}}},
		Args:       []typesystem.Type{typesystem.TInt{}},
		ReturnType: typesystem.TInt{},
		DTree:      exitTree(0),
		Branches: []ir.Expr{
			&ir.BinOpExpr{Op: ir.Add,
				Left:  &ir.BoundExpr{Path: ir.ValPath{Kind: ir.CaptureLocal, Slot: 0}, Typ: typesystem.TInt{}},
				Right: &ir.BoundExpr{Path: ir.NewLocal([]int{0}), Typ: typesystem.TInt{}},
				Typ:   typesystem.TInt{}},
		},
	}
	outer := ir.Closure{
		Args:       []typesystem.Type{typesystem.TInt{}},
		ReturnType: typesystem.TFunc{From: typesystem.TInt{}, To: typesystem.TInt{}},
		DTree:      exitTree(0),
		Branches:   []ir.Expr{&ir.ClosureExpr{Index: 0, Typ: typesystem.TFunc{From: typesystem.TInt{}, To: typesystem.TInt{}}}},
	}
	mod := &ir.Module{
		Closures: []ir.Closure{inner, outer},
		Globals: []ir.Global{
			{Name: "adder", Value: &ir.ClosureExpr{Index: 1, Typ: typesystem.TFunc{From: typesystem.TInt{}, To: typesystem.TFunc{From: typesystem.TInt{}, To: typesystem.TInt{}}}}, Type: typesystem.TInt{}},
			{Name: "result", Value: &ir.ApplicationExpr{
				Fn:  &ir.ApplicationExpr{Fn: &ir.BoundExpr{Path: ir.NewStaticVal([]int{0}), Typ: typesystem.TInt{}}, Arg: lit(3), Typ: typesystem.TInt{}},
				Arg: lit(4), Typ: typesystem.TInt{},
			}, Type: typesystem.TInt{}},
		},
	}
	c := runGlobals(t, mod)
	if v, ok := c.Statics()[1].(Int); !ok || v.V != 7 {
		t.Fatalf("expected 3+4=7, got %#v", c.Statics()[1])
	}
}

// TestEvalTransitiveCapture builds `f = {x => {y => {z => x+y+z}}}` and
// applies it curried (f 1 2 3), exercising gen_captures's CaptureCaptured
// branch: the innermost closure's capture of x is a CaptureCaptured
// referencing the middle closure's own capture slot, not a fresh read of
// the outermost frame (§4.3's transitive capture).
func TestEvalTransitiveCapture(t *testing.T) {
	tint := typesystem.TInt{}
	innermost := ir.Closure{
		Captures: []ir.CaptureSource{
			{From: ir.NewCaptureCaptured(0, 0), Type: tint}, // x, via middle's own capture slot 0
			{From: ir.NewCaptureLocal(1, []int{0}), Type: tint}, // y, middle's own local arg
		},
		Args:       []typesystem.Type{tint},
		ReturnType: tint,
		DTree:      exitTree(0),
		Branches: []ir.Expr{
			&ir.BinOpExpr{Op: ir.Add,
				Left: &ir.BinOpExpr{Op: ir.Add,
					Left:  &ir.BoundExpr{Path: ir.ValPath{Kind: ir.CaptureLocal, Slot: 0}, Typ: tint},
					Right: &ir.BoundExpr{Path: ir.ValPath{Kind: ir.CaptureLocal, Slot: 1}, Typ: tint},
					Typ:   tint},
				Right: &ir.BoundExpr{Path: ir.NewLocal([]int{0}), Typ: tint},
				Typ:   tint,
			},
		},
	}
	middle := ir.Closure{
		Captures:   []ir.CaptureSource{{From: ir.NewCaptureLocal(0, []int{0}), Type: tint}}, // x, outer's local arg
		Args:       []typesystem.Type{tint},
		ReturnType: typesystem.TFunc{From: tint, To: tint},
		DTree:      exitTree(0),
		Branches:   []ir.Expr{&ir.ClosureExpr{Index: 0, Typ: typesystem.TFunc{From: tint, To: tint}}},
	}
	outer := ir.Closure{
		Args:       []typesystem.Type{tint},
		ReturnType: typesystem.TFunc{From: tint, To: typesystem.TFunc{From: tint, To: tint}},
		DTree:      exitTree(0),
		Branches:   []ir.Expr{&ir.ClosureExpr{Index: 1, Typ: typesystem.TFunc{From: tint, To: tint}}},
	}
	mod := &ir.Module{
		Closures: []ir.Closure{innermost, middle, outer},
		Globals: []ir.Global{
			{Name: "f", Value: &ir.ClosureExpr{Index: 2, Typ: tint}, Type: tint},
			{Name: "result", Value: &ir.ApplicationExpr{
				Fn: &ir.ApplicationExpr{
					Fn:  &ir.ApplicationExpr{Fn: &ir.BoundExpr{Path: ir.NewStaticVal([]int{0}), Typ: tint}, Arg: lit(1), Typ: tint},
					Arg: lit(2), Typ: tint,
				},
				Arg: lit(3), Typ: tint,
			}, Type: tint},
		},
	}
	c := runGlobals(t, mod)
	if v, ok := c.Statics()[1].(Int); !ok || v.V != 6 {
		t.Fatalf("expected 1+2+3=6, got %#v", c.Statics()[1])
	}
}

func TestValuesEqualStructuralOverSumVarAndClosure(t *testing.T) {
	a := SumVar{Target: 0, Variant: 1, Inner: Int{V: 5}}
	b := SumVar{Target: 0, Variant: 1, Inner: Int{V: 5}}
	c := SumVar{Target: 0, Variant: 1, Inner: Int{V: 6}}
	if !valuesEqual(a, b) {
		t.Errorf("expected structurally equal SumVars to compare equal")
	}
	if valuesEqual(a, c) {
		t.Errorf("expected differing SumVar payloads to compare unequal")
	}

	cl1 := Closure{Index: 0, Args: []Value{Int{V: 1}}}
	cl2 := Closure{Index: 0, Args: []Value{Int{V: 1}}}
	cl3 := Closure{Index: 0, Args: []Value{Int{V: 2}}}
	if !valuesEqual(cl1, cl2) {
		t.Errorf("expected closures with equal index/args to compare equal")
	}
	if valuesEqual(cl1, cl3) {
		t.Errorf("expected closures with differing args to compare unequal")
	}
}
