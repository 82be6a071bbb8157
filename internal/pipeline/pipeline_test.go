package pipeline

import (
	"testing"

	"github.com/mnhoque/clog/internal/evaluator"
)

func run(t *testing.T, source string) *PipelineContext {
	t.Helper()
	p := New(ParseStage{}, CheckStage{}, InterpretStage{})
	ctx := p.Run(&PipelineContext{Source: source})
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors for %q: %v", source, ctx.Errors)
	}
	return ctx
}

func lastStatic(ctx *PipelineContext) evaluator.Value {
	s := ctx.Eval.Statics()
	return s[len(s)-1]
}

func TestPipelineArithmeticAndBinding(t *testing.T) {
	ctx := run(t, "let x = 1 + (-3)")
	v, ok := lastStatic(ctx).(evaluator.Int)
	if !ok || v.V != -2 {
		t.Fatalf("expected Int(-2), got %#v", lastStatic(ctx))
	}
}

func TestPipelineCurriedClosureCall(t *testing.T) {
	ctx := run(t, "rec add = { m => { n => m + n } }\nlet r = add 2 5")
	v, ok := lastStatic(ctx).(evaluator.Int)
	if !ok || v.V != 7 {
		t.Fatalf("expected Int(7), got %#v", lastStatic(ctx))
	}
}

func TestPipelineSumTypePatternMatch(t *testing.T) {
	src := `type List(T) = | Nil () | Cons (T, List T)
rec len = { Nil _ => 0, Cons (_, t) => 1 + len t }
let r = len (Cons(5, Cons(7, Nil ())))`
	ctx := run(t, src)
	v, ok := lastStatic(ctx).(evaluator.Int)
	if !ok || v.V != 2 {
		t.Fatalf("expected Int(2), got %#v", lastStatic(ctx))
	}
}

func TestPipelineTransitiveCapture(t *testing.T) {
	src := "rec f = { a => { b => { c => a + b + c } } }\nlet r = f 1 2 3"
	ctx := run(t, src)
	v, ok := lastStatic(ctx).(evaluator.Int)
	if !ok || v.V != 6 {
		t.Fatalf("expected Int(6), got %#v", lastStatic(ctx))
	}
}

func TestPipelineStopsCheckAfterParseErrors(t *testing.T) {
	p := New(ParseStage{}, CheckStage{}, InterpretStage{})
	ctx := p.Run(&PipelineContext{Source: "let = 1"})
	if len(ctx.Errors) == 0 {
		t.Fatalf("expected parse errors")
	}
	if ctx.Module != nil {
		t.Errorf("expected CheckStage to be skipped after a parse error, got a module")
	}
}

func TestPipelineReportsUnificationFailure(t *testing.T) {
	p := New(ParseStage{}, CheckStage{}, InterpretStage{})
	ctx := p.Run(&PipelineContext{Source: `let x = 1 + "a"`})
	if len(ctx.Errors) == 0 {
		t.Fatalf("expected a unification error for int + string")
	}
	if ctx.Eval != nil {
		t.Errorf("expected InterpretStage to be skipped after a check error")
	}
}
