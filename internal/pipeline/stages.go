package pipeline

import (
	"github.com/mnhoque/clog/internal/analyzer"
	"github.com/mnhoque/clog/internal/evaluator"
	"github.com/mnhoque/clog/internal/lexer"
	"github.com/mnhoque/clog/internal/parser"
)

// ParseStage lexes and parses ctx.Source into ctx.Bindings (§6).
type ParseStage struct{}

func (ParseStage) Process(ctx *PipelineContext) *PipelineContext {
	l := lexer.New(ctx.Source)
	p := parser.New(l)
	ctx.Bindings = p.ParseProgram()
	for _, e := range p.Errors() {
		ctx.Errors = append(ctx.Errors, e)
	}
	return ctx
}

// CheckStage runs Hindley-Milner inference and decision-tree lowering over
// ctx.Bindings (§4). Skipped if an earlier stage already failed — running
// the analyzer over a parse error's partial AST would only produce noise.
type CheckStage struct{}

func (CheckStage) Process(ctx *PipelineContext) *PipelineContext {
	if len(ctx.Errors) > 0 {
		return ctx
	}
	mod, errs := analyzer.Check(ctx.Bindings)
	ctx.Module = mod
	for _, e := range errs {
		ctx.Errors = append(ctx.Errors, e)
	}
	return ctx
}

// InterpretStage tree-walks ctx.Module's globals in source order (§5).
type InterpretStage struct{}

func (InterpretStage) Process(ctx *PipelineContext) *PipelineContext {
	if len(ctx.Errors) > 0 || ctx.Module == nil {
		return ctx
	}
	evalCtx := evaluator.New(ctx.Module)
	if err := evalCtx.RunGlobals(); err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Eval = evalCtx
	return ctx
}
