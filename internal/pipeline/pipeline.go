// Package pipeline chains the lex -> parse -> check -> interpret stages
// behind one shape (§6 "Source-file input"), grounded on the teacher's own
// tiny Pipeline/Processor abstraction.
package pipeline

import (
	"github.com/mnhoque/clog/internal/ast"
	"github.com/mnhoque/clog/internal/evaluator"
	"github.com/mnhoque/clog/internal/ir"
)

// Processor runs one stage over a PipelineContext, returning the (possibly
// mutated) context for the next stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext threads source text through to a finished interpreter
// run, accumulating errors from whichever stage produced them rather than
// aborting at the first one.
type PipelineContext struct {
	Path   string
	Source string

	Bindings []ast.Binding
	Module   *ir.Module
	Eval     *evaluator.Context

	Errors []error
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Run never stops early; each stage itself skips its work once
		// ctx.Errors is non-empty.
	}
	return ctx
}
