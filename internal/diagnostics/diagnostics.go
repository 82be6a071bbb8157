// Package diagnostics defines the error taxonomy (§7) shared by the
// analyzer and the evaluator, plus a terminal-aware formatter for printing
// them to stderr (§6: "a diagnostic printed to standard error").
package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/mnhoque/clog/internal/token"
)

// ErrorCode stably identifies an error's category, independent of its
// rendered message — tests assert on the code, not the wording.
type ErrorCode string

const (
	// Static errors (§7 "Type errors during lowering").
	CodeNameNotFound         ErrorCode = "NAME_NOT_FOUND"
	CodeMultBindPattern      ErrorCode = "MULT_BIND_PATTERN"
	CodeConstructorNotFound  ErrorCode = "CONSTRUCTOR_NOT_FOUND"
	CodeNonConstructorApp    ErrorCode = "NON_CONSTRUCTOR_APP_PATTERN"
	CodeTypeNotDefined       ErrorCode = "TYPE_NOT_DEFINED"
	CodeArityMismatch        ErrorCode = "ARITY_MISMATCH"
	CodeUnification          ErrorCode = "UNIFICATION_FAILURE"
	CodeRedundantArm         ErrorCode = "REDUNDANT_ARM"
	CodeNonExhaustive        ErrorCode = "NON_EXHAUSTIVE_MATCH"
	CodeDuplicateTypeName    ErrorCode = "DUPLICATE_TYPE_NAME"
	CodeDuplicateVariantName ErrorCode = "DUPLICATE_VARIANT_NAME"

	// Runtime errors (§7 "Runtime errors").
	CodeRuntimeTypeMismatch ErrorCode = "RUNTIME_TYPE_MISMATCH"
	CodeInvalidPath         ErrorCode = "INVALID_PATH"
	CodeNonExhaustiveRuntime ErrorCode = "NON_EXHAUSTIVE_PATTERN_RUNTIME"
	CodeDivisionByZero      ErrorCode = "DIVISION_BY_ZERO"
	CodeIndexOutOfRange     ErrorCode = "INDEX_OUT_OF_RANGE"
)

// DiagnosticError is a single reported error: a stable code, a
// human-readable message, and (for static errors) the source position that
// produced it.
type DiagnosticError struct {
	Code    ErrorCode
	Message string
	Pos     token.Position
	HasPos  bool
}

func (e *DiagnosticError) Error() string {
	if e.HasPos {
		return fmt.Sprintf("%s: %s [%s]", e.Pos, e.Message, e.Code)
	}
	return fmt.Sprintf("%s [%s]", e.Message, e.Code)
}

// New builds a position-less DiagnosticError (used for runtime errors,
// which have no source position by the time they surface).
func New(code ErrorCode, format string, args ...any) *DiagnosticError {
	return &DiagnosticError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// At builds a DiagnosticError anchored to a source position (used by the
// analyzer, §4.4).
func At(pos token.Position, code ErrorCode, format string, args ...any) *DiagnosticError {
	return &DiagnosticError{Code: code, Message: fmt.Sprintf(format, args...), Pos: pos, HasPos: true}
}

// Printer writes diagnostics to an io.Writer, coloring them when the
// underlying stream is a terminal — the same isatty check the teacher
// performs before emitting ANSI color in internal/evaluator/builtins_term.go.
type Printer struct {
	w      io.Writer
	colors bool
}

// NewStderrPrinter returns a Printer writing to os.Stderr, with color
// enabled only when stderr is attached to a terminal.
func NewStderrPrinter() *Printer {
	colors := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return &Printer{w: os.Stderr, colors: colors}
}

// Print writes one error per line, red-bolded when colors are enabled.
func (p *Printer) Print(errs []error) {
	for _, err := range errs {
		if p.colors {
			fmt.Fprintf(p.w, "\x1b[1;31merror:\x1b[0m %s\n", err.Error())
		} else {
			fmt.Fprintf(p.w, "error: %s\n", err.Error())
		}
	}
}
