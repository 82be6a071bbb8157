package ir

import "github.com/mnhoque/clog/internal/typesystem"

// Closure is one compiled function entry in a Module's closure table
// (§3.7). Captures lists, in capture-slot order, the path in the
// enclosing scope each capture reads from at closure-construction time
// together with its type; Args/ReturnType are the (possibly still
// type-variable-carrying before generalization) curried signature;
// DTree dispatches an argument tuple to the matching Branches entry.
type Closure struct {
	Captures   []CaptureSource
	Args       []typesystem.Type
	ReturnType typesystem.Type
	DTree      DTreeNode
	Branches   []Expr
}

// CaptureSource is one entry of a Closure's capture list: where the
// value comes from in the enclosing scope, and its type.
type CaptureSource struct {
	From ValPath
	Type typesystem.Type
}

// DTreeNode is the interface internal/dtree.Tree satisfies; internal/ir
// cannot import internal/dtree directly (internal/dtree imports
// internal/ir for ValPath/ConstraintValue, and a back-import would be a
// cycle), so Closure.DTree is typed through this narrow interface
// instead. The evaluator type-asserts it back to *dtree.Tree to walk it.
type DTreeNode interface {
	IsDTree()
}

// Global is one top-level value binding (§3.7): its name (set for `rec`
// function bindings), its initializer expression, and its generalized
// type.
type Global struct {
	Name  string
	Value Expr
	Type  typesystem.Type
}

// Module is the complete compiled program (§3.7, §3.9): the closure
// table every Closure(n) IR node indexes into, the top-level bindings in
// source order, the declared sum types (already installed into a
// typesystem.Registry by the analyzer), and the names an importing
// driver may look up by name (unused until a module system exists, but
// kept since the original source's imper_ast.rs carries it).
type Module struct {
	Closures []Closure
	Globals  []Global
	Types    *typesystem.Registry
	Exports  map[string]ValPath
}

// Expr is a lowered IR expression (§3.8): fully resolved, monomorphic at
// each use site, and built only of the node kinds below.
type Expr interface {
	exprNode()
	// Type returns this node's static type, as fixed by the analyzer.
	Type() typesystem.Type
}

// LitExpr is an IR literal value.
type LitExpr struct {
	Kind LitKind
	I    int64
	B    bool
	S    string
	Typ  typesystem.Type
}

type LitKind int

const (
	LitUnit LitKind = iota
	LitInt
	LitBool
	LitString
)

func (e *LitExpr) exprNode()             {}
func (e *LitExpr) Type() typesystem.Type { return e.Typ }

// BoundExpr reads the value at Path — a local, a global, a capture, or an
// external.
type BoundExpr struct {
	Path ValPath
	Typ  typesystem.Type
}

func (e *BoundExpr) exprNode()             {}
func (e *BoundExpr) Type() typesystem.Type { return e.Typ }

type TupleExpr struct {
	Elems []Expr
	Typ   typesystem.Type
}

func (e *TupleExpr) exprNode()             {}
func (e *TupleExpr) Type() typesystem.Type { return e.Typ }

// SliceExpr is `str[from..to]` (§ SUPPLEMENTED FEATURES), lowered to an
// explicit IR node rather than a registry call so bounds-checking (§7
// INDEX_OUT_OF_RANGE) is uniform with BinOpExpr's Index operator.
type SliceExpr struct {
	Str  Expr
	From Expr
	To   Expr
	Typ  typesystem.Type
}

func (e *SliceExpr) exprNode()             {}
func (e *SliceExpr) Type() typesystem.Type { return e.Typ }

type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Mod
	Greater
	Less
	GreaterEq
	LessEq
	Equal
	NotEq
	And
	Or
	Concat
	Index
)

type BinOpExpr struct {
	Op    BinOp
	Left  Expr
	Right Expr
	Typ   typesystem.Type
}

func (e *BinOpExpr) exprNode()             {}
func (e *BinOpExpr) Type() typesystem.Type { return e.Typ }

type UnOp int

const (
	Neg UnOp = iota
	Not
)

type UnOpExpr struct {
	Op   UnOp
	Expr Expr
	Typ  typesystem.Type
}

func (e *UnOpExpr) exprNode()             {}
func (e *UnOpExpr) Type() typesystem.Type { return e.Typ }

// ClosureExpr builds a runtime closure value from Module.Closures[Index],
// evaluating each CaptureSource against the current frame at construction
// time (§4.5 gen_captures).
type ClosureExpr struct {
	Index int
	Typ   typesystem.Type
}

func (e *ClosureExpr) exprNode()             {}
func (e *ClosureExpr) Type() typesystem.Type { return e.Typ }

type ApplicationExpr struct {
	Fn  Expr
	Arg Expr
	Typ typesystem.Type
}

func (e *ApplicationExpr) exprNode()             {}
func (e *ApplicationExpr) Type() typesystem.Type { return e.Typ }

// SumValExpr builds a value of the sum type named by Target, tagged
// Variant, wrapping Value in its payload slot (§3.8, §4.4.4: this is what
// a fully-applied constructor lowers to).
type SumValExpr struct {
	Target  int
	Variant int
	Value   Expr
	Typ     typesystem.Type
}

func (e *SumValExpr) exprNode()             {}
func (e *SumValExpr) Type() typesystem.Type { return e.Typ }

type ConditionalExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Typ  typesystem.Type
}

func (e *ConditionalExpr) exprNode()             {}
func (e *ConditionalExpr) Type() typesystem.Type { return e.Typ }

// ErrorExpr marks a subtree the analyzer could not lower (after already
// recording a diagnostic for it), so lowering of sibling expressions can
// continue and collect further errors in one pass instead of aborting at
// the first one.
type ErrorExpr struct {
	Typ typesystem.Type
}

func (e *ErrorExpr) exprNode()             {}
func (e *ErrorExpr) Type() typesystem.Type { return e.Typ }
