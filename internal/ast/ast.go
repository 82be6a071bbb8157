// Package ast defines the surface abstract syntax tree: the contract the
// (out-of-scope, §1) lexer/grammar driver produces and the only thing the
// type checker (internal/analyzer) ever consumes. Surface-syntax concrete
// choices (keyword spellings, operator glyphs) never leak past this
// package.
package ast

import (
	"github.com/mnhoque/clog/internal/token"
	"github.com/mnhoque/clog/internal/typesystem"
)

// Node is the base interface every AST node implements, for error
// reporting.
type Node interface {
	Pos() token.Position
}

// Binding is a top-level definition: a type declaration, a value binding,
// or a recursive function binding.
type Binding interface {
	Node
	bindingNode()
}

// TypeBinding declares a sum type: `type Name(vars...) = | V1 T1 | V2 T2 ...`
type TypeBinding struct {
	Token    token.Token
	Name     string
	Vars     []string
	Variants []VariantDecl
}

// VariantDecl is one `| Name FieldType` alternative of a TypeBinding.
type VariantDecl struct {
	Name      string
	FieldType typesystem.ProtoType
}

func (b *TypeBinding) Pos() token.Position { return b.Token.Pos }
func (*TypeBinding) bindingNode()          {}

// ValueBinding is `pat = expr` (non-recursive).
type ValueBinding struct {
	Token   token.Token
	Pattern Pattern
	Value   Expr
}

func (b *ValueBinding) Pos() token.Position { return b.Token.Pos }
func (*ValueBinding) bindingNode()          {}

// FunctionBinding is `rec name = { p1... => e1, ... }`: a named, recursive
// closure binding. It lowers through the same value-binding path as
// ValueBinding (§4.4.2) — the name is pushed into scope before the
// Closure's branches are lowered so the reference resolves to the
// binding's own StaticVal (§9 "Cyclic structures").
type FunctionBinding struct {
	Token token.Token
	Name  string
	Func  *FuncLit
}

func (b *FunctionBinding) Pos() token.Position { return b.Token.Pos }
func (*FunctionBinding) bindingNode()          {}

// Pattern is a surface pattern (§3.3).
type Pattern interface {
	Node
	patternNode()
}

type WildPattern struct{ Token token.Token }

func (p *WildPattern) Pos() token.Position { return p.Token.Pos }
func (*WildPattern) patternNode()          {}

type LiteralPattern struct {
	Token token.Token
	Lit   Literal
}

func (p *LiteralPattern) Pos() token.Position { return p.Token.Pos }
func (*LiteralPattern) patternNode()          {}

type BindPattern struct {
	Token token.Token
	Name  string
}

func (p *BindPattern) Pos() token.Position { return p.Token.Pos }
func (*BindPattern) patternNode()          {}

type TuplePattern struct {
	Token token.Token
	Elems []Pattern
}

func (p *TuplePattern) Pos() token.Position { return p.Token.Pos }
func (*TuplePattern) patternNode()          {}

// SumVarPattern is `Constructor inner`, e.g. `Cons (h, t)`.
type SumVarPattern struct {
	Token       token.Token
	Constructor string
	Inner       Pattern
}

func (p *SumVarPattern) Pos() token.Position { return p.Token.Pos }
func (*SumVarPattern) patternNode()          {}

// Literal is a surface literal value.
type Literal interface {
	literalNode()
}

type (
	UnitLit   struct{}
	IntLit    struct{ Value int64 }
	BoolLit   struct{ Value bool }
	StringLit struct{ Value string }
)

func (UnitLit) literalNode()   {}
func (IntLit) literalNode()    {}
func (BoolLit) literalNode()   {}
func (StringLit) literalNode() {}

// BinOp and UnOp identify operators (§4.4.4).
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

type UnOp int

const (
	Neg UnOp = iota
	Not
)

// Expr is a surface expression.
type Expr interface {
	Node
	exprNode()
}

type LiteralExpr struct {
	Token token.Token
	Lit   Literal
}

func (e *LiteralExpr) Pos() token.Position { return e.Token.Pos }
func (*LiteralExpr) exprNode()             {}

// BoundExpr is a bare name reference: a variable, a top-level binding, or a
// bare constructor symbol.
type BoundExpr struct {
	Token token.Token
	Name  string
}

func (e *BoundExpr) Pos() token.Position { return e.Token.Pos }
func (*BoundExpr) exprNode()             {}

type TupleExpr struct {
	Token token.Token
	Elems []Expr
}

func (e *TupleExpr) Pos() token.Position { return e.Token.Pos }
func (*TupleExpr) exprNode()             {}

type BinOpExpr struct {
	Token token.Token
	Left  Expr
	Op    BinOp
	Right Expr
}

func (e *BinOpExpr) Pos() token.Position { return e.Token.Pos }
func (*BinOpExpr) exprNode()             {}

type UnOpExpr struct {
	Token token.Token
	Op    UnOp
	Expr  Expr
}

func (e *UnOpExpr) Pos() token.Position { return e.Token.Pos }
func (*UnOpExpr) exprNode()             {}

// SliceExpr is `s[a..b]` (§ SUPPLEMENTED FEATURES).
type SliceExpr struct {
	Token token.Token
	Str   Expr
	From  Expr
	To    Expr
}

func (e *SliceExpr) Pos() token.Position { return e.Token.Pos }
func (*SliceExpr) exprNode()             {}

// FuncLit is a closure literal: one or more branches, each a list of
// argument patterns (all branches must agree on arity) plus a body.
type FuncLit struct {
	Token    token.Token
	Branches []FuncBranch
}

func (e *FuncLit) Pos() token.Position { return e.Token.Pos }
func (*FuncLit) exprNode()             {}

type FuncBranch struct {
	Patterns []Pattern
	Body     Expr
}

type ApplicationExpr struct {
	Token token.Token
	Fn    Expr
	Arg   Expr
}

func (e *ApplicationExpr) Pos() token.Position { return e.Token.Pos }
func (*ApplicationExpr) exprNode()             {}

type ConditionalExpr struct {
	Token token.Token
	Cond  Expr
	Then  Expr
	Else  Expr
}

func (e *ConditionalExpr) Pos() token.Position { return e.Token.Pos }
func (*ConditionalExpr) exprNode()             {}

// Constructor application (`Cons (5, Nil ())`) has no dedicated AST node:
// the parser always produces it as ApplicationExpr{Fn: BoundExpr{"Cons"},
// Arg: ...} and the analyzer resolves the constructor name through the
// ordinary BoundExpr path (§4.4.4), which is what gives it its
// TConstructor pseudo-type.
