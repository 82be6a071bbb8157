package analyzer

import (
	"github.com/mnhoque/clog/internal/ast"
	"github.com/mnhoque/clog/internal/diagnostics"
	"github.com/mnhoque/clog/internal/ir"
	"github.com/mnhoque/clog/internal/scope"
	"github.com/mnhoque/clog/internal/typesystem"
)

// lowerExpr lowers one surface expression to IR, recording any
// constraints the expression's shape implies (§4.4.4), grounded on
// original_source/src/type_check.rs's Expr::transform.
func (s *state) lowerExpr(e ast.Expr, sc *scope.Stack) ir.Expr {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		return s.lowerLiteral(e.Lit)

	case *ast.BoundExpr:
		b, ok := sc.Get(e.Name)
		if !ok {
			s.errors = append(s.errors, diagnostics.At(e.Pos(), diagnostics.CodeNameNotFound,
				"name %q not found", e.Name))
			return &ir.ErrorExpr{Typ: s.fresh()}
		}
		typ, next := typesystem.Instantiate(b.Type, s.nextVar)
		s.nextVar = next
		return &ir.BoundExpr{Path: b.Path, Typ: typ}

	case *ast.TupleExpr:
		elems := make([]ir.Expr, len(e.Elems))
		types := make([]typesystem.Type, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = s.lowerExpr(el, sc)
			types[i] = elems[i].Type()
		}
		return &ir.TupleExpr{Elems: elems, Typ: typesystem.TTuple{Elems: types}}

	case *ast.BinOpExpr:
		return s.lowerBinOp(e, sc)

	case *ast.UnOpExpr:
		inner := s.lowerExpr(e.Expr, sc)
		var typ typesystem.Type
		var op ir.UnOp
		switch e.Op {
		case ast.Neg:
			typ, op = typesystem.TInt{}, ir.Neg
		case ast.Not:
			typ, op = typesystem.TBool{}, ir.Not
		}
		s.eq(inner.Type(), typ)
		return &ir.UnOpExpr{Op: op, Expr: inner, Typ: typ}

	case *ast.SliceExpr:
		str := s.lowerExpr(e.Str, sc)
		from := s.lowerExpr(e.From, sc)
		to := s.lowerExpr(e.To, sc)
		s.eq(str.Type(), typesystem.TString{})
		s.eq(from.Type(), typesystem.TInt{})
		s.eq(to.Type(), typesystem.TInt{})
		return &ir.SliceExpr{Str: str, From: from, To: to, Typ: typesystem.TString{}}

	case *ast.FuncLit:
		return s.lowerFuncLit(e, sc)

	case *ast.ApplicationExpr:
		return s.lowerApplication(e, sc)

	case *ast.ConditionalExpr:
		cond := s.lowerExpr(e.Cond, sc)
		s.eq(cond.Type(), typesystem.TBool{})
		then := s.lowerExpr(e.Then, sc)
		els := s.lowerExpr(e.Else, sc)
		s.eq(then.Type(), els.Type())
		return &ir.ConditionalExpr{Cond: cond, Then: then, Else: els, Typ: then.Type()}

	default:
		panic("analyzer: unknown expression node")
	}
}

func (s *state) lowerLiteral(lit ast.Literal) ir.Expr {
	switch lit := lit.(type) {
	case ast.UnitLit:
		return &ir.LitExpr{Kind: ir.LitUnit, Typ: typesystem.TUnit{}}
	case ast.IntLit:
		return &ir.LitExpr{Kind: ir.LitInt, I: lit.Value, Typ: typesystem.TInt{}}
	case ast.BoolLit:
		return &ir.LitExpr{Kind: ir.LitBool, B: lit.Value, Typ: typesystem.TBool{}}
	case ast.StringLit:
		return &ir.LitExpr{Kind: ir.LitString, S: lit.Value, Typ: typesystem.TString{}}
	default:
		panic("analyzer: unknown literal node")
	}
}

// lowerBinOp types each operator family per §4.4.4: arithmetic operators
// fix both operands and the result to Int; ordering comparisons fix
// operands to Int and the result to Bool; equality tests fix both
// operands to a shared (otherwise unconstrained) type and the result to
// Bool; boolean connectives fix everything to Bool; Concat fixes
// everything to String; Index (§ SUPPLEMENTED FEATURES) takes a String
// and an Int and yields the Int code point at that position.
func (s *state) lowerBinOp(e *ast.BinOpExpr, sc *scope.Stack) ir.Expr {
	left := s.lowerExpr(e.Left, sc)
	right := s.lowerExpr(e.Right, sc)

	var op ir.BinOp
	var resultType typesystem.Type

	switch e.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Mod:
		s.eq(left.Type(), typesystem.TInt{})
		s.eq(right.Type(), typesystem.TInt{})
		resultType = typesystem.TInt{}
		op = binOpTable[e.Op]
	case ast.Greater, ast.Less, ast.GreaterEq, ast.LessEq:
		s.eq(left.Type(), typesystem.TInt{})
		s.eq(right.Type(), typesystem.TInt{})
		resultType = typesystem.TBool{}
		op = binOpTable[e.Op]
	case ast.Equal, ast.NotEq:
		s.eq(left.Type(), right.Type())
		resultType = typesystem.TBool{}
		op = binOpTable[e.Op]
	case ast.And, ast.Or:
		s.eq(left.Type(), typesystem.TBool{})
		s.eq(right.Type(), typesystem.TBool{})
		resultType = typesystem.TBool{}
		op = binOpTable[e.Op]
	case ast.Concat:
		s.eq(left.Type(), typesystem.TString{})
		s.eq(right.Type(), typesystem.TString{})
		resultType = typesystem.TString{}
		op = ir.Concat
	case ast.Index:
		s.eq(left.Type(), typesystem.TString{})
		s.eq(right.Type(), typesystem.TInt{})
		resultType = typesystem.TInt{}
		op = ir.Index
	}
	return &ir.BinOpExpr{Op: op, Left: left, Right: right, Typ: resultType}
}

var binOpTable = map[ast.BinOp]ir.BinOp{
	ast.Add: ir.Add, ast.Sub: ir.Sub, ast.Mul: ir.Mul, ast.Div: ir.Div, ast.Mod: ir.Mod,
	ast.Greater: ir.Greater, ast.Less: ir.Less, ast.GreaterEq: ir.GreaterEq, ast.LessEq: ir.LessEq,
	ast.Equal: ir.Equal, ast.NotEq: ir.NotEq,
	ast.And: ir.And, ast.Or: ir.Or,
}

// lowerApplication distinguishes a fully-applied constructor (whose
// callee resolves to a TConstructor pseudo-type, §4.4.4) from ordinary
// function application.
func (s *state) lowerApplication(e *ast.ApplicationExpr, sc *scope.Stack) ir.Expr {
	fn := s.lowerExpr(e.Fn, sc)

	if bound, ok := fn.(*ir.BoundExpr); ok {
		if ctor, ok := bound.Typ.(typesystem.TConstructor); ok {
			arg := s.lowerExpr(e.Arg, sc)
			fieldType, sumType, next := s.registry.InstantiateVariant(ctor.Target, ctor.Position, s.nextVar)
			s.nextVar = next
			s.eq(arg.Type(), fieldType)
			return &ir.SumValExpr{Target: ctor.Target, Variant: ctor.Position - 1, Value: arg, Typ: sumType}
		}
	}

	arg := s.lowerExpr(e.Arg, sc)
	ret := s.fresh()
	s.eq(fn.Type(), typesystem.TFunc{From: arg.Type(), To: ret})
	return &ir.ApplicationExpr{Fn: fn, Arg: arg, Typ: ret}
}
