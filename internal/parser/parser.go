// Package parser turns a token stream into an internal/ast tree (§6
// "Source-file input"). Grounded on the teacher's own internal/parser: a
// Pratt expression parser keyed by prefix/infix function tables per
// token.Type, a recursion-depth guard against pathological nesting, and
// accumulated (not fail-fast) error reporting — adapted to this
// language's much smaller grammar (no statements, no traits, no modules:
// every top-level form is a Binding, every body is a single Expr).
package parser

import (
	"fmt"

	"github.com/mnhoque/clog/internal/ast"
	"github.com/mnhoque/clog/internal/token"
)

// MaxRecursionDepth bounds parseExpression's recursion, mirroring the
// teacher's own guard against a pathologically nested or malformed input
// exhausting the Go call stack before EOF is ever reached.
const MaxRecursionDepth = 250

// ParseError is one parse-time diagnostic (§7 "Parse errors (external)").
type ParseError struct {
	Pos token.Position
	Msg string
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// precedence levels, lowest to highest; application binds tighter than
// every operator (juxtaposition, as in `f x` or `len t`).
const (
	LOWEST int = iota
	OR
	AND
	EQUALS
	COMPARE
	CONCAT
	SUM
	PRODUCT
	PREFIX
	CALL
)

var precedences = map[token.Type]int{
	token.OR:      OR,
	token.AND:     AND,
	token.EQ:      EQUALS,
	token.NE:      EQUALS,
	token.LT:      COMPARE,
	token.GT:      COMPARE,
	token.LE:      COMPARE,
	token.GE:      COMPARE,
	token.CONCAT:  CONCAT,
	token.PLUS:    SUM,
	token.MINUS:   SUM,
	token.STAR:    PRODUCT,
	token.SLASH:   PRODUCT,
	token.PERCENT: PRODUCT,
	token.LBRACKET: CALL,
}

// tokenSource is the minimal interface Parser needs from internal/lexer,
// kept narrow so tests can drive the parser from a canned token slice
// without constructing real source text.
type tokenSource interface {
	NextToken() token.Token
}

type Parser struct {
	l tokenSource

	curToken  token.Token
	peekToken token.Token

	errors []error
	depth  int

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New returns a Parser reading tokens from l, primed with two tokens of
// lookahead (curToken/peekToken), matching the teacher's own two-token
// lookahead Parser.
func New(l tokenSource) *Parser {
	p := &Parser{l: l}
	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.INT:         p.parseIntLiteral,
		token.STRING:       p.parseStringLiteral,
		token.TRUE:        p.parseBoolLiteral,
		token.FALSE:       p.parseBoolLiteral,
		token.IDENT:       p.parseIdent,
		token.CONSTRUCTOR: p.parseIdent,
		token.MINUS:       p.parsePrefixExpr,
		token.NOT:         p.parsePrefixExpr,
		token.LPAREN:      p.parseGroupedOrTuple,
		token.LBRACE:      p.parseFuncLit,
		token.IF:          p.parseConditional,
	}
	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:     p.parseBinOp,
		token.MINUS:    p.parseBinOp,
		token.STAR:     p.parseBinOp,
		token.SLASH:    p.parseBinOp,
		token.PERCENT:  p.parseBinOp,
		token.LT:       p.parseBinOp,
		token.GT:       p.parseBinOp,
		token.LE:       p.parseBinOp,
		token.GE:       p.parseBinOp,
		token.EQ:       p.parseBinOp,
		token.NE:       p.parseBinOp,
		token.AND:      p.parseBinOp,
		token.OR:       p.parseBinOp,
		token.CONCAT:   p.parseBinOp,
		token.LBRACKET: p.parseIndexOrSlice,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every ParseError accumulated so far.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.errors = append(p.errors, &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// expect checks peekToken, advances past it on success, and records an
// error on mismatch (returning false without advancing, so the caller can
// attempt recovery).
func (p *Parser) expect(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(p.peekToken.Pos, "expected %s, got %s", t, p.peekToken.Type)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	// Juxtaposition: if the next token can start a primary expression,
	// treat it as function application — the tightest-binding infix.
	if p.startsPrimary(p.peekToken.Type) {
		return CALL
	}
	return LOWEST
}

func (p *Parser) startsPrimary(t token.Type) bool {
	_, ok := p.prefixParseFns[t]
	return ok
}

// parseExpression is the Pratt loop: a prefix parser builds the left
// operand, then infix parsers (including the synthetic application
// "operator") extend it while the next operator binds more
// tightly than precedence.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		p.errorf(p.curToken.Pos, "expression too deeply nested")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf(p.curToken.Pos, "unexpected token %s", p.curToken.Type)
		return nil
	}
	left := prefix()

	for precedence < p.peekPrecedence() {
		if _, isOperator := precedences[p.peekToken.Type]; !isOperator {
			// Application: the left operand becomes Fn, and the next
			// primary expression (parsed at CALL precedence so it binds
			// only to itself, not further applications) becomes Arg.
			pos := p.peekToken.Pos
			p.nextToken()
			arg := p.parseExpression(CALL)
			left = &ast.ApplicationExpr{Token: token.Token{Pos: pos}, Fn: left, Arg: arg}
			continue
		}
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func binOpPrecedence(t token.Type) int { return precedences[t] }

func (p *Parser) parseBinOp(left ast.Expr) ast.Expr {
	opTok := p.curToken
	op, ok := binOpFor(opTok.Type)
	if !ok {
		p.errorf(opTok.Pos, "unknown binary operator %s", opTok.Type)
		return left
	}
	prec := binOpPrecedence(opTok.Type)
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.BinOpExpr{Token: opTok, Left: left, Op: op, Right: right}
}

func binOpFor(t token.Type) (ast.BinOp, bool) {
	switch t {
	case token.PLUS:
		return ast.Add, true
	case token.MINUS:
		return ast.Sub, true
	case token.STAR:
		return ast.Mul, true
	case token.SLASH:
		return ast.Div, true
	case token.PERCENT:
		return ast.Mod, true
	case token.GT:
		return ast.Greater, true
	case token.LT:
		return ast.Less, true
	case token.GE:
		return ast.GreaterEq, true
	case token.LE:
		return ast.LessEq, true
	case token.EQ:
		return ast.Equal, true
	case token.NE:
		return ast.NotEq, true
	case token.AND:
		return ast.And, true
	case token.OR:
		return ast.Or, true
	case token.CONCAT:
		return ast.Concat, true
	default:
		return 0, false
	}
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	opTok := p.curToken
	var op ast.UnOp
	if opTok.Type == token.MINUS {
		op = ast.Neg
	} else {
		op = ast.Not
	}
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	return &ast.UnOpExpr{Token: opTok, Op: op, Expr: operand}
}

func (p *Parser) parseIntLiteral() ast.Expr {
	tok := p.curToken
	var v int64
	for _, r := range tok.Literal {
		v = v*10 + int64(r-'0')
	}
	return &ast.LiteralExpr{Token: tok, Lit: ast.IntLit{Value: v}}
}

func (p *Parser) parseStringLiteral() ast.Expr {
	tok := p.curToken
	return &ast.LiteralExpr{Token: tok, Lit: ast.StringLit{Value: tok.Literal}}
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	tok := p.curToken
	return &ast.LiteralExpr{Token: tok, Lit: ast.BoolLit{Value: tok.Type == token.TRUE}}
}

func (p *Parser) parseIdent() ast.Expr {
	tok := p.curToken
	return &ast.BoundExpr{Token: tok, Name: tok.Literal}
}

func (p *Parser) parseConditional() ast.Expr {
	tok := p.curToken
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expect(token.THEN) {
		return nil
	}
	p.nextToken()
	then := p.parseExpression(LOWEST)
	if !p.expect(token.ELSE) {
		return nil
	}
	p.nextToken()
	els := p.parseExpression(LOWEST)
	return &ast.ConditionalExpr{Token: tok, Cond: cond, Then: then, Else: els}
}

// parseGroupedOrTuple parses `(e)` as a parenthesized expression, or
// `(e1, e2, ...)` as a tuple literal (§3.3's only surface tuple form) —
// the two are disambiguated by whether a top-level comma follows the
// first element, since bare commas never appear in expression position
// outside parens.
func (p *Parser) parseGroupedOrTuple() ast.Expr {
	tok := p.curToken
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return &ast.LiteralExpr{Token: tok, Lit: ast.UnitLit{}}
	}
	p.nextToken()
	first := p.parseExpression(LOWEST)
	if p.peekTokenIs(token.COMMA) {
		elems := []ast.Expr{first}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			elems = append(elems, p.parseExpression(LOWEST))
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
		return &ast.TupleExpr{Token: tok, Elems: elems}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return first
}

// parseIndexOrSlice parses `s[i]` or `s[from..to]` (§ SUPPLEMENTED
// FEATURES), disambiguated by whether `..` follows the first index
// expression.
func (p *Parser) parseIndexOrSlice(left ast.Expr) ast.Expr {
	tok := p.curToken
	p.nextToken()
	first := p.parseExpression(LOWEST)
	if p.peekTokenIs(token.DOTDOT) {
		p.nextToken()
		p.nextToken()
		to := p.parseExpression(LOWEST)
		if !p.expect(token.RBRACKET) {
			return nil
		}
		return &ast.SliceExpr{Token: tok, Str: left, From: first, To: to}
	}
	if !p.expect(token.RBRACKET) {
		return nil
	}
	return &ast.BinOpExpr{Token: tok, Left: left, Op: ast.Index, Right: first}
}
