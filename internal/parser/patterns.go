package parser

import (
	"github.com/mnhoque/clog/internal/ast"
	"github.com/mnhoque/clog/internal/token"
)

// parsePattern parses one surface pattern (§3.3): a wildcard, a literal,
// a bind, a parenthesized tuple, or a constructor application. A
// constructor pattern's inner pattern is itself parsed at this same
// level, so `Cons (h, t)` and `Cons h` are both single applications of
// one pattern to the constructor name.
func (p *Parser) parsePattern() ast.Pattern {
	switch p.curToken.Type {
	case token.UNDERSCORE:
		pat := &ast.WildPattern{Token: p.curToken}
		return pat
	case token.INT:
		tok := p.curToken
		var v int64
		for _, r := range tok.Literal {
			v = v*10 + int64(r-'0')
		}
		return &ast.LiteralPattern{Token: tok, Lit: ast.IntLit{Value: v}}
	case token.STRING:
		tok := p.curToken
		return &ast.LiteralPattern{Token: tok, Lit: ast.StringLit{Value: tok.Literal}}
	case token.TRUE, token.FALSE:
		tok := p.curToken
		return &ast.LiteralPattern{Token: tok, Lit: ast.BoolLit{Value: tok.Type == token.TRUE}}
	case token.IDENT:
		tok := p.curToken
		return &ast.BindPattern{Token: tok, Name: tok.Literal}
	case token.LPAREN:
		return p.parseTuplePattern()
	case token.CONSTRUCTOR:
		tok := p.curToken
		name := tok.Literal
		// A unit-payload variant is still written with an explicit `()`
		// pattern (e.g. `Nil ()`), so the inner pattern is always
		// present in well-formed source; a missing one is a parse error
		// the caller surfaces through its own expect-based recovery.
		if !p.peekTokenIs(token.LPAREN) && !p.peekTokenIs(token.UNDERSCORE) &&
			!p.peekTokenIs(token.IDENT) && !p.peekTokenIs(token.INT) &&
			!p.peekTokenIs(token.STRING) && !p.peekTokenIs(token.TRUE) && !p.peekTokenIs(token.FALSE) {
			p.errorf(tok.Pos, "constructor pattern %q needs an inner pattern", name)
			return &ast.SumVarPattern{Token: tok, Constructor: name, Inner: &ast.WildPattern{Token: tok}}
		}
		p.nextToken()
		inner := p.parsePattern()
		return &ast.SumVarPattern{Token: tok, Constructor: name, Inner: inner}
	default:
		p.errorf(p.curToken.Pos, "unexpected token %s in pattern", p.curToken.Type)
		return &ast.WildPattern{Token: p.curToken}
	}
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	tok := p.curToken
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		// `()` as a pattern matches the sole unit value: this language has
		// no empty tuple, so it is the Unit literal pattern, not a
		// zero-element TuplePattern.
		return &ast.LiteralPattern{Token: tok, Lit: ast.UnitLit{}}
	}
	p.nextToken()
	elems := []ast.Pattern{p.parsePattern()}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		elems = append(elems, p.parsePattern())
	}
	if !p.expect(token.RPAREN) {
		return &ast.TuplePattern{Token: tok, Elems: elems}
	}
	if len(elems) == 1 {
		// A single parenthesized pattern is just grouping, not a
		// one-element tuple — this language has no 1-tuples.
		return elems[0]
	}
	return &ast.TuplePattern{Token: tok, Elems: elems}
}
