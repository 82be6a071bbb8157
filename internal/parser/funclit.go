package parser

import (
	"github.com/mnhoque/clog/internal/ast"
	"github.com/mnhoque/clog/internal/token"
)

// parseFuncLit parses `{ p1 => e1, p2 => e2, ... }` (§3.3's closure
// literal): one or more comma-separated branches, each a single pattern
// followed by `=>` and a body expression — currying, not multi-argument
// branches, is how every surface example expresses more than one
// parameter (`{ m => { n => m + n } }`). A bare comma is never part of
// an expression outside parens, so the body parser naturally stops at
// the branch-separating comma.
func (p *Parser) parseFuncLit() ast.Expr {
	tok := p.curToken
	var branches []ast.FuncBranch

	for {
		p.nextToken()
		pat := p.parsePattern()
		if !p.expect(token.ARROW) {
			break
		}
		p.nextToken()
		body := p.parseExpression(LOWEST)
		branches = append(branches, ast.FuncBranch{Patterns: []ast.Pattern{pat}, Body: body})

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expect(token.RBRACE) {
		return nil
	}
	return &ast.FuncLit{Token: tok, Branches: branches}
}
