package parser

import (
	"github.com/mnhoque/clog/internal/ast"
	"github.com/mnhoque/clog/internal/token"
)

// ParseProgram parses a whole source file into the top-level Binding
// list internal/analyzer.Check consumes (§3.1, §6). Parsing continues
// past a malformed binding by skipping to the next top-level keyword, so
// one mistake doesn't hide every other error in the file.
func (p *Parser) ParseProgram() []ast.Binding {
	var bindings []ast.Binding
	for !p.curTokenIs(token.EOF) {
		b := p.parseBinding()
		if b == nil {
			// Recovery already parked curToken on the next binding's
			// start token (or EOF) — advancing again here would skip
			// straight past it.
			continue
		}
		bindings = append(bindings, b)
		p.nextToken()
	}
	return bindings
}

func (p *Parser) parseBinding() ast.Binding {
	switch p.curToken.Type {
	case token.TYPE:
		return p.parseTypeBinding()
	case token.REC:
		return p.parseFunctionBinding()
	case token.LET:
		return p.parseValueBinding()
	default:
		p.errorf(p.curToken.Pos, "expected a top-level binding (let/rec/type), got %s", p.curToken.Type)
		p.skipToNextBinding()
		return nil
	}
}

// skipToNextBinding advances past tokens until one that can start a new
// top-level binding, or EOF — the recovery strategy for a malformed
// binding so the parser can keep collecting further errors.
func (p *Parser) skipToNextBinding() {
	// Always move at least one token: a caller may invoke this while
	// curToken itself is still sitting on a LET/REC/TYPE it hasn't
	// consumed yet, and the loop below would otherwise see that as
	// "already there" and make no progress at all.
	p.nextToken()
	for !p.curTokenIs(token.EOF) &&
		!p.curTokenIs(token.LET) && !p.curTokenIs(token.REC) && !p.curTokenIs(token.TYPE) {
		p.nextToken()
	}
}

func (p *Parser) parseValueBinding() ast.Binding {
	tok := p.curToken
	p.nextToken()
	pat := p.parsePattern()
	if !p.expect(token.ASSIGN) {
		p.skipToNextBinding()
		return nil
	}
	p.nextToken()
	val := p.parseExpression(LOWEST)
	return &ast.ValueBinding{Token: tok, Pattern: pat, Value: val}
}

func (p *Parser) parseFunctionBinding() ast.Binding {
	tok := p.curToken
	if !p.expect(token.IDENT) {
		p.skipToNextBinding()
		return nil
	}
	name := p.curToken.Literal
	if !p.expect(token.ASSIGN) {
		p.skipToNextBinding()
		return nil
	}
	if !p.expect(token.LBRACE) {
		p.skipToNextBinding()
		return nil
	}
	fn, ok := p.parseFuncLit().(*ast.FuncLit)
	if !ok {
		p.skipToNextBinding()
		return nil
	}
	return &ast.FunctionBinding{Token: tok, Name: name, Func: fn}
}

func (p *Parser) parseTypeBinding() ast.Binding {
	tok := p.curToken
	if !p.expect(token.CONSTRUCTOR) {
		p.skipToNextBinding()
		return nil
	}
	name := p.curToken.Literal

	var vars []string
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		p.nextToken()
		for !p.curTokenIs(token.RPAREN) {
			vars = append(vars, p.curToken.Literal)
			p.nextToken()
			if p.curTokenIs(token.COMMA) {
				p.nextToken()
			}
		}
	}

	if !p.expect(token.ASSIGN) {
		p.skipToNextBinding()
		return nil
	}
	if !p.expect(token.PIPE) {
		p.skipToNextBinding()
		return nil
	}

	var variants []ast.VariantDecl
	for {
		if !p.expect(token.CONSTRUCTOR) {
			break
		}
		variantName := p.curToken.Literal
		p.nextToken()
		fieldType := p.parseProtoType()
		variants = append(variants, ast.VariantDecl{Name: variantName, FieldType: fieldType})
		if !p.peekTokenIs(token.PIPE) {
			break
		}
		p.nextToken()
	}

	return &ast.TypeBinding{Token: tok, Name: name, Vars: vars, Variants: variants}
}
