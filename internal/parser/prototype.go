package parser

import (
	"github.com/mnhoque/clog/internal/token"
	"github.com/mnhoque/clog/internal/typesystem"
)

// parseProtoType parses a variant's field-type annotation (§3.2): a
// ground type keyword, a generic parameter reference, a parenthesized
// tuple, or a sum-type name applied to its type arguments by
// juxtaposition (`List T`). Grounded on the same Pratt-ish
// atom/application split as parseExpression, specialized to the much
// smaller type grammar.
func (p *Parser) parseProtoType() typesystem.ProtoType {
	t := p.parseProtoTypeAtom()
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		to := p.parseProtoType()
		return typesystem.ProtoFunc{From: t, To: to}
	}
	return t
}

func (p *Parser) parseProtoTypeAtom() typesystem.ProtoType {
	switch p.curToken.Type {
	case token.IDENT:
		name := p.curToken.Literal
		switch name {
		case "int":
			return typesystem.ProtoInt{}
		case "bool":
			return typesystem.ProtoBool{}
		case "string":
			return typesystem.ProtoString{}
		case "unit":
			return typesystem.ProtoUnit{}
		default:
			return typesystem.ProtoGeneric{Name: name}
		}
	case token.CONSTRUCTOR:
		name := p.curToken.Literal
		var args []typesystem.ProtoType
		for p.startsProtoTypeAtom(p.peekToken.Type) {
			p.nextToken()
			args = append(args, p.parseProtoTypeAtom())
		}
		return typesystem.ProtoSum{Name: name, Args: args}
	case token.LPAREN:
		if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
			return typesystem.ProtoUnit{}
		}
		p.nextToken()
		first := p.parseProtoType()
		if p.peekTokenIs(token.COMMA) {
			elems := []typesystem.ProtoType{first}
			for p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				elems = append(elems, p.parseProtoType())
			}
			p.expect(token.RPAREN)
			return typesystem.ProtoTuple{Elems: elems}
		}
		p.expect(token.RPAREN)
		return first
	default:
		p.errorf(p.curToken.Pos, "unexpected token %s in type", p.curToken.Type)
		return typesystem.ProtoUnit{}
	}
}

func (p *Parser) startsProtoTypeAtom(t token.Type) bool {
	switch t {
	case token.IDENT, token.CONSTRUCTOR, token.LPAREN:
		return true
	default:
		return false
	}
}
