package parser

import (
	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/token"
)

// precedence mirrors C's binary-operator precedence; higher binds tighter.
var precedence = map[token.Kind]int{
	token.PipePipe: 1,
	token.AmpAmp:   2,
	token.Pipe:     3,
	token.Caret:    4,
	token.Amp:      5,
	token.EqEq:     6, token.NotEq: 6,
	token.Lt: 7, token.Gt: 7, token.Le: 7, token.Ge: 7,
	token.Shl: 8, token.Shr: 8,
	token.Plus: 9, token.Minus: 9,
	token.Star: 10, token.Slash: 10, token.Percent: 10,
}

// parseExpr parses a full expression, including the dialect's single
// ternary form `(cond) ? a : b` (§4.5, §6.1). Nesting of ternaries is
// rejected here rather than deferred to a later semantic pass, since the
// parser already knows when it is re-entering parseTernary inside an arm.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseTernary(false)
}

func (p *Parser) parseTernary(insideTernary bool) ast.Expr {
	x := p.parseBinary(0)
	if p.at(token.Question) {
		pos := p.advance().Pos
		if insideTernary {
			p.errorf(pos, "nested ternary expressions are not permitted")
		}
		then := p.parseTernary(true)
		p.expect(token.Colon)
		els := p.parseTernary(true)
		return &ast.TernaryExpr{Cond: x, Then: then, Else: els, Pos: pos}
	}
	return x
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		opTok := p.cur()
		prec, ok := precedence[opTok.Kind]
		if !ok || prec < minPrec {
			return left
		}
		opIndex := p.curIndex()
		p.advance()
		right := p.parseBinary(prec + 1)
		left = &ast.BinaryExpr{Left: left, Right: right, Op: opTok.Kind, OpIndex: opIndex, Pos: opTok.Pos}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	t := p.cur()
	switch t.Kind {
	case token.Minus, token.Bang, token.Tilde:
		p.advance()
		return &ast.UnaryExpr{Op: t.Kind, X: p.parseUnary(), Pos: t.Pos}
	case token.Amp:
		p.advance()
		return &ast.AddrOfExpr{X: p.parseUnary(), Pos: t.Pos}
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.Dot:
			pos := p.advance().Pos
			name := p.expect(token.Ident).Literal
			x = &ast.MemberExpr{X: x, Name: name, Pos: pos}
		case token.LBracket:
			pos := p.advance().Pos
			first := p.parseExpr()
			if _, ok := p.accept(token.Comma); ok {
				width := p.parseExpr()
				p.expect(token.RBracket)
				x = &ast.BitRangeExpr{X: x, Start: first, Width: width, Pos: pos}
			} else {
				p.expect(token.RBracket)
				x = &ast.IndexExpr{X: x, Index: first, Pos: pos}
			}
		case token.LParen:
			pos := p.advance().Pos
			var args []ast.Expr
			for !p.at(token.RParen) && !p.at(token.EOF) {
				args = append(args, p.parseExpr())
				if !p.accept2(token.Comma) {
					break
				}
			}
			p.expect(token.RParen)
			x = &ast.CallExpr{Callee: x, Args: args, Pos: pos}
		default:
			return x
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.cur()
	switch t.Kind {
	case token.IntLiteral:
		p.advance()
		return &ast.IntLiteralExpr{Text: t.Literal, Pos: t.Pos}
	case token.FloatLiteral:
		p.advance()
		return &ast.FloatLiteralExpr{Text: t.Literal, Pos: t.Pos}
	case token.StringLiteral:
		p.advance()
		return &ast.StringLiteralExpr{Text: t.Literal, Pos: t.Pos}
	case token.KwThis:
		p.advance()
		return &ast.ThisExpr{Pos: t.Pos}
	case token.KwGlobal:
		p.advance()
		return &ast.GlobalExpr{Pos: t.Pos}
	case token.Ident:
		p.advance()
		if t.Literal == "true" || t.Literal == "false" {
			return &ast.BoolLiteralExpr{Value: t.Literal == "true", Pos: t.Pos}
		}
		return &ast.IdentExpr{Name: t.Literal, Pos: t.Pos}
	case token.LParen:
		p.advance()
		x := p.parseExpr()
		p.expect(token.RParen)
		return x
	default:
		p.errorf(t.Pos, "unexpected token %s %q in expression", t.Kind, t.Literal)
		p.advance()
		return &ast.IdentExpr{Name: "", Pos: t.Pos}
	}
}
