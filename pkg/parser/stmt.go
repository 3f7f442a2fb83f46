package parser

import (
	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/token"
)

func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.expect(token.LBrace).Pos
	blk := &ast.BlockStmt{Pos: start}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		s := p.parseStmt()
		if s != nil {
			blk.Stmts = append(blk.Stmts, s)
		}
	}
	p.expect(token.RBrace)
	return blk
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Kind {
	case token.KwReturn:
		return p.parseReturn()
	case token.KwBreak:
		pos := p.advance().Pos
		p.expect(token.Semicolon)
		return &ast.BreakStmt{Pos: pos}
	case token.KwContinue:
		pos := p.advance().Pos
		p.expect(token.Semicolon)
		return &ast.ContinueStmt{Pos: pos}
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDoWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwCritical:
		return p.parseCritical()
	case token.LBrace:
		return p.parseBlock()
	case token.KwAtomic, token.KwVolatile, token.KwConst, token.KwClamp, token.KwWrap:
		return p.parseLocalVarDecl()
	default:
		return p.parseSimpleStmtOrVarDecl()
	}
}

func (p *Parser) parseReturn() *ast.ReturnStmt {
	pos := p.expect(token.KwReturn).Pos
	if _, ok := p.accept(token.Semicolon); ok {
		return &ast.ReturnStmt{Pos: pos}
	}
	v := p.parseExpr()
	p.expect(token.Semicolon)
	return &ast.ReturnStmt{Value: v, Pos: pos}
}

func (p *Parser) parseIf() *ast.IfStmt {
	pos := p.expect(token.KwIf).Pos
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	then := p.parseBlock()
	s := &ast.IfStmt{Cond: cond, Then: then, Pos: pos}
	if _, ok := p.accept(token.KwElse); ok {
		if p.at(token.KwIf) {
			s.Else = p.parseIf()
		} else {
			s.Else = p.parseBlock()
		}
	}
	return s
}

func (p *Parser) parseWhile() *ast.WhileStmt {
	pos := p.expect(token.KwWhile).Pos
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	body := p.parseBlock()
	return &ast.WhileStmt{Cond: cond, Body: body, Pos: pos}
}

func (p *Parser) parseDoWhile() *ast.DoWhileStmt {
	pos := p.expect(token.KwDo).Pos
	body := p.parseBlock()
	p.expect(token.KwWhile)
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	p.expect(token.Semicolon)
	return &ast.DoWhileStmt{Body: body, Cond: cond, Pos: pos}
}

func (p *Parser) parseFor() *ast.ForStmt {
	pos := p.expect(token.KwFor).Pos
	p.expect(token.LParen)
	var init ast.Stmt
	if !p.at(token.Semicolon) {
		init = p.parseSimpleStmtOrVarDecl()
	} else {
		p.advance()
	}
	var cond ast.Expr
	if !p.at(token.Semicolon) {
		cond = p.parseExpr()
	}
	p.expect(token.Semicolon)
	var post ast.Stmt
	if !p.at(token.RParen) {
		post = p.parseAssignOrExprStmtNoSemi()
	}
	p.expect(token.RParen)
	body := p.parseBlock()
	return &ast.ForStmt{Init: init, Cond: cond, Post: post, Body: body, Pos: pos}
}

func (p *Parser) parseCritical() *ast.CriticalStmt {
	pos := p.expect(token.KwCritical).Pos
	body := p.parseBlock()
	return &ast.CriticalStmt{Body: body, Pos: pos}
}

// parseLocalVarDecl handles a local declaration carrying atomic/volatile/
// const/overflow modifiers (shares shape with top-level variableDeclaration).
func (p *Parser) parseLocalVarDecl() *ast.VarDeclStmt {
	start := p.cur().Pos
	atomic := p.accept2(token.KwAtomic)
	volatile := p.accept2(token.KwVolatile)
	isConst := p.accept2(token.KwConst)
	overflow := ast.OverflowDefault
	if _, ok := p.accept(token.KwClamp); ok {
		overflow = ast.OverflowClamp
	} else if _, ok := p.accept(token.KwWrap); ok {
		overflow = ast.OverflowWrap
	}
	typ := p.parseType()
	name := p.expect(token.Ident).Literal
	var dims []ast.Dimension
	for p.at(token.LBracket) {
		dims = append(dims, p.parseDimension())
	}
	var init ast.Expr
	if _, ok := p.accept(token.Assign); ok {
		init = p.parseExpr()
	}
	p.expect(token.Semicolon)
	return &ast.VarDeclStmt{
		Atomic: atomic, Volatile: volatile, Const: isConst, Overflow: overflow,
		Type: typ, Name: name, Dimensions: dims, Init: init, Pos: start,
	}
}

// isTypeStart reports whether the current position begins a bare type
// declaration (`u32 x <- 0;`) as opposed to an assignment/expression
// statement (`x <- 0;`, `foo();`).
func (p *Parser) isTypeStart() bool {
	t := p.cur()
	if t.Kind != token.Ident {
		return false
	}
	if _, ok := primKeywords[t.Literal]; ok {
		return true
	}
	if t.Literal == "string" && p.peekAt(1).Kind == token.Lt {
		return true
	}
	// `Name ident` (external/struct/enum/bitmap type followed by a
	// variable name) looks like a declaration; `Name (` or `Name <-`/`.`
	// does not.
	return p.peekAt(1).Kind == token.Ident
}

func (p *Parser) parseSimpleStmtOrVarDecl() ast.Stmt {
	if p.isTypeStart() {
		return p.parseLocalVarDecl()
	}
	return p.parseAssignOrExprStmt()
}

func (p *Parser) parseAssignOrExprStmt() ast.Stmt {
	s := p.parseAssignOrExprStmtNoSemi()
	p.expect(token.Semicolon)
	return s
}

var assignOps = map[token.Kind]bool{
	token.Assign: true, token.PlusAssign: true, token.MinusAssign: true,
	token.StarAssign: true, token.SlashAssign: true, token.PercentAssign: true,
	token.AndAssign: true, token.OrAssign: true, token.XorAssign: true,
	token.ShlAssign: true, token.ShrAssign: true,
}

func (p *Parser) parseAssignOrExprStmtNoSemi() ast.Stmt {
	pos := p.cur().Pos
	x := p.parseExpr()
	if assignOps[p.cur().Kind] {
		op := p.advance().Kind
		v := p.parseExpr()
		return &ast.AssignStmt{Target: x, Op: op, Value: v, Pos: pos}
	}
	return &ast.ExprStmt{X: x, Pos: pos}
}
