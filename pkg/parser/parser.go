// Package parser implements the recursive-descent parser of §4.2: it
// produces the pkg/ast parse tree over the grammar of spec §6.1. Errors
// are collected, not printed; a parse with any error aborts the
// translation unit (the caller checks Errors() before proceeding).
package parser

import (
	"fmt"

	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/lexer"
	"github.com/jlaustill/cnext/pkg/token"
)

// Error is a parse-time error with position.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Message) }

// Parser consumes a pre-lexed token stream and builds a parse tree.
type Parser struct {
	file   string
	toks   []token.Token
	pos    int
	errors []*Error
}

// Parse lexes and parses src in one call, returning the parse tree and any
// lex+parse errors combined (a parse with any error aborts the unit, §4.2).
func Parse(file, src string) (*ast.File, []error) {
	lx := lexer.New(file, src)
	toks := lx.Tokenize()
	p := &Parser{file: file, toks: toks}
	f := p.parseFile()

	var errs []error
	for _, e := range lx.Errors() {
		errs = append(errs, e)
	}
	for _, e := range p.errors {
		errs = append(errs, e)
	}
	return f, errs
}

func (p *Parser) Errors() []*Error { return p.errors }

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) curIndex() int { return p.pos }

func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(k token.Kind) token.Token {
	if p.at(k) {
		return p.advance()
	}
	t := p.cur()
	p.errorf(t.Pos, "expected %s, found %s %q", k, t.Kind, t.Literal)
	return t
}

func (p *Parser) errorf(pos token.Position, format string, args ...interface{}) {
	p.errors = append(p.errors, &Error{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// synchronize skips tokens until a declaration/statement boundary, so one
// malformed construct doesn't cascade into spurious follow-on errors.
func (p *Parser) synchronize() {
	for !p.at(token.EOF) {
		if p.at(token.Semicolon) {
			p.advance()
			return
		}
		if p.at(token.RBrace) {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseFile() *ast.File {
	f := &ast.File{Path: p.file}
	for !p.at(token.EOF) {
		switch {
		case p.at(token.Hash):
			p.parseDirective(f)
		default:
			d := p.parseDeclaration()
			if d != nil {
				f.Decls = append(f.Decls, d)
			}
		}
	}
	return f
}

func (p *Parser) parseDirective(f *ast.File) {
	t := p.advance()
	line := classify(t.Literal)
	f.Directives = append(f.Directives, token.PreprocessorLine{
		Kind: line.Kind, Raw: line.Raw, Name: line.Name, System: line.System, Pos: t.Pos,
	})
	if line.Kind == token.DirInclude {
		f.Includes = append(f.Includes, ast.IncludeDirective{Path: line.Name, System: line.System, Pos: t.Pos})
	}
}

// classify re-derives directive classification from the raw Hash token
// text; kept local to avoid importing lexer's unexported helpers.
func classify(raw string) token.PreprocessorLine {
	lines := lexer.ClassifyDirectives("", "#"+raw)
	if len(lines) == 0 {
		return token.PreprocessorLine{Kind: token.DirUnknown, Raw: raw}
	}
	return lines[0]
}

func (p *Parser) parseDeclaration() ast.Decl {
	switch p.cur().Kind {
	case token.KwScope:
		return p.parseScope()
	case token.KwRegister:
		return p.parseRegister()
	case token.KwStruct:
		return p.parseStruct(ast.Private)
	case token.KwEnum:
		return p.parseEnum(ast.Private)
	case token.KwBitmap8, token.KwBitmap16, token.KwBitmap24, token.KwBitmap32:
		return p.parseBitmap(ast.Private)
	case token.KwPublic, token.KwPrivate:
		vis := ast.Private
		if p.cur().Kind == token.KwPublic {
			vis = ast.Public
		}
		p.advance()
		return p.parseVisibleDeclaration(vis)
	default:
		return p.parseFunctionOrVariable(ast.Private)
	}
}

func (p *Parser) parseVisibleDeclaration(vis ast.Visibility) ast.Decl {
	switch p.cur().Kind {
	case token.KwStruct:
		return p.parseStruct(vis)
	case token.KwEnum:
		return p.parseEnum(vis)
	case token.KwBitmap8, token.KwBitmap16, token.KwBitmap24, token.KwBitmap32:
		return p.parseBitmap(vis)
	default:
		return p.parseFunctionOrVariable(vis)
	}
}

func (p *Parser) parseScope() *ast.ScopeDecl {
	start := p.expect(token.KwScope).Pos
	name := p.expect(token.Ident).Literal
	p.expect(token.LBrace)

	decl := &ast.ScopeDecl{Name: name, Pos: start}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		vis := ast.Private
		if _, ok := p.accept(token.KwPublic); ok {
			vis = ast.Public
		} else if _, ok := p.accept(token.KwPrivate); ok {
			vis = ast.Private
		}
		memberPos := p.cur().Pos
		d := p.parseVisibleDeclaration(vis)
		if d == nil {
			p.synchronize()
			continue
		}
		decl.Members = append(decl.Members, &ast.ScopeMember{Visibility: vis, Decl: d, Pos: memberPos})
	}
	p.expect(token.RBrace)
	return decl
}

func (p *Parser) parseRegister() *ast.RegisterDecl {
	start := p.expect(token.KwRegister).Pos
	name := p.expect(token.Ident).Literal
	p.expect(token.At)
	base := p.parseExpr()
	p.expect(token.LBrace)

	decl := &ast.RegisterDecl{Name: name, BaseAddr: base, Pos: start}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		memberPos := p.cur().Pos
		memberName := p.expect(token.Ident).Literal
		p.expect(token.Colon)
		typ := p.parseType()
		access := p.parseAccessMode()
		p.expect(token.At)
		offset := p.parseExpr()
		m := &ast.RegisterMember{Name: memberName, Type: typ, Access: access, Offset: offset, Pos: memberPos}
		if _, ok := p.accept(token.LBracket); ok {
			m.BitStart = p.parseExpr()
			p.expect(token.Comma)
			m.BitWidth = p.parseExpr()
			p.expect(token.RBracket)
		}
		decl.Members = append(decl.Members, m)
		p.accept(token.Comma)
	}
	p.expect(token.RBrace)
	return decl
}

func (p *Parser) parseAccessMode() ast.AccessMode {
	t := p.advance()
	switch t.Literal {
	case "rw":
		return ast.AccessRW
	case "ro":
		return ast.AccessRO
	case "wo":
		return ast.AccessWO
	case "w1c":
		return ast.AccessW1C
	case "w1s":
		return ast.AccessW1S
	default:
		p.errorf(t.Pos, "expected access mode (rw|ro|wo|w1c|w1s), found %q", t.Literal)
		return ast.AccessRW
	}
}

func (p *Parser) parseStruct(vis ast.Visibility) *ast.StructDecl {
	start := p.expect(token.KwStruct).Pos
	name := p.expect(token.Ident).Literal
	p.expect(token.LBrace)
	decl := &ast.StructDecl{Name: name, Visibility: vis, Pos: start}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fieldPos := p.cur().Pos
		typ := p.parseType()
		fname := p.expect(token.Ident).Literal
		var dims []ast.Dimension
		for p.at(token.LBracket) {
			dims = append(dims, p.parseDimension())
		}
		p.expect(token.Semicolon)
		decl.Fields = append(decl.Fields, &ast.StructField{Name: fname, Type: typ, Dimensions: dims, Pos: fieldPos})
	}
	p.expect(token.RBrace)
	return decl
}

func (p *Parser) parseEnum(vis ast.Visibility) *ast.EnumDecl {
	start := p.expect(token.KwEnum).Pos
	name := p.expect(token.Ident).Literal
	p.expect(token.LBrace)
	decl := &ast.EnumDecl{Name: name, Visibility: vis, Pos: start}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		memberPos := p.cur().Pos
		mname := p.expect(token.Ident).Literal
		var value ast.Expr
		if _, ok := p.accept(token.Equal); ok {
			value = p.parseExpr()
		}
		decl.Members = append(decl.Members, &ast.EnumMember{Name: mname, Value: value, Pos: memberPos})
		if !p.accept2(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace)
	return decl
}

func (p *Parser) accept2(k token.Kind) bool {
	_, ok := p.accept(k)
	return ok
}

func (p *Parser) parseBitmap(vis ast.Visibility) *ast.BitmapDecl {
	kw := p.advance()
	width := 8
	switch kw.Kind {
	case token.KwBitmap8:
		width = 8
	case token.KwBitmap16:
		width = 16
	case token.KwBitmap24:
		width = 24
	case token.KwBitmap32:
		width = 32
	}
	name := p.expect(token.Ident).Literal
	p.expect(token.LBrace)
	decl := &ast.BitmapDecl{Name: name, BitWidth: width, Visibility: vis, Pos: kw.Pos}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fieldPos := p.cur().Pos
		fname := p.expect(token.Ident).Literal
		fwidth := 1
		if _, ok := p.accept(token.LBracket); ok {
			lit := p.expect(token.IntLiteral)
			fwidth = parseIntLiteral(lit.Literal)
			p.expect(token.RBracket)
		}
		decl.Fields = append(decl.Fields, &ast.BitmapField{Name: fname, Width: fwidth, Pos: fieldPos})
		if !p.accept2(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace)
	return decl
}

// parseFunctionOrVariable handles the shared prefix of a function and a
// variable declaration (modifiers, type, name) before branching on `(`.
func (p *Parser) parseFunctionOrVariable(vis ast.Visibility) ast.Decl {
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

	if p.at(token.LParen) {
		return p.parseFunctionTail(vis, typ, name, start)
	}

	var dims []ast.Dimension
	for p.at(token.LBracket) {
		dims = append(dims, p.parseDimension())
	}
	var init ast.Expr
	if _, ok := p.accept(token.Assign); ok {
		init = p.parseExpr()
	}
	p.expect(token.Semicolon)
	return &ast.VariableDecl{
		Atomic: atomic, Volatile: volatile, Const: isConst, Overflow: overflow,
		Type: typ, Name: name, Dimensions: dims, Init: init, Visibility: vis, Pos: start,
	}
}

func (p *Parser) parseFunctionTail(vis ast.Visibility, ret *ast.Type, name string, start token.Position) *ast.FunctionDecl {
	p.expect(token.LParen)
	var params []*ast.Parameter
	for !p.at(token.RParen) && !p.at(token.EOF) {
		paramPos := p.cur().Pos
		isConst := p.accept2(token.KwConst)
		ptype := p.parseType()
		pname := p.expect(token.Ident).Literal
		var dims []ast.Dimension
		for p.at(token.LBracket) {
			dims = append(dims, p.parseDimension())
		}
		params = append(params, &ast.Parameter{Name: pname, Type: ptype, IsConst: isConst, Dimensions: dims, Pos: paramPos})
		if !p.accept2(token.Comma) {
			break
		}
	}
	p.expect(token.RParen)

	var body *ast.BlockStmt
	if p.at(token.LBrace) {
		body = p.parseBlock()
	} else {
		p.expect(token.Semicolon)
	}

	return &ast.FunctionDecl{Name: name, Params: params, Return: ret, Body: body, Visibility: vis, Pos: start}
}

func (p *Parser) parseDimension() ast.Dimension {
	p.expect(token.LBracket)
	var d ast.Dimension
	if p.at(token.IntLiteral) {
		d.Literal = int64(parseIntLiteral(p.advance().Literal))
	} else {
		d.IsSymbolic = true
		d.Symbol = p.expect(token.Ident).Literal
	}
	p.expect(token.RBracket)
	return d
}

func parseIntLiteral(lit string) int {
	n := 0
	for i := 0; i < len(lit); i++ {
		c := lit[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}
