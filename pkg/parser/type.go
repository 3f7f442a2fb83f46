package parser

import (
	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/token"
)

var primKeywords = map[string]ast.PrimKind{
	"void": ast.Void, "bool": ast.Bool,
	"u8": ast.U8, "i8": ast.I8, "u16": ast.U16, "i16": ast.I16,
	"u32": ast.U32, "i32": ast.I32, "u64": ast.U64, "i64": ast.I64,
	"f32": ast.F32, "f64": ast.F64, "ISR": ast.ISR,
}

// parseType parses a type reference. Composite names (struct/enum/bitmap/
// callback/register/external) are recorded as TExternal and resolved
// against the symbol store during collection (§3's cross-file resolution
// invariant), since the parser alone cannot know which kind a bare
// identifier denotes.
func (p *Parser) parseType() *ast.Type {
	t := p.cur()

	if t.Kind == token.Ident && t.Literal == "string" {
		p.advance()
		p.expect(token.Lt)
		cap := 0
		unsized := true
		if p.at(token.IntLiteral) {
			cap = parseIntLiteral(p.advance().Literal)
			unsized = false
		}
		p.expect(token.Gt)
		return &ast.Type{Tag: ast.TString, Capacity: cap, Unsized: unsized}
	}

	if t.Kind == token.Ident {
		if kind, ok := primKeywords[t.Literal]; ok {
			p.advance()
			return ast.Primitive(kind)
		}
		p.advance()
		name := t.Literal
		// `global.Scope.Type` qualified reference
		if p.at(token.Dot) && name == "global" {
			p.advance()
			scopeName := p.expect(token.Ident).Literal
			p.expect(token.Dot)
			inner := p.expect(token.Ident).Literal
			return &ast.Type{Tag: ast.TQualified, OuterName: scopeName, Name: inner}
		}
		return &ast.Type{Tag: ast.TExternal, Name: name}
	}

	p.errorf(t.Pos, "expected type, found %s %q", t.Kind, t.Literal)
	p.advance()
	return ast.Primitive(ast.Void)
}
