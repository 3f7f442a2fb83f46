package codegen

import (
	"fmt"
	"strings"

	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/token"
)

// opText is the C spelling of a binary/unary operator; every dialect
// operator maps 1:1 onto a C operator (§4.5), so this is a direct table
// rather than a lowering function.
var opText = map[token.Kind]string{
	token.Plus: "+", token.Minus: "-", token.Star: "*", token.Slash: "/", token.Percent: "%",
	token.AmpAmp: "&&", token.PipePipe: "||", token.Amp: "&", token.Pipe: "|", token.Caret: "^",
	token.EqEq: "==", token.NotEq: "!=", token.Lt: "<", token.Gt: ">", token.Le: "<=", token.Ge: ">=",
	token.Shl: "<<", token.Shr: ">>",
	token.Bang: "!", token.Tilde: "~",
}

// exprText renders e to C source text. ctx carries enough of the
// enclosing function/scope to resolve identifiers against the Symbol
// Store, so a bare identifier that resolves to a scope-owned symbol is
// emitted with its mangled scope prefix (§3's mangling rule).
func (g *Generator) exprText(e ast.Expr, ctx *genCtx) string {
	switch n := e.(type) {
	case nil:
		return ""
	case *ast.IntLiteralExpr:
		return n.Text
	case *ast.FloatLiteralExpr:
		return n.Text
	case *ast.StringLiteralExpr:
		return fmt.Sprintf("%q", n.Text)
	case *ast.BoolLiteralExpr:
		if n.Value {
			return "true"
		}
		return "false"
	case *ast.IdentExpr:
		return g.resolveIdent(n.Name, ctx)
	case *ast.ThisExpr:
		return ""
	case *ast.GlobalExpr:
		return ""
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", g.exprText(n.Left, ctx), opText[n.Op], g.exprText(n.Right, ctx))
	case *ast.UnaryExpr:
		return fmt.Sprintf("%s%s", opText[n.Op], g.exprText(n.X, ctx))
	case *ast.TernaryExpr:
		return fmt.Sprintf("(%s ? %s : %s)", g.exprText(n.Cond, ctx), g.exprText(n.Then, ctx), g.exprText(n.Else, ctx))
	case *ast.AddrOfExpr:
		return "&" + g.exprText(n.X, ctx)
	case *ast.MemberExpr:
		return g.memberText(n, ctx)
	case *ast.IndexExpr:
		return fmt.Sprintf("%s[%s]", g.exprText(n.X, ctx), g.exprText(n.Index, ctx))
	case *ast.BitRangeExpr:
		return g.bitRangeText(n, ctx)
	case *ast.CallExpr:
		return g.callText(n, ctx)
	default:
		return ""
	}
}

// resolveIdent mangles a bare identifier reference against the enclosing
// scope (§3): a name owned by the current scope gets the scope prefix; a
// parameter or local never does. Unqualified calls/reads inside a scope
// body resolve to that scope's own members before falling back to file
// scope, matching the Symbol Store's funcKey/varKey lookup order.
func (g *Generator) resolveIdent(name string, ctx *genCtx) string {
	if ctx.locals[name] {
		return name
	}
	if ctx.scopeName == "" || ctx.store == nil {
		return name
	}
	key := ctx.scopeName + "." + name
	if _, ok := ctx.store.Variables[key]; ok {
		return ctx.scopeName + "_" + name
	}
	if _, ok := ctx.store.Functions[key]; ok {
		return ctx.scopeName + "_" + name
	}
	return name
}

func (g *Generator) memberText(n *ast.MemberExpr, ctx *genCtx) string {
	if _, ok := n.X.(*ast.ThisExpr); ok {
		return mangledName(ctx.scopeName, n.Name)
	}
	if _, ok := n.X.(*ast.GlobalExpr); ok {
		return n.Name
	}
	if gexpr, ok := n.X.(*ast.MemberExpr); ok {
		if _, isGlobal := gexpr.X.(*ast.GlobalExpr); isGlobal {
			return gexpr.Name + "_" + n.Name
		}
	}
	return g.exprText(n.X, ctx) + "." + n.Name
}

// bitRangeText lowers reg[start, width] (or reg.f[start, width]) to a
// shift-and-mask read expression (§4.7): (value >> start) & ((1 << width) - 1).
func (g *Generator) bitRangeText(n *ast.BitRangeExpr, ctx *genCtx) string {
	base := g.exprText(n.X, ctx)
	start := g.exprText(n.Start, ctx)
	width := g.exprText(n.Width, ctx)
	return fmt.Sprintf("((%s >> %s) & ((1u << (%s)) - 1u))", base, start, width)
}

func (g *Generator) callText(n *ast.CallExpr, ctx *genCtx) string {
	callee := g.exprText(n.Callee, ctx)
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = g.exprText(a, ctx)
	}
	return fmt.Sprintf("%s(%s)", callee, strings.Join(args, ", "))
}
