package codegen

import (
	"fmt"
	"strings"

	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/token"
)

// compoundOpText maps a compound-assignment token to its wrap-mode C
// operator spelling (§4.5's "wrap" overflow lowering: the natural C
// operator, letting hardware-defined wraparound occur).
var compoundOpText = map[token.Kind]string{
	token.Assign: "=", token.PlusAssign: "+=", token.MinusAssign: "-=",
	token.StarAssign: "*=", token.SlashAssign: "/=", token.PercentAssign: "%=",
	token.AndAssign: "&=", token.OrAssign: "|=", token.XorAssign: "^=",
	token.ShlAssign: "<<=", token.ShrAssign: ">>=",
}

// clampableOp reports whether op is one of the arithmetic compound forms
// that gets a saturating helper under clamp overflow (§4.5): +<-, -<-, *<-.
var clampableOp = map[token.Kind]string{
	token.PlusAssign: "+<-", token.MinusAssign: "-<-", token.StarAssign: "*<-",
}

func (g *Generator) stmtText(s ast.Stmt, ctx *genCtx, indent string) string {
	switch n := s.(type) {
	case *ast.VarDeclStmt:
		return g.varDeclStmtText(n, ctx, indent)
	case *ast.AssignStmt:
		return indent + g.assignText(n, ctx) + ";\n"
	case *ast.ExprStmt:
		return indent + g.exprText(n.X, ctx) + ";\n"
	case *ast.ReturnStmt:
		if n.Value == nil {
			return indent + "return;\n"
		}
		return indent + "return " + g.exprText(n.Value, ctx) + ";\n"
	case *ast.BreakStmt:
		return indent + "break;\n"
	case *ast.ContinueStmt:
		return indent + "continue;\n"
	case *ast.BlockStmt:
		return g.blockText(n, ctx, indent)
	case *ast.IfStmt:
		return g.ifText(n, ctx, indent)
	case *ast.WhileStmt:
		var b strings.Builder
		fmt.Fprintf(&b, "%swhile (%s) {\n", indent, g.exprText(n.Cond, ctx))
		b.WriteString(g.blockBody(n.Body, ctx, indent+"    "))
		fmt.Fprintf(&b, "%s}\n", indent)
		return b.String()
	case *ast.DoWhileStmt:
		var b strings.Builder
		fmt.Fprintf(&b, "%sdo {\n", indent)
		b.WriteString(g.blockBody(n.Body, ctx, indent+"    "))
		fmt.Fprintf(&b, "%s} while (%s);\n", indent, g.exprText(n.Cond, ctx))
		return b.String()
	case *ast.ForStmt:
		return g.forText(n, ctx, indent)
	case *ast.CriticalStmt:
		return g.criticalText(n, ctx, indent)
	default:
		return ""
	}
}

func (g *Generator) varDeclStmtText(n *ast.VarDeclStmt, ctx *genCtx, indent string) string {
	ctx.locals[n.Name] = true
	ctx.localType[n.Name] = n.Type
	ctx.localOverflow[n.Name] = n.Overflow
	ctype := n.Type.CType()
	dims := dimsText(n.Dimensions)
	qual := ""
	if n.Volatile {
		qual = "volatile "
	}
	if n.Init == nil {
		return fmt.Sprintf("%s%s%s %s%s;\n", indent, qual, ctype, n.Name, dims)
	}
	return fmt.Sprintf("%s%s%s %s%s = %s;\n", indent, qual, ctype, n.Name, dims, g.exprText(n.Init, ctx))
}

func dimsText(dims []ast.Dimension) string {
	var b strings.Builder
	for _, d := range dims {
		if d.IsSymbolic {
			fmt.Fprintf(&b, "[%s]", d.Symbol)
		} else {
			fmt.Fprintf(&b, "[%d]", d.Literal)
		}
	}
	return b.String()
}

// assignText lowers an assignment, inserting a clamp helper effect for
// clamp-overflow compound forms and the natural C operator for wrap
// overflow or plain assignment (§4.5).
func (g *Generator) assignText(n *ast.AssignStmt, ctx *genCtx) string {
	target := g.exprText(n.Target, ctx)
	value := g.exprText(n.Value, ctx)

	if n.Op != token.Assign {
		if width, atomic := ctx.isAtomicTarget(n.Target); atomic {
			return g.atomicAssignText(n, ctx, target, value, compoundOpText[n.Op], width)
		}
	}

	if opSym, clampable := clampableOp[n.Op]; clampable && ctx.overflowFor(n.Target) != ast.OverflowWrap {
		if prim, ok := ctx.assignTargetPrim(n.Target); ok {
			if _, _, _, isInt := clampBoundsByCType(prim); isInt {
				name := clampHelperName(opSym, prim)
				g.effects.add(EffectHelper, name)
				return fmt.Sprintf("%s = %s(%s, %s)", target, name, target, value)
			}
		}
	}
	return fmt.Sprintf("%s %s %s", target, compoundOpText[n.Op], value)
}

func (g *Generator) blockText(n *ast.BlockStmt, ctx *genCtx, indent string) string {
	var b strings.Builder
	b.WriteString(indent + "{\n")
	b.WriteString(g.blockBody(n, ctx, indent+"    "))
	b.WriteString(indent + "}\n")
	return b.String()
}

func (g *Generator) blockBody(n *ast.BlockStmt, ctx *genCtx, indent string) string {
	var b strings.Builder
	for _, s := range n.Stmts {
		b.WriteString(g.stmtText(s, ctx, indent))
	}
	return b.String()
}

func (g *Generator) ifText(n *ast.IfStmt, ctx *genCtx, indent string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sif (%s) {\n", indent, g.exprText(n.Cond, ctx))
	b.WriteString(g.blockBody(n.Then, ctx, indent+"    "))
	if n.Else == nil {
		fmt.Fprintf(&b, "%s}\n", indent)
		return b.String()
	}
	if elseIf, ok := n.Else.(*ast.IfStmt); ok {
		fmt.Fprintf(&b, "%s} else ", indent)
		b.WriteString(strings.TrimPrefix(g.ifText(elseIf, ctx, indent), indent))
		return b.String()
	}
	fmt.Fprintf(&b, "%s} else {\n", indent)
	if elseBlock, ok := n.Else.(*ast.BlockStmt); ok {
		b.WriteString(g.blockBody(elseBlock, ctx, indent+"    "))
	}
	fmt.Fprintf(&b, "%s}\n", indent)
	return b.String()
}

func (g *Generator) forText(n *ast.ForStmt, ctx *genCtx, indent string) string {
	var b strings.Builder
	init, cond, post := "", "", ""
	if n.Init != nil {
		init = strings.TrimSuffix(strings.TrimSpace(g.stmtText(n.Init, ctx, "")), ";")
	}
	if n.Cond != nil {
		cond = g.exprText(n.Cond, ctx)
	}
	if n.Post != nil {
		post = strings.TrimSuffix(strings.TrimSpace(g.stmtText(n.Post, ctx, "")), ";")
	}
	fmt.Fprintf(&b, "%sfor (%s; %s; %s) {\n", indent, init, cond, post)
	b.WriteString(g.blockBody(n.Body, ctx, indent+"    "))
	fmt.Fprintf(&b, "%s}\n", indent)
	return b.String()
}

// criticalText lowers a critical block to a PRIMASK save/disable/restore
// wrapper (§4.5). Statements inside are lowered by blockBody as usual, so
// an atomic compound assignment inside still gets assignText's own atomic
// lowering, nested within the surrounding interrupt-disable window.
func (g *Generator) criticalText(n *ast.CriticalStmt, ctx *genCtx, indent string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s{\n", indent)
	fmt.Fprintf(&b, "%s    uint32_t cnx_primask = __get_PRIMASK();\n", indent)
	fmt.Fprintf(&b, "%s    __disable_irq();\n", indent)
	b.WriteString(g.blockBody(n.Body, ctx, indent+"    "))
	fmt.Fprintf(&b, "%s    __set_PRIMASK(cnx_primask);\n", indent)
	fmt.Fprintf(&b, "%s}\n", indent)
	return b.String()
}
