package codegen

import (
	"fmt"

	"github.com/jlaustill/cnext/pkg/ast"
)

// atomicSuffix maps a primitive width to the __LDREX#/__STREX# intrinsic
// suffix used by targets with an exclusive monitor (§4.5).
func atomicSuffix(width int) string {
	switch width {
	case 8:
		return "B"
	case 16:
		return "H"
	case 32:
		return "W"
	default:
		return ""
	}
}

func primWidth(k ast.PrimKind) int {
	switch k {
	case ast.U8, ast.I8:
		return 8
	case ast.U16, ast.I16:
		return 16
	case ast.U32, ast.I32, ast.F32:
		return 32
	case ast.U64, ast.I64, ast.F64:
		return 64
	default:
		return 32
	}
}

// atomicAssignText lowers a compound assignment on an atomic-qualified
// variable (§4.5): on a target with an exclusive monitor at this width,
// an __LDREX#/__STREX# retry loop; otherwise a PRIMASK disable/restore
// wrapper around an ordinary read-modify-write, matching the same shape
// Generator.criticalText uses for explicit critical blocks.
func (g *Generator) atomicAssignText(n *ast.AssignStmt, ctx *genCtx, target, value, op string, width int) string {
	if g.Target.HasExclusiveMonitor(width) {
		suffix := atomicSuffix(width)
		tmp := "cnx_atomic_tmp"
		return fmt.Sprintf(
			"do { uint32_t %s = __LDREX%s(&%s); %s %s %s; } while (__STREX%s(%s, &%s) != 0)",
			tmp, suffix, target, tmp, op, value, suffix, tmp, target,
		)
	}
	return fmt.Sprintf(
		"do { uint32_t cnx_primask = __get_PRIMASK(); __disable_irq(); %s %s %s; __set_PRIMASK(cnx_primask); } while (0)",
		target, op, value,
	)
}

// isAtomicTarget reports whether an assignment's target resolves to a
// variable declared `atomic` (§3/§4.5).
func (c *genCtx) isAtomicTarget(target ast.Expr) (width int, atomic bool) {
	ident, ok := target.(*ast.IdentExpr)
	if !ok {
		return 0, false
	}
	var decl *ast.VariableDecl
	if c.scopeName != "" && c.store != nil {
		if vi, ok := c.store.Variables[c.scopeName+"."+ident.Name]; ok {
			decl = vi.Decl
		}
	}
	if decl == nil && c.store != nil {
		if vi, ok := c.store.Variables[ident.Name]; ok {
			decl = vi.Decl
		}
	}
	if decl == nil || !decl.Atomic || decl.Type == nil || !decl.Type.IsPrimitive() {
		return 0, false
	}
	return primWidth(decl.Type.Prim), true
}
