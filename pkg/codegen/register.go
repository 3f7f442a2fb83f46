package codegen

import (
	"fmt"
	"strings"

	"github.com/jlaustill/cnext/pkg/ast"
)

// genRegister lowers a register declaration to a block of #define macros
// (§4.7): each member becomes a macro that casts the register's absolute
// address to a `volatile <Type>*` (or `volatile <Type> const*` for
// read-only members) and dereferences it. Bitfield-range members get a
// read/write macro pair doing the shift-and-mask by hand, matching the
// plain member's dereference-and-assign shape but through the range.
func (g *Generator) genRegister(b *strings.Builder, n *ast.RegisterDecl) {
	baseExpr := ""
	emptyCtx := newGenCtx(nil, "")
	if n.BaseAddr != nil {
		baseExpr = g.exprText(n.BaseAddr, emptyCtx)
	}
	for _, m := range n.Members {
		addr := fmt.Sprintf("(%s + %s)", baseExpr, g.exprText(m.Offset, emptyCtx))
		ctype := m.Type.CType()
		ptrQual := "volatile " + ctype + " *"
		if m.Access == ast.AccessRO {
			ptrQual = "volatile " + ctype + " const *"
		}
		macroName := n.Name + "_" + m.Name
		if m.BitStart != nil {
			g.genRegisterBitfield(b, macroName, addr, ptrQual, ctype, m)
			continue
		}
		switch m.Access {
		case ast.AccessRO:
			fmt.Fprintf(b, "#define %s (*(%s)(%s))\n", macroName, ptrQual, addr)
		default: // rw, wo, w1c, w1s
			fmt.Fprintf(b, "#define %s (*(%s)(%s))\n", macroName, ptrQual, addr)
		}
	}
	b.WriteString("\n")
}

func (g *Generator) genRegisterBitfield(b *strings.Builder, macroName, addr, ptrQual, ctype string, m *ast.RegisterMember) {
	emptyCtx := newGenCtx(nil, "")
	start := g.exprText(m.BitStart, emptyCtx)
	width := g.exprText(m.BitWidth, emptyCtx)
	mask := fmt.Sprintf("((1u << (%s)) - 1u)", width)
	reg := fmt.Sprintf("(*(%s)(%s))", ptrQual, addr)
	fmt.Fprintf(b, "#define %s_GET() ((%s >> (%s)) & %s)\n", macroName, reg, start, mask)
	if m.Access != ast.AccessRO {
		fmt.Fprintf(b, "#define %s_SET(x) (%s = (%s)((%s & ~(%s << (%s))) | (((x) & %s) << (%s))))\n",
			macroName, reg, ctype, reg, mask, start, mask, start)
	}
}
