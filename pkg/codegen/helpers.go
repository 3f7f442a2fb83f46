package codegen

import (
	"fmt"

	"github.com/jlaustill/cnext/pkg/ast"
)

// clampOps are the compound-assignment operators that get a saturating
// helper under clamp overflow (§4.5's default overflow behavior for
// integer compound assignment).
var clampOps = map[string]string{
	"+<-": "add", "-<-": "sub", "*<-": "mul",
}

// clampHelperName returns the stable helper symbol name for an
// overflow-clamped compound assignment of op on a value of C type prim,
// spelled with the dialect's type name, e.g. "cnx_clamp_add_u32" for
// uint32_t (§4.5).
func clampHelperName(opSym, prim string) string {
	op, ok := clampOps[opSym]
	if !ok {
		op = "op"
	}
	for _, k := range []ast.PrimKind{ast.U8, ast.U16, ast.U32, ast.U64, ast.I8, ast.I16, ast.I32, ast.I64} {
		if _, _, ct, _ := clampBounds(k); ct == prim {
			prim = k.String()
		}
	}
	return fmt.Sprintf("cnx_clamp_%s_%s", op, prim)
}

// clampBounds gives the min/max C literal expressions used by a clamp
// helper body for a primitive kind.
func clampBounds(k ast.PrimKind) (min, max, ctype string, ok bool) {
	switch k {
	case ast.U8:
		return "0", "UINT8_MAX", "uint8_t", true
	case ast.U16:
		return "0", "UINT16_MAX", "uint16_t", true
	case ast.U32:
		return "0", "UINT32_MAX", "uint32_t", true
	case ast.U64:
		return "0", "UINT64_MAX", "uint64_t", true
	case ast.I8:
		return "INT8_MIN", "INT8_MAX", "int8_t", true
	case ast.I16:
		return "INT16_MIN", "INT16_MAX", "int16_t", true
	case ast.I32:
		return "INT32_MIN", "INT32_MAX", "int32_t", true
	case ast.I64:
		return "INT64_MIN", "INT64_MAX", "int64_t", true
	default:
		return "", "", "", false
	}
}

// clampHelperBody renders the full definition of a cnx_clamp_<op>_<type>
// helper (§4.5): a saturating add/sub/mul whose bound checks run before
// the operation, so the arithmetic itself never overflows. A result above
// the type's maximum saturates to the maximum and one below its minimum
// to the minimum; the same expressions serve unsigned and signed types.
func clampHelperBody(name, op, ctype, min, max string) string {
	hi := fmt.Sprintf("(%s)(%s)", ctype, max)
	lo := fmt.Sprintf("(%s)(%s)", ctype, min)
	var expr string
	switch op {
	case "add":
		expr = fmt.Sprintf("(b > 0 && a > %s - b) ? %s : (b < 0 && a < %s - b) ? %s : (%s)(a + b)", hi, hi, lo, lo, ctype)
	case "sub":
		expr = fmt.Sprintf("(b < 0 && a > %s + b) ? %s : (b > 0 && a < %s + b) ? %s : (%s)(a - b)", hi, hi, lo, lo, ctype)
	case "mul":
		expr = fmt.Sprintf("((a > 0 && b > 0 && a > %s / b) || (a < 0 && b < 0 && a < %s / b)) ? %s : "+
			"((a > 0 && b < 0 && b < %s / a) || (a < 0 && b > 0 && a < %s / b)) ? %s : (%s)(a * b)",
			hi, hi, hi, lo, lo, lo, ctype)
	default:
		expr = "a"
	}
	return fmt.Sprintf("static inline %s %s(%s a, %s b) {\n    return %s;\n}\n", ctype, name, ctype, ctype, expr)
}

// RenderHelper renders the full C source for a named helper effect, e.g.
// "cnx_clamp_add_u32" back into its definition (§4.5).
func RenderHelper(name string) (string, bool) {
	for _, op := range []string{"add", "sub", "mul"} {
		prefix := "cnx_clamp_" + op + "_"
		if len(name) > len(prefix) && name[:len(prefix)] == prefix {
			min, max, ctype, ok := clampBoundsByCType(name[len(prefix):])
			if !ok {
				continue
			}
			return clampHelperBody(name, op, ctype, min, max), true
		}
	}
	return "", false
}

// clampBoundsByCType looks an integer type up by its C name ("uint32_t")
// or its dialect name ("u32"); ok is false for any other type.
func clampBoundsByCType(ctype string) (min, max, want string, ok bool) {
	for _, k := range []ast.PrimKind{ast.U8, ast.U16, ast.U32, ast.U64, ast.I8, ast.I16, ast.I32, ast.I64} {
		mn, mx, ct, _ := clampBounds(k)
		if ct == ctype || k.String() == ctype {
			return mn, mx, ct, true
		}
	}
	return "", "", "", false
}
