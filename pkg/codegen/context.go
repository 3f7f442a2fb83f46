package codegen

import (
	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/symbols"
)

// genCtx carries the per-function context needed to resolve identifiers
// while walking a body: the enclosing scope (if any), the Symbol Store
// to resolve scope-owned names against, and the set of local names
// (parameters and local variable declarations) that must never be
// scope-mangled (§3/§4.5).
type genCtx struct {
	store     *symbols.Store
	scopeName string // "" for file scope
	locals    map[string]bool

	// localOverflow/localType record the declared overflow mode and type
	// of local variables (and parameters, overflow-less) seen so far in
	// the current function, so an assignment can look up its target's
	// clamp-vs-wrap mode and primitive C type without re-walking (§4.5).
	localOverflow map[string]ast.Overflow
	localType     map[string]*ast.Type
}

func newGenCtx(store *symbols.Store, scopeName string) *genCtx {
	return &genCtx{
		store: store, scopeName: scopeName,
		locals:        map[string]bool{},
		localOverflow: map[string]ast.Overflow{},
		localType:     map[string]*ast.Type{},
	}
}

// assignTargetPrim resolves the C primitive-type spelling of an
// assignment target for clamp-helper naming (§4.5); composite lvalues
// (struct fields, array elements) are not clamp-eligible and return ok=false.
func (c *genCtx) assignTargetPrim(target ast.Expr) (string, bool) {
	ident, ok := target.(*ast.IdentExpr)
	if !ok {
		return "", false
	}
	t, ok := c.localType[ident.Name]
	if !ok || !t.IsPrimitive() {
		if c.scopeName != "" && c.store != nil {
			if vi, ok := c.store.Variables[c.scopeName+"."+ident.Name]; ok && vi.Decl.Type.IsPrimitive() {
				return vi.Decl.Type.CType(), true
			}
		}
		if c.store != nil {
			if vi, ok := c.store.Variables[ident.Name]; ok && vi.Decl.Type.IsPrimitive() {
				return vi.Decl.Type.CType(), true
			}
		}
		return "", false
	}
	return t.CType(), true
}

// overflowFor resolves the declared overflow mode of an assignment
// target, defaulting to clamp when nothing more specific is known (§4.5:
// "unspecified defaults to clamp for integer arithmetic").
func (c *genCtx) overflowFor(target ast.Expr) ast.Overflow {
	ident, ok := target.(*ast.IdentExpr)
	if !ok {
		return ast.OverflowDefault
	}
	if ov, ok := c.localOverflow[ident.Name]; ok {
		return ov
	}
	if c.scopeName != "" && c.store != nil {
		if vi, ok := c.store.Variables[c.scopeName+"."+ident.Name]; ok {
			return vi.Decl.Overflow
		}
	}
	if c.store != nil {
		if vi, ok := c.store.Variables[ident.Name]; ok {
			return vi.Decl.Overflow
		}
	}
	return ast.OverflowDefault
}
