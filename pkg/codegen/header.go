package codegen

import (
	"fmt"
	"strings"

	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/symbols"
)

// HeaderSynthesizer emits a translation unit's public surface as a .h
// file (§4.6): only public functions, variables, structs, enums,
// bitmaps, and referenced callback typedefs appear; a public function's
// declaration here must be character-identical to its definition's
// signature in the .c/.cpp file, since both are produced by the same
// Generator.signature call over the same Decl+FuncFacts inputs.
type HeaderSynthesizer struct {
	gen *Generator
}

// NewHeaderSynthesizer creates a HeaderSynthesizer sharing gen's effect
// accumulation (a header never introduces new helper/include effects of
// its own, but reuses the same signature logic).
func NewHeaderSynthesizer(gen *Generator) *HeaderSynthesizer {
	return &HeaderSynthesizer{gen: gen}
}

// Synthesize renders guardName's include guard around every public
// top-level (or scope-member) declaration in f.
func (h *HeaderSynthesizer) Synthesize(f *ast.File, guardName string, store *symbols.Store, facts map[string]*symbols.FuncFacts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guardName, guardName)

	for _, d := range f.Decls {
		h.header(&b, d, "", store, facts)
	}

	fmt.Fprintf(&b, "#endif // %s\n", guardName)
	return b.String()
}

func (h *HeaderSynthesizer) header(b *strings.Builder, d ast.Decl, scopeName string, store *symbols.Store, facts map[string]*symbols.FuncFacts) {
	switch n := d.(type) {
	case *ast.ScopeDecl:
		for _, m := range n.Members {
			h.header(b, m.Decl, n.Name, store, facts)
		}
	case *ast.FunctionDecl:
		if n.Visibility != ast.Public {
			return
		}
		key := mangledNameKey(scopeName, n.Name)
		fn := facts[key]
		if fn == nil {
			fn = &symbols.FuncFacts{}
		}
		fmt.Fprintf(b, "%s;\n", h.gen.signature(n, scopeName, fn, store))
	case *ast.VariableDecl:
		if n.Visibility != ast.Public || n.Const {
			return
		}
		name := mangledName(scopeName, n.Name)
		qual := ""
		if n.Volatile {
			qual = "volatile "
		}
		fmt.Fprintf(b, "extern %s%s %s%s;\n", qual, n.Type.CType(), name, dimsText(n.Dimensions))
	case *ast.StructDecl:
		if n.Visibility != ast.Public {
			return
		}
		h.gen.genStruct(b, n)
	case *ast.EnumDecl:
		if n.Visibility != ast.Public {
			return
		}
		h.gen.genEnum(b, n)
	case *ast.BitmapDecl:
		if n.Visibility != ast.Public {
			return
		}
		h.gen.genBitmap(b, n, store)
	case *ast.RegisterDecl:
		if n.Visibility != ast.Public {
			return
		}
		h.gen.genRegister(b, n)
	case *ast.CallbackDecl:
		if n.Visibility != ast.Public {
			return
		}
		if cb, ok := store.Callbacks[n.Name]; ok && cb.Referenced {
			h.gen.genCallbackTypedef(b, n)
		}
	}
}
