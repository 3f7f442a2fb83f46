package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/symbols"
	"github.com/jlaustill/cnext/pkg/targets"
)

// PassByValueThreshold is the struct-size-in-bytes cutoff above which a
// struct parameter is passed by const pointer rather than by value
// (§4.5's Open Question, resolved in SPEC_FULL.md at 16 bytes — the size
// of two 64-bit machine words on the smallest targets this dialect
// supports).
const PassByValueThreshold = 16

// Generator lowers one parsed, symbol-collected file to C source text
// (§4.5). It is stateless between calls to Generate except for the
// accumulated effects of the in-progress call.
type Generator struct {
	effects   *effectSet
	sigHashes map[string]uint64
	// Target is the resolved `#pragma target` capability for the current
	// translation unit (§4.5, §9); it defaults to targets.Default
	// (no exclusive monitor) when no pragma was seen.
	Target targets.Capability
}

// NewGenerator creates a Generator with the conservative default target.
func NewGenerator() *Generator { return &Generator{Target: targets.Default} }

// Result is the output of one Generate call: the .c/.cpp body text, the
// effects the Pipeline must fold in (helper prologue, includes), and a
// signature hash per function so the Pipeline can detect a signature that
// changed between runs with an O(1) comparison instead of a full string
// diff (§8.1).
type Result struct {
	Body            string
	Effects         []Effect
	SignatureHashes map[string]uint64
}

// Generate lowers f to C source text, given the project-wide Symbol
// Store and per-function mutation facts produced by the collector
// (§4.4/§4.5). It does not include a header guard or includes — those
// are the Pipeline's job once every file's effects are known.
func (g *Generator) Generate(f *ast.File, store *symbols.Store, facts map[string]*symbols.FuncFacts) (*Result, []error) {
	g.effects = newEffectSet()
	g.sigHashes = map[string]uint64{}
	var b strings.Builder
	var errs []error

	for _, d := range f.Decls {
		errs = append(errs, g.genTop(&b, d, "", store, facts)...)
	}

	return &Result{Body: b.String(), Effects: g.effects.list, SignatureHashes: g.sigHashes}, errs
}

func (g *Generator) genTop(b *strings.Builder, d ast.Decl, scopeName string, store *symbols.Store, facts map[string]*symbols.FuncFacts) []error {
	var errs []error
	switch n := d.(type) {
	case *ast.ScopeDecl:
		for _, m := range n.Members {
			errs = append(errs, g.genTop(b, m.Decl, n.Name, store, facts)...)
		}
	case *ast.FunctionDecl:
		errs = append(errs, g.genFunction(b, n, scopeName, store, facts)...)
	case *ast.VariableDecl:
		g.genVariable(b, n, scopeName, store)
	case *ast.StructDecl:
		g.genStruct(b, n)
	case *ast.EnumDecl:
		g.genEnum(b, n)
	case *ast.BitmapDecl:
		g.genBitmap(b, n, store)
	case *ast.RegisterDecl:
		g.genRegister(b, n)
	case *ast.CallbackDecl:
		if cb, ok := store.Callbacks[n.Name]; ok && cb.Referenced {
			g.genCallbackTypedef(b, n)
		}
	}
	return errs
}

func mangledName(scopeName, name string) string {
	if scopeName == "" {
		return name
	}
	return scopeName + "_" + name
}

// genFunction emits one function definition, computing pass-by-value and
// auto-const for each parameter from the collector's per-function facts
// before the signature is written — the header synthesizer re-derives
// the identical signature from the same Decl+facts inputs, so the two
// stay character-identical by construction rather than by copying text
// (§4.5).
func (g *Generator) genFunction(b *strings.Builder, n *ast.FunctionDecl, scopeName string, store *symbols.Store, facts map[string]*symbols.FuncFacts) []error {
	var errs []error
	key := mangledNameKey(scopeName, n.Name)
	fn := facts[key]
	if fn == nil {
		fn = &symbols.FuncFacts{}
	}

	sig := g.signature(n, scopeName, fn, store)
	if hash, err := symbols.SignatureHash(sig); err == nil {
		g.sigHashes[key] = hash
	}
	if n.Body == nil {
		fmt.Fprintf(b, "%s;\n\n", sig)
		return errs
	}

	fmt.Fprintf(b, "%s {\n", sig)
	ctx := newGenCtx(store, scopeName)
	for _, p := range n.Params {
		ctx.locals[p.Name] = true
		ctx.localType[p.Name] = p.Type
	}
	b.WriteString(g.blockBody(n.Body, ctx, "    "))
	b.WriteString("}\n\n")
	return errs
}

func mangledNameKey(scopeName, name string) string {
	if scopeName == "" {
		return name
	}
	return scopeName + "." + name
}

// signature renders a function's C signature, applying auto-const and
// pass-by-value-vs-by-pointer per parameter (§4.5). Struct parameters at
// or under PassByValueThreshold pass by value; larger ones pass as
// const-qualified pointers unless the parameter is ever mutated.
func (g *Generator) signature(n *ast.FunctionDecl, scopeName string, fn *symbols.FuncFacts, store *symbols.Store) string {
	ret := n.Return.CType()
	name := mangledName(scopeName, n.Name)
	params := make([]string, 0, len(n.Params))
	for _, p := range n.Params {
		params = append(params, g.paramText(p, fn, store))
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	return fmt.Sprintf("%s %s(%s)", ret, name, strings.Join(params, ", "))
}

func (g *Generator) paramText(p *ast.Parameter, fn *symbols.FuncFacts, store *symbols.Store) string {
	ctype := p.Type.CType()
	dims := dimsText(p.Dimensions)

	mutated := fn.IsMutated(p.Name)
	isStruct := p.Type != nil && p.Type.Tag == ast.TStruct
	if isStruct && !mutated {
		structSize := 0
		if store != nil {
			if si, ok := store.Structs[p.Type.Name]; ok {
				structSize = si.SizeBytes
			}
		}
		if structSize > 0 && structSize <= PassByValueThreshold {
			return fmt.Sprintf("const %s %s%s", ctype, p.Name, dims)
		}
		return fmt.Sprintf("const %s *%s", ctype, p.Name)
	}
	if isStruct && mutated {
		return fmt.Sprintf("%s *%s", ctype, p.Name)
	}

	constQual := ""
	if p.IsConst || !mutated {
		constQual = "const "
	}
	if len(p.Dimensions) > 0 {
		return fmt.Sprintf("%s%s %s%s", constQual, ctype, p.Name, dims)
	}
	return fmt.Sprintf("%s%s %s", constQual, ctype, p.Name)
}

func (g *Generator) genVariable(b *strings.Builder, n *ast.VariableDecl, scopeName string, store *symbols.Store) {
	key := mangledNameKey(scopeName, n.Name)
	if vi, ok := store.Variables[key]; ok && vi.InlineLiteral {
		return // private literal consts are inlined at use sites, never emitted as storage (§4.4)
	}
	qual := ""
	if n.Volatile {
		qual = "volatile "
	}
	if n.Const {
		qual += "const "
	}
	name := mangledName(scopeName, n.Name)
	dims := dimsText(n.Dimensions)
	ctx := newGenCtx(store, scopeName)
	if n.Init == nil {
		fmt.Fprintf(b, "%s%s %s%s;\n", qual, n.Type.CType(), name, dims)
		return
	}
	fmt.Fprintf(b, "%s%s %s%s = %s;\n", qual, n.Type.CType(), name, dims, g.exprText(n.Init, ctx))
}

func (g *Generator) genStruct(b *strings.Builder, n *ast.StructDecl) {
	fmt.Fprintf(b, "typedef struct %s {\n", n.Name)
	for _, fld := range n.Fields {
		fmt.Fprintf(b, "    %s %s%s;\n", fld.Type.CType(), fld.Name, dimsText(fld.Dimensions))
	}
	fmt.Fprintf(b, "} %s;\n\n", n.Name)
}

// genEnum lowers `enum E { A, B = 5, C }` to a C typedef with every member
// prefixed by the enum's own name and assigned an explicit value (§3,
// §4.5): `typedef enum { E_A = 0, E_B = 5, E_C = 6 } E;`. A member with no
// explicit initializer continues the running count from the previous
// member's value, mirroring the Symbol Collector's own enum-value pass.
func (g *Generator) genEnum(b *strings.Builder, n *ast.EnumDecl) {
	fmt.Fprintf(b, "typedef enum {\n")
	emptyCtx := newGenCtx(nil, "")
	next := int64(0)
	for i, m := range n.Members {
		value := next
		if m.Value != nil {
			text := g.exprText(m.Value, emptyCtx)
			if v, err := strconv.ParseInt(text, 0, 64); err == nil {
				value = v
			}
		}
		fmt.Fprintf(b, "    %s_%s = %d", n.Name, m.Name, value)
		next = value + 1
		if i < len(n.Members)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "} %s;\n\n", n.Name)
}

func (g *Generator) genBitmap(b *strings.Builder, n *ast.BitmapDecl, store *symbols.Store) {
	cType := bitmapStorageType(n.BitWidth)
	bm := store.Bitmaps[n.Name]
	fmt.Fprintf(b, "typedef %s %s;\n", cType, n.Name)
	for _, fld := range n.Fields {
		off := bm.Offsets[fld.Name]
		width := bm.Widths[fld.Name]
		mask := fmt.Sprintf("((1u << %d) - 1u)", width)
		fmt.Fprintf(b, "#define %s_%s_GET(v) (((v) >> %d) & %s)\n", n.Name, fld.Name, off, mask)
		fmt.Fprintf(b, "#define %s_%s_SET(v, x) ((v) = (%s)(((v) & ~(%s << %d)) | (((x) & %s) << %d)))\n",
			n.Name, fld.Name, cType, mask, off, mask, off)
	}
	b.WriteString("\n")
}

func bitmapStorageType(width int) string {
	switch width {
	case 8:
		return "uint8_t"
	case 16:
		return "uint16_t"
	case 24, 32:
		return "uint32_t"
	default:
		return "uint32_t"
	}
}

func (g *Generator) genCallbackTypedef(b *strings.Builder, n *ast.CallbackDecl) {
	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = p.Type.CType()
	}
	if len(params) == 0 {
		params = []string{"void"}
	}
	fmt.Fprintf(b, "typedef %s (*%s)(%s);\n\n", n.Return.CType(), n.Name, strings.Join(params, ", "))
}
