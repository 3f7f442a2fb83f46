package symbols

import (
	"fmt"

	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/token"
)

// FuncFacts is the per-function output of the body pass (§4.4): which
// parameters were ever assigned to or had their address taken. The code
// generator consults this before emitting the signature, so header and
// .c/.cpp signatures stay character-identical (§4.5).
type FuncFacts struct {
	Written      map[string]bool
	AddressTaken map[string]bool
}

func newFuncFacts() *FuncFacts {
	return &FuncFacts{Written: map[string]bool{}, AddressTaken: map[string]bool{}}
}

// IsMutated reports whether a parameter was ever written to or had its
// address taken; used for auto-const (§4.5: "a parameter never written
// and never address-taken is emitted const").
func (f *FuncFacts) IsMutated(name string) bool {
	return f.Written[name] || f.AddressTaken[name]
}

// Collector runs the two-pass symbol collection of §4.4 over one parsed
// file, filling a Store and a per-function FuncFacts map.
type Collector struct {
	Store *Store
	Facts map[string]*FuncFacts // keyed the same way as Store.Functions

	errs []error
}

// NewCollector creates a Collector writing into store.
func NewCollector(store *Store) *Collector {
	return &Collector{Store: store, Facts: map[string]*FuncFacts{}}
}

// Errors returns collection errors accumulated so far: the redeclaration
// conflicts found during the declaration pass.
func (c *Collector) Errors() []error { return c.errs }

func (c *Collector) errorf(format string, args ...interface{}) {
	c.errs = append(c.errs, fmt.Errorf(format, args...))
}

// Collect runs both passes over f (§4.4: "the declaration pass populates
// every name table before the body pass inspects any function body, so
// forward references within and across scopes resolve").
func (c *Collector) Collect(f *ast.File) {
	c.declarationPass(f)
	c.bodyPass(f)
}

func (c *Collector) declarationPass(f *ast.File) {
	for _, d := range f.Decls {
		c.declareTop(d, "", ast.Private)
	}
}

// redeclared reports a §7 "Redeclaration conflict" error naming both the
// original and the new source location for a qualified symbol name.
func (c *Collector) redeclared(kind, key string, first, second token.Position) {
	c.errorf("%s %q redeclared at %s (first declared at %s)", kind, key, second, first)
}

func (c *Collector) declareTop(d ast.Decl, scopeName string, inheritedVis ast.Visibility) {
	switch n := d.(type) {
	case *ast.ScopeDecl:
		if first, dup := c.Store.ScopePos[n.Name]; dup {
			c.redeclared("scope", n.Name, first, n.Pos)
		} else {
			c.Store.ScopePos[n.Name] = n.Pos
		}
		c.Store.Scopes[n.Name] = true
		for _, m := range n.Members {
			c.declareTop(m.Decl, n.Name, m.Visibility)
		}
	case *ast.FunctionDecl:
		key := funcKey(scopeName, n.Name)
		if prev, dup := c.Store.Functions[key]; dup {
			c.redeclared("function", key, prev.Decl.Pos, n.Pos)
		}
		c.Store.Functions[key] = &FunctionInfo{
			Decl: n, ScopeName: scopeName, Visibility: inheritedVis, ReturnType: n.Return,
		}
		c.Store.touch(key)
		c.Facts[key] = newFuncFacts()
	case *ast.VariableDecl:
		key := varKey(scopeName, n.Name)
		if prev, dup := c.Store.Variables[key]; dup {
			c.redeclared("variable", key, prev.Decl.Pos, n.Pos)
		}
		vi := &VariableInfo{Decl: n, ScopeName: scopeName, Visibility: inheritedVis}
		if inheritedVis == ast.Private && n.Const {
			if lit, ok := n.Init.(*ast.IntLiteralExpr); ok {
				vi.InlineLiteral = true
				vi.LiteralText = lit.Text
			}
		}
		c.Store.Variables[key] = vi
		c.Store.touch(key)
	case *ast.StructDecl:
		if prev, dup := c.Store.Structs[n.Name]; dup {
			c.redeclared("struct", n.Name, prev.Decl.Pos, n.Pos)
		}
		c.Store.Structs[n.Name] = &StructInfo{
			Decl: n, Visibility: n.Visibility,
			FieldTypes: fieldTypes(n), FieldDims: fieldDims(n),
			SizeBytes: estimateStructSize(n),
		}
		c.Store.touch(n.Name)
	case *ast.EnumDecl:
		if prev, dup := c.Store.Enums[n.Name]; dup {
			c.redeclared("enum", n.Name, prev.Decl.Pos, n.Pos)
		}
		values := map[string]int64{}
		next := int64(0)
		for _, m := range n.Members {
			if m.Value != nil {
				if lit, ok := m.Value.(*ast.IntLiteralExpr); ok {
					next = parseIntLiteral(lit.Text)
				}
			}
			values[m.Name] = next
			next++
		}
		c.Store.Enums[n.Name] = &EnumInfo{Decl: n, Visibility: n.Visibility, Values: values}
		c.Store.touch(n.Name)
	case *ast.BitmapDecl:
		if prev, dup := c.Store.Bitmaps[n.Name]; dup {
			c.redeclared("bitmap", n.Name, prev.Decl.Pos, n.Pos)
		}
		offsets, widths := map[string]int{}, map[string]int{}
		bit := 0
		for _, fld := range n.Fields {
			offsets[fld.Name] = bit
			widths[fld.Name] = fld.Width
			bit += fld.Width
		}
		c.Store.Bitmaps[n.Name] = &BitmapInfo{Decl: n, Visibility: n.Visibility, Offsets: offsets, Widths: widths}
		c.Store.touch(n.Name)
	case *ast.RegisterDecl:
		if prev, dup := c.Store.Registers[n.Name]; dup {
			c.redeclared("register", n.Name, prev.Decl.Pos, n.Pos)
		}
		access, types, offsets := map[string]ast.AccessMode{}, map[string]*ast.Type{}, map[string]int64{}
		for _, m := range n.Members {
			access[m.Name] = m.Access
			types[m.Name] = m.Type
			if lit, ok := m.Offset.(*ast.IntLiteralExpr); ok {
				offsets[m.Name] = parseIntLiteral(lit.Text)
			}
		}
		c.Store.Registers[n.Name] = &RegisterInfo{Decl: n, Visibility: n.Visibility, Access: access, Types: types, Offsets: offsets}
		c.Store.touch(n.Name)
	case *ast.CallbackDecl:
		if prev, dup := c.Store.Callbacks[n.Name]; dup {
			c.redeclared("callback", n.Name, prev.Decl.Pos, n.Pos)
		}
		c.Store.Callbacks[n.Name] = &CallbackInfo{Decl: n, Visibility: n.Visibility}
		c.Store.touch(n.Name)
	}
}

func funcKey(scopeName, name string) string {
	if scopeName == "" {
		return name
	}
	return scopeName + "." + name
}

func varKey(scopeName, name string) string { return funcKey(scopeName, name) }

func fieldTypes(n *ast.StructDecl) map[string]*ast.Type {
	m := map[string]*ast.Type{}
	for _, fld := range n.Fields {
		m[fld.Name] = fld.Type
	}
	return m
}

func fieldDims(n *ast.StructDecl) map[string]map[string][]ast.Dimension {
	m := map[string]map[string][]ast.Dimension{n.Name: {}}
	for _, fld := range n.Fields {
		m[n.Name][fld.Name] = fld.Dimensions
	}
	return m
}

// primSize is used only for the pass-by-value heuristic (§4.5); it need
// not be exact for non-primitive members, which fall back to a
// conservative per-field estimate.
var primSize = map[ast.PrimKind]int{
	ast.Bool: 1, ast.U8: 1, ast.I8: 1, ast.U16: 2, ast.I16: 2,
	ast.U32: 4, ast.I32: 4, ast.U64: 8, ast.I64: 8, ast.F32: 4, ast.F64: 8,
}

func estimateStructSize(n *ast.StructDecl) int {
	total := 0
	for _, fld := range n.Fields {
		sz := 4 // conservative default for composite/unknown field types
		if fld.Type != nil && fld.Type.IsPrimitive() {
			sz = primSize[fld.Type.Prim]
		}
		mult := 1
		for _, dim := range fld.Dimensions {
			if !dim.IsSymbolic && dim.Literal > 0 {
				mult *= int(dim.Literal)
			}
		}
		total += sz * mult
	}
	return total
}

func parseIntLiteral(text string) int64 {
	if len(text) > 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		var v int64
		fmt.Sscanf(text[2:], "%x", &v)
		return v
	}
	var v int64
	fmt.Sscanf(text, "%d", &v)
	return v
}

// bodyPass walks every function body to gather write/address-taken facts
// for parameters (§4.4) and to mark referenced callback typedefs.
func (c *Collector) bodyPass(f *ast.File) {
	for _, d := range f.Decls {
		c.bodyTop(d, "")
	}
}

func (c *Collector) bodyTop(d ast.Decl, scopeName string) {
	switch n := d.(type) {
	case *ast.ScopeDecl:
		for _, m := range n.Members {
			c.bodyTop(m.Decl, n.Name)
		}
	case *ast.FunctionDecl:
		c.markCallbackUsage(n.Return)
		for _, p := range n.Params {
			c.markCallbackUsage(p.Type)
		}
		if n.Body == nil {
			return
		}
		key := funcKey(scopeName, n.Name)
		facts := c.Facts[key]
		if facts == nil {
			facts = newFuncFacts()
			c.Facts[key] = facts
		}
		paramNames := map[string]bool{}
		for _, p := range n.Params {
			paramNames[p.Name] = true
		}
		c.walkBlock(n.Body, paramNames, facts)
	case *ast.StructDecl:
		for _, fld := range n.Fields {
			c.markCallbackUsage(fld.Type)
		}
	}
}

func (c *Collector) markCallbackUsage(t *ast.Type) {
	if t == nil || t.Tag != ast.TCallback {
		return
	}
	if cb, ok := c.Store.Callbacks[t.Name]; ok {
		cb.Referenced = true
	}
}

func (c *Collector) walkBlock(b *ast.BlockStmt, params map[string]bool, facts *FuncFacts) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		c.walkStmt(s, params, facts)
	}
}

func (c *Collector) walkStmt(s ast.Stmt, params map[string]bool, facts *FuncFacts) {
	switch n := s.(type) {
	case *ast.VarDeclStmt:
		c.walkExpr(n.Init, params, facts, false)
	case *ast.AssignStmt:
		c.markWrite(n.Target, params, facts)
		c.walkExpr(n.Value, params, facts, false)
	case *ast.ExprStmt:
		c.walkExpr(n.X, params, facts, false)
	case *ast.ReturnStmt:
		c.walkExpr(n.Value, params, facts, false)
	case *ast.BlockStmt:
		c.walkBlock(n, params, facts)
	case *ast.IfStmt:
		c.walkExpr(n.Cond, params, facts, false)
		c.walkBlock(n.Then, params, facts)
		if n.Else != nil {
			c.walkStmt(n.Else, params, facts)
		}
	case *ast.WhileStmt:
		c.walkExpr(n.Cond, params, facts, false)
		c.walkBlock(n.Body, params, facts)
	case *ast.DoWhileStmt:
		c.walkBlock(n.Body, params, facts)
		c.walkExpr(n.Cond, params, facts, false)
	case *ast.ForStmt:
		if n.Init != nil {
			c.walkStmt(n.Init, params, facts)
		}
		c.walkExpr(n.Cond, params, facts, false)
		if n.Post != nil {
			c.walkStmt(n.Post, params, facts)
		}
		c.walkBlock(n.Body, params, facts)
	case *ast.CriticalStmt:
		c.walkBlock(n.Body, params, facts)
	}
}

// markWrite records that the root identifier of target (if it is or
// contains a bare parameter reference) was written (§4.4).
func (c *Collector) markWrite(target ast.Expr, params map[string]bool, facts *FuncFacts) {
	name := rootIdent(target)
	if name != "" && params[name] {
		facts.Written[name] = true
	}
}

// rootIdent returns the base identifier of an lvalue-shaped expression
// (x, x.f, x[i], x[i].f...), or "" if none.
func rootIdent(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.IdentExpr:
		return n.Name
	case *ast.MemberExpr:
		return rootIdent(n.X)
	case *ast.IndexExpr:
		return rootIdent(n.X)
	case *ast.BitRangeExpr:
		return rootIdent(n.X)
	default:
		return ""
	}
}

func (c *Collector) walkExpr(e ast.Expr, params map[string]bool, facts *FuncFacts, addrCtx bool) {
	switch n := e.(type) {
	case nil:
		return
	case *ast.IdentExpr:
		if addrCtx && params[n.Name] {
			facts.AddressTaken[n.Name] = true
		}
	case *ast.BinaryExpr:
		c.walkExpr(n.Left, params, facts, false)
		c.walkExpr(n.Right, params, facts, false)
	case *ast.UnaryExpr:
		c.walkExpr(n.X, params, facts, false)
	case *ast.TernaryExpr:
		c.walkExpr(n.Cond, params, facts, false)
		c.walkExpr(n.Then, params, facts, false)
		c.walkExpr(n.Else, params, facts, false)
	case *ast.MemberExpr:
		c.walkExpr(n.X, params, facts, false)
	case *ast.IndexExpr:
		c.walkExpr(n.X, params, facts, false)
		c.walkExpr(n.Index, params, facts, false)
	case *ast.BitRangeExpr:
		c.walkExpr(n.X, params, facts, false)
		c.walkExpr(n.Start, params, facts, false)
		c.walkExpr(n.Width, params, facts, false)
	case *ast.AddrOfExpr:
		c.walkExpr(n.X, params, facts, true)
	case *ast.CallExpr:
		c.walkExpr(n.Callee, params, facts, false)
		for _, a := range n.Args {
			c.walkExpr(a, params, facts, false)
		}
	}
}
