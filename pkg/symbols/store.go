// Package symbols implements the Symbol Store and Symbol Collector of
// §3/§4.4: per-file and project-wide name tables for scopes, structs,
// registers, enums, bitmaps, and callbacks, plus the two-pass collector
// that fills them in (a declaration pass, then a body pass that also
// records which parameters are written or address-taken). The indexed
// lookup-map-beside-slice idiom follows inspector/graph.Package/File in
// the teacher, and the write/address-taken tracking in the body pass is
// modeled on analyzer/linage.DataPoint's Writes/Reads/Calls slices.
package symbols

import (
	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/token"
)

// StructInfo holds a struct's field layout for codegen and the header
// synthesizer (§4.5, §4.6).
type StructInfo struct {
	Decl       *ast.StructDecl
	Visibility ast.Visibility
	FieldTypes map[string]*ast.Type
	FieldDims  map[string]map[string][]ast.Dimension
	SizeBytes  int // best-effort, used by §4.5's pass-by-value threshold
}

// EnumInfo holds an enum's resolved member values.
type EnumInfo struct {
	Decl       *ast.EnumDecl
	Visibility ast.Visibility
	Values     map[string]int64
}

// BitmapInfo holds a bitmap's field bit offsets and widths (§4.7).
type BitmapInfo struct {
	Decl       *ast.BitmapDecl
	Visibility ast.Visibility
	Offsets    map[string]int
	Widths     map[string]int
}

// RegisterInfo holds a register's member access modes, types, and byte
// offsets for macro lowering (§4.7).
type RegisterInfo struct {
	Decl       *ast.RegisterDecl
	Visibility ast.Visibility
	Access     map[string]ast.AccessMode
	Types      map[string]*ast.Type
	Offsets    map[string]int64
}

// CallbackInfo holds a callback typedef's signature, plus whether it was
// ever actually referenced as a field type (§4.4 body pass): only
// referenced callback typedefs are emitted.
type CallbackInfo struct {
	Decl       *ast.CallbackDecl
	Visibility ast.Visibility
	Referenced bool
}

// FunctionInfo holds a function's declaration, owning scope, visibility
// and return type (§4.5).
type FunctionInfo struct {
	Decl       *ast.FunctionDecl
	ScopeName  string
	Visibility ast.Visibility
	ReturnType *ast.Type
}

// VariableInfo holds a top-level or scope-level variable's declared
// shape, plus whether it is a compile-time-inlinable private const
// (§4.4/§4.5: "private consts with a literal initializer are inlined at
// use sites rather than emitted as storage").
type VariableInfo struct {
	Decl          *ast.VariableDecl
	ScopeName     string
	Visibility    ast.Visibility
	InlineLiteral bool
	LiteralText   string
}

// Store is the Symbol Store of §3: the name tables a Collector fills in.
// A State keeps one Store that every file of a run is collected into,
// which serves as the project-wide view.
type Store struct {
	Scopes    map[string]bool // declared scope names
	ScopePos  map[string]token.Position
	Structs   map[string]*StructInfo
	Enums     map[string]*EnumInfo
	Bitmaps   map[string]*BitmapInfo
	Registers map[string]*RegisterInfo
	Callbacks map[string]*CallbackInfo
	Functions map[string]*FunctionInfo
	Variables map[string]*VariableInfo

	// order preserves declaration order for deterministic header/dump
	// emission (§4.6, SPEC_FULL.md's --dump-symbols).
	order []string
}

// NewStore constructs an empty Symbol Store.
func NewStore() *Store {
	return &Store{
		Scopes:    map[string]bool{},
		ScopePos:  map[string]token.Position{},
		Structs:   map[string]*StructInfo{},
		Enums:     map[string]*EnumInfo{},
		Bitmaps:   map[string]*BitmapInfo{},
		Registers: map[string]*RegisterInfo{},
		Callbacks: map[string]*CallbackInfo{},
		Functions: map[string]*FunctionInfo{},
		Variables: map[string]*VariableInfo{},
	}
}

func (s *Store) touch(name string) { s.order = append(s.order, name) }

// Order returns declared symbol names in first-seen order.
func (s *Store) Order() []string { return append([]string(nil), s.order...) }

// LookupFunction finds a function by its bare name, searching scoped
// functions mangled as "Scope.name" first, falling back to the bare
// file-scope name (§4.5 resolution order for unqualified calls).
func (s *Store) LookupFunction(scopeName, name string) (*FunctionInfo, bool) {
	if scopeName != "" {
		if fi, ok := s.Functions[scopeName+"."+name]; ok {
			return fi, true
		}
	}
	fi, ok := s.Functions[name]
	return fi, ok
}

// IsPrivate reports whether a symbol (by its stored key) is private,
// defaulting to true if unknown (§9: default visibility is private).
func (s *Store) IsPrivate(key string) bool {
	if fi, ok := s.Functions[key]; ok {
		return fi.Visibility == ast.Private
	}
	if vi, ok := s.Variables[key]; ok {
		return vi.Visibility == ast.Private
	}
	if si, ok := s.Structs[key]; ok {
		return si.Visibility == ast.Private
	}
	if ei, ok := s.Enums[key]; ok {
		return ei.Visibility == ast.Private
	}
	if bi, ok := s.Bitmaps[key]; ok {
		return bi.Visibility == ast.Private
	}
	if ri, ok := s.Registers[key]; ok {
		return ri.Visibility == ast.Private
	}
	return true
}
