package ast

import "github.com/jlaustill/cnext/pkg/token"

// Decl is implemented by every top-level or scope-member declaration.
type Decl interface {
	declNode()
	Position() token.Position
}

// File is the parse tree root for one translation unit (§6.1 `program`).
type File struct {
	Path        string
	Includes    []IncludeDirective
	Directives  []token.PreprocessorLine
	Decls       []Decl
}

// IncludeDirective is a parsed `#include` line.
type IncludeDirective struct {
	Path   string
	System bool
	Pos    token.Position
}

// ScopeDecl is `scope S { ... }` (§3, §6.1).
type ScopeDecl struct {
	Name    string
	Members []*ScopeMember
	Pos     token.Position
}

// ScopeMember carries a declaration plus its explicit (or default private,
// §9) visibility inside a scope.
type ScopeMember struct {
	Visibility Visibility
	Decl       Decl
	Pos        token.Position
}

// FunctionDecl is a function declaration, optionally with a body (§3).
type FunctionDecl struct {
	Name       string
	ScopeName  string // "" for file/global scope
	Params     []*Parameter
	Return     *Type
	Body       *BlockStmt // nil for a prototype-only declaration
	Visibility Visibility
	Pos        token.Position
}

// VariableDecl is a top-level or scope-level variable declaration.
type VariableDecl struct {
	Atomic     bool
	Volatile   bool
	Const      bool
	Overflow   Overflow
	Type       *Type
	Name       string
	Dimensions []Dimension
	Init       Expr
	Visibility Visibility
	Pos        token.Position
}

// StructField is a single field of a struct declaration.
type StructField struct {
	Name       string
	Type       *Type
	Dimensions []Dimension
	Pos        token.Position
}

type StructDecl struct {
	Name       string
	Fields     []*StructField
	Visibility Visibility
	Pos        token.Position
}

// EnumMember is a `(member, value)` pair; Value is nil when the member
// takes the previous member's value plus one (§3).
type EnumMember struct {
	Name  string
	Value Expr
	Pos   token.Position
}

type EnumDecl struct {
	Name       string
	Members    []*EnumMember
	Visibility Visibility
	Pos        token.Position
}

// BitmapField is a named bit-field view with an explicit or default
// (1-bit) width (§3, §6.1).
type BitmapField struct {
	Name  string
	Width int
	Pos   token.Position
}

type BitmapDecl struct {
	Name       string
	BitWidth   int // 8, 16, 24, or 32
	Fields     []*BitmapField
	Visibility Visibility
	Pos        token.Position
}

// RegisterMember is one member of a register declaration (§3, §4.7).
type RegisterMember struct {
	Name       string
	Type       *Type
	Access     AccessMode
	Offset     Expr
	BitStart   Expr // optional bitfield range
	BitWidth   Expr
	Pos        token.Position
}

type RegisterDecl struct {
	Name       string
	BaseAddr   Expr
	Members    []*RegisterMember
	Visibility Visibility
	Pos        token.Position
}

// CallbackDecl names a function-pointer typedef used as a struct field
// type; only callback types actually referenced as fields require an
// emitted typedef (§4.4 body pass).
type CallbackDecl struct {
	Name       string
	Params     []*Parameter
	Return     *Type
	Visibility Visibility
	Pos        token.Position
}

func (*ScopeDecl) declNode()    {}
func (*FunctionDecl) declNode() {}
func (*VariableDecl) declNode() {}
func (*StructDecl) declNode()   {}
func (*EnumDecl) declNode()     {}
func (*BitmapDecl) declNode()   {}
func (*RegisterDecl) declNode() {}
func (*CallbackDecl) declNode() {}

func (d *ScopeDecl) Position() token.Position    { return d.Pos }
func (d *FunctionDecl) Position() token.Position { return d.Pos }
func (d *VariableDecl) Position() token.Position { return d.Pos }
func (d *StructDecl) Position() token.Position   { return d.Pos }
func (d *EnumDecl) Position() token.Position     { return d.Pos }
func (d *BitmapDecl) Position() token.Position   { return d.Pos }
func (d *RegisterDecl) Position() token.Position { return d.Pos }
func (d *CallbackDecl) Position() token.Position { return d.Pos }
