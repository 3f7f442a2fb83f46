// Package ast defines the parse tree produced by pkg/parser: the closed
// tagged-variant Type of §3, and the declaration/statement/expression
// node forms of the grammar in spec §6.1. Following §9's design note,
// Type is a plain struct with a discriminant tag rather than an open
// interface hierarchy, mirroring inspector/graph.Type's single-struct
// shape in the teacher.
package ast

import "github.com/jlaustill/cnext/pkg/token"

// PrimKind enumerates the primitive type kinds of §3.
type PrimKind int

const (
	Void PrimKind = iota
	Bool
	U8
	I8
	U16
	I16
	U32
	I32
	U64
	I64
	F32
	F64
	ISR
)

var primNames = map[PrimKind]string{
	Void: "void", Bool: "bool", U8: "u8", I8: "i8", U16: "u16", I16: "i16",
	U32: "u32", I32: "i32", U64: "u64", I64: "i64", F32: "f32", F64: "f64", ISR: "ISR",
}

func (k PrimKind) String() string { return primNames[k] }

// TypeTag discriminates the Type variant, per §3.
type TypeTag int

const (
	TPrimitive TypeTag = iota
	TString
	TArray
	TStruct
	TEnum
	TBitmap
	TCallback
	TRegister
	TExternal
	TScoped
	TQualified
)

// Dimension is either a literal integer extent or a symbolic (macro) name,
// per §3's array type: "dimensions: sequence of (integer | symbolic name)".
type Dimension struct {
	IsSymbolic bool
	Literal    int64
	Symbol     string
}

// Type is the closed tagged-variant type of §3.
type Type struct {
	Tag TypeTag

	// TPrimitive
	Prim PrimKind

	// TString: capacity is character count excluding the implicit
	// terminator; Unsized is true when no capacity was declared.
	Capacity int
	Unsized  bool

	// TArray
	Element    *Type
	Dimensions []Dimension

	// TStruct / TEnum / TBitmap / TCallback / TRegister / TExternal / TScoped
	Name string

	// TBitmap
	BitWidth int

	// TScoped
	Scope string

	// TQualified (global.Scope.member style outer reference)
	OuterName string
}

func Primitive(k PrimKind) *Type { return &Type{Tag: TPrimitive, Prim: k} }

func (t *Type) IsPrimitive() bool { return t != nil && t.Tag == TPrimitive }

// CType returns the emitted C spelling of a primitive/string type as used
// by §4.5's type-lowering table; composite types are resolved by the code
// generator against the symbol store instead.
func (t *Type) CType() string {
	if t == nil {
		return "void"
	}
	switch t.Tag {
	case TPrimitive:
		switch t.Prim {
		case Void:
			return "void"
		case Bool:
			return "bool"
		case U8:
			return "uint8_t"
		case I8:
			return "int8_t"
		case U16:
			return "uint16_t"
		case I16:
			return "int16_t"
		case U32:
			return "uint32_t"
		case I32:
			return "int32_t"
		case U64:
			return "uint64_t"
		case I64:
			return "int64_t"
		case F32:
			return "float"
		case F64:
			return "double"
		case ISR:
			return "void"
		}
	case TStruct:
		return t.Name
	case TEnum:
		return t.Name
	case TBitmap:
		return t.Name
	case TCallback:
		return t.Name
	case TExternal:
		return t.Name
	}
	return t.Name
}

// Overflow is the clamp/wrap modifier of §4.5/§6.1.
type Overflow int

const (
	OverflowDefault Overflow = iota // unspecified: clamp for integer arithmetic
	OverflowClamp
	OverflowWrap
)

// AccessMode is a register member's access mode, §3/§4.7/§6.1.
type AccessMode int

const (
	AccessRW AccessMode = iota
	AccessRO
	AccessWO
	AccessW1C
	AccessW1S
)

var accessNames = map[AccessMode]string{
	AccessRW: "rw", AccessRO: "ro", AccessWO: "wo", AccessW1C: "w1c", AccessW1S: "w1s",
}

func (a AccessMode) String() string { return accessNames[a] }

// Visibility is a scope member's visibility, §3/§4.5. Default is Private
// (§9 Open Question, resolved explicitly here).
type Visibility int

const (
	Private Visibility = iota
	Public
)

// Parameter is a function parameter, §3.
type Parameter struct {
	Name       string
	Type       *Type
	IsConst    bool
	Dimensions []Dimension
	Pos        token.Position

	// PassByValue and AutoConst are not set anywhere: the code generator
	// decides pass-by-value and synthesized const (§4.5) while rendering
	// the signature and does not record either decision here.
	PassByValue bool
	AutoConst   bool
}
