package parser_test

import (
	"testing"

	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/parser"
	"github.com/jlaustill/cnext/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ScopeWithFunctions(t *testing.T) {
	src := `scope MathUtils {
    public u32 square(u32 value) { return value * value; }
    public void increment(u32 counter) { counter <- counter + 1; }
}`
	f, errs := parser.Parse("t.cnx", src)
	require.Empty(t, errs)
	require.Len(t, f.Decls, 1)

	scope, ok := f.Decls[0].(*ast.ScopeDecl)
	require.True(t, ok)
	assert.Equal(t, "MathUtils", scope.Name)
	require.Len(t, scope.Members, 2)

	square, ok := scope.Members[0].Decl.(*ast.FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "square", square.Name)
	assert.Equal(t, ast.Public, scope.Members[0].Visibility)
	require.Len(t, square.Params, 1)
	assert.Equal(t, ast.U32, square.Params[0].Type.Prim)
}

func TestParse_RegisterDeclaration(t *testing.T) {
	src := `register GPIOA @ 0x40020000 {
    MODER: u32 rw @ 0x00,
    IDR: u32 ro @ 0x10,
}`
	f, errs := parser.Parse("t.cnx", src)
	require.Empty(t, errs)
	reg, ok := f.Decls[0].(*ast.RegisterDecl)
	require.True(t, ok)
	assert.Equal(t, "GPIOA", reg.Name)
	require.Len(t, reg.Members, 2)
	assert.Equal(t, ast.AccessRW, reg.Members[0].Access)
	assert.Equal(t, ast.AccessRO, reg.Members[1].Access)
}

func TestParse_BitmapDeclaration(t *testing.T) {
	src := `bitmap8 Flags { enabled, mode[2], reserved[5] }`
	f, errs := parser.Parse("t.cnx", src)
	require.Empty(t, errs)
	bm, ok := f.Decls[0].(*ast.BitmapDecl)
	require.True(t, ok)
	assert.Equal(t, 8, bm.BitWidth)
	require.Len(t, bm.Fields, 3)
	assert.Equal(t, 1, bm.Fields[0].Width)
	assert.Equal(t, 2, bm.Fields[1].Width)
}

func TestParse_EnumDeclaration(t *testing.T) {
	src := `enum Color { Red, Green = 5, Blue }`
	f, errs := parser.Parse("t.cnx", src)
	require.Empty(t, errs)
	en, ok := f.Decls[0].(*ast.EnumDecl)
	require.True(t, ok)
	require.Len(t, en.Members, 3)
	assert.Nil(t, en.Members[0].Value)
	assert.NotNil(t, en.Members[1].Value)
}

func TestParse_TernaryNestingRejected(t *testing.T) {
	src := `void f() { u32 x <- (a) ? (b) ? 1 : 2 : 3; }`
	_, errs := parser.Parse("t.cnx", src)
	require.NotEmpty(t, errs)
}

func TestParse_CriticalBlock(t *testing.T) {
	src := `void f() { critical { x <- x + 1; } }`
	f, errs := parser.Parse("t.cnx", src)
	require.Empty(t, errs)
	fn := f.Decls[0].(*ast.FunctionDecl)
	_, ok := fn.Body.Stmts[0].(*ast.CriticalStmt)
	assert.True(t, ok)
}

func TestParse_AtomicVariableAndCompoundAssign(t *testing.T) {
	src := `atomic u32 counter <- 0;
void f() { counter +<- 5; }`
	f, errs := parser.Parse("t.cnx", src)
	require.Empty(t, errs)
	v := f.Decls[0].(*ast.VariableDecl)
	assert.True(t, v.Atomic)

	fn := f.Decls[1].(*ast.FunctionDecl)
	assign := fn.Body.Stmts[0].(*ast.AssignStmt)
	assert.Equal(t, token.PlusAssign, assign.Op)
}

func TestParse_IncludeDirectives(t *testing.T) {
	src := "#include \"a.cnx\"\n#include <stdint.h>\nvoid f() {}\n"
	f, errs := parser.Parse("t.cnx", src)
	require.Empty(t, errs)
	require.Len(t, f.Includes, 2)
	assert.False(t, f.Includes[0].System)
	assert.True(t, f.Includes[1].System)
}

func TestParse_ForbiddenDefineAbortsUnit(t *testing.T) {
	src := "#define FOO 1\nvoid f() {}\n"
	_, errs := parser.Parse("t.cnx", src)
	require.NotEmpty(t, errs)
}
