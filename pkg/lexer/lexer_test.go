package lexer_test

import (
	"testing"

	"github.com/jlaustill/cnext/pkg/lexer"
	"github.com/jlaustill/cnext/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_AssignmentVsEquality(t *testing.T) {
	l := lexer.New("t.cnx", "counter <- counter + 1; if (counter = 5) {}")
	toks := l.Tokenize()

	var kinds []token.Kind
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	assert.Contains(t, kinds, token.Assign)
	assert.Contains(t, kinds, token.Equal)
	assert.Empty(t, l.Errors())
}

func TestLexer_CompoundAssignForms(t *testing.T) {
	tests := []struct {
		src  string
		want token.Kind
	}{
		{"x +<- 1;", token.PlusAssign},
		{"x -<- 1;", token.MinusAssign},
		{"x *<- 1;", token.StarAssign},
		{"x /<- 1;", token.SlashAssign},
		{"x %<- 1;", token.PercentAssign},
		{"x &<- 1;", token.AndAssign},
		{"x |<- 1;", token.OrAssign},
		{"x ^<- 1;", token.XorAssign},
		{"x <<<- 1;", token.ShlAssign},
		{"x >><- 1;", token.ShrAssign},
	}
	for _, tt := range tests {
		l := lexer.New("t.cnx", tt.src)
		toks := l.Tokenize()
		require.Len(t, toks, 5) // ident, op, int, ;, EOF
		found := false
		for _, tk := range toks {
			if tk.Kind == tt.want {
				found = true
			}
		}
		assert.True(t, found, "expected %s in %q", tt.want, tt.src)
	}
}

func TestLexer_NumberSuffixes(t *testing.T) {
	l := lexer.New("t.cnx", "5u32 3.14f32 7i8")
	toks := l.Tokenize()
	assert.Equal(t, "5u32", toks[0].Literal)
	assert.Equal(t, token.IntLiteral, toks[0].Kind)
	assert.Equal(t, token.FloatLiteral, toks[1].Kind)
	assert.Equal(t, token.IntLiteral, toks[2].Kind)
}

func TestLexer_KeywordsAndIdents(t *testing.T) {
	l := lexer.New("t.cnx", "scope MathUtils { public u32 counter; }")
	toks := l.Tokenize()
	assert.Equal(t, token.KwScope, toks[0].Kind)
	assert.Equal(t, token.Ident, toks[1].Kind)
	assert.Equal(t, "MathUtils", toks[1].Literal)
}

func TestLexer_HiddenCommentChannel(t *testing.T) {
	l := lexer.New("t.cnx", "u32 x; // doc\n/// api doc\n/* block */")
	_ = l.Tokenize()
	comments := l.Comments()
	require.Len(t, comments, 3)
	assert.Equal(t, token.LineComment, comments[0].Form)
	assert.Equal(t, token.DocComment, comments[1].Form)
	assert.Equal(t, token.BlockComment, comments[2].Form)
}

func TestLexer_ForbiddenDefineIsLexError(t *testing.T) {
	l := lexer.New("t.cnx", "#define FOO 1\n")
	_ = l.Tokenize()
	require.NotEmpty(t, l.Errors())
}

func TestLexer_DefineFunctionFormIsLexError(t *testing.T) {
	l := lexer.New("t.cnx", "#define FOO(x) (x+1)\n")
	_ = l.Tokenize()
	require.NotEmpty(t, l.Errors())
}

func TestLexer_FlagDefineIsLegal(t *testing.T) {
	l := lexer.New("t.cnx", "#define DEBUG\n")
	_ = l.Tokenize()
	assert.Empty(t, l.Errors())
}

func TestClassifyDirectives(t *testing.T) {
	src := "#include \"a.cnx\"\n#include <stdint.h>\n#pragma target cortex-m4\n"
	lines := lexer.ClassifyDirectives("t.cnx", src)
	require.Len(t, lines, 3)
	assert.Equal(t, token.DirInclude, lines[0].Kind)
	assert.False(t, lines[0].System)
	assert.Equal(t, "a.cnx", lines[0].Name)
	assert.True(t, lines[1].System)
	assert.Equal(t, token.DirPragmaTarget, lines[2].Kind)
	assert.Equal(t, "cortex-m4", lines[2].Name)
}

func TestMisra31_NestedBlockCommentMarker(t *testing.T) {
	l := lexer.New("t.cnx", "/* outer /* inner */")
	_ = l.Tokenize()
	findings := lexer.CheckComments(l.Comments())
	require.Len(t, findings, 1)
	assert.Equal(t, "3.1", findings[0].Rule)
}

func TestMisra31_URIExemptInLineComment(t *testing.T) {
	l := lexer.New("t.cnx", "// see https://example.com/docs\n")
	_ = l.Tokenize()
	findings := lexer.CheckComments(l.Comments())
	assert.Empty(t, findings)
}

func TestMisra32_LineSpliceBackslash(t *testing.T) {
	l := lexer.New("t.cnx", "// this comment continues \\\nu32 x;")
	_ = l.Tokenize()
	findings := lexer.CheckComments(l.Comments())
	require.Len(t, findings, 1)
	assert.Equal(t, "3.2", findings[0].Rule)
}
