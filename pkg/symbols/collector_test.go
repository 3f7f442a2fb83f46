package symbols_test

import (
	"testing"

	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/parser"
	"github.com/jlaustill/cnext/pkg/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, src string) (*symbols.Store, *symbols.Collector) {
	t.Helper()
	f, errs := parser.Parse("t.cnx", src)
	require.Empty(t, errs)
	store := symbols.NewStore()
	c := symbols.NewCollector(store)
	c.Collect(f)
	require.Empty(t, c.Errors())
	return store, c
}

func TestCollector_ScopeAndFunctionDeclaration(t *testing.T) {
	store, _ := collect(t, `scope MathUtils {
    public u32 square(u32 value) { return value * value; }
    void helper() { return; }
}`)
	assert.True(t, store.Scopes["MathUtils"])
	fi, ok := store.Functions["MathUtils.square"]
	require.True(t, ok)
	assert.Equal(t, ast.Public, fi.Visibility)

	hi, ok := store.Functions["MathUtils.helper"]
	require.True(t, ok)
	assert.Equal(t, ast.Private, hi.Visibility)
}

func TestCollector_ParamWrittenIsNotAutoConst(t *testing.T) {
	_, c := collect(t, `void bump(u32 counter) { counter <- counter + 1; }`)
	facts := c.Facts["bump"]
	require.NotNil(t, facts)
	assert.True(t, facts.IsMutated("counter"))
}

func TestCollector_ParamNeverWrittenIsMutationFree(t *testing.T) {
	_, c := collect(t, `u32 square(u32 value) { return value * value; }`)
	facts := c.Facts["square"]
	require.NotNil(t, facts)
	assert.False(t, facts.IsMutated("value"))
}

func TestCollector_AddressTakenCountsAsMutated(t *testing.T) {
	_, c := collect(t, `void f(u32 value) { g(&value); }
void g(u32 v) {}`)
	facts := c.Facts["f"]
	require.NotNil(t, facts)
	assert.True(t, facts.IsMutated("value"))
}

func TestCollector_EnumValuesAssignedSequentially(t *testing.T) {
	store, _ := collect(t, `enum Color { Red, Green = 5, Blue }`)
	en := store.Enums["Color"]
	require.NotNil(t, en)
	assert.EqualValues(t, 0, en.Values["Red"])
	assert.EqualValues(t, 5, en.Values["Green"])
	assert.EqualValues(t, 6, en.Values["Blue"])
}

func TestCollector_BitmapOffsetsAccumulate(t *testing.T) {
	store, _ := collect(t, `bitmap8 Flags { enabled, mode[2], reserved[5] }`)
	bm := store.Bitmaps["Flags"]
	require.NotNil(t, bm)
	assert.Equal(t, 0, bm.Offsets["enabled"])
	assert.Equal(t, 1, bm.Offsets["mode"])
	assert.Equal(t, 3, bm.Offsets["reserved"])
	assert.Equal(t, 5, bm.Widths["reserved"])
}

func TestCollector_RegisterOffsetsAndAccess(t *testing.T) {
	store, _ := collect(t, `register GPIOA @ 0x40020000 {
    MODER: u32 rw @ 0x00,
    IDR: u32 ro @ 0x10,
}`)
	reg := store.Registers["GPIOA"]
	require.NotNil(t, reg)
	assert.Equal(t, int64(0x10), reg.Offsets["IDR"])
	assert.Equal(t, ast.AccessRO, reg.Access["IDR"])
}

func TestCollector_PrivateConstWithLiteralIsInlinable(t *testing.T) {
	store, _ := collect(t, `const u32 MAX_RETRIES <- 3;`)
	vi := store.Variables["MAX_RETRIES"]
	require.NotNil(t, vi)
	assert.True(t, vi.InlineLiteral)
	assert.Equal(t, "3", vi.LiteralText)
}
