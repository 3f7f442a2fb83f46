package codegen_test

import (
	"testing"

	"github.com/jlaustill/cnext/pkg/codegen"
	"github.com/jlaustill/cnext/pkg/parser"
	"github.com/jlaustill/cnext/pkg/symbols"
	"github.com/jlaustill/cnext/pkg/targets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genSource(t *testing.T, src string) (*codegen.Result, *symbols.Store) {
	t.Helper()
	f, errs := parser.Parse("t.cnx", src)
	require.Empty(t, errs)
	require.Empty(t, codegen.Validate(f))

	store := symbols.NewStore()
	c := symbols.NewCollector(store)
	c.Collect(f)
	require.Empty(t, c.Errors())

	gen := codegen.NewGenerator()
	result, genErrs := gen.Generate(f, store, c.Facts)
	require.Empty(t, genErrs)
	return result, store
}

func TestGenerate_ScopeFunctionMangledName(t *testing.T) {
	result, _ := genSource(t, `scope MathUtils {
    public u32 square(u32 value) { return value * value; }
}`)
	assert.Contains(t, result.Body, "uint32_t MathUtils_square(const uint32_t value)")
	assert.Contains(t, result.Body, "return (value * value);")
}

func TestGenerate_ScopeIsNamespaceNotReceiver(t *testing.T) {
	result, _ := genSource(t, `scope MathUtils {
    public u32 publicCounter <- 0;
    public u32 bump() { this.publicCounter <- this.publicCounter + 1; return this.publicCounter; }
}`)
	assert.Contains(t, result.Body, "uint32_t MathUtils_bump(void)")
	assert.Contains(t, result.Body, "MathUtils_publicCounter = (MathUtils_publicCounter + 1);")
	assert.Contains(t, result.Body, "return MathUtils_publicCounter;")
	assert.NotContains(t, result.Body, "self")
	assert.NotContains(t, result.Body, "struct MathUtils")
}

func TestGenerate_EnumMembersArePrefixedWithExplicitValues(t *testing.T) {
	result, _ := genSource(t, `enum Color { RED, GREEN, BLUE }`)
	assert.Contains(t, result.Body, "typedef enum {\n    Color_RED = 0,\n    Color_GREEN = 1,\n    Color_BLUE = 2\n} Color;")
}

func TestGenerate_EnumMemberExplicitValueRestartsSequence(t *testing.T) {
	result, _ := genSource(t, `enum Flags { A, B = 5, C }`)
	assert.Contains(t, result.Body, "Flags_A = 0")
	assert.Contains(t, result.Body, "Flags_B = 5")
	assert.Contains(t, result.Body, "Flags_C = 6")
}

func TestGenerate_AutoConstOnUnwrittenParam(t *testing.T) {
	result, _ := genSource(t, `u32 square(u32 value) { return value * value; }`)
	assert.Contains(t, result.Body, "const uint32_t value")
}

func TestGenerate_MutatedParamIsNotConst(t *testing.T) {
	result, _ := genSource(t, `void bump(u32 counter) { counter <- counter + 1; }`)
	assert.Contains(t, result.Body, "void bump(uint32_t counter)")
	assert.NotContains(t, result.Body, "const uint32_t counter")
}

func TestGenerate_ClampOverflowEmitsHelperEffect(t *testing.T) {
	result, _ := genSource(t, `void bump(u32 counter) { counter +<- 1; }`)
	require.Len(t, result.Effects, 1)
	assert.Equal(t, codegen.EffectHelper, result.Effects[0].Kind)
	assert.Equal(t, "cnx_clamp_add_u32", result.Effects[0].Name)
	assert.Contains(t, result.Body, "cnx_clamp_add_u32(counter, 1)")
}

func TestGenerate_WrapOverflowUsesNaturalOperator(t *testing.T) {
	result, _ := genSource(t, `void bump() { wrap u32 counter <- 0; counter +<- 1; }`)
	assert.Contains(t, result.Body, "counter += 1;")
}

func TestGenerate_PrivateConstInlinedNotEmitted(t *testing.T) {
	result, _ := genSource(t, `const u32 MAX_RETRIES <- 3;
void f() {}`)
	assert.NotContains(t, result.Body, "MAX_RETRIES")
}

func TestGenerate_CriticalBlockLowersToPrimask(t *testing.T) {
	result, _ := genSource(t, `void f() { critical { u32 x <- 1; } }`)
	assert.Contains(t, result.Body, "__get_PRIMASK()")
	assert.Contains(t, result.Body, "__disable_irq()")
	assert.Contains(t, result.Body, "__set_PRIMASK(cnx_primask)")
}

func TestGenerate_AtomicCompoundAssignDefaultsToPrimaskLoop(t *testing.T) {
	result, _ := genSource(t, `atomic u32 counter <- 0;
void bump() { counter +<- 1; }`)
	assert.Contains(t, result.Body, "__get_PRIMASK")
}

func TestGenerate_AtomicCompoundAssignUsesExclusiveMonitorWhenAvailable(t *testing.T) {
	f, errs := parser.Parse("t.cnx", `atomic u32 counter <- 0;
void bump() { counter +<- 1; }`)
	require.Empty(t, errs)
	store := symbols.NewStore()
	c := symbols.NewCollector(store)
	c.Collect(f)
	require.Empty(t, c.Errors())

	gen := codegen.NewGenerator()
	cap, ok := targets.Lookup("cortex-m4")
	require.True(t, ok)
	gen.Target = cap

	result, genErrs := gen.Generate(f, store, c.Facts)
	require.Empty(t, genErrs)
	assert.Contains(t, result.Body, "__LDREX")
}

func TestRenderHelper_ClampAdd(t *testing.T) {
	body, ok := codegen.RenderHelper("cnx_clamp_add_u32")
	require.True(t, ok)
	assert.Contains(t, body, "static inline uint32_t cnx_clamp_add_u32")
}
