package codegen_test

import (
	"testing"

	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/codegen"
	"github.com/jlaustill/cnext/pkg/parser"
	"github.com/jlaustill/cnext/pkg/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAndCollect(t *testing.T, sources ...string) (*symbols.Store, []*ast.File) {
	t.Helper()
	store := symbols.NewStore()
	var files []*ast.File
	for i, src := range sources {
		f, errs := parser.Parse(string(rune('a'+i))+".cnx", src)
		require.Empty(t, errs)
		c := symbols.NewCollector(store)
		c.Collect(f)
		require.Empty(t, c.Errors())
		files = append(files, f)
	}
	return store, files
}

func TestValidateCrossScopeAccess_RejectsBareOtherScopeMember(t *testing.T) {
	store, files := parseAndCollect(t,
		`scope j1939_decode {
    public u16 getSpn(const u8 data[8]) { return 100; }
}`,
		`scope j1939_bus {
    public void handleMessage(const u8 data[8]) {
        u16 spn <- j1939_decode.getSpn(data);
    }
}`)

	errs := codegen.ValidateCrossScopeAccess(files[1], store)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "global.j1939_decode")
}

func TestValidateCrossScopeAccess_AllowsGlobalQualifiedAccess(t *testing.T) {
	store, files := parseAndCollect(t,
		`scope j1939_decode {
    public u16 getSpn(const u8 data[8]) { return 100; }
}`,
		`scope j1939_bus {
    public void handleMessage(const u8 data[8]) {
        u16 spn <- global.j1939_decode.getSpn(data);
    }
}`)

	errs := codegen.ValidateCrossScopeAccess(files[1], store)
	assert.Empty(t, errs)
}

func TestValidateCrossScopeAccess_AllowsThisScopeBareAccess(t *testing.T) {
	store, files := parseAndCollect(t, `scope Math {
    public u32 square(u32 value) { return Math.double(value); }
    public u32 double(u32 value) { return value * 2; }
}`)

	errs := codegen.ValidateCrossScopeAccess(files[0], store)
	assert.Empty(t, errs)
}
