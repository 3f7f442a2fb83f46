package symbols_test

import (
	"testing"

	"github.com/jlaustill/cnext/pkg/parser"
	"github.com/jlaustill/cnext/pkg/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_DumpRendersDeclaredNames(t *testing.T) {
	f, errs := parser.Parse("t.cnx", `struct Point { u32 x; u32 y; }
enum Color { RED, GREEN, BLUE }
void f() {}`)
	require.Empty(t, errs)

	store := symbols.NewStore()
	c := symbols.NewCollector(store)
	c.Collect(f)
	require.Empty(t, c.Errors())

	out, err := store.Dump()
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "Point")
	assert.Contains(t, text, "Color")
	assert.Contains(t, text, "f")
}
