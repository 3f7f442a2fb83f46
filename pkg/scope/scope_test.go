package scope_test

import (
	"testing"

	"github.com/jlaustill/cnext/pkg/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_GlobalIsOwnParent(t *testing.T) {
	g := scope.NewGraph()
	n := g.Node(scope.GlobalIndex)
	assert.Equal(t, "", n.Name)
	assert.Equal(t, scope.GlobalIndex, n.Parent)
}

func TestGraph_DeclareAndLookup(t *testing.T) {
	g := scope.NewGraph()
	idx := g.Declare(scope.GlobalIndex, "MathUtils")
	got, ok := g.Lookup("MathUtils")
	require.True(t, ok)
	assert.Equal(t, idx, got)

	again := g.Declare(scope.GlobalIndex, "MathUtils")
	assert.Equal(t, idx, again, "declaring the same scope twice must return the same index")
}

func TestGraph_AddFunctionAndVariable(t *testing.T) {
	g := scope.NewGraph()
	idx := g.Declare(scope.GlobalIndex, "MathUtils")
	g.AddFunction(idx, "square")
	g.AddVariable(idx, "counter")

	n := g.Node(idx)
	assert.Equal(t, []string{"square"}, n.Functions)
	assert.Equal(t, []string{"counter"}, n.Variables)
}

func TestGraph_MangleAndPrefix(t *testing.T) {
	g := scope.NewGraph()
	idx := g.Declare(scope.GlobalIndex, "MathUtils")

	assert.Equal(t, "MathUtils_square", g.Mangle(idx, "square"))
	assert.Equal(t, "MathUtils_", g.Prefix(idx))
	assert.Equal(t, "square", g.Mangle(scope.GlobalIndex, "square"))
	assert.Equal(t, "", g.Prefix(scope.GlobalIndex))
}

func TestGraph_Chain(t *testing.T) {
	g := scope.NewGraph()
	idx := g.Declare(scope.GlobalIndex, "MathUtils")
	assert.Equal(t, []string{"MathUtils"}, g.Chain(idx))
	assert.Empty(t, g.Chain(scope.GlobalIndex))
}
