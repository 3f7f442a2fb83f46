package symbols_test

import (
	"testing"

	"github.com/jlaustill/cnext/pkg/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureHash_StableForIdenticalText(t *testing.T) {
	a, err := symbols.SignatureHash("uint32_t Math_add(uint32_t a, uint32_t b)")
	require.NoError(t, err)
	b, err := symbols.SignatureHash("uint32_t Math_add(uint32_t a, uint32_t b)")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSignatureHash_DiffersForChangedText(t *testing.T) {
	a, err := symbols.SignatureHash("uint32_t Math_add(uint32_t a, uint32_t b)")
	require.NoError(t, err)
	b, err := symbols.SignatureHash("uint32_t Math_add(uint32_t a, int32_t b)")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
