package codegen_test

import (
	"testing"

	"github.com/jlaustill/cnext/pkg/codegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConstructorConstArgs_RejectsNonConstArgument(t *testing.T) {
	store, files := parseAndCollect(t, `struct Config {
    u32 rate;
    u32 limit;
}
scope Sensor {
    const u32 DEFAULT_RATE <- 10;
    Config cfg <- Config(DEFAULT_RATE, someRuntimeValue);
}`)

	errs := codegen.ValidateConstructorConstArgs(files[0], store)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "constructor argument must be const")
}

func TestValidateConstructorConstArgs_AllowsLiteralAndConstArgs(t *testing.T) {
	store, files := parseAndCollect(t, `struct Config {
    u32 rate;
    u32 limit;
}
scope Sensor {
    const u32 DEFAULT_RATE <- 10;
    Config cfg <- Config(DEFAULT_RATE, 42);
}`)

	errs := codegen.ValidateConstructorConstArgs(files[0], store)
	assert.Empty(t, errs)
}
