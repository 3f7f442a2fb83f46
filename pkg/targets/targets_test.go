package targets_test

import (
	"testing"

	"github.com/jlaustill/cnext/pkg/targets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_KnownTargets(t *testing.T) {
	cap, ok := targets.Lookup("cortex-m4")
	require.True(t, ok)
	assert.True(t, cap.HasExclusiveMonitor(32))
	assert.True(t, cap.HasExclusiveMonitor(8))
}

func TestLookup_UnknownTargetIsNotAnError(t *testing.T) {
	_, ok := targets.Lookup("risc-v-imaginary")
	assert.False(t, ok)
}

func TestHasExclusiveMonitor_FalseWithoutLdrexStrex(t *testing.T) {
	cap, ok := targets.Lookup("avr")
	require.True(t, ok)
	assert.False(t, cap.HasExclusiveMonitor(8))
}

func TestDefault_NoExclusiveMonitor(t *testing.T) {
	assert.False(t, targets.Default.HasExclusiveMonitor(32))
}
