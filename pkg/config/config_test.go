package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jlaustill/cnext/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectProjectRoot_FindsMarkerInAncestor(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "cnext.config.json"), []byte("{}"), 0o644))
	nested := filepath.Join(root, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok := config.DetectProjectRoot(nested)
	require.True(t, ok)
	assert.Equal(t, root, found)
}

func TestDetectProjectRoot_NoneFound(t *testing.T) {
	_, ok := config.DetectProjectRoot(t.TempDir())
	assert.False(t, ok)
}

func TestParsePlatformIOIni_LibExtraDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "platformio.ini")
	content := `[env:bluepill]
platform = ststm32
lib_extra_dirs =
    ../shared
    ../vendor/drivers
lib_deps = SomeLib, OtherLib
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	envs, err := config.ParsePlatformIOIni(path)
	require.NoError(t, err)
	require.Len(t, envs, 1)
	assert.Equal(t, "bluepill", envs[0].Name)
	assert.Equal(t, []string{"../shared", "../vendor/drivers"}, envs[0].LibExtraDirs)
	assert.Equal(t, []string{"SomeLib", "OtherLib"}, envs[0].LibDeps)
}

func TestResolveLibExtraDirs_MakesAbsolute(t *testing.T) {
	env := config.PlatformIOEnv{LibExtraDirs: []string{"../shared"}}
	resolved := config.ResolveLibExtraDirs("/proj/firmware", env)
	require.Len(t, resolved, 1)
	assert.Equal(t, "/proj/shared", resolved[0])
}
