package discovery_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jlaustill/cnext/pkg/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscover_FindsSourceFilesRecursively(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.cnx"), "")
	writeFile(t, filepath.Join(root, "lib", "math.cnx"), "")
	writeFile(t, filepath.Join(root, "README.md"), "")

	files, err := discovery.Discover(root)
	require.NoError(t, err)
	require.Len(t, files, 2)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.RelPath)
	}
	assert.Contains(t, rels, "main.cnx")
	assert.Contains(t, rels, "lib/math.cnx")
}

func TestDiscover_SkipsIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "hooks.cnx"), "")
	writeFile(t, filepath.Join(root, "build", "gen.cnx"), "")
	writeFile(t, filepath.Join(root, "src", "a.cnx"), "")

	files, err := discovery.Discover(root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "src/a.cnx", files[0].RelPath)
}
