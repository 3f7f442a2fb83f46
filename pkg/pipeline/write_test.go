package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jlaustill/cnext/pkg/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_WriteAllThenCleanRemovesGeneratedFiles(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	writeFile(t, filepath.Join(srcDir, "Math.cnx"), `scope Math {
    public u32 add(u32 a, u32 b) { return a + b; }
}`)

	p := pipeline.New(pipeline.Options{InputDirs: []string{srcDir}, OutDir: outDir})
	results, err := p.Run()
	require.NoError(t, err)
	require.NoError(t, p.WriteAll(results))

	cPath := filepath.Join(outDir, "Math.c")
	hPath := filepath.Join(outDir, "Math.h")
	assert.FileExists(t, cPath)
	assert.FileExists(t, hPath)

	require.NoError(t, pipeline.Clean(outDir))
	_, err = os.Stat(cPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(hPath)
	assert.True(t, os.IsNotExist(err))
}
