package pipeline_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jlaustill/cnext/pkg/pipeline"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestPipeline_EmitsCAndHeaderMirroringInputLayout(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	writeFile(t, filepath.Join(srcDir, "Display", "Utils.cnx"), `scope Utils {
    public u32 square(u32 value) { return value * value; }
}`)

	p := pipeline.New(pipeline.Options{
		InputDirs: []string{srcDir},
		OutDir:    outDir,
	})
	results, err := p.Run()
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, filepath.Join(outDir, "Display", "Utils.c"), r.CPath)
	assert.Equal(t, filepath.Join(outDir, "Display", "Utils.h"), r.HPath)
	assert.Contains(t, r.CText, `#include "Utils.h"`)
	assert.Contains(t, r.CText, "Utils_square")
	assert.Contains(t, r.HText, "Utils_square")
	assert.Contains(t, r.HText, "UTILS_H")
}

func TestPipeline_SeparatesHeaderOutputRoot(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	headerDir := t.TempDir()

	writeFile(t, filepath.Join(srcDir, "Math.cnx"), `scope Math {
    public u32 add(u32 a, u32 b) { return a + b; }
}`)

	p := pipeline.New(pipeline.Options{
		InputDirs:    []string{srcDir},
		OutDir:       outDir,
		HeaderOutDir: headerDir,
	})
	results, err := p.Run()
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, filepath.Join(outDir, "Math.c"), results[0].CPath)
	assert.Equal(t, filepath.Join(headerDir, "Math.h"), results[0].HPath)
}

func TestPipeline_OrdersIncludedFileBeforeIncluder(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	writeFile(t, filepath.Join(srcDir, "base.cnx"), `scope Base {
    public u32 identity(u32 value) { return value; }
}`)
	writeFile(t, filepath.Join(srcDir, "main.cnx"), `#include "base.cnx"
scope Main {
    public u32 run(u32 value) { return value; }
}`)

	p := pipeline.New(pipeline.Options{
		InputDirs: []string{srcDir},
		OutDir:    outDir,
	})
	results, err := p.Run()
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, filepath.Join(outDir, "base.c"), results[0].CPath)
	assert.Equal(t, filepath.Join(outDir, "main.c"), results[1].CPath)
}

func TestPipeline_PopulatesSignatureHashesAndWarnsOnChange(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	path := filepath.Join(srcDir, "Math.cnx")

	writeFile(t, path, `scope Math {
    public u32 add(u32 a, u32 b) { return a + b; }
}`)

	var logBuf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logBuf)
	p := pipeline.New(pipeline.Options{InputDirs: []string{srcDir}, OutDir: outDir, Log: logger})
	first, err := p.Run()
	require.NoError(t, err)
	require.NotEmpty(t, first[0].SignatureHashes)

	writeFile(t, path, `scope Math {
    public i32 add(u32 a, u32 b) { return a + b; }
}`)
	second, err := p.Run()
	require.NoError(t, err)
	assert.NotEqual(t, first[0].SignatureHashes, second[0].SignatureHashes)
	assert.Contains(t, logBuf.String(), "function signature changed since last run")
}

func TestPipeline_RewritesLocalIncludeToGeneratedHeader(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	writeFile(t, filepath.Join(srcDir, "base.cnx"), `scope Base {
    public u32 identity(u32 value) { return value; }
}`)
	writeFile(t, filepath.Join(srcDir, "main.cnx"), `#include "base.cnx"
scope Main {
    public u32 run(u32 value) { return value; }
}`)

	p := pipeline.New(pipeline.Options{InputDirs: []string{srcDir}, OutDir: outDir})
	results, err := p.Run()
	require.NoError(t, err)
	require.Len(t, results, 2)

	mainResult := results[1]
	assert.Contains(t, mainResult.CText, `#include "base.h"`)
}

func TestPipeline_PrivateOnlyFileEmitsNoHeader(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	writeFile(t, filepath.Join(srcDir, "internal.cnx"), `scope Internal {
    private u32 helper(u32 value) { return value; }
}`)

	p := pipeline.New(pipeline.Options{
		InputDirs: []string{srcDir},
		OutDir:    outDir,
	})
	results, err := p.Run()
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Empty(t, results[0].HPath)
	assert.NotContains(t, results[0].CText, `#include "internal.h"`)
}

func TestPipeline_RejectsCrossScopeBareAccess(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	writeFile(t, filepath.Join(srcDir, "decode.cnx"), `scope j1939_decode {
    public u16 getSpn(const u8 data[8]) { return 100; }
}`)
	writeFile(t, filepath.Join(srcDir, "bus.cnx"), `#include "decode.cnx"
scope j1939_bus {
    public void handleMessage(const u8 data[8]) {
        u16 spn <- j1939_decode.getSpn(data);
    }
}`)

	p := pipeline.New(pipeline.Options{InputDirs: []string{srcDir}, OutDir: outDir})
	_, err := p.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "global.j1939_decode")
}
