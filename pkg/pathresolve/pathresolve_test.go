package pathresolve_test

import (
	"path/filepath"
	"testing"

	"github.com/jlaustill/cnext/pkg/pathresolve"
	"github.com/stretchr/testify/assert"
)

func TestRelativePath_StripsLongestMatchingPrefix(t *testing.T) {
	r := pathresolve.NewResolver([]string{"/proj/src", "/proj"})
	rel := r.RelativePath("/proj/src/Display/Utils.cnx")
	assert.Equal(t, "Display/Utils.cnx", rel)
}

func TestRelativePath_FallsBackToBasename(t *testing.T) {
	r := pathresolve.NewResolver([]string{"/other/dir"})
	rel := r.RelativePath("/proj/src/Utils.cnx")
	assert.Equal(t, "Utils.cnx", rel)
}

func TestOutputPath_ComposesRootAndReplacesExtension(t *testing.T) {
	r := pathresolve.NewResolver([]string{"/proj/src"})
	out := r.OutputPath("/proj/src/Display/Utils.cnx", "/proj/build", ".c")
	assert.Equal(t, filepath.Join("/proj/build", "Display", "Utils.c"), out)
}

func TestOutputPath_HeaderExtension(t *testing.T) {
	r := pathresolve.NewResolver([]string{"/proj/src"})
	out := r.OutputPath("/proj/src/Display/Utils.cnx", "/proj/include", ".h")
	assert.Equal(t, filepath.Join("/proj/include", "Display", "Utils.h"), out)
}
