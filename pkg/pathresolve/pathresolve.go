// Package pathresolve implements the Path Resolver of §4.9: turning a
// source file's absolute path into a source-relative path (stripping
// the longest matching input-directory prefix) and composing output
// code/header paths from that relative path plus a chosen output root.
// Grounded on inspector/graph.Project.adjustRelativePath's
// filepath.Rel-against-root idiom in the teacher, generalized from a
// single project root to "the longest matching prefix of a set of input
// directories" (§4.9's stated fallback behavior).
package pathresolve

import (
	"path/filepath"
	"strings"
)

// Resolver composes source-relative paths against a set of known input
// directories (§4.9).
type Resolver struct {
	inputDirs []string // absolute, longest-first for deterministic matching
}

// NewResolver creates a Resolver over inputDirs, each converted to an
// absolute path and sorted longest-first so the longest matching prefix
// wins (§4.9: "stripping the longest matching input-directory prefix").
func NewResolver(inputDirs []string) *Resolver {
	abs := make([]string, 0, len(inputDirs))
	for _, d := range inputDirs {
		if a, err := filepath.Abs(d); err == nil {
			abs = append(abs, a)
		}
	}
	for i := 1; i < len(abs); i++ {
		for j := i; j > 0 && len(abs[j]) > len(abs[j-1]); j-- {
			abs[j], abs[j-1] = abs[j-1], abs[j]
		}
	}
	return &Resolver{inputDirs: abs}
}

// RelativePath returns absPath relative to the longest matching input
// directory, or its basename if none match (§4.9).
func (r *Resolver) RelativePath(absPath string) string {
	abs, err := filepath.Abs(absPath)
	if err != nil {
		return filepath.Base(absPath)
	}
	for _, dir := range r.inputDirs {
		rel, err := filepath.Rel(dir, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		return filepath.ToSlash(rel)
	}
	return filepath.Base(absPath)
}

// OutputPath composes a source-relative path with outRoot, replacing the
// source extension with newExt (e.g. ".c", ".cpp", ".h") (§4.9).
func (r *Resolver) OutputPath(absPath, outRoot, newExt string) string {
	rel := r.RelativePath(absPath)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + newExt
	return filepath.Join(outRoot, filepath.FromSlash(rel))
}
