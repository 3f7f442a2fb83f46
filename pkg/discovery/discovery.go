// Package discovery implements File Discovery (§6.4): recursively
// walking a source tree, classifying files by extension, and skipping a
// fixed ignore list, grounded directly on
// inspector/repository.ReadAssetsRecursively's directory-walk shape in
// the teacher (its Go-file-skip logic generalizes here to
// source-vs-ignored classification rather than Go-vs-asset).
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourceExt is the dialect's source file extension (§6.4).
const SourceExt = ".cnx"

// ignoredDirs are never descended into, matching common VCS/build-output
// conventions the teacher's own repo layout follows.
var ignoredDirs = map[string]bool{
	".git": true, "node_modules": true, ".pio": true, "build": true, "out": true,
}

// File is one discovered source file (§6.4).
type File struct {
	AbsPath string
	RelPath string // relative to the root passed to Discover
}

// Discover walks root recursively and returns every *.cnx file found,
// skipping ignoredDirs, in deterministic (depth-first, lexical) order.
func Discover(root string) ([]File, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return walkDir(absRoot, absRoot)
}

func walkDir(root, dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	var files []File
	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)
		if entry.IsDir() {
			if ignoredDirs[name] || strings.HasPrefix(name, ".") {
				continue
			}
			sub, err := walkDir(root, full)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
			continue
		}
		if strings.HasSuffix(name, SourceExt) {
			rel, err := filepath.Rel(root, full)
			if err != nil {
				rel = name
			}
			files = append(files, File{AbsPath: full, RelPath: filepath.ToSlash(rel)})
		}
	}
	return files, nil
}
