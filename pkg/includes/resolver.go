// Package includes implements the Include Resolver and Include Tree
// Walker of §4.3: building an ordered, deduplicated search path for a
// `#include` directive (own directory, caller directories, project
// include/src roots once a project-root marker is found, PlatformIO
// lib_extra_dirs, Arduino library folders), then resolving one include
// against it, and finally walking the transitive closure of a file's
// includes with cycle protection. Search-path construction follows the
// ordered, marker-driven walk of inspector/repository.Detector in the
// teacher; config.DetectProjectRoot/ParsePlatformIOIni supply the
// project- and PlatformIO-specific legs of the path.
package includes

import (
	"os"
	"path/filepath"

	"github.com/jlaustill/cnext/pkg/config"
)

// Resolver builds and consults an include search path for one project
// (§4.3).
type Resolver struct {
	searchPath []string
	seen       map[string]bool
}

// NewResolver constructs a Resolver for a file at entryPath: own
// directory, callerDirs (directories of files that #include this one,
// outermost first), and — if a project root is found — its include/ and
// src/ directories, any PlatformIO lib_extra_dirs, and any sibling
// Arduino library folders (§4.3).
func NewResolver(entryPath string, callerDirs []string) *Resolver {
	r := &Resolver{seen: map[string]bool{}}
	r.addDir(filepath.Dir(entryPath))
	for _, d := range callerDirs {
		r.addDir(d)
	}

	root, ok := config.DetectProjectRoot(entryPath)
	if !ok {
		return r
	}
	r.addDir(filepath.Join(root, "include"))
	r.addDir(filepath.Join(root, "src"))

	iniPath := filepath.Join(root, "platformio.ini")
	if envs, err := config.ParsePlatformIOIni(iniPath); err == nil {
		for _, env := range envs {
			for _, d := range config.ResolveLibExtraDirs(root, env) {
				r.addDir(d)
			}
		}
	}
	r.addArduinoLibraryDirs(root)
	return r
}

func (r *Resolver) addDir(dir string) {
	if dir == "" || r.seen[dir] {
		return
	}
	r.seen[dir] = true
	r.searchPath = append(r.searchPath, dir)
}

// addArduinoLibraryDirs probes the conventional Arduino library layout
// (root/lib/<name>/ and root/lib/<name>/src/), adding any that exist
// (§4.3).
func (r *Resolver) addArduinoLibraryDirs(root string) {
	libRoot := filepath.Join(root, "lib")
	entries, err := os.ReadDir(libRoot)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		libDir := filepath.Join(libRoot, e.Name())
		r.addDir(libDir)
		r.addDir(filepath.Join(libDir, "src"))
	}
}

// SearchPath returns the resolver's ordered, deduplicated search path.
func (r *Resolver) SearchPath() []string { return append([]string(nil), r.searchPath...) }

// Resolve finds the on-disk path for a `#include` directive's literal
// path text. A local (quoted) include not found relative to the first
// search-path entry (the including file's own directory) falls through
// the remaining entries the same way a system (angle-bracket) include
// does (§4.3) — the dialect has no separate system-header search root,
// since it targets bare-metal/embedded toolchains that supply their own.
func (r *Resolver) Resolve(includePath string, system bool) (string, bool) {
	if filepath.IsAbs(includePath) {
		if _, err := os.Stat(includePath); err == nil {
			return includePath, true
		}
		return "", false
	}
	for _, dir := range r.searchPath {
		candidate := filepath.Join(dir, includePath)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}
