package includes

import (
	"fmt"
	"path/filepath"

	"github.com/jlaustill/cnext/pkg/ast"
)

// ReadFunc reads and parses one file by absolute path, returning its
// parse tree's #include directives. The Pipeline supplies the real
// lexer/parser-backed implementation; tests supply a fake in-memory one.
type ReadFunc func(absPath string) (*ast.File, error)

// Walker computes the transitive closure of a file's #include graph
// (§4.3), visiting each file at most once via a visited-set depth-first
// search — the standard cycle-protected traversal, applied here to
// `#include "a.cnx"` cycles instead of a module/import graph.
type Walker struct {
	read ReadFunc
}

// NewWalker creates a Walker backed by read.
func NewWalker(read ReadFunc) *Walker { return &Walker{read: read} }

// Closure returns every file transitively included from entryAbsPath, in
// first-discovered (pre-order) order, not including entryAbsPath itself.
// A cycle (A includes B includes A) is silently broken at the repeat
// visit rather than erroring, since the generated C's own #include
// guards make such a cycle harmless once headers are involved. The
// returned order lists each file once, so a broken cycle is not visible
// in it.
func (w *Walker) Closure(entryAbsPath string) ([]string, error) {
	visited := map[string]bool{entryAbsPath: true}
	var order []string
	if err := w.visit(entryAbsPath, visited, &order); err != nil {
		return nil, err
	}
	return order, nil
}

func (w *Walker) visit(absPath string, visited map[string]bool, order *[]string) error {
	f, err := w.read(absPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", absPath, err)
	}
	dir := filepath.Dir(absPath)
	resolver := NewResolver(absPath, nil)
	for _, inc := range f.Includes {
		resolved, ok := resolver.Resolve(inc.Path, inc.System)
		if !ok {
			resolved = filepath.Join(dir, inc.Path)
		}
		if visited[resolved] {
			continue
		}
		visited[resolved] = true
		*order = append(*order, resolved)
		if err := w.visit(resolved, visited, order); err != nil {
			return err
		}
	}
	return nil
}
