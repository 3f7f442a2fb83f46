package symbols

import "github.com/jlaustill/cnext/pkg/ast"

// State is the Transpiler State of §3/§5: the project-wide accumulator
// keyed by absolute file path, reset between independent runs of the
// Pipeline so a long-lived process (e.g. a watch-mode CLI) never leaks
// symbols from a previous run (§5's stated invariant). This generalizes
// inspector/graph.Project's path-keyed file map in the teacher.
type State struct {
	Files map[string]*ast.File

	// Project is the merged Symbol Store across every file collected so
	// far in this run (§4.4: "scope and struct/enum/bitmap/register names
	// are visible project-wide, not just within their declaring file").
	Project *Store

	// Facts merges per-function FuncFacts across files, keyed the same
	// way as Project.Functions.
	Facts map[string]*FuncFacts

	order []string       // absolute file paths, in the order first seen
	seen  map[string]bool
}

// NewState creates an empty, ready-to-use State.
func NewState() *State {
	return &State{
		Files:   map[string]*ast.File{},
		Project: NewStore(),
		Facts:   map[string]*FuncFacts{},
		seen:    map[string]bool{},
	}
}

// Reset clears all accumulated state in place, so the same *State value
// can be reused across Pipeline runs without reallocating (§5).
func (s *State) Reset() {
	s.Files = map[string]*ast.File{}
	s.Project = NewStore()
	s.Facts = map[string]*FuncFacts{}
	s.order = nil
	s.seen = map[string]bool{}
}

// AddFile records a parsed file's AST and merges its collected symbols
// into the project-wide store.
func (s *State) AddFile(absPath string, f *ast.File) *Collector {
	s.Files[absPath] = f
	if !s.seen[absPath] {
		s.seen[absPath] = true
		s.order = append(s.order, absPath)
	}
	c := NewCollector(s.Project)
	c.Facts = s.Facts
	c.Collect(f)
	return c
}

// FileOrder returns file paths in the order they were added.
func (s *State) FileOrder() []string { return append([]string(nil), s.order...) }
