package pipeline

import (
	"github.com/jlaustill/cnext/pkg/discovery"
	"github.com/jlaustill/cnext/pkg/includes"
)

// topologicalOrder sorts discovered files leaves-first over the include
// graph (§4.8 step 2): a file with no un-ordered local includes emits
// before anything that includes it. Cycles are admitted — the walker's
// visited-set protection already breaks them — and simply fall back to
// discovery order for whichever member of the cycle is reached first,
// since the generated C's own header guards make emission order within
// a cycle harmless.
func topologicalOrder(files []discovery.File, read includes.ReadFunc) ([]string, error) {
	w := includes.NewWalker(read)

	deps := make(map[string][]string, len(files))
	known := make(map[string]bool, len(files))
	for _, f := range files {
		known[f.AbsPath] = true
	}
	for _, f := range files {
		closure, err := w.Closure(f.AbsPath)
		if err != nil {
			return nil, err
		}
		var local []string
		for _, dep := range closure {
			if known[dep] && dep != f.AbsPath {
				local = append(local, dep)
			}
		}
		deps[f.AbsPath] = local
	}

	var order []string
	visited := map[string]bool{}
	inStack := map[string]bool{}

	var visit func(path string)
	visit = func(path string) {
		if visited[path] || inStack[path] {
			return
		}
		inStack[path] = true
		for _, dep := range deps[path] {
			visit(dep)
		}
		inStack[path] = false
		if !visited[path] {
			visited[path] = true
			order = append(order, path)
		}
	}

	for _, f := range files {
		visit(f.AbsPath)
	}
	return order, nil
}
