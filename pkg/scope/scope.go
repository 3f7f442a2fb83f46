// Package scope implements the Scope data model of §3 as an arena of
// nodes addressed by index, per §9's design note: "a self-referential
// global sentinel is awkward under strict ownership... represent the tree
// as an arena of nodes with parent indices; the global scope uses the
// reserved sentinel index." This generalizes the ID/ParentID shape of the
// teacher's analyzer/linage.Scope into index form.
package scope

// Index addresses a Node within a Graph. GlobalIndex is the reserved
// sentinel for the top-level global scope, which is its own parent
// (§3's stated invariant).
type Index int

const GlobalIndex Index = 0

// Node is a named, hierarchical container of declarations (§3).
type Node struct {
	Name      string // empty string for the global scope
	Parent    Index
	Functions []string // ordered function symbol names owned by this scope
	Variables []string // ordered variable symbol names owned by this scope
}

// Graph is the arena of all scopes in one translation unit or merged
// project. Index 0 is always the global scope.
type Graph struct {
	nodes []Node
	byName map[string]Index
}

// NewGraph creates a Graph seeded with the global scope at GlobalIndex.
func NewGraph() *Graph {
	g := &Graph{byName: map[string]Index{}}
	g.nodes = append(g.nodes, Node{Name: "", Parent: GlobalIndex})
	g.byName[""] = GlobalIndex
	return g
}

// Declare creates (or returns the existing) child scope of parent named
// name. Scopes in this dialect are not nested (§6.1's scopeDeclaration is
// a top-level production), so parent is always GlobalIndex in practice,
// but the arena supports nesting for forward compatibility with §9's
// "strict ancestor chain ending at the global scope" invariant.
func (g *Graph) Declare(parent Index, name string) Index {
	if idx, ok := g.byName[name]; ok {
		return idx
	}
	idx := Index(len(g.nodes))
	g.nodes = append(g.nodes, Node{Name: name, Parent: parent})
	g.byName[name] = idx
	return idx
}

// Lookup resolves a scope by its bare name ("" for global).
func (g *Graph) Lookup(name string) (Index, bool) {
	idx, ok := g.byName[name]
	return idx, ok
}

func (g *Graph) Node(idx Index) *Node { return &g.nodes[idx] }

// AddFunction records a function symbol as owned by scope idx.
func (g *Graph) AddFunction(idx Index, name string) {
	g.nodes[idx].Functions = append(g.nodes[idx].Functions, name)
}

// AddVariable records a variable symbol as owned by scope idx.
func (g *Graph) AddVariable(idx Index, name string) {
	g.nodes[idx].Variables = append(g.nodes[idx].Variables, name)
}

// Chain returns the scope-name chain from the global scope down to idx,
// excluding the empty global name, in root-to-leaf order.
func (g *Graph) Chain(idx Index) []string {
	var names []string
	cur := idx
	for cur != GlobalIndex {
		n := g.nodes[cur]
		names = append([]string{n.Name}, names...)
		cur = n.Parent
	}
	return names
}

// Mangle computes the C-mangled name of a symbol in scope idx: the scope
// chain joined by "_" with the bare symbol name appended (§3).
func (g *Graph) Mangle(idx Index, bareName string) string {
	chain := g.Chain(idx)
	if len(chain) == 0 {
		return bareName
	}
	out := ""
	for _, c := range chain {
		out += c + "_"
	}
	return out + bareName
}

// Prefix computes the scope-mangled C prefix for scope idx (empty at file
// scope, §4.7's register lowering).
func (g *Graph) Prefix(idx Index) string {
	chain := g.Chain(idx)
	out := ""
	for _, c := range chain {
		out += c + "_"
	}
	return out
}
