package cur

// Dgraph is the dependency graph of nominal (struct/enum) types
// discovered while the semantic analyser walks struct field types. It
// is consulted by the code generator to emit struct/enum definitions
// in post-order, so a struct's full definition always follows the
// full definitions of every other nominal type it contains by value
// (spec.md §3/§4.3/§4.4). The walk discipline (visited-set guarding a
// recursive descent) is the same one the teacher uses for cycle-safe
// import graphs in query_analysis.go's computeImportErrorsRecursive,
// adapted here from import cycles to struct value-field cycles.
type Dgraph struct {
	nodes map[string]*Dnode
	order []string // insertion order, used to make iteration deterministic
}

// Dnode is one nominal type's entry in the graph: the declaring
// Stmnt and the set of other nominal type names it references.
type Dnode struct {
	Name     string
	Owner    StmntID
	ByValue  map[string]struct{} // referenced through a plain field (counts toward cycles)
	ByRef    map[string]struct{} // referenced only through Option/Ptr (forward-decl only)
}

func NewDgraph() *Dgraph {
	return &Dgraph{nodes: map[string]*Dnode{}}
}

func (g *Dgraph) node(name string) *Dnode {
	n, ok := g.nodes[name]
	if !ok {
		n = &Dnode{Name: name, ByValue: map[string]struct{}{}, ByRef: map[string]struct{}{}}
		g.nodes[name] = n
		g.order = append(g.order, name)
	}
	return n
}

// Declare registers a struct/enum declaration so later lookups (e.g.
// AddEdge from an unrelated type) can find it even before its fields
// are walked.
func (g *Dgraph) Declare(name string, owner StmntID) {
	n := g.node(name)
	n.Owner = owner
}

// AddValueEdge records that `from` contains a field of type `to`
// directly (not through Option/Ptr). Such edges participate in cycle
// detection, per spec.md §4.3: "A struct may reference another
// nominal type through Option or Ptr — that still adds a dgraph edge
// ... but does not count as a value-cycle."
func (g *Dgraph) AddValueEdge(from, to string) {
	g.node(from).ByValue[to] = struct{}{}
}

// AddRefEdge records a reference reachable only through Option/Ptr:
// it still orders forward declarations, but never closes a cycle.
func (g *Dgraph) AddRefEdge(from, to string) {
	g.node(from).ByRef[to] = struct{}{}
}

// FindCycle returns the name of a nominal type transitively containing
// itself by value, or "" if the graph is acyclic along ByValue edges.
func (g *Dgraph) FindCycle() string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(g.nodes))

	var walk func(name string) bool
	walk = func(name string) bool {
		switch state[name] {
		case visiting:
			return true
		case done:
			return false
		}
		state[name] = visiting
		n := g.nodes[name]
		if n != nil {
			for dep := range n.ByValue {
				if walk(dep) {
					return true
				}
			}
		}
		state[name] = done
		return false
	}

	for _, name := range g.order {
		if walk(name) {
			return name
		}
	}
	return ""
}

// PostOrder returns every nominal type name such that each name
// appears after all of its ByValue and ByRef dependencies, visiting
// nodes in declaration order for determinism (spec.md §8's idempotence
// property).
func (g *Dgraph) PostOrder() []string {
	visited := make(map[string]bool, len(g.nodes))
	var order []string

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		n := g.nodes[name]
		if n != nil {
			deps := make([]string, 0, len(n.ByValue)+len(n.ByRef))
			deps = append(deps, sortedKeys(n.ByValue)...)
			deps = append(deps, sortedKeys(n.ByRef)...)
			for _, dep := range deps {
				if _, ok := g.nodes[dep]; ok {
					visit(dep)
				}
			}
		}
		order = append(order, name)
	}
	for _, name := range g.order {
		visit(name)
	}
	return order
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// simple insertion sort: these sets are small (field counts per struct)
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
