package environment

import "sort"

// symbol is the interned identity of a name.
type symbol uint32

type symbols struct {
	ids   map[string]symbol
	names []string
}

func newSymbols() symbols {
	return symbols{ids: make(map[string]symbol)}
}

func (s *symbols) intern(name string) symbol {
	if sym, ok := s.ids[name]; ok {
		return sym
	}
	sym := symbol(len(s.names))
	s.ids[name] = sym
	s.names = append(s.names, name)
	return sym
}

func (s *symbols) lookup(name string) (symbol, bool) {
	sym, ok := s.ids[name]
	return sym, ok
}

func (s *symbols) name(sym symbol) string {
	return s.names[sym]
}

type taintState uint8

const (
	taintClean taintState = iota
	// taintPending marks a computation in flight whose reads have not tainted it yet.
	taintPending
	taintTainted
)

type symbolSet map[symbol]struct{}

// graph is the dependency graph: children[p] holds every symbol whose last
// computation read p, parents is its exact reverse.
type graph struct {
	children map[symbol]symbolSet
	parents  map[symbol]symbolSet
	taint    map[symbol]taintState
}

func newGraph() graph {
	return graph{
		children: make(map[symbol]symbolSet),
		parents:  make(map[symbol]symbolSet),
		taint:    make(map[symbol]taintState),
	}
}

func (g *graph) link(parent, child symbol) {
	addTo(g.children, parent, child)
	addTo(g.parents, child, parent)
}

// dropParents forgets every edge into child. Called before child is recomputed
// so that its reads rebuild them.
func (g *graph) dropParents(child symbol) {
	for parent := range g.parents[child] {
		removeFrom(g.children, parent, child)
	}
	delete(g.parents, child)
}

// takeChildren forgets every edge out of parent and returns the former children.
func (g *graph) takeChildren(parent symbol) []symbol {
	kids := g.children[parent]
	if len(kids) == 0 {
		return nil
	}
	out := make([]symbol, 0, len(kids))
	for child := range kids {
		removeFrom(g.parents, child, parent)
		out = append(out, child)
	}
	delete(g.children, parent)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (g *graph) setTaint(sym symbol, state taintState) {
	if state == taintClean {
		delete(g.taint, sym)
		return
	}
	g.taint[sym] = state
}

func (g *graph) tainted(sym symbol) bool {
	return g.taint[sym] == taintTainted
}

func (g *graph) reset() {
	clear(g.children)
	clear(g.parents)
	clear(g.taint)
}

func addTo(m map[symbol]symbolSet, k, v symbol) {
	set, ok := m[k]
	if !ok {
		set = make(symbolSet)
		m[k] = set
	}
	set[v] = struct{}{}
}

func removeFrom(m map[symbol]symbolSet, k, v symbol) {
	set, ok := m[k]
	if !ok {
		return
	}
	delete(set, v)
	if len(set) == 0 {
		delete(m, k)
	}
}
