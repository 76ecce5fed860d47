package environment

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/on-the-ground/memo_ive_go/value"
	"go.uber.org/zap"
)

// Stats counts what an Environment did since it was created.
type Stats struct {
	Resolves      uint64 // calls to Resolve that were not cycles
	Hits          uint64 // resolves served from the cache
	Recomputes    uint64 // computation bodies run
	Invalidations uint64 // cached entries dropped by a cascade or Invalidate
	Writes        uint64 // writes that stored a new value
	SkippedWrites uint64 // writes of a value equal to the cached one
}

// Environment maps names to cached values and tracks which names were computed
// from which. It is not safe for concurrent use.
type Environment struct {
	id     string
	logger *zap.Logger
	// inputs holds written names, store the results of computations. Inputs
	// cannot be recomputed, so they never live in a store that may evict.
	inputs *MapStore
	store  Store

	syms  symbols
	graph graph

	// stack holds the computations being resolved, innermost last.
	stack  []symbol
	active symbolSet

	stats Stats
}

type Option func(*Environment)

// WithLogger sets the logger used for recompute, invalidation and cycle records.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Environment) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStore replaces the default map-backed store for computation results.
// Written names stay in the Environment.
func WithStore(store Store) Option {
	return func(e *Environment) {
		if store != nil {
			e.store = store
		}
	}
}

// WithID overrides the random identifier attached to log records.
func WithID(id string) Option {
	return func(e *Environment) {
		e.id = id
	}
}

func New(opts ...Option) *Environment {
	e := &Environment{
		id:     uuid.New().String(),
		logger: zap.NewNop(),
		inputs: NewMapStore(),
		store:  NewMapStore(),
		syms:   newSymbols(),
		graph:  newGraph(),
		active: make(symbolSet),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.String("env", e.id))
	return e
}

func (e *Environment) ID() string { return e.id }

func (e *Environment) Stats() Stats { return e.stats }

// Store exposes the store of computation results for inspection. Mutating it
// directly bypasses invalidation.
func (e *Environment) Store() Store { return e.store }

// Read returns the cached value of name. When called from inside a computation,
// that computation is recorded as depending on name, and inherits its taint.
func (e *Environment) Read(name string) (value.Value, bool) {
	sym := e.syms.intern(name)
	e.noteRead(sym)
	return e.load(name)
}

// Write stores v under name. If name already holds an equal value nothing
// happens; otherwise every transitive dependent of name is invalidated first.
func (e *Environment) Write(name string, v value.Value) {
	e.write(e.syms.intern(name), name, v, e.inputs)
}

// Invalidate drops name and all of its transitive dependents from the cache.
func (e *Environment) Invalidate(name string) {
	sym, ok := e.syms.lookup(name)
	if !ok {
		e.inputs.Delete(name)
		e.store.Delete(name)
		return
	}
	e.invalidate(sym, make(symbolSet))
}

// Resolve returns the value of c, computing it only when there is no usable
// cached result.
func (e *Environment) Resolve(c Computation) (value.Value, error) {
	key := c.Key()
	sym := e.syms.intern(key)

	if _, busy := e.active[sym]; busy {
		err := &CycleError{Key: key, Chain: e.chainFrom(sym)}
		e.logger.Error("computation cycle", zap.String("key", key), zap.Strings("chain", err.Chain))
		return nil, err
	}
	e.stats.Resolves++

	if c.IsRandom() {
		e.graph.setTaint(sym, taintTainted)
	}
	if !e.graph.tainted(sym) {
		if v, ok := e.store.Load(key); ok {
			e.stats.Hits++
			e.noteRead(sym)
			return v, nil
		}
	}

	v, err := e.recompute(sym, c)
	if err != nil {
		return nil, err
	}
	e.write(sym, key, v, e.store)
	e.noteRead(sym)
	return v, nil
}

// Clear forgets every cached value, dependency edge and taint.
// It must not be called from inside a computation.
func (e *Environment) Clear() {
	if len(e.stack) != 0 {
		panic(fmt.Errorf("%w: Clear called while %v are in progress", ErrStackMismatch, e.stackNames()))
	}
	e.inputs.Clear()
	e.store.Clear()
	e.graph.reset()
}

// Cached reports whether name currently holds a value.
func (e *Environment) Cached(name string) bool {
	_, ok := e.load(name)
	return ok
}

// Tainted reports whether name is known to be non-cacheable.
func (e *Environment) Tainted(name string) bool {
	sym, ok := e.syms.lookup(name)
	return ok && e.graph.tainted(sym)
}

// Dependents returns, sorted, the names whose last computation read name.
func (e *Environment) Dependents(name string) []string {
	sym, ok := e.syms.lookup(name)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(e.graph.children[sym]))
	for child := range e.graph.children[sym] {
		out = append(out, e.syms.name(child))
	}
	sort.Strings(out)
	return out
}

func (e *Environment) recompute(sym symbol, c Computation) (value.Value, error) {
	e.stats.Recomputes++
	if ce := e.logger.Check(zap.DebugLevel, "recompute"); ce != nil {
		ce.Write(zap.String("key", c.Key()), zap.Int("depth", len(e.stack)), zap.Bool("random", c.IsRandom()))
	}

	e.graph.dropParents(sym)
	if !c.IsRandom() {
		e.graph.setTaint(sym, taintPending)
	}

	defer e.push(sym)()

	v, err := c.Compute(e)
	if err != nil {
		return nil, fmt.Errorf("computing %q: %w", c.Key(), err)
	}
	return v, nil
}

// push marks sym in progress and returns the matching pop, so that every exit
// path of a computation, panics included, releases it.
func (e *Environment) push(sym symbol) func() {
	e.stack = append(e.stack, sym)
	e.active[sym] = struct{}{}
	return func() { e.pop(sym) }
}

func (e *Environment) pop(sym symbol) {
	n := len(e.stack)
	if n == 0 || e.stack[n-1] != sym {
		panic(fmt.Errorf("%w: expected %q on top of %v", ErrStackMismatch, e.syms.name(sym), e.stackNames()))
	}
	e.stack = e.stack[:n-1]
	delete(e.active, sym)
	if e.graph.taint[sym] == taintPending {
		e.graph.setTaint(sym, taintClean)
	}
}

func (e *Environment) top() (symbol, bool) {
	if len(e.stack) == 0 {
		return 0, false
	}
	return e.stack[len(e.stack)-1], true
}

func (e *Environment) noteRead(sym symbol) {
	top, ok := e.top()
	if !ok || top == sym {
		return
	}
	e.graph.link(sym, top)
	if e.graph.tainted(sym) {
		e.graph.setTaint(top, taintTainted)
	}
}

func (e *Environment) load(name string) (value.Value, bool) {
	if v, ok := e.inputs.Load(name); ok {
		return v, true
	}
	return e.store.Load(name)
}

func (e *Environment) write(sym symbol, name string, v value.Value, target Store) {
	if old, ok := target.Load(name); ok && value.Equal(old, v) {
		e.stats.SkippedWrites++
		return
	}
	visited := symbolSet{sym: {}}
	for _, child := range e.graph.takeChildren(sym) {
		e.invalidate(child, visited)
	}
	target.Store(name, v)
	e.stats.Writes++
}

func (e *Environment) invalidate(sym symbol, visited symbolSet) {
	if _, seen := visited[sym]; seen {
		return
	}
	visited[sym] = struct{}{}

	name := e.syms.name(sym)
	if ce := e.logger.Check(zap.DebugLevel, "invalidate"); ce != nil {
		ce.Write(zap.String("name", name))
	}
	e.inputs.Delete(name)
	e.store.Delete(name)
	e.stats.Invalidations++
	for _, child := range e.graph.takeChildren(sym) {
		e.invalidate(child, visited)
	}
}

func (e *Environment) chainFrom(sym symbol) []string {
	start := 0
	for i, s := range e.stack {
		if s == sym {
			start = i
			break
		}
	}
	chain := make([]string, 0, len(e.stack)-start+1)
	for _, s := range e.stack[start:] {
		chain = append(chain, e.syms.name(s))
	}
	return append(chain, e.syms.name(sym))
}

func (e *Environment) stackNames() []string {
	out := make([]string, len(e.stack))
	for i, s := range e.stack {
		out[i] = e.syms.name(s)
	}
	return out
}
