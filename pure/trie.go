package pure

// Trie maps key tuples to values. It keeps two generations: once the head
// generation holds maxSize entries it becomes the old one, the previous old
// generation is dropped, and a fresh head starts. Lookups try the head first.
//
// Trie is not safe for concurrent use.
type Trie[O any] struct {
	gens    [2]*trieNode[O]
	head    int
	size    uint32
	maxSize uint32
}

type trieNode[O any] struct {
	children map[any]*trieNode[O]
	value    O
	set      bool
}

func NewTrie[O any](maxSize uint32) *Trie[O] {
	if maxSize == 0 {
		panic("maxSize should be greater than 0")
	}
	return &Trie[O]{
		gens:    [2]*trieNode[O]{{}, {}},
		maxSize: maxSize,
	}
}

// Load returns the value stored under keys in either generation.
// It panics on an empty key tuple.
func (t *Trie[O]) Load(keys []any) (O, bool) {
	if len(keys) == 0 {
		panic("trie: empty keys")
	}
	if n := t.gens[t.head].find(keys); n != nil && n.set {
		return n.value, true
	}
	if n := t.gens[1-t.head].find(keys); n != nil && n.set {
		return n.value, true
	}
	var zero O
	return zero, false
}

// Store puts value under keys in the head generation, rotating first if the
// head is full. It panics on an empty key tuple.
func (t *Trie[O]) Store(keys []any, value O) {
	if len(keys) == 0 {
		panic("trie: empty keys")
	}
	if t.size >= t.maxSize {
		t.head = 1 - t.head
		t.gens[t.head] = &trieNode[O]{}
		t.size = 0
	}
	n := t.gens[t.head].walk(keys)
	if !n.set {
		t.size++
	}
	n.value, n.set = value, true
}

// Len returns the number of entries in the head generation.
func (t *Trie[O]) Len() int { return int(t.size) }

func (n *trieNode[O]) find(keys []any) *trieNode[O] {
	for _, k := range keys {
		next, ok := n.children[k]
		if !ok {
			return nil
		}
		n = next
	}
	return n
}

func (n *trieNode[O]) walk(keys []any) *trieNode[O] {
	for _, k := range keys {
		if n.children == nil {
			n.children = make(map[any]*trieNode[O])
		}
		next, ok := n.children[k]
		if !ok {
			next = &trieNode[O]{}
			n.children[k] = next
		}
		n = next
	}
	return n
}
