package environment

import "github.com/on-the-ground/memo_ive_go/value"

// Store holds the cached computation results of an Environment. Written names
// are kept by the Environment itself.
//
// A Store may forget entries on its own (bounded caches do); the Environment
// treats a forgotten entry as a miss and recomputes it. It must never return a
// value that was deleted.
type Store interface {
	Load(name string) (value.Value, bool)
	Store(name string, v value.Value)
	Delete(name string)
	Clear()
}

// Sizer is implemented by stores that can count their entries.
type Sizer interface {
	Len() int
}

var (
	_ Store = (*MapStore)(nil)
	_ Sizer = (*MapStore)(nil)
)

// MapStore is the default, unbounded Store.
type MapStore struct {
	m map[string]value.Value
}

func NewMapStore() *MapStore {
	return &MapStore{m: make(map[string]value.Value)}
}

func (s *MapStore) Load(name string) (value.Value, bool) {
	v, ok := s.m[name]
	return v, ok
}

func (s *MapStore) Store(name string, v value.Value) {
	s.m[name] = v
}

func (s *MapStore) Delete(name string) {
	delete(s.m, name)
}

func (s *MapStore) Clear() {
	clear(s.m)
}

func (s *MapStore) Len() int {
	return len(s.m)
}
