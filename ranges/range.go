// Package ranges provides restartable value sequences bound to a variable name.
// Each step writes the next value into an Environment and notifies listeners.
package ranges

import (
	"fmt"
	"iter"
	"slices"

	"github.com/on-the-ground/memo_ive_go/environment"
	"github.com/on-the-ground/memo_ive_go/value"
)

// Listener observes every value a range writes.
type Listener func(name string, v value.Value)

// Range drives one level of a nested evaluation.
type Range interface {
	Name() string
	// Initialize rewinds the range. It may be called any number of times.
	Initialize()
	HasNext() bool
	// Advance writes the next value under Name and notifies listeners.
	Advance(env *environment.Environment)
	// Close releases the underlying iterator before it is exhausted.
	Close()
}

var _ Range = (*Sequence)(nil)

// Sequence is a Range over a restartable iter.Seq.
type Sequence struct {
	name      string
	source    func() iter.Seq[value.Value]
	listeners []Listener

	next   func() (value.Value, bool)
	stop   func()
	peeked value.Value
	ready  bool
}

// FromSeq returns a range that calls source on every Initialize.
func FromSeq(name string, source func() iter.Seq[value.Value]) *Sequence {
	return &Sequence{name: name, source: source}
}

// Over returns a range over a fixed list of values.
func Over(name string, values ...value.Value) *Sequence {
	values = slices.Clone(values)
	return FromSeq(name, func() iter.Seq[value.Value] {
		return slices.Values(values)
	})
}

// Arithmetic returns the integers start, start+step, ... up to and including stop.
// It panics if step is zero.
func Arithmetic(name string, start, stop, step int) *Sequence {
	if step == 0 {
		panic(fmt.Sprintf("range %q: step cannot be 0", name))
	}
	return FromSeq(name, func() iter.Seq[value.Value] {
		return func(yield func(value.Value) bool) {
			for i := start; (step > 0 && i <= stop) || (step < 0 && i >= stop); i += step {
				if !yield(i) || !hasStep(i, stop, step) {
					return
				}
			}
		}
	})
}

// hasStep reports whether i+step stays within stop. The distance is taken in
// uint so that neither it nor the addition can overflow.
func hasStep(i, stop, step int) bool {
	if step > 0 {
		return uint(stop-i) >= uint(step)
	}
	return uint(i-stop) >= uint(-step)
}

// Geometric returns the integers start, start*factor, ... up to and including stop.
// It panics unless start > 0 and factor > 1.
func Geometric(name string, start, stop, factor int) *Sequence {
	if start <= 0 || factor <= 1 {
		panic(fmt.Sprintf("range %q: geometric progression needs start > 0 and factor > 1", name))
	}
	return FromSeq(name, func() iter.Seq[value.Value] {
		return func(yield func(value.Value) bool) {
			for i := start; i <= stop; i *= factor {
				if !yield(i) || i > stop/factor {
					return
				}
			}
		}
	})
}

func (s *Sequence) Name() string { return s.name }

// Listen registers fn to be called after every Advance.
func (s *Sequence) Listen(fn Listener) {
	s.listeners = append(s.listeners, fn)
}

func (s *Sequence) Initialize() {
	s.Close()
	s.next, s.stop = iter.Pull(s.source())
}

func (s *Sequence) HasNext() bool {
	if s.ready {
		return true
	}
	if s.next == nil {
		return false
	}
	v, ok := s.next()
	if !ok {
		s.Close()
		return false
	}
	s.peeked, s.ready = v, true
	return true
}

// Advance panics when the range is exhausted or was never initialized.
func (s *Sequence) Advance(env *environment.Environment) {
	if !s.HasNext() {
		panic(fmt.Sprintf("range %q advanced past its end", s.name))
	}
	v := s.peeked
	s.peeked, s.ready = nil, false

	env.Write(s.name, v)
	for _, fn := range s.listeners {
		fn(s.name, v)
	}
}

func (s *Sequence) Close() {
	if s.stop != nil {
		s.stop()
	}
	s.next, s.stop = nil, nil
	s.peeked, s.ready = nil, false
}
