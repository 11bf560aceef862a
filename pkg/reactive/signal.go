package reactive

import (
	"reflect"
	"sync"
)

// source is the dependency half of a signal: the listeners that read it and
// must hear about writes. It is untyped so effects can hold their sources in
// one slice.
type source struct {
	id uint64

	mu   sync.Mutex
	subs []Listener
}

// track subscribes the running listener, if any. Effects also record the
// source so they can drop or keep it on their next run.
func (s *source) track() {
	switch l := getCurrentListener().(type) {
	case nil:
	case *Effect:
		s.bind(l)
	default:
		s.add(l)
	}
}

// bind subscribes e and records s as one of its sources.
func (s *source) bind(e *Effect) {
	s.add(e)
	e.addSource(s)
}

func (s *source) add(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == id {
			return
		}
	}
	s.subs = append(s.subs, l)
}

func (s *source) remove(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == id {
			last := len(s.subs) - 1
			s.subs[i] = s.subs[last]
			s.subs[last] = nil
			s.subs = s.subs[:last]
			return
		}
	}
}

func (s *source) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// notify marks every subscriber dirty, or queues them when a batch is open.
// The lock is not held while listeners run.
func (s *source) notify() {
	s.mu.Lock()
	subs := append([]Listener(nil), s.subs...)
	s.mu.Unlock()

	if b := currentBatch(); b != nil {
		b.queue(subs)
		return
	}
	for _, l := range subs {
		l.MarkDirty()
	}
}

// Signal is a reactive value container.
// Get inside an effect subscribes the effect; Set and Update notify
// subscribers when the value actually changes.
type Signal[T any] struct {
	src source

	mu    sync.RWMutex
	value T

	// equal decides whether a write changed the value. nil means
	// defaultEquals.
	equal func(T, T) bool
}

// NewSignal creates a signal holding initial.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		src:   source{id: nextID()},
		value: initial,
	}
}

// Get returns the current value and subscribes the current listener.
func (s *Signal[T]) Get() T {
	value := s.Peek()
	s.src.track()
	return value
}

// Peek returns the current value without subscribing anyone.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores value and notifies subscribers if it differs from the
// current one.
func (s *Signal[T]) Set(value T) {
	s.write(func(T) T { return value })
}

// Update replaces the value with fn(current) under the write lock.
func (s *Signal[T]) Update(fn func(T) T) {
	s.write(fn)
}

func (s *Signal[T]) write(next func(T) T) {
	s.mu.Lock()
	prev := s.value
	value := next(prev)
	changed := !s.equals(prev, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.src.notify()
	}
}

// WithEquals replaces the change test used by Set and Update and returns
// the signal.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.src.id
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals compares scalar kinds with == and everything else with
// reflect.DeepEqual.
func defaultEquals[T any](a, b T) bool {
	switch reflect.ValueOf(&a).Elem().Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return any(a) == any(b)
	default:
		return reflect.DeepEqual(a, b)
	}
}

// SameValue reports whether a and b are the identical value: equal with ==
// when their dynamic type is comparable, never equal otherwise. Use it with
// WithEquals for interface-typed signals such as error, where two distinct
// values that happen to be DeepEqual must still notify.
func SameValue[T any](a, b T) bool {
	av, bv := any(a), any(b)
	if av == nil || bv == nil {
		return av == nil && bv == nil
	}
	ta := reflect.TypeOf(av)
	if ta != reflect.TypeOf(bv) || !ta.Comparable() {
		return false
	}
	return av == bv
}
