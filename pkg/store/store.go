package store

// AnyStore is implemented by every store regardless of its state and
// action types. Only values built by New or Combine implement it.
type AnyStore interface {
	// Pair returns the state and action containers.
	Pair() (state, actions any)

	isStore() bool
}

// Store pairs a state container with an action container. Both are fixed
// at construction.
type Store[S, A any] struct {
	state   S
	actions A
}

// New creates a store. It performs no validation.
func New[S, A any](state S, actions A) *Store[S, A] {
	return &Store[S, A]{state: state, actions: actions}
}

// State returns the state container.
func (s *Store[S, A]) State() S {
	state, _ := s.Unpack()
	return state
}

// Actions returns the action container.
func (s *Store[S, A]) Actions() A {
	_, actions := s.Unpack()
	return actions
}

// Unpack returns state and actions. A nil store yields zero values.
func (s *Store[S, A]) Unpack() (S, A) {
	if s == nil {
		var (
			state   S
			actions A
		)
		return state, actions
	}
	return s.state, s.actions
}

// Pair implements AnyStore.
func (s *Store[S, A]) Pair() (state, actions any) {
	if s == nil {
		return nil, nil
	}
	return s.state, s.actions
}

func (s *Store[S, A]) isStore() bool {
	return s != nil
}

// IsStore reports whether x is a store created by New or Combine.
// Anything else, including a two-element slice or a nil *Store, is not.
func IsStore(x any) bool {
	s, ok := x.(AnyStore)
	return ok && s.isStore()
}
