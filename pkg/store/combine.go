package store

// Combined is the store produced by Combine. Its state maps each component
// key to that component's state and its actions map the same keys to the
// component's actions.
type Combined = Store[map[string]any, map[string]any]

// Combine merges named stores into one. The state and actions stored under a
// key always come from the same input store.
//
// Composition is shallow: a combined store given as input ends up as a
// single slot, not flattened into its components. Inputs are not validated
// and a nil entry yields nil state and actions under its key.
func Combine(stores map[string]AnyStore) *Combined {
	state := make(map[string]any, len(stores))
	actions := make(map[string]any, len(stores))

	for key, s := range stores {
		if s == nil {
			state[key], actions[key] = nil, nil
			continue
		}
		state[key], actions[key] = s.Pair()
	}

	return New(state, actions)
}

// Field returns m[key] as a T. The second result is false when the key is
// missing or holds a value of another type.
//
//	counter, ok := store.Field[*CounterState](app.State(), "counter")
func Field[T any](m map[string]any, key string) (T, bool) {
	v, ok := m[key].(T)
	return v, ok
}
