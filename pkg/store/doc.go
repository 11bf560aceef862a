// Package store organizes application state as stores: a state container
// paired with the actions that operate on it.
//
// Stores are built with New and merged into larger aggregates with Combine:
//
//	counter := store.New(counterState, counterActions)
//	todos := store.New(todoState, todoActions)
//	app := store.Combine(map[string]store.AnyStore{
//	    "counter": counter,
//	    "todos":   todos,
//	})
//
// The containers themselves are opaque to this package. Mutation is left to
// the reactive engine, typically by holding *reactive.Signal fields in the
// state.
//
// A store is handed down a component tree through a Context. There is no
// process-wide default store: the application creates the Context and passes
// it where it is needed.
package store
