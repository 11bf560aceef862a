// Package eventual provides Future, a value that becomes available once an
// asynchronous operation settles, and timer-driven helpers that produce one.
//
// A Future settles exactly once, either resolved with a value or rejected
// with a reason. Reasons are arbitrary values (a returned error, a recovered
// panic value, anything passed to Reject) so that consumers can decide how
// to interpret them; Await turns them back into an error.
//
// Usage:
//
//	f := eventual.DelayFunc(func() int { return 42 }, 5*time.Millisecond)
//	v, err := f.Await(ctx)
//
// The package does not depend on the reactive engine.
package eventual
