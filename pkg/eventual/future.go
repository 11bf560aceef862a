package eventual

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Outcome is the settled state of a Future.
type Outcome[T any] struct {
	// Value is the resolved value. Zero when rejected.
	Value T

	// Reason is the rejection reason. It may be nil even when Rejected is
	// true, e.g. Reject(nil).
	Reason any

	// Rejected reports whether the future failed.
	Rejected bool
}

// RejectedError is returned by Await when a future was rejected with a
// reason that is not itself an error.
type RejectedError struct {
	Reason any
}

// Error implements the error interface.
func (e *RejectedError) Error() string {
	return fmt.Sprintf("eventual: rejected: %v", e.Reason)
}

// Err converts an outcome into Go's (value, error) convention. Error reasons
// are returned as they are; any other reason, nil included, is wrapped in a
// *RejectedError.
func (o Outcome[T]) Err() error {
	if !o.Rejected {
		return nil
	}
	if err, ok := o.Reason.(error); ok {
		return err
	}
	return &RejectedError{Reason: o.Reason}
}

// Future is a value that is available once an asynchronous operation
// settles. The zero value is not usable; create one with NewFuture.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	outcome   Outcome[T]
	settled   bool
	callbacks []func(Outcome[T])
}

// NewFuture returns an unsettled future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a future already resolved with value.
func Resolved[T any](value T) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(value)
	return f
}

// Rejected returns a future already rejected with reason.
func Rejected[T any](reason any) *Future[T] {
	f := NewFuture[T]()
	f.Reject(reason)
	return f
}

// Resolve settles the future with value. It returns false if the future had
// already settled, in which case nothing changes.
func (f *Future[T]) Resolve(value T) bool {
	return f.settle(Outcome[T]{Value: value})
}

// Reject settles the future as failed with reason. It returns false if the
// future had already settled.
func (f *Future[T]) Reject(reason any) bool {
	return f.settle(Outcome[T]{Reason: reason, Rejected: true})
}

func (f *Future[T]) settle(o Outcome[T]) bool {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return false
	}
	f.outcome = o
	f.settled = true
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		go cb(o)
	}
	return true
}

// Done returns a channel that is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the future has settled.
func (f *Future[T]) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled
}

// Outcome returns the settled outcome. ok is false while the future is
// still pending.
func (f *Future[T]) Outcome() (o Outcome[T], ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome, f.settled
}

// OnSettle registers fn to be called with the outcome once the future
// settles. fn always runs on its own goroutine, never on the caller's,
// even when the future has already settled.
func (f *Future[T]) OnSettle(fn func(Outcome[T])) {
	f.mu.Lock()
	if !f.settled {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	o := f.outcome
	f.mu.Unlock()

	go fn(o)
}

// Await blocks until the future settles or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		o, _ := f.Outcome()
		return o.Value, o.Err()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Go runs fn on a new goroutine and returns a future for its result. A
// non-nil error rejects the future with that error; a panic rejects it with
// the recovered value.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := NewFuture[T]()
	if fn == nil {
		f.Reject(ErrNilProducer)
		return f
	}
	go invokeErr(f, fn)
	return f
}

// ErrNilProducer is the rejection reason of a future built from a nil
// producer function.
var ErrNilProducer = errors.New("eventual: nil producer")

// invoke resolves f with fn's result, rejecting with the panic value if fn
// panics.
func invoke[T any](f *Future[T], fn func() T) {
	defer func() {
		if r := recover(); r != nil {
			f.Reject(r)
		}
	}()
	f.Resolve(fn())
}

func invokeErr[T any](f *Future[T], fn func() (T, error)) {
	defer func() {
		if r := recover(); r != nil {
			f.Reject(r)
		}
	}()
	v, err := fn()
	if err != nil {
		f.Reject(err)
		return
	}
	f.Resolve(v)
}
