package eventual

import "time"

// AfterFunc schedules fn to run once d has elapsed. Tests override it to
// drive timers deterministically.
var AfterFunc = func(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Delay returns a future that resolves with value once d has elapsed.
// When d <= 0 the future is resolved before Delay returns.
func Delay[T any](value T, d time.Duration) *Future[T] {
	return schedule(d, func(f *Future[T]) {
		f.Resolve(value)
	})
}

// DelayFunc returns a future that, once d has elapsed, calls fn and
// resolves with its result. If fn panics the future is rejected with the
// panic value. When d <= 0, fn is called before DelayFunc returns, on the
// caller's goroutine, instead of being queued behind a timer.
func DelayFunc[T any](fn func() T, d time.Duration) *Future[T] {
	if fn == nil {
		return Rejected[T](ErrNilProducer)
	}
	return schedule(d, func(f *Future[T]) {
		invoke(f, fn)
	})
}

// DelayErr is DelayFunc for producers that report failure with an error:
// a non-nil error rejects the future with that error.
func DelayErr[T any](fn func() (T, error), d time.Duration) *Future[T] {
	if fn == nil {
		return Rejected[T](ErrNilProducer)
	}
	return schedule(d, func(f *Future[T]) {
		invokeErr(f, fn)
	})
}

func schedule[T any](d time.Duration, action func(*Future[T])) *Future[T] {
	f := NewFuture[T]()
	if d > 0 {
		AfterFunc(d, func() { action(f) })
	} else {
		action(f)
	}
	return f
}
