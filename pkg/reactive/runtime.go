package reactive

import (
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// DefaultQueueSize is the dispatch queue capacity used when none is configured.
const DefaultQueueSize = 256

// maxEffectPasses bounds how many times effects are flushed after a single
// callback. Effects that keep dirtying each other beyond that are left for
// the next callback.
const maxEffectPasses = 100

// Dispatcher queues a function for serialized execution.
// It is safe to call from any goroutine and is the correct way to update
// signals from asynchronous operations. Implementations must not drop
// callbacks while they are running.
type Dispatcher interface {
	Dispatch(fn func())
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithLogger sets the logger used to report recovered panics.
// The default logger discards everything.
func WithLogger(logger *slog.Logger) RuntimeOption {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithQueueSize sets the capacity of the dispatch queue.
func WithQueueSize(n int) RuntimeOption {
	return func(r *Runtime) {
		if n > 0 {
			r.queueSize = n
		}
	}
}

// Runtime is the host scheduler: a single goroutine that executes
// dispatched callbacks one at a time inside a root Owner and flushes the
// effects they made dirty before taking the next one.
//
// Everything that runs on the loop, including effect re-executions, is
// serialized, and UseDispatcher returns the runtime for code running there.
type Runtime struct {
	owner      *Owner
	dispatchCh chan func()

	// overflow holds callbacks the loop dispatched to itself while the
	// queue was full, ahead of everything still in dispatchCh. Only the
	// loop touches it.
	overflow []func()

	done       chan struct{}
	exited     chan struct{}
	logger     *slog.Logger
	queueSize  int

	started  atomic.Bool
	closed   atomic.Bool
	stopOnce sync.Once
}

// NewRuntime creates a runtime with a fresh root owner. Call Start before
// dispatching work.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		owner:     NewOwner(nil),
		done:      make(chan struct{}),
		exited:    make(chan struct{}),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		queueSize: DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.dispatchCh = make(chan func(), r.queueSize)
	return r
}

// Owner returns the root owner callbacks run under.
func (r *Runtime) Owner() *Owner {
	return r.owner
}

// Start launches the event loop. Calling it more than once has no effect.
func (r *Runtime) Start() {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	go r.loop()
}

// Stop terminates the event loop, waits for the callback in progress to
// finish and disposes the root owner. Queued callbacks are discarded.
func (r *Runtime) Stop() {
	r.stopOnce.Do(func() {
		r.closed.Store(true)
		close(r.done)
		// A callback stopping its own runtime cannot wait for the loop.
		if r.started.Load() && UseDispatcher() != Dispatcher(r) {
			<-r.exited
		}
		r.owner.Dispose()
	})
}

// Dispatch queues fn to run on the event loop. Callbacks are never dropped
// while the runtime is running: when the queue is full, Dispatch blocks until
// there is room, or, called from the loop itself, parks fn until the queue
// drains. Callbacks dispatched after Stop are dropped.
func (r *Runtime) Dispatch(fn func()) {
	if fn == nil || r.closed.Load() {
		return
	}
	select {
	case r.dispatchCh <- fn:
		return
	case <-r.done:
		return
	default:
	}

	if UseDispatcher() == Dispatcher(r) {
		r.park(fn)
		return
	}

	select {
	case r.dispatchCh <- fn:
	case <-r.done:
	}
}

// Run executes fn on the event loop and waits for it, including the effect
// flush that follows it. Called from the loop itself, fn runs inline.
func (r *Runtime) Run(fn func()) error {
	if UseDispatcher() == Dispatcher(r) {
		fn()
		return nil
	}
	if r.closed.Load() {
		return ErrRuntimeStopped
	}
	if !r.started.Load() {
		return ErrRuntimeNotStarted
	}

	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}

	select {
	case r.dispatchCh <- wrapped:
	case <-r.done:
		return ErrRuntimeStopped
	}

	select {
	case <-finished:
		return nil
	case <-r.exited:
		return ErrRuntimeStopped
	}
}

func (r *Runtime) loop() {
	defer close(r.exited)
	defer Release()

	for {
		select {
		case <-r.done:
			return
		default:
		}

		if fn := r.popOverflow(); fn != nil {
			r.execute(fn)
			continue
		}

		select {
		case fn := <-r.dispatchCh:
			r.execute(fn)
		case <-r.done:
			return
		}
	}
}

// park moves the queued callbacks into the overflow and appends fn after
// them. Only the loop calls it.
func (r *Runtime) park(fn func()) {
drain:
	for {
		select {
		case queued := <-r.dispatchCh:
			r.overflow = append(r.overflow, queued)
		default:
			break drain
		}
	}
	r.overflow = append(r.overflow, fn)
	r.logger.Debug("dispatch queue full, parking callback",
		"capacity", r.queueSize,
		"parked", len(r.overflow),
	)
}

func (r *Runtime) popOverflow() func() {
	if len(r.overflow) == 0 {
		return nil
	}
	fn := r.overflow[0]
	r.overflow[0] = nil
	r.overflow = r.overflow[1:]
	return fn
}

// execute runs a dispatched function with the root owner and this runtime
// installed, recovers panics, and then flushes pending effects.
func (r *Runtime) execute(fn func()) {
	oldOwner := setCurrentOwner(r.owner)
	oldDispatcher := setCurrentDispatcher(r)
	defer func() {
		setCurrentDispatcher(oldDispatcher)
		setCurrentOwner(oldOwner)
	}()

	r.guard(fn)
	r.guard(r.flush)
}

func (r *Runtime) guard(fn func()) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("dispatch panic",
				"panic", p,
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}

func (r *Runtime) flush() {
	for pass := 0; pass < maxEffectPasses; pass++ {
		if !r.owner.HasPendingEffects() {
			return
		}
		r.owner.RunPendingEffects()
	}
	r.logger.Warn("effects still dirty after flush", "passes", maxEffectPasses)
}

// UseDispatcher returns the Runtime executing the current callback or
// effect, or nil outside of one.
func UseDispatcher() Dispatcher {
	return getTrackingContext().currentDispatcher
}
