package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect represents a reactive side effect that runs when its dependencies change.
//
// Effects run immediately when created, and re-run whenever any signal they
// read during their last execution changes. They can return a Cleanup
// function that will be called before the effect re-runs or when the effect
// is disposed.
type Effect struct {
	id uint64

	// fn is the effect function to run.
	fn func() Cleanup

	// cleanup is the cleanup function from the last run.
	cleanup Cleanup

	// sources are the signals this effect depends on.
	sources   []*source
	sourcesMu sync.Mutex

	// owner is the Owner that owns this effect.
	owner *Owner

	// pending indicates the effect is scheduled for re-run.
	pending atomic.Bool

	// disposed indicates the effect has been disposed.
	disposed atomic.Bool

	// keep is set by KeepDependencies during a run.
	keep bool
}

// MarkDirty marks the effect as needing to re-run.
// Implements the Listener interface.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}

	// CAS so a burst of writes schedules the effect once.
	if e.pending.CompareAndSwap(false, true) {
		if e.owner != nil {
			e.owner.scheduleEffect(e)
		}
	}
}

// ID returns the unique identifier for this effect.
// Implements the Listener interface.
func (e *Effect) ID() uint64 {
	return e.id
}

// IsPending reports whether the effect is scheduled to re-run.
func (e *Effect) IsPending() bool {
	return e.pending.Load()
}

// run executes the effect function, re-collecting its dependencies.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	e.pending.Store(false)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	previous := e.sources
	for _, src := range previous {
		src.remove(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()

	e.keep = false
	e.execute()

	if e.keep && !e.disposed.Load() {
		for _, src := range previous {
			src.bind(e)
		}
	}
}

// execute runs fn with this effect installed as the tracking listener and its
// owner as the current owner, so context lookups made by a re-run see the
// same providers as the first run.
func (e *Effect) execute() {
	oldListener := setCurrentListener(e)
	oldEffect := setCurrentEffect(e)
	oldOwner := getCurrentOwner()
	if e.owner != nil {
		setCurrentOwner(e.owner)
	}
	defer func() {
		setCurrentOwner(oldOwner)
		setCurrentEffect(oldEffect)
		setCurrentListener(oldListener)
	}()

	e.cleanup = e.fn()
}

// addSource adds a source dependency.
// Called by signals when they are read during effect execution.
func (e *Effect) addSource(src *source) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == src {
			return
		}
	}
	e.sources = append(e.sources, src)
}

// Dispose stops the effect: it runs the last cleanup and unsubscribes from
// every source. Disposing twice is a no-op.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, src := range e.sources {
		src.remove(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// IsDisposed returns true once the effect has been disposed.
func (e *Effect) IsDisposed() bool {
	return e.disposed.Load()
}

// CreateEffect creates and runs a new effect within the current owner context.
// The effect function runs immediately and re-runs when any signal it reads
// changes. If the function returns a Cleanup, it will be called before the
// effect re-runs or when the effect is disposed.
//
// Re-runs are queued on the owner and executed by Owner.RunPendingEffects,
// which Runtime calls after every dispatched callback. An effect created
// without an owner runs once and is never re-scheduled.
//
// Example:
//
//	CreateEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return func() { fmt.Println("Cleanup") }
//	})
func CreateEffect(fn func() Cleanup) *Effect {
	owner := getCurrentOwner()

	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: owner,
	}

	if owner != nil {
		owner.registerEffect(e)
	}

	e.run()

	return e
}

// KeepDependencies tells the running effect to stay subscribed to the
// signals it read on its previous run instead of the (possibly empty) set
// read on this one. An effect whose body decides to skip its work calls it
// so that it is still woken up by the same signals afterwards.
//
// Outside an effect body it does nothing.
func KeepDependencies() {
	if e := getCurrentEffect(); e != nil {
		e.keep = true
	}
}

// OnCleanup registers a function to run when the current owner is disposed.
func OnCleanup(fn func()) {
	if owner := getCurrentOwner(); owner != nil {
		owner.OnCleanup(fn)
	}
}
