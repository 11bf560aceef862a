package reactive

import (
	"runtime"
	"sync"
)

// TrackingContext holds the reactive state for a goroutine.
// Each goroutine has its own tracking context so that concurrent callers
// never see each other's listeners or batches.
type TrackingContext struct {
	// currentOwner is the Owner that will own newly created effects.
	currentOwner *Owner

	// currentListener is what's currently tracking dependencies.
	// nil means no tracking (reads don't create subscriptions).
	currentListener Listener

	// currentEffect is the effect whose body is executing, if any.
	currentEffect *Effect

	// batch collects notifications while the outermost Batch runs.
	// nil outside a batch.
	batch *batchFrame

	// currentDispatcher is the runtime executing the current callback.
	currentDispatcher Dispatcher
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns the ID of the current goroutine, parsed from the
// header of runtime.Stack ("goroutine <id> [...]").
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // Skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine,
// creating it on first use.
func getTrackingContext() *TrackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*TrackingContext)
	}

	ctx := &TrackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

func getCurrentListener() Listener {
	return getTrackingContext().currentListener
}

// setCurrentListener sets the current listener for dependency tracking.
// Returns the previous listener so it can be restored.
func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

func getCurrentOwner() *Owner {
	return getTrackingContext().currentOwner
}

// setCurrentOwner sets the current owner for effect creation.
// Returns the previous owner so it can be restored.
func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	return old
}

func getCurrentEffect() *Effect {
	return getTrackingContext().currentEffect
}

func setCurrentEffect(e *Effect) *Effect {
	ctx := getTrackingContext()
	old := ctx.currentEffect
	ctx.currentEffect = e
	return old
}

func currentBatch() *batchFrame {
	return getTrackingContext().batch
}

func setCurrentDispatcher(d Dispatcher) Dispatcher {
	ctx := getTrackingContext()
	old := ctx.currentDispatcher
	ctx.currentDispatcher = d
	return old
}

// WithOwner runs a function with the specified owner as the current owner.
// This is used when spawning goroutines that need to create effects that
// belong to a specific scope.
//
// Example:
//
//	go func() {
//	    WithOwner(parentOwner, func() {
//	        CreateEffect(...) // owned by parentOwner
//	    })
//	}()
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}

// WithListener runs a function with the specified listener for tracking.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}

// CurrentOwner returns the owner of the calling goroutine, or nil.
func CurrentOwner() *Owner {
	return getCurrentOwner()
}

// Release drops the tracking context of the calling goroutine.
// Goroutines that touched signals and are about to exit should call it;
// contexts are otherwise kept until the goroutine ID is reused.
func Release() {
	trackingContexts.Delete(getGoroutineID())
}
