package reactive

import "errors"

// ErrRuntimeStopped is returned by Runtime.Run once the runtime has been
// stopped and can no longer execute callbacks.
var ErrRuntimeStopped = errors.New("reactive: runtime stopped")

// ErrRuntimeNotStarted is returned by Runtime.Run when called before Start.
var ErrRuntimeNotStarted = errors.New("reactive: runtime not started")
