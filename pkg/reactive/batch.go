package reactive

// batchFrame is the notification set of an open batch. Each listener is
// queued once, in the order it was first notified.
type batchFrame struct {
	queued []Listener
	seen   map[uint64]struct{}
}

func newBatchFrame() *batchFrame {
	return &batchFrame{seen: make(map[uint64]struct{})}
}

func (b *batchFrame) queue(listeners []Listener) {
	for _, l := range listeners {
		id := l.ID()
		if _, ok := b.seen[id]; ok {
			continue
		}
		b.seen[id] = struct{}{}
		b.queued = append(b.queued, l)
	}
}

func (b *batchFrame) flush() {
	for _, l := range b.queued {
		l.MarkDirty()
	}
}

// Batch runs fn and holds back signal notifications until it returns, so
// dependents see every write made inside fn at once or none of them. Each
// dependent is notified once however many of its signals changed.
//
// A Batch inside a Batch joins the outer one. Notifications are still
// delivered when fn panics.
//
// Example:
//
//	Batch(func() {
//	    pending.Set(false)
//	    err.Set(cause)
//	})
func Batch(fn func()) {
	ctx := getTrackingContext()
	if ctx.batch != nil {
		fn()
		return
	}

	frame := newBatchFrame()
	ctx.batch = frame
	defer func() {
		ctx.batch = nil
		frame.flush()
	}()

	fn()
}

// Untracked runs fn without subscribing the current listener to anything
// fn reads. For a single read, Signal.Peek does the same.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}

// UntrackedGet reads a signal's value without creating a dependency.
func UntrackedGet[T any](s *Signal[T]) T {
	return s.Peek()
}
