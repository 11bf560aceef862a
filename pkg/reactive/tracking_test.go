package reactive

import (
	"sync"
	"testing"
)

type testListener struct {
	id         uint64
	dirtyCount int
	mu         sync.Mutex
}

func newTestListener() *testListener {
	return &testListener{id: nextID()}
}

func (l *testListener) MarkDirty() {
	l.mu.Lock()
	l.dirtyCount++
	l.mu.Unlock()
}

func (l *testListener) ID() uint64 {
	return l.id
}

func (l *testListener) getDirtyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirtyCount
}

func TestGetTrackingContext(t *testing.T) {
	ctx1 := getTrackingContext()
	ctx2 := getTrackingContext()

	if ctx1 != ctx2 {
		t.Error("getTrackingContext should return same context for same goroutine")
	}
}

func TestTrackingContextIsolation(t *testing.T) {
	var wg sync.WaitGroup
	contexts := make(chan *TrackingContext, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer Release()
			contexts <- getTrackingContext()
		}()
	}
	wg.Wait()
	close(contexts)

	a, b := <-contexts, <-contexts
	if a == b {
		t.Error("goroutines should not share a tracking context")
	}
}

func TestWithListenerRestoresPrevious(t *testing.T) {
	outer := newTestListener()
	inner := newTestListener()

	WithListener(outer, func() {
		WithListener(inner, func() {
			if getCurrentListener() != Listener(inner) {
				t.Error("inner listener should be current")
			}
		})
		if getCurrentListener() != Listener(outer) {
			t.Error("outer listener should be restored")
		}
	})

	if getCurrentListener() != nil {
		t.Error("listener should be nil after WithListener returns")
	}
}

func TestWithOwnerRestoresPrevious(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	WithOwner(owner, func() {
		if CurrentOwner() != owner {
			t.Error("owner should be current inside WithOwner")
		}
	})

	if CurrentOwner() != nil {
		t.Error("owner should be nil after WithOwner returns")
	}
}

func TestReleaseDropsContext(t *testing.T) {
	done := make(chan bool)
	go func() {
		ctx := getTrackingContext()
		ctx.batch = newBatchFrame()
		Release()
		done <- getTrackingContext().batch == nil
		Release()
	}()

	if !<-done {
		t.Error("Release should drop the goroutine's tracking context")
	}
}
