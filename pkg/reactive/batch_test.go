package reactive

import "testing"

func TestBatchSingleNotification(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)
	c := NewSignal(0)

	listener := newTestListener()

	WithListener(listener, func() {
		_ = a.Get()
		_ = b.Get()
		_ = c.Get()
	})

	Batch(func() {
		a.Set(1)
		b.Set(2)
		c.Set(3)
	})

	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification (batched), got %d", listener.getDirtyCount())
	}
}

func TestBatchNested(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
	})

	Batch(func() {
		count.Set(1)

		Batch(func() {
			count.Set(2)
		})

		if listener.getDirtyCount() != 0 {
			t.Errorf("inner batch should not notify, got %d", listener.getDirtyCount())
		}
	})

	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification after all batches, got %d", listener.getDirtyCount())
	}
}

func TestBatchValuesVisibleInside(t *testing.T) {
	count := NewSignal(0)

	Batch(func() {
		count.Set(3)
		if count.Peek() != 3 {
			t.Errorf("expected write to be visible inside batch, got %d", count.Peek())
		}
	})
}

func TestBatchNotifiesAfterPanic(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
	})

	func() {
		defer func() { _ = recover() }()
		Batch(func() {
			count.Set(1)
			panic("boom")
		})
	}()

	if currentBatch() != nil {
		t.Error("batch frame should be cleared after a panic")
	}
	if listener.getDirtyCount() != 1 {
		t.Errorf("expected queued notification to fire, got %d", listener.getDirtyCount())
	}
}

func TestUntracked(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		Untracked(func() {
			_ = count.Get()
		})
	})

	count.Set(1)
	if listener.getDirtyCount() != 0 {
		t.Errorf("untracked read should not subscribe, got %d", listener.getDirtyCount())
	}
}
