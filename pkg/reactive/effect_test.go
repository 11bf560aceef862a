package reactive

import "testing"

func TestEffectRunsOnCreate(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	ran := false
	WithOwner(owner, func() {
		CreateEffect(func() Cleanup {
			ran = true
			return nil
		})
	})

	if !ran {
		t.Error("effect should run immediately on creation")
	}
}

func TestEffectTracksDependencies(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	count := NewSignal(0)
	runCount := 0

	WithOwner(owner, func() {
		CreateEffect(func() Cleanup {
			_ = count.Get()
			runCount++
			return nil
		})
	})

	if runCount != 1 {
		t.Errorf("expected 1 run, got %d", runCount)
	}

	count.Set(1)
	owner.RunPendingEffects()

	if runCount != 2 {
		t.Errorf("expected 2 runs after signal change, got %d", runCount)
	}
}

func TestEffectNotRerunWithoutFlush(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	count := NewSignal(0)
	runCount := 0

	var e *Effect
	WithOwner(owner, func() {
		e = CreateEffect(func() Cleanup {
			_ = count.Get()
			runCount++
			return nil
		})
	})

	count.Set(1)
	count.Set(2)

	if runCount != 1 {
		t.Errorf("effect should only be scheduled, got %d runs", runCount)
	}
	if !e.IsPending() {
		t.Error("effect should be pending after a dependency changed")
	}
	if !owner.HasPendingEffects() {
		t.Error("owner should report pending effects")
	}

	owner.RunPendingEffects()
	if runCount != 2 {
		t.Errorf("burst of writes should re-run once, got %d runs", runCount)
	}
}

func TestEffectCleanupBeforeRerun(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	count := NewSignal(0)
	var order []string

	WithOwner(owner, func() {
		CreateEffect(func() Cleanup {
			order = append(order, "run")
			_ = count.Get()
			return func() {
				order = append(order, "cleanup")
			}
		})
	})

	count.Set(1)
	owner.RunPendingEffects()

	want := []string{"run", "cleanup", "run"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestEffectCleanupOnDispose(t *testing.T) {
	owner := NewOwner(nil)

	cleanupRan := false
	WithOwner(owner, func() {
		CreateEffect(func() Cleanup {
			return func() {
				cleanupRan = true
			}
		})
	})

	owner.Dispose()

	if !cleanupRan {
		t.Error("cleanup should run on dispose")
	}
}

func TestEffectDropsStaleDependencies(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	useA := NewSignal(true)
	a := NewSignal(0)
	b := NewSignal(0)
	runCount := 0

	WithOwner(owner, func() {
		CreateEffect(func() Cleanup {
			runCount++
			if useA.Get() {
				_ = a.Get()
			} else {
				_ = b.Get()
			}
			return nil
		})
	})

	useA.Set(false)
	owner.RunPendingEffects()

	a.Set(1)
	if owner.HasPendingEffects() {
		t.Error("effect should no longer depend on a")
	}
	if a.src.len() != 0 {
		t.Errorf("a should have no subscribers, got %d", a.src.len())
	}
}

func TestKeepDependencies(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	trigger := NewSignal(0)
	skip := false
	runCount := 0

	WithOwner(owner, func() {
		CreateEffect(func() Cleanup {
			runCount++
			if skip {
				KeepDependencies()
				return nil
			}
			_ = trigger.Get()
			return nil
		})
	})

	skip = true
	trigger.Set(1)
	owner.RunPendingEffects()
	if runCount != 2 {
		t.Fatalf("expected 2 runs, got %d", runCount)
	}

	// The skipped run read nothing but must still be woken by trigger.
	trigger.Set(2)
	if !owner.HasPendingEffects() {
		t.Fatal("effect should stay subscribed after a skipped run")
	}
	owner.RunPendingEffects()
	if runCount != 3 {
		t.Errorf("expected 3 runs, got %d", runCount)
	}
}

func TestKeepDependenciesOutsideEffect(t *testing.T) {
	// Must not panic.
	KeepDependencies()
}

func TestEffectDispose(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	count := NewSignal(0)
	runCount := 0

	var e *Effect
	WithOwner(owner, func() {
		e = CreateEffect(func() Cleanup {
			_ = count.Get()
			runCount++
			return nil
		})
	})

	e.Dispose()
	e.Dispose()

	if !e.IsDisposed() {
		t.Error("effect should report disposed")
	}

	count.Set(1)
	owner.RunPendingEffects()
	if runCount != 1 {
		t.Errorf("disposed effect should not re-run, got %d runs", runCount)
	}
}

func TestOnCleanupRegistersOnOwner(t *testing.T) {
	owner := NewOwner(nil)

	ran := false
	WithOwner(owner, func() {
		OnCleanup(func() { ran = true })
	})

	owner.Dispose()
	if !ran {
		t.Error("OnCleanup should run on owner dispose")
	}
}

func TestEffectRerunsUnderItsOwner(t *testing.T) {
	root := NewOwner(nil)
	defer root.Dispose()
	child := NewOwner(root)

	count := NewSignal(0)
	var owners []*Owner

	WithOwner(child, func() {
		CreateEffect(func() Cleanup {
			_ = count.Get()
			owners = append(owners, CurrentOwner())
			return nil
		})
	})

	count.Set(1)
	// Flush from the root, as Runtime does.
	WithOwner(root, root.RunPendingEffects)

	if len(owners) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(owners))
	}
	for i, o := range owners {
		if o != child {
			t.Errorf("run %d: owner = %v, want effect owner", i, o)
		}
	}
}
