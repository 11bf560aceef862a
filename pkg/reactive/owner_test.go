package reactive

import "testing"

func TestOwnerHierarchy(t *testing.T) {
	root := NewOwner(nil)
	child := NewOwner(root)

	if child.Parent() != root {
		t.Error("child parent should be root")
	}
	if root.Parent() != nil {
		t.Error("root should have no parent")
	}
	if root.ID() == child.ID() {
		t.Error("owners should have distinct IDs")
	}

	root.Dispose()
	if !child.IsDisposed() {
		t.Error("disposing root should dispose child")
	}
}

func TestOwnerDisposeOrder(t *testing.T) {
	root := NewOwner(nil)
	var order []string

	root.OnCleanup(func() { order = append(order, "first") })
	root.OnCleanup(func() { order = append(order, "second") })

	child := NewOwner(root)
	child.OnCleanup(func() { order = append(order, "child") })

	root.Dispose()
	root.Dispose()

	want := []string{"child", "second", "first"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestOwnerOnCleanupAfterDispose(t *testing.T) {
	owner := NewOwner(nil)
	owner.Dispose()

	ran := false
	owner.OnCleanup(func() { ran = true })
	if !ran {
		t.Error("cleanup registered after dispose should run immediately")
	}
}

func TestOwnerChildRemovedOnDispose(t *testing.T) {
	root := NewOwner(nil)
	defer root.Dispose()

	child := NewOwner(root)
	child.Dispose()

	if len(root.childList()) != 0 {
		t.Error("disposed child should be removed from parent")
	}
}

func TestOwnerRunsChildEffects(t *testing.T) {
	root := NewOwner(nil)
	defer root.Dispose()
	child := NewOwner(root)

	count := NewSignal(0)
	runCount := 0

	WithOwner(child, func() {
		CreateEffect(func() Cleanup {
			_ = count.Get()
			runCount++
			return nil
		})
	})

	count.Set(1)
	if !root.HasPendingEffects() {
		t.Error("root should see child's pending effects")
	}
	root.RunPendingEffects()

	if runCount != 2 {
		t.Errorf("expected 2 runs, got %d", runCount)
	}
}

func TestOwnerValues(t *testing.T) {
	root := NewOwner(nil)
	defer root.Dispose()
	child := NewOwner(root)

	root.SetValue("k", "root")
	if child.GetValue("k") != "root" {
		t.Error("child should inherit parent value")
	}

	child.SetValue("k", "child")
	if child.GetValue("k") != "child" {
		t.Error("child value should shadow parent")
	}
	if root.GetValue("k") != "root" {
		t.Error("child value should not leak to parent")
	}
	if root.GetValue("missing") != nil {
		t.Error("missing key should return nil")
	}
}

func TestSetGetContext(t *testing.T) {
	owner := NewOwner(nil)
	defer owner.Dispose()

	if GetContext("k") != nil {
		t.Error("GetContext without owner should return nil")
	}

	WithOwner(owner, func() {
		SetContext("k", 42)
		if GetContext("k") != 42 {
			t.Errorf("expected 42, got %v", GetContext("k"))
		}
	})
}
