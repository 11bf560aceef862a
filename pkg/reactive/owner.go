package reactive

import (
	"sync"
	"sync/atomic"
)

// Owner is a disposal scope. Effects, cleanups and child owners created
// under it are torn down with it, and values set on it are visible to every
// descendant, which is how providers scope a value to a subtree.
type Owner struct {
	id     uint64
	parent *Owner

	// mu guards everything below.
	mu       sync.Mutex
	children []*Owner
	effects  []*Effect
	cleanups []func()
	dirty    []*Effect
	values   map[any]any

	disposed atomic.Bool
}

// NewOwner creates an Owner registered as a child of parent, or a root
// Owner when parent is nil.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}
	if parent != nil {
		parent.mu.Lock()
		parent.children = append(parent.children, o)
		parent.mu.Unlock()
	}
	return o
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent Owner, or nil for a root.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed reports whether Dispose has been called.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

// guarded runs fn under the lock unless the owner is disposed, and reports
// whether it ran.
func (o *Owner) guarded(fn func()) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.disposed.Load() {
		return false
	}
	fn()
	return true
}

func (o *Owner) registerEffect(e *Effect) {
	o.guarded(func() { o.effects = append(o.effects, e) })
}

func (o *Owner) scheduleEffect(e *Effect) {
	o.guarded(func() { o.dirty = append(o.dirty, e) })
}

// OnCleanup registers fn to run when the owner is disposed. On a disposed
// owner fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	if !o.guarded(func() { o.cleanups = append(o.cleanups, fn) }) {
		fn()
	}
}

func (o *Owner) childList() []*Owner {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*Owner(nil), o.children...)
}

// RunPendingEffects runs the dirty effects of this owner, then those of its
// descendants. Effects dirtied during the pass wait for the next one.
func (o *Owner) RunPendingEffects() {
	var dirty []*Effect
	if !o.guarded(func() { dirty, o.dirty = o.dirty, nil }) {
		return
	}

	for _, e := range dirty {
		if e.pending.Load() {
			e.run()
		}
	}
	for _, child := range o.childList() {
		child.RunPendingEffects()
	}
}

// HasPendingEffects reports whether this owner or a descendant has dirty
// effects.
func (o *Owner) HasPendingEffects() bool {
	var n int
	if !o.guarded(func() { n = len(o.dirty) }) {
		return false
	}
	if n > 0 {
		return true
	}
	for _, child := range o.childList() {
		if child.HasPendingEffects() {
			return true
		}
	}
	return false
}

// Dispose tears the scope down: children first, newest first, then this
// owner's effects, then its cleanups in reverse registration order.
// Disposing twice is a no-op.
func (o *Owner) Dispose() {
	o.mu.Lock()
	if o.disposed.Swap(true) {
		o.mu.Unlock()
		return
	}
	children, effects, cleanups := o.children, o.effects, o.cleanups
	o.children, o.effects, o.cleanups, o.dirty = nil, nil, nil, nil
	o.mu.Unlock()

	if p := o.parent; p != nil {
		p.mu.Lock()
		for i, c := range p.children {
			if c == o {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
		p.mu.Unlock()
	}

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}
	for _, e := range effects {
		e.Dispose()
	}
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// SetValue stores a context value on this owner.
func (o *Owner) SetValue(key, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
}

// GetValue returns the value stored under key on this owner or the nearest
// ancestor that has one, or nil.
func (o *Owner) GetValue(key any) any {
	for cur := o; cur != nil; cur = cur.parent {
		cur.mu.Lock()
		v, ok := cur.values[key]
		cur.mu.Unlock()
		if ok {
			return v
		}
	}
	return nil
}

// SetContext stores a value on the current owner. Without one it does
// nothing.
func SetContext(key, value any) {
	if owner := getCurrentOwner(); owner != nil {
		owner.SetValue(key, value)
	}
}

// GetContext looks key up from the current owner, or returns nil.
func GetContext(key any) any {
	if owner := getCurrentOwner(); owner != nil {
		return owner.GetValue(key)
	}
	return nil
}
