package reactive

// Context passes a value down an owner subtree without threading it through
// every call. Create a context with CreateContext, scope a value with
// Provide, and read it back with Use.
//
// Example:
//
//	var Theme = reactive.CreateContext("light")
//
//	Theme.Provide("dark", func() {
//	    fmt.Println(Theme.Use()) // "dark"
//	})
//	fmt.Println(Theme.Use())     // "light"
type Context[T any] struct {
	// key uniquely identifies this context in the owner value map
	key any

	// defaultValue is returned when no provider is found
	defaultValue T
}

// contextKey wraps Context to create a unique key type
type contextKey[T any] struct {
	ctx *Context[T]
}

// CreateContext creates a new context with the given default value.
// The default value is returned by Use() when no Provide call encloses the
// caller.
func CreateContext[T any](defaultValue T) *Context[T] {
	ctx := &Context[T]{
		defaultValue: defaultValue,
	}
	ctx.key = contextKey[T]{ctx: ctx}
	return ctx
}

// Provide runs fn inside a new child scope of the current owner in which
// Use returns value. Siblings and ancestors never see it.
//
// The child owner is returned so the caller can dispose the subtree. It is
// also disposed with its parent.
func (c *Context[T]) Provide(value T, fn func()) *Owner {
	scope := NewOwner(getCurrentOwner())
	scope.SetValue(c.key, value)

	if fn != nil {
		WithOwner(scope, fn)
	}
	return scope
}

// Use retrieves the context value from the nearest enclosing Provide.
// If there is none, returns the default value.
func (c *Context[T]) Use() T {
	if owner := getCurrentOwner(); owner != nil {
		if value := owner.GetValue(c.key); value != nil {
			if typed, ok := value.(T); ok {
				return typed
			}
		}
	}

	return c.defaultValue
}

// Default returns the default value for this context.
func (c *Context[T]) Default() T {
	return c.defaultValue
}
