package store

import "github.com/vango-dev/storekit/pkg/reactive"

// Context scopes a store to a subtree of reactive owners.
//
//	ctx := store.NewContext(nil)
//	ctx.Provide(app, func() {
//	    use := store.Hook[*store.Combined](ctx)
//	    fmt.Println(use().State())
//	})
type Context struct {
	cell *reactive.Context[AnyStore]
}

// NewContext creates a store context. def is returned by Use when no
// provider encloses the caller and may be nil.
func NewContext(def AnyStore) *Context {
	return &Context{cell: reactive.CreateContext(def)}
}

// ProviderProps are the inputs of Provider.
type ProviderProps struct {
	Store    AnyStore
	Children func()
}

// Provider runs props.Children in a new owner scope where Use returns
// props.Store.
func (c *Context) Provider(props ProviderProps) *reactive.Owner {
	return c.Provide(props.Store, props.Children)
}

// Provide runs children in a new child scope of the current owner in which
// Use returns s. The scope is returned so the caller can dispose it.
func (c *Context) Provide(s AnyStore, children func()) *reactive.Owner {
	return c.cell.Provide(s, children)
}

// Use returns the store provided by the nearest enclosing Provide, or the
// context default.
func (c *Context) Use() AnyStore {
	return c.cell.Use()
}

// Default returns the store given to NewContext.
func (c *Context) Default() AnyStore {
	return c.cell.Default()
}

// Use returns the current store of c as a T. It returns the zero T when no
// store is provided or the provided store has a different type.
func Use[T AnyStore](c *Context) T {
	s, _ := c.Use().(T)
	return s
}

// Hook returns an accessor that reads the current store of c as a T each time
// it is called, so it observes whichever provider encloses the call site.
func Hook[T AnyStore](c *Context) func() T {
	return func() T {
		return Use[T](c)
	}
}
