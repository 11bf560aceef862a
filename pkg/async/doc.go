// Package async bridges futures into the reactive engine.
//
// Track registers a function returning an *eventual.Future inside a reactive
// effect and exposes two readouts: whether an invocation is in flight and
// the error of the last one. The function runs again whenever a signal it
// read changes, but never while a previous invocation is still outstanding.
//
//	userID := reactive.NewSignal(1)
//	task := async.Track(func() *eventual.Future[*User] {
//	    id := userID.Get()
//	    return eventual.Go(func() (*User, error) { return api.User(id) })
//	})
//
//	reactive.CreateEffect(func() reactive.Cleanup {
//	    if task.Pending() {
//	        fmt.Println("loading")
//	    } else if err := task.Err(); err != nil {
//	        fmt.Println("failed:", err)
//	    }
//	    return nil
//	})
//
// Settlement is applied on the Runtime that ran the tracker body, so readout
// changes flow through the same serialized loop as every other update. A
// tracker created outside a Runtime settles on the goroutine that observed
// the future, and its dependents run the next time their owner is flushed.
package async
