// Package reactive is the fine-grained reactive engine that stores and async
// tasks are built on.
//
// Dependencies are tracked at runtime: reading a Signal inside an Effect
// subscribes the effect, and writing the signal schedules the effect to run
// again.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	count := NewSignal(0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Peek()          // Read without subscribing
//	count.Set(5)          // Write (notifies subscribers)
//
// Effect runs side effects when dependencies change:
//
//	CreateEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return nil
//	})
//
// # Batching
//
// Multiple signal updates can be batched to trigger a single notification:
//
//	Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	})
//
// # Scheduling
//
// Effects never run on their own after creation. A write marks them dirty and
// queues them on their Owner; Runtime drains that queue after every
// dispatched callback, which serializes all effect re-executions on a single
// goroutine:
//
//	rt := NewRuntime()
//	rt.Start()
//	defer rt.Stop()
//
//	rt.Run(func() {
//	    CreateEffect(func() Cleanup { ... })
//	})
//
// # Thread Safety
//
// All reactive primitives are thread-safe and can be accessed from multiple
// goroutines. The tracking context is per-goroutine, so spawning goroutines
// requires explicit context propagation via WithOwner.
package reactive
