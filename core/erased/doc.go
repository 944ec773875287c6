// Package erased provides Pipeline, a type-erased holder for a pipeline.Pipeline of
// any event type.
//
// Pipelines of unrelated event types cannot share a Go slice directly. An erased
// Pipeline stores the concrete *pipeline.Pipeline[T] together with a small table of
// operations (destroy, clear, dispatch, move) bound to T when the holder is created.
// Code that only needs lifecycle and dispatch operations works on the holder without
// knowing T; code that knows T gets the concrete pipeline back with Acquire.
//
//	slots := make([]erased.Pipeline, 2)
//	slots[0].MoveFrom(erased.Create[Ping]())
//	slots[1].MoveFrom(erased.Create[Pong]())
//
//	erased.Acquire[Ping](&slots[0]).Enqueue(Ping{ID: 1})
//
//	for i := range slots {
//		slots[i].Dispatch()
//	}
//
// # States
//
// A holder is either populated (it holds a pipeline and all four operations are
// set) or empty (it holds nothing and no operation is set). The zero value is
// empty. MoveFrom transfers a pipeline between holders and leaves the source empty;
// Destroy clears the held pipeline and empties the holder.
//
// Holders must not be copied. Move them with MoveFrom.
//
// # Type Checks
//
// Acquire panics with ErrEmpty or ErrTypeMismatch when the holder is empty or holds
// a pipeline of another event type. Both indicate a programming error in the caller.
// TryAcquire reports the same conditions without panicking.
package erased
