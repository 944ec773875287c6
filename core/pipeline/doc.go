// Package pipeline provides Pipeline, the per-event-type container of listeners and
// pending events.
//
// A Pipeline[T] keeps an ordered list of listeners (delegate.Delegate[T]) and a FIFO
// queue of events of type T. Events reach listeners either immediately through
// Trigger or later through Enqueue followed by Dispatch.
//
//	p := pipeline.New[Ping]()
//
//	c := &Counter{}
//	p.Connect(delegate.Bind(c, (*Counter).OnPing))
//
//	p.Trigger(Ping{ID: 1}) // c.OnPing runs now
//
//	p.Enqueue(Ping{ID: 2})
//	p.Enqueue(Ping{ID: 3})
//	p.Dispatch()           // c.OnPing runs with 2, then 3
//
// # Ordering
//
// Listeners are notified in the order they were connected. Queued events are
// delivered in the order they were enqueued, across any number of Dispatch calls.
// Connecting the same delegate twice creates two entries and both are notified.
//
// # Disconnecting
//
// Disconnect removes the most recently connected entry equal to the given delegate
// and leaves earlier duplicates in place. DisconnectAll removes every equal entry.
// Both are no-ops when nothing matches, and neither changes the relative order of
// the remaining listeners.
//
// # Re-entrancy
//
// Listeners may call Connect, Disconnect, Enqueue, Trigger and Clear on the pipeline
// that is notifying them. A running notification always iterates a stable snapshot
// of the listener list; changes made by a listener apply from the next event on.
// Events enqueued while Dispatch is draining are kept for the next Dispatch call.
// Clear called from a listener also abandons the rest of the running drain.
//
// # Concurrency
//
// A Pipeline is not safe for concurrent use. Serialize access externally, for
// example by driving the owning dispatcher from a single goroutine with core/loop.
package pipeline
