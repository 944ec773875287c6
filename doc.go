// Package emit is an in-process typed event dispatch core.
//
// Independent components publish events and subscribe listeners by event type
// without importing each other. Events are delivered either immediately (Trigger)
// or deferred to the next explicit Dispatch (Enqueue).
//
// The module is split into small packages under core/:
//
//   - core/typekey maps Go types to dense integer keys.
//   - core/delegate provides identity-comparable listener references.
//   - core/pipeline holds the listeners and FIFO queue of one event type.
//   - core/erased stores pipelines of any event type behind one concrete type.
//   - core/dispatcher maps event types to lazily created pipelines.
//   - core/loop drives a dispatcher on a ticker from a single goroutine.
//   - core/config and core/logger provide environment configuration and slog helpers.
//
// A minimal program:
//
//	type Ping struct{ ID int }
//
//	type Counter struct{ Total int }
//
//	func (c *Counter) OnPing(p Ping) { c.Total += p.ID }
//
//	d := dispatcher.New()
//	c := &Counter{}
//
//	dispatcher.Connect(d, delegate.Bind(c, (*Counter).OnPing))
//	dispatcher.Enqueue(d, Ping{ID: 1})
//	dispatcher.Enqueue(d, Ping{ID: 2})
//	d.Dispatch() // c.Total == 3
package emit
