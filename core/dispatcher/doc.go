// Package dispatcher provides Dispatcher, the registry that maps event types to
// their pipelines.
//
// A Dispatcher owns one pipeline per event type. Pipelines are created lazily the
// first time a type is acquired and live in a slice indexed by the type's key from a
// typekey.Registry, so the lookup on every Acquire is a slice index rather than a
// map probe once the key is known.
//
// # Basic Usage
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
//	dispatcher.Acquire[Ping](d).Connect(delegate.Bind(c, (*Counter).OnPing))
//	dispatcher.Acquire[Ping](d).Enqueue(Ping{ID: 1})
//	dispatcher.Acquire[Ping](d).Enqueue(Ping{ID: 2})
//
//	d.Dispatch() // c.Total == 3
//
// The package-level helpers Connect, Disconnect, Enqueue and Trigger are shorthand
// for calling the same method on Acquire[T](d).
//
// # Ticks
//
// Dispatch drains the queue of every pipeline, in type-key order. Delivery order
// within one event type is FIFO; order across different event types is not part of
// the contract. Call Dispatch once per frame, per batch, or on whatever cadence the
// host needs; core/loop provides a ticker-driven driver.
//
// # Registries
//
// By default a Dispatcher uses typekey.Default(). Pass WithRegistry to isolate key
// allocation, for example in tests. Several dispatchers may share one registry.
//
// # Concurrency
//
// A Dispatcher and its pipelines are not safe for concurrent use. Use one
// dispatcher per goroutine or drive it through core/loop.
package dispatcher
