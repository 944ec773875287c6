// Package delegate provides Delegate, an identity-comparable reference to a
// listener function.
//
// A Delegate is either bound to a method of a specific object instance or to a
// free function. Two delegates are equal when both their target instance and their
// function are the same, which makes a Delegate usable as a lookup key for
// disconnecting listeners without keeping any registration handle around.
//
//	type Counter struct{ Total int }
//
//	func (c *Counter) OnPing(p Ping) { c.Total += p.ID }
//
//	c := &Counter{}
//	d := delegate.Bind(c, (*Counter).OnPing)
//	d.Equal(delegate.Bind(c, (*Counter).OnPing)) // true
//
// # Non-owning Targets
//
// Bind keeps only a weak reference to the instance. A Delegate never extends the
// lifetime of the object it targets; once the object has been garbage-collected,
// Invoke reports ErrTargetReleased instead of calling into freed state. Owners are
// expected to disconnect their delegates before they go away.
//
// # Function Identity
//
// Function identity is the closure pointer of the function value. Method
// expressions such as (*Counter).OnPing and top-level functions always have the
// same identity. Every closure instance that captures variables has its own, so
// listeners created from one function literal in a loop stay distinguishable:
//
//	for i := range 3 {
//		ds[i] = p.ConnectFunc(func(e Ping) { hits[i]++ })
//	}
//	p.Disconnect(ds[0]) // removes only the first listener
//
// A method value such as c.OnPing allocates a new closure on every evaluation.
// Keep the Delegate returned by BindFunc, or use Bind with a method expression, to
// disconnect it later.
package delegate
