// Package loop drives a dispatcher.Dispatcher from a single goroutine.
//
// Pipelines and dispatchers carry no locks. A Loop owns one Dispatcher once it has
// started: it calls Dispatch on every tick and runs work submitted by other
// goroutines between ticks, so every access to the dispatcher happens on the loop
// goroutine.
//
// # Basic Usage
//
//	d := dispatcher.New()
//	c := &Counter{}
//	dispatcher.Connect(d, delegate.Bind(c, (*Counter).OnPing))
//
//	l, err := loop.New(d,
//		loop.WithTickInterval(16*time.Millisecond),
//		loop.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//
//	go l.Start(ctx)
//
//	// From any goroutine:
//	err = l.Do(ctx, func(d *dispatcher.Dispatcher) {
//		dispatcher.Enqueue(d, Ping{ID: 1})
//	})
//
//	// Fire and forget:
//	err = l.Post(func(d *dispatcher.Dispatcher) {
//		dispatcher.Enqueue(d, Ping{ID: 2})
//	})
//
// Configure the dispatcher (connect listeners, acquire pipelines) before Start, or
// from inside Do and Post afterwards. Listeners already run on the loop goroutine
// and must use the dispatcher they are called from directly. Do or Flush called
// from a listener, a WithBeforeTick hook or a job blocks the loop until its
// context is done and then returns ctx.Err().
//
// # Graceful Shutdown with errgroup
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(l.Run(ctx))
//	// ...
//	return g.Wait()
//
// Run starts the loop and stops it when ctx is cancelled. Stop waits up to the
// shutdown timeout for the loop goroutine to finish the tick or job it is running.
// With WithFinalDispatch the loop drains all queues one last time before exiting.
//
// # Panics
//
// A panic raised by a listener during a tick is recovered and logged; the loop keeps
// ticking. A panic raised by a Do job is returned to the Do caller as an error
// wrapping ErrJobPanicked.
package loop
