package loop_test

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/emit/core/delegate"
	"github.com/dmitrymomot/emit/core/dispatcher"
	"github.com/dmitrymomot/emit/core/logger"
	"github.com/dmitrymomot/emit/core/loop"
	"github.com/dmitrymomot/emit/core/typekey"
)

type Ping struct {
	ID int
}

type counter struct {
	total atomic.Int64
	calls atomic.Int64
}

func (c *counter) OnPing(p Ping) {
	c.total.Add(int64(p.ID))
	c.calls.Add(1)
}

func newDispatcher() *dispatcher.Dispatcher {
	return dispatcher.New(dispatcher.WithRegistry(typekey.New()))
}

// startLoop starts l in the background and stops it when the test ends.
func startLoop(t *testing.T, l *loop.Loop) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- l.Start(ctx)
	}()

	require.Eventually(t, func() bool { return l.Stats().IsRunning }, time.Second, time.Millisecond)

	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestNew_NilDispatcher(t *testing.T) {
	t.Parallel()

	l, err := loop.New(nil)
	assert.ErrorIs(t, err, loop.ErrDispatcherNil)
	assert.Nil(t, l)
}

func TestNew_AssignsID(t *testing.T) {
	t.Parallel()

	a, err := loop.New(newDispatcher())
	require.NoError(t, err)
	b, err := loop.New(newDispatcher())
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, a.ID(), a.Stats().ID)
}

func TestLoop_DispatchesOnTick(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	c := &counter{}
	dispatcher.Connect(d, delegate.Bind(c, (*counter).OnPing))
	dispatcher.Enqueue(d, Ping{ID: 1})
	dispatcher.Enqueue(d, Ping{ID: 2})

	l, err := loop.New(d, loop.WithTickInterval(5*time.Millisecond))
	require.NoError(t, err)
	startLoop(t, l)

	require.Eventually(t, func() bool { return c.total.Load() == 3 }, time.Second, time.Millisecond)

	stats := l.Stats()
	assert.Positive(t, stats.Ticks)
	assert.False(t, stats.LastTickAt.IsZero())
	assert.True(t, stats.IsRunning)
}

func TestLoop_Do(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	c := &counter{}

	l, err := loop.New(d, loop.WithTickInterval(time.Hour))
	require.NoError(t, err)
	startLoop(t, l)

	ctx := context.Background()
	require.NoError(t, l.Do(ctx, func(d *dispatcher.Dispatcher) {
		dispatcher.Connect(d, delegate.Bind(c, (*counter).OnPing))
		dispatcher.Enqueue(d, Ping{ID: 4})
	}))
	assert.Zero(t, c.calls.Load(), "enqueue waits for a tick")

	require.NoError(t, l.Flush(ctx))
	assert.Equal(t, int64(4), c.total.Load())
	assert.Equal(t, int64(2), l.Stats().Jobs)
}

func TestLoop_DoSerializesConcurrentCallers(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	c := &counter{}
	dispatcher.Connect(d, delegate.Bind(c, (*counter).OnPing))

	l, err := loop.New(d, loop.WithTickInterval(time.Millisecond))
	require.NoError(t, err)
	startLoop(t, l)

	const workers, perWorker = 8, 25

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				assert.NoError(t, l.Do(context.Background(), func(d *dispatcher.Dispatcher) {
					dispatcher.Enqueue(d, Ping{ID: 1})
				}))
			}
		}()
	}
	wg.Wait()

	require.NoError(t, l.Flush(context.Background()))
	assert.Equal(t, int64(workers*perWorker), c.total.Load())
}

func TestLoop_DoPanic(t *testing.T) {
	t.Parallel()

	l, err := loop.New(newDispatcher(), loop.WithTickInterval(time.Hour))
	require.NoError(t, err)
	startLoop(t, l)

	err = l.Do(context.Background(), func(*dispatcher.Dispatcher) {
		panic("bad job")
	})
	require.ErrorIs(t, err, loop.ErrJobPanicked)
	assert.Contains(t, err.Error(), "bad job")

	// Loop keeps running.
	require.NoError(t, l.Do(context.Background(), func(*dispatcher.Dispatcher) {}))
	assert.Equal(t, int64(1), l.Stats().Panics)
}

func TestLoop_TickPanicIsRecovered(t *testing.T) {
	t.Parallel()

	var buf syncBuffer
	d := newDispatcher()
	var calls atomic.Int64
	dispatcher.Acquire[Ping](d).ConnectFunc(func(p Ping) {
		calls.Add(1)
		if p.ID == 1 {
			panic("listener exploded")
		}
	})
	dispatcher.Enqueue(d, Ping{ID: 1})
	dispatcher.Enqueue(d, Ping{ID: 3})

	l, err := loop.New(d,
		loop.WithTickInterval(2*time.Millisecond),
		loop.WithLogger(logger.New(logger.WithOutput(&buf))),
	)
	require.NoError(t, err)
	startLoop(t, l)

	require.Eventually(t, func() bool { return l.Stats().Panics == 1 }, time.Second, time.Millisecond)
	// The event queued behind the panicking one is delivered on a later tick.
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, time.Millisecond)

	require.NoError(t, l.Do(context.Background(), func(d *dispatcher.Dispatcher) {
		dispatcher.Enqueue(d, Ping{ID: 2})
	}))
	require.Eventually(t, func() bool { return calls.Load() == 3 }, time.Second, time.Millisecond)
	assert.Contains(t, buf.String(), "listener panicked during tick")
	assert.Contains(t, buf.String(), "tick_interval=2ms")
}

func TestLoop_DoFromLoopGoroutineTimesOut(t *testing.T) {
	t.Parallel()

	l, err := loop.New(newDispatcher(), loop.WithTickInterval(time.Hour))
	require.NoError(t, err)
	startLoop(t, l)

	var nested error
	require.NoError(t, l.Do(context.Background(), func(*dispatcher.Dispatcher) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		nested = l.Flush(ctx)
	}))
	assert.ErrorIs(t, nested, context.DeadlineExceeded)

	// The loop is still serving jobs afterwards.
	require.NoError(t, l.Do(context.Background(), func(*dispatcher.Dispatcher) {}))
}

func TestLoop_Post(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	c := &counter{}
	dispatcher.Connect(d, delegate.Bind(c, (*counter).OnPing))

	l, err := loop.New(d, loop.WithTickInterval(2*time.Millisecond))
	require.NoError(t, err)
	startLoop(t, l)

	require.NoError(t, l.Post(func(d *dispatcher.Dispatcher) {
		dispatcher.Enqueue(d, Ping{ID: 5})
	}))

	require.Eventually(t, func() bool { return c.total.Load() == 5 }, time.Second, time.Millisecond)
}

func TestLoop_PostInboxFull(t *testing.T) {
	t.Parallel()

	l, err := loop.New(newDispatcher(), loop.WithTickInterval(time.Hour), loop.WithInboxSize(1))
	require.NoError(t, err)
	startLoop(t, l)

	started := make(chan struct{})
	release := make(chan struct{})
	blocked := make(chan error, 1)
	go func() {
		blocked <- l.Do(context.Background(), func(*dispatcher.Dispatcher) {
			close(started)
			<-release
		})
	}()
	<-started

	require.NoError(t, l.Post(func(*dispatcher.Dispatcher) {}))
	assert.ErrorIs(t, l.Post(func(*dispatcher.Dispatcher) {}), loop.ErrInboxFull)

	close(release)
	require.NoError(t, <-blocked)
}

func TestLoop_NotStarted(t *testing.T) {
	t.Parallel()

	l, err := loop.New(newDispatcher())
	require.NoError(t, err)

	assert.ErrorIs(t, l.Do(context.Background(), func(*dispatcher.Dispatcher) {}), loop.ErrLoopNotStarted)
	assert.ErrorIs(t, l.Post(func(*dispatcher.Dispatcher) {}), loop.ErrLoopNotStarted)
	assert.ErrorIs(t, l.Stop(), loop.ErrLoopNotStarted)
	assert.False(t, l.Stats().IsRunning)
}

func TestLoop_StartTwice(t *testing.T) {
	t.Parallel()

	l, err := loop.New(newDispatcher())
	require.NoError(t, err)
	startLoop(t, l)

	assert.ErrorIs(t, l.Start(context.Background()), loop.ErrLoopAlreadyStarted)
}

func TestLoop_DoContextCancelled(t *testing.T) {
	t.Parallel()

	l, err := loop.New(newDispatcher(), loop.WithTickInterval(time.Hour), loop.WithInboxSize(0))
	require.NoError(t, err)
	startLoop(t, l)

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = l.Do(context.Background(), func(*dispatcher.Dispatcher) {
			close(started)
			<-release
		})
	}()
	<-started
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err = l.Do(ctx, func(*dispatcher.Dispatcher) {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoop_StopAndRestart(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	c := &counter{}
	dispatcher.Connect(d, delegate.Bind(c, (*counter).OnPing))

	l, err := loop.New(d, loop.WithTickInterval(time.Hour))
	require.NoError(t, err)

	for run := 1; run <= 2; run++ {
		done := make(chan error, 1)
		go func() { done <- l.Start(context.Background()) }()
		require.Eventually(t, func() bool { return l.Stats().IsRunning }, time.Second, time.Millisecond)

		require.NoError(t, l.Do(context.Background(), func(d *dispatcher.Dispatcher) {
			dispatcher.Trigger(d, Ping{ID: 1})
		}))

		require.NoError(t, l.Stop())
		assert.ErrorIs(t, <-done, context.Canceled)
		assert.False(t, l.Stats().IsRunning)
		assert.Equal(t, int64(run), c.total.Load())
	}
}

func TestLoop_FinalDispatch(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	c := &counter{}
	dispatcher.Connect(d, delegate.Bind(c, (*counter).OnPing))

	l, err := loop.New(d, loop.WithTickInterval(time.Hour), loop.WithFinalDispatch(true))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- l.Start(context.Background()) }()
	require.Eventually(t, func() bool { return l.Stats().IsRunning }, time.Second, time.Millisecond)

	require.NoError(t, l.Do(context.Background(), func(d *dispatcher.Dispatcher) {
		dispatcher.Enqueue(d, Ping{ID: 9})
	}))
	assert.Zero(t, c.total.Load())

	require.NoError(t, l.Stop())
	<-done

	assert.Equal(t, int64(9), c.total.Load(), "pending events drained on stop")
}

func TestLoop_BeforeTick(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	c := &counter{}
	dispatcher.Connect(d, delegate.Bind(c, (*counter).OnPing))

	var produced atomic.Int64
	l, err := loop.New(d,
		loop.WithTickInterval(2*time.Millisecond),
		loop.WithBeforeTick(func(d *dispatcher.Dispatcher) {
			if produced.Add(1) <= 3 {
				dispatcher.Enqueue(d, Ping{ID: 1})
			}
		}),
	)
	require.NoError(t, err)
	startLoop(t, l)

	require.Eventually(t, func() bool { return c.total.Load() == 3 }, time.Second, time.Millisecond)
}

func TestLoop_RunWithErrgroup(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	c := &counter{}
	dispatcher.Connect(d, delegate.Bind(c, (*counter).OnPing))

	l, err := loop.New(d, loop.WithTickInterval(2*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(l.Run(gctx))

	require.Eventually(t, func() bool { return l.Stats().IsRunning }, time.Second, time.Millisecond)
	require.NoError(t, l.Do(ctx, func(d *dispatcher.Dispatcher) {
		dispatcher.Enqueue(d, Ping{ID: 6})
	}))
	require.Eventually(t, func() bool { return c.total.Load() == 6 }, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, g.Wait())
	assert.False(t, l.Stats().IsRunning)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cfg := loop.Config{
		TickInterval:    3 * time.Millisecond,
		ShutdownTimeout: time.Second,
		InboxSize:       4,
	}

	d := newDispatcher()
	c := &counter{}
	dispatcher.Connect(d, delegate.Bind(c, (*counter).OnPing))
	dispatcher.Enqueue(d, Ping{ID: 2})

	l, err := loop.NewFromConfig(cfg, d)
	require.NoError(t, err)
	startLoop(t, l)

	require.Eventually(t, func() bool { return c.total.Load() == 2 }, time.Second, time.Millisecond)
}

func TestNewFromConfig_ZeroConfig(t *testing.T) {
	t.Parallel()

	l, err := loop.NewFromConfig(loop.Config{}, newDispatcher())
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := loop.DefaultConfig()
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 64, cfg.InboxSize)
	assert.False(t, cfg.FinalDispatch)
}

// syncBuffer is a bytes.Buffer safe for concurrent writes from the loop goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
