package loop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/emit/core/dispatcher"
	"github.com/dmitrymomot/emit/core/logger"
)

// Loop owns a dispatcher and dispatches it on a fixed tick.
type Loop struct {
	id         uuid.UUID
	dispatcher *dispatcher.Dispatcher
	inbox      chan job
	beforeTick []func(*dispatcher.Dispatcher)

	tickInterval    time.Duration
	shutdownTimeout time.Duration
	finalDispatch   bool
	logger          *slog.Logger

	// State management
	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{} // closed when the current run exits

	// Observability metrics
	running    atomic.Bool
	ticks      atomic.Int64
	jobs       atomic.Int64
	panics     atomic.Int64
	lastTickAt atomic.Int64
}

// Stats provides observability metrics for monitoring and debugging.
type Stats struct {
	ID         string    // Loop instance identifier, also attached to log records
	Ticks      int64     // Completed ticks
	Jobs       int64     // Jobs run from Do and Post
	Panics     int64     // Recovered listener and job panics
	IsRunning  bool      // Whether the loop goroutine is running
	LastTickAt time.Time // Zero until the first tick completes
}

type job struct {
	fn   func(*dispatcher.Dispatcher)
	done chan error // nil for Post
}

// New creates a loop for d. The loop does nothing until Start or Run is called.
func New(d *dispatcher.Dispatcher, opts ...Option) (*Loop, error) {
	if d == nil {
		return nil, ErrDispatcherNil
	}

	cfg := DefaultConfig()
	o := &options{
		tickInterval:    cfg.TickInterval,
		shutdownTimeout: cfg.ShutdownTimeout,
		inboxSize:       cfg.InboxSize,
		finalDispatch:   cfg.FinalDispatch,
		logger:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Loop{
		id:              uuid.New(),
		dispatcher:      d,
		inbox:           make(chan job, o.inboxSize),
		beforeTick:      o.beforeTick,
		tickInterval:    o.tickInterval,
		shutdownTimeout: o.shutdownTimeout,
		finalDispatch:   o.finalDispatch,
		logger:          o.logger,
	}, nil
}

// NewFromConfig creates a Loop from configuration.
// Additional options can override config values.
func NewFromConfig(cfg Config, d *dispatcher.Dispatcher, opts ...Option) (*Loop, error) {
	allOpts := append([]Option{
		WithTickInterval(cfg.TickInterval),
		WithShutdownTimeout(cfg.ShutdownTimeout),
		WithInboxSize(cfg.InboxSize),
		WithFinalDispatch(cfg.FinalDispatch),
	}, opts...)

	return New(d, allOpts...)
}

// ID returns the loop instance identifier.
func (l *Loop) ID() string {
	return l.id.String()
}

// Start runs the loop on the calling goroutine until ctx is cancelled or Stop is
// called. Use Run() for errgroup pattern or call this in a goroutine.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.cancel != nil {
		l.mu.Unlock()
		return ErrLoopAlreadyStarted
	}

	// Jobs that slipped into the inbox while a previous run was exiting have
	// already been answered with ErrLoopStopped.
	l.discardInbox()

	ctx, cancel := context.WithCancel(ctx)
	stopped := make(chan struct{})
	l.cancel = cancel
	l.stopped = stopped
	l.mu.Unlock()

	l.running.Store(true)

	ticker := time.NewTicker(l.tickInterval)

	defer func() {
		ticker.Stop()
		l.shutdown()
		cancel()

		l.mu.Lock()
		l.cancel = nil
		l.mu.Unlock()

		l.running.Store(false)
		close(stopped)
	}()

	l.logger.InfoContext(ctx, "loop started",
		logger.ID("loop_id", l.ID()),
		logger.Duration("tick_interval", l.tickInterval))

	for {
		select {
		case <-ctx.Done():
			l.logger.InfoContext(context.Background(), "loop stopping",
				logger.ID("loop_id", l.ID()))
			return ctx.Err()
		case <-ticker.C:
			l.tick()
		case j := <-l.inbox:
			l.run(j)
		}
	}
}

// Stop cancels the running loop and waits for it to exit.
// Returns an error if the shutdown timeout is exceeded.
func (l *Loop) Stop() error {
	l.mu.Lock()
	if l.cancel == nil {
		l.mu.Unlock()
		return ErrLoopNotStarted
	}
	cancel := l.cancel
	stopped := l.stopped
	l.mu.Unlock()

	cancel()

	select {
	case <-stopped:
		l.logger.InfoContext(context.Background(), "loop stopped cleanly",
			logger.ID("loop_id", l.ID()))
		return nil
	case <-time.After(l.shutdownTimeout):
		l.logger.WarnContext(context.Background(), "loop shutdown timeout exceeded",
			logger.ID("loop_id", l.ID()),
			logger.Duration("timeout", l.shutdownTimeout))
		return fmt.Errorf("%w after %s", ErrShutdownTimeout, l.shutdownTimeout)
	}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// Returns a function that starts the loop, monitors context cancellation,
// and performs graceful shutdown when the context is cancelled.
func (l *Loop) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- l.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = l.Stop()
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
// A panic in fn is returned as an error wrapping ErrJobPanicked.
//
// Do must not be called from the loop goroutine itself: from a listener, a
// WithBeforeTick hook or another job. The job is queued behind the caller and
// cannot run until it returns, so Do blocks until ctx is done and returns
// ctx.Err(). Code running on the loop goroutine already owns the dispatcher and
// should use it directly.
func (l *Loop) Do(ctx context.Context, fn func(*dispatcher.Dispatcher)) error {
	stopped, ok := l.current()
	if !ok {
		return ErrLoopNotStarted
	}

	j := job{fn: fn, done: make(chan error, 1)}

	select {
	case l.inbox <- j:
	case <-ctx.Done():
		return ctx.Err()
	case <-stopped:
		return ErrLoopStopped
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-stopped:
		select {
		case err := <-j.done:
			return err
		default:
			return ErrLoopStopped
		}
	}
}

// Post queues fn to run on the loop goroutine without waiting.
// Returns ErrInboxFull when the inbox has no free capacity.
func (l *Loop) Post(fn func(*dispatcher.Dispatcher)) error {
	if _, ok := l.current(); !ok {
		return ErrLoopNotStarted
	}

	select {
	case l.inbox <- job{fn: fn}:
		return nil
	default:
		return ErrInboxFull
	}
}

// Flush dispatches pending events now instead of waiting for the next tick.
// Like Do, it must not be called from the loop goroutine.
func (l *Loop) Flush(ctx context.Context) error {
	return l.Do(ctx, func(d *dispatcher.Dispatcher) {
		d.Dispatch()
	})
}

// Stats returns current loop metrics.
func (l *Loop) Stats() Stats {
	s := Stats{
		ID:        l.ID(),
		Ticks:     l.ticks.Load(),
		Jobs:      l.jobs.Load(),
		Panics:    l.panics.Load(),
		IsRunning: l.running.Load(),
	}
	if ns := l.lastTickAt.Load(); ns > 0 {
		s.LastTickAt = time.Unix(0, ns)
	}
	return s
}

func (l *Loop) current() (chan struct{}, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.stopped, l.cancel != nil
}

// tick dispatches every pipeline once.
func (l *Loop) tick() {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			l.panics.Add(1)
			l.logger.ErrorContext(context.Background(), "listener panicked during tick",
				logger.ID("loop_id", l.ID()),
				logger.Panic(r))
		}
	}()

	for _, fn := range l.beforeTick {
		fn(l.dispatcher)
	}
	l.dispatcher.Dispatch()

	l.ticks.Add(1)
	l.lastTickAt.Store(time.Now().UnixNano())

	l.logger.DebugContext(context.Background(), "tick",
		logger.ID("loop_id", l.ID()),
		logger.Elapsed(start))
}

func (l *Loop) run(j job) {
	err := l.safeRun(j.fn)
	l.jobs.Add(1)

	if j.done != nil {
		j.done <- err
		return
	}
	if err != nil {
		l.logger.ErrorContext(context.Background(), "posted job failed",
			logger.ID("loop_id", l.ID()),
			logger.Error(err))
	}
}

func (l *Loop) safeRun(fn func(*dispatcher.Dispatcher)) (err error) {
	if fn == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			l.panics.Add(1)
			err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
		}
	}()

	fn(l.dispatcher)
	return nil
}

// shutdown handles jobs still buffered when the loop exits.
func (l *Loop) shutdown() {
	if !l.finalDispatch {
		if n := l.discardInbox(); n > 0 {
			l.logger.WarnContext(context.Background(), "discarded pending jobs",
				logger.ID("loop_id", l.ID()),
				logger.Count("jobs", n))
		}
		return
	}

	for {
		select {
		case j := <-l.inbox:
			l.run(j)
		default:
			l.tick()
			return
		}
	}
}

// discardInbox empties the inbox, answering waiting Do callers with ErrLoopStopped.
func (l *Loop) discardInbox() int {
	n := 0
	for {
		select {
		case j := <-l.inbox:
			if j.done != nil {
				j.done <- ErrLoopStopped
			}
			n++
		default:
			return n
		}
	}
}
