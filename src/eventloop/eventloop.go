package eventloop

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// ErrClosed is returned by Post once the loop has stopped.
var ErrClosed = errors.New("event loop stopped")

// Loop is the single-threaded main execution context. Posted functions run
// one at a time, in order, on the goroutine that called Run.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once

	mu      sync.Mutex
	pending int
	idle    chan struct{}
}

// New creates a loop with a task queue of the given size (64 when size<=0).
func New(size int) *Loop {
	if size <= 0 {
		size = 64
	}
	idle := make(chan struct{})
	close(idle)
	return &Loop{
		tasks: make(chan func(), size),
		done:  make(chan struct{}),
		idle:  idle,
	}
}

// Run executes posted functions until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			l.exec(fn)
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("eventloop: PANIC in task: %v", r)
		}
	}()
	fn()
}

func (l *Loop) stop() {
	l.once.Do(func() { close(l.done) })
}

// Post queues fn for execution on the loop. It blocks while the queue is
// full and fails with ErrClosed once the loop has stopped.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// PostDelayed posts fn into the loop after d. There is no cancel handle:
// once scheduled, fn runs unless the loop stops first.
func (l *Loop) PostDelayed(d time.Duration, fn func()) {
	l.track()
	time.AfterFunc(d, func() {
		err := l.Post(func() {
			defer l.untrack()
			fn()
		})
		if err != nil {
			l.untrack()
		}
	})
}

func (l *Loop) track() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending == 0 {
		l.idle = make(chan struct{})
	}
	l.pending++
}

func (l *Loop) untrack() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending--
	if l.pending == 0 {
		close(l.idle)
	}
}

// Pending returns the number of delayed functions that have not run yet.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Wait blocks until no delayed function is pending or ctx is done.
func (l *Loop) Wait(ctx context.Context) error {
	l.mu.Lock()
	idle := l.idle
	l.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }
