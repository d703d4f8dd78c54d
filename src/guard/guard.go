// Package guard is a facade over the platform clipboard that marks written
// content as sensitive and can clear it again after a delay, but only while
// the clipboard still holds the exact text that was written.
package guard

import (
	"fmt"
	"log"
	"math"
	"time"

	"secure-clipboard/src/clipboard"
	"secure-clipboard/src/logutil"
)

// Scheduler runs fn on the main execution context after d. Scheduled
// functions cannot be cancelled.
type Scheduler interface {
	PostDelayed(d time.Duration, fn func())
}

// Hooks observe auto-clear activity. They never receive clipboard text.
type Hooks struct {
	OnScheduled func(fireAt time.Time)
	OnFired     func(cleared bool)
}

// Guard must be driven from a single execution context; the Scheduler is
// expected to run expirations on that same context.
type Guard struct {
	provider clipboard.Provider
	sched    Scheduler
	hooks    Hooks
	now      func() time.Time
}

// New creates a Guard that obtains the clipboard through provider for every
// operation.
func New(provider clipboard.Provider, sched Scheduler, hooks Hooks) *Guard {
	return &Guard{provider: provider, sched: sched, hooks: hooks, now: time.Now}
}

func (g *Guard) service() (clipboard.Service, error) {
	if g.provider == nil {
		return nil, unavailable(nil)
	}
	svc, err := g.provider()
	if err != nil {
		return nil, unavailable(err)
	}
	if svc == nil {
		return nil, unavailable(nil)
	}
	return svc, nil
}

// MaxExpirationMs is the longest auto-clear delay that fits in a time.Duration.
const MaxExpirationMs = math.MaxInt64 / int64(time.Millisecond)

// Write replaces the clipboard content with text. When expirationMs > 0 a
// one-shot clear is scheduled that only fires if the clipboard still holds
// text byte-for-byte. Write returns once the content has landed.
func (g *Guard) Write(text string, expirationMs int64) error {
	if expirationMs < 0 || expirationMs > MaxExpirationMs {
		return &OpError{Op: OpWrite, Err: fmt.Errorf("%w: got %d, want 0..%d", ErrInvalidExpiration, expirationMs, MaxExpirationMs)}
	}
	svc, err := g.service()
	if err != nil {
		return err
	}

	sensitive := clipboard.SupportsSensitive(svc)
	if err := protect(func() error { return svc.WriteText(text, sensitive) }); err != nil {
		return &OpError{Op: OpWrite, Err: err}
	}
	log.Printf("guard: wrote %s sensitive=%v expiration=%dms", logutil.Describe(text), sensitive, expirationMs)

	if expirationMs > 0 {
		g.schedule(text, time.Duration(expirationMs)*time.Millisecond)
	}
	return nil
}

func (g *Guard) schedule(expected string, d time.Duration) {
	if g.sched == nil {
		log.Printf("guard: no scheduler, auto-clear dropped")
		return
	}
	fireAt := g.now().Add(d)
	g.sched.PostDelayed(d, func() { g.expire(expected) })
	if g.hooks.OnScheduled != nil {
		g.hooks.OnScheduled(fireAt)
	}
}

// expire is best effort: every failure is swallowed.
func (g *Guard) expire(expected string) {
	cleared := false
	defer func() {
		if r := recover(); r != nil {
			log.Printf("guard: auto-clear check panicked: %v", r)
		}
		if g.hooks.OnFired != nil {
			g.hooks.OnFired(cleared)
		}
	}()

	svc, err := g.service()
	if err != nil {
		log.Printf("guard: auto-clear skipped: %v", err)
		return
	}
	current, ok, err := svc.ReadText()
	if err != nil || !ok {
		return
	}
	if current != expected {
		log.Printf("guard: auto-clear skipped, clipboard was overwritten")
		return
	}
	if err := svc.Clear(); err != nil {
		log.Printf("guard: auto-clear failed: %v", err)
		return
	}
	cleared = true
	log.Printf("guard: auto-cleared %s", logutil.Describe(expected))
}

// Read returns the clipboard text, or "" when the clipboard is empty or
// holds no text item.
func (g *Guard) Read() (string, error) {
	svc, err := g.service()
	if err != nil {
		return "", err
	}
	var text string
	var ok bool
	err = protect(func() error {
		var rerr error
		text, ok, rerr = svc.ReadText()
		return rerr
	})
	if err != nil {
		return "", &OpError{Op: OpRead, Err: err}
	}
	if !ok {
		return "", nil
	}
	return text, nil
}

// Clear empties the clipboard unconditionally. Pending auto-clears are not
// affected.
func (g *Guard) Clear() error {
	svc, err := g.service()
	if err != nil {
		return err
	}
	if err := protect(svc.Clear); err != nil {
		return &OpError{Op: OpClear, Err: err}
	}
	log.Printf("guard: cleared")
	return nil
}

// protect turns a panic inside a platform call into an error.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("platform panic: %v", r)
		}
	}()
	return fn()
}
