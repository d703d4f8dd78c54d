package guard

import (
	"sync/atomic"
	"time"
)

// Stats counts auto-clear outcomes. It is safe to read from any goroutine.
type Stats struct {
	scheduled atomic.Int64
	cleared   atomic.Int64
	skipped   atomic.Int64
	onChange  func()
}

// NewStats returns counters; onChange, if set, is called after every update.
func NewStats(onChange func()) *Stats {
	return &Stats{onChange: onChange}
}

// Hooks returns Guard hooks that feed s.
func (s *Stats) Hooks() Hooks {
	return Hooks{
		OnScheduled: func(time.Time) {
			s.scheduled.Add(1)
			s.changed()
		},
		OnFired: func(cleared bool) {
			if cleared {
				s.cleared.Add(1)
			} else {
				s.skipped.Add(1)
			}
			s.changed()
		},
	}
}

func (s *Stats) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Snapshot returns (scheduled, cleared, skipped).
func (s *Stats) Snapshot() (scheduled, cleared, skipped int64) {
	return s.scheduled.Load(), s.cleared.Load(), s.skipped.Load()
}
