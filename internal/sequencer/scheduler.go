package sequencer

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Timer is a pending one-shot callback. Stop reports whether the call
// prevented the callback from running.
type Timer interface {
	Stop() bool
}

// Scheduler runs a callback once after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// RealScheduler schedules on the wall clock via time.AfterFunc. Callbacks
// run on their own goroutine.
type RealScheduler struct{}

// AfterFunc implements Scheduler.
func (RealScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// ManualScheduler is a fake clock for tests. Time only moves when Advance
// is called, and due callbacks run synchronously on the caller's goroutine.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	s        *ManualScheduler
	deadline time.Time
	seq      int
	fn       func()
	stopped  bool
	fired    bool
}

// NewManualScheduler returns a ManualScheduler whose clock starts at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// AfterFunc implements Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &manualTimer{s: s, deadline: s.now.Add(d), seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Stop implements Timer.
func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.s.removeLocked(t)
	return true
}

func (s *ManualScheduler) removeLocked(t *manualTimer) {
	for i, other := range s.timers {
		if other == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// Now returns the current fake time.
func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// MaxFiresPerAdvance caps the callbacks a single Advance may run. Callbacks
// that keep re-arming due timers panic instead of hanging the test.
const MaxFiresPerAdvance = 100000

// Advance moves the clock forward by d, firing every timer whose deadline
// falls inside the window in deadline order. Timers scheduled by a callback
// fire in the same call if they come due before the window ends.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	end := s.now.Add(d)
	s.mu.Unlock()

	for fired := 0; ; fired++ {
		s.mu.Lock()
		next := s.nextDueLocked(end)
		if next == nil {
			s.now = end
			s.mu.Unlock()
			return
		}
		if fired >= MaxFiresPerAdvance {
			s.mu.Unlock()
			panic(fmt.Sprintf("sequencer: Advance(%v) fired %d callbacks without draining; a callback keeps re-arming due timers", d, fired))
		}
		s.now = next.deadline
		next.fired = true
		s.removeLocked(next)
		fn := next.fn
		s.mu.Unlock()

		fn()
	}
}

// Flush fires every timer that is already due without moving the clock.
func (s *ManualScheduler) Flush() {
	s.Advance(0)
}

func (s *ManualScheduler) nextDueLocked(end time.Time) *manualTimer {
	if len(s.timers) == 0 {
		return nil
	}
	sort.SliceStable(s.timers, func(i, j int) bool {
		a, b := s.timers[i], s.timers[j]
		if a.deadline.Equal(b.deadline) {
			return a.seq < b.seq
		}
		return a.deadline.Before(b.deadline)
	})
	if s.timers[0].deadline.After(end) {
		return nil
	}
	return s.timers[0]
}
