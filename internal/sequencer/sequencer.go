// Package sequencer plays back a fixed sequence of scripted lines one at a
// time, pacing each reveal with a Delayer and looping the whole sequence
// after a freeze. Renderers read a Snapshot: the trailing window of visible
// lines plus a cursor flag.
package sequencer

import (
	"sort"
	"sync"
	"time"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/script"
)

// Delayer computes how long a line stays pending before it is revealed.
// A zero or negative delay reveals the line immediately.
type Delayer interface {
	Delay(line script.Line) time.Duration
}

// DelayFunc adapts an ordinary function to Delayer.
type DelayFunc func(script.Line) time.Duration

// Delay implements Delayer.
func (f DelayFunc) Delay(line script.Line) time.Duration { return f(line) }

// Defaults for Options.
const (
	DefaultFreeze          = 5 * time.Second
	DefaultMaxVisible      = 15
	DefaultMaxInstantChain = 256

	// IdleFreeze replaces a zero freeze after a pass in which every line
	// was revealed instantly, so a looping all-instant sequence still
	// waits on the clock between passes.
	IdleFreeze = 100 * time.Millisecond
)

// Options configures playback.
type Options struct {
	Loop       bool          // restart after Freeze once a pass completes
	Freeze     time.Duration // pause between passes
	MaxVisible int           // trailing window size; <= 0 shows every line

	// MaxInstantChain bounds how many zero-delay lines are revealed in one
	// synchronous burst before yielding through a zero-delay timer.
	// <= 0 disables the bound.
	MaxInstantChain int
}

// DefaultOptions returns looping playback with a 5s freeze and a 15 line
// window.
func DefaultOptions() Options {
	return Options{
		Loop:            true,
		Freeze:          DefaultFreeze,
		MaxVisible:      DefaultMaxVisible,
		MaxInstantChain: DefaultMaxInstantChain,
	}
}

// VisibleLine is a line inside the visible window.
type VisibleLine struct {
	script.Line
	Index     int  // position in the full sequence
	Animating bool // true only for the line mid-reveal
}

// Snapshot is a settled, read-only view of playback state.
type Snapshot struct {
	Visible       []VisibleLine
	ShowCursor    bool
	Complete      bool
	LoopIteration int
	Revealed      int
	Animating     bool
	Frozen        bool
	Phase         Phase
	Total         int

	// Version increases with every state change so consumers receiving
	// snapshots from several goroutines can drop stale ones.
	Version uint64
}

// Sequencer owns the playback state for one line sequence. It is safe for
// concurrent use; timer callbacks and callers serialize on an internal lock.
type Sequencer struct {
	mu    sync.Mutex
	lines []script.Line
	opts  Options
	delay Delayer
	sched Scheduler

	timer Timer
	gen   uint64 // bumped on reset; callbacks from older generations are dropped

	revealed      int
	loopIteration int
	animating     bool
	frozen        bool
	timedPass     bool // a positive-delay reveal was armed in this pass
	phase         Phase
	version       uint64
	closed        bool

	subs    map[int]func(Snapshot)
	nextSub int
}

// New creates a Sequencer for lines. Nothing is scheduled until Start.
// A nil delay reveals every line instantly; a nil sched uses the wall clock.
func New(lines []script.Line, delay Delayer, sched Scheduler, opts Options) *Sequencer {
	if delay == nil {
		delay = DelayFunc(func(script.Line) time.Duration { return 0 })
	}
	if sched == nil {
		sched = RealScheduler{}
	}
	return &Sequencer{
		lines: cloneLines(lines),
		opts:  opts,
		delay: delay,
		sched: sched,
		subs:  make(map[int]func(Snapshot)),
	}
}

func cloneLines(lines []script.Line) []script.Line {
	out := make([]script.Line, len(lines))
	copy(out, lines)
	return out
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs outside the sequencer's lock, possibly on a timer goroutine, and
// must not block. The returned func removes the subscription.
func (s *Sequencer) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Start begins playback from the current state. It is a no-op unless the
// sequencer is idle.
func (s *Sequencer) Start() {
	s.mu.Lock()
	if s.closed || s.phase != PhaseIdle || s.timer != nil {
		s.mu.Unlock()
		return
	}
	s.step()
	snaps, subs := s.publishLocked(nil)
	s.mu.Unlock()
	deliver(subs, snaps)
}

// Reset cancels any pending timer and returns every counter to its initial
// value. Playback stays idle until Start is called again.
func (s *Sequencer) Reset() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.resetLocked()
	snaps, subs := s.publishLocked(nil)
	s.mu.Unlock()
	deliver(subs, snaps)
}

// Restart resets and immediately starts a new pass of the same sequence.
func (s *Sequencer) Restart() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.resetLocked()
	s.step()
	snaps, subs := s.publishLocked(nil)
	s.mu.Unlock()
	deliver(subs, snaps)
}

// Replace swaps in a new line sequence and starts it from the beginning.
// Switching sequences always goes through a reset, so a timer scheduled
// for the old sequence can never reveal a line of the new one.
func (s *Sequencer) Replace(lines []script.Line) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.resetLocked()
	s.lines = cloneLines(lines)
	s.step()
	snaps, subs := s.publishLocked(nil)
	s.mu.Unlock()
	deliver(subs, snaps)
}

// Close cancels any pending timer and drops all subscribers. The sequencer
// cannot be used afterwards.
func (s *Sequencer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.resetLocked()
	s.closed = true
	s.subs = nil
}

// Snapshot returns the current state.
func (s *Sequencer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Len returns the number of lines in the current sequence.
func (s *Sequencer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Options returns the playback options.
func (s *Sequencer) Options() Options {
	return s.opts
}

func (s *Sequencer) resetLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.revealed = 0
	s.loopIteration = 0
	s.animating = false
	s.frozen = false
	s.timedPass = false
	s.phase = PhaseIdle
}

// step runs the scheduling algorithm until it has to wait: a line with a
// positive delay, the freeze between passes, or the end of playback.
// Zero-delay lines are revealed in the same call.
func (s *Sequencer) step() {
	chain := 0
	for {
		if s.revealed >= len(s.lines) {
			s.animating = false
			if len(s.lines) == 0 || !s.opts.Loop {
				s.setPhase(PhaseDone)
				return
			}
			s.frozen = true
			s.setPhase(PhaseFrozen)
			freeze := s.opts.Freeze
			if freeze <= 0 && !s.timedPass {
				freeze = IdleFreeze
			}
			s.schedule(freeze, s.endFreeze)
			return
		}

		s.setPhase(PhaseRevealing)
		if d := s.delay.Delay(s.lines[s.revealed]); d > 0 {
			s.animating = true
			s.timedPass = true
			s.schedule(d, s.revealCurrent)
			return
		}

		s.animating = false
		s.revealed++
		chain++
		if s.opts.MaxInstantChain > 0 && chain >= s.opts.MaxInstantChain && s.revealed < len(s.lines) {
			s.schedule(0, func() {})
			return
		}
	}
}

func (s *Sequencer) revealCurrent() {
	s.animating = false
	s.revealed++
}

// endFreeze is the only place revealed returns to 0 outside a reset.
func (s *Sequencer) endFreeze() {
	s.loopIteration++
	s.revealed = 0
	s.frozen = false
	s.timedPass = false
}

func (s *Sequencer) setPhase(next Phase) {
	if s.phase == next {
		return
	}
	if s.phase.CanTransitionTo(next) {
		s.phase = next
	}
}

// schedule arms the single pending timer. The callback is bound to the
// current generation so a timer that escapes Stop after a reset is ignored.
func (s *Sequencer) schedule(d time.Duration, apply func()) {
	gen := s.gen
	s.timer = s.sched.AfterFunc(d, func() { s.fire(gen, apply) })
}

func (s *Sequencer) fire(gen uint64, apply func()) {
	s.mu.Lock()
	if s.closed || gen != s.gen || s.timer == nil {
		s.mu.Unlock()
		return
	}
	s.timer = nil

	var pre []Snapshot
	wasFrozen := s.frozen
	apply()
	if wasFrozen {
		// Publish the start of the new pass before any instant lines land.
		s.version++
		pre = append(pre, s.snapshotLocked())
	}
	s.step()
	snaps, subs := s.publishLocked(pre)
	s.mu.Unlock()
	deliver(subs, snaps)
}

func (s *Sequencer) publishLocked(pre []Snapshot) ([]Snapshot, []func(Snapshot)) {
	s.version++
	snaps := append(pre, s.snapshotLocked())
	if len(s.subs) == 0 {
		return snaps, nil
	}
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]func(Snapshot), len(ids))
	for i, id := range ids {
		subs[i] = s.subs[id]
	}
	return snaps, subs
}

func deliver(subs []func(Snapshot), snaps []Snapshot) {
	for _, snap := range snaps {
		for _, fn := range subs {
			fn(snap)
		}
	}
}

func (s *Sequencer) snapshotLocked() Snapshot {
	total := s.revealed
	if s.animating {
		total++
	}
	if total > len(s.lines) {
		total = len(s.lines)
	}
	start := 0
	if s.opts.MaxVisible > 0 && total > s.opts.MaxVisible {
		start = total - s.opts.MaxVisible
	}

	visible := make([]VisibleLine, 0, total-start)
	for i := start; i < total; i++ {
		visible = append(visible, VisibleLine{
			Line:      s.lines[i],
			Index:     i,
			Animating: s.animating && i == s.revealed,
		})
	}

	complete := s.revealed >= len(s.lines)
	return Snapshot{
		Visible:       visible,
		ShowCursor:    s.animating && !complete,
		Complete:      complete,
		LoopIteration: s.loopIteration,
		Revealed:      s.revealed,
		Animating:     s.animating,
		Frozen:        s.frozen,
		Phase:         s.phase,
		Total:         len(s.lines),
		Version:       s.version,
	}
}
