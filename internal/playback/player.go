// Package playback drives a sequencer for one demo script and turns its
// snapshots into a stream of discrete events for headless output, session
// history and the status file.
package playback

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/script"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/sequencer"
)

// Player plays one script to completion, or for MaxPasses passes when the
// script loops.
type Player struct {
	Script    script.Script
	Options   sequencer.Options
	Delayer   sequencer.Delayer
	Scheduler sequencer.Scheduler // defaults to the wall clock

	Events    chan<- Event // when set, events are sent here instead of Log
	Log       io.Writer    // output destination; defaults to os.Stdout
	MaxPasses int          // 0 means until cancelled (looping) or done
	Now       func() time.Time
}

// tracker remembers what has already been reported so each snapshot only
// produces the events for what changed.
type tracker struct {
	version   uint64
	revealed  int
	iteration int
	frozen    bool
	passes    int
}

// Run plays the script until the sequence is done, MaxPasses passes have
// completed, or ctx is cancelled. The sequencer is always closed on return.
func (p *Player) Run(ctx context.Context) error {
	seq := sequencer.New(p.Script.Lines, p.Delayer, p.Scheduler, p.Options)
	defer seq.Close()

	stop := make(chan struct{})
	defer close(stop)
	updates := make(chan sequencer.Snapshot, 64)
	unsubscribe := seq.Subscribe(func(snap sequencer.Snapshot) {
		select {
		case updates <- snap:
		case <-stop:
		}
	})
	defer unsubscribe()

	p.emit(ctx, Event{
		Kind:    EventStart,
		Total:   seq.Len(),
		Message: fmt.Sprintf("Playing %s (%d lines, %s)", p.Script.DisplayTitle(), seq.Len(), p.passLabel()),
	})
	seq.Start()

	var st tracker
	for {
		select {
		case <-ctx.Done():
			stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			p.emit(stopCtx, Event{
				Kind:          EventStopped,
				LoopIteration: st.iteration,
				Passes:        st.passes,
				Message:       fmt.Sprintf("Playback stopped: %v", ctx.Err()),
			})
			return ctx.Err()
		case snap := <-updates:
			if snap.Version <= st.version {
				continue
			}
			st.version = snap.Version
			if p.observe(ctx, &st, snap) {
				return nil
			}
		}
	}
}

// observe emits the events implied by snap and reports whether playback
// is finished.
func (p *Player) observe(ctx context.Context, st *tracker, snap sequencer.Snapshot) bool {
	if snap.LoopIteration != st.iteration {
		st.iteration = snap.LoopIteration
		st.revealed = 0
		st.frozen = false
		p.emit(ctx, Event{
			Kind:          EventPass,
			LoopIteration: st.iteration,
			Passes:        st.passes,
			Message:       fmt.Sprintf("── pass %d ──", st.iteration+1),
		})
	}

	for i := st.revealed; i < snap.Revealed && i < len(p.Script.Lines); i++ {
		line := p.Script.Lines[i]
		p.emit(ctx, Event{
			Kind:          EventReveal,
			Line:          line,
			Index:         i,
			Total:         snap.Total,
			LoopIteration: st.iteration,
			Message:       formatLine(line),
		})
	}
	if snap.Revealed > st.revealed {
		st.revealed = snap.Revealed
	}

	switch {
	case snap.Phase == sequencer.PhaseDone:
		st.passes++
		p.emit(ctx, Event{
			Kind:          EventDone,
			LoopIteration: st.iteration,
			Passes:        st.passes,
			Message:       fmt.Sprintf("Playback complete — %d lines", snap.Total),
		})
		return true
	case snap.Frozen && !st.frozen:
		st.frozen = true
		st.passes++
		if p.MaxPasses > 0 && st.passes >= p.MaxPasses {
			p.emit(ctx, Event{
				Kind:          EventDone,
				LoopIteration: st.iteration,
				Passes:        st.passes,
				Message:       fmt.Sprintf("Playback complete — %d passes", st.passes),
			})
			return true
		}
		p.emit(ctx, Event{
			Kind:          EventFreeze,
			LoopIteration: st.iteration,
			Passes:        st.passes,
			Message:       fmt.Sprintf("Pass %d complete, looping in %s", st.passes, p.Options.Freeze),
		})
	}
	return false
}

// formatLine renders a line the way headless output shows it.
func formatLine(line script.Line) string {
	if line.Speaker != "" {
		return line.Speaker + ": " + line.Text
	}
	if line.Value != nil {
		return fmt.Sprintf("%s  [%.1f]", line.Display(), *line.Value)
	}
	return line.Display()
}

func (p *Player) passLabel() string {
	if !p.Options.Loop {
		return "single pass"
	}
	if p.MaxPasses > 0 {
		return fmt.Sprintf("%d passes", p.MaxPasses)
	}
	return "looping"
}

func (p *Player) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// emit sends ev to Events if set, otherwise writes it to Log. A send that
// would block past ctx cancellation is dropped.
func (p *Player) emit(ctx context.Context, ev Event) {
	ev.Timestamp = p.now()
	ev.Demo = p.Script.Name
	if p.Events != nil {
		select {
		case p.Events <- ev:
		case <-ctx.Done():
		}
		return
	}
	w := p.Log
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "[%s]  %s\n", ev.Timestamp.Format("15:04:05"), ev.Message)
}
