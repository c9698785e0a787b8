package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/config"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/notify"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/playback"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/script"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/sequencer"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/store"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/tui"
)

// executeHeadless plays demos to stdout until they finish or a signal
// arrives.
func executeHeadless(cfg *config.Config, demos []script.Script) error {
	ctx, cancel := signalContext()
	defer cancel()

	hist, closeHist := openHistory(cfg)
	defer closeHist()

	var hooks []func(playback.Event)
	if cfg.Notifications.URL != "" {
		n := notify.New(cfg.Notifications.URL, cfg.Project.Name,
			cfg.Notifications.OnPass, cfg.Notifications.OnDone, cfg.Notifications.OnStop)
		hooks = append(hooks, n.Hook)
		defer n.Wait()
	}

	err := runHeadless(ctx, cfg, demos, os.Stdout, hist, hooks...)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runHeadless plays every demo concurrently. Events from all players are
// drained by one goroutine that prints them, appends them to the session
// log, updates the state file and passes them to hooks.
func runHeadless(ctx context.Context, cfg *config.Config, demos []script.Script, out io.Writer, hist store.Writer, hooks ...func(playback.Event)) error {
	events := make(chan playback.Event, 128)

	st := newStateTracker(cfg.Dir, sessionID(hist))
	st.save()

	prefix := len(demos) > 1
	drainDone := make(chan struct{})
	go func() {
		defer close(drainDone)
		for ev := range events {
			fmt.Fprintln(out, formatEvent(ev, prefix))
			if hist != nil {
				if err := hist.Append(ev); err != nil {
					log.Printf("history: %v", err)
				}
			}
			st.trackEvent(ev)
			for _, hook := range hooks {
				hook(ev)
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	for i, demo := range demos {
		p := &playback.Player{
			Script:    demo,
			Options:   sequencerOptions(cfg),
			Delayer:   newCalculator(cfg, pacingRand(cfg.Playback.Seed, uint64(i)+1)),
			Events:    events,
			MaxPasses: cfg.Playback.MaxPasses,
		}
		g.Go(func() error { return p.Run(gctx) })
	}

	runErr := g.Wait()
	close(events)
	<-drainDone

	st.finish()
	return runErr
}

// formatEvent renders an event as a timestamped output line. With prefix
// set, the demo name is included so interleaved demos stay readable.
func formatEvent(ev playback.Event, prefix bool) string {
	ts := ev.Timestamp.Format("15:04:05")
	if prefix {
		return fmt.Sprintf("[%s]  %-10s │ %s", ts, ev.Demo, ev.Message)
	}
	return fmt.Sprintf("[%s]  %s", ts, ev.Message)
}

// executeTUI plays demos in the terminal UI, starting with demos[active].
func executeTUI(cfg *config.Config, demos []script.Script, active int) error {
	ctx, cancel := signalContext()
	defer cancel()

	seq := sequencer.New(demos[active].Lines, newCalculator(cfg, pacingRand(cfg.Playback.Seed, 1)), nil, sequencerOptions(cfg))
	defer seq.Close()

	snaps, stopFollow := tui.Follow(seq)
	defer stopFollow()

	st := newStateTracker(cfg.Dir, "")
	st.state.Demo = demos[active].Name
	st.save()
	stopTracking := st.followSequencer(seq)
	defer func() {
		stopTracking()
		st.finish()
	}()

	model := tui.New(demos, seq, snaps, tui.Options{
		ProjectName: cfg.Project.Name,
		AccentColor: cfg.TUI.AccentColor,
		CursorBlink: cfg.TUI.CursorBlink(),
		Active:      active,
		OnSwitch:    func(d script.Script) { st.setDemo(d.Name) },
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	seq.Start()
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// openHistory creates the session log for this invocation and prunes old
// ones. History is best effort: on failure playback continues without it.
func openHistory(cfg *config.Config) (store.Store, func()) {
	if !cfg.History.Enabled {
		return nil, func() {}
	}
	dir := cfg.Resolve(cfg.History.Dir)
	if err := store.EnforceRetention(dir, cfg.History.Retention); err != nil {
		log.Printf("history: %v", err)
	}
	j, err := store.NewJSONL(dir)
	if err != nil {
		log.Printf("history disabled: %v", err)
		return nil, func() {}
	}
	return j, func() {
		if err := j.Close(); err != nil {
			log.Printf("history: %v", err)
		}
	}
}

func sessionID(w store.Writer) string {
	r, ok := w.(store.Reader)
	if !ok {
		return ""
	}
	s, err := r.SessionSummary()
	if err != nil {
		return ""
	}
	return s.SessionID
}

// stateTracker persists playback state to .showcase/state.json for
// `showcase status`.
type stateTracker struct {
	mu    sync.Mutex
	state store.State
	dir   string
}

func newStateTracker(dir, session string) *stateTracker {
	now := time.Now()
	return &stateTracker{
		dir: dir,
		state: store.State{
			PID:          os.Getpid(),
			SessionID:    session,
			Phase:        sequencer.PhaseIdle.String(),
			StartedAt:    now,
			LastOutputAt: now,
		},
	}
}

// trackEvent folds a headless playback event into the state.
func (s *stateTracker) trackEvent(ev playback.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Demo = ev.Demo
	s.state.LastOutputAt = ev.Timestamp
	switch ev.Kind {
	case playback.EventStart:
		s.state.Total = ev.Total
		s.state.Phase = sequencer.PhaseRevealing.String()
	case playback.EventReveal:
		s.state.Revealed = ev.Index + 1
		s.state.Total = ev.Total
		s.state.LoopIteration = ev.LoopIteration
		s.state.Phase = sequencer.PhaseRevealing.String()
	case playback.EventPass:
		s.state.LoopIteration = ev.LoopIteration
		s.state.Revealed = 0
	case playback.EventFreeze:
		s.state.Passes++
		s.state.Phase = sequencer.PhaseFrozen.String()
	case playback.EventDone:
		s.state.Passes++
		s.state.Phase = sequencer.PhaseDone.String()
	case playback.EventStopped:
		s.state.Phase = sequencer.PhaseIdle.String()
	}
	s.saveLocked()
}

// setDemo records a switch to a new demo in the TUI.
func (s *stateTracker) setDemo(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Demo = name
	s.state.Passes = 0
	s.state.Revealed = 0
	s.state.LoopIteration = 0
	s.saveLocked()
}

// trackSnapshot folds a TUI sequencer snapshot into the state. A pass is
// counted when the sequencer enters its freeze.
func (s *stateTracker) trackSnapshot(snap sequencer.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Phase == sequencer.PhaseFrozen && s.state.Phase != sequencer.PhaseFrozen.String() {
		s.state.Passes++
	}
	s.state.LoopIteration = snap.LoopIteration
	s.state.Revealed = snap.Revealed
	s.state.Total = snap.Total
	s.state.Phase = snap.Phase.String()
	s.state.LastOutputAt = time.Now()
	s.saveLocked()
}

// followSequencer tracks seq on a goroutine until the returned func is
// called.
func (s *stateTracker) followSequencer(seq *sequencer.Sequencer) func() {
	snaps, unsubscribe := tui.Follow(seq)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for {
			select {
			case <-done:
				return
			case snap := <-snaps:
				s.trackSnapshot(snap)
			}
		}
	}()
	return func() {
		unsubscribe()
		close(done)
		<-stopped
	}
}

func (s *stateTracker) save() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveLocked()
}

func (s *stateTracker) saveLocked() {
	if err := store.SaveState(s.dir, s.state); err != nil {
		log.Printf("state: %v", err)
	}
}

func (s *stateTracker) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.FinishedAt = time.Now()
	s.saveLocked()
}
