package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/config"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/pacing"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/script"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/sequencer"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/store"
)

// loadConfig loads the --config file, or showcase.toml found upward from
// the working directory, falling back to defaults when there is none.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault("")
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration:\n%w", err)
	}
	return cfg, nil
}

// loadDemos returns the built-in demos (when enabled) followed by the
// scripts in scripts.dir. A script file named like a built-in replaces it.
func loadDemos(cfg *config.Config) ([]script.Script, error) {
	var demos []script.Script
	if cfg.Scripts.Builtin {
		demos = script.Builtins(seededRand(cfg.Playback.Seed, 0))
	}

	files, err := script.LoadDir(cfg.Resolve(cfg.Scripts.Dir))
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if idx, ok := demoIndex(demos, f.Name); ok {
			demos[idx] = f
			continue
		}
		demos = append(demos, f)
	}

	if len(demos) == 0 {
		return nil, fmt.Errorf("no demos: scripts.builtin is off and %s has no *.yaml scripts", cfg.Scripts.Dir)
	}
	return demos, nil
}

// seededRand returns a deterministic source for seed, or nil (random) when
// seed is 0. stream separates the sources derived from one seed.
func seededRand(seed int64, stream uint64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(uint64(seed), stream))
}

// pacingRand is seededRand as a pacing.Random; a zero seed yields a nil
// interface so the calculator falls back to the global source.
func pacingRand(seed int64, stream uint64) pacing.Random {
	if seed == 0 {
		return nil
	}
	return seededRand(seed, stream)
}

// newCalculator builds the delay calculator from the [pacing] section.
// A calculator must not be shared between sequencers when rng is non-nil.
func newCalculator(cfg *config.Config, rng pacing.Random) *pacing.Calculator {
	calc := pacing.New(rng)
	calc.Ranges = cfg.Pacing.Ranges
	calc.Jitter = cfg.Pacing.Jitter
	if len(cfg.Pacing.WorkingVerbs) > 0 {
		calc.WorkingVerbs = cfg.Pacing.WorkingVerbs
	}
	return calc
}

// sequencerOptions maps the [playback] section onto sequencer options.
func sequencerOptions(cfg *config.Config) sequencer.Options {
	return sequencer.Options{
		Loop:            cfg.Playback.Loop,
		Freeze:          cfg.Playback.Freeze(),
		MaxVisible:      cfg.Playback.MaxVisibleLines,
		MaxInstantChain: cfg.Playback.MaxInstantChain,
	}
}

func demoIndex(demos []script.Script, name string) (int, bool) {
	for i, d := range demos {
		if d.Name == name {
			return i, true
		}
	}
	return 0, false
}

func unknownDemoError(demos []script.Script, name string) error {
	return fmt.Errorf("unknown demo %q (available: %s)", name, strings.Join(script.Names(demos), ", "))
}

// selectDemos picks the demos to play headless: every demo with all, the
// named ones in order, or the first demo when no names are given.
func selectDemos(demos []script.Script, names []string, all bool) ([]script.Script, error) {
	if all {
		return demos, nil
	}
	if len(names) == 0 {
		return demos[:1], nil
	}
	selected := make([]script.Script, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		d, ok := script.Find(demos, name)
		if !ok {
			return nil, unknownDemoError(demos, name)
		}
		selected = append(selected, d)
	}
	return selected, nil
}

// listDemos prints the demo catalogue as a table.
func listDemos(w io.Writer, demos []script.Script) error {
	table := tablewriter.NewWriter(w)
	table.Header("Name", "Title", "Kind", "Lines", "Source")
	for _, d := range demos {
		if err := table.Append(d.Name, d.DisplayTitle(), string(d.Kind), fmt.Sprintf("%d", d.Len()), d.Source); err != nil {
			return err
		}
	}
	return table.Render()
}

// paceSamples draws n delays for line and prints their spread.
func paceSamples(w io.Writer, calc *pacing.Calculator, line script.Line, n int) error {
	r := calc.RangeFor(line)
	minMS, maxMS, sum := 0, 0, 0
	for i := 0; i < n; i++ {
		ms := calc.Millis(line)
		if i == 0 || ms < minMS {
			minMS = ms
		}
		if ms > maxMS {
			maxMS = ms
		}
		sum += ms
	}

	fmt.Fprintf(w, "Pacing for %q\n", line.Display())
	fmt.Fprintln(w, "──────────────────")
	fmt.Fprintf(w, "  %-12s %s\n", "Category:", line.Category)
	fmt.Fprintf(w, "  %-12s [%d, %d) ms ± %.0f%%\n", "Base range:", r.Min, r.Max, calc.Jitter*100)
	fmt.Fprintf(w, "  %-12s %d\n", "Samples:", n)
	fmt.Fprintf(w, "  %-12s %d ms\n", "Min:", minMS)
	fmt.Fprintf(w, "  %-12s %d ms\n", "Max:", maxMS)
	fmt.Fprintf(w, "  %-12s %.0f ms\n", "Mean:", float64(sum)/float64(n))
	return nil
}

// showStatus reads .showcase/state.json and prints a formatted summary.
func showStatus(w io.Writer, dir string) error {
	state, err := store.LoadState(dir)
	if err != nil {
		return err
	}

	if state.PID == 0 && state.StartedAt.IsZero() {
		fmt.Fprintln(w, "No playback state found. Run 'showcase play' first.")
		return nil
	}

	fmt.Fprintln(w, "Showcase Status")
	fmt.Fprintln(w, "───────────────")
	if state.Demo != "" {
		fmt.Fprintf(w, "  %-16s %s\n", "Demo:", state.Demo)
	}
	if state.Phase != "" {
		fmt.Fprintf(w, "  %-16s %s\n", "Phase:", state.Phase)
	}
	fmt.Fprintf(w, "  %-16s %d\n", "Pass:", state.LoopIteration+1)
	fmt.Fprintf(w, "  %-16s %d/%d\n", "Line:", state.Revealed, state.Total)
	fmt.Fprintf(w, "  %-16s %d\n", "Passes done:", state.Passes)
	if state.SessionID != "" {
		fmt.Fprintf(w, "  %-16s %s\n", "Session:", state.SessionID)
	}

	running := state.Running()
	if running {
		elapsed := time.Since(state.StartedAt).Round(time.Second)
		fmt.Fprintf(w, "  %-16s %s (running, pid %d)\n", "Duration:", elapsed, state.PID)
	} else if !state.FinishedAt.IsZero() {
		dur := state.FinishedAt.Sub(state.StartedAt).Round(time.Second)
		fmt.Fprintf(w, "  %-16s %s\n", "Duration:", dur)
	}
	if running && !state.LastOutputAt.IsZero() {
		ago := time.Since(state.LastOutputAt).Round(time.Second)
		fmt.Fprintf(w, "  %-16s %s ago\n", "Last output:", ago)
	}
	return nil
}

// showHistory prints the passes of the newest session log in dir.
func showHistory(w io.Writer, dir string) error {
	path, err := store.LatestSession(dir)
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(w, "No session logs found.")
		return nil
	}

	summary, passes, err := store.ReadSession(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Session %s  (%s)\n", summary.SessionID, summary.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "%d passes, %d lines, demos: %s\n\n", summary.Passes, summary.Lines, strings.Join(summary.Demos, ", "))

	table := tablewriter.NewWriter(w)
	table.Header("Demo", "Pass", "Lines", "Started", "Duration")
	for _, p := range passes {
		if err := table.Append(
			p.Demo,
			fmt.Sprintf("%d", p.Number),
			fmt.Sprintf("%d", p.Lines),
			p.StartAt.Format("15:04:05"),
			p.Duration().Round(time.Millisecond).String(),
		); err != nil {
			return err
		}
	}
	return table.Render()
}
