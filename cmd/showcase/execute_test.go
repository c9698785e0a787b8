package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/config"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/pacing"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/playback"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/script"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Dir = t.TempDir()
	return &cfg
}

func writeDemo(t *testing.T, cfg *config.Config, name, content string) {
	t.Helper()
	dir := cfg.Resolve(cfg.Scripts.Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDemos(t *testing.T) {
	cfg := testConfig(t)
	writeDemo(t, cfg, "recon.yaml", "name: recon\ntitle: Custom recon\nlines:\n  - text: hi\n")
	writeDemo(t, cfg, "zz-extra.yaml", "name: extra\nlines:\n  - text: more\n")

	demos, err := loadDemos(cfg)
	if err != nil {
		t.Fatalf("loadDemos: %v", err)
	}
	names := strings.Join(script.Names(demos), ",")
	if names != "recon,assistant,metrics,extra" {
		t.Errorf("names = %s", names)
	}
	if demos[0].Title != "Custom recon" {
		t.Errorf("script file should replace the built-in, got %+v", demos[0])
	}
}

func TestLoadDemos_None(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scripts.Builtin = false
	if _, err := loadDemos(cfg); err == nil {
		t.Error("expected an error when there are no demos")
	}
}

func TestLoadDemos_SeedIsDeterministic(t *testing.T) {
	cfg := testConfig(t)
	cfg.Playback.Seed = 42
	a, err := loadDemos(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := loadDemos(cfg)
	for i := range a {
		for j := range a[i].Lines {
			if a[i].Lines[j].Text != b[i].Lines[j].Text {
				t.Fatalf("demo %s line %d differs between runs", a[i].Name, j)
			}
		}
	}
}

func TestSelectDemos(t *testing.T) {
	demos := []script.Script{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	tests := []struct {
		name    string
		args    []string
		all     bool
		want    string
		wantErr bool
	}{
		{"default first", nil, false, "a", false},
		{"all", []string{"b"}, true, "a,b,c", false},
		{"named order", []string{"c", "a"}, false, "c,a", false},
		{"duplicates", []string{"b", "b"}, false, "b", false},
		{"unknown", []string{"nope"}, false, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectDemos(demos, tt.args, tt.all)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && strings.Join(script.Names(got), ",") != tt.want {
				t.Errorf("selected %v, want %s", script.Names(got), tt.want)
			}
		})
	}
}

func TestUnknownDemoError(t *testing.T) {
	err := unknownDemoError([]script.Script{{Name: "recon"}, {Name: "metrics"}}, "x")
	if !strings.Contains(err.Error(), "recon, metrics") {
		t.Errorf("error should list available demos: %v", err)
	}
}

func TestNewCalculator(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pacing.Prompt = pacing.Range{Min: 10, Max: 20}
	cfg.Pacing.Jitter = 0
	cfg.Pacing.WorkingVerbs = []string{"crunching"}

	calc := newCalculator(cfg, nil)
	for i := 0; i < 50; i++ {
		if ms := calc.Millis(script.P("ls")); ms < 10 || ms > 20 {
			t.Fatalf("prompt delay %d outside [10,20]", ms)
		}
	}
	if calc.RangeFor(script.S("crunching numbers")) != cfg.Pacing.StatusWorking {
		t.Error("configured working verbs should select the working range")
	}
}

func TestPacingRand(t *testing.T) {
	if pacingRand(0, 1) != nil {
		t.Error("zero seed should yield a nil source")
	}
	a, b := pacingRand(7, 1), pacingRand(7, 1)
	if a.Float64() != b.Float64() {
		t.Error("same seed and stream should agree")
	}
}

func TestSequencerOptions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Playback.FreezeMS = 1500
	opts := sequencerOptions(cfg)
	if !opts.Loop || opts.Freeze != 1500*time.Millisecond || opts.MaxVisible != 15 || opts.MaxInstantChain != 256 {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestListDemos(t *testing.T) {
	var buf bytes.Buffer
	demos := []script.Script{
		{Name: "recon", Title: "Network recon", Kind: script.KindTerminal, Lines: make([]script.Line, 12), Source: "builtin"},
	}
	if err := listDemos(&buf, demos); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"recon", "Network recon", "terminal", "12", "builtin"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("table missing %q:\n%s", want, buf.String())
		}
	}
}

type constRand float64

func (c constRand) Float64() float64 { return float64(c) }

func TestPaceSamples(t *testing.T) {
	calc := pacing.New(constRand(0.5))
	calc.Jitter = 0
	var buf bytes.Buffer
	if err := paceSamples(&buf, calc, script.P("ls"), 10); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"$ ls", "prompt", "[500, 800) ms", "Samples:     10", "Min:         650 ms", "Mean:        650 ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowStatus(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := showStatus(&buf, dir); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No playback state") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	start := time.Now().Add(-time.Minute)
	if err := store.SaveState(dir, store.State{
		PID: 123, Demo: "recon", Phase: "frozen", LoopIteration: 2, Revealed: 9, Total: 9, Passes: 3,
		StartedAt: start, FinishedAt: start.Add(30 * time.Second),
	}); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := showStatus(&buf, dir); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"recon", "frozen", "Pass:            3", "9/9", "30s"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("status missing %q:\n%s", want, buf.String())
		}
	}
}

func TestShowHistory(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := showHistory(&buf, dir); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No session logs") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	j, err := store.NewJSONL(dir)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	for _, ev := range []playback.Event{
		{Kind: playback.EventStart, Demo: "recon", Timestamp: now},
		{Kind: playback.EventReveal, Demo: "recon", Timestamp: now, Index: 0},
		{Kind: playback.EventReveal, Demo: "recon", Timestamp: now, Index: 1},
		{Kind: playback.EventDone, Demo: "recon", Timestamp: now.Add(2 * time.Second), Passes: 1},
	} {
		if err := j.Append(ev); err != nil {
			t.Fatal(err)
		}
	}
	j.Close()

	buf.Reset()
	if err := showHistory(&buf, dir); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"1 passes, 2 lines", "recon", "2s"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("history missing %q:\n%s", want, buf.String())
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
