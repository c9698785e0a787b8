package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/script"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/sequencer"
)

var epoch = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func testDemos() []script.Script {
	return []script.Script{
		{Name: "recon", Title: "Network recon", Kind: script.KindTerminal, Lines: []script.Line{
			script.P("nmap -sV target"), script.S("scanning ports"), script.OK("3 services found"),
		}},
		{Name: "assistant", Kind: script.KindChat, Lines: []script.Line{
			{Text: "hello there", Speaker: "you"},
			{Text: "hi, how can I help?", Speaker: "assistant"},
		}},
		{Name: "metrics", Kind: script.KindChart, Lines: []script.Line{
			script.T("Q1").WithValue(120),
			script.T("Q2").WithValue(180),
			script.T("revenue up 50%"),
		}},
	}
}

type harness struct {
	sched *sequencer.ManualScheduler
	seq   *sequencer.Sequencer
	snaps <-chan sequencer.Snapshot
	stop  func()
}

func newHarness(t *testing.T, lines []script.Line) *harness {
	t.Helper()
	sched := sequencer.NewManualScheduler(epoch)
	seq := sequencer.New(lines, sequencer.DelayFunc(func(script.Line) time.Duration { return time.Second }), sched, sequencer.Options{
		Loop:       true,
		Freeze:     500 * time.Millisecond,
		MaxVisible: 15,
	})
	snaps, stop := Follow(seq)
	t.Cleanup(func() {
		stop()
		seq.Close()
	})
	return &harness{sched: sched, seq: seq, snaps: snaps, stop: stop}
}

func newTestModel(t *testing.T) (Model, *harness) {
	t.Helper()
	demos := testDemos()
	h := newHarness(t, demos[0].Lines)
	m := New(demos, h.seq, h.snaps, Options{ProjectName: "TestProject"})
	h.seq.Start()
	return m, h
}

// pump feeds the newest forwarded snapshot into the model.
func pump(t *testing.T, m Model, h *harness) Model {
	t.Helper()
	select {
	case snap := <-h.snaps:
		updated, cmd := m.Update(snapshotMsg(snap))
		if cmd == nil {
			t.Fatal("snapshot handling should re-arm the listener")
		}
		return updated.(Model)
	default:
		t.Fatal("no snapshot was forwarded")
		return m
	}
}

func press(m Model, keys string) Model {
	var msg tea.KeyMsg
	switch keys {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestNew_Defaults(t *testing.T) {
	m, _ := newTestModel(t)
	if m.width != 80 || m.height != 24 {
		t.Errorf("default size = %dx%d, want 80x24", m.width, m.height)
	}
	if m.Active() != 0 {
		t.Errorf("active = %d, want 0", m.Active())
	}
	if !m.cursorOn {
		t.Error("cursor should start visible")
	}
}

func TestInit_ReturnsCmd(t *testing.T) {
	m, _ := newTestModel(t)
	if m.Init() == nil {
		t.Error("Init() should return a non-nil command")
	}
}

func TestUpdate_SnapshotRendersLines(t *testing.T) {
	m, h := newTestModel(t)
	m = pump(t, m, h)
	if !m.Snapshot().ShowCursor {
		t.Fatal("first line should be animating with the cursor shown")
	}

	h.sched.Advance(2 * time.Second)
	m = pump(t, m, h)
	if got := m.Snapshot().Revealed; got != 2 {
		t.Fatalf("revealed = %d, want 2", got)
	}
	content := strings.Join(m.screen.Lines(), "\n")
	for _, want := range []string{"$ nmap -sV target", "⟳ scanning ports", cursorGlyph} {
		if !strings.Contains(content, want) {
			t.Errorf("screen missing %q:\n%s", want, content)
		}
	}
}

func TestUpdate_StaleSnapshotDropped(t *testing.T) {
	m, h := newTestModel(t)
	m = pump(t, m, h)
	old := m.Snapshot()

	h.sched.Advance(time.Second)
	m = pump(t, m, h)

	updated, _ := m.Update(snapshotMsg(old))
	if got := updated.(Model).Snapshot().Version; got != m.Snapshot().Version {
		t.Errorf("stale snapshot replaced version %d with %d", m.Snapshot().Version, got)
	}
}

func TestUpdate_SwitchDemo(t *testing.T) {
	m, h := newTestModel(t)
	m = pump(t, m, h)
	h.sched.Advance(2 * time.Second)

	m = press(m, "tab")
	if m.Active() != 1 {
		t.Fatalf("active = %d, want 1", m.Active())
	}
	snap := m.Snapshot()
	if snap.Total != 2 || snap.LoopIteration != 0 || snap.Revealed != 0 {
		t.Errorf("switch should start the chat demo fresh: %+v", snap)
	}
	if h.sched.Pending() != 1 {
		t.Errorf("pending timers after switch = %d, want 1", h.sched.Pending())
	}

	// The snapshot queued by Replace carries the same version and is dropped.
	updated, _ := m.Update(snapshotMsg(<-h.snaps))
	if updated.(Model).Snapshot().Version != snap.Version {
		t.Error("queued switch snapshot should not advance the version")
	}

	h.sched.Advance(time.Second)
	m = pump(t, m, h)
	if !strings.Contains(strings.Join(m.screen.Lines(), "\n"), "hello there") {
		t.Errorf("chat demo not rendered:\n%s", strings.Join(m.screen.Lines(), "\n"))
	}
}

func TestUpdate_OnSwitch(t *testing.T) {
	demos := testDemos()
	h := newHarness(t, demos[0].Lines)
	var switched []string
	m := New(demos, h.seq, h.snaps, Options{OnSwitch: func(d script.Script) { switched = append(switched, d.Name) }})

	m = press(m, "3")
	m = press(m, "3")
	_ = press(m, "shift+tab")
	if strings.Join(switched, ",") != "metrics,assistant" {
		t.Errorf("OnSwitch calls = %v, want [metrics assistant]", switched)
	}
}

func TestUpdate_SwitchKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"next", []string{"tab"}, 1},
		{"next vim", []string{"l"}, 1},
		{"next arrow", []string{"right"}, 1},
		{"wraps back", []string{"shift+tab"}, 2},
		{"prev vim", []string{"h"}, 2},
		{"jump", []string{"3"}, 2},
		{"jump out of range", []string{"9"}, 0},
		{"jump then prev", []string{"2", "h"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			for _, k := range tt.keys {
				m = press(m, k)
			}
			if m.Active() != tt.want {
				t.Errorf("active = %d, want %d", m.Active(), tt.want)
			}
		})
	}
}

func TestUpdate_Restart(t *testing.T) {
	m, h := newTestModel(t)
	h.sched.Advance(2 * time.Second)
	m = pump(t, m, h)

	m = press(m, "r")
	if got := m.Snapshot().Revealed; got != 0 {
		t.Errorf("revealed after restart = %d, want 0", got)
	}
	if h.sched.Pending() != 1 {
		t.Errorf("pending timers after restart = %d, want 1", h.sched.Pending())
	}
}

func TestUpdate_Quit(t *testing.T) {
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		m, _ := newTestModel(t)
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s should quit", k.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should return tea.Quit", k.String())
		}
	}
}

func TestUpdate_Blink(t *testing.T) {
	demos := testDemos()
	h := newHarness(t, demos[0].Lines)
	m := New(demos, h.seq, h.snaps, Options{CursorBlink: 500 * time.Millisecond})
	h.seq.Start()
	m = pump(t, m, h)

	updated, cmd := m.Update(blinkMsg(epoch))
	m = updated.(Model)
	if m.cursorOn {
		t.Error("blink should hide the cursor")
	}
	if cmd == nil {
		t.Error("blink should schedule the next blink")
	}
	if strings.Contains(strings.Join(m.screen.Lines(), "\n"), cursorGlyph) {
		t.Error("hidden cursor still drawn")
	}
}

func TestUpdate_Tick(t *testing.T) {
	m, _ := newTestModel(t)
	later := time.Now().Add(time.Minute)
	updated, cmd := m.Update(tickMsg(later))
	if !updated.(Model).now.Equal(later) {
		t.Error("tick should update the clock")
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
}

func TestChartDemo(t *testing.T) {
	demos := testDemos()
	h := newHarness(t, demos[2].Lines)
	m := New(demos, h.seq, h.snaps, Options{Active: 2})
	h.seq.Start()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(Model)

	h.sched.Advance(3 * time.Second)
	m = pump(t, m, h)
	content := strings.Join(m.screen.Lines(), "\n")
	for _, want := range []string{"Q1", "Q2", "revenue up 50%"} {
		if !strings.Contains(content, want) {
			t.Errorf("chart screen missing %q:\n%s", want, content)
		}
	}
}

func TestView(t *testing.T) {
	m, h := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = pump(t, updated.(Model), h)

	view := m.View()
	for _, want := range []string{"TestProject", "Network recon", "PLAYING", "1 recon", "2 assistant", "demo 1/3", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestView_TooSmall(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 50, Height: 10})
	view := updated.(Model).View()
	if !strings.Contains(view, "too small") || !strings.Contains(view, "60x16") {
		t.Errorf("expected resize notice, got %q", view)
	}
}

func TestWaitForSnapshot_Closed(t *testing.T) {
	ch := make(chan sequencer.Snapshot)
	close(ch)
	if _, ok := waitForSnapshot(ch)().(followClosedMsg); !ok {
		t.Error("closed channel should yield followClosedMsg")
	}
}
